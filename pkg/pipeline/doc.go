// Package pipeline provides a two-stage concurrent processing pipeline.
//
// A producer submits payloads to stage A, whose records feed stage B, whose
// records are collected by a sink. Every record carries the time it was received
// and the time each stage finished with it, so the latency of every item can be
// rebuilt once the run is over.
//
// The stages run in their own goroutines and only talk through transfer queues.
// Shutdown is cooperative: Stop pushes a single shutdown marker behind the
// submitted items, stage A forwards it once it has handled everything before it,
// and stage B returns when it pops it. No item submitted before Stop is dropped.
// Stop then waits for both stages and drains the final queue.
//
// The pipeline stops on the first error. The error names the failing stage and
// the sequence number of the item, never its payload.
//
// A run goes through created, running, draining and terminated, in that order.
// A terminated pipeline cannot be restarted.
package pipeline
