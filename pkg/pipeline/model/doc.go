// Package model provides the data structures shared by the pipeline packages.
// It defines the records flowing between stages, the tagged message carried by the
// transfer channels, the stage descriptors, the run state machine and the observer hooks.
package model
