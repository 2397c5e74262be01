package model

import "time"

// RawItem is an external input tagged with its receipt time.
type RawItem struct {
	Seq        uint64    `json:"seq"`
	Payload    string    `json:"payload"`
	ReceivedAt time.Time `json:"received_at"`
}

// Sequence returns the position of the item in the run, starting at 1.
func (r RawItem) Sequence() uint64 { return r.Seq }

// StageAResult is produced by stage A from a RawItem.
type StageAResult struct {
	Seq             uint64    `json:"seq"`
	OriginalPayload string    `json:"original_payload"`
	AOutput         string    `json:"a_output"`
	ReceivedAt      time.Time `json:"received_at"`
	ProcessedByAAt  time.Time `json:"processed_by_a_at"`
}

func (r StageAResult) Sequence() uint64 { return r.Seq }

// StageBResult is the terminal, fully tagged record.
type StageBResult struct {
	StageAResult
	BOutput        string    `json:"b_output"`
	ProcessedByBAt time.Time `json:"processed_by_b_at"`
}

// StageALatency is the time between receipt and the end of stage A.
func (r StageBResult) StageALatency() time.Duration {
	return r.ProcessedByAAt.Sub(r.ReceivedAt)
}

// StageBLatency is the time between the end of stage A and the end of stage B.
func (r StageBResult) StageBLatency() time.Duration {
	return r.ProcessedByBAt.Sub(r.ProcessedByAAt)
}

// Latency is the end-to-end pipeline latency of the record.
func (r StageBResult) Latency() time.Duration {
	return r.ProcessedByBAt.Sub(r.ReceivedAt)
}
