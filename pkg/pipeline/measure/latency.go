package measure

import (
	"time"

	"github.com/askiada/go-twostage/pkg/pipeline/model"
)

// Stats summarises a set of durations.
type Stats struct {
	Min  time.Duration `json:"min"`
	Max  time.Duration `json:"max"`
	Mean time.Duration `json:"mean"`
}

// Summary is the provenance latency of a run, rebuilt from its records.
type Summary struct {
	Count  int   `json:"count"`
	StageA Stats `json:"stage_a"`
	StageB Stats `json:"stage_b"`
	Total  Stats `json:"total"`
}

// Summarize computes the latency statistics of records.
func Summarize(records []model.StageBResult) Summary {
	summary := Summary{Count: len(records)}
	if len(records) == 0 {
		return summary
	}
	stageA := make([]time.Duration, len(records))
	stageB := make([]time.Duration, len(records))
	total := make([]time.Duration, len(records))
	for i, record := range records {
		stageA[i] = record.StageALatency()
		stageB[i] = record.StageBLatency()
		total[i] = record.Latency()
	}
	summary.StageA = stats(stageA)
	summary.StageB = stats(stageB)
	summary.Total = stats(total)

	return summary
}

func stats(durations []time.Duration) Stats {
	st := Stats{Min: durations[0], Max: durations[0]}
	var sum time.Duration
	for _, d := range durations {
		sum += d
		if d < st.Min {
			st.Min = d
		}
		if d > st.Max {
			st.Max = d
		}
	}
	st.Mean = sum / time.Duration(len(durations))

	return st
}
