package model

type stageType string

const (
	ProducerStageType  stageType = "producer"
	TransformStageType stageType = "transform"
	SinkStageType      stageType = "sink"
)

// StageInfo describes one vertex of the pipeline.
type StageInfo struct {
	Type     stageType
	Name     string
	Capacity int
}

var (
	ProducerStage = &StageInfo{Type: ProducerStageType, Name: "producer"}
	StageA        = &StageInfo{Type: TransformStageType, Name: "stage-a"}
	StageB        = &StageInfo{Type: TransformStageType, Name: "stage-b"}
	SinkStage     = &StageInfo{Type: SinkStageType, Name: "sink"}
)
