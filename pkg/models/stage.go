package models

import "fmt"

// Stage identifies one of the ordered states a review item moves through.
type Stage string

const (
	StageToday     Stage = "today"
	StageTomorrow  Stage = "tomorrow"
	StageDay3      Stage = "day3"
	StageWeek1     Stage = "week1"
	StageWeek2     Stage = "week2"
	StageMonth1    Stage = "month1"
	StageCompleted Stage = "completed"
)

// StageOrder lists all stages in progression order, completed last.
var StageOrder = []Stage{
	StageToday,
	StageTomorrow,
	StageDay3,
	StageWeek1,
	StageWeek2,
	StageMonth1,
	StageCompleted,
}

// Index returns the position of the stage in StageOrder, or -1 for unknown stages.
func (s Stage) Index() int {
	for i, stage := range StageOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// Terminal reports whether the stage accepts no further transitions.
func (s Stage) Terminal() bool {
	return s == StageCompleted
}

// ParseStage converts a stored stage name into a Stage.
func ParseStage(name string) (Stage, error) {
	s := Stage(name)
	if s.Index() < 0 {
		return "", fmt.Errorf("unknown stage %q", name)
	}
	return s, nil
}
