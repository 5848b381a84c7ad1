package ports

import (
	"surveyclean/domain/stage"
)

// StageObserver receives progress from the cleaning pipeline.
// The pipeline behaves identically with or without an observer.
type StageObserver interface {
	StageCompleted(result stage.StageResult)
	Info(format string, args ...interface{})
}

// NopObserver discards every event
type NopObserver struct{}

func (NopObserver) StageCompleted(stage.StageResult) {}
func (NopObserver) Info(string, ...interface{})      {}
