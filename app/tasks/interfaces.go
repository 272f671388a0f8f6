package tasks

import (
	"context"

	"github.com/lysyi3m/yearbook/app/year"
)

// TaskSchedulerInterface defines the interface for background task processing.
// Used by the main application to warm the year memo at startup.
//
//	scheduler := NewScheduler(yearService, site.Presets, workerCount)
//	scheduler.Start()
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// YearWarmer is the part of the year service the warm-up tasks need.
type YearWarmer interface {
	GetYearData(ctx context.Context, y int) *year.Data
	Contains(y int) bool
	Forget(y int)
}

var _ YearWarmer = (*year.Service)(nil)
