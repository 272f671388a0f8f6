package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/yearbook/app/wiki"
)

type WarmYearTask struct {
	Task
	years YearWarmer
}

func NewWarmYearTask(y int, years YearWarmer) *WarmYearTask {
	return &WarmYearTask{
		Task:  NewTask(TaskTypeWarmYear, y),
		years: years,
	}
}

func (t *WarmYearTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if t.years.Contains(t.Year) {
		slog.Debug("Year already memoized, skipping", "year", t.Year)
		return nil
	}

	data := t.years.GetYearData(ctx, t.Year)
	if data.Degraded() {
		// Nothing could be fetched; leave the year to a retry or a visitor.
		t.years.Forget(t.Year)
		return fmt.Errorf("failed to compute year %d: upstream returned no data", t.Year)
	}

	slog.Info("Task completed",
		"type", string(t.Type),
		"year", t.Year,
		"events", len(data.Sections[wiki.Events]),
		"births", len(data.Sections[wiki.Births]),
		"deaths", len(data.Sections[wiki.Deaths]),
		"duration", t.GetDuration().String())

	return nil
}
