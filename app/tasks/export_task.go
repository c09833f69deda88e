package tasks

import (
	"context"
	"log/slog"

	"github.com/V1K1NGM4N/file-converter-buddy/app/export"
)

// ExportTask runs one bulk image export. It is not retried as a whole:
// the exporter already tolerates per-item failures, and re-running a
// half-finished batch would download everything again.
type ExportTask struct {
	Task
	exporter *export.Exporter
	registry *JobRegistry
	items    []export.Item
	opts     export.Options
}

func NewExportTask(exporter *export.Exporter, registry *JobRegistry, items []export.Item, opts export.Options) *ExportTask {
	return &ExportTask{
		Task:     NewTask(TaskTypeExport, 0),
		exporter: exporter,
		registry: registry,
		items:    items,
		opts:     opts,
	}
}

func (t *ExportTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		t.registry.SetFailed(t.ID, ctx.Err().Error())
		return ctx.Err()
	default:
	}

	t.registry.SetRunning(t.ID)

	result, err := t.exporter.Run(ctx, t.items, t.opts)
	if err != nil {
		t.registry.SetFailed(t.ID, err.Error())
		return err
	}

	t.registry.SetCompleted(t.ID, result)

	slog.Info("Task completed",
		"type", string(TaskTypeExport),
		"id", t.ID,
		"duration", t.GetDuration(),
		"succeeded", result.Succeeded,
		"failed", result.Failed)

	return nil
}
