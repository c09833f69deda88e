package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/V1K1NGM4N/file-converter-buddy/app/database"
)

// PruneCacheTask removes expired fetch-cache entries.
type PruneCacheTask struct {
	Task
	cacheRepo *database.FetchCacheRepository
}

func NewPruneCacheTask(cacheRepo *database.FetchCacheRepository) *PruneCacheTask {
	return &PruneCacheTask{
		Task:      NewTask(TaskTypePruneCache, DefaultMaxRetries),
		cacheRepo: cacheRepo,
	}
}

func (t *PruneCacheTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	removed, err := t.cacheRepo.Prune()
	if err != nil {
		return fmt.Errorf("failed to prune fetch cache: %w", err)
	}

	if removed > 0 {
		slog.Debug("Fetch cache pruned", "removed", removed)
	}

	return nil
}
