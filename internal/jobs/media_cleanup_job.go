package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/repository"
	"github.com/iadityaojha/Ai-Based-Multiple-Social-Media-Automation/internal/service"
)

// MediaCleanupJob sweeps uploaded images that no post references anymore.
// Fresh uploads get a 24h grace period so a file is never deleted between
// upload and post creation.
type MediaCleanupJob struct {
	ma      repository.MediaAssetRepository
	storage *service.StorageService
}

func NewMediaCleanupJob(ma repository.MediaAssetRepository, storage *service.StorageService) *MediaCleanupJob {
	return &MediaCleanupJob{
		ma:      ma,
		storage: storage,
	}
}

func (c *MediaCleanupJob) CleanupOrphans() {
	ctx := context.Background()

	cutoff := time.Now().Add(-24 * time.Hour)
	assets, err := c.ma.ListOrphaned(ctx, cutoff)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	removed := 0
	for _, asset := range assets {
		if err := c.storage.DeleteObject(ctx, asset.FileName); err != nil {
			slog.Info("Unable to delete stored object", "file_name", asset.FileName)
			continue
		}
		if err := c.ma.Remove(ctx, asset.ID); err != nil {
			slog.Info(err.Error())
			continue
		}
		removed++
	}

	if removed > 0 {
		slog.Info("orphaned media cleaned up", "count", removed)
	}
}
