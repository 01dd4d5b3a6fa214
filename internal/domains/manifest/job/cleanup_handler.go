package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"manifest-analyzer/internal/domains/manifest/model"
	"manifest-analyzer/internal/domains/manifest/repository"
	"manifest-analyzer/internal/infrastructure/storage"
	"manifest-analyzer/internal/shared"
)

// CleanupHandler purges failed manifests past their retention window,
// including their archived source files.
type CleanupHandler struct {
	repo  repository.ManifestRepository
	minio *storage.MinIOStorage
}

func NewCleanupHandler(repo repository.ManifestRepository, minio *storage.MinIOStorage) *CleanupHandler {
	return &CleanupHandler{repo: repo, minio: minio}
}

func (h *CleanupHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ManifestCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid cleanup payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.RetentionDays <= 0 {
		payload.RetentionDays = 90
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -payload.RetentionDays)
	ids, err := h.repo.DeleteOlderThan(ctx, model.ManifestStatusFailed, cutoff)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := h.minio.DeleteByPrefix(ctx, "manifests/"+id.String()+"/"); err != nil {
			log.Warn().Err(err).Str("manifest_id", id.String()).Msg("failed to delete archived files for purged manifest")
		}
	}

	log.Info().
		Int("purged", len(ids)).
		Int("retention_days", payload.RetentionDays).
		Msg("manifest cleanup completed")

	return nil
}
