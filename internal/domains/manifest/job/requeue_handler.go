package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"manifest-analyzer/internal/domains/manifest/repository"
	"manifest-analyzer/internal/shared"
)

// RequeueHandler re-enqueues analysis for manifests stuck in pending.
// Enqueue failures at upload time and crashed workers both land here.
type RequeueHandler struct {
	repo   repository.ManifestRepository
	client *asynq.Client
}

func NewRequeueHandler(repo repository.ManifestRepository, client *asynq.Client) *RequeueHandler {
	return &RequeueHandler{repo: repo, client: client}
}

func (h *RequeueHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ManifestRequeuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid requeue payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.StuckAfterMinutes <= 0 {
		payload.StuckAfterMinutes = 30
	}

	cutoff := time.Now().UTC().Add(-time.Duration(payload.StuckAfterMinutes) * time.Minute)
	stuck, err := h.repo.ListStuckPending(ctx, cutoff)
	if err != nil {
		return err
	}

	requeued := 0
	for _, m := range stuck {
		body, err := json.Marshal(shared.ManifestAnalyzePayload{
			ManifestID: m.ID.String(),
			UserID:     m.UserID.String(),
		})
		if err != nil {
			log.Error().Err(err).Str("manifest_id", m.ID.String()).Msg("failed to marshal analyze payload")
			continue
		}

		_, err = h.client.Enqueue(
			asynq.NewTask(shared.TypeManifestAnalyze, body),
			asynq.Queue(shared.QueueManifests),
			asynq.MaxRetry(3),
			asynq.Timeout(2*time.Minute),
		)
		if err != nil {
			log.Warn().Err(err).Str("manifest_id", m.ID.String()).Msg("failed to requeue stuck manifest")
			continue
		}
		requeued++
	}

	if len(stuck) > 0 {
		log.Info().
			Int("stuck", len(stuck)).
			Int("requeued", requeued).
			Msg("stuck manifests requeued")
	}

	return nil
}
