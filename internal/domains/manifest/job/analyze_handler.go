package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"manifest-analyzer/internal/domains/manifest/model"
	"manifest-analyzer/internal/domains/manifest/repository"
	"manifest-analyzer/internal/domains/manifest/validator"
	"manifest-analyzer/internal/shared"
	"manifest-analyzer/pkg/cache"
)

// SummaryGenerator produces the optional prose summary for an analyzed
// manifest. Nil or failing generators degrade to no summary, never to a
// failed task.
type SummaryGenerator interface {
	AnalysisSummary(ctx context.Context, fileName string, totalItems int, qualityScore float64, insights []string) (string, error)
}

// AnalyzeHandler processes manifest:analyze tasks: re-score the persisted
// items, attach insights and an optional AI summary, and flip the manifest
// to analyzed.
type AnalyzeHandler struct {
	repo    repository.ManifestRepository
	cache   cache.Cache
	summary SummaryGenerator
}

func NewAnalyzeHandler(repo repository.ManifestRepository, cacheClient cache.Cache, summary SummaryGenerator) *AnalyzeHandler {
	return &AnalyzeHandler{
		repo:    repo,
		cache:   cacheClient,
		summary: summary,
	}
}

func (h *AnalyzeHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ManifestAnalyzePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid analyze payload: %v: %w", err, asynq.SkipRetry)
	}

	manifestID, err := uuid.Parse(payload.ManifestID)
	if err != nil {
		return fmt.Errorf("invalid manifest id %q: %w", payload.ManifestID, asynq.SkipRetry)
	}

	if err := h.process(ctx, manifestID, payload); err != nil {
		// On the final attempt flip the manifest to failed so the requeue
		// job stops resurrecting it.
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		if retried >= maxRetry {
			if markErr := h.repo.MarkFailed(ctx, manifestID); markErr != nil {
				log.Warn().Err(markErr).Str("manifest_id", payload.ManifestID).Msg("failed to mark manifest failed")
			}
		}
		return err
	}
	return nil
}

func (h *AnalyzeHandler) process(ctx context.Context, manifestID uuid.UUID, payload shared.ManifestAnalyzePayload) error {
	manifest, err := h.repo.GetByID(ctx, manifestID)
	if err != nil {
		if errors.Is(err, repository.ErrManifestNotFound) {
			// deleted between enqueue and processing
			log.Warn().Str("manifest_id", payload.ManifestID).Msg("manifest gone, dropping analysis task")
			return nil
		}
		return err
	}

	if manifest.Status == model.ManifestStatusAnalyzed {
		return nil
	}

	items, err := h.repo.GetItems(ctx, manifestID)
	if err != nil {
		return err
	}

	quality := validator.AnalyzeDataQuality(items)

	manifest.Status = model.ManifestStatusAnalyzed
	manifest.QualityScore = quality.OverallScore
	manifest.CompletenessScore = quality.CompletenessScore
	manifest.ConsistencyScore = quality.ConsistencyScore
	manifest.AccuracyScore = quality.AccuracyScore
	manifest.Insights = pq.StringArray(quality.Insights)
	now := time.Now().UTC()
	manifest.AnalyzedAt = &now

	if h.summary != nil {
		summaryCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		text, err := h.summary.AnalysisSummary(summaryCtx, manifest.FileName, manifest.TotalItems, quality.OverallScore, quality.Insights)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("manifest_id", payload.ManifestID).Msg("summary generator unavailable")
		} else {
			manifest.AnalysisSummary = &text
		}
	}

	if err := h.repo.UpdateAnalysis(ctx, manifest); err != nil {
		return err
	}

	if err := h.cache.Delete(ctx, fmt.Sprintf("manifest:detail:%s", manifestID)); err != nil {
		log.Debug().Err(err).Msg("manifest cache invalidation failed")
	}

	log.Info().
		Str("manifest_id", payload.ManifestID).
		Float64("quality_score", quality.OverallScore).
		Msg("manifest analyzed")

	return nil
}
