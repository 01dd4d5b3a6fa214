package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"manifest-analyzer/internal/domains/manifest/model"
	"manifest-analyzer/internal/domains/manifest/repository"
	"manifest-analyzer/internal/domains/manifest/validator"
	"manifest-analyzer/internal/infrastructure/storage"
	"manifest-analyzer/internal/shared"
	"manifest-analyzer/internal/shared/utils"
	"manifest-analyzer/pkg/cache"
	pkgdb "manifest-analyzer/pkg/database"
)

const (
	detailCacheTTL = 10 * time.Minute
	detailCacheKey = "manifest:detail:%s"
)

// StructureError is returned when the whole-file structural pre-check
// rejects an upload. It carries the full report for the response body.
type StructureError struct {
	Result *model.FileValidationResult
}

func (e *StructureError) Error() string {
	if len(e.Result.Errors) > 0 {
		return e.Result.Errors[0]
	}
	return "file structure validation failed"
}

// ManifestService is the business logic for manifest ingestion
type ManifestService interface {
	Upload(ctx context.Context, file *multipart.FileHeader, userID uuid.UUID) (*model.UploadManifestResponse, error)
	ValidateContent(ctx context.Context, content string) (*model.FileValidationResult, *model.ParseResult, error)
	GetManifest(ctx context.Context, id, userID uuid.UUID) (*model.ManifestDetailResponse, error)
	GetQuality(ctx context.Context, id, userID uuid.UUID) (*model.QualityReport, error)
	DownloadFile(ctx context.Context, id, userID uuid.UUID) ([]byte, string, error)
	List(ctx context.Context, userID uuid.UUID, req model.ListManifestsRequest) ([]model.Manifest, int, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type manifestService struct {
	repo        repository.ManifestRepository
	pool        *pgxpool.Pool
	minio       *storage.MinIOStorage
	cache       cache.Cache
	asynqClient *asynq.Client
	maxBytes    int64
}

// NewManifestService wires the manifest ingestion service
func NewManifestService(
	repo repository.ManifestRepository,
	pool *pgxpool.Pool,
	minio *storage.MinIOStorage,
	cacheClient cache.Cache,
	asynqClient *asynq.Client,
	maxFileSizeMB int,
) ManifestService {
	return &manifestService{
		repo:        repo,
		pool:        pool,
		minio:       minio,
		cache:       cacheClient,
		asynqClient: asynqClient,
		maxBytes:    int64(maxFileSizeMB) * 1024 * 1024,
	}
}

// Upload ingests one manifest file: structural pre-check, parse, persist,
// archive the original, then hand analysis to the worker.
func (s *manifestService) Upload(ctx context.Context, file *multipart.FileHeader, userID uuid.UUID) (*model.UploadManifestResponse, error) {
	if file.Size > s.maxBytes {
		return nil, fmt.Errorf("file is %s, exceeds the %s upload limit",
			utils.FormatBytes(file.Size), utils.FormatBytes(s.maxBytes))
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	content, err := ContentFromUpload(file.Filename, data)
	if err != nil {
		return nil, err
	}

	structure := validator.ValidateCSVStructure(content)
	if !structure.IsValid {
		return nil, &StructureError{Result: &structure}
	}

	result, err := ParseManifest(content)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	manifest := &model.Manifest{
		ID:                uuid.New(),
		UserID:            userID,
		FileName:          file.Filename,
		FileSizeBytes:     file.Size,
		Status:            model.ManifestStatusPending,
		TotalItems:        result.Summary.TotalItems,
		ValidItems:        result.Summary.ValidItems,
		InvalidItems:      result.Summary.InvalidItems,
		QualityScore:      result.Quality.OverallScore,
		CompletenessScore: result.Quality.CompletenessScore,
		ConsistencyScore:  result.Quality.ConsistencyScore,
		AccuracyScore:     result.Quality.AccuracyScore,
		Insights:          pq.StringArray(result.Quality.Insights),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = pkgdb.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.repo.CreateTx(ctx, tx, manifest); err != nil {
			return err
		}
		return s.repo.InsertItemsTx(ctx, tx, manifest.ID, result.Items)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist manifest: %w", err)
	}

	// Archive the original file. Not fatal: the parsed rows are already
	// persisted, the archive is for re-processing and audits.
	key := storage.ManifestKey(manifest.ID.String(), file.Filename)
	if _, err := s.minio.Upload(ctx, key, data, "text/csv"); err != nil {
		log.Warn().Err(err).Str("manifest_id", manifest.ID.String()).Msg("failed to archive manifest file")
	} else {
		manifest.StorageKey = &key
		if err := s.repo.UpdateStorageKey(ctx, manifest.ID, key); err != nil {
			log.Warn().Err(err).Str("manifest_id", manifest.ID.String()).Msg("failed to record storage key")
		}
	}

	s.enqueueAnalysis(manifest.ID, userID)

	log.Info().
		Str("manifest_id", manifest.ID.String()).
		Str("file_name", file.Filename).
		Int("total_items", result.Summary.TotalItems).
		Int("valid_items", result.Summary.ValidItems).
		Msg("manifest uploaded")

	return &model.UploadManifestResponse{
		Manifest: manifest,
		Summary:  &result.Summary,
		Quality:  &result.Quality,
	}, nil
}

func (s *manifestService) enqueueAnalysis(manifestID, userID uuid.UUID) {
	payload, err := json.Marshal(shared.ManifestAnalyzePayload{
		ManifestID: manifestID.String(),
		UserID:     userID.String(),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal analyze payload")
		return
	}

	task := asynq.NewTask(shared.TypeManifestAnalyze, payload)
	if _, err := s.asynqClient.Enqueue(task,
		asynq.Queue(shared.QueueManifests),
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
	); err != nil {
		// The requeue job will pick the manifest up later
		log.Warn().Err(err).Str("manifest_id", manifestID.String()).Msg("failed to enqueue analysis task")
	}
}

// ValidateContent runs the structural check and, if it passes, a full dry
// parse. Nothing is persisted.
func (s *manifestService) ValidateContent(ctx context.Context, content string) (*model.FileValidationResult, *model.ParseResult, error) {
	structure := validator.ValidateCSVStructure(content)
	if !structure.IsValid {
		return &structure, nil, nil
	}

	result, err := ParseManifest(content)
	if err != nil {
		return &structure, nil, err
	}

	return &structure, result, nil
}

// GetManifest loads the full detail, serving from cache when possible.
// A uuid.Nil userID bypasses the ownership check (admin access).
func (s *manifestService) GetManifest(ctx context.Context, id, userID uuid.UUID) (*model.ManifestDetailResponse, error) {
	cacheKey := fmt.Sprintf(detailCacheKey, id)

	var cached model.ManifestDetailResponse
	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		if userID == uuid.Nil || cached.Manifest.UserID == userID {
			return &cached, nil
		}
		return nil, repository.ErrManifestNotFound
	}

	manifest, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if userID != uuid.Nil && manifest.UserID != userID {
		// do not reveal other users' manifests
		return nil, repository.ErrManifestNotFound
	}

	items, err := s.repo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &model.ManifestDetailResponse{
		Manifest: manifest,
		Items:    items,
	}

	if err := s.cache.Set(ctx, cacheKey, detail, detailCacheTTL); err != nil {
		log.Debug().Err(err).Msg("manifest detail cache write failed")
	}

	return detail, nil
}

func (s *manifestService) GetQuality(ctx context.Context, id, userID uuid.UUID) (*model.QualityReport, error) {
	manifest, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if userID != uuid.Nil && manifest.UserID != userID {
		return nil, repository.ErrManifestNotFound
	}

	return &model.QualityReport{
		OverallScore:      manifest.QualityScore,
		CompletenessScore: manifest.CompletenessScore,
		ConsistencyScore:  manifest.ConsistencyScore,
		AccuracyScore:     manifest.AccuracyScore,
		Insights:          []string(manifest.Insights),
	}, nil
}

// DownloadFile returns the archived original upload. Manifests whose archive
// write failed at upload time have no storage key and report not found.
func (s *manifestService) DownloadFile(ctx context.Context, id, userID uuid.UUID) ([]byte, string, error) {
	manifest, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if userID != uuid.Nil && manifest.UserID != userID {
		return nil, "", repository.ErrManifestNotFound
	}
	if manifest.StorageKey == nil {
		return nil, "", repository.ErrManifestNotFound
	}

	data, err := s.minio.Download(ctx, *manifest.StorageKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download archived file: %w", err)
	}

	return data, manifest.FileName, nil
}

func (s *manifestService) List(ctx context.Context, userID uuid.UUID, req model.ListManifestsRequest) ([]model.Manifest, int, error) {
	req.Normalize()
	return s.repo.List(ctx, userID, req)
}

func (s *manifestService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	manifest, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if userID != uuid.Nil && manifest.UserID != userID {
		return repository.ErrManifestNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.minio.DeleteByPrefix(ctx, "manifests/"+id.String()+"/"); err != nil {
		log.Warn().Err(err).Str("manifest_id", id.String()).Msg("failed to delete archived manifest files")
	}

	if err := s.cache.Delete(ctx, fmt.Sprintf(detailCacheKey, id)); err != nil {
		log.Debug().Err(err).Msg("manifest cache invalidation failed")
	}

	return nil
}
