package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"manifest-analyzer/internal/domains/manifest/model"
)

var ErrManifestNotFound = errors.New("manifest not found")

// ManifestRepository is the data access contract for manifests and their
// normalized items. Writes that span both tables take a pgx.Tx so the
// service can keep them atomic.
type ManifestRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, m *model.Manifest) error
	InsertItemsTx(ctx context.Context, tx pgx.Tx, manifestID uuid.UUID, items []model.ManifestItem) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.Manifest, error)
	GetItems(ctx context.Context, manifestID uuid.UUID) ([]model.ManifestItem, error)
	List(ctx context.Context, userID uuid.UUID, req model.ListManifestsRequest) ([]model.Manifest, int, error)

	UpdateStorageKey(ctx context.Context, id uuid.UUID, key string) error
	UpdateAnalysis(ctx context.Context, m *model.Manifest) error
	MarkFailed(ctx context.Context, id uuid.UUID) error

	Delete(ctx context.Context, id uuid.UUID) error
	DeleteOlderThan(ctx context.Context, status string, cutoff time.Time) ([]uuid.UUID, error)
	ListStuckPending(ctx context.Context, cutoff time.Time) ([]model.Manifest, error)
}
