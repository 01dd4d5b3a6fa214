package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"manifest-analyzer/internal/domains/manifest/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the pgx-backed manifest repository
func NewPostgresRepository(pool *pgxpool.Pool) ManifestRepository {
	return &postgresRepository{pool: pool}
}

const manifestColumns = `
	id, user_id, file_name, file_size_bytes, storage_key, status,
	total_items, valid_items, invalid_items, quality_score,
	completeness_score, consistency_score, accuracy_score,
	insights, analysis_summary, created_at, updated_at, analyzed_at`

func scanManifest(row pgx.Row) (*model.Manifest, error) {
	var m model.Manifest
	err := row.Scan(
		&m.ID, &m.UserID, &m.FileName, &m.FileSizeBytes, &m.StorageKey, &m.Status,
		&m.TotalItems, &m.ValidItems, &m.InvalidItems, &m.QualityScore,
		&m.CompletenessScore, &m.ConsistencyScore, &m.AccuracyScore,
		&m.Insights, &m.AnalysisSummary, &m.CreatedAt, &m.UpdatedAt, &m.AnalyzedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrManifestNotFound
		}
		return nil, fmt.Errorf("scan manifest: %w", err)
	}
	return &m, nil
}

func (r *postgresRepository) CreateTx(ctx context.Context, tx pgx.Tx, m *model.Manifest) error {
	query := `
		INSERT INTO manifests (
			id, user_id, file_name, file_size_bytes, storage_key, status,
			total_items, valid_items, invalid_items, quality_score,
			completeness_score, consistency_score, accuracy_score, insights,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := tx.Exec(ctx, query,
		m.ID, m.UserID, m.FileName, m.FileSizeBytes, m.StorageKey, m.Status,
		m.TotalItems, m.ValidItems, m.InvalidItems, m.QualityScore,
		m.CompletenessScore, m.ConsistencyScore, m.AccuracyScore, m.Insights,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert manifest: %w", err)
	}
	return nil
}

// InsertItemsTx bulk-inserts the normalized rows with COPY
func (r *postgresRepository) InsertItemsTx(ctx context.Context, tx pgx.Tx, manifestID uuid.UUID, items []model.ManifestItem) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(items))
	for _, it := range items {
		rows = append(rows, []interface{}{
			manifestID, it.RowIndex, it.Description, it.Brand, it.Category,
			string(it.Condition), it.Quantity, it.Price, it.RetailPrice,
			it.TotalPrice, it.UPC, it.SKU, it.Location, it.Notes,
		})
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"manifest_items"},
		[]string{
			"manifest_id", "row_index", "description", "brand", "category",
			"condition", "quantity", "price", "retail_price",
			"total_price", "upc", "sku", "location", "notes",
		},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy manifest items: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Manifest, error) {
	query := `SELECT ` + manifestColumns + ` FROM manifests WHERE id = $1`
	return scanManifest(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresRepository) GetItems(ctx context.Context, manifestID uuid.UUID) ([]model.ManifestItem, error) {
	query := `
		SELECT row_index, description, brand, category, condition, quantity,
		       price, retail_price, total_price, upc, sku, location, notes
		FROM manifest_items
		WHERE manifest_id = $1
		ORDER BY row_index`

	rows, err := r.pool.Query(ctx, query, manifestID)
	if err != nil {
		return nil, fmt.Errorf("query manifest items: %w", err)
	}
	defer rows.Close()

	var items []model.ManifestItem
	for rows.Next() {
		var it model.ManifestItem
		var condition string
		if err := rows.Scan(
			&it.RowIndex, &it.Description, &it.Brand, &it.Category, &condition,
			&it.Quantity, &it.Price, &it.RetailPrice, &it.TotalPrice,
			&it.UPC, &it.SKU, &it.Location, &it.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan manifest item: %w", err)
		}
		it.Condition = model.Condition(condition)
		items = append(items, it)
	}

	return items, rows.Err()
}

func (r *postgresRepository) List(ctx context.Context, userID uuid.UUID, req model.ListManifestsRequest) ([]model.Manifest, int, error) {
	// uuid.Nil means an admin listing across all users
	where := `WHERE 1=1`
	var args []interface{}
	if userID != uuid.Nil {
		args = append(args, userID)
		where += fmt.Sprintf(` AND user_id = $%d`, len(args))
	}
	if req.Status != "" {
		args = append(args, req.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM manifests `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count manifests: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	query := fmt.Sprintf(`SELECT %s FROM manifests %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		manifestColumns, where, req.Limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query manifests: %w", err)
	}
	defer rows.Close()

	var manifests []model.Manifest
	for rows.Next() {
		m, err := scanManifest(rows)
		if err != nil {
			return nil, 0, err
		}
		manifests = append(manifests, *m)
	}

	return manifests, total, rows.Err()
}

func (r *postgresRepository) UpdateStorageKey(ctx context.Context, id uuid.UUID, key string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE manifests SET storage_key = $2, updated_at = NOW() WHERE id = $1`, id, key)
	if err != nil {
		return fmt.Errorf("update storage key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrManifestNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateAnalysis(ctx context.Context, m *model.Manifest) error {
	query := `
		UPDATE manifests SET
			status = $2,
			quality_score = $3,
			completeness_score = $4,
			consistency_score = $5,
			accuracy_score = $6,
			insights = $7,
			analysis_summary = $8,
			analyzed_at = $9,
			updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		m.ID, m.Status, m.QualityScore,
		m.CompletenessScore, m.ConsistencyScore, m.AccuracyScore,
		m.Insights, m.AnalysisSummary, m.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("update manifest analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrManifestNotFound
	}
	return nil
}

func (r *postgresRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE manifests SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, model.ManifestStatusFailed)
	if err != nil {
		return fmt.Errorf("mark manifest failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrManifestNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// manifest_items has ON DELETE CASCADE on manifest_id
	tag, err := r.pool.Exec(ctx, `DELETE FROM manifests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete manifest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrManifestNotFound
	}
	return nil
}

// DeleteOlderThan purges manifests in a given status older than cutoff and
// returns the purged ids so the caller can remove the stored files.
func (r *postgresRepository) DeleteOlderThan(ctx context.Context, status string, cutoff time.Time) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`DELETE FROM manifests WHERE status = $1 AND created_at < $2 RETURNING id`,
		status, cutoff)
	if err != nil {
		return nil, fmt.Errorf("purge manifests: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan purged id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *postgresRepository) ListStuckPending(ctx context.Context, cutoff time.Time) ([]model.Manifest, error) {
	query := `SELECT ` + manifestColumns + `
		FROM manifests
		WHERE status = $1 AND updated_at < $2
		ORDER BY updated_at
		LIMIT 100`

	rows, err := r.pool.Query(ctx, query, model.ManifestStatusPending, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query stuck manifests: %w", err)
	}
	defer rows.Close()

	var manifests []model.Manifest
	for rows.Next() {
		m, err := scanManifest(rows)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, *m)
	}

	return manifests, rows.Err()
}
