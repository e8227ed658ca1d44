package media

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	CreateAsset(ctx context.Context, a *Asset) error
	GetAsset(ctx context.Context, id string) (*Asset, error)
	ListAssets(ctx context.Context) ([]*Asset, error)
	UpdateAssetDuration(ctx context.Context, id string, duration float64) error
	CountAssets(ctx context.Context) (int, error)

	CreateJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, id string) (*Job, error)
	ListJobs(ctx context.Context, limit int) ([]*Job, error)
	ListPendingJobs(ctx context.Context) ([]*Job, error)
	UpdateJobStatus(ctx context.Context, id, status, errorMsg string) error

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateAsset(ctx context.Context, a *Asset) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assets (id, kind, display_name, source_handle, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, string(a.Kind), a.DisplayName, a.SourceHandle, a.Duration, a.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetAsset(ctx context.Context, id string) (*Asset, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, display_name, source_handle, duration, created_at
		FROM assets WHERE id = ?
	`, id)
	return scanAsset(row)
}

func (r *SQLiteRepository) ListAssets(ctx context.Context) ([]*Asset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, display_name, source_handle, duration, created_at
		FROM assets ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*Asset
	for rows.Next() {
		var a Asset
		var kind, createdAt string
		if err := rows.Scan(&a.ID, &kind, &a.DisplayName, &a.SourceHandle, &a.Duration, &createdAt); err != nil {
			return nil, err
		}
		a.Kind = Kind(kind)
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		assets = append(assets, &a)
	}
	return assets, rows.Err()
}

func (r *SQLiteRepository) UpdateAssetDuration(ctx context.Context, id string, duration float64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE assets SET duration = ? WHERE id = ?`, duration, id)
	return err
}

func (r *SQLiteRepository) CountAssets(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets`).Scan(&count)
	return count, err
}

func scanAsset(row *sql.Row) (*Asset, error) {
	var a Asset
	var kind, createdAt string
	err := row.Scan(&a.ID, &kind, &a.DisplayName, &a.SourceHandle, &a.Duration, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Kind = Kind(kind)
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &a, nil
}

func (r *SQLiteRepository) CreateJob(ctx context.Context, j *Job) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO jobs (id, type, status, asset_id, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, j.ID, j.Type, j.Status, j.AssetID, j.Error, j.CreatedAt.Format(time.RFC3339), j.UpdatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetJob(ctx context.Context, id string) (*Job, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, type, status, asset_id, error, created_at, updated_at
		FROM jobs WHERE id = ?
	`, id)
	var j Job
	var createdAt, updatedAt string
	err := row.Scan(&j.ID, &j.Type, &j.Status, &j.AssetID, &j.Error, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	j.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	j.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &j, nil
}

func (r *SQLiteRepository) ListJobs(ctx context.Context, limit int) ([]*Job, error) {
	return r.queryJobs(ctx, `
		SELECT id, type, status, asset_id, error, created_at, updated_at
		FROM jobs ORDER BY created_at DESC LIMIT ?
	`, limit)
}

func (r *SQLiteRepository) ListPendingJobs(ctx context.Context) ([]*Job, error) {
	return r.queryJobs(ctx, `
		SELECT id, type, status, asset_id, error, created_at, updated_at
		FROM jobs WHERE status = ? ORDER BY created_at ASC
	`, JobStatusPending)
}

func (r *SQLiteRepository) queryJobs(ctx context.Context, query string, args ...any) ([]*Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		var j Job
		var createdAt, updatedAt string
		if err := rows.Scan(&j.ID, &j.Type, &j.Status, &j.AssetID, &j.Error, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		j.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		j.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		jobs = append(jobs, &j)
	}
	return jobs, rows.Err()
}

func (r *SQLiteRepository) UpdateJobStatus(ctx context.Context, id, status, errorMsg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, error = ?, updated_at = ? WHERE id = ?
	`, status, errorMsg, time.Now().Format(time.RFC3339), id)
	return err
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
