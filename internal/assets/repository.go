package assets

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

type Repository interface {
	CreateSource(ctx context.Context, source *Source) error
	GetSource(ctx context.Context, id string) (*Source, error)
	GetSourceByLocation(ctx context.Context, kind, root, bucket, prefix string) (*Source, error)
	ListSources(ctx context.Context) ([]*Source, error)
	DeleteSource(ctx context.Context, id string) error
	UpdateSourceScanned(ctx context.Context, id string, at time.Time) error

	UpsertAsset(ctx context.Context, asset *Asset) error
	GetAsset(ctx context.Context, id string) (*Asset, error)
	ListAssets(ctx context.Context) ([]*Asset, error)
	ListAssetsBySource(ctx context.Context, sourceID string) ([]*Asset, error)
	ListAssetsByProbeStatus(ctx context.Context, status string, limit int) ([]*Asset, error)
	PruneAssets(ctx context.Context, sourceID string, keepKeys []string) (int, error)
	UpdateAssetURL(ctx context.Context, id, url string) error
	UpdateAssetProbe(ctx context.Context, id, status string, durationSec *float64) error
	CountAssets(ctx context.Context) (int, error)

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateSource(ctx context.Context, s *Source) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sources (id, kind, root, bucket, prefix, region, created_at, last_scan_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL)
	`, s.ID, s.Kind, nullString(s.Root), nullString(s.Bucket), nullString(s.Prefix),
		nullString(s.Region), s.CreatedAt.Format(time.RFC3339))
	return err
}

const sourceColumns = "id, kind, root, bucket, prefix, region, created_at, last_scan_at"

func (r *SQLiteRepository) GetSource(ctx context.Context, id string) (*Source, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+sourceColumns+" FROM sources WHERE id = ?", id)
	return scanSource(row)
}

func (r *SQLiteRepository) GetSourceByLocation(ctx context.Context, kind, root, bucket, prefix string) (*Source, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sourceColumns+` FROM sources
		WHERE kind = ? AND coalesce(root, '') = ? AND coalesce(bucket, '') = ? AND coalesce(prefix, '') = ?
	`, kind, root, bucket, prefix)
	return scanSource(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (*Source, error) {
	var s Source
	var root, bucket, prefix, region, lastScan sql.NullString
	var createdAt string

	err := row.Scan(&s.ID, &s.Kind, &root, &bucket, &prefix, &region, &createdAt, &lastScan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.Root = root.String
	s.Bucket = bucket.String
	s.Prefix = prefix.String
	s.Region = region.String
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if lastScan.Valid {
		if t, err := time.Parse(time.RFC3339, lastScan.String); err == nil {
			s.LastScanAt = &t
		}
	}
	return &s, nil
}

func (r *SQLiteRepository) ListSources(ctx context.Context) ([]*Source, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+sourceColumns+" FROM sources ORDER BY created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []*Source
	for rows.Next() {
		s, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

func (r *SQLiteRepository) DeleteSource(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	return err
}

func (r *SQLiteRepository) UpdateSourceScanned(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sources SET last_scan_at = ? WHERE id = ?", at.Format(time.RFC3339), id)
	return err
}

const assetColumns = "id, source_id, kind, key, display_name, url, content_type, size_bytes, duration_sec, probe_status, created_at, updated_at"

// UpsertAsset inserts the asset, or refreshes size, URL, and timestamps for
// an existing (source, key) pair. Identity and probe results survive a
// re-listing.
func (r *SQLiteRepository) UpsertAsset(ctx context.Context, a *Asset) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assets (id, source_id, kind, key, display_name, url, content_type, size_bytes, duration_sec, probe_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_id, key) DO UPDATE SET
			display_name = excluded.display_name,
			url = excluded.url,
			content_type = excluded.content_type,
			size_bytes = excluded.size_bytes,
			updated_at = excluded.updated_at
	`, a.ID, a.SourceID, a.Kind, a.Key, a.DisplayName, a.URL, a.ContentType,
		a.SizeBytes, nullFloat(a.DurationSec), a.ProbeStatus,
		a.CreatedAt.Format(time.RFC3339), a.UpdatedAt.Format(time.RFC3339))
	return err
}

func scanAsset(row rowScanner) (*Asset, error) {
	var a Asset
	var url sql.NullString
	var duration sql.NullFloat64
	var createdAt, updatedAt string

	err := row.Scan(&a.ID, &a.SourceID, &a.Kind, &a.Key, &a.DisplayName, &url,
		&a.ContentType, &a.SizeBytes, &duration, &a.ProbeStatus, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	a.URL = url.String
	if duration.Valid {
		d := duration.Float64
		a.DurationSec = &d
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &a, nil
}

func (r *SQLiteRepository) GetAsset(ctx context.Context, id string) (*Asset, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+assetColumns+" FROM assets WHERE id = ?", id)
	return scanAsset(row)
}

func (r *SQLiteRepository) ListAssets(ctx context.Context) ([]*Asset, error) {
	return r.queryAssets(ctx,
		"SELECT "+assetColumns+" FROM assets ORDER BY display_name COLLATE NOCASE ASC")
}

func (r *SQLiteRepository) ListAssetsBySource(ctx context.Context, sourceID string) ([]*Asset, error) {
	return r.queryAssets(ctx,
		"SELECT "+assetColumns+" FROM assets WHERE source_id = ? ORDER BY key ASC", sourceID)
}

func (r *SQLiteRepository) ListAssetsByProbeStatus(ctx context.Context, status string, limit int) ([]*Asset, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.queryAssets(ctx,
		"SELECT "+assetColumns+" FROM assets WHERE probe_status = ? ORDER BY created_at ASC LIMIT ?",
		status, limit)
}

func (r *SQLiteRepository) queryAssets(ctx context.Context, query string, args ...any) ([]*Asset, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// PruneAssets deletes the source's assets whose key is not in keepKeys and
// returns how many rows were removed. An empty keepKeys clears the source.
func (r *SQLiteRepository) PruneAssets(ctx context.Context, sourceID string, keepKeys []string) (int, error) {
	if len(keepKeys) == 0 {
		res, err := r.db.ExecContext(ctx, "DELETE FROM assets WHERE source_id = ?", sourceID)
		if err != nil {
			return 0, err
		}
		n, _ := res.RowsAffected()
		return int(n), nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keepKeys)), ",")
	args := make([]any, 0, len(keepKeys)+1)
	args = append(args, sourceID)
	for _, k := range keepKeys {
		args = append(args, k)
	}

	res, err := r.db.ExecContext(ctx,
		"DELETE FROM assets WHERE source_id = ? AND key NOT IN ("+placeholders+")", args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *SQLiteRepository) UpdateAssetURL(ctx context.Context, id, url string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE assets SET url = ?, updated_at = datetime('now') WHERE id = ?", url, id)
	return err
}

func (r *SQLiteRepository) UpdateAssetProbe(ctx context.Context, id, status string, durationSec *float64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE assets SET probe_status = ?, duration_sec = ?, updated_at = datetime('now') WHERE id = ?",
		status, nullFloat(durationSec), id)
	return err
}

func (r *SQLiteRepository) CountAssets(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM assets").Scan(&count)
	return count, err
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM agent_config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO agent_config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
