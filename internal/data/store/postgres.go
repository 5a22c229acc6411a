package store

import (
	"context"
	"errors"
	"fmt"

	"petcare-booking/pkg/database"

	"github.com/jackc/pgx/v5"
)

const createCollectionsTable = `
	CREATE TABLE IF NOT EXISTS record_collections (
		name       TEXT PRIMARY KEY,
		data       JSONB NOT NULL,
		version    BIGINT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// PostgresBackend keeps one row per collection in record_collections.
type PostgresBackend struct {
	db database.PgxIface
}

// NewPostgresBackend creates the backing table when missing.
func NewPostgresBackend(ctx context.Context, db database.PgxIface) (*PostgresBackend, error) {
	if _, err := db.Exec(ctx, createCollectionsTable); err != nil {
		return nil, fmt.Errorf("create record_collections: %w", err)
	}
	return &PostgresBackend{db: db}, nil
}

func (p *PostgresBackend) Load(ctx context.Context, name string) ([]byte, int64, error) {
	query := `SELECT data, version FROM record_collections WHERE name = $1`

	var (
		data    []byte
		version int64
	)
	err := p.db.QueryRow(ctx, query, name).Scan(&data, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("load collection %s: %w", name, err)
	}
	return data, version, nil
}

func (p *PostgresBackend) Save(ctx context.Context, name string, blob []byte, expectedVersion int64) (int64, error) {
	var (
		query string
		args  []any
	)
	if expectedVersion == 0 {
		query = `
			INSERT INTO record_collections (name, data, version, updated_at)
			VALUES ($1, $2, 1, NOW())
			ON CONFLICT (name) DO NOTHING
		`
		args = []any{name, string(blob)}
	} else {
		query = `
			UPDATE record_collections
			SET data = $2, version = version + 1, updated_at = NOW()
			WHERE name = $1 AND version = $3
		`
		args = []any{name, string(blob), expectedVersion}
	}

	tag, err := p.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("save collection %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, ErrVersionConflict
	}
	return expectedVersion + 1, nil
}

func (p *PostgresBackend) Close() error {
	p.db.Close()
	return nil
}
