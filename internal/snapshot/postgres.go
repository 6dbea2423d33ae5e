package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/vvakame/foodexpress/internal/store"
)

const createTableQuery = `
	CREATE TABLE IF NOT EXISTS foodexpress_snapshots (
		name       TEXT PRIMARY KEY,
		document   JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)
`

var _ Backend = (*Postgres)(nil)

// Postgres stores one row per snapshot name in foodexpress_snapshots.
type Postgres struct {
	DB   *sql.DB
	Name string
}

func OpenPostgres(ctx context.Context, dsn, name string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	p := NewPostgres(db, name)
	if err := p.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func NewPostgres(db *sql.DB, name string) *Postgres {
	return &Postgres{DB: db, Name: name}
}

func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.DB.ExecContext(ctx, createTableQuery); err != nil {
		return fmt.Errorf("failed to create snapshot table: %w", err)
	}
	return nil
}

func (p *Postgres) Load(ctx context.Context) (*store.Snapshot, error) {
	var document []byte
	err := p.DB.QueryRowContext(ctx, `
		SELECT document FROM foodexpress_snapshots
		WHERE name = $1
	`, p.Name).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	} else if err != nil {
		return nil, fmt.Errorf("failed to select snapshot %s: %w", p.Name, err)
	}
	return Decode(document)
}

func (p *Postgres) Save(ctx context.Context, snap *store.Snapshot) error {
	document, err := Encode(snap)
	if err != nil {
		return err
	}
	_, err = p.DB.ExecContext(ctx, `
		INSERT INTO foodexpress_snapshots (name, document, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE
		SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
	`, p.Name, document)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot %s: %w", p.Name, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.DB.Close()
}
