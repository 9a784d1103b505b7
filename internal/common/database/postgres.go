package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"career-matching-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// catalogSchema creates the tables the postgres catalog source reads from.
const catalogSchema = `
CREATE TABLE IF NOT EXISTS universities (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	location    TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS programs (
	id                TEXT PRIMARY KEY,
	university_id     TEXT NOT NULL REFERENCES universities(id),
	name              TEXT NOT NULL,
	required_subjects JSONB NOT NULL DEFAULT '[]',
	career_outcomes   JSONB NOT NULL DEFAULT '[]',
	riasec_codes      TEXT NOT NULL DEFAULT '',
	annual_fees       NUMERIC,
	employment_rate   NUMERIC,
	average_salary    NUMERIC,
	active            BOOLEAN NOT NULL DEFAULT TRUE,
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS program_cutoffs (
	program_id TEXT NOT NULL REFERENCES programs(id),
	year       INT NOT NULL,
	points     NUMERIC NOT NULL,
	PRIMARY KEY (program_id, year)
);`

// PostgresClient holds the catalog database pool.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a pool sized from cfg. The connection is not verified
// until Ping.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

// EnsureCatalogSchema creates the catalog tables when they are missing.
func (c *PostgresClient) EnsureCatalogSchema(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, catalogSchema); err != nil {
		return fmt.Errorf("create catalog schema: %w", err)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
