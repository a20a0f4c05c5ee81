package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"social-support/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the intake database connection pool.
type PostgresClient struct {
	DB *sql.DB
}

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
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

const applicationsDDL = `
CREATE TABLE IF NOT EXISTS social_support_applications (
	id                     UUID PRIMARY KEY,
	reference_number       TEXT NOT NULL UNIQUE,
	national_id            TEXT NOT NULL,
	email                  TEXT NOT NULL,
	language               TEXT NOT NULL DEFAULT 'en',
	personal_info          JSONB NOT NULL,
	family_financial       JSONB NOT NULL,
	situation_descriptions JSONB NOT NULL,
	status                 TEXT NOT NULL,
	submitted_at           TIMESTAMPTZ NOT NULL
)`

const auditLogDDL = `
CREATE TABLE IF NOT EXISTS audit_log (
	id            BIGSERIAL PRIMARY KEY,
	event_type    TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	resource_id   TEXT NOT NULL,
	details       JSONB,
	created_at    TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the intake tables when they do not exist yet.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	for _, ddl := range []string{applicationsDDL, auditLogDDL} {
		if _, err := c.DB.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create intake schema: %w", err)
		}
	}
	return nil
}
