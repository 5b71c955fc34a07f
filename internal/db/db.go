package db

import (
    "context"
    "fmt"
    "time"

    "github.com/jackc/pgx/v5/pgconn"
    "github.com/jackc/pgx/v5/pgxpool"
    "gremlin-admin/internal/config"
)

func NewPool(dsn string, opts config.DBConfig) (*pgxpool.Pool, error) {
    cfg, err := pgxpool.ParseConfig(dsn)
    if err != nil {
        return nil, err
    }
    cfg.MaxConns = opts.MaxConns
    cfg.MinConns = opts.MinConns
    cfg.MaxConnLifetime = opts.MaxConnLifetime

    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()

    pool, err := pgxpool.NewWithConfig(ctx, cfg)
    if err != nil {
        return nil, err
    }

    if err := pool.Ping(ctx); err != nil {
        pool.Close()
        return nil, err
    }

    return pool, nil
}

type execer interface {
    Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var schemaStatements = []string{
    `CREATE SCHEMA IF NOT EXISTS gremlin`,
    `CREATE TABLE IF NOT EXISTS gremlin.activation_conditions (
        action_id  uuid PRIMARY KEY,
        rule       text NOT NULL,
        xml        text NOT NULL,
        updated_at timestamptz NOT NULL DEFAULT now()
    )`,
    `CREATE TABLE IF NOT EXISTS gremlin.activation_condition_history (
        id         bigserial PRIMARY KEY,
        action_id  uuid NOT NULL,
        xml        text NOT NULL,
        created_at timestamptz NOT NULL DEFAULT now()
    )`,
    `CREATE INDEX IF NOT EXISTS activation_condition_history_action_idx
        ON gremlin.activation_condition_history (action_id, created_at)`,
}

// EnsureSchema tạo schema và các bảng nếu chưa tồn tại.
func EnsureSchema(ctx context.Context, db execer) error {
    for _, stmt := range schemaStatements {
        if _, err := db.Exec(ctx, stmt); err != nil {
            return fmt.Errorf("ensure schema: %w", err)
        }
    }
    return nil
}
