// Package postgres implements the repository against PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Aadyothcoding/ece-project-connect/config"
	"github.com/Aadyothcoding/ece-project-connect/internal/repository/txn"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// advisoryLockQuery serializes transactions on an arbitrary key, released at commit or rollback.
const advisoryLockQuery = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres wraps a pgx pool and configuration.
type Postgres struct {
	baseCtx context.Context
	log     *zap.SugaredLogger
	db      *pgxpool.Pool
	cfg     config.PostgresConfig
}

// New creates a Postgres repository instance.
func New(ctx context.Context, log *zap.SugaredLogger, cfg *config.Config) *Postgres {
	return &Postgres{
		baseCtx: ctx,
		log:     log.Named("repo.postgres"),
		cfg:     cfg.Postgres,
	}
}

// OnStart runs pending migrations, then opens the pgx pool used by every query.
func (p *Postgres) OnStart(ctx context.Context) error {
	if err := p.migrate(ctx); err != nil {
		return err
	}

	pool, err := p.connect(ctx)
	if err != nil {
		return err
	}
	p.db = pool
	p.log.Infow("postgres ready", "host", p.cfg.Host, "db_name", p.cfg.DBName,
		"max_conns", p.cfg.MaxConns, "migrations_dir", p.cfg.MigrationsDir)
	return nil
}

// migrate applies goose migrations over a short-lived database/sql handle.
func (p *Postgres) migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(orBase(ctx, p.baseCtx), p.cfg.MigrateTimeout)
	defer cancel()

	sqlDB, err := sql.Open("postgres", p.cfg.DSN())
	if err != nil {
		return fmt.Errorf("open migration handle: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, p.cfg.MigrationsDir); err != nil {
		p.log.Errorw("migrations failed", "dir", p.cfg.MigrationsDir, "error", err)
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	p.log.Infow("schema migrated", "version", version)
	return nil
}

func (p *Postgres) connect(ctx context.Context) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(p.cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	poolCfg.MaxConns = p.cfg.MaxConns
	poolCfg.MinConns = p.cfg.MinConns

	ctx, cancel := context.WithTimeout(orBase(ctx, p.baseCtx), p.cfg.QueryTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

func orBase(ctx, base context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return base
}

// OnStop closes pool connections.
func (p *Postgres) OnStop(_ context.Context) error {
	if p.db != nil {
		p.db.Close()
	}
	return nil
}

// InTx runs fn inside a read committed transaction holding an advisory lock
// per key. Keys must already be sorted to keep lock order global.
func (p *Postgres) InTx(ctx context.Context, lockKeys []string, fn func(txn.Tx) error) error {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, key := range lockKeys {
		if _, err := tx.Exec(ctx, advisoryLockQuery, key); err != nil {
			p.log.Errorw("failed to take advisory lock", "error", err, "key", key)
			return fmt.Errorf("advisory lock %s: %w", key, err)
		}
	}

	if err := fn(&pgTx{q: tx, log: p.log}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		p.log.Errorw("failed to commit", "error", err)
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Snapshot runs fn in a repeatable read, read-only transaction.
func (p *Postgres) Snapshot(ctx context.Context, fn func(txn.Tx) error) error {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgTx{q: tx, log: p.log}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// pgTx implements txn.Tx on top of an open transaction.
type pgTx struct {
	q   querier
	log *zap.SugaredLogger
}

var _ txn.Tx = (*pgTx)(nil)
