// Package postgres управляет подключением к базе данных PostgreSQL.
// Используется пул соединений pgxpool для эффективной работы
// с несколькими горутинами одновременно.
//
// База — хранилище снапшотов движка: по одной строке на пользователя,
// промокод и транзакцию доната. Живое состояние держится в памяти,
// база догоняет его по таймеру.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/config"
)

// NewPool создаёт новый пул соединений к PostgreSQL.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}

	poolConfig.MaxConns = cfg.DBMaxConns
	poolConfig.MinConns = cfg.DBMinConns
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("база данных недоступна: %w", err)
	}

	log.Info("Подключение к PostgreSQL установлено")
	return pool, nil
}

// RunMigrations применяет встроенные миграции по порядку.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("ошибка создания таблицы миграций: %w", err)
	}

	for _, m := range migrations {
		if err := execMigration(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}
	return nil
}

// execMigration выполняет одну миграцию в транзакции, пропуская уже применённые.
func execMigration(ctx context.Context, pool *pgxpool.Pool, version int, sql string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", version,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("ошибка проверки миграции: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(ctx, sql); err != nil {
		return fmt.Errorf("ошибка выполнения миграции %d: %w", version, err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version) VALUES ($1)", version,
	); err != nil {
		return fmt.Errorf("ошибка записи версии миграции: %w", err)
	}
	return tx.Commit(ctx)
}

var migrations = []struct {
	version int
	sql     string
}{
	{1, migration001Users},
	{2, migration002Promo},
	{3, migration003Donations},
}

var migration001Users = `
CREATE TABLE IF NOT EXISTS users (
    user_id BIGINT PRIMARY KEY,
    cash BIGINT NOT NULL DEFAULT 0,
    cash_unlimited BOOLEAN NOT NULL DEFAULT FALSE,
    bank BIGINT NOT NULL DEFAULT 0,
    accelerators BIGINT NOT NULL DEFAULT 0,
    level INTEGER NOT NULL DEFAULT 1,
    xp BIGINT NOT NULL DEFAULT 0,
    xp_to_next BIGINT NOT NULL DEFAULT 100,
    rank VARCHAR(64) NOT NULL DEFAULT '',
    premium_tier VARCHAR(16) NOT NULL DEFAULT '',
    premium_expires TIMESTAMPTZ,
    premium_purchased_at TIMESTAMPTZ,
    mine_tier INTEGER NOT NULL DEFAULT 0,
    mine_stored BIGINT NOT NULL DEFAULT 0,
    mine_auto_collect BOOLEAN NOT NULL DEFAULT FALSE,
    business_kind VARCHAR(32) NOT NULL DEFAULT '',
    business_accrued BIGINT NOT NULL DEFAULT 0,
    business_active BOOLEAN NOT NULL DEFAULT FALSE,
    business_last_accrual TIMESTAMPTZ,
    daily_claimed_at TIMESTAMPTZ,
    board_chance INTEGER NOT NULL DEFAULT 0,
    board_mines INTEGER NOT NULL DEFAULT 0,
    board_set BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

var migration002Promo = `
CREATE TABLE IF NOT EXISTS promo_codes (
    code VARCHAR(64) PRIMARY KEY,
    reward VARCHAR(16) NOT NULL,
    amount BIGINT NOT NULL,
    max_activations INTEGER NOT NULL,
    used_by BIGINT[] NOT NULL DEFAULT '{}',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

var migration003Donations = `
CREATE TABLE IF NOT EXISTS donations (
    tx_id VARCHAR(128) PRIMARY KEY,
    user_id BIGINT NOT NULL,
    kind VARCHAR(16) NOT NULL,
    stars_paid BIGINT NOT NULL,
    coins_granted BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL,
    refunded BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_donations_user_id ON donations(user_id);
`
