// Package snapshot периодически сбрасывает состояние движка в PostgreSQL
// и восстанавливает его на старте. Снапшот — плоские таблицы: строка на
// пользователя, промокод и транзакцию доната.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minefix2025-boop/Coingame/internal/features/promo"
	"github.com/minefix2025-boop/Coingame/internal/ledger"
)

// Repository пишет и читает снапшоты из PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save записывает полный снапшот одной транзакцией: либо всё, либо ничего.
func (r *Repository) Save(ctx context.Context, users []ledger.UserRecord, promos []promo.Record) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range users {
		if err := saveUser(ctx, tx, &users[i]); err != nil {
			return err
		}
	}
	for i := range promos {
		if err := savePromo(ctx, tx, &promos[i]); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func saveUser(ctx context.Context, tx pgx.Tx, rec *ledger.UserRecord) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO users (
			user_id, cash, cash_unlimited, bank, accelerators,
			level, xp, xp_to_next, rank,
			premium_tier, premium_expires, premium_purchased_at,
			mine_tier, mine_stored, mine_auto_collect,
			business_kind, business_accrued, business_active, business_last_accrual,
			daily_claimed_at, board_chance, board_mines, board_set, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, NOW()
		)
		ON CONFLICT (user_id) DO UPDATE SET
			cash = EXCLUDED.cash,
			cash_unlimited = EXCLUDED.cash_unlimited,
			bank = EXCLUDED.bank,
			accelerators = EXCLUDED.accelerators,
			level = EXCLUDED.level,
			xp = EXCLUDED.xp,
			xp_to_next = EXCLUDED.xp_to_next,
			rank = EXCLUDED.rank,
			premium_tier = EXCLUDED.premium_tier,
			premium_expires = EXCLUDED.premium_expires,
			premium_purchased_at = EXCLUDED.premium_purchased_at,
			mine_tier = EXCLUDED.mine_tier,
			mine_stored = EXCLUDED.mine_stored,
			mine_auto_collect = EXCLUDED.mine_auto_collect,
			business_kind = EXCLUDED.business_kind,
			business_accrued = EXCLUDED.business_accrued,
			business_active = EXCLUDED.business_active,
			business_last_accrual = EXCLUDED.business_last_accrual,
			daily_claimed_at = EXCLUDED.daily_claimed_at,
			board_chance = EXCLUDED.board_chance,
			board_mines = EXCLUDED.board_mines,
			board_set = EXCLUDED.board_set,
			updated_at = NOW()`,
		rec.UserID, rec.Cash, rec.CashUnlimited, rec.Bank, rec.Accelerators,
		rec.Level, rec.XP, rec.XPToNext, rec.Rank,
		string(rec.PremiumTier), nullTime(rec.PremiumExpires), nullTime(rec.PremiumPurchasedAt),
		rec.MineTier, rec.MineStored, rec.MineAutoCollect,
		string(rec.BusinessKind), rec.BusinessAccrued, rec.BusinessActive, nullTime(rec.BusinessLastAccrual),
		nullTime(rec.DailyClaimedAt), rec.BoardChance, rec.BoardMines, rec.BoardSet,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения пользователя %d: %w", rec.UserID, err)
	}

	for _, d := range rec.Donations {
		_, err := tx.Exec(ctx, `
			INSERT INTO donations (tx_id, user_id, kind, stars_paid, coins_granted, created_at, refunded)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (tx_id) DO UPDATE SET refunded = EXCLUDED.refunded`,
			d.ID, d.UserID, string(d.Kind), d.StarsPaid, d.CoinsGranted, d.CreatedAt, d.Refunded,
		)
		if err != nil {
			return fmt.Errorf("ошибка сохранения транзакции %s: %w", d.ID, err)
		}
	}
	return nil
}

func savePromo(ctx context.Context, tx pgx.Tx, rec *promo.Record) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO promo_codes (code, reward, amount, max_activations, used_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (code) DO UPDATE SET
			used_by = EXCLUDED.used_by,
			updated_at = NOW()`,
		rec.Code, string(rec.Reward), rec.Amount, rec.MaxActivations, rec.UsedBy,
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения промокода %s: %w", rec.Code, err)
	}
	return nil
}

// LoadUsers читает всех пользователей вместе с историей донатов.
// Пустая база — не ошибка: бот стартует с чистого состояния.
func (r *Repository) LoadUsers(ctx context.Context) ([]ledger.UserRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, cash, cash_unlimited, bank, accelerators,
			level, xp, xp_to_next, rank,
			premium_tier, premium_expires, premium_purchased_at,
			mine_tier, mine_stored, mine_auto_collect,
			business_kind, business_accrued, business_active, business_last_accrual,
			daily_claimed_at, board_chance, board_mines, board_set
		FROM users`)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения пользователей: %w", err)
	}
	defer rows.Close()

	var records []ledger.UserRecord
	index := make(map[int64]int)
	for rows.Next() {
		var rec ledger.UserRecord
		var tier, businessKind string
		var premiumExpires, premiumPurchased, businessLast, dailyClaimed *time.Time
		err := rows.Scan(
			&rec.UserID, &rec.Cash, &rec.CashUnlimited, &rec.Bank, &rec.Accelerators,
			&rec.Level, &rec.XP, &rec.XPToNext, &rec.Rank,
			&tier, &premiumExpires, &premiumPurchased,
			&rec.MineTier, &rec.MineStored, &rec.MineAutoCollect,
			&businessKind, &rec.BusinessAccrued, &rec.BusinessActive, &businessLast,
			&dailyClaimed, &rec.BoardChance, &rec.BoardMines, &rec.BoardSet,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
		}
		rec.PremiumTier = ledger.PremiumTier(tier)
		rec.BusinessKind = ledger.BusinessKind(businessKind)
		rec.PremiumExpires = fromNull(premiumExpires)
		rec.PremiumPurchasedAt = fromNull(premiumPurchased)
		rec.BusinessLastAccrual = fromNull(businessLast)
		rec.DailyClaimedAt = fromNull(dailyClaimed)
		index[rec.UserID] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обхода пользователей: %w", err)
	}

	if err := r.loadDonations(ctx, records, index); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) loadDonations(ctx context.Context, records []ledger.UserRecord, index map[int64]int) error {
	rows, err := r.pool.Query(ctx, `
		SELECT tx_id, user_id, kind, stars_paid, coins_granted, created_at, refunded
		FROM donations ORDER BY created_at`)
	if err != nil {
		return fmt.Errorf("ошибка чтения донатов: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d ledger.DonationTransaction
		var kind string
		if err := rows.Scan(&d.ID, &d.UserID, &kind, &d.StarsPaid, &d.CoinsGranted, &d.CreatedAt, &d.Refunded); err != nil {
			return fmt.Errorf("ошибка сканирования доната: %w", err)
		}
		d.Kind = ledger.DonationKind(kind)
		if i, ok := index[d.UserID]; ok {
			records[i].Donations = append(records[i].Donations, d)
		}
	}
	return rows.Err()
}

// LoadPromoCodes читает все промокоды.
func (r *Repository) LoadPromoCodes(ctx context.Context) ([]promo.Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT code, reward, amount, max_activations, used_by
		FROM promo_codes`)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения промокодов: %w", err)
	}
	defer rows.Close()

	var records []promo.Record
	for rows.Next() {
		var rec promo.Record
		var reward string
		if err := rows.Scan(&rec.Code, &reward, &rec.Amount, &rec.MaxActivations, &rec.UsedBy); err != nil {
			return nil, fmt.Errorf("ошибка сканирования промокода: %w", err)
		}
		rec.Reward = promo.RewardKind(reward)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// nullTime превращает нулевое время в NULL, чтобы не хранить фиктивные даты.
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func fromNull(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
