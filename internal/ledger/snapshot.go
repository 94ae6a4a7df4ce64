// Package ledger — snapshot.go выгружает и восстанавливает состояние
// хранилища. Выгрузка — глубокая копия под блокировкой; сам снапшот
// дальше можно писать на диск/в базу, не мешая обработке команд.
package ledger

import (
	"time"
)

// UserRecord — сериализуемое состояние одного пользователя.
// Плоская структура: одна запись на пользователя, как того требует
// формат хранения.
type UserRecord struct {
	UserID        int64
	Cash          int64
	CashUnlimited bool
	Bank          int64
	Accelerators  int64

	Level    int
	XP       int64
	XPToNext int64

	Rank string

	PremiumTier        PremiumTier
	PremiumExpires     time.Time
	PremiumPurchasedAt time.Time

	MineTier        int
	MineStored      int64
	MineAutoCollect bool

	BusinessKind        BusinessKind
	BusinessAccrued     int64
	BusinessActive      bool
	BusinessLastAccrual time.Time

	DailyClaimedAt time.Time

	BoardChance int
	BoardMines  int
	BoardSet    bool

	Donations []DonationTransaction
}

// Export возвращает глубокую копию состояния всех пользователей.
// Игровые сессии сюда не входят — они эфемерные и теряются при рестарте.
func (s *Store) Export() []UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]UserRecord, 0, len(s.users))
	for _, u := range s.users {
		rec := UserRecord{
			UserID:              u.UserID,
			Cash:                u.Cash.Amount(),
			CashUnlimited:       u.Cash.IsUnlimited(),
			Bank:                u.Bank,
			Accelerators:        u.Accelerators,
			Level:               u.Level,
			XP:                  u.XP,
			XPToNext:            u.XPToNext,
			Rank:                u.Rank,
			PremiumTier:         u.Premium.Tier,
			PremiumExpires:      u.Premium.Expires,
			PremiumPurchasedAt:  u.Premium.PurchasedAt,
			MineTier:            u.Mine.Tier,
			MineStored:          u.Mine.Stored,
			MineAutoCollect:     u.Mine.AutoCollect,
			BusinessKind:        u.Business.Kind,
			BusinessAccrued:     u.Business.Accrued,
			BusinessActive:      u.Business.Active,
			BusinessLastAccrual: u.Business.LastAccrual,
			DailyClaimedAt:      u.DailyClaimedAt,
			BoardChance:         u.Board.Chance,
			BoardMines:          u.Board.Mines,
			BoardSet:            u.Board.Set,
		}
		rec.Donations = make([]DonationTransaction, len(u.Donations))
		copy(rec.Donations, u.Donations)
		out = append(out, rec)
	}
	return out
}

// Restore заменяет состояние хранилища данными снапшота.
// Вызывается один раз на старте, до запуска обработки команд.
func (s *Store) Restore(records []UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make(map[int64]*UserLedger, len(records))
	for _, rec := range records {
		cash := Unlimited()
		if !rec.CashUnlimited {
			var err error
			cash, err = mustFinite(rec.Cash)
			if err != nil {
				return err
			}
		}
		u := &UserLedger{
			UserID:       rec.UserID,
			Cash:         cash,
			Bank:         rec.Bank,
			Accelerators: rec.Accelerators,
			Level:        rec.Level,
			XP:           rec.XP,
			XPToNext:     rec.XPToNext,
			Rank:         rec.Rank,
			Premium: PremiumState{
				Tier:        rec.PremiumTier,
				Expires:     rec.PremiumExpires,
				PurchasedAt: rec.PremiumPurchasedAt,
			},
			Mine: MineState{
				Tier:        rec.MineTier,
				Stored:      rec.MineStored,
				AutoCollect: rec.MineAutoCollect,
			},
			Business: BusinessState{
				Kind:        rec.BusinessKind,
				Accrued:     rec.BusinessAccrued,
				Active:      rec.BusinessActive,
				LastAccrual: rec.BusinessLastAccrual,
			},
			DailyClaimedAt: rec.DailyClaimedAt,
			Board: BoardSettings{
				Chance: rec.BoardChance,
				Mines:  rec.BoardMines,
				Set:    rec.BoardSet,
			},
		}
		u.Donations = make([]DonationTransaction, len(rec.Donations))
		copy(u.Donations, rec.Donations)
		users[rec.UserID] = u
	}
	s.users = users
	return nil
}
