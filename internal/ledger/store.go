// Package ledger — store.go содержит авторитетное in-memory хранилище
// состояния всех пользователей и атомарные операции над ним.
//
// Конкурентная модель: один мьютекс на всё хранилище. Каждая операция —
// короткое ограниченное вычисление без внешнего I/O под блокировкой,
// поэтому глобальный мьютекс дешевле и проще, чем актор с очередью.
// Сырые ссылки на внутренние структуры наружу не отдаются — только копии.
package ledger

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/common"
	"github.com/minefix2025-boop/Coingame/internal/config"
)

// Store — хранилище состояния пользователей.
type Store struct {
	mu    sync.Mutex
	users map[int64]*UserLedger
	cfg   *config.Config
}

// NewStore создаёт пустое хранилище.
func NewStore(cfg *config.Config) *Store {
	return &Store{
		users: make(map[int64]*UserLedger),
		cfg:   cfg,
	}
}

// ensureLocked возвращает запись пользователя, создавая её с дефолтами,
// если её ещё нет. Вызывается только под s.mu.
func (s *Store) ensureLocked(userID int64) *UserLedger {
	u, ok := s.users[userID]
	if !ok {
		u = &UserLedger{
			UserID:       userID,
			Cash:         Finite(s.cfg.StartBalance),
			Accelerators: s.cfg.StartAccelerators,
			Level:        1,
			XP:           0,
			XPToNext:     100,
		}
		s.users[userID] = u
	}
	return u
}

// EnsureUser создаёт запись пользователя с дефолтами, если её нет. Идемпотентна.
func (s *Store) EnsureUser(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(userID)
}

// View возвращает копию состояния пользователя для отображения.
func (s *Store) View(userID int64) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)
	return View{
		UserID:         u.UserID,
		Cash:           u.Cash,
		Bank:           u.Bank,
		Accelerators:   u.Accelerators,
		Level:          u.Level,
		XP:             u.XP,
		XPToNext:       u.XPToNext,
		Rank:           u.Rank,
		Premium:        u.Premium,
		Mine:           u.Mine,
		Business:       u.Business,
		DailyClaimedAt: u.DailyClaimedAt,
		Board:          u.Board,
	}
}

// CanAfford — true, если пользователь может заплатить amount.
func (s *Store) CanAfford(userID int64, amount int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(userID).Cash.CanAfford(amount)
}

// Deduct атомарно проверяет и списывает монеты.
// Проверка и списание под одной блокировкой — окна гонки между
// «можно потратить» и «потратили» нет.
func (s *Store) Deduct(userID int64, amount int64) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)
	if !u.Cash.CanAfford(amount) {
		return common.ErrInsufficientFunds
	}
	u.Cash = u.Cash.sub(amount)
	return nil
}

// Credit начисляет монеты и опыт (amount/100).
// Для бесконечного баланса — полный no-op: ни монет, ни опыта.
func (s *Store) Credit(userID int64, amount int64) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)
	if u.Cash.IsUnlimited() {
		return nil
	}
	u.Cash = u.Cash.add(amount)
	s.addXPLocked(u, amount/100)
	return nil
}

// GrantXP начисляет опыт напрямую (игровые награды сверх опыта за монеты).
func (s *Store) GrantXP(userID int64, amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addXPLocked(s.ensureLocked(userID), amount)
}

// SetCash устанавливает точный баланс (админская команда /setmoney).
func (s *Store) SetCash(userID int64, amount int64) error {
	if amount < 0 {
		return common.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(userID).Cash = Finite(amount)
	return nil
}

// SetUnlimited включает бесконечный баланс.
func (s *Store) SetUnlimited(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(userID).Cash = Unlimited()
}

// ClearUnlimited выключает бесконечный баланс, возвращая стартовую сумму.
func (s *Store) ClearUnlimited(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(userID).Cash = Finite(s.cfg.StartBalance)
}

// HasUnlimited сообщает, бесконечный ли баланс у пользователя.
func (s *Store) HasUnlimited(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(userID).Cash.IsUnlimited()
}

// AddAccelerators начисляет ускорители. Опыт не даётся.
func (s *Store) AddAccelerators(userID int64, amount int64) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(userID).Accelerators += amount
	return nil
}

// UseAccelerator тратит один ускоритель. Пользователи с бесконечным
// балансом работают бесплатно.
func (s *Store) UseAccelerator(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)
	if u.Cash.IsUnlimited() {
		return nil
	}
	if u.Accelerators <= 0 {
		return common.ErrNoAccelerators
	}
	u.Accelerators--
	return nil
}

// CanWork — true, если есть ускорители или бесконечный баланс.
func (s *Store) CanWork(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)
	return u.Accelerators > 0 || u.Cash.IsUnlimited()
}

// DepositBank переносит монеты с кармана в банк. Опыт не начисляется.
func (s *Store) DepositBank(userID int64, amount int64) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)
	if !u.Cash.CanAfford(amount) {
		return common.ErrInsufficientFunds
	}
	u.Cash = u.Cash.sub(amount)
	u.Bank += amount
	return nil
}

// WithdrawBank переносит монеты из банка на карман.
// Возврат на карман идёт через обычное начисление — с опытом,
// как и в остальных путях пополнения кармана.
func (s *Store) WithdrawBank(userID int64, amount int64) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)
	if u.Bank < amount {
		return common.ErrInsufficientFunds
	}
	u.Bank -= amount
	if !u.Cash.IsUnlimited() {
		u.Cash = u.Cash.add(amount)
		s.addXPLocked(u, amount/100)
	}
	return nil
}

// Transfer переводит монеты от одного пользователя к другому.
// Одна пара списание+начисление под одной блокировкой.
func (s *Store) Transfer(fromID, toID int64, amount int64) error {
	if fromID == toID {
		return common.ErrSelfTransfer
	}
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	from := s.ensureLocked(fromID)
	to := s.ensureLocked(toID)
	if !from.Cash.CanAfford(amount) {
		return common.ErrInsufficientFunds
	}
	from.Cash = from.Cash.sub(amount)
	if !to.Cash.IsUnlimited() {
		to.Cash = to.Cash.add(amount)
		s.addXPLocked(to, amount/100)
	}
	return nil
}

// premiumTierLocked возвращает актуальную привилегию с учётом срока действия.
func premiumTierLocked(u *UserLedger, now time.Time) PremiumTier {
	if u.Premium.Tier == PremiumNone {
		return PremiumNone
	}
	if !u.Premium.Expires.IsZero() && now.After(u.Premium.Expires) {
		return PremiumNone
	}
	return u.Premium.Tier
}

// PremiumTier возвращает действующую привилегию пользователя.
// Истечение срока — обычное сравнение времени, без отложенных задач.
func (s *Store) PremiumTier(userID int64, now time.Time) PremiumTier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return premiumTierLocked(s.ensureLocked(userID), now)
}

// SetPremium включает привилегию на срок из конфигурации.
func (s *Store) SetPremium(userID int64, tier PremiumTier, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)
	u.Premium = PremiumState{
		Tier:        tier,
		Expires:     now.Add(s.cfg.PremiumDuration),
		PurchasedAt: now,
	}
}

// ClearPremium снимает привилегию (возврат звёзд).
func (s *Store) ClearPremium(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(userID).Premium = PremiumState{}
}

// DailyReward — результат выдачи ежедневного бонуса.
type DailyReward struct {
	Coins        int64
	Accelerators int64
	RetryAfter   time.Duration // > 0, если бонус ещё не доступен
}

// ClaimDaily выдаёт ежедневный бонус с учётом привилегии и кулдауна.
// Пользователям с бесконечным балансом начисляются только ускорители.
func (s *Store) ClaimDaily(userID int64, now time.Time) (DailyReward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)

	if !u.DailyClaimedAt.IsZero() {
		elapsed := now.Sub(u.DailyClaimedAt)
		if elapsed < s.cfg.DailyCooldown {
			return DailyReward{RetryAfter: s.cfg.DailyCooldown - elapsed}, common.ErrDailyTooEarly
		}
	}

	var coins, acc int64
	switch premiumTierLocked(u, now) {
	case PremiumDeluxe:
		coins, acc = s.cfg.DailyBalanceDeluxe, s.cfg.DailyAcceleratorsDeluxe
	case PremiumElite:
		coins, acc = s.cfg.DailyBalanceElite, s.cfg.DailyAcceleratorsElite
	default:
		coins, acc = s.cfg.DailyBalance, s.cfg.DailyAccelerators
	}

	if !u.Cash.IsUnlimited() {
		u.Cash = u.Cash.add(coins)
		s.addXPLocked(u, coins/100)
		s.addXPLocked(u, 100)
	}
	u.Accelerators += acc
	u.DailyClaimedAt = now

	return DailyReward{Coins: coins, Accelerators: acc}, nil
}

// Rank возвращает выданный ранг ("", "Admin" или "moderator").
func (s *Store) Rank(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(userID).Rank
}

// SetRank выдаёт ранг. Пустая строка снимает ранг.
func (s *Store) SetRank(userID int64, rank string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(userID).Rank = rank
}

// BoardSettings возвращает персональную сложность мини-игры.
func (s *Store) BoardSettings(userID int64) BoardSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(userID).Board
}

// SetBoardSettings сохраняет персональную сложность мини-игры.
func (s *Store) SetBoardSettings(userID int64, chance, mines int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(userID).Board = BoardSettings{Chance: chance, Mines: mines, Set: true}
	log.WithFields(log.Fields{"user": userID, "chance": chance, "mines": mines}).
		Info("Сложность мини-игры обновлена")
}
