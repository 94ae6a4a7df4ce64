// Package ledger — property.go содержит операции над имуществом:
// рудник (сбор, улучшение, авто-сбор) и бизнес (покупка, сбор прибыли,
// продажа), а также тик пассивного накопления.
package ledger

import (
	"time"

	"github.com/minefix2025-boop/Coingame/internal/common"
)

// MineCollectResult — итог сбора ресурсов рудника.
type MineCollectResult struct {
	Units    int64
	Resource string
	Coins    int64
}

// CollectMine обменивает добытый ресурс на монеты по курсу текущего уровня.
// Опыт: монеты/20 сверх обычного опыта за начисление.
func (s *Store) CollectMine(userID int64) (MineCollectResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)

	if u.Mine.Stored <= 0 {
		return MineCollectResult{}, common.ErrNothingToCollect
	}
	tier := MineTiers[u.Mine.Tier]
	total := u.Mine.Stored * tier.PricePerUnit
	res := MineCollectResult{Units: u.Mine.Stored, Resource: tier.Resource, Coins: total}

	if !u.Cash.IsUnlimited() {
		u.Cash = u.Cash.add(total)
		s.addXPLocked(u, total/100)
	}
	s.addXPLocked(u, total/20)
	u.Mine.Stored = 0
	return res, nil
}

// UpgradeMine повышает уровень рудника за монеты.
func (s *Store) UpgradeMine(userID int64) (MineTierInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)

	if u.Mine.Tier >= MaxMineTier {
		return MineTierInfo{}, common.ErrMineMaxLevel
	}
	next := MineTiers[u.Mine.Tier+1]
	if !u.Cash.CanAfford(next.UpgradeCost) {
		return MineTierInfo{}, common.ErrInsufficientFunds
	}
	u.Cash = u.Cash.sub(next.UpgradeCost)
	u.Mine.Tier++
	s.addXPLocked(u, next.UpgradeCost/100)
	return next, nil
}

// ToggleAutoCollect переключает авто-сбор рудника и возвращает новое состояние.
func (s *Store) ToggleAutoCollect(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)
	u.Mine.AutoCollect = !u.Mine.AutoCollect
	return u.Mine.AutoCollect
}

// BuyBusiness покупает бизнес указанного типа.
func (s *Store) BuyBusiness(userID int64, kind BusinessKind) error {
	info, ok := BusinessTypes[kind]
	if !ok {
		return common.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)

	if u.Business.Kind != BusinessNone {
		return common.ErrBusinessExists
	}
	if !u.Cash.CanAfford(info.Cost) {
		return common.ErrInsufficientFunds
	}
	u.Cash = u.Cash.sub(info.Cost)
	u.Business = BusinessState{Kind: kind, Active: true}
	return nil
}

// CollectBusiness забирает накопленную прибыль бизнеса.
// Опыт: прибыль/100 сверх обычного опыта за начисление.
func (s *Store) CollectBusiness(userID int64, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)

	if u.Business.Kind == BusinessNone {
		return 0, common.ErrNoBusiness
	}
	if !u.Business.Active {
		return 0, common.ErrNoBusiness
	}
	profit := u.Business.Accrued
	if profit <= 0 {
		return 0, common.ErrNothingToCollect
	}
	if !u.Cash.IsUnlimited() {
		u.Cash = u.Cash.add(profit)
		s.addXPLocked(u, profit/100)
	}
	s.addXPLocked(u, profit/100)
	u.Business.Accrued = 0
	u.Business.LastAccrual = now
	return profit, nil
}

// SellBusiness продаёт бизнес за половину цены плюс накопленную прибыль.
// Опыт: сумма/50 сверх обычного опыта за начисление.
func (s *Store) SellBusiness(userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)

	if u.Business.Kind == BusinessNone {
		return 0, common.ErrNoBusiness
	}
	info := BusinessTypes[u.Business.Kind]
	total := info.Cost/2 + u.Business.Accrued

	if !u.Cash.IsUnlimited() {
		u.Cash = u.Cash.add(total)
		s.addXPLocked(u, total/100)
	}
	s.addXPLocked(u, total/50)
	u.Business = BusinessState{}
	return total, nil
}

// Accrue — один тик пассивного накопления для всех пользователей.
//
// Рудник: при включённом авто-сборе прибавляется фиксированная добыча за тик.
//
// Бизнес: на первом тике после покупки/сбора только ставится метка времени.
// Дальше считаются ЦЕЛЫЕ прошедшие периоды, прибыль начисляется за каждый,
// а метка сдвигается на «сейчас» — не на lastAccrual+cycles*period.
// Остаток неполного периода при этом теряется; это поведение зафиксировано
// тестами и менять его нельзя.
func (s *Store) Accrue(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Mine.AutoCollect {
			u.Mine.Stored += s.cfg.MineYieldPerTick
		}

		if u.Business.Kind == BusinessNone || !u.Business.Active {
			continue
		}
		if u.Business.LastAccrual.IsZero() {
			u.Business.LastAccrual = now
			continue
		}
		info := BusinessTypes[u.Business.Kind]
		elapsed := now.Sub(u.Business.LastAccrual)
		if elapsed >= info.ProfitPeriod {
			cycles := int64(elapsed / info.ProfitPeriod)
			u.Business.Accrued += cycles * info.BaseProfit
			u.Business.LastAccrual = now
		}
	}
}
