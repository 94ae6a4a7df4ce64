// Package economy — service.go содержит бизнес-логику повседневной экономики.
package economy

import (
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/common"
	"github.com/minefix2025-boop/Coingame/internal/ledger"
)

// Service управляет повседневной экономикой поверх хранилища.
type Service struct {
	store *ledger.Store
}

// NewService создаёт сервис экономики.
func NewService(store *ledger.Store) *Service {
	return &Service{store: store}
}

// View возвращает снимок состояния пользователя для отображения.
func (s *Service) View(userID int64) ledger.View {
	return s.store.View(userID)
}

// Daily выдаёт ежедневный бонус.
func (s *Service) Daily(userID int64) (ledger.DailyReward, error) {
	return s.store.ClaimDaily(userID, time.Now())
}

// Work отрабатывает одну смену: тратит ускоритель, платит случайный
// заработок из диапазона работы и даёт опыт заработок/10.
func (s *Service) Work(userID int64, jobName string) (WorkResult, error) {
	job, ok := Jobs[jobName]
	if !ok {
		return WorkResult{}, common.ErrNotFound
	}
	if err := s.store.UseAccelerator(userID); err != nil {
		return WorkResult{}, err
	}

	earned := job.MinEarn + rand.Int63n(job.MaxEarn-job.MinEarn+1)
	if !s.store.HasUnlimited(userID) {
		_ = s.store.Credit(userID, earned)
		s.store.GrantXP(userID, earned/10)
	}

	log.WithFields(log.Fields{"user": userID, "job": jobName, "earned": earned}).
		Debug("Смена отработана")
	return WorkResult{Job: jobName, Earned: earned}, nil
}

// Bet — мгновенная ставка 50/50: выигрыш удваивает ставку на руках
// (начисляется сумма ставки), проигрыш списывает её.
func (s *Service) Bet(userID int64, amount int64) (BetResult, error) {
	if amount <= 0 {
		return BetResult{}, common.ErrInvalidAmount
	}
	if !s.store.CanAfford(userID, amount) {
		return BetResult{}, common.ErrInsufficientFunds
	}

	won := rand.Intn(2) == 0
	if won {
		if !s.store.HasUnlimited(userID) {
			_ = s.store.Credit(userID, amount)
			s.store.GrantXP(userID, amount/50)
		}
	} else {
		if err := s.store.Deduct(userID, amount); err != nil {
			return BetResult{}, err
		}
	}
	return BetResult{Won: won, Amount: amount}, nil
}

// ApplyCoinOutcome применяет исход монетки с уже известным результатом:
// те же правила выплат и опыта, что и у Bet.
func (s *Service) ApplyCoinOutcome(userID int64, amount int64, won bool) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	if !s.store.CanAfford(userID, amount) {
		return common.ErrInsufficientFunds
	}

	if won {
		if !s.store.HasUnlimited(userID) {
			_ = s.store.Credit(userID, amount)
			s.store.GrantXP(userID, amount/50)
		}
		return nil
	}
	return s.store.Deduct(userID, amount)
}

// CoinFlip подбрасывает монетку. Ставок нет, только результат.
func (s *Service) CoinFlip() string {
	if rand.Intn(2) == 0 {
		return "Орёл"
	}
	return "Решка"
}

// Transfer переводит монеты другому пользователю.
func (s *Service) Transfer(fromID, toID int64, amount int64) error {
	if err := s.store.Transfer(fromID, toID, amount); err != nil {
		return err
	}
	log.WithFields(log.Fields{"from": fromID, "to": toID, "amount": amount}).
		Info("Перевод выполнен")
	return nil
}

// Deposit кладёт монеты в банк.
func (s *Service) Deposit(userID int64, amount int64) error {
	return s.store.DepositBank(userID, amount)
}

// Withdraw снимает монеты из банка.
func (s *Service) Withdraw(userID int64, amount int64) error {
	return s.store.WithdrawBank(userID, amount)
}
