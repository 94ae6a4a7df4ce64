// Package ledger — donations.go хранит историю покупок за Telegram Stars
// и реализует возврат. История append-only: меняться может только флаг
// Refunded, ровно один раз.
package ledger

import (
	"time"

	"github.com/minefix2025-boop/Coingame/internal/common"
)

// RecordDonation добавляет транзакцию покупки в историю пользователя.
func (s *Store) RecordDonation(tx DonationTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(tx.UserID)
	u.Donations = append(u.Donations, tx)
}

// Donations возвращает копию истории покупок пользователя.
func (s *Store) Donations(userID int64) []DonationTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)
	out := make([]DonationTransaction, len(u.Donations))
	copy(out, u.Donations)
	return out
}

// RefundDonation выполняет возврат по транзакции.
//
// Правила:
//   - неизвестный ID транзакции — ErrNotFound;
//   - уже возвращённая транзакция — ErrRefundIneligible;
//   - покупка монет: монеты должны быть на счету, иначе ErrRefundIneligible
//     (иначе списание увело бы баланс в минус);
//   - покупка привилегии: текущая привилегия должна совпадать с купленной,
//     иначе ErrRefundIneligible; при возврате привилегия снимается.
//
// Все проверки и мутация — под одной блокировкой: два конкурентных
// возврата одной транзакции не пройдут оба.
func (s *Store) RefundDonation(userID int64, txID string, now time.Time) (DonationTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureLocked(userID)

	for i := range u.Donations {
		tx := &u.Donations[i]
		if tx.ID != txID {
			continue
		}
		if tx.Refunded {
			return DonationTransaction{}, common.ErrRefundIneligible
		}
		switch tx.Kind {
		case DonationCoins:
			if !u.Cash.CanAfford(tx.CoinsGranted) {
				return DonationTransaction{}, common.ErrRefundIneligible
			}
			u.Cash = u.Cash.sub(tx.CoinsGranted)
		case DonationElite, DonationDeluxe:
			bought := PremiumElite
			if tx.Kind == DonationDeluxe {
				bought = PremiumDeluxe
			}
			if premiumTierLocked(u, now) != bought {
				return DonationTransaction{}, common.ErrRefundIneligible
			}
			u.Premium = PremiumState{}
		}
		tx.Refunded = true
		return *tx, nil
	}
	return DonationTransaction{}, common.ErrNotFound
}
