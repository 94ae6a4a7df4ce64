// Package donate — service.go содержит логику инвойсов, зачисления оплат
// и возвратов.
package donate

import (
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/common"
	"github.com/minefix2025-boop/Coingame/internal/config"
	"github.com/minefix2025-boop/Coingame/internal/ledger"
)

// Service управляет донатом.
type Service struct {
	mu       sync.Mutex
	invoices map[string]Invoice // payload инвойса → параметры покупки

	store *ledger.Store
	cfg   *config.Config
}

// NewService создаёт сервис доната.
func NewService(store *ledger.Store, cfg *config.Config) *Service {
	return &Service{
		invoices: make(map[string]Invoice),
		store:    store,
		cfg:      cfg,
	}
}

// CreateInvoice регистрирует инвойс перед отправкой пользователю
// и возвращает его payload.
func (s *Service) CreateInvoice(userID int64, kind string, stars int64) (string, error) {
	if stars <= 0 {
		return "", common.ErrInvalidAmount
	}
	payload := uuid.NewString()
	s.mu.Lock()
	s.invoices[payload] = Invoice{UserID: userID, Kind: kind, Stars: stars}
	s.mu.Unlock()
	return payload, nil
}

// ApplyPayment зачисляет подтверждённую оплату.
// Неизвестный payload — восстановимая ошибка, о которой сообщается
// пользователю; состояние при этом не меняется.
func (s *Service) ApplyPayment(userID int64, payload, providerTxID string, stars int64) (PaymentResult, error) {
	s.mu.Lock()
	inv, ok := s.invoices[payload]
	if !ok {
		s.mu.Unlock()
		return PaymentResult{}, common.ErrNotFound
	}
	delete(s.invoices, payload)
	s.mu.Unlock()

	now := time.Now()
	txID := providerTxID
	if txID == "" {
		txID = uuid.NewString()
	}
	result := PaymentResult{Kind: inv.Kind, StarsPaid: stars, TransactionID: txID}
	tx := ledger.DonationTransaction{
		ID:        txID,
		UserID:    userID,
		StarsPaid: stars,
		CreatedAt: now,
	}

	switch inv.Kind {
	case "coins":
		coins := stars * s.cfg.StarToCoins
		_ = s.store.Credit(userID, coins)
		result.CoinsGranted = coins
		tx.Kind = ledger.DonationCoins
		tx.CoinsGranted = coins
	case "elite":
		s.store.SetPremium(userID, ledger.PremiumElite, now)
		tx.Kind = ledger.DonationElite
	case "deluxe":
		s.store.SetPremium(userID, ledger.PremiumDeluxe, now)
		tx.Kind = ledger.DonationDeluxe
	default:
		return PaymentResult{}, common.ErrNotFound
	}

	s.store.RecordDonation(tx)
	log.WithFields(log.Fields{"user": userID, "kind": inv.Kind, "stars": stars, "tx": txID}).
		Info("Оплата зачислена")
	return result, nil
}

// Refund выполняет возврат по ID транзакции.
func (s *Service) Refund(userID int64, txID string) (ledger.DonationTransaction, error) {
	tx, err := s.store.RefundDonation(userID, txID, time.Now())
	if err != nil {
		return ledger.DonationTransaction{}, err
	}
	log.WithFields(log.Fields{"user": userID, "tx": txID}).Info("Возврат выполнен")
	return tx, nil
}

// History возвращает историю покупок пользователя.
func (s *Service) History(userID int64) []ledger.DonationTransaction {
	return s.store.Donations(userID)
}
