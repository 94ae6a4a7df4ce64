package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/minefix2025-boop/Coingame/internal/common"
)

func TestRefundUnknownTransaction(t *testing.T) {
	s := NewStore(testConfig())
	if _, err := s.RefundDonation(1, "nope", time.Now()); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("возврат неизвестной транзакции = %v, ожидался ErrNotFound", err)
	}
}

func TestRefundCoins(t *testing.T) {
	s := NewStore(testConfig())
	now := time.Now()

	_ = s.Credit(1, 20000)
	s.RecordDonation(DonationTransaction{
		ID: "tx-1", UserID: 1, Kind: DonationCoins, StarsPaid: 2, CoinsGranted: 20000, CreatedAt: now,
	})

	balanceBefore := s.View(1).Cash.Amount()
	tx, err := s.RefundDonation(1, "tx-1", now)
	if err != nil {
		t.Fatalf("RefundDonation: %v", err)
	}
	if !tx.Refunded {
		t.Error("транзакция не помечена возвращённой")
	}
	if got := s.View(1).Cash.Amount(); got != balanceBefore-20000 {
		t.Errorf("баланс = %d, ожидалось %d", got, balanceBefore-20000)
	}

	// Повторный возврат той же транзакции
	if _, err := s.RefundDonation(1, "tx-1", now); !errors.Is(err, common.ErrRefundIneligible) {
		t.Errorf("повторный возврат = %v, ожидался ErrRefundIneligible", err)
	}
}

func TestRefundCoinsSpent(t *testing.T) {
	s := NewStore(testConfig())
	now := time.Now()

	// Монеты зачислены и тут же потрачены — возврат увёл бы баланс в минус
	s.RecordDonation(DonationTransaction{
		ID: "tx-1", UserID: 1, Kind: DonationCoins, StarsPaid: 2, CoinsGranted: 20000, CreatedAt: now,
	})
	if _, err := s.RefundDonation(1, "tx-1", now); !errors.Is(err, common.ErrRefundIneligible) {
		t.Errorf("возврат потраченных монет = %v, ожидался ErrRefundIneligible", err)
	}
}

func TestRefundPremium(t *testing.T) {
	s := NewStore(testConfig())
	now := time.Now()

	s.SetPremium(1, PremiumElite, now)
	s.RecordDonation(DonationTransaction{
		ID: "tx-1", UserID: 1, Kind: DonationElite, StarsPaid: 50, CreatedAt: now,
	})

	if _, err := s.RefundDonation(1, "tx-1", now); err != nil {
		t.Fatalf("RefundDonation: %v", err)
	}
	if got := s.PremiumTier(1, now); got != PremiumNone {
		t.Errorf("привилегия после возврата = %q, ожидалась пустая", got)
	}
}

func TestRefundPremiumTierChanged(t *testing.T) {
	s := NewStore(testConfig())
	now := time.Now()

	// Купил элиту, потом перешёл на делюкс — возврат элиты невозможен
	s.RecordDonation(DonationTransaction{
		ID: "tx-1", UserID: 1, Kind: DonationElite, StarsPaid: 50, CreatedAt: now,
	})
	s.SetPremium(1, PremiumDeluxe, now)

	if _, err := s.RefundDonation(1, "tx-1", now); !errors.Is(err, common.ErrRefundIneligible) {
		t.Errorf("возврат при сменённой привилегии = %v, ожидался ErrRefundIneligible", err)
	}
}
