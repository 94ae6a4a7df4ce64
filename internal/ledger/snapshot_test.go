package ledger

import (
	"testing"
	"time"
)

func TestExportRestoreRoundTrip(t *testing.T) {
	s := NewStore(testConfig())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	_ = s.Credit(1, 5000)
	_ = s.DepositBank(1, 1000)
	s.SetPremium(1, PremiumElite, now)
	s.SetRank(1, "moderator")
	s.SetUnlimited(2)
	s.RecordDonation(DonationTransaction{ID: "tx-1", UserID: 1, Kind: DonationCoins, StarsPaid: 1, CoinsGranted: 10000, CreatedAt: now})

	records := s.Export()
	if len(records) != 2 {
		t.Fatalf("выгружено %d записей, ожидалось 2", len(records))
	}

	restored := NewStore(testConfig())
	if err := restored.Restore(records); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	v := restored.View(1)
	orig := s.View(1)
	if v.Cash.Amount() != orig.Cash.Amount() || v.Bank != orig.Bank {
		t.Errorf("деньги: %d/%d, ожидалось %d/%d", v.Cash.Amount(), v.Bank, orig.Cash.Amount(), orig.Bank)
	}
	if v.Level != orig.Level || v.XP != orig.XP || v.XPToNext != orig.XPToNext {
		t.Errorf("уровень: %d/%d/%d, ожидалось %d/%d/%d",
			v.Level, v.XP, v.XPToNext, orig.Level, orig.XP, orig.XPToNext)
	}
	if v.Rank != "moderator" {
		t.Errorf("ранг = %q, ожидался moderator", v.Rank)
	}
	if got := restored.PremiumTier(1, now); got != PremiumElite {
		t.Errorf("привилегия = %q, ожидалась elite", got)
	}
	if !restored.HasUnlimited(2) {
		t.Error("бесконечный баланс не пережил восстановление")
	}
	if txs := restored.Donations(1); len(txs) != 1 || txs[0].ID != "tx-1" {
		t.Errorf("история донатов = %+v, ожидалась одна транзакция tx-1", txs)
	}
}

func TestRestoreRejectsNegativeCash(t *testing.T) {
	s := NewStore(testConfig())
	err := s.Restore([]UserRecord{{UserID: 1, Cash: -50, Level: 1, XPToNext: 100}})
	if err == nil {
		t.Fatal("Restore принял отрицательный баланс")
	}
}

func TestExportIsDeepCopy(t *testing.T) {
	s := NewStore(testConfig())
	s.RecordDonation(DonationTransaction{ID: "tx-1", UserID: 1, Kind: DonationCoins, CreatedAt: time.Now()})

	records := s.Export()
	records[0].Donations[0].Refunded = true

	if s.Donations(1)[0].Refunded {
		t.Error("мутация снапшота затронула живое состояние")
	}
}
