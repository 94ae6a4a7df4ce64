package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/minefix2025-boop/Coingame/internal/common"
	"github.com/minefix2025-boop/Coingame/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		StartBalance:            100,
		StartAccelerators:       10,
		DailyBalance:            500,
		DailyAccelerators:       30,
		DailyBalanceElite:       2500,
		DailyAcceleratorsElite:  60,
		DailyBalanceDeluxe:      5000,
		DailyAcceleratorsDeluxe: 100,
		DailyCooldown:           12 * time.Hour,
		MineYieldPerTick:        3,
		PremiumDuration:         720 * time.Hour,
		RouletteMultiplier:      36,
		BoardMines:              5,
		BoardMultiplier:         1.3,
		StarToCoins:             10000,
	}
}

func TestEnsureUserDefaults(t *testing.T) {
	s := NewStore(testConfig())
	v := s.View(42)

	if got := v.Cash.Amount(); got != 100 {
		t.Errorf("стартовый баланс = %d, ожидалось 100", got)
	}
	if v.Accelerators != 10 {
		t.Errorf("стартовые ускорители = %d, ожидалось 10", v.Accelerators)
	}
	if v.Level != 1 || v.XP != 0 || v.XPToNext != 100 {
		t.Errorf("стартовый уровень = %d/%d/%d, ожидалось 1/0/100", v.Level, v.XP, v.XPToNext)
	}
}

func TestDeductInsufficientFunds(t *testing.T) {
	s := NewStore(testConfig())
	s.EnsureUser(1)

	if err := s.Deduct(1, 150); !errors.Is(err, common.ErrInsufficientFunds) {
		t.Fatalf("Deduct(150) = %v, ожидался ErrInsufficientFunds", err)
	}
	if got := s.View(1).Cash.Amount(); got != 100 {
		t.Errorf("баланс после отказа = %d, ожидалось 100 (без изменений)", got)
	}
}

func TestDeductInvalidAmount(t *testing.T) {
	s := NewStore(testConfig())
	for _, amount := range []int64{0, -5} {
		if err := s.Deduct(1, amount); !errors.Is(err, common.ErrInvalidAmount) {
			t.Errorf("Deduct(%d) = %v, ожидался ErrInvalidAmount", amount, err)
		}
	}
}

func TestCreditGrantsXP(t *testing.T) {
	s := NewStore(testConfig())
	if err := s.Credit(1, 250); err != nil {
		t.Fatalf("Credit: %v", err)
	}

	v := s.View(1)
	if got := v.Cash.Amount(); got != 350 {
		t.Errorf("баланс = %d, ожидалось 350", got)
	}
	if v.XP != 2 {
		t.Errorf("XP = %d, ожидалось 2 (250/100)", v.XP)
	}
}

func TestUnlimitedBalance(t *testing.T) {
	s := NewStore(testConfig())
	s.SetUnlimited(1)

	if !s.HasUnlimited(1) {
		t.Fatal("HasUnlimited = false после SetUnlimited")
	}
	if !s.CanAfford(1, 1<<60) {
		t.Error("бесконечный баланс должен позволять любую сумму")
	}

	// Начисления и списания не меняют ни баланс, ни опыт
	before := s.View(1)
	if err := s.Credit(1, 100000); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if err := s.Deduct(1, 100000); err != nil {
		t.Fatalf("Deduct: %v", err)
	}
	after := s.View(1)
	if !after.Cash.IsUnlimited() {
		t.Error("баланс перестал быть бесконечным")
	}
	if after.XP != before.XP || after.Level != before.Level {
		t.Errorf("опыт изменился: был %d/%d, стал %d/%d", before.Level, before.XP, after.Level, after.XP)
	}
}

func TestClearUnlimitedRestoresStart(t *testing.T) {
	s := NewStore(testConfig())
	s.SetUnlimited(1)
	s.ClearUnlimited(1)

	v := s.View(1)
	if v.Cash.IsUnlimited() {
		t.Fatal("баланс остался бесконечным")
	}
	if got := v.Cash.Amount(); got != 100 {
		t.Errorf("баланс после снятия = %d, ожидался стартовый 100", got)
	}
}

func TestTransfer(t *testing.T) {
	s := NewStore(testConfig())
	s.EnsureUser(1)
	s.EnsureUser(2)

	if err := s.Transfer(1, 1, 10); !errors.Is(err, common.ErrSelfTransfer) {
		t.Errorf("перевод себе = %v, ожидался ErrSelfTransfer", err)
	}
	if err := s.Transfer(1, 2, 1000); !errors.Is(err, common.ErrInsufficientFunds) {
		t.Errorf("перевод без средств = %v, ожидался ErrInsufficientFunds", err)
	}

	if err := s.Transfer(1, 2, 40); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if got := s.View(1).Cash.Amount(); got != 60 {
		t.Errorf("баланс отправителя = %d, ожидалось 60", got)
	}
	if got := s.View(2).Cash.Amount(); got != 140 {
		t.Errorf("баланс получателя = %d, ожидалось 140", got)
	}
}

func TestBank(t *testing.T) {
	s := NewStore(testConfig())

	if err := s.DepositBank(1, 60); err != nil {
		t.Fatalf("DepositBank: %v", err)
	}
	v := s.View(1)
	if v.Cash.Amount() != 40 || v.Bank != 60 {
		t.Errorf("после вклада: кошелёк %d, банк %d, ожидалось 40/60", v.Cash.Amount(), v.Bank)
	}
	if v.XP != 0 {
		t.Errorf("вклад в банк дал XP = %d, ожидалось 0", v.XP)
	}

	if err := s.WithdrawBank(1, 100); !errors.Is(err, common.ErrInsufficientFunds) {
		t.Errorf("снятие сверх вклада = %v, ожидался ErrInsufficientFunds", err)
	}
	if err := s.WithdrawBank(1, 60); err != nil {
		t.Fatalf("WithdrawBank: %v", err)
	}
	v = s.View(1)
	if v.Cash.Amount() != 100 || v.Bank != 0 {
		t.Errorf("после снятия: кошелёк %d, банк %d, ожидалось 100/0", v.Cash.Amount(), v.Bank)
	}
}

func TestClaimDailyCooldown(t *testing.T) {
	s := NewStore(testConfig())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	reward, err := s.ClaimDaily(1, now)
	if err != nil {
		t.Fatalf("первый ClaimDaily: %v", err)
	}
	if reward.Coins != 500 || reward.Accelerators != 30 {
		t.Errorf("награда = %d/%d, ожидалось 500/30", reward.Coins, reward.Accelerators)
	}

	reward, err = s.ClaimDaily(1, now.Add(time.Hour))
	if !errors.Is(err, common.ErrDailyTooEarly) {
		t.Fatalf("повторный ClaimDaily = %v, ожидался ErrDailyTooEarly", err)
	}
	if reward.RetryAfter != 11*time.Hour {
		t.Errorf("RetryAfter = %s, ожидалось 11h", reward.RetryAfter)
	}

	if _, err := s.ClaimDaily(1, now.Add(12*time.Hour)); err != nil {
		t.Errorf("ClaimDaily после кулдауна: %v", err)
	}
}

func TestClaimDailyPremiumTiers(t *testing.T) {
	s := NewStore(testConfig())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	s.SetPremium(1, PremiumElite, now)
	reward, err := s.ClaimDaily(1, now)
	if err != nil {
		t.Fatalf("ClaimDaily: %v", err)
	}
	if reward.Coins != 2500 || reward.Accelerators != 60 {
		t.Errorf("элитная награда = %d/%d, ожидалось 2500/60", reward.Coins, reward.Accelerators)
	}

	s.SetPremium(2, PremiumDeluxe, now)
	reward, err = s.ClaimDaily(2, now)
	if err != nil {
		t.Fatalf("ClaimDaily: %v", err)
	}
	if reward.Coins != 5000 || reward.Accelerators != 100 {
		t.Errorf("делюкс-награда = %d/%d, ожидалось 5000/100", reward.Coins, reward.Accelerators)
	}
}

func TestPremiumExpires(t *testing.T) {
	s := NewStore(testConfig())
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	s.SetPremium(1, PremiumElite, now)
	if got := s.PremiumTier(1, now.Add(time.Hour)); got != PremiumElite {
		t.Errorf("привилегия = %q, ожидалась elite", got)
	}
	if got := s.PremiumTier(1, now.Add(721*time.Hour)); got != PremiumNone {
		t.Errorf("привилегия после истечения = %q, ожидалась пустая", got)
	}
}

func TestUseAccelerator(t *testing.T) {
	s := NewStore(testConfig())
	for i := 0; i < 10; i++ {
		if err := s.UseAccelerator(1); err != nil {
			t.Fatalf("UseAccelerator #%d: %v", i+1, err)
		}
	}
	if err := s.UseAccelerator(1); !errors.Is(err, common.ErrNoAccelerators) {
		t.Errorf("UseAccelerator без ускорителей = %v, ожидался ErrNoAccelerators", err)
	}

	// Бесконечный баланс работает без трат
	s.SetUnlimited(2)
	before := s.View(2).Accelerators
	if err := s.UseAccelerator(2); err != nil {
		t.Fatalf("UseAccelerator (unlimited): %v", err)
	}
	if got := s.View(2).Accelerators; got != before {
		t.Errorf("ускорители потратились при бесконечном балансе: %d -> %d", before, got)
	}
}
