package economy

import (
	"errors"
	"testing"
	"time"

	"github.com/minefix2025-boop/Coingame/internal/common"
	"github.com/minefix2025-boop/Coingame/internal/config"
	"github.com/minefix2025-boop/Coingame/internal/ledger"
)

func newTestService() (*Service, *ledger.Store) {
	store := ledger.NewStore(&config.Config{
		StartBalance:      100,
		StartAccelerators: 2,
		DailyBalance:      500,
		DailyAccelerators: 30,
		DailyCooldown:     12 * time.Hour,
	})
	return NewService(store), store
}

func TestWorkUnknownJob(t *testing.T) {
	s, _ := newTestService()
	if _, err := s.Work(1, "Космонавт"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("неизвестная работа = %v, ожидался ErrNotFound", err)
	}
}

func TestWorkSpendsAccelerator(t *testing.T) {
	s, store := newTestService()

	result, err := s.Work(1, "Курьер")
	if err != nil {
		t.Fatalf("Work: %v", err)
	}
	if result.Earned < 10 || result.Earned > 30 {
		t.Errorf("заработок курьера = %d, ожидался диапазон 10–30", result.Earned)
	}
	if got := store.View(1).Accelerators; got != 1 {
		t.Errorf("ускорители = %d, ожидался 1", got)
	}
	if got := store.View(1).Cash.Amount(); got != 100+result.Earned {
		t.Errorf("баланс = %d, ожидалось %d", got, 100+result.Earned)
	}
}

func TestWorkWithoutAccelerators(t *testing.T) {
	s, _ := newTestService()
	_, _ = s.Work(1, "Курьер")
	_, _ = s.Work(1, "Курьер")

	if _, err := s.Work(1, "Курьер"); !errors.Is(err, common.ErrNoAccelerators) {
		t.Errorf("работа без ускорителей = %v, ожидался ErrNoAccelerators", err)
	}
}

func TestWorkUnlimited(t *testing.T) {
	s, store := newTestService()
	store.SetUnlimited(1)

	before := store.View(1)
	if _, err := s.Work(1, "Программист"); err != nil {
		t.Fatalf("Work: %v", err)
	}
	after := store.View(1)
	if after.Accelerators != before.Accelerators {
		t.Errorf("ускорители потратились: %d -> %d", before.Accelerators, after.Accelerators)
	}
	if after.XP != before.XP {
		t.Errorf("начислен опыт при бесконечном балансе: %d -> %d", before.XP, after.XP)
	}
}

func TestBetValidation(t *testing.T) {
	s, _ := newTestService()
	if _, err := s.Bet(1, 0); !errors.Is(err, common.ErrInvalidAmount) {
		t.Errorf("ставка 0 = %v, ожидался ErrInvalidAmount", err)
	}
	if _, err := s.Bet(1, 1000); !errors.Is(err, common.ErrInsufficientFunds) {
		t.Errorf("ставка сверх баланса = %v, ожидался ErrInsufficientFunds", err)
	}
}

func TestBetSettlement(t *testing.T) {
	s, store := newTestService()

	result, err := s.Bet(1, 50)
	if err != nil {
		t.Fatalf("Bet: %v", err)
	}
	want := int64(100)
	if result.Won {
		want += 50
	} else {
		want -= 50
	}
	if got := store.View(1).Cash.Amount(); got != want {
		t.Errorf("баланс = %d, ожидалось %d", got, want)
	}
}

func TestApplyCoinOutcome(t *testing.T) {
	s, store := newTestService()

	if err := s.ApplyCoinOutcome(1, 40, true); err != nil {
		t.Fatalf("выигрыш: %v", err)
	}
	if got := store.View(1).Cash.Amount(); got != 140 {
		t.Errorf("баланс после выигрыша = %d, ожидалось 140", got)
	}

	if err := s.ApplyCoinOutcome(1, 40, false); err != nil {
		t.Fatalf("проигрыш: %v", err)
	}
	if got := store.View(1).Cash.Amount(); got != 100 {
		t.Errorf("баланс после проигрыша = %d, ожидалось 100", got)
	}

	if err := s.ApplyCoinOutcome(1, 0, true); !errors.Is(err, common.ErrInvalidAmount) {
		t.Errorf("нулевая ставка = %v, ожидался ErrInvalidAmount", err)
	}
}

func TestTransferMovesMoney(t *testing.T) {
	s, store := newTestService()
	store.EnsureUser(2)

	if err := s.Transfer(1, 2, 30); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if got := store.View(1).Cash.Amount(); got != 70 {
		t.Errorf("отправитель = %d, ожидалось 70", got)
	}
	if got := store.View(2).Cash.Amount(); got != 130 {
		t.Errorf("получатель = %d, ожидалось 130", got)
	}
}
