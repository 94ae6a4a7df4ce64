package promo

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
		StartAccelerators: 10,
		DailyCooldown:     12 * time.Hour,
	})
	return NewService(store), store
}

func TestCreateDuplicate(t *testing.T) {
	s, _ := newTestService()
	if err := s.Create("BONUS", RewardCoins, 1000, 5); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Код нормализуется, поэтому "bonus" — это тот же код
	if err := s.Create("bonus", RewardCoins, 500, 1); !errors.Is(err, common.ErrPromoExists) {
		t.Errorf("повторное создание = %v, ожидался ErrPromoExists", err)
	}
}

func TestActivateUnknown(t *testing.T) {
	s, _ := newTestService()
	if _, err := s.Activate("NOPE", 1); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("активация несуществующего = %v, ожидался ErrNotFound", err)
	}
}

func TestActivateGrantsReward(t *testing.T) {
	s, store := newTestService()
	_ = s.Create("COINS", RewardCoins, 1000, 5)
	_ = s.Create("ACC", RewardAccelerators, 7, 5)

	res, err := s.Activate("coins", 1)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if res.Reward != RewardCoins || res.Amount != 1000 || res.Remaining != 4 {
		t.Errorf("результат = %+v, ожидалось coins/1000/4", res)
	}
	if got := store.View(1).Cash.Amount(); got != 1100 {
		t.Errorf("баланс = %d, ожидалось 1100", got)
	}

	if _, err := s.Activate("ACC", 1); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if got := store.View(1).Accelerators; got != 17 {
		t.Errorf("ускорители = %d, ожидалось 17", got)
	}
}

func TestActivateIdempotentPerUser(t *testing.T) {
	s, store := newTestService()
	_ = s.Create("ONCE", RewardCoins, 1000, 5)

	if _, err := s.Activate("ONCE", 1); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if _, err := s.Activate("ONCE", 1); !errors.Is(err, common.ErrPromoAlreadyUsed) {
		t.Errorf("повторная активация = %v, ожидался ErrPromoAlreadyUsed", err)
	}
	// Награда не выдалась второй раз
	if got := store.View(1).Cash.Amount(); got != 1100 {
		t.Errorf("баланс = %d, ожидалось 1100", got)
	}
}

func TestActivateExhausted(t *testing.T) {
	s, _ := newTestService()
	_ = s.Create("LIMITED", RewardCoins, 100, 2)
	_, _ = s.Activate("LIMITED", 1)
	_, _ = s.Activate("LIMITED", 2)

	if _, err := s.Activate("LIMITED", 3); !errors.Is(err, common.ErrPromoExhausted) {
		t.Errorf("активация исчерпанного = %v, ожидался ErrPromoExhausted", err)
	}

	// Исчерпание сообщается раньше повторного использования
	if _, err := s.Activate("LIMITED", 1); !errors.Is(err, common.ErrPromoExhausted) {
		t.Errorf("активация исчерпанного своим же = %v, ожидался ErrPromoExhausted", err)
	}
}

func TestExportRestore(t *testing.T) {
	s, store := newTestService()
	_ = s.Create("KEEP", RewardCoins, 100, 3)
	_, _ = s.Activate("KEEP", 1)

	records := s.Export()
	restored := NewService(store)
	restored.Restore(records)

	if _, err := restored.Activate("KEEP", 1); !errors.Is(err, common.ErrPromoAlreadyUsed) {
		t.Errorf("использование после восстановления = %v, ожидался ErrPromoAlreadyUsed", err)
	}
	if _, err := restored.Activate("KEEP", 2); err != nil {
		t.Errorf("новая активация после восстановления: %v", err)
	}
}
