package admin

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/argon2"

	"github.com/minefix2025-boop/Coingame/internal/common"
	"github.com/minefix2025-boop/Coingame/internal/config"
	"github.com/minefix2025-boop/Coingame/internal/features/promo"
	"github.com/minefix2025-boop/Coingame/internal/ledger"
)

const adminID = int64(99)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		t.Fatalf("соль: %v", err)
	}
	hash := argon2.IDKey([]byte(password), salt, 3, 65536, 2, 32)
	return fmt.Sprintf("$argon2id$v=19$m=65536,t=3,p=2$%s$%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))
}

func newTestService(t *testing.T) (*Service, *ledger.Store) {
	t.Helper()
	cfg := &config.Config{
		StartBalance:      100,
		StartAccelerators: 10,
		DailyCooldown:     12 * time.Hour,
		AdminIDs:          []int64{adminID},
		AdminPasswordHash: hashPassword(t, "secret"),
	}
	store := ledger.NewStore(cfg)
	return NewService(store, promo.NewService(store), cfg), store
}

func TestLoginNonAdmin(t *testing.T) {
	s, _ := newTestService(t)
	if err := s.Login(1, "secret"); !errors.Is(err, common.ErrNotAdmin) {
		t.Errorf("вход не-админа = %v, ожидался ErrNotAdmin", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	s, _ := newTestService(t)
	if err := s.Login(adminID, "guess"); !errors.Is(err, common.ErrWrongPassword) {
		t.Errorf("неверный пароль = %v, ожидался ErrWrongPassword", err)
	}
	if s.IsElevated(adminID) {
		t.Error("права выданы при неверном пароле")
	}
}

func TestLoginAttemptLimit(t *testing.T) {
	s, _ := newTestService(t)
	for i := 0; i < 3; i++ {
		_ = s.Login(adminID, "guess")
	}
	// Четвёртая попытка блокируется даже с верным паролем
	if err := s.Login(adminID, "secret"); !errors.Is(err, common.ErrTooManyAttempts) {
		t.Errorf("вход после перебора = %v, ожидался ErrTooManyAttempts", err)
	}
}

func TestLoginElevates(t *testing.T) {
	s, _ := newTestService(t)
	if err := s.Login(adminID, "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !s.IsElevated(adminID) {
		t.Error("IsElevated = false после успешного входа")
	}
}

func TestGiveMoneyRequiresAdmin(t *testing.T) {
	s, store := newTestService(t)

	if err := s.GiveMoney(1, 2, 100); !errors.Is(err, common.ErrNotAdmin) {
		t.Errorf("выдача не-админом = %v, ожидался ErrNotAdmin", err)
	}
	if err := s.GiveMoney(adminID, 2, 900); err != nil {
		t.Fatalf("GiveMoney: %v", err)
	}
	if got := store.View(2).Cash.Amount(); got != 1000 {
		t.Errorf("баланс = %d, ожидалось 1000", got)
	}
}

func TestSetMoneyRequiresElevation(t *testing.T) {
	s, store := newTestService(t)

	if err := s.SetMoney(adminID, 2, 777); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("установка без пароля = %v, ожидался ErrForbidden", err)
	}

	if err := s.Login(adminID, "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := s.SetMoney(adminID, 2, 777); err != nil {
		t.Fatalf("SetMoney: %v", err)
	}
	if got := store.View(2).Cash.Amount(); got != 777 {
		t.Errorf("баланс = %d, ожидалось 777", got)
	}
}

func TestUnlimitedLifecycle(t *testing.T) {
	s, store := newTestService(t)
	if err := s.Login(adminID, "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := s.SetUnlimited(adminID, 2); err != nil {
		t.Fatalf("SetUnlimited: %v", err)
	}
	if !store.HasUnlimited(2) {
		t.Fatal("бесконечный баланс не включился")
	}

	if err := s.ClearUnlimited(adminID, 2); err != nil {
		t.Fatalf("ClearUnlimited: %v", err)
	}
	if store.HasUnlimited(2) {
		t.Error("бесконечный баланс не снялся")
	}
	if got := store.View(2).Cash.Amount(); got != 100 {
		t.Errorf("баланс после снятия = %d, ожидался стартовый 100", got)
	}
}

func TestRanks(t *testing.T) {
	s, _ := newTestService(t)

	if err := s.SetRank(adminID, 2, "root"); !errors.Is(err, common.ErrInvalidAmount) {
		t.Errorf("неизвестный ранг = %v, ожидался ErrInvalidAmount", err)
	}
	if err := s.SetRank(adminID, 2, "Admin"); err != nil {
		t.Fatalf("SetRank: %v", err)
	}

	// Ранг Admin включает права модератора
	if !s.HasRank(2, "Admin") || !s.HasRank(2, "moderator") {
		t.Error("ранг Admin не даёт ожидаемых прав")
	}

	if err := s.ClearRank(adminID, 2); err != nil {
		t.Fatalf("ClearRank: %v", err)
	}
	if s.HasRank(2, "moderator") {
		t.Error("права остались после снятия ранга")
	}
}

func TestSetBoardChance(t *testing.T) {
	s, store := newTestService(t)

	if _, err := s.SetBoardChance(adminID, 2, 101); !errors.Is(err, common.ErrInvalidAmount) {
		t.Errorf("удача 101 = %v, ожидался ErrInvalidAmount", err)
	}

	mines, err := s.SetBoardChance(adminID, 2, 75)
	if err != nil {
		t.Fatalf("SetBoardChance: %v", err)
	}
	if mines != 2 {
		t.Errorf("мин = %d, ожидалось 2 при удаче 75", mines)
	}

	bs := store.BoardSettings(2)
	if !bs.Set || bs.Chance != 75 || bs.Mines != 2 {
		t.Errorf("настройки поля = %+v, ожидалось Set/75/2", bs)
	}
}
