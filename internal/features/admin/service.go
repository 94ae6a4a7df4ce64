// Package admin — service.go содержит проверку прав, аутентификацию
// по Argon2id-хэшу и сами админские операции.
package admin

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"github.com/minefix2025-boop/Coingame/internal/common"
	"github.com/minefix2025-boop/Coingame/internal/config"
	"github.com/minefix2025-boop/Coingame/internal/features/games"
	"github.com/minefix2025-boop/Coingame/internal/features/promo"
	"github.com/minefix2025-boop/Coingame/internal/ledger"
)

// Service управляет админкой.
type Service struct {
	store *ledger.Store
	promo *promo.Service
	cfg   *config.Config

	mu         sync.Mutex
	elevations map[int64]*Elevation
	attempts   map[int64][]time.Time
}

// NewService создаёт сервис админки.
func NewService(store *ledger.Store, promoService *promo.Service, cfg *config.Config) *Service {
	return &Service{
		store:      store,
		promo:      promoService,
		cfg:        cfg,
		elevations: make(map[int64]*Elevation),
		attempts:   make(map[int64][]time.Time),
	}
}

// IsAdmin — true для пользователей из ADMIN_IDS.
func (s *Service) IsAdmin(userID int64) bool {
	for _, id := range s.cfg.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// HasRank проверяет выданный ранг. Админы из ADMIN_IDS проходят всегда;
// ранг "Admin" включает права модератора.
func (s *Service) HasRank(userID int64, required string) bool {
	if s.IsAdmin(userID) {
		return true
	}
	rank := s.store.Rank(userID)
	switch required {
	case "Admin":
		return rank == "Admin"
	case "moderator":
		return rank == "moderator" || rank == "Admin"
	default:
		return false
	}
}

// Login проверяет пароль и выдаёт повышенные права на 24 часа.
// Защита от перебора: 3 неудачные попытки — блокировка на час.
func (s *Service) Login(userID int64, password string) error {
	if !s.IsAdmin(userID) && !s.HasRank(userID, "Admin") {
		return common.ErrNotAdmin
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-attemptWindow)
	var recent []time.Time
	for _, t := range s.attempts[userID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) >= maxAttempts {
		return common.ErrTooManyAttempts
	}

	if !verifyArgon2id(password, s.cfg.AdminPasswordHash) {
		s.attempts[userID] = append(recent, time.Now())
		return common.ErrWrongPassword
	}

	delete(s.attempts, userID)
	s.elevations[userID] = &Elevation{
		UserID:    userID,
		ExpiresAt: time.Now().Add(elevationTTL),
	}
	log.WithField("user", userID).Info("Админ авторизован")
	return nil
}

// IsElevated — true, если у пользователя есть действующие повышенные права.
func (s *Service) IsElevated(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.elevations[userID]
	return ok && time.Now().Before(e.ExpiresAt)
}

// requireElevated проверяет и право админа, и введённый пароль.
func (s *Service) requireElevated(userID int64) error {
	if !s.IsAdmin(userID) && !s.HasRank(userID, "Admin") {
		return common.ErrNotAdmin
	}
	if !s.IsElevated(userID) {
		return common.ErrForbidden
	}
	return nil
}

// GiveMoney выдаёт монеты (обычное начисление с опытом).
func (s *Service) GiveMoney(adminID, targetID int64, amount int64) error {
	if !s.IsAdmin(adminID) && !s.HasRank(adminID, "Admin") {
		return common.ErrNotAdmin
	}
	return s.store.Credit(targetID, amount)
}

// SetMoney устанавливает точный баланс. Требует подтверждённого пароля.
func (s *Service) SetMoney(adminID, targetID int64, amount int64) error {
	if err := s.requireElevated(adminID); err != nil {
		return err
	}
	return s.store.SetCash(targetID, amount)
}

// SetUnlimited включает бесконечный баланс. Требует подтверждённого пароля.
func (s *Service) SetUnlimited(adminID, targetID int64) error {
	if err := s.requireElevated(adminID); err != nil {
		return err
	}
	s.store.SetUnlimited(targetID)
	log.WithFields(log.Fields{"admin": adminID, "target": targetID}).
		Warn("Включён бесконечный баланс")
	return nil
}

// ClearUnlimited снимает бесконечный баланс. Требует подтверждённого пароля.
func (s *Service) ClearUnlimited(adminID, targetID int64) error {
	if err := s.requireElevated(adminID); err != nil {
		return err
	}
	s.store.ClearUnlimited(targetID)
	return nil
}

// SetRank выдаёт ранг "Admin" или "moderator".
func (s *Service) SetRank(adminID, targetID int64, rank string) error {
	if !s.IsAdmin(adminID) {
		return common.ErrNotAdmin
	}
	if rank != "Admin" && rank != "moderator" {
		return common.ErrInvalidAmount
	}
	s.store.SetRank(targetID, rank)
	return nil
}

// ClearRank снимает ранг.
func (s *Service) ClearRank(adminID, targetID int64) error {
	if !s.IsAdmin(adminID) {
		return common.ErrNotAdmin
	}
	s.store.SetRank(targetID, "")
	return nil
}

// CreatePromo создаёт промокод.
func (s *Service) CreatePromo(adminID int64, code string, reward promo.RewardKind, amount int64, maxActivations int) error {
	if !s.IsAdmin(adminID) && !s.HasRank(adminID, "Admin") {
		return common.ErrNotAdmin
	}
	return s.promo.Create(code, reward, amount, maxActivations)
}

// SetBoardChance выставляет персональную сложность мини-игры: «удача»
// 0–100 переводится в число мин на поле.
func (s *Service) SetBoardChance(adminID, targetID int64, chance int) (int, error) {
	if !s.IsAdmin(adminID) && !s.HasRank(adminID, "Admin") {
		return 0, common.ErrNotAdmin
	}
	if chance < 0 || chance > 100 {
		return 0, common.ErrInvalidAmount
	}
	mines := games.MinesForChance(chance)
	s.store.SetBoardSettings(targetID, chance, mines)
	return mines, nil
}

// verifyArgon2id проверяет пароль по хешу Argon2id.
// Формат хеша: $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func verifyArgon2id(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	_, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism)
	if err != nil {
		log.WithError(err).Error("Ошибка парсинга параметров Argon2id")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования соли")
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования хеша")
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Сравнение в постоянном времени — защита от timing attack.
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1
}
