// Package promo — service.go содержит реестр промокодов и логику активации.
package promo

import (
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/common"
	"github.com/minefix2025-boop/Coingame/internal/ledger"
)

// Service — реестр промокодов.
// Проверки исчерпания/повторной активации и сама активация выполняются
// под одной блокировкой: две конкурентные активации одним пользователем
// не пройдут обе.
type Service struct {
	mu    sync.Mutex
	codes map[string]*Code
	store *ledger.Store
}

// NewService создаёт пустой реестр.
func NewService(store *ledger.Store) *Service {
	return &Service{
		codes: make(map[string]*Code),
		store: store,
	}
}

// Create регистрирует новый промокод (админское действие).
func (s *Service) Create(code string, reward RewardKind, amount int64, maxActivations int) error {
	code = normalize(code)
	if code == "" || amount <= 0 || maxActivations <= 0 {
		return common.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.codes[code]; ok {
		return common.ErrPromoExists
	}
	s.codes[code] = &Code{
		Code:           code,
		Reward:         reward,
		Amount:         amount,
		MaxActivations: maxActivations,
		UsedBy:         make(map[int64]struct{}),
	}
	log.WithFields(log.Fields{"code": code, "reward": reward, "amount": amount}).
		Info("Промокод создан")
	return nil
}

// Activate активирует промокод для пользователя и выдаёт награду.
// Монеты идут через обычное начисление (с опытом), ускорители — напрямую.
func (s *Service) Activate(code string, userID int64) (ActivationResult, error) {
	code = normalize(code)

	s.mu.Lock()
	p, ok := s.codes[code]
	if !ok {
		s.mu.Unlock()
		return ActivationResult{}, common.ErrNotFound
	}
	if len(p.UsedBy) >= p.MaxActivations {
		s.mu.Unlock()
		return ActivationResult{}, common.ErrPromoExhausted
	}
	if _, used := p.UsedBy[userID]; used {
		s.mu.Unlock()
		return ActivationResult{}, common.ErrPromoAlreadyUsed
	}
	p.UsedBy[userID] = struct{}{}
	result := ActivationResult{
		Reward:    p.Reward,
		Amount:    p.Amount,
		Remaining: p.MaxActivations - len(p.UsedBy),
	}
	s.mu.Unlock()

	// Награда начисляется уже вне блокировки реестра: хранилище
	// сериализует мутации само.
	switch result.Reward {
	case RewardCoins:
		_ = s.store.Credit(userID, result.Amount)
	case RewardAccelerators:
		_ = s.store.AddAccelerators(userID, result.Amount)
	}
	return result, nil
}

// Export возвращает копию всех промокодов для снапшота.
func (s *Service) Export() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, 0, len(s.codes))
	for _, p := range s.codes {
		rec := Record{
			Code:           p.Code,
			Reward:         p.Reward,
			Amount:         p.Amount,
			MaxActivations: p.MaxActivations,
			UsedBy:         make([]int64, 0, len(p.UsedBy)),
		}
		for id := range p.UsedBy {
			rec.UsedBy = append(rec.UsedBy, id)
		}
		out = append(out, rec)
	}
	return out
}

// Restore заменяет реестр данными снапшота.
func (s *Service) Restore(records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	codes := make(map[string]*Code, len(records))
	for _, rec := range records {
		p := &Code{
			Code:           rec.Code,
			Reward:         rec.Reward,
			Amount:         rec.Amount,
			MaxActivations: rec.MaxActivations,
			UsedBy:         make(map[int64]struct{}, len(rec.UsedBy)),
		}
		for _, id := range rec.UsedBy {
			p.UsedBy[id] = struct{}{}
		}
		codes[p.Code] = p
	}
	s.codes = codes
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
