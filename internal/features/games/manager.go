// Package games — manager.go содержит менеджер сессий: создание с эскроу,
// общий протокол доступа (не найдено / чужая игра / уже завершена)
// и единственный расчёт на сессию.
package games

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/common"
	"github.com/minefix2025-boop/Coingame/internal/config"
	"github.com/minefix2025-boop/Coingame/internal/ledger"
)

// Manager хранит живые сессии. Сессии не персистятся: при рестарте бота
// они пропадают вместе со ставкой в эскроу.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    *ledger.Store
	cfg      *config.Config
	rng      *rand.Rand
}

// NewManager создаёт менеджер сессий.
func NewManager(store *ledger.Store, cfg *config.Config) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Open создаёт сессию. Ставка списывается сразу (эскроу) — проверка
// и списание атомарны в хранилище, до первого броска случайности.
func (m *Manager) Open(userID int64, kind Kind, stake int64) (SessionView, error) {
	if stake <= 0 {
		return SessionView{}, common.ErrInvalidAmount
	}
	if err := m.store.Deduct(userID, stake); err != nil {
		return SessionView{}, err
	}

	s := &Session{
		ID:     uuid.NewString(),
		UserID: userID,
		Kind:   kind,
		Stake:  stake,
	}

	m.mu.Lock()
	if kind == KindBoard {
		mines := m.cfg.BoardMines
		if bs := m.store.BoardSettings(userID); bs.Set {
			mines = bs.Mines
		}
		s.Mines = m.seedMinesLocked(mines)
		s.Opened = make(map[int]struct{})
		s.Multiplier = 1.0
	}
	m.sessions[s.ID] = s
	view := viewLocked(s)
	m.mu.Unlock()

	log.WithFields(log.Fields{"session": s.ID, "user": userID, "kind": kind, "stake": stake}).
		Debug("Сессия открыта")
	return view, nil
}

// View возвращает состояние живой сессии для перерисовки.
func (m *Manager) View(sessionID string, userID int64) (SessionView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.ownedLocked(sessionID, userID)
	if err != nil {
		return SessionView{}, err
	}
	return viewLocked(s), nil
}

// Cancel отменяет сессию до хода: ставка возвращается целиком,
// сессия закрывается без броска случайности.
func (m *Manager) Cancel(sessionID string, userID int64) (int64, error) {
	m.mu.Lock()
	s, err := m.ownedLocked(sessionID, userID)
	if err != nil {
		m.mu.Unlock()
		return 0, err
	}
	m.settleLocked(s)
	m.mu.Unlock()

	// Возврат идёт обычным начислением; для бесконечного баланса это no-op,
	// как и было само списание.
	_ = m.store.Credit(userID, s.Stake)
	return s.Stake, nil
}

// ownedLocked находит сессию и проверяет общий протокол доступа.
// Вызывается только под m.mu.
func (m *Manager) ownedLocked(sessionID string, userID int64) (*Session, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, common.ErrNotFound
	}
	if s.UserID != userID {
		return nil, common.ErrForbidden
	}
	if s.Settled {
		return nil, common.ErrAlreadyFinished
	}
	return s, nil
}

// settleLocked помечает сессию рассчитанной и убирает её из таблицы.
// Выполняется ровно один раз за жизнь сессии.
func (m *Manager) settleLocked(s *Session) {
	s.Settled = true
	delete(m.sessions, s.ID)
}

// seedMinesLocked расставляет count различных мин на поле 1..25.
func (m *Manager) seedMinesLocked(count int) map[int]struct{} {
	mines := make(map[int]struct{}, count)
	for len(mines) < count {
		mines[m.rng.Intn(BoardCells)+1] = struct{}{}
	}
	return mines
}

func viewLocked(s *Session) SessionView {
	return SessionView{
		ID:         s.ID,
		UserID:     s.UserID,
		Kind:       s.Kind,
		Stake:      s.Stake,
		MinesCount: len(s.Mines),
		Opened:     sortedKeys(s.Opened),
		Hits:       s.Hits,
		Multiplier: s.Multiplier,
		Potential:  s.potential(),
	}
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
