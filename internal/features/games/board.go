// Package games — board.go содержит резолвер мини-игры «сапёр»:
// поле 5×5, каждая безопасная клетка умножает выигрыш на 1.3,
// мина сжигает ставку, вывод доступен в любой момент до мины.
package games

import (
	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/common"
)

// Reveal открывает одну клетку.
// Мина — немедленный проигрыш: ставка сгорает, сессия закрывается,
// поле целиком раскрывается для отображения. Безопасная клетка
// увеличивает счётчик и множитель; выигрыш не начисляется до вывода.
func (m *Manager) Reveal(sessionID string, userID int64, cell int) (BoardReveal, error) {
	if cell < 1 || cell > BoardCells {
		return BoardReveal{}, common.ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.ownedLocked(sessionID, userID)
	if err != nil {
		return BoardReveal{}, err
	}
	if s.Kind != KindBoard {
		return BoardReveal{}, common.ErrNotFound
	}
	if _, open := s.Opened[cell]; open {
		// Повторное открытие отклоняется без изменения состояния.
		return BoardReveal{}, common.ErrCellAlreadyOpen
	}

	s.Opened[cell] = struct{}{}

	if _, mine := s.Mines[cell]; mine {
		m.settleLocked(s)
		log.WithFields(log.Fields{"session": sessionID, "user": userID, "stake": s.Stake}).
			Info("Сапёр: мина, ставка сгорела")
		return BoardReveal{
			Cell:   cell,
			Mine:   true,
			Hits:   s.Hits,
			Opened: sortedKeys(s.Opened),
			Mines:  sortedKeys(s.Mines),
		}, nil
	}

	s.Hits++
	s.Multiplier *= m.cfg.BoardMultiplier
	return BoardReveal{
		Cell:       cell,
		Hits:       s.Hits,
		Multiplier: s.Multiplier,
		Potential:  s.potential(),
		Opened:     sortedKeys(s.Opened),
	}, nil
}

// Cashout выводит накопленный выигрыш: floor(ставка × множитель)
// начисляется на счёт, опыт — выигрыш/50, сессия закрывается.
func (m *Manager) Cashout(sessionID string, userID int64) (BoardCashout, error) {
	m.mu.Lock()
	s, err := m.ownedLocked(sessionID, userID)
	if err != nil {
		m.mu.Unlock()
		return BoardCashout{}, err
	}
	if s.Kind != KindBoard {
		m.mu.Unlock()
		return BoardCashout{}, common.ErrNotFound
	}
	payout := s.potential()
	result := BoardCashout{
		Hits:       s.Hits,
		Multiplier: s.Multiplier,
		Payout:     payout,
		Opened:     sortedKeys(s.Opened),
		Mines:      sortedKeys(s.Mines),
	}
	m.settleLocked(s)
	m.mu.Unlock()

	if !m.store.HasUnlimited(userID) {
		_ = m.store.Credit(userID, payout)
		m.store.GrantXP(userID, payout/50)
	}

	log.WithFields(log.Fields{
		"session": sessionID, "user": userID,
		"hits": result.Hits, "payout": payout,
	}).Info("Сапёр: выигрыш выведен")
	return result, nil
}
