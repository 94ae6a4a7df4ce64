// Package games — roulette.go содержит резолверы обеих рулеток.
// Обе игры одноходовые: выбор числа или цвета сразу закрывает сессию.
package games

import (
	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/common"
)

// PickNumber разыгрывает рулетку на число: игрок называет число 0–36,
// колесо выпадает равновероятно, совпадение платит ставку × 36.
func (m *Manager) PickNumber(sessionID string, userID int64, number int) (RouletteResult, error) {
	if number < 0 || number > 36 {
		return RouletteResult{}, common.ErrInvalidAmount
	}

	m.mu.Lock()
	s, err := m.ownedLocked(sessionID, userID)
	if err != nil {
		m.mu.Unlock()
		return RouletteResult{}, err
	}
	if s.Kind != KindNumberRoulette {
		m.mu.Unlock()
		return RouletteResult{}, common.ErrNotFound
	}
	winning := m.rng.Intn(37)
	m.settleLocked(s)
	m.mu.Unlock()

	result := RouletteResult{Picked: number, Winning: winning}
	if number == winning {
		result.Won = true
		result.Payout = s.Stake * m.cfg.RouletteMultiplier
		_ = m.store.Credit(userID, result.Payout)
		// Опыт за выигрыш начисляется независимо от бесконечного баланса.
		m.store.GrantXP(userID, result.Payout/50)
	}

	log.WithFields(log.Fields{
		"session": sessionID, "user": userID,
		"picked": number, "winning": winning, "payout": result.Payout,
	}).Info("Рулетка разыграна")
	return result, nil
}

// PickColor разыгрывает простую рулетку: красный или черный,
// совпадение платит ставку × 2.
func (m *Manager) PickColor(sessionID string, userID int64, color Color) (ColorResult, error) {
	if color != ColorRed && color != ColorBlack {
		return ColorResult{}, common.ErrInvalidAmount
	}

	m.mu.Lock()
	s, err := m.ownedLocked(sessionID, userID)
	if err != nil {
		m.mu.Unlock()
		return ColorResult{}, err
	}
	if s.Kind != KindColorRoulette {
		m.mu.Unlock()
		return ColorResult{}, common.ErrNotFound
	}
	winning := ColorRed
	if m.rng.Intn(2) == 1 {
		winning = ColorBlack
	}
	m.settleLocked(s)
	m.mu.Unlock()

	result := ColorResult{Picked: color, Winning: winning}
	if color == winning {
		result.Won = true
		result.Payout = s.Stake * 2
		_ = m.store.Credit(userID, result.Payout)
		if !m.store.HasUnlimited(userID) {
			m.store.GrantXP(userID, result.Payout/50)
		}
	}
	return result, nil
}
