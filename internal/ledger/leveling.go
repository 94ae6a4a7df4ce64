// Package ledger — leveling.go реализует начисление опыта и каскад
// повышения уровня.
package ledger

import (
	log "github.com/sirupsen/logrus"
)

// addXPLocked начисляет опыт и прокручивает каскад уровней до фиксированной
// точки: пока опыта хватает на следующий уровень, уровень растёт, порог
// удваивается, а за каждый новый уровень выдаётся награда
// (level*1000 монет и level*5 ускорителей).
//
// Награда за уровень кладётся на счёт напрямую, без повторного входа
// в начисление опыта — иначе награда порождала бы новый опыт и каскад
// терял бы ограниченность. Вызывается только под s.mu.
func (s *Store) addXPLocked(u *UserLedger, amount int64) {
	if amount <= 0 {
		return
	}
	u.XP += amount

	for u.XP >= u.XPToNext {
		u.Level++
		u.XP -= u.XPToNext
		u.XPToNext *= 2

		coinReward := int64(u.Level) * 1000
		accReward := int64(u.Level) * 5
		u.Cash = u.Cash.add(coinReward) // no-op для бесконечного баланса
		u.Accelerators += accReward

		log.WithFields(log.Fields{
			"user":  u.UserID,
			"level": u.Level,
			"coins": coinReward,
			"acc":   accReward,
		}).Info("Новый уровень")
	}
}
