// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: тик начисления пассивного дохода
// и периодическое сохранение снапшота.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/ledger"
	"github.com/minefix2025-boop/Coingame/internal/snapshot"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron           *cron.Cron
	store          *ledger.Store
	coordinator    *snapshot.Coordinator
	accrualPeriod  time.Duration
	snapshotPeriod time.Duration
}

// NewScheduler создаёт планировщик задач с московским часовым поясом.
func NewScheduler(store *ledger.Store, coordinator *snapshot.Coordinator, accrualPeriod, snapshotPeriod time.Duration) *Scheduler {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		log.WithError(err).Warn("Не удалось загрузить Europe/Moscow, используем UTC+3")
		loc = time.FixedZone("MSK", 3*60*60)
	}

	return &Scheduler{
		cron:           cron.New(cron.WithLocation(loc)),
		store:          store,
		coordinator:    coordinator,
		accrualPeriod:  accrualPeriod,
		snapshotPeriod: snapshotPeriod,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Тик пассивного дохода: шахты с автосбором и бизнесы
	s.cron.AddFunc(fmt.Sprintf("@every %s", s.accrualPeriod), func() {
		s.store.Accrue(time.Now())
	})

	// Периодический снапшот; ошибка не фатальна, следующий тик повторит
	s.cron.AddFunc(fmt.Sprintf("@every %s", s.snapshotPeriod), func() {
		if err := s.coordinator.Save(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка сохранения снапшота")
		}
	})

	s.cron.Start()
	log.WithFields(log.Fields{
		"accrual":  s.accrualPeriod.String(),
		"snapshot": s.snapshotPeriod.String(),
	}).Info("Планировщик задач запущен (Europe/Moscow)")
}

// Stop останавливает планировщик и дожидается завершения текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
