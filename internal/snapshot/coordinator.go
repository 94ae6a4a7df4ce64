package snapshot

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/features/promo"
	"github.com/minefix2025-boop/Coingame/internal/ledger"
)

// Coordinator связывает движок и базу: выгружает состояние под блокировкой
// движка, а пишет в базу уже без неё. Ошибка записи не фатальна —
// следующий тик попробует снова.
type Coordinator struct {
	repo  *Repository
	store *ledger.Store
	promo *promo.Service
}

func NewCoordinator(repo *Repository, store *ledger.Store, promoSvc *promo.Service) *Coordinator {
	return &Coordinator{repo: repo, store: store, promo: promoSvc}
}

// Save делает снапшот текущего состояния и сохраняет его в базу.
func (c *Coordinator) Save(ctx context.Context) error {
	start := time.Now()
	users := c.store.Export()
	promos := c.promo.Export()

	if err := c.repo.Save(ctx, users, promos); err != nil {
		log.WithError(err).Error("Ошибка сохранения снапшота")
		return err
	}
	log.WithFields(log.Fields{
		"users":    len(users),
		"promos":   len(promos),
		"duration": time.Since(start).Round(time.Millisecond).String(),
	}).Info("Снапшот сохранён")
	return nil
}

// Restore загружает последний снапшот в движок. Отсутствие данных —
// штатный первый запуск.
func (c *Coordinator) Restore(ctx context.Context) error {
	users, err := c.repo.LoadUsers(ctx)
	if err != nil {
		return err
	}
	promos, err := c.repo.LoadPromoCodes(ctx)
	if err != nil {
		return err
	}

	if len(users) == 0 && len(promos) == 0 {
		log.Info("Снапшот не найден, старт с чистого состояния")
		return nil
	}

	if err := c.store.Restore(users); err != nil {
		return err
	}
	c.promo.Restore(promos)

	log.WithFields(log.Fields{
		"users":  len(users),
		"promos": len(promos),
	}).Info("Состояние восстановлено из снапшота")
	return nil
}
