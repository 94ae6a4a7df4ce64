// Package property объединяет имущество пользователя: рудник и бизнес.
// service.go — тонкая прослойка над хранилищем с форматированием сводок.
package property

import (
	"fmt"
	"strings"
	"time"

	"github.com/minefix2025-boop/Coingame/internal/common"
	"github.com/minefix2025-boop/Coingame/internal/ledger"
)

// Service управляет рудником и бизнесом.
type Service struct {
	store *ledger.Store
}

// NewService создаёт сервис имущества.
func NewService(store *ledger.Store) *Service {
	return &Service{store: store}
}

// CollectMine собирает ресурсы рудника.
func (s *Service) CollectMine(userID int64) (ledger.MineCollectResult, error) {
	return s.store.CollectMine(userID)
}

// UpgradeMine улучшает рудник до следующего уровня.
func (s *Service) UpgradeMine(userID int64) (ledger.MineTierInfo, error) {
	return s.store.UpgradeMine(userID)
}

// ToggleAutoCollect переключает авто-сбор.
func (s *Service) ToggleAutoCollect(userID int64) bool {
	return s.store.ToggleAutoCollect(userID)
}

// BuyBusiness покупает бизнес.
func (s *Service) BuyBusiness(userID int64, kind ledger.BusinessKind) (ledger.BusinessInfo, error) {
	if err := s.store.BuyBusiness(userID, kind); err != nil {
		return ledger.BusinessInfo{}, err
	}
	return ledger.BusinessTypes[kind], nil
}

// CollectBusiness собирает накопленную прибыль.
func (s *Service) CollectBusiness(userID int64) (int64, error) {
	return s.store.CollectBusiness(userID, time.Now())
}

// SellBusiness продаёт бизнес.
func (s *Service) SellBusiness(userID int64) (int64, error) {
	return s.store.SellBusiness(userID)
}

// MineSummary — текстовая сводка рудника для отображения.
func (s *Service) MineSummary(userID int64) string {
	v := s.store.View(userID)
	tier := ledger.MineTiers[v.Mine.Tier]

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⛏️ %s\n", tier.Name))
	sb.WriteString(fmt.Sprintf("Ресурс: %s\n", tier.Resource))
	sb.WriteString(fmt.Sprintf("Количество: %s\n", common.FormatNumber(v.Mine.Stored)))
	sb.WriteString(fmt.Sprintf("Стоимость: %d монет за 1 ед.\n", tier.PricePerUnit))
	sb.WriteString(fmt.Sprintf("Общая стоимость: %s монет\n", common.FormatNumber(v.Mine.Stored*tier.PricePerUnit)))
	if v.Mine.AutoCollect {
		sb.WriteString("Авто-сбор: ✅ Вкл\n")
	} else {
		sb.WriteString("Авто-сбор: ❌ Выкл\n")
	}

	if v.Mine.Tier < ledger.MaxMineTier {
		next := ledger.MineTiers[v.Mine.Tier+1]
		sb.WriteString(fmt.Sprintf("\n📈 Улучшение до %s:\n", next.Name))
		sb.WriteString(fmt.Sprintf("💰 Стоимость: %s монет\n", common.FormatNumber(next.UpgradeCost)))
		sb.WriteString(fmt.Sprintf("🎁 Новый ресурс: %s\n", next.Resource))
		sb.WriteString(fmt.Sprintf("💎 Новая цена: %d монет за 1 ед.", next.PricePerUnit))
	}
	return sb.String()
}

// BusinessSummary — текстовая сводка бизнеса для отображения.
func (s *Service) BusinessSummary(userID int64) string {
	v := s.store.View(userID)
	if v.Business.Kind == ledger.BusinessNone {
		return "🏢 У вас нет бизнеса! Купите в меню."
	}
	info := ledger.BusinessTypes[v.Business.Kind]
	active := "❌ Нет"
	if v.Business.Active {
		active = "✅ Да"
	}
	return fmt.Sprintf(
		"🏢 ВАШ БИЗНЕС:\n\nНазвание: %s\n💰 Прибыль: %s монет\n⚡ Активен: %s\n💵 Прибыль/период: %s монет\n⏱️ Период: %d сек",
		info.Name,
		common.FormatNumber(v.Business.Accrued),
		active,
		common.FormatNumber(info.BaseProfit),
		int(info.ProfitPeriod.Seconds()),
	)
}
