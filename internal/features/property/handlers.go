// Package property — handlers.go обрабатывает команды рудника и бизнеса.
package property

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/common"
	"github.com/minefix2025-boop/Coingame/internal/ledger"
)

// Handler обрабатывает команды имущества.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик имущества.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleMine — операции с рудником: /mine [collect|upgrade|auto].
func (h *Handler) HandleMine(chatID, userID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(chatID, h.service.MineSummary(userID))
		return
	}

	switch strings.ToLower(args[0]) {
	case "collect", "собрать":
		result, err := h.service.CollectMine(userID)
		if err != nil {
			if errors.Is(err, common.ErrNothingToCollect) {
				h.sendMessage(chatID, "⛏ Пока нечего собирать, рудник ещё копает")
				return
			}
			h.sendPropertyError(chatID, err)
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("⛏ Собрано %d ед. ресурса «%s»: %s",
			result.Units, result.Resource, common.FormatCoinsAmount(result.Coins)))

	case "upgrade", "улучшить":
		tier, err := h.service.UpgradeMine(userID)
		if err != nil {
			if errors.Is(err, common.ErrMineMaxLevel) {
				h.sendMessage(chatID, "⛏ Рудник уже максимального уровня")
				return
			}
			h.sendPropertyError(chatID, err)
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("⛏ Рудник улучшен: теперь это %s!", tier.Name))

	case "auto", "автосбор":
		enabled := h.service.ToggleAutoCollect(userID)
		if enabled {
			h.sendMessage(chatID, "⛏ Автосбор включён: ресурс копится сам")
		} else {
			h.sendMessage(chatID, "⛏ Автосбор выключен")
		}

	default:
		h.sendMessage(chatID, "Использование: /mine [collect|upgrade|auto]")
	}
}

// HandleBusiness — операции с бизнесом: /business [buy <название>|collect|sell].
func (h *Handler) HandleBusiness(chatID, userID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(chatID, h.service.BusinessSummary(userID))
		return
	}

	switch strings.ToLower(args[0]) {
	case "buy", "купить":
		if len(args) < 2 {
			h.sendMessage(chatID, h.businessCatalog())
			return
		}
		kind, ok := businessKindByName(strings.Join(args[1:], " "))
		if !ok {
			h.sendMessage(chatID, "❌ Такого бизнеса нет.\n\n"+h.businessCatalog())
			return
		}
		info, err := h.service.BuyBusiness(userID, kind)
		if err != nil {
			if errors.Is(err, common.ErrBusinessExists) {
				h.sendMessage(chatID, "🏪 У тебя уже есть бизнес. Сначала продай его: /business sell")
				return
			}
			h.sendPropertyError(chatID, err)
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("🏪 Куплен бизнес «%s» за %s %s. Прибыль: %d раз в %s",
			info.Name, common.FormatNumber(info.Cost), common.PluralizeCoins(info.Cost),
			info.BaseProfit, info.ProfitPeriod))

	case "collect", "собрать":
		profit, err := h.service.CollectBusiness(userID)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrNoBusiness):
				h.sendMessage(chatID, "🏪 У тебя нет бизнеса. Купить: /business buy")
			case errors.Is(err, common.ErrNothingToCollect):
				h.sendMessage(chatID, "🏪 Прибыль ещё не накапала, зайди позже")
			default:
				h.sendPropertyError(chatID, err)
			}
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("🏪 Прибыль собрана: %s", common.FormatCoinsAmount(profit)))

	case "sell", "продать":
		total, err := h.service.SellBusiness(userID)
		if err != nil {
			if errors.Is(err, common.ErrNoBusiness) {
				h.sendMessage(chatID, "🏪 Продавать нечего — бизнеса нет")
				return
			}
			h.sendPropertyError(chatID, err)
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("🏪 Бизнес продан за %s (половина цены плюс накопленное)",
			common.FormatCoinsAmount(total)))

	default:
		h.sendMessage(chatID, "Использование: /business [buy <название>|collect|sell]")
	}
}

func (h *Handler) businessCatalog() string {
	var b strings.Builder
	b.WriteString("🏪 Доступные бизнесы:\n\n")
	for _, kind := range []ledger.BusinessKind{ledger.BusinessShaurma, ledger.BusinessCafe, ledger.BusinessSpace} {
		info := ledger.BusinessTypes[kind]
		fmt.Fprintf(&b, "• %s — %s %s, прибыль %d раз в %s\n",
			info.Name, common.FormatNumber(info.Cost), common.PluralizeCoins(info.Cost),
			info.BaseProfit, info.ProfitPeriod)
	}
	b.WriteString("\nНапример: /business buy Шаурма")
	return b.String()
}

func businessKindByName(name string) (ledger.BusinessKind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, info := range ledger.BusinessTypes {
		if strings.ToLower(info.Name) == name {
			return kind, true
		}
	}
	return "", false
}

func (h *Handler) sendPropertyError(chatID int64, err error) {
	if errors.Is(err, common.ErrInsufficientFunds) {
		h.sendMessage(chatID, "❌ Недостаточно монет")
		return
	}
	log.WithError(err).Error("Ошибка операции с имуществом")
	h.sendMessage(chatID, "⚠️ Что-то пошло не так, попробуй позже")
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
