// Package promo — handlers.go обрабатывает активацию промокодов.
// Код активируется сообщением вида "#КОД".
package promo

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/common"
)

// Handler обрабатывает промокоды.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик промокодов.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleActivate активирует промокод для пользователя.
func (h *Handler) HandleActivate(chatID, userID int64, code string) {
	result, err := h.service.Activate(code, userID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			h.sendMessage(chatID, "❌ Такого промокода нет")
		case errors.Is(err, common.ErrPromoExhausted):
			h.sendMessage(chatID, "😔 Промокод исчерпан — все активации разобраны")
		case errors.Is(err, common.ErrPromoAlreadyUsed):
			h.sendMessage(chatID, "❌ Ты уже активировал этот промокод")
		default:
			log.WithError(err).WithField("user_id", userID).Error("Ошибка активации промокода")
		}
		return
	}

	var rewardText string
	switch result.Reward {
	case RewardCoins:
		rewardText = fmt.Sprintf("%d %s", result.Amount, common.PluralizeCoins(result.Amount))
	case RewardAccelerators:
		rewardText = fmt.Sprintf("%d %s", result.Amount, common.PluralizeAccelerators(result.Amount))
	}
	h.sendMessage(chatID, fmt.Sprintf("🎟 Промокод активирован! Награда: %s\nОсталось активаций: %d",
		rewardText, result.Remaining))
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
