// Package admin — handlers.go обрабатывает админ-команды.
// Выдача денег и промокодов доступна любому админу; опасные операции
// (установка баланса, бесконечный баланс) требуют входа по паролю в ЛС.
package admin

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/common"
	"github.com/minefix2025-boop/Coingame/internal/features/promo"
)

// Handler обрабатывает админ-команды.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик админ-команд.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleLogin — вход в админ-панель: /admin <пароль>, только в ЛС.
func (h *Handler) HandleLogin(chatID, userID int64, isPrivate bool, args []string) {
	if !isPrivate {
		h.sendMessage(chatID, "🔐 Вход в админ-панель — только в личных сообщениях")
		return
	}
	if len(args) == 0 {
		h.sendMessage(chatID, "Использование: /admin <пароль>")
		return
	}

	if err := h.service.Login(userID, strings.Join(args, " ")); err != nil {
		switch {
		case errors.Is(err, common.ErrNotAdmin):
			h.sendMessage(chatID, "❌ Ты не админ")
		case errors.Is(err, common.ErrTooManyAttempts):
			h.sendMessage(chatID, "🚫 Слишком много попыток, подожди час")
		case errors.Is(err, common.ErrWrongPassword):
			h.sendMessage(chatID, "❌ Неверный пароль")
		default:
			log.WithError(err).WithField("user_id", userID).Error("Ошибка входа в админ-панель")
		}
		return
	}
	h.sendMessage(chatID, "✅ Вход выполнен. Повышенные права действуют 24 часа.")
}

// HandleGiveMoney выдаёт монеты: /money <id|ответ> <сумма>.
func (h *Handler) HandleGiveMoney(chatID, userID, replyToID int64, args []string) {
	targetID, amount, ok := h.parseTarget(chatID, replyToID, args, "/money")
	if !ok {
		return
	}
	if err := h.service.GiveMoney(userID, targetID, amount); err != nil {
		h.sendAdminError(chatID, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ Пользователю %d выдано %s",
		targetID, common.FormatCoinsAmount(amount)))
}

// HandleSetMoney устанавливает баланс: /setmoney <id|ответ> <сумма>.
func (h *Handler) HandleSetMoney(chatID, userID, replyToID int64, args []string) {
	targetID, amount, ok := h.parseTarget(chatID, replyToID, args, "/setmoney")
	if !ok {
		return
	}
	if err := h.service.SetMoney(userID, targetID, amount); err != nil {
		h.sendAdminError(chatID, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ Баланс пользователя %d теперь %s %s",
		targetID, common.FormatNumber(amount), common.PluralizeCoins(amount)))
}

// HandleSetUnlimited включает бесконечный баланс: /inf <id|ответ>.
func (h *Handler) HandleSetUnlimited(chatID, userID, replyToID int64, args []string) {
	targetID, ok := h.parseTargetOnly(chatID, replyToID, args, "/inf")
	if !ok {
		return
	}
	if err := h.service.SetUnlimited(userID, targetID); err != nil {
		h.sendAdminError(chatID, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("♾ Пользователь %d получил бесконечный баланс", targetID))
}

// HandleClearUnlimited выключает бесконечный баланс: /removeinf <id|ответ>.
func (h *Handler) HandleClearUnlimited(chatID, userID, replyToID int64, args []string) {
	targetID, ok := h.parseTargetOnly(chatID, replyToID, args, "/removeinf")
	if !ok {
		return
	}
	if err := h.service.ClearUnlimited(userID, targetID); err != nil {
		h.sendAdminError(chatID, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ Бесконечный баланс пользователя %d снят, баланс сброшен к стартовому", targetID))
}

// HandleSetRank выдаёт ранг: /rank <id|ответ> <ранг>.
func (h *Handler) HandleSetRank(chatID, userID, replyToID int64, args []string) {
	var targetID int64
	var rank string
	switch {
	case replyToID != 0 && len(args) >= 1:
		targetID = replyToID
		rank = strings.Join(args, " ")
	case len(args) >= 2:
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			h.sendMessage(chatID, "❌ Неверный ID пользователя")
			return
		}
		targetID = id
		rank = strings.Join(args[1:], " ")
	default:
		h.sendMessage(chatID, "Использование: /rank <id> <ранг>")
		return
	}

	if err := h.service.SetRank(userID, targetID, rank); err != nil {
		if errors.Is(err, common.ErrInvalidAmount) {
			h.sendMessage(chatID, "❌ Доступные ранги: Admin, moderator")
			return
		}
		h.sendAdminError(chatID, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🎖 Пользователю %d выдан ранг «%s»", targetID, rank))
}

// HandleClearRank снимает ранг: /unrank <id|ответ>.
func (h *Handler) HandleClearRank(chatID, userID, replyToID int64, args []string) {
	targetID, ok := h.parseTargetOnly(chatID, replyToID, args, "/unrank")
	if !ok {
		return
	}
	if err := h.service.ClearRank(userID, targetID); err != nil {
		h.sendAdminError(chatID, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ Ранг пользователя %d снят", targetID))
}

// HandleCreatePromo создаёт промокод: /createpromo <код> <coins|acc> <сумма> <активаций>.
func (h *Handler) HandleCreatePromo(chatID, userID int64, args []string) {
	if len(args) != 4 {
		h.sendMessage(chatID, "Использование: /createpromo <код> <coins|acc> <сумма> <активаций>")
		return
	}

	var reward promo.RewardKind
	switch strings.ToLower(args[1]) {
	case "coins", "монеты":
		reward = promo.RewardCoins
	case "acc", "ускорители":
		reward = promo.RewardAccelerators
	default:
		h.sendMessage(chatID, "❌ Тип награды: coins или acc")
		return
	}

	amount, err1 := strconv.ParseInt(args[2], 10, 64)
	maxActivations, err2 := strconv.Atoi(args[3])
	if err1 != nil || err2 != nil || amount <= 0 || maxActivations <= 0 {
		h.sendMessage(chatID, "❌ Сумма и число активаций должны быть положительными")
		return
	}

	if err := h.service.CreatePromo(userID, args[0], reward, amount, maxActivations); err != nil {
		if errors.Is(err, common.ErrPromoExists) {
			h.sendMessage(chatID, "❌ Промокод с таким кодом уже есть")
			return
		}
		h.sendAdminError(chatID, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🎟 Промокод #%s создан: %d × %d активаций",
		strings.ToUpper(args[0]), amount, maxActivations))
}

// HandleSetChance задаёт «удачу» мини-игры: /chance <id|ответ> <0-100>.
func (h *Handler) HandleSetChance(chatID, userID, replyToID int64, args []string) {
	targetID, chance, ok := h.parseTarget(chatID, replyToID, args, "/chance")
	if !ok {
		return
	}

	mines, err := h.service.SetBoardChance(userID, targetID, int(chance))
	if err != nil {
		if errors.Is(err, common.ErrInvalidAmount) {
			h.sendMessage(chatID, "❌ Удача задаётся числом от 0 до 100")
			return
		}
		h.sendAdminError(chatID, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🍀 Удача пользователя %d: %d%% (%d мин на поле)",
		targetID, chance, mines))
}

// parseTarget разбирает пару «цель + число» из ответа или аргументов.
func (h *Handler) parseTarget(chatID, replyToID int64, args []string, usage string) (int64, int64, bool) {
	switch {
	case replyToID != 0 && len(args) == 1:
		value, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			h.sendMessage(chatID, "❌ Неверный формат числа")
			return 0, 0, false
		}
		return replyToID, value, true
	case len(args) == 2:
		targetID, err1 := strconv.ParseInt(args[0], 10, 64)
		value, err2 := strconv.ParseInt(args[1], 10, 64)
		if err1 != nil || err2 != nil {
			h.sendMessage(chatID, "❌ Неверный формат числа")
			return 0, 0, false
		}
		return targetID, value, true
	}
	h.sendMessage(chatID, fmt.Sprintf("Использование: %s <id> <число> или ответом на сообщение", usage))
	return 0, 0, false
}

func (h *Handler) parseTargetOnly(chatID, replyToID int64, args []string, usage string) (int64, bool) {
	if replyToID != 0 && len(args) == 0 {
		return replyToID, true
	}
	if len(args) == 1 {
		targetID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			h.sendMessage(chatID, "❌ Неверный ID пользователя")
			return 0, false
		}
		return targetID, true
	}
	h.sendMessage(chatID, fmt.Sprintf("Использование: %s <id> или ответом на сообщение", usage))
	return 0, false
}

func (h *Handler) sendAdminError(chatID int64, err error) {
	switch {
	case errors.Is(err, common.ErrNotAdmin):
		h.sendMessage(chatID, "❌ Команда только для админов")
	case errors.Is(err, common.ErrForbidden):
		h.sendMessage(chatID, "🔐 Нужны повышенные права: войди через /admin <пароль> в ЛС")
	case errors.Is(err, common.ErrInvalidAmount):
		h.sendMessage(chatID, "❌ Неверное значение")
	default:
		log.WithError(err).Error("Ошибка админ-команды")
		h.sendMessage(chatID, "⚠️ Что-то пошло не так")
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
