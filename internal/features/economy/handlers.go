// Package economy — handlers.go обрабатывает Telegram-команды экономики:
// профиль, ежедневный бонус, работа, ставки, банк и переводы.
package economy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/common"
	"github.com/minefix2025-boop/Coingame/internal/ledger"
)

// Handler обрабатывает команды экономики.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд экономики.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleProfile показывает профиль пользователя: баланс, уровень, имущество.
func (h *Handler) HandleProfile(chatID, userID int64, name string) {
	v := h.service.View(userID)

	var b strings.Builder
	fmt.Fprintf(&b, "👤 Профиль %s\n\n", name)
	fmt.Fprintf(&b, "💰 Баланс: %s\n", v.Cash)
	fmt.Fprintf(&b, "🏦 Банк: %s %s\n", common.FormatNumber(v.Bank), common.PluralizeCoins(v.Bank))
	fmt.Fprintf(&b, "⚡ Ускорители: %d\n", v.Accelerators)
	fmt.Fprintf(&b, "⭐ Уровень: %d (%d/%d XP)\n", v.Level, v.XP, v.XPToNext)
	if v.Rank != "" {
		fmt.Fprintf(&b, "🎖 Ранг: %s\n", v.Rank)
	}
	if tier := v.Premium.Tier; tier != "" {
		fmt.Fprintf(&b, "💎 Привилегия: %s (до %s)\n", tier.Title(), common.FormatDateTime(v.Premium.Expires))
	}
	fmt.Fprintf(&b, "\n⛏ %s: %d ед. ресурса\n", ledger.MineTiers[v.Mine.Tier].Name, v.Mine.Stored)
	if v.Business.Active {
		info := ledger.BusinessTypes[v.Business.Kind]
		fmt.Fprintf(&b, "🏪 Бизнес: %s (накоплено %d)\n", info.Name, v.Business.Accrued)
	}

	h.sendMessage(chatID, b.String())
}

// HandleBalance показывает краткий баланс.
func (h *Handler) HandleBalance(chatID, userID int64) {
	v := h.service.View(userID)
	h.sendMessage(chatID, fmt.Sprintf("💰 Баланс: %s\n🏦 Банк: %s %s",
		v.Cash, common.FormatNumber(v.Bank), common.PluralizeCoins(v.Bank)))
}

// HandleDaily выдаёт ежедневный бонус или сообщает, когда он будет доступен.
func (h *Handler) HandleDaily(chatID, userID int64) {
	reward, err := h.service.Daily(userID)
	if err != nil {
		if errors.Is(err, common.ErrDailyTooEarly) {
			hours := int(reward.RetryAfter.Hours())
			minutes := int(reward.RetryAfter.Minutes()) % 60
			h.sendMessage(chatID, fmt.Sprintf("⏳ Бонус уже получен. Возвращайся через %dч %dм", hours, minutes))
			return
		}
		log.WithError(err).WithField("user_id", userID).Error("Ошибка ежедневного бонуса")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🎁 Ежедневный бонус: %s и %d %s!",
		common.FormatCoinsAmount(reward.Coins), reward.Accelerators, common.PluralizeAccelerators(reward.Accelerators)))
}

// HandleWork отправляет пользователя на работу. Без аргумента — список работ.
func (h *Handler) HandleWork(chatID, userID int64, args []string) {
	if len(args) == 0 {
		var b strings.Builder
		b.WriteString("💼 Доступные работы (1 ускоритель за смену):\n\n")
		for _, job := range []string{"Курьер", "Таксист", "Программист"} {
			j := Jobs[job]
			fmt.Fprintf(&b, "• %s — %d–%d монет\n", j.Name, j.MinEarn, j.MaxEarn)
		}
		b.WriteString("\nНапример: /work Курьер")
		h.sendMessage(chatID, b.String())
		return
	}

	result, err := h.service.Work(userID, normalizeJobName(args[0]))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			h.sendMessage(chatID, "❌ Такой работы нет. Посмотри список: /work")
		case errors.Is(err, common.ErrNoAccelerators):
			h.sendMessage(chatID, "⚡ Нет ускорителей. Получи их за ежедневный бонус: /daily")
		default:
			log.WithError(err).WithField("user_id", userID).Error("Ошибка работы")
		}
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("💼 Смена «%s» окончена: %s", result.Job, common.FormatCoinsAmount(result.Earned)))
}

// HandleBet — мгновенная ставка 50/50 на указанную сумму.
func (h *Handler) HandleBet(chatID, userID int64, args []string) {
	amount, ok := h.parseAmount(chatID, args)
	if !ok {
		return
	}
	result, err := h.service.Bet(userID, amount)
	if err != nil {
		h.sendEconomyError(chatID, err)
		return
	}
	if result.Won {
		h.sendMessage(chatID, fmt.Sprintf("🎉 Победа! %s", common.FormatCoinsAmount(result.Amount)))
	} else {
		h.sendMessage(chatID, fmt.Sprintf("💀 Проигрыш: %s", common.FormatCoinsAmount(-result.Amount)))
	}
}

// HandleCoin — подбрасывание монетки со ставкой на сторону.
func (h *Handler) HandleCoin(chatID, userID int64, args []string) {
	if len(args) < 2 {
		h.sendMessage(chatID, "Использование: /coin <сумма> <орёл|решка>")
		return
	}
	amount, ok := h.parseAmount(chatID, args[:1])
	if !ok {
		return
	}

	pick := strings.ToLower(args[1])
	if pick == "орел" {
		pick = "орёл"
	}
	if pick != "орёл" && pick != "решка" {
		h.sendMessage(chatID, "Ставить можно на «орёл» или «решка»")
		return
	}

	side := strings.ToLower(h.service.CoinFlip())
	won := side == pick

	if err := h.service.ApplyCoinOutcome(userID, amount, won); err != nil {
		h.sendEconomyError(chatID, err)
		return
	}

	if won {
		h.sendMessage(chatID, fmt.Sprintf("🪙 Выпал %s — угадал! %s", side, common.FormatCoinsAmount(amount)))
	} else {
		h.sendMessage(chatID, fmt.Sprintf("🪙 Выпал %s — мимо. %s", side, common.FormatCoinsAmount(-amount)))
	}
}

// HandleTransfer переводит монеты другому пользователю: /p <id> <сумма>
// либо ответом на сообщение получателя: /p <сумма>.
func (h *Handler) HandleTransfer(chatID, userID int64, replyToID int64, args []string) {
	var targetID, amount int64
	var err error

	switch {
	case replyToID != 0 && len(args) == 1:
		targetID = replyToID
		amount, err = strconv.ParseInt(args[0], 10, 64)
	case len(args) == 2:
		targetID, err = strconv.ParseInt(args[0], 10, 64)
		if err == nil {
			amount, err = strconv.ParseInt(args[1], 10, 64)
		}
	default:
		h.sendMessage(chatID, "Использование: /p <id> <сумма> или ответом на сообщение /p <сумма>")
		return
	}
	if err != nil {
		h.sendMessage(chatID, "❌ Неверный формат числа")
		return
	}

	if err := h.service.Transfer(userID, targetID, amount); err != nil {
		switch {
		case errors.Is(err, common.ErrSelfTransfer):
			h.sendMessage(chatID, "❌ Нельзя перевести самому себе")
		default:
			h.sendEconomyError(chatID, err)
		}
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ Перевод %d %s пользователю %d выполнен",
		amount, common.PluralizeCoins(amount), targetID))
}

// HandleBank — операции с банком: /bank, /bank put <сумма>, /bank take <сумма>.
func (h *Handler) HandleBank(chatID, userID int64, args []string) {
	if len(args) == 0 {
		v := h.service.View(userID)
		h.sendMessage(chatID, fmt.Sprintf("🏦 В банке: %s %s\n\n/bank put <сумма> — положить\n/bank take <сумма> — снять",
			common.FormatNumber(v.Bank), common.PluralizeCoins(v.Bank)))
		return
	}
	if len(args) != 2 {
		h.sendMessage(chatID, "Использование: /bank put|take <сумма>")
		return
	}
	amount, ok := h.parseAmount(chatID, args[1:])
	if !ok {
		return
	}

	var err error
	switch strings.ToLower(args[0]) {
	case "put", "положить":
		err = h.service.Deposit(userID, amount)
		if err == nil {
			h.sendMessage(chatID, fmt.Sprintf("🏦 %d %s теперь в банке", amount, common.PluralizeCoins(amount)))
		}
	case "take", "снять":
		err = h.service.Withdraw(userID, amount)
		if err == nil {
			h.sendMessage(chatID, fmt.Sprintf("🏦 Снято %d %s", amount, common.PluralizeCoins(amount)))
		}
	default:
		h.sendMessage(chatID, "Использование: /bank put|take <сумма>")
		return
	}
	if err != nil {
		h.sendEconomyError(chatID, err)
	}
}

// normalizeJobName приводит название работы к виду из списка Jobs:
// первая буква заглавная, остальные строчные.
func normalizeJobName(name string) string {
	runes := []rune(strings.ToLower(strings.TrimSpace(name)))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func (h *Handler) parseAmount(chatID int64, args []string) (int64, bool) {
	if len(args) == 0 {
		h.sendMessage(chatID, "❌ Укажи сумму")
		return 0, false
	}
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || amount <= 0 {
		h.sendMessage(chatID, "❌ Сумма должна быть положительным числом")
		return 0, false
	}
	return amount, true
}

func (h *Handler) sendEconomyError(chatID int64, err error) {
	switch {
	case errors.Is(err, common.ErrInsufficientFunds):
		h.sendMessage(chatID, "❌ Недостаточно монет")
	case errors.Is(err, common.ErrInvalidAmount):
		h.sendMessage(chatID, "❌ Сумма должна быть положительным числом")
	default:
		log.WithError(err).Error("Ошибка операции экономики")
		h.sendMessage(chatID, "⚠️ Что-то пошло не так, попробуй позже")
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
