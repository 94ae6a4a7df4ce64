// Package donate — handlers.go обрабатывает покупки за Telegram Stars:
// выставление счетов, подтверждение оплаты и возвраты.
package donate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/common"
	"github.com/minefix2025-boop/Coingame/internal/config"
	"github.com/minefix2025-boop/Coingame/internal/ledger"
)

// Handler обрабатывает донат-команды и платёжные события Telegram.
type Handler struct {
	service *Service
	cfg     *config.Config
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик донатов.
func NewHandler(service *Service, cfg *config.Config, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, cfg: cfg, bot: bot}
}

// HandleBuyCoins выставляет счёт на покупку монет: /buy_coins <звёзды>.
func (h *Handler) HandleBuyCoins(chatID, userID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(chatID, fmt.Sprintf("Использование: /buy_coins <звёзды>\nКурс: 1 ⭐ = %s монет",
			common.FormatNumber(h.cfg.StarToCoins)))
		return
	}
	stars, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || stars <= 0 {
		h.sendMessage(chatID, "❌ Число звёзд должно быть положительным")
		return
	}

	coins := stars * h.cfg.StarToCoins
	title := fmt.Sprintf("%s монет", common.FormatNumber(coins))
	description := fmt.Sprintf("Покупка %s монет за %d ⭐", common.FormatNumber(coins), stars)
	h.sendInvoice(chatID, userID, "coins", stars, title, description)
}

// HandleBuyElite выставляет счёт на привилегию Элитный.
func (h *Handler) HandleBuyElite(chatID, userID int64) {
	h.sendInvoice(chatID, userID, "elite", h.cfg.ElitePrice,
		"Привилегия «Элитный»",
		fmt.Sprintf("Привилегия «Элитный» на 30 дней за %d ⭐", h.cfg.ElitePrice))
}

// HandleBuyDeluxe выставляет счёт на привилегию Делюкс.
func (h *Handler) HandleBuyDeluxe(chatID, userID int64) {
	h.sendInvoice(chatID, userID, "deluxe", h.cfg.DeluxePrice,
		"Привилегия «Делюкс»",
		fmt.Sprintf("Привилегия «Делюкс» на 30 дней за %d ⭐", h.cfg.DeluxePrice))
}

// sendInvoice создаёт внутренний счёт и отправляет Telegram-инвойс
// в валюте XTR (Telegram Stars). Токен провайдера для Stars не нужен.
func (h *Handler) sendInvoice(chatID, userID int64, kind string, stars int64, title, description string) {
	payload, err := h.service.CreateInvoice(userID, kind, stars)
	if err != nil {
		h.sendMessage(chatID, "❌ Не удалось создать счёт")
		return
	}

	invoice := tgbotapi.NewInvoice(chatID, title, description, payload,
		"", "", "XTR", []tgbotapi.LabeledPrice{{Label: title, Amount: int(stars)}})
	invoice.SuggestedTipAmounts = []int{}
	if _, err := h.bot.Send(invoice); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка отправки инвойса")
		h.sendMessage(chatID, "⚠️ Не удалось выставить счёт, попробуй позже")
	}
}

// HandlePreCheckout подтверждает платёж перед списанием звёзд.
func (h *Handler) HandlePreCheckout(query *tgbotapi.PreCheckoutQuery) {
	answer := tgbotapi.PreCheckoutConfig{
		PreCheckoutQueryID: query.ID,
		OK:                 true,
	}
	if _, err := h.bot.Request(answer); err != nil {
		log.WithError(err).Error("Ошибка ответа на pre-checkout")
	}
}

// HandleSuccessfulPayment зачисляет подтверждённую оплату.
func (h *Handler) HandleSuccessfulPayment(chatID, userID int64, payment *tgbotapi.SuccessfulPayment) {
	result, err := h.service.ApplyPayment(userID, payment.InvoicePayload,
		payment.TelegramPaymentChargeID, int64(payment.TotalAmount))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			h.sendMessage(chatID, "⚠️ Счёт не найден — напиши в поддержку, звёзды вернём")
			return
		}
		log.WithError(err).WithField("user_id", userID).Error("Ошибка зачисления оплаты")
		return
	}

	switch result.Kind {
	case "coins":
		h.sendMessage(chatID, fmt.Sprintf("✅ Оплата получена! Зачислено %s монет",
			common.FormatNumber(result.CoinsGranted)))
	case "elite":
		h.sendMessage(chatID, "✅ Привилегия «Элитный» активирована на 30 дней!")
	case "deluxe":
		h.sendMessage(chatID, "✅ Привилегия «Делюкс» активирована на 30 дней!")
	}
}

// HandleHistory показывает историю донатов пользователя.
func (h *Handler) HandleHistory(chatID, userID int64) {
	history := h.service.History(userID)
	if len(history) == 0 {
		h.sendMessage(chatID, "📭 Донатов пока не было")
		return
	}

	var b strings.Builder
	b.WriteString("🧾 История донатов:\n\n")
	for _, tx := range history {
		status := ""
		if tx.Refunded {
			status = " (возвращён)"
		}
		fmt.Fprintf(&b, "• %s — %s, %d ⭐%s\n  ID: %s\n",
			common.FormatDateTime(tx.CreatedAt), donationTitle(tx), tx.StarsPaid, status, tx.ID)
	}
	b.WriteString("\nВозврат: /refund <ID>")
	h.sendMessage(chatID, b.String())
}

// HandleRefund возвращает донат: откатывает начисленное и возвращает звёзды.
func (h *Handler) HandleRefund(chatID, userID int64, args []string) {
	if len(args) == 0 {
		h.sendMessage(chatID, "Использование: /refund <ID транзакции>\nСписок ID: /donate_history")
		return
	}

	tx, err := h.service.Refund(userID, args[0])
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			h.sendMessage(chatID, "❌ Транзакция не найдена")
		case errors.Is(err, common.ErrRefundIneligible):
			h.sendMessage(chatID, "❌ Возврат невозможен: транзакция уже возвращена, монеты потрачены или привилегия сменилась")
		default:
			log.WithError(err).WithField("user_id", userID).Error("Ошибка возврата")
		}
		return
	}

	// Возвращаем звёзды через Bot API
	params := tgbotapi.Params{}
	params.AddNonZero64("user_id", userID)
	params.AddNonEmpty("telegram_payment_charge_id", tx.ID)
	if _, err := h.bot.MakeRequest("refundStarPayment", params); err != nil {
		log.WithError(err).WithField("tx_id", tx.ID).Error("Ошибка возврата звёзд через Bot API")
	}

	h.sendMessage(chatID, fmt.Sprintf("✅ Возврат оформлен: %d ⭐ вернутся на счёт Telegram", tx.StarsPaid))
}

func donationTitle(tx ledger.DonationTransaction) string {
	switch tx.Kind {
	case ledger.DonationCoins:
		return fmt.Sprintf("%s монет", common.FormatNumber(tx.CoinsGranted))
	case ledger.DonationElite:
		return "Привилегия «Элитный»"
	case ledger.DonationDeluxe:
		return "Привилегия «Делюкс»"
	}
	return string(tx.Kind)
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
