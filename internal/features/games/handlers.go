// Package games — handlers.go обрабатывает игровые команды и callback-кнопки.
// Каждая игра — сессия с inline-клавиатурой; действия приходят как
// callback-данные вида "game:<id сессии>:<действие>[:<аргумент>]".
package games

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/common"
)

// Handler обрабатывает игровые команды.
type Handler struct {
	manager *Manager
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик игр.
func NewHandler(manager *Manager, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{manager: manager, bot: bot}
}

// HandleRoulette открывает рулетку на число: /roulette <ставка>.
func (h *Handler) HandleRoulette(chatID, userID int64, args []string) {
	stake, ok := h.parseStake(chatID, args)
	if !ok {
		return
	}
	session, err := h.manager.Open(userID, KindNumberRoulette, stake)
	if err != nil {
		h.sendGameError(chatID, err)
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"🎰 Рулетка на %d %s\nВыбери число от 0 до 36 (выигрыш ×36):",
		stake, common.PluralizeCoins(stake)))
	msg.ReplyMarkup = numberKeyboard(session.ID)
	h.send(msg)
}

// HandleColorRoulette открывает рулетку на цвет: /rsimple <ставка>.
func (h *Handler) HandleColorRoulette(chatID, userID int64, args []string) {
	stake, ok := h.parseStake(chatID, args)
	if !ok {
		return
	}
	session, err := h.manager.Open(userID, KindColorRoulette, stake)
	if err != nil {
		h.sendGameError(chatID, err)
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"🎡 Рулетка на %d %s\nКрасное или чёрное (выигрыш ×2):",
		stake, common.PluralizeCoins(stake)))
	msg.ReplyMarkup = colorKeyboard(session.ID)
	h.send(msg)
}

// HandleBoard открывает мини-игру 5×5: /mini <ставка>.
func (h *Handler) HandleBoard(chatID, userID int64, args []string) {
	stake, ok := h.parseStake(chatID, args)
	if !ok {
		return
	}
	session, err := h.manager.Open(userID, KindBoard, stake)
	if err != nil {
		h.sendGameError(chatID, err)
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"💣 Мини-игра на %d %s\nМин на поле: %d. Каждая безопасная клетка умножает выигрыш на ×1.3",
		stake, common.PluralizeCoins(stake), session.MinesCount))
	msg.ReplyMarkup = boardKeyboard(session.ID, nil, 0)
	h.send(msg)
}

// HandleCallback разбирает нажатие игровой кнопки.
// Формат данных: game:<id сессии>:<действие>[:<аргумент>].
func (h *Handler) HandleCallback(query *tgbotapi.CallbackQuery) {
	parts := strings.Split(query.Data, ":")
	if len(parts) < 3 || parts[0] != "game" {
		return
	}
	sessionID, action := parts[1], parts[2]
	userID := query.From.ID
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	var arg string
	if len(parts) > 3 {
		arg = parts[3]
	}

	switch action {
	case "num":
		h.handleNumberPick(chatID, messageID, userID, sessionID, arg)
	case "color":
		h.handleColorPick(chatID, messageID, userID, sessionID, arg)
	case "cell":
		h.handleCellReveal(chatID, messageID, userID, sessionID, arg)
	case "cashout":
		h.handleCashout(chatID, messageID, userID, sessionID)
	case "cancel":
		h.handleCancel(chatID, messageID, userID, sessionID)
	}

	// Убираем "часики" на кнопке
	if _, err := h.bot.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.WithError(err).Debug("Ошибка ответа на callback")
	}
}

func (h *Handler) handleNumberPick(chatID int64, messageID int, userID int64, sessionID, arg string) {
	number, err := strconv.Atoi(arg)
	if err != nil {
		return
	}
	result, err := h.manager.PickNumber(sessionID, userID, number)
	if err != nil {
		h.editGameError(chatID, messageID, err)
		return
	}

	var text string
	if result.Won {
		text = fmt.Sprintf("🎰 Выпало %d — твоё число! Выигрыш: %s",
			result.Winning, common.FormatCoinsAmount(result.Payout))
	} else {
		text = fmt.Sprintf("🎰 Выпало %d, ты ставил на %d. Не повезло!", result.Winning, result.Picked)
	}
	h.editText(chatID, messageID, text)
}

func (h *Handler) handleColorPick(chatID int64, messageID int, userID int64, sessionID, arg string) {
	color := Color(arg)
	if color != ColorRed && color != ColorBlack {
		return
	}
	result, err := h.manager.PickColor(sessionID, userID, color)
	if err != nil {
		h.editGameError(chatID, messageID, err)
		return
	}

	var text string
	if result.Won {
		text = fmt.Sprintf("🎡 Выпало %s — угадал! Выигрыш: %s",
			result.Winning.Title(), common.FormatCoinsAmount(result.Payout))
	} else {
		text = fmt.Sprintf("🎡 Выпало %s, ты ставил на %s. Не повезло!",
			result.Winning.Title(), result.Picked.Title())
	}
	h.editText(chatID, messageID, text)
}

func (h *Handler) handleCellReveal(chatID int64, messageID int, userID int64, sessionID, arg string) {
	cell, err := strconv.Atoi(arg)
	if err != nil {
		return
	}
	result, err := h.manager.Reveal(sessionID, userID, cell)
	if err != nil {
		if errors.Is(err, common.ErrCellAlreadyOpen) {
			return // клетка уже открыта, поле не меняется
		}
		h.editGameError(chatID, messageID, err)
		return
	}

	if result.Mine {
		h.editTextAndMarkup(chatID, messageID,
			fmt.Sprintf("💥 Мина в клетке %d! Ставка сгорела.", result.Cell),
			lostBoardKeyboard(result.Opened, result.Mines))
		return
	}

	h.editTextAndMarkup(chatID, messageID,
		fmt.Sprintf("💣 Открыто клеток: %d. Можно забрать: %s %s",
			result.Hits, common.FormatNumber(result.Potential), common.PluralizeCoins(result.Potential)),
		boardKeyboard(sessionID, result.Opened, result.Hits))
}

func (h *Handler) handleCashout(chatID int64, messageID int, userID int64, sessionID string) {
	result, err := h.manager.Cashout(sessionID, userID)
	if err != nil {
		h.editGameError(chatID, messageID, err)
		return
	}
	h.editText(chatID, messageID, fmt.Sprintf(
		"💰 Забрал %s за %d открытых клеток (×%.2f)",
		common.FormatCoinsAmount(result.Payout), result.Hits, result.Multiplier))
}

func (h *Handler) handleCancel(chatID int64, messageID int, userID int64, sessionID string) {
	refund, err := h.manager.Cancel(sessionID, userID)
	if err != nil {
		h.editGameError(chatID, messageID, err)
		return
	}
	h.editText(chatID, messageID, fmt.Sprintf("↩️ Игра отменена, ставка возвращена: %s",
		common.FormatCoinsAmount(refund)))
}

// numberKeyboard строит клавиатуру 0–36 рядами по 6 плюс кнопка отмены.
func numberKeyboard(sessionID string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for n := 0; n <= 36; n++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			strconv.Itoa(n), fmt.Sprintf("game:%s:num:%d", sessionID, n)))
		if len(row) == 6 {
			rows = append(rows, row)
			row = nil
		}
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", "game:"+sessionID+":cancel"))
	rows = append(rows, row)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func colorKeyboard(sessionID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔴 Красное", "game:"+sessionID+":color:red"),
			tgbotapi.NewInlineKeyboardButtonData("⚫ Чёрное", "game:"+sessionID+":color:black"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", "game:"+sessionID+":cancel"),
		),
	)
}

// boardKeyboard строит поле 5×5. Открытые клетки помечаются галочкой,
// строка вывода появляется после первого попадания.
func boardKeyboard(sessionID string, opened []int, hits int) tgbotapi.InlineKeyboardMarkup {
	openSet := make(map[int]struct{}, len(opened))
	for _, c := range opened {
		openSet[c] = struct{}{}
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for r := 0; r < BoardRows; r++ {
		var row []tgbotapi.InlineKeyboardButton
		for c := 0; c < BoardCols; c++ {
			cell := r*BoardCols + c + 1
			label := "⬜"
			if _, ok := openSet[cell]; ok {
				label = "✅"
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(
				label, fmt.Sprintf("game:%s:cell:%d", sessionID, cell)))
		}
		rows = append(rows, row)
	}

	if hits > 0 {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("💰 Забрать", "game:"+sessionID+":cashout"),
		})
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// lostBoardKeyboard показывает итоговое поле после проигрыша: мины и
// открытые клетки, без активных кнопок.
func lostBoardKeyboard(opened, mines []int) tgbotapi.InlineKeyboardMarkup {
	openSet := make(map[int]struct{}, len(opened))
	for _, c := range opened {
		openSet[c] = struct{}{}
	}
	mineSet := make(map[int]struct{}, len(mines))
	for _, c := range mines {
		mineSet[c] = struct{}{}
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for r := 0; r < BoardRows; r++ {
		var row []tgbotapi.InlineKeyboardButton
		for c := 0; c < BoardCols; c++ {
			cell := r*BoardCols + c + 1
			label := "⬜"
			if _, ok := mineSet[cell]; ok {
				label = "💣"
			} else if _, ok := openSet[cell]; ok {
				label = "✅"
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, "noop"))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (h *Handler) parseStake(chatID int64, args []string) (int64, bool) {
	if len(args) == 0 {
		h.sendText(chatID, "❌ Укажи ставку, например: /mini 100")
		return 0, false
	}
	stake, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || stake <= 0 {
		h.sendText(chatID, "❌ Ставка должна быть положительным числом")
		return 0, false
	}
	return stake, true
}

func (h *Handler) sendGameError(chatID int64, err error) {
	switch {
	case errors.Is(err, common.ErrInsufficientFunds):
		h.sendText(chatID, "❌ Недостаточно монет для ставки")
	case errors.Is(err, common.ErrInvalidAmount):
		h.sendText(chatID, "❌ Ставка должна быть положительным числом")
	default:
		log.WithError(err).Error("Ошибка игры")
		h.sendText(chatID, "⚠️ Что-то пошло не так, попробуй позже")
	}
}

func (h *Handler) editGameError(chatID int64, messageID int, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		h.editText(chatID, messageID, "⌛ Игра не найдена — возможно, бот перезапускался")
	case errors.Is(err, common.ErrForbidden):
		// чужая кнопка, молча игнорируем
	case errors.Is(err, common.ErrAlreadyFinished):
		h.editText(chatID, messageID, "🏁 Игра уже завершена")
	default:
		log.WithError(err).Error("Ошибка игры")
	}
}

func (h *Handler) send(msg tgbotapi.MessageConfig) {
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", msg.ChatID).Error("Ошибка отправки сообщения")
	}
}

func (h *Handler) sendText(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *Handler) editText(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := h.bot.Send(edit); err != nil {
		log.WithError(err).Debug("Ошибка редактирования сообщения")
	}
}

func (h *Handler) editTextAndMarkup(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	if _, err := h.bot.Send(edit); err != nil {
		log.WithError(err).Debug("Ошибка редактирования сообщения")
	}
}
