// Package bot содержит главный модуль бота — инициализацию, запуск и остановку.
// bot.go подключает обработчики команд и callback-кнопок и запускает polling.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/bot/filters"
	"github.com/minefix2025-boop/Coingame/internal/bot/middleware"
	"github.com/minefix2025-boop/Coingame/internal/config"
	"github.com/minefix2025-boop/Coingame/internal/features/admin"
	"github.com/minefix2025-boop/Coingame/internal/features/donate"
	"github.com/minefix2025-boop/Coingame/internal/features/economy"
	"github.com/minefix2025-boop/Coingame/internal/features/games"
	"github.com/minefix2025-boop/Coingame/internal/features/promo"
	"github.com/minefix2025-boop/Coingame/internal/features/property"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	filter      *filters.MessageFilter
	rateLimiter *middleware.RateLimiter

	economyHandler  *economy.Handler
	gamesHandler    *games.Handler
	propertyHandler *property.Handler
	promoHandler    *promo.Handler
	donateHandler   *donate.Handler
	adminHandler    *admin.Handler

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	economyHandler *economy.Handler,
	gamesHandler *games.Handler,
	propertyHandler *property.Handler,
	promoHandler *promo.Handler,
	donateHandler *donate.Handler,
	adminHandler *admin.Handler,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:             api,
		cfg:             cfg,
		filter:          filters.NewMessageFilter(),
		rateLimiter:     middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		economyHandler:  economyHandler,
		gamesHandler:    gamesHandler,
		propertyHandler: propertyHandler,
		promoHandler:    promoHandler,
		donateHandler:   donateHandler,
		adminHandler:    adminHandler,
		parser:          NewCommandParser(),
		inflight:        make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	// Игровые кнопки
	if update.CallbackQuery != nil {
		middleware.LogCallback(update.CallbackQuery)
		if !b.rateLimiter.Allow(update.CallbackQuery.From.ID) {
			return
		}
		b.gamesHandler.HandleCallback(update.CallbackQuery)
		return
	}

	// Подтверждение оплаты звёздами
	if update.PreCheckoutQuery != nil {
		b.donateHandler.HandlePreCheckout(update.PreCheckoutQuery)
		return
	}

	if update.Message == nil {
		return
	}
	message := update.Message

	// Успешная оплата приходит отдельным сообщением
	if message.SuccessfulPayment != nil {
		b.donateHandler.HandleSuccessfulPayment(message.Chat.ID, message.From.ID, message.SuccessfulPayment)
		return
	}

	if message.Text == "" || !b.filter.Allow(message) {
		return
	}

	middleware.LogMessage(message)

	if !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	chatID := message.Chat.ID
	userID := message.From.ID

	var replyToID int64
	if message.ReplyToMessage != nil && message.ReplyToMessage.From != nil {
		replyToID = message.ReplyToMessage.From.ID
	}

	// Активация промокода: "#КОД"
	if strings.HasPrefix(message.Text, "#") {
		code := strings.TrimPrefix(strings.Fields(message.Text)[0], "#")
		if code != "" {
			b.promoHandler.HandleActivate(chatID, userID, code)
		}
		return
	}

	// Короткие текстовые алиасы без префикса
	switch strings.ToLower(strings.TrimSpace(message.Text)) {
	case "б", "баланс":
		b.economyHandler.HandleBalance(chatID, userID)
		return
	case "я", "профиль":
		b.economyHandler.HandleProfile(chatID, userID, displayName(message.From))
		return
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}

	b.routeCommand(chatID, userID, replyToID, message.Chat.IsPrivate(), displayName(message.From), cmd, args)
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(chatID, userID, replyToID int64, isPrivate bool, name, cmd string, args []string) {
	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("routing command")

	switch cmd {
	case "start", "help":
		b.sendMessage(chatID, helpText)

	// Экономика
	case "balance", "б":
		b.economyHandler.HandleBalance(chatID, userID)
	case "profile", "я":
		b.economyHandler.HandleProfile(chatID, userID, name)
	case "daily":
		b.economyHandler.HandleDaily(chatID, userID)
	case "work":
		b.economyHandler.HandleWork(chatID, userID, args)
	case "bet":
		b.economyHandler.HandleBet(chatID, userID, args)
	case "coin":
		b.economyHandler.HandleCoin(chatID, userID, args)
	case "p", "перевод":
		b.economyHandler.HandleTransfer(chatID, userID, replyToID, args)
	case "bank", "банк":
		b.economyHandler.HandleBank(chatID, userID, args)

	// Игры
	case "roulette", "рулетка":
		b.gamesHandler.HandleRoulette(chatID, userID, args)
	case "rsimple", "цвет":
		b.gamesHandler.HandleColorRoulette(chatID, userID, args)
	case "mini", "мини":
		b.gamesHandler.HandleBoard(chatID, userID, args)

	// Имущество
	case "mine", "шахта":
		b.propertyHandler.HandleMine(chatID, userID, args)
	case "business", "бизнес":
		b.propertyHandler.HandleBusiness(chatID, userID, args)

	// Донат
	case "buy_coins":
		b.donateHandler.HandleBuyCoins(chatID, userID, args)
	case "buy_elite":
		b.donateHandler.HandleBuyElite(chatID, userID)
	case "buy_deluxe":
		b.donateHandler.HandleBuyDeluxe(chatID, userID)
	case "donate_history":
		b.donateHandler.HandleHistory(chatID, userID)
	case "refund":
		b.donateHandler.HandleRefund(chatID, userID, args)

	// Админ
	case "admin":
		b.adminHandler.HandleLogin(chatID, userID, isPrivate, args)
	case "money":
		b.adminHandler.HandleGiveMoney(chatID, userID, replyToID, args)
	case "setmoney":
		b.adminHandler.HandleSetMoney(chatID, userID, replyToID, args)
	case "inf":
		b.adminHandler.HandleSetUnlimited(chatID, userID, replyToID, args)
	case "removeinf":
		b.adminHandler.HandleClearUnlimited(chatID, userID, replyToID, args)
	case "rank":
		b.adminHandler.HandleSetRank(chatID, userID, replyToID, args)
	case "unrank":
		b.adminHandler.HandleClearRank(chatID, userID, replyToID, args)
	case "createpromo":
		b.adminHandler.HandleCreatePromo(chatID, userID, args)
	case "chance":
		b.adminHandler.HandleSetChance(chatID, userID, replyToID, args)
	}
}

const helpText = `🎮 Игровая экономика

👤 Профиль и деньги:
/profile (или «я») — профиль
/balance (или «б») — баланс
/daily — ежедневный бонус
/work — работа за ускорители
/bank — банк
/p <id> <сумма> — перевод

🎰 Игры:
/roulette <ставка> — рулетка на число (×36)
/rsimple <ставка> — красное/чёрное (×2)
/mini <ставка> — поле 5×5 с минами (×1.3 за клетку)
/bet <сумма> — ставка 50/50
/coin <сумма> <орёл|решка> — монетка

⛏ Имущество:
/mine — рудник
/business — бизнес

⭐ Донат:
/buy_coins <звёзды> — купить монеты
/buy_elite, /buy_deluxe — привилегии
/donate_history, /refund <ID> — история и возврат

🎟 Промокод: просто отправь #КОД`

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return "@" + user.UserName
	}
	name := user.FirstName
	if user.LastName != "" {
		name += " " + user.LastName
	}
	return name
}

// CommandParser парсит команды с префиксами /, ! и .
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"!", ".", "/"},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}

	if !hasPrefix {
		return "", nil, false
	}

	text = strings.TrimSpace(text)
	parts := strings.Fields(text)

	if len(parts) == 0 {
		return "", nil, false
	}

	// отрезаем @username в групповых чатах: /daily@MyBot
	command := strings.ToLower(parts[0])
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return command, args, true
}
