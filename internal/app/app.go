// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, движок, сервисы, обработчики
// и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/minefix2025-boop/Coingame/internal/bot"
	"github.com/minefix2025-boop/Coingame/internal/config"
	"github.com/minefix2025-boop/Coingame/internal/db/postgres"
	"github.com/minefix2025-boop/Coingame/internal/features/admin"
	"github.com/minefix2025-boop/Coingame/internal/features/donate"
	"github.com/minefix2025-boop/Coingame/internal/features/economy"
	"github.com/minefix2025-boop/Coingame/internal/features/games"
	"github.com/minefix2025-boop/Coingame/internal/features/promo"
	"github.com/minefix2025-boop/Coingame/internal/features/property"
	"github.com/minefix2025-boop/Coingame/internal/jobs"
	"github.com/minefix2025-boop/Coingame/internal/ledger"
	"github.com/minefix2025-boop/Coingame/internal/snapshot"
)

// App содержит все компоненты приложения.
type App struct {
	Bot         *bot.Bot
	Scheduler   *jobs.Scheduler
	Coordinator *snapshot.Coordinator
	DB          *pgxpool.Pool
	BotAPI      *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Движок: хранилище и игровые сессии ===
	store := ledger.NewStore(cfg)
	gamesManager := games.NewManager(store, cfg)

	// === 4. Сервисы ===
	economyService := economy.NewService(store)
	propertyService := property.NewService(store)
	promoService := promo.NewService(store)
	donateService := donate.NewService(store, cfg)
	adminService := admin.NewService(store, promoService, cfg)

	// === 5. Снапшоты: восстанавливаем состояние до первой команды ===
	repo := snapshot.NewRepository(pool)
	coordinator := snapshot.NewCoordinator(repo, store, promoService)
	if err := coordinator.Restore(ctx); err != nil {
		return nil, fmt.Errorf("ошибка восстановления снапшота: %w", err)
	}

	// === 6. Обработчики ===
	economyHandler := economy.NewHandler(economyService, botAPI)
	gamesHandler := games.NewHandler(gamesManager, botAPI)
	propertyHandler := property.NewHandler(propertyService, botAPI)
	promoHandler := promo.NewHandler(promoService, botAPI)
	donateHandler := donate.NewHandler(donateService, cfg, botAPI)
	adminHandler := admin.NewHandler(adminService, botAPI)

	// === 7. Собираем бота ===
	b := bot.New(
		botAPI, cfg,
		economyHandler,
		gamesHandler,
		propertyHandler,
		promoHandler,
		donateHandler,
		adminHandler,
	)

	// === 8. Планировщик задач ===
	scheduler := jobs.NewScheduler(store, coordinator, cfg.AccrualPeriod, cfg.SnapshotPeriod)

	return &App{
		Bot:         b,
		Scheduler:   scheduler,
		Coordinator: coordinator,
		DB:          pool,
		BotAPI:      botAPI,
	}, nil
}
