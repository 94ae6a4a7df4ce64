// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
// Все игровые константы (стартовый баланс, бонусы, множители) вынесены сюда,
// чтобы их можно было менять без пересборки.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	AdminIDsRaw      string  `envconfig:"ADMIN_IDS" required:"true"`
	AdminIDs         []int64 `envconfig:"-"` // заполним вручную из ADMIN_IDS
	TelegramBotToken string  `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт — имя сервиса в docker-compose, для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"coingame"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно. Иначе "go на каждый апдейт" = утечка памяти при флуде.
	BotMaxInflight          int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Admin ---
	// Argon2id-хэш пароля для «опасных» команд (/inf, /setmoney).
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`

	// --- Экономика ---
	StartBalance      int64 `envconfig:"ECONOMY_START_BALANCE" default:"100"`
	StartAccelerators int64 `envconfig:"ECONOMY_START_ACCELERATORS" default:"10"`

	// --- Ежедневный бонус ---
	DailyCooldown           time.Duration `envconfig:"DAILY_COOLDOWN" default:"12h"`
	DailyBalance            int64         `envconfig:"DAILY_BALANCE" default:"500"`
	DailyBalanceElite       int64         `envconfig:"DAILY_BALANCE_ELITE" default:"2500"`
	DailyBalanceDeluxe      int64         `envconfig:"DAILY_BALANCE_DELUXE" default:"5000"`
	DailyAccelerators       int64         `envconfig:"DAILY_ACCELERATORS" default:"30"`
	DailyAcceleratorsElite  int64         `envconfig:"DAILY_ACCELERATORS_ELITE" default:"60"`
	DailyAcceleratorsDeluxe int64         `envconfig:"DAILY_ACCELERATORS_DELUXE" default:"100"`

	// --- Игры ---
	RouletteMultiplier int64   `envconfig:"ROULETTE_MULTIPLIER" default:"36"`
	BoardMines         int     `envconfig:"BOARD_MINES" default:"5"`
	BoardMultiplier    float64 `envconfig:"BOARD_MULTIPLIER" default:"1.3"`

	// --- Рудник ---
	MineYieldPerTick int64 `envconfig:"MINE_YIELD_PER_TICK" default:"3"`

	// --- Донат (Telegram Stars) ---
	StarToCoins int64 `envconfig:"DONATE_STAR_TO_COINS" default:"10000"`
	ElitePrice  int64 `envconfig:"DONATE_ELITE_PRICE" default:"50"`
	DeluxePrice int64 `envconfig:"DONATE_DELUXE_PRICE" default:"99"`
	// Срок действия привилегии после покупки.
	PremiumDuration time.Duration `envconfig:"DONATE_PREMIUM_DURATION" default:"720h"`

	// --- Фоновые задачи ---
	AccrualPeriod  time.Duration `envconfig:"JOBS_ACCRUAL_PERIOD" default:"1s"`
	SnapshotPeriod time.Duration `envconfig:"JOBS_SNAPSHOT_PERIOD" default:"5m"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) Validate() error {
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.StartBalance < 0 || c.StartAccelerators < 0 {
		return fmt.Errorf("стартовые значения не могут быть отрицательными")
	}
	if c.BoardMines < 0 || c.BoardMines >= 25 {
		return fmt.Errorf("BOARD_MINES должен быть в диапазоне [0, 25)")
	}
	if c.BoardMultiplier <= 1.0 {
		return fmt.Errorf("BOARD_MULTIPLIER должен быть > 1.0")
	}
	if c.AccrualPeriod <= 0 || c.SnapshotPeriod <= 0 {
		return fmt.Errorf("периоды фоновых задач должны быть > 0")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	ids, err := parseInt64CSV(cfg.AdminIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS parse: %w", err)
	}
	cfg.AdminIDs = ids

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseInt64CSV(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int64 %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
