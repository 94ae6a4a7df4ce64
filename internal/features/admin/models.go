// Package admin реализует админские команды: выдача и установка баланса,
// бесконечный баланс, ранги, промокоды и сложность мини-игры.
// models.go описывает сессии повышенных прав.
package admin

import "time"

// Elevation — подтверждённые паролем повышенные права.
// Живёт только в памяти: после рестарта пароль придётся ввести заново.
type Elevation struct {
	UserID    int64
	ExpiresAt time.Time
}

// attemptWindow — окно учёта неудачных попыток входа.
const attemptWindow = time.Hour

// maxAttempts — число неудачных попыток до блокировки.
const maxAttempts = 3

// elevationTTL — срок действия повышенных прав.
const elevationTTL = 24 * time.Hour
