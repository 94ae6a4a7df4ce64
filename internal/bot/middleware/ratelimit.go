package middleware

import (
	"sync"
	"time"
)

// RateLimiter — скользящее окно на пользователя: не больше limit
// запросов за window. Игровой бот без лимита превращается в кликер
// по кнопкам рулетки.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[int64][]time.Time
	limit  int
	window time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		hits:   make(map[int64][]time.Time),
		limit:  limit,
		window: window,
		stopCh: make(chan struct{}),
	}
	go rl.evictIdle()
	return rl
}

// Close останавливает фоновую очистку. Вызывается на shutdown.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Allow регистрирует запрос и говорит, пропускать ли его.
func (rl *RateLimiter) Allow(userID int64) bool {
	return rl.allowAt(userID, time.Now())
}

func (rl *RateLimiter) allowAt(userID int64, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	recent := pruneBefore(rl.hits[userID], now.Add(-rl.window))
	if len(recent) >= rl.limit {
		rl.hits[userID] = recent
		return false
	}
	rl.hits[userID] = append(recent, now)
	return true
}

// pruneBefore отбрасывает отметки старше cutoff. Срез упорядочен по
// времени, поэтому достаточно найти первую живую отметку.
func pruneBefore(times []time.Time, cutoff time.Time) []time.Time {
	for i, t := range times {
		if t.After(cutoff) {
			return times[i:]
		}
	}
	return nil
}

// evictIdle периодически выкидывает пользователей без свежих запросов,
// чтобы карта не росла бесконечно.
func (rl *RateLimiter) evictIdle() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := time.Now().Add(-rl.window)
			for userID, times := range rl.hits {
				recent := pruneBefore(times, cutoff)
				if len(recent) == 0 {
					delete(rl.hits, userID)
					continue
				}
				rl.hits[userID] = recent
			}
			rl.mu.Unlock()
		}
	}
}
