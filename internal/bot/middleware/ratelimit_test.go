package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Close()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if !rl.allowAt(1, base.Add(time.Duration(i)*time.Second)) {
			t.Fatalf("запрос %d не должен быть отклонён", i+1)
		}
	}
	if rl.allowAt(1, base.Add(10*time.Second)) {
		t.Error("четвёртый запрос в окне должен быть отклонён")
	}

	// Другой пользователь лимитируется отдельно
	if !rl.allowAt(2, base.Add(10*time.Second)) {
		t.Error("лимит не должен распространяться на другого пользователя")
	}

	// Окно сдвинулось — старые отметки сгорели
	if !rl.allowAt(1, base.Add(time.Minute+5*time.Second)) {
		t.Error("после сдвига окна запрос должен проходить")
	}
}

func TestPruneBefore(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(time.Second), base.Add(2 * time.Second)}

	got := pruneBefore(times, base.Add(time.Second))
	if len(got) != 1 || !got[0].Equal(base.Add(2*time.Second)) {
		t.Errorf("pruneBefore оставил %v, ожидалась одна последняя отметка", got)
	}
	if pruneBefore(times, base.Add(time.Hour)) != nil {
		t.Error("все отметки старше cutoff должны быть отброшены")
	}
}
