package ledger

import "testing"

func TestLevelUpCascade(t *testing.T) {
	s := NewStore(testConfig())
	s.EnsureUser(1)

	// 300 XP: 100 на уровень 2, затем 200 на уровень 3 — ровно в ноль
	s.GrantXP(1, 300)

	v := s.View(1)
	if v.Level != 3 {
		t.Errorf("уровень = %d, ожидался 3", v.Level)
	}
	if v.XP != 0 {
		t.Errorf("остаток XP = %d, ожидался 0", v.XP)
	}
	if v.XPToNext != 400 {
		t.Errorf("порог = %d, ожидался 400 (100 → 200 → 400)", v.XPToNext)
	}

	// Награды: уровень 2 — 2000 монет и 10 ускорителей,
	// уровень 3 — 3000 монет и 15 ускорителей
	if got := v.Cash.Amount(); got != 100+2000+3000 {
		t.Errorf("баланс = %d, ожидалось 5100", got)
	}
	if v.Accelerators != 10+10+15 {
		t.Errorf("ускорители = %d, ожидалось 35", v.Accelerators)
	}
}

func TestLevelRewardDoesNotFeedXP(t *testing.T) {
	s := NewStore(testConfig())
	s.EnsureUser(1)

	// Монетная награда за уровень не должна порождать новый опыт:
	// иначе после каскада остаток был бы больше нуля
	s.GrantXP(1, 100)

	v := s.View(1)
	if v.Level != 2 {
		t.Fatalf("уровень = %d, ожидался 2", v.Level)
	}
	if v.XP != 0 {
		t.Errorf("XP после ровного каскада = %d, ожидался 0 (награда дала опыт?)", v.XP)
	}
}

func TestGrantXPIgnoresNonPositive(t *testing.T) {
	s := NewStore(testConfig())
	s.EnsureUser(1)
	s.GrantXP(1, 0)
	s.GrantXP(1, -10)

	if v := s.View(1); v.XP != 0 || v.Level != 1 {
		t.Errorf("состояние = %d/%d, ожидалось 1/0", v.Level, v.XP)
	}
}
