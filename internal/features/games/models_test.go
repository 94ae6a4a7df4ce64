package games

import "testing"

func TestMinesForChance(t *testing.T) {
	cases := []struct {
		chance int
		mines  int
	}{
		{0, 8},
		{1, 7},
		{24, 7},
		{25, 6},
		{49, 6},
		{50, 4},
		{74, 4},
		{75, 2},
		{99, 2},
		{100, 0},
	}
	for _, c := range cases {
		if got := MinesForChance(c.chance); got != c.mines {
			t.Errorf("MinesForChance(%d) = %d, ожидалось %d", c.chance, got, c.mines)
		}
	}
}
