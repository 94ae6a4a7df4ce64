package games

import (
	"errors"
	"testing"

	"github.com/minefix2025-boop/Coingame/internal/common"
)

// Поле без мин (удача 100) делает ходы детерминированными.
func openSafeBoard(t *testing.T, m *Manager, userID, stake int64) SessionView {
	t.Helper()
	m.store.SetBoardSettings(userID, 100, 0)
	session, err := m.Open(userID, KindBoard, stake)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if session.MinesCount != 0 {
		t.Fatalf("мин на поле = %d, ожидалось 0", session.MinesCount)
	}
	return session
}

func TestBoardMultiplierProgression(t *testing.T) {
	m, _ := newTestManager()
	session := openSafeBoard(t, m, 1, 100)

	// floor(100 × 1.3^h): 130, 169, 219
	want := []int64{130, 169, 219}
	for i, cell := range []int{1, 2, 3} {
		result, err := m.Reveal(session.ID, 1, cell)
		if err != nil {
			t.Fatalf("Reveal(%d): %v", cell, err)
		}
		if result.Hits != i+1 {
			t.Errorf("ходов = %d, ожидалось %d", result.Hits, i+1)
		}
		if result.Potential != want[i] {
			t.Errorf("потенциал после %d ходов = %d, ожидалось %d", i+1, result.Potential, want[i])
		}
	}
}

func TestBoardRevealSameCellTwice(t *testing.T) {
	m, _ := newTestManager()
	session := openSafeBoard(t, m, 1, 100)

	first, err := m.Reveal(session.ID, 1, 5)
	if err != nil {
		t.Fatalf("Reveal: %v", err)
	}
	if _, err := m.Reveal(session.ID, 1, 5); !errors.Is(err, common.ErrCellAlreadyOpen) {
		t.Fatalf("повторное открытие = %v, ожидался ErrCellAlreadyOpen", err)
	}

	// Состояние не изменилось: множитель и счётчик те же
	view, err := m.View(session.ID, 1)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if view.Hits != first.Hits || view.Potential != first.Potential {
		t.Errorf("состояние изменилось после отклонённого хода: %d/%d -> %d/%d",
			first.Hits, first.Potential, view.Hits, view.Potential)
	}
}

func TestBoardCashoutEndToEnd(t *testing.T) {
	m, store := newTestManager()
	if err := store.SetCash(1, 1000); err != nil {
		t.Fatalf("SetCash: %v", err)
	}
	session := openSafeBoard(t, m, 1, 100)

	for _, cell := range []int{1, 2, 3} {
		if _, err := m.Reveal(session.ID, 1, cell); err != nil {
			t.Fatalf("Reveal(%d): %v", cell, err)
		}
	}

	result, err := m.Cashout(session.ID, 1)
	if err != nil {
		t.Fatalf("Cashout: %v", err)
	}
	if result.Payout != 219 {
		t.Errorf("выплата = %d, ожидалось 219", result.Payout)
	}
	// 1000 − 100 (ставка) + 219 (вывод) = 1119
	if got := store.View(1).Cash.Amount(); got != 1119 {
		t.Errorf("баланс = %d, ожидалось 1119", got)
	}

	if _, err := m.Cashout(session.ID, 1); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("повторный вывод = %v, ожидался ErrNotFound", err)
	}
}

func TestBoardMineLosesStake(t *testing.T) {
	m, store := newTestManager()

	// Мины на всех клетках: первый же ход гарантированно проигрывает
	store.SetBoardSettings(1, 0, BoardCells)
	session, err := m.Open(1, KindBoard, 50)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	result, err := m.Reveal(session.ID, 1, 13)
	if err != nil {
		t.Fatalf("Reveal: %v", err)
	}
	if !result.Mine {
		t.Fatal("ход по мине не распознан")
	}
	if len(result.Mines) != BoardCells {
		t.Errorf("раскрыто мин = %d, ожидалось %d", len(result.Mines), BoardCells)
	}

	// Ставка сгорела, сессия закрыта
	if got := store.View(1).Cash.Amount(); got != 50 {
		t.Errorf("баланс = %d, ожидалось 50", got)
	}
	if _, err := m.Reveal(session.ID, 1, 1); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("ход после проигрыша = %v, ожидался ErrNotFound", err)
	}
}
