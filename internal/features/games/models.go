// Package games реализует азартные сессии: рулетку на число, рулетку
// на цвет и мини-игру «сапёр» 5×5 с нарастающим множителем.
// models.go описывает сессии и результаты.
package games

// Kind — вид игры.
type Kind string

const (
	KindNumberRoulette Kind = "roulette"
	KindColorRoulette  Kind = "colors"
	KindBoard          Kind = "board"
)

// Color — цвет в простой рулетке.
type Color string

const (
	ColorRed   Color = "red"
	ColorBlack Color = "black"
)

// Title возвращает русское название цвета.
func (c Color) Title() string {
	if c == ColorRed {
		return "🔴 Красный"
	}
	return "⚫ Черный"
}

// Размеры поля мини-игры.
const (
	BoardRows  = 5
	BoardCols  = 5
	BoardCells = BoardRows * BoardCols
)

// Session — одна азартная сессия. Ставка уже списана (эскроу) в момент
// создания; сессия живёт до единственного расчёта: выигрыш, проигрыш
// или отмена.
type Session struct {
	ID      string
	UserID  int64
	Kind    Kind
	Stake   int64
	Settled bool

	// Состояние мини-игры.
	Mines      map[int]struct{} // клетки с минами, 1..25
	Opened     map[int]struct{} // открытые клетки
	Hits       int              // открыто безопасных клеток
	Multiplier float64          // текущий множитель, стартует с 1.0
}

// potential — потенциальный выигрыш на текущем множителе.
func (s *Session) potential() int64 {
	return int64(float64(s.Stake) * s.Multiplier)
}

// SessionView — копия состояния сессии для отображения.
type SessionView struct {
	ID         string
	UserID     int64
	Kind       Kind
	Stake      int64
	MinesCount int
	Opened     []int
	Hits       int
	Multiplier float64
	Potential  int64
}

// RouletteResult — итог рулетки на число.
type RouletteResult struct {
	Picked  int
	Winning int
	Won     bool
	Payout  int64
}

// ColorResult — итог рулетки на цвет.
type ColorResult struct {
	Picked  Color
	Winning Color
	Won     bool
	Payout  int64
}

// BoardReveal — итог открытия одной клетки.
type BoardReveal struct {
	Cell       int
	Mine       bool // попали на мину — сессия проиграна и закрыта
	Hits       int
	Multiplier float64
	Potential  int64
	Opened     []int
	Mines      []int // заполняется только при проигрыше, для отображения поля
}

// BoardCashout — итог вывода выигрыша.
type BoardCashout struct {
	Hits       int
	Multiplier float64
	Payout     int64
	Opened     []int
	Mines      []int
}

// MinesForChance переводит админскую «удачу» 0–100 в число мин на поле.
// Крайние значения 0 и 100 проверяются точно, внутренние диапазоны —
// сравнениями по нижней границе именно в этом порядке.
func MinesForChance(chance int) int {
	switch {
	case chance == 0:
		return 8
	case chance == 100:
		return 0
	case chance >= 75:
		return 2
	case chance >= 50:
		return 4
	case chance >= 25:
		return 6
	default:
		return 7
	}
}
