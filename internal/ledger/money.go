// Package ledger — money.go описывает тип денежного значения.
// Баланс пользователя — либо конечная неотрицательная сумма, либо
// «бесконечный» баланс, который выдаётся админами. Бесконечный баланс
// делает все списания и начисления no-op (и, как следствие, не даёт опыт).
package ledger

import (
	"fmt"

	"github.com/minefix2025-boop/Coingame/internal/common"
)

// Money — сумма на счёте: конечное число монет или бесконечность.
// Нулевое значение Money — конечные 0 монет.
type Money struct {
	amount    int64
	unlimited bool
}

// Finite создаёт конечную сумму.
func Finite(n int64) Money {
	return Money{amount: n}
}

// Unlimited создаёт бесконечный баланс.
func Unlimited() Money {
	return Money{unlimited: true}
}

// IsUnlimited сообщает, бесконечный ли это баланс.
func (m Money) IsUnlimited() bool {
	return m.unlimited
}

// Amount возвращает число монет. Для бесконечного баланса — 0:
// конкретное число у бесконечности не имеет смысла.
func (m Money) Amount() int64 {
	if m.unlimited {
		return 0
	}
	return m.amount
}

// CanAfford — true, если с баланса можно списать amount.
func (m Money) CanAfford(amount int64) bool {
	if m.unlimited {
		return true
	}
	return m.amount >= amount
}

// String форматирует сумму для отображения пользователю.
func (m Money) String() string {
	if m.unlimited {
		return "∞ (бесконечный)"
	}
	return common.FormatNumber(m.amount)
}

// add возвращает сумму после начисления. Для бесконечного баланса — no-op.
func (m Money) add(amount int64) Money {
	if m.unlimited {
		return m
	}
	return Money{amount: m.amount + amount}
}

// sub возвращает сумму после списания. Для бесконечного баланса — no-op.
func (m Money) sub(amount int64) Money {
	if m.unlimited {
		return m
	}
	return Money{amount: m.amount - amount}
}

// mustFinite используется при восстановлении снапшота для валидации.
func mustFinite(n int64) (Money, error) {
	if n < 0 {
		return Money{}, fmt.Errorf("отрицательный баланс в снапшоте: %d", n)
	}
	return Finite(n), nil
}
