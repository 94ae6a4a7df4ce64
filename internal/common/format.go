// Package common — format.go содержит форматирование денежных сумм.
package common

import "fmt"

// FormatCoinsAmount создаёт строку вида "+100 монет" или "-50 монет".
// Знак «+» или «-» добавляется автоматически.
func FormatCoinsAmount(amount int64) string {
	if amount >= 0 {
		return fmt.Sprintf("+%d %s", amount, PluralizeCoins(amount))
	}
	return fmt.Sprintf("%d %s", amount, PluralizeCoins(amount))
}

// FormatNumber форматирует число с разделителями тысяч (пробелами).
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	rest := n / 1000
	last := n % 1000

	if rest > 0 {
		return fmt.Sprintf("%s %03d", FormatNumber(rest), last)
	}
	return fmt.Sprintf("%d", last)
}
