// Package donate реализует покупки за Telegram Stars: коины и привилегии
// Элит/Делюкс, историю покупок и возврат звёзд.
// models.go описывает ожидающие инвойсы и результат оплаты.
package donate

// Invoice — выставленный, но ещё не оплаченный инвойс.
// Таблица инвойсов живёт только в памяти: неоплаченный инвойс
// после рестарта просто не найдётся, и оплата вернётся ошибкой.
type Invoice struct {
	UserID int64
	Kind   string // "coins", "elite" или "deluxe"
	Stars  int64
}

// PaymentResult — что получил пользователь после успешной оплаты.
type PaymentResult struct {
	Kind          string
	StarsPaid     int64
	CoinsGranted  int64
	TransactionID string
}
