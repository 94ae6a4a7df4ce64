// Package economy управляет повседневными операциями с монетами:
// ежедневный бонус, работа, переводы, банк и мгновенные игры.
// models.go описывает работу и её заработок.
package economy

// Job — одна из работ. За смену тратится один ускоритель,
// заработок выпадает из диапазона [MinEarn, MaxEarn].
type Job struct {
	Name    string
	MinEarn int64
	MaxEarn int64
}

// Jobs — доступные работы, от курьера до программиста.
var Jobs = map[string]Job{
	"Курьер":      {Name: "Курьер", MinEarn: 10, MaxEarn: 30},
	"Таксист":     {Name: "Таксист", MinEarn: 20, MaxEarn: 50},
	"Программист": {Name: "Программист", MinEarn: 50, MaxEarn: 120},
}

// WorkResult — итог одной смены.
type WorkResult struct {
	Job    string
	Earned int64
}

// BetResult — итог мгновенной ставки 50/50.
type BetResult struct {
	Won    bool
	Amount int64
}
