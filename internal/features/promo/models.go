// Package promo реализует промокоды: код → награда с ограниченным числом
// активаций, не больше одной активации на пользователя.
// models.go описывает структуры промокодов.
package promo

// RewardKind — тип награды промокода.
type RewardKind string

const (
	RewardCoins        RewardKind = "coins"
	RewardAccelerators RewardKind = "accelerators"
)

// Code — один промокод. Создаётся админом; после создания меняется только
// множество активировавших. Промокоды не удаляются.
type Code struct {
	Code           string
	Reward         RewardKind
	Amount         int64
	MaxActivations int
	UsedBy         map[int64]struct{}
}

// Record — сериализуемое состояние промокода для снапшота.
type Record struct {
	Code           string
	Reward         RewardKind
	Amount         int64
	MaxActivations int
	UsedBy         []int64
}

// ActivationResult — итог успешной активации.
type ActivationResult struct {
	Reward    RewardKind
	Amount    int64
	Remaining int // сколько активаций осталось
}
