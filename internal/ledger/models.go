// Package ledger — models.go описывает структуры состояния пользователя:
// баланс, банк, ускорители, профиль (уровень/опыт), привилегии,
// рудник, бизнес и историю доната.
package ledger

import "time"

// PremiumTier — уровень платной привилегии.
type PremiumTier string

const (
	PremiumNone   PremiumTier = ""
	PremiumElite  PremiumTier = "elite"
	PremiumDeluxe PremiumTier = "deluxe"
)

// Title возвращает русское название привилегии.
func (t PremiumTier) Title() string {
	switch t {
	case PremiumElite:
		return "Элит"
	case PremiumDeluxe:
		return "Делюкс"
	default:
		return "Обычный"
	}
}

// BusinessKind — тип бизнеса.
type BusinessKind string

const (
	BusinessNone    BusinessKind = ""
	BusinessShaurma BusinessKind = "shaurma"
	BusinessCafe    BusinessKind = "cafe"
	BusinessSpace   BusinessKind = "space"
)

// BusinessInfo — параметры одного типа бизнеса.
type BusinessInfo struct {
	Name         string
	Cost         int64
	BaseProfit   int64
	ProfitPeriod time.Duration
}

// BusinessTypes — доступные бизнесы. Прибыль капает раз в ProfitPeriod.
var BusinessTypes = map[BusinessKind]BusinessInfo{
	BusinessShaurma: {Name: "Шаурма", Cost: 100, BaseProfit: 10, ProfitPeriod: 30 * time.Second},
	BusinessCafe:    {Name: "Кафе", Cost: 1000, BaseProfit: 100, ProfitPeriod: 15 * time.Second},
	BusinessSpace:   {Name: "Космическое агентство", Cost: 1000000, BaseProfit: 10000, ProfitPeriod: 5 * time.Second},
}

// MineTierInfo — параметры уровня рудника.
type MineTierInfo struct {
	Name         string
	Resource     string
	PricePerUnit int64
	UpgradeCost  int64 // стоимость улучшения ДО этого уровня
}

// MineTiers — уровни рудника, от золота до алмазов.
var MineTiers = [3]MineTierInfo{
	{Name: "Золотая шахта", Resource: "Золото", PricePerUnit: 2, UpgradeCost: 1000000},
	{Name: "Рубиновая шахта", Resource: "Рубин", PricePerUnit: 10, UpgradeCost: 5000000},
	{Name: "Алмазная шахта", Resource: "Алмаз", PricePerUnit: 100, UpgradeCost: 20000000},
}

// MaxMineTier — максимальный уровень рудника.
const MaxMineTier = 2

// MineState — состояние рудника пользователя.
type MineState struct {
	Tier        int
	Stored      int64 // добытый, но не собранный ресурс
	AutoCollect bool
}

// BusinessState — состояние бизнеса пользователя.
type BusinessState struct {
	Kind        BusinessKind
	Accrued     int64 // накопленная, но не собранная прибыль
	Active      bool
	LastAccrual time.Time // нулевое значение = ещё не было тика после покупки/сбора
}

// PremiumState — состояние платной привилегии.
type PremiumState struct {
	Tier        PremiumTier
	Expires     time.Time
	PurchasedAt time.Time
}

// DonationKind — что было куплено за звёзды.
type DonationKind string

const (
	DonationCoins  DonationKind = "coins"
	DonationElite  DonationKind = "elite"
	DonationDeluxe DonationKind = "deluxe"
)

// DonationTransaction — одна покупка за Telegram Stars.
// Запись неизменяемая, кроме флага Refunded, который может
// перейти из false в true ровно один раз.
type DonationTransaction struct {
	ID           string // ID транзакции, присвоенный платёжным провайдером
	UserID       int64
	Kind         DonationKind
	StarsPaid    int64
	CoinsGranted int64 // только для Kind == DonationCoins
	CreatedAt    time.Time
	Refunded     bool
}

// BoardSettings — персональная сложность мини-игры, выставленная админом.
type BoardSettings struct {
	Chance int // 0–100, как задал админ
	Mines  int // количество мин, вычисленное из Chance
	Set    bool
}

// UserLedger — полное состояние одного пользователя.
// Все поля защищены мьютексом Store; наружу отдаются только копии.
type UserLedger struct {
	UserID       int64
	Cash         Money
	Bank         int64
	Accelerators int64

	Level    int
	XP       int64
	XPToNext int64

	Rank    string // "", "Admin" или "moderator"
	Premium PremiumState

	Mine     MineState
	Business BusinessState

	DailyClaimedAt time.Time // нулевое значение = бонус ещё не забирали
	Board          BoardSettings

	Donations []DonationTransaction
}

// View — снимок состояния пользователя для отображения.
// Копия, не разделяющая память со Store.
type View struct {
	UserID         int64
	Cash           Money
	Bank           int64
	Accelerators   int64
	Level          int
	XP             int64
	XPToNext       int64
	Rank           string
	Premium        PremiumState
	Mine           MineState
	Business       BusinessState
	DailyClaimedAt time.Time
	Board          BoardSettings
}
