package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/minefix2025-boop/Coingame/internal/common"
)

func TestAccrueBusinessCatchUp(t *testing.T) {
	s := NewStore(testConfig())
	s.EnsureUser(1)
	if err := s.BuyBusiness(1, BusinessShaurma); err != nil {
		t.Fatalf("BuyBusiness: %v", err)
	}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Первый тик после покупки только ставит метку времени
	s.Accrue(base)
	v := s.View(1)
	if v.Business.Accrued != 0 {
		t.Fatalf("прибыль после первого тика = %d, ожидалось 0", v.Business.Accrued)
	}
	if !v.Business.LastAccrual.Equal(base) {
		t.Fatalf("метка = %s, ожидалось %s", v.Business.LastAccrual, base)
	}

	// 95 секунд при периоде 30с — ровно 3 полных цикла, остаток 5с теряется
	s.Accrue(base.Add(95 * time.Second))
	v = s.View(1)
	if v.Business.Accrued != 30 {
		t.Errorf("прибыль = %d, ожидалось 30 (3 цикла по 10)", v.Business.Accrued)
	}
	if !v.Business.LastAccrual.Equal(base.Add(95 * time.Second)) {
		t.Errorf("метка не сдвинута на «сейчас»: %s", v.Business.LastAccrual)
	}

	// Неполный период — ничего не меняется, метка остаётся на месте
	s.Accrue(base.Add(120 * time.Second))
	v = s.View(1)
	if v.Business.Accrued != 30 {
		t.Errorf("прибыль после неполного периода = %d, ожидалось 30", v.Business.Accrued)
	}
	if !v.Business.LastAccrual.Equal(base.Add(95 * time.Second)) {
		t.Errorf("метка сдвинулась без начисления: %s", v.Business.LastAccrual)
	}
}

func TestAccrueMineAutoCollect(t *testing.T) {
	s := NewStore(testConfig())
	s.EnsureUser(1)
	s.EnsureUser(2)
	s.ToggleAutoCollect(1)

	now := time.Now()
	s.Accrue(now)
	s.Accrue(now.Add(time.Second))

	if got := s.View(1).Mine.Stored; got != 6 {
		t.Errorf("добыча с авто-сбором = %d, ожидалось 6 (2 тика по 3)", got)
	}
	if got := s.View(2).Mine.Stored; got != 0 {
		t.Errorf("добыча без авто-сбора = %d, ожидалось 0", got)
	}
}

func TestCollectMine(t *testing.T) {
	s := NewStore(testConfig())
	s.EnsureUser(1)

	if _, err := s.CollectMine(1); !errors.Is(err, common.ErrNothingToCollect) {
		t.Errorf("сбор пустого рудника = %v, ожидался ErrNothingToCollect", err)
	}

	s.ToggleAutoCollect(1)
	now := time.Now()
	s.Accrue(now)
	s.Accrue(now.Add(time.Second)) // 6 единиц золота

	res, err := s.CollectMine(1)
	if err != nil {
		t.Fatalf("CollectMine: %v", err)
	}
	if res.Units != 6 || res.Coins != 12 {
		t.Errorf("собрано %d ед. на %d монет, ожидалось 6/12", res.Units, res.Coins)
	}
	if got := s.View(1).Mine.Stored; got != 0 {
		t.Errorf("склад после сбора = %d, ожидалось 0", got)
	}
}

func TestUpgradeMine(t *testing.T) {
	s := NewStore(testConfig())
	s.EnsureUser(1)

	if _, err := s.UpgradeMine(1); !errors.Is(err, common.ErrInsufficientFunds) {
		t.Fatalf("улучшение без денег = %v, ожидался ErrInsufficientFunds", err)
	}

	if err := s.SetCash(1, 30_000_000); err != nil {
		t.Fatalf("SetCash: %v", err)
	}
	tier, err := s.UpgradeMine(1)
	if err != nil {
		t.Fatalf("UpgradeMine: %v", err)
	}
	if tier.Name != "Рубиновая шахта" {
		t.Errorf("уровень = %q, ожидалась Рубиновая шахта", tier.Name)
	}

	if _, err := s.UpgradeMine(1); err != nil {
		t.Fatalf("UpgradeMine до алмазов: %v", err)
	}
	if _, err := s.UpgradeMine(1); !errors.Is(err, common.ErrMineMaxLevel) {
		t.Errorf("улучшение максимума = %v, ожидался ErrMineMaxLevel", err)
	}
}

func TestBusinessLifecycle(t *testing.T) {
	s := NewStore(testConfig())
	s.EnsureUser(1)

	if _, err := s.CollectBusiness(1, time.Now()); !errors.Is(err, common.ErrNoBusiness) {
		t.Errorf("сбор без бизнеса = %v, ожидался ErrNoBusiness", err)
	}

	if err := s.BuyBusiness(1, BusinessShaurma); err != nil {
		t.Fatalf("BuyBusiness: %v", err)
	}
	if err := s.BuyBusiness(1, BusinessCafe); !errors.Is(err, common.ErrBusinessExists) {
		t.Errorf("вторая покупка = %v, ожидался ErrBusinessExists", err)
	}
	if got := s.View(1).Cash.Amount(); got != 0 {
		t.Errorf("баланс после покупки за 100 = %d, ожидалось 0", got)
	}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.Accrue(base)
	s.Accrue(base.Add(30 * time.Second))

	profit, err := s.CollectBusiness(1, base.Add(31*time.Second))
	if err != nil {
		t.Fatalf("CollectBusiness: %v", err)
	}
	if profit != 10 {
		t.Errorf("прибыль = %d, ожидалось 10", profit)
	}

	// Продажа: половина цены плюс накопленное (сейчас 0)
	total, err := s.SellBusiness(1)
	if err != nil {
		t.Fatalf("SellBusiness: %v", err)
	}
	if total != 50 {
		t.Errorf("выручка с продажи = %d, ожидалось 50", total)
	}
	if got := s.View(1).Business.Kind; got != BusinessNone {
		t.Errorf("бизнес после продажи = %q, ожидался пустой", got)
	}
}
