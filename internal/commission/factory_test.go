package commission

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wearetvxq/stock-quant/internal/domain"
)

func TestFactory_Get_KnownMarkets(t *testing.T) {
	f := NewFactory(zap.NewNop(), DefaultSchedules())

	if _, ok := f.Get(domain.MarketHK).(*HKModel); !ok {
		t.Error("expected *HKModel for HK")
	}
	if _, ok := f.Get(domain.MarketCN).(*CNModel); !ok {
		t.Error("expected *CNModel for CN")
	}
	if _, ok := f.Get(domain.MarketUS).(*USModel); !ok {
		t.Error("expected *USModel for US")
	}
}

func TestFactory_Get_UnknownMarketFallsBackToHK(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := NewFactory(zap.New(core), DefaultSchedules())

	m := f.Get(domain.Market("JP"))

	if _, ok := m.(*HKModel); !ok {
		t.Fatalf("expected *HKModel fallback, got %T", m)
	}
	// Fallback must behave exactly like the HK model
	hk := NewHKModel(DefaultHKParams)
	if !almostEqual(m.Calculate(200, 100), hk.Calculate(200, 100)) {
		t.Errorf("fallback cost %v != HK cost %v", m.Calculate(200, 100), hk.Calculate(200, 100))
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if entries[0].ContextMap()["market"] != "JP" {
		t.Errorf("warning missing market field, got %v", entries[0].ContextMap())
	}
}

func TestFactory_Get_CaseSensitive(t *testing.T) {
	// Identifiers are case-sensitive: "hk" is unknown and falls back.
	core, logs := observer.New(zap.WarnLevel)
	f := NewFactory(zap.New(core), DefaultSchedules())

	if _, ok := f.Get(domain.Market("hk")).(*HKModel); !ok {
		t.Error("expected *HKModel fallback for lowercase identifier")
	}
	if logs.Len() != 1 {
		t.Errorf("expected a warning for lowercase identifier, got %d", logs.Len())
	}
}
