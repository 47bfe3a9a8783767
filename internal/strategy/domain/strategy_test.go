package domain

import (
	"math"
	"testing"
)

func TestCatalog(t *testing.T) {
	defs := Catalog()
	if len(defs) == 0 {
		t.Fatal("empty catalog")
	}

	seen := map[string]bool{}
	for _, def := range defs {
		if def.ID == "" || def.Name == "" {
			t.Errorf("definition missing id/name: %+v", def)
		}
		if seen[def.ID] {
			t.Errorf("duplicate strategy id %q", def.ID)
		}
		seen[def.ID] = true
		if def.Horizon <= 0 {
			t.Errorf("%s: horizon = %v", def.ID, def.Horizon)
		}
		if def.ProfileVolatility <= 0 {
			t.Errorf("%s: profile volatility = %v", def.ID, def.ProfileVolatility)
		}
	}

	if _, err := Get("long-call"); err != nil {
		t.Errorf("Get(long-call): %v", err)
	}
	if _, err := Get("no-such-strategy"); err == nil {
		t.Error("Get with unknown id: expected error")
	}
}

func TestPayoffGrid(t *testing.T) {
	def, err := Get("long-call")
	if err != nil {
		t.Fatal(err)
	}

	curve, err := def.BuildPayoffCurve(100)
	if err != nil {
		t.Fatal(err)
	}

	if len(curve.Points) != 100 {
		t.Fatalf("grid has %d points, want 100", len(curve.Points))
	}
	if got := curve.Points[0].Price; math.Abs(got-50) > 1e-9 {
		t.Errorf("grid start = %v, want 0.5x spot", got)
	}
	if got := curve.Points[99].Price; math.Abs(got-248) > 1e-9 {
		t.Errorf("grid end = %v, want 2.48x spot", got)
	}
}

func TestLongCallPayoff(t *testing.T) {
	def, err := Get("long-call")
	if err != nil {
		t.Fatal(err)
	}
	curve, err := def.BuildPayoffCurve(100)
	if err != nil {
		t.Fatal(err)
	}

	premium := curve.NetPremium
	if premium <= 0 {
		t.Fatalf("long call net premium = %v, want positive cost", premium)
	}

	for _, pt := range curve.Points {
		var want float64
		if pt.Price <= 100 {
			want = -premium
		} else {
			want = pt.Price - 100 - premium
		}
		if math.Abs(pt.Profit-want) > 1e-9 {
			t.Errorf("profit at %v = %v, want %v", pt.Price, pt.Profit, want)
		}
	}

	if math.Abs(curve.MaxLoss+premium) > 1e-9 {
		t.Errorf("long call max loss = %v, want -premium %v", curve.MaxLoss, -premium)
	}
}

func TestCoveredCallCapped(t *testing.T) {
	def, err := Get("covered-call")
	if err != nil {
		t.Fatal(err)
	}
	curve, err := def.BuildPayoffCurve(100)
	if err != nil {
		t.Fatal(err)
	}

	// 上行收益被空头 call 封顶：执行价以上损益恒定
	cap := 110 - 100 + curve.Legs[1].Premium // 空头 call 的权利金收入
	for _, pt := range curve.Points {
		if pt.Price > 110 {
			if math.Abs(pt.Profit-cap) > 1e-9 {
				t.Errorf("covered call above strike: profit at %v = %v, want capped %v", pt.Price, pt.Profit, cap)
			}
		}
	}
}

func TestStraddleShape(t *testing.T) {
	def, err := Get("straddle")
	if err != nil {
		t.Fatal(err)
	}
	curve, err := def.BuildPayoffCurve(100)
	if err != nil {
		t.Fatal(err)
	}

	// 最差损益不低于净权利金支出；网格未必恰好落在执行价上，不要求相等
	if curve.MaxLoss < -curve.NetPremium-1e-9 {
		t.Errorf("straddle max loss %v worse than net premium %v", curve.MaxLoss, -curve.NetPremium)
	}
	first := curve.Points[0].Profit
	last := curve.Points[len(curve.Points)-1].Profit
	if first <= 0 || last <= 0 {
		t.Errorf("straddle wings should profit on large moves, got %v and %v", first, last)
	}
}

func TestProfilesAligned(t *testing.T) {
	names, returns, vols := Profiles()
	if len(names) != len(returns) || len(returns) != len(vols) {
		t.Fatalf("misaligned profiles: %d/%d/%d", len(names), len(returns), len(vols))
	}
	if len(names) != len(Catalog()) {
		t.Errorf("profiles cover %d strategies, catalog has %d", len(names), len(Catalog()))
	}
}
