package domain

import (
	"context"
	"math"
	"testing"
)

// pathWithReturn 构造两点路径，使总收益恰为 r
func pathWithReturn(initial, r float64) []float64 {
	return []float64{initial, initial * (1 + r)}
}

func TestCalculateRiskMetrics(t *testing.T) {
	returns := []float64{-0.50, -0.40, -0.30, -0.20, -0.10, 0.00, 0.10, 0.20, 0.30, 0.40}
	paths := make([][]float64, len(returns))
	for i, r := range returns {
		paths[i] = pathWithReturn(100, r)
	}

	m, err := CalculateRiskMetrics(paths, 0.90, 1000)
	if err != nil {
		t.Fatalf("CalculateRiskMetrics: %v", err)
	}

	// idx = floor(10*0.1) = 1: VaR 取 returns[1]，CVaR 为其下方尾部均值
	if want := 0.40 * 1000; math.Abs(m.ValueAtRisk-want) > 1e-9 {
		t.Errorf("VaR = %v, want %v", m.ValueAtRisk, want)
	}
	if want := 0.50 * 1000; math.Abs(m.ConditionalVaR-want) > 1e-9 {
		t.Errorf("CVaR = %v, want %v", m.ConditionalVaR, want)
	}
	if math.Abs(m.WorstReturn+0.50) > 1e-9 || math.Abs(m.BestReturn-0.40) > 1e-9 {
		t.Errorf("extremes = (%v, %v), want (-0.5, 0.4)", m.WorstReturn, m.BestReturn)
	}
}

func TestQuantileIndexIntegralRank(t *testing.T) {
	// n*(1-c) 在数学上为整数时，float64 乘积可能略小于该整数
	// （如 10*(1-0.90) = 0.999...8），索引不能因截断而错偏一位
	tests := []struct {
		n          int
		confidence float64
		want       int
	}{
		{10, 0.90, 1},
		{20, 0.95, 1},
		{100, 0.99, 1},
		{20, 0.90, 2},
		{1000, 0.95, 50},
		{10, 0.95, 0}, // 非整数积 0.5，照常向下取整
		{10, 0.99, 0},
	}
	for _, tt := range tests {
		if got := quantileIndex(tt.n, tt.confidence); got != tt.want {
			t.Errorf("quantileIndex(%d, %v) = %d, want %d", tt.n, tt.confidence, got, tt.want)
		}
	}
}

func TestTailRiskIntegralRank(t *testing.T) {
	// 10 个样本、90% 置信度：分位索引为 1，VaR 取次差损益，ES 为严格尾部均值
	pnl := []float64{-100, -90, -80, -70, -60, -50, 10, 20, 30, 40}

	valueAtRisk, expectedShortfall := tailRisk(pnl, 0.90)

	if math.Abs(valueAtRisk-90) > 1e-9 {
		t.Errorf("VaR = %v, want 90", valueAtRisk)
	}
	if math.Abs(expectedShortfall-100) > 1e-9 {
		t.Errorf("ES = %v, want strict tail mean 100", expectedShortfall)
	}
}

func TestCalculateRiskMetricsOrdering(t *testing.T) {
	// 模拟路径上 CVaR 是比 VaR 更差结果的均值，必须不小于 VaR
	rng := NewRand(13, 1)
	paths := make([][]float64, 500)
	for i := range paths {
		paths[i] = GeneratePath(rng, 100, 0.05, 0.3, 1, 20)
	}

	m, err := CalculateRiskMetrics(paths, 0.95, 100)
	if err != nil {
		t.Fatal(err)
	}
	if m.ConditionalVaR < m.ValueAtRisk-1e-9 {
		t.Errorf("CVaR %v < VaR %v", m.ConditionalVaR, m.ValueAtRisk)
	}
	if m.WorstReturn > m.BestReturn {
		t.Errorf("worst %v > best %v", m.WorstReturn, m.BestReturn)
	}
}

func TestCalculateRiskMetricsEmptyTail(t *testing.T) {
	// 10 条路径、99% 置信度：分位索引为 0，严格尾部为空
	// 朴素实现会除零；此处 CVaR 必须取 VaR 哨兵值
	paths := make([][]float64, 10)
	for i := range paths {
		paths[i] = pathWithReturn(100, -0.1*float64(i+1))
	}

	m, err := CalculateRiskMetrics(paths, 0.99, 500)
	if err != nil {
		t.Fatalf("CalculateRiskMetrics: %v", err)
	}
	if math.IsNaN(m.ConditionalVaR) || math.IsInf(m.ConditionalVaR, 0) {
		t.Fatalf("CVaR = %v, guard failed", m.ConditionalVaR)
	}
	if m.ConditionalVaR != m.ValueAtRisk {
		t.Errorf("empty tail: CVaR = %v, want VaR sentinel %v", m.ConditionalVaR, m.ValueAtRisk)
	}
}

func TestCalculateRiskMetricsValidation(t *testing.T) {
	good := [][]float64{pathWithReturn(100, 0.1)}

	if _, err := CalculateRiskMetrics(nil, 0.95, 100); err == nil {
		t.Error("no paths: expected error")
	}
	if _, err := CalculateRiskMetrics([][]float64{{100}}, 0.95, 100); err == nil {
		t.Error("short path: expected error")
	}
	if _, err := CalculateRiskMetrics(good, 0, 100); err == nil {
		t.Error("confidence 0: expected error")
	}
	if _, err := CalculateRiskMetrics(good, 1, 100); err == nil {
		t.Error("confidence 1: expected error")
	}
}

func TestSimulatePortfolioRisk(t *testing.T) {
	input := PortfolioRiskInput{
		Assets: []PortfolioAsset{
			{Symbol: "AAA", Value: 60000, Volatility: 0.25, ExpectedReturn: 0.08},
			{Symbol: "BBB", Value: 40000, Volatility: 0.15, ExpectedReturn: 0.05},
		},
		Correlation: [][]float64{
			{1.0, 0.5},
			{0.5, 1.0},
		},
		Horizon:     1.0 / 12,
		Simulations: 20000,
		Confidence:  0.95,
		Seed:        11,
	}

	res, err := SimulatePortfolioRisk(context.Background(), input)
	if err != nil {
		t.Fatalf("SimulatePortfolioRisk: %v", err)
	}

	if res.TotalValue != 100000 {
		t.Errorf("total value = %v, want 100000", res.TotalValue)
	}
	if res.VaR <= 0 {
		t.Errorf("VaR = %v, want positive loss at 95%% for a volatile portfolio", res.VaR)
	}
	if res.ES < res.VaR-1e-9 {
		t.Errorf("ES %v < VaR %v", res.ES, res.VaR)
	}
	// 相关系数 0.5 < 1 时组合 VaR 低于独立 VaR 之和
	if res.Diversification <= 0 {
		t.Errorf("diversification = %v, want positive for imperfect correlation", res.Diversification)
	}
}

func TestSimulatePortfolioRiskValidation(t *testing.T) {
	asset := PortfolioAsset{Symbol: "AAA", Value: 1000, Volatility: 0.2, ExpectedReturn: 0.05}

	tests := []struct {
		name  string
		input PortfolioRiskInput
	}{
		{"no assets", PortfolioRiskInput{Simulations: 10, Confidence: 0.95}},
		{"dimension mismatch", PortfolioRiskInput{
			Assets:      []PortfolioAsset{asset, asset},
			Correlation: [][]float64{{1}},
			Horizon:     1, Simulations: 10, Confidence: 0.95,
		}},
		{"zero simulations", PortfolioRiskInput{
			Assets:      []PortfolioAsset{asset},
			Correlation: [][]float64{{1}},
			Horizon:     1, Simulations: 0, Confidence: 0.95,
		}},
		{"bad confidence", PortfolioRiskInput{
			Assets:      []PortfolioAsset{asset},
			Correlation: [][]float64{{1}},
			Horizon:     1, Simulations: 10, Confidence: 1.5,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SimulatePortfolioRisk(context.Background(), tt.input); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
