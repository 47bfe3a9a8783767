package domain

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	algorithm "github.com/wyfcoding/pkg/algorithm"
)

// PortfolioAsset 组合中的单项资产
type PortfolioAsset struct {
	Symbol         string  `json:"symbol"`
	Value          float64 `json:"value"`           // 当前市值
	Volatility     float64 `json:"volatility"`      // 年化波动率 (sigma)
	ExpectedReturn float64 `json:"expected_return"` // 预期年化收益率 (mu)
}

// PortfolioRiskInput 组合风险模拟输入
type PortfolioRiskInput struct {
	Assets      []PortfolioAsset `json:"assets"`
	Correlation [][]float64      `json:"correlation"` // 相关系数矩阵
	Horizon     float64          `json:"horizon"`     // 时间跨度 (年), e.g. 1/252
	Simulations int              `json:"simulations"` // 模拟次数
	Confidence  float64          `json:"confidence"`  // 置信度, e.g. 0.95
	Seed        uint64           `json:"-"`
}

// PortfolioRiskResult 组合风险模拟结果
type PortfolioRiskResult struct {
	TotalValue float64 `json:"total_value"`
	VaR        float64 `json:"var"` // Value at Risk
	ES         float64 `json:"es"`  // Expected Shortfall (CVaR)
	// Diversification 各资产独立 VaR 之和与组合 VaR 的差，衡量分散化收益
	Diversification float64 `json:"diversification"`
}

// SimulatePortfolioRisk 执行多资产关联蒙特卡洛模拟
// 协方差 Cov(i,j) = rho(i,j) * sigma_i * sigma_j * T，经 Cholesky 分解后
// 用 L*z 生成关联正态项；分解出的尺度已含 sqrt(T)，无需再缩放
func SimulatePortfolioRisk(ctx context.Context, input PortfolioRiskInput) (*PortfolioRiskResult, error) {
	nAssets := len(input.Assets)
	if nAssets == 0 {
		return nil, fmt.Errorf("no assets in portfolio")
	}
	if len(input.Correlation) != nAssets {
		return nil, fmt.Errorf("correlation matrix dimension mismatch: %d rows for %d assets",
			len(input.Correlation), nAssets)
	}
	for i, row := range input.Correlation {
		if len(row) != nAssets {
			return nil, fmt.Errorf("correlation matrix row %d has %d columns, want %d", i, len(row), nAssets)
		}
	}
	if input.Simulations <= 0 {
		return nil, fmt.Errorf("simulations must be positive, got %d", input.Simulations)
	}
	if input.Confidence <= 0 || input.Confidence >= 1 {
		return nil, fmt.Errorf("confidence must be in (0,1), got %v", input.Confidence)
	}

	covData := make([][]float64, nAssets)
	for i := range covData {
		covData[i] = make([]float64, nAssets)
		for j := range covData[i] {
			covData[i][j] = input.Correlation[i][j] *
				input.Assets[i].Volatility * input.Assets[j].Volatility * input.Horizon
		}
	}

	covMatrix, err := algorithm.NewMatrixFromData(covData)
	if err != nil {
		return nil, fmt.Errorf("failed to create covariance matrix: %w", err)
	}
	chol, err := covMatrix.Cholesky()
	if err != nil {
		return nil, fmt.Errorf("cholesky decomposition failed (matrix might not be positive definite): %w", err)
	}

	rng := NewRand(input.Seed, uint64(nAssets))

	var totalValue float64
	drifts := make([]float64, nAssets)
	for i, asset := range input.Assets {
		totalValue += asset.Value
		drifts[i] = (asset.ExpectedReturn - 0.5*asset.Volatility*asset.Volatility) * input.Horizon
	}

	portfolioPnL := make([]float64, input.Simulations)
	assetPnL := make([][]float64, nAssets)
	for i := range assetPnL {
		assetPnL[i] = make([]float64, input.Simulations)
	}

	z := make([]float64, nAssets)
	for s := 0; s < input.Simulations; s++ {
		if s%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("simulation cancelled: %w", err)
			}
		}

		for i := range z {
			z[i] = NormalVariate(rng)
		}
		correlated, err := chol.MultiplyVector(z)
		if err != nil {
			return nil, fmt.Errorf("correlating shocks: %w", err)
		}

		var pnl float64
		for i := range nAssets {
			delta := input.Assets[i].Value * (math.Exp(drifts[i]+correlated[i]) - 1)
			assetPnL[i][s] = delta
			pnl += delta
		}
		portfolioPnL[s] = pnl
	}

	portfolioVaR, portfolioES := tailRisk(portfolioPnL, input.Confidence)

	var standaloneSum float64
	for i := range nAssets {
		v, _ := tailRisk(assetPnL[i], input.Confidence)
		standaloneSum += v
	}

	return &PortfolioRiskResult{
		TotalValue:      totalValue,
		VaR:             portfolioVaR,
		ES:              portfolioES,
		Diversification: standaloneSum - portfolioVaR,
	}, nil
}

// tailRisk 对损益序列取经验分位 VaR 与尾部均值 ES，损失以正数表示
// 尾部为空时 ES 取 VaR，与 CalculateRiskMetrics 的哨兵约定一致
func tailRisk(pnl []float64, confidence float64) (valueAtRisk, expectedShortfall float64) {
	sorted := make([]float64, len(pnl))
	copy(sorted, pnl)
	sort.Float64s(sorted)

	idx := quantileIndex(len(sorted), confidence)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	valueAtRisk = -sorted[idx]

	expectedShortfall = valueAtRisk
	if idx > 0 {
		tailMean, err := stats.Mean(stats.Float64Data(sorted[:idx]))
		if err == nil {
			expectedShortfall = -tailMean
		}
	}
	return valueAtRisk, expectedShortfall
}
