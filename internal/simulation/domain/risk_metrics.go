package domain

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// RiskMetrics 基于路径收益分布的风险度量
// VaR 与 CVaR 以正的损失金额表示，按初始价值缩放
type RiskMetrics struct {
	ValueAtRisk    float64 `json:"value_at_risk"`
	ConditionalVaR float64 `json:"conditional_var"`
	WorstReturn    float64 `json:"worst_return"`
	BestReturn     float64 `json:"best_return"`
}

// quantileIndex 计算排序后收益序列的分位索引 floor(n*(1-confidence))
// 乘积在数学上为整数时 float64 表示可能略小于整数（如 10*(1-0.90)），
// 直接截断会把索引错偏一位，先加一个远小于 1/n 的补偿再取 floor
func quantileIndex(n int, confidence float64) int {
	return int(math.Floor(float64(n)*(1-confidence) + 1e-9))
}

// CalculateRiskMetrics 从路径集合提取经验 VaR / CVaR
// 每条路径的总收益为 终值/初值 - 1；升序排序后取 floor(N*(1-confidence)) 位置
// 的分位数作为 VaR，CVaR 为严格低于该位置的尾部均值。
// 尾部为空（分位索引为 0）时 CVaR 无定义，取 VaR 作为哨兵值，保持 CVaR >= VaR
func CalculateRiskMetrics(paths [][]float64, confidence, initialValue float64) (*RiskMetrics, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths supplied")
	}
	if confidence <= 0 || confidence >= 1 {
		return nil, fmt.Errorf("confidence must be in (0,1), got %v", confidence)
	}

	returns := make([]float64, 0, len(paths))
	for i, path := range paths {
		if len(path) < 2 {
			return nil, fmt.Errorf("path %d too short: %d points", i, len(path))
		}
		returns = append(returns, path[len(path)-1]/path[0]-1)
	}
	sort.Float64s(returns)

	n := len(returns)
	idx := quantileIndex(n, confidence)
	if idx >= n {
		idx = n - 1
	}

	valueAtRisk := -returns[idx] * initialValue

	conditional := valueAtRisk
	if idx > 0 {
		tailMean, err := stats.Mean(stats.Float64Data(returns[:idx]))
		if err != nil {
			return nil, fmt.Errorf("tail mean: %w", err)
		}
		conditional = -tailMean * initialValue
	}

	return &RiskMetrics{
		ValueAtRisk:    valueAtRisk,
		ConditionalVaR: conditional,
		WorstReturn:    returns[0],
		BestReturn:     returns[n-1],
	}, nil
}
