package domain

import (
	"context"
	"fmt"
	"slices"
)

// FrontierPoint 有效前沿上的一个采样点
type FrontierPoint struct {
	TargetReturn   float64   `json:"target_return"`
	Weights        []float64 `json:"weights"`
	ExpectedReturn float64   `json:"expected_return"`
	Risk           float64   `json:"risk"`
	SharpeRatio    float64   `json:"sharpe_ratio"`
}

// EfficientFrontier 在 [min(returns), max(returns)] 上等分 points 个目标收益，
// 对每个目标运行一次 Optimize 并计算组合指标与 Sharpe 比率
// 结果按目标收益升序排列；points 必须 >= 2，否则步长无定义
func EfficientFrontier(ctx context.Context, returns []float64, covariance [][]float64, riskFreeRate float64, points int, cons Constraints, opts Options) ([]FrontierPoint, error) {
	if points < 2 {
		return nil, fmt.Errorf("frontier needs at least 2 points, got %d", points)
	}
	if len(returns) == 0 {
		return nil, fmt.Errorf("no assets to optimize")
	}

	minReturn := slices.Min(returns)
	maxReturn := slices.Max(returns)
	step := (maxReturn - minReturn) / float64(points-1)

	frontier := make([]FrontierPoint, 0, points)
	for p := 0; p < points; p++ {
		target := minReturn + step*float64(p)

		weights, _, err := Optimize(ctx, returns, covariance, target, cons, opts)
		if err != nil {
			return nil, fmt.Errorf("optimizing for target %v: %w", target, err)
		}

		m := ComputeMetrics(weights, returns, covariance)

		var sharpe float64
		if m.Risk > 0 {
			sharpe = (m.Return - riskFreeRate) / m.Risk
		}

		frontier = append(frontier, FrontierPoint{
			TargetReturn:   target,
			Weights:        weights,
			ExpectedReturn: m.Return,
			Risk:           m.Risk,
			SharpeRatio:    sharpe,
		})
	}

	return frontier, nil
}
