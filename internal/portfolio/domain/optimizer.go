package domain

import (
	"context"
	"fmt"
	"math"

	algorithm "github.com/wyfcoding/pkg/algorithm"
)

// optCtxCheckInterval 迭代循环中检查取消信号的间隔
const optCtxCheckInterval = 64

// Constraints 优化约束开关
type Constraints struct {
	// SumToOne 权重和归一为 1
	SumToOne bool `json:"sum_to_one"`
	// NonNegative 禁止做空，负权重截断为零
	NonNegative bool `json:"non_negative"`
}

// DefaultConstraints 默认约束：权重归一且不允许做空
func DefaultConstraints() Constraints {
	return Constraints{SumToOne: true, NonNegative: true}
}

// Options 梯度下降超参数
// 启发式常量，经配置暴露；默认值为 0.01 / 1000 / 1e-4
type Options struct {
	LearningRate  float64 `json:"learning_rate"`
	MaxIterations int     `json:"max_iterations"`
	Tolerance     float64 `json:"tolerance"`
}

// DefaultOptions 默认优化器超参数
func DefaultOptions() Options {
	return Options{LearningRate: 0.01, MaxIterations: 1000, Tolerance: 1e-4}
}

// Optimize 在目标收益下搜索最小方差权重
//
// 对组合方差做固定步长梯度下降（梯度为 Σw），每步之后投影回可行域：
// 先截断负权重，再归一化权重和。目标收益只作为早停条件检查，不作为硬约束
// 优化，迭代预算不足时返回的权重可能偏离目标收益——这是既有的启发式行为，
// 不是待修复的缺陷。返回最终权重与实际迭代次数。
// 不修改调用方传入的任何切片。
func Optimize(ctx context.Context, returns []float64, covariance [][]float64, targetReturn float64, cons Constraints, opts Options) ([]float64, int, error) {
	n := len(returns)
	if n == 0 {
		return nil, 0, fmt.Errorf("no assets to optimize")
	}
	if len(covariance) != n {
		return nil, 0, fmt.Errorf("covariance matrix has %d rows for %d assets", len(covariance), n)
	}
	for i, row := range covariance {
		if len(row) != n {
			return nil, 0, fmt.Errorf("covariance matrix row %d has %d columns, want %d", i, len(row), n)
		}
	}
	if opts.LearningRate <= 0 || opts.MaxIterations <= 0 || opts.Tolerance <= 0 {
		return nil, 0, fmt.Errorf("invalid optimizer options %+v", opts)
	}

	sigma, err := algorithm.NewMatrixFromData(covariance)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create covariance matrix: %w", err)
	}

	// 等权起点
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1 / float64(n)
	}

	iterations := 0
	for ; iterations < opts.MaxIterations; iterations++ {
		if iterations%optCtxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, iterations, fmt.Errorf("optimization cancelled: %w", err)
			}
		}

		// 方差梯度 d(w'Σw)/dw 与 Σw 同方向
		gradient, err := sigma.MultiplyVector(weights)
		if err != nil {
			return nil, iterations, fmt.Errorf("computing gradient: %w", err)
		}

		next := make([]float64, n)
		for i := range next {
			next[i] = weights[i] - opts.LearningRate*gradient[i]
		}
		project(next, cons)
		weights = next

		var realized float64
		for i, w := range weights {
			realized += w * returns[i]
		}
		if math.Abs(realized-targetReturn) < opts.Tolerance {
			iterations++
			break
		}
	}

	return weights, iterations, nil
}

// project 将权重向量原地投影回可行域：先截断负值，再归一化
// 全部权重被截断为零时退回等权，避免除零
func project(weights []float64, cons Constraints) {
	if cons.NonNegative {
		for i, w := range weights {
			if w < 0 {
				weights[i] = 0
			}
		}
	}
	if cons.SumToOne {
		var sum float64
		for _, w := range weights {
			sum += w
		}
		if sum == 0 {
			for i := range weights {
				weights[i] = 1 / float64(len(weights))
			}
			return
		}
		for i := range weights {
			weights[i] /= sum
		}
	}
}
