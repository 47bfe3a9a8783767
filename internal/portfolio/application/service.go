// Package application 组合上下文的应用服务：输入对齐校验、优化器配置注入与指标上报
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/quantlab/internal/portfolio/domain"
	"github.com/wyfcoding/quantlab/pkg/config"
	"github.com/wyfcoding/quantlab/pkg/logger"
	"github.com/wyfcoding/quantlab/pkg/metrics"
)

// MetricsQuery 组合指标请求：权重、预期收益与波动率向量需逐元素对齐
type MetricsQuery struct {
	Weights      []float64 `json:"weights"`
	Returns      []float64 `json:"returns"`
	Volatilities []float64 `json:"volatilities"`
	Correlation  float64   `json:"correlation"`
}

// MetricsDTO 组合指标结果
type MetricsDTO struct {
	Return   float64 `json:"expected_return"`
	Variance float64 `json:"variance"`
	Risk     float64 `json:"risk"`
}

// OptimizeQuery 组合优化请求
type OptimizeQuery struct {
	Returns      []float64 `json:"returns"`
	Volatilities []float64 `json:"volatilities"`
	Correlation  float64   `json:"correlation"`
	TargetReturn float64   `json:"target_return"`
}

// OptimizeDTO 优化结果
type OptimizeDTO struct {
	Weights    []float64 `json:"weights"`
	Return     float64   `json:"expected_return"`
	Risk       float64   `json:"risk"`
	Iterations int       `json:"iterations"`
}

// FrontierQuery 有效前沿请求
type FrontierQuery struct {
	Returns      []float64 `json:"returns"`
	Volatilities []float64 `json:"volatilities"`
	Correlation  float64   `json:"correlation"`
	RiskFreeRate float64   `json:"risk_free_rate"`
	Points       int       `json:"points"`
}

// Service 组合应用服务
type Service struct {
	opts    domain.Options
	metrics *metrics.Metrics
}

func NewService(cfg config.OptimizerConfig, m *metrics.Metrics) *Service {
	return &Service{
		opts: domain.Options{
			LearningRate:  cfg.LearningRate,
			MaxIterations: cfg.MaxIterations,
			Tolerance:     cfg.Tolerance,
		},
		metrics: m,
	}
}

// Metrics 按给定权重计算组合收益、方差与风险
func (s *Service) Metrics(ctx context.Context, q MetricsQuery) (*MetricsDTO, error) {
	if err := validateAssets(q.Returns, q.Volatilities, q.Correlation); err != nil {
		return nil, err
	}
	if len(q.Weights) != len(q.Returns) {
		return nil, fmt.Errorf("weights length %d does not match returns length %d", len(q.Weights), len(q.Returns))
	}

	cov := domain.CovarianceFromVolatilities(q.Volatilities, q.Correlation)
	m := domain.ComputeMetrics(q.Weights, q.Returns, cov)

	return &MetricsDTO{
		Return:   round4(m.Return),
		Variance: round4(m.Variance),
		Risk:     round4(m.Risk),
	}, nil
}

// Optimize 求解带约束的最小方差组合
func (s *Service) Optimize(ctx context.Context, q OptimizeQuery) (*OptimizeDTO, error) {
	if err := validateAssets(q.Returns, q.Volatilities, q.Correlation); err != nil {
		return nil, err
	}

	cov := domain.CovarianceFromVolatilities(q.Volatilities, q.Correlation)

	start := time.Now()
	weights, iterations, err := domain.Optimize(ctx, q.Returns, cov, q.TargetReturn, domain.DefaultConstraints(), s.opts)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "portfolio optimized",
		"assets", len(q.Returns), "target", q.TargetReturn, "iterations", iterations, "duration", time.Since(start))

	if s.metrics != nil {
		s.metrics.OptimizationsTotal.Inc()
		s.metrics.OptimizerIterations.Observe(float64(iterations))
	}

	m := domain.ComputeMetrics(weights, q.Returns, cov)
	return &OptimizeDTO{
		Weights:    roundSlice(weights),
		Return:     round4(m.Return),
		Risk:       round4(m.Risk),
		Iterations: iterations,
	}, nil
}

// Frontier 采样有效前沿
func (s *Service) Frontier(ctx context.Context, q FrontierQuery) ([]domain.FrontierPoint, error) {
	if err := validateAssets(q.Returns, q.Volatilities, q.Correlation); err != nil {
		return nil, err
	}

	cov := domain.CovarianceFromVolatilities(q.Volatilities, q.Correlation)

	start := time.Now()
	frontier, err := domain.EfficientFrontier(ctx, q.Returns, cov, q.RiskFreeRate, q.Points, domain.DefaultConstraints(), s.opts)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "efficient frontier computed",
		"assets", len(q.Returns), "points", q.Points, "duration", time.Since(start))

	if s.metrics != nil {
		s.metrics.OptimizationsTotal.Add(float64(q.Points))
	}

	for i := range frontier {
		frontier[i].TargetReturn = round4(frontier[i].TargetReturn)
		frontier[i].ExpectedReturn = round4(frontier[i].ExpectedReturn)
		frontier[i].Risk = round4(frontier[i].Risk)
		frontier[i].SharpeRatio = round4(frontier[i].SharpeRatio)
		frontier[i].Weights = roundSlice(frontier[i].Weights)
	}
	return frontier, nil
}

// validateAssets 资产向量的公共前置校验
func validateAssets(returns, volatilities []float64, correlation float64) error {
	if len(returns) == 0 {
		return fmt.Errorf("returns must not be empty")
	}
	if len(returns) != len(volatilities) {
		return fmt.Errorf("returns length %d does not match volatilities length %d", len(returns), len(volatilities))
	}
	for i, v := range volatilities {
		if v < 0 {
			return fmt.Errorf("volatility[%d] must be non-negative, got %v", i, v)
		}
	}
	if correlation < -1 || correlation > 1 {
		return fmt.Errorf("correlation must be in [-1, 1], got %v", correlation)
	}
	return nil
}

func round4(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(4).Float64()
	return f
}

func roundSlice(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = round4(v)
	}
	return out
}
