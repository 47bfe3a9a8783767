// Package application 模拟上下文的应用服务：配额约束、默认值回填与指标上报
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	pricingdomain "github.com/wyfcoding/quantlab/internal/pricing/domain"
	"github.com/wyfcoding/quantlab/internal/simulation/domain"
	"github.com/wyfcoding/quantlab/pkg/config"
	"github.com/wyfcoding/quantlab/pkg/logger"
	"github.com/wyfcoding/quantlab/pkg/metrics"
)

// maxReturnedPaths 路径接口最多回传的完整路径数，避免响应体失控
const maxReturnedPaths = 100

// GeneratePathsQuery 路径生成请求
type GeneratePathsQuery struct {
	S0         float64 `json:"s0"`
	Mu         float64 `json:"mu"`
	Volatility float64 `json:"volatility"`
	Horizon    float64 `json:"horizon"`
	Paths      int     `json:"paths"`
	Steps      int     `json:"steps"`
	Seed       uint64  `json:"seed"`
}

// PathsDTO 路径生成结果：样本路径加上终端价格的统计摘要
type PathsDTO struct {
	Paths         [][]float64 `json:"paths"`
	TerminalMean  float64     `json:"terminal_mean"`
	TerminalStdev float64     `json:"terminal_stdev"`
	TerminalMin   float64     `json:"terminal_min"`
	TerminalMax   float64     `json:"terminal_max"`
}

// PriceOptionQuery 蒙特卡洛期权定价请求
type PriceOptionQuery struct {
	Type       string  `json:"type"`
	Spot       float64 `json:"spot"`
	Strike     float64 `json:"strike"`
	Maturity   float64 `json:"maturity"`
	Rate       float64 `json:"rate"`
	Volatility float64 `json:"volatility"`
	Paths      int     `json:"paths"`
	Steps      int     `json:"steps"`
	Seed       uint64  `json:"seed"`
}

// EstimateDTO 蒙特卡洛定价结果
type EstimateDTO struct {
	Price    float64 `json:"price"`
	Lower    float64 `json:"ci_lower"`
	Upper    float64 `json:"ci_upper"`
	StdError float64 `json:"std_error"`
	Paths    int     `json:"paths"`
}

// RiskQuery 单资产风险指标请求
type RiskQuery struct {
	S0           float64 `json:"s0"`
	Mu           float64 `json:"mu"`
	Volatility   float64 `json:"volatility"`
	Horizon      float64 `json:"horizon"`
	Paths        int     `json:"paths"`
	Steps        int     `json:"steps"`
	Confidence   float64 `json:"confidence"`
	InitialValue float64 `json:"initial_value"`
	Seed         uint64  `json:"seed"`
}

// RiskDTO 风险指标结果
type RiskDTO struct {
	ValueAtRisk    float64 `json:"value_at_risk"`
	ConditionalVaR float64 `json:"conditional_var"`
	WorstReturn    float64 `json:"worst_return"`
	BestReturn     float64 `json:"best_return"`
	Confidence     float64 `json:"confidence"`
	Paths          int     `json:"paths"`
}

// Service 模拟应用服务
type Service struct {
	cfg     config.SimulationConfig
	metrics *metrics.Metrics
}

func NewService(cfg config.SimulationConfig, m *metrics.Metrics) *Service {
	return &Service{cfg: cfg, metrics: m}
}

// GeneratePaths 生成 GBM 路径集合并汇总终端价格分布
// 回传的完整路径数有上限，统计量覆盖全部路径
func (s *Service) GeneratePaths(ctx context.Context, q GeneratePathsQuery) (*PathsDTO, error) {
	if q.S0 <= 0 {
		return nil, fmt.Errorf("s0 must be positive, got %v", q.S0)
	}
	if q.Volatility < 0 {
		return nil, fmt.Errorf("volatility must be non-negative, got %v", q.Volatility)
	}
	if q.Horizon <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %v", q.Horizon)
	}
	paths, steps, err := s.bounds(q.Paths, q.Steps)
	if err != nil {
		return nil, err
	}

	defer logger.LogDuration(ctx, "paths generated", "paths", paths, "steps", steps)()
	start := time.Now()

	rng := domain.NewRand(q.Seed, 1)
	sampled := make([][]float64, 0, min(paths, maxReturnedPaths))
	terminals := make([]float64, 0, paths)
	for i := 0; i < paths; i++ {
		if i%256 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		path := domain.GeneratePath(rng, q.S0, q.Mu, q.Volatility, q.Horizon, steps)
		terminals = append(terminals, path[len(path)-1])
		if len(sampled) < maxReturnedPaths {
			sampled = append(sampled, path)
		}
	}

	mean, err := stats.Mean(terminals)
	if err != nil {
		return nil, fmt.Errorf("terminal mean: %w", err)
	}
	stdev, err := stats.StandardDeviationSample(terminals)
	if err != nil {
		return nil, fmt.Errorf("terminal stdev: %w", err)
	}
	minTerminal, err := stats.Min(terminals)
	if err != nil {
		return nil, fmt.Errorf("terminal min: %w", err)
	}
	maxTerminal, err := stats.Max(terminals)
	if err != nil {
		return nil, fmt.Errorf("terminal max: %w", err)
	}

	s.countSimulation(paths, start)

	return &PathsDTO{
		Paths:         sampled,
		TerminalMean:  round4(mean),
		TerminalStdev: round4(stdev),
		TerminalMin:   round4(minTerminal),
		TerminalMax:   round4(maxTerminal),
	}, nil
}

// PriceOption 蒙特卡洛期权定价
func (s *Service) PriceOption(ctx context.Context, q PriceOptionQuery) (*EstimateDTO, error) {
	typ := pricingdomain.OptionType(q.Type)
	if !typ.Valid() {
		return nil, fmt.Errorf("invalid option type %q", q.Type)
	}
	if q.Spot <= 0 {
		return nil, fmt.Errorf("spot must be positive, got %v", q.Spot)
	}
	if q.Strike <= 0 {
		return nil, fmt.Errorf("strike must be positive, got %v", q.Strike)
	}
	if q.Maturity <= 0 {
		return nil, fmt.Errorf("maturity must be positive, got %v", q.Maturity)
	}
	if q.Volatility < 0 {
		return nil, fmt.Errorf("volatility must be non-negative, got %v", q.Volatility)
	}
	paths, steps, err := s.bounds(q.Paths, q.Steps)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	estimate, err := domain.PriceOption(ctx, domain.OptionInput{
		S0: q.Spot, K: q.Strike, R: q.Rate, Sigma: q.Volatility, T: q.Maturity,
		Type: typ, Paths: paths, Steps: steps,
		Seed: q.Seed, Workers: s.cfg.Workers,
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "monte carlo pricing done",
		"type", q.Type, "paths", paths, "price", estimate.Price, "duration", time.Since(start))

	s.countSimulation(paths, start)

	return &EstimateDTO{
		Price:    round4(estimate.Price),
		Lower:    round4(estimate.Lower),
		Upper:    round4(estimate.Upper),
		StdError: round4(estimate.StdError),
		Paths:    paths,
	}, nil
}

// RiskMetrics 基于模拟路径的收益分布计算 VaR / CVaR
func (s *Service) RiskMetrics(ctx context.Context, q RiskQuery) (*RiskDTO, error) {
	if q.S0 <= 0 {
		return nil, fmt.Errorf("s0 must be positive, got %v", q.S0)
	}
	if q.Volatility < 0 {
		return nil, fmt.Errorf("volatility must be non-negative, got %v", q.Volatility)
	}
	if q.Horizon <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %v", q.Horizon)
	}
	if q.Confidence <= 0 || q.Confidence >= 1 {
		return nil, fmt.Errorf("confidence must be in (0, 1), got %v", q.Confidence)
	}
	if q.InitialValue <= 0 {
		return nil, fmt.Errorf("initial_value must be positive, got %v", q.InitialValue)
	}
	paths, steps, err := s.bounds(q.Paths, q.Steps)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rng := domain.NewRand(q.Seed, 1)
	ensemble := make([][]float64, 0, paths)
	for i := 0; i < paths; i++ {
		if i%256 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		ensemble = append(ensemble, domain.GeneratePath(rng, q.S0, q.Mu, q.Volatility, q.Horizon, steps))
	}

	rm, err := domain.CalculateRiskMetrics(ensemble, q.Confidence, q.InitialValue)
	if err != nil {
		return nil, err
	}

	s.countSimulation(paths, start)

	return &RiskDTO{
		ValueAtRisk:    round4(rm.ValueAtRisk),
		ConditionalVaR: round4(rm.ConditionalVaR),
		WorstReturn:    round4(rm.WorstReturn),
		BestReturn:     round4(rm.BestReturn),
		Confidence:     q.Confidence,
		Paths:          paths,
	}, nil
}

// PortfolioRisk 多资产关联蒙特卡洛风险模拟
func (s *Service) PortfolioRisk(ctx context.Context, input domain.PortfolioRiskInput) (*domain.PortfolioRiskResult, error) {
	if input.Simulations <= 0 {
		input.Simulations = s.cfg.DefaultPaths
	}
	if input.Simulations > s.cfg.MaxPaths {
		return nil, fmt.Errorf("simulations %d exceeds limit %d", input.Simulations, s.cfg.MaxPaths)
	}

	start := time.Now()
	result, err := domain.SimulatePortfolioRisk(ctx, input)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "portfolio risk simulated",
		"assets", len(input.Assets), "simulations", input.Simulations, "var", result.VaR, "duration", time.Since(start))

	s.countSimulation(input.Simulations, start)

	result.TotalValue = round4(result.TotalValue)
	result.VaR = round4(result.VaR)
	result.ES = round4(result.ES)
	result.Diversification = round4(result.Diversification)
	return result, nil
}

// bounds 回填默认路径/步数并执行配额上限
func (s *Service) bounds(paths, steps int) (int, int, error) {
	if paths <= 0 {
		paths = s.cfg.DefaultPaths
	}
	if steps <= 0 {
		steps = s.cfg.DefaultSteps
	}
	if paths > s.cfg.MaxPaths {
		return 0, 0, fmt.Errorf("paths %d exceeds limit %d", paths, s.cfg.MaxPaths)
	}
	if steps > s.cfg.MaxSteps {
		return 0, 0, fmt.Errorf("steps %d exceeds limit %d", steps, s.cfg.MaxSteps)
	}
	return paths, steps, nil
}

func (s *Service) countSimulation(paths int, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.SimulationsTotal.Inc()
	s.metrics.SimulatedPathsTotal.Add(float64(paths))
	if !start.IsZero() {
		s.metrics.SimulationDuration.Observe(time.Since(start).Seconds())
	}
}

func round4(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(4).Float64()
	return f
}
