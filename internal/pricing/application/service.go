// Package application 定价上下文的应用服务：参数校验、指标上报与展示精度处理
package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/quantlab/internal/pricing/domain"
	"github.com/wyfcoding/quantlab/pkg/logger"
	"github.com/wyfcoding/quantlab/pkg/metrics"
)

// PriceOptionQuery 期权定价请求
type PriceOptionQuery struct {
	Type       string  `json:"type"`
	Spot       float64 `json:"spot"`
	Strike     float64 `json:"strike"`
	Maturity   float64 `json:"maturity"`
	Rate       float64 `json:"rate"`
	Volatility float64 `json:"volatility"`
}

// PriceDTO 定价结果，数值按展示精度保留 4 位小数
type PriceDTO struct {
	Type  string  `json:"type"`
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

// Service 定价应用服务
type Service struct {
	metrics *metrics.Metrics
}

func NewService(m *metrics.Metrics) *Service {
	return &Service{metrics: m}
}

// PriceOption 校验参数并调用闭式定价引擎
func (s *Service) PriceOption(ctx context.Context, q PriceOptionQuery) (*PriceDTO, error) {
	typ := domain.OptionType(q.Type)
	if !typ.Valid() {
		return nil, fmt.Errorf("invalid option type %q", q.Type)
	}
	if q.Spot <= 0 {
		return nil, fmt.Errorf("spot must be positive, got %v", q.Spot)
	}
	if q.Strike <= 0 {
		return nil, fmt.Errorf("strike must be positive, got %v", q.Strike)
	}
	if q.Volatility < 0 {
		return nil, fmt.Errorf("volatility must be non-negative, got %v", q.Volatility)
	}

	defer logger.LogDuration(ctx, "option priced", "type", q.Type, "spot", q.Spot, "strike", q.Strike)()

	result := domain.Price(typ, domain.OptionParams{
		S: q.Spot, K: q.Strike, T: q.Maturity, R: q.Rate, V: q.Volatility,
	})

	if s.metrics != nil {
		s.metrics.PricingsTotal.Inc()
	}

	return &PriceDTO{
		Type:  q.Type,
		Price: round4(result.Price),
		Delta: round4(result.Delta),
		Gamma: round4(result.Gamma),
		Vega:  round4(result.Vega),
		Theta: round4(result.Theta),
		Rho:   round4(result.Rho),
	}, nil
}

// round4 展示层统一保留 4 位小数
func round4(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(4).Float64()
	return f
}
