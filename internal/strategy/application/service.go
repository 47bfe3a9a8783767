// Package application 策略上下文的应用服务：目录查询与损益曲线构建
package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/quantlab/internal/strategy/domain"
	"github.com/wyfcoding/quantlab/pkg/logger"
)

// CatalogEntryDTO 目录中的一条策略
type CatalogEntryDTO struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Horizon           float64 `json:"horizon"`
	ProfileReturn     float64 `json:"profile_return"`
	ProfileVolatility float64 `json:"profile_volatility"`
}

// PayoffQuery 损益曲线请求
type PayoffQuery struct {
	Strategy string  `json:"strategy"`
	Spot     float64 `json:"spot"`
}

// Service 策略应用服务
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Catalog 返回内建策略目录
func (s *Service) Catalog(ctx context.Context) []CatalogEntryDTO {
	defs := domain.Catalog()
	out := make([]CatalogEntryDTO, 0, len(defs))
	for _, def := range defs {
		out = append(out, CatalogEntryDTO{
			ID:                def.ID,
			Name:              def.Name,
			Horizon:           def.Horizon,
			ProfileReturn:     def.ProfileReturn,
			ProfileVolatility: def.ProfileVolatility,
		})
	}
	return out
}

// Payoff 构建指定策略在当前现价下的到期损益曲线
func (s *Service) Payoff(ctx context.Context, q PayoffQuery) (*domain.PayoffCurve, error) {
	if q.Spot <= 0 {
		return nil, fmt.Errorf("spot must be positive, got %v", q.Spot)
	}

	def, err := domain.Get(q.Strategy)
	if err != nil {
		return nil, err
	}

	curve, err := def.BuildPayoffCurve(q.Spot)
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "payoff curve built", "strategy", q.Strategy, "spot", q.Spot)

	curve.NetPremium = round4(curve.NetPremium)
	curve.MaxProfit = round4(curve.MaxProfit)
	curve.MaxLoss = round4(curve.MaxLoss)
	for i := range curve.Points {
		curve.Points[i].Price = round4(curve.Points[i].Price)
		curve.Points[i].Profit = round4(curve.Points[i].Profit)
	}
	for i := range curve.Legs {
		curve.Legs[i].Premium = round4(curve.Legs[i].Premium)
	}
	return curve, nil
}

// Profiles 返回目录假定的收益与波动率向量，供组合优化使用
func (s *Service) Profiles(ctx context.Context) (names []string, returns, volatilities []float64) {
	return domain.Profiles()
}

func round4(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(4).Float64()
	return f
}
