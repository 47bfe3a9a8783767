package domain

import (
	"fmt"
	"math"
)

// 损益曲线价格网格：从 0.5 倍现价起步，步长 0.02 倍现价，共 100 个点
// 覆盖区间为 [0.5x, 2.48x]
const (
	gridPoints = 100
	gridStart  = 0.5
	gridStep   = 0.02
)

// PayoffPoint 网格上一个点的到期损益
type PayoffPoint struct {
	Price  float64 `json:"price"`
	Profit float64 `json:"profit"`
}

// PayoffCurve 策略的到期损益曲线
type PayoffCurve struct {
	Strategy   string        `json:"strategy"`
	Spot       float64       `json:"spot"`
	Legs       []Leg         `json:"legs"`
	NetPremium float64       `json:"net_premium"` // 期权腿净权利金支出，正数为净买入
	MaxProfit  float64       `json:"max_profit"`  // 网格范围内的极值
	MaxLoss    float64       `json:"max_loss"`
	Points     []PayoffPoint `json:"points"`
}

// BuildPayoffCurve 在标准价格网格上计算策略的到期损益
// 前置条件：spot > 0，由调用方校验
func (d Definition) BuildPayoffCurve(spot float64) (*PayoffCurve, error) {
	if d.build == nil {
		return nil, fmt.Errorf("strategy %q has no leg builder", d.ID)
	}
	legs := d.build(spot)

	var netPremium float64
	for _, leg := range legs {
		if leg.Type != LegStock {
			netPremium += leg.Side * leg.Premium
		}
	}

	points := make([]PayoffPoint, 0, gridPoints)
	maxProfit := math.Inf(-1)
	maxLoss := math.Inf(1)
	for i := 0; i < gridPoints; i++ {
		price := spot * (gridStart + gridStep*float64(i))
		profit := profitAt(legs, spot, price)

		points = append(points, PayoffPoint{Price: price, Profit: profit})
		maxProfit = math.Max(maxProfit, profit)
		maxLoss = math.Min(maxLoss, profit)
	}

	return &PayoffCurve{
		Strategy:   d.ID,
		Spot:       spot,
		Legs:       legs,
		NetPremium: netPremium,
		MaxProfit:  maxProfit,
		MaxLoss:    maxLoss,
		Points:     points,
	}, nil
}

// profitAt 标的到期价为 price 时的策略总损益
func profitAt(legs []Leg, spot, price float64) float64 {
	var profit float64
	for _, leg := range legs {
		switch leg.Type {
		case LegCall:
			profit += leg.Side * (math.Max(0, price-leg.Strike) - leg.Premium)
		case LegPut:
			profit += leg.Side * (math.Max(0, leg.Strike-price) - leg.Premium)
		case LegStock:
			profit += leg.Side * (price - spot)
		}
	}
	return profit
}
