// Package domain 实现期权策略目录与到期损益曲线
package domain

import (
	"fmt"

	pricingdomain "github.com/wyfcoding/quantlab/internal/pricing/domain"
)

// 策略构建的固定市场假设
const (
	AssumedVolatility = 0.20
	AssumedRate       = 0.05
	HorizonShort      = 1.0 / 12 // 一个月
	HorizonLong       = 2.0      // 两年
	StrikeOffset      = 0.10     // 虚值执行价偏移 ±10%
)

// LegType 策略腿类型
type LegType string

const (
	LegCall  LegType = "CALL"
	LegPut   LegType = "PUT"
	LegStock LegType = "STOCK"
)

// Leg 策略的一条腿
// Side 为 +1 (多头) 或 -1 (空头)；期权腿的 Premium 为建仓时的理论价格
type Leg struct {
	Type    LegType `json:"type"`
	Side    float64 `json:"side"`
	Strike  float64 `json:"strike,omitempty"`
	Premium float64 `json:"premium"`
}

// Definition 策略定义
// Profile 字段是前端组合优化视图假定的 (收益, 波动率)，与定价假设一致为常量
type Definition struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Horizon float64 `json:"horizon"`
	// 组合优化假定的年化收益与波动率
	ProfileReturn     float64 `json:"profile_return"`
	ProfileVolatility float64 `json:"profile_volatility"`

	build func(spot float64) []Leg
}

// catalog 内建策略目录，顺序即展示顺序
var catalog = []Definition{
	{
		ID: "long-call", Name: "Long Call", Horizon: HorizonShort,
		ProfileReturn: 0.15, ProfileVolatility: 0.45,
		build: func(spot float64) []Leg {
			return []Leg{optionLeg(LegCall, 1, spot, spot, HorizonShort)}
		},
	},
	{
		ID: "long-put", Name: "Long Put", Horizon: HorizonShort,
		ProfileReturn: 0.08, ProfileVolatility: 0.40,
		build: func(spot float64) []Leg {
			return []Leg{optionLeg(LegPut, 1, spot, spot, HorizonShort)}
		},
	},
	{
		ID: "covered-call", Name: "Covered Call", Horizon: HorizonShort,
		ProfileReturn: 0.09, ProfileVolatility: 0.12,
		build: func(spot float64) []Leg {
			return []Leg{
				{Type: LegStock, Side: 1, Premium: spot},
				optionLeg(LegCall, -1, spot, spot*(1+StrikeOffset), HorizonShort),
			}
		},
	},
	{
		ID: "protective-put", Name: "Protective Put", Horizon: HorizonShort,
		ProfileReturn: 0.07, ProfileVolatility: 0.10,
		build: func(spot float64) []Leg {
			return []Leg{
				{Type: LegStock, Side: 1, Premium: spot},
				optionLeg(LegPut, 1, spot, spot*(1-StrikeOffset), HorizonShort),
			}
		},
	},
	{
		ID: "straddle", Name: "Long Straddle", Horizon: HorizonShort,
		ProfileReturn: 0.12, ProfileVolatility: 0.35,
		build: func(spot float64) []Leg {
			return []Leg{
				optionLeg(LegCall, 1, spot, spot, HorizonShort),
				optionLeg(LegPut, 1, spot, spot, HorizonShort),
			}
		},
	},
	{
		ID: "bull-call-spread", Name: "Bull Call Spread", Horizon: HorizonLong,
		ProfileReturn: 0.10, ProfileVolatility: 0.25,
		build: func(spot float64) []Leg {
			return []Leg{
				optionLeg(LegCall, 1, spot, spot, HorizonLong),
				optionLeg(LegCall, -1, spot, spot*(1+StrikeOffset), HorizonLong),
			}
		},
	},
}

// optionLeg 用闭式定价引擎给期权腿定价
func optionLeg(typ LegType, side, spot, strike, horizon float64) Leg {
	optType := pricingdomain.OptionTypeCall
	if typ == LegPut {
		optType = pricingdomain.OptionTypePut
	}
	premium := pricingdomain.Price(optType, pricingdomain.OptionParams{
		S: spot, K: strike, T: horizon, R: AssumedRate, V: AssumedVolatility,
	}).Price

	return Leg{Type: typ, Side: side, Strike: strike, Premium: premium}
}

// Catalog 返回策略目录的副本
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Get 按 ID 查找策略
func Get(id string) (Definition, error) {
	for _, def := range catalog {
		if def.ID == id {
			return def, nil
		}
	}
	return Definition{}, fmt.Errorf("unknown strategy %q", id)
}

// Profiles 返回目录中各策略假定的收益与波动率向量，作为前沿优化的输入
func Profiles() (names []string, returns, volatilities []float64) {
	for _, def := range catalog {
		names = append(names, def.ID)
		returns = append(returns, def.ProfileReturn)
		volatilities = append(volatilities, def.ProfileVolatility)
	}
	return names, returns, volatilities
}
