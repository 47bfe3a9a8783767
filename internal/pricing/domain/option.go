// Package domain 实现欧式期权闭式定价引擎的领域模型
package domain

// OptionType 期权类型
type OptionType string

const (
	OptionTypeCall OptionType = "CALL" // 看涨期权
	OptionTypePut  OptionType = "PUT"  // 看跌期权
)

// Valid 判断期权类型是否合法
func (t OptionType) Valid() bool {
	return t == OptionTypeCall || t == OptionTypePut
}

// OptionParams 欧式期权定价输入
// 前置条件：S > 0 且 K > 0，由调用方校验，领域层不做防御
type OptionParams struct {
	S float64 // 标的资产价格
	K float64 // 执行价格
	T float64 // 到期时间 (年)
	R float64 // 无风险利率
	V float64 // 年化波动率
}

// Result 定价结果
// Vega 与 Rho 表示对应参数变动 1% 的影响，Theta 为每日时间衰减
type Result struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

// Intrinsic 返回到期时的内在价值
func Intrinsic(typ OptionType, spot, strike float64) float64 {
	if typ == OptionTypeCall {
		return max(0, spot-strike)
	}
	return max(0, strike-spot)
}
