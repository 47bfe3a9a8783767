package domain

import "math"

// Price 计算 Black-Scholes-Merton 欧式期权价格和 Greeks
// T <= 0 与 V <= 0 是定义良好的退化分支而非错误：
// 到期视为内在价值与二元 Delta，零波动率视为确定性远期的贴现内在价值
func Price(typ OptionType, in OptionParams) Result {
	if in.T <= 0 {
		return expired(typ, in)
	}
	if in.V <= 0 {
		return deterministic(typ, in)
	}

	sqrtT := math.Sqrt(in.T)
	d1 := (math.Log(in.S/in.K) + (in.R+0.5*in.V*in.V)*in.T) / (in.V * sqrtT)
	d2 := d1 - in.V*sqrtT

	discount := math.Exp(-in.R * in.T)
	pdfD1 := NormPDF(d1)

	// Gamma 与 Vega 在看涨/看跌间共享
	gamma := pdfD1 / (in.S * in.V * sqrtT)
	vega := in.S * sqrtT * pdfD1 / 100

	// Theta 第一项为波动率衰减，第二项为贴现利息；除以 365 表示每日衰减
	term1 := -(in.S * in.V * pdfD1) / (2 * sqrtT)
	term2 := in.R * in.K * discount

	var price, delta, theta, rho float64
	if typ == OptionTypeCall {
		price = in.S*NormCDF(d1) - in.K*discount*NormCDF(d2)
		delta = NormCDF(d1)
		theta = (term1 - term2*NormCDF(d2)) / 365
		rho = in.K * in.T * discount * NormCDF(d2) / 100
	} else {
		price = in.K*discount*NormCDF(-d2) - in.S*NormCDF(-d1)
		delta = -NormCDF(-d1)
		theta = (term1 + term2*NormCDF(-d2)) / 365
		rho = -in.K * in.T * discount * NormCDF(-d2) / 100
	}

	// 数值误差兜底：价格不为负
	return Result{
		Price: max(0, price),
		Delta: delta,
		Gamma: gamma,
		Vega:  vega,
		Theta: theta,
		Rho:   rho,
	}
}

// expired 已到期期权：内在价值与二元 Delta
func expired(typ OptionType, in OptionParams) Result {
	res := Result{Price: Intrinsic(typ, in.S, in.K)}
	if typ == OptionTypeCall && in.S > in.K {
		res.Delta = 1
	}
	if typ == OptionTypePut && in.S < in.K {
		res.Delta = -1
	}
	return res
}

// deterministic 零波动率：标的演化为确定性远期，期权价值为贴现内在价值
// Delta/Theta/Rho 取闭式公式在 v -> 0 时的极限，Gamma/Vega 为零
func deterministic(typ OptionType, in OptionParams) Result {
	discount := math.Exp(-in.R * in.T)
	discountedStrike := in.K * discount

	var res Result
	if typ == OptionTypeCall {
		res.Price = max(0, in.S-discountedStrike)
		if in.S > discountedStrike {
			res.Delta = 1
			res.Theta = -in.R * discountedStrike / 365
			res.Rho = in.K * in.T * discount / 100
		}
	} else {
		res.Price = max(0, discountedStrike-in.S)
		if in.S < discountedStrike {
			res.Delta = -1
			res.Theta = in.R * discountedStrike / 365
			res.Rho = -in.K * in.T * discount / 100
		}
	}
	return res
}
