// Package domain 实现均值-方差组合优化器的领域模型
package domain

import "math"

// Metrics 给定权重下的组合指标
type Metrics struct {
	Return   float64 `json:"expected_return"`
	Variance float64 `json:"variance"`
	Risk     float64 `json:"risk"` // 标准差
}

// ComputeMetrics 计算组合的收益、方差与风险
// 方差为完整的 w'Σw 双重求和，包含协方差交叉项
// 前置条件：weights、returns 与 covariance 维度对齐，由调用方校验
func ComputeMetrics(weights, returns []float64, covariance [][]float64) Metrics {
	var ret float64
	for i, w := range weights {
		ret += w * returns[i]
	}

	var variance float64
	for i := range weights {
		for j := range weights {
			variance += weights[i] * weights[j] * covariance[i][j]
		}
	}

	return Metrics{
		Return:   ret,
		Variance: variance,
		Risk:     math.Sqrt(variance),
	}
}

// CovarianceFromVolatilities 由波动率向量与统一相关系数构造协方差矩阵
// 对角线为 sigma_i^2，非对角线为 sigma_i*sigma_j*rho
func CovarianceFromVolatilities(volatilities []float64, correlation float64) [][]float64 {
	n := len(volatilities)
	cov := make([][]float64, n)
	for i := range cov {
		cov[i] = make([]float64, n)
		for j := range cov[i] {
			if i == j {
				cov[i][j] = volatilities[i] * volatilities[i]
			} else {
				cov[i][j] = volatilities[i] * volatilities[j] * correlation
			}
		}
	}
	return cov
}
