// Package domain 实现几何布朗运动模拟引擎的领域模型
package domain

import (
	"math"
	"math/rand/v2"
)

// machineEps Box-Muller 第一次抽样的下界，避免对零取对数
const machineEps = 2.220446049250313e-16

// NormalVariate 使用 Box-Muller 变换从两个独立均匀分布抽样生成标准正态随机数
func NormalVariate(rng *rand.Rand) float64 {
	u1 := rng.Float64()
	for u1 <= machineEps {
		u1 = rng.Float64()
	}
	u2 := rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// GeneratePath 生成一条几何布朗运动价格路径
// 采用精确离散化 S(t+dt) = S(t) * exp((mu - 0.5*sigma^2)*dt + sigma*sqrt(dt)*Z)，
// 对数正态分布下无离散化偏差，步数再大也不引入 Euler 误差
// 返回长度为 steps+1 的新切片，首元素为 s0
func GeneratePath(rng *rand.Rand, s0, mu, sigma, horizon float64, steps int) []float64 {
	dt := horizon / float64(steps)
	drift := (mu - 0.5*sigma*sigma) * dt
	diffusion := sigma * math.Sqrt(dt)

	path := make([]float64, steps+1)
	path[0] = s0
	for i := 1; i <= steps; i++ {
		path[i] = path[i-1] * math.Exp(drift+diffusion*NormalVariate(rng))
	}
	return path
}

// TerminalPrice 只演化到期末价格，不保留中间路径
// 与 GeneratePath 同分布，用于只需要终值的蒙特卡洛聚合
func TerminalPrice(rng *rand.Rand, s0, mu, sigma, horizon float64, steps int) float64 {
	dt := horizon / float64(steps)
	drift := (mu - 0.5*sigma*sigma) * dt
	diffusion := sigma * math.Sqrt(dt)

	price := s0
	for i := 0; i < steps; i++ {
		price *= math.Exp(drift + diffusion*NormalVariate(rng))
	}
	return price
}

// NewRand 构造确定性随机源；seed 为 0 时退化为随机种子
func NewRand(seed, stream uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), stream))
	}
	return rand.New(rand.NewPCG(seed, stream))
}
