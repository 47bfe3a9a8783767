package domain

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	pricingdomain "github.com/wyfcoding/quantlab/internal/pricing/domain"
)

// ctxCheckInterval 路径循环中检查取消信号的间隔
const ctxCheckInterval = 256

// OptionInput 蒙特卡洛期权定价输入
// 定价在风险中性测度下进行，漂移率取无风险利率
type OptionInput struct {
	S0    float64                  // 标的当前价格
	K     float64                  // 执行价格
	R     float64                  // 无风险利率
	Sigma float64                  // 年化波动率
	T     float64                  // 到期时间 (年)
	Type  pricingdomain.OptionType // 期权类型
	Paths int                      // 模拟路径数
	Steps int                      // 每条路径的时间步数
	// Seed 随机种子，0 表示随机；Workers 并行度，0 表示 GOMAXPROCS
	Seed    uint64
	Workers int
}

// OptionEstimate 蒙特卡洛定价结果
// 置信区间采用正态近似 (1.96 倍标准误)，路径数远大于 30 时有效；
// 标准误已按贴现因子缩放，与价格估计同在价格单位
type OptionEstimate struct {
	Price    float64 `json:"price"`
	Lower    float64 `json:"ci_lower"`
	Upper    float64 `json:"ci_upper"`
	StdError float64 `json:"std_error"`
}

// partial 单个 worker 的聚合中间量
// 合并只依赖加法结合律，worker 完成顺序不影响结果
type partial struct {
	sum   float64
	sumSq float64
	n     int
}

// PriceOption 以贴现期望收益为估计量的蒙特卡洛欧式期权定价
// 路径相互独立，是天然的并行单元；按 worker 均分后在载荷聚合处合并
func PriceOption(ctx context.Context, in OptionInput) (*OptionEstimate, error) {
	if in.Paths <= 0 {
		return nil, fmt.Errorf("paths must be positive, got %d", in.Paths)
	}
	if in.Steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", in.Steps)
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("unknown option type %q", in.Type)
	}

	workers := in.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > in.Paths {
		workers = in.Paths
	}

	seed := in.Seed
	if seed == 0 {
		seed = NewRand(0, 0).Uint64()
	}

	partials := make([]partial, workers)
	perWorker := in.Paths / workers
	remainder := in.Paths % workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		count := perWorker
		if w < remainder {
			count++
		}
		g.Go(func() error {
			// 每个 worker 持有独立随机流，避免共享状态
			rng := NewRand(seed, uint64(w)+1)
			var p partial
			for i := 0; i < count; i++ {
				if i%ctxCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				terminal := TerminalPrice(rng, in.S0, in.R, in.Sigma, in.T, in.Steps)
				payoff := pricingdomain.Intrinsic(in.Type, terminal, in.K)
				p.sum += payoff
				p.sumSq += payoff * payoff
				p.n++
			}
			partials[w] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("simulation cancelled: %w", err)
	}

	var merged partial
	for _, p := range partials {
		merged.sum += p.sum
		merged.sumSq += p.sumSq
		merged.n += p.n
	}

	n := float64(merged.n)
	mean := merged.sum / n
	discount := math.Exp(-in.R * in.T)

	price := discount * mean

	var stdErr float64
	if merged.n > 1 {
		variance := (merged.sumSq - n*mean*mean) / (n - 1)
		if variance < 0 {
			variance = 0
		}
		stdErr = discount * math.Sqrt(variance/n)
	}

	return &OptionEstimate{
		Price:    math.Max(0, price),
		Lower:    price - 1.96*stdErr,
		Upper:    price + 1.96*stdErr,
		StdError: stdErr,
	}, nil
}
