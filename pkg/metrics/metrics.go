// Package metrics 提供 Prometheus helper，包含 HTTP 与计算引擎的业务指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"net/http"
)

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 业务指标
	// 闭式定价调用计数
	PricingsTotal prometheus.Counter
	// 蒙特卡洛模拟调用计数
	SimulationsTotal prometheus.Counter
	// 已生成的模拟路径总数
	SimulatedPathsTotal prometheus.Counter
	// 蒙特卡洛模拟耗时
	SimulationDuration prometheus.Histogram
	// 组合优化调用计数
	OptimizationsTotal prometheus.Counter
	// 单次优化的迭代次数分布
	OptimizerIterations prometheus.Histogram
}

// New 创建并注册指标实例
func New(serviceName string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quantlab",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quantlab",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		PricingsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quantlab",
			Subsystem: serviceName,
			Name:      "pricings_total",
			Help:      "Total closed-form option pricings",
		}),
		SimulationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quantlab",
			Subsystem: serviceName,
			Name:      "simulations_total",
			Help:      "Total Monte Carlo simulation runs",
		}),
		SimulatedPathsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quantlab",
			Subsystem: serviceName,
			Name:      "simulated_paths_total",
			Help:      "Total simulated price paths",
		}),
		SimulationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quantlab",
			Subsystem: serviceName,
			Name:      "simulation_duration_seconds",
			Help:      "Monte Carlo simulation duration in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
		OptimizationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quantlab",
			Subsystem: serviceName,
			Name:      "optimizations_total",
			Help:      "Total portfolio optimization runs",
		}),
		OptimizerIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quantlab",
			Subsystem: serviceName,
			Name:      "optimizer_iterations",
			Help:      "Gradient descent iterations per optimization",
			Buckets:   []float64{10, 50, 100, 250, 500, 750, 1000},
		}),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.PricingsTotal,
		m.SimulationsTotal,
		m.SimulatedPathsTotal,
		m.SimulationDuration,
		m.OptimizationsTotal,
		m.OptimizerIterations,
	)

	return m
}

// Handler 返回 Prometheus 抓取端点的 http.Handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
