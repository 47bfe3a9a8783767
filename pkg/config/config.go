// Package config 提供 TOML 配置加载、环境变量覆盖与 schema 校验
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/wyfcoding/quantlab/pkg/logger"
)

// Config 服务配置
type Config struct {
	// 服务名称
	ServiceName string `mapstructure:"service_name"`
	// 服务版本
	Version string `mapstructure:"version"`
	// 环境：dev, staging, prod
	Environment string `mapstructure:"environment"`
	// HTTP 服务配置
	HTTP HTTPConfig `mapstructure:"http"`
	// 日志配置
	Logger logger.Config `mapstructure:"logger"`
	// 指标配置
	Metrics MetricsConfig `mapstructure:"metrics"`
	// 计算引擎配置
	Engine EngineConfig `mapstructure:"engine"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	// 监听地址
	Host string `mapstructure:"host"`
	// 监听端口
	Port int `mapstructure:"port"`
	// 读超时（秒）
	ReadTimeout int `mapstructure:"read_timeout"`
	// 写超时（秒）
	WriteTimeout int `mapstructure:"write_timeout"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	// 是否启用
	Enabled bool `mapstructure:"enabled"`
	// Prometheus 监听端口
	Port int `mapstructure:"port"`
	// 指标路径
	Path string `mapstructure:"path"`
}

// EngineConfig 计算引擎配置
type EngineConfig struct {
	// 蒙特卡洛模拟配置
	Simulation SimulationConfig `mapstructure:"simulation"`
	// 组合优化器配置
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
}

// SimulationConfig 蒙特卡洛模拟配置
type SimulationConfig struct {
	// 默认模拟路径数
	DefaultPaths int `mapstructure:"default_paths"`
	// 默认时间步数
	DefaultSteps int `mapstructure:"default_steps"`
	// 单次请求最大路径数
	MaxPaths int `mapstructure:"max_paths"`
	// 单次请求最大步数
	MaxSteps int `mapstructure:"max_steps"`
	// 并行 worker 数，0 表示使用 GOMAXPROCS
	Workers int `mapstructure:"workers"`
}

// OptimizerConfig 组合优化器配置
// 学习率与容差是启发式常量，通过配置暴露而非硬编码
type OptimizerConfig struct {
	// 梯度下降学习率
	LearningRate float64 `mapstructure:"learning_rate"`
	// 最大迭代次数
	MaxIterations int `mapstructure:"max_iterations"`
	// 目标收益早停容差
	Tolerance float64 `mapstructure:"tolerance"`
}

// Load 从 TOML 文件加载配置，缺省值兜底，支持 APP_ 前缀环境变量覆盖
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// 配置文件不存在时退回默认值
	_ = v.ReadInConfig()

	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	if c.Environment == "" {
		c.Environment = "dev"
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port)
	}
	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return fmt.Errorf("invalid metrics port: %d", c.Metrics.Port)
	}
	if c.Engine.Simulation.MaxPaths < c.Engine.Simulation.DefaultPaths {
		return fmt.Errorf("simulation max_paths %d below default_paths %d",
			c.Engine.Simulation.MaxPaths, c.Engine.Simulation.DefaultPaths)
	}
	if c.Engine.Optimizer.LearningRate <= 0 {
		return fmt.Errorf("optimizer learning_rate must be positive")
	}
	if c.Engine.Optimizer.MaxIterations <= 0 {
		return fmt.Errorf("optimizer max_iterations must be positive")
	}
	if c.Engine.Optimizer.Tolerance <= 0 {
		return fmt.Errorf("optimizer tolerance must be positive")
	}
	return nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "quantlab")
	v.SetDefault("version", "0.1.0")
	v.SetDefault("environment", "dev")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 30)
	v.SetDefault("http.write_timeout", 30)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/quantlab.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("engine.simulation.default_paths", 10000)
	v.SetDefault("engine.simulation.default_steps", 252)
	v.SetDefault("engine.simulation.max_paths", 200000)
	v.SetDefault("engine.simulation.max_steps", 2520)
	v.SetDefault("engine.simulation.workers", 0)

	v.SetDefault("engine.optimizer.learning_rate", 0.01)
	v.SetDefault("engine.optimizer.max_iterations", 1000)
	v.SetDefault("engine.optimizer.tolerance", 1e-4)
}
