package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	portfolioapp "github.com/wyfcoding/quantlab/internal/portfolio/application"
	portfoliohttp "github.com/wyfcoding/quantlab/internal/portfolio/interfaces/http"
	pricingapp "github.com/wyfcoding/quantlab/internal/pricing/application"
	pricinghttp "github.com/wyfcoding/quantlab/internal/pricing/interfaces/http"
	simulationapp "github.com/wyfcoding/quantlab/internal/simulation/application"
	simulationhttp "github.com/wyfcoding/quantlab/internal/simulation/interfaces/http"
	strategyapp "github.com/wyfcoding/quantlab/internal/strategy/application"
	strategyhttp "github.com/wyfcoding/quantlab/internal/strategy/interfaces/http"
	"github.com/wyfcoding/quantlab/pkg/config"
	"github.com/wyfcoding/quantlab/pkg/logger"
	"github.com/wyfcoding/quantlab/pkg/metrics"
	"github.com/wyfcoding/quantlab/pkg/middleware"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/quantlab/config.toml", "path to config file")
	flag.Parse()

	// 1. Config
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("load config failed: %v", err))
	}

	// 2. Logger
	if err := logger.Init(cfg.Logger); err != nil {
		panic(fmt.Sprintf("init logger failed: %v", err))
	}
	ctx := context.Background()
	logger.Info(ctx, "starting service",
		"service", cfg.ServiceName, "version", cfg.Version, "environment", cfg.Environment)

	// 3. Metrics
	m := metrics.New(cfg.ServiceName)

	// 4. Application
	pricingSvc := pricingapp.NewService(m)
	simulationSvc := simulationapp.NewService(cfg.Engine.Simulation, m)
	strategySvc := strategyapp.NewService()
	portfolioSvc := portfolioapp.NewService(cfg.Engine.Optimizer, m)

	// 5. Interfaces
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.GinRecovery(), middleware.GinLogging(), middleware.GinCORS(), middleware.GinMetrics(m))

	root := r.Group("")
	pricinghttp.NewPricingHandler(pricingSvc).RegisterRoutes(root)
	simulationhttp.NewSimulationHandler(simulationSvc).RegisterRoutes(root)
	strategyhttp.NewStrategyHandler(strategySvc).RegisterRoutes(root)
	portfoliohttp.NewPortfolioHandler(portfolioSvc, func() ([]string, []float64, []float64) {
		return strategySvc.Profiles(ctx)
	}).RegisterRoutes(root)

	sys := r.Group("/sys")
	{
		sys.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		sys.GET("/ready", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "READY"}) })
	}
	pp := r.Group("/debug/pprof")
	{
		pp.GET("/", gin.WrapF(pprof.Index))
		pp.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pp.GET("/profile", gin.WrapF(pprof.Profile))
		pp.GET("/symbol", gin.WrapF(pprof.Symbol))
		pp.GET("/trace", gin.WrapF(pprof.Trace))
	}

	// 6. Start
	g, gctx := errgroup.WithContext(ctx)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}
	g.Go(func() error {
		logger.Info(ctx, "HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, m.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		g.Go(func() error {
			logger.Info(ctx, "metrics server starting", "addr", metricsServer.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
	}

	// 7. Graceful Shutdown
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			logger.Info(ctx, "shutting down servers")
		case <-gctx.Done():
			logger.Info(ctx, "context cancelled, shutting down")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "HTTP server shutdown failed", "error", err)
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error(ctx, "metrics server shutdown failed", "error", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "server exited with error", "error", err)
		os.Exit(1)
	}
}
