package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/quantlab/internal/portfolio/application"
	"github.com/wyfcoding/quantlab/pkg/logger"
	"github.com/wyfcoding/quantlab/pkg/response"
)

// PortfolioHandler 组合 HTTP 处理器
type PortfolioHandler struct {
	svc      *application.Service
	profiles func() (names []string, returns, volatilities []float64)
}

// NewPortfolioHandler 创建处理器；profiles 为策略目录档案的提供函数，可为 nil
func NewPortfolioHandler(svc *application.Service, profiles func() (names []string, returns, volatilities []float64)) *PortfolioHandler {
	return &PortfolioHandler{svc: svc, profiles: profiles}
}

// RegisterRoutes 注册路由
func (h *PortfolioHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/portfolio")
	{
		api.POST("/metrics", h.Metrics)
		api.POST("/optimize", h.Optimize)
		api.POST("/frontier", h.Frontier)
	}
}

// MetricsRequest 组合指标请求
type MetricsRequest struct {
	Weights      []float64 `json:"weights" binding:"required,min=1"`
	Returns      []float64 `json:"returns" binding:"required,min=1"`
	Volatilities []float64 `json:"volatilities" binding:"required,min=1"`
	Correlation  float64   `json:"correlation" binding:"gte=-1,lte=1"`
}

// Metrics 按给定权重计算组合指标
func (h *PortfolioHandler) Metrics(c *gin.Context) {
	var req MetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.Metrics(c.Request.Context(), application.MetricsQuery{
		Weights:      req.Weights,
		Returns:      req.Returns,
		Volatilities: req.Volatilities,
		Correlation:  req.Correlation,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "portfolio metrics failed", "error", err)
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	response.Success(c, dto)
}

// OptimizeRequest 组合优化请求
type OptimizeRequest struct {
	Returns      []float64 `json:"returns" binding:"required,min=1"`
	Volatilities []float64 `json:"volatilities" binding:"required,min=1"`
	Correlation  float64   `json:"correlation" binding:"gte=-1,lte=1"`
	TargetReturn float64   `json:"target_return"`
}

// Optimize 求解目标收益下的最小方差组合
func (h *PortfolioHandler) Optimize(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.Optimize(c.Request.Context(), application.OptimizeQuery{
		Returns:      req.Returns,
		Volatilities: req.Volatilities,
		Correlation:  req.Correlation,
		TargetReturn: req.TargetReturn,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "portfolio optimization failed", "error", err)
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	response.Success(c, dto)
}

// FrontierRequest 有效前沿请求
// Returns/Volatilities 为空且 UseStrategyProfiles 为 true 时，
// 使用内建策略目录假定的收益与波动率
type FrontierRequest struct {
	Returns             []float64 `json:"returns"`
	Volatilities        []float64 `json:"volatilities"`
	Correlation         float64   `json:"correlation" binding:"gte=-1,lte=1"`
	RiskFreeRate        float64   `json:"risk_free_rate"`
	Points              int       `json:"points" binding:"required,gte=2"`
	UseStrategyProfiles bool      `json:"use_strategy_profiles"`
}

// Frontier 采样有效前沿
func (h *PortfolioHandler) Frontier(c *gin.Context) {
	var req FrontierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	var names []string
	if req.UseStrategyProfiles && len(req.Returns) == 0 {
		if h.profiles == nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "strategy profiles are not available", "")
			return
		}
		names, req.Returns, req.Volatilities = h.profiles()
	}

	frontier, err := h.svc.Frontier(c.Request.Context(), application.FrontierQuery{
		Returns:      req.Returns,
		Volatilities: req.Volatilities,
		Correlation:  req.Correlation,
		RiskFreeRate: req.RiskFreeRate,
		Points:       req.Points,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "efficient frontier failed", "error", err)
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	if names != nil {
		response.Success(c, gin.H{"assets": names, "frontier": frontier})
		return
	}
	response.Success(c, gin.H{"frontier": frontier})
}
