package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/quantlab/internal/simulation/application"
	"github.com/wyfcoding/quantlab/internal/simulation/domain"
	"github.com/wyfcoding/quantlab/pkg/logger"
	"github.com/wyfcoding/quantlab/pkg/response"
)

// SimulationHandler 模拟 HTTP 处理器
type SimulationHandler struct {
	svc *application.Service
}

func NewSimulationHandler(svc *application.Service) *SimulationHandler {
	return &SimulationHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *SimulationHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/simulation")
	{
		api.POST("/paths", h.GeneratePaths)
		api.POST("/option", h.PriceOption)
		api.POST("/risk", h.RiskMetrics)
		api.POST("/portfolio", h.PortfolioRisk)
	}
}

// PathsRequest 路径生成请求；Paths/Steps 为 0 时使用服务端默认值
type PathsRequest struct {
	S0         float64 `json:"s0" binding:"required,gt=0"`
	Mu         float64 `json:"mu"`
	Volatility float64 `json:"volatility" binding:"gte=0"`
	Horizon    float64 `json:"horizon" binding:"required,gt=0"`
	Paths      int     `json:"paths" binding:"gte=0"`
	Steps      int     `json:"steps" binding:"gte=0"`
	Seed       uint64  `json:"seed"`
}

// GeneratePaths 生成 GBM 路径样本与终端价格统计
func (h *SimulationHandler) GeneratePaths(c *gin.Context) {
	var req PathsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.GeneratePaths(c.Request.Context(), application.GeneratePathsQuery{
		S0: req.S0, Mu: req.Mu, Volatility: req.Volatility, Horizon: req.Horizon,
		Paths: req.Paths, Steps: req.Steps, Seed: req.Seed,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "path generation failed", "error", err)
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	response.Success(c, dto)
}

// MonteCarloPriceRequest 蒙特卡洛定价请求
type MonteCarloPriceRequest struct {
	Type       string  `json:"type" binding:"required"`
	Spot       float64 `json:"spot" binding:"required,gt=0"`
	Strike     float64 `json:"strike" binding:"required,gt=0"`
	Maturity   float64 `json:"maturity" binding:"required,gt=0"`
	Rate       float64 `json:"rate"`
	Volatility float64 `json:"volatility" binding:"gte=0"`
	Paths      int     `json:"paths" binding:"gte=0"`
	Steps      int     `json:"steps" binding:"gte=0"`
	Seed       uint64  `json:"seed"`
}

// PriceOption 蒙特卡洛期权定价
func (h *SimulationHandler) PriceOption(c *gin.Context) {
	var req MonteCarloPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.PriceOption(c.Request.Context(), application.PriceOptionQuery{
		Type: req.Type, Spot: req.Spot, Strike: req.Strike,
		Maturity: req.Maturity, Rate: req.Rate, Volatility: req.Volatility,
		Paths: req.Paths, Steps: req.Steps, Seed: req.Seed,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "monte carlo pricing failed", "error", err)
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	response.Success(c, dto)
}

// RiskRequest 单资产风险指标请求
type RiskRequest struct {
	S0           float64 `json:"s0" binding:"required,gt=0"`
	Mu           float64 `json:"mu"`
	Volatility   float64 `json:"volatility" binding:"gte=0"`
	Horizon      float64 `json:"horizon" binding:"required,gt=0"`
	Paths        int     `json:"paths" binding:"gte=0"`
	Steps        int     `json:"steps" binding:"gte=0"`
	Confidence   float64 `json:"confidence" binding:"required,gt=0,lt=1"`
	InitialValue float64 `json:"initial_value" binding:"required,gt=0"`
	Seed         uint64  `json:"seed"`
}

// RiskMetrics 基于模拟的 VaR / CVaR
func (h *SimulationHandler) RiskMetrics(c *gin.Context) {
	var req RiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.RiskMetrics(c.Request.Context(), application.RiskQuery{
		S0: req.S0, Mu: req.Mu, Volatility: req.Volatility, Horizon: req.Horizon,
		Paths: req.Paths, Steps: req.Steps,
		Confidence: req.Confidence, InitialValue: req.InitialValue, Seed: req.Seed,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "risk metrics failed", "error", err)
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	response.Success(c, dto)
}

// PortfolioRiskRequest 多资产组合风险模拟请求
type PortfolioRiskRequest struct {
	Assets []struct {
		Symbol         string  `json:"symbol" binding:"required"`
		Value          float64 `json:"value" binding:"required,gt=0"`
		Volatility     float64 `json:"volatility" binding:"gte=0"`
		ExpectedReturn float64 `json:"expected_return"`
	} `json:"assets" binding:"required,min=1"`
	Correlation [][]float64 `json:"correlation" binding:"required"`
	Horizon     float64     `json:"horizon" binding:"required,gt=0"`
	Simulations int         `json:"simulations" binding:"gte=0"`
	Confidence  float64     `json:"confidence" binding:"required,gt=0,lt=1"`
	Seed        uint64      `json:"seed"`
}

// PortfolioRisk 多资产关联蒙特卡洛风险模拟
func (h *SimulationHandler) PortfolioRisk(c *gin.Context) {
	var req PortfolioRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	input := domain.PortfolioRiskInput{
		Correlation: req.Correlation,
		Horizon:     req.Horizon,
		Simulations: req.Simulations,
		Confidence:  req.Confidence,
		Seed:        req.Seed,
	}
	for _, a := range req.Assets {
		input.Assets = append(input.Assets, domain.PortfolioAsset{
			Symbol:         a.Symbol,
			Value:          a.Value,
			Volatility:     a.Volatility,
			ExpectedReturn: a.ExpectedReturn,
		})
	}

	result, err := h.svc.PortfolioRisk(c.Request.Context(), input)
	if err != nil {
		logger.Error(c.Request.Context(), "portfolio risk simulation failed", "error", err)
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	response.Success(c, result)
}
