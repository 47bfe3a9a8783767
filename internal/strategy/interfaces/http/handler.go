package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/quantlab/internal/strategy/application"
	"github.com/wyfcoding/quantlab/pkg/logger"
	"github.com/wyfcoding/quantlab/pkg/response"
)

// StrategyHandler 策略 HTTP 处理器
type StrategyHandler struct {
	svc *application.Service
}

func NewStrategyHandler(svc *application.Service) *StrategyHandler {
	return &StrategyHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *StrategyHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/strategy")
	{
		api.GET("/catalog", h.Catalog)
		api.POST("/payoff", h.Payoff)
	}
}

// Catalog 返回内建策略目录
func (h *StrategyHandler) Catalog(c *gin.Context) {
	response.Success(c, h.svc.Catalog(c.Request.Context()))
}

// PayoffRequest 损益曲线请求
type PayoffRequest struct {
	Strategy string  `json:"strategy" binding:"required"`
	Spot     float64 `json:"spot" binding:"required,gt=0"`
}

// Payoff 构建策略的到期损益曲线
func (h *StrategyHandler) Payoff(c *gin.Context) {
	var req PayoffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	curve, err := h.svc.Payoff(c.Request.Context(), application.PayoffQuery{
		Strategy: req.Strategy,
		Spot:     req.Spot,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "payoff curve failed", "error", err)
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	response.Success(c, curve)
}
