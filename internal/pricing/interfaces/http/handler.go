package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/quantlab/internal/pricing/application"
	"github.com/wyfcoding/quantlab/pkg/logger"
	"github.com/wyfcoding/quantlab/pkg/response"
)

// PricingHandler 定价 HTTP 处理器
type PricingHandler struct {
	svc *application.Service
}

func NewPricingHandler(svc *application.Service) *PricingHandler {
	return &PricingHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *PricingHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/pricing")
	{
		api.POST("/option", h.PriceOption)
	}
}

// PriceRequest 定价请求
// Maturity 与 Volatility 允许为 0，退化输入由定价引擎按极限处理
type PriceRequest struct {
	Type       string  `json:"type" binding:"required"`
	Spot       float64 `json:"spot" binding:"required,gt=0"`
	Strike     float64 `json:"strike" binding:"required,gt=0"`
	Maturity   float64 `json:"maturity" binding:"gte=0"`
	Rate       float64 `json:"rate"`
	Volatility float64 `json:"volatility" binding:"gte=0"`
}

// PriceOption 计算期权价格与希腊字母
func (h *PricingHandler) PriceOption(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	dto, err := h.svc.PriceOption(c.Request.Context(), application.PriceOptionQuery{
		Type:       req.Type,
		Spot:       req.Spot,
		Strike:     req.Strike,
		Maturity:   req.Maturity,
		Rate:       req.Rate,
		Volatility: req.Volatility,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "option pricing failed", "error", err)
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	response.Success(c, dto)
}
