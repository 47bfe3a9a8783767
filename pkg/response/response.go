// Package response 提供统一的 HTTP 响应封装
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body 统一响应结构
type Body struct {
	// 业务错误码，成功时为空
	Code string `json:"code,omitempty"`
	// 提示信息
	Message string `json:"message"`
	// 业务数据
	Data any `json:"data,omitempty"`
}

// Success 返回成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Body{Message: "ok", Data: data})
}

// ErrorWithStatus 返回带 HTTP 状态码的错误响应
func ErrorWithStatus(c *gin.Context, status int, message, code string) {
	c.JSON(status, Body{Code: code, Message: message})
}
