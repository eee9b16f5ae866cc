package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandler 静态信息页处理器
type PageHandler struct{}

// NewPageHandler 创建静态信息页处理器实例
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Index 首页（分析表单）
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

// FraudAlerts 诈骗警示页
func (h *PageHandler) FraudAlerts(c *gin.Context) {
	c.HTML(http.StatusOK, "fraud_alerts.html", nil)
}

// MarketingFraud 营销欺诈页
func (h *PageHandler) MarketingFraud(c *gin.Context) {
	c.HTML(http.StatusOK, "marketing_fraud.html", nil)
}

// Guidelines 使用指南页
func (h *PageHandler) Guidelines(c *gin.Context) {
	c.HTML(http.StatusOK, "guidelines.html", nil)
}

// Helplines 求助热线页
func (h *PageHandler) Helplines(c *gin.Context) {
	c.HTML(http.StatusOK, "helplines.html", nil)
}

// Messages 公告信息页
func (h *PageHandler) Messages(c *gin.Context) {
	c.HTML(http.StatusOK, "messages.html", nil)
}
