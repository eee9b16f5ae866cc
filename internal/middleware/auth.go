package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/postlens/internal/errors"
	"github.com/weiwangfds/postlens/internal/response"
)

// AdminTokenHeader 管理令牌请求头
const AdminTokenHeader = "X-Admin-Token"

// AdminTokenAuth 管理令牌认证中间件
// 校验X-Admin-Token请求头与配置的令牌是否一致
// 未配置令牌时接口永久禁用，返回403
func AdminTokenAuth(configuredToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if configuredToken == "" {
			response.Forbidden(c, errors.GetErrorMessage(errors.ErrCleanupDisabled))
			return
		}

		token := c.GetHeader(AdminTokenHeader)
		// 恒定时间比较，避免时序侧信道
		if subtle.ConstantTimeCompare([]byte(token), []byte(configuredToken)) != 1 {
			response.Unauthorized(c, errors.GetErrorMessage(errors.ErrUnauthorized))
			return
		}

		c.Next()
	}
}
