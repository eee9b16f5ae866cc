package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Response 统一返回值结构体
// @Description API统一响应格式
type Response struct {
	// 状态码，0表示成功，非0表示失败
	Code int `json:"code" example:"0"`
	// 响应消息
	Message string `json:"message" example:"success"`
	// 响应数据
	Data interface{} `json:"data,omitempty"`
	// 请求ID，用于链路追踪
	RequestID string `json:"request_id,omitempty" example:"req_123456789"`
	// 时间戳
	Timestamp int64 `json:"timestamp" example:"1640995200"`
}

// PageData 分页数据结构体
// @Description 分页响应数据格式
type PageData struct {
	// 数据列表
	List interface{} `json:"list"`
	// 总数
	Total int64 `json:"total" example:"100"`
	// 返回条数上限
	Limit int `json:"limit" example:"50"`
	// 跳过条数
	Skip int `json:"skip" example:"0"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:      0,
		Message:   "success",
		Data:      data,
		RequestID: getRequestID(c),
		Timestamp: now().Unix(),
	})
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:      0,
		Message:   message,
		Data:      data,
		RequestID: getRequestID(c),
		Timestamp: now().Unix(),
	})
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, limit, skip int) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data: PageData{
			List:  list,
			Total: total,
			Limit: limit,
			Skip:  skip,
		},
		RequestID: getRequestID(c),
		Timestamp: now().Unix(),
	})
}

// Error 错误响应
// 业务错误统一使用HTTP 200加非零业务码返回
func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:      code,
		Message:   message,
		RequestID: getRequestID(c),
		Timestamp: now().Unix(),
	})
}

// BadRequest 400错误响应
func BadRequest(c *gin.Context, message string) {
	abortWithStatus(c, http.StatusBadRequest, message)
}

// Unauthorized 401错误响应
func Unauthorized(c *gin.Context, message string) {
	abortWithStatus(c, http.StatusUnauthorized, message)
}

// Forbidden 403错误响应
func Forbidden(c *gin.Context, message string) {
	abortWithStatus(c, http.StatusForbidden, message)
}

// NotFound 404错误响应
func NotFound(c *gin.Context, message string) {
	abortWithStatus(c, http.StatusNotFound, message)
}

// RequestEntityTooLarge 413错误响应
func RequestEntityTooLarge(c *gin.Context, message string) {
	abortWithStatus(c, http.StatusRequestEntityTooLarge, message)
}

// NotImplemented 501错误响应
func NotImplemented(c *gin.Context, message string) {
	abortWithStatus(c, http.StatusNotImplemented, message)
}

// InternalServerError 500错误响应
func InternalServerError(c *gin.Context, message string) {
	abortWithStatus(c, http.StatusInternalServerError, message)
}

// abortWithStatus 以指定HTTP状态码返回错误响应
func abortWithStatus(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{
		Code:      status,
		Message:   message,
		RequestID: getRequestID(c),
		Timestamp: now().Unix(),
	})
}

// getRequestID 从gin上下文中获取请求ID，用于链路追踪
func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// now 获取当前时间，便于测试时mock
var now = time.Now
