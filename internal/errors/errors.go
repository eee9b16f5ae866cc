package errors

import (
	"fmt"

	"github.com/weiwangfds/postlens/internal/i18n"
)

// ErrorCode 错误码类型
type ErrorCode int

// 定义错误码常量
const (
	// 通用错误码 (1000-1999)
	ErrSuccess            ErrorCode = 0    // 成功
	ErrInternalServer     ErrorCode = 1000 // 服务器内部错误
	ErrInvalidParams      ErrorCode = 1001 // 参数错误
	ErrUnauthorized       ErrorCode = 1002 // 未授权
	ErrForbidden          ErrorCode = 1003 // 禁止访问
	ErrNotFound           ErrorCode = 1004 // 资源未找到
	ErrServiceUnavailable ErrorCode = 1005 // 服务不可用

	// 上传存储相关错误码 (2000-2999)
	ErrUploadNotFound     ErrorCode = 2000 // 上传文件未找到
	ErrUploadSaveFailed   ErrorCode = 2001 // 媒体文件保存失败
	ErrUploadDeleteFailed ErrorCode = 2002 // 上传文件删除失败
	ErrUploadListFailed   ErrorCode = 2003 // 上传文件列表获取失败
	ErrFileSizeTooLarge   ErrorCode = 2004 // 文件大小超限
	ErrFileTypeNotAllowed ErrorCode = 2005 // 文件类型不允许
	ErrCleanupDisabled    ErrorCode = 2006 // 清理接口未启用

	// 分析记录存储相关错误码 (3000-3999)
	ErrAnalysisStoreDisabled ErrorCode = 3000 // 分析记录存储未启用
	ErrAnalysisNotFound      ErrorCode = 3001 // 分析记录未找到
	ErrAnalysisSaveFailed    ErrorCode = 3002 // 分析记录保存失败
	ErrAnalysisQueryFailed   ErrorCode = 3003 // 分析记录查询失败
	ErrAnalysisDeleteFailed  ErrorCode = 3004 // 分析记录删除失败

	// 数据库相关错误码 (4000-4999)
	ErrDatabaseConnection ErrorCode = 4000 // 数据库连接错误
	ErrDatabaseQuery      ErrorCode = 4001 // 数据库查询错误
	ErrDatabaseInsert     ErrorCode = 4002 // 数据库插入错误
	ErrDatabaseDelete     ErrorCode = 4003 // 数据库删除错误
	ErrRecordNotFound     ErrorCode = 4004 // 记录未找到

	// 备份相关错误码 (5000-5999)
	ErrBackupConfigInvalid        ErrorCode = 5000 // 备份配置无效
	ErrBackupUploadFailed         ErrorCode = 5001 // 备份上传失败
	ErrBackupProviderNotSupported ErrorCode = 5002 // 备份提供商不支持
)

// AppError 应用错误结构体
// @Description 应用程序统一错误格式
type AppError struct {
	// 错误码
	Code ErrorCode `json:"code"`
	// 错误消息
	Message string `json:"message"`
	// 详细错误信息
	Details string `json:"details,omitempty"`
	// 原始错误
	OriginalError error `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// WithDetails 添加详细错误信息
func (e *AppError) WithDetails(details string) *AppError {
	return &AppError{
		Code:          e.Code,
		Message:       e.Message,
		Details:       details,
		OriginalError: e.OriginalError,
	}
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装原始错误
func Wrap(code ErrorCode, message string, err error) *AppError {
	appErr := &AppError{
		Code:          code,
		Message:       message,
		OriginalError: err,
	}
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

// IsCode 判断错误是否携带指定错误码
func IsCode(err error, code ErrorCode) bool {
	if appErr, ok := GetAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// 预定义的常用错误
var (
	// 通用错误
	ErrInternalServerError = New(ErrInternalServer, GetErrorMessage(ErrInternalServer))
	ErrInvalidParameters   = New(ErrInvalidParams, GetErrorMessage(ErrInvalidParams))
	ErrUnauthorizedAccess  = New(ErrUnauthorized, GetErrorMessage(ErrUnauthorized))
	ErrForbiddenAccess     = New(ErrForbidden, GetErrorMessage(ErrForbidden))
	ErrResourceNotFound    = New(ErrNotFound, GetErrorMessage(ErrNotFound))

	// 上传存储相关错误
	ErrUploadNotFoundError     = New(ErrUploadNotFound, GetErrorMessage(ErrUploadNotFound))
	ErrUploadSaveFailedError   = New(ErrUploadSaveFailed, GetErrorMessage(ErrUploadSaveFailed))
	ErrUploadDeleteFailedError = New(ErrUploadDeleteFailed, GetErrorMessage(ErrUploadDeleteFailed))
	ErrFileSizeTooLargeError   = New(ErrFileSizeTooLarge, GetErrorMessage(ErrFileSizeTooLarge))
	ErrFileTypeNotAllowedError = New(ErrFileTypeNotAllowed, GetErrorMessage(ErrFileTypeNotAllowed))
	ErrCleanupDisabledError    = New(ErrCleanupDisabled, GetErrorMessage(ErrCleanupDisabled))

	// 分析记录存储相关错误
	ErrAnalysisStoreDisabledError = New(ErrAnalysisStoreDisabled, GetErrorMessage(ErrAnalysisStoreDisabled))
	ErrAnalysisNotFoundError      = New(ErrAnalysisNotFound, GetErrorMessage(ErrAnalysisNotFound))

	// 备份相关错误
	ErrBackupProviderNotSupportedError = New(ErrBackupProviderNotSupported, GetErrorMessage(ErrBackupProviderNotSupported))
)

// 错误码到i18n键的映射
var errorCodeToKeyMap = map[ErrorCode]string{
	ErrSuccess:            "success",
	ErrInternalServer:     "internal_server_error",
	ErrInvalidParams:      "invalid_params",
	ErrUnauthorized:       "unauthorized",
	ErrForbidden:          "forbidden",
	ErrNotFound:           "not_found",
	ErrServiceUnavailable: "service_unavailable",

	ErrUploadNotFound:     "upload_not_found",
	ErrUploadSaveFailed:   "upload_save_failed",
	ErrUploadDeleteFailed: "upload_delete_failed",
	ErrUploadListFailed:   "upload_list_failed",
	ErrFileSizeTooLarge:   "file_size_too_large",
	ErrFileTypeNotAllowed: "file_type_not_allowed",
	ErrCleanupDisabled:    "cleanup_disabled",

	ErrAnalysisStoreDisabled: "analysis_store_disabled",
	ErrAnalysisNotFound:      "analysis_not_found",
	ErrAnalysisSaveFailed:    "analysis_save_failed",
	ErrAnalysisQueryFailed:   "analysis_query_failed",
	ErrAnalysisDeleteFailed:  "analysis_delete_failed",

	ErrDatabaseConnection: "database_connection",
	ErrDatabaseQuery:      "database_query",
	ErrDatabaseInsert:     "database_insert",
	ErrDatabaseDelete:     "database_delete",
	ErrRecordNotFound:     "record_not_found",

	ErrBackupConfigInvalid:        "backup_config_invalid",
	ErrBackupUploadFailed:         "backup_upload_failed",
	ErrBackupProviderNotSupported: "backup_provider_not_supported",
}

// GetErrorMessage 根据错误码获取错误消息（使用默认语言）
func GetErrorMessage(code ErrorCode) string {
	return GetErrorMessageWithLang(code, i18n.GetInstance().GetDefaultLanguage())
}

// GetErrorMessageWithLang 根据错误码和语言获取错误消息
func GetErrorMessageWithLang(code ErrorCode, lang string) string {
	key, exists := errorCodeToKeyMap[code]
	if !exists {
		key = "unknown_error"
	}
	return i18n.GetInstance().Translate(key, lang)
}
