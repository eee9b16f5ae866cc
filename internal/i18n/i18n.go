// Package i18n 提供国际化支持
// 负责管理应用程序的语言包和翻译功能
package i18n

import (
	"sync"

	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/weiwangfds/postlens/internal/logger"
)

// 支持的语言
const (
	LangZhCN = "zh-CN"
	LangEnUS = "en-US"
)

var (
	instance *I18n
	once     sync.Once

	// 语言包存储
	translations = map[string]map[string]string{
		LangZhCN: {
			"success":               "成功",
			"internal_server_error": "服务器内部错误",
			"invalid_params":        "参数错误",
			"unauthorized":          "未授权",
			"forbidden":             "禁止访问",
			"not_found":             "资源未找到",
			"service_unavailable":   "服务不可用",

			"caption_required":      "帖子文案不能为空",
			"caption_too_long":      "帖子文案过长",
			"media_required":        "未选择媒体文件",
			"upload_not_found":      "上传文件未找到",
			"upload_save_failed":    "媒体文件保存失败",
			"upload_delete_failed":  "上传文件删除失败",
			"upload_list_failed":    "上传文件列表获取失败",
			"file_size_too_large":   "文件大小超限",
			"file_type_not_allowed": "文件类型不允许",
			"cleanup_disabled":      "清理接口未启用",

			"analysis_store_disabled": "分析记录存储未启用",
			"analysis_not_found":      "分析记录未找到",
			"analysis_save_failed":    "分析记录保存失败",
			"analysis_query_failed":   "分析记录查询失败",
			"analysis_delete_failed":  "分析记录删除失败",

			"database_connection": "数据库连接错误",
			"database_query":      "数据库查询错误",
			"database_insert":     "数据库插入错误",
			"database_delete":     "数据库删除错误",
			"record_not_found":    "记录未找到",

			"backup_config_invalid":         "备份配置无效",
			"backup_upload_failed":          "备份上传失败",
			"backup_provider_not_supported": "备份提供商不支持",

			"unknown_error": "未知错误",
		},
		LangEnUS: {
			"success":               "Success",
			"internal_server_error": "Internal Server Error",
			"invalid_params":        "Invalid Parameters",
			"unauthorized":          "Unauthorized",
			"forbidden":             "Forbidden",
			"not_found":             "Resource Not Found",
			"service_unavailable":   "Service Unavailable",

			"caption_required":      "Caption Required",
			"caption_too_long":      "Caption Too Long",
			"media_required":        "Media File Required",
			"upload_not_found":      "Uploaded File Not Found",
			"upload_save_failed":    "Failed To Save Media File",
			"upload_delete_failed":  "Failed To Delete Uploaded File",
			"upload_list_failed":    "Failed To List Uploaded Files",
			"file_size_too_large":   "File Size Too Large",
			"file_type_not_allowed": "File Type Not Allowed",
			"cleanup_disabled":      "Cleanup API Disabled",

			"analysis_store_disabled": "Analysis Store Disabled",
			"analysis_not_found":      "Analysis Record Not Found",
			"analysis_save_failed":    "Failed To Save Analysis Record",
			"analysis_query_failed":   "Failed To Query Analysis Records",
			"analysis_delete_failed":  "Failed To Delete Analysis Record",

			"database_connection": "Database Connection Error",
			"database_query":      "Database Query Error",
			"database_insert":     "Database Insert Error",
			"database_delete":     "Database Delete Error",
			"record_not_found":    "Record Not Found",

			"backup_config_invalid":         "Backup Config Invalid",
			"backup_upload_failed":          "Backup Upload Failed",
			"backup_provider_not_supported": "Backup Provider Not Supported",

			"unknown_error": "Unknown Error",
		},
	}
)

// I18n 国际化管理器
type I18n struct {
	translators map[string]ut.Translator
	defaultLang string
}

// GetInstance 获取I18n单例
func GetInstance() *I18n {
	once.Do(func() {
		instance = &I18n{
			translators: make(map[string]ut.Translator),
			defaultLang: LangZhCN,
		}
		instance.initTranslators()
	})
	return instance
}

// initTranslators 初始化翻译器
func (i *I18n) initTranslators() {
	// 创建通用翻译器
	zhCN := zh.New()
	enUS := en_US.New()
	uni := ut.New(zhCN, enUS, zhCN)

	// 注册支持的语言 - 使用locale库的标识符
	langMappings := map[string]string{
		LangZhCN: "zh",
		LangEnUS: "en_US",
	}

	for ourLang, localeLang := range langMappings {
		trans, found := uni.GetTranslator(localeLang)
		if !found {
			logger.Errorf("初始化翻译器失败 for language %s (locale: %s): translator not found", ourLang, localeLang)
			continue
		}
		i.translators[ourLang] = trans
	}
}

// Translate 根据键和语言获取翻译
func (i *I18n) Translate(key, lang string) string {
	if translation, found := translations[lang][key]; found {
		return translation
	}

	// 如果当前语言没有找到，尝试在默认语言中查找
	if lang != i.defaultLang {
		if translation, found := translations[i.defaultLang][key]; found {
			return translation
		}
	}

	logger.Warnf("未找到翻译: %s, 语言: %s", key, lang)
	return key
}

// SetDefaultLanguage 设置默认语言
func (i *I18n) SetDefaultLanguage(lang string) {
	i.defaultLang = lang
}

// GetDefaultLanguage 获取默认语言
func (i *I18n) GetDefaultLanguage() string {
	return i.defaultLang
}

// IsSupportedLanguage 检查语言是否支持
func (i *I18n) IsSupportedLanguage(lang string) bool {
	_, exists := i.translators[lang]
	return exists
}
