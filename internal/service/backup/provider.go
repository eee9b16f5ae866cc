// Package backup 提供上传文件的对象存储备份能力
// 备份为尽力而为的镜像：失败只记录日志，不影响主流程
package backup

import (
	"io"

	"github.com/weiwangfds/postlens/config"
	"github.com/weiwangfds/postlens/internal/errors"
)

// Provider 对象存储提供商接口
type Provider interface {
	// 上传文件到对象存储
	UploadFile(objectKey string, reader io.Reader, contentType string) error

	// 删除对象存储中的文件
	DeleteFile(objectKey string) error

	// 检查文件是否存在
	FileExists(objectKey string) (bool, error)

	// 测试连接
	TestConnection() error
}

// NewProvider 根据配置创建对象存储提供商实例
func NewProvider(cfg config.BackupConfig) (Provider, error) {
	switch cfg.Provider {
	case "aliyun":
		return NewAliyunProvider(cfg)
	case "tencent":
		return NewTencentProvider(cfg)
	case "qiniu":
		return NewQiniuProvider(cfg)
	case "minio":
		return NewMinioProvider(cfg)
	default:
		return nil, errors.ErrBackupProviderNotSupportedError.WithDetails(cfg.Provider)
	}
}
