package backup

import (
	"os"
	"path"

	"github.com/weiwangfds/postlens/config"
	"github.com/weiwangfds/postlens/internal/logger"
)

// MirrorService 上传文件备份镜像服务
// 所有镜像操作均为尽力而为：失败记录日志后返回，调用方不感知错误
type MirrorService interface {
	// Enabled 返回备份功能是否启用
	Enabled() bool

	// MirrorUpload 将本地上传文件镜像到对象存储
	// 参数:
	//   storedName - 存储文件名，作为对象键的基础
	//   localPath - 本地文件完整路径
	//   contentType - 文件内容类型，可为空
	MirrorUpload(storedName, localPath, contentType string)

	// RemoveMirror 删除对象存储中的镜像文件
	RemoveMirror(storedName string)

	// TestConnection 测试对象存储连接
	TestConnection() error
}

// mirrorService 备份镜像服务实现
type mirrorService struct {
	provider Provider
	prefix   string
	enabled  bool
}

// NewMirrorService 创建备份镜像服务实例
// 配置未启用或提供商初始化失败时返回禁用的空实现
func NewMirrorService(cfg config.BackupConfig) MirrorService {
	if !cfg.Enabled {
		return &mirrorService{enabled: false}
	}

	provider, err := NewProvider(cfg)
	if err != nil {
		logger.Errorf("Failed to initialize backup provider %s, backup disabled: %v", cfg.Provider, err)
		return &mirrorService{enabled: false}
	}

	logger.Infof("Upload backup enabled, provider: %s, bucket: %s", cfg.Provider, cfg.Bucket)
	return &mirrorService{
		provider: provider,
		prefix:   cfg.Prefix,
		enabled:  true,
	}
}

// Enabled 返回备份功能是否启用
func (s *mirrorService) Enabled() bool {
	return s.enabled
}

// MirrorUpload 将本地上传文件镜像到对象存储
func (s *mirrorService) MirrorUpload(storedName, localPath, contentType string) {
	if !s.enabled {
		return
	}

	file, err := os.Open(localPath)
	if err != nil {
		logger.Errorf("Backup mirror skipped, cannot open %s: %v", localPath, err)
		return
	}
	defer file.Close()

	objectKey := s.objectKey(storedName)
	if err := s.provider.UploadFile(objectKey, file, contentType); err != nil {
		logger.Errorf("Backup mirror failed for %s: %v", objectKey, err)
		return
	}

	logger.Infof("Backup mirrored: %s", objectKey)
}

// RemoveMirror 删除对象存储中的镜像文件
func (s *mirrorService) RemoveMirror(storedName string) {
	if !s.enabled {
		return
	}

	objectKey := s.objectKey(storedName)
	if err := s.provider.DeleteFile(objectKey); err != nil {
		logger.Errorf("Backup mirror delete failed for %s: %v", objectKey, err)
		return
	}

	logger.Infof("Backup mirror removed: %s", objectKey)
}

// TestConnection 测试对象存储连接
func (s *mirrorService) TestConnection() error {
	if !s.enabled {
		return nil
	}
	return s.provider.TestConnection()
}

// objectKey 拼接带前缀的对象键
func (s *mirrorService) objectKey(storedName string) string {
	if s.prefix == "" {
		return storedName
	}
	return path.Join(s.prefix, storedName)
}
