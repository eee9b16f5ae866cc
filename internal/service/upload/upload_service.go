// Package upload 提供上传媒体文件的存储与保留期管理服务
// 包含文件保存、列表、删除和按保留期清理等核心功能
// 文件以UTC时间戳前缀加净化后的原始文件名落盘，近似按时间有序
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/weiwangfds/postlens/config"
	"github.com/weiwangfds/postlens/internal/errors"
	"github.com/weiwangfds/postlens/internal/logger"
)

// UploadedFile 上传文件元数据
// 按需从存储目录枚举生成，不落库
type UploadedFile struct {
	Filename string    `json:"filename"` // 服务端生成的存储文件名
	Size     int64     `json:"size"`     // 文件大小，单位为字节
	ModTime  time.Time `json:"mtime"`    // 最后修改时间（UTC）
}

// UploadService 上传存储服务接口
// 管理已接收媒体文件的完整生命周期
type UploadService interface {
	// SaveFile 保存媒体文件到本地存储
	// 参数:
	//   originalName - 原始文件名
	//   fileData - 文件数据流
	// 返回:
	//   string - 服务端生成的存储文件名
	//   error - 错误信息
	// 功能:
	//   - 校验文件扩展名与大小限制
	//   - 生成微秒级UTC时间戳前缀的存储文件名
	//   - 净化原始文件名，防止路径穿越
	SaveFile(originalName string, fileData io.Reader) (string, error)

	// ListFiles 枚举存储目录中的上传文件
	// 返回:
	//   []UploadedFile - 文件元数据列表，按文件名降序（近似最新优先）
	// 注意:
	//   - 跳过隐藏文件和非普通文件
	//   - 枚举失败时记录警告并返回空列表，不向上传播错误
	ListFiles() []UploadedFile

	// DeleteFile 按存储文件名删除上传文件
	// 参数:
	//   filename - 存储文件名（删除前会先净化）
	// 返回:
	//   error - 文件不存在返回ErrUploadNotFound，删除失败返回ErrUploadDeleteFailed
	DeleteFile(filename string) error

	// Cleanup 删除修改时间早于保留期截止点的上传文件
	// 参数:
	//   olderThanDays - 保留天数，截止点为当前UTC时间减去该天数
	// 返回:
	//   []string - 成功删除的文件名列表
	// 注意:
	//   - 单个文件删除失败只记录日志并跳过，不中断整批清理
	//   - 幂等：同一截止点重复调用不会再删除任何文件
	Cleanup(olderThanDays int) []string

	// ExtensionAllowed 判断原始文件名的扩展名是否允许上传
	ExtensionAllowed(originalName string) bool

	// AllowedExtensions 返回允许上传的扩展名列表
	AllowedExtensions() []string

	// StoragePath 返回存储目录路径
	StoragePath() string
}

// uploadService 上传存储服务实现
type uploadService struct {
	config config.UploadConfig // 上传存储配置
}

// NewUploadService 创建上传存储服务实例
// 参数:
//
//	cfg - 上传存储配置
//
// 返回:
//
//	UploadService - 上传存储服务接口实例
//
// 功能:
//   - 创建存储目录（如果不存在）
//   - 配置文件大小和扩展名限制
func NewUploadService(cfg config.UploadConfig) UploadService {
	logger.Infof("Initializing upload service with storage path: %s", cfg.StoragePath)
	if err := os.MkdirAll(cfg.StoragePath, 0755); err != nil {
		panic(fmt.Sprintf("Failed to create storage directory: %v", err))
	}

	logger.Infof("Upload service initialized. Max file size: %d bytes, Allowed extensions: %v",
		cfg.MaxFileSize, cfg.AllowedExtensions)

	return &uploadService{config: cfg}
}

// SaveFile 保存媒体文件到本地存储
func (s *uploadService) SaveFile(originalName string, fileData io.Reader) (string, error) {
	// 检查文件扩展名是否允许
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(originalName)), ".")
	if !s.isAllowedExtension(ext) {
		logger.Warnf("File extension '%s' is not allowed for file: %s", ext, originalName)
		return "", errors.ErrFileTypeNotAllowedError.WithDetails(
			fmt.Sprintf("allowed: %s", strings.Join(s.config.AllowedExtensions, ", ")))
	}

	// 生成存储文件名：UTC微秒时间戳前缀 + 净化后的原始文件名
	storedName := timestampPrefix(time.Now().UTC()) + "_" + SanitizeFilename(originalName)
	savePath := filepath.Join(s.config.StoragePath, storedName)

	// 先写入临时文件，校验大小后再移动到最终位置
	tempFile, err := os.CreateTemp(s.config.StoragePath, ".upload_*")
	if err != nil {
		logger.Errorf("Failed to create temp file for %s: %v", originalName, err)
		return "", errors.Wrap(errors.ErrUploadSaveFailed, errors.GetErrorMessage(errors.ErrUploadSaveFailed), err)
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	// 多拷贝一个字节以便检测超限
	written, err := io.Copy(tempFile, io.LimitReader(fileData, s.config.MaxFileSize+1))
	if err != nil {
		logger.Errorf("Failed to copy file data for %s: %v", originalName, err)
		return "", errors.Wrap(errors.ErrUploadSaveFailed, errors.GetErrorMessage(errors.ErrUploadSaveFailed), err)
	}

	if written > s.config.MaxFileSize {
		logger.Warnf("File %s exceeds maximum allowed size %d", originalName, s.config.MaxFileSize)
		return "", errors.ErrFileSizeTooLargeError.WithDetails(
			fmt.Sprintf("max %d bytes", s.config.MaxFileSize))
	}

	if err := tempFile.Close(); err != nil {
		return "", errors.Wrap(errors.ErrUploadSaveFailed, errors.GetErrorMessage(errors.ErrUploadSaveFailed), err)
	}

	if err := os.Rename(tempFile.Name(), savePath); err != nil {
		logger.Errorf("Failed to move file %s to storage: %v", originalName, err)
		return "", errors.Wrap(errors.ErrUploadSaveFailed, errors.GetErrorMessage(errors.ErrUploadSaveFailed), err)
	}

	logger.Infof("Media saved: %s", storedName)
	return storedName, nil
}

// ListFiles 枚举存储目录中的上传文件
func (s *uploadService) ListFiles() []UploadedFile {
	entries, err := os.ReadDir(s.config.StoragePath)
	if err != nil {
		logger.Warnf("Failed to list uploads: %v", err)
		return []UploadedFile{}
	}

	files := make([]UploadedFile, 0, len(entries))
	for _, entry := range entries {
		// 跳过隐藏文件和子目录
		if strings.HasPrefix(entry.Name(), ".") || !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logger.Warnf("Failed to stat upload %s: %v", entry.Name(), err)
			continue
		}
		files = append(files, UploadedFile{
			Filename: entry.Name(),
			Size:     info.Size(),
			ModTime:  info.ModTime().UTC(),
		})
	}

	// 文件名降序，时间戳前缀保证近似最新优先
	sort.Slice(files, func(i, j int) bool {
		return files[i].Filename > files[j].Filename
	})

	return files
}

// DeleteFile 按存储文件名删除上传文件
func (s *uploadService) DeleteFile(filename string) error {
	// 净化请求的文件名，防止路径穿越
	secureName := SanitizeFilename(filename)
	path := filepath.Join(s.config.StoragePath, secureName)

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return errors.ErrUploadNotFoundError.WithDetails(secureName)
	}

	if err := os.Remove(path); err != nil {
		logger.Errorf("Failed to delete upload %s: %v", secureName, err)
		return errors.Wrap(errors.ErrUploadDeleteFailed, errors.GetErrorMessage(errors.ErrUploadDeleteFailed), err)
	}

	logger.Infof("Deleted upload: %s", secureName)
	return nil
}

// Cleanup 删除修改时间早于保留期截止点的上传文件
func (s *uploadService) Cleanup(olderThanDays int) []string {
	removed := []string{}

	entries, err := os.ReadDir(s.config.StoragePath)
	if err != nil {
		logger.Warnf("Failed during uploads cleanup: %v", err)
		return removed
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") || !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logger.Warnf("Failed to stat upload %s: %v", entry.Name(), err)
			continue
		}
		if !info.ModTime().UTC().Before(cutoff) {
			continue
		}
		path := filepath.Join(s.config.StoragePath, entry.Name())
		if err := os.Remove(path); err != nil {
			// 单文件失败不影响整批清理
			logger.Warnf("Failed to remove %s: %v", entry.Name(), err)
			continue
		}
		logger.Infof("Removed upload: %s", entry.Name())
		removed = append(removed, entry.Name())
	}

	return removed
}

// ExtensionAllowed 判断原始文件名的扩展名是否允许上传
func (s *uploadService) ExtensionAllowed(originalName string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(originalName)), ".")
	return s.isAllowedExtension(ext)
}

// AllowedExtensions 返回允许上传的扩展名列表
func (s *uploadService) AllowedExtensions() []string {
	return s.config.AllowedExtensions
}

// StoragePath 返回存储目录路径
func (s *uploadService) StoragePath() string {
	return s.config.StoragePath
}

// isAllowedExtension 检查文件扩展名是否允许
func (s *uploadService) isAllowedExtension(ext string) bool {
	for _, allowed := range s.config.AllowedExtensions {
		if allowed == "*" {
			return true
		}
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}

// timestampPrefix 生成UTC微秒精度时间戳前缀
// 同一微秒内上传同名文件存在碰撞可能，按已知可接受风险处理
func timestampPrefix(t time.Time) string {
	return t.Format("20060102150405") + fmt.Sprintf("%06d", t.Nanosecond()/1000)
}

// SanitizeFilename 净化文件名
// 去除路径分隔符和不安全字符，空白折叠为下划线
// 结果为空时退化为"file"，保证总能生成合法文件名
func SanitizeFilename(name string) string {
	// 丢弃任何路径部分
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}

	// 去掉首尾的点和下划线，避免产生隐藏文件
	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return "file"
	}
	return cleaned
}
