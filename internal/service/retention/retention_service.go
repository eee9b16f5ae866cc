// Package retention 提供上传文件的定期清理服务
// 按配置的保留天数周期性删除过期上传文件
package retention

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/weiwangfds/postlens/config"
	"github.com/weiwangfds/postlens/internal/logger"
	"github.com/weiwangfds/postlens/internal/service/upload"
)

// RetentionService 上传保留策略服务接口
// 支持启动/停止周期清理以及手动触发单次清理
type RetentionService interface {
	// Start 启动周期清理协程
	// 参数:
	//   ctx - 上下文，用于控制服务生命周期
	// 返回:
	//   error - 服务已在运行时返回错误
	Start(ctx context.Context) error

	// Stop 停止周期清理协程并等待其退出
	Stop() error

	// RunOnce 立即执行一次过期文件清理
	// 返回:
	//   []string - 本次删除的存储文件名
	RunOnce() []string
}

// retentionService 上传保留策略服务实现
type retentionService struct {
	uploadService upload.UploadService // 上传文件服务
	retentionDays int                  // 保留天数
	interval      time.Duration        // 清理周期
	stopChan      chan struct{}        // 停止信号通道
	wg            sync.WaitGroup       // 等待组，用于协程同步
	isRunning     bool                 // 服务运行状态
	mu            sync.Mutex           // 保护运行状态
}

// NewRetentionService 创建上传保留策略服务实例
func NewRetentionService(uploadService upload.UploadService, cfg config.UploadConfig) RetentionService {
	interval := time.Duration(cfg.CleanupInterval) * time.Hour
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	return &retentionService{
		uploadService: uploadService,
		retentionDays: cfg.RetentionDays,
		interval:      interval,
	}
}

// Start 启动周期清理协程
func (s *retentionService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("retention service is already running")
	}

	s.stopChan = make(chan struct{})
	s.isRunning = true

	s.wg.Add(1)
	go s.sweepWorker(ctx)

	logger.Infof("Retention service started, interval: %s, retention: %d days", s.interval, s.retentionDays)
	return nil
}

// Stop 停止周期清理协程并等待其退出
func (s *retentionService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	close(s.stopChan)
	s.wg.Wait()
	s.isRunning = false

	logger.Info("Retention service stopped")
	return nil
}

// RunOnce 立即执行一次过期文件清理
func (s *retentionService) RunOnce() []string {
	removed := s.uploadService.Cleanup(s.retentionDays)
	if len(removed) > 0 {
		logger.Infof("Retention sweep removed %d expired uploads", len(removed))
	}
	return removed
}

// sweepWorker 周期清理协程
func (s *retentionService) sweepWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce()
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}
