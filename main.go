// @title Postlens API
// @version 1.0
// @description 社交帖子欺骗性分析服务

// @host localhost:8080
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/net/http2"

	"github.com/weiwangfds/postlens/config"
	"github.com/weiwangfds/postlens/internal/database"
	"github.com/weiwangfds/postlens/internal/logger"
	"github.com/weiwangfds/postlens/internal/middleware"
	"github.com/weiwangfds/postlens/internal/router"
	"gorm.io/gorm"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// 仅在启用分析记录持久化时初始化数据库
	var db *gorm.DB
	if cfg.Analysis.Enabled {
		db, err = database.Init(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
	}

	// 初始化中间件
	loggerMiddleware := middleware.NewLoggerMiddleware()

	// 初始化路由
	r := router.NewRouter(loggerMiddleware, db, cfg)

	// 启动时先执行一次过期文件清理，再启动定期清理
	retentionService := r.GetRetentionService()
	retentionService.RunOnce()

	retentionCtx, cancelRetention := context.WithCancel(context.Background())
	if cfg.Upload.CleanupInterval > 0 {
		if err := retentionService.Start(retentionCtx); err != nil {
			logger.Errorf("Failed to start retention service: %v", err)
		}
	}

	// 创建HTTP/HTTPS服务器
	var srv *http.Server
	if cfg.Server.EnableHTTPS {
		srv = &http.Server{
			Addr:         ":" + strconv.Itoa(cfg.Server.HTTPSPort),
			Handler:      r.GetEngine(),
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
			TLSConfig: &tls.Config{
				NextProtos: []string{"h2", "http/1.1"},
			},
		}

		if cfg.Server.EnableHTTP2 {
			if err := http2.ConfigureServer(srv, &http2.Server{}); err != nil {
				log.Fatalf("Failed to configure HTTP/2: %v", err)
			}
		}

		go func() {
			logger.Infof("HTTPS server listening on port %d (HTTP/2: %v)",
				cfg.Server.HTTPSPort, cfg.Server.EnableHTTP2)
			if err := srv.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile); err != nil && err != http.ErrServerClosed {
				log.Fatalf("HTTPS server failed: %v", err)
			}
		}()
	} else {
		srv = &http.Server{
			Addr:         ":" + strconv.Itoa(cfg.Server.Port),
			Handler:      r.GetEngine(),
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		}

		go func() {
			logger.Infof("HTTP server listening on port %d", cfg.Server.Port)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("HTTP server failed: %v", err)
			}
		}()
	}

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// 停止定期清理服务
	cancelRetention()
	if err := retentionService.Stop(); err != nil {
		logger.Errorf("Error stopping retention service: %v", err)
	}

	// 优雅关闭服务器
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	// 关闭数据库连接
	if db != nil {
		if err := database.Close(db); err != nil {
			logger.Errorf("Error closing database: %v", err)
		}
	}

	logger.Info("Server exited")
}
