package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/postlens/config"
	"github.com/weiwangfds/postlens/internal/handler"
	"github.com/weiwangfds/postlens/internal/middleware"
	analysisservice "github.com/weiwangfds/postlens/internal/service/analysis"
	"github.com/weiwangfds/postlens/internal/service/backup"
	"github.com/weiwangfds/postlens/internal/service/retention"
	uploadservice "github.com/weiwangfds/postlens/internal/service/upload"
	"gorm.io/gorm"
)

// Router 路由配置
type Router struct {
	engine           *gin.Engine
	db               *gorm.DB
	retentionService retention.RetentionService
}

// NewRouter 创建路由实例
func NewRouter(loggerMiddleware *middleware.LoggerMiddleware, db *gorm.DB, cfg *config.Config) *Router {
	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.MaxMultipartMemory = cfg.Upload.MaxFileSize

	// 初始化服务
	uploadService := uploadservice.NewUploadService(cfg.Upload)
	analysisService := analysisservice.NewAnalysisService(db, cfg.Analysis.Enabled)
	mirrorService := backup.NewMirrorService(cfg.Backup)
	retentionService := retention.NewRetentionService(uploadService, cfg.Upload)

	// 初始化处理器
	pageHandler := handler.NewPageHandler()
	analyzeHandler := handler.NewAnalyzeHandler(uploadService, analysisService, mirrorService)
	uploadHandler := handler.NewUploadHandler(uploadService, retentionService, mirrorService)
	analysisHandler := handler.NewAnalysisHandler(analysisService)

	// 使用中间件
	engine.Use(gin.Recovery())
	engine.Use(loggerMiddleware.RequestID())
	engine.Use(loggerMiddleware.RequestLogger())
	engine.Use(middleware.BodyLimit(cfg.Server.MaxBodySize))

	// 配置CORS
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// 静态信息页
	engine.LoadHTMLGlob("web/templates/*.html")
	engine.GET("/", pageHandler.Index)
	engine.GET("/fraud-alerts", pageHandler.FraudAlerts)
	engine.GET("/marketing-fraud", pageHandler.MarketingFraud)
	engine.GET("/guidelines", pageHandler.Guidelines)
	engine.GET("/helplines", pageHandler.Helplines)
	engine.GET("/messages", pageHandler.Messages)

	// 帖子分析入口
	engine.POST("/analyze", analyzeHandler.Analyze)

	// 健康检查
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Service is running",
		})
	})

	// 上传文件管理接口
	uploads := engine.Group("/api/uploads")
	{
		uploads.GET("", uploadHandler.ListUploads)
		uploads.DELETE("/:filename", uploadHandler.DeleteUpload)
		uploads.POST("/cleanup",
			middleware.AdminTokenAuth(cfg.Upload.CleanupToken),
			uploadHandler.TriggerCleanup)
	}

	// 分析记录查询接口
	analyses := engine.Group("/api/analyses")
	{
		analyses.GET("", analysisHandler.ListAnalyses)
		analyses.GET("/stats", analysisHandler.GetStats)
		analyses.GET("/score-range", analysisHandler.ListByScoreRange)
		analyses.GET("/:id", analysisHandler.GetAnalysis)
		analyses.DELETE("/:id", analysisHandler.DeleteAnalysis)
	}

	// API路由组
	api := engine.Group("/api/v1")
	{
		// 基础信息接口
		api.GET("/info", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"service": "Postlens",
				"version": "1.0.0",
				"status":  "running",
			})
		})

		// 数据库状态检查
		api.GET("/db/status", func(c *gin.Context) {
			if db == nil {
				c.JSON(200, gin.H{
					"status": "Database disabled",
				})
				return
			}

			sqlDB, err := db.DB()
			if err != nil {
				c.JSON(500, gin.H{
					"error": "Database connection error",
				})
				return
			}

			if err := sqlDB.Ping(); err != nil {
				c.JSON(500, gin.H{
					"error": "Database ping failed",
				})
				return
			}

			c.JSON(200, gin.H{
				"status": "Database connection OK",
			})
		})
	}

	return &Router{
		engine:           engine,
		db:               db,
		retentionService: retentionService,
	}
}

// GetEngine 获取Gin引擎
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// GetDB 获取数据库连接
func (r *Router) GetDB() *gorm.DB {
	return r.db
}

// GetRetentionService 获取保留策略服务
func (r *Router) GetRetentionService() retention.RetentionService {
	return r.retentionService
}
