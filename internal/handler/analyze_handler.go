package handler

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/postlens/internal/analyzer"
	"github.com/weiwangfds/postlens/internal/errors"
	"github.com/weiwangfds/postlens/internal/logger"
	"github.com/weiwangfds/postlens/internal/response"
	analysisservice "github.com/weiwangfds/postlens/internal/service/analysis"
	"github.com/weiwangfds/postlens/internal/service/backup"
	uploadservice "github.com/weiwangfds/postlens/internal/service/upload"
)

// 帖子文案长度上限（字符数）
const maxCaptionLength = 5000

// AnalyzeHandler 帖子分析处理器
// @Description 社交帖子欺骗性分析相关的HTTP处理器
type AnalyzeHandler struct {
	uploadService   uploadservice.UploadService
	analysisService analysisservice.AnalysisService
	mirrorService   backup.MirrorService
}

// NewAnalyzeHandler 创建帖子分析处理器实例
func NewAnalyzeHandler(
	uploadService uploadservice.UploadService,
	analysisService analysisservice.AnalysisService,
	mirrorService backup.MirrorService,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		uploadService:   uploadService,
		analysisService: analysisService,
		mirrorService:   mirrorService,
	}
}

// Analyze 分析社交帖子
// @Summary 分析社交帖子的欺骗性
// @Description 接收媒体文件与文案，保存文件并基于启发式规则评分
// @Tags 帖子分析
// @Accept multipart/form-data
// @Produce json
// @Param media formData file true "图片或视频文件"
// @Param caption formData string true "帖子文案"
// @Param link_url formData string false "外部链接"
// @Success 200 {object} map[string]interface{} "分析结果"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 413 {object} map[string]interface{} "文件过大"
// @Failure 500 {object} map[string]interface{} "服务器内部错误"
// @Router /analyze [post]
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	file, err := c.FormFile("media")
	if err != nil {
		// 请求体超限导致的表单解析失败按413返回
		if strings.Contains(err.Error(), "request body too large") {
			response.RequestEntityTooLarge(c, "File is too large.")
			return
		}
		logger.Warnf("Analyze request received without media file")
		response.BadRequest(c, "No media file uploaded.")
		return
	}

	if file.Filename == "" {
		logger.Warnf("Empty media file submitted")
		response.BadRequest(c, "Please choose a photo or video file.")
		return
	}

	if !h.uploadService.ExtensionAllowed(file.Filename) {
		logger.Warnf("Unsupported file type: %s", file.Filename)
		response.BadRequest(c, fmt.Sprintf("Unsupported file type. Allowed: %s",
			strings.Join(h.uploadService.AllowedExtensions(), ", ")))
		return
	}

	caption := strings.TrimSpace(c.PostForm("caption"))
	if caption == "" {
		logger.Warnf("Analysis request received without caption")
		response.BadRequest(c, "Please enter a caption for the post.")
		return
	}

	if utf8.RuneCountInString(caption) > maxCaptionLength {
		response.BadRequest(c, fmt.Sprintf("Caption is too long (max %d characters).", maxCaptionLength))
		return
	}

	linkURL := strings.TrimSpace(c.PostForm("link_url"))

	// 根据声明的MIME前缀判定媒体类型
	contentType := strings.ToLower(file.Header.Get("Content-Type"))
	mediaType := analyzer.MediaTypeUnknown
	switch {
	case strings.HasPrefix(contentType, "image/"):
		mediaType = analyzer.MediaTypeImage
	case strings.HasPrefix(contentType, "video/"):
		mediaType = analyzer.MediaTypeVideo
	}

	src, err := file.Open()
	if err != nil {
		logger.Errorf("Failed to open uploaded media %s: %v", file.Filename, err)
		response.InternalServerError(c, "Failed to save media file.")
		return
	}
	defer src.Close()

	storedName, err := h.uploadService.SaveFile(file.Filename, src)
	if err != nil {
		if errors.IsCode(err, errors.ErrFileSizeTooLarge) {
			response.RequestEntityTooLarge(c, "File is too large.")
			return
		}
		if errors.IsCode(err, errors.ErrFileTypeNotAllowed) {
			response.BadRequest(c, fmt.Sprintf("Unsupported file type. Allowed: %s",
				strings.Join(h.uploadService.AllowedExtensions(), ", ")))
			return
		}
		logger.Errorf("Failed to save media %s: %v", file.Filename, err)
		response.InternalServerError(c, "Failed to save media file.")
		return
	}

	// 备份镜像为尽力而为，异步执行
	go h.mirrorService.MirrorUpload(storedName,
		filepath.Join(h.uploadService.StoragePath(), storedName), contentType)

	result := analyzer.Analyze(caption, file.Filename, mediaType, linkURL)
	logger.Infof("Analysis complete: deception=%d, consistency=%d",
		result.DeceptionScore, result.ConsistencyScore)

	// 持久化失败不中断分析流程，记录ID置空返回
	recordID := ""
	if h.analysisService.Enabled() {
		record, err := h.analysisService.Create(result)
		if err != nil {
			logger.Errorf("Failed to persist analysis result: %v", err)
		} else {
			recordID = record.AnalysisID
		}
	}

	response.Success(c, gin.H{
		"deception_score":   result.DeceptionScore,
		"consistency_score": result.ConsistencyScore,
		"explanations":      result.Explanations,
		"media_type":        result.MediaType,
		"media_filename":    result.MediaFilename,
		"link_url":          result.LinkURL,
		"caption":           result.Caption,
		"stored_filename":   storedName,
		"id":                recordID,
	})
}
