package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/postlens/internal/errors"
	"github.com/weiwangfds/postlens/internal/logger"
	"github.com/weiwangfds/postlens/internal/response"
	"github.com/weiwangfds/postlens/internal/service/backup"
	"github.com/weiwangfds/postlens/internal/service/retention"
	uploadservice "github.com/weiwangfds/postlens/internal/service/upload"
)

// UploadHandler 上传文件管理处理器
// @Description 上传文件生命周期管理相关的HTTP处理器
type UploadHandler struct {
	uploadService    uploadservice.UploadService
	retentionService retention.RetentionService
	mirrorService    backup.MirrorService
}

// NewUploadHandler 创建上传文件管理处理器实例
func NewUploadHandler(
	uploadService uploadservice.UploadService,
	retentionService retention.RetentionService,
	mirrorService backup.MirrorService,
) *UploadHandler {
	return &UploadHandler{
		uploadService:    uploadService,
		retentionService: retentionService,
		mirrorService:    mirrorService,
	}
}

// cleanupRequest 手动清理请求体
type cleanupRequest struct {
	Days int `json:"days"` // 保留天数，省略时使用配置值
}

// ListUploads 获取上传文件列表
// @Summary 获取上传文件列表
// @Description 枚举存储目录中的上传文件，最新的排在最前
// @Tags 上传管理
// @Produce json
// @Success 200 {object} map[string]interface{} "文件列表"
// @Router /api/uploads [get]
func (h *UploadHandler) ListUploads(c *gin.Context) {
	files := h.uploadService.ListFiles()
	response.Success(c, gin.H{
		"files": files,
		"count": len(files),
	})
}

// DeleteUpload 删除上传文件
// @Summary 删除上传文件
// @Description 按存储文件名删除单个上传文件
// @Tags 上传管理
// @Produce json
// @Param filename path string true "存储文件名"
// @Success 200 {object} map[string]interface{} "删除成功"
// @Failure 404 {object} map[string]interface{} "文件不存在"
// @Failure 500 {object} map[string]interface{} "删除失败"
// @Router /api/uploads/{filename} [delete]
func (h *UploadHandler) DeleteUpload(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" {
		response.BadRequest(c, "Filename is required.")
		return
	}

	if err := h.uploadService.DeleteFile(filename); err != nil {
		if errors.IsCode(err, errors.ErrUploadNotFound) {
			response.NotFound(c, "File not found.")
			return
		}
		logger.Errorf("Failed to delete upload %s: %v", filename, err)
		response.InternalServerError(c, "Failed to delete file.")
		return
	}

	go h.mirrorService.RemoveMirror(filename)

	response.SuccessWithMessage(c, "File deleted.", gin.H{
		"filename": filename,
	})
}

// TriggerCleanup 手动触发过期文件清理
// @Summary 手动触发过期文件清理
// @Description 删除超过保留期的上传文件，需要管理令牌
// @Tags 上传管理
// @Accept json
// @Produce json
// @Param X-Admin-Token header string true "管理令牌"
// @Param body body cleanupRequest false "可选的保留天数"
// @Success 200 {object} map[string]interface{} "清理结果"
// @Failure 401 {object} map[string]interface{} "令牌无效"
// @Failure 403 {object} map[string]interface{} "清理接口未启用"
// @Router /api/uploads/cleanup [post]
func (h *UploadHandler) TriggerCleanup(c *gin.Context) {
	var req cleanupRequest
	// 请求体可省略，解析失败按未指定处理
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Days = 0
	}

	var removed []string
	if req.Days > 0 {
		removed = h.uploadService.Cleanup(req.Days)
	} else {
		removed = h.retentionService.RunOnce()
	}

	for _, name := range removed {
		go h.mirrorService.RemoveMirror(name)
	}

	response.Success(c, gin.H{
		"removed": removed,
		"count":   len(removed),
	})
}
