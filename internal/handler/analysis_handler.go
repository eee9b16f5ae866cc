package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/postlens/internal/database"
	"github.com/weiwangfds/postlens/internal/errors"
	"github.com/weiwangfds/postlens/internal/logger"
	"github.com/weiwangfds/postlens/internal/response"
	analysisservice "github.com/weiwangfds/postlens/internal/service/analysis"
)

// AnalysisHandler 分析记录查询处理器
// @Description 历史分析记录查询相关的HTTP处理器
type AnalysisHandler struct {
	analysisService analysisservice.AnalysisService
}

// NewAnalysisHandler 创建分析记录查询处理器实例
func NewAnalysisHandler(analysisService analysisservice.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// requireEnabled 持久化未启用时返回501并中断请求
func (h *AnalysisHandler) requireEnabled(c *gin.Context) bool {
	if !h.analysisService.Enabled() {
		response.NotImplemented(c, "Analysis history is not enabled on this server.")
		return false
	}
	return true
}

// recordToJSON 将分析记录转换为响应结构
func recordToJSON(record *database.AnalysisRecord) gin.H {
	explanations := record.GetExplanations()
	if explanations == nil {
		logger.Warnf("Failed to decode explanations for record %s", record.AnalysisID)
		explanations = []string{}
	}

	return gin.H{
		"id":                record.AnalysisID,
		"deception_score":   record.DeceptionScore,
		"consistency_score": record.ConsistencyScore,
		"explanations":      explanations,
		"media_type":        record.MediaType,
		"media_filename":    record.MediaFilename,
		"link_url":          record.LinkURL,
		"caption":           record.Caption,
		"caption_length":    record.CaptionLength,
		"timestamp":         record.CreatedAt,
	}
}

// ListAnalyses 分页获取分析记录
// @Summary 分页获取分析记录
// @Description 按时间戳降序返回历史分析记录
// @Tags 分析记录
// @Produce json
// @Param limit query int false "返回条数上限" default(50)
// @Param skip query int false "跳过条数" default(0)
// @Success 200 {object} map[string]interface{} "记录列表"
// @Failure 501 {object} map[string]interface{} "持久化未启用"
// @Router /api/analyses [get]
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	if !h.requireEnabled(c) {
		return
	}

	limit := analysisservice.DefaultListLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
			limit = v
		}
	}

	skip := 0
	if skipStr := c.Query("skip"); skipStr != "" {
		if v, err := strconv.Atoi(skipStr); err == nil && v >= 0 {
			skip = v
		}
	}

	records, total, err := h.analysisService.List(limit, skip)
	if err != nil {
		if appErr, ok := errors.GetAppError(err); ok {
			response.Error(c, int(appErr.Code), appErr.Message)
		} else {
			response.InternalServerError(c, "Failed to query analysis records.")
		}
		return
	}

	list := make([]gin.H, 0, len(records))
	for i := range records {
		list = append(list, recordToJSON(&records[i]))
	}

	response.SuccessWithPage(c, list, total, limit, skip)
}

// GetAnalysis 获取单条分析记录
// @Summary 获取单条分析记录
// @Description 按记录ID返回分析记录详情
// @Tags 分析记录
// @Produce json
// @Param id path string true "记录ID"
// @Success 200 {object} map[string]interface{} "记录详情"
// @Failure 404 {object} map[string]interface{} "记录不存在"
// @Failure 501 {object} map[string]interface{} "持久化未启用"
// @Router /api/analyses/{id} [get]
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	if !h.requireEnabled(c) {
		return
	}

	analysisID := c.Param("id")
	record, err := h.analysisService.GetByID(analysisID)
	if err != nil {
		if errors.IsCode(err, errors.ErrAnalysisNotFound) {
			response.NotFound(c, "Analysis record not found.")
			return
		}
		if appErr, ok := errors.GetAppError(err); ok {
			response.Error(c, int(appErr.Code), appErr.Message)
		} else {
			response.InternalServerError(c, "Failed to query analysis record.")
		}
		return
	}

	response.Success(c, recordToJSON(record))
}

// ListByScoreRange 按评分区间获取分析记录
// @Summary 按评分区间获取分析记录
// @Description 返回欺骗性评分在闭区间内的记录，按时间戳降序
// @Tags 分析记录
// @Produce json
// @Param min query int false "评分下限" default(0)
// @Param max query int false "评分上限" default(100)
// @Param limit query int false "返回条数上限" default(50)
// @Success 200 {object} map[string]interface{} "记录列表"
// @Failure 400 {object} map[string]interface{} "区间参数无效"
// @Failure 501 {object} map[string]interface{} "持久化未启用"
// @Router /api/analyses/score-range [get]
func (h *AnalysisHandler) ListByScoreRange(c *gin.Context) {
	if !h.requireEnabled(c) {
		return
	}

	minScore := 0
	if minStr := c.Query("min"); minStr != "" {
		v, err := strconv.Atoi(minStr)
		if err != nil {
			response.BadRequest(c, "Invalid min score.")
			return
		}
		minScore = v
	}

	maxScore := 100
	if maxStr := c.Query("max"); maxStr != "" {
		v, err := strconv.Atoi(maxStr)
		if err != nil {
			response.BadRequest(c, "Invalid max score.")
			return
		}
		maxScore = v
	}

	if minScore > maxScore {
		response.BadRequest(c, "Min score cannot be greater than max score.")
		return
	}

	limit := analysisservice.DefaultListLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
			limit = v
		}
	}

	records, err := h.analysisService.ListByScoreRange(minScore, maxScore, limit)
	if err != nil {
		if appErr, ok := errors.GetAppError(err); ok {
			response.Error(c, int(appErr.Code), appErr.Message)
		} else {
			response.InternalServerError(c, "Failed to query analysis records.")
		}
		return
	}

	list := make([]gin.H, 0, len(records))
	for i := range records {
		list = append(list, recordToJSON(&records[i]))
	}

	response.Success(c, gin.H{
		"list":  list,
		"count": len(list),
	})
}

// GetStats 获取分析记录统计信息
// @Summary 获取分析记录统计信息
// @Description 返回记录总数与评分聚合统计，空库返回全零
// @Tags 分析记录
// @Produce json
// @Success 200 {object} map[string]interface{} "统计信息"
// @Failure 501 {object} map[string]interface{} "持久化未启用"
// @Router /api/analyses/stats [get]
func (h *AnalysisHandler) GetStats(c *gin.Context) {
	if !h.requireEnabled(c) {
		return
	}

	stats, err := h.analysisService.GetStats()
	if err != nil {
		if appErr, ok := errors.GetAppError(err); ok {
			response.Error(c, int(appErr.Code), appErr.Message)
		} else {
			response.InternalServerError(c, "Failed to compute statistics.")
		}
		return
	}

	response.Success(c, stats)
}

// DeleteAnalysis 删除分析记录
// @Summary 删除分析记录
// @Description 按记录ID删除单条分析记录
// @Tags 分析记录
// @Produce json
// @Param id path string true "记录ID"
// @Success 200 {object} map[string]interface{} "删除结果"
// @Failure 404 {object} map[string]interface{} "记录不存在"
// @Failure 501 {object} map[string]interface{} "持久化未启用"
// @Router /api/analyses/{id} [delete]
func (h *AnalysisHandler) DeleteAnalysis(c *gin.Context) {
	if !h.requireEnabled(c) {
		return
	}

	analysisID := c.Param("id")
	deleted, err := h.analysisService.DeleteByID(analysisID)
	if err != nil {
		if appErr, ok := errors.GetAppError(err); ok {
			response.Error(c, int(appErr.Code), appErr.Message)
		} else {
			response.InternalServerError(c, "Failed to delete analysis record.")
		}
		return
	}

	if !deleted {
		response.NotFound(c, "Analysis record not found.")
		return
	}

	response.SuccessWithMessage(c, "Analysis record deleted.", gin.H{
		"id": analysisID,
	})
}
