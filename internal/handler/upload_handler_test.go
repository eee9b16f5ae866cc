package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/postlens/config"
	"github.com/weiwangfds/postlens/internal/middleware"
	"github.com/weiwangfds/postlens/internal/service/backup"
	"github.com/weiwangfds/postlens/internal/service/retention"
	uploadservice "github.com/weiwangfds/postlens/internal/service/upload"
)

// setupUploadRouter 构建带上传管理路由的测试引擎
func setupUploadRouter(t *testing.T, cleanupToken string) (*gin.Engine, uploadservice.UploadService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uploadCfg := config.UploadConfig{
		StoragePath:       t.TempDir(),
		MaxFileSize:       1024 * 1024,
		AllowedExtensions: []string{"jpg", "png"},
		RetentionDays:     30,
		CleanupToken:      cleanupToken,
		CleanupInterval:   24,
	}
	uploadSvc := uploadservice.NewUploadService(uploadCfg)
	retentionSvc := retention.NewRetentionService(uploadSvc, uploadCfg)
	mirrorSvc := backup.NewMirrorService(config.BackupConfig{})

	h := NewUploadHandler(uploadSvc, retentionSvc, mirrorSvc)

	engine := gin.New()
	uploads := engine.Group("/api/uploads")
	{
		uploads.GET("", h.ListUploads)
		uploads.DELETE("/:filename", h.DeleteUpload)
		uploads.POST("/cleanup", middleware.AdminTokenAuth(cleanupToken), h.TriggerCleanup)
	}
	return engine, uploadSvc
}

func TestListUploads(t *testing.T) {
	engine, uploadSvc := setupUploadRouter(t, "")

	stored, err := uploadSvc.SaveFile("cat.jpg", strings.NewReader("data"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/uploads", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])

	files := data["files"].([]interface{})
	first := files[0].(map[string]interface{})
	assert.Equal(t, stored, first["filename"])
}

func TestDeleteUpload(t *testing.T) {
	engine, uploadSvc := setupUploadRouter(t, "")

	stored, err := uploadSvc.SaveFile("cat.jpg", strings.NewReader("data"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/uploads/"+stored, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// 再次删除返回404
	req = httptest.NewRequest(http.MethodDelete, "/api/uploads/"+stored, nil)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCleanupRequiresConfiguredToken(t *testing.T) {
	// 未配置令牌时清理接口永久禁用
	engine, _ := setupUploadRouter(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/cleanup", nil)
	req.Header.Set(middleware.AdminTokenHeader, "anything")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCleanupRejectsBadToken(t *testing.T) {
	engine, _ := setupUploadRouter(t, "secret-token")

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/cleanup", nil)
	req.Header.Set(middleware.AdminTokenHeader, "wrong-token")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCleanupWithValidToken(t *testing.T) {
	engine, _ := setupUploadRouter(t, "secret-token")

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/cleanup",
		bytes.NewBufferString(`{"days": 7}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.AdminTokenHeader, "secret-token")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, 0, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(0), data["count"])
}
