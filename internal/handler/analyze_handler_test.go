package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/postlens/config"
	"github.com/weiwangfds/postlens/internal/database"
	"github.com/weiwangfds/postlens/internal/response"
	analysisservice "github.com/weiwangfds/postlens/internal/service/analysis"
	"github.com/weiwangfds/postlens/internal/service/backup"
	uploadservice "github.com/weiwangfds/postlens/internal/service/upload"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupAnalyzeRouter 构建带analyze路由的测试引擎
func setupAnalyzeRouter(t *testing.T, analysisEnabled bool) (*gin.Engine, analysisservice.AnalysisService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uploadCfg := config.UploadConfig{
		StoragePath:       t.TempDir(),
		MaxFileSize:       1024 * 1024,
		AllowedExtensions: []string{"jpg", "jpeg", "png", "mp4"},
		RetentionDays:     30,
		CleanupInterval:   24,
	}
	uploadSvc := uploadservice.NewUploadService(uploadCfg)

	var db *gorm.DB
	if analysisEnabled {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		require.NoError(t, err)
		require.NoError(t, db.AutoMigrate(&database.AnalysisRecord{}))
	}
	analysisSvc := analysisservice.NewAnalysisService(db, analysisEnabled)
	mirrorSvc := backup.NewMirrorService(config.BackupConfig{})

	h := NewAnalyzeHandler(uploadSvc, analysisSvc, mirrorSvc)

	engine := gin.New()
	engine.POST("/analyze", h.Analyze)
	return engine, analysisSvc
}

// multipartBody 构建multipart请求体
func multipartBody(t *testing.T, filename, contentType string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if filename != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="media"; filename="%s"`, filename))
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("media bytes"))
		require.NoError(t, err)
	}

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func postAnalyze(engine *gin.Engine, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAnalyzeScoresPost(t *testing.T) {
	engine, _ := setupAnalyzeRouter(t, false)

	body, contentType := multipartBody(t, "x.jpg", "image/jpeg", map[string]string{
		"caption": "fake",
	})
	w := postAnalyze(engine, body, contentType)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, 0, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(55), data["deception_score"])
	assert.Equal(t, float64(45), data["consistency_score"])
	assert.Equal(t, "image", data["media_type"])
	assert.Equal(t, "x.jpg", data["media_filename"])
	assert.Equal(t, "fake", data["caption"])
	// 未启用持久化时记录ID为空
	assert.Equal(t, "", data["id"])
	assert.True(t, strings.HasSuffix(data["stored_filename"].(string), "_x.jpg"))
	assert.NotEmpty(t, data["explanations"])
}

func TestAnalyzeMissingMedia(t *testing.T) {
	engine, _ := setupAnalyzeRouter(t, false)

	body, contentType := multipartBody(t, "", "", map[string]string{
		"caption": "some caption",
	})
	w := postAnalyze(engine, body, contentType)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "No media file uploaded.", resp.Message)
}

func TestAnalyzeUnsupportedExtension(t *testing.T) {
	engine, _ := setupAnalyzeRouter(t, false)

	body, contentType := multipartBody(t, "script.exe", "application/octet-stream", map[string]string{
		"caption": "some caption",
	})
	w := postAnalyze(engine, body, contentType)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Contains(t, resp.Message, "Unsupported file type")
}

func TestAnalyzeMissingCaption(t *testing.T) {
	engine, _ := setupAnalyzeRouter(t, false)

	// 纯空白文案按缺失处理
	body, contentType := multipartBody(t, "x.jpg", "image/jpeg", map[string]string{
		"caption": "   ",
	})
	w := postAnalyze(engine, body, contentType)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "Please enter a caption for the post.", resp.Message)
}

func TestAnalyzeCaptionTooLong(t *testing.T) {
	engine, _ := setupAnalyzeRouter(t, false)

	body, contentType := multipartBody(t, "x.jpg", "image/jpeg", map[string]string{
		"caption": strings.Repeat("a", 5001),
	})
	w := postAnalyze(engine, body, contentType)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Contains(t, resp.Message, "too long")
}

func TestAnalyzeUnknownMediaType(t *testing.T) {
	engine, _ := setupAnalyzeRouter(t, false)

	// 声明的MIME既非image也非video时媒体类型为unknown
	body, contentType := multipartBody(t, "x.jpg", "application/octet-stream", map[string]string{
		"caption": "a perfectly ordinary descriptive caption",
	})
	w := postAnalyze(engine, body, contentType)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "unknown", data["media_type"])
}

func TestAnalyzePersistsWhenEnabled(t *testing.T) {
	engine, analysisSvc := setupAnalyzeRouter(t, true)

	body, contentType := multipartBody(t, "x.jpg", "image/jpeg", map[string]string{
		"caption":  "fake",
		"link_url": "http://example.com",
	})
	w := postAnalyze(engine, body, contentType)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})

	recordID := data["id"].(string)
	require.Len(t, recordID, 36)

	// 附链接但文案未提及链接，额外+10
	record, err := analysisSvc.GetByID(recordID)
	require.NoError(t, err)
	assert.Equal(t, 65, record.DeceptionScore)
	assert.Equal(t, "fake", record.Caption)
	assert.Equal(t, "http://example.com", record.LinkURL)
}
