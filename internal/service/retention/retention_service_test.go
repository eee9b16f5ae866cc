package retention

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/postlens/config"
	"github.com/weiwangfds/postlens/internal/service/upload"
)

func setupService(t *testing.T) (RetentionService, string) {
	t.Helper()

	dir := t.TempDir()
	uploadCfg := config.UploadConfig{
		StoragePath:       dir,
		MaxFileSize:       1024,
		AllowedExtensions: []string{"jpg"},
		RetentionDays:     30,
		CleanupInterval:   24,
	}
	uploadSvc := upload.NewUploadService(uploadCfg)
	return NewRetentionService(uploadSvc, uploadCfg), dir
}

func TestRunOnceRemovesExpiredUploads(t *testing.T) {
	svc, dir := setupService(t)

	oldFile := filepath.Join(dir, "20240101120000000000_old.jpg")
	require.NoError(t, os.WriteFile(oldFile, []byte("x"), 0644))
	past := time.Now().UTC().AddDate(0, 0, -31)
	require.NoError(t, os.Chtimes(oldFile, past, past))

	newFile := filepath.Join(dir, "20250101120000000000_new.jpg")
	require.NoError(t, os.WriteFile(newFile, []byte("x"), 0644))

	removed := svc.RunOnce()
	assert.Equal(t, []string{"20240101120000000000_old.jpg"}, removed)
	assert.NoFileExists(t, oldFile)
	assert.FileExists(t, newFile)
}

func TestStartStop(t *testing.T) {
	svc, _ := setupService(t)

	require.NoError(t, svc.Start(context.Background()))
	// 重复启动返回错误
	assert.Error(t, svc.Start(context.Background()))

	require.NoError(t, svc.Stop())
	// 重复停止为幂等操作
	require.NoError(t, svc.Stop())

	// 停止后可再次启动
	require.NoError(t, svc.Start(context.Background()))
	require.NoError(t, svc.Stop())
}
