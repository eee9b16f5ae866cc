package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weiwangfds/postlens/config"
)

func TestDisabledMirrorIsNoop(t *testing.T) {
	svc := NewMirrorService(config.BackupConfig{Enabled: false})

	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.TestConnection())

	// 未启用时镜像操作直接返回
	svc.MirrorUpload("name.jpg", "/nonexistent/path", "image/jpeg")
	svc.RemoveMirror("name.jpg")
}

func TestUnknownProviderDisablesMirror(t *testing.T) {
	svc := NewMirrorService(config.BackupConfig{
		Enabled:  true,
		Provider: "gcs",
	})

	assert.False(t, svc.Enabled())
}

func TestObjectKeyPrefix(t *testing.T) {
	s := &mirrorService{prefix: "uploads"}
	assert.Equal(t, "uploads/20240101120000000000_cat.jpg", s.objectKey("20240101120000000000_cat.jpg"))

	s = &mirrorService{prefix: ""}
	assert.Equal(t, "cat.jpg", s.objectKey("cat.jpg"))
}
