package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/postlens/internal/analyzer"
	"github.com/weiwangfds/postlens/internal/database"
	"github.com/weiwangfds/postlens/internal/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupService 创建基于内存数据库的服务实例
func setupService(t *testing.T) AnalysisService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&database.AnalysisRecord{}))

	return NewAnalysisService(db, true)
}

func sampleResult(score int, caption string) analyzer.Result {
	return analyzer.Result{
		DeceptionScore:   score,
		ConsistencyScore: 100 - score,
		Explanations:     []string{"Analyzed media type: image."},
		MediaType:        analyzer.MediaTypeImage,
		MediaFilename:    "photo.jpg",
		Caption:          caption,
	}
}

func TestCreateAndGetByID(t *testing.T) {
	svc := setupService(t)

	record, err := svc.Create(sampleResult(55, "fake giveaway"))
	require.NoError(t, err)
	assert.Len(t, record.AnalysisID, 36)
	assert.Equal(t, 55, record.DeceptionScore)
	assert.Equal(t, 45, record.ConsistencyScore)
	assert.Equal(t, len("fake giveaway"), record.CaptionLength)
	assert.WithinDuration(t, time.Now().UTC(), record.CreatedAt, 5*time.Second)

	got, err := svc.GetByID(record.AnalysisID)
	require.NoError(t, err)
	assert.Equal(t, record.AnalysisID, got.AnalysisID)
	assert.Equal(t, "fake giveaway", got.Caption)

	assert.Equal(t, []string{"Analyzed media type: image."}, got.GetExplanations())
}

func TestGetByIDNotFound(t *testing.T) {
	svc := setupService(t)

	_, err := svc.GetByID("00000000-0000-0000-0000-000000000000")
	assert.True(t, errors.IsCode(err, errors.ErrAnalysisNotFound))
}

func TestListPagination(t *testing.T) {
	svc := setupService(t)

	for i := 0; i < 5; i++ {
		_, err := svc.Create(sampleResult(i*10, "caption"))
		require.NoError(t, err)
	}

	records, total, err := svc.List(2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, records, 2)
	// 最新写入的记录排在最前
	assert.Equal(t, 40, records[0].DeceptionScore)
	assert.Equal(t, 30, records[1].DeceptionScore)

	records, total, err = svc.List(2, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].DeceptionScore)
}

func TestListLimitClamped(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Create(sampleResult(10, "caption"))
	require.NoError(t, err)

	// 非正值取默认，超上限取上限，均不报错
	records, _, err := svc.List(0, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, _, err = svc.List(500, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestListByScoreRange(t *testing.T) {
	svc := setupService(t)

	for _, score := range []int{0, 20, 40, 60, 80} {
		_, err := svc.Create(sampleResult(score, "caption"))
		require.NoError(t, err)
	}

	// 闭区间，边界值包含在内
	records, err := svc.ListByScoreRange(20, 60, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.GreaterOrEqual(t, r.DeceptionScore, 20)
		assert.LessOrEqual(t, r.DeceptionScore, 60)
	}
}

func TestGetStats(t *testing.T) {
	svc := setupService(t)

	for _, score := range []int{20, 40, 60} {
		_, err := svc.Create(sampleResult(score, "caption"))
		require.NoError(t, err)
	}

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalCount)
	assert.InDelta(t, 40.0, stats.AvgDeceptionScore, 0.001)
	assert.InDelta(t, 60.0, stats.AvgConsistencyScore, 0.001)
	assert.Equal(t, 60, stats.MaxDeceptionScore)
	assert.Equal(t, 20, stats.MinDeceptionScore)
}

func TestGetStatsEmptyStore(t *testing.T) {
	svc := setupService(t)

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalCount)
	assert.Equal(t, 0.0, stats.AvgDeceptionScore)
	assert.Equal(t, 0.0, stats.AvgConsistencyScore)
	assert.Equal(t, 0, stats.MaxDeceptionScore)
	assert.Equal(t, 0, stats.MinDeceptionScore)
}

func TestDeleteByID(t *testing.T) {
	svc := setupService(t)

	record, err := svc.Create(sampleResult(30, "caption"))
	require.NoError(t, err)

	deleted, err := svc.DeleteByID(record.AnalysisID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteByID(record.AnalysisID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = svc.GetByID(record.AnalysisID)
	assert.True(t, errors.IsCode(err, errors.ErrAnalysisNotFound))
}

func TestDisabledStore(t *testing.T) {
	svc := NewAnalysisService(nil, false)
	assert.False(t, svc.Enabled())

	_, err := svc.Create(sampleResult(10, "caption"))
	assert.True(t, errors.IsCode(err, errors.ErrAnalysisStoreDisabled))

	_, err = svc.GetByID("any")
	assert.True(t, errors.IsCode(err, errors.ErrAnalysisStoreDisabled))

	_, _, err = svc.List(10, 0)
	assert.True(t, errors.IsCode(err, errors.ErrAnalysisStoreDisabled))

	_, err = svc.GetStats()
	assert.True(t, errors.IsCode(err, errors.ErrAnalysisStoreDisabled))

	_, err = svc.DeleteByID("any")
	assert.True(t, errors.IsCode(err, errors.ErrAnalysisStoreDisabled))
}
