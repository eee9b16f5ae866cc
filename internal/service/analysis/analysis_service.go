// Package analysis 提供分析记录的持久化服务
// 记录由功能开关控制是否落库，关闭时所有操作返回存储未启用错误
// 记录ID与时间戳由本服务在写入时生成
package analysis

import (
	stderrors "errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/weiwangfds/postlens/internal/analyzer"
	"github.com/weiwangfds/postlens/internal/database"
	"github.com/weiwangfds/postlens/internal/errors"
	"github.com/weiwangfds/postlens/internal/logger"
	"gorm.io/gorm"
)

// 列表查询条数约束
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// Stats 分析记录统计信息
type Stats struct {
	TotalCount          int64   `json:"total_count"`           // 记录总数
	AvgDeceptionScore   float64 `json:"avg_deception_score"`   // 平均欺骗性评分
	AvgConsistencyScore float64 `json:"avg_consistency_score"` // 平均一致性评分
	MaxDeceptionScore   int     `json:"max_deception_score"`   // 最高欺骗性评分
	MinDeceptionScore   int     `json:"min_deception_score"`   // 最低欺骗性评分
}

// AnalysisService 分析记录存储服务接口
// 所有读操作均不修改数据；存储未启用时统一返回ErrAnalysisStoreDisabled
type AnalysisService interface {
	// Enabled 返回持久化功能是否启用
	// 调用方应在请求持久化前先查询此能力
	Enabled() bool

	// Create 持久化一次评分结果
	// 参数:
	//   result - 评分引擎输出
	// 返回:
	//   *database.AnalysisRecord - 含服务端生成的记录ID和时间戳
	//   error - 错误信息
	// 注意:
	//   - caption_length在写入时派生
	//   - 写入失败由调用方决定是否继续流程
	Create(result analyzer.Result) (*database.AnalysisRecord, error)

	// GetByID 按记录ID查询
	GetByID(analysisID string) (*database.AnalysisRecord, error)

	// List 分页查询，按时间戳降序
	// limit超过100按100处理，非正值按默认50处理；skip非负
	List(limit, skip int) ([]database.AnalysisRecord, int64, error)

	// ListByScoreRange 按欺骗性评分区间查询（闭区间），按时间戳降序
	ListByScoreRange(minScore, maxScore, limit int) ([]database.AnalysisRecord, error)

	// GetStats 聚合统计；空库返回全零而非错误
	GetStats() (*Stats, error)

	// DeleteByID 按记录ID删除
	// 返回:
	//   bool - 是否删除了记录
	DeleteByID(analysisID string) (bool, error)

	// CountTotal 返回记录总数
	CountTotal() (int64, error)
}

// analysisService 分析记录存储服务实现
type analysisService struct {
	db      *gorm.DB // 数据库连接，未启用时为nil
	enabled bool     // 功能开关
}

// NewAnalysisService 创建分析记录存储服务实例
// 参数:
//
//	db - 数据库连接，功能未启用时可为nil
//	enabled - 持久化功能开关
func NewAnalysisService(db *gorm.DB, enabled bool) AnalysisService {
	if enabled && db == nil {
		logger.Warnf("Analysis store enabled but database is nil, disabling persistence")
		enabled = false
	}
	if !enabled {
		logger.Info("Analysis store disabled, scoring results will not be persisted")
	}
	return &analysisService{db: db, enabled: enabled}
}

// Enabled 返回持久化功能是否启用
func (s *analysisService) Enabled() bool {
	return s.enabled
}

// Create 持久化一次评分结果
func (s *analysisService) Create(result analyzer.Result) (*database.AnalysisRecord, error) {
	if !s.enabled {
		return nil, errors.ErrAnalysisStoreDisabledError
	}

	record := &database.AnalysisRecord{
		AnalysisID:       uuid.New().String(),
		DeceptionScore:   result.DeceptionScore,
		ConsistencyScore: result.ConsistencyScore,
		MediaType:        result.MediaType,
		MediaFilename:    result.MediaFilename,
		LinkURL:          result.LinkURL,
		Caption:          result.Caption,
		CaptionLength:    utf8.RuneCountInString(result.Caption),
		CreatedAt:        time.Now().UTC(),
	}
	if err := record.SetExplanations(result.Explanations); err != nil {
		return nil, errors.Wrap(errors.ErrAnalysisSaveFailed, errors.GetErrorMessage(errors.ErrAnalysisSaveFailed), err)
	}

	if err := s.db.Create(record).Error; err != nil {
		logger.Errorf("Failed to store analysis record: %v", err)
		return nil, errors.Wrap(errors.ErrAnalysisSaveFailed, errors.GetErrorMessage(errors.ErrAnalysisSaveFailed), err)
	}

	logger.Infof("Analysis stored: %s", record.AnalysisID)
	return record, nil
}

// GetByID 按记录ID查询
func (s *analysisService) GetByID(analysisID string) (*database.AnalysisRecord, error) {
	if !s.enabled {
		return nil, errors.ErrAnalysisStoreDisabledError
	}

	var record database.AnalysisRecord
	if err := s.db.Where("analysis_id = ?", analysisID).First(&record).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrAnalysisNotFoundError.WithDetails(analysisID)
		}
		return nil, errors.Wrap(errors.ErrAnalysisQueryFailed, errors.GetErrorMessage(errors.ErrAnalysisQueryFailed), err)
	}
	return &record, nil
}

// List 分页查询，按时间戳降序
func (s *analysisService) List(limit, skip int) ([]database.AnalysisRecord, int64, error) {
	if !s.enabled {
		return nil, 0, errors.ErrAnalysisStoreDisabledError
	}

	limit = clampLimit(limit)
	if skip < 0 {
		skip = 0
	}

	var total int64
	if err := s.db.Model(&database.AnalysisRecord{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(errors.ErrAnalysisQueryFailed, errors.GetErrorMessage(errors.ErrAnalysisQueryFailed), err)
	}

	var records []database.AnalysisRecord
	if err := s.db.Order("created_at DESC, id DESC").Offset(skip).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, errors.Wrap(errors.ErrAnalysisQueryFailed, errors.GetErrorMessage(errors.ErrAnalysisQueryFailed), err)
	}

	return records, total, nil
}

// ListByScoreRange 按欺骗性评分区间查询（闭区间），按时间戳降序
func (s *analysisService) ListByScoreRange(minScore, maxScore, limit int) ([]database.AnalysisRecord, error) {
	if !s.enabled {
		return nil, errors.ErrAnalysisStoreDisabledError
	}

	limit = clampLimit(limit)

	var records []database.AnalysisRecord
	if err := s.db.
		Where("deception_score >= ? AND deception_score <= ?", minScore, maxScore).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, errors.Wrap(errors.ErrAnalysisQueryFailed, errors.GetErrorMessage(errors.ErrAnalysisQueryFailed), err)
	}

	return records, nil
}

// GetStats 聚合统计；空库返回全零而非错误
func (s *analysisService) GetStats() (*Stats, error) {
	if !s.enabled {
		return nil, errors.ErrAnalysisStoreDisabledError
	}

	var stats Stats
	err := s.db.Model(&database.AnalysisRecord{}).
		Select("COUNT(*) as total_count, " +
			"COALESCE(AVG(deception_score), 0) as avg_deception_score, " +
			"COALESCE(AVG(consistency_score), 0) as avg_consistency_score, " +
			"COALESCE(MAX(deception_score), 0) as max_deception_score, " +
			"COALESCE(MIN(deception_score), 0) as min_deception_score").
		Scan(&stats).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrAnalysisQueryFailed, errors.GetErrorMessage(errors.ErrAnalysisQueryFailed), err)
	}

	return &stats, nil
}

// DeleteByID 按记录ID删除
func (s *analysisService) DeleteByID(analysisID string) (bool, error) {
	if !s.enabled {
		return false, errors.ErrAnalysisStoreDisabledError
	}

	result := s.db.Where("analysis_id = ?", analysisID).Delete(&database.AnalysisRecord{})
	if result.Error != nil {
		return false, errors.Wrap(errors.ErrAnalysisDeleteFailed, errors.GetErrorMessage(errors.ErrAnalysisDeleteFailed), result.Error)
	}

	return result.RowsAffected > 0, nil
}

// CountTotal 返回记录总数
func (s *analysisService) CountTotal() (int64, error) {
	if !s.enabled {
		return 0, errors.ErrAnalysisStoreDisabledError
	}

	var total int64
	if err := s.db.Model(&database.AnalysisRecord{}).Count(&total).Error; err != nil {
		return 0, errors.Wrap(errors.ErrAnalysisQueryFailed, errors.GetErrorMessage(errors.ErrAnalysisQueryFailed), err)
	}
	return total, nil
}

// clampLimit 归一化列表条数参数
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
