// Package database 定义了分析记录相关的数据库模型
package database

import (
	"encoding/json"
	"time"
)

// AnalysisRecord 分析记录模型
// 保存一次帖子欺骗性评分的完整结果
// 记录ID和时间戳由存储层在写入时生成
type AnalysisRecord struct {
	ID               uint      `gorm:"primarykey" json:"-"`                             // 主键ID，自增
	AnalysisID       string    `gorm:"uniqueIndex;not null;size:36" json:"id"`          // 记录唯一标识符（UUID格式）
	DeceptionScore   int       `gorm:"not null;index" json:"deception_score"`           // 欺骗性评分 [0,100]
	ConsistencyScore int       `gorm:"not null" json:"consistency_score"`               // 一致性评分，恒等于100-欺骗性评分
	Explanations     string    `gorm:"type:text;not null" json:"-"`                     // 评分解释列表，JSON编码保持顺序
	MediaType        string    `gorm:"not null;size:16" json:"media_type"`              // 媒体类型: image/video/unknown
	MediaFilename    string    `gorm:"not null;size:255" json:"media_filename"`         // 原始媒体文件名
	LinkURL          string    `gorm:"size:2048" json:"link_url"`                       // 外部链接，可为空
	Caption          string    `gorm:"type:text;not null" json:"caption"`               // 帖子文案
	CaptionLength    int       `gorm:"not null" json:"caption_length"`                  // 文案长度（字符数），写入时派生
	CreatedAt        time.Time `gorm:"index" json:"timestamp"`                          // 记录创建时间，由存储层指定
}

// TableName 指定AnalysisRecord模型对应的数据库表名
func (AnalysisRecord) TableName() string {
	return "analysis_records"
}

// SetExplanations 将解释列表编码后写入模型
func (r *AnalysisRecord) SetExplanations(explanations []string) error {
	data, err := json.Marshal(explanations)
	if err != nil {
		return err
	}
	r.Explanations = string(data)
	return nil
}

// GetExplanations 解码模型中保存的解释列表
func (r *AnalysisRecord) GetExplanations() []string {
	var explanations []string
	if err := json.Unmarshal([]byte(r.Explanations), &explanations); err != nil {
		return nil
	}
	return explanations
}
