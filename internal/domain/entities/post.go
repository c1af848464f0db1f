package entities

import "time"

// PostStatus 帖子分析状态枚举
type PostStatus string

const (
	PostStatusPending  PostStatus = "pending"
	PostStatusAnalyzed PostStatus = "analyzed"
	PostStatusSkipped  PostStatus = "skipped"
)

// Post 社交媒体帖子实体
type Post struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	ExternalID string     `json:"external_id" gorm:"not null;size:200;uniqueIndex"` // 源平台帖子ID
	Author     string     `json:"author" gorm:"size:200"`
	Content    string     `json:"content" gorm:"type:text"` // 原始内容（可能含HTML）
	MediaType  MediaType  `json:"media_type" gorm:"not null;size:20;default:'text'"`
	MediaURL   *string    `json:"media_url,omitempty" gorm:"size:1000"`
	PostedAt   *time.Time `json:"posted_at,omitempty"`
	Status     PostStatus `json:"status" gorm:"not null;size:20;default:'pending';index"`

	// 分析结果
	IsRelevant           *bool      `json:"is_relevant,omitempty"`
	AnalyticalBriefing   *string    `json:"analytical_briefing,omitempty" gorm:"type:text"`
	Summary              *string    `json:"summary,omitempty" gorm:"type:text"`
	Translation          *string    `json:"translation,omitempty" gorm:"type:text"`
	AnalyzedByProviderID *int64     `json:"analyzed_by_provider_id,omitempty"`
	AnalyzedAt           *time.Time `json:"analyzed_at,omitempty"`
	FailureReason        *string    `json:"failure_reason,omitempty" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;autoUpdateTime"`
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}

// IsPending 检查帖子是否待分析
func (p *Post) IsPending() bool {
	return p.Status == PostStatusPending
}
