package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrQuoteEmpty 文字和图片都为空时返回
var ErrQuoteEmpty = errors.New("引用不能为空，至少需要文字或图片")

// Quote 引用，可以只有文字、只有图片、或两者都有
// 删除主题时引用不会被删，只是回到未分类状态（TopicID 置空）
type Quote struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	TopicID    *uint     `json:"topic_id" gorm:"index"`
	Text       string    `json:"text" gorm:"type:text"`
	ImagePath  *string   `json:"image_path" gorm:"size:500"`
	Source     string    `json:"source" gorm:"size:200"`
	IsFavorite bool      `json:"is_favorite" gorm:"default:false;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time `json:"updated_at"`

	// 关联
	User  User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Topic *Topic `json:"topic,omitempty" gorm:"foreignKey:TopicID;constraint:OnDelete:SET NULL"`
}

func (q *Quote) HasImage() bool {
	return q.ImagePath != nil && *q.ImagePath != ""
}

// BeforeSave 持久层兜底：绕过表单校验直接保存也不允许空引用入库
func (q *Quote) BeforeSave(tx *gorm.DB) error {
	if strings.TrimSpace(q.Text) == "" && !q.HasImage() {
		return ErrQuoteEmpty
	}
	return nil
}

type QuoteCreateRequest struct {
	Text       string `form:"text" json:"text"`
	Source     string `form:"source" json:"source" validate:"max=200"`
	TopicID    *uint  `form:"topic_id" json:"topic_id"`
	IsFavorite bool   `form:"is_favorite" json:"is_favorite"`
}

type QuoteUpdateRequest struct {
	Text       string `form:"text" json:"text"`
	Source     string `form:"source" json:"source" validate:"max=200"`
	TopicID    *uint  `form:"topic_id" json:"topic_id"`
	IsFavorite bool   `form:"is_favorite" json:"is_favorite"`
	// ClearImage 删掉现有图片且不换新图
	ClearImage bool `form:"clear_image" json:"clear_image"`
}

type QuoteListRequest struct {
	Page          int    `form:"page"`
	Limit         int    `form:"limit"`
	Q             string `form:"q"`
	FavoriteOnly  bool   `form:"favorite_only"`
	WithImageOnly bool   `form:"with_image_only"`
	TopicID       *uint  `form:"topic_id"`
}

type QuoteStats struct {
	TotalQuotes    int64 `json:"total_quotes"`
	FavoriteQuotes int64 `json:"favorite_quotes"`
	WithImage      int64 `json:"with_image"`
	InboxQuotes    int64 `json:"inbox_quotes"`
	TotalTopics    int64 `json:"total_topics"`
}
