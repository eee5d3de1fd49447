package models

import (
	"time"
)

// Topic 主题，用来给引用分类
// 同一个用户下主题名唯一，不同用户可以用同一个名字
type Topic struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_topics_user_name"`
	Name      string    `json:"name" gorm:"size:50;not null;uniqueIndex:idx_topics_user_name"`
	CreatedAt time.Time `json:"created_at"`

	// 关联
	User   User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Quotes []Quote `json:"quotes,omitempty" gorm:"foreignKey:TopicID"`

	// 计算字段
	QuoteCount int `json:"quote_count,omitempty" gorm:"-"`
}

type TopicCreateRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}
