package services

import (
	"errors"
	"quotes-backend/internal/models"
	"strings"

	"gorm.io/gorm"
)

type TopicService struct {
	db *gorm.DB
}

func NewTopicService(db *gorm.DB) *TopicService {
	return &TopicService{db: db}
}

// topicWithCount 用于接收联表查询结果
type topicWithCount struct {
	models.Topic
	QuoteCount int `gorm:"column:quote_count"`
}

// GetTopics 当前用户的主题，按名称排序，带引用数量
func (s *TopicService) GetTopics(userID uint) ([]models.Topic, error) {
	var rows []topicWithCount

	err := s.db.Table("topics").
		Select("topics.*, COALESCE(COUNT(quotes.id), 0) as quote_count").
		Joins("LEFT JOIN quotes ON quotes.topic_id = topics.id").
		Where("topics.user_id = ?", userID).
		Group("topics.id").
		Order("topics.name").
		Find(&rows).Error

	if err != nil {
		return nil, err
	}

	topics := make([]models.Topic, 0, len(rows))
	for _, row := range rows {
		topic := row.Topic
		topic.QuoteCount = row.QuoteCount
		topics = append(topics, topic)
	}

	return topics, nil
}

// GetOrCreateTopic 按名字取主题，没有就建一个
// 名字先去掉首尾空白，去完是空的直接拒绝
// 并发下两个请求建同名主题时，唯一索引保证只会落一条，
// 输的一方读回赢家那条，返回值第二项告诉调用方是不是新建的
func (s *TopicService) GetOrCreateTopic(userID uint, name string) (*models.Topic, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrTopicNameEmpty
	}

	var topic models.Topic
	err := s.db.Where("user_id = ? AND name = ?", userID, name).First(&topic).Error
	if err == nil {
		return &topic, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	topic = models.Topic{UserID: userID, Name: name}
	if err := s.db.Create(&topic).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := s.db.Where("user_id = ? AND name = ?", userID, name).First(&topic).Error; err != nil {
				return nil, false, err
			}
			return &topic, false, nil
		}
		return nil, false, err
	}

	return &topic, true, nil
}

// UpdateTopic 重命名主题，同样的去空白和重名规则
func (s *TopicService) UpdateTopic(topicID, userID uint, name string) (*models.Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTopicNameEmpty
	}

	var topic models.Topic
	err := s.db.Where("id = ? AND user_id = ?", topicID, userID).First(&topic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTopicNotFound
	}
	if err != nil {
		return nil, err
	}

	if topic.Name == name {
		return &topic, nil
	}

	var count int64
	if err := s.db.Model(&models.Topic{}).Where("user_id = ? AND name = ? AND id <> ?", userID, name, topicID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrTopicNameExists
	}

	topic.Name = name
	if err := s.db.Save(&topic).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTopicNameExists
		}
		return nil, err
	}

	return &topic, nil
}

// DeleteTopic 删除主题
// 引用不跟着删，只是回到未分类（topic_id 置空）
func (s *TopicService) DeleteTopic(topicID, userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var topic models.Topic
		err := tx.Where("id = ? AND user_id = ?", topicID, userID).First(&topic).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Quote{}).Where("topic_id = ?", topicID).
			Update("topic_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&topic).Error
	})
}
