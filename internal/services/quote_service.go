package services

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"mime/multipart"
	"path/filepath"
	"quotes-backend/internal/models"
	"quotes-backend/internal/storage"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type QuoteService struct {
	db    *gorm.DB
	store storage.Storage
}

func NewQuoteService(db *gorm.DB, store storage.Storage) *QuoteService {
	return &QuoteService{db: db, store: store}
}

// scoped 所有读写的起点：先锁定 owner，再叠加其它条件
// 不走这里的查询不允许出现在这个文件里
func (s *QuoteService) scoped(userID uint) *gorm.DB {
	return s.db.Model(&models.Quote{}).Where("user_id = ?", userID)
}

// checkTopicOwner 确认主题属于当前用户
// 别人的主题 ID 既不能带出结果也不能挂到自己的引用上
func (s *QuoteService) checkTopicOwner(topicID, userID uint) error {
	var count int64
	if err := s.db.Model(&models.Topic{}).Where("id = ? AND user_id = ?", topicID, userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrTopicNotFound
	}
	return nil
}

// GetQuotes 引用列表，所有过滤条件都是可选的，彼此用 AND 组合
// 搜索词同时匹配文字和出处（OR），最新创建的排前面
func (s *QuoteService) GetQuotes(userID uint, req *models.QuoteListRequest) ([]models.Quote, *models.Pagination, error) {
	query := s.scoped(userID)

	if req.TopicID != nil {
		if err := s.checkTopicOwner(*req.TopicID, userID); err != nil {
			return nil, nil, err
		}
		query = query.Where("topic_id = ?", *req.TopicID)
	}

	if req.Q != "" {
		pattern := "%" + escapeLike(req.Q) + "%"
		query = query.Where(s.db.Where(`text ILIKE ? ESCAPE '\'`, pattern).Or(`source ILIKE ? ESCAPE '\'`, pattern))
	}

	if req.FavoriteOnly {
		query = query.Where("is_favorite = ?", true)
	}

	if req.WithImageOnly {
		query = query.Where("image_path IS NOT NULL AND image_path <> ''")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (req.Page - 1) * req.Limit
	pages := int(math.Ceil(float64(total) / float64(req.Limit)))

	var quotes []models.Quote
	err := query.Preload("Topic").
		Order("created_at DESC").Limit(req.Limit).Offset(offset).Find(&quotes).Error
	if err != nil {
		return nil, nil, err
	}

	pagination := &models.Pagination{
		Page:  req.Page,
		Limit: req.Limit,
		Total: int(total),
		Pages: pages,
	}

	return quotes, pagination, nil
}

// GetInbox 未分类的引用，等着被归到某个主题下
func (s *QuoteService) GetInbox(userID uint) ([]models.Quote, error) {
	var quotes []models.Quote
	err := s.scoped(userID).Where("topic_id IS NULL").
		Order("created_at DESC").Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

// GetRandomQuote 随机返回一条引用，没有引用时返回 nil
// 先取出全部 ID 再随机挑一个下标，不用 ORDER BY random()（会全表排序）
func (s *QuoteService) GetRandomQuote(userID uint) (*models.Quote, error) {
	var ids []uint
	if err := s.scoped(userID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, nil
	}

	id := ids[rand.Intn(len(ids))]

	var quote models.Quote
	if err := s.db.Preload("Topic").First(&quote, id).Error; err != nil {
		// 抽中的那条在两次查询之间被删了，当作没有引用处理
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

func (s *QuoteService) GetQuoteByID(quoteID, userID uint) (*models.Quote, error) {
	var quote models.Quote
	err := s.db.Preload("Topic").
		Where("id = ? AND user_id = ?", quoteID, userID).First(&quote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// CreateQuote 创建引用
// owner 一律取当前登录用户，客户端传什么都不认
// 图片先落存储再写库，写库失败时把已存的图片清掉，不留半条记录
func (s *QuoteService) CreateQuote(userID uint, req *models.QuoteCreateRequest, image *multipart.FileHeader) (*models.Quote, error) {
	if strings.TrimSpace(req.Text) == "" && image == nil {
		return nil, models.ErrQuoteEmpty
	}

	if req.TopicID != nil {
		if err := s.checkTopicOwner(*req.TopicID, userID); err != nil {
			return nil, err
		}
	}

	quote := models.Quote{
		UserID:     userID,
		TopicID:    req.TopicID,
		Text:       req.Text,
		Source:     req.Source,
		IsFavorite: req.IsFavorite,
	}

	if image != nil {
		key, err := s.store.Save(image, imageKey(userID, image.Filename))
		if err != nil {
			return nil, fmt.Errorf("图片保存失败: %w", err)
		}
		quote.ImagePath = &key
	}

	if err := s.db.Create(&quote).Error; err != nil {
		if quote.HasImage() {
			if delErr := s.store.Delete(*quote.ImagePath); delErr != nil {
				logrus.WithError(delErr).Warn("清理图片失败")
			}
		}
		return nil, err
	}

	s.db.Preload("Topic").First(&quote, quote.ID)

	return &quote, nil
}

// UpdateQuote 编辑引用
// owner 不可变：这里从不改 UserID，查询本身也只会命中自己的记录
func (s *QuoteService) UpdateQuote(quoteID, userID uint, req *models.QuoteUpdateRequest, image *multipart.FileHeader) (*models.Quote, error) {
	var quote models.Quote
	err := s.db.Where("id = ? AND user_id = ?", quoteID, userID).First(&quote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.TopicID != nil {
		if err := s.checkTopicOwner(*req.TopicID, userID); err != nil {
			return nil, err
		}
	}

	// 换图和清图只能二选一
	if req.ClearImage && image != nil {
		return nil, ErrImageConflict
	}

	// 没传新图片时保留旧图，清空文字就要求图片还在
	if strings.TrimSpace(req.Text) == "" && image == nil && (req.ClearImage || !quote.HasImage()) {
		return nil, models.ErrQuoteEmpty
	}

	oldPath := ""
	if quote.HasImage() {
		oldPath = *quote.ImagePath
	}

	if image != nil {
		key, err := s.store.Save(image, imageKey(userID, image.Filename))
		if err != nil {
			return nil, fmt.Errorf("图片保存失败: %w", err)
		}
		quote.ImagePath = &key
	}
	if req.ClearImage {
		quote.ImagePath = nil
	}

	quote.Text = req.Text
	quote.Source = req.Source
	quote.TopicID = req.TopicID
	quote.IsFavorite = req.IsFavorite

	if err := s.db.Save(&quote).Error; err != nil {
		if image != nil && quote.HasImage() {
			if delErr := s.store.Delete(*quote.ImagePath); delErr != nil {
				logrus.WithError(delErr).Warn("清理图片失败")
			}
		}
		return nil, err
	}

	// 保存成功后再删旧图，换图和清图都要删
	if oldPath != "" && (req.ClearImage || (image != nil && oldPath != *quote.ImagePath)) {
		if delErr := s.store.Delete(oldPath); delErr != nil {
			logrus.WithError(delErr).Warn("删除旧图片失败")
		}
	}

	s.db.Preload("Topic").First(&quote, quote.ID)

	return &quote, nil
}

func (s *QuoteService) DeleteQuote(quoteID, userID uint) error {
	var quote models.Quote
	err := s.db.Where("id = ? AND user_id = ?", quoteID, userID).First(&quote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrQuoteNotFound
	}
	if err != nil {
		return err
	}

	if err := s.db.Delete(&quote).Error; err != nil {
		return err
	}

	if quote.HasImage() {
		if delErr := s.store.Delete(*quote.ImagePath); delErr != nil {
			logrus.WithError(delErr).Warn("删除图片失败")
		}
	}

	return nil
}

// ToggleFavorite 收藏开关：开了就关，关了就开
// 连按两次回到原样
func (s *QuoteService) ToggleFavorite(quoteID, userID uint) (*models.Quote, error) {
	var quote models.Quote
	err := s.db.Where("id = ? AND user_id = ?", quoteID, userID).First(&quote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, err
	}

	quote.IsFavorite = !quote.IsFavorite

	if err := s.db.Save(&quote).Error; err != nil {
		return nil, err
	}

	return &quote, nil
}

func (s *QuoteService) GetUserStats(userID uint) (*models.QuoteStats, error) {
	var stats models.QuoteStats

	if err := s.scoped(userID).Count(&stats.TotalQuotes).Error; err != nil {
		return nil, err
	}

	if err := s.scoped(userID).Where("is_favorite = ?", true).Count(&stats.FavoriteQuotes).Error; err != nil {
		return nil, err
	}

	if err := s.scoped(userID).Where("image_path IS NOT NULL AND image_path <> ''").Count(&stats.WithImage).Error; err != nil {
		return nil, err
	}

	if err := s.scoped(userID).Where("topic_id IS NULL").Count(&stats.InboxQuotes).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Topic{}).Where("user_id = ?", userID).Count(&stats.TotalTopics).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

// escapeLike 搜索词按字面匹配，% _ \ 不当通配符用
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func imageKey(userID uint, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("users/%d/quotes/%s%s", userID, uuid.New().String(), ext)
}
