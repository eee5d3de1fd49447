package handlers

import (
	"errors"
	"net/http"
	"quotes-backend/internal/models"
	"quotes-backend/internal/services"
	"quotes-backend/internal/utils"
	pkgvalidator "quotes-backend/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type TopicHandler struct {
	topicService *services.TopicService
	validator    *validator.Validate
}

func NewTopicHandler(topicService *services.TopicService) *TopicHandler {
	return &TopicHandler{
		topicService: topicService,
		validator:    pkgvalidator.GetValidator(),
	}
}

func (h *TopicHandler) GetTopics(c *gin.Context) {
	userID, _ := c.Get("user_id")

	topics, err := h.topicService.GetTopics(userID.(uint))
	if err != nil {
		utils.InternalError(c)
		return
	}

	utils.Success(c, topics)
}

// CreateTopic get-or-create 语义：同名主题已存在时返回已有的那个
// 响应里的 created 告诉前端该提示"创建成功"还是"已存在"
func (h *TopicHandler) CreateTopic(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var req models.TopicCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	topic, created, err := h.topicService.GetOrCreateTopic(userID.(uint), req.Name)
	if err != nil {
		if errors.Is(err, services.ErrTopicNameEmpty) {
			utils.ValidationError(c, err.Error())
			return
		}
		utils.InternalError(c)
		return
	}

	message := "主题已存在"
	if created {
		message = "主题创建成功"
	}
	utils.SuccessWithMessage(c, message, gin.H{
		"topic":   topic,
		"created": created,
	})
}

func (h *TopicHandler) UpdateTopic(c *gin.Context) {
	userID, _ := c.Get("user_id")

	topicID, err := parseIDParam(c)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "无效的主题ID")
		return
	}

	var req models.TopicCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	topic, err := h.topicService.UpdateTopic(topicID, userID.(uint), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTopicNotFound):
			utils.NotFound(c, err.Error())
		case errors.Is(err, services.ErrTopicNameEmpty), errors.Is(err, services.ErrTopicNameExists):
			utils.ValidationError(c, err.Error())
		default:
			utils.InternalError(c)
		}
		return
	}

	utils.SuccessWithMessage(c, "更新成功", topic)
}

func (h *TopicHandler) DeleteTopic(c *gin.Context) {
	userID, _ := c.Get("user_id")

	topicID, err := parseIDParam(c)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "无效的主题ID")
		return
	}

	if err := h.topicService.DeleteTopic(topicID, userID.(uint)); err != nil {
		if errors.Is(err, services.ErrTopicNotFound) {
			utils.NotFound(c, err.Error())
			return
		}
		utils.InternalError(c)
		return
	}

	// 主题下的引用不会被删，只是回到未分类
	utils.SuccessWithMessage(c, "删除成功", nil)
}
