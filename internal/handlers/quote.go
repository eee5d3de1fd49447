package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"quotes-backend/internal/config"
	"quotes-backend/internal/models"
	"quotes-backend/internal/services"
	"quotes-backend/internal/utils"
	pkgvalidator "quotes-backend/pkg/validator"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type QuoteHandler struct {
	quoteService *services.QuoteService
	config       *config.Config
	validator    *validator.Validate
}

func NewQuoteHandler(quoteService *services.QuoteService, cfg *config.Config) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		config:       cfg,
		validator:    pkgvalidator.GetValidator(),
	}
}

func (h *QuoteHandler) GetQuotes(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var req models.QuoteListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	// 设置默认值
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
	}

	quotes, pagination, err := h.quoteService.GetQuotes(userID.(uint), &req)
	if err != nil {
		if errors.Is(err, services.ErrTopicNotFound) {
			utils.NotFound(c, err.Error())
			return
		}
		utils.InternalError(c)
		return
	}

	utils.Success(c, gin.H{
		"quotes":     quotes,
		"pagination": pagination,
	})
}

func (h *QuoteHandler) GetInbox(c *gin.Context) {
	userID, _ := c.Get("user_id")

	quotes, err := h.quoteService.GetInbox(userID.(uint))
	if err != nil {
		utils.InternalError(c)
		return
	}

	utils.Success(c, quotes)
}

func (h *QuoteHandler) GetRandomQuote(c *gin.Context) {
	userID, _ := c.Get("user_id")

	quote, err := h.quoteService.GetRandomQuote(userID.(uint))
	if err != nil {
		utils.InternalError(c)
		return
	}

	// 没有任何引用时返回空数据，不算错误
	if quote == nil {
		utils.SuccessWithMessage(c, "还没有任何引用", nil)
		return
	}

	utils.Success(c, quote)
}

func (h *QuoteHandler) GetUserStats(c *gin.Context) {
	userID, _ := c.Get("user_id")

	stats, err := h.quoteService.GetUserStats(userID.(uint))
	if err != nil {
		utils.InternalError(c)
		return
	}

	utils.Success(c, stats)
}

func (h *QuoteHandler) GetQuote(c *gin.Context) {
	userID, _ := c.Get("user_id")

	quoteID, err := parseIDParam(c)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "无效的引用ID")
		return
	}

	quote, err := h.quoteService.GetQuoteByID(quoteID, userID.(uint))
	if err != nil {
		if errors.Is(err, services.ErrQuoteNotFound) {
			utils.NotFound(c, err.Error())
			return
		}
		utils.InternalError(c)
		return
	}

	utils.Success(c, quote)
}

func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var req models.QuoteCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	// 字段级校验在前，跨字段的"不能为空"在后
	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	// 图片是可选的
	image, err := c.FormFile("image")
	if err != nil {
		image = nil
	}
	if image != nil {
		if msg := h.checkImage(image); msg != "" {
			utils.ValidationError(c, msg)
			return
		}
	}

	quote, err := h.quoteService.CreateQuote(userID.(uint), &req, image)
	if err != nil {
		h.writeQuoteError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "创建成功", quote)
}

func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	userID, _ := c.Get("user_id")

	quoteID, err := parseIDParam(c)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "无效的引用ID")
		return
	}

	var req models.QuoteUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationError(c, err.Error())
		return
	}

	image, err := c.FormFile("image")
	if err != nil {
		image = nil
	}
	if image != nil {
		if msg := h.checkImage(image); msg != "" {
			utils.ValidationError(c, msg)
			return
		}
	}

	quote, err := h.quoteService.UpdateQuote(quoteID, userID.(uint), &req, image)
	if err != nil {
		h.writeQuoteError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "更新成功", quote)
}

func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	userID, _ := c.Get("user_id")

	quoteID, err := parseIDParam(c)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "无效的引用ID")
		return
	}

	if err := h.quoteService.DeleteQuote(quoteID, userID.(uint)); err != nil {
		if errors.Is(err, services.ErrQuoteNotFound) {
			utils.NotFound(c, err.Error())
			return
		}
		utils.InternalError(c)
		return
	}

	utils.SuccessWithMessage(c, "删除成功", nil)
}

func (h *QuoteHandler) ToggleFavorite(c *gin.Context) {
	userID, _ := c.Get("user_id")

	quoteID, err := parseIDParam(c)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "无效的引用ID")
		return
	}

	quote, err := h.quoteService.ToggleFavorite(quoteID, userID.(uint))
	if err != nil {
		if errors.Is(err, services.ErrQuoteNotFound) {
			utils.NotFound(c, err.Error())
			return
		}
		utils.InternalError(c)
		return
	}

	message := "已取消收藏"
	if quote.IsFavorite {
		message = "已收藏"
	}
	utils.SuccessWithMessage(c, message, quote)
}

// writeQuoteError 创建/编辑共用的错误映射
// 空引用和挂错主题都是验证失败，区分开返回
func (h *QuoteHandler) writeQuoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrQuoteEmpty):
		utils.ValidationError(c, err.Error())
	case errors.Is(err, services.ErrTopicNotFound):
		utils.ValidationError(c, err.Error())
	case errors.Is(err, services.ErrImageConflict):
		utils.ValidationError(c, err.Error())
	case errors.Is(err, services.ErrQuoteNotFound):
		utils.NotFound(c, err.Error())
	default:
		utils.InternalError(c)
	}
}

func (h *QuoteHandler) checkImage(image *multipart.FileHeader) string {
	if !h.config.IsImageType(filepath.Ext(image.Filename)) {
		return "不支持的图片格式"
	}
	if image.Size > h.config.Upload.MaxImageSize {
		return "图片大小超出限制"
	}
	return ""
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
