package services

import "errors"

// 业务错误
// handler 根据这些错误决定返回 404 还是 422
// 引用/主题不存在和不属于当前用户统一返回"不存在"，不暴露别人的数据
var (
	ErrQuoteNotFound   = errors.New("引用不存在")
	ErrTopicNotFound   = errors.New("主题不存在")
	ErrTopicNameEmpty  = errors.New("主题名称不能为空")
	ErrTopicNameExists = errors.New("主题名称已存在")
	ErrUsernameExists  = errors.New("用户名已存在")
	ErrEmailExists     = errors.New("邮箱已存在")
	ErrInvalidLogin    = errors.New("邮箱或密码错误")
	ErrImageConflict   = errors.New("不能同时上传新图片和清除图片")
)
