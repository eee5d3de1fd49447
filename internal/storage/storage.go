package storage

import (
	"fmt"
	"mime/multipart"
	"quotes-backend/internal/config"
)

// Storage 图片存储
// Save 成功后返回存储引用（key），数据库里只存这个引用
type Storage interface {
	Save(file *multipart.FileHeader, key string) (string, error)
	Delete(key string) error
}

func New(cfg *config.Config) (Storage, error) {
	switch cfg.Upload.Driver {
	case "", "local":
		return NewLocalStorage(cfg.Upload.Path)
	case "s3":
		return NewS3Storage(cfg.S3)
	default:
		return nil, fmt.Errorf("未知的存储驱动: %s", cfg.Upload.Driver)
	}
}
