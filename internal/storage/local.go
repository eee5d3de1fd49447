package storage

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// LocalStorage 把图片存在本地磁盘，通过 /uploads 静态路由对外提供
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, err
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (s *LocalStorage) Save(file *multipart.FileHeader, key string) (string, error) {
	dst := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		// 写到一半失败就不留半个文件
		os.Remove(dst)
		return "", err
	}

	return key, nil
}

func (s *LocalStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return os.Remove(filepath.Join(s.basePath, filepath.FromSlash(key)))
}
