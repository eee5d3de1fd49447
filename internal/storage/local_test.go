package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFileHeader 构造一个带内容的 multipart.FileHeader
func newFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["image"][0]
}

func TestLocalStorageSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	file := newFileHeader(t, "a.png", []byte("fake-png-bytes"))

	key, err := store.Save(file, "users/1/quotes/abc.png")
	require.NoError(t, err)
	assert.Equal(t, "users/1/quotes/abc.png", key)

	data, err := os.ReadFile(filepath.Join(dir, "users", "1", "quotes", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png-bytes"), data)

	require.NoError(t, store.Delete(key))
	_, err = os.Stat(filepath.Join(dir, "users", "1", "quotes", "abc.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageDeleteEmptyKey(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(""))
}
