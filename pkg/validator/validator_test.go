package validator

import (
	"quotes-backend/internal/models"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegisterRequest(t *testing.T) {
	err := ValidateStruct(&models.UserRegisterRequest{
		Username: "ana", Email: "ana@example.com", Password: "secret1",
	})
	assert.NoError(t, err)

	err = ValidateStruct(&models.UserRegisterRequest{
		Username: "ab", Email: "no-es-email", Password: "123",
	})
	assert.Error(t, err)
}

func TestValidateQuoteSourceLength(t *testing.T) {
	err := ValidateStruct(&models.QuoteCreateRequest{Source: strings.Repeat("a", 200)})
	assert.NoError(t, err)

	err = ValidateStruct(&models.QuoteCreateRequest{Source: strings.Repeat("a", 201)})
	assert.Error(t, err)
	// 错误信息用 json 标签名报字段
	assert.Contains(t, err.Error(), "source")
}

func TestValidateTopicName(t *testing.T) {
	err := ValidateStruct(&models.TopicCreateRequest{Name: "Filosofía"})
	assert.NoError(t, err)

	err = ValidateStruct(&models.TopicCreateRequest{Name: ""})
	assert.Error(t, err)

	err = ValidateStruct(&models.TopicCreateRequest{Name: strings.Repeat("a", 51)})
	assert.Error(t, err)
}
