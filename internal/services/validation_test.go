package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsForbiddenKeyword(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"活潑親人的小狗", ""},
		{"已結紮，免費送養", ""},
		{"賣一隻貓", "賣"},
		{"出售純種柴犬", "出售"},
		{"只要 3000 元", "元"},
		{"可議價格", "價格"},
		{"轉讓給有緣人", "轉讓"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ContainsForbiddenKeyword(tt.text), tt.text)
	}
}

func TestCheckForbiddenContent(t *testing.T) {
	assert.Nil(t, checkForbiddenContent("小黑", "親人的狗", ""))

	err := checkForbiddenContent("小黑", "便宜賣", "")
	assert.NotNil(t, err)
	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, "賣", err.Detail["keyword"])
}
