package services

import (
	"strings"
)

// forbiddenKeywords are sale-related terms rejected in listing text. The
// platform is adoption only, so any hint of a commercial transaction blocks
// the submission.
var forbiddenKeywords = []string{
	"出售", "販賣", "賣", "買", "購買", "售", "販售",
	"價格", "價錢", "費用", "元", "塊", "錢",
	"交易", "轉讓", "轉售", "轉賣",
}

// ContainsForbiddenKeyword returns the first forbidden keyword found in the
// text, or "" when the text is clean.
func ContainsForbiddenKeyword(text string) string {
	for _, keyword := range forbiddenKeywords {
		if strings.Contains(text, keyword) {
			return keyword
		}
	}
	return ""
}

// checkForbiddenContent scans all user-facing text fields of a listing.
func checkForbiddenContent(fields ...string) *Error {
	for _, field := range fields {
		if keyword := ContainsForbiddenKeyword(field); keyword != "" {
			return NewValidationError("內容包含禁止的關鍵字：" + keyword).
				WithDetail("keyword", keyword)
		}
	}
	return nil
}
