package validation

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	maxTitleLength = 200
	maxTextLength  = 5000
)

// RequiredText checks a required free-text field such as a goal title or a comment.
func RequiredText(field, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return invalid(field, fmt.Sprintf("%s is required", field))
	}

	limit := maxTextLength
	if field == "title" {
		limit = maxTitleLength
	}
	if len(trimmed) > limit {
		return invalid(field, fmt.Sprintf("%s is too long (max %d characters)", field, limit))
	}

	return nil
}

// PictureURL accepts an empty value or an http(s) URL / absolute path.
func PictureURL(value string) error {
	if value == "" || strings.HasPrefix(value, "/") {
		return nil
	}

	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("picture", "picture must be an http(s) URL or an absolute path")
	}

	return nil
}
