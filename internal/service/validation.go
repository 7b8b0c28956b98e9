package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"campusvibe/internal/models"
)

// Input limits shared by the services.
const (
	MaxContentLength  = 2000
	MaxQuestionLength = 500
	MaxOptionLength   = 200
	MaxCaptionLength  = 500
	MaxExpiryHours    = 168
	maxDeviceIDLength = 256
)

func normalizeContent(field, content string, max int) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.NewValidationError(field + " is required")
	}
	if utf8.RuneCountInString(content) > max {
		return "", models.NewValidationError(fmt.Sprintf("%s too long (max %d characters)", field, max))
	}
	return content, nil
}

func parseCategory(raw string, required bool) (models.Category, error) {
	category := models.Category(strings.ToLower(strings.TrimSpace(raw)))
	if category == "" && !required {
		return "", nil
	}
	if !category.Valid() {
		return "", models.NewValidationError("Invalid category")
	}
	return category, nil
}

// expiryFrom turns an optional lifetime in hours into an absolute expiry.
// A nil lifetime never expires; an explicit zero is rejected like any other
// out-of-range value.
func expiryFrom(now time.Time, hours *int) (*time.Time, error) {
	if hours == nil {
		return nil, nil
	}
	if *hours <= 0 || *hours > MaxExpiryHours {
		return nil, models.NewValidationError(fmt.Sprintf("expiresInHours must be between 1 and %d", MaxExpiryHours))
	}
	at := now.Add(time.Duration(*hours) * time.Hour)
	return &at, nil
}

func optionalURL(raw *string) *string {
	if raw == nil {
		return nil
	}
	v := strings.TrimSpace(*raw)
	if v == "" {
		return nil
	}
	return &v
}

func requireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return models.NewValidationError(field + " is required")
	}
	return nil
}
