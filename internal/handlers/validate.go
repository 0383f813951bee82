package handlers

import (
	"strings"
	"unicode/utf8"

	"taxonomy/internal/models"
)

// Validation limits for set and category fields. They mirror the column
// sizes of the PostgreSQL schema.
const (
	maxSetNameLen      = 255
	maxSetKeyLen       = 100
	maxCategoryNameLen = 255
	maxDescriptionLen  = 5_000
	maxLocaleLen       = 35
	maxNamesPerRequest = 500
)

// validateSet checks set inputs and returns the first error found.
func validateSet(name, key string) error {
	name = strings.TrimSpace(name)
	key = strings.TrimSpace(key)
	if name == "" {
		return models.Validation("name", "is required")
	}
	if utf8.RuneCountInString(name) > maxSetNameLen {
		return models.Validation("name", "is too long (max 255 characters)")
	}
	if key == "" {
		return models.Validation("key", "is required")
	}
	if utf8.RuneCountInString(key) > maxSetKeyLen {
		return models.Validation("key", "is too long (max 100 characters)")
	}
	if strings.ContainsAny(key, " /?#") {
		return models.Validation("key", "must not contain spaces, '/', '?' or '#'")
	}
	return nil
}

// validateCategory checks explicit category creation inputs.
func validateCategory(name, description, locale string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Validation("name", "is required")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return models.Validation("name", "is too long (max 255 characters)")
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return models.Validation("description", "is too long (max 5,000 characters)")
	}
	return validateLocale(locale)
}

// validateLocale checks an optional locale tag.
func validateLocale(locale string) error {
	if utf8.RuneCountInString(strings.TrimSpace(locale)) > maxLocaleLen {
		return models.Validation("locale", "is too long (max 35 characters)")
	}
	return nil
}

// validateNames checks the names of an assignment request.
func validateNames(names []string) error {
	if len(names) > maxNamesPerRequest {
		return models.Validation("names", "too many names (max 500)")
	}
	for _, n := range names {
		if utf8.RuneCountInString(n) > maxCategoryNameLen {
			return models.Validation("names", "%q is too long (max 255 characters)", n)
		}
	}
	return nil
}
