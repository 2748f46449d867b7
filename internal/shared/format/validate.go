package format

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

const MaxImageSize = 5 * 1024 * 1024

var (
	ErrImageType = errors.New("Invalid file type. Please upload a JPEG, PNG, or WebP image.")
	ErrImageSize = errors.New("File too large. Please upload an image smaller than 5MB.")
)

var (
	AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "\t", "")
)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPhone accepts up to 16 digits with an optional leading plus, ignoring spaces, dashes and parentheses.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phoneSeparators.Replace(phone))
}

// IsValidURL reports whether raw is an absolute URL.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

// ValidateImage checks an upload's content type and size before it is sent.
func ValidateImage(contentType string, size int64) error {
	allowed := false
	for _, t := range AllowedImageTypes {
		if strings.EqualFold(t, contentType) {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrImageType
	}
	if size > MaxImageSize {
		return ErrImageSize
	}
	return nil
}

// MenuURL builds the public menu address for a restaurant, optionally for one table.
func MenuURL(baseURL, slug, table string) string {
	u := strings.TrimRight(baseURL, "/") + "/menu/" + url.PathEscape(slug)
	if table != "" {
		u += "?table=" + url.QueryEscape(table)
	}
	return u
}
