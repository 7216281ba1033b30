package utils

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const maxSlugLength = 50

// Slugify lowercases a title and replaces every non-alphanumeric rune
// with an underscore, truncated for use as a filename stem.
func Slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	slug := b.String()
	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
	}
	return slug
}

// PointKey builds the per-item identifier stored alongside each vector.
func PointKey(contentID, category string, index int) string {
	return fmt.Sprintf("%s_%s_%d", contentID, category, index)
}

// PointID derives a deterministic UUID from a point key. Qdrant only
// accepts UUIDs or integers as point IDs, so the composite key itself
// goes into the payload and this derived UUID becomes the point ID.
func PointID(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

// ValidateURL parses a raw URL and requires both a scheme and a host.
func ValidateURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("url %q is missing a scheme or host", raw)
	}
	return parsed, nil
}
