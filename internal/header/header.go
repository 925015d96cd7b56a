// Package header implements parsing and comparison for the HTTP header
// grammars the decision engine evaluates: entity tags, HTTP dates, and
// header field validity.
package header

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"
)

// ETag is one entity tag from an ETag, If-Match, or If-None-Match field.
type ETag struct {
	// Opaque is the tag value without quotes or the W/ prefix.
	Opaque string

	// Weak reports a W/"..." tag.
	Weak bool

	// Any reports the special "*" tag, which matches any current
	// representation.
	Any bool
}

// ParseETags parses a comma-separated entity-tag list as found in
// If-Match and If-None-Match. Unquoted values are tolerated, matching
// what real clients send. An empty input yields nil.
func ParseETags(value string) []ETag {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if value == "*" {
		return []ETag{{Any: true}}
	}
	var tags []ETag
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "*" {
			tags = append(tags, ETag{Any: true})
			continue
		}
		weak := false
		if strings.HasPrefix(part, "W/") || strings.HasPrefix(part, "w/") {
			weak = true
			part = part[2:]
		}
		part = strings.Trim(part, `"`)
		tags = append(tags, ETag{Opaque: part, Weak: weak})
	}
	return tags
}

// FormatETag quotes an opaque tag value for the ETag response header.
func FormatETag(opaque string) string {
	return `"` + opaque + `"`
}

// MatchStrong reports whether any tag in the list strongly matches the
// given opaque value. A weak tag never matches strongly, and "*" matches
// every representation. Used for If-Match.
func MatchStrong(tags []ETag, opaque string) bool {
	for _, t := range tags {
		if t.Any {
			return true
		}
		if !t.Weak && t.Opaque == opaque {
			return true
		}
	}
	return false
}

// MatchWeak reports whether any tag in the list weakly matches the given
// opaque value: weakness is ignored and only the opaque values are
// compared. "*" matches every representation. Used for If-None-Match.
func MatchWeak(tags []ETag, opaque string) bool {
	for _, t := range tags {
		if t.Any || t.Opaque == opaque {
			return true
		}
	}
	return false
}

// ParseDate parses an HTTP-date in any of the three formats the spec
// allows (RFC 1123, RFC 850, ANSI C asctime). The second return value is
// false for dates that do not parse; callers ignore such conditionals.
func ParseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := http.ParseTime(value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t in the fixed IMF-fixdate form used for
// Last-Modified, Expires, and friends.
func FormatDate(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}

// ValidField reports whether name and value form a legal header field.
func ValidField(name, value string) bool {
	return httpguts.ValidHeaderFieldName(name) && httpguts.ValidHeaderFieldValue(value)
}
