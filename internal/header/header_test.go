package header

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseETags(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []ETag
	}{
		{"empty", "", nil},
		{"star", "*", []ETag{{Any: true}}},
		{"single quoted", `"v1"`, []ETag{{Opaque: "v1"}}},
		{"unquoted tolerated", "v1", []ETag{{Opaque: "v1"}}},
		{"weak", `W/"v1"`, []ETag{{Opaque: "v1", Weak: true}}},
		{
			"list with mixed tags",
			`"v1", W/"v2", "v3"`,
			[]ETag{{Opaque: "v1"}, {Opaque: "v2", Weak: true}, {Opaque: "v3"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseETags(tt.value))
		})
	}
}

func TestMatch(t *testing.T) {
	strong := ParseETags(`"v1"`)
	weak := ParseETags(`W/"v1"`)
	star := ParseETags("*")

	// Strong comparison: a weak tag never matches.
	assert.True(t, MatchStrong(strong, "v1"))
	assert.False(t, MatchStrong(weak, "v1"))
	assert.False(t, MatchStrong(strong, "v2"))
	assert.True(t, MatchStrong(star, "anything"))

	// Weak comparison ignores weakness.
	assert.True(t, MatchWeak(strong, "v1"))
	assert.True(t, MatchWeak(weak, "v1"))
	assert.False(t, MatchWeak(weak, "v2"))
	assert.True(t, MatchWeak(star, ""))
}

func TestFormatETag(t *testing.T) {
	assert.Equal(t, `"v1"`, FormatETag("v1"))
}

func TestParseDate(t *testing.T) {
	want := time.Date(1994, time.November, 6, 8, 49, 37, 0, time.UTC)

	for _, value := range []string{
		"Sun, 06 Nov 1994 08:49:37 GMT", // IMF-fixdate
		"Sunday, 06-Nov-94 08:49:37 GMT", // RFC 850
		"Sun Nov  6 08:49:37 1994",       // asctime
	} {
		got, ok := ParseDate(value)
		require.True(t, ok, value)
		assert.True(t, want.Equal(got), value)
	}

	_, ok := ParseDate("not a date")
	assert.False(t, ok)
	_, ok = ParseDate("")
	assert.False(t, ok)
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(1994, time.November, 6, 8, 49, 37, 0, time.UTC)
	assert.Equal(t, "Sun, 06 Nov 1994 08:49:37 GMT", FormatDate(ts))
}

func TestValidField(t *testing.T) {
	assert.True(t, ValidField("Content-Type", "text/html"))
	assert.False(t, ValidField("Content Type", "text/html"))
	assert.False(t, ValidField("Content-Type", "bad\x00value"))
}
