package walk

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	v := Value(42)
	assert.True(t, v.IsValue())
	assert.Equal(t, 42, v.Value())

	h := Halt[int](http.StatusTeapot, []byte("short and stout"))
	assert.True(t, h.IsHalt())
	assert.Equal(t, http.StatusTeapot, h.Status())
	assert.Equal(t, []byte("short and stout"), h.Body())

	cause := errors.New("boom")
	e := Error[int](cause)
	assert.True(t, e.IsError())
	assert.Equal(t, http.StatusInternalServerError, e.Status())
	assert.Equal(t, cause, e.Err())
	assert.Zero(t, e.Value())
}

func TestContextCopyOnWrite(t *testing.T) {
	base := NewContext(Request{Method: http.MethodGet, Path: "/x"})
	base = base.WithHeader("X-A", "1")

	derived := base.
		WithHeader("X-A", "2").
		WithAddedHeader("X-B", "b1").
		WithAddedHeader("X-B", "b2").
		WithStatus(http.StatusOK).
		WithBody([]byte("body")).
		WithVary("Accept")

	// The parent context is untouched by anything derived from it.
	assert.Equal(t, "1", base.Resp.GetHeader("X-A"))
	assert.Empty(t, base.Resp.GetHeader("X-B"))
	assert.Zero(t, base.Resp.Code)
	assert.Nil(t, base.Resp.Body)
	assert.Empty(t, base.Resp.Vary)

	assert.Equal(t, "2", derived.Resp.GetHeader("X-A"))
	assert.Equal(t, []string{"b1", "b2"}, derived.Resp.Header[http.CanonicalHeaderKey("X-B")])
	assert.Equal(t, http.StatusOK, derived.Resp.Code)
	assert.Equal(t, []byte("body"), derived.Resp.Body)
	assert.Equal(t, []string{"Accept"}, derived.Resp.Vary)
}

func TestWithVaryDeduplicates(t *testing.T) {
	c := NewContext(Request{}).WithVary("Accept").WithVary("Accept-Charset").WithVary("Accept")
	assert.Equal(t, []string{"Accept", "Accept-Charset"}, c.Resp.Vary)
}

func TestWithHeaders(t *testing.T) {
	c := NewContext(Request{}).WithHeaders(map[string]string{"Allow": "GET", "X-Extra": "1"})
	assert.Equal(t, "GET", c.Resp.GetHeader("Allow"))
	assert.Equal(t, "1", c.Resp.GetHeader("X-Extra"))
}

func TestRequestAccessors(t *testing.T) {
	h := http.Header{}
	h.Set("If-None-Match", `"v1"`)
	h.Set("X-Empty", "")
	req := Request{
		Method:   http.MethodGet,
		Path:     "/items/42",
		RawQuery: "debug=1&x=2",
		Header:   h,
	}

	assert.Equal(t, `"v1"`, req.GetHeader("if-none-match"))
	assert.True(t, req.HasHeader("If-None-Match"))
	assert.True(t, req.HasHeader("X-Empty"), "present with empty value still counts")
	assert.False(t, req.HasHeader("If-Match"))

	q := req.Query()
	require.NotNil(t, q)
	assert.Equal(t, "1", q.Get("debug"))

	var empty Request
	assert.Equal(t, "", empty.GetHeader("Anything"))
	assert.False(t, empty.HasHeader("Anything"))
}
