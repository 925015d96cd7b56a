package flow

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getdecider/decider/pkg/resource"
	"github.com/getdecider/decider/pkg/walk"
)

func mustDate(s string) time.Time {
	t, err := http.ParseTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestIfMatch(t *testing.T) {
	tests := []struct {
		name     string
		etag     string
		ifMatch  string
		wantCode int
	}{
		{"strong match", "v1", `"v1"`, http.StatusOK},
		{"mismatch", "v1", `"v2"`, http.StatusPreconditionFailed},
		{"star matches anything", "v1", "*", http.StatusOK},
		{"weak tag never strong-matches", "v1", `W/"v1"`, http.StatusPreconditionFailed},
		{"one of several", "v1", `"v0", "v1"`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := resource.Default()
			r.GenerateETag = resource.Const(tt.etag)
			resp := New().Run(testCtx(http.MethodGet, "/", map[string]string{
				"If-Match": tt.ifMatch,
			}), r)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestIfNoneMatch(t *testing.T) {
	r := resource.Default()
	r.AllowedMethods = resource.Const([]string{http.MethodGet, http.MethodPut})
	r.GenerateETag = resource.Const("v1")

	t.Run("get match is 304 with no body", func(t *testing.T) {
		resp := New().Run(testCtx(http.MethodGet, "/", map[string]string{
			"If-None-Match": `"v1"`,
		}), r)
		assert.Equal(t, http.StatusNotModified, resp.Code)
		assert.Empty(t, resp.Body)
		assert.Equal(t, `"v1"`, resp.GetHeader("ETag"))
	})

	t.Run("weak comparison matches W-prefixed tag", func(t *testing.T) {
		resp := New().Run(testCtx(http.MethodGet, "/", map[string]string{
			"If-None-Match": `W/"v1"`,
		}), r)
		assert.Equal(t, http.StatusNotModified, resp.Code)
	})

	t.Run("put match is 412", func(t *testing.T) {
		resp := New().Run(testCtx(http.MethodPut, "/", map[string]string{
			"If-None-Match": `"v1"`,
		}), r)
		assert.Equal(t, http.StatusPreconditionFailed, resp.Code)
	})

	t.Run("mismatch proceeds", func(t *testing.T) {
		resp := New().Run(testCtx(http.MethodGet, "/", map[string]string{
			"If-None-Match": `"v2"`,
		}), r)
		assert.Equal(t, http.StatusOK, resp.Code)
	})
}

func TestIfModifiedSince(t *testing.T) {
	lastMod := mustDate("Mon, 02 Jan 2006 15:04:05 GMT")
	r := resource.Default()
	r.LastModified = resource.Const(lastMod)

	tests := []struct {
		name     string
		since    string
		wantCode int
	}{
		{"unchanged since", "Tue, 03 Jan 2006 15:04:05 GMT", http.StatusNotModified},
		{"exactly last-modified", "Mon, 02 Jan 2006 15:04:05 GMT", http.StatusNotModified},
		{"modified since", "Sun, 01 Jan 2006 15:04:05 GMT", http.StatusOK},
		{"unparseable date ignored", "not a date", http.StatusOK},
		{"future date ignored", "Fri, 01 Jan 2100 00:00:00 GMT", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := New().Run(testCtx(http.MethodGet, "/", map[string]string{
				"If-Modified-Since": tt.since,
			}), r)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestIfUnmodifiedSince(t *testing.T) {
	lastMod := mustDate("Mon, 02 Jan 2006 15:04:05 GMT")
	r := resource.Default()
	r.LastModified = resource.Const(lastMod)

	t.Run("modified after is 412", func(t *testing.T) {
		resp := New().Run(testCtx(http.MethodGet, "/", map[string]string{
			"If-Unmodified-Since": "Sun, 01 Jan 2006 15:04:05 GMT",
		}), r)
		assert.Equal(t, http.StatusPreconditionFailed, resp.Code)
	})

	t.Run("unmodified proceeds", func(t *testing.T) {
		resp := New().Run(testCtx(http.MethodGet, "/", map[string]string{
			"If-Unmodified-Since": "Tue, 03 Jan 2006 15:04:05 GMT",
		}), r)
		assert.Equal(t, http.StatusOK, resp.Code)
	})
}

func TestConditionalPrecedence(t *testing.T) {
	// If-Match is evaluated before If-None-Match: a failing If-Match wins
	// even when If-None-Match would have produced a 304.
	r := resource.Default()
	r.GenerateETag = resource.Const("v1")

	resp := New().Run(testCtx(http.MethodGet, "/", map[string]string{
		"If-Match":      `"other"`,
		"If-None-Match": `"v1"`,
	}), r)
	assert.Equal(t, http.StatusPreconditionFailed, resp.Code)
}

func TestIfNoneMatchSuppressesIfModifiedSince(t *testing.T) {
	lastMod := mustDate("Mon, 02 Jan 2006 15:04:05 GMT")
	r := resource.Default()
	r.GenerateETag = resource.Const("v1")
	r.LastModified = resource.Const(lastMod)

	// If-None-Match misses, so the walk proceeds even though the
	// If-Modified-Since alone would have said 304.
	resp := New().Run(testCtx(http.MethodGet, "/", map[string]string{
		"If-None-Match":     `"stale"`,
		"If-Modified-Since": "Tue, 03 Jan 2006 15:04:05 GMT",
	}), r)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestMissingBranch(t *testing.T) {
	gone := func() *resource.Resource {
		r := resource.Default()
		r.ResourceExists = resource.Const(false)
		return r
	}

	t.Run("if-match on missing is 412", func(t *testing.T) {
		resp := New().Run(testCtx(http.MethodGet, "/", map[string]string{
			"If-Match": "*",
		}), gone())
		assert.Equal(t, http.StatusPreconditionFailed, resp.Code)
	})

	t.Run("moved permanently", func(t *testing.T) {
		r := gone()
		r.MovedPermanently = resource.Const("/new-home")
		resp := New().Run(testCtx(http.MethodGet, "/", nil), r)
		assert.Equal(t, http.StatusMovedPermanently, resp.Code)
		assert.Equal(t, "/new-home", resp.GetHeader("Location"))
	})

	t.Run("moved temporarily", func(t *testing.T) {
		r := gone()
		r.MovedTemporarily = resource.Const("/elsewhere")
		resp := New().Run(testCtx(http.MethodGet, "/", nil), r)
		assert.Equal(t, http.StatusTemporaryRedirect, resp.Code)
		assert.Equal(t, "/elsewhere", resp.GetHeader("Location"))
	})

	t.Run("previously existed", func(t *testing.T) {
		r := gone()
		r.PreviouslyExisted = resource.Const(true)
		resp := New().Run(testCtx(http.MethodGet, "/", nil), r)
		assert.Equal(t, http.StatusGone, resp.Code)
	})

	t.Run("never existed", func(t *testing.T) {
		resp := New().Run(testCtx(http.MethodGet, "/", nil), gone())
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func acceptJSON(handled bool) resource.Hook[[]resource.Accepted] {
	return resource.Const([]resource.Accepted{
		{Type: "application/json", Handle: resource.Const(handled)},
	})
}

func TestPut(t *testing.T) {
	base := func() *resource.Resource {
		r := resource.Default()
		r.AllowedMethods = resource.Const([]string{http.MethodGet, http.MethodPut})
		r.ContentTypesAccepted = acceptJSON(true)
		return r
	}

	t.Run("no body yields 204", func(t *testing.T) {
		resp := New().Run(testCtx(http.MethodPut, "/", map[string]string{
			"Content-Type": "application/json",
		}), base())
		assert.Equal(t, http.StatusNoContent, resp.Code)
	})

	t.Run("unsupported entity type is 415", func(t *testing.T) {
		resp := New().Run(testCtx(http.MethodPut, "/", map[string]string{
			"Content-Type": "text/csv",
		}), base())
		assert.Equal(t, http.StatusUnsupportedMediaType, resp.Code)
	})

	t.Run("conflict is 409", func(t *testing.T) {
		r := base()
		r.IsConflict = resource.Const(true)
		resp := New().Run(testCtx(http.MethodPut, "/", map[string]string{
			"Content-Type": "application/json",
		}), r)
		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("handler failure is 500", func(t *testing.T) {
		r := base()
		r.ContentTypesAccepted = acceptJSON(false)
		resp := New().Run(testCtx(http.MethodPut, "/", map[string]string{
			"Content-Type": "application/json",
		}), r)
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})

	t.Run("media type parameters are ignored for matching", func(t *testing.T) {
		resp := New().Run(testCtx(http.MethodPut, "/", map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		}), base())
		assert.Equal(t, http.StatusNoContent, resp.Code)
	})

	t.Run("handler body yields 200", func(t *testing.T) {
		r := base()
		r.ContentTypesAccepted = resource.Const([]resource.Accepted{
			{Type: "application/json", Handle: func(c walk.Context) (walk.Result[bool], walk.Context) {
				return walk.Value(true), c.WithBody([]byte(`{"ok":true}`))
			}},
		})
		resp := New().Run(testCtx(http.MethodPut, "/", map[string]string{
			"Content-Type": "application/json",
		}), r)
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, []byte(`{"ok":true}`), resp.Body)
	})
}

func TestMultipleChoicesOnWrite(t *testing.T) {
	base := func() *resource.Resource {
		r := resource.Default()
		r.AllowedMethods = resource.Const([]string{http.MethodGet, http.MethodPut})
		r.MultipleChoices = resource.Const(true)
		r.ContentTypesAccepted = resource.Const([]resource.Accepted{
			{Type: "application/json", Handle: func(c walk.Context) (walk.Result[bool], walk.Context) {
				return walk.Value(true), c.WithBody([]byte(`{"ok":true}`))
			}},
		})
		return r
	}

	t.Run("body-producing put is 300", func(t *testing.T) {
		resp := New().Run(testCtx(http.MethodPut, "/", map[string]string{
			"Content-Type": "application/json",
		}), base())
		assert.Equal(t, http.StatusMultipleChoices, resp.Code)
		assert.Equal(t, []byte(`{"ok":true}`), resp.Body)
	})

	t.Run("bodyless put stays 204", func(t *testing.T) {
		r := base()
		r.ContentTypesAccepted = acceptJSON(true)
		resp := New().Run(testCtx(http.MethodPut, "/", map[string]string{
			"Content-Type": "application/json",
		}), r)
		assert.Equal(t, http.StatusNoContent, resp.Code)
	})
}

func TestPostProcess(t *testing.T) {
	base := func(processed bool) *resource.Resource {
		r := resource.Default()
		r.AllowedMethods = resource.Const([]string{http.MethodGet, http.MethodPost})
		r.ProcessPost = resource.Const(processed)
		return r
	}

	t.Run("processed without body is 204", func(t *testing.T) {
		resp := New().Run(testCtx(http.MethodPost, "/", nil), base(true))
		assert.Equal(t, http.StatusNoContent, resp.Code)
	})

	t.Run("failed process is 500", func(t *testing.T) {
		resp := New().Run(testCtx(http.MethodPost, "/", nil), base(false))
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

func TestPostCreate(t *testing.T) {
	base := func() *resource.Resource {
		r := resource.Default()
		r.AllowedMethods = resource.Const([]string{http.MethodGet, http.MethodPost})
		r.PostIsCreate = resource.Const(true)
		r.CreatePath = resource.Const("/items/42")
		r.ContentTypesAccepted = acceptJSON(true)
		return r
	}

	t.Run("created", func(t *testing.T) {
		resp := New().Run(testCtx(http.MethodPost, "/items", map[string]string{
			"Content-Type": "application/json",
		}), base())
		assert.Equal(t, http.StatusCreated, resp.Code)
		assert.Equal(t, "/items/42", resp.GetHeader("Location"))
	})

	t.Run("empty create path is 500", func(t *testing.T) {
		r := base()
		r.CreatePath = resource.Const("")
		resp := New().Run(testCtx(http.MethodPost, "/items", map[string]string{
			"Content-Type": "application/json",
		}), r)
		require.Equal(t, http.StatusInternalServerError, resp.Code)
		assert.ErrorIs(t, resp.Err, errEmptyCreatePath)
	})
}

func TestPostToMissing(t *testing.T) {
	base := func(allow bool) *resource.Resource {
		r := resource.Default()
		r.AllowedMethods = resource.Const([]string{http.MethodGet, http.MethodPost})
		r.ResourceExists = resource.Const(false)
		r.AllowMissingPost = resource.Const(allow)
		r.PostIsCreate = resource.Const(true)
		r.CreatePath = resource.Const("/items/1")
		r.ContentTypesAccepted = acceptJSON(true)
		return r
	}

	t.Run("allowed creates", func(t *testing.T) {
		resp := New().Run(testCtx(http.MethodPost, "/items", map[string]string{
			"Content-Type": "application/json",
		}), base(true))
		assert.Equal(t, http.StatusCreated, resp.Code)
		assert.Equal(t, "/items/1", resp.GetHeader("Location"))
	})

	t.Run("disallowed is 404", func(t *testing.T) {
		resp := New().Run(testCtx(http.MethodPost, "/items", map[string]string{
			"Content-Type": "application/json",
		}), base(false))
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestDelete(t *testing.T) {
	base := func() *resource.Resource {
		r := resource.Default()
		r.AllowedMethods = resource.Const([]string{http.MethodGet, http.MethodDelete})
		return r
	}

	t.Run("completed without body is 204", func(t *testing.T) {
		r := base()
		r.DeleteResource = resource.Const(true)
		resp := New().Run(testCtx(http.MethodDelete, "/", nil), r)
		assert.Equal(t, http.StatusNoContent, resp.Code)
	})

	t.Run("accepted but not complete is 202", func(t *testing.T) {
		r := base()
		r.DeleteResource = resource.Const(true)
		r.DeleteCompleted = resource.Const(false)
		resp := New().Run(testCtx(http.MethodDelete, "/", nil), r)
		assert.Equal(t, http.StatusAccepted, resp.Code)
	})

	t.Run("failed delete is 500", func(t *testing.T) {
		r := base()
		r.DeleteResource = resource.Const(false)
		resp := New().Run(testCtx(http.MethodDelete, "/", nil), r)
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}
