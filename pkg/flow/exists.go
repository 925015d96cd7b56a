package flow

import (
	"errors"
	"net/http"
	"time"

	"github.com/getdecider/decider/internal/conneg"
	"github.com/getdecider/decider/internal/header"
	"github.com/getdecider/decider/pkg/resource"
	"github.com/getdecider/decider/pkg/walk"
)

// errEmptyCreatePath is retained as the 500 cause when a create-POST's
// createPath hook returns no path.
var errEmptyCreatePath = errors.New("postIsCreate requires a non-empty createPath")

// dispatch selects the existence branch and runs the per-method handling.
// The boolean reports whether a renderer produced the body, which tells
// the assembler to apply the negotiated transforms.
func (e *Engine) dispatch(c walk.Context, r *resource.Resource) (walk.Context, bool) {
	exists, c, ok := step(c, r.ResourceExists)
	if !ok {
		return c, false
	}
	if !exists {
		return e.missing(c, r), false
	}

	c, ok = e.preconditions(c, r)
	if !ok {
		return c, false
	}

	switch c.Req.Method {
	case http.MethodDelete:
		return e.remove(c, r), false
	case http.MethodPost:
		return e.post(c, r), false
	case http.MethodPut:
		return e.acceptEntity(c, r, false), false
	default:
		return e.render(c, r)
	}
}

// preconditions evaluates the conditional-request headers for an existing
// resource, in spec precedence: If-Match, If-Unmodified-Since,
// If-None-Match, If-Modified-Since. It also fixes the ETag and
// Last-Modified response headers so they ride along on 304s.
func (e *Engine) preconditions(c walk.Context, r *resource.Resource) (walk.Context, bool) {
	etag, c, ok := step(c, r.GenerateETag)
	if !ok {
		return c, false
	}
	if etag != "" {
		c = c.WithHeader("ETag", header.FormatETag(etag))
	}

	lastMod, c, ok := step(c, r.LastModified)
	if !ok {
		return c, false
	}
	if !lastMod.IsZero() {
		c = c.WithHeader("Last-Modified", header.FormatDate(lastMod))
	}

	if c.Req.HasHeader("If-Match") {
		tags := header.ParseETags(c.Req.GetHeader("If-Match"))
		if !header.MatchStrong(tags, etag) {
			return c.WithStatus(http.StatusPreconditionFailed), false
		}
	}

	if c.Req.HasHeader("If-Unmodified-Since") {
		if since, valid := header.ParseDate(c.Req.GetHeader("If-Unmodified-Since")); valid {
			if !lastMod.IsZero() && lastMod.After(since) {
				return c.WithStatus(http.StatusPreconditionFailed), false
			}
		}
	}

	readOnly := c.Req.Method == http.MethodGet || c.Req.Method == http.MethodHead

	if c.Req.HasHeader("If-None-Match") {
		tags := header.ParseETags(c.Req.GetHeader("If-None-Match"))
		if header.MatchWeak(tags, etag) {
			if readOnly {
				return c.WithStatus(http.StatusNotModified), false
			}
			return c.WithStatus(http.StatusPreconditionFailed), false
		}
		return c, true // If-None-Match present suppresses If-Modified-Since
	}

	if readOnly && c.Req.HasHeader("If-Modified-Since") {
		since, valid := header.ParseDate(c.Req.GetHeader("If-Modified-Since"))
		// Dates from the future say nothing about the representation.
		if valid && !since.After(time.Now()) {
			if !lastMod.IsZero() && !lastMod.After(since) {
				return c.WithStatus(http.StatusNotModified), false
			}
		}
	}

	return c, true
}

// render produces the GET/HEAD entity via the negotiated renderer, then
// applies the Expires and multiple-choices hooks.
func (e *Engine) render(c walk.Context, r *resource.Resource) (walk.Context, bool) {
	if c.Resp.Renderer != nil {
		body, c2, ok := step(c, resource.Hook[[]byte](c.Resp.Renderer))
		c = c2
		if !ok {
			return c, false
		}
		c = c.WithBody(body)
	}

	expires, c, ok := step(c, r.Expires)
	if !ok {
		return c, false
	}
	if !expires.IsZero() {
		c = c.WithHeader("Expires", header.FormatDate(expires))
	}

	multiple, c, ok := step(c, r.MultipleChoices)
	if !ok {
		return c, false
	}
	if multiple {
		return c.WithStatus(http.StatusMultipleChoices), true
	}
	return c.WithStatus(http.StatusOK), true
}

// missing handles requests for a resource that does not exist: redirects,
// gone/not-found, and POST-to-missing when the resource allows it.
func (e *Engine) missing(c walk.Context, r *resource.Resource) walk.Context {
	// A precondition on a representation that does not exist can never
	// hold, "*" included.
	if c.Req.HasHeader("If-Match") {
		return c.WithStatus(http.StatusPreconditionFailed)
	}

	loc, c, ok := step(c, r.MovedPermanently)
	if !ok {
		return c
	}
	if loc != "" {
		return c.WithHeader("Location", loc).WithStatus(http.StatusMovedPermanently)
	}

	loc, c, ok = step(c, r.MovedTemporarily)
	if !ok {
		return c
	}
	if loc != "" {
		return c.WithHeader("Location", loc).WithStatus(http.StatusTemporaryRedirect)
	}

	prev, c, ok := step(c, r.PreviouslyExisted)
	if !ok {
		return c
	}

	if c.Req.Method == http.MethodPost {
		allow, c2, ok := step(c, r.AllowMissingPost)
		c = c2
		if !ok {
			return c
		}
		if allow {
			return e.post(c, r)
		}
	}

	if prev {
		return c.WithStatus(http.StatusGone)
	}
	return c.WithStatus(http.StatusNotFound)
}

// post handles POST on both branches: as a create through createPath and
// the accepted-type handlers, or as a generic process through processPost.
func (e *Engine) post(c walk.Context, r *resource.Resource) walk.Context {
	create, c, ok := step(c, r.PostIsCreate)
	if !ok {
		return c
	}

	if create {
		path, c, ok := step(c, r.CreatePath)
		if !ok {
			return c
		}
		if path == "" {
			return c.WithStatus(http.StatusInternalServerError).WithError(errEmptyCreatePath)
		}
		c = c.WithHeader("Location", path)
		return e.acceptEntity(c, r, true)
	}

	processed, c, ok := step(c, r.ProcessPost)
	if !ok {
		return c
	}
	if !processed {
		return c.WithStatus(http.StatusInternalServerError)
	}
	return finishWrite(c, r)
}

// acceptEntity runs the PUT / create path: conflict check first, then the
// accepted-content-type handler matching the request entity. created
// selects 201 over the usual 200/204 on success.
func (e *Engine) acceptEntity(c walk.Context, r *resource.Resource, created bool) walk.Context {
	conflict, c, ok := step(c, r.IsConflict)
	if !ok {
		return c
	}
	if conflict {
		return c.WithStatus(http.StatusConflict)
	}

	accepted, c, ok := step(c, r.ContentTypesAccepted)
	if !ok {
		return c
	}

	reqCT := c.Req.GetHeader("Content-Type")
	if reqCT == "" {
		reqCT = "application/octet-stream"
	}
	reqMT, _ := conneg.ParseMediaType(reqCT)

	var handle resource.Hook[bool]
	for _, a := range accepted {
		mt, ok := conneg.ParseMediaType(a.Type)
		if ok && mt.Type == reqMT.Type && mt.Subtype == reqMT.Subtype {
			handle = a.Handle
			break
		}
	}
	if handle == nil {
		return c.WithStatus(http.StatusUnsupportedMediaType)
	}

	handled, c, ok := step(c, handle)
	if !ok {
		return c
	}
	if !handled {
		return c.WithStatus(http.StatusInternalServerError)
	}
	if created {
		return c.WithStatus(http.StatusCreated)
	}
	return finishWrite(c, r)
}

// remove handles DELETE: a failed deletion is a 500, an incomplete one a
// 202, and a finished one 200 or 204 depending on whether the hook
// produced a body.
func (e *Engine) remove(c walk.Context, r *resource.Resource) walk.Context {
	deleted, c, ok := step(c, r.DeleteResource)
	if !ok {
		return c
	}
	if !deleted {
		return c.WithStatus(http.StatusInternalServerError)
	}

	done, c, ok := step(c, r.DeleteCompleted)
	if !ok {
		return c
	}
	if !done {
		return c.WithStatus(http.StatusAccepted)
	}
	return finishWrite(c, r)
}

// finishWrite fixes the status of a successful state-changing operation:
// 200 when the hooks produced a body, 204 otherwise. A 200 is still
// subject to the multiple-choices override, like any other normal 200.
func finishWrite(c walk.Context, r *resource.Resource) walk.Context {
	if len(c.Resp.Body) == 0 {
		return c.WithStatus(http.StatusNoContent)
	}
	multiple, c, ok := step(c, r.MultipleChoices)
	if !ok {
		return c
	}
	if multiple {
		return c.WithStatus(http.StatusMultipleChoices)
	}
	return c.WithStatus(http.StatusOK)
}
