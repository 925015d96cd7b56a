package flow

import (
	"net/http"
	"slices"
	"strings"

	"github.com/getdecider/decider/internal/conneg"
	"github.com/getdecider/decider/pkg/resource"
	"github.com/getdecider/decider/pkg/walk"
)

// Engine walks the decision graph. It holds no state; one Engine serves
// any number of concurrent walks.
type Engine struct{}

// New returns a decision engine.
func New() *Engine { return &Engine{} }

// Run computes the response for the request snapshot in c by walking the
// decision graph against r. Every hook of r must be non-nil; resources
// built from resource.Default satisfy that.
func (e *Engine) Run(c walk.Context, r *resource.Resource) walk.Response {
	c, ok := e.admissible(c, r)
	if !ok {
		return assemble(c, false)
	}

	if c.Req.Method == http.MethodOptions {
		return assemble(e.options(c, r), false)
	}

	c, ok = e.negotiate(c, r)
	if !ok {
		return assemble(c, false)
	}

	c, rendered := e.dispatch(c, r)
	return assemble(c, rendered)
}

// step runs one decision hook. ok is false when the hook halted or
// errored; the returned context then carries the terminal status (and the
// retained cause for errors), and the walk must stop.
func step[T any](c walk.Context, h resource.Hook[T]) (T, walk.Context, bool) {
	var zero T
	res, c := h(c)
	switch {
	case res.IsHalt():
		c = c.WithStatus(res.Status())
		if b := res.Body(); b != nil {
			c = c.WithBody(b)
		}
		return zero, c, false
	case res.IsError():
		c = c.WithStatus(http.StatusInternalServerError).WithError(res.Err())
		return zero, c, false
	}
	return res.Value(), c, true
}

// admissible runs the gate chain that every request must pass before
// negotiation: availability, method checks, request sanity, and
// authorization. A false return means the walk is over.
func (e *Engine) admissible(c walk.Context, r *resource.Resource) (walk.Context, bool) {
	avail, c, ok := step(c, r.ServiceAvailable)
	if !ok {
		return c, false
	}
	if !avail {
		return c.WithStatus(http.StatusServiceUnavailable), false
	}

	known, c, ok := step(c, r.KnownMethods)
	if !ok {
		return c, false
	}
	if !slices.Contains(known, c.Req.Method) {
		// The Allow header wants the allowed list, but a halt from
		// that hook must not mask the 501.
		res, c := r.AllowedMethods(c)
		if res.IsValue() && len(res.Value()) > 0 {
			c = c.WithHeader("Allow", strings.Join(res.Value(), ", "))
		}
		return c.WithStatus(http.StatusNotImplemented), false
	}

	long, c, ok := step(c, r.URITooLong)
	if !ok {
		return c, false
	}
	if long {
		return c.WithStatus(http.StatusRequestURITooLong), false
	}

	allowed, c, ok := step(c, r.AllowedMethods)
	if !ok {
		return c, false
	}
	if !slices.Contains(allowed, c.Req.Method) {
		c = c.WithHeader("Allow", strings.Join(allowed, ", "))
		return c.WithStatus(http.StatusMethodNotAllowed), false
	}

	malformed, c, ok := step(c, r.IsMalformed)
	if !ok {
		return c, false
	}
	if malformed {
		return c.WithStatus(http.StatusBadRequest), false
	}

	auth, c, ok := step(c, r.IsAuthorized)
	if !ok {
		return c, false
	}
	if !auth.OK {
		if auth.Challenge != "" {
			c = c.WithHeader("WWW-Authenticate", auth.Challenge)
		}
		return c.WithStatus(http.StatusUnauthorized), false
	}

	forbidden, c, ok := step(c, r.IsForbidden)
	if !ok {
		return c, false
	}
	if forbidden {
		return c.WithStatus(http.StatusForbidden), false
	}

	headersValid, c, ok := step(c, r.ContentHeadersValid)
	if !ok {
		return c, false
	}
	if !headersValid {
		return c.WithStatus(http.StatusBadRequest), false
	}

	knownCT, c, ok := step(c, r.IsKnownContentType)
	if !ok {
		return c, false
	}
	if !knownCT {
		return c.WithStatus(http.StatusUnsupportedMediaType), false
	}

	validLen, c, ok := step(c, r.IsValidEntityLength)
	if !ok {
		return c, false
	}
	if !validLen {
		return c.WithStatus(http.StatusRequestEntityTooLarge), false
	}

	return c, true
}

// options answers an OPTIONS request: the hook's header map merged into
// the response with status 200, skipping every remaining node.
func (e *Engine) options(c walk.Context, r *resource.Resource) walk.Context {
	hdrs, c, ok := step(c, r.Options)
	if !ok {
		return c
	}
	return c.WithHeaders(hdrs).WithStatus(http.StatusOK)
}

// negotiate runs content negotiation for media type, language, charset,
// and encoding, recording the chosen renderer and transforms plus the
// Vary dimensions actually exercised.
func (e *Engine) negotiate(c walk.Context, r *resource.Resource) (walk.Context, bool) {
	provided, c, ok := step(c, r.ContentTypesProvided)
	if !ok {
		return c, false
	}
	types := make([]string, len(provided))
	for i, p := range provided {
		types[i] = p.Type
	}
	chosen, found := conneg.BestMediaType(c.Req.GetHeader("Accept"), types)
	if !found {
		// An empty providers list is unacceptable regardless of what
		// the client asked for.
		return c.WithStatus(http.StatusNotAcceptable), false
	}
	idx := slices.Index(types, chosen)
	c = c.WithRenderer(chosen, provided[idx].Render)
	if varies(len(provided), c.Req.HasHeader("Accept")) {
		c = c.WithVary("Accept")
	}

	langOK, c, ok := step(c, r.IsLanguageAvailable)
	if !ok {
		return c, false
	}
	if !langOK {
		return c.WithStatus(http.StatusNotAcceptable), false
	}

	charsets, c, ok := step(c, r.CharsetsProvided)
	if !ok {
		return c, false
	}
	if len(charsets) > 0 { // empty short-circuits: no charsetting applied
		names := make([]string, len(charsets))
		for i, cs := range charsets {
			names[i] = cs.Name
		}
		name, found := conneg.BestCharset(c.Req.GetHeader("Accept-Charset"), names)
		if !found {
			return c.WithStatus(http.StatusNotAcceptable), false
		}
		c = c.WithCharset(name, charsets[slices.Index(names, name)].Transform)
		if varies(len(charsets), c.Req.HasHeader("Accept-Charset")) {
			c = c.WithVary("Accept-Charset")
		}
	}

	encodings, c, ok := step(c, r.EncodingsProvided)
	if !ok {
		return c, false
	}
	if len(encodings) > 0 { // same short-circuit rule as charsets
		names := make([]string, len(encodings))
		for i, enc := range encodings {
			names[i] = enc.Name
		}
		name, found := conneg.BestEncoding(c.Req.GetHeader("Accept-Encoding"), names)
		if !found {
			return c.WithStatus(http.StatusNotAcceptable), false
		}
		c = c.WithEncoding(name, encodings[slices.Index(names, name)].Transform)
		if varies(len(encodings), c.Req.HasHeader("Accept-Encoding")) {
			c = c.WithVary("Accept-Encoding")
		}
	}

	extra, c, ok := step(c, r.Variances)
	if !ok {
		return c, false
	}
	for _, v := range extra {
		c = c.WithVary(v)
	}

	return c, true
}

// varies reports whether a negotiation dimension was actually exercised:
// the client stated a preference, or more than one variant exists.
func varies(candidates int, headerPresent bool) bool {
	return headerPresent || candidates > 1
}
