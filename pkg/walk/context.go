package walk

import (
	"net/http"
	"slices"
)

// Context pairs the immutable request snapshot with the response under
// construction. It is passed into and returned from every decision step.
type Context struct {
	Req  Request
	Resp Response
}

// NewContext starts a fresh walk context for the given request snapshot.
func NewContext(req Request) Context {
	return Context{
		Req:  req,
		Resp: Response{Header: http.Header{}},
	}
}

// cloneHeader returns a deep copy of the response header map so that a
// derived context never aliases its parent's headers.
func (c Context) cloneHeader() http.Header {
	h := make(http.Header, len(c.Resp.Header))
	for k, v := range c.Resp.Header {
		h[k] = slices.Clone(v)
	}
	return h
}

// WithStatus returns a context with the response status fixed to code.
func (c Context) WithStatus(code int) Context {
	c.Resp.Code = code
	return c
}

// WithHeader returns a context with the named response header set,
// replacing any existing values.
func (c Context) WithHeader(name, value string) Context {
	h := c.cloneHeader()
	h.Set(name, value)
	c.Resp.Header = h
	return c
}

// WithAddedHeader returns a context with value appended to the named
// response header, preserving existing values and their order.
func (c Context) WithAddedHeader(name, value string) Context {
	h := c.cloneHeader()
	h.Add(name, value)
	c.Resp.Header = h
	return c
}

// WithHeaders returns a context with every entry of hdrs set on the
// response, replacing existing values for those names.
func (c Context) WithHeaders(hdrs map[string]string) Context {
	h := c.cloneHeader()
	for k, v := range hdrs {
		h.Set(k, v)
	}
	c.Resp.Header = h
	return c
}

// WithBody returns a context with the response entity set.
func (c Context) WithBody(body []byte) Context {
	c.Resp.Body = body
	return c
}

// WithVary returns a context with name appended to the accumulated Vary
// list. Duplicate names are ignored.
func (c Context) WithVary(name string) Context {
	if slices.Contains(c.Resp.Vary, name) {
		return c
	}
	v := slices.Clone(c.Resp.Vary)
	c.Resp.Vary = append(v, name)
	return c
}

// WithRenderer returns a context recording the media type chosen by
// negotiation and the renderer that will produce its entity.
func (c Context) WithRenderer(mediaType string, r Renderer) Context {
	c.Resp.MediaType = mediaType
	c.Resp.Renderer = r
	return c
}

// WithCharset returns a context recording the negotiated charset and its
// byte transform.
func (c Context) WithCharset(name string, t Transform) Context {
	c.Resp.Charset = name
	c.Resp.CharsetTransform = t
	return c
}

// WithEncoding returns a context recording the negotiated content coding
// and its byte transform.
func (c Context) WithEncoding(name string, t Transform) Context {
	c.Resp.Encoding = name
	c.Resp.EncodingTransform = t
	return c
}

// WithError returns a context retaining err as the walk's failure cause.
func (c Context) WithError(err error) Context {
	c.Resp.Err = err
	return c
}
