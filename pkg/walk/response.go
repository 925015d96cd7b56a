package walk

import "net/http"

// Renderer produces the response entity for the negotiated media type.
// It has the same shape as every other decision hook.
type Renderer func(Context) (Result[[]byte], Context)

// Transform rewrites entity bytes for a negotiated charset or encoding.
type Transform func([]byte) []byte

// Response is the response under construction. It is copied, never shared:
// all mutation goes through Context's With* methods, which clone the state
// they touch.
type Response struct {
	// Code is the status code, or 0 while the walk has not fixed one.
	Code int

	// Header holds the response headers accumulated so far.
	Header http.Header

	// Body is the response entity, if one has been produced.
	Body []byte

	// MediaType is the negotiated content type, e.g. "text/html".
	MediaType string

	// Charset is the negotiated charset name, or "" when charset
	// negotiation was short-circuited.
	Charset string

	// Encoding is the negotiated content coding, or "" when encoding
	// negotiation was short-circuited.
	Encoding string

	// Renderer is the body producer chosen by media-type negotiation.
	Renderer Renderer

	// CharsetTransform and EncodingTransform are applied to rendered
	// entity bytes, in that order, by the response assembler.
	CharsetTransform  Transform
	EncodingTransform Transform

	// Vary accumulates the header names the response varies on, in the
	// order the negotiation dimensions were exercised.
	Vary []string

	// Err is the retained cause when the walk terminated with an Error
	// result. It never reaches the client; the transport adapter logs it.
	Err error
}

// GetHeader returns the first value of the named response header, or "".
func (r Response) GetHeader(name string) string {
	if r.Header == nil {
		return ""
	}
	return r.Header.Get(name)
}
