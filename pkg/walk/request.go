package walk

import (
	"net/http"
	"net/url"
)

// Request is an immutable snapshot of a single HTTP request, taken once by
// the transport adapter before the walk starts. Decision hooks read from it
// and never modify it.
type Request struct {
	// ID identifies the request for logging and diagnostics.
	ID string

	// Method is the HTTP method, e.g. http.MethodGet.
	Method string

	// Path is the decoded URL path.
	Path string

	// RawQuery is the unparsed query string, without the leading "?".
	RawQuery string

	// Header holds the request headers. Lookup is case-insensitive via
	// http.Header's canonical form.
	Header http.Header

	// Body is the full request entity, already read from the wire.
	Body []byte

	// PathParams carries parameters captured by the routing layer,
	// e.g. {"id": "42"} for a pattern /items/{id}.
	PathParams map[string]string
}

// Query parses and returns the query parameters. Malformed pairs are
// dropped, matching net/url semantics.
func (r Request) Query() url.Values {
	v, _ := url.ParseQuery(r.RawQuery)
	return v
}

// GetHeader returns the first value of the named header, or "".
func (r Request) GetHeader(name string) string {
	if r.Header == nil {
		return ""
	}
	return r.Header.Get(name)
}

// HasHeader reports whether the named header is present at all, which is
// distinct from it being present with an empty value.
func (r Request) HasHeader(name string) bool {
	if r.Header == nil {
		return false
	}
	_, ok := r.Header[http.CanonicalHeaderKey(name)]
	return ok
}
