package resource

import (
	"net/http"
	"time"

	"github.com/getdecider/decider/pkg/walk"
)

// Resource is the capability contract consumed by the flow engine: one
// function field per decision. Every field must be non-nil; start from
// Default and override what differs.
//
// The comments below state the engine-visible effect of each hook; the
// exact node ordering lives in package flow.
type Resource struct {
	// ServiceAvailable gates the whole walk; false yields 503.
	ServiceAvailable Hook[bool]

	// KnownMethods lists the methods the server implements at all; a
	// request method outside it yields 501.
	KnownMethods Hook[[]string]

	// URITooLong yields 414 when true.
	URITooLong Hook[bool]

	// AllowedMethods lists the methods this resource answers; a request
	// method outside it yields 405 with an Allow header.
	AllowedMethods Hook[[]string]

	// IsMalformed yields 400 when true.
	IsMalformed Hook[bool]

	// IsAuthorized yields 401 on a failed outcome, with the outcome's
	// challenge in WWW-Authenticate when present.
	IsAuthorized Hook[Auth]

	// IsForbidden yields 403 when true.
	IsForbidden Hook[bool]

	// ContentHeadersValid yields 400 when false.
	ContentHeadersValid Hook[bool]

	// IsKnownContentType yields 415 when false.
	IsKnownContentType Hook[bool]

	// IsValidEntityLength yields 413 when false.
	IsValidEntityLength Hook[bool]

	// Options supplies the headers of the 200 response to an OPTIONS
	// request.
	Options Hook[map[string]string]

	// ContentTypesProvided drives media-type negotiation; the matching
	// entry's renderer produces GET/HEAD bodies. Order is the tie-break.
	ContentTypesProvided Hook[[]MediaType]

	// IsLanguageAvailable yields 406 when false.
	IsLanguageAvailable Hook[bool]

	// CharsetsProvided drives charset negotiation. A nil list
	// short-circuits: no charsetting is applied and Accept-Charset is
	// not negotiated.
	CharsetsProvided Hook[[]Charset]

	// EncodingsProvided drives encoding negotiation, same short-circuit
	// rule as CharsetsProvided.
	EncodingsProvided Hook[[]Encoding]

	// ResourceExists selects the existence branch of the graph.
	ResourceExists Hook[bool]

	// Variances lists extra header names for Vary, beyond the
	// negotiation dimensions actually exercised.
	Variances Hook[[]string]

	// GenerateETag returns the entity tag of the current representation,
	// or "" for none. Drives ETag and conditional matching.
	GenerateETag Hook[string]

	// LastModified returns the modification time, or the zero time for
	// none. Drives Last-Modified and conditional matching.
	LastModified Hook[time.Time]

	// MovedPermanently returns the permanent location of a missing
	// resource, or "" for none; a location yields 301.
	MovedPermanently Hook[string]

	// PreviouslyExisted selects between the 410 and 404 branches for a
	// missing resource.
	PreviouslyExisted Hook[bool]

	// MovedTemporarily returns the temporary location of a missing
	// resource, or "" for none; a location yields 307.
	MovedTemporarily Hook[string]

	// AllowMissingPost permits POST to a missing resource.
	AllowMissingPost Hook[bool]

	// DeleteResource performs the deletion; false reports failure (500).
	DeleteResource Hook[bool]

	// DeleteCompleted distinguishes a finished deletion (200/204) from
	// an accepted-but-pending one (202).
	DeleteCompleted Hook[bool]

	// PostIsCreate selects the create branch for POST: true routes the
	// entity through CreatePath and ContentTypesAccepted, false through
	// ProcessPost.
	PostIsCreate Hook[bool]

	// ProcessPost handles a non-create POST; false reports failure (500).
	ProcessPost Hook[bool]

	// CreatePath names the path of the resource a create-POST makes; it
	// becomes the Location header. Empty is an error (500).
	CreatePath Hook[string]

	// ContentTypesAccepted maps request entity media types to handlers
	// for PUT and POST-as-create; an unmatched request entity yields 415.
	ContentTypesAccepted Hook[[]Accepted]

	// IsConflict yields 409 for PUT (and PUT-equivalent create) when
	// true, before the accepted-type handler runs.
	IsConflict Hook[bool]

	// Expires returns the Expires header value, or the zero time for
	// none.
	Expires Hook[time.Time]

	// MultipleChoices overrides a normal 200 with 300 when true.
	MultipleChoices Hook[bool]
}

// Default returns a Resource with the standard behavior for every hook: an
// existing, unconditionally available, GET-only resource that renders a
// fixed text/html body with no etag, no modification date, and no
// charset negotiation.
func Default() *Resource {
	return &Resource{
		ServiceAvailable: Const(true),
		KnownMethods: Const([]string{
			http.MethodOptions, http.MethodTrace, http.MethodConnect,
			http.MethodHead, http.MethodGet, http.MethodPost,
			http.MethodPut, http.MethodDelete,
		}),
		URITooLong:          Const(false),
		AllowedMethods:      Const([]string{http.MethodGet}),
		IsMalformed:         Const(false),
		IsAuthorized:        Const(Authorized()),
		IsForbidden:         Const(false),
		ContentHeadersValid: Const(true),
		IsKnownContentType:  Const(true),
		IsValidEntityLength: Const(true),
		Options:             Const(map[string]string{}),
		ContentTypesProvided: Const([]MediaType{
			{Type: "text/html", Render: StaticRenderer([]byte("<html><body>OK</body></html>"))},
		}),
		IsLanguageAvailable: Const(true),
		CharsetsProvided:    Const[[]Charset](nil),
		EncodingsProvided: Const([]Encoding{
			{Name: "identity", Transform: IdentityTransform},
		}),
		ResourceExists:       Const(true),
		Variances:            Const[[]string](nil),
		GenerateETag:         Const(""),
		LastModified:         Const(time.Time{}),
		MovedPermanently:     Const(""),
		PreviouslyExisted:    Const(false),
		MovedTemporarily:     Const(""),
		AllowMissingPost:     Const(false),
		DeleteResource:       Const(false),
		DeleteCompleted:      Const(true),
		PostIsCreate:         Const(false),
		ProcessPost:          Const(false),
		CreatePath:           Const(""),
		ContentTypesAccepted: Const[[]Accepted](nil),
		IsConflict:           Const(false),
		Expires:              Const(time.Time{}),
		MultipleChoices:      Const(false),
	}
}

// ValidContentHeaders is a ContentHeadersValid implementation that checks
// every Content-* request header for legal field syntax. Default resources
// return true unconditionally; wire this in when the resource should
// reject requests with malformed content headers.
func ValidContentHeaders() Hook[bool] {
	return func(c walk.Context) (walk.Result[bool], walk.Context) {
		for name, values := range c.Req.Header {
			if len(name) < 8 || !equalFoldPrefix(name, "Content-") {
				continue
			}
			for _, v := range values {
				if !headerValid(name, v) {
					return walk.Value(false), c
				}
			}
		}
		return walk.Value(true), c
	}
}
