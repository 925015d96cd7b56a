package resource

import (
	"github.com/getdecider/decider/pkg/walk"
)

// Hook is the common shape of every decision hook: it receives the current
// walk context and returns a tri-state result plus the next context.
type Hook[T any] func(walk.Context) (walk.Result[T], walk.Context)

// Const builds a hook that always returns the same value and leaves the
// context untouched. Most overrides are constants, so this is the usual
// way to fill a Resource field.
func Const[T any](v T) Hook[T] {
	return func(c walk.Context) (walk.Result[T], walk.Context) {
		return walk.Value(v), c
	}
}

// MediaType pairs a provided media type with the renderer that produces
// its representation. Provider lists are ordered: the declaration order is
// the negotiation tie-break.
type MediaType struct {
	// Type is the media type as "type/subtype", e.g. "application/json".
	Type string

	// Render produces the entity bytes for this media type.
	Render walk.Renderer
}

// Charset pairs a provided charset name with the transform that converts
// rendered UTF-8 bytes into it.
type Charset struct {
	Name      string
	Transform walk.Transform
}

// Encoding pairs a provided content coding with its byte transform.
type Encoding struct {
	Name      string
	Transform walk.Transform
}

// Accepted pairs a media type the resource accepts in request entities
// (PUT, POST-as-create) with the handler that consumes such an entity.
// The handler's boolean result reports success; false maps to a 500.
type Accepted struct {
	Type   string
	Handle Hook[bool]
}

// Auth is the outcome of the authorization hook. A failed outcome may
// carry a challenge for the WWW-Authenticate header of the 401 response.
type Auth struct {
	OK        bool
	Challenge string
}

// Authorized is the successful authorization outcome.
func Authorized() Auth { return Auth{OK: true} }

// Unauthorized is a failed authorization outcome with the given
// WWW-Authenticate challenge, e.g. `Basic realm="api"`.
func Unauthorized(challenge string) Auth { return Auth{Challenge: challenge} }
