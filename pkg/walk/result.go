package walk

import "net/http"

type resultKind int

const (
	kindValue resultKind = iota
	kindHalt
	kindError
)

// Result is the tri-state outcome of a single decision step.
//
// A Value result carries a normal outcome and lets the walk continue. A
// Halt result terminates the walk immediately with a fixed status code and
// an optional body. An Error result terminates the walk with status 500 and
// retains the cause for diagnostics. The flow engine is the only consumer
// of a Result; hooks never see each other's results.
type Result[T any] struct {
	kind   resultKind
	value  T
	status int
	body   []byte
	err    error
}

// Value wraps a normal outcome; the walk continues.
func Value[T any](v T) Result[T] {
	return Result[T]{kind: kindValue, value: v}
}

// Halt terminates the walk with the given status code. The body is
// optional; a nil body leaves any previously set response body alone.
func Halt[T any](status int, body []byte) Result[T] {
	return Result[T]{kind: kindHalt, status: status, body: body}
}

// Error terminates the walk with status 500, retaining err as the cause.
func Error[T any](err error) Result[T] {
	return Result[T]{kind: kindError, status: http.StatusInternalServerError, err: err}
}

// IsValue reports whether the result is a normal outcome.
func (r Result[T]) IsValue() bool { return r.kind == kindValue }

// IsHalt reports whether the result terminates the walk with a fixed status.
func (r Result[T]) IsHalt() bool { return r.kind == kindHalt }

// IsError reports whether the result is an unexpected failure.
func (r Result[T]) IsError() bool { return r.kind == kindError }

// Value returns the wrapped outcome. It is the zero value unless IsValue.
func (r Result[T]) Value() T { return r.value }

// Status returns the terminal status code for Halt and Error results.
func (r Result[T]) Status() int { return r.status }

// Body returns the optional body attached to a Halt result.
func (r Result[T]) Body() []byte { return r.body }

// Err returns the retained cause of an Error result.
func (r Result[T]) Err() error { return r.err }
