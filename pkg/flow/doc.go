// Package flow implements the HTTP decision graph: the engine that
// computes a complete response (status, headers, body) for one request by
// sequencing calls to a resource's decision hooks in a fixed,
// RFC-conformant order.
//
// The walk proceeds through admissibility checks, an OPTIONS
// short-circuit, content negotiation, existence and conditional-request
// evaluation, and method dispatch. Any step can short-circuit: the moment
// a hook returns a Halt or Error result, no further decision node
// executes and the response assembler finalizes whatever headers have
// accumulated.
//
// An Engine is stateless and safe for concurrent use; all per-request
// state lives in the walk.Context threaded through the nodes. The engine
// performs no I/O, keeps nothing across requests, and never retries a
// hook.
package flow
