// Package resource defines the capability contract the flow engine calls
// into: one hook per decision, each of shape
//
//	func(walk.Context) (walk.Result[T], walk.Context)
//
// A Resource is a record of hook function fields. Default returns one with
// every hook pre-populated with the standard behavior, so an application
// overrides only the hooks relevant to its resource:
//
//	r := resource.Default()
//	r.AllowedMethods = resource.Const([]string{http.MethodGet, http.MethodDelete})
//	r.ResourceExists = func(c walk.Context) (walk.Result[bool], walk.Context) {
//		_, ok := store.Get(c.Req.PathParams["id"])
//		return walk.Value(ok), c
//	}
//
// A single Resource value is typically shared by all concurrent walks for
// its route, so hook implementations must be safe under concurrent
// invocation. The engine never synchronizes, retries, times out, or cancels
// a hook call.
package resource
