// Package walk defines the value model threaded through a decision walk:
// the tri-state Result returned by every decision hook, the immutable
// request snapshot, and the copy-on-write response builder.
//
// A Context is never shared between walks and never mutated in place.
// Every decision step receives the current Context and returns the next
// one, so a walk has a single linear history with no aliasing. The With*
// methods clone the response state they touch; holding on to an earlier
// Context is always safe.
package walk
