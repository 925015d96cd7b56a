// Package route maps request paths to resources. Patterns are glob-style
// with doublestar semantics ("/files/**") plus "{name}" segments that
// capture path parameters. Routes match in registration order,
// first match wins.
package route

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/getdecider/decider/pkg/resource"
)

type entry struct {
	pattern  string
	segments []string // set when the pattern captures parameters
	resource *resource.Resource
}

// Router is an ordered route table. Register all routes before serving;
// Match is then safe for concurrent use.
type Router struct {
	routes []entry
}

// New returns an empty router.
func New() *Router { return &Router{} }

// Handle registers a pattern for the given resource. Patterns without
// "{name}" segments are validated as doublestar globs.
func (rt *Router) Handle(pattern string, r *resource.Resource) error {
	if !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("route pattern must start with /: %q", pattern)
	}
	e := entry{pattern: pattern, resource: r}
	if strings.Contains(pattern, "{") {
		e.segments = strings.Split(strings.TrimPrefix(pattern, "/"), "/")
	} else if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid route pattern: %q", pattern)
	}
	rt.routes = append(rt.routes, e)
	return nil
}

// Len returns the number of registered routes.
func (rt *Router) Len() int { return len(rt.routes) }

// Match finds the first route matching path and returns its resource plus
// any captured path parameters.
func (rt *Router) Match(path string) (*resource.Resource, map[string]string, bool) {
	for _, e := range rt.routes {
		if e.segments != nil {
			if params, ok := matchSegments(e.segments, path); ok {
				return e.resource, params, true
			}
			continue
		}
		if ok, err := doublestar.Match(e.pattern, path); err == nil && ok {
			return e.resource, nil, true
		}
	}
	return nil, nil, false
}

// matchSegments matches a parameterized pattern segment by segment.
// "{name}" captures one segment, "*" matches one segment, and a trailing
// "**" matches the rest of the path.
func matchSegments(pattern []string, path string) (map[string]string, bool) {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	var params map[string]string
	for i, seg := range pattern {
		if seg == "**" && i == len(pattern)-1 {
			return params, true
		}
		if i >= len(parts) || parts[i] == "" {
			return nil, false
		}
		switch {
		case strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}"):
			if params == nil {
				params = map[string]string{}
			}
			params[seg[1:len(seg)-1]] = parts[i]
		case seg == "*":
			// any single segment
		default:
			if seg != parts[i] {
				return nil, false
			}
		}
	}
	if len(parts) != len(pattern) {
		return nil, false
	}
	return params, true
}
