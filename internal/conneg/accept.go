// Package conneg implements the content-negotiation algorithms: parsing of
// Accept* request headers into quality-ordered ranges and choosing the best
// candidate from a provider-declared list.
//
// All choosers share the same tie-break rule: among candidates the client
// rates equally, the provider's declaration order wins, first listed first
// chosen. Provider lists are therefore always ordered sequences, never maps.
package conneg

import (
	"strconv"
	"strings"
)

// accepted is one element of a parsed Accept* header: a value (media range,
// charset, coding, or language range) plus its quality.
type accepted struct {
	value  string
	params map[string]string
	q      float64
}

// parseHeader splits a comma-separated Accept* header into its elements,
// extracting q-values and any other parameters. Elements with malformed
// q-values default to quality 1. Client order is preserved.
func parseHeader(value string) []accepted {
	var out []accepted
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ";")
		a := accepted{value: strings.TrimSpace(fields[0]), q: 1}
		for _, f := range fields[1:] {
			k, v, ok := strings.Cut(strings.TrimSpace(f), "=")
			if !ok {
				continue
			}
			k = strings.ToLower(strings.TrimSpace(k))
			v = strings.Trim(strings.TrimSpace(v), `"`)
			if k == "q" {
				if q, err := strconv.ParseFloat(v, 64); err == nil && q >= 0 && q <= 1 {
					a.q = q
				}
				continue
			}
			if a.params == nil {
				a.params = map[string]string{}
			}
			a.params[k] = v
		}
		if a.value != "" {
			out = append(out, a)
		}
	}
	return out
}
