package conneg

import "strings"

// MediaType is a parsed media type: type, subtype, and optional parameters.
type MediaType struct {
	Type    string
	Subtype string
	Params  map[string]string
}

// ParseMediaType parses "type/subtype;k=v". The type and subtype are
// lowercased; parameters other than q are kept. Returns false for values
// without a slash.
func ParseMediaType(value string) (MediaType, bool) {
	fields := strings.Split(value, ";")
	t, s, ok := strings.Cut(strings.TrimSpace(fields[0]), "/")
	if !ok || t == "" || s == "" {
		return MediaType{}, false
	}
	mt := MediaType{Type: strings.ToLower(t), Subtype: strings.ToLower(s)}
	for _, f := range fields[1:] {
		k, v, ok := strings.Cut(strings.TrimSpace(f), "=")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "q" {
			continue
		}
		if mt.Params == nil {
			mt.Params = map[string]string{}
		}
		mt.Params[k] = strings.Trim(strings.TrimSpace(v), `"`)
	}
	return mt, true
}

// String renders the media type without parameters.
func (m MediaType) String() string {
	return m.Type + "/" + m.Subtype
}

// specificity ranks how precisely a media range names this type:
// 3 for an exact type/subtype, 2 for type/*, 1 for */*, 0 for no match.
func (m MediaType) specificity(rangeType, rangeSubtype string) int {
	switch {
	case rangeType == m.Type && rangeSubtype == m.Subtype:
		return 3
	case rangeType == m.Type && rangeSubtype == "*":
		return 2
	case rangeType == "*" && rangeSubtype == "*":
		return 1
	default:
		return 0
	}
}

// BestMediaType chooses from provided (an ordered list of "type/subtype"
// strings) the media type the Accept header rates highest. Among equally
// rated candidates the first provided wins. An empty Accept header accepts
// anything, so the first provided type is chosen.
//
// The boolean is false when nothing is provided or every provided type is
// unacceptable to the client (wrong type, or quality zero).
func BestMediaType(accept string, provided []string) (string, bool) {
	if len(provided) == 0 {
		return "", false
	}
	if strings.TrimSpace(accept) == "" {
		return provided[0], true
	}

	ranges := parseHeader(accept)
	best := -1
	bestQ := 0.0
	for i, p := range provided {
		mt, ok := ParseMediaType(p)
		if !ok {
			continue
		}
		// The most specific matching range decides the quality for
		// this candidate; ties within a specificity take the higher q.
		spec, q := 0, 0.0
		for _, r := range ranges {
			rt, rs, ok := strings.Cut(strings.ToLower(r.value), "/")
			if !ok {
				continue
			}
			s := mt.specificity(rt, rs)
			if s == 0 {
				continue
			}
			if s > spec || (s == spec && r.q > q) {
				spec, q = s, r.q
			}
		}
		if spec == 0 || q == 0 {
			continue
		}
		if q > bestQ {
			best, bestQ = i, q
		}
	}
	if best < 0 {
		return "", false
	}
	return provided[best], true
}
