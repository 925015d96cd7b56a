package conneg

import "strings"

// IdentityEncoding is the no-op content coding.
const IdentityEncoding = "identity"

// defaultAcceptEncoding stands in for an absent Accept-Encoding header:
// identity is fully acceptable, anything else is a fallback.
const defaultAcceptEncoding = "identity;q=1.0, *;q=0.5"

// BestValue chooses from provided the charset or content-coding the header
// rates highest. Matching is case-insensitive; "*" in the header matches
// any provided value not named explicitly. Equal quality falls back to
// provider order.
//
// The boolean is false when nothing is provided or every provided value is
// unacceptable.
func BestValue(header string, provided []string) (string, bool) {
	if len(provided) == 0 {
		return "", false
	}
	ranges := parseHeader(header)
	best := -1
	bestQ := 0.0
	for i, p := range provided {
		q, ok := valueQuality(ranges, p)
		if !ok || q == 0 {
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

// BestCharset chooses a charset for the request. An absent Accept-Charset
// header accepts anything, so the first provided charset is chosen.
func BestCharset(acceptCharset string, provided []string) (string, bool) {
	if len(provided) == 0 {
		return "", false
	}
	if strings.TrimSpace(acceptCharset) == "" {
		return provided[0], true
	}
	return BestValue(acceptCharset, provided)
}

// BestEncoding chooses a content coding for the request. An absent
// Accept-Encoding header is treated as "identity;q=1.0, *;q=0.5", so a
// client that states no preference gets identity when the resource
// provides it.
func BestEncoding(acceptEncoding string, provided []string) (string, bool) {
	if strings.TrimSpace(acceptEncoding) == "" {
		acceptEncoding = defaultAcceptEncoding
	}
	return BestValue(acceptEncoding, provided)
}

// valueQuality resolves the quality the parsed header assigns to value.
// An explicit entry beats "*"; absent both, the value is unacceptable.
func valueQuality(ranges []accepted, value string) (float64, bool) {
	wildcard := -1.0
	for _, r := range ranges {
		if strings.EqualFold(r.value, value) {
			return r.q, true
		}
		if r.value == "*" {
			wildcard = r.q
		}
	}
	if wildcard >= 0 {
		return wildcard, true
	}
	return 0, false
}

// BestLanguage chooses from provided language tags the one the
// Accept-Language header rates highest, using basic-filter prefix matching:
// the range "en" matches "en" and "en-US", and "*" matches anything. An
// absent header accepts anything. Offered for resource authors backing the
// language-availability hook; the engine itself only consumes the hook's
// boolean answer.
func BestLanguage(acceptLanguage string, provided []string) (string, bool) {
	if len(provided) == 0 {
		return "", false
	}
	if strings.TrimSpace(acceptLanguage) == "" {
		return provided[0], true
	}
	ranges := parseHeader(acceptLanguage)
	best := -1
	bestQ := 0.0
	for i, p := range provided {
		q := 0.0
		matched := false
		for _, r := range ranges {
			if !languageMatch(r.value, p) {
				continue
			}
			matched = true
			if r.q > q {
				q = r.q
			}
		}
		if !matched || q == 0 {
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

// languageMatch implements RFC 4647 basic filtering for one range.
func languageMatch(langRange, tag string) bool {
	if langRange == "*" {
		return true
	}
	langRange = strings.ToLower(langRange)
	tag = strings.ToLower(tag)
	return tag == langRange || strings.HasPrefix(tag, langRange+"-")
}
