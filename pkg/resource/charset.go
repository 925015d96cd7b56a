package resource

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// charsetEncodings maps the charset names we can transform to from the
// UTF-8 bytes renderers produce. Names follow the IANA registry.
var charsetEncodings = map[string]encoding.Encoding{
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
	"us-ascii":     charmap.ISO8859_1, // ASCII is the shared low half
	"utf-16":       unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf-16le":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16be":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

// CharsetByName resolves a charset name to a Charset entry whose transform
// converts rendered UTF-8 bytes into that charset. UTF-8 itself gets the
// identity transform. Unknown names return false.
func CharsetByName(name string) (Charset, bool) {
	lower := strings.ToLower(name)
	if lower == "utf-8" || lower == "utf8" {
		return Charset{Name: name, Transform: IdentityTransform}, true
	}
	enc, ok := charsetEncodings[lower]
	if !ok {
		return Charset{}, false
	}
	return Charset{
		Name: name,
		Transform: func(b []byte) []byte {
			out, err := enc.NewEncoder().Bytes(b)
			if err != nil {
				// Unencodable runes leave the body in UTF-8 rather
				// than truncating it.
				return b
			}
			return out
		},
	}, true
}

// Charsets resolves a list of charset names, dropping unknown ones while
// preserving order. Convenient for config-driven resources.
func Charsets(names ...string) []Charset {
	var out []Charset
	for _, n := range names {
		if cs, ok := CharsetByName(n); ok {
			out = append(out, cs)
		}
	}
	return out
}
