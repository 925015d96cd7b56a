package resource

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/getdecider/decider/internal/header"
	"github.com/getdecider/decider/pkg/walk"
)

// StaticRenderer returns a renderer that always produces the given bytes.
func StaticRenderer(body []byte) walk.Renderer {
	return func(c walk.Context) (walk.Result[[]byte], walk.Context) {
		return walk.Value(body), c
	}
}

// JSONRenderer returns a renderer that marshals v to JSON. Values that
// cannot be marshaled surface as an Error result, which the engine maps
// to 500.
func JSONRenderer(v any) walk.Renderer {
	return func(c walk.Context) (walk.Result[[]byte], walk.Context) {
		data, err := oj.Marshal(v)
		if err != nil {
			return walk.Error[[]byte](err), c
		}
		return walk.Value(data), c
	}
}

// IdentityTransform passes entity bytes through unchanged.
func IdentityTransform(b []byte) []byte { return b }

// GzipTransform compresses entity bytes with gzip.
func GzipTransform(b []byte) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, _ = w.Write(b)
	_ = w.Close()
	return buf.Bytes()
}

// DeflateTransform compresses entity bytes with DEFLATE.
func DeflateTransform(b []byte) []byte {
	var buf bytes.Buffer
	w, _ := flate.NewWriter(&buf, flate.DefaultCompression)
	_, _ = w.Write(b)
	_ = w.Close()
	return buf.Bytes()
}

// EncodingByName resolves the standard content codings to Encoding
// entries. Recognized names: identity, gzip, deflate.
func EncodingByName(name string) (Encoding, bool) {
	switch strings.ToLower(name) {
	case "identity":
		return Encoding{Name: "identity", Transform: IdentityTransform}, true
	case "gzip":
		return Encoding{Name: "gzip", Transform: GzipTransform}, true
	case "deflate":
		return Encoding{Name: "deflate", Transform: DeflateTransform}, true
	default:
		return Encoding{}, false
	}
}

func headerValid(name, value string) bool {
	return header.ValidField(name, value)
}

func equalFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
