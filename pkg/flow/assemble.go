package flow

import (
	"net/http"
	"strings"

	"github.com/getdecider/decider/internal/conneg"
	"github.com/getdecider/decider/pkg/walk"
)

// assemble finalizes the response after the walk: default status, the
// negotiated charset and encoding transforms over rendered entity bytes,
// and the standard Content-Type, Content-Encoding, and Vary headers.
// Headers fixed by decision nodes (ETag, Last-Modified, Expires, Location,
// Allow, WWW-Authenticate) are already in place. rendered is true only
// when a renderer produced the body; halted walks never transform.
func assemble(c walk.Context, rendered bool) walk.Response {
	resp := c.Resp
	if resp.Header == nil {
		resp.Header = http.Header{}
	}
	if resp.Code == 0 {
		resp.Code = http.StatusOK
	}

	if rendered {
		if len(resp.Body) > 0 {
			if resp.CharsetTransform != nil {
				resp.Body = resp.CharsetTransform(resp.Body)
			}
			if resp.EncodingTransform != nil {
				resp.Body = resp.EncodingTransform(resp.Body)
			}
		}
		if resp.MediaType != "" {
			ct := resp.MediaType
			if resp.Charset != "" {
				ct += "; charset=" + resp.Charset
			}
			resp.Header.Set("Content-Type", ct)
		}
		if resp.Encoding != "" && resp.Encoding != conneg.IdentityEncoding {
			resp.Header.Set("Content-Encoding", resp.Encoding)
		}
	}

	if len(resp.Vary) > 0 {
		resp.Header.Set("Vary", strings.Join(resp.Vary, ", "))
	}

	// A HEAD walk runs the full GET path so the entity headers come out
	// right; only the body stays home.
	if c.Req.Method == http.MethodHead || resp.Code == http.StatusNotModified {
		resp.Body = nil
	}

	return resp
}
