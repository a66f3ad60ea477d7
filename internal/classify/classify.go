// Package classify decides the semantic type of a raw clipboard capture.
package classify

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/P-1000/slate/internal/clipboard"
	"github.com/P-1000/slate/internal/database"
)

const dataURIPrefix = "data:image/png;base64,"

// Result is a classified capture: its semantic type and the canonical
// content string used for storage and dedup. For link items URL carries
// the trimmed target, since the content keeps whatever whitespace the
// user copied.
type Result struct {
	Type    database.ItemType
	Content string
	URL     string
}

// Classify inspects a raw capture and returns its classification. The
// second return value is false when the capture must be skipped: empty
// or whitespace-only text, or a zero-size image.
func Classify(c clipboard.Capture) (Result, bool) {
	switch c.Kind {
	case clipboard.KindText:
		trimmed := strings.TrimSpace(c.Text)
		if trimmed == "" {
			return Result{}, false
		}
		if IsHTTPURL(trimmed) {
			// Content keeps the original string so re-copying
			// restores exactly what the user copied.
			return Result{Type: database.TypeLink, Content: c.Text, URL: trimmed}, true
		}
		return Result{Type: database.TypeText, Content: c.Text}, true

	case clipboard.KindImage:
		if len(c.Image) == 0 {
			return Result{}, false
		}
		return Result{Type: database.TypeImage, Content: EncodeImage(c.Image)}, true
	}

	return Result{}, false
}

// IsHTTPURL reports whether s is a syntactically valid absolute URL with
// an http or https scheme.
func IsHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// EncodeImage encodes PNG bytes as a base64 data URI. The encoding is
// deterministic, so identical images dedupe identically.
func EncodeImage(data []byte) string {
	return dataURIPrefix + base64.StdEncoding.EncodeToString(data)
}

// DecodeImage reverses EncodeImage. Returns false if content is not an
// image data URI.
func DecodeImage(content string) ([]byte, bool) {
	rest, ok := strings.CutPrefix(content, "data:image/")
	if !ok {
		return nil, false
	}
	_, b64, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, false
	}
	return data, true
}
