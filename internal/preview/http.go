package preview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/P-1000/slate/internal/database"
)

// maxBodyBytes caps how much of a page is read when looking for
// metadata; OpenGraph tags live in <head>.
const maxBodyBytes = 512 * 1024

// HTTPFetcher fetches a page over HTTP and extracts OpenGraph metadata
// (falling back to <title> and the meta description).
type HTTPFetcher struct {
	client *http.Client
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher returns a fetcher using the given client, or a default
// client when nil. Timeouts are driven by the caller's context.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*database.Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build preview request: %w", err)
	}
	req.Header.Set("User-Agent", "slate-clipboard/1.0 (link preview)")
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch preview: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("preview fetch returned status %d", resp.StatusCode)
	}

	meta := parseMetadata(io.LimitReader(resp.Body, maxBodyBytes))
	meta.URL = rawURL
	return meta, nil
}

// parseMetadata tokenizes HTML and collects og:title, og:description,
// og:image, the meta description, and the <title> text. It stops at the
// end of <head> since metadata never appears later.
func parseMetadata(r io.Reader) *database.Metadata {
	meta := &database.Metadata{}
	var description string

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			finishMetadata(meta, description)
			return meta

		case html.EndTagToken:
			if tag, _ := z.TagName(); string(tag) == "head" {
				finishMetadata(meta, description)
				return meta
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			tag, hasAttr := z.TagName()
			switch string(tag) {
			case "meta":
				if hasAttr {
					collectMeta(z, meta, &description)
				}
			case "title":
				if z.Next() == html.TextToken && meta.Title == "" {
					meta.Title = strings.TrimSpace(string(z.Text()))
				}
			}
		}
	}
}

func collectMeta(z *html.Tokenizer, meta *database.Metadata, description *string) {
	var name, property, content string
	for {
		key, val, more := z.TagAttr()
		switch string(key) {
		case "name":
			name = string(val)
		case "property":
			property = string(val)
		case "content":
			content = string(val)
		}
		if !more {
			break
		}
	}

	switch property {
	case "og:title":
		meta.Title = content
	case "og:description":
		meta.Description = content
	case "og:image":
		meta.Image = content
	}
	if name == "description" && *description == "" {
		*description = content
	}
}

func finishMetadata(meta *database.Metadata, description string) {
	if meta.Description == "" {
		meta.Description = description
	}
}
