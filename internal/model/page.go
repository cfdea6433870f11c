package model

import (
	"bytes"

	"golang.org/x/net/html"
)

// Page is the raw retrieved representation of a remote page at a point in
// time. It is owned transiently by the fetcher and consumed by the
// classifier; pages are never persisted.
type Page struct {
	// URL is the URL the page was fetched from.
	URL string

	// StatusCode is the HTTP response status code.
	StatusCode int

	// Raw is the response body, capped at the fetcher's body size limit.
	Raw []byte

	// Root is the parsed HTML document tree, or nil when the body could
	// not be parsed. A nil Root is treated downstream as a classification
	// miss, not an error.
	Root *html.Node
}

// Parse parses the raw body into the document tree. html.Parse is lenient
// and recovers from most malformed markup; on the rare hard failure Root
// stays nil and the page simply classifies as NotFound.
func (p *Page) Parse() {
	root, err := html.Parse(bytes.NewReader(p.Raw))
	if err != nil {
		p.Root = nil
		return
	}
	p.Root = root
}
