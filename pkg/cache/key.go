package cache

import (
	"fmt"
	"strings"
)

// Key identifies a cached collection page. Page size is part of the key so
// a page-size change never serves records from the wrong slice boundaries.
type Key struct {
	// Endpoint is the collection endpoint URL.
	Endpoint string

	// Page is the 1-based page number.
	Page int

	// Limit is the page size the page was requested with.
	Limit int
}

// String generates a deterministic cache key string.
// Format: arttable:<endpoint>:page=<n>:limit=<l>
func (k Key) String() string {
	endpoint := strings.TrimRight(k.Endpoint, "/")
	return fmt.Sprintf("arttable:%s:page=%d:limit=%d", endpoint, k.Page, k.Limit)
}
