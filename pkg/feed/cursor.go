package feed

import (
	"fmt"
	"strconv"
)

// Cursor is an opaque pagination token. For this API it serializes a
// zero-based page index; callers should treat it as opaque and hand it
// back unchanged.
type Cursor string

// First is the cursor for the first feed page.
const First Cursor = "0"

// PageIndex parses the cursor into the page index used by the content API.
func (c Cursor) PageIndex() (int, error) {
	index, err := strconv.Atoi(string(c))
	if err != nil {
		return 0, fmt.Errorf("parse cursor %q: %w", string(c), err)
	}
	if index < 0 {
		return 0, fmt.Errorf("cursor %q: page index must not be negative", string(c))
	}
	return index, nil
}

// CursorFor serializes a page index into a cursor.
func CursorFor(index int) Cursor {
	return Cursor(strconv.Itoa(index))
}

// Page is one assembled feed page. End set together with an empty item
// list is the terminal end-of-feed marker, distinct from any failure.
type Page struct {
	Items []FeedItem `json:"items"`
	Next  Cursor     `json:"next_cursor,omitempty"`
	End   bool       `json:"end,omitempty"`
}
