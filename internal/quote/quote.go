// Package quote stores favorite passages attached to a single book.
package quote

// Quote is one saved passage. Page, type and category are optional.
type Quote struct {
	ID       int64   `json:"id"`
	BookID   int64   `json:"book_id"`
	Text     string  `json:"text"`
	Page     *int    `json:"page,omitempty"`
	Type     *string `json:"type,omitempty"`
	Category *string `json:"category,omitempty"`
	Favorite bool    `json:"favorite"`
}
