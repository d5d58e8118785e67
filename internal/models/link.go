package models

import "fmt"

// Link represents one shortened URL held in the local store.
type Link struct {
	ID          string  `json:"id"`
	OriginalURL string  `json:"originalUrl"`
	Code        string  `json:"code"`
	CreatedAt   int64   `json:"createdAt"`
	ExpiresAt   int64   `json:"expiresAt"`
	Clicks      []Click `json:"clicks"`
}

// NewLinkID derives a link identifier from its creation time and code.
// The pair is unique within one store because codes are unique at any instant.
func NewLinkID(createdAt int64, code string) string {
	return fmt.Sprintf("%d-%s", createdAt, code)
}

// IsExpired reports whether the link is expired at the given instant
// (milliseconds since epoch). The boundary instant itself is still valid:
// a link only expires strictly after ExpiresAt.
func (l *Link) IsExpired(nowMillis int64) bool {
	return nowMillis > l.ExpiresAt
}
