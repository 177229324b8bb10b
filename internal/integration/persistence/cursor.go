package persistence

import (
	"encoding/base64"
	"encoding/json"
	"time"

	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

// pageCursor is the keyset position of the last row on a page. The
// listing orders by postedAt descending then id descending, so the next
// page starts strictly after this position.
type pageCursor struct {
	PostedAt time.Time `json:"postedAt"`
	ID       string    `json:"id"`
}

// encodeCursor serializes a cursor as URL-safe base64 JSON.
func encodeCursor(c pageCursor) string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// decodeCursor parses a client-supplied cursor. Anything that does not
// decode is an invalid-cursor error, never a store failure.
func decodeCursor(s string) (pageCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return pageCursor{}, domainerror.ErrInvalidCursor
	}
	var c pageCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return pageCursor{}, domainerror.ErrInvalidCursor
	}
	if c.ID == "" || c.PostedAt.IsZero() {
		return pageCursor{}, domainerror.ErrInvalidCursor
	}
	return c, nil
}
