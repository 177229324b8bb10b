package persistence

import (
	"errors"
	"testing"
	"time"

	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

func TestCursorRoundTrip(t *testing.T) {
	in := pageCursor{
		PostedAt: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		ID:       "tx-123",
	}

	out, err := decodeCursor(encodeCursor(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.PostedAt.Equal(in.PostedAt) || out.ID != in.ID {
		t.Errorf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not base64", input: "!!!not-base64!!!"},
		{name: "base64 but not JSON", input: "bm90LWpzb24"},
		{name: "empty JSON", input: "e30"},
		{name: "missing id", input: "eyJwb3N0ZWRBdCI6IjIwMjQtMDYtMTVUMDA6MDA6MDBaIn0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeCursor(tt.input); !errors.Is(err, domainerror.ErrInvalidCursor) {
				t.Fatalf("expected ErrInvalidCursor, got %v", err)
			}
		})
	}
}
