package ingest

import "testing"

func TestNormalizeMerchant(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "processor prefix and store number", input: "SQ *STARBUCKS #12345", want: "STARBUCKS"},
		{name: "store number tail", input: "COFFEE SHOP #123", want: "COFFEE SHOP"},
		{name: "lowercase input", input: "amazon marketplace", want: "AMAZON MARKETPLACE"},
		{name: "noise tokens dropped", input: "POS PURCHASE WALMART", want: "WALMART"},
		{name: "long digit run stripped", input: "DELTA AIR 0062339992001", want: "DELTA AIR"},
		{name: "checkcard noise", input: "CHECKCARD 0115 TRADER JOES", want: "TRADER JOES"},
		{name: "toast prefix", input: "TST* LOCAL BISTRO", want: "LOCAL BISTRO"},
		{name: "whitespace collapsed", input: "  UBER   EATS  ", want: "UBER EATS"},
		{name: "short residue", input: "SQ *7-11 #9988776655", want: "7-11"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeMerchant(tt.input); got != tt.want {
				t.Errorf("NormalizeMerchant(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
