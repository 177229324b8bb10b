package ingest

import (
	"regexp"
	"strings"
)

// processorPrefixes are payment-processor markers stripped from the
// front of raw merchant strings before tokenization.
var processorPrefixes = []string{
	"SQ *", "SQ*", "TST*", "TST *", "PAYPAL *", "PAYPAL*", "PP*", "SP *", "SP*",
}

// noiseTokens carry no merchant signal on bank statements.
var noiseTokens = map[string]bool{
	"PURCHASE":  true,
	"PAYMENT":   true,
	"DEBIT":     true,
	"CREDIT":    true,
	"POS":       true,
	"CHECKCARD": true,
}

var (
	storeNumberRe = regexp.MustCompile(`[#*]\d+\b`)
	longDigitsRe  = regexp.MustCompile(`\b\d{4,}\b`)
	multiSpaceRe  = regexp.MustCompile(`\s+`)
)

// MinNormalizedLength is the floor below which the deterministic
// normalizer is considered to have produced too little signal and the
// LLM normalizer is consulted instead.
const MinNormalizedLength = 3

// NormalizeMerchant reduces a raw statement descriptor to a canonical
// merchant name: uppercase, processor prefixes and store numbers
// removed, long digit runs and noise tokens dropped, whitespace
// collapsed. "SQ *STARBUCKS #12345" becomes "STARBUCKS".
func NormalizeMerchant(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))

	for _, prefix := range processorPrefixes {
		if strings.HasPrefix(s, prefix) {
			s = s[len(prefix):]
			break
		}
	}

	s = storeNumberRe.ReplaceAllString(s, " ")
	s = longDigitsRe.ReplaceAllString(s, " ")

	var kept []string
	for _, token := range strings.Fields(s) {
		if noiseTokens[token] {
			continue
		}
		kept = append(kept, token)
	}

	return multiSpaceRe.ReplaceAllString(strings.TrimSpace(strings.Join(kept, " ")), " ")
}
