// Package ingest contains the document ingestion pipeline: parse,
// normalize, deduplicate, categorize and persist.
package ingest

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/application/adapter"
)

// Column alias sets for header detection. Comparison is
// case-insensitive on the trimmed header cell.
var (
	dateAliases        = []string{"date", "posted date", "transaction date", "posting date"}
	amountAliases      = []string{"amount", "transaction amount"}
	debitAliases       = []string{"debit", "withdrawal"}
	creditAliases      = []string{"credit", "deposit"}
	descriptionAliases = []string{"description", "merchant", "name", "transaction description", "memo"}
)

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"01-02-2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
}

// csvColumns holds the resolved column indexes. Either amount is set,
// or the debit/credit pair is.
type csvColumns struct {
	date        int
	description int
	amount      int
	debit       int
	credit      int
}

// ParseCSV is the deterministic statement parser. It detects the
// header row, resolves column aliases, parses amounts into minor units
// and rejects rows with an unparsable date or a zero amount. Rejected
// rows are reported, not fatal; a document that resolves no header or
// no rows yields an empty slice so the caller can fall back to the
// multimodal parser.
func ParseCSV(content string) ([]adapter.ParsedTransaction, []string) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	headerIdx := -1
	var cols csvColumns
	for i, line := range lines {
		if c, ok := resolveHeader(splitCSVLine(line)); ok {
			headerIdx = i
			cols = c
			break
		}
	}
	if headerIdx == -1 {
		return nil, []string{"no recognizable header row"}
	}

	var parsed []adapter.ParsedTransaction
	var rowErrors []string

	for _, line := range lines[headerIdx+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitCSVLine(line)

		postedAt, ok := parseDateField(fieldAt(fields, cols.date))
		if !ok {
			rowErrors = append(rowErrors, "unparsable date: "+fieldAt(fields, cols.date))
			continue
		}

		amount, ok := parseAmountField(fields, cols)
		if !ok || amount == 0 {
			rowErrors = append(rowErrors, "unparsable or zero amount in row: "+line)
			continue
		}

		description := strings.TrimSpace(fieldAt(fields, cols.description))
		parsed = append(parsed, adapter.ParsedTransaction{
			PostedAt:    postedAt,
			Amount:      amount,
			Description: description,
			MerchantRaw: description,
		})
	}

	return parsed, rowErrors
}

// resolveHeader maps a candidate header row onto column indexes. A row
// qualifies when it names a date column, a description column, and
// either an amount column or a debit/credit pair.
func resolveHeader(cells []string) (csvColumns, bool) {
	cols := csvColumns{date: -1, description: -1, amount: -1, debit: -1, credit: -1}

	for i, cell := range cells {
		name := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case cols.date == -1 && contains(dateAliases, name):
			cols.date = i
		case cols.amount == -1 && contains(amountAliases, name):
			cols.amount = i
		case cols.debit == -1 && contains(debitAliases, name):
			cols.debit = i
		case cols.credit == -1 && contains(creditAliases, name):
			cols.credit = i
		case cols.description == -1 && contains(descriptionAliases, name):
			cols.description = i
		}
	}

	if cols.date == -1 || cols.description == -1 {
		return csvColumns{}, false
	}
	if cols.amount == -1 && (cols.debit == -1 || cols.credit == -1) {
		return csvColumns{}, false
	}
	return cols, true
}

// splitCSVLine splits one line on commas, honoring double-quoted fields
// with embedded commas and doubled quotes.
func splitCSVLine(line string) []string {
	var fields []string
	var sb strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				sb.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, sb.String())
			sb.Reset()
		default:
			sb.WriteByte(ch)
		}
	}
	fields = append(fields, sb.String())
	return fields
}

func parseDateField(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmountField resolves the signed amount in minor units, either
// from the single amount column or from the debit/credit pair as
// credit - debit.
func parseAmountField(fields []string, cols csvColumns) (int64, bool) {
	if cols.amount != -1 {
		return parseMoney(fieldAt(fields, cols.amount))
	}

	debit, debitOK := parseMoney(fieldAt(fields, cols.debit))
	credit, creditOK := parseMoney(fieldAt(fields, cols.credit))
	if !debitOK && !creditOK {
		return 0, false
	}
	return credit - debit, true
}

// parseMoney turns a statement amount cell into minor units, stripping
// currency symbols, thousands separators and quotes. Parenthesized
// amounts are negative.
func parseMoney(raw string) (int64, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, `"'`)
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	cents := d.Shift(2).Round(0).IntPart()
	if negative {
		cents = -cents
	}
	return cents, true
}

func fieldAt(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return fields[idx]
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
