package imports

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Cell conversion mirrors how values arrive from real spreadsheets:
// booleans as Hebrew yes-words or checkmarks, numbers with thousands
// separators, dates in a handful of regional layouts. Conversion never
// errors; an unconvertible cell is simply skipped.

var truthyValues = map[string]bool{
	"true": true, "1": true, "yes": true,
	"כן": true, "יש": true, "✓": true,
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
}

func parseBool(raw string) (bool, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return false, false
	}
	return truthyValues[value], true
}

// parseInt tolerates thousands separators and float-formatted cells
// ("1,234", "42.0") the way spreadsheet exports produce them.
func parseInt(raw string) (int, bool) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

func parseDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseDecimal canonicalizes a monetary cell: separators and currency
// marks are stripped and the amount re-rendered without them, so stored
// values compare equal across import runs.
func parseDecimal(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	value = strings.ReplaceAll(value, ",", "")
	value = strings.ReplaceAll(value, "₪", "")
	value = strings.ReplaceAll(value, "$", "")
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return "", false
	}
	return d.String(), true
}
