package guests

import (
	"strings"
	"unicode"
)

const (
	// SyntheticIDPrefix marks identifiers minted by the import engine for
	// rows that carried no usable identifier.
	SyntheticIDPrefix = "TEMP-"

	israelCallingCode = "972"
	localPhoneDigits  = 10
)

// NormalizeID reduces a candidate identifier to its digits. An empty
// result means the value carries no usable identifier.
func NormalizeID(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhone reduces a phone number to comparable digits. Numbers
// written with the country calling code are rewritten to the local
// leading-zero form, and only the trailing digits are kept so differing
// prefixes do not defeat a match.
func NormalizePhone(raw string) string {
	digits := NormalizeID(raw)
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, israelCallingCode) && len(digits) > localPhoneDigits {
		digits = "0" + digits[len(israelCallingCode):]
	}
	if len(digits) > localPhoneDigits {
		digits = digits[len(digits)-localPhoneDigits:]
	}
	return digits
}

// LooksLikeUUID reports whether the value resembles a machine-generated
// UUID rather than a human identifier: it contains a dash and at least
// one letter. Spreadsheets exported from other systems leak these into
// the ID column.
func LooksLikeUUID(value string) bool {
	if !strings.Contains(value, "-") {
		return false
	}
	for _, r := range value {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// IsSyntheticID reports whether the identifier was minted by an import.
func IsSyntheticID(value string) bool {
	return strings.HasPrefix(strings.TrimSpace(value), SyntheticIDPrefix)
}

// UsableID reports whether a raw spreadsheet value can serve as a real
// display identifier: non-empty, not the "-" placeholder, not
// UUID-shaped, and carrying at least one digit.
func UsableID(raw string) bool {
	value := strings.TrimSpace(raw)
	if value == "" || value == "-" {
		return false
	}
	if IsSyntheticID(value) {
		return false
	}
	if LooksLikeUUID(value) {
		return false
	}
	return NormalizeID(value) != ""
}
