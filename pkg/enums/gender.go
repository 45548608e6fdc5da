package enums

import "strings"

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnknown:
		return true
	}
	return false
}

// ParseGender maps free-form spreadsheet values onto the enum. Hebrew
// single-letter forms show up in imported files alongside English words.
func ParseGender(value string) Gender {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "male", "m", "זכר", "ז":
		return GenderMale
	case "female", "f", "נקבה", "נ":
		return GenderFemale
	default:
		return GenderUnknown
	}
}
