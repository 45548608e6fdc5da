package imports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBool(t *testing.T) {
	truthy := []string{"true", "1", "yes", "כן", "יש", "✓", " TRUE "}
	for _, in := range truthy {
		got, ok := parseBool(in)
		require.True(t, ok, "input %q", in)
		assert.True(t, got, "input %q", in)
	}

	falsy := []string{"false", "0", "no", "לא", "nope"}
	for _, in := range falsy {
		got, ok := parseBool(in)
		require.True(t, ok, "input %q", in)
		assert.False(t, got, "input %q", in)
	}

	_, ok := parseBool("   ")
	assert.False(t, ok)
}

func TestParseInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"42", 42, true},
		{"1,234", 1234, true},
		{"42.0", 42, true},
		{" 7 ", 7, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseInt(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-03-15", "15/03/2024", "15-03-2024", "2024/03/15"} {
		got, ok := parseDate(in)
		require.True(t, ok, "input %q", in)
		assert.True(t, want.Equal(got), "input %q parsed to %v", in, got)
	}

	_, ok := parseDate("March 15 2024")
	assert.False(t, ok)
	_, ok = parseDate("")
	assert.False(t, ok)
}

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1,200", "1200", true},
		{"₪ 350.50", "350.5", true},
		{"1000", "1000", true},
		{"$99", "99", true},
		{"", "", false},
		{"n/a", "", false},
	}
	for _, tc := range cases {
		got, ok := parseDecimal(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestParseDecimal_CanonicalAcrossRuns(t *testing.T) {
	a, _ := parseDecimal("1,200")
	b, _ := parseDecimal("1200")
	assert.Equal(t, a, b)
}
