package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLanguage(t *testing.T) {
	cases := map[string]string{
		"Python3":    "python",
		"C++":        "cpp",
		"JavaScript": "js",
		"Go":         "go",
		" Golang ":   "go",
		"Rust":       "rust",
		"MySQL":      "sql",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeLanguage(in), in)
	}
}

func TestDates(t *testing.T) {
	ts := time.Date(2024, 2, 10, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	assert.Equal(t, "2024-02-10", DateKey(ts))
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), MidnightUTC(ts))
	assert.Equal(t, 29, DaysInMonth(ts))
	assert.Equal(t, 31, DaysInMonth(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))
}
