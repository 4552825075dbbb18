package handler

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	DefaultLimit = 20
	MinLimit     = 1
	MaxLimit     = 60
)

// SearchRequest is the validated form of a /search query string.
type SearchRequest struct {
	Query string
	Limit int
}

// parseLimit reads the leading integer of raw, the way browsers' parseInt does
// ("15abc" is 15), falls back to DefaultLimit and clamps to [MinLimit, MaxLimit].
func parseLimit(raw string) int {
	n, ok := leadingInt(raw)
	if !ok {
		n = DefaultLimit
	}
	return min(MaxLimit, max(MinLimit, n))
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// out of range for int; only the sign matters once clamped
		n = math.MaxInt
	}
	if neg {
		n = -n
	}
	return n, true
}
