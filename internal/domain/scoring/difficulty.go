package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

// Difficulty ordinals run from 1 (easiest) to 5.
const (
	minLevel     = 1
	maxLevel     = 5
	defaultLevel = 3
)

//nolint:gochecknoglobals // immutable lookup table
var (
	difficultyLevels = map[string]int{
		"easy": 1, "medium": 3, "hard": 5, "school": 1, "basic": 1, "beginner": 1,
		"800": 1, "900": 1, "1000": 1, "1100": 2, "1200": 2, "1300": 2,
		"1400": 3, "1500": 3, "1600": 3, "1700": 4, "1800": 4, "1900": 4,
		"2000": 5, "2100": 5, "2200": 5,
	}
	leadingInt = regexp.MustCompile(`^[+-]?\d+`)
)

// DifficultyLevel maps a judge label or numeric rating onto the 1..5 scale.
// Unknown or missing values are treated as medium.
func DifficultyLevel(d string) int {
	s := strings.ToLower(strings.TrimSpace(d))
	if s == "" {
		return defaultLevel
	}
	if lvl, ok := difficultyLevels[s]; ok {
		return lvl
	}
	n, err := strconv.Atoi(leadingInt.FindString(s))
	if err != nil {
		return defaultLevel
	}
	switch {
	case n <= 1000:
		return 1
	case n <= 1300:
		return 2
	case n <= 1600:
		return 3
	case n <= 1900:
		return 4
	default:
		return maxLevel
	}
}
