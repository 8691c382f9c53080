// Package inference derives scale bounds and input/output shapes from the
// free text attached to a problem.
package inference

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// IO shape tags.
const (
	ShapeArray   = "array"
	ShapeMatrix  = "matrix"
	ShapeString  = "string"
	ShapeInteger = "integer"
	ShapeTree    = "tree"
	ShapeGraph   = "graph"
)

//nolint:gochecknoglobals // compiled once
var (
	powerBound    = regexp.MustCompile(`(?i)(\w)\s*[≤<]=?\s*10\^(\d+)`)
	exponentBound = regexp.MustCompile(`(?i)(\w)\s*[≤<]=?\s*1e(\d+)`)
	integerBound  = regexp.MustCompile(`(?i)(\w)\s*[≤<]=?\s*(\d{3,})`)

	shapes = []struct {
		tag string
		re  *regexp.Regexp
	}{
		{ShapeArray, regexp.MustCompile(`\barray\b|\blist\b`)},
		{ShapeMatrix, regexp.MustCompile(`\bmatrix\b|\bgrid\b`)},
		{ShapeString, regexp.MustCompile(`\bstring\b`)},
		{ShapeInteger, regexp.MustCompile(`\binteger\b|\bnumber\b`)},
		{ShapeTree, regexp.MustCompile(`\btree\b`)},
		{ShapeGraph, regexp.MustCompile(`\bgraph\b|\bedges?\b`)},
	}
)

// Constraints extracts upper bounds keyed by lowercased variable name. The
// first bound stated for a variable wins. Exponent forms ("n ≤ 10^5",
// "n <= 1e5") are preferred over bare integers of three or more digits, which
// only fill variables no exponent form bounds.
func Constraints(text string) map[string]float64 {
	out := map[string]float64{}
	if strings.TrimSpace(text) == "" {
		return out
	}

	type bound struct {
		at  int
		key string
		exp int
	}
	var exps []bound
	for _, re := range []*regexp.Regexp{powerBound, exponentBound} {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			exp, err := strconv.Atoi(text[m[4]:m[5]])
			if err != nil {
				continue
			}
			exps = append(exps, bound{at: m[0], key: strings.ToLower(text[m[2]:m[3]]), exp: exp})
		}
	}
	sort.SliceStable(exps, func(i, j int) bool { return exps[i].at < exps[j].at })
	for _, b := range exps {
		if _, ok := out[b.key]; ok {
			continue
		}
		out[b.key] = math.Pow(10, float64(b.exp))
	}

	for _, m := range integerBound.FindAllStringSubmatch(text, -1) {
		key := strings.ToLower(m[1])
		if _, ok := out[key]; ok {
			continue
		}
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		out[key] = v
	}
	return out
}

// Scale picks the representative bound of a constraint map: n (or N) when
// present, else the largest value. It reports false for an empty map.
func Scale(c map[string]float64) (float64, bool) {
	if len(c) == 0 {
		return 0, false
	}
	if v, ok := c["n"]; ok && v > 0 {
		return v, true
	}
	if v, ok := c["N"]; ok && v > 0 {
		return v, true
	}
	largest := 0.0
	for _, v := range c {
		if v > largest {
			largest = v
		}
	}
	if largest <= 0 {
		return 0, false
	}
	return largest, true
}

// IOShapes classifies text into shape tags by keyword. The result is sorted
// and empty when no keyword matches.
func IOShapes(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var out []string
	for _, s := range shapes {
		if s.re.MatchString(lower) {
			out = append(out, s.tag)
		}
	}
	sort.Strings(out)
	return out
}
