package scoring

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/okian/crossjudge/internal/domain/inference"
	"github.com/okian/crossjudge/internal/domain/model"
	"github.com/okian/crossjudge/internal/domain/tags"
)

// Neutral constraint similarities when scale bounds are missing.
const (
	noScaleSimilarity  = 0.5
	oneScaleSimilarity = 0.3
)

//nolint:gochecknoglobals // compiled once
var (
	punctuation = regexp.MustCompile(`[^\w\s]`)
	digits      = regexp.MustCompile(`\d+`)
	stopwords   = map[string]struct{}{
		"the": {}, "a": {}, "an": {}, "of": {}, "in": {}, "to": {}, "for": {}, "problem": {},
	}
)

// Tokenize lowercases s, strips punctuation and digits and returns the
// remaining words longer than one character that are not stopwords.
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}
	s = punctuation.ReplaceAllString(strings.ToLower(s), " ")
	s = digits.ReplaceAllString(s, "")
	var out []string
	for _, t := range strings.Fields(s) {
		if len(t) <= 1 {
			continue
		}
		if _, stop := stopwords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Jaccard returns |a∩b| / |a∪b|. Two empty sets are identical; one empty set
// shares nothing with a non-empty one.
func Jaccard(a, b map[string]struct{}) float64 {
	switch {
	case len(a) == 0 && len(b) == 0:
		return 1
	case len(a) == 0 || len(b) == 0:
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}

// EditSimilarity is 1 - levenshtein(a,b)/max(len).
func EditSimilarity(a, b string) float64 {
	switch {
	case a == "" && b == "":
		return 1
	case a == "" || b == "":
		return 0
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// TitleSimilarity blends token overlap with edit similarity of the sorted
// token strings, weighted 0.6 and 0.4.
func TitleSimilarity(a, b string) float64 {
	ta, tb := Tokenize(a), Tokenize(b)
	j := Jaccard(toSet(ta), toSet(tb))
	sort.Strings(ta)
	sort.Strings(tb)
	return j*0.6 + EditSimilarity(strings.Join(ta, " "), strings.Join(tb, " "))*0.4
}

// TagSimilarity is the Jaccard index of the normalized tag sets.
func TagSimilarity(a, b []string) float64 {
	return Jaccard(tags.Set(a), tags.Set(b))
}

// ConstraintSimilarity compares the order of magnitude of the two problems'
// scale bounds. Free text is inferred when the structured map is empty.
func ConstraintSimilarity(a, b model.Problem) float64 {
	sa, okA := inference.Scale(constraintsOf(a))
	sb, okB := inference.Scale(constraintsOf(b))
	switch {
	case !okA && !okB:
		return noScaleSimilarity
	case !okA || !okB:
		return oneScaleSimilarity
	}
	la, lb := math.Log10(sa), math.Log10(sb)
	return math.Max(0, 1-math.Abs(la-lb)/math.Max(math.Max(la, lb), 1))
}

// DifficultySimilarity is 1 - |Δlevel|/4.
func DifficultySimilarity(a, b string) float64 {
	d := DifficultyLevel(a) - DifficultyLevel(b)
	if d < 0 {
		d = -d
	}
	return 1 - float64(d)/float64(maxLevel-minLevel)
}

// IOSimilarity is the Jaccard index of the I/O shape sets, inferring shapes
// from the description when none are declared.
func IOSimilarity(a, b model.Problem) float64 {
	return Jaccard(toSet(shapesOf(a)), toSet(shapesOf(b)))
}

func constraintsOf(p model.Problem) map[string]float64 {
	if len(p.Constraints) > 0 {
		return p.Constraints
	}
	return inference.Constraints(p.ConstraintsText)
}

func shapesOf(p model.Problem) []string {
	if len(p.IOStructure) > 0 {
		return p.IOStructure
	}
	return inference.IOShapes(p.Description)
}

func toSet(items []string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}
