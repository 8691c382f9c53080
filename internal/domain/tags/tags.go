// Package tags canonicalizes free-form problem tags into a fixed vocabulary.
package tags

import "strings"

// synonyms maps lowercase aliases to canonical tags. Every value is a single
// hyphenated word that is either absent from the key set or maps to itself.
var synonyms = map[string]string{ //nolint:gochecknoglobals // immutable lookup table
	"dp":                  "dynamic-programming",
	"dynamic programming": "dynamic-programming",
	"bfs":                 "breadth-first-search",
	"dfs":                 "depth-first-search",
	"binary search":       "binary-search",
	"two pointers":        "two-pointers",
	"hash table":          "hash-table",
	"hash map":            "hash-table",
	"hashmap":             "hash-table",
	"hashing":             "hash-table",
	"linked list":         "linked-list",
	"divide and conquer":  "divide-and-conquer",
	"greedy algorithm":    "greedy",
	"sorting algorithm":   "sorting",
	"graph theory":        "graph",
	"tree traversal":      "tree",
	"sliding window":      "sliding-window",
	"priority queue":      "heap",
	"math":                "mathematics",
	"maths":               "mathematics",
	"string manipulation": "string",
	"strings":             "string",
	"arrays":              "array",
	"matrix":              "matrix",
	"2d array":            "matrix",
	"bit manipulation":    "bit-manipulation",

	"palindrome":           "palindrome",
	"palindromic":          "palindrome",
	"subarray":             "subarray",
	"contiguous":           "subarray",
	"kadane":               "subarray",
	"subsequence":          "subsequence",
	"lis":                  "subsequence",
	"lcs":                  "subsequence",
	"intervals":            "intervals",
	"merge intervals":      "intervals",
	"overlapping":          "intervals",
	"islands":              "islands",
	"connected components": "islands",
	"flood fill":           "islands",
	"cycle":                "cycle",
	"cycle detection":      "cycle",
	"loop":                 "cycle",
	"anagram":              "anagram",
	"anagrams":             "anagram",
	"permutation":          "permutation",
	"stock":                "stock",
	"buy sell":             "stock",
	"trading":              "stock",
	"path sum":             "path-sum",
	"path":                 "path-sum",
	"topological":          "topological-sort",
	"topo sort":            "topological-sort",
	"backtrack":            "backtracking",
	"recursion":            "backtracking",
	"prefix":               "prefix-sum",
	"prefix sum":           "prefix-sum",
	"cumulative":           "prefix-sum",
	"monotonic":            "monotonic-stack",
	"monotone":             "monotonic-stack",
	"union find":           "union-find",
	"disjoint set":         "union-find",
	"dsu":                  "union-find",
	"cache":                "design",
	"lru":                  "design",
	"lfu":                  "design",

	"zigzag":     "zigzag",
	"zig-zag":    "zigzag",
	"zig zag":    "zigzag",
	"z-shape":    "zigzag",
	"simulation": "simulation",
	"simulate":   "simulation",
	"pattern":    "pattern",
}

func lookup(alias string) (string, bool) {
	c, ok := synonyms[alias]
	return c, ok
}

// Normalize lowercases and trims tag, resolves known aliases and otherwise
// replaces internal whitespace runs with a hyphen. The hyphenated form is
// resolved again, so "z shape" and "z-shape" land on the same tag.
func Normalize(tag string) string {
	lower := strings.ToLower(strings.TrimSpace(tag))
	if c, ok := lookup(lower); ok {
		return c
	}
	hyphenated := strings.Join(strings.Fields(lower), "-")
	if c, ok := lookup(hyphenated); ok {
		return c
	}
	return hyphenated
}

// NormalizeAll normalizes every tag, dropping empties and duplicates while
// keeping first-seen order.
func NormalizeAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		n := Normalize(t)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Set returns the normalized tags as a set.
func Set(in []string) map[string]struct{} {
	s := make(map[string]struct{}, len(in))
	for _, t := range NormalizeAll(in) {
		s[t] = struct{}{}
	}
	return s
}
