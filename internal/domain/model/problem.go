// Package model contains domain models passed between layers.
package model

import "strings"

// Platform identifies the judge a problem belongs to.
type Platform string

// Known judges.
const (
	PlatformLeetCode      Platform = "leetcode"
	PlatformGeeksForGeeks Platform = "geeksforgeeks"
	PlatformCodeforces    Platform = "codeforces"
	PlatformHackerRank    Platform = "hackerrank"
	PlatformCodeChef      Platform = "codechef"
	PlatformAtCoder       Platform = "atcoder"
	PlatformUnknown       Platform = "unknown"
)

// Source records which provider contributed a candidate.
type Source string

// Candidate sources.
const (
	SourceAPI   Source = "api"
	SourceLocal Source = "local"
	SourceML    Source = "ml"
)

// Problem is a coding-practice problem as seen by the ranking engine.
// ID has the form "<platform>:<slug-or-number>" and is unique across judges.
type Problem struct {
	ID       string   `json:"id" yaml:"id"`
	Platform Platform `json:"platform" yaml:"platform"`
	Title    string   `json:"title" yaml:"title"`
	URL      string   `json:"url,omitempty" yaml:"url,omitempty"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	// Difficulty is a judge-specific label ("easy", "basic") or rating ("1400").
	Difficulty string `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	// Constraints holds structured scale bounds keyed by variable name.
	Constraints map[string]float64 `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	// ConstraintsText is free text inferred when Constraints is empty.
	ConstraintsText string `json:"constraints_text,omitempty" yaml:"constraints_text,omitempty"`
	// IOStructure holds shape tags; when empty they are inferred from Description.
	IOStructure []string `json:"io_structure,omitempty" yaml:"io_structure,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Source      Source   `json:"source,omitempty" yaml:"source,omitempty"`
}

// Validate reports whether p carries the fields ranking requires.
func (p Problem) Validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return ErrMissingID
	case strings.TrimSpace(p.Title) == "":
		return ErrMissingTitle
	}
	return nil
}

// WithSource returns a copy of p tagged with s.
func (p Problem) WithSource(s Source) Problem {
	p.Source = s
	return p
}
