package rankcli

import "io"

// ShowHelp prints usage information for the rank command.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `crossjudge rank
===============

Finds equivalent problems on other judges for one query problem.

Usage:
  go run ./cmd/rank [options]

Query (one of):
  -problem string      JSON file holding the problem
  -catalog-id string   Use a curated catalog entry, e.g. leetcode:1
  -title string        Build the problem from flags:
      -id, -platform, -tags (comma separated), -difficulty,
      -constraints (free text), -description

Options:
  -url string          Rank against a running server instead of in-process
  -timeout duration    HTTP request timeout (default 30s)
  -json                Print JSON
  -help                Show this help message

In-process ranking reads the same CROSSJUDGE_* environment as the server,
so remote search and semantic scoring apply when their keys are set.

Examples:
  go run ./cmd/rank -catalog-id leetcode:1
  go run ./cmd/rank -title "Two Sum" -platform leetcode -tags array,hashing -difficulty easy
  go run ./cmd/rank -problem two-sum.json -url http://localhost:9080 -json
`)
}
