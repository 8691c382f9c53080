// Package rankcli implements the rank command: it ranks one problem either
// in-process or against a running crossjudge server and prints the matches.
package rankcli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/crossjudge/internal/adapters/providers/catalog"
	"github.com/okian/crossjudge/internal/domain/model"
	"github.com/okian/crossjudge/pkg/logger"
)

// ErrNoQuery is returned when neither a file, a catalog id nor a title was given.
var ErrNoQuery = errors.New("no query problem: pass -problem, -catalog-id or -title")

// Config holds the command's flags.
type Config struct {
	BaseURL     string        // Server to query; empty ranks in-process
	Timeout     time.Duration // HTTP request timeout
	ProblemFile string        // JSON file holding the query problem
	CatalogID   string        // Catalog entry to use as the query
	ID          string
	Platform    string
	Title       string
	Tags        string // Comma separated
	Difficulty  string
	Constraints string // Free text, e.g. "1 <= n <= 10^5"
	Description string
	JSON        bool // Print JSON instead of text

	Logger logger.Logger // Used for in-process ranking; defaults to a no-op logger
}

// Query builds the problem to rank from the flags.
func (c *Config) Query() (model.Problem, error) {
	switch {
	case c.ProblemFile != "":
		raw, err := os.ReadFile(c.ProblemFile)
		if err != nil {
			return model.Problem{}, fmt.Errorf("read problem file: %w", err)
		}
		var p model.Problem
		if err := json.Unmarshal(raw, &p); err != nil {
			return model.Problem{}, fmt.Errorf("decode problem file: %w", err)
		}
		return p, nil
	case c.CatalogID != "":
		cat, err := catalog.New()
		if err != nil {
			return model.Problem{}, err
		}
		p, ok := cat.ByID(c.CatalogID)
		if !ok {
			return model.Problem{}, fmt.Errorf("catalog has no problem %q", c.CatalogID)
		}
		return p, nil
	case strings.TrimSpace(c.Title) != "":
		platform := model.Platform(strings.ToLower(c.Platform))
		if platform == "" {
			platform = model.PlatformUnknown
		}
		id := c.ID
		if id == "" {
			id = string(platform) + ":" + strings.Join(strings.Fields(strings.ToLower(c.Title)), "-")
		}
		return model.Problem{
			ID:              id,
			Platform:        platform,
			Title:           c.Title,
			Tags:            splitList(c.Tags),
			Difficulty:      c.Difficulty,
			ConstraintsText: c.Constraints,
			Description:     c.Description,
		}, nil
	}
	return model.Problem{}, ErrNoQuery
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
