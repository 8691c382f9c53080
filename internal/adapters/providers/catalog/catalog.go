// Package catalog serves the curated list of cross-platform problem
// equivalents, optionally reloaded from a YAML file when it changes.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/okian/crossjudge/internal/domain/model"
	"github.com/okian/crossjudge/pkg/logger"
	"github.com/okian/crossjudge/pkg/metrics"
)

//go:embed catalog.yaml
var embedded []byte

type document struct {
	Problems []model.Problem `yaml:"problems"`
}

// Option applies a configuration option to the Catalog.
type Option func(*Catalog)

// WithPath loads entries from path instead of the embedded catalog.
func WithPath(path string) Option {
	return func(c *Catalog) {
		c.path = strings.TrimSpace(path)
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// Catalog is an in-memory CatalogProvider. Reads are safe during reloads.
type Catalog struct {
	mu       sync.RWMutex
	problems []model.Problem
	byID     map[string]int

	path   string
	logger logger.Logger
}

// New loads the catalog from the configured file or the embedded default.
func New(opts ...Option) (*Catalog, error) {
	c := &Catalog{logger: logger.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	data := embedded
	if c.path != "" {
		raw, err := os.ReadFile(c.path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		data = raw
	}
	problems, err := Parse(data)
	if err != nil {
		return nil, err
	}
	c.replace(problems)
	return c, nil
}

// Parse decodes a YAML catalog document and validates every entry.
func Parse(data []byte) ([]model.Problem, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(doc.Problems))
	for i := range doc.Problems {
		p := &doc.Problems[i]
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w at index %d: %w", ErrInvalidItem, i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.Platform == "" {
			p.Platform = model.PlatformUnknown
		}
		p.Source = model.SourceLocal
	}
	return doc.Problems, nil
}

// Available reports whether the catalog holds any entry.
func (c *Catalog) Available() bool {
	return c.Len() > 0
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.problems)
}

// OtherPlatforms returns every entry not on platform, in catalog order.
func (c *Catalog) OtherPlatforms(_ context.Context, platform model.Platform) ([]model.Problem, error) {
	return c.filter(func(p model.Problem) bool { return p.Platform != platform }), nil
}

// All returns every entry in catalog order.
func (c *Catalog) All() []model.Problem {
	return c.filter(func(model.Problem) bool { return true })
}

// ByPlatform returns the entries on platform.
func (c *Catalog) ByPlatform(platform model.Platform) []model.Problem {
	return c.filter(func(p model.Problem) bool { return p.Platform == platform })
}

// SearchTitle returns entries whose title contains q, case-insensitively.
func (c *Catalog) SearchTitle(q string) []model.Problem {
	q = strings.ToLower(q)
	return c.filter(func(p model.Problem) bool { return strings.Contains(strings.ToLower(p.Title), q) })
}

// ByID returns the entry with id.
func (c *Catalog) ByID(id string) (model.Problem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return model.Problem{}, false
	}
	return c.problems[i], true
}

// Reload re-reads the catalog file. On error the previous entries stay.
func (c *Catalog) Reload() error {
	if c.path == "" {
		return ErrNoPath
	}
	raw, err := os.ReadFile(c.path)
	if err != nil {
		metrics.RecordCatalogReload("error")
		return fmt.Errorf("read catalog: %w", err)
	}
	problems, err := Parse(raw)
	if err != nil {
		metrics.RecordCatalogReload("error")
		return err
	}
	c.replace(problems)
	metrics.RecordCatalogReload("ok")
	return nil
}

func (c *Catalog) replace(problems []model.Problem) {
	byID := make(map[string]int, len(problems))
	for i, p := range problems {
		byID[p.ID] = i
	}
	c.mu.Lock()
	c.problems = problems
	c.byID = byID
	c.mu.Unlock()
	metrics.UpdateCatalogEntries(len(problems))
}

func (c *Catalog) filter(keep func(model.Problem) bool) []model.Problem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Problem, 0, len(c.problems))
	for _, p := range c.problems {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
