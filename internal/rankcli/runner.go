package rankcli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	app "github.com/okian/crossjudge/internal/app"
	"github.com/okian/crossjudge/internal/config"
	"github.com/okian/crossjudge/internal/domain/model"
	"github.com/okian/crossjudge/pkg/logger"
)

// Ranker ranks a query and explains breakdowns.
type Ranker interface {
	Rank(ctx context.Context, q model.Problem) ([]model.MatchResult, error)
	Explain(bd model.Breakdown) string
}

// Run ranks the configured query and writes the matches to out.
func Run(ctx context.Context, cfg *Config, out io.Writer) error {
	q, err := cfg.Query()
	if err != nil {
		return err
	}

	var matches []Match
	if cfg.BaseURL != "" {
		matches, err = newHTTPClient(cfg.BaseURL, cfg.Timeout).rank(ctx, q)
	} else {
		log := cfg.Logger
		if log == nil {
			log = logger.NewNop()
		}
		matches, err = rankLocal(ctx, q, log)
	}
	if err != nil {
		return err
	}
	return Render(out, q, matches, cfg.JSON)
}

// rankLocal ranks in-process using the service configuration from the
// environment, so CROSSJUDGE_* settings apply here too.
func rankLocal(ctx context.Context, q model.Problem, log logger.Logger) ([]Match, error) {
	svcCfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	svcCfg.WarmupCatalog = false

	svc, err := app.FromConfig(ctx, svcCfg, log)
	if err != nil {
		return nil, err
	}
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	defer svc.Stop()

	return RankWith(ctx, svc, q)
}

// RankWith ranks q with r and attaches explanations.
func RankWith(ctx context.Context, r Ranker, q model.Problem) ([]Match, error) {
	results, err := r.Rank(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]Match, len(results))
	for i, m := range results {
		out[i] = Match{MatchResult: m, Explanation: r.Explain(m.Breakdown)}
	}
	return out, nil
}

// Render prints matches as text, or as JSON when asJSON is set.
func Render(w io.Writer, q model.Problem, matches []Match, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Query   model.Problem `json:"query"`
			Results []Match       `json:"results"`
		}{q, matches})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Matches for %q (%s)\n", q.Title, q.ID)
	if len(matches) == 0 {
		b.WriteString("  no similar problems found\n")
	}
	for i, m := range matches {
		fmt.Fprintf(&b, "%2d. [%3d] %s  %s  (%s, %s)\n", i+1, m.Score, m.Classification.Label, m.Problem.Title, m.Problem.Platform, m.Source)
		if m.Problem.URL != "" {
			fmt.Fprintf(&b, "      %s\n", m.Problem.URL)
		}
		for _, line := range strings.Split(m.Explanation, "\n") {
			if line != "" {
				fmt.Fprintf(&b, "      %s\n", line)
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
