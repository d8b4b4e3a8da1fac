package consistency

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hurou927/vocabpack/internal/diag"
	"github.com/hurou927/vocabpack/internal/logging"
	"github.com/hurou927/vocabpack/internal/schema"
)

// MaxParallelFetches bounds concurrent canonical fetches.
const MaxParallelFetches = 4

// Source is a canonical vocabulary.
type Source struct {
	Name      string
	Namespace string
	URL       string
}

// Checker compares field text against canonical sources and against shared
// primary-key definitions inside the package. All findings are warnings.
type Checker struct {
	fetcher Fetcher
	sources []Source
	log     *zap.Logger
}

// New creates a Checker. A nil fetcher skips the canonical comparison.
func New(fetcher Fetcher, sources []Source, log *zap.Logger) *Checker {
	return &Checker{fetcher: fetcher, sources: sources, log: logging.OrNop(log)}
}

type fetched struct {
	terms Terms
	err   error
}

type canonicalTerm struct {
	source int
	term   Term
}

// Check runs the canonical comparison followed by the local shared-field pass.
func (c *Checker) Check(ctx context.Context, pkg *schema.Package) diag.List {
	var diags diag.Builder
	if c.fetcher != nil && len(c.sources) > 0 {
		c.checkCanonical(ctx, pkg, &diags)
	}
	checkSharedFields(pkg, &diags)
	return diags.List()
}

func (c *Checker) fetchAll(ctx context.Context) []fetched {
	results := make([]fetched, len(c.sources))
	var g errgroup.Group
	g.SetLimit(MaxParallelFetches)
	for i, src := range c.sources {
		i, src := i, src
		g.Go(func() error {
			data, err := c.fetcher.Fetch(ctx, src.URL)
			if err != nil {
				results[i] = fetched{err: err}
				return nil
			}
			terms, err := ParseTermVersions(data)
			results[i] = fetched{terms: terms, err: err}
			return nil
		})
	}
	// Failures are kept per source; the group never returns an error.
	_ = g.Wait()
	return results
}

func (c *Checker) checkCanonical(ctx context.Context, pkg *schema.Package, diags *diag.Builder) {
	results := c.fetchAll(ctx)

	lookup := make(map[string]canonicalTerm)
	also := make(map[string][]int)
	for i, r := range results {
		src := c.sources[i]
		if r.err != nil {
			diags.Warnf(diag.CodeCanonicalFetch, src.URL, "canonical source %s skipped: %v", src.Name, r.err)
			continue
		}
		c.log.Info("loaded canonical terms", zap.String("source", src.Name), zap.Int("terms", len(r.terms)))
		for name, t := range r.terms {
			if _, ok := lookup[name]; ok {
				also[name] = append(also[name], i)
				continue
			}
			lookup[name] = canonicalTerm{source: i, term: t}
		}
	}

	flagged := make(map[string]bool)
	for _, tbl := range pkg.Tables {
		for _, f := range tbl.Fields {
			ct, ok := lookup[f.Name]
			if !ok {
				continue
			}
			path := tbl.Name + "." + f.Name
			src := c.sources[ct.source]

			if others := also[f.Name]; len(others) > 0 && !flagged[f.Name] {
				flagged[f.Name] = true
				names := make([]string, len(others))
				for i, o := range others {
					names[i] = c.sources[o].Name
				}
				diags.Warnf(diag.CodeCanonicalAmbiguous, path,
					"%q is defined by %s and also by %s; comparing against %s",
					f.Name, src.Name, strings.Join(names, ", "), src.Name)
			}

			compareText(diags, diag.CodeCanonicalMismatch, path, src.Namespace+" canonical", []textPair{
				{"description", ct.term.Definition, f.Description},
				{"comments", ct.term.Comments, f.Comments},
				{"examples", ct.term.Examples, f.Examples},
			})
		}
	}
}

type textPair struct {
	key       string
	reference string
	found     string
}

func compareText(diags *diag.Builder, code diag.Code, path, against string, pairs []textPair) {
	for _, p := range pairs {
		ref, found := strings.TrimSpace(p.reference), strings.TrimSpace(p.found)
		if ref != found {
			diags.Warnf(code, path, "%s differs from %s: expected %q, found %q", p.key, against, ref, found)
		}
	}
}
