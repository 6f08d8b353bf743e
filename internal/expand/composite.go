package expand

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// MaxVariants bounds how many variants CompositeExpander returns overall,
// regardless of how many sub-expanders are configured — spec.md §4.3's
// expansion fan-out must stay bounded since every variant becomes an
// additional sub-query against the full hybrid pipeline.
const MaxVariants = 8

// CompositeExpander runs a set of Expanders concurrently and merges their
// output, deduplicating by normalized text and keeping the
// highest-weighted variant for each duplicate. A failure in one
// sub-expander (e.g. the contextual expander's network call) doesn't
// abort the others: its error is dropped here and is not returned or
// logged, and its variants are simply absent, since expansion is a
// best-effort enhancement over the raw query.
type CompositeExpander struct {
	expanders []Expander
}

// NewCompositeExpander builds a CompositeExpander over the given
// sub-expanders, skipping nil entries.
func NewCompositeExpander(expanders ...Expander) *CompositeExpander {
	var filtered []Expander
	for _, e := range expanders {
		if e != nil {
			filtered = append(filtered, e)
		}
	}
	return &CompositeExpander{expanders: filtered}
}

// Expand runs all configured expanders concurrently and returns their
// merged, deduplicated, weight-sorted output, truncated to MaxVariants.
func (c *CompositeExpander) Expand(ctx context.Context, query string) ([]Variant, error) {
	if len(c.expanders) == 0 {
		return nil, nil
	}

	var (
		mu  sync.Mutex
		all []Variant
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, exp := range c.expanders {
		exp := exp
		g.Go(func() error {
			variants, err := exp.Expand(gctx, query)
			if err != nil {
				// Best-effort: a single expander's failure doesn't fail
				// the whole expansion pass.
				return nil
			}
			mu.Lock()
			all = append(all, variants...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return dedupeVariants(all), nil
}

func dedupeVariants(variants []Variant) []Variant {
	best := make(map[string]Variant, len(variants))
	for _, v := range variants {
		key := strings.ToLower(strings.TrimSpace(v.Text))
		if key == "" {
			continue
		}
		if existing, ok := best[key]; !ok || v.Weight > existing.Weight {
			best[key] = v
		}
	}

	out := make([]Variant, 0, len(best))
	for _, v := range best {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Text < out[j].Text
	})
	if len(out) > MaxVariants {
		out = out[:MaxVariants]
	}
	return out
}

var _ Expander = (*CompositeExpander)(nil)
