// Package cohort computes percentile standings of players within a filtered
// draft class.
package cohort

import (
	"math"
	"sort"

	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/model"
)

// Default engine configuration constants.
const (
	defaultPrecision = 1
	maxPercentile    = 100
	minCohortSize    = 2
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithPrecision sets the number of decimals percentiles are rounded to.
func WithPrecision(decimals int) Option {
	return func(e *Engine) {
		if decimals >= 0 {
			e.precision = decimals
		}
	}
}

// Engine scores players against cohorts. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	catalog   catalog.Catalog
	precision int
}

var _ model.Scorer = (*Engine)(nil)

// New creates an engine over the given test catalog.
func New(c catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:   c,
		precision: defaultPrecision,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the injected test catalog.
func (e *Engine) Catalog() catalog.Catalog { return e.catalog }

// Standing is one cohort member's position on a test.
type Standing struct {
	Player     *model.Player
	Score      float64
	Rank       int // competition rank, ties share the lower number
	Percentile float64
}

// Summary describes the distribution of a test within a cohort.
type Summary struct {
	Test      string
	Direction catalog.Direction
	Filter    model.Filter
	Count     int // members with a recorded result
	Missing   int // members of the filtered class without one
	Min       float64
	Max       float64
	Mean      float64
	Best      model.PlayerID
}

// Percentile returns the share of the cohort that performed no better than
// subject on test, scaled to [0,100] and rounded. Cohort members without a
// result for test are left out of the denominator.
func (e *Engine) Percentile(set *model.RecordSet, subject *model.Player, test string, f model.Filter) (float64, error) {
	dir, err := e.catalog.DirectionOf(test)
	if err != nil {
		return 0, err
	}
	if err := f.Validate(); err != nil {
		return 0, err
	}
	if set == nil || !set.Contains(subject) || !f.Matches(subject) {
		var id model.PlayerID
		if subject != nil {
			id = subject.ID()
		}
		return 0, &SubjectNotInCohortError{Player: id, Filter: f}
	}
	ref, err := subject.Score(test)
	if err != nil {
		return 0, err
	}

	size, noBetter := 0, 0
	for _, p := range set.Select(f) {
		v, err := p.Score(test)
		if err != nil {
			continue
		}
		size++
		if dir.NoBetter(v, ref) {
			noBetter++
		}
	}
	if size < minCohortSize {
		return 0, &EmptyCohortError{Test: test, Filter: f, Size: size}
	}
	return e.round(float64(noBetter) / float64(size) * maxPercentile), nil
}

// Rankings returns every cohort member with a result for test, best first.
// Ties keep insertion order and share rank and percentile.
func (e *Engine) Rankings(set *model.RecordSet, test string, f model.Filter) ([]Standing, error) {
	dir, members, err := e.members(set, test, f)
	if err != nil {
		return nil, err
	}
	if len(members) < minCohortSize {
		return nil, &EmptyCohortError{Test: test, Filter: f, Size: len(members)}
	}

	sort.SliceStable(members, func(i, j int) bool {
		return dir.Better(members[i].Score, members[j].Score)
	})
	n := len(members)
	first := 0
	for i := range members {
		if i > 0 && members[i].Score != members[i-1].Score {
			first = i
		}
		members[i].Rank = first + 1
		members[i].Percentile = e.round(float64(n-first) / float64(n) * maxPercentile)
	}
	return members, nil
}

// Summarize describes the distribution of test within the cohort. Unlike
// Percentile it accepts a cohort of any size, including an empty one.
func (e *Engine) Summarize(set *model.RecordSet, test string, f model.Filter) (Summary, error) {
	dir, members, err := e.members(set, test, f)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Test: test, Direction: dir, Filter: f, Count: len(members)}
	if set != nil {
		sum.Missing = len(set.Select(f)) - len(members)
	}
	if len(members) == 0 {
		return sum, nil
	}

	total := 0.0
	sum.Min, sum.Max = math.Inf(1), math.Inf(-1)
	best := members[0]
	for _, m := range members {
		total += m.Score
		sum.Min = math.Min(sum.Min, m.Score)
		sum.Max = math.Max(sum.Max, m.Score)
		if dir.Better(m.Score, best.Score) {
			best = m
		}
	}
	sum.Mean = total / float64(len(members))
	sum.Best = best.Player.ID()
	return sum, nil
}

// members collects filtered players holding a result for test, in insertion order.
func (e *Engine) members(set *model.RecordSet, test string, f model.Filter) (catalog.Direction, []Standing, error) {
	dir, err := e.catalog.DirectionOf(test)
	if err != nil {
		return 0, nil, err
	}
	if err := f.Validate(); err != nil {
		return 0, nil, err
	}
	if set == nil {
		return dir, nil, nil
	}
	var out []Standing
	for _, p := range set.Select(f) {
		v, err := p.Score(test)
		if err != nil {
			continue
		}
		out = append(out, Standing{Player: p, Score: v})
	}
	return dir, out, nil
}

func (e *Engine) round(v float64) float64 {
	scale := math.Pow(10, float64(e.precision))
	return math.Round(v*scale) / scale
}
