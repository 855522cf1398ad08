// Package catalog defines the known combine tests and the direction in which
// each one is scored.
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Direction tells whether a lower or a higher raw value is the better result.
type Direction int

const (
	// LowerBetter marks timed drills (sprints, agility).
	LowerBetter Direction = iota + 1
	// HigherBetter marks measured drills (jumps, reps, throws).
	HigherBetter
)

// String returns the config spelling of the direction.
func (d Direction) String() string {
	switch d {
	case LowerBetter:
		return "lower_better"
	case HigherBetter:
		return "higher_better"
	default:
		return "unknown"
	}
}

// NoBetter reports whether score is no better than ref in direction d.
// Equal scores are always "no better", which keeps ties together.
func (d Direction) NoBetter(score, ref float64) bool {
	if d == LowerBetter {
		return score >= ref
	}
	return score <= ref
}

// Better reports whether a is strictly better than b in direction d.
func (d Direction) Better(a, b float64) bool {
	if d == LowerBetter {
		return a < b
	}
	return a > b
}

// ParseDirection parses the config spelling of a direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lower_better", "lower", "asc":
		return LowerBetter, nil
	case "higher_better", "higher", "desc":
		return HigherBetter, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// Catalog is a read-only table of test name to direction. The zero value is
// an empty catalog. A Catalog is safe for concurrent use.
type Catalog struct {
	dirs map[string]Direction
}

// New builds a catalog from the given table. The map is copied.
func New(dirs map[string]Direction) Catalog {
	c := Catalog{dirs: make(map[string]Direction, len(dirs))}
	for name, d := range dirs {
		c.dirs[name] = d
	}
	return c
}

// Default returns the standard NFL combine catalog.
func Default() Catalog {
	return New(map[string]Direction{
		"Forty":     LowerBetter,
		"Cone":      LowerBetter,
		"ThreeCone": LowerBetter,
		"Shuttle":   LowerBetter,
		"Vertical":  HigherBetter,
		"BroadJump": HigherBetter,
		"BenchReps": HigherBetter,
		"Bench":     HigherBetter,
	})
}

// FromConfig builds a catalog from config strings, e.g.
// {"Forty": "lower_better"}. An empty map yields Default().
func FromConfig(raw map[string]string) (Catalog, error) {
	if len(raw) == 0 {
		return Default(), nil
	}
	dirs := make(map[string]Direction, len(raw))
	for name, s := range raw {
		d, err := ParseDirection(s)
		if err != nil {
			return Catalog{}, fmt.Errorf("test %q: %w", name, err)
		}
		dirs[name] = d
	}
	return New(dirs), nil
}

// DirectionOf returns the direction of the named test.
func (c Catalog) DirectionOf(name string) (Direction, error) {
	d, ok := c.dirs[name]
	if !ok {
		return 0, &UnknownTestError{Test: name}
	}
	return d, nil
}

// Has reports whether the catalog knows the test.
func (c Catalog) Has(name string) bool {
	_, ok := c.dirs[name]
	return ok
}

// Tests returns the known test names in sorted order.
func (c Catalog) Tests() []string {
	names := make([]string, 0, len(c.dirs))
	for name := range c.dirs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of known tests.
func (c Catalog) Len() int { return len(c.dirs) }
