package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Scorer computes the percentile of a subject within a cohort of set.
type Scorer interface {
	Percentile(set *RecordSet, subject *Player, test string, f Filter) (float64, error)
}

// RecordSet is the immutable result of one parse. Iteration order is the
// order in which player rows were first seen. A RecordSet has no mutators
// and is safe for concurrent read-only access.
type RecordSet struct {
	players  []*Player
	index    map[PlayerID]*Player
	scorer   Scorer
	loadID   string
	loadedAt time.Time
}

// Get returns the player with the given id.
func (s *RecordSet) Get(id PlayerID) (*Player, bool) {
	p, ok := s.index[id]
	return p, ok
}

// Lookup is Get with an error for callers that surface it.
func (s *RecordSet) Lookup(id PlayerID) (*Player, error) {
	p, ok := s.index[id]
	if !ok {
		return nil, &PlayerNotFoundError{Player: id}
	}
	return p, nil
}

// Contains reports whether p is a member of this record set.
func (s *RecordSet) Contains(p *Player) bool {
	if p == nil {
		return false
	}
	q, ok := s.index[p.id]
	return ok && q == p
}

// Players returns all players in insertion order. The slice is a copy.
func (s *RecordSet) Players() []*Player {
	out := make([]*Player, len(s.players))
	copy(out, s.players)
	return out
}

// Select returns the players matching f in insertion order.
func (s *RecordSet) Select(f Filter) []*Player {
	var out []*Player
	for _, p := range s.players {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of players.
func (s *RecordSet) Len() int { return len(s.players) }

// Years returns the distinct draft years in ascending order.
func (s *RecordSet) Years() []int {
	seen := make(map[int]struct{})
	var years []int
	for _, p := range s.players {
		if _, ok := seen[p.DraftYear()]; ok {
			continue
		}
		seen[p.DraftYear()] = struct{}{}
		years = append(years, p.DraftYear())
	}
	sort.Ints(years)
	return years
}

// ScoreCount returns the total number of recorded results.
func (s *RecordSet) ScoreCount() int {
	n := 0
	for _, p := range s.players {
		n += len(p.scores)
	}
	return n
}

// LoadID uniquely identifies the parse that produced this set.
func (s *RecordSet) LoadID() string { return s.loadID }

// LoadedAt is when the set was built.
func (s *RecordSet) LoadedAt() time.Time { return s.loadedAt }

// Builder assembles a RecordSet. It is not safe for concurrent use and is
// sealed by Build.
type Builder struct {
	players []*Player
	index   map[PlayerID]*Player
	sealed  bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[PlayerID]*Player)}
}

// AddPlayer registers a player row. A second row with the same identity is
// rejected and the first one is kept.
func (b *Builder) AddPlayer(info PlayerInfo) (PlayerID, error) {
	if b.sealed {
		return "", ErrBuilderSealed
	}
	id := Key(info.Name, info.Year)
	if _, ok := b.index[id]; ok {
		return id, &DuplicatePlayerError{Player: id}
	}
	p := &Player{id: id, info: info, scores: make(map[string]float64)}
	b.players = append(b.players, p)
	b.index[id] = p
	return id, nil
}

// Has reports whether a player with id was added.
func (b *Builder) Has(id PlayerID) bool {
	_, ok := b.index[id]
	return ok
}

// SetScore records a result. If a result already existed for the pair it is
// overwritten and the previous value is returned with overwritten set.
func (b *Builder) SetScore(id PlayerID, test string, value float64) (prev float64, overwritten bool, err error) {
	if b.sealed {
		return 0, false, ErrBuilderSealed
	}
	p, ok := b.index[id]
	if !ok {
		return 0, false, &PlayerNotFoundError{Player: id}
	}
	prev, overwritten = p.scores[test]
	p.scores[test] = value
	return prev, overwritten, nil
}

// Build seals the builder and returns the record set bound to scorer.
func (b *Builder) Build(scorer Scorer) *RecordSet {
	b.sealed = true
	set := &RecordSet{
		players:  b.players,
		index:    b.index,
		scorer:   scorer,
		loadID:   uuid.New().String(),
		loadedAt: time.Now(),
	}
	for _, p := range set.players {
		p.set = set
	}
	return set
}
