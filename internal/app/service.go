// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the command line.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/scout/internal/adapters/source"
	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/cohort"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// Service holds the currently served record set and answers queries against
// it. A reload parses into a fresh set and swaps it in whole, so readers see
// either the old set or the new one.
type Service struct {
	mu     sync.Mutex // guards started
	loadMu sync.Mutex

	// Core components
	engine *cohort.Engine
	parser *source.Parser

	// Configuration
	playerFile string
	testFile   string
	catalog    catalog.Catalog
	precision  int
	schema     source.Schema

	// State
	started bool
	set     atomic.Pointer[model.RecordSet]
	report  atomic.Pointer[source.Report]
	loads   atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFiles sets the player and test file paths read by Load.
func WithFiles(playerFile, testFile string) Option {
	return func(s *Service) {
		if playerFile != "" {
			s.playerFile = playerFile
		}
		if testFile != "" {
			s.testFile = testFile
		}
	}
}

// WithCatalog sets the test catalog.
func WithCatalog(c catalog.Catalog) Option {
	return func(s *Service) {
		if c.Len() > 0 {
			s.catalog = c
		}
	}
}

// WithPrecision sets the number of decimals percentiles are rounded to.
func WithPrecision(decimals int) Option {
	return func(s *Service) {
		if decimals >= 0 {
			s.precision = decimals
		}
	}
}

// WithSchema overrides source column names.
func WithSchema(schema source.Schema) Option {
	return func(s *Service) {
		s.schema = schema.Merge()
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		catalog:   catalog.Default(),
		precision: 1,
		schema:    source.DefaultSchema(),
		logger:    nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	s.engine = cohort.New(s.catalog, cohort.WithPrecision(s.precision))
	return s
}

// Start initializes the parser and performs the first load when files are
// configured. A failed first load fails Start.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting scout service...",
		logger.Int("tests", s.catalog.Len()),
		logger.Int("precision", s.precision),
	)

	s.parser = source.New(s.engine,
		source.WithSchema(s.schema),
		source.WithLogger(s.logger.Named("source")),
	)

	if s.playerFile != "" && s.testFile != "" {
		if _, err := s.Load(ctx); err != nil {
			return err
		}
	}

	s.started = true
	s.logger.Info(ctx, "scout service started",
		logger.String("playerFile", s.playerFile),
		logger.String("testFile", s.testFile),
	)
	return nil
}

// Stop marks the service stopped. The served record set is kept so that
// in-flight readers finish normally.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "scout service stopped")
}

// Load re-reads the configured files.
func (s *Service) Load(ctx context.Context) (*source.Report, error) {
	if s.playerFile == "" || s.testFile == "" {
		return nil, fmt.Errorf("%w: player and test files must be configured", ErrNotLoaded)
	}
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.parser == nil {
		return nil, ErrNotStarted
	}
	set, rep, err := s.parser.ParseFiles(ctx, s.playerFile, s.testFile)
	return s.install(ctx, set, rep, err)
}

// LoadFrom parses the given readers and serves the result.
func (s *Service) LoadFrom(ctx context.Context, players, tests io.Reader) (*source.Report, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.parser == nil {
		return nil, ErrNotStarted
	}
	set, rep, err := s.parser.Parse(ctx, players, tests)
	return s.install(ctx, set, rep, err)
}

func (s *Service) install(ctx context.Context, set *model.RecordSet, rep *source.Report, err error) (*source.Report, error) {
	if err != nil {
		s.logger.Error(ctx, "load failed; keeping previous record set", logger.Error(err))
		return rep, err
	}
	s.set.Store(set)
	s.report.Store(rep)
	s.loads.Add(1)
	metrics.UpdateRecordSet(set.Len(), set.ScoreCount(), set.LoadedAt())

	fields := []logger.Field{
		logger.String("loadID", set.LoadID()),
		logger.Int("players", rep.Players),
		logger.Int("scores", rep.Scores),
		logger.Int("didNotParticipate", rep.DidNotParticipate),
		logger.Int("rowErrors", len(rep.Errors)),
		logger.Int("duplicates", len(rep.Warnings)),
	}
	if rep.Clean() {
		s.logger.Info(ctx, "record set loaded", fields...)
	} else {
		s.logger.Warn(ctx, "record set loaded with skipped rows", fields...)
	}
	return rep, nil
}

// Records returns the served record set.
func (s *Service) Records() (*model.RecordSet, error) {
	set := s.set.Load()
	if set == nil {
		return nil, ErrNotLoaded
	}
	return set, nil
}

// Report returns the report of the last successful load, or nil.
func (s *Service) Report() *source.Report {
	return s.report.Load()
}

// Catalog returns the test catalog in use.
func (s *Service) Catalog() catalog.Catalog {
	return s.catalog
}

// Player looks up a player by id.
func (s *Service) Player(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	start := time.Now()
	p, err := s.lookup(id)
	return p, s.observe(ctx, "player", start, err)
}

// Score returns a player's raw result for test.
func (s *Service) Score(ctx context.Context, id model.PlayerID, test string) (float64, error) {
	const op = "score"
	start := time.Now()
	p, err := s.lookup(id)
	if err != nil {
		return 0, s.observe(ctx, op, start, err)
	}
	v, err := p.Score(test)
	return v, s.observe(ctx, op, start, err)
}

// Percentile scores a player against the cohort selected by f.
func (s *Service) Percentile(ctx context.Context, id model.PlayerID, test string, f model.Filter) (float64, error) {
	const op = "percentile"
	start := time.Now()
	p, err := s.lookup(id)
	if err != nil {
		return 0, s.observe(ctx, op, start, err)
	}
	v, err := p.Percentile(test, f)
	return v, s.observe(ctx, op, start, err)
}

// lookup resolves id in the served set without recording a query.
func (s *Service) lookup(id model.PlayerID) (*model.Player, error) {
	set, err := s.Records()
	if err != nil {
		return nil, err
	}
	return set.Lookup(id)
}

// Rankings returns the cohort ordered best first, truncated to limit when
// limit is positive.
func (s *Service) Rankings(ctx context.Context, test string, f model.Filter, limit int) ([]cohort.Standing, error) {
	const op = "rankings"
	start := time.Now()
	if limit < 0 {
		return nil, s.observe(ctx, op, start, ErrBadLimit)
	}
	set, err := s.Records()
	if err != nil {
		return nil, s.observe(ctx, op, start, err)
	}
	out, err := s.engine.Rankings(set, test, f)
	if err != nil {
		return nil, s.observe(ctx, op, start, err)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, s.observe(ctx, op, start, nil)
}

// Summary describes the distribution of test within the cohort.
func (s *Service) Summary(ctx context.Context, test string, f model.Filter) (cohort.Summary, error) {
	const op = "summary"
	start := time.Now()
	set, err := s.Records()
	if err != nil {
		return cohort.Summary{}, s.observe(ctx, op, start, err)
	}
	sum, err := s.engine.Summarize(set, test, f)
	return sum, s.observe(ctx, op, start, err)
}

// observe records query metrics and passes err through.
func (s *Service) observe(ctx context.Context, op string, start time.Time, err error) error {
	outcome := "ok"
	if err != nil {
		outcome = outcomeOf(err)
		if s.logger != nil {
			s.logger.Debug(ctx, "query failed",
				logger.String("op", op),
				logger.String("outcome", outcome),
				logger.Error(err),
			)
		}
	}
	metrics.RecordQuery(op, outcome)
	metrics.RecordQueryLatency(op, float64(time.Since(start).Microseconds())/1000)
	return err
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return "player_not_found"
	case errors.Is(err, model.ErrNoResult):
		return "no_result"
	case errors.Is(err, catalog.ErrUnknownTest):
		return "unknown_test"
	case errors.Is(err, cohort.ErrEmptyCohort):
		return "empty_cohort"
	case errors.Is(err, cohort.ErrSubjectNotInCohort):
		return "not_in_cohort"
	case errors.Is(err, model.ErrInvalidFilter), errors.Is(err, ErrBadLimit):
		return "bad_request"
	case errors.Is(err, ErrNotLoaded):
		return "not_loaded"
	default:
		return "error"
	}
}

// Stats is a snapshot of the service and its current record set.
type Stats struct {
	Started    bool
	Tests      []string
	Precision  int
	PlayerFile string
	TestFile   string
	Loads      int64

	// Zero until the first successful load.
	LoadID   string
	LoadedAt time.Time
	Players  int
	Scores   int
	Years    []int

	PlayerRows        int
	TestRows          int
	RowErrors         map[string]int
	Duplicates        int
	DidNotParticipate int
}

// Loaded reports whether a record set is being served.
func (st Stats) Loaded() bool { return st.LoadID != "" }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() Stats {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	st := Stats{
		Started:    started,
		Tests:      s.catalog.Tests(),
		Precision:  s.precision,
		PlayerFile: s.playerFile,
		TestFile:   s.testFile,
		Loads:      s.loads.Load(),
	}

	if set := s.set.Load(); set != nil {
		st.LoadID = set.LoadID()
		st.LoadedAt = set.LoadedAt()
		st.Players = set.Len()
		st.Scores = set.ScoreCount()
		st.Years = set.Years()
	}
	if rep := s.report.Load(); rep != nil {
		st.PlayerRows = rep.PlayerRows
		st.TestRows = rep.TestRows
		st.RowErrors = make(map[string]int)
		for _, e := range rep.Errors {
			st.RowErrors[string(e.Kind)]++
		}
		st.Duplicates = len(rep.Warnings)
		st.DidNotParticipate = rep.DidNotParticipate
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.UpdateSystemMemoryUsage(mem.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	return st
}
