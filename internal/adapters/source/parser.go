// Package source parses the tab-delimited combine player and test files into
// an immutable record set.
package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/cohort"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// maxLineBytes bounds a single source line.
const maxLineBytes = 1 << 20

// Option applies a configuration option to the Parser.
type Option func(*Parser)

// WithSchema overrides the column names. Blank fields keep their defaults.
func WithSchema(s Schema) Option {
	return func(p *Parser) {
		p.schema = s.Merge()
	}
}

// WithLogger sets the logger used for skipped rows and warnings.
func WithLogger(l logger.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// Parser reads the two source files. Every call to Parse builds a new,
// independent record set; the parser keeps no state between calls.
type Parser struct {
	engine  *cohort.Engine
	catalog catalog.Catalog
	schema  Schema
	logger  logger.Logger
}

// New creates a parser. Parsed record sets are bound to engine for
// percentile queries and test names are validated against its catalog.
func New(engine *cohort.Engine, opts ...Option) *Parser {
	p := &Parser{
		engine:  engine,
		catalog: engine.Catalog(),
		schema:  DefaultSchema(),
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFiles opens both paths and parses them.
func (p *Parser) ParseFiles(ctx context.Context, playerPath, testPath string) (*model.RecordSet, *Report, error) {
	pf, err := os.Open(playerPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open player file: %w", err)
	}
	defer func() { _ = pf.Close() }()

	tf, err := os.Open(testPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open test file: %w", err)
	}
	defer func() { _ = tf.Close() }()

	return p.Parse(ctx, pf, tf)
}

// Parse reads players then tests. Bad rows are skipped and listed in the
// report; only unreadable input or missing columns abort the parse, in which
// case no record set is returned.
func (p *Parser) Parse(ctx context.Context, players, tests io.Reader) (*model.RecordSet, *Report, error) {
	start := time.Now()
	rep := &Report{}
	b := model.NewBuilder()

	if err := p.readPlayers(ctx, players, b, rep); err != nil {
		metrics.RecordLoad("failed", float64(time.Since(start).Milliseconds()))
		return nil, rep, err
	}
	if err := p.readTests(ctx, tests, b, rep); err != nil {
		metrics.RecordLoad("failed", float64(time.Since(start).Milliseconds()))
		return nil, rep, err
	}

	set := b.Build(p.engine)
	rep.Players = set.Len()
	rep.Scores = set.ScoreCount()

	metrics.RecordLoad("ok", float64(time.Since(start).Milliseconds()))
	p.logger.Debug(ctx, "parsed record set",
		logger.String("loadID", set.LoadID()),
		logger.Int("players", rep.Players),
		logger.Int("scores", rep.Scores),
		logger.Int("rowErrors", len(rep.Errors)),
		logger.Int("warnings", len(rep.Warnings)),
	)
	return set, rep, nil
}

func (p *Parser) readPlayers(ctx context.Context, r io.Reader, b *model.Builder, rep *Report) error {
	t, h, err := openTable(SourcePlayers, r)
	if err != nil {
		return err
	}
	s := p.schema
	cols := struct {
		name, year, pos, ht, wt, team, round, pick, status int
	}{
		name: h.index(s.Name), year: h.index(s.Year), pos: h.index(s.Position),
		ht: h.index(s.Height), wt: h.index(s.Weight), team: h.index(s.Team),
		round: h.index(s.Round), pick: h.index(s.Pick), status: h.index(s.Status),
	}
	var missing []string
	for _, req := range []struct {
		col string
		idx int
	}{{s.Name, cols.name}, {s.Year, cols.year}, {s.Position, cols.pos}} {
		if req.idx < 0 {
			missing = append(missing, req.col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Source: SourcePlayers, Missing: missing}
	}

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("parse players: %w", err)
		}
		rec, line, err := t.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrUnreadable, SourcePlayers, err)
		}
		rep.PlayerRows++
		metrics.RecordRowParsed(SourcePlayers)

		malformed := func(format string, args ...any) {
			p.skip(ctx, rep, &RowError{
				Source: SourcePlayers, Line: line, Kind: KindMalformedRow,
				Err: fmt.Errorf("%w: "+format, append([]any{ErrMalformedRow}, args...)...),
			})
		}

		info := model.PlayerInfo{
			Name:     field(rec, cols.name),
			Position: field(rec, cols.pos),
			Team:     field(rec, cols.team),
		}
		if info.Name == "" {
			malformed("blank %s", s.Name)
			continue
		}
		if info.Position == "" {
			malformed("blank %s", s.Position)
			continue
		}
		if info.Year, err = parseYear(field(rec, cols.year)); err != nil {
			malformed("%s: %v", s.Year, err)
			continue
		}
		if info.Height, err = parseHeight(field(rec, cols.ht)); err != nil {
			malformed("%s: %v", s.Height, err)
			continue
		}
		if info.Weight, err = parseOptionalFloat(field(rec, cols.wt)); err != nil {
			malformed("%s: %v", s.Weight, err)
			continue
		}
		if info.Round, err = parseOptionalInt(field(rec, cols.round)); err != nil {
			malformed("%s: %v", s.Round, err)
			continue
		}
		if info.Pick, err = parseOptionalInt(field(rec, cols.pick)); err != nil {
			malformed("%s: %v", s.Pick, err)
			continue
		}
		if info.Status, err = draftStatus(rec, cols.status, cols.round); err != nil {
			malformed("%s: %v", s.Status, err)
			continue
		}

		if id, err := b.AddPlayer(info); err != nil {
			p.skip(ctx, rep, &RowError{
				Source: SourcePlayers, Line: line, Kind: KindDuplicatePlayer, Player: id, Err: err,
			})
		}
	}
}

func (p *Parser) readTests(ctx context.Context, r io.Reader, b *model.Builder, rep *Report) error {
	t, h, err := openTable(SourceTests, r)
	if err != nil {
		return err
	}
	s := p.schema
	idCol, nameCol, yearCol := h.index(s.TestPlayerID), h.index(s.TestPlayer), h.index(s.TestYear)
	testCol, valueCol := h.index(s.TestName), h.index(s.TestValue)
	byName := nameCol >= 0 && yearCol >= 0

	var missing []string
	if !byName && idCol < 0 {
		missing = append(missing, s.TestPlayerID+" (or "+s.TestPlayer+"+"+s.TestYear+")")
	}
	if testCol < 0 {
		missing = append(missing, s.TestName)
	}
	if valueCol < 0 {
		missing = append(missing, s.TestValue)
	}
	if len(missing) > 0 {
		return &SchemaError{Source: SourceTests, Missing: missing}
	}

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("parse tests: %w", err)
		}
		rec, line, err := t.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrUnreadable, SourceTests, err)
		}
		rep.TestRows++
		metrics.RecordRowParsed(SourceTests)

		var id model.PlayerID
		if byName {
			name := field(rec, nameCol)
			year, yerr := parseYear(field(rec, yearCol))
			switch {
			case name == "":
				p.skip(ctx, rep, malformedTest(line, "", "", "blank %s", s.TestPlayer))
				continue
			case yerr != nil:
				p.skip(ctx, rep, malformedTest(line, "", "", "%s: %v", s.TestYear, yerr))
				continue
			}
			id = model.Key(name, year)
		} else {
			id = model.PlayerID(field(rec, idCol))
			if id == "" {
				p.skip(ctx, rep, malformedTest(line, "", "", "blank %s", s.TestPlayerID))
				continue
			}
		}

		test := field(rec, testCol)
		if test == "" {
			p.skip(ctx, rep, malformedTest(line, id, "", "blank %s", s.TestName))
			continue
		}
		if !b.Has(id) {
			p.skip(ctx, rep, &RowError{
				Source: SourceTests, Line: line, Kind: KindOrphanRecord, Player: id, Test: test,
				Err: fmt.Errorf("%w: no player row for %q", ErrOrphanRecord, id),
			})
			continue
		}
		if _, err := p.catalog.DirectionOf(test); err != nil {
			p.skip(ctx, rep, &RowError{
				Source: SourceTests, Line: line, Kind: KindUnknownTest, Player: id, Test: test, Err: err,
			})
			continue
		}

		raw := field(rec, valueCol)
		if raw == "" {
			// Did not participate.
			rep.DidNotParticipate++
			continue
		}
		value, err := parseFloat(raw)
		if err != nil {
			p.skip(ctx, rep, malformedTest(line, id, test, "%s: %v", s.TestValue, err))
			continue
		}

		prev, overwritten, err := b.SetScore(id, test, value)
		if err != nil {
			return fmt.Errorf("record score: %w", err)
		}
		if overwritten {
			w := Warning{Line: line, Kind: KindDuplicateResult, Player: id, Test: test, Previous: prev, Value: value}
			rep.Warnings = append(rep.Warnings, w)
			metrics.RecordDuplicateResult()
			p.logger.Warn(ctx, "duplicate test result; keeping last value",
				logger.String("player", string(id)),
				logger.String("test", test),
				logger.Int("line", line),
				logger.Float64("previous", prev),
				logger.Float64("value", value),
			)
		}
	}
}

// skip records a row error and logs it.
func (p *Parser) skip(ctx context.Context, rep *Report, e *RowError) {
	rep.addError(e)
	metrics.RecordRowError(e.Source, string(e.Kind))
	p.logger.Warn(ctx, "skipping row",
		logger.String("source", e.Source),
		logger.Int("line", e.Line),
		logger.String("kind", string(e.Kind)),
		logger.Error(e.Err),
	)
}

func malformedTest(line int, id model.PlayerID, test, format string, args ...any) *RowError {
	return &RowError{
		Source: SourceTests, Line: line, Kind: KindMalformedRow, Player: id, Test: test,
		Err: fmt.Errorf("%w: "+format, append([]any{ErrMalformedRow}, args...)...),
	}
}

// table reads tab-delimited lines. Quotes carry no meaning, so a stray
// quote stays inside its own field and row.
type table struct {
	sc   *bufio.Scanner
	line int
}

// next returns the fields of the next non-blank line and its 1-based line
// number.
func (t *table) next() ([]string, int, error) {
	for t.sc.Scan() {
		t.line++
		text := strings.TrimSuffix(t.sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		return strings.Split(text, "\t"), t.line, nil
	}
	if err := t.sc.Err(); err != nil {
		return nil, t.line, err
	}
	return nil, t.line, io.EOF
}

// openTable returns a table positioned after the header row.
func openTable(src string, r io.Reader) (*table, header, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	t := &table{sc: sc}

	cols, _, err := t.next()
	if errors.Is(err, io.EOF) {
		return nil, nil, &SchemaError{Source: src, Missing: []string{"header row"}}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s header: %w", ErrUnreadable, src, err)
	}
	return t, newHeader(cols), nil
}

// draftStatus reads the status column when present, otherwise derives the
// outcome from the round column. Without either the status is unknown.
func draftStatus(rec []string, statusCol, roundCol int) (model.DraftStatus, error) {
	if statusCol >= 0 {
		return model.ParseDraftStatus(field(rec, statusCol))
	}
	if roundCol >= 0 {
		if field(rec, roundCol) == "" {
			return model.StatusUndrafted, nil
		}
		return model.StatusDrafted, nil
	}
	return model.StatusUnknown, nil
}

func parseYear(s string) (int, error) {
	if s == "" {
		return 0, errors.New("blank")
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a year: %q", s)
	}
	if y <= 0 {
		return 0, fmt.Errorf("not a year: %d", y)
	}
	return y, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}

func parseOptionalFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return parseFloat(s)
}

func parseOptionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return v, nil
}

// parseHeight accepts inches ("76") or feet-inches ("6-4").
func parseHeight(s string) (float64, error) {
	if ft, in, ok := strings.Cut(s, "-"); ok && ft != "" {
		f, err := strconv.Atoi(ft)
		if err != nil {
			return 0, fmt.Errorf("not a height: %q", s)
		}
		i, err := parseFloat(in)
		if err != nil {
			return 0, fmt.Errorf("not a height: %q", s)
		}
		return float64(f)*12 + i, nil
	}
	return parseOptionalFloat(s)
}
