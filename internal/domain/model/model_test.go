package model_test

import (
	"errors"
	"sync"
	"testing"

	model "github.com/okian/scout/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

type stubScorer struct {
	calls   int
	subject *model.Player
	test    string
	filter  model.Filter
}

func (s *stubScorer) Percentile(_ *model.RecordSet, subject *model.Player, test string, f model.Filter) (float64, error) {
	s.calls++
	s.subject = subject
	s.test = test
	s.filter = f
	return 42.0, nil
}

func TestKey(t *testing.T) {
	convey.Convey("Given a name and a draft year", t, func() {
		convey.Convey("The key joins them with an underscore", func() {
			convey.So(model.Key("John Abraham", 2000), convey.ShouldEqual, model.PlayerID("John Abraham_2000"))
		})
		convey.Convey("Surrounding whitespace is ignored", func() {
			convey.So(model.Key("  John Abraham ", 2000), convey.ShouldEqual, model.Key("John Abraham", 2000))
		})
		convey.Convey("Different years yield different identities", func() {
			convey.So(model.Key("Mike Williams", 2005), convey.ShouldNotEqual, model.Key("Mike Williams", 2017))
		})
	})
}

func TestParseDraftStatus(t *testing.T) {
	convey.Convey("Given textual draft statuses", t, func() {
		cases := map[string]model.DraftStatus{
			"":          model.StatusUnknown,
			"unknown":   model.StatusUnknown,
			"Drafted":   model.StatusDrafted,
			"UNDRAFTED": model.StatusUndrafted,
			"udfa":      model.StatusUndrafted,
		}
		for in, want := range cases {
			got, err := model.ParseDraftStatus(in)
			convey.So(err, convey.ShouldBeNil)
			convey.So(got, convey.ShouldEqual, want)
		}

		convey.Convey("Garbage is rejected", func() {
			_, err := model.ParseDraftStatus("maybe")
			convey.So(errors.Is(err, model.ErrInvalidStatus), convey.ShouldBeTrue)
		})
	})
}

func TestBuilder(t *testing.T) {
	convey.Convey("Given a builder", t, func() {
		b := model.NewBuilder()
		id, err := b.AddPlayer(model.PlayerInfo{Name: "Shaun Alexander", Position: "RB", Year: 2000, Status: model.StatusDrafted})
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("A second row with the same identity is rejected", func() {
			_, err := b.AddPlayer(model.PlayerInfo{Name: "Shaun Alexander", Position: "WR", Year: 2000})
			convey.So(errors.Is(err, model.ErrDuplicatePlayer), convey.ShouldBeTrue)

			set := b.Build(nil)
			p, _ := set.Get(id)
			convey.So(set.Len(), convey.ShouldEqual, 1)
			convey.So(p.Position(), convey.ShouldEqual, "RB")
		})

		convey.Convey("Overwriting a score reports the previous value", func() {
			_, overwritten, err := b.SetScore(id, "Forty", 4.60)
			convey.So(err, convey.ShouldBeNil)
			convey.So(overwritten, convey.ShouldBeFalse)

			prev, overwritten, err := b.SetScore(id, "Forty", 4.58)
			convey.So(err, convey.ShouldBeNil)
			convey.So(overwritten, convey.ShouldBeTrue)
			convey.So(prev, convey.ShouldEqual, 4.60)

			set := b.Build(nil)
			p, _ := set.Get(id)
			v, err := p.Score("Forty")
			convey.So(err, convey.ShouldBeNil)
			convey.So(v, convey.ShouldEqual, 4.58)
		})

		convey.Convey("Scores for unknown players are rejected", func() {
			_, _, err := b.SetScore("X_1999", "Forty", 4.4)
			convey.So(errors.Is(err, model.ErrPlayerNotFound), convey.ShouldBeTrue)
		})

		convey.Convey("The builder is sealed after Build", func() {
			b.Build(nil)
			_, err := b.AddPlayer(model.PlayerInfo{Name: "Late", Position: "QB", Year: 2000})
			convey.So(err, convey.ShouldEqual, model.ErrBuilderSealed)
			_, _, err = b.SetScore(id, "Forty", 4.4)
			convey.So(err, convey.ShouldEqual, model.ErrBuilderSealed)
		})
	})
}

func TestPlayerAccessors(t *testing.T) {
	convey.Convey("Given a built record set", t, func() {
		b := model.NewBuilder()
		id, _ := b.AddPlayer(model.PlayerInfo{
			Name: "John Abraham", Position: "OLB", Year: 2000, Status: model.StatusDrafted,
			Height: 76, Weight: 252, Team: "New York Jets", Round: 1, Pick: 13,
		})
		_, _, _ = b.SetScore(id, "Forty", 4.55)
		scorer := &stubScorer{}
		set := b.Build(scorer)
		p, ok := set.Get(id)
		convey.So(ok, convey.ShouldBeTrue)

		convey.Convey("Biographical fields are exposed", func() {
			convey.So(p.Name(), convey.ShouldEqual, "John Abraham")
			convey.So(p.Position(), convey.ShouldEqual, "OLB")
			convey.So(p.DraftYear(), convey.ShouldEqual, 2000)
			convey.So(p.Height(), convey.ShouldEqual, 76.0)
			convey.So(p.Weight(), convey.ShouldEqual, 252.0)
			convey.So(p.Team(), convey.ShouldEqual, "New York Jets")
			convey.So(p.Round(), convey.ShouldEqual, 1)
			convey.So(p.Pick(), convey.ShouldEqual, 13)
			convey.So(p.WasDrafted(), convey.ShouldEqual, model.StatusDrafted)
		})

		convey.Convey("A missing score is an error, never a default", func() {
			_, err := p.Score("Vertical")
			convey.So(errors.Is(err, model.ErrNoResult), convey.ShouldBeTrue)
			var nre *model.NoResultError
			convey.So(errors.As(err, &nre), convey.ShouldBeTrue)
			convey.So(nre.Test, convey.ShouldEqual, "Vertical")
		})

		convey.Convey("Scores returns a copy", func() {
			s := p.Scores()
			s["Forty"] = 9.99
			v, _ := p.Score("Forty")
			convey.So(v, convey.ShouldEqual, 4.55)
			convey.So(p.Tests(), convey.ShouldResemble, []string{"Forty"})
		})

		convey.Convey("Percentile delegates to the bound scorer", func() {
			f := model.ForYear(2000).WithPosition("OLB")
			v, err := p.Percentile("Forty", f)
			convey.So(err, convey.ShouldBeNil)
			convey.So(v, convey.ShouldEqual, 42.0)
			convey.So(scorer.calls, convey.ShouldEqual, 1)
			convey.So(scorer.subject, convey.ShouldEqual, p)
			convey.So(scorer.filter.Position, convey.ShouldEqual, "OLB")
		})

		convey.Convey("Lookup reports unknown ids", func() {
			_, err := set.Lookup("Nobody_2000")
			convey.So(errors.Is(err, model.ErrPlayerNotFound), convey.ShouldBeTrue)
		})

		convey.Convey("Concurrent reads are safe", func() {
			var wg sync.WaitGroup
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 100; j++ {
						_, _ = p.Score("Forty")
						_ = set.Players()
						_ = set.Years()
					}
				}()
			}
			wg.Wait()
			convey.So(set.Len(), convey.ShouldEqual, 1)
		})
	})

	convey.Convey("Given a player without a scorer", t, func() {
		b := model.NewBuilder()
		id, _ := b.AddPlayer(model.PlayerInfo{Name: "A", Position: "RB", Year: 2001})
		set := b.Build(nil)
		p, _ := set.Get(id)

		convey.Convey("Percentile fails explicitly", func() {
			_, err := p.Percentile("Forty", model.ForYear(2001))
			convey.So(err, convey.ShouldEqual, model.ErrNoScorer)
		})
	})
}

func TestRecordSetOrdering(t *testing.T) {
	convey.Convey("Given players added out of alphabetical order", t, func() {
		b := model.NewBuilder()
		for _, in := range []model.PlayerInfo{
			{Name: "Zed", Position: "QB", Year: 2002},
			{Name: "Amy", Position: "RB", Year: 2000},
			{Name: "Max", Position: "QB", Year: 2001},
		} {
			_, err := b.AddPlayer(in)
			convey.So(err, convey.ShouldBeNil)
		}
		set := b.Build(nil)

		convey.Convey("Iteration order is insertion order", func() {
			var names []string
			for _, p := range set.Players() {
				names = append(names, p.Name())
			}
			convey.So(names, convey.ShouldResemble, []string{"Zed", "Amy", "Max"})
		})

		convey.Convey("Years are distinct and ascending", func() {
			convey.So(set.Years(), convey.ShouldResemble, []int{2000, 2001, 2002})
		})

		convey.Convey("Each build gets its own load id", func() {
			other := model.NewBuilder().Build(nil)
			convey.So(set.LoadID(), convey.ShouldNotBeEmpty)
			convey.So(set.LoadID(), convey.ShouldNotEqual, other.LoadID())
		})

		convey.Convey("Select applies the filter", func() {
			qbs := set.Select(model.ForYear(2002).WithPosition("qb"))
			convey.So(len(qbs), convey.ShouldEqual, 1)
			convey.So(qbs[0].Name(), convey.ShouldEqual, "Zed")
		})
	})
}

func TestFilter(t *testing.T) {
	convey.Convey("Given a filter", t, func() {
		b := model.NewBuilder()
		id, _ := b.AddPlayer(model.PlayerInfo{Name: "A", Position: "RB", Year: 2000, Status: model.StatusUndrafted})
		set := b.Build(nil)
		p, _ := set.Get(id)

		convey.So(model.ForYear(2000).Matches(p), convey.ShouldBeTrue)
		convey.So(model.ForYear(2001).Matches(p), convey.ShouldBeFalse)
		convey.So(model.ForYear(2000).WithPosition("QB").Matches(p), convey.ShouldBeFalse)
		convey.So(model.ForYear(2000).WithStatus(model.StatusUndrafted).Matches(p), convey.ShouldBeTrue)
		convey.So(model.ForYear(2000).WithStatus(model.StatusDrafted).Matches(p), convey.ShouldBeFalse)
		convey.So(model.ClassOf(p), convey.ShouldResemble, model.Filter{Year: 2000})

		convey.Convey("Year is required", func() {
			convey.So(errors.Is(model.Filter{}.Validate(), model.ErrInvalidFilter), convey.ShouldBeTrue)
			convey.So(model.ForYear(2000).Validate(), convey.ShouldBeNil)
		})

		convey.Convey("String describes the filter", func() {
			f := model.ForYear(2000).WithPosition("RB").WithStatus(model.StatusDrafted)
			convey.So(f.String(), convey.ShouldEqual, "year=2000 position=RB status=drafted")
		})
	})
}
