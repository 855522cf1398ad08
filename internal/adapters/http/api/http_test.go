package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/scout/internal/adapters/http/api"
	"github.com/okian/scout/internal/adapters/source"
	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/cohort"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	players = "Pfr_ID\tPlayer\tPos\tHt\tWt\tYear\tTeam\tRound\tPick\n" +
		"John Abraham_2000\tJohn Abraham\tOLB\t76\t252\t2000\tNew York Jets\t1\t13\n" +
		"Shaun Alexander_2000\tShaun Alexander\tRB\t72\t218\t2000\tSeattle Seahawks\t1\t19\n" +
		"Corey Atkins_2000\tCorey Atkins\tOLB\t72\t237\t2000\t\t\t\n"

	tests = "Pfr_ID\tTest\tValue\n" +
		"John Abraham_2000\tForty\t4.55\n" +
		"Shaun Alexander_2000\tForty\t4.58\n" +
		"Corey Atkins_2000\tForty\t4.72\n" +
		"Corey Atkins_2000\tVertical\t31\n" +
		"X_1999\tForty\t4.80\n"
)

// newMux starts a service over fixture files and registers every route.
func newMux(t *testing.T, maxLimit int) (*http.ServeMux, string) {
	t.Helper()
	dir := t.TempDir()
	pf, tf := filepath.Join(dir, "players.txt"), filepath.Join(dir, "tests.txt")
	if err := os.WriteFile(pf, []byte(players), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tf, []byte(tests), 0o600); err != nil {
		t.Fatal(err)
	}
	svc := service.New(service.WithFiles(pf, tf), service.WithLogger(logger.Nop()))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc, maxLimit).Register(context.Background(), mux)
	return mux, tf
}

func do(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		panic(err)
	}
	return out
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, _ := newMux(t, 100)

		Convey("Then the health endpoint reports the served set", func() {
			w := do(mux, "GET", "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decode(w)
			So(body["status"], ShouldEqual, "ok")
			So(body["players"], ShouldEqual, 3.0)
			So(body["loadID"], ShouldNotBeEmpty)
		})

		Convey("Then the stats endpoint reports the record set and its load", func() {
			w := do(mux, "GET", "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decode(w)
			So(body["started"], ShouldEqual, true)
			So(body["loaded"], ShouldEqual, true)
			So(body["loadID"], ShouldEqual, decode(do(mux, "GET", "/healthz"))["loadID"])
			So(body["players"], ShouldEqual, 3.0)
			So(body["scores"], ShouldEqual, 4.0)
			So(body["playerRows"], ShouldEqual, 3.0)
			So(body["testRows"], ShouldEqual, 5.0)
			So(body["rowErrors"], ShouldEqual, 1.0)
			So(body["rowErrorsByKind"], ShouldResemble, map[string]any{"orphan_record": 1.0})
			So(body["duplicates"], ShouldEqual, 0.0)
			So(body["years"], ShouldResemble, []any{2000.0})
		})

		Convey("Then the metrics endpoint labels errors by envelope code", func() {
			So(do(mux, "GET", "/players/Nobody_1999").Code, ShouldEqual, http.StatusNotFound)
			w := do(mux, "GET", "/metrics")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "scout_combine_players_loaded")
			So(w.Body.String(), ShouldContainSubstring, `error_type="player_not_found"`)
		})

		Convey("Then unknown paths are not found", func() {
			So(do(mux, "GET", "/unknown").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestPlayers(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, _ := newMux(t, 100)

		Convey("When fetching a known player", func() {
			w := do(mux, "GET", "/players/John%20Abraham_2000")

			Convey("Then the record and scores are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode(w)
				So(body["name"], ShouldEqual, "John Abraham")
				So(body["position"], ShouldEqual, "OLB")
				So(body["status"], ShouldEqual, "drafted")
				So(body["scores"], ShouldResemble, map[string]any{"Forty": 4.55})
			})
		})

		Convey("When fetching an unknown player", func() {
			w := do(mux, "GET", "/players/Nobody_1999")

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decode(w)["code"], ShouldEqual, "player_not_found")
			})
		})

		Convey("When the path is malformed", func() {
			So(do(mux, "GET", "/players/").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, "GET", "/players/a/b").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When using the wrong method", func() {
			So(do(mux, "POST", "/players/John%20Abraham_2000").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestPercentile(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, _ := newMux(t, 100)
		base := "/players/John%20Abraham_2000/percentile"

		Convey("When scoring against the draft class", func() {
			w := do(mux, "GET", base+"?test=Forty&year=2000")

			Convey("Then the percentile is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode(w)
				So(body["percentile"], ShouldEqual, 100.0)
				So(body["filter"], ShouldResemble, map[string]any{"year": 2000.0})
			})
		})

		Convey("When filtering by position and status", func() {
			w := do(mux, "GET", base+"?test=Forty&year=2000&position=olb&status=drafted")

			Convey("Then the filter is echoed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["filter"], ShouldResemble, map[string]any{
					"year": 2000.0, "position": "olb", "status": "drafted",
				})
			})
		})

		Convey("When the request maps to a domain error", func() {
			cases := []struct {
				target string
				status int
				code   string
			}{
				{base + "?year=2000", http.StatusBadRequest, "bad_request"},
				{base + "?test=Forty", http.StatusBadRequest, "bad_request"},
				{base + "?test=Forty&year=abc", http.StatusBadRequest, "bad_request"},
				{base + "?test=Forty&year=2000&status=maybe", http.StatusBadRequest, "bad_request"},
				{base + "?test=Hurdles&year=2000", http.StatusUnprocessableEntity, "unknown_test"},
				{base + "?test=Vertical&year=2000", http.StatusNotFound, "no_result"},
				{base + "?test=Forty&year=2001", http.StatusUnprocessableEntity, "not_in_cohort"},
				{base + "?test=Forty&year=2000&position=RB", http.StatusUnprocessableEntity, "not_in_cohort"},
				{"/players/Corey%20Atkins_2000/percentile?test=Vertical&year=2000", http.StatusUnprocessableEntity, "empty_cohort"},
				{"/players/Nobody_2000/percentile?test=Forty&year=2000", http.StatusNotFound, "player_not_found"},
			}
			for _, c := range cases {
				w := do(mux, "GET", c.target)
				So(w.Code, ShouldEqual, c.status)
				So(decode(w)["code"], ShouldEqual, c.code)
			}
		})
	})
}

func TestLeaderboard(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, _ := newMux(t, 2)

		Convey("When requesting the leaderboard", func() {
			w := do(mux, "GET", "/leaderboard?test=Forty&year=2000")

			Convey("Then entries are best first up to the default limit", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Entries []struct {
						Rank       int     `json:"rank"`
						Player     string  `json:"player"`
						Score      float64 `json:"score"`
						Percentile float64 `json:"percentile"`
					} `json:"entries"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(len(body.Entries), ShouldEqual, 2)
				So(body.Entries[0].Player, ShouldEqual, "John Abraham_2000")
				So(body.Entries[0].Percentile, ShouldEqual, 100.0)
				So(body.Entries[1].Rank, ShouldEqual, 2)
				So(body.Entries[1].Score, ShouldEqual, 4.58)
			})
		})

		Convey("When the limit is invalid or too large", func() {
			w := do(mux, "GET", "/leaderboard?test=Forty&year=2000&limit=0")
			So(w.Code, ShouldEqual, http.StatusBadRequest)

			w = do(mux, "GET", "/leaderboard?test=Forty&year=2000&limit=3")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode(w)["code"], ShouldEqual, "limit_exceeded")
		})

		Convey("When the cohort is too small", func() {
			w := do(mux, "GET", "/leaderboard?test=Vertical&year=2000")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})
	})
}

func TestSummary(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, _ := newMux(t, 100)

		Convey("When summarizing a test", func() {
			w := do(mux, "GET", "/summary?test=Forty&year=2000&position=OLB")

			Convey("Then the distribution is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode(w)
				So(body["direction"], ShouldEqual, "lower_better")
				So(body["count"], ShouldEqual, 2.0)
				So(body["min"], ShouldEqual, 4.55)
				So(body["max"], ShouldEqual, 4.72)
				So(body["best"], ShouldEqual, "John Abraham_2000")
			})
		})

		Convey("When nobody in the cohort took the test", func() {
			w := do(mux, "GET", "/summary?test=BenchReps&year=2000")

			Convey("Then the counts are returned without a distribution", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode(w)
				So(body["count"], ShouldEqual, 0.0)
				So(body["missing"], ShouldEqual, 3.0)
				_, hasMin := body["min"]
				So(hasMin, ShouldBeFalse)
			})
		})
	})
}

func TestReload(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, tf := newMux(t, 100)

		Convey("When the test file gains a faster time and is reloaded", func() {
			So(os.WriteFile(tf, []byte(tests+"Corey Atkins_2000\tForty\t4.40\n"), 0o600), ShouldBeNil)
			w := do(mux, "POST", "/reload")

			Convey("Then the report is returned and queries see the new set", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode(w)
				So(body["players"], ShouldEqual, 3.0)
				So(body["row_errors"], ShouldEqual, 1.0)
				So(body["duplicates"], ShouldEqual, 1.0)
				So(body["messages"], ShouldHaveLength, 2)

				w = do(mux, "GET", "/players/Corey%20Atkins_2000/percentile?test=Forty&year=2000")
				So(decode(w)["percentile"], ShouldEqual, 100.0)
			})
		})

		Convey("When the reload fails", func() {
			So(os.WriteFile(tf, []byte("bogus\n"), 0o600), ShouldBeNil)
			w := do(mux, "POST", "/reload")

			Convey("Then an error is returned and the old set keeps serving", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode(w)["message"], ShouldContainSubstring, "missing")
				So(do(mux, "GET", "/players/Corey%20Atkins_2000").Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When using GET", func() {
			So(do(mux, "GET", "/reload").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

// stubDeps fails every call with err.
type stubDeps struct{ err error }

func (s stubDeps) Player(context.Context, model.PlayerID) (*model.Player, error) { return nil, s.err }
func (s stubDeps) Percentile(context.Context, model.PlayerID, string, model.Filter) (float64, error) {
	return 0, s.err
}
func (s stubDeps) Rankings(context.Context, string, model.Filter, int) ([]cohort.Standing, error) {
	return nil, s.err
}
func (s stubDeps) Summary(context.Context, string, model.Filter) (cohort.Summary, error) {
	return cohort.Summary{}, s.err
}
func (s stubDeps) Load(context.Context) (*source.Report, error) { return nil, s.err }
func (s stubDeps) GetStats() service.Stats { return service.Stats{Started: true} }

func TestErrorMapping(t *testing.T) {
	Convey("Given dependencies without a loaded set", t, func() {
		deps := stubDeps{err: service.ErrNotLoaded}
		mux := http.NewServeMux()
		api.NewServer(deps, deps, 10).Register(context.Background(), mux)

		Convey("Then queries are unavailable", func() {
			w := do(mux, "GET", "/players/a_2000")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decode(w)["code"], ShouldEqual, "not_loaded")
		})

		Convey("Then the health check fails", func() {
			w := do(mux, "GET", "/healthz")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decode(w)["status"], ShouldEqual, "not_loaded")
		})

		Convey("Then stats still answer with empty collections", func() {
			body := decode(do(mux, "GET", "/stats"))
			So(body["loaded"], ShouldEqual, false)
			So(body["years"], ShouldResemble, []any{})
			So(body["rowErrorsByKind"], ShouldResemble, map[string]any{})
			_, hasLoadedAt := body["loadedAt"]
			So(hasLoadedAt, ShouldBeFalse)
		})
	})

	Convey("Given dependencies with an unexpected failure", t, func() {
		deps := stubDeps{err: errors.New("disk on fire")}
		mux := http.NewServeMux()
		api.NewServer(deps, deps, 10).Register(context.Background(), mux)

		Convey("Then the error envelope carries the message", func() {
			w := do(mux, "GET", "/summary?test=Forty&year=2000")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
			body := decode(w)
			So(body["code"], ShouldEqual, "internal_error")
			So(body["message"], ShouldEqual, "disk on fire")
		})
	})

	Convey("Given a response body", t, func() {
		Convey("Then the JSON envelope has code and message keys only", func() {
			deps := stubDeps{err: model.ErrInvalidFilter}
			mux := http.NewServeMux()
			api.NewServer(deps, deps, 10).Register(context.Background(), mux)
			w := do(mux, "GET", "/leaderboard?test=Forty&year=2000")
			body := decode(w)
			So(len(body), ShouldEqual, 2)
			So(strings.Contains(w.Body.String(), "\"code\""), ShouldBeTrue)
		})
	})
}
