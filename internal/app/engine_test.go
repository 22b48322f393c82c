package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/starline/internal/app"
	"github.com/okian/starline/internal/domain/model"
	"github.com/okian/starline/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// testProjects yields a 5-tick timeline: 2020-01-01 .. 2020-05-01.
func testProjects() []model.Project {
	return []model.Project{
		{ID: "alpha", History: []model.Observation{
			{Date: date(2020, 1, 1), Value: 100},
			{Date: date(2020, 4, 1), Value: 400},
		}},
		{ID: "beta", History: []model.Observation{
			{Date: date(2020, 2, 1), Value: 50},
			{Date: date(2020, 4, 1), Value: 950},
		}},
	}
}

func eventually(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

func newEngine(catalog []model.Annotation, opts ...app.Option) *app.Engine {
	base := []app.Option{
		app.WithTickInterval(5 * time.Millisecond),
		app.WithEventDisplayDuration(40 * time.Millisecond),
	}
	e := app.New(testProjects(), catalog, append(base, opts...)...)
	So(e.Start(context.Background()), ShouldBeNil)
	return e
}

func TestEngineInitialState(t *testing.T) {
	Convey("Given a started engine", t, func() {
		e := newEngine(nil)
		defer e.Stop()

		Convey("Then the initial frame is the pre-start empty state", func() {
			f := e.Frame()
			So(f.TickIndex, ShouldEqual, -1)
			So(f.Playing, ShouldBeFalse)
			So(f.Series, ShouldBeEmpty)
			So(f.Ranking.Total, ShouldEqual, 0)
			So(f.Ranking.TopN, ShouldBeEmpty)
			So(f.ActiveEvent, ShouldBeNil)
		})

		Convey("Then two frames without an intervening tick are identical", func() {
			So(e.Frame(), ShouldResemble, e.Frame())
		})
	})
}

func TestEnginePlaybackTermination(t *testing.T) {
	Convey("Given a started engine", t, func() {
		e := newEngine(nil)
		defer e.Stop()

		Convey("When played to completion", func() {
			e.Play()

			done := eventually(2*time.Second, func() bool {
				f := e.Frame()
				return f.TickIndex == 4 && !f.Playing
			})

			Convey("Then it stops exactly on the final tick", func() {
				So(done, ShouldBeTrue)
				f := e.Frame()
				So(f.TickIndex, ShouldEqual, 4)
				So(f.Playing, ShouldBeFalse)
			})

			Convey("And it never wraps past the end", func() {
				time.Sleep(30 * time.Millisecond)
				So(e.Frame().TickIndex, ShouldEqual, 4)
			})

			Convey("And both projects are fully revealed", func() {
				f := e.Frame()
				So(len(f.Series), ShouldEqual, 2)
				So(f.Ranking.TopN, ShouldResemble, []string{"beta", "alpha"})
			})
		})
	})
}

func TestEnginePauseAndResume(t *testing.T) {
	Convey("Given an engine playing", t, func() {
		e := newEngine(nil)
		defer e.Stop()
		e.Play()

		So(eventually(time.Second, func() bool {
			return e.Frame().TickIndex >= 1
		}), ShouldBeTrue)

		Convey("When paused", func() {
			e.Pause()
			f := e.Frame()
			idx := f.TickIndex

			Convey("Then the playhead holds still", func() {
				So(f.Playing, ShouldBeFalse)
				time.Sleep(25 * time.Millisecond)
				So(e.Frame().TickIndex, ShouldEqual, idx)
			})

			Convey("And resuming continues from the same index", func() {
				e.Play()
				So(eventually(time.Second, func() bool {
					g := e.Frame()
					return g.TickIndex == 4 && !g.Playing
				}), ShouldBeTrue)
			})
		})
	})
}

func TestEngineReplayFromEnd(t *testing.T) {
	Convey("Given an engine that finished a run", t, func() {
		e := newEngine(nil)
		defer e.Stop()
		e.Play()
		So(eventually(2*time.Second, func() bool {
			f := e.Frame()
			return f.TickIndex == 4 && !f.Playing
		}), ShouldBeTrue)

		Convey("When played again", func() {
			e.Play()

			Convey("Then the run restarts from the beginning", func() {
				So(eventually(time.Second, func() bool {
					f := e.Frame()
					return f.TickIndex >= 0 && f.TickIndex < 4 && f.Playing
				}), ShouldBeTrue)
				So(eventually(2*time.Second, func() bool {
					f := e.Frame()
					return f.TickIndex == 4 && !f.Playing
				}), ShouldBeTrue)
			})
		})
	})
}

func TestEngineReset(t *testing.T) {
	Convey("Given an engine mid-run", t, func() {
		e := newEngine(nil)
		defer e.Stop()
		e.Play()
		So(eventually(time.Second, func() bool {
			return e.Frame().TickIndex >= 1
		}), ShouldBeTrue)

		Convey("When reset", func() {
			e.Reset()

			Convey("Then all visible state is cleared", func() {
				f := e.Frame()
				So(f.TickIndex, ShouldEqual, -1)
				So(f.Playing, ShouldBeFalse)
				So(f.Series, ShouldBeEmpty)
				So(f.Ranking.Total, ShouldEqual, 0)
			})

			Convey("And a second reset changes nothing", func() {
				before := e.Frame()
				e.Reset()
				So(e.Frame(), ShouldResemble, before)
			})

			Convey("And the clock stays stopped afterwards", func() {
				time.Sleep(25 * time.Millisecond)
				So(e.Frame().TickIndex, ShouldEqual, -1)
			})
		})
	})
}

func TestEngineAnnotationAutoDismiss(t *testing.T) {
	Convey("Given a catalog with one annotation and auto-dismiss mode", t, func() {
		catalog := []model.Annotation{
			{Date: date(2020, 3, 1), Title: "Major Update Released"},
		}
		e := newEngine(catalog)
		defer e.Stop()

		Convey("When playback passes the annotation date", func() {
			e.Play()

			Convey("Then the annotation becomes active", func() {
				So(eventually(time.Second, func() bool {
					f := e.Frame()
					return f.ActiveEvent != nil
				}), ShouldBeTrue)
				f := e.Frame()
				So(f.ActiveEvent.Title, ShouldEqual, "Major Update Released")
				So(f.ActiveEvent.Date, ShouldEqual, "2020-03-01")
			})

			Convey("And it auto-dismisses after the display duration", func() {
				So(eventually(time.Second, func() bool {
					return e.Frame().ActiveEvent != nil
				}), ShouldBeTrue)
				So(eventually(time.Second, func() bool {
					return e.Frame().ActiveEvent == nil
				}), ShouldBeTrue)
			})

			Convey("And playback keeps running meanwhile", func() {
				So(eventually(2*time.Second, func() bool {
					f := e.Frame()
					return f.TickIndex == 4 && !f.Playing
				}), ShouldBeTrue)
			})
		})
	})
}

func TestEngineAnnotationQueue(t *testing.T) {
	Convey("Given two annotations firing on the same tick", t, func() {
		catalog := []model.Annotation{
			{Date: date(2020, 3, 1), Title: "first"},
			{Date: date(2020, 3, 1), Title: "second"},
		}
		e := newEngine(catalog)
		defer e.Stop()

		Convey("When playback passes their date", func() {
			e.Play()

			Convey("Then they display sequentially and none is dropped", func() {
				So(eventually(time.Second, func() bool {
					f := e.Frame()
					return f.ActiveEvent != nil && f.ActiveEvent.Title == "first"
				}), ShouldBeTrue)
				So(eventually(time.Second, func() bool {
					f := e.Frame()
					return f.ActiveEvent != nil && f.ActiveEvent.Title == "second"
				}), ShouldBeTrue)
				So(eventually(time.Second, func() bool {
					return e.Frame().ActiveEvent == nil
				}), ShouldBeTrue)
			})
		})
	})
}

func TestEnginePauseOnEvents(t *testing.T) {
	Convey("Given pause-on-events mode", t, func() {
		catalog := []model.Annotation{
			{Date: date(2020, 3, 1), Title: "stop here"},
		}
		e := newEngine(catalog, app.WithPauseOnEvents(true))
		defer e.Stop()

		Convey("When playback reaches the annotation", func() {
			e.Play()

			So(eventually(time.Second, func() bool {
				f := e.Frame()
				return f.ActiveEvent != nil && !f.Playing
			}), ShouldBeTrue)
			pausedAt := e.Frame().TickIndex

			Convey("Then the annotation stays active while paused", func() {
				time.Sleep(80 * time.Millisecond)
				f := e.Frame()
				So(f.ActiveEvent, ShouldNotBeNil)
				So(f.TickIndex, ShouldEqual, pausedAt)
			})

			Convey("And resuming dismisses it immediately and plays on", func() {
				e.Play()
				f := e.Frame()
				So(f.ActiveEvent, ShouldBeNil)
				So(eventually(2*time.Second, func() bool {
					g := e.Frame()
					return g.TickIndex == 4 && !g.Playing
				}), ShouldBeTrue)
			})
		})
	})
}

func TestEngineResetCancelsDismissTimer(t *testing.T) {
	Convey("Given an active annotation with a pending dismiss timer", t, func() {
		catalog := []model.Annotation{
			{Date: date(2020, 3, 1), Title: "transient"},
		}
		e := newEngine(catalog)
		defer e.Stop()
		e.Play()
		So(eventually(time.Second, func() bool {
			return e.Frame().ActiveEvent != nil
		}), ShouldBeTrue)

		Convey("When the engine resets before the timer fires", func() {
			e.Reset()

			Convey("Then the late timer firing is a no-op", func() {
				time.Sleep(80 * time.Millisecond)
				f := e.Frame()
				So(f.TickIndex, ShouldEqual, -1)
				So(f.ActiveEvent, ShouldBeNil)
			})

			Convey("And the annotation re-fires on the next run", func() {
				e.Play()
				So(eventually(time.Second, func() bool {
					return e.Frame().ActiveEvent != nil
				}), ShouldBeTrue)
			})
		})
	})
}

func TestEngineSubscribe(t *testing.T) {
	Convey("Given a frame subscriber", t, func() {
		e := newEngine(nil)
		defer e.Stop()

		ch, cancel := e.Subscribe()
		defer cancel()

		Convey("Then it receives the current state on subscribe", func() {
			select {
			case f := <-ch:
				So(f.TickIndex, ShouldEqual, -1)
			case <-time.After(time.Second):
				So("timeout", ShouldBeEmpty)
			}
		})

		Convey("And it receives frames while playing", func() {
			e.Play()
			got := false
			deadline := time.After(2 * time.Second)
			for !got {
				select {
				case f := <-ch:
					if f.TickIndex >= 0 {
						got = true
					}
				case <-deadline:
					got = true
				}
			}
			So(eventually(time.Second, func() bool {
				return e.Frame().TickIndex >= 0
			}), ShouldBeTrue)
		})
	})
}

func TestEngineStats(t *testing.T) {
	Convey("Given a started engine", t, func() {
		e := newEngine(nil)
		defer e.Stop()

		Convey("Then stats describe the dataset and playhead", func() {
			stats := e.Stats()
			So(stats["started"], ShouldBeTrue)
			So(stats["projects"], ShouldEqual, 2)
			So(stats["timeline_ticks"], ShouldEqual, 5)
			So(stats["tick_index"], ShouldEqual, -1)
		})
	})
}
