package api_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/starline/internal/adapters/http/api"
	"github.com/okian/starline/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// mockPlayback implements api.Playback with scripted state.
type mockPlayback struct {
	frame         model.Frame
	pauseOnEvents bool

	plays  int
	pauses int
	resets int

	frames chan model.Frame
}

func newMockPlayback() *mockPlayback {
	return &mockPlayback{
		frame: model.Frame{
			TickIndex: 2,
			Date:      "2020-03-01",
			Playing:   true,
			Series: []model.SeriesView{
				{ID: "nltk/nltk", Points: []model.PointView{
					{Date: "2020-01-01", Value: 100},
					{Date: "2020-02-01", Value: 200},
					{Date: "2020-03-01", Value: 300},
				}},
			},
			Ranking: model.RankingSnapshot{Total: 300, TopN: []string{"nltk/nltk"}},
		},
		frames: make(chan model.Frame, 4),
	}
}

func (m *mockPlayback) Frame() model.Frame { return m.frame }

func (m *mockPlayback) Subscribe() (<-chan model.Frame, func()) {
	return m.frames, func() {}
}

func (m *mockPlayback) Play()  { m.plays++ }
func (m *mockPlayback) Pause() { m.pauses++ }
func (m *mockPlayback) Reset() { m.resets++ }

func (m *mockPlayback) SetPauseOnEvents(enabled bool) { m.pauseOnEvents = enabled }
func (m *mockPlayback) PauseOnEvents() bool           { return m.pauseOnEvents }

func (m *mockPlayback) Stats() map[string]any {
	return map[string]any{"projects": 1, "playing": true}
}

func newTestServer(playback api.Playback) *httptest.Server {
	return httptest.NewServer(api.NewServer(playback).Router())
}

func TestServerReadEndpoints(t *testing.T) {
	Convey("Given a running API server", t, func() {
		playback := newMockPlayback()
		ts := newTestServer(playback)
		defer ts.Close()

		Convey("When GET /healthz is called", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it reports ok", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body["status"], ShouldEqual, "ok")
				So(body, ShouldContainKey, "uptime_seconds")
			})
		})

		Convey("When GET /frame is called", func() {
			resp, err := http.Get(ts.URL + "/frame")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the full frame comes back as JSON", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var frame model.Frame
				So(json.NewDecoder(resp.Body).Decode(&frame), ShouldBeNil)
				So(frame.TickIndex, ShouldEqual, 2)
				So(frame.Date, ShouldEqual, "2020-03-01")
				So(len(frame.Series), ShouldEqual, 1)
				So(len(frame.Series[0].Points), ShouldEqual, 3)
				So(frame.Ranking.TopN, ShouldResemble, []string{"nltk/nltk"})
			})
		})

		Convey("When GET /stats is called", func() {
			resp, err := http.Get(ts.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then counters come back as JSON", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var stats map[string]any
				So(json.NewDecoder(resp.Body).Decode(&stats), ShouldBeNil)
				So(stats["playing"], ShouldEqual, true)
			})
		})

		Convey("When GET /metrics is called", func() {
			resp, err := http.Get(ts.URL + "/metrics")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the Prometheus exposition is served", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestServerControls(t *testing.T) {
	Convey("Given a running API server", t, func() {
		playback := newMockPlayback()
		ts := newTestServer(playback)
		defer ts.Close()

		Convey("When POST /play is called", func() {
			resp, err := http.Post(ts.URL+"/play", "application/json", nil)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the engine is told to play", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
				So(playback.plays, ShouldEqual, 1)
			})
		})

		Convey("When POST /pause and POST /reset are called", func() {
			for _, path := range []string{"/pause", "/reset"} {
				resp, err := http.Post(ts.URL+path, "application/json", nil)
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
				resp.Body.Close()
			}

			Convey("Then both reach the engine", func() {
				So(playback.pauses, ShouldEqual, 1)
				So(playback.resets, ShouldEqual, 1)
			})
		})

		Convey("When PUT /settings toggles pause_on_events", func() {
			req, err := http.NewRequestWithContext(context.Background(), http.MethodPut,
				ts.URL+"/settings", strings.NewReader(`{"pause_on_events": true}`))
			So(err, ShouldBeNil)
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the setting sticks and is echoed back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(playback.pauseOnEvents, ShouldBeTrue)
				var body map[string]bool
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body["pause_on_events"], ShouldBeTrue)
			})
		})

		Convey("When PUT /settings is malformed", func() {
			for _, payload := range []string{`{not json`, `{}`} {
				req, err := http.NewRequestWithContext(context.Background(), http.MethodPut,
					ts.URL+"/settings", strings.NewReader(payload))
				So(err, ShouldBeNil)
				resp, err := http.DefaultClient.Do(req)
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				resp.Body.Close()
			}
		})

		Convey("When a control path is hit with the wrong method", func() {
			resp, err := http.Get(ts.URL + "/play")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestServerStream(t *testing.T) {
	Convey("Given a running API server with a frame subscription", t, func() {
		playback := newMockPlayback()
		ts := newTestServer(playback)
		defer ts.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/stream", nil)
		So(err, ShouldBeNil)
		resp, err := http.DefaultClient.Do(req)
		So(err, ShouldBeNil)
		defer resp.Body.Close()

		Convey("Then the response is an event stream", func() {
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(resp.Header.Get("Content-Type"), ShouldEqual, "text/event-stream")
		})

		Convey("And published frames arrive as data records", func() {
			playback.frames <- model.Frame{TickIndex: 3, Date: "2020-04-01"}

			reader := bufio.NewReader(resp.Body)
			line, err := reader.ReadString('\n')
			So(err, ShouldBeNil)
			So(strings.HasPrefix(line, "data: "), ShouldBeTrue)

			var frame model.Frame
			So(json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &frame), ShouldBeNil)
			So(frame.TickIndex, ShouldEqual, 3)
			So(frame.Date, ShouldEqual, "2020-04-01")
		})

		Convey("And closing the subscription channel ends the stream", func() {
			close(playback.frames)
			_, err := bufio.NewReader(resp.Body).ReadString('\n')
			So(err, ShouldNotBeNil)
		})
	})
}
