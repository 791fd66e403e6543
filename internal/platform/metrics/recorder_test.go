package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/riskibarqy/gridiron-loader/internal/platform/resilience"
)

func scrape(recorder *Recorder) string {
	rec := httptest.NewRecorder()
	recorder.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func TestRecorder(t *testing.T) {
	Convey("Given a recorder on an isolated registry", t, func() {
		recorder := NewRecorder(prometheus.NewRegistry())

		Convey("When cache lookups are recorded", func() {
			recorder.CacheLookup("period", ResultHit)
			recorder.CacheLookup("period", ResultHit)
			recorder.CacheLookup("event", ResultMiss)
			body := scrape(recorder)

			Convey("Then counters are split by tier and result", func() {
				So(body, ShouldContainSubstring, `gridiron_table_cache_lookups_total{level="period",result="hit"} 2`)
				So(body, ShouldContainSubstring, `gridiron_table_cache_lookups_total{level="event",result="miss"} 1`)
			})
		})

		Convey("When a breaker opens", func() {
			recorder.CircuitStateChanged("gamecenter", resilience.CircuitStateClosed, resilience.CircuitStateOpen)

			Convey("Then the gauge reports open", func() {
				So(scrape(recorder), ShouldContainSubstring, `gridiron_upstream_circuit_state{client="gamecenter"} 2`)
			})
		})

		Convey("When a build finishes", func() {
			recorder.BuildFinished("season", StatusOK, 2*time.Second)

			Convey("Then the build counter and histogram are exported", func() {
				body := scrape(recorder)
				So(body, ShouldContainSubstring, `gridiron_table_builds_total{level="season",status="ok"} 1`)
				So(body, ShouldContainSubstring, `gridiron_table_build_duration_seconds_count{level="season"} 1`)
			})
		})
	})

	Convey("Given a nil recorder", t, func() {
		var recorder *Recorder

		Convey("Then every observation is a no-op", func() {
			So(func() {
				recorder.CacheLookup("event", ResultHit)
				recorder.BuildFinished("event", StatusFailed, time.Second)
				recorder.RegistryPlaceholder("not_found")
				recorder.UpstreamRequest("gamecenter", "ok", time.Second)
				recorder.CircuitStateChanged("gamecenter", resilience.CircuitStateClosed, resilience.CircuitStateOpen)
			}, ShouldNotPanic)
		})
	})
}
