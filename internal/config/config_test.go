package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/starline/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.TickIntervalMS, convey.ShouldEqual, 300)
			convey.So(cfg.TopN, convey.ShouldEqual, 5)
			convey.So(cfg.EventDisplayMS, convey.ShouldEqual, 5000)
			convey.So(cfg.PauseOnEvents, convey.ShouldBeFalse)
			convey.So(cfg.DatasetFile, convey.ShouldBeEmpty)
			convey.So(cfg.EventsFile, convey.ShouldBeEmpty)
			convey.So(cfg.BuildWorkers, convey.ShouldEqual, runtime.NumCPU())
		})
	})
}
