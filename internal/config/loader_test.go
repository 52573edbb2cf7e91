package config_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.CacheTTL, convey.ShouldEqual, time.Hour)
				convey.So(cfg.RollingWindow, convey.ShouldEqual, 7)
				convey.So(cfg.Countries, convey.ShouldContain, "India")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("COVID_ADDR", ":8080")
			_ = os.Setenv("COVID_CACHE_TTL", "30m")
			_ = os.Setenv("COVID_ROLLING_WINDOW", "14")
			_ = os.Setenv("COVID_MAX_COUNTRIES", "10")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CacheTTL, convey.ShouldEqual, 30*time.Minute)
				convey.So(cfg.RollingWindow, convey.ShouldEqual, 14)
				convey.So(cfg.MaxCountries, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
addr: ":9090"
dataset_url: "http://localhost:8000/owid.csv"
cache_ttl: 15m
countries:
  - Brazil
  - Kenya
rolling_window: 3
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("COVID_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DatasetURL, convey.ShouldEqual, "http://localhost:8000/owid.csv")
				convey.So(cfg.CacheTTL, convey.ShouldEqual, 15*time.Minute)
				convey.So(cfg.Countries, convey.ShouldResemble, []string{"Brazil", "Kenya"})
				convey.So(cfg.RollingWindow, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
rolling_window: 3
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("COVID_CONFIG", tmpFile)
			_ = os.Setenv("COVID_ADDR", ":8080") // should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")       // from env
				convey.So(cfg.RollingWindow, convey.ShouldEqual, 3)    // from file
				convey.So(cfg.CacheTTL, convey.ShouldEqual, time.Hour) // default
			})
		})

		convey.Convey("When loading config with a non-existent file", func() {
			_ = os.Setenv("COVID_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("COVID_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a zero rolling window", func() {
			_ = os.Setenv("COVID_ROLLING_WINDOW", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "rolling_window")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"COVID_CONFIG",
		"COVID_ADDR",
		"COVID_DATASET_URL",
		"COVID_CACHE_TTL",
		"COVID_ROLLING_WINDOW",
		"COVID_MAX_COUNTRIES",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "covid-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
