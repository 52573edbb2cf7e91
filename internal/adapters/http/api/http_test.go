package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/adapters/http/api"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/dataset"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/insights"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	countries []string
	series    []api.EntitySeries
	latest    []api.SnapshotRow
	report    *insights.Report
	err       error

	lastQuery     api.SeriesQuery
	lastCountries []string
}

func (m *mockDependencies) Countries(ctx context.Context) ([]string, error) {
	return m.countries, m.err
}

func (m *mockDependencies) Series(ctx context.Context, q api.SeriesQuery) ([]api.EntitySeries, error) {
	m.lastQuery = q
	return m.series, m.err
}

func (m *mockDependencies) Latest(ctx context.Context, countries []string) ([]api.SnapshotRow, error) {
	m.lastCountries = countries
	return m.latest, m.err
}

func (m *mockDependencies) Insights(ctx context.Context, countries []string) (*insights.Report, error) {
	m.lastCountries = countries
	return m.report, m.err
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newTestServer(deps *mockDependencies) *httptest.Server {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"cached": true}}, 5)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestCountriesEndpoint(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{countries: []string{"Brazil", "Kenya"}}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When GET /countries succeeds", func() {
			resp, err := http.Get(srv.URL + "/countries")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then the entity list is returned with a request id", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get(api.RequestIDHeader), ShouldNotBeEmpty)

				var got []string
				So(json.NewDecoder(resp.Body).Decode(&got), ShouldBeNil)
				So(got, ShouldResemble, []string{"Brazil", "Kenya"})
			})
		})

		Convey("When the dataset is unavailable", func() {
			deps.err = errors.New("fetch failed")

			resp, err := http.Get(srv.URL + "/countries")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then a bad gateway error is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadGateway)
			})
		})
	})
}

func TestSeriesEndpoint(t *testing.T) {
	Convey("Given a registered API server with a 5-country cap", t, func() {
		deps := &mockDependencies{
			series: []api.EntitySeries{{Location: "Kenya", Metric: "new_cases"}},
		}
		srv := newTestServer(deps)
		defer srv.Close()

		get := func(query string) *http.Response {
			resp, err := http.Get(srv.URL + "/series" + query)
			So(err, ShouldBeNil)
			return resp
		}

		Convey("When a full query is sent", func() {
			resp := get("?countries=Kenya,Brazil&metric=total_cases&from=2021-01-01&to=2021-06-01&rolling=true")
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it passes parsed parameters through", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(deps.lastQuery.Countries, ShouldResemble, []string{"Kenya", "Brazil"})
				So(deps.lastQuery.Metric, ShouldEqual, dataset.TotalCases)
				So(deps.lastQuery.From, ShouldEqual, "2021-01-01")
				So(deps.lastQuery.Rolling, ShouldBeTrue)
			})
		})

		Convey("When no metric is given", func() {
			resp := get("")
			defer func() { _ = resp.Body.Close() }()

			Convey("Then new cases is the default", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(deps.lastQuery.Metric, ShouldEqual, dataset.NewCases)
			})
		})

		Convey("When the metric is unknown", func() {
			resp := get("?metric=nonsense")
			defer func() { _ = resp.Body.Close() }()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When too many countries are requested", func() {
			resp := get("?countries=a,b,c,d,e,f")
			defer func() { _ = resp.Body.Close() }()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a date bound is malformed", func() {
			resp := get("?from=01-02-2021")
			defer func() { _ = resp.Body.Close() }()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the method is not GET", func() {
			resp, err := http.Post(srv.URL+"/series", "application/json", nil)
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestLatestAndInsightsEndpoints(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{
			latest: []api.SnapshotRow{{
				Location: "Kenya",
				Date:     "2021-06-01",
				Values: map[dataset.Metric]dataset.Float{
					dataset.TotalCases:  dataset.Known(100),
					dataset.TotalDeaths: dataset.Unknown(),
				},
			}},
			report: &insights.Report{
				TopCases: []insights.Entry{{Location: "Kenya", Value: dataset.Known(100)}},
			},
		}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When GET /latest succeeds", func() {
			resp, err := http.Get(srv.URL + "/latest")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then unknown values serialize as null", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var got []map[string]any
				So(json.NewDecoder(resp.Body).Decode(&got), ShouldBeNil)
				So(len(got), ShouldEqual, 1)
				values := got[0]["values"].(map[string]any)
				So(values["total_cases"], ShouldEqual, 100)
				So(values["total_deaths"], ShouldBeNil)
			})
		})

		Convey("When GET /insights succeeds", func() {
			resp, err := http.Get(srv.URL + "/insights")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("When /latest names countries", func() {
			resp, err := http.Get(srv.URL + "/latest?countries=Kenya,Brazil")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then the selection passes through", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(deps.lastCountries, ShouldResemble, []string{"Kenya", "Brazil"})
			})
		})

		Convey("When /insights names too many countries", func() {
			resp, err := http.Get(srv.URL + "/insights?countries=a,b,c,d,e,f")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		srv := newTestServer(&mockDependencies{})
		defer srv.Close()

		Convey("When GET /stats is requested", func() {
			resp, err := http.Get(srv.URL + "/stats")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then the provider's map is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var got map[string]any
				So(json.NewDecoder(resp.Body).Decode(&got), ShouldBeNil)
				So(got["cached"], ShouldEqual, true)
			})
		})
	})
}
