package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/adapters/http/api"
	service "github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/app"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/dataset"
	. "github.com/smartystreets/goconvey/convey"
)

// stubLoader returns a fixed raw dataset and counts loads.
type stubLoader struct {
	ds    *dataset.Dataset
	err   error
	loads int
}

func (s *stubLoader) Load(ctx context.Context) (*dataset.Dataset, error) {
	s.loads++
	return s.ds, s.err
}

func rawDataset() *dataset.Dataset {
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	schema := dataset.Schema{
		dataset.TotalCases:  true,
		dataset.NewCases:    true,
		dataset.TotalDeaths: true,
	}

	var rows []dataset.Observation
	for _, loc := range []string{"Brazil", "Kenya"} {
		for i := 0; i < 10; i++ {
			o := dataset.Observation{Location: loc, Date: base.AddDate(0, 0, i)}
			o.Set(dataset.NewCases, dataset.Known(10))
			if i == 3 {
				// a raw gap the cleaning pass should fill
				o.Set(dataset.TotalCases, dataset.Unknown())
			} else {
				o.Set(dataset.TotalCases, dataset.Known(float64(100+10*i)))
			}
			o.Set(dataset.TotalDeaths, dataset.Known(float64(i)))
			rows = append(rows, o)
		}
	}
	return dataset.New(schema, rows)
}

func TestService(t *testing.T) {
	Convey("Given a service over a stub loader", t, func() {
		ctx := context.Background()
		loader := &stubLoader{ds: rawDataset()}

		svc, err := service.New(
			service.WithLoader(loader),
			service.WithCountries([]string{"Kenya"}),
		)
		So(err, ShouldBeNil)

		Convey("When listing countries", func() {
			got, err := svc.Countries(ctx)

			So(err, ShouldBeNil)
			So(got, ShouldResemble, []string{"Brazil", "Kenya"})
		})

		Convey("When querying a series with explicit countries", func() {
			got, err := svc.Series(ctx, api.SeriesQuery{
				Countries: []string{"Brazil"},
				Metric:    dataset.TotalCases,
			})

			Convey("Then one cleaned series is returned", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 1)
				So(got[0].Location, ShouldEqual, "Brazil")
				So(len(got[0].Points), ShouldEqual, 10)
				// the raw gap at the fourth day was forward-filled
				So(got[0].Points[3].Value, ShouldResemble, dataset.Known(120))
			})
		})

		Convey("When querying without countries", func() {
			got, err := svc.Series(ctx, api.SeriesQuery{Metric: dataset.NewCases})

			Convey("Then the configured default selection applies", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 1)
				So(got[0].Location, ShouldEqual, "Kenya")
			})
		})

		Convey("When querying a rolling series", func() {
			got, err := svc.Series(ctx, api.SeriesQuery{
				Countries: []string{"Kenya"},
				Metric:    dataset.NewCases,
				Rolling:   true,
			})

			Convey("Then the first six points are undefined and the rest match", func() {
				So(err, ShouldBeNil)
				So(got[0].Metric, ShouldEqual, "rolling_new_cases")
				So(got[0].Points[5].Value.Known, ShouldBeFalse)
				So(got[0].Points[6].Value, ShouldResemble, dataset.Known(10))
			})
		})

		Convey("When querying with a date range", func() {
			got, err := svc.Series(ctx, api.SeriesQuery{
				Countries: []string{"Kenya"},
				Metric:    dataset.NewCases,
				From:      "2021-01-03",
				To:        "2021-01-05",
			})

			So(err, ShouldBeNil)
			So(len(got[0].Points), ShouldEqual, 3)
			So(got[0].Points[0].Date, ShouldEqual, "2021-01-03")
		})

		Convey("When fetching the latest snapshot", func() {
			got, err := svc.Latest(ctx, nil)

			Convey("Then each entity carries its max date and derived rates", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 2)
				So(got[0].Date, ShouldEqual, "2021-01-10")
				So(got[0].Values[dataset.DeathRate].Known, ShouldBeTrue)
			})
		})

		Convey("When building insights", func() {
			report, err := svc.Insights(ctx, nil)

			So(err, ShouldBeNil)
			So(report.Totals.Entities, ShouldEqual, 2)
			So(report.TopCases[0].Location, ShouldEqual, "Brazil")
		})

		Convey("When several queries run against one raw dataset", func() {
			_, _ = svc.Countries(ctx)
			_, _ = svc.Latest(ctx, nil)
			stats := svc.GetStats()

			Convey("Then the pipeline ran once and stats reflect the dataset", func() {
				So(stats["dataset_loaded"], ShouldEqual, true)
				So(stats["rows"], ShouldEqual, 20)
				So(stats["entities"], ShouldEqual, 2)
			})
		})

		Convey("When the loader mutates nothing", func() {
			before := loader.ds.Rows[3].Get(dataset.TotalCases)
			_, _ = svc.Latest(ctx, nil)
			after := loader.ds.Rows[3].Get(dataset.TotalCases)

			Convey("Then the raw dataset keeps its gaps", func() {
				So(before.Known, ShouldBeFalse)
				So(after.Known, ShouldBeFalse)
			})
		})
	})

	Convey("Given service construction without a loader", t, func() {
		svc, err := service.New()

		So(err, ShouldEqual, service.ErrNoLoader)
		So(svc, ShouldBeNil)
	})

	Convey("Given a failing loader", t, func() {
		loader := &stubLoader{err: errors.New("boom")}
		svc, err := service.New(service.WithLoader(loader))
		So(err, ShouldBeNil)

		Convey("When any query runs", func() {
			_, err := svc.Countries(context.Background())

			So(err, ShouldNotBeNil)
		})
	})
}
