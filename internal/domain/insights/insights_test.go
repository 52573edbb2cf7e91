package insights_test

import (
	"context"
	"testing"
	"time"

	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/dataset"
	"github.com/isabell-ah/COVID-19-Global-Data-Tracker/internal/domain/insights"
	. "github.com/smartystreets/goconvey/convey"
)

func snapshot(loc string, cases dataset.Float) dataset.Observation {
	o := dataset.Observation{Location: loc, Date: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)}
	o.Set(dataset.TotalCases, cases)
	return o
}

func TestTopBy(t *testing.T) {
	Convey("Given a latest snapshot with mixed values", t, func() {
		latest := []dataset.Observation{
			snapshot("Brazil", dataset.Known(500)),
			snapshot("Germany", dataset.Unknown()),
			snapshot("India", dataset.Known(900)),
			snapshot("Kenya", dataset.Known(50)),
		}

		Convey("When ranking by total cases", func() {
			top := insights.TopBy(latest, dataset.TotalCases, 3)

			Convey("Then known values rank highest first", func() {
				So(len(top), ShouldEqual, 3)
				So(top[0].Location, ShouldEqual, "India")
				So(top[1].Location, ShouldEqual, "Brazil")
				So(top[2].Location, ShouldEqual, "Kenya")
			})
		})

		Convey("When the ranking is wider than the snapshot", func() {
			top := insights.TopBy(latest, dataset.TotalCases, 10)

			Convey("Then unknown values sort last", func() {
				So(len(top), ShouldEqual, 4)
				So(top[3].Location, ShouldEqual, "Germany")
				So(top[3].Value.Known, ShouldBeFalse)
			})
		})
	})
}

func TestBuildReport(t *testing.T) {
	Convey("Given a cleaned two-entity dataset", t, func() {
		base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
		schema := dataset.Schema{
			dataset.TotalCases:  true,
			dataset.TotalDeaths: true,
			dataset.DeathRate:   true,
		}

		var rows []dataset.Observation
		// Brazil doubles over the span, Kenya is flat at zero.
		for i := 0; i < 11; i++ {
			b := dataset.Observation{Location: "Brazil", Date: base.AddDate(0, 0, i)}
			b.Set(dataset.TotalCases, dataset.Known(float64(100+10*i)))
			b.Set(dataset.TotalDeaths, dataset.Known(float64(2*i)))
			b.Set(dataset.DeathRate, dataset.Known(float64(i)))
			rows = append(rows, b)

			k := dataset.Observation{Location: "Kenya", Date: base.AddDate(0, 0, i)}
			k.Set(dataset.TotalCases, dataset.Known(0))
			k.Set(dataset.TotalDeaths, dataset.Unknown())
			k.Set(dataset.DeathRate, dataset.Unknown())
			rows = append(rows, k)
		}
		ds := dataset.New(schema, rows)

		b, err := insights.New(insights.WithTopN(2), insights.WithGrowthSpan(10))
		So(err, ShouldBeNil)

		Convey("When the report is built", func() {
			r := b.Build(context.Background(), ds)

			Convey("Then aggregates sum only known values", func() {
				So(r.Totals.Entities, ShouldEqual, 2)
				So(r.Totals.TotalCases, ShouldResemble, dataset.Known(200))
				So(r.Totals.TotalDeaths, ShouldResemble, dataset.Known(20))
				// Kenya's death rate is undefined, so the mean covers Brazil only
				So(r.Totals.MeanDeathRate, ShouldResemble, dataset.Known(10))
				So(r.Totals.MeanVaccinationRate.Known, ShouldBeFalse)
				So(r.Totals.FirstDate, ShouldEqual, base)
				So(r.Totals.LastDate, ShouldEqual, base.AddDate(0, 0, 10))
			})

			Convey("And rankings lead with the largest entity", func() {
				So(r.TopCases[0].Location, ShouldEqual, "Brazil")
				So(r.TopDeathRate[0].Location, ShouldEqual, "Brazil")
			})

			Convey("And the vaccination ranking is absent without the column", func() {
				So(r.TopVaccinationRate, ShouldBeNil)
			})

			Convey("And growth compares against the span-old value", func() {
				So(len(r.CaseGrowth), ShouldEqual, 2)
				So(r.CaseGrowth[0].Location, ShouldEqual, "Brazil")
				So(r.CaseGrowth[0].Rate, ShouldResemble, dataset.Known(100))
			})

			Convey("And a zero baseline reports zero growth", func() {
				So(r.CaseGrowth[1].Location, ShouldEqual, "Kenya")
				So(r.CaseGrowth[1].Rate, ShouldResemble, dataset.Known(0))
			})
		})

		Convey("When an entity is shorter than the growth span", func() {
			short := dataset.New(schema, []dataset.Observation{
				snapshot("Kenya", dataset.Known(10)),
			})
			r := b.Build(context.Background(), short)

			Convey("Then its growth is undefined", func() {
				So(r.CaseGrowth[0].Rate.Known, ShouldBeFalse)
			})
		})
	})
}

func TestBuilderValidation(t *testing.T) {
	Convey("Given builder construction", t, func() {
		Convey("When top-n is zero", func() {
			b, err := insights.New(insights.WithTopN(0))
			So(err, ShouldEqual, insights.ErrInvalidParams)
			So(b, ShouldBeNil)
		})
	})
}
