package catalog_test

import (
	"context"
	"os"
	"testing"

	"github.com/nightseek/nightseek/internal/adapters/catalog"
	"github.com/nightseek/nightseek/internal/domain/model"
	"github.com/nightseek/nightseek/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestLoader(t *testing.T) {
	Convey("Given a catalog loader for a mid-northern observer", t, func() {
		ctx := context.Background()
		l := catalog.New(catalog.WithLatitude(55.9))

		Convey("When deep-sky entries are filtered by magnitude", func() {
			bright, err := l.DSOs(ctx, 6.0)
			So(err, ShouldBeNil)
			all, err := l.DSOs(ctx, 12.0)
			So(err, ShouldBeNil)

			Convey("Then the brighter cut is a strict subset", func() {
				So(len(bright), ShouldBeGreaterThan, 0)
				So(len(bright), ShouldBeLessThan, len(all))
				for _, e := range bright {
					So(*e.Magnitude, ShouldBeLessThanOrEqualTo, 6.0)
				}
			})

			Convey("And far-southern targets are dropped as unreachable", func() {
				for _, e := range all {
					So(e.Name, ShouldNotEqual, "M7") // dec -34.8 never clears 20 degrees from 55.9N
				}
			})
		})

		Convey("When the planet list is requested", func() {
			planets, err := l.Planets(ctx)
			So(err, ShouldBeNil)

			Convey("Then all seven planets come back with the right category", func() {
				So(len(planets), ShouldEqual, 7)
				for _, p := range planets {
					So(p.Category, ShouldEqual, model.CategoryPlanet)
				}
			})
		})

		Convey("When comets are filtered by magnitude limit", func() {
			comets, err := l.Comets(ctx, 10.0)
			So(err, ShouldBeNil)

			Convey("Then each entry carries orbital elements", func() {
				So(len(comets), ShouldBeGreaterThan, 0)
				for _, c := range comets {
					So(c.Elements, ShouldNotBeNil)
					So(c.Category, ShouldEqual, model.CategoryComet)
				}
			})
		})

		Convey("When the Milky Way core is requested from 55.9N", func() {
			mw := l.MilkyWay(ctx)

			Convey("Then it is excluded: the core never gets high enough", func() {
				// Peak altitude at dec -29 from 55.9N is about 5 degrees.
				So(mw, ShouldBeNil)
			})
		})

		Convey("When the same is requested from a southern site", func() {
			south := catalog.New(catalog.WithLatitude(-30))
			mw := south.MilkyWay(ctx)

			So(mw, ShouldNotBeNil)
			So(mw.Category, ShouldEqual, model.CategoryMilkyWay)
		})

		Convey("When minor planets are requested", func() {
			mps, err := l.MinorPlanets(ctx)
			So(err, ShouldBeNil)
			So(len(mps), ShouldEqual, 3)
		})
	})
}
