package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/vaxtrack/internal/app"
	"github.com/okian/vaxtrack/internal/domain/model"
	"github.com/okian/vaxtrack/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// scriptedRunner returns queued results in order, repeating the last.
type scriptedRunner struct {
	mu      sync.Mutex
	results []result
	calls   int
}

type result struct {
	snap model.Snapshot
	err  error
}

func (r *scriptedRunner) Run(context.Context) (model.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.calls
	if i >= len(r.results) {
		i = len(r.results) - 1
	}
	r.calls++
	return r.results[i].snap, r.results[i].err
}

func (r *scriptedRunner) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func ok(at time.Time, locations ...string) result {
	snap := model.Snapshot{Metric: model.MetricTotalVaccinations, FetchedAt: at}
	for _, loc := range locations {
		snap.Summaries = append(snap.Summaries, model.Summary{ID: loc, Location: loc, Value: 1, MetricDisplay: "1"})
	}
	return result{snap: snap}
}

func failed() result {
	return result{err: fmt.Errorf("%w: status 503", model.ErrFeedUnavailable)}
}

// waitFor polls cond for up to two seconds.
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.RevalidateInterval(), ShouldEqual, 5*time.Minute)
			So(svc.GetStats().Started, ShouldBeFalse)
		})

		Convey("Then starting without a normalizer fails", func() {
			So(errors.Is(svc.Start(context.Background()), service.ErrNoNormalizer), ShouldBeTrue)
			So(errors.Is(svc.Refresh(context.Background()), service.ErrNoNormalizer), ShouldBeTrue)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a service with a healthy feed", t, func() {
		ctx := context.Background()
		clock := clockwork.NewFakeClock()
		runner := &scriptedRunner{results: []result{ok(clock.Now(), "World", "Brazil")}}
		svc := service.New(
			service.WithNormalizer(runner),
			service.WithClock(clock),
			service.WithRevalidateInterval(time.Minute),
		)

		Convey("When starting the service", func() {
			err := svc.Start(ctx)
			defer svc.Stop()

			Convey("Then the first snapshot is available immediately", func() {
				So(err, ShouldBeNil)
				So(runner.Calls(), ShouldEqual, 1)
				So(svc.CheckReadiness(ctx), ShouldBeNil)
				snap, found := svc.Snapshot(ctx)
				So(found, ShouldBeTrue)
				So(snap.Len(), ShouldEqual, 2)
			})

			Convey("And starting twice is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
				So(runner.Calls(), ShouldEqual, 1)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats.Started, ShouldBeTrue)
				So(stats.Locations, ShouldEqual, 2)
				So(stats.RefreshRuns, ShouldEqual, 1)
				So(stats.Metric, ShouldEqual, model.MetricTotalVaccinations)
				So(stats.FetchedAt, ShouldNotBeNil)
				So(stats.Stale, ShouldBeFalse)
			})
		})

		Convey("When stopping the service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
			svc.Stop()

			Convey("Then it should be marked as stopped and no longer tick", func() {
				So(svc.GetStats().Started, ShouldBeFalse)
				clock.Advance(5 * time.Minute)
				time.Sleep(20 * time.Millisecond)
				So(runner.Calls(), ShouldEqual, 1)
			})
		})
	})
}

func TestService_Revalidation(t *testing.T) {
	Convey("Given a running service", t, func() {
		ctx := context.Background()
		clock := clockwork.NewFakeClock()
		runner := &scriptedRunner{results: []result{
			ok(clock.Now(), "World", "Brazil"),
			failed(),
			ok(clock.Now().Add(2*time.Minute), "World", "Brazil", "Chile"),
		}}
		svc := service.New(
			service.WithNormalizer(runner),
			service.WithClock(clock),
			service.WithRevalidateInterval(time.Minute),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When the interval elapses and the feed fails", func() {
			clock.Advance(time.Minute)
			So(waitFor(func() bool { return svc.GetStats().RefreshFailures == 1 }), ShouldBeTrue)

			Convey("Then the previous snapshot is still served", func() {
				snap, found := svc.Snapshot(ctx)
				So(found, ShouldBeTrue)
				So(snap.Len(), ShouldEqual, 2)
				So(svc.CheckReadiness(ctx), ShouldBeNil)
				So(svc.GetStats().LastError, ShouldContainSubstring, "status 503")

				clock.Advance(30 * time.Second)
				So(svc.GetStats().Stale, ShouldBeTrue)
			})

			Convey("And the next interval recovers", func() {
				clock.Advance(time.Minute)
				So(waitFor(func() bool {
					snap, _ := svc.Snapshot(ctx)
					return snap.Len() == 3
				}), ShouldBeTrue)
				So(runner.Calls(), ShouldEqual, 3)
			})
		})
	})
}

func TestService_InitialFailure(t *testing.T) {
	Convey("Given a feed that is down at start", t, func() {
		ctx := context.Background()
		clock := clockwork.NewFakeClock()
		runner := &scriptedRunner{results: []result{failed(), ok(clock.Now(), "World")}}
		svc := service.New(service.WithNormalizer(runner), service.WithClock(clock))

		err := svc.Start(ctx)
		defer svc.Stop()

		Convey("Then the service starts but is not ready", func() {
			So(err, ShouldBeNil)
			_, found := svc.Snapshot(ctx)
			So(found, ShouldBeFalse)
			rerr := svc.CheckReadiness(ctx)
			So(errors.Is(rerr, service.ErrNotReady), ShouldBeTrue)
			So(errors.Is(rerr, model.ErrFeedUnavailable), ShouldBeTrue)
		})

		Convey("Then a manual refresh makes it ready", func() {
			So(svc.Refresh(ctx), ShouldBeNil)
			So(svc.CheckReadiness(ctx), ShouldBeNil)
		})
	})
}

func TestService_RefreshNeverOverlaps(t *testing.T) {
	Convey("Given concurrent refresh calls", t, func() {
		runner := &overlapRunner{}
		svc := service.New(service.WithNormalizer(runner))

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = svc.Refresh(context.Background())
			}()
		}
		wg.Wait()

		Convey("Then runs are serialized", func() {
			So(runner.maxActive, ShouldEqual, 1)
			So(runner.total, ShouldEqual, 8)
		})
	})
}

type overlapRunner struct {
	mu        sync.Mutex
	active    int
	maxActive int
	total     int
}

func (r *overlapRunner) Run(context.Context) (model.Snapshot, error) {
	r.mu.Lock()
	r.active++
	r.total++
	if r.active > r.maxActive {
		r.maxActive = r.active
	}
	r.mu.Unlock()

	time.Sleep(2 * time.Millisecond)

	r.mu.Lock()
	r.active--
	r.mu.Unlock()
	return model.Snapshot{FetchedAt: time.Now()}, nil
}
