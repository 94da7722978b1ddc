package live

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterFeed(n *int64) FetchFunc {
	return func(context.Context) (any, error) {
		return atomic.LoadInt64(n), nil
	}
}

func receive(t *testing.T, sub *Subscription) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-sub.C():
		require.True(t, ok, "subscription closed")
		return snap
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
	return Snapshot{}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	var n int64 = 7
	hub := NewHub()
	hub.Register("trainees.active", counterFeed(&n), "trainees")

	sub, err := hub.Subscribe(context.Background(), "trainees.active")
	require.NoError(t, err)
	defer sub.Close()

	snap := receive(t, sub)
	assert.Equal(t, "trainees.active", snap.Feed)
	assert.Equal(t, int64(7), snap.Data)
}

func TestSubscribeUnknownFeed(t *testing.T) {
	_, err := NewHub().Subscribe(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownFeed)
}

func TestSubscribeFetchFailure(t *testing.T) {
	hub := NewHub()
	hub.Register("broken", func(context.Context) (any, error) { return nil, errors.New("boom") }, "trainees")

	_, err := hub.Subscribe(context.Background(), "broken")
	assert.Error(t, err)
}

func TestNotifyOnlyDependentFeeds(t *testing.T) {
	var trainees, trainers int64
	var trainerFetches int64
	hub := NewHub()
	hub.Register("trainees.active", counterFeed(&trainees), "trainees")
	hub.Register("trainers.active", func(ctx context.Context) (any, error) {
		atomic.AddInt64(&trainerFetches, 1)
		return atomic.LoadInt64(&trainers), nil
	}, "trainers")

	tsub, err := hub.Subscribe(context.Background(), "trainees.active")
	require.NoError(t, err)
	defer tsub.Close()
	rsub, err := hub.Subscribe(context.Background(), "trainers.active")
	require.NoError(t, err)
	defer rsub.Close()
	receive(t, tsub)
	receive(t, rsub)

	atomic.StoreInt64(&trainees, 1)
	hub.Notify("trainees")

	assert.Equal(t, int64(1), receive(t, tsub).Data)
	assert.Equal(t, int64(1), atomic.LoadInt64(&trainerFetches), "trainers feed must not be re-fetched")
	select {
	case <-rsub.C():
		t.Fatal("unrelated feed received a snapshot")
	default:
	}
}

func TestSlowSubscriberSeesLatestOnly(t *testing.T) {
	var n int64
	hub := NewHub()
	hub.Register("expiring", counterFeed(&n), "trainees")

	sub, err := hub.Subscribe(context.Background(), "expiring")
	require.NoError(t, err)
	defer sub.Close()

	for i := 1; i <= 5; i++ {
		atomic.StoreInt64(&n, int64(i))
		hub.Notify("trainees")
	}

	assert.Equal(t, int64(5), receive(t, sub).Data)
	select {
	case <-sub.C():
		t.Fatal("mailbox should hold a single snapshot")
	default:
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	var n int64
	hub := NewHub()
	hub.Register("dietPlans", counterFeed(&n), "dietPlans")

	sub, err := hub.Subscribe(context.Background(), "dietPlans")
	require.NoError(t, err)
	receive(t, sub)

	sub.Close()
	sub.Close()
	hub.Notify("dietPlans")

	_, ok := <-sub.C()
	assert.False(t, ok)
}

func TestContextCancelUnsubscribes(t *testing.T) {
	var n int64
	hub := NewHub()
	hub.Register("workoutPlans", counterFeed(&n), "workoutPlans")

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := hub.Subscribe(ctx, "workoutPlans")
	require.NoError(t, err)
	receive(t, sub)

	cancel()
	assert.Eventually(t, func() bool {
		hub.mutex.RLock()
		defer hub.mutex.RUnlock()
		return len(hub.feeds["workoutPlans"].subs) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestOverlappingRefreshesDeliverInReadOrder(t *testing.T) {
	var version, calls int64
	started := make(chan struct{})
	release := make(chan struct{})
	hub := NewHub()
	hub.Register("trainees.active", func(context.Context) (any, error) {
		v := atomic.LoadInt64(&version)
		if atomic.AddInt64(&calls, 1) == 2 {
			close(started)
			<-release
		}
		return v, nil
	}, "trainees")

	sub, err := hub.Subscribe(context.Background(), "trainees.active")
	require.NoError(t, err)
	defer sub.Close()
	assert.Equal(t, int64(0), receive(t, sub).Data)

	atomic.StoreInt64(&version, 1)
	firstDone := make(chan struct{})
	go func() {
		hub.Notify("trainees")
		close(firstDone)
	}()
	<-started

	// A second write lands while the first refresh still holds its stale read.
	atomic.StoreInt64(&version, 2)
	secondDone := make(chan struct{})
	go func() {
		hub.Notify("trainees")
		close(secondDone)
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	<-firstDone
	<-secondDone

	assert.Equal(t, int64(2), receive(t, sub).Data)
	select {
	case snap := <-sub.C():
		t.Fatalf("unexpected extra snapshot %v", snap.Data)
	default:
	}
}

func TestWriteDuringInitialFetchReachesSubscriber(t *testing.T) {
	var version, calls int64
	notified := make(chan struct{})
	hub := NewHub()
	hub.Register("expiring", func(context.Context) (any, error) {
		v := atomic.LoadInt64(&version)
		if atomic.AddInt64(&calls, 1) == 1 {
			// Another request writes and notifies while this read is in flight.
			atomic.StoreInt64(&version, 1)
			go func() {
				hub.Notify("trainees")
				close(notified)
			}()
			time.Sleep(50 * time.Millisecond)
		}
		return v, nil
	}, "trainees")

	sub, err := hub.Subscribe(context.Background(), "expiring")
	require.NoError(t, err)
	defer sub.Close()
	<-notified

	assert.Equal(t, int64(1), receive(t, sub).Data)
}

func TestSubscribeFetchFailureUnregisters(t *testing.T) {
	hub := NewHub()
	hub.Register("broken", func(context.Context) (any, error) { return nil, errors.New("boom") }, "trainees")

	_, err := hub.Subscribe(context.Background(), "broken")
	require.Error(t, err)

	hub.mutex.RLock()
	defer hub.mutex.RUnlock()
	assert.Empty(t, hub.feeds["broken"].subs)
}
