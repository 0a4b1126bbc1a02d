package source

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"zooo-feed/pkg/sharedTypes"
)

var fixtures = Static{
	{ID: "1", Title: "first", VideoURL: "https://cdn.example.com/1.mp4"},
	{ID: "2", Title: "second", VideoURL: "https://www.example.com/embed/2"},
}

func TestStaticReturnsCopy(t *testing.T) {
	got, err := fixtures.FetchAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []sharedTypes.VideoRecord(fixtures), got)

	got[0].Title = "changed"
	require.Equal(t, "first", fixtures[0].Title)
}

func TestRetryEventuallySucceeds(t *testing.T) {
	var calls int32
	flaky := Func(func(ctx context.Context) ([]sharedTypes.VideoRecord, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return nil, errors.New("connection reset")
		}
		return fixtures, nil
	})

	r := &Retry{Source: flaky, MaxElapsed: 5 * time.Second, InitialInterval: time.Millisecond}
	got, err := r.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestRetryGivesUp(t *testing.T) {
	down := Func(func(ctx context.Context) ([]sharedTypes.VideoRecord, error) {
		return nil, errors.New("db down")
	})

	r := &Retry{Source: down, MaxElapsed: 20 * time.Millisecond, InitialInterval: time.Millisecond}
	_, err := r.FetchAll(context.Background())
	require.ErrorContains(t, err, "db down")
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int32
	src := Func(func(ctx context.Context) ([]sharedTypes.VideoRecord, error) {
		atomic.AddInt32(&calls, 1)
		cancel()
		return nil, ctx.Err()
	})

	_, err := WithRetry(src, time.Minute, nil).FetchAll(ctx)
	require.Error(t, err)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestFetchOrEmpty(t *testing.T) {
	ctx := context.Background()

	require.Len(t, FetchOrEmpty(ctx, fixtures, nil), 2)

	failing := Func(func(context.Context) ([]sharedTypes.VideoRecord, error) {
		return nil, errors.New("boom")
	})
	got := FetchOrEmpty(ctx, failing, nil)
	require.NotNil(t, got)
	require.Empty(t, got)

	require.Empty(t, FetchOrEmpty(ctx, Static{}, nil))
	require.Empty(t, FetchOrEmpty(ctx, nil, nil))
}

func TestRefresherPublishesNewest(t *testing.T) {
	var n int32
	src := Func(func(context.Context) ([]sharedTypes.VideoRecord, error) {
		c := atomic.AddInt32(&n, 1)
		return []sharedTypes.VideoRecord{{ID: string(rune('0' + c))}}, nil
	})

	r, err := NewRefresher(src, "@every 1h", nil)
	require.NoError(t, err)

	r.Refresh(context.Background())
	r.Refresh(context.Background())

	got := <-r.Updates()
	require.Equal(t, "2", got[0].ID)

	select {
	case <-r.Updates():
		t.Fatal("only the newest snapshot is kept")
	default:
	}
}

func TestRefresherKeepsFeedOnFailure(t *testing.T) {
	src := Func(func(context.Context) ([]sharedTypes.VideoRecord, error) {
		return nil, errors.New("timeout")
	})
	r, err := NewRefresher(src, "*/5 * * * *", nil)
	require.NoError(t, err)

	r.Refresh(context.Background())
	r.Start()
	r.Stop()

	select {
	case <-r.Updates():
		t.Fatal("failed refresh must not publish")
	default:
	}
}

func TestRefresherRejectsBadSpec(t *testing.T) {
	_, err := NewRefresher(fixtures, "every now and then", nil)
	require.Error(t, err)
}
