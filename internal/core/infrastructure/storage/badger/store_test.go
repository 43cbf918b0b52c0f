package badger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weisyn/txlinker/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	for i := 0; i < 5; i++ {
		err := store.Append(ctx, types.AnalyticsEvent{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Name:      fmt.Sprintf("event_%d", i),
			Payload:   map[string]interface{}{"chainId": float64(137)},
		})
		require.NoError(t, err)
	}

	events, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 5)
	for i, e := range events {
		assert.Equal(t, fmt.Sprintf("event_%d", i), e.Name)
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, float64(137), e.Payload["chainId"])
	}

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "event_4", recent[0].Name)
	assert.Equal(t, "event_3", recent[1].Name)

	none, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestConcurrentAppendsDoNotCollide(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ts := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// 相同时间戳，只靠 ID 区分
			assert.NoError(t, store.Append(ctx, types.AnalyticsEvent{Timestamp: ts, Name: "page_visit"}))
		}(i)
	}
	wg.Wait()

	events, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 50)
}

func TestAppendAfterClose(t *testing.T) {
	store, err := Open("", nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	err = store.Append(context.Background(), types.AnalyticsEvent{Name: "x"})
	assert.Error(t, err)
}

func TestPersistentStoreReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir, nil)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, types.AnalyticsEvent{Name: "transaction_success"}))
	require.NoError(t, store.Close())

	reopened, err := Open(dir, nil)
	require.NoError(t, err)
	defer reopened.Close()

	events, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "transaction_success", events[0].Name)
}

func TestRedeliveredEventStoredOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	e := types.AnalyticsEvent{
		ID:        "3f1c6f0e-2b6a-4a53-9c1e-5d7e2c9a8b10",
		Name:      "wallet_connected",
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, store.Append(ctx, e))
	require.NoError(t, store.Append(ctx, e))

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
