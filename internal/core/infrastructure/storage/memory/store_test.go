package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weisyn/txlinker/pkg/types"
)

func TestStoreOrdering(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Now()

	// 乱序追加
	require.NoError(t, s.Append(ctx, types.AnalyticsEvent{Name: "b", Timestamp: base.Add(2 * time.Second)}))
	require.NoError(t, s.Append(ctx, types.AnalyticsEvent{Name: "a", Timestamp: base.Add(time.Second)}))
	require.NoError(t, s.Append(ctx, types.AnalyticsEvent{Name: "c", Timestamp: base.Add(3 * time.Second)}))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].Name, all[1].Name, all[2].Name})
	assert.NotEmpty(t, all[0].ID)

	recent, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "c", recent[0].Name)
	assert.Equal(t, "a", recent[2].Name)
}

func TestAppendCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, New().Append(ctx, types.AnalyticsEvent{Name: "x"}))
}

func TestAppendSameIDOnce(t *testing.T) {
	s := New()
	ctx := context.Background()
	e := types.AnalyticsEvent{ID: "evt-1", Name: "page_visit", Timestamp: time.Now()}
	require.NoError(t, s.Append(ctx, e))
	require.NoError(t, s.Append(ctx, e))

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
