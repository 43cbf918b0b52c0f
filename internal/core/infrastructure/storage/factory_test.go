package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	analyticsconfig "github.com/weisyn/txlinker/internal/config/analytics"
	"github.com/weisyn/txlinker/pkg/types"
)

func strPtr(s string) *string { return &s }

func TestNewEventStore(t *testing.T) {
	ctx := context.Background()

	mem, err := NewEventStore(ctx, analyticsconfig.New(&types.UserAnalyticsConfig{Backend: strPtr("memory")}, ""), nil)
	require.NoError(t, err)
	require.NoError(t, mem.Append(ctx, types.AnalyticsEvent{Name: "page_visit"}))
	require.NoError(t, mem.Close())

	dir := t.TempDir()
	bdb, err := NewEventStore(ctx, analyticsconfig.New(&types.UserAnalyticsConfig{StorePath: strPtr(dir)}, ""), nil)
	require.NoError(t, err)
	require.NoError(t, bdb.Append(ctx, types.AnalyticsEvent{Name: "page_visit"}))
	events, err := bdb.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
	require.NoError(t, bdb.Close())

	_, err = NewEventStore(ctx, analyticsconfig.New(&types.UserAnalyticsConfig{Backend: strPtr("http")}, ""), nil)
	assert.Error(t, err)
}
