package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/txlinker/client/core/analytics"
	configiface "github.com/weisyn/txlinker/pkg/interfaces/config"
	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/txlinker/pkg/types"
)

func TestStart_WiresInfrastructure(t *testing.T) {
	var (
		store    storage.EventStore
		provider configiface.Provider
	)
	cfg := &types.UserConfig{
		DataDir:   types.StringPtr(t.TempDir()),
		Log:       &types.UserLogConfig{Level: types.StringPtr("error"), ToConsole: types.BoolPtr(false)},
		Analytics: &types.UserAnalyticsConfig{Backend: types.StringPtr("memory")},
	}

	a, err := Start(
		WithUserConfig(cfg),
		WithoutAPI(),
		WithInvoke(func(s storage.EventStore, p configiface.Provider) {
			store, provider = s, p
		}),
	)
	require.NoError(t, err)
	defer a.Stop()

	require.NotNil(t, store)
	assert.Equal(t, "memory", provider.GetAnalytics().GetBackend())

	ctx := context.Background()
	require.NoError(t, store.Append(ctx, analytics.NewEvent(analytics.EventPageVisit, nil)))
	events, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestStart_UnknownBackendFails(t *testing.T) {
	cfg := &types.UserConfig{
		Log:       &types.UserLogConfig{ToConsole: types.BoolPtr(false)},
		Analytics: &types.UserAnalyticsConfig{Backend: types.StringPtr("carrier-pigeon")},
	}
	_, err := Start(WithUserConfig(cfg), WithoutAPI(), WithInvoke(func(storage.EventStore) {}))
	assert.Error(t, err)
}
