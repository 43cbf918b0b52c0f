package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyticsconfig "github.com/weisyn/txlinker/internal/config/analytics"
	"github.com/weisyn/txlinker/pkg/types"
)

func TestProvider_Defaults(t *testing.T) {
	p := NewProvider(nil)

	assert.Equal(t, "txlinker", p.GetAppName())
	assert.NotEmpty(t, p.GetDataDir())
	assert.Equal(t, analyticsconfig.BackendBadger, p.GetAnalytics().GetBackend())
	assert.Equal(t, filepath.Join(p.GetDataDir(), "analytics"), p.GetAnalytics().GetStorePath())
	assert.Equal(t, 1.2, p.GetWallet().GetOptions().GasMultiplier)
	assert.Equal(t, "127.0.0.1:8088", p.GetAPI().Address())
	assert.Equal(t, 10*time.Second, p.GetAPI().GetOptions().SummaryTTL)

	url := p.GetChains().ResolveRPCURL(137)
	assert.Equal(t, "https://polygon-rpc.com", url)
}

func TestProvider_UserOverrides(t *testing.T) {
	p := NewProvider(&types.UserConfig{
		AppName: types.StringPtr("demo"),
		DataDir: types.StringPtr("/tmp/demo"),
		API: &types.UserAPIConfig{
			Port:       types.IntPtr(9000),
			SummaryTTL: types.StringPtr("0s"),
		},
		Chains: []types.UserChainConfig{
			{ID: 31337, Name: "Local", RPCURL: "http://127.0.0.1:8545"},
			{ID: 137, RPCURL: "https://polygon.example"},
		},
	})

	assert.Equal(t, "demo", p.GetAppName())
	assert.Equal(t, "/tmp/demo/analytics", p.GetAnalytics().GetStorePath())
	assert.Equal(t, 9000, p.GetAPI().GetOptions().Port)
	assert.Zero(t, p.GetAPI().GetOptions().SummaryTTL)

	reg := p.GetChains()
	assert.Equal(t, "http://127.0.0.1:8545", reg.ResolveRPCURL(31337))
	polygon, ok := reg.Lookup(137)
	require.True(t, ok)
	assert.Equal(t, "https://polygon.example", polygon.RPCURL)
	assert.Equal(t, "Polygon Mainnet", polygon.Name)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"log": {"level": "debug"},
		"analytics": {"backend": "memory", "queue_size": 8},
		"api": {"port": 9100}
	}`), 0o600))

	t.Setenv("TXLINK_ANALYTICS_BACKEND", "redis")
	t.Setenv("TXLINK_ANALYTICS_REDIS_ADDR", "redis:6379")
	t.Setenv("TXLINK_API_PORT", "9200")
	t.Setenv("TXLINK_WALLET_GAS_MULTIPLIER", "1.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Log)
	assert.Equal(t, "debug", *cfg.Log.Level)
	assert.Equal(t, "redis", *cfg.Analytics.Backend)
	assert.Equal(t, "redis:6379", *cfg.Analytics.RedisAddr)
	assert.Equal(t, 8, *cfg.Analytics.QueueSize)
	assert.Equal(t, 9200, *cfg.API.Port)
	assert.Equal(t, 1.5, *cfg.Wallet.GasMultiplier)

	p := NewProvider(cfg)
	assert.Equal(t, analyticsconfig.BackendRedis, p.GetAnalytics().GetBackend())
	assert.Equal(t, 1.5, p.GetWallet().GetOptions().GasMultiplier)
}

func TestLoad_MissingAndInvalid(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Log)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	t.Setenv("TXLINK_API_PORT", "not-a-number")
	err := ApplyEnv(&types.UserConfig{})
	assert.Error(t, err)
}

func TestResolvePath(t *testing.T) {
	t.Setenv(ConfigPathEnv, "/etc/txlink.json")
	assert.Equal(t, "/cli.json", ResolvePath("/cli.json"))
	assert.Equal(t, "/etc/txlink.json", ResolvePath(""))
}
