package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/txlinker/client/core/analytics"
	apiconfig "github.com/weisyn/txlinker/internal/config/api"
	"github.com/weisyn/txlinker/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/txlinker/pkg/types"
)

func newTestServer(t *testing.T, user *types.UserAPIConfig) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	srv, err := NewServer(apiconfig.New(user), store, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })
	return srv, store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRecordEvent(t *testing.T) {
	srv, store := newTestServer(t, nil)

	w := do(t, srv.Handler(), http.MethodPost, "/api/analytics/event",
		`{"event":"transaction_success","data":{"chainId":137,"txHash":"0xabc"}}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)

	events, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, analytics.EventTransactionSuccess, events[0].Name)
	assert.Equal(t, resp.ID, events[0].ID)
	assert.Equal(t, "0xabc", events[0].Payload["txHash"])
}

func TestRecordEvent_KeepsClientTimestamp(t *testing.T) {
	srv, store := newTestServer(t, nil)
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	body := fmt.Sprintf(`{"event":"page_visit","timestamp":%q}`, ts.Format(time.RFC3339))
	w := do(t, srv.Handler(), http.MethodPost, "/api/analytics/pageload", body)
	require.Equal(t, http.StatusAccepted, w.Code)

	events, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, ts.Equal(events[0].Timestamp))
}

func TestRecordEvent_Rejections(t *testing.T) {
	srv, store := newTestServer(t, &types.UserAPIConfig{MaxBodyBytes: func() *int64 { v := int64(64); return &v }()})

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"empty name", "/api/analytics/event", `{"event":"  "}`, http.StatusBadRequest},
		{"missing name", "/api/analytics/event", `{"data":{}}`, http.StatusBadRequest},
		{"malformed", "/api/analytics/event", `{"event":`, http.StatusBadRequest},
		{"too large", "/api/analytics/event", `{"event":"x","data":{"k":"` + strings.Repeat("a", 100) + `"}}`, http.StatusRequestEntityTooLarge},
		{"not a page event", "/api/analytics/pageload", `{"event":"transaction_success"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv.Handler(), http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)

			var resp struct {
				Error struct {
					Code      string `json:"code"`
					RequestID string `json:"requestId"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}

	events, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSummary_CachedAndInvalidated(t *testing.T) {
	srv, _ := newTestServer(t, &types.UserAPIConfig{SummaryTTL: types.StringPtr("1m")})
	h := srv.Handler()

	for _, name := range []string{"transaction_execution_start", "transaction_execution_start", "transaction_success"} {
		require.Equal(t, http.StatusAccepted, do(t, h, http.MethodPost, "/api/analytics/event", `{"event":"`+name+`","data":{"chainId":1}}`).Code)
	}

	w := do(t, h, http.MethodGet, "/api/analytics/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "miss", w.Header().Get("X-Cache"))

	var s analytics.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, 2, s.TotalTransactions)
	assert.Equal(t, 1, s.Successful)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, []string{"1"}, s.ActiveChains)

	w = do(t, h, http.MethodGet, "/api/analytics/summary", "")
	assert.Equal(t, "hit", w.Header().Get("X-Cache"))

	// 新事件使缓存失效
	do(t, h, http.MethodPost, "/api/analytics/event", `{"event":"transaction_error"}`)
	w = do(t, h, http.MethodGet, "/api/analytics/summary", "")
	assert.Equal(t, "miss", w.Header().Get("X-Cache"))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 0, s.Pending)
}

func TestSummary_CacheDisabled(t *testing.T) {
	srv, _ := newTestServer(t, &types.UserAPIConfig{SummaryTTL: types.StringPtr("0s")})
	do(t, srv.Handler(), http.MethodGet, "/api/analytics/summary", "")
	w := do(t, srv.Handler(), http.MethodGet, "/api/analytics/summary", "")
	assert.Equal(t, "miss", w.Header().Get("X-Cache"))
}

type failingStore struct{ *memory.Store }

func (*failingStore) Append(context.Context, types.AnalyticsEvent) error {
	return errors.New("disk full")
}

func (*failingStore) Recent(context.Context, int) ([]types.AnalyticsEvent, error) {
	return nil, errors.New("disk full")
}

func TestStoreFailures(t *testing.T) {
	srv, err := NewServer(apiconfig.New(nil), &failingStore{Store: memory.New()}, nil)
	require.NoError(t, err)
	defer srv.Stop(context.Background())

	w := do(t, srv.Handler(), http.MethodPost, "/api/analytics/event", `{"event":"page_visit"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(t, srv.Handler(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	w := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	do(t, h, http.MethodPost, "/api/analytics/event", `{"event":"wallet_connected"}`)
	w = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "txlink_collector_requests_total")
	assert.Contains(t, body, `txlink_collector_events_accepted_total{event="wallet_connected"} 1`)
}

func TestRequestIDPropagated(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestServer_StartStop(t *testing.T) {
	srv, _ := newTestServer(t, &types.UserAPIConfig{Port: types.IntPtr(0)})
	// 端口 0 被配置忽略时回落默认端口，直接改写选项以使用随机端口
	srv.options.Port = 0
	require.NoError(t, srv.Start())
	assert.Error(t, srv.Start())

	addr := srv.Addr()
	require.NotEmpty(t, addr)

	resp, err := http.Post("http://"+addr+"/api/analytics/event", "application/json", bytes.NewBufferString(`{"event":"page_init"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.NoError(t, srv.Stop(context.Background()))
	_, open := <-srv.Done()
	assert.False(t, open)
}
