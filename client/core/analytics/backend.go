package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/storage"
)

// 采集服务路由
const (
	PathEvent    = "/api/analytics/event"
	PathPageLoad = "/api/analytics/pageload"
	PathSummary  = "/api/analytics/summary"
)

// StoreBackend 写入事件存储
type StoreBackend struct {
	Store storage.EventStore
}

// Deliver 实现 Backend
func (b StoreBackend) Deliver(ctx context.Context, event Event) error {
	return b.Store.Append(ctx, event)
}

// HTTPBackend 转发到采集服务
type HTTPBackend struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPBackend 创建 HTTP 转发后端，baseURL 形如 https://collector.example.com
func NewHTTPBackend(baseURL string, timeout time.Duration) *HTTPBackend {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Deliver 页面加载事件发往 pageload 路由，其余发往 event 路由
func (b *HTTPBackend) Deliver(ctx context.Context, event Event) error {
	path := PathEvent
	if IsPageLoad(event.Name) {
		path = PathPageLoad
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// FetchSummary 读取采集服务汇总的看板统计
func (b *HTTPBackend) FetchSummary(ctx context.Context) (Summary, error) {
	var summary Summary
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+PathSummary, nil)
	if err != nil {
		return summary, fmt.Errorf("create request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return summary, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return summary, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return summary, fmt.Errorf("decode summary: %w", err)
	}
	return summary, nil
}

// MultiBackend 依次投递到多个后端，返回第一个错误但不中断其余后端
type MultiBackend []Backend

// Deliver 实现 Backend
func (m MultiBackend) Deliver(ctx context.Context, event Event) error {
	var first error
	for _, b := range m {
		if err := b.Deliver(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
