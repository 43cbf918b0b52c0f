// Package handlers 实现采集服务的路由处理函数
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/weisyn/txlinker/client/core/analytics"
	"github.com/weisyn/txlinker/internal/api/http/middleware"
	apitypes "github.com/weisyn/txlinker/internal/api/http/types"
	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/storage"
)

// eventRequest 采集请求体，字段与客户端 HTTP 后端发送的一致
// id 由客户端生成，重试投递时保持不变，存储据此去重
type eventRequest struct {
	ID        string                 `json:"id"`
	Event     string                 `json:"event"`
	Data      map[string]interface{} `json:"data"`
	Timestamp *time.Time             `json:"timestamp"`
}

// AnalyticsHandler 事件采集与汇总
type AnalyticsHandler struct {
	store   storage.EventStore
	cache   *summaryCache
	metrics *middleware.Metrics
	logger  log.Logger
	maxBody int64
	now     func() time.Time
}

// NewAnalyticsHandler 创建处理器；summaryTTL 为 0 时每次请求都重新汇总
func NewAnalyticsHandler(store storage.EventStore, metrics *middleware.Metrics, logger log.Logger, summaryTTL time.Duration, maxBody int64) (*AnalyticsHandler, error) {
	cache, err := newSummaryCache(summaryTTL)
	if err != nil {
		return nil, err
	}
	return &AnalyticsHandler{
		store:   store,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		maxBody: maxBody,
		now:     time.Now,
	}, nil
}

// RecordEvent POST /api/analytics/event
func (h *AnalyticsHandler) RecordEvent(c *gin.Context) {
	h.record(c, false)
}

// RecordPageLoad POST /api/analytics/pageload
// 只接受页面类事件（page_visit、page_init）
func (h *AnalyticsHandler) RecordPageLoad(c *gin.Context) {
	h.record(c, true)
}

func (h *AnalyticsHandler) record(c *gin.Context, pageLoad bool) {
	var req eventRequest
	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteError(c, http.StatusRequestEntityTooLarge, apitypes.ErrPayloadTooLarge, "request body too large", nil)
			return
		}
		middleware.WriteError(c, http.StatusBadRequest, apitypes.ErrInvalidArgument, "invalid JSON body", err.Error())
		return
	}

	name := strings.TrimSpace(req.Event)
	if name == "" {
		middleware.WriteError(c, http.StatusBadRequest, apitypes.ErrInvalidArgument, "event name is required", nil)
		return
	}
	if pageLoad && !analytics.IsPageLoad(name) {
		middleware.WriteError(c, http.StatusBadRequest, apitypes.ErrInvalidArgument, "not a page load event", name)
		return
	}

	event := analytics.NewEvent(name, req.Data)
	if id := strings.TrimSpace(req.ID); id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			middleware.WriteError(c, http.StatusBadRequest, apitypes.ErrInvalidArgument, "id must be a UUID", id)
			return
		}
		event.ID = parsed.String()
	}
	if req.Timestamp != nil && !req.Timestamp.IsZero() {
		event.Timestamp = req.Timestamp.UTC()
	}
	if err := h.store.Append(c.Request.Context(), event); err != nil {
		h.logger.Errorf("persist analytics event %s: %v", name, err)
		middleware.WriteError(c, http.StatusServiceUnavailable, apitypes.ErrStoreUnavailable, "event store unavailable", nil)
		return
	}
	h.cache.invalidate()
	if h.metrics != nil {
		h.metrics.EventAccepted(name)
	}

	c.JSON(http.StatusAccepted, apitypes.AcceptedResponse{ID: event.ID, RequestID: middleware.GetRequestID(c)})
}

// Summary GET /api/analytics/summary
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	if body, ok := h.cache.get(); ok {
		c.Header("X-Cache", "hit")
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
		return
	}

	gen := h.cache.generation()
	events, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Errorf("list analytics events: %v", err)
		middleware.WriteError(c, http.StatusServiceUnavailable, apitypes.ErrStoreUnavailable, "event store unavailable", nil)
		return
	}
	body, err := json.Marshal(analytics.Summarize(events))
	if err != nil {
		middleware.WriteError(c, http.StatusInternalServerError, apitypes.ErrInternal, "encode summary", nil)
		return
	}
	h.cache.set(gen, body)
	c.Header("X-Cache", "miss")
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Close 释放缓存
func (h *AnalyticsHandler) Close() error {
	return h.cache.close()
}
