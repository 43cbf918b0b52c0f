package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apitypes "github.com/weisyn/txlinker/internal/api/http/types"
	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/storage"
)

// HealthHandler 健康检查
type HealthHandler struct {
	store   storage.EventStore
	version string
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(store storage.EventStore, version string) *HealthHandler {
	return &HealthHandler{store: store, version: version}
}

// Health GET /health
// 以一次最近事件查询探测存储是否可用
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := apitypes.HealthResponse{Status: "ok", Store: "ok", Version: h.version}
	status := http.StatusOK
	if _, err := h.store.Recent(ctx, 1); err != nil {
		resp.Status = "degraded"
		resp.Store = err.Error()
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
