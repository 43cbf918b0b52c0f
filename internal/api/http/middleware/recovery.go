package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apitypes "github.com/weisyn/txlinker/internal/api/http/types"
	infralog "github.com/weisyn/txlinker/pkg/interfaces/infrastructure/log"
)

// Recovery 捕获处理函数中的 panic，返回统一错误格式
func Recovery(logger infralog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Errorf("panic recovered path=%s request_id=%s: %v", c.Request.URL.Path, GetRequestID(c), recovered)
		WriteError(c, http.StatusInternalServerError, apitypes.ErrInternal, "internal server error", nil)
	})
}

// WriteError 写入错误响应并中止处理链
func WriteError(c *gin.Context, status int, code, message string, details interface{}) {
	resp := apitypes.NewErrorResponse(code, message, details).WithRequestID(GetRequestID(c))
	c.AbortWithStatusJSON(status, resp)
}
