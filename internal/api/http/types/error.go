// Package types 定义采集服务的响应结构
package types

// ErrorResponse 统一错误响应格式
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail 错误详情
type ErrorDetail struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
}

// 错误码
const (
	ErrInvalidArgument  = "INVALID_ARGUMENT"
	ErrPayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	ErrNotFound         = "NOT_FOUND"
	ErrInternal         = "INTERNAL"
	ErrStoreUnavailable = "STORE_UNAVAILABLE"
)

// NewErrorResponse 创建错误响应
func NewErrorResponse(code, message string, details interface{}) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// WithRequestID 添加请求ID
func (r *ErrorResponse) WithRequestID(requestID string) *ErrorResponse {
	r.Error.RequestID = requestID
	return r
}
