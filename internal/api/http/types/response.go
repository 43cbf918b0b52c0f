package types

// AcceptedResponse 事件已接收
type AcceptedResponse struct {
	ID        string `json:"id"`
	RequestID string `json:"requestId,omitempty"`
}

// HealthResponse 健康检查结果
type HealthResponse struct {
	Status  string `json:"status"`
	Store   string `json:"store"`
	Version string `json:"version,omitempty"`
}
