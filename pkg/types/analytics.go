package types

import "time"

// AnalyticsEvent 一条分析事件记录，写入后不再修改
// JSON 字段名与网页版保持一致：{timestamp, event, data}
type AnalyticsEvent struct {
	ID        string                 `json:"id,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Name      string                 `json:"event"`
	Payload   map[string]interface{} `json:"data,omitempty"`
}
