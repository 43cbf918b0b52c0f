// Package analytics 记录交易页面的使用事件
//
// 记录是尽力而为的：Record 从不阻塞调用方，也从不返回错误。
// 事件经过缓冲队列由单个投递协程写入后端（本地存储、redis 或采集服务）。
package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/weisyn/txlinker/pkg/types"
)

// 事件名称
const (
	EventPageVisit                 = "page_visit"
	EventPageInit                  = "page_init"
	EventPageInitError             = "page_init_error"
	EventWalletConnected           = "wallet_connected"
	EventWalletConnectError        = "wallet_connect_error"
	EventTransactionExecutionStart = "transaction_execution_start"
	EventTransactionSuccess        = "transaction_success"
	EventTransactionError          = "transaction_error"
)

// 载荷字段
const (
	KeyChainID         = "chainId"
	KeyContractAddress = "contractAddress"
	KeyFunctionName    = "functionName"
	KeyAddress         = "address"
	KeyTxHash          = "txHash"
	KeyError           = "error"
	KeyReason          = "reason"
)

// Event 分析事件
type Event = types.AnalyticsEvent

// NewEvent 生成带 ID 和时间戳的事件，载荷做浅拷贝
func NewEvent(name string, payload map[string]interface{}) Event {
	var data map[string]interface{}
	if len(payload) > 0 {
		data = make(map[string]interface{}, len(payload))
		for k, v := range payload {
			data[k] = v
		}
	}
	return Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Name:      name,
		Payload:   data,
	}
}

// IsPageLoad 页面加载类事件走采集服务的 pageload 路由
func IsPageLoad(name string) bool {
	return name == EventPageVisit || name == EventPageInit
}
