package analytics

import (
	"fmt"
	"sort"
	"time"
)

// RecentLimit 看板展示的最近事件条数
const RecentLimit = 10

// HourBucket 某个整点小时内的事件数
type HourBucket struct {
	Hour  time.Time `json:"hour"`
	Count int       `json:"count"`
}

// Summary 看板统计
type Summary struct {
	TotalEvents       int          `json:"totalEvents"`
	TotalTransactions int          `json:"totalTransactions"`
	Successful        int          `json:"successful"`
	Failed            int          `json:"failed"`
	Pending           int          `json:"pending"`
	SuccessRate       float64      `json:"successRate"` // 百分比，0-100
	PageVisits        int          `json:"pageVisits"`
	PageInits         int          `json:"pageInits"`
	WalletConnects    int          `json:"walletConnects"`
	HourlyActivity    []HourBucket `json:"hourlyActivity"`
	ActiveChains      []string     `json:"activeChains"`
	RecentEvents      []Event      `json:"recentEvents"`
}

// Summarize 汇总事件
//
// 交易总数按 transaction_execution_start 计；未完成的记为 pending。
// 成功率以已完成（成功+失败）为分母，没有已完成交易时为 0。
func Summarize(events []Event) Summary {
	s := Summary{TotalEvents: len(events)}
	hours := map[time.Time]int{}
	chains := map[string]bool{}

	for _, e := range events {
		switch e.Name {
		case EventTransactionExecutionStart:
			s.TotalTransactions++
		case EventTransactionSuccess:
			s.Successful++
		case EventTransactionError:
			s.Failed++
		case EventPageVisit:
			s.PageVisits++
		case EventPageInit:
			s.PageInits++
		case EventWalletConnected:
			s.WalletConnects++
		}

		if !e.Timestamp.IsZero() {
			hours[e.Timestamp.UTC().Truncate(time.Hour)]++
		}
		if id, ok := chainKey(e.Payload[KeyChainID]); ok {
			chains[id] = true
		}
	}

	if pending := s.TotalTransactions - s.Successful - s.Failed; pending > 0 {
		s.Pending = pending
	}
	if done := s.Successful + s.Failed; done > 0 {
		s.SuccessRate = float64(s.Successful) * 100 / float64(done)
	}

	s.HourlyActivity = make([]HourBucket, 0, len(hours))
	for h, n := range hours {
		s.HourlyActivity = append(s.HourlyActivity, HourBucket{Hour: h, Count: n})
	}
	sort.Slice(s.HourlyActivity, func(i, j int) bool {
		return s.HourlyActivity[i].Hour.Before(s.HourlyActivity[j].Hour)
	})

	s.ActiveChains = make([]string, 0, len(chains))
	for id := range chains {
		s.ActiveChains = append(s.ActiveChains, id)
	}
	sort.Strings(s.ActiveChains)

	s.RecentEvents = recent(events, RecentLimit)
	return s
}

// recent 最新的在前
func recent(events []Event, n int) []Event {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// chainKey 载荷中的 chainId 可能是数字（JSON 解码为 float64）或字符串
func chainKey(v interface{}) (string, bool) {
	switch id := v.(type) {
	case nil:
		return "", false
	case string:
		return id, id != ""
	case float64:
		return fmt.Sprintf("%.0f", id), true
	case uint64:
		return fmt.Sprintf("%d", id), true
	case int:
		return fmt.Sprintf("%d", id), true
	case int64:
		return fmt.Sprintf("%d", id), true
	default:
		return fmt.Sprint(id), true
	}
}
