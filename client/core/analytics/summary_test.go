package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

	events := []Event{
		{Name: EventPageVisit, Timestamp: at(0), Payload: map[string]interface{}{KeyChainID: float64(137)}},
		{Name: EventPageInit, Timestamp: at(1), Payload: map[string]interface{}{KeyChainID: float64(137)}},
		{Name: EventWalletConnected, Timestamp: at(2)},
		{Name: EventTransactionExecutionStart, Timestamp: at(3)},
		{Name: EventTransactionSuccess, Timestamp: at(4), Payload: map[string]interface{}{KeyChainID: "137"}},
		{Name: EventTransactionExecutionStart, Timestamp: at(50)},
		{Name: EventTransactionError, Timestamp: at(51), Payload: map[string]interface{}{KeyChainID: uint64(1)}},
		{Name: EventTransactionExecutionStart, Timestamp: at(52)},
		{Name: EventPageVisit, Timestamp: at(70), Payload: map[string]interface{}{KeyChainID: float64(80001)}},
	}

	s := Summarize(events)
	assert.Equal(t, 9, s.TotalEvents)
	assert.Equal(t, 3, s.TotalTransactions)
	assert.Equal(t, 1, s.Successful)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Pending)
	assert.InDelta(t, 50.0, s.SuccessRate, 0.001)
	assert.Equal(t, 2, s.PageVisits)
	assert.Equal(t, 1, s.PageInits)
	assert.Equal(t, 1, s.WalletConnects)
	assert.Equal(t, []string{"1", "137", "80001"}, s.ActiveChains)

	require.Len(t, s.HourlyActivity, 2)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), s.HourlyActivity[0].Hour)
	assert.Equal(t, 5, s.HourlyActivity[0].Count)
	assert.Equal(t, 4, s.HourlyActivity[1].Count)

	require.Len(t, s.RecentEvents, 9)
	assert.Equal(t, EventPageVisit, s.RecentEvents[0].Name)
	assert.Equal(t, at(70), s.RecentEvents[0].Timestamp)
}

func TestSummarizeEmptyAndRecentLimit(t *testing.T) {
	empty := Summarize(nil)
	assert.Zero(t, empty.SuccessRate)
	assert.Zero(t, empty.TotalEvents)
	assert.Empty(t, empty.RecentEvents)
	assert.NotNil(t, empty.ActiveChains)

	var events []Event
	base := time.Now()
	for i := 0; i < 25; i++ {
		events = append(events, Event{Name: fmt.Sprintf("e%d", i), Timestamp: base.Add(time.Duration(i) * time.Second)})
	}
	s := Summarize(events)
	require.Len(t, s.RecentEvents, RecentLimit)
	assert.Equal(t, "e24", s.RecentEvents[0].Name)
	assert.Equal(t, "e15", s.RecentEvents[9].Name)
}
