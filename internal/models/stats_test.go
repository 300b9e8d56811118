package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var statsDay1 = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestStats_RecordInteraction(t *testing.T) {
	s := NewStats(statsDay1)
	s.RecordInteraction(100, statsDay1)
	s.RecordInteraction(100, statsDay1.Add(time.Minute))
	s.RecordInteraction(200, statsDay1.Add(2*time.Minute))

	snap := s.Snapshot(statsDay1.Add(3 * time.Minute))
	assert.Equal(t, 2, snap.TotalUsers)
	assert.Equal(t, 2, snap.TodayUsers)
	assert.Equal(t, int64(3), snap.TotalMessages)
	assert.Equal(t, int64(3), snap.TodayMessages)
}

func TestStats_DailyRollResetsTodayOnly(t *testing.T) {
	s := NewStats(statsDay1)
	s.RecordInteraction(100, statsDay1)
	s.RecordInteraction(200, statsDay1)

	nextDay := statsDay1.AddDate(0, 0, 1)
	changed := s.RollDailyIfNeeded(nextDay)
	assert.True(t, changed)

	snap := s.Snapshot(nextDay)
	assert.Equal(t, 2, snap.TotalUsers)
	assert.Equal(t, 0, snap.TodayUsers)
	assert.Equal(t, int64(2), snap.TotalMessages)
	assert.Equal(t, int64(0), snap.TodayMessages)
	assert.Equal(t, DayKey(nextDay), snap.LastResetDay)
}

func TestStats_RollSameDayNoop(t *testing.T) {
	s := NewStats(statsDay1)
	assert.False(t, s.RollDailyIfNeeded(statsDay1.Add(5*time.Hour)))
}

func TestStats_InteractionOnBoundaryCountsOnce(t *testing.T) {
	s := NewStats(statsDay1)
	s.RecordInteraction(100, statsDay1)

	// First event of the next day rolls the window, then records.
	nextDay := statsDay1.AddDate(0, 0, 1)
	s.RecordInteraction(100, nextDay)

	snap := s.Snapshot(nextDay)
	assert.Equal(t, 1, snap.TodayUsers)
	assert.Equal(t, int64(1), snap.TodayMessages)
	assert.Equal(t, int64(2), snap.TotalMessages)
}

func TestStats_MidDayRestartKeepsWindow(t *testing.T) {
	s := NewStats(statsDay1)
	s.RecordInteraction(100, statsDay1)
	doc := s.Document()

	// Restart 10 hours later, same calendar day.
	restart := statsDay1.Add(10 * time.Hour)
	restored := NewStats(restart)
	restored.Restore(doc, restart)

	assert.False(t, restored.RollDailyIfNeeded(restart))
	snap := restored.Snapshot(restart)
	assert.Equal(t, 1, snap.TodayUsers)
}

func TestStats_SnapshotUptimeUnits(t *testing.T) {
	s := NewStats(statsDay1)
	now := statsDay1.Add(26*time.Hour + 30*time.Minute)
	snap := s.Snapshot(now)

	assert.Equal(t, int64(26*3600+1800)*1000, snap.UptimeMillis)
	assert.Equal(t, int64(26*3600+1800), snap.UptimeSeconds)
	assert.Equal(t, int64(26*60+30), snap.UptimeMinutes)
	assert.Equal(t, int64(26), snap.UptimeHours)
	assert.Equal(t, int64(1), snap.UptimeDays)
}

func TestStats_DailyActivityOldestFirst(t *testing.T) {
	s := NewStats(statsDay1)
	s.RecordInteraction(1, statsDay1)
	s.RecordInteraction(2, statsDay1)
	day2 := statsDay1.AddDate(0, 0, 1)
	s.RecordInteraction(1, day2)

	days, counts := s.DailyActivity(day2, 3)
	require.Len(t, days, 3)
	require.Len(t, counts, 3)
	assert.Equal(t, DayKey(statsDay1.AddDate(0, 0, -1)), days[0])
	assert.Equal(t, []int64{0, 2, 1}, counts)
}

func TestStats_Reset(t *testing.T) {
	s := NewStats(statsDay1)
	s.RecordInteraction(1, statsDay1)
	later := statsDay1.Add(time.Hour)
	s.Reset(later)

	snap := s.Snapshot(later)
	assert.Equal(t, 0, snap.TotalUsers)
	assert.Equal(t, int64(0), snap.TotalMessages)
	assert.Equal(t, later, snap.StartedAt)
}

func TestStats_DocumentRestoreRoundTrip(t *testing.T) {
	s := NewStats(statsDay1)
	s.RecordInteraction(7, statsDay1)
	s.RecordInteraction(8, statsDay1)
	s.RecordInteraction(7, statsDay1)

	doc := s.Document()
	assert.ElementsMatch(t, []int64{7, 8}, doc.AllTimeUserIDs)
	assert.Equal(t, int64(3), doc.AllTimeMessages)

	restored := NewStats(statsDay1)
	restored.Restore(doc, statsDay1)
	snap := restored.Snapshot(statsDay1)
	assert.Equal(t, 2, snap.TotalUsers)
	assert.Equal(t, 2, snap.TodayUsers)
	assert.Equal(t, int64(3), snap.TotalMessages)
	assert.Equal(t, int64(3), snap.TodayMessages)
}

func TestStats_RestoreZeroFieldsDefault(t *testing.T) {
	now := statsDay1
	s := NewStats(now)
	s.Restore(&StatsDocument{}, now)

	snap := s.Snapshot(now)
	assert.Equal(t, now, snap.StartedAt)
	assert.Equal(t, DayKey(now), snap.LastResetDay)
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "2024-03-10", DayKey(statsDay1))
	assert.Equal(t, "2024-03-11", DayKey(statsDay1.Add(13*time.Hour)))
}
