package models

import (
	"sync"
	"time"
)

const dayKeyLayout = "2006-01-02"

// DayKey renders the calendar-day string used for the daily reset window.
// Day comparison is a string equality, never a duration, so a mid-day
// restart cannot spuriously reset the window.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// Stats tracks distinct users and message counts, all-time and for the
// current calendar day, plus a per-day activity history for reporting.
type Stats struct {
	mu sync.Mutex

	allTimeUsers  map[int64]struct{}
	todayUsers    map[int64]struct{}
	allTimeCount  int64
	todayCount    int64
	startedAt     time.Time
	lastResetDay  string
	dailyActivity map[string]int64
}

// StatsSnapshot is the read-only reporting view.
type StatsSnapshot struct {
	TotalUsers    int       `json:"totalUsers"`
	TodayUsers    int       `json:"todayUsers"`
	TotalMessages int64     `json:"totalMessages"`
	TodayMessages int64     `json:"todayMessages"`
	StartedAt     time.Time `json:"startedAt"`
	LastResetDay  string    `json:"lastResetDay"`
	UptimeMillis  int64     `json:"uptimeMs"`
	UptimeSeconds int64     `json:"uptimeSeconds"`
	UptimeMinutes int64     `json:"uptimeMinutes"`
	UptimeHours   int64     `json:"uptimeHours"`
	UptimeDays    int64     `json:"uptimeDays"`
}

func NewStats(now time.Time) *Stats {
	return &Stats{
		allTimeUsers:  make(map[int64]struct{}),
		todayUsers:    make(map[int64]struct{}),
		startedAt:     now,
		lastResetDay:  DayKey(now),
		dailyActivity: make(map[string]int64),
	}
}

// rollLocked resets the today window when the calendar day changed.
// Returns true when a reset happened; callers persist in that case.
func (s *Stats) rollLocked(now time.Time) bool {
	day := DayKey(now)
	if day == s.lastResetDay {
		return false
	}
	s.todayUsers = make(map[int64]struct{})
	s.todayCount = 0
	s.lastResetDay = day
	return true
}

// RollDailyIfNeeded applies the daily reset. Returns true when state
// changed and should be persisted.
func (s *Stats) RollDailyIfNeeded(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rollLocked(now)
}

// RecordInteraction rolls the window first, so an interaction on the day
// boundary always counts toward the new day.
func (s *Stats) RecordInteraction(chatID int64, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollLocked(now)
	s.allTimeUsers[chatID] = struct{}{}
	s.todayUsers[chatID] = struct{}{}
	s.allTimeCount++
	s.todayCount++
	s.dailyActivity[DayKey(now)]++
}

func (s *Stats) Snapshot(now time.Time) StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollLocked(now)
	uptime := now.Sub(s.startedAt)
	return StatsSnapshot{
		TotalUsers:    len(s.allTimeUsers),
		TodayUsers:    len(s.todayUsers),
		TotalMessages: s.allTimeCount,
		TodayMessages: s.todayCount,
		StartedAt:     s.startedAt,
		LastResetDay:  s.lastResetDay,
		UptimeMillis:  uptime.Milliseconds(),
		UptimeSeconds: int64(uptime.Seconds()),
		UptimeMinutes: int64(uptime.Minutes()),
		UptimeHours:   int64(uptime.Hours()),
		UptimeDays:    int64(uptime.Hours() / 24),
	}
}

// DailyActivity returns the message count per day for the last n days
// ending at now, oldest first. Days without traffic report zero.
func (s *Stats) DailyActivity(now time.Time, n int) ([]string, []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	days := make([]string, 0, n)
	counts := make([]int64, 0, n)
	for i := n - 1; i >= 0; i-- {
		key := DayKey(now.AddDate(0, 0, -i))
		days = append(days, key)
		counts = append(counts, s.dailyActivity[key])
	}
	return days, counts
}

// Reset wipes everything, e.g. on clear-all.
func (s *Stats) Reset(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allTimeUsers = make(map[int64]struct{})
	s.todayUsers = make(map[int64]struct{})
	s.allTimeCount = 0
	s.todayCount = 0
	s.startedAt = now
	s.lastResetDay = DayKey(now)
	s.dailyActivity = make(map[string]int64)
}

// StatsDocument is the persisted JSON shape: user-id sets as plain
// arrays, dates as ISO-8601.
type StatsDocument struct {
	AllTimeUserIDs  []int64          `json:"allTimeUserIds"`
	AllTimeMessages int64            `json:"allTimeMessageCount"`
	TodayUserIDs    []int64          `json:"todayUserIds"`
	TodayMessages   int64            `json:"todayMessageCount"`
	StartedAt       time.Time        `json:"startedAt"`
	LastResetDay    string           `json:"lastResetDay"`
	DailyActivity   map[string]int64 `json:"dailyActivity,omitempty"`
}

func (s *Stats) Document() *StatsDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := &StatsDocument{
		AllTimeUserIDs:  setToSlice(s.allTimeUsers),
		AllTimeMessages: s.allTimeCount,
		TodayUserIDs:    setToSlice(s.todayUsers),
		TodayMessages:   s.todayCount,
		StartedAt:       s.startedAt,
		LastResetDay:    s.lastResetDay,
		DailyActivity:   make(map[string]int64, len(s.dailyActivity)),
	}
	for k, v := range s.dailyActivity {
		doc.DailyActivity[k] = v
	}
	return doc
}

// Restore replaces the in-memory state from a persisted document.
func (s *Stats) Restore(doc *StatsDocument, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allTimeUsers = sliceToSet(doc.AllTimeUserIDs)
	s.todayUsers = sliceToSet(doc.TodayUserIDs)
	s.allTimeCount = doc.AllTimeMessages
	s.todayCount = doc.TodayMessages
	s.startedAt = doc.StartedAt
	if s.startedAt.IsZero() {
		s.startedAt = now
	}
	s.lastResetDay = doc.LastResetDay
	if s.lastResetDay == "" {
		s.lastResetDay = DayKey(now)
	}
	s.dailyActivity = make(map[string]int64, len(doc.DailyActivity))
	for k, v := range doc.DailyActivity {
		s.dailyActivity[k] = v
	}
}

func setToSlice(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func sliceToSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
