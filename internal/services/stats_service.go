package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"pagebot/internal/models"
	"pagebot/internal/providers"
)

const chartDays = 7

type StatsServiceInterface interface {
	RecordInteraction(chatID int64)
	Snapshot() models.StatsSnapshot
	DailyActivity(days int) ([]string, []int64)
	ActivityChartPNG() ([]byte, error)
	Reset()
}

type StatsService struct {
	state    *models.State
	store    StoreInterface
	recorder RecorderInterface
	logger   providers.Logger
}

func NewStatsService(state *models.State, store StoreInterface, recorder RecorderInterface, logger providers.Logger) StatsServiceInterface {
	return &StatsService{state: state, store: store, recorder: recorder, logger: logger}
}

// RecordInteraction counts one inbound chat event and persists. The save
// is awaited so interleaved interactions cannot race a partial write.
func (ss *StatsService) RecordInteraction(chatID int64) {
	ss.state.Stats.RecordInteraction(chatID, time.Now())
	if err := ss.store.Save(); err != nil {
		ss.logger.Errorf(providers.TypeApp, "Save after interaction failed: %s", err)
	}
}

// Snapshot rolls the daily window first so reports are never stale by
// more than the reset granularity.
func (ss *StatsService) Snapshot() models.StatsSnapshot {
	return ss.state.Stats.Snapshot(time.Now())
}

func (ss *StatsService) DailyActivity(days int) ([]string, []int64) {
	return ss.state.Stats.DailyActivity(time.Now(), days)
}

// ActivityChartPNG renders the last week of message counts as a PNG line
// chart for the admin panel.
func (ss *StatsService) ActivityChartPNG() ([]byte, error) {
	now := time.Now()
	_, counts := ss.state.Stats.DailyActivity(now, chartDays)

	dates := make([]time.Time, 0, chartDays)
	values := make([]float64, 0, chartDays)
	for i := chartDays - 1; i >= 0; i-- {
		dates = append(dates, now.AddDate(0, 0, -i))
	}
	for _, c := range counts {
		values = append(values, float64(c))
	}

	graph := chart.Chart{
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Messages",
				XValues: dates,
				YValues: values,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 4.0, DotColor: chart.ColorWhite, DotWidth: 3.0},
			},
		},
		XAxis:  chart.XAxis{Name: "Day", ValueFormatter: chart.TimeValueFormatterWithFormat("02 Jan")},
		YAxis:  chart.YAxis{Name: "Messages", ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.0f", v.(float64)) }},
		Height: 400,
		Width:  800,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (ss *StatsService) Reset() {
	ss.state.Stats.Reset(time.Now())
	if err := ss.store.Save(); err != nil {
		ss.logger.Errorf(providers.TypeApp, "Save after stats reset failed: %s", err)
	}
}
