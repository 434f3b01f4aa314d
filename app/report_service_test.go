package app

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tally/domain/core"
	"tally/internal"
	"tally/internal/errors"
)

const counterA = core.CounterID("0190a7b2-1c3d-7e4f-8a9b-0c1d2e3f4a5b")

// MockEventSource is a mock implementation of ports.EventSource
type MockEventSource struct {
	mock.Mock
}

func (m *MockEventSource) ListEvents(ctx context.Context, counterID core.CounterID) ([]core.Event, error) {
	args := m.Called(ctx, counterID)
	if events := args.Get(0); events != nil {
		return events.([]core.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func sampleEvents() []core.Event {
	return []core.Event{
		{OccurredAt: at(2024, 3, 1, 10), Value: 1},
		{OccurredAt: at(2024, 3, 5, 22), Value: 1},
		{OccurredAt: at(2024, 2, 12, 7), Value: -3},
		{OccurredAt: at(2024, 2, 13, 7), Value: 5},
	}
}

func newService(source *MockEventSource, now time.Time) *ReportService {
	return NewReportService(source, core.FixedClock(now), time.UTC, internal.NewLogger(internal.LogLevelError))
}

func TestReportService_View(t *testing.T) {
	source := &MockEventSource{}
	source.On("ListEvents", mock.Anything, counterA).Return(sampleEvents(), nil)

	service := newService(source, at(2024, 3, 20, 12))
	view, err := service.View(context.Background(), counterA, core.GranularityMonth)
	require.NoError(t, err)

	require.Len(t, view.Cumulative, 2)
	march := view.Cumulative[0]
	assert.Equal(t, "2024-03", march.Key)
	assert.Equal(t, int64(2), march.Total)
	assert.Equal(t, 20, march.ElapsedDays)
	assert.Equal(t, 0.1, march.Average)
	assert.Equal(t, int64(4), view.Cumulative[1].CumulativeTotal)

	source.AssertExpectations(t)
}

func TestReportService_ViewUnknownGranularity(t *testing.T) {
	source := &MockEventSource{}
	source.On("ListEvents", mock.Anything, counterA).Return(sampleEvents(), nil)

	_, err := newService(source, at(2024, 3, 20, 12)).View(context.Background(), counterA, core.Granularity("fortnight"))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.True(t, stderrors.Is(err, core.ErrUnknownGranularity))
}

func TestReportService_SourceFailure(t *testing.T) {
	source := &MockEventSource{}
	boom := errors.DatabaseError("connection refused", stderrors.New("dial tcp"))
	source.On("ListEvents", mock.Anything, counterA).Return(nil, boom)

	service := newService(source, at(2024, 3, 20, 12))

	_, err := service.View(context.Background(), counterA, core.GranularityDay)
	require.Error(t, err)
	assert.Equal(t, errors.CodeDatabaseError, errors.GetCode(err))

	_, err = service.Dashboard(context.Background(), counterA)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestReportService_Summary(t *testing.T) {
	source := &MockEventSource{}
	source.On("ListEvents", mock.Anything, counterA).Return(sampleEvents(), nil)

	summary, err := newService(source, at(2024, 3, 20, 12)).Summary(context.Background(), counterA)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Events)
	assert.Equal(t, int64(4), summary.Total)
	assert.True(t, summary.FirstAt.Equal(at(2024, 2, 12, 7)))
	assert.True(t, summary.LastAt.Equal(at(2024, 3, 5, 22)))
}

func TestReportService_Feed(t *testing.T) {
	source := &MockEventSource{}
	source.On("ListEvents", mock.Anything, counterA).Return(sampleEvents(), nil)

	feed, err := newService(source, at(2024, 3, 20, 12)).Feed(context.Background(), counterA)
	require.NoError(t, err)
	require.Len(t, feed, 4)
	assert.Equal(t, "2024-03-05", feed[0].Date)
	assert.Equal(t, "2024-02-12", feed[3].Date)
}

func TestReportService_Dashboard(t *testing.T) {
	source := &MockEventSource{}
	source.On("ListEvents", mock.Anything, counterA).Return(sampleEvents(), nil).Once()

	now := at(2024, 3, 20, 12)
	dashboard, err := newService(source, now).Dashboard(context.Background(), counterA)
	require.NoError(t, err)

	assert.Equal(t, counterA, dashboard.CounterID)
	assert.Equal(t, now, dashboard.GeneratedAt)
	require.Len(t, dashboard.Views, len(core.Granularities))
	for i, g := range core.Granularities {
		view := dashboard.Views[i]
		assert.Equal(t, g, view.Granularity)

		var sum int64
		for _, total := range view.Totals() {
			sum += total
		}
		assert.Equal(t, int64(4), sum, "granularity %s", g)
	}
	assert.Equal(t, int64(4), dashboard.Summary.Total)

	// one fetch serves every view
	source.AssertNumberOfCalls(t, "ListEvents", 1)
}

func TestReportService_DashboardEmptyCounter(t *testing.T) {
	source := &MockEventSource{}
	source.On("ListEvents", mock.Anything, counterA).Return([]core.Event{}, nil)

	dashboard, err := newService(source, at(2024, 3, 20, 12)).Dashboard(context.Background(), counterA)
	require.NoError(t, err)

	for _, view := range dashboard.Views {
		if view.Granularity == core.GranularityHour {
			assert.Len(t, view.Buckets, 24)
			continue
		}
		assert.Empty(t, view.Totals(), "granularity %s", view.Granularity)
	}
	assert.Equal(t, int64(0), dashboard.Summary.Total)
}
