package eldlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draymaster/hos-planner-service/internal/domain"
)

func TestGenerateEmptyStops(t *testing.T) {
	assert.Nil(t, Generate(nil))
}

func TestGenerateSingleDayCoversFullTimeline(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	stops := []domain.Stop{
		{
			ID: 1, Type: domain.StopStart, Location: "Origin",
			ArrivalTime: day.Add(6 * time.Hour), DepartureTime: day.Add(6*time.Hour + 30*time.Minute),
			DutyStatus: domain.DutyOnDuty, CumulativeMiles: 0,
		},
		{
			ID: 2, Type: domain.StopDropoff, Location: "Destination",
			ArrivalTime: day.Add(10 * time.Hour), DepartureTime: day.Add(11 * time.Hour),
			DutyStatus: domain.DutyOnDuty, CumulativeMiles: 200,
		},
	}

	sheets := Generate(stops)

	require.Len(t, sheets, 1)
	sheet := sheets[0]
	require.NotEmpty(t, sheet.Segments)
	assert.Equal(t, 0.0, sheet.Segments[0].StartHour)
	assert.Equal(t, 24.0, sheet.Segments[len(sheet.Segments)-1].EndHour)
}

func TestGenerateSpansMultipleCalendarDays(t *testing.T) {
	day1 := time.Date(2026, 1, 5, 6, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 1, 6, 8, 0, 0, 0, time.UTC)
	stops := []domain.Stop{
		{ID: 1, Type: domain.StopStart, ArrivalTime: day1, DepartureTime: day1.Add(30 * time.Minute), DutyStatus: domain.DutyOnDuty},
		{ID: 2, Type: domain.StopRest, ArrivalTime: day1.Add(12 * time.Hour), DepartureTime: day1.Add(22 * time.Hour), DutyStatus: domain.DutyOffDuty},
		{ID: 3, Type: domain.StopEnd, ArrivalTime: day2, DepartureTime: day2.Add(15 * time.Minute), DutyStatus: domain.DutyOnDuty},
	}

	sheets := Generate(stops)

	require.Len(t, sheets, 2)
	assert.Equal(t, 1, sheets[0].DayNumber)
	assert.Equal(t, 2, sheets[1].DayNumber)
	for _, sheet := range sheets {
		require.NotEmpty(t, sheet.Segments)
		assert.Equal(t, 0.0, sheet.Segments[0].StartHour)
		assert.Equal(t, 24.0, sheet.Segments[len(sheet.Segments)-1].EndHour)
	}
}

func TestStatusAtTimeDayOneDefaultsToOffDuty(t *testing.T) {
	status, location := statusAtTime(time.Now(), nil, 1)
	assert.Equal(t, domain.DutyOffDuty, status)
	assert.Equal(t, "", location)
}

func TestStatusAtTimeDayTwoDefaultsToOffDutyWhenNoPriorEvent(t *testing.T) {
	future := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
	events := []event{
		{Time: future.Add(time.Hour), Status: domain.DutyDriving},
	}

	status, location := statusAtTime(future, events, 2)

	assert.Equal(t, domain.DutyOffDuty, status)
	assert.Equal(t, "", location)
}

func TestStatusAtTimeDayTwoUsesMostRecentPriorEvent(t *testing.T) {
	base := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
	events := []event{
		{Time: base.Add(-2 * time.Hour), Status: domain.DutyOffDuty, Location: "A"},
		{Time: base.Add(-1 * time.Hour), Status: domain.DutyDriving, Location: "B"},
	}

	status, location := statusAtTime(base, events, 2)

	assert.Equal(t, domain.DutyDriving, status)
	assert.Equal(t, "B", location)
}

func TestCalculateTotalsSumsToTwentyFourHours(t *testing.T) {
	segments := []domain.DutySegment{
		{Status: domain.DutyOffDuty, StartHour: 0, EndHour: 6},
		{Status: domain.DutyDriving, StartHour: 6, EndHour: 14},
		{Status: domain.DutyOnDuty, StartHour: 14, EndHour: 15},
		{Status: domain.DutyOffDuty, StartHour: 15, EndHour: 24},
	}

	totals := calculateTotals(segments)

	sum := totals.OffDuty + totals.Sleeper + totals.Driving + totals.OnDuty
	assert.InDelta(t, 24.0, sum, 0.01)
}

func TestAdjustLargestBucketAbsorbsDrift(t *testing.T) {
	totals := domain.DutyTotals{OffDuty: 10, Driving: 13.6}
	adjustLargestBucket(&totals, 0.4)

	assert.Equal(t, 14.0, totals.Driving)
}

func TestMergeSegmentsCombinesAdjacentSameStatus(t *testing.T) {
	segments := []domain.DutySegment{
		{Status: domain.DutyOffDuty, StartHour: 0, EndHour: 4},
		{Status: domain.DutyOffDuty, StartHour: 4, EndHour: 8},
		{Status: domain.DutyDriving, StartHour: 8, EndHour: 10},
	}

	merged := mergeSegments(segments)

	require.Len(t, merged, 2)
	assert.Equal(t, 0.0, merged[0].StartHour)
	assert.Equal(t, 8.0, merged[0].EndHour)
}

func TestNormalizeSegmentsClampsToFullDay(t *testing.T) {
	segments := []domain.DutySegment{
		{Status: domain.DutyDriving, StartHour: 1, EndHour: 20},
	}

	normalized := normalizeSegments(segments)

	require.NotEmpty(t, normalized)
	assert.Equal(t, 0.0, normalized[0].StartHour)
	assert.Equal(t, 24.0, normalized[len(normalized)-1].EndHour)
}

func TestNormalizeSegmentsEmptyProducesFullOffDutyDay(t *testing.T) {
	normalized := normalizeSegments(nil)

	require.Len(t, normalized, 1)
	assert.Equal(t, domain.DutyOffDuty, normalized[0].Status)
	assert.Equal(t, 0.0, normalized[0].StartHour)
	assert.Equal(t, 24.0, normalized[0].EndHour)
}
