// Package eldlog converts a planned stop list into per-calendar-day ELD
// log sheets: a continuous, gap-free, overlap-free timeline of duty-status
// segments for every day the trip spans.
package eldlog

import (
	"math"
	"sort"
	"time"

	"github.com/draymaster/hos-planner-service/internal/domain"
)

type event struct {
	Time     time.Time
	Status   domain.DutyStatus
	Location string
	Notes    string
}

// Generate builds one LogSheet per calendar day spanned by stops, from
// the first stop's arrival date through the last stop's departure date,
// inclusive.
func Generate(stops []domain.Stop) []domain.LogSheet {
	if len(stops) == 0 {
		return nil
	}

	events := buildEventTimeline(stops)

	startDate := dateOnly(events[0].Time)
	endDate := dateOnly(events[len(events)-1].Time)

	var sheets []domain.LogSheet
	dayNum := 1
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		sheets = append(sheets, buildDayLog(d, dayNum, events, stops))
		dayNum++
	}
	return sheets
}

// buildEventTimeline emits two events per stop: arrival (the stop's own
// status) and departure (driving to the next stop, or trip-complete
// off_duty for the last stop), then sorts stably by time.
func buildEventTimeline(stops []domain.Stop) []event {
	events := make([]event, 0, len(stops)*2)

	for i, s := range stops {
		status := domain.DutyOnDuty
		if s.Type == domain.StopRest || s.Type == domain.StopBreak || s.DutyStatus == domain.DutyOffDuty {
			status = domain.DutyOffDuty
		}

		events = append(events, event{
			Time:     s.ArrivalTime,
			Status:   status,
			Location: s.Location,
			Notes:    s.Notes,
		})

		if i < len(stops)-1 {
			next := stops[i+1]
			events = append(events, event{
				Time:     s.DepartureTime,
				Status:   domain.DutyDriving,
				Location: "En route",
				Notes:    "Driving to " + next.Location,
			})
		} else {
			events = append(events, event{
				Time:     s.DepartureTime,
				Status:   domain.DutyOffDuty,
				Location: s.Location,
				Notes:    "Trip complete",
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time.Before(events[j].Time)
	})

	return events
}

func buildDayLog(date time.Time, dayNum int, events []event, stops []domain.Stop) domain.LogSheet {
	dayStart := date
	dayEnd := date.AddDate(0, 0, 1)

	segments := buildDaySegments(dayStart, dayEnd, events, dayNum)
	totals := calculateTotals(segments)
	totalMiles := calculateDayMiles(date, stops)
	remarks := generateRemarks(date, stops)

	return domain.LogSheet{
		Date:       date.Format("01/02/2006"),
		DayNumber:  dayNum,
		TotalMiles: round1(totalMiles),
		Segments:   segments,
		Totals:     totals,
		Remarks:    remarks,
	}
}

func buildDaySegments(dayStart, dayEnd time.Time, events []event, dayNum int) []domain.DutySegment {
	var dayEvents []event
	for _, e := range events {
		if !e.Time.Before(dayStart) && e.Time.Before(dayEnd) {
			dayEvents = append(dayEvents, e)
		}
	}

	status, location := statusAtTime(dayStart, events, dayNum)

	var segments []domain.DutySegment
	currentHour := 0.0
	currentStatus := status
	currentLocation := location

	for _, e := range dayEvents {
		eventHour := hourOfDay(e.Time)

		if eventHour > currentHour+0.001 {
			segments = append(segments, domain.DutySegment{
				Status:    currentStatus,
				StartHour: round2(currentHour),
				EndHour:   round2(eventHour),
				Location:  currentLocation,
			})
		}

		currentHour = eventHour
		currentStatus = e.Status
		currentLocation = e.Location
	}

	if currentHour < 24.0 {
		segments = append(segments, domain.DutySegment{
			Status:    currentStatus,
			StartHour: round2(currentHour),
			EndHour:   24.0,
			Location:  currentLocation,
		})
	}

	segments = mergeSegments(segments)
	segments = normalizeSegments(segments)

	return segments
}

// statusAtTime determines the duty status in effect at targetTime. Day 1
// defaults to off_duty; subsequent days scan for the most recent event
// strictly before targetTime, defaulting to off_duty if none is found.
func statusAtTime(targetTime time.Time, events []event, dayNum int) (domain.DutyStatus, string) {
	if dayNum == 1 {
		return domain.DutyOffDuty, ""
	}

	var last *event
	for i := range events {
		if events[i].Time.Before(targetTime) {
			last = &events[i]
		} else {
			break
		}
	}

	if last != nil {
		return last.Status, last.Location
	}
	return domain.DutyOffDuty, ""
}

func hourOfDay(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60.0 + float64(t.Second())/3600.0
}

func mergeSegments(segments []domain.DutySegment) []domain.DutySegment {
	if len(segments) == 0 {
		return nil
	}

	merged := []domain.DutySegment{segments[0]}
	for _, s := range segments[1:] {
		last := &merged[len(merged)-1]
		if s.Status == last.Status {
			last.EndHour = s.EndHour
			if s.Location != "" && last.Location == "" {
				last.Location = s.Location
			}
		} else {
			merged = append(merged, s)
		}
	}
	return merged
}

func normalizeSegments(segments []domain.DutySegment) []domain.DutySegment {
	if len(segments) == 0 {
		return []domain.DutySegment{{Status: domain.DutyOffDuty, StartHour: 0.0, EndHour: 24.0}}
	}

	normalized := make([]domain.DutySegment, 0, len(segments))
	for _, s := range segments {
		start, end := s.StartHour, s.EndHour

		if len(normalized) > 0 {
			prevEnd := normalized[len(normalized)-1].EndHour
			if start > prevEnd+0.001 {
				normalized[len(normalized)-1].EndHour = start
			}
		}

		normalized = append(normalized, domain.DutySegment{
			Status:    s.Status,
			StartHour: round1(start),
			EndHour:   round1(end),
			Location:  s.Location,
			Notes:     s.Notes,
		})
	}

	if normalized[0].StartHour > 0 {
		normalized[0].StartHour = 0.0
	}
	if normalized[len(normalized)-1].EndHour < 24.0 {
		normalized[len(normalized)-1].EndHour = 24.0
	}

	return normalized
}

func calculateTotals(segments []domain.DutySegment) domain.DutyTotals {
	totals := domain.DutyTotals{}

	for _, s := range segments {
		hours := s.EndHour - s.StartHour
		if hours <= 0 {
			continue
		}
		switch s.Status {
		case domain.DutyOffDuty:
			totals.OffDuty += hours
		case domain.DutySleeper:
			totals.Sleeper += hours
		case domain.DutyDriving:
			totals.Driving += hours
		case domain.DutyOnDuty:
			totals.OnDuty += hours
		}
	}

	totals.OffDuty = round1(totals.OffDuty)
	totals.Sleeper = round1(totals.Sleeper)
	totals.Driving = round1(totals.Driving)
	totals.OnDuty = round1(totals.OnDuty)

	sum := totals.OffDuty + totals.Sleeper + totals.Driving + totals.OnDuty
	if math.Abs(sum-24.0) > 0.5 {
		diff := 24.0 - sum
		adjustLargestBucket(&totals, diff)
	}

	return totals
}

// adjustLargestBucket absorbs rounding drift into whichever status
// accumulated the most hours, the same largest-bucket heuristic the
// source log generator uses.
func adjustLargestBucket(totals *domain.DutyTotals, diff float64) {
	largest := &totals.OffDuty
	if totals.Sleeper > *largest {
		largest = &totals.Sleeper
	}
	if totals.Driving > *largest {
		largest = &totals.Driving
	}
	if totals.OnDuty > *largest {
		largest = &totals.OnDuty
	}
	*largest = round1(*largest + diff)
}

func calculateDayMiles(date time.Time, stops []domain.Stop) float64 {
	dayStart := date
	dayEnd := date.AddDate(0, 0, 1)

	var dayStops []domain.Stop
	for _, s := range stops {
		if !s.ArrivalTime.Before(dayStart) && s.ArrivalTime.Before(dayEnd) {
			dayStops = append(dayStops, s)
		}
	}

	if len(dayStops) == 0 {
		return 0.0
	}

	lastMiles := dayStops[len(dayStops)-1].CumulativeMiles

	if dateOnly(stops[0].ArrivalTime).Equal(date) {
		return lastMiles
	}

	prevDayMiles := 0.0
	for _, s := range stops {
		if s.ArrivalTime.Before(dayStart) {
			prevDayMiles = s.CumulativeMiles
		} else {
			break
		}
	}

	return lastMiles - prevDayMiles
}

func generateRemarks(date time.Time, stops []domain.Stop) []domain.Remark {
	dayStart := date
	dayEnd := date.AddDate(0, 0, 1)

	var remarks []domain.Remark
	for _, s := range stops {
		if !s.ArrivalTime.Before(dayStart) && s.ArrivalTime.Before(dayEnd) {
			activity := s.Notes
			if activity == "" {
				activity = string(s.Type)
			}
			remarks = append(remarks, domain.Remark{
				Time:     s.ArrivalTime.Format("15:04"),
				Location: s.Location,
				Activity: activity,
			})
		}
	}
	return remarks
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
