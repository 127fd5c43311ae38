// Package hos implements the HOS-compliant drive-leg state machine: it
// walks a route in drivable chunks, advances the driver's duty counters,
// and emits stops at the earliest binding regulatory constraint.
package hos

import (
	"context"
	"math"
	"time"

	"github.com/draymaster/hos-planner-service/internal/domain"
	"github.com/draymaster/hos-planner-service/internal/geometry"
	"github.com/draymaster/hos-planner-service/internal/hosrules"
	"github.com/draymaster/hos-planner-service/internal/locname"
)

// ReverseGeocoder resolves a coordinate to a display string. Implementations
// must not block indefinitely; a failure degrades to "Unknown Location"
// rather than aborting the plan.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, coord domain.Coordinate) (string, error)
}

// state mirrors DriverState: the mutable counters advanced by the planner.
type state struct {
	drivingHoursToday   float64
	onDutyHoursToday    float64
	hoursSinceLastBreak float64
	cycleHoursUsed      float64
	currentTime         time.Time
	currentMiles        float64
}

// Planner is a single-request, single-threaded HOS state machine. Given
// identical inputs it produces byte-identical output: it is a pure
// function of its inputs modulo calls to the injected ReverseGeocoder.
type Planner struct {
	state    state
	stops    []domain.Stop
	stopID   int
	geometry []domain.Coordinate
	reverse  ReverseGeocoder

	firstStopArrival *time.Time
}

// NewPlanner seeds a planner at startTime with the caller's prior cycle
// usage. geometry is the full route polyline used to locate interleaved
// stops; reverse resolves coordinates to display names.
func NewPlanner(startTime time.Time, cycleHoursUsed float64, routeGeometry []domain.Coordinate, reverse ReverseGeocoder) *Planner {
	return &Planner{
		state: state{
			cycleHoursUsed: cycleHoursUsed,
			currentTime:    startTime,
		},
		geometry: routeGeometry,
		reverse:  reverse,
	}
}

// PlanTrip walks the fixed skeleton start -> drive -> pickup -> drive ->
// dropoff -> end, interleaving break/rest/fuel stops within the two
// drive legs, and returns the full ordered stop list.
func (p *Planner) PlanTrip(ctx context.Context, route domain.Route, current, pickup, dropoff domain.NamedLocation) ([]domain.Stop, error) {
	p.stops = nil
	p.stopID = 0
	p.firstStopArrival = nil

	pickupDistance := route.Legs[0].DistanceMiles
	dropoffDistance := route.Legs[1].DistanceMiles

	p.addStop(domain.StopStart, current.DisplayName, current.Coordinate,
		int(hosrules.PreTripDuration.Minutes()), domain.DutyOnDuty, "Pre-trip inspection")

	if err := p.driveLeg(ctx, pickupDistance, 0); err != nil {
		return nil, err
	}

	p.addStop(domain.StopPickup, pickup.DisplayName, pickup.Coordinate,
		int(hosrules.PickupDuration.Minutes()), domain.DutyOnDuty, "Loading cargo")

	if err := p.driveLeg(ctx, dropoffDistance, pickupDistance); err != nil {
		return nil, err
	}

	p.addStop(domain.StopDropoff, dropoff.DisplayName, dropoff.Coordinate,
		int(hosrules.DropoffDuration.Minutes()), domain.DutyOnDuty, "Unloading cargo")

	p.addStop(domain.StopEnd, dropoff.DisplayName, dropoff.Coordinate,
		int(hosrules.PostTripDuration.Minutes()), domain.DutyOnDuty, "Post-trip inspection")

	return p.stops, nil
}

// epsilon absorbs floating-point drift when comparing which constraint
// bound a drivable chunk.
const epsilon = 1e-6

// driveLeg advances the planner across one leg of legMiles, starting at
// segmentStartMiles on the cumulative route odometer, inserting break,
// rest, and fuel stops wherever they bind first.
func (p *Planner) driveLeg(ctx context.Context, legMiles, segmentStartMiles float64) error {
	remaining := legMiles

	for remaining > epsilon {
		milesUntilBreak := math.Max(0, (hosrules.BreakAfterHours-p.state.hoursSinceLastBreak)*hosrules.SpeedMPH)
		milesUntilRest := math.Max(0, (hosrules.MaxDrivingHours-p.state.drivingHoursToday)*hosrules.SpeedMPH)
		milesUntilFuel := hosrules.FuelEveryMiles - math.Mod(p.state.currentMiles, hosrules.FuelEveryMiles)

		drivable := math.Min(remaining, math.Min(milesUntilBreak, math.Min(milesUntilRest, milesUntilFuel)))
		if drivable < 0 {
			drivable = 0
		}

		if drivable > epsilon {
			p.advanceDriving(drivable)
			remaining -= drivable
		}

		if remaining <= epsilon {
			break
		}

		binding := bindingLimit(drivable, milesUntilRest, milesUntilBreak, milesUntilFuel)
		absoluteMiles := segmentStartMiles + (legMiles - remaining)

		switch binding {
		case limitRest:
			if err := p.takeRest(ctx, absoluteMiles); err != nil {
				return err
			}
		case limitBreak:
			if err := p.takeBreak(ctx, absoluteMiles); err != nil {
				return err
			}
		case limitFuel:
			if err := p.takeFuel(ctx, absoluteMiles); err != nil {
				return err
			}
		case limitNone:
			// No limit currently binds (e.g. remaining was the minimum but
			// the loop hasn't yet consumed it); continue driving.
		}
	}

	return nil
}

type limitKind int

const (
	limitNone limitKind = iota
	limitRest
	limitBreak
	limitFuel
)

// bindingLimit decides which constraint produced the current drivable
// chunk, preferring rest over break over fuel when more than one binds
// at the same distance (rest subsumes a break; fuel never preempts
// either). Per the fuel edge case, fuel is signalled by milesUntilFuel
// being the limiting value, not by re-checking odometer modular equality.
func bindingLimit(drivable, milesUntilRest, milesUntilBreak, milesUntilFuel float64) limitKind {
	switch {
	case math.Abs(drivable-milesUntilRest) < epsilon:
		return limitRest
	case math.Abs(drivable-milesUntilBreak) < epsilon:
		return limitBreak
	case math.Abs(drivable-milesUntilFuel) < epsilon:
		return limitFuel
	default:
		return limitNone
	}
}

func (p *Planner) advanceDriving(miles float64) {
	hours := miles / hosrules.SpeedMPH
	p.state.drivingHoursToday += hours
	p.state.onDutyHoursToday += hours
	p.state.hoursSinceLastBreak += hours
	p.state.cycleHoursUsed += hours
	p.state.currentTime = p.state.currentTime.Add(time.Duration(hours * float64(time.Hour)))
	p.state.currentMiles += miles
}

func (p *Planner) takeBreak(ctx context.Context, absoluteMiles float64) error {
	coord := geometry.PointAtMile(p.geometry, absoluteMiles)
	location := p.resolveLocation(ctx, coord)

	p.addStop(domain.StopBreak, location, coord, 30, domain.DutyOffDuty, "30-minute break (8 hours driving)")
	p.state.hoursSinceLastBreak = 0
	return nil
}

func (p *Planner) takeRest(ctx context.Context, absoluteMiles float64) error {
	coord := geometry.PointAtMile(p.geometry, absoluteMiles)
	location := p.resolveLocation(ctx, coord)

	p.addStop(domain.StopRest, location, coord, int(hosrules.RestDuration.Minutes()), domain.DutyOffDuty, "10-hour rest (11-hour driving limit)")

	p.state.drivingHoursToday = 0
	p.state.onDutyHoursToday = 0
	p.state.hoursSinceLastBreak = 0

	p.addStop(domain.StopPreTrip, location, coord, int(hosrules.PreTripDuration.Minutes()), domain.DutyOnDuty, "Pre-trip inspection")
	return nil
}

func (p *Planner) takeFuel(ctx context.Context, absoluteMiles float64) error {
	coord := geometry.PointAtMile(p.geometry, absoluteMiles)
	location := p.resolveLocation(ctx, coord)

	p.addStop(domain.StopFuel, location, coord, int(hosrules.FuelDuration.Minutes()), domain.DutyOnDuty, "Fuel stop (1,000 miles)")
	return nil
}

func (p *Planner) resolveLocation(ctx context.Context, coord domain.Coordinate) string {
	if p.reverse == nil {
		return locname.UnknownLocation
	}
	name, err := p.reverse.Reverse(ctx, coord)
	if err != nil || name == "" {
		return locname.UnknownLocation
	}
	return locname.Truncate(name)
}

// addStop appends a stop, computing its day number and updating the
// on-duty/cycle counters for stops whose duty status is on_duty. The day
// number is deliberately computed relative to stops[0]'s arrival time —
// when no prior stop exists yet, that reference is the current stop's
// own arrival time, so the very first stop always resolves to day 1.
func (p *Planner) addStop(stopType domain.StopType, location string, coord domain.Coordinate, durationMinutes int, dutyStatus domain.DutyStatus, notes string) {
	p.stopID++

	arrival := p.state.currentTime
	departure := arrival.Add(time.Duration(durationMinutes) * time.Minute)

	startOfTrip := arrival
	if len(p.stops) > 0 {
		startOfTrip = p.stops[0].ArrivalTime
	}
	day := dateDiffDays(arrival, startOfTrip) + 1

	stop := domain.Stop{
		ID:                     p.stopID,
		Type:                   stopType,
		Location:               formatLocation(location),
		Coordinates:            coord,
		ArrivalTime:            arrival,
		DepartureTime:          departure,
		DurationMinutes:        durationMinutes,
		CumulativeMiles:        round1(p.state.currentMiles),
		CumulativeDrivingHours: round2(p.state.drivingHoursToday),
		Day:                    day,
		DutyStatus:             dutyStatus,
		Notes:                  notes,
	}

	p.stops = append(p.stops, stop)

	if dutyStatus == domain.DutyOnDuty {
		hours := float64(durationMinutes) / 60
		p.state.onDutyHoursToday += hours
		p.state.cycleHoursUsed += hours
	}

	p.state.currentTime = departure
}

func formatLocation(location string) string {
	if location == "" {
		return locname.UnknownLocation
	}
	return locname.Truncate(location)
}

func dateDiffDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	aDate := time.Date(ay, am, ad, 0, 0, 0, 0, a.Location())
	bDate := time.Date(by, bm, bd, 0, 0, 0, 0, b.Location())
	return int(aDate.Sub(bDate).Hours() / 24)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Summary computes the trip-level rollup from the planner's final stop
// list and the router-reported total distance.
func (p *Planner) Summary(totalDistanceMiles float64) domain.Summary {
	var fuelStops, restBreaks, restStops int
	for _, s := range p.stops {
		switch s.Type {
		case domain.StopFuel:
			fuelStops++
		case domain.StopBreak:
			restBreaks++
		case domain.StopRest:
			restStops++
		}
	}

	totalHours := 0.0
	totalDays := 0
	if len(p.stops) > 0 {
		first := p.stops[0]
		last := p.stops[len(p.stops)-1]
		totalHours = last.DepartureTime.Sub(first.ArrivalTime).Hours()
		totalDays = last.Day
		if totalDays < 1 {
			totalDays = 1
		}
	}

	return domain.Summary{
		TotalDistanceMiles: round1(totalDistanceMiles),
		TotalDurationHours: round1(totalHours),
		TotalDays:          totalDays,
		FuelStops:          fuelStops,
		RestBreaks:         restBreaks,
		RestStops:          restStops,
		CycleHoursAfter:    round1(p.state.cycleHoursUsed),
	}
}
