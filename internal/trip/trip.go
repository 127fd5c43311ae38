// Package trip sequences the external geocoder and router, then invokes
// the HOS planner and log generator, and assembles the response.
package trip

import (
	"context"
	"time"

	"github.com/draymaster/hos-planner-service/internal/apperrors"
	"github.com/draymaster/hos-planner-service/internal/domain"
	"github.com/draymaster/hos-planner-service/internal/eldlog"
	"github.com/draymaster/hos-planner-service/internal/hos"
	"github.com/draymaster/hos-planner-service/internal/hosrules"
	"github.com/draymaster/hos-planner-service/internal/logger"
)

// Geocoder resolves a free-text address to a coordinate and display
// name, and resolves a coordinate back to a display name.
type Geocoder interface {
	Forward(ctx context.Context, address string) (domain.NamedLocation, bool, error)
	Reverse(ctx context.Context, coord domain.Coordinate) (string, error)
}

// Router computes a route through an ordered set of waypoints.
type Router interface {
	Route(ctx context.Context, waypoints []domain.Coordinate) (domain.Route, bool, error)
}

// EventPublisher publishes a trip-completion event. Plan calls it
// synchronously before returning the response, so its latency adds to the
// request's; a publish failure is logged and never turns a completed plan
// into a request error.
type EventPublisher interface {
	PublishTripPlanned(ctx context.Context, requestID string, response domain.TripResponse) error
}

// Request is the validated input to Plan.
type Request struct {
	CurrentLocation   string
	PickupLocation    string
	DropoffLocation   string
	CurrentCycleHours float64
}

// Service orchestrates a single trip-planning request.
type Service struct {
	geocoder  Geocoder
	router    Router
	events    EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewService constructs the orchestrator. events may be nil to disable
// event publishing.
func NewService(geocoder Geocoder, router Router, events EventPublisher, log *logger.Logger) *Service {
	return &Service{
		geocoder: geocoder,
		router:   router,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

// Plan geocodes the three input locations, requests a route, runs the
// HOS planner and log generator, and assembles the trip response. Any
// geocode miss or routing failure aborts with the appropriate apperrors
// kind before the planner ever runs.
func (s *Service) Plan(ctx context.Context, requestID string, req Request) (domain.TripResponse, error) {
	current, err := s.geocodeOrFail(ctx, req.CurrentLocation)
	if err != nil {
		return domain.TripResponse{}, err
	}
	pickup, err := s.geocodeOrFail(ctx, req.PickupLocation)
	if err != nil {
		return domain.TripResponse{}, err
	}
	dropoff, err := s.geocodeOrFail(ctx, req.DropoffLocation)
	if err != nil {
		return domain.TripResponse{}, err
	}

	route, ok, err := s.router.Route(ctx, []domain.Coordinate{
		current.Coordinate, pickup.Coordinate, dropoff.Coordinate,
	})
	if err != nil {
		return domain.TripResponse{}, apperrors.UpstreamTransport("router", err)
	}
	if !ok || len(route.Legs) < 2 {
		return domain.TripResponse{}, apperrors.RouteUnavailable()
	}

	startTime := s.startTime()
	planner := hos.NewPlanner(startTime, req.CurrentCycleHours, route.Geometry, reverseGeocoderAdapter{s.geocoder})

	stops, err := planner.PlanTrip(ctx, route, current, pickup, dropoff)
	if err != nil {
		return domain.TripResponse{}, err
	}

	if err := validateStops(stops); err != nil {
		return domain.TripResponse{}, err
	}

	logSheets := eldlog.Generate(stops)
	if err := validateLogSheets(logSheets); err != nil {
		return domain.TripResponse{}, err
	}

	summary := planner.Summary(route.TotalDistanceMiles)

	response := domain.TripResponse{
		RouteGeometry: toLatLngPairs(route.Geometry),
		Stops:         stops,
		LogSheets:     logSheets,
		Summary:       summary,
	}

	if s.events != nil {
		if err := s.events.PublishTripPlanned(ctx, requestID, response); err != nil {
			s.log.WithError(err).Warnw("failed to publish trip.planned event", "request_id", requestID)
		}
	}

	return response, nil
}

func (s *Service) geocodeOrFail(ctx context.Context, address string) (domain.NamedLocation, error) {
	loc, ok, err := s.geocoder.Forward(ctx, address)
	if err != nil {
		return domain.NamedLocation{}, apperrors.UpstreamTransport("geocoder", err)
	}
	if !ok {
		return domain.NamedLocation{}, apperrors.GeocodeNotFound(address)
	}
	return loc, nil
}

// startTime defaults current_time to 06:00 local on the day of the request.
func (s *Service) startTime() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), hosrules.DefaultStartHour, 0, 0, 0, now.Location())
}

type reverseGeocoderAdapter struct {
	geocoder Geocoder
}

func (r reverseGeocoderAdapter) Reverse(ctx context.Context, coord domain.Coordinate) (string, error) {
	return r.geocoder.Reverse(ctx, coord)
}

func toLatLngPairs(geometry []domain.Coordinate) [][2]float64 {
	pairs := make([][2]float64, len(geometry))
	for i, c := range geometry {
		pairs[i] = [2]float64{c.Lat, c.Lng}
	}
	return pairs
}

// validateStops checks the monotonicity invariants a correct plan must
// satisfy; a violation indicates a planner bug, not bad input.
func validateStops(stops []domain.Stop) error {
	for i := 1; i < len(stops); i++ {
		prev, cur := stops[i-1], stops[i]
		if cur.ArrivalTime.Before(prev.DepartureTime) {
			return apperrors.InternalInvariantViolation("stop arrival precedes previous departure")
		}
		if cur.CumulativeMiles < prev.CumulativeMiles {
			return apperrors.InternalInvariantViolation("cumulative miles decreased between stops")
		}
	}
	return nil
}

// validateLogSheets checks the per-day 24-hour coverage invariant.
func validateLogSheets(sheets []domain.LogSheet) error {
	for _, sheet := range sheets {
		if len(sheet.Segments) == 0 {
			return apperrors.InternalInvariantViolation("log sheet has no segments")
		}
		first, last := sheet.Segments[0], sheet.Segments[len(sheet.Segments)-1]
		if first.StartHour != 0 || last.EndHour != 24.0 {
			return apperrors.InternalInvariantViolation("log sheet does not cover [0,24]")
		}
	}
	return nil
}
