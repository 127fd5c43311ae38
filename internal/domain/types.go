// Package domain holds the data model shared by the planner, the log
// generator, and the HTTP layer: coordinates, routes, stops, duty
// segments, log sheets, and the assembled trip response.
package domain

import "time"

// Coordinate is an immutable WGS84 lat/lng pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NamedLocation is a coordinate with a human-readable display string,
// produced by geocoding.
type NamedLocation struct {
	Coordinate  Coordinate
	DisplayName string
}

// Leg is one segment of a route between two user-specified waypoints.
type Leg struct {
	DistanceMiles float64
	DurationHours float64
}

// Route is the road path returned by the routing engine: total distance
// and duration, the decoded polyline geometry, and per-leg distances.
// A Route produced for this system always has exactly two legs:
// current->pickup and pickup->dropoff.
type Route struct {
	TotalDistanceMiles float64
	TotalDurationHours float64
	Geometry           []Coordinate
	Legs               []Leg
}

// StopType is a closed enumeration of planned-stop kinds.
type StopType string

const (
	StopStart   StopType = "start"
	StopPickup  StopType = "pickup"
	StopDropoff StopType = "dropoff"
	StopEnd     StopType = "end"
	StopBreak   StopType = "break"
	StopRest    StopType = "rest"
	StopPreTrip StopType = "pre_trip"
	StopFuel    StopType = "fuel"
)

// DutyStatus is a closed enumeration of ELD duty statuses.
type DutyStatus string

const (
	DutyOffDuty DutyStatus = "off_duty"
	DutyOnDuty  DutyStatus = "on_duty"
	DutyDriving DutyStatus = "driving"
	DutySleeper DutyStatus = "sleeper"
)

// Stop is one emitted planned event along the trip.
type Stop struct {
	ID                     int        `json:"id"`
	Type                   StopType   `json:"type"`
	Location               string     `json:"location"`
	Coordinates            Coordinate `json:"coordinates"`
	ArrivalTime            time.Time  `json:"arrival_time"`
	DepartureTime          time.Time  `json:"departure_time"`
	DurationMinutes        int        `json:"duration_minutes"`
	CumulativeMiles        float64    `json:"cumulative_miles"`
	CumulativeDrivingHours float64    `json:"cumulative_driving_hours"`
	Day                    int        `json:"day"`
	DutyStatus             DutyStatus `json:"duty_status"`
	Notes                  string     `json:"notes"`
}

// DutySegment is a half-open interval [StartHour, EndHour) within a
// single calendar day tagged with a duty status.
type DutySegment struct {
	StartHour float64    `json:"start_hour"`
	EndHour   float64    `json:"end_hour"`
	Status    DutyStatus `json:"status"`
	Location  string     `json:"location,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// DutyTotals sums segment lengths per status across a single day; the
// four buckets sum to 24.0 +/- 0.1.
type DutyTotals struct {
	OffDuty float64 `json:"off_duty"`
	Sleeper float64 `json:"sleeper"`
	Driving float64 `json:"driving"`
	OnDuty  float64 `json:"on_duty"`
}

// Remark is one timestamped activity entry on a log sheet.
type Remark struct {
	Time     string `json:"time"`
	Location string `json:"location"`
	Activity string `json:"activity"`
}

// LogSheet is one calendar day's ELD strip chart.
type LogSheet struct {
	Date       string        `json:"date"`
	DayNumber  int           `json:"day_number"`
	TotalMiles float64       `json:"total_miles"`
	Segments   []DutySegment `json:"segments"`
	Totals     DutyTotals    `json:"totals"`
	Remarks    []Remark      `json:"remarks"`
}

// Summary is the trip-level rollup reported alongside stops and log sheets.
type Summary struct {
	TotalDistanceMiles float64 `json:"total_distance_miles"`
	TotalDurationHours float64 `json:"total_duration_hours"`
	TotalDays          int     `json:"total_days"`
	FuelStops          int     `json:"fuel_stops"`
	RestBreaks         int     `json:"rest_breaks"`
	RestStops          int     `json:"rest_stops"`
	CycleHoursAfter    float64 `json:"cycle_hours_after"`
}

// TripResponse is the full assembled response to POST /plan.
type TripResponse struct {
	RouteGeometry [][2]float64 `json:"route_geometry"`
	Stops         []Stop       `json:"stops"`
	LogSheets     []LogSheet   `json:"log_sheets"`
	Summary       Summary      `json:"summary"`
}
