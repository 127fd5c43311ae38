// Package hosrules holds the FMCSA-derived Hours-of-Service constants
// the planner enforces. These are compiled-in, not user-tunable: no
// config surface exposes them.
package hosrules

import "time"

const (
	MaxDrivingHours = 11.0   // per-day driving limit
	MaxOnDutyHours  = 14.0   // per-day on-duty window
	BreakAfterHours = 8.0    // driving hours before a mandatory 30-min break
	MaxCycleHours   = 70.0   // rolling 8-day on-duty ceiling
	RestHours       = 10.0   // off-duty period that resets daily counters
	SpeedMPH        = 55.0   // average drive speed
	FuelEveryMiles  = 1000.0 // mandatory fuel stop cadence

	BreakDuration    = 30 * time.Minute
	RestDuration     = 10 * time.Hour
	FuelDuration     = 30 * time.Minute
	PickupDuration   = 60 * time.Minute
	DropoffDuration  = 60 * time.Minute
	PreTripDuration  = 30 * time.Minute
	PostTripDuration = 15 * time.Minute
)

// DefaultStartHour is the local hour at which current_time defaults on
// the day of the request.
const DefaultStartHour = 6
