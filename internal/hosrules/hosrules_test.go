package hosrules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConstantsMatchFMCSAHOS(t *testing.T) {
	assert.Equal(t, 11.0, MaxDrivingHours)
	assert.Equal(t, 14.0, MaxOnDutyHours)
	assert.Equal(t, 8.0, BreakAfterHours)
	assert.Equal(t, 70.0, MaxCycleHours)
	assert.Equal(t, 10.0, RestHours)
	assert.Equal(t, 1000.0, FuelEveryMiles)
}

func TestDurationConstants(t *testing.T) {
	assert.Equal(t, 30*time.Minute, BreakDuration)
	assert.Equal(t, 10*time.Hour, RestDuration)
	assert.Equal(t, 30*time.Minute, FuelDuration)
	assert.Equal(t, time.Duration(RestHours*float64(time.Hour)), RestDuration)
}

func TestDefaultStartHour(t *testing.T) {
	assert.Equal(t, 6, DefaultStartHour)
}
