package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEventSetsEnvelopeFields(t *testing.T) {
	event := NewEvent(TripPlanned, "hos-planner-service", map[string]string{"k": "v"})

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, TripPlanned, event.Type)
	assert.Equal(t, "hos-planner-service", event.Source)
	assert.False(t, event.Time.IsZero())
	assert.Empty(t, event.CorrelationID)
}

func TestWithCorrelationIDSetsID(t *testing.T) {
	event := NewEvent(TripPlanned, "hos-planner-service", nil).WithCorrelationID("req-123")

	assert.Equal(t, "req-123", event.CorrelationID)
}
