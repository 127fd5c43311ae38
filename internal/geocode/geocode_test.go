package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draymaster/hos-planner-service/internal/domain"
	"github.com/draymaster/hos-planner-service/internal/logger"
)

func TestForwardParsesNominatimResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"41.8781","lon":"-87.6298","display_name":"Chicago, Cook County, Illinois, USA"}]`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, UserAgent: "test-agent", Timeout: 2 * time.Second}, nil, logger.Default())

	loc, ok, err := client.Forward(context.Background(), "Chicago, IL")

	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 41.8781, loc.Coordinate.Lat, 1e-6)
	assert.InDelta(t, -87.6298, loc.Coordinate.Lng, 1e-6)
}

func TestForwardNoResultsReturnsNotOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, UserAgent: "test-agent", Timeout: 2 * time.Second}, nil, logger.Default())

	_, ok, err := client.Forward(context.Background(), "Nowhere")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReverseBuildsCityStateLabel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"address":{"city":"Springfield","state":"Illinois"}}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, UserAgent: "test-agent", Timeout: 2 * time.Second}, nil, logger.Default())

	name, err := client.Reverse(context.Background(), domain.Coordinate{Lat: 39.78, Lng: -89.65})

	require.NoError(t, err)
	assert.Equal(t, "Springfield, IL", name)
}

func TestReverseFallsBackToUnknownWhenNoAddressFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"address":{}}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, UserAgent: "test-agent", Timeout: 2 * time.Second}, nil, logger.Default())

	name, err := client.Reverse(context.Background(), domain.Coordinate{})

	require.NoError(t, err)
	assert.Equal(t, "Unknown Location", name)
}
