// Package routing implements the Router interface against the public
// OSRM HTTP API: a three-waypoint route with total distance/duration,
// per-leg distances, and the decoded polyline geometry.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/twpayne/go-polyline"

	"github.com/draymaster/hos-planner-service/internal/cache"
	"github.com/draymaster/hos-planner-service/internal/domain"
	"github.com/draymaster/hos-planner-service/internal/logger"
)

const metersPerMile = 1609.34

// Config configures the OSRM client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is an OSRM-backed router.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Client
	log        *logger.Logger
}

// New constructs an OSRM client. cacheClient may be nil to disable caching.
func New(cfg Config, cacheClient *cache.Client, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      cacheClient,
		log:        log,
	}
}

type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64   `json:"distance"` // meters
	Duration float64   `json:"duration"` // seconds
	Geometry string    `json:"geometry"` // encoded polyline
	Legs     []osrmLeg `json:"legs"`
}

type osrmLeg struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

// Route queries OSRM for a route through waypoints (in order), returning
// ok=false when OSRM reports a non-OK status or fewer than two legs.
func (c *Client) Route(ctx context.Context, waypoints []domain.Coordinate) (domain.Route, bool, error) {
	if len(waypoints) < 2 {
		return domain.Route{}, false, nil
	}

	cacheKey := routeCacheKey(waypoints)
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, cacheKey); ok {
			var route domain.Route
			if err := json.Unmarshal([]byte(cached), &route); err == nil {
				return route, true, nil
			}
		}
	}

	coordParts := make([]string, len(waypoints))
	for i, w := range waypoints {
		coordParts[i] = fmt.Sprintf("%f,%f", w.Lng, w.Lat)
	}
	coords := strings.Join(coordParts, ";")

	q := url.Values{}
	q.Set("overview", "full")
	q.Set("geometries", "polyline")
	q.Set("steps", "false")

	reqURL := fmt.Sprintf("%s/route/v1/driving/%s?%s", c.baseURL, coords, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("routing: build request: %w", err)
	}

	c.log.Debugw("osrm request", "waypoints", len(waypoints))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("routing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Route{}, false, fmt.Errorf("routing: HTTP %d", resp.StatusCode)
	}

	var data osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return domain.Route{}, false, fmt.Errorf("routing: decode: %w", err)
	}

	if data.Code != "Ok" || len(data.Routes) == 0 {
		return domain.Route{}, false, nil
	}

	osrmRoute := data.Routes[0]
	if len(osrmRoute.Legs) < 2 {
		return domain.Route{}, false, nil
	}

	legs := make([]domain.Leg, len(osrmRoute.Legs))
	for i, l := range osrmRoute.Legs {
		legs[i] = domain.Leg{
			DistanceMiles: l.Distance / metersPerMile,
			DurationHours: l.Duration / 3600,
		}
	}

	route := domain.Route{
		TotalDistanceMiles: osrmRoute.Distance / metersPerMile,
		TotalDurationHours: osrmRoute.Duration / 3600,
		Geometry:           decodePolyline(osrmRoute.Geometry),
		Legs:               legs,
	}

	if c.cache != nil {
		if encoded, err := json.Marshal(route); err == nil {
			c.cache.Set(ctx, cacheKey, string(encoded))
		}
	}

	return route, true, nil
}

func routeCacheKey(waypoints []domain.Coordinate) string {
	var b strings.Builder
	b.WriteString("route:")
	for _, w := range waypoints {
		b.WriteString(strconv.FormatFloat(w.Lat, 'f', 5, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(w.Lng, 'f', 5, 64))
		b.WriteByte(';')
	}
	return b.String()
}

// decodePolyline decodes a Google polyline-encoded string (precision 5,
// the OSRM default) into a sequence of coordinates.
func decodePolyline(encoded string) []domain.Coordinate {
	pairs, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil
	}

	coords := make([]domain.Coordinate, len(pairs))
	for i, p := range pairs {
		coords[i] = domain.Coordinate{Lat: p[0], Lng: p[1]}
	}
	return coords
}
