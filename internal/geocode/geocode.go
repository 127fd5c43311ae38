// Package geocode implements the Geocoder interface against the public
// Nominatim API: forward geocoding of free-text addresses and reverse
// geocoding of coordinates to "City, ST" display strings.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/draymaster/hos-planner-service/internal/cache"
	"github.com/draymaster/hos-planner-service/internal/domain"
	"github.com/draymaster/hos-planner-service/internal/locname"
	"github.com/draymaster/hos-planner-service/internal/logger"
)

// Config configures the Nominatim client.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client is a Nominatim-backed geocoder. Nominatim's usage policy caps
// request rate at 1/sec; the client enforces that via a single-token
// bucket refilling at 1 Hz rather than a hand-rolled timestamp check.
type Client struct {
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	cache       *cache.Client
	log         *logger.Logger
}

// New constructs a Nominatim client. cache may be nil to disable caching.
func New(cfg Config, cacheClient *cache.Client, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		userAgent:   cfg.UserAgent,
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
		cache:       cacheClient,
		log:         log,
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
	} `json:"address"`
}

// Forward geocodes a free-text address. It returns ok=false when
// Nominatim has no match for the address.
func (c *Client) Forward(ctx context.Context, address string) (domain.NamedLocation, bool, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, "geocode:fwd:"+address); ok {
			var loc domain.NamedLocation
			if err := json.Unmarshal([]byte(cached), &loc); err == nil {
				return loc, true, nil
			}
		}
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return domain.NamedLocation{}, false, fmt.Errorf("geocode: rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("countrycodes", "us")

	results, err := c.query(ctx, q)
	if err != nil {
		return domain.NamedLocation{}, false, err
	}
	if len(results) == 0 {
		return domain.NamedLocation{}, false, nil
	}

	r := results[0]
	lat, _ := strconv.ParseFloat(r.Lat, 64)
	lng, _ := strconv.ParseFloat(r.Lon, 64)

	loc := domain.NamedLocation{
		Coordinate:  domain.Coordinate{Lat: lat, Lng: lng},
		DisplayName: r.DisplayName,
	}

	if c.cache != nil {
		if encoded, err := json.Marshal(loc); err == nil {
			c.cache.Set(ctx, "geocode:fwd:"+address, string(encoded))
		}
	}

	return loc, true, nil
}

// Reverse resolves a coordinate to a "City, ST" display string. A response
// with neither city nor state yields locname.UnknownLocation and a nil
// error; a transport, status or decode failure returns a non-nil error,
// on which the planner falls back to locname.UnknownLocation rather than
// aborting the plan.
func (c *Client) Reverse(ctx context.Context, coord domain.Coordinate) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("reverse geocode: rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(coord.Lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(coord.Lng, 'f', 6, 64))
	q.Set("format", "json")
	q.Set("zoom", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("reverse geocode: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse geocode: HTTP %d", resp.StatusCode)
	}

	var result nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("reverse geocode: decode: %w", err)
	}

	city := result.Address.City
	if city == "" {
		city = result.Address.Town
	}
	if city == "" {
		city = result.Address.Village
	}

	if city == "" && result.Address.State == "" {
		return locname.UnknownLocation, nil
	}

	return locname.Format(city, result.Address.State), nil
}

func (c *Client) query(ctx context.Context, q url.Values) ([]nominatimResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.log.Debugw("nominatim request", "query", q.Get("q"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode: HTTP %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("geocode: decode: %w", err)
	}
	return results, nil
}
