// Package directions запрашивает альтернативные маршруты у Google Directions API.
package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shenikar/safe_route_system/internal/config"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

// ErrUnavailable - провайдер маршрутов отказал или недоступен
var ErrUnavailable = errors.New("directions provider unavailable")

const maxResponseBytes = 4 << 20

// Статусы ответа Directions API
const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
	statusNotFound    = "NOT_FOUND"
)

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type textValue struct {
	Text string `json:"text"`
}

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Duration      textValue `json:"duration"`
			Distance      textValue `json:"distance"`
			StartLocation latLng    `json:"start_location"`
			EndLocation   latLng    `json:"end_location"`
			StartAddress  string    `json:"start_address"`
			EndAddress    string    `json:"end_address"`
		} `json:"legs"`
	} `json:"routes"`
}

// Client - клиент Google Directions API с автоматическим выключателем
type Client struct {
	httpClient   *http.Client
	breaker      *gobreaker.CircuitBreaker[[]models.DirectionsRoute]
	baseURL      string
	apiKey       string
	mode         string
	regionSuffix string
	logger       *logrus.Logger
}

// Option - функциональная опция клиента
type Option func(*Client)

// WithHTTPClient подменяет HTTP-клиент
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient создает клиент по настройкам DIRECTIONS_*
func NewClient(cfg *config.Config, logger *logrus.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: cfg.DirectionsTimeout},
		baseURL:      cfg.DirectionsBaseURL,
		apiKey:       cfg.GoogleMapsAPIKey,
		mode:         cfg.DirectionsMode,
		regionSuffix: cfg.DirectionsRegionSuffix,
		logger:       logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]models.DirectionsRoute](gobreaker.Settings{
		Name:        "google-directions",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Routes возвращает альтернативные маршруты в порядке провайдера (первый - самый быстрый).
// ZERO_RESULTS и NOT_FOUND дают пустой срез без ошибки.
func (c *Client) Routes(ctx context.Context, origin, destination string) ([]models.DirectionsRoute, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: api key is not configured", ErrUnavailable)
	}

	routes, err := c.breaker.Execute(func() ([]models.DirectionsRoute, error) {
		return c.fetch(ctx, c.withRegion(origin), c.withRegion(destination))
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return nil, err
	}
	return routes, nil
}

func (c *Client) withRegion(place string) string {
	place = strings.TrimSpace(place)
	if c.regionSuffix == "" || strings.HasSuffix(strings.ToLower(place), strings.ToLower(c.regionSuffix)) {
		return place
	}
	return place + c.regionSuffix
}

func (c *Client) fetch(ctx context.Context, origin, destination string) ([]models.DirectionsRoute, error) {
	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	params.Set("mode", c.mode)
	params.Set("alternatives", "true")
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directions request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream returned %d", ErrUnavailable, resp.StatusCode)
	}

	var body directionsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", ErrUnavailable, err)
	}

	switch body.Status {
	case statusOK:
	case statusZeroResults, statusNotFound:
		c.logger.WithFields(logrus.Fields{
			"origin":      origin,
			"destination": destination,
			"status":      body.Status,
		}).Info("Directions provider returned no routes")
		return []models.DirectionsRoute{}, nil
	default:
		return nil, fmt.Errorf("%w: status %s: %s", ErrUnavailable, body.Status, body.ErrorMessage)
	}

	routes := make([]models.DirectionsRoute, 0, len(body.Routes))
	for _, r := range body.Routes {
		route := models.DirectionsRoute{EncodedPolyline: r.OverviewPolyline.Points}
		if len(r.Legs) > 0 {
			leg := r.Legs[0]
			route.ETALabel = leg.Duration.Text
			route.DistanceLabel = leg.Distance.Text
			route.StartLocation = models.Point{Lat: leg.StartLocation.Lat, Lng: leg.StartLocation.Lng}
			route.EndLocation = models.Point{Lat: leg.EndLocation.Lat, Lng: leg.EndLocation.Lng}
			route.StartAddress = leg.StartAddress
			route.EndAddress = leg.EndAddress
		}
		routes = append(routes, route)
	}
	return routes, nil
}
