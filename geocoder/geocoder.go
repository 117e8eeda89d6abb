// Package geocoder resolves a street address to coordinates through an
// external geocoding service. Resolution is best effort: an issue report
// with a manual address is valid without a fix, so callers treat every
// error here as advisory.
package geocoder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"civicapp-be/models"
)

// The three failure kinds mirror the ways a location fix can fail: the
// service refused us, the service could not produce a position, or the
// request ran out of time. Each gets its own user-facing message.
var (
	ErrPermissionDenied = errors.New("location access denied by the geocoding service")
	ErrUnavailable      = errors.New("location information is unavailable")
	ErrTimeout          = errors.New("location request timed out")
)

const requestTimeout = 15 * time.Second

// Client resolves an address to coordinates.
type Client interface {
	Locate(ctx context.Context, address string) (*models.Coordinates, error)
}

// HTTPClient talks to a JSON geocoding endpoint. Every call is a fresh
// lookup: results are never cached.
type HTTPClient struct {
	http    *resty.Client
	baseURL string
	apiKey  string
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		http:    resty.New().SetTimeout(requestTimeout),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type geocodeResponse struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy"`
	Found    bool    `json:"found"`
}

func (c *HTTPClient) Locate(ctx context.Context, address string) (*models.Coordinates, error) {
	if c.baseURL == "" {
		return nil, ErrUnavailable
	}

	var result geocodeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("address", address).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetResult(&result).
		Get(c.baseURL)

	switch {
	case err != nil:
		// A canceled lookup is not a timeout: the caller gave up, the
		// service did not.
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return nil, ErrPermissionDenied
	case resp.IsError() || !result.Found:
		return nil, ErrUnavailable
	}

	return &models.Coordinates{
		Lat:      result.Lat,
		Lng:      result.Lng,
		Accuracy: result.Accuracy,
	}, nil
}

// Static returns a fixed answer. Used in mock mode and in tests.
type Static struct {
	Coords *models.Coordinates
	Err    error
}

func (s Static) Locate(ctx context.Context, address string) (*models.Coordinates, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Coords, nil
}
