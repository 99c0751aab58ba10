package services

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/terra-pic/api-go/config"
)

// ExternalPlace is a result from the Google Places text-search API,
// trimmed to the fields the post-creation flow needs.
type ExternalPlace struct {
	PlaceID          string  `json:"place_id"`
	Name             string  `json:"name"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
}

// PlacesProvider is the contract the search flow consumes: text query
// with an optional location bias. Implementations must distinguish
// "the service refused or failed" from "no results".
type PlacesProvider interface {
	TextSearch(ctx context.Context, query string, lat, lon *float64, limit int) ([]ExternalPlace, error)
}

type googlePlacesResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID          string `json:"place_id"`
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type GooglePlacesClient struct {
	client *resty.Client
	cfg    *config.PlacesConfig
}

func NewGooglePlacesClient(cfg *config.PlacesConfig) *GooglePlacesClient {
	return &GooglePlacesClient{
		client: resty.New().SetBaseURL(cfg.BaseURL),
		cfg:    cfg,
	}
}

// TextSearch queries the Places text-search endpoint. ZERO_RESULTS is a
// valid empty answer; REQUEST_DENIED, quota exhaustion and transport
// failures all surface as ExternalServiceError so callers can tell the
// provider being down apart from nothing matching.
func (g *GooglePlacesClient) TextSearch(ctx context.Context, query string, lat, lon *float64, limit int) ([]ExternalPlace, error) {
	req := g.client.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetQueryParam("key", g.cfg.APIKey).
		SetQueryParam("language", g.cfg.Language)

	if lat != nil && lon != nil {
		req.SetQueryParam("location", fmt.Sprintf("%v,%v", *lat, *lon))
		req.SetQueryParam("radius", "5000")
	}

	var body googlePlacesResponse
	resp, err := req.SetResult(&body).Get("/textsearch/json")
	if err != nil {
		return nil, &ExternalServiceError{
			Service:   "google_places",
			Message:   err.Error(),
			Retryable: true,
		}
	}
	if resp.IsError() {
		return nil, &ExternalServiceError{
			Service:   "google_places",
			Message:   fmt.Sprintf("unexpected status %d", resp.StatusCode()),
			Retryable: true,
		}
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return []ExternalPlace{}, nil
	case "OVER_QUERY_LIMIT":
		return nil, &ExternalServiceError{
			Service:   "google_places",
			Message:   "query limit exceeded",
			Retryable: true,
		}
	default:
		// REQUEST_DENIED, INVALID_REQUEST, UNKNOWN_ERROR
		return nil, &ExternalServiceError{
			Service:   "google_places",
			Message:   fmt.Sprintf("%s: %s", body.Status, body.ErrorMessage),
			Retryable: body.Status == "UNKNOWN_ERROR",
		}
	}

	places := make([]ExternalPlace, 0, limit)
	for _, result := range body.Results {
		if len(places) >= limit {
			break
		}
		places = append(places, ExternalPlace{
			PlaceID:          result.PlaceID,
			Name:             result.Name,
			Latitude:         result.Geometry.Location.Lat,
			Longitude:        result.Geometry.Location.Lng,
			FormattedAddress: result.FormattedAddress,
		})
	}
	return places, nil
}
