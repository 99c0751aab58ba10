package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terra-pic/api-go/config"
)

func newPlacesServer(t *testing.T, handler http.HandlerFunc) *GooglePlacesClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewGooglePlacesClient(&config.PlacesConfig{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Language: "ja",
	})
}

func TestTextSearchMapsResults(t *testing.T) {
	client := newPlacesServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/textsearch/json", r.URL.Path)
		assert.Equal(t, "sensoji", r.URL.Query().Get("query"))
		assert.Equal(t, "ja", r.URL.Query().Get("language"))
		assert.Equal(t, "35.71,139.79", r.URL.Query().Get("location"))
		assert.Equal(t, "5000", r.URL.Query().Get("radius"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "OK",
			"results": [
				{
					"place_id": "ChIJabc",
					"name": "Sensoji",
					"formatted_address": "2-3-1 Asakusa",
					"geometry": {"location": {"lat": 35.7148, "lng": 139.7967}}
				},
				{
					"place_id": "ChIJdef",
					"name": "Nakamise Street",
					"formatted_address": "1-36-3 Asakusa",
					"geometry": {"location": {"lat": 35.7117, "lng": 139.7966}}
				}
			]
		}`))
	})

	lat, lon := 35.71, 139.79
	places, err := client.TextSearch(context.Background(), "sensoji", &lat, &lon, 10)
	require.NoError(t, err)
	require.Len(t, places, 2)

	assert.Equal(t, "ChIJabc", places[0].PlaceID)
	assert.Equal(t, "Sensoji", places[0].Name)
	assert.InDelta(t, 35.7148, places[0].Latitude, 1e-9)
	assert.Equal(t, "2-3-1 Asakusa", places[0].FormattedAddress)
}

func TestTextSearchHonorsLimit(t *testing.T) {
	client := newPlacesServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": "OK",
			"results": [
				{"place_id": "a", "name": "A", "geometry": {"location": {"lat": 1, "lng": 1}}},
				{"place_id": "b", "name": "B", "geometry": {"location": {"lat": 2, "lng": 2}}},
				{"place_id": "c", "name": "C", "geometry": {"location": {"lat": 3, "lng": 3}}}
			]
		}`))
	})

	places, err := client.TextSearch(context.Background(), "park", nil, nil, 2)
	require.NoError(t, err)
	assert.Len(t, places, 2)
}

func TestTextSearchZeroResultsIsEmptyNotError(t *testing.T) {
	client := newPlacesServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("location"), "no bias without coordinates")
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	places, err := client.TextSearch(context.Background(), "xyzzy", nil, nil, 10)
	require.NoError(t, err)
	assert.NotNil(t, places)
	assert.Empty(t, places)
}

func TestTextSearchRequestDenied(t *testing.T) {
	client := newPlacesServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`))
	})

	_, err := client.TextSearch(context.Background(), "park", nil, nil, 10)
	var externalErr *ExternalServiceError
	require.ErrorAs(t, err, &externalErr)
	assert.Equal(t, "google_places", externalErr.Service)
	assert.False(t, externalErr.Retryable)
	assert.Contains(t, externalErr.Message, "REQUEST_DENIED")
}

func TestTextSearchQuotaExhaustedIsRetryable(t *testing.T) {
	client := newPlacesServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "OVER_QUERY_LIMIT"}`))
	})

	_, err := client.TextSearch(context.Background(), "park", nil, nil, 10)
	var externalErr *ExternalServiceError
	require.ErrorAs(t, err, &externalErr)
	assert.True(t, externalErr.Retryable)
}

func TestTextSearchTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	client := NewGooglePlacesClient(&config.PlacesConfig{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Language: "ja",
	})

	_, err := client.TextSearch(context.Background(), "park", nil, nil, 10)
	var externalErr *ExternalServiceError
	require.ErrorAs(t, err, &externalErr)
	assert.True(t, externalErr.Retryable)
}
