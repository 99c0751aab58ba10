package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindInBoundsValidation(t *testing.T) {
	// Validation runs before any query, so a nil connection is safe.
	svc := NewGeoService(nil, nil)
	ctx := context.Background()

	cases := []struct {
		name                   string
		minLat, maxLat         float64
		minLon, maxLon         float64
		field                  string
	}{
		{"latitude below range", -91, 0, 0, 10, "min_lat"},
		{"latitude above range", 0, 95, 0, 10, "max_lat"},
		{"longitude below range", 0, 10, -181, 10, "min_lon"},
		{"longitude above range", 0, 10, 0, 200, "max_lon"},
		{"inverted latitudes", 50, 40, 0, 10, "min_lat"},
		{"inverted longitudes", 0, 10, 30, 20, "min_lon"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.FindInBounds(ctx, tc.minLat, tc.maxLat, tc.minLon, tc.maxLon)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}
}

func TestFindNearbyValidation(t *testing.T) {
	svc := NewGeoService(nil, nil)
	ctx := context.Background()

	_, err := svc.FindNearby(ctx, 95, 139.7, 5)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "latitude", validationErr.Field)

	_, err = svc.FindNearby(ctx, 35.6, 190, 5)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "longitude", validationErr.Field)

	_, err = svc.FindNearby(ctx, 35.6, 139.7, 0)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "radius", validationErr.Field)

	_, err = svc.FindNearby(ctx, 35.6, 139.7, -3)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "radius", validationErr.Field)
}

func TestFindInBoundsReturnsAnnotatedPlaces(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewGeoService(db, nil)

	rows := sqlmock.NewRows([]string{"id", "name", "latitude", "longitude", "rating", "post_count", "favorite_count"}).
		AddRow(1, "Shibuya Crossing", 35.6595, 139.7005, 4.5, 30, 12).
		AddRow(2, "Ueno Park", 35.7148, 139.7737, nil, 4, 0)
	mock.ExpectQuery(`SELECT .+ FROM "places"`).WillReturnRows(rows)

	places, err := svc.FindInBounds(context.Background(), 35.0, 36.0, 139.0, 140.0)
	require.NoError(t, err)
	require.Len(t, places, 2)

	assert.Equal(t, "Shibuya Crossing", places[0].Name)
	assert.Equal(t, int64(30), places[0].PostCount)
	assert.Equal(t, int64(12), places[0].FavoriteCount)
	assert.Nil(t, places[1].Rating)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindInBoundsEmptyViewport(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewGeoService(db, nil)

	mock.ExpectQuery(`SELECT .+ FROM "places"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "latitude", "longitude", "rating", "post_count", "favorite_count"}))

	places, err := svc.FindInBounds(context.Background(), 0, 1, 0, 1)
	require.NoError(t, err)
	assert.NotNil(t, places)
	assert.Empty(t, places)
}

func TestFindNearbyOrdersByDistance(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewGeoService(db, nil)

	rows := sqlmock.NewRows([]string{"id", "name", "latitude", "longitude", "rating", "post_count", "favorite_count", "distance"}).
		AddRow(2, "Near", 35.66, 139.70, nil, 1, 0, 0.4).
		AddRow(1, "Far", 35.70, 139.75, 4.0, 9, 2, 4.8)
	mock.ExpectQuery(`SELECT .+ FROM "places"`).WillReturnRows(rows)

	places, err := svc.FindNearby(context.Background(), 35.6595, 139.7005, 5)
	require.NoError(t, err)
	require.Len(t, places, 2)

	assert.Equal(t, "Near", places[0].Name)
	assert.InDelta(t, 0.4, places[0].Distance, 1e-9)
	require.NoError(t, mock.ExpectationsWereMet())
}
