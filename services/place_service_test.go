package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleFavoriteAddsAndCounts(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPlaceService(db)

	mock.ExpectQuery(`SELECT \* FROM "places"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "latitude", "longitude"}).
			AddRow(5, "Ueno Park", 35.7148, 139.7737))
	// No existing favorite.
	mock.ExpectQuery(`SELECT \* FROM "favorites"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "favorites"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	// The count is always read live after the write.
	mock.ExpectQuery(`SELECT count\(\*\) FROM "favorites"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	favorited, count, err := svc.ToggleFavorite(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.True(t, favorited)
	assert.Equal(t, int64(4), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleFavoriteRemoves(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPlaceService(db)

	mock.ExpectQuery(`SELECT \* FROM "places"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "latitude", "longitude"}).
			AddRow(5, "Ueno Park", 35.7148, 139.7737))
	mock.ExpectQuery(`SELECT \* FROM "favorites"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "place_id"}).AddRow(9, 1, 5))
	mock.ExpectExec(`DELETE FROM "favorites"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "favorites"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	favorited, count, err := svc.ToggleFavorite(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.False(t, favorited)
	assert.Equal(t, int64(3), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleFavoriteMissingPlace(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPlaceService(db)

	mock.ExpectQuery(`SELECT \* FROM "places"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := svc.ToggleFavorite(context.Background(), 1, 99)
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "place", notFoundErr.Resource)
}

func TestGetTopPhotoNoPostsReportsPlace(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPlaceService(db)

	mock.ExpectQuery(`SELECT \* FROM "places"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "latitude", "longitude"}).
			AddRow(5, "Ueno Park", 35.7148, 139.7737))
	mock.ExpectQuery(`SELECT \* FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.GetTopPhoto(context.Background(), 5, nil, nil)
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "place photo", notFoundErr.Resource)
	assert.Equal(t, uint(5), notFoundErr.ID, "the id in the error is the place's, so name the place")
}

func TestFavoriteStatus(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPlaceService(db)

	mock.ExpectQuery(`SELECT \* FROM "places"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "latitude", "longitude"}).
			AddRow(5, "Ueno Park", 35.7148, 139.7737))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "favorites"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "favorites"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	favorited, count, err := svc.FavoriteStatus(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.True(t, favorited)
	assert.Equal(t, int64(6), count)
	require.NoError(t, mock.ExpectationsWereMet())
}
