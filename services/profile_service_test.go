package services

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleFollowRejectsSelf(t *testing.T) {
	svc := NewProfileService(nil)

	_, _, err := svc.ToggleFollow(context.Background(), 7, 7)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "user_id", validationErr.Field)
}

func TestToggleFollowCreatesAndCounts(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewProfileService(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(2, "ken"))
	// Not following yet.
	mock.ExpectQuery(`SELECT \* FROM "follows"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "follows"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	following, count, err := svc.ToggleFollow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, following)
	assert.Equal(t, int64(11), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleFollowRemoves(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewProfileService(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(2, "ken"))
	mock.ExpectQuery(`SELECT \* FROM "follows"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "follower_id", "followed_id"}).AddRow(4, 1, 2))
	mock.ExpectExec(`DELETE FROM "follows"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))

	following, count, err := svc.ToggleFollow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, following)
	assert.Equal(t, int64(10), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleFollowMissingTarget(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewProfileService(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := svc.ToggleFollow(context.Background(), 1, 99)
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "user", notFoundErr.Resource)
}

func TestUpdateProfileFieldLimits(t *testing.T) {
	longName := strings.Repeat("n", maxNameLength+1)
	longBio := strings.Repeat("b", maxBioLength+1)

	cases := []struct {
		name  string
		in    UpdateProfileInput
		field string
	}{
		{"name too long", UpdateProfileInput{Name: &longName}, "name"},
		{"bio too long", UpdateProfileInput{Bio: &longBio}, "bio"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			svc := NewProfileService(db)

			mock.ExpectQuery(`SELECT \* FROM "users"`).
				WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "aya"))

			_, err := svc.UpdateProfile(context.Background(), 1, tc.in)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}
}

func TestUpdateProfileUsernameTaken(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewProfileService(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "aya"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	taken := "ken"
	_, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileInput{Username: &taken})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "username", validationErr.Field)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportUserValidation(t *testing.T) {
	svc := NewProfileService(nil)
	ctx := context.Background()

	err := svc.ReportUser(ctx, 1, 2, "  ")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "reason", validationErr.Field)

	err = svc.ReportUser(ctx, 1, 1, "spam")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "user_id", validationErr.Field)
}
