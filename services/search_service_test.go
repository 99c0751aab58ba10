package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terra-pic/api-go/cache"
)

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return cache.New(rdb), mr
}

func TestSearchBlankQueryShortCircuits(t *testing.T) {
	// Neither cache nor database may be touched; both are nil here and
	// would panic if reached.
	svc := NewSearchService(nil, nil, nil)

	for _, query := range []string{"", "   ", "\t"} {
		response, err := svc.Search(context.Background(), query)
		require.NoError(t, err)
		assert.NotNil(t, response.Users)
		assert.NotNil(t, response.Posts)
		assert.NotNil(t, response.Places)
		assert.Empty(t, response.Users)
		assert.Empty(t, response.Posts)
		assert.Empty(t, response.Places)
	}
}

func TestSearchServesFromCache(t *testing.T) {
	memo, _ := newTestCache(t)
	svc := NewSearchService(nil, memo, nil)
	ctx := context.Background()

	cached := &SearchResponse{
		Users: []UserSearchResult{{ID: 1, Username: "aya", FollowerCount: 10}},
		Posts: []PostSearchResult{},
		Places: []PlaceSearchResult{
			{ID: 5, Name: "Tokyo Tower", Latitude: 35.6586, Longitude: 139.7454, PostCount: 12},
		},
	}
	require.NoError(t, memo.SetJSON(ctx, cache.SearchKey("tokyo"), cached, cache.SearchTTL))

	// A nil database proves the hit never reaches SQL.
	response, err := svc.Search(ctx, "tokyo")
	require.NoError(t, err)
	require.Len(t, response.Users, 1)
	assert.Equal(t, "aya", response.Users[0].Username)
	require.Len(t, response.Places, 1)
	assert.Equal(t, "Tokyo Tower", response.Places[0].Name)
}

func TestSuggestionsMinimumLength(t *testing.T) {
	svc := NewSearchService(nil, nil, nil)
	ctx := context.Background()

	for _, query := range []string{"", "a", " a ", "日"} {
		suggestions, err := svc.Suggestions(ctx, query)
		require.NoError(t, err)
		assert.Empty(t, suggestions)
	}
}

func TestSuggestionsCountRunesNotBytes(t *testing.T) {
	memo, _ := newTestCache(t)
	svc := NewSearchService(nil, memo, nil)
	ctx := context.Background()

	// Two multibyte characters pass the minimum; seed the cache so the
	// query is answered without a database.
	seeded := []Suggestion{{Type: "place", Text: "東京タワー", ID: 5}}
	require.NoError(t, memo.SetJSON(ctx, cache.SuggestionKey("東京"), seeded, cache.SuggestionTTL))

	suggestions, err := svc.Suggestions(ctx, "東京")
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "東京タワー", suggestions[0].Text)
}

func TestLookupPlacesForPostRequiresQuery(t *testing.T) {
	svc := NewSearchService(nil, nil, nil)

	_, err := svc.LookupPlacesForPost(context.Background(), "  ", nil, nil)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "q", validationErr.Field)
}

type stubProvider struct {
	results []ExternalPlace
	err     error
}

func (s *stubProvider) TextSearch(ctx context.Context, query string, lat, lon *float64, limit int) ([]ExternalPlace, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func TestLookupPlacesForPostMergesLocalAndExternal(t *testing.T) {
	db, mock := newMockDB(t)
	provider := &stubProvider{results: []ExternalPlace{
		{PlaceID: "ChIJabc", Name: "Sensoji", Latitude: 35.7148, Longitude: 139.7967, FormattedAddress: "Asakusa"},
	}}
	svc := NewSearchService(db, nil, provider)

	mock.ExpectQuery(`SELECT .+ FROM "places"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "latitude", "longitude", "rating"}).
			AddRow(3, "Sensoji Temple", 35.7148, 139.7967, 4.6))

	results, err := svc.LookupPlacesForPost(context.Background(), "sensoji", nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.NotNil(t, results[0].Local, "stored places come first")
	assert.Nil(t, results[0].External)
	assert.NotNil(t, results[1].External)

	formatted := results[1].Format()
	assert.True(t, formatted.IsExternal)
	assert.Equal(t, "ChIJabc", formatted.ID)
}

func TestLookupPlacesForPostPropagatesProviderFailure(t *testing.T) {
	db, mock := newMockDB(t)
	provider := &stubProvider{err: &ExternalServiceError{Service: "google_places", Message: "denied"}}
	svc := NewSearchService(db, nil, provider)

	mock.ExpectQuery(`SELECT .+ FROM "places"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "latitude", "longitude", "rating"}))

	_, err := svc.LookupPlacesForPost(context.Background(), "sensoji", nil, nil)
	var externalErr *ExternalServiceError
	require.ErrorAs(t, err, &externalErr)
	assert.Equal(t, "google_places", externalErr.Service)
}
