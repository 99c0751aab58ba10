package services

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"github.com/terra-pic/api-go/cache"
	"gorm.io/gorm"
)

// haversineSQL is the great-circle distance in kilometers between the
// given point and a place row, evaluated in the database so radius
// filtering and distance ordering happen in one pass.
const haversineSQL = "(6371 * acos(cos(radians(?)) * cos(radians(latitude)) * cos(radians(longitude) - radians(?)) + sin(radians(?)) * sin(radians(latitude))))"

type GeoService struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

func NewGeoService(db *gorm.DB, c *cache.Cache) *GeoService {
	return &GeoService{DB: db, Cache: c}
}

// PlaceSummary is a place annotated with the aggregate counts map views
// need. Distance is only set by radius searches.
type PlaceSummary struct {
	ID            uint     `json:"id" gorm:"column:id"`
	Name          string   `json:"name" gorm:"column:name"`
	Latitude      float64  `json:"latitude" gorm:"column:latitude"`
	Longitude     float64  `json:"longitude" gorm:"column:longitude"`
	Rating        *float64 `json:"rating" gorm:"column:rating"`
	PostCount     int64    `json:"post_count" gorm:"column:post_count"`
	FavoriteCount int64    `json:"favorite_count" gorm:"column:favorite_count"`
	Distance      float64  `json:"distance,omitempty" gorm:"column:distance"`
}

const annotatedPlaceColumns = `places.id, places.name, places.latitude, places.longitude, places.rating,
	(SELECT COUNT(*) FROM posts WHERE posts.place_id = places.id AND posts.deleted_at IS NULL) AS post_count,
	(SELECT COUNT(*) FROM favorites WHERE favorites.place_id = places.id) AS favorite_count`

func validateLatitude(field string, lat float64) error {
	if lat < -90 || lat > 90 {
		return NewValidationError(field, "latitude must be between -90 and 90")
	}
	return nil
}

func validateLongitude(field string, lon float64) error {
	if lon < -180 || lon > 180 {
		return NewValidationError(field, "longitude must be between -180 and 180")
	}
	return nil
}

// FindInBounds returns the places inside the given viewport rectangle.
// This is a plain coordinate-range filter with no spherical correction,
// matching how map clients send their viewport; it is imprecise near the
// poles and the antimeridian.
func (s *GeoService) FindInBounds(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]PlaceSummary, error) {
	if err := validateLatitude("min_lat", minLat); err != nil {
		return nil, err
	}
	if err := validateLatitude("max_lat", maxLat); err != nil {
		return nil, err
	}
	if err := validateLongitude("min_lon", minLon); err != nil {
		return nil, err
	}
	if err := validateLongitude("max_lon", maxLon); err != nil {
		return nil, err
	}
	if minLat > maxLat {
		return nil, NewValidationError("min_lat", "min_lat must not exceed max_lat")
	}
	if minLon > maxLon {
		return nil, NewValidationError("min_lon", "min_lon must not exceed max_lon")
	}

	places := make([]PlaceSummary, 0)
	err := s.DB.WithContext(ctx).
		Table("places").
		Select(annotatedPlaceColumns).
		Where("latitude BETWEEN ? AND ?", minLat, maxLat).
		Where("longitude BETWEEN ? AND ?", minLon, maxLon).
		Scan(&places).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying places in bounds")
	}

	return places, nil
}

// FindNearby returns places within radiusKm of the center, closest
// first, each annotated with its distance. Results are memoized for a
// few minutes; a stale entry only delays a brand-new place appearing on
// the map, counters are not served from here.
func (s *GeoService) FindNearby(ctx context.Context, lat, lon, radiusKm float64) ([]PlaceSummary, error) {
	if err := validateLatitude("latitude", lat); err != nil {
		return nil, err
	}
	if err := validateLongitude("longitude", lon); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		return nil, NewValidationError("radius", "radius must be greater than zero")
	}

	key := cache.NearbyKey(lat, lon, radiusKm)
	cached := make([]PlaceSummary, 0)
	if hit, err := s.Cache.GetJSON(ctx, key, &cached); err != nil {
		log.Printf("nearby cache read failed: %v", err)
	} else if hit {
		return cached, nil
	}

	places := make([]PlaceSummary, 0)
	err := s.DB.WithContext(ctx).
		Table("places").
		Select(annotatedPlaceColumns+", "+haversineSQL+" AS distance", lat, lon, lat).
		Where(haversineSQL+" <= ?", lat, lon, lat, radiusKm).
		Order("distance").
		Scan(&places).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying nearby places")
	}

	if err := s.Cache.SetJSON(ctx, key, places, cache.NearbyPlacesTTL); err != nil {
		log.Printf("nearby cache write failed: %v", err)
	}

	return places, nil
}
