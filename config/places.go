package config

import (
	"os"
)

type PlacesConfig struct {
	APIKey   string
	BaseURL  string
	Language string
}

func GetPlacesConfig() *PlacesConfig {
	baseURL := os.Getenv("GOOGLE_PLACES_BASE_URL")
	if baseURL == "" {
		baseURL = "https://maps.googleapis.com/maps/api/place"
	}

	language := os.Getenv("GOOGLE_PLACES_LANGUAGE")
	if language == "" {
		language = "ja"
	}

	return &PlacesConfig{
		APIKey:   os.Getenv("GOOGLE_PLACES_API_KEY"),
		BaseURL:  baseURL,
		Language: language,
	}
}
