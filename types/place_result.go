package types

// FormattedPlace is the wire shape both place variants reduce to.
type FormattedPlace struct {
	ID               interface{} `json:"id"`
	Name             string      `json:"name"`
	Latitude         float64     `json:"latitude"`
	Longitude        float64     `json:"longitude"`
	FormattedAddress string      `json:"formatted_address,omitempty"`
	Rating           *float64    `json:"rating,omitempty"`
	IsExternal       bool        `json:"is_external"`
}

// LocalPlaceData is the subset of a stored place the lookup flow
// exposes.
type LocalPlaceData struct {
	ID        uint
	Name      string
	Latitude  float64
	Longitude float64
	Rating    *float64
}

// ExternalPlaceData mirrors a provider result.
type ExternalPlaceData struct {
	PlaceID          string
	Name             string
	Latitude         float64
	Longitude        float64
	FormattedAddress string
}

// PlaceResult is a tagged variant: exactly one of Local or External is
// set. It replaces passing either a persisted record or a raw provider
// payload through the same code path and sniffing which one arrived.
type PlaceResult struct {
	Local    *LocalPlaceData
	External *ExternalPlaceData
}

func LocalPlace(p LocalPlaceData) PlaceResult {
	return PlaceResult{Local: &p}
}

func ExternalPlace(p ExternalPlaceData) PlaceResult {
	return PlaceResult{External: &p}
}

// Format renders either variant into the one response shape.
func (r PlaceResult) Format() FormattedPlace {
	if r.External != nil {
		return FormattedPlace{
			ID:               r.External.PlaceID,
			Name:             r.External.Name,
			Latitude:         r.External.Latitude,
			Longitude:        r.External.Longitude,
			FormattedAddress: r.External.FormattedAddress,
			IsExternal:       true,
		}
	}
	return FormattedPlace{
		ID:        r.Local.ID,
		Name:      r.Local.Name,
		Latitude:  r.Local.Latitude,
		Longitude: r.Local.Longitude,
		Rating:    r.Local.Rating,
	}
}
