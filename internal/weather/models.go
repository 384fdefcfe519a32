package weather

import (
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// ResolvedLocation is the normalized "{City},{CC}" identifier the provider's
// geocoding accepts. It lives only for the request that produced it.
type ResolvedLocation struct {
	Name string `json:"name"`
}

// NormalizedInstant is the absolute point in time a lookup targets, produced
// by anchoring the raw local timestamp in the configured reference zone.
type NormalizedInstant struct {
	Time time.Time
}

// Unix returns the instant in the form the provider's time-based endpoints expect.
func (n NormalizedInstant) Unix() int64 {
	return n.Time.Unix()
}

// WeatherResult is the provider's answer for a single lookup plus the echoed
// location and time context. Constructed once per successful call, never retained.
type WeatherResult struct {
	Location    string    `json:"location"`
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperatureC"`
	FeelsLike   float64   `json:"feelsLikeC"`
	Humidity    float64   `json:"humidityPercent"`
	Pressure    float64   `json:"pressureHpa"`
	WindSpeed   float64   `json:"windSpeedMs"`
	Clouds      float64   `json:"cloudsPercent"`
	Condition   Condition `json:"condition"`
	Description string    `json:"description,omitempty"`
}
