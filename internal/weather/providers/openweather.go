package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/mkravets/weather-lookup/internal/weather"
)

// OpenWeatherClient implements the weather.Client interface for OpenWeatherMap.
// A lookup is two calls: geocoding the "{City},{CC}" identifier into
// coordinates, then either the timemachine endpoint (past instants) or the
// 5-day/3-hour forecast (future instants). Each endpoint gets exactly one
// outbound attempt; the circuit breaker only fails fast after the provider
// has been consistently down.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker

	now func() time.Time
}

// NewOpenWeatherClient creates a client authenticated with apiKey. The passed
// http.Client carries the outbound timeout.
func NewOpenWeatherClient(client *http.Client, apiKey string) *OpenWeatherClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherClient{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org",
		client:  client,
		circuit: cb,
		now:     time.Now,
	}
}

// Fetch resolves the location to coordinates and retrieves the conditions
// closest to the requested instant.
func (c *OpenWeatherClient) Fetch(ctx context.Context, loc weather.ResolvedLocation, instant weather.NormalizedInstant) (weather.WeatherResult, error) {
	lat, lon, err := c.geocode(ctx, loc)
	if err != nil {
		return weather.WeatherResult{}, err
	}

	if instant.Time.After(c.now()) {
		return c.fetchForecast(ctx, lat, lon, instant)
	}
	return c.fetchHistorical(ctx, lat, lon, instant)
}

func (c *OpenWeatherClient) geocode(ctx context.Context, loc weather.ResolvedLocation) (lat, lon float64, err error) {
	values := url.Values{}
	values.Set("q", loc.Name)
	values.Set("limit", "1")
	values.Set("appid", c.apiKey)

	var results []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := c.getJSON(ctx, "/geo/1.0/direct", values, &results); err != nil {
		return 0, 0, err
	}

	// OpenWeather answers 200 with an empty array for unknown places.
	if len(results) == 0 {
		return 0, 0, &weather.UpstreamRejectedError{
			StatusCode: http.StatusNotFound,
			Message:    "city not found",
		}
	}
	return results[0].Lat, results[0].Lon, nil
}

func (c *OpenWeatherClient) fetchHistorical(ctx context.Context, lat, lon float64, instant weather.NormalizedInstant) (weather.WeatherResult, error) {
	values := url.Values{}
	values.Set("lat", formatCoord(lat))
	values.Set("lon", formatCoord(lon))
	values.Set("dt", strconv.FormatInt(instant.Unix(), 10))
	values.Set("units", "metric")
	values.Set("appid", c.apiKey)

	var payload struct {
		Current *struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Pressure  float64 `json:"pressure"`
			Humidity  float64 `json:"humidity"`
			Clouds    float64 `json:"clouds"`
			WindSpeed float64 `json:"wind_speed"`
			Weather   []struct {
				Main        string `json:"main"`
				Description string `json:"description"`
			} `json:"weather"`
		} `json:"current"`
	}
	if err := c.getJSON(ctx, "/data/2.5/onecall/timemachine", values, &payload); err != nil {
		return weather.WeatherResult{}, err
	}

	if payload.Current == nil {
		return weather.WeatherResult{}, errOutsideWindow()
	}

	cur := payload.Current
	result := weather.WeatherResult{
		Temperature: cur.Temp,
		FeelsLike:   cur.FeelsLike,
		Pressure:    cur.Pressure,
		Humidity:    cur.Humidity,
		Clouds:      cur.Clouds,
		WindSpeed:   cur.WindSpeed,
		Condition:   weather.ConditionUnknown,
	}
	if len(cur.Weather) > 0 {
		result.Condition = mapCondition(cur.Weather[0].Main)
		result.Description = cur.Weather[0].Description
	}
	return result, nil
}

func (c *OpenWeatherClient) fetchForecast(ctx context.Context, lat, lon float64, instant weather.NormalizedInstant) (weather.WeatherResult, error) {
	values := url.Values{}
	values.Set("lat", formatCoord(lat))
	values.Set("lon", formatCoord(lon))
	values.Set("units", "metric")
	values.Set("appid", c.apiKey)

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp      float64 `json:"temp"`
				FeelsLike float64 `json:"feels_like"`
				Pressure  float64 `json:"pressure"`
				Humidity  float64 `json:"humidity"`
			} `json:"main"`
			Wind struct {
				Speed float64 `json:"speed"`
			} `json:"wind"`
			Clouds struct {
				All float64 `json:"all"`
			} `json:"clouds"`
			Weather []struct {
				Main        string `json:"main"`
				Description string `json:"description"`
			} `json:"weather"`
		} `json:"list"`
	}
	if err := c.getJSON(ctx, "/data/2.5/forecast", values, &payload); err != nil {
		return weather.WeatherResult{}, err
	}

	// The forecast comes in 3-hour steps; pick the entry on the requested day
	// closest to the requested time.
	target := instant.Time
	best := -1
	var bestDiff time.Duration
	for i, entry := range payload.List {
		ts := time.Unix(entry.Dt, 0).In(target.Location())
		if ts.Year() != target.Year() || ts.YearDay() != target.YearDay() {
			continue
		}
		diff := ts.Sub(target)
		if diff < 0 {
			diff = -diff
		}
		if best == -1 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	if best == -1 {
		return weather.WeatherResult{}, errOutsideWindow()
	}

	entry := payload.List[best]
	result := weather.WeatherResult{
		Temperature: entry.Main.Temp,
		FeelsLike:   entry.Main.FeelsLike,
		Pressure:    entry.Main.Pressure,
		Humidity:    entry.Main.Humidity,
		Clouds:      entry.Clouds.All,
		WindSpeed:   entry.Wind.Speed,
		Condition:   weather.ConditionUnknown,
	}
	if len(entry.Weather) > 0 {
		result.Condition = mapCondition(entry.Weather[0].Main)
		result.Description = entry.Weather[0].Description
	}
	return result, nil
}

// getJSON performs a single GET through the circuit breaker and decodes the
// body into out. Transport failures and provider 5xx answers count against
// the breaker; client-side rejections do not.
func (c *OpenWeatherClient) getJSON(ctx context.Context, path string, values url.Values, out interface{}) error {
	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, values.Encode())

	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if reqErr != nil {
			return nil, reqErr
		}

		resp, doErr := c.client.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, fmt.Errorf("server error: %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: circuit breaker open", weather.ErrUpstreamUnavailable)
		}
		return fmt.Errorf("%w: %v", weather.ErrUpstreamUnavailable, err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return fmt.Errorf("%w: unexpected result type from circuit breaker", weather.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &weather.UpstreamRejectedError{
			StatusCode: resp.StatusCode,
			Message:    decodeEnvelopeMessage(resp.Body),
		}
	}

	if decErr := json.NewDecoder(resp.Body).Decode(out); decErr != nil {
		return fmt.Errorf("%w: %v", weather.ErrUpstreamResponseInvalid, decErr)
	}
	return nil
}

// decodeEnvelopeMessage extracts the message from OpenWeather's error
// envelope, e.g. {"cod":"404","message":"city not found"}.
func decodeEnvelopeMessage(r io.Reader) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&envelope); err != nil || envelope.Message == "" {
		return "request rejected by weather provider"
	}
	return envelope.Message
}

// errOutsideWindow reports a date the provider has no data for; OpenWeather
// serves roughly the last and next five days on the free plan.
func errOutsideWindow() error {
	return &weather.UpstreamRejectedError{
		StatusCode: http.StatusNotFound,
		Message:    "weather is only available for the last and next five days",
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func mapCondition(main string) weather.Condition {
	switch main {
	case "Clear":
		return weather.ConditionClear
	case "Clouds":
		return weather.ConditionCloudy
	case "Rain", "Drizzle":
		return weather.ConditionRain
	case "Snow":
		return weather.ConditionSnow
	case "Thunderstorm":
		return weather.ConditionStorm
	case "Mist", "Fog", "Haze":
		return weather.ConditionMist
	default:
		return weather.ConditionUnknown
	}
}
