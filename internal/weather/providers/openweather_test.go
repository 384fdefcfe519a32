package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mkravets/weather-lookup/internal/weather"
)

var moscow = weather.ResolvedLocation{Name: "Moscow,RU"}

func newTestClient(t *testing.T, handler http.Handler) (*OpenWeatherClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewOpenWeatherClient(srv.Client(), "test-key")
	client.baseURL = srv.URL
	return client, srv
}

func geocodeHandler(mux *http.ServeMux) {
	mux.HandleFunc("/geo/1.0/direct", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":55.7504461,"lon":37.6174943}]`))
	})
}

func TestFetchHistorical(t *testing.T) {
	mux := http.NewServeMux()
	geocodeHandler(mux)

	var gotQuery map[string]string
	mux.HandleFunc("/data/2.5/onecall/timemachine", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"dt":    r.URL.Query().Get("dt"),
			"appid": r.URL.Query().Get("appid"),
			"units": r.URL.Query().Get("units"),
		}
		w.Write([]byte(`{
			"current": {
				"temp": -7.4,
				"feels_like": -13.4,
				"pressure": 1022,
				"humidity": 86,
				"clouds": 90,
				"wind_speed": 5.81,
				"weather": [{"main": "Clouds", "description": "overcast clouds"}]
			}
		}`))
	})

	client, _ := newTestClient(t, mux)

	instant := weather.NormalizedInstant{Time: time.Date(2022, 2, 8, 12, 0, 0, 0, time.UTC)}
	client.now = func() time.Time { return time.Date(2022, 2, 10, 0, 0, 0, 0, time.UTC) }

	got, err := client.Fetch(context.Background(), moscow, instant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Temperature != -7.4 || got.Humidity != 86 || got.WindSpeed != 5.81 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.Condition != weather.ConditionCloudy {
		t.Fatalf("expected condition %q, got %q", weather.ConditionCloudy, got.Condition)
	}
	if got.Description != "overcast clouds" {
		t.Fatalf("expected description carried through, got %q", got.Description)
	}

	if gotQuery["dt"] != "1644321600" {
		t.Fatalf("expected dt=1644321600, got %q", gotQuery["dt"])
	}
	if gotQuery["appid"] != "test-key" || gotQuery["units"] != "metric" {
		t.Fatalf("unexpected query parameters: %v", gotQuery)
	}
}

func TestFetchForecastPicksClosestEntry(t *testing.T) {
	mux := http.NewServeMux()
	geocodeHandler(mux)

	// Entries at 09:00 and 12:00 UTC on the target day plus one on another day.
	mux.HandleFunc("/data/2.5/forecast", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"list": [
				{"dt": 1644224400, "main": {"temp": -3.0}, "weather": [{"main": "Snow", "description": "light snow"}]},
				{"dt": 1644310800, "main": {"temp": -5.0}, "weather": [{"main": "Clear", "description": "clear sky"}]},
				{"dt": 1644321600, "main": {"temp": -7.4}, "weather": [{"main": "Clouds", "description": "overcast clouds"}]}
			]
		}`))
	})

	client, _ := newTestClient(t, mux)

	instant := weather.NormalizedInstant{Time: time.Date(2022, 2, 8, 11, 0, 0, 0, time.UTC)}
	client.now = func() time.Time { return time.Date(2022, 2, 7, 0, 0, 0, 0, time.UTC) }

	got, err := client.Fetch(context.Background(), moscow, instant)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 12:00 is closer to 11:00 than 09:00.
	if got.Temperature != -7.4 || got.Condition != weather.ConditionCloudy {
		t.Fatalf("expected the 12:00 entry, got %+v", got)
	}
}

func TestFetchForecastOutsideWindow(t *testing.T) {
	mux := http.NewServeMux()
	geocodeHandler(mux)
	mux.HandleFunc("/data/2.5/forecast", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"list": []}`))
	})

	client, _ := newTestClient(t, mux)
	client.now = func() time.Time { return time.Date(2022, 2, 7, 0, 0, 0, 0, time.UTC) }

	instant := weather.NormalizedInstant{Time: time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)}
	_, err := client.Fetch(context.Background(), moscow, instant)

	var rejected *weather.UpstreamRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected UpstreamRejectedError, got %v", err)
	}
}

func TestFetchUnknownCity(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geo/1.0/direct", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	client, _ := newTestClient(t, mux)

	instant := weather.NormalizedInstant{Time: time.Date(2022, 2, 8, 12, 0, 0, 0, time.UTC)}
	_, err := client.Fetch(context.Background(), weather.ResolvedLocation{Name: "Nowhere,XX"}, instant)

	var rejected *weather.UpstreamRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected UpstreamRejectedError, got %v", err)
	}
	if rejected.Message != "city not found" {
		t.Fatalf("expected %q, got %q", "city not found", rejected.Message)
	}
}

func TestFetchProviderRejection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geo/1.0/direct", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"cod": 401, "message": "Invalid API key"}`))
	})

	client, _ := newTestClient(t, mux)

	instant := weather.NormalizedInstant{Time: time.Date(2022, 2, 8, 12, 0, 0, 0, time.UTC)}
	_, err := client.Fetch(context.Background(), moscow, instant)

	var rejected *weather.UpstreamRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected UpstreamRejectedError, got %v", err)
	}
	if rejected.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rejected.StatusCode)
	}
	if rejected.Message != "Invalid API key" {
		t.Fatalf("provider message lost: %q", rejected.Message)
	}
}

func TestFetchMalformedResponse(t *testing.T) {
	mux := http.NewServeMux()
	geocodeHandler(mux)
	mux.HandleFunc("/data/2.5/onecall/timemachine", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	client, _ := newTestClient(t, mux)
	client.now = func() time.Time { return time.Date(2022, 2, 10, 0, 0, 0, 0, time.UTC) }

	instant := weather.NormalizedInstant{Time: time.Date(2022, 2, 8, 12, 0, 0, 0, time.UTC)}
	_, err := client.Fetch(context.Background(), moscow, instant)

	if !errors.Is(err, weather.ErrUpstreamResponseInvalid) {
		t.Fatalf("expected ErrUpstreamResponseInvalid, got %v", err)
	}
}

func TestFetchUnreachableProvider(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	client := NewOpenWeatherClient(srv.Client(), "test-key")
	client.baseURL = srv.URL
	srv.Close()

	instant := weather.NormalizedInstant{Time: time.Date(2022, 2, 8, 12, 0, 0, 0, time.UTC)}
	_, err := client.Fetch(context.Background(), moscow, instant)

	if !errors.Is(err, weather.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}
