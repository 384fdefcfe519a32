package weather

import (
	"context"
)

// LookupQuery holds the raw lookup parameters extracted from a request.
type LookupQuery struct {
	CountryCode string
	City        string
	Date        string
}

// requiredParams lists the query keys a lookup needs, in validation order.
var requiredParams = []string{"country_code", "city", "date"}

// QueryFromParams builds a LookupQuery from raw request parameters. It either
// succeeds fully or fails with a MissingParameterError naming the first
// absent key; no partially-valid query is ever produced.
func QueryFromParams(params map[string]string) (LookupQuery, error) {
	values := make(map[string]string, len(requiredParams))
	for _, name := range requiredParams {
		v, ok := params[name]
		if !ok || v == "" {
			return LookupQuery{}, &MissingParameterError{Name: name}
		}
		values[name] = v
	}

	return LookupQuery{
		CountryCode: values["country_code"],
		City:        values["city"],
		Date:        values["date"],
	}, nil
}

// Service orchestrates a single weather lookup: parameter extraction,
// location and timestamp normalization, and the provider call.
type Service struct {
	resolver  LocationResolver
	converter TimeConverter
	client    Client
}

// NewService creates a new Service.
func NewService(converter TimeConverter, client Client) *Service {
	return &Service{
		converter: converter,
		client:    client,
	}
}

// Lookup runs the validation gates in order and performs the provider call.
// Each gate short-circuits on failure and every component's error kind is
// propagated unchanged; the caller gets either a full result or one error.
func (s *Service) Lookup(ctx context.Context, params map[string]string) (WeatherResult, error) {
	query, err := QueryFromParams(params)
	if err != nil {
		return WeatherResult{}, err
	}

	loc, err := s.resolver.Resolve(query.CountryCode, query.City)
	if err != nil {
		return WeatherResult{}, err
	}

	instant, err := s.converter.Convert(query.Date)
	if err != nil {
		return WeatherResult{}, err
	}

	result, err := s.client.Fetch(ctx, loc, instant)
	if err != nil {
		return WeatherResult{}, err
	}

	// Echo the lookup context the caller asked about.
	result.Location = loc.Name
	result.Timestamp = instant.Time
	return result, nil
}
