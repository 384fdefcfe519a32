package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mkravets/weather-lookup/internal/weather"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	app.Get("/weather", func(c *fiber.Ctx) error {
		params := map[string]string{
			"country_code": c.Query("country_code"),
			"city":         c.Query("city"),
			"date":         c.Query("date"),
		}

		result, err := service.Lookup(c.Context(), params)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(result)
	})
}

// httpError maps each domain error kind onto its HTTP status. The lookup
// never converts between kinds, so the mapping here is exhaustive.
func httpError(err error) *fiber.Error {
	var missing *weather.MissingParameterError
	var invalidLoc *weather.InvalidLocationError
	var badTime *weather.MalformedTimestampError
	var rejected *weather.UpstreamRejectedError

	switch {
	case errors.As(err, &missing), errors.As(err, &invalidLoc), errors.As(err, &badTime):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.As(err, &rejected):
		// Forward the provider's own client-error status when it gave one.
		status := fiber.StatusNotFound
		if rejected.StatusCode >= 400 && rejected.StatusCode < 500 {
			status = rejected.StatusCode
		}
		return fiber.NewError(status, rejected.Message)
	case errors.Is(err, weather.ErrUpstreamResponseInvalid):
		return fiber.NewError(fiber.StatusBadGateway, "weather provider returned an unexpected response")
	case errors.Is(err, weather.ErrUpstreamUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, "weather provider is unavailable")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}
