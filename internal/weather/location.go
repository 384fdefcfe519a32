package weather

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LocationResolver normalizes a (country_code, city) pair into the identifier
// form the provider's geocoding accepts.
type LocationResolver struct{}

// Resolve validates the pair and produces the "{City},{CC}" identifier.
// Country codes are checked for ISO 3166-1 alpha-2 shape only; codes that are
// well-formed but unknown are passed through for the provider to reject.
func (LocationResolver) Resolve(countryCode, city string) (ResolvedLocation, error) {
	countryCode = strings.TrimSpace(countryCode)
	if err := validate.Var(countryCode, "required,len=2,alpha"); err != nil {
		return ResolvedLocation{}, &InvalidLocationError{Reason: "country code must be exactly 2 letters"}
	}

	city = strings.TrimSpace(city)
	if city == "" {
		return ResolvedLocation{}, &InvalidLocationError{Reason: "city must not be empty"}
	}

	return ResolvedLocation{Name: city + "," + strings.ToUpper(countryCode)}, nil
}
