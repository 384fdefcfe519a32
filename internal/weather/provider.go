package weather

import (
	"context"
)

// Client abstracts the external weather provider behind the single fetch the
// lookup needs. Concrete clients hold their own credential and HTTP plumbing,
// so tests substitute a stub without network access.
type Client interface {
	Fetch(ctx context.Context, loc ResolvedLocation, instant NormalizedInstant) (WeatherResult, error)
}
