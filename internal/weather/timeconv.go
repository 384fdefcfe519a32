package weather

import (
	"time"
)

// timestampLayout is the strict wire pattern for lookup dates, e.g. "08.02.2022T12:00".
const timestampLayout = "02.01.2006T15:04"

// TimeConverter interprets raw local timestamps in the single configured
// reference time zone. It applies exactly one deterministic offset; it never
// consults the zone database beyond the zone it was constructed with.
type TimeConverter struct {
	loc *time.Location
}

// NewTimeConverter creates a converter anchored in loc. A nil loc falls back to UTC.
func NewTimeConverter(loc *time.Location) TimeConverter {
	if loc == nil {
		loc = time.UTC
	}
	return TimeConverter{loc: loc}
}

// Convert parses raw against the DD.MM.YYYYTHH:MM layout and anchors it in
// the reference zone. Out-of-range fields (Feb 30, month 13, hour 25) fail;
// values are never clamped.
func (c TimeConverter) Convert(raw string) (NormalizedInstant, error) {
	t, err := time.ParseInLocation(timestampLayout, raw, c.loc)
	if err != nil {
		return NormalizedInstant{}, &MalformedTimestampError{Raw: raw}
	}
	return NormalizedInstant{Time: t}, nil
}
