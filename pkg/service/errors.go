package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoLaps is returned if car and track are known but no laps exist
	ErrNoLaps = errors.New("no lap data found")

	errTelemetryUnavailable = errors.New("telemetry unavailable")
)

const (
	KindCar   = "car"
	KindTrack = "track"
)

// LookupError is returned if a car or track name could not be resolved
type LookupError struct {
	Kind        string
	Query       string
	Suggestions []string
}

func (e *LookupError) Error() string {
	var b strings.Builder
	switch e.Kind {
	case KindCar:
		fmt.Fprintf(&b, "Car '%s' not found.", e.Query)
	default:
		fmt.Fprintf(&b, "Track '%s' not found.", e.Query)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " Did you mean one of these? %s.", strings.Join(e.Suggestions, ", "))
	}
	if e.Kind == KindCar {
		b.WriteString(" Use the list_cars tool to see all available cars.")
	} else {
		b.WriteString(" Use the list_tracks tool to see all available tracks with variants.")
	}
	return b.String()
}
