// Package service implements the lap lookups on top of the name resolver and
// the Garage61 client.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/garage61-mcp-go/log"
	"github.com/mpapenbr/garage61-mcp-go/pkg/garage61"
	"github.com/mpapenbr/garage61-mcp-go/pkg/model"
	"github.com/mpapenbr/garage61-mcp-go/pkg/resolver"
	"github.com/mpapenbr/garage61-mcp-go/pkg/telemetry"
	"github.com/mpapenbr/garage61-mcp-go/pkg/utils/cache"
	"github.com/mpapenbr/garage61-mcp-go/pkg/utils/cache/loadercache"
)

const (
	fastestLapLimit   = 50
	overallLapLimit   = 1000
	errorSuggestions  = 3
	defaultTelemetryT = 10 * time.Minute
)

var (
	tracer         = otel.Tracer("lap-service")
	lookupDuration = newLookupHistogram(otel.Meter("lap-service"))
)

func newLookupHistogram(m metric.Meter) metric.Float64Histogram {
	h, err := m.Float64Histogram("g61.lap_lookup.duration",
		metric.WithDescription("Duration of lap lookups including telemetry download"),
		metric.WithUnit("s"))
	if err != nil {
		otel.Handle(err)
	}
	return h
}

// LapClient is the part of the Garage61 API used by LapService
type LapClient interface {
	GetLaps(ctx context.Context, q garage61.LapQuery) ([]model.Lap, error)
	GetLapTelemetryCSV(ctx context.Context, lapID string) (string, bool, error)
}

type (
	LapInfo struct {
		ID      string
		Driver  string
		LapTime float64
		Car     string
		Track   string
	}
	LapResult struct {
		Lap LapInfo
		// Telemetry is set by FastestLap if the CSV was accessible
		Telemetry *model.TelemetrySummary
		// TelemetryCSV is set by UserFastestLap and OverallFastestLap
		TelemetryCSV string
		// ProRequired reports that the lap has telemetry which could not be read
		ProRequired bool
	}

	Option     func(*LapService)
	LapService struct {
		resolver     *resolver.Resolver
		client       LapClient
		telemetryTTL time.Duration
		csvCache     cache.Cache[string, string]
		l            *log.Logger
	}
)

func WithLogger(l *log.Logger) Option {
	return func(s *LapService) {
		s.l = l
	}
}

// WithTelemetryCacheTTL sets how long downloaded CSV data is kept
func WithTelemetryCacheTTL(d time.Duration) Option {
	return func(s *LapService) {
		s.telemetryTTL = d
	}
}

func NewLapService(r *resolver.Resolver, client LapClient, opts ...Option) *LapService {
	s := &LapService{
		resolver:     r,
		client:       client,
		telemetryTTL: defaultTelemetryT,
		l:            log.Default().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.csvCache = loadercache.New[string, string](
		loadercache.WithExpiration[string, string](s.telemetryTTL),
		loadercache.WithLogger[string, string](s.l.Named("csv-cache")),
		loadercache.WithLoader[string, string](s.loadCSV),
	)
	return s
}

// FastestLap returns the fastest accessible lap of any driver together with
// a telemetry summary.
func (s *LapService) FastestLap(ctx context.Context, car, track string) (*LapResult, error) {
	return s.observe(ctx, "FastestLap", car, track, func(ctx context.Context) (*LapResult, error) {
		return s.fastestLap(ctx, car, track)
	})
}

func (s *LapService) fastestLap(ctx context.Context, car, track string) (*LapResult, error) {
	q, err := s.query(car, track)
	if err != nil {
		return nil, err
	}
	q.Limit = fastestLapLimit
	q.Group = garage61.GroupNone
	laps, err := s.fetchLaps(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(laps) == 0 {
		return nil, fmt.Errorf("%w for '%s' at '%s'", ErrNoLaps, car, track)
	}
	fastest := laps[0]
	ret := &LapResult{Lap: lapInfo(fastest, "Unknown")}
	if !fastest.CanViewTelemetry {
		return ret, nil
	}
	csv, ok, err := s.telemetryCSV(ctx, fastest.ID)
	switch {
	case err != nil:
		return nil, err
	case !ok:
		ret.ProRequired = true
	default:
		if summary, err := telemetry.Summarize(csv); err == nil {
			ret.Telemetry = summary
		} else {
			s.l.Warn("Could not summarize telemetry",
				log.String("lap", fastest.ID), log.ErrorField(err))
		}
	}
	return ret, nil
}

// UserFastestLap returns the personal best of the token owner with the raw
// telemetry CSV.
//
//nolint:whitespace // can't make both editor and linter happy
func (s *LapService) UserFastestLap(
	ctx context.Context, car, track string,
) (*LapResult, error) {
	return s.observe(ctx, "UserFastestLap", car, track, func(ctx context.Context) (*LapResult, error) {
		return s.lapWithCSV(ctx, car, track, func(q *garage61.LapQuery) {
			q.Drivers = []string{garage61.Me}
			q.Limit = 1
			q.Group = garage61.GroupDriver
		}, "Current User")
	})
}

// OverallFastestLap returns the fastest lap of all accessible drivers (own
// and team laps) with the raw telemetry CSV.
//
//nolint:whitespace // can't make both editor and linter happy
func (s *LapService) OverallFastestLap(
	ctx context.Context, car, track string,
) (*LapResult, error) {
	return s.observe(ctx, "OverallFastestLap", car, track, func(ctx context.Context) (*LapResult, error) {
		return s.lapWithCSV(ctx, car, track, func(q *garage61.LapQuery) {
			q.Limit = overallLapLimit
			q.Group = garage61.GroupNone
		}, "Unknown")
	})
}

//nolint:whitespace // can't make both editor and linter happy
func (s *LapService) lapWithCSV(
	ctx context.Context,
	car, track string,
	adjust func(q *garage61.LapQuery),
	unknownDriver string,
) (*LapResult, error) {
	q, err := s.query(car, track)
	if err != nil {
		return nil, err
	}
	adjust(&q)
	laps, err := s.fetchLaps(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(laps) == 0 {
		return nil, fmt.Errorf("%w for '%s' at '%s'", ErrNoLaps, car, track)
	}
	fastest := laps[0]
	ret := &LapResult{Lap: lapInfo(fastest, unknownDriver)}
	if !fastest.CanViewTelemetry {
		return ret, nil
	}
	csv, ok, err := s.telemetryCSV(ctx, fastest.ID)
	if err != nil {
		return nil, err
	}
	if ok {
		ret.TelemetryCSV = csv
	} else {
		ret.ProRequired = true
	}
	return ret, nil
}

// query resolves car and track into a base query
func (s *LapService) query(car, track string) (garage61.LapQuery, error) {
	c, ok := s.resolver.FindCar(car, false)
	if !ok {
		sugg := s.resolver.CarSuggestions(car, resolver.DefaultSuggestionSize, false)
		s.l.Error("Car not found", log.String("car", car), log.Strings("suggestions", sugg))
		return garage61.LapQuery{}, &LookupError{
			Kind:        KindCar,
			Query:       car,
			Suggestions: sugg[:min(errorSuggestions, len(sugg))],
		}
	}
	s.l.Info("Resolved car", log.String("query", car), log.String("car", c.Name), log.Int("id", c.ID))

	t, ok := s.resolver.FindTrack(track, true)
	if !ok {
		sugg := s.resolver.TrackSuggestions(track, resolver.DefaultSuggestionSize)
		s.l.Error("Track not found", log.String("track", track), log.Strings("suggestions", sugg))
		return garage61.LapQuery{}, &LookupError{
			Kind:        KindTrack,
			Query:       track,
			Suggestions: sugg[:min(errorSuggestions, len(sugg))],
		}
	}
	s.l.Info("Resolved track",
		log.String("query", track), log.String("track", t.Name), log.Int("id", t.ID))

	return garage61.LapQuery{
		Cars:     []int{c.ID},
		Tracks:   []int{t.ID},
		LapTypes: []int{garage61.NormalLap},
	}, nil
}

// fetchLaps asks for laps with telemetry first and falls back to plain lap
// times if the account has no Pro plan.
func (s *LapService) fetchLaps(ctx context.Context, q garage61.LapQuery) ([]model.Lap, error) {
	l := log.GetFromContext(ctx)
	l.Debug("Fetching laps",
		log.Ints("cars", q.Cars), log.Ints("tracks", q.Tracks),
		log.Int("limit", q.Limit), log.String("group", q.Group))
	q.SeeTelemetry = true
	laps, err := s.client.GetLaps(ctx, q)
	if errors.Is(err, garage61.ErrProRequired) {
		l.Info("Pro plan required for telemetry, falling back to lap times only")
		q.SeeTelemetry = false
		laps, err = s.client.GetLaps(ctx, q)
	}
	if errors.Is(err, garage61.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrNoLaps, err)
	}
	return laps, err
}

//nolint:whitespace // can't make both editor and linter happy
func (s *LapService) telemetryCSV(
	ctx context.Context, lapID string,
) (csv string, ok bool, err error) {
	v, err := s.csvCache.Get(ctx, lapID)
	if errors.Is(err, errTelemetryUnavailable) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return *v, true, nil
}

func (s *LapService) loadCSV(ctx context.Context, lapID string) (*string, error) {
	csv, ok, err := s.client.GetLapTelemetryCSV(ctx, lapID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errTelemetryUnavailable
	}
	return &csv, nil
}

// observe runs fn inside a span named op and records its duration
//
//nolint:whitespace // can't make both editor and linter happy
func (s *LapService) observe(
	ctx context.Context,
	op, car, track string,
	fn func(ctx context.Context) (*LapResult, error),
) (*LapResult, error) {
	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("car", car),
		attribute.String("track", track)))
	defer span.End()

	start := time.Now()
	res, err := fn(ctx)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	lookupDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome)))
	return res, err
}

func lapInfo(l model.Lap, unknownDriver string) LapInfo {
	driver := unknownDriver
	if l.Driver != nil {
		driver = l.Driver.Name()
	}
	track := l.Track.Name
	if l.Track.Variant != "" {
		track += " - " + l.Track.Variant
	}
	return LapInfo{
		ID:      l.ID,
		Driver:  driver,
		LapTime: l.LapTime,
		Car:     l.Car.Name,
		Track:   track,
	}
}
