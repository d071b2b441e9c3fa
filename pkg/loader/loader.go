// Package loader fills the catalog store from the Garage61 API
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"

	"github.com/mpapenbr/garage61-mcp-go/log"
	"github.com/mpapenbr/garage61-mcp-go/pkg/catalog"
	"github.com/mpapenbr/garage61-mcp-go/pkg/garage61"
)

// Source provides the raw catalog payloads
type Source interface {
	GetCars(ctx context.Context) ([]byte, error)
	GetTracks(ctx context.Context) ([]byte, error)
}

type (
	Option func(*Loader)
	Loader struct {
		store      *catalog.Store
		src        Source
		retries    int
		newBackOff func() backoff.BackOff
		l          *log.Logger
	}
)

// WithRetries sets the number of attempts per payload (minimum 1)
func WithRetries(n int) Option {
	return func(ld *Loader) {
		ld.retries = max(n, 1)
	}
}

func WithBackOff(f func() backoff.BackOff) Option {
	return func(ld *Loader) {
		ld.newBackOff = f
	}
}

func WithLogger(l *log.Logger) Option {
	return func(ld *Loader) {
		ld.l = l
	}
}

func New(store *catalog.Store, src Source, opts ...Option) *Loader {
	ld := &Loader{
		store:   store,
		src:     src,
		retries: 3,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			return b
		},
		l: log.Default().Named("loader"),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Load fetches cars and tracks concurrently and replaces the catalog in one
// step. On error the current catalog stays untouched.
func (ld *Loader) Load(ctx context.Context) error {
	ld.l.Info("Initializing cars and tracks cache")
	var carsRaw, tracksRaw []byte
	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		carsRaw, err = ld.fetch(egctx, "cars", ld.src.GetCars)
		return err
	})
	eg.Go(func() (err error) {
		tracksRaw, err = ld.fetch(egctx, "tracks", ld.src.GetTracks)
		return err
	})
	if err := eg.Wait(); err != nil {
		ld.l.Error("Failed to initialize cache", log.ErrorField(err))
		return err
	}

	cars, err := catalog.ParseCars(carsRaw)
	if err != nil {
		ld.l.Error("Could not parse cars", log.ErrorField(err))
		return fmt.Errorf("cars: %w", err)
	}
	tracks, err := catalog.ParseTracks(tracksRaw)
	if err != nil {
		ld.l.Error("Could not parse tracks", log.ErrorField(err))
		return fmt.Errorf("tracks: %w", err)
	}
	ld.store.Replace(cars, tracks)
	ld.l.Info("Cache initialization complete",
		log.Int("cars", len(cars)),
		log.Int("tracks", len(tracks)))
	return nil
}

// RunRefresh reloads the catalog every interval until ctx is done.
// An interval <= 0 disables the refresh.
func (ld *Loader) RunRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			ld.l.Debug("Catalog refresh stopped")
			return
		case <-ticker.C:
			//nolint:errcheck // logged by Load
			_ = ld.Load(ctx)
		}
	}
}

//nolint:whitespace // can't make both editor and linter happy
func (ld *Loader) fetch(
	ctx context.Context,
	kind string,
	f func(context.Context) ([]byte, error),
) ([]byte, error) {
	op := func() ([]byte, error) {
		ld.l.Debug("Fetching for cache", log.String("kind", kind))
		b, err := f(ctx)
		if errors.Is(err, garage61.ErrUnauthorized) {
			return nil, backoff.Permanent(err)
		}
		return b, err
	}
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(ld.newBackOff()),
		//nolint:gosec // retries is at least 1
		backoff.WithMaxTries(uint(ld.retries)),
		backoff.WithNotify(func(err error, d time.Duration) {
			ld.l.Warn("Fetch failed, retrying",
				log.String("kind", kind),
				log.Duration("wait", d),
				log.ErrorField(err))
		}),
	)
}
