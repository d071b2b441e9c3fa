// Package util contains the setup shared by the subcommands
package util

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/mpapenbr/garage61-mcp-go/log"
	"github.com/mpapenbr/garage61-mcp-go/pkg/catalog"
	"github.com/mpapenbr/garage61-mcp-go/pkg/config"
	"github.com/mpapenbr/garage61-mcp-go/pkg/garage61"
	"github.com/mpapenbr/garage61-mcp-go/pkg/loader"
	"github.com/mpapenbr/garage61-mcp-go/pkg/observability"
	"github.com/mpapenbr/garage61-mcp-go/pkg/resolver"
	"github.com/mpapenbr/garage61-mcp-go/pkg/scoring"
	"github.com/mpapenbr/garage61-mcp-go/pkg/utils"
)

var ErrMissingToken = errors.New("missing API token (use --token or G61_TOKEN)")

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger installs the default logger according to the log flags.
// Logs are written to stderr, stdout is reserved for command output.
func SetupLogger() error {
	defaultLevel := log.InfoLevel
	if config.LogFormat != "json" {
		defaultLevel = log.DebugLevel
	}
	logger, err := log.NewWithFilter(
		os.Stderr,
		ParseLogLevel(config.LogLevel, defaultLevel),
		config.LogFormat,
		config.LogFilter,
		log.WithCaller(true),
		log.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("invalid log filter: %w", err)
	}
	log.ResetDefault(logger)
	return nil
}

// Scorer builds the scorer from the optional "scoring" section of the
// config file.
func Scorer() (*scoring.Scorer, error) {
	if !viper.IsSet("scoring") {
		return scoring.Default(), nil
	}
	var cfg scoring.Config
	if err := viper.UnmarshalKey("scoring", &cfg); err != nil {
		return nil, err
	}
	return scoring.NewScorer(cfg)
}

// Backend bundles the components needed to answer lookups
type Backend struct {
	Config   config.Config
	Client   *garage61.Client
	Store    *catalog.Store
	Resolver *resolver.Resolver
	Loader   *loader.Loader
}

// NewBackend wires client, catalog store, resolver and loader. The catalog
// is not loaded yet.
func NewBackend(ctx context.Context) (*Backend, error) {
	cfg := config.Resolve()
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	scorer, err := Scorer()
	if err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}
	if cfg.WaitForAPI > 0 {
		if addr, _ := utils.ExtractFromHTTPURL(cfg.BaseURL); addr != "" {
			if err := utils.WaitForTCP(ctx, addr, cfg.WaitForAPI); err != nil {
				log.Warn("API host not reachable", log.ErrorField(err))
			}
		}
	}

	client := garage61.NewClient(
		garage61.WithBaseURL(cfg.BaseURL),
		garage61.WithToken(cfg.Token),
		garage61.WithTimeout(cfg.RequestTimeout),
		garage61.WithLogger(log.Default().Named("garage61")))
	store := catalog.NewStore(
		catalog.WithScorer(scorer),
		catalog.WithLogger(log.Default().Named("catalog")),
		catalog.WithSwapListener(func(c *catalog.Catalog) {
			observability.RecordCatalog(c.NumCars(), c.NumTracks())
		}))
	return &Backend{
		Config:   cfg,
		Client:   client,
		Store:    store,
		Resolver: resolver.New(store, resolver.WithLogger(log.Default().Named("resolver"))),
		Loader: loader.New(store, client,
			loader.WithRetries(cfg.LoadRetries),
			loader.WithLogger(log.Default().Named("loader"))),
	}, nil
}
