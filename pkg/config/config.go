package config

import "time"

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	Token             string // bearer token for the Garage61 API
	BaseURL           string // base url of the Garage61 API
	LogLevel          string // sets the log level (zap log level values)
	LogFormat         string // text vs json
	LogFilter         string // zapfilter rules, empty means no filtering
	RequestTimeout    string // timeout for a single API request
	CatalogRefresh    string // interval for reloading cars and tracks, 0 disables
	LoadRetries       int    // number of attempts when loading the catalog
	TelemetryCacheTTL string // how long downloaded lap telemetry is kept in memory
	EnableTelemetry   bool   // enable tracing
	TelemetryExporter string // otlp or stdout
	TelemetryEndpoint string // endpoint for otlp traces
	MetricsAddr       string // listen addr for prometheus metrics, empty disables
	WaitForAPI        string // how long to wait for the API host to be reachable, 0 disables
)

const (
	DefaultBaseURL = "https://garage61.net/api/v1"
	// unprefixed env names, honored as fallback
	LegacyTokenEnv   = "GARAGE61_TOKEN"
	LegacyBaseURLEnv = "GARAGE61_BASE_URL"
)

// Config holds the configuration values which are used by the application
type Config struct {
	Token             string
	BaseURL           string
	RequestTimeout    time.Duration
	CatalogRefresh    time.Duration
	LoadRetries       int
	TelemetryCacheTTL time.Duration
	WaitForAPI        time.Duration
}

// Resolve converts the raw CLI values into a Config.
// Unparsable durations fall back to their defaults.
func Resolve() Config {
	return Config{
		Token:             Token,
		BaseURL:           BaseURL,
		RequestTimeout:    parseDuration(RequestTimeout, 30*time.Second),
		CatalogRefresh:    parseDuration(CatalogRefresh, 0),
		LoadRetries:       max(LoadRetries, 1),
		TelemetryCacheTTL: parseDuration(TelemetryCacheTTL, 10*time.Minute),
		WaitForAPI:        parseDuration(WaitForAPI, 0),
	}
}

func parseDuration(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}
