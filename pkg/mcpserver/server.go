// Package mcpserver exposes the lap lookups and catalog listings as MCP tools
package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mpapenbr/garage61-mcp-go/log"
	"github.com/mpapenbr/garage61-mcp-go/pkg/listing"
	"github.com/mpapenbr/garage61-mcp-go/pkg/resolver"
	"github.com/mpapenbr/garage61-mcp-go/pkg/service"
	"github.com/mpapenbr/garage61-mcp-go/version"
)

const ServerName = "garage61-telemetry"

const (
	ToolFastestLap        = "get_fastest_lap_telemetry"
	ToolUserFastestLap    = "get_user_fastest_lap"
	ToolOverallFastestLap = "get_overall_fastest_lap"
	ToolListCars          = "list_cars"
	ToolListTracks        = "list_tracks"
)

// LapService is the lap lookup workflow used by the lap tools
type LapService interface {
	FastestLap(ctx context.Context, car, track string) (*service.LapResult, error)
	UserFastestLap(ctx context.Context, car, track string) (*service.LapResult, error)
	OverallFastestLap(ctx context.Context, car, track string) (*service.LapResult, error)
}

//nolint:tagliatelle // tool argument names
type (
	LapInput struct {
		Car   string `json:"car" jsonschema:"Exact car name from list_cars tool (e.g., 'Global Mazda MX-5 Cup', 'BMW M4 GT3')"`
		Track string `json:"track" jsonschema:"Exact track name with variant from list_tracks tool (e.g., 'Lime Rock Park - Grand Prix', 'Nürburgring Nordschleife - Combined')"`
	}
	ListCarsInput struct {
		SearchTerm string `json:"search_term,omitempty" jsonschema:"Optional search term to filter cars (e.g., 'porsche', 'BMW', 'GT3'). Add 'legacy' to include older car versions. Leave empty to see all modern cars."`
		ShowLegacy bool   `json:"show_legacy,omitempty" jsonschema:"Set to true to include legacy/older car versions. Default false shows only modern cars."`
	}
	ListTracksInput struct {
		SearchTerm string `json:"search_term,omitempty" jsonschema:"Optional search term to filter tracks (e.g., 'lime rock', 'nurburgring', 'silverstone'). Leave empty to see all tracks."`
	}
)

type (
	Option func(*Server)
	Server struct {
		server   *mcp.Server
		resolver *resolver.Resolver
		laps     LapService
		l        *log.Logger
	}
)

func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.l = l
	}
}

func New(r *resolver.Resolver, laps LapService, opts ...Option) *Server {
	s := &Server{
		resolver: r,
		laps:     laps,
		l:        log.Default().Named("mcp"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version.Version,
	}, &mcp.ServerOptions{})
	s.registerTools()
	return s
}

// Run serves the tools on transport until ctx is done or the client
// disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.l.Info("Starting MCP server", log.String("name", ServerName))
	return s.server.Run(ctx, transport)
}

// RunStdio serves the tools on stdin/stdout
func (s *Server) RunStdio(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

//nolint:funlen,lll // tool definitions
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolFastestLap,
		Description: "Get the fastest lap and basic telemetry data for a specific car and track combination. IMPORTANT: Use list_cars and list_tracks tools first to get exact names with proper formatting.",
	}, s.lapHandler(ToolFastestLap, s.laps.FastestLap, formatFastestLap))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolUserFastestLap,
		Description: "Get the current user's personal fastest lap and telemetry data for a specific car and track combination. IMPORTANT: Use list_cars and list_tracks tools first to get exact names with proper formatting (including variants like 'Track Name - Variant').",
	}, s.lapHandler(ToolUserFastestLap, s.laps.UserFastestLap, func(res *service.LapResult) string {
		return formatLapWithCSV("Your Fastest Lap", res)
	}))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolOverallFastestLap,
		Description: "Get the overall fastest lap from all accessible drivers and teams for a specific car and track combination. IMPORTANT: Use list_cars and list_tracks tools first to get exact names with proper formatting.",
	}, s.lapHandler(ToolOverallFastestLap, s.laps.OverallFastestLap, func(res *service.LapResult) string {
		return formatLapWithCSV("Overall Fastest Lap", res)
	}))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolListCars,
		Description: "List available cars with modern cars prioritized by default. Call this FIRST when user mentions a car to find exact names. Modern cars like '992' are preferred over legacy '991' unless user specifically requests legacy.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in ListCarsInput) (*mcp.CallToolResult, any, error) {
		s.l.Debug("list_cars called",
			log.String("searchTerm", in.SearchTerm), log.Bool("showLegacy", in.ShowLegacy))
		return textResult(listing.ListCars(s.resolver, in.SearchTerm, in.ShowLegacy)), nil, nil
	})

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolListTracks,
		Description: "List available tracks with all variants and exact names to use for telemetry tools. Call this FIRST when user mentions a track to get the properly formatted track names with variants (e.g., 'Track Name - Variant').",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in ListTracksInput) (*mcp.CallToolResult, any, error) {
		s.l.Debug("list_tracks called", log.String("searchTerm", in.SearchTerm))
		return textResult(listing.ListTracks(s.resolver, in.SearchTerm)), nil, nil
	})
}

type lapFunc func(ctx context.Context, car, track string) (*service.LapResult, error)

//nolint:whitespace // can't make both editor and linter happy
func (s *Server) lapHandler(
	tool string,
	lookup lapFunc,
	format func(*service.LapResult) string,
) mcp.ToolHandlerFor[LapInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in LapInput) (*mcp.CallToolResult, any, error) {
		l := s.l.With(log.String("tool", tool))
		ctx = log.AddToContext(ctx, l)
		l.Debug("Tool called", log.String("car", in.Car), log.String("track", in.Track))
		if in.Car == "" || in.Track == "" {
			return errorResult("Both 'car' and 'track' parameters are required. " +
				"Use list_cars and list_tracks tools first to find exact names."), nil, nil
		}
		res, err := lookup(ctx, in.Car, in.Track)
		if err != nil {
			l.Error("Tool failed", log.ErrorField(err))
			return errorResult(errorMessage(tool, in, err)), nil, nil
		}
		return textResult(format(res)), nil, nil
	}
}

// errorMessage returns the user facing text for err
func errorMessage(tool string, in LapInput, err error) string {
	if !errors.Is(err, service.ErrNoLaps) {
		return err.Error()
	}
	switch tool {
	case ToolUserFastestLap:
		return fmt.Sprintf("No lap data found for your account with '%s' at '%s'. "+
			"This means you haven't driven this car/track combination yet, "+
			"or your lap data isn't accessible with the current API access level.",
			in.Car, in.Track)
	case ToolOverallFastestLap:
		return fmt.Sprintf("No lap data found for '%s' at '%s'. "+
			"This means no laps are available for this car/track combination "+
			"in your accessible data (includes your laps and team laps).",
			in.Car, in.Track)
	default:
		return fmt.Sprintf("No lap data found for '%s' at '%s'. "+
			"This means no laps are available for this car/track combination "+
			"in your accessible data.",
			in.Car, in.Track)
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	ret := textResult("Error: " + msg)
	ret.IsError = true
	return ret
}
