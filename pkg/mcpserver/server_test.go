//nolint:funlen,lll // ok for tests
package mcpserver

import (
	"context"
	"fmt"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/garage61-mcp-go/pkg/catalog"
	"github.com/mpapenbr/garage61-mcp-go/pkg/model"
	"github.com/mpapenbr/garage61-mcp-go/pkg/resolver"
	"github.com/mpapenbr/garage61-mcp-go/pkg/service"
)

type fakeLaps struct {
	res *service.LapResult
	err error
}

func (f *fakeLaps) FastestLap(ctx context.Context, car, track string) (*service.LapResult, error) {
	return f.res, f.err
}

//nolint:whitespace // can't make both editor and linter happy
func (f *fakeLaps) UserFastestLap(
	ctx context.Context, car, track string,
) (*service.LapResult, error) {
	return f.res, f.err
}

//nolint:whitespace // can't make both editor and linter happy
func (f *fakeLaps) OverallFastestLap(
	ctx context.Context, car, track string,
) (*service.LapResult, error) {
	return f.res, f.err
}

func connect(t *testing.T, laps LapService) *mcp.ClientSession {
	t.Helper()
	store := catalog.NewStore()
	store.Replace(
		[]model.CarEntity{{ID: 1, Name: "BMW M4 GT3"}},
		[]model.TrackEntity{{ID: 2, Name: "Road America"}})
	srv := New(resolver.New(store), laps)

	ctx, cancel := context.WithCancel(context.Background())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, serverTransport) }()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(context.Background(), clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		session.Close()
		cancel()
		<-done
	})
	return session
}

func callText(t *testing.T, session *mcp.ClientSession, tool string, args map[string]any) string {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      tool,
		Arguments: args,
	})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func sampleResult() *service.LapResult {
	return &service.LapResult{
		Lap: service.LapInfo{
			ID:      "abc",
			Driver:  "Max Racer",
			LapTime: 130.1234,
			Car:     "BMW M4 GT3",
			Track:   "Road America",
		},
	}
}

func TestListTools(t *testing.T) {
	session := connect(t, &fakeLaps{})
	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		ToolFastestLap, ToolUserFastestLap, ToolOverallFastestLap, ToolListCars, ToolListTracks,
	}, names)
}

func TestFastestLapTool(t *testing.T) {
	withTelemetry := sampleResult()
	withTelemetry.Telemetry = &model.TelemetrySummary{
		Speed:    model.TelemetryChannel{Max: 251.26},
		Throttle: model.TelemetryChannel{Max: 1},
		Brake:    model.TelemetryChannel{Max: 0.95},
	}
	proRequired := sampleResult()
	proRequired.ProRequired = true

	tests := []struct {
		name string
		laps *fakeLaps
		want string
	}{
		{
			name: "lap only",
			laps: &fakeLaps{res: sampleResult()},
			want: "**Fastest Lap: BMW M4 GT3 at Road America**\n\n**Driver:** Max Racer\n**Lap Time:** 130.123 seconds",
		},
		{
			name: "with telemetry",
			laps: &fakeLaps{res: withTelemetry},
			want: "**Fastest Lap: BMW M4 GT3 at Road America**\n\n**Driver:** Max Racer\n**Lap Time:** 130.123 seconds" +
				"\n**Top Speed:** 251.3 km/h\n**Max Throttle:** 1.0%\n**Max Brake:** 0.9%",
		},
		{
			name: "pro required",
			laps: &fakeLaps{res: proRequired},
			want: "**Fastest Lap: BMW M4 GT3 at Road America**\n\n**Driver:** Max Racer\n**Lap Time:** 130.123 seconds" +
				"\n\n**Note:** Detailed telemetry data requires a Garage61 Pro plan. Upgrade at https://garage61.net to access telemetry analysis.",
		},
		{
			name: "lookup error",
			laps: &fakeLaps{err: &service.LookupError{Kind: service.KindCar, Query: "bwm"}},
			want: "Error: Car 'bwm' not found. Use the list_cars tool to see all available cars.",
		},
		{
			name: "no laps",
			laps: &fakeLaps{err: fmt.Errorf("%w for 'x' at 'y'", service.ErrNoLaps)},
			want: "Error: No lap data found for 'BMW M4 GT3' at 'Road America'. This means no laps are available for this car/track combination in your accessible data.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := connect(t, tt.laps)
			got := callText(t, session, ToolFastestLap, map[string]any{
				"car": "BMW M4 GT3", "track": "Road America",
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLapToolsWithCSV(t *testing.T) {
	res := sampleResult()
	res.TelemetryCSV = "Speed\n1"
	session := connect(t, &fakeLaps{res: res})
	args := map[string]any{"car": "BMW M4 GT3", "track": "Road America"}

	assert.Equal(t, "**Your Fastest Lap: BMW M4 GT3 at Road America**\n\n**Driver:** Max Racer\n"+
		"**Lap Time:** 130.123 seconds\n**Lap ID:** abc\n\n**Telemetry Data (CSV):**\n```csv\nSpeed\n1\n```",
		callText(t, session, ToolUserFastestLap, args))
	assert.Equal(t, "**Overall Fastest Lap: BMW M4 GT3 at Road America**\n\n**Driver:** Max Racer\n"+
		"**Lap Time:** 130.123 seconds\n**Lap ID:** abc\n\n**Telemetry Data (CSV):**\n```csv\nSpeed\n1\n```",
		callText(t, session, ToolOverallFastestLap, args))
}

func TestLapToolErrors(t *testing.T) {
	session := connect(t, &fakeLaps{err: fmt.Errorf("%w", service.ErrNoLaps)})

	assert.Equal(t, "Error: Both 'car' and 'track' parameters are required. "+
		"Use list_cars and list_tracks tools first to find exact names.",
		callText(t, session, ToolUserFastestLap, map[string]any{"car": "", "track": "x"}))

	args := map[string]any{"car": "a", "track": "b"}
	assert.Equal(t, "Error: No lap data found for your account with 'a' at 'b'. "+
		"This means you haven't driven this car/track combination yet, "+
		"or your lap data isn't accessible with the current API access level.",
		callText(t, session, ToolUserFastestLap, args))
	assert.Equal(t, "Error: No lap data found for 'a' at 'b'. "+
		"This means no laps are available for this car/track combination "+
		"in your accessible data (includes your laps and team laps).",
		callText(t, session, ToolOverallFastestLap, args))
}

func TestCatalogTools(t *testing.T) {
	session := connect(t, &fakeLaps{})

	assert.Equal(t, "**Cars matching 'bmw' (modern cars prioritized):**\n\n• BMW M4 GT3",
		callText(t, session, ToolListCars, map[string]any{"search_term": "bmw"}))
	assert.Equal(t, "**Available Cars (1 total (modern cars prioritized)):**\n\n• BMW M4 GT3",
		callText(t, session, ToolListCars, map[string]any{}))
	assert.Contains(t,
		callText(t, session, ToolListTracks, map[string]any{}),
		"• **Road America**")
}

func TestErrorResultIsFlagged(t *testing.T) {
	session := connect(t, &fakeLaps{err: &service.LookupError{Kind: service.KindTrack, Query: "x"}})
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolFastestLap,
		Arguments: map[string]any{"car": "a", "track": "x"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolListTracks,
		Arguments: map[string]any{"search_term": "road"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
}
