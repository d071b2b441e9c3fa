package mcpserver

import (
	"fmt"
	"strings"

	"github.com/mpapenbr/garage61-mcp-go/pkg/service"
)

const proRequiredNote = "\n\n**Note:** Detailed telemetry data requires a Garage61 Pro plan. " +
	"Upgrade at https://garage61.net to access telemetry analysis."

func formatFastestLap(res *service.LapResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Fastest Lap: %s at %s**\n\n", res.Lap.Car, res.Lap.Track)
	fmt.Fprintf(&b, "**Driver:** %s\n", res.Lap.Driver)
	fmt.Fprintf(&b, "**Lap Time:** %.3f seconds", res.Lap.LapTime)
	switch {
	case res.Telemetry != nil:
		fmt.Fprintf(&b, "\n**Top Speed:** %.1f km/h", res.Telemetry.Speed.Max)
		fmt.Fprintf(&b, "\n**Max Throttle:** %.1f%%", res.Telemetry.Throttle.Max)
		fmt.Fprintf(&b, "\n**Max Brake:** %.1f%%", res.Telemetry.Brake.Max)
	case res.ProRequired:
		b.WriteString(proRequiredNote)
	}
	return b.String()
}

func formatLapWithCSV(title string, res *service.LapResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s: %s at %s**\n\n", title, res.Lap.Car, res.Lap.Track)
	fmt.Fprintf(&b, "**Driver:** %s\n", res.Lap.Driver)
	fmt.Fprintf(&b, "**Lap Time:** %.3f seconds\n", res.Lap.LapTime)
	fmt.Fprintf(&b, "**Lap ID:** %s", res.Lap.ID)
	switch {
	case res.TelemetryCSV != "":
		fmt.Fprintf(&b, "\n\n**Telemetry Data (CSV):**\n```csv\n%s\n```", res.TelemetryCSV)
	case res.ProRequired:
		b.WriteString(proRequiredNote)
	}
	return b.String()
}
