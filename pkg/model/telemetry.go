package model

type TelemetryChannel struct {
	Unit    string  `json:"unit"`
	Samples int     `json:"samples"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
}

type TelemetrySummary struct {
	Speed    TelemetryChannel `json:"speed"`
	Throttle TelemetryChannel `json:"throttle"`
	Brake    TelemetryChannel `json:"brake"`
}
