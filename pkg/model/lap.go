package model

import "strings"

type Driver struct {
	Slug      string `json:"slug"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (d *Driver) Name() string {
	if d == nil {
		return "Unknown"
	}
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// Lap is a lap record returned by the laps endpoint
//
//nolint:tagliatelle // provider field names
type Lap struct {
	ID               string    `json:"id"`
	LapTime          float64   `json:"lapTime"`
	LapNumber        int       `json:"lapNumber"`
	StartTime        string    `json:"startTime"`
	Driver           *Driver   `json:"driver"`
	Car              CarEntity `json:"car"`
	Track            TrackRef  `json:"track"`
	Clean            bool      `json:"clean"`
	CanViewTelemetry bool      `json:"canViewTelemetry"`
	SessionType      int       `json:"sessionType"`
}

// TrackRef is the track as embedded in a lap record
type TrackRef struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Variant string `json:"variant,omitempty"`
}

type LapList struct {
	Items []Lap `json:"items"`
	Total int   `json:"total"`
}
