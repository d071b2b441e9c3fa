// Package telemetry extracts summary values from lap telemetry CSV exports
package telemetry

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/mpapenbr/garage61-mcp-go/pkg/model"
)

var ErrInvalidCSV = errors.New("invalid CSV format")

const (
	UnitSpeed   = "km/h"
	UnitPercent = "percentage"
)

// Summarize computes min/max per channel for speed, throttle and brake.
// Rows with values that can't be parsed are skipped.
//
//nolint:cyclop // column handling
func Summarize(data string) (*model.TelemetrySummary, error) {
	r := csv.NewReader(strings.NewReader(strings.TrimSpace(data)))
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, ErrInvalidCSV
	}
	speedIdx, throttleIdx, brakeIdx := -1, -1, -1
	for i, col := range header {
		c := strings.ToLower(strings.TrimSpace(col))
		switch {
		case strings.Contains(c, "speed"):
			speedIdx = firstIndex(speedIdx, i)
		case strings.Contains(c, "throttle"):
			throttleIdx = firstIndex(throttleIdx, i)
		case strings.Contains(c, "brake"):
			brakeIdx = firstIndex(brakeIdx, i)
		}
	}
	need := max(speedIdx, throttleIdx, brakeIdx, 0)

	var speed, throttle, brake []float64
	rows := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rows++
		if err != nil || len(rec) <= need {
			continue
		}
		vals, ok := parseColumns(rec, speedIdx, throttleIdx, brakeIdx)
		if !ok {
			continue
		}
		if speedIdx >= 0 {
			speed = append(speed, vals[0])
		}
		if throttleIdx >= 0 {
			throttle = append(throttle, vals[1])
		}
		if brakeIdx >= 0 {
			brake = append(brake, vals[2])
		}
	}
	if rows == 0 {
		return nil, ErrInvalidCSV
	}
	return &model.TelemetrySummary{
		Speed:    channel(speed, UnitSpeed),
		Throttle: channel(throttle, UnitPercent),
		Brake:    channel(brake, UnitPercent),
	}, nil
}

// parseColumns parses all requested columns of a row. A row is only used if
// every requested column is valid.
func parseColumns(rec []string, idx ...int) ([3]float64, bool) {
	var ret [3]float64
	for i, col := range idx {
		if col < 0 {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
		if err != nil {
			return ret, false
		}
		ret[i] = v
	}
	return ret, true
}

func firstIndex(cur, i int) int {
	if cur >= 0 {
		return cur
	}
	return i
}

func channel(values []float64, unit string) model.TelemetryChannel {
	if len(values) == 0 {
		return model.TelemetryChannel{Unit: unit}
	}
	return model.TelemetryChannel{
		Unit:    unit,
		Samples: len(values),
		Max:     lo.Max(values),
		Min:     lo.Min(values),
	}
}
