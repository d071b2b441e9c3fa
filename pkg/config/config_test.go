package config

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultVal time.Duration
		want       time.Duration
	}{
		{name: "empty", input: "", defaultVal: time.Second, want: time.Second},
		{name: "valid", input: "5m", defaultVal: time.Second, want: 5 * time.Minute},
		{name: "invalid", input: "five", defaultVal: time.Second, want: time.Second},
		{name: "negative", input: "-1s", defaultVal: 0, want: 0},
		{name: "zero", input: "0", defaultVal: time.Minute, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseDuration(tt.input, tt.defaultVal); got != tt.want {
				t.Errorf("parseDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveClampsRetries(t *testing.T) {
	LoadRetries = 0
	defer func() { LoadRetries = 0 }()
	if got := Resolve().LoadRetries; got != 1 {
		t.Errorf("Resolve().LoadRetries = %d, want 1", got)
	}
}
