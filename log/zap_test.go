package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithFilter(t *testing.T) {
	tests := []struct {
		name      string
		rules     string
		logger    string
		wantInOut bool
	}{
		{name: "no rules", rules: "", logger: "catalog", wantInOut: true},
		{name: "matching rule", rules: "*:resolver", logger: "resolver", wantInOut: true},
		{name: "filtered out", rules: "*:resolver", logger: "catalog", wantInOut: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			l, err := NewWithFilter(buf, DebugLevel, "json", tt.rules)
			require.NoError(t, err)
			l.Named(tt.logger).Info("hello", String("key", "value"))
			assert.Equal(t, tt.wantInOut, bytes.Contains(buf.Bytes(), []byte("hello")))
		})
	}
}

func TestNewWithFilterInvalidRules(t *testing.T) {
	_, err := NewWithFilter(&bytes.Buffer{}, InfoLevel, "json", "nonsense:level:x")
	assert.Error(t, err)
}

func TestLevelRespected(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, WarnLevel)
	l.Info("not visible")
	l.Warn("visible")
	assert.NotContains(t, buf.String(), "not visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestGetFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, InfoLevel)
	ctx := AddToContext(context.Background(), l)
	assert.Same(t, l, GetFromContext(ctx))
	assert.Same(t, Default(), GetFromContext(context.Background()))
}
