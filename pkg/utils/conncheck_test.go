package utils

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromHTTPURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantAddr  string
		wantProto string
	}{
		{"https default port", "https://garage61.net/api/v1", "garage61.net:443", "https"},
		{"http default port", "http://localhost/api", "localhost:80", "http"},
		{"explicit port", "http://localhost:8080/api/v1", "localhost:8080", "http"},
		{"no path", "https://example.com", "example.com:443", "https"},
		{"unsupported scheme", "ws://localhost:8080/ws", "", ""},
		{"garbage", "not a url", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, proto := ExtractFromHTTPURL(tt.url)
			assert.Equal(t, tt.wantAddr, addr)
			assert.Equal(t, tt.wantProto, proto)
		})
	}
}

func TestWaitForTCP(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()

	assert.NoError(t, WaitForTCP(context.Background(), lis.Addr().String(), time.Second))
}

func TestWaitForTCPTimeout(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	lis.Close()

	assert.Error(t, WaitForTCP(context.Background(), addr, 300*time.Millisecond))
}
