package monitor

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBaudRate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected int
		wantErr  bool
	}{
		{"Default", "", 115200, false},
		{"Explicit", "9600", 9600, false},
		{"NotANumber", "fast", 0, true},
		{"Negative", "-1", 0, true},
		{"Zero", "0", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baud, err := parseBaudRate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, baud)
		})
	}
}

func TestMonitorWithoutPort(t *testing.T) {
	m, err := New(Config{SerialPort: SerialPortNone})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- m.Run(ctx, strings.NewReader(""), io.Discard)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	assert.NoError(t, m.Close())
}
