package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantWarn  bool
		wantDebug bool
	}{
		{name: "default is warn", level: "", wantWarn: true, wantDebug: false},
		{name: "debug", level: "debug", wantWarn: true, wantDebug: true},
		{name: "upper case", level: "ERROR", wantWarn: false, wantDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := New(Options{Writer: &buf, Level: tt.level})
			require.NoError(t, err)

			logger.Warn("warned")
			logger.Debug("debugged")

			assert.Equal(t, tt.wantWarn, bytes.Contains(buf.Bytes(), []byte("warned")))
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debugged")))
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf})
	require.NoError(t, err)

	Component(logger, "collapse").Warn("duplicate section", "id", "a")
	assert.Contains(t, buf.String(), "collapse")
	assert.Contains(t, buf.String(), "duplicate section")

	assert.NotNil(t, Component(nil, "x"))
}
