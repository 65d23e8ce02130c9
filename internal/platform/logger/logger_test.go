package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want zapcore.Level
	}{
		{"production defaults", Config{Encoding: "json"}, zapcore.InfoLevel},
		{"development debug", Config{Level: "debug", Encoding: "console", Development: true}, zapcore.DebugLevel},
		{"unknown level", Config{Level: "loud"}, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg, "sales")
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.want))
			assert.False(t, l.Core().Enabled(tt.want-1))
		})
	}
}

func TestNew_BadEncoding(t *testing.T) {
	_, err := New(Config{Encoding: "xml"}, "sales")
	assert.Error(t, err)
}
