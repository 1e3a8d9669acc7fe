package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestInitWithWriter_JSON(t *testing.T) {
	original := log.Logger
	defer func() { log.Logger = original }()

	var buf bytes.Buffer
	InitWithWriter("production", "info", &buf)

	log.Info().Str("order_id", "42").Msg("order completed")
	log.Debug().Msg("filtered out")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "order completed", entry["message"])
	assert.Equal(t, "42", entry["order_id"])
	assert.Equal(t, "pawsitter-api", entry["service"])
	assert.NotContains(t, buf.String(), "filtered out")
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	scoped := zerolog.New(&buf).With().Str("request_id", "req-1").Logger()

	ctx := WithContext(context.Background(), scoped)
	FromContext(ctx).Info().Msg("hello")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)

	assert.Same(t, &log.Logger, FromContext(context.Background()))
}
