package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_Level(t *testing.T) {
	log := New("debug", "json")
	assert.Equal(t, zerolog.DebugLevel, log.GetLevel())

	log = New("nonsense", "console")
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Str("trd_id", "1").Msg("test message")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), `"trd_id":"1"`)
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("test")

	assert.NotZero(t, buf.Len())
}

func TestFromContext_Nop(t *testing.T) {
	log := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}
