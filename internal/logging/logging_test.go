package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "store")

	log.Info().Msg("snapshot loaded")

	out := buf.String()
	assert.Contains(t, out, "snapshot loaded")
	assert.Contains(t, out, `"component":"store"`)
}

func TestNop(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, Nop().GetLevel())
}
