package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestMatchLoggerTagsEvents(t *testing.T) {
	var buf bytes.Buffer
	saved := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = saved }()

	logger := WithHand(GetMatchLogger("m7"), 3)
	logger.Info().Msg("dealt")

	out := buf.String()
	assert.Contains(t, out, `"matchID":"m7"`)
	assert.Contains(t, out, `"handNo":3`)
	assert.Contains(t, out, `"logger_name":"game::match"`)
}
