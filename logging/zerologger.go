package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	MatchIDKey    string = "matchID"
	HandNumKey    string = "handNo"
	PlayerIDKey   string = "playerID"
	PlayerNameKey string = "playerName"
	CommandKey    string = "command"
	StrategyKey   string = "strategy"
)

func getEnableColorLog() string {
	v := os.Getenv("COLORIZE_LOG")
	if v == "" {
		// Use colorized logging by default.
		return "true"
	}
	return v
}

func IsColorLoggingEnabled() bool {
	return getEnableColorLog() == "1" || strings.ToLower(getEnableColorLog()) == "true"
}

// GetZeroLogger returns a console logger tagged with name. Output defaults to stdout.
func GetZeroLogger(name string, out io.Writer) *zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	noColor := !IsColorLoggingEnabled()
	output := zerolog.ConsoleWriter{Out: out, NoColor: noColor, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Str("logger", name).Logger()
	return &logger
}

// GetMatchLogger derives a logger from the global one that tags every event
// with the match id.
func GetMatchLogger(matchID string) zerolog.Logger {
	return log.With().Str("logger_name", "game::match").Str(MatchIDKey, matchID).Logger()
}

// WithHand adds the hand number to a match logger.
func WithHand(logger zerolog.Logger, handNo int) zerolog.Logger {
	return logger.With().Int(HandNumKey, handNo).Logger()
}
