package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type environment struct {
	Port             string
	LogLevel         string
	CommentRelay     string
	RedisHost        string
	RedisPort        string
	RedisPW          string
	RedisDB          string
	NatsURL          string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiModel      string
	InferenceRPS     string
	InferenceTimeout string
	DisableDelays    string
	ResultCacheSize  string
	WatchIntervalMs  string
}

// Env is a helper object for accessing environment variables.
var Env = &environment{
	Port:             "PORT",
	LogLevel:         "LOG_LEVEL",
	CommentRelay:     "COMMENT_RELAY",
	RedisHost:        "REDIS_HOST",
	RedisPort:        "REDIS_PORT",
	RedisPW:          "REDIS_PW",
	RedisDB:          "REDIS_DB",
	NatsURL:          "NATS_URL",
	OpenAIAPIKey:     "OPENAI_API_KEY",
	OpenAIBaseURL:    "OPENAI_BASE_URL",
	OpenAIModel:      "OPENAI_MODEL",
	GeminiAPIKey:     "GEMINI_API_KEY",
	GeminiBaseURL:    "GEMINI_BASE_URL",
	GeminiModel:      "GEMINI_MODEL",
	InferenceRPS:     "INFERENCE_RPS",
	InferenceTimeout: "INFERENCE_TIMEOUT",
	DisableDelays:    "DISABLE_DELAYS",
	ResultCacheSize:  "RESULT_CACHE_SIZE",
	WatchIntervalMs:  "WATCH_INTERVAL_MS",
}

func (e *environment) getOrDefault(name string, defaultVal string) string {
	v := os.Getenv(name)
	if v == "" {
		return defaultVal
	}
	return v
}

func (e *environment) getIntOrDefault(name string, defaultVal int) int {
	v := os.Getenv(name)
	if v == "" {
		return defaultVal
	}
	num, err := strconv.Atoi(v)
	if err != nil {
		msg := fmt.Sprintf("Invalid %s %s", name, v)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return num
}

func (e *environment) GetPort() int {
	return e.getIntOrDefault(e.Port, 5002)
}

func (e *environment) GetLogLevel() string {
	v := os.Getenv(e.LogLevel)
	if v == "" {
		defaultVal := "info"
		environmentLogger.Warn().Msgf("%s is not defined. Using default %s", e.LogLevel, defaultVal)
		return defaultVal
	}
	return v
}

func (e *environment) GetZeroLogLogLevel() zerolog.Level {
	l := e.GetLogLevel()
	switch strings.ToLower(l) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		fallthrough
	case "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		panic(fmt.Sprintf("Unsupported %s: %s", e.LogLevel, l))
	}
}

// GetCommentRelay is either "memory" or "redis".
func (e *environment) GetCommentRelay() string {
	return strings.ToLower(e.getOrDefault(e.CommentRelay, "memory"))
}

func (e *environment) GetRedisHost() string {
	host := os.Getenv(e.RedisHost)
	if host == "" {
		msg := fmt.Sprintf("%s is not defined", e.RedisHost)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return host
}

func (e *environment) GetRedisPort() int {
	return e.getIntOrDefault(e.RedisPort, 6379)
}

func (e *environment) GetRedisPW() string {
	return os.Getenv(e.RedisPW)
}

func (e *environment) GetRedisDB() int {
	return e.getIntOrDefault(e.RedisDB, 0)
}

// GetNatsURL returns an empty string when NATS is not configured.
func (e *environment) GetNatsURL() string {
	return os.Getenv(e.NatsURL)
}

func (e *environment) GetOpenAIAPIKey() string {
	return os.Getenv(e.OpenAIAPIKey)
}

func (e *environment) GetOpenAIBaseURL() string {
	return e.getOrDefault(e.OpenAIBaseURL, "https://api.openai.com/v1")
}

func (e *environment) GetOpenAIModel() string {
	return e.getOrDefault(e.OpenAIModel, "gpt-4.1-nano-2025-04-14")
}

func (e *environment) GetGeminiAPIKey() string {
	return os.Getenv(e.GeminiAPIKey)
}

func (e *environment) GetGeminiBaseURL() string {
	return e.getOrDefault(e.GeminiBaseURL, "https://generativelanguage.googleapis.com/v1beta")
}

func (e *environment) GetGeminiModel() string {
	return e.getOrDefault(e.GeminiModel, "gemini-2.0-flash-exp")
}

// GetInferenceRPS is the number of model calls allowed per second across all sessions.
func (e *environment) GetInferenceRPS() float64 {
	v := os.Getenv(e.InferenceRPS)
	if v == "" {
		return 2
	}
	rps, err := strconv.ParseFloat(v, 64)
	if err != nil || rps <= 0 {
		msg := fmt.Sprintf("Invalid %s %s", e.InferenceRPS, v)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return rps
}

func (e *environment) GetInferenceTimeout() time.Duration {
	return time.Duration(e.getIntOrDefault(e.InferenceTimeout, 30)) * time.Second
}

func (e *environment) GetDisableDelays() string {
	return e.getOrDefault(e.DisableDelays, "false")
}

func (e *environment) ShouldDisableDelays() bool {
	return e.GetDisableDelays() == "1" || strings.ToLower(e.GetDisableDelays()) == "true"
}

func (e *environment) GetResultCacheSize() int {
	return e.getIntOrDefault(e.ResultCacheSize, 10000)
}

func (e *environment) GetWatchInterval() time.Duration {
	return time.Duration(e.getIntOrDefault(e.WatchIntervalMs, 1000)) * time.Millisecond
}
