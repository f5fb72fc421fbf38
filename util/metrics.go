package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	matchCreatedCounter     prometheus.Counter
	matchFinishedCounter    prometheus.Counter
	handStartedCounter      prometheus.Counter
	commandExecutedCounter  *prometheus.CounterVec
	commandFailedCounter    *prometheus.CounterVec
	strategyFallbackCounter *prometheus.CounterVec
	activeMatchesCountGauge prometheus.Gauge
	commentsRelayedCounter  prometheus.Counter
}

func (m *metrics) MatchCreated() {
	m.matchCreatedCounter.Inc()
}

func (m *metrics) MatchFinished() {
	m.matchFinishedCounter.Inc()
}

func (m *metrics) HandStarted() {
	m.handStartedCounter.Inc()
}

func (m *metrics) CommandExecuted(command string) {
	m.commandExecutedCounter.WithLabelValues(command).Inc()
}

func (m *metrics) CommandFailed(command string) {
	m.commandFailedCounter.WithLabelValues(command).Inc()
}

func (m *metrics) StrategyFallback(strategy string) {
	m.strategyFallbackCounter.WithLabelValues(strategy).Inc()
}

func (m *metrics) CommentRelayed() {
	m.commentsRelayedCounter.Inc()
}

func (m *metrics) SetActiveMatchesCount(count int) {
	m.activeMatchesCountGauge.Set(float64(count))
}

var Metrics = &metrics{
	matchCreatedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "truco_matches_created_total",
		Help: "Total number of matches created",
	}),
	matchFinishedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "truco_matches_finished_total",
		Help: "Total number of matches that reached the winning score",
	}),
	handStartedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "truco_hands_started_total",
		Help: "Total number of hands dealt",
	}),
	commandExecutedCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "truco_commands_executed_total",
		Help: "Total number of match commands executed",
	}, []string{"command"}),
	commandFailedCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "truco_commands_failed_total",
		Help: "Total number of match commands that returned an error",
	}, []string{"command"}),
	strategyFallbackCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "truco_strategy_fallbacks_total",
		Help: "Total number of decisions that fell back to the default action",
	}, []string{"strategy"}),
	activeMatchesCountGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "truco_active_matches",
		Help: "Count of the matches with a running worker",
	}),
	commentsRelayedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "truco_comments_relayed_total",
		Help: "Total number of player comments handed to the relay",
	}),
}
