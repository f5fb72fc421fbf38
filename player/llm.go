package player

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"voyager.com/truco/logging"
	"voyager.com/truco/truco"
	"voyager.com/truco/util"
)

var llmLogger = log.With().Str("logger_name", "player::llm").Logger()

// InferenceStrategy asks a text model for every decision. Any failure to get
// or understand an answer falls back to a safe default.
type InferenceStrategy struct {
	name      string
	completer Completer
	limiter   *rate.Limiter
}

func NewInferenceStrategy(name string, completer Completer, limiter *rate.Limiter) *InferenceStrategy {
	return &InferenceStrategy{
		name:      name,
		completer: completer,
		limiter:   limiter,
	}
}

func (s *InferenceStrategy) Name() string {
	return s.name
}

func (s *InferenceStrategy) DecidePlay(ctx context.Context, view truco.View, available []truco.ActionKind) (truco.GameAction, error) {
	return s.decide(ctx, view, available, playSystemPrompt, buildPlayPrompt(view, available))
}

func (s *InferenceStrategy) DecideBidResponse(ctx context.Context, view truco.View, available []truco.ActionKind, proposedBet int) (truco.GameAction, error) {
	return s.decide(ctx, view, available, bidSystemPrompt, buildBidPrompt(view, available, proposedBet))
}

func (s *InferenceStrategy) decide(ctx context.Context, view truco.View, available []truco.ActionKind, system string, user string) (truco.GameAction, error) {
	logger := llmLogger.With().
		Str(logging.MatchIDKey, view.SessionID).
		Int(logging.PlayerIDKey, view.Player.ID).
		Str(logging.StrategyKey, s.name).
		Logger()

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			// session is gone or the deadline cannot be met
			if ctx.Err() != nil {
				return truco.GameAction{}, ctx.Err()
			}
			logger.Warn().Err(err).Msg("Rate limiter refused inference call")
			return s.fallback(view, available)
		}
	}

	response, err := s.completer.Complete(ctx, system, user)
	if err != nil {
		if ctx.Err() != nil {
			return truco.GameAction{}, ctx.Err()
		}
		logger.Error().Err(err).Msg("Error getting model decision")
		return s.fallback(view, available)
	}
	logger.Debug().Msgf("Model response: %s", response)

	action, ok := parseDecision(response, view, available)
	if !ok {
		logger.Warn().Msgf("Could not parse model response [%s]", response)
		return s.fallback(view, available)
	}
	logger.Info().Msgf("Player %s chose %s", view.Player.Name, action.Kind)
	return action, nil
}

func (s *InferenceStrategy) fallback(view truco.View, available []truco.ActionKind) (truco.GameAction, error) {
	util.Metrics.StrategyFallback(s.name)
	return fallback(view, available)
}
