package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"voyager.com/truco/logging"
	"voyager.com/truco/player"
	"voyager.com/truco/relay"
	"voyager.com/truco/truco"
	"voyager.com/truco/util"
)

// Command is one step of a match. Executing it mutates the engine and returns
// the step that follows, or nil once the match is over.
type Command interface {
	Name() string
	Execute(ctx context.Context, sc *Scope) (Command, error)
}

// Scope is what a command needs to run against one match.
type Scope struct {
	MatchID string
	Service *truco.Service
	Players map[int]player.Strategy
	TeamA   []truco.Player
	TeamB   []truco.Player
	Relay   relay.Relay
	Delays  Delays
	Logger  zerolog.Logger
}

func (sc *Scope) strategy(pid int) (player.Strategy, error) {
	s, ok := sc.Players[pid]
	if !ok {
		return nil, fmt.Errorf("No strategy for player %d", pid)
	}
	return s, nil
}

// recordComment stores the action's comment in the session and hands it to the relay.
func (sc *Scope) recordComment(ctx context.Context, action truco.GameAction) {
	if strings.TrimSpace(action.Comment) == "" {
		return
	}
	p, _, err := sc.Service.Player(sc.MatchID, action.ActorID)
	if err != nil {
		sc.Logger.Warn().Err(err).Msg("Comment from unknown player")
		return
	}
	if err := sc.Service.AddComment(sc.MatchID, action.ActorID, action.Comment, action.Kind); err != nil {
		sc.Logger.Warn().Err(err).Msg("Unable to store comment")
	}
	sc.Logger.Info().
		Int(logging.PlayerIDKey, p.ID).
		Msg(player.FormatComment(p.Name, p.ID, action.Comment, action.Kind))
	if sc.Relay == nil || !relay.Relayable(action.Comment) {
		return
	}
	err = sc.Relay.Enqueue(ctx, relay.Entry{
		MatchID:    sc.MatchID,
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Comment:    action.Comment,
		Action:     action.Kind,
		Timestamp:  timeNow(),
	})
	if err != nil {
		sc.Logger.Warn().Err(err).Msg("Unable to relay comment")
		return
	}
	util.Metrics.CommentRelayed()
}

func checkAvailable(action truco.GameAction, pid int, available []truco.ActionKind) error {
	if !truco.ContainsAction(available, action.Kind) {
		return truco.IllegalActionError{PlayerID: pid, Kind: action.Kind, Available: available}
	}
	return nil
}

// nextHand starts the following hand with the rotated starter.
func nextHand(sc *Scope) (Command, error) {
	next, err := sc.Service.NextHandStarter(sc.MatchID)
	if err != nil {
		return nil, err
	}
	return &StartHandCommand{Starter: next}, nil
}

func playFromFront(sc *Scope) (Command, error) {
	front, err := sc.Service.CurrentPlayer(sc.MatchID)
	if err != nil {
		return nil, err
	}
	return &PlayCommand{ActorID: front}, nil
}

type StartHandCommand struct {
	Starter int
}

func (c *StartHandCommand) Name() string {
	return "StartHand"
}

func (c *StartHandCommand) Execute(ctx context.Context, sc *Scope) (Command, error) {
	if err := pause(ctx, sc.Delays.BeforeHand); err != nil {
		return nil, err
	}
	if err := sc.Service.StartHand(sc.MatchID, sc.TeamA, sc.TeamB, c.Starter); err != nil {
		return nil, errors.Wrap(err, "Unable to start hand")
	}
	util.Metrics.HandStarted()
	st, err := sc.Service.Snapshot(sc.MatchID)
	if err != nil {
		return nil, err
	}
	logger := logging.WithHand(sc.Logger, st.HandNo)
	logger.Info().
		Int("starter", c.Starter).
		Msgf("New hand. Score TeamA %d x %d TeamB", st.ScoreA, st.ScoreB)
	return &PlayCommand{ActorID: c.Starter}, nil
}

type PlayCommand struct {
	ActorID int
}

func (c *PlayCommand) Name() string {
	return "Play"
}

func (c *PlayCommand) Execute(ctx context.Context, sc *Scope) (Command, error) {
	id := sc.MatchID
	strategy, err := sc.strategy(c.ActorID)
	if err != nil {
		return nil, err
	}
	available, err := sc.Service.GetAvailableActions(id, c.ActorID)
	if err != nil {
		return nil, err
	}
	view, err := sc.Service.View(id, c.ActorID)
	if err != nil {
		return nil, err
	}
	action, err := strategy.DecidePlay(ctx, view, available)
	if err != nil {
		return nil, errors.Wrapf(err, "Player %d could not decide", c.ActorID)
	}
	action.ActorID = c.ActorID
	if err := checkAvailable(action, c.ActorID, available); err != nil {
		return nil, err
	}

	var next Command
	switch action.Kind {
	case truco.PlayCard, truco.SkipTurn:
		if err := sc.Service.SendCard(id, action); err != nil {
			return nil, err
		}
		if action.Card != nil {
			sc.Logger.Debug().Int(logging.PlayerIDKey, c.ActorID).Msgf("%s %s", action.Kind, action.Card)
		}
		next = &CloseRoundCommand{}
	case truco.CallBid:
		if err := sc.Service.ApplyBid(id, c.ActorID); err != nil {
			return nil, err
		}
		receiver, err := sc.Service.NextPlayerAfter(id, c.ActorID)
		if err != nil {
			return nil, err
		}
		sc.Logger.Info().Int(logging.PlayerIDKey, c.ActorID).Msgf("Truco called. Player %d must answer", receiver)
		next = &BidResponseCommand{RequesterID: c.ActorID, ReceiverID: receiver}
	default:
		return nil, truco.IllegalActionError{PlayerID: c.ActorID, Kind: action.Kind, Available: available}
	}
	sc.recordComment(ctx, action)
	return next, nil
}

type BidResponseCommand struct {
	RequesterID int
	ReceiverID  int
}

func (c *BidResponseCommand) Name() string {
	return "BidResponse"
}

func (c *BidResponseCommand) Execute(ctx context.Context, sc *Scope) (Command, error) {
	if err := pause(ctx, sc.Delays.BeforeBidResponse); err != nil {
		return nil, err
	}
	id := sc.MatchID
	strategy, err := sc.strategy(c.ReceiverID)
	if err != nil {
		return nil, err
	}
	available, err := sc.Service.GetAvailableActions(id, c.ReceiverID)
	if err != nil {
		return nil, err
	}
	proposed, err := sc.Service.NextBetLevel(id)
	if err != nil {
		return nil, err
	}
	view, err := sc.Service.View(id, c.ReceiverID)
	if err != nil {
		return nil, err
	}
	action, err := strategy.DecideBidResponse(ctx, view, available, proposed)
	if err != nil {
		return nil, errors.Wrapf(err, "Player %d could not answer the bid", c.ReceiverID)
	}
	action.ActorID = c.ReceiverID
	if err := checkAvailable(action, c.ReceiverID, available); err != nil {
		return nil, err
	}

	logger := sc.Logger.With().Int(logging.PlayerIDKey, c.ReceiverID).Logger()
	var next Command
	switch action.Kind {
	case truco.AcceptBid:
		if err := sc.Service.AcceptBid(id); err != nil {
			return nil, err
		}
		logger.Info().Msgf("Truco accepted. Hand is worth %d", proposed)
		if next, err = playFromFront(sc); err != nil {
			return nil, err
		}
	case truco.DeclineBid:
		out, err := sc.Service.DeclineBid(id, c.ReceiverID)
		if err != nil {
			return nil, err
		}
		logger.Info().Msgf("Truco declined. %s takes %d", out.HandWinner, out.Points)
		if !out.MatchOver {
			if next, err = nextHand(sc); err != nil {
				return nil, err
			}
		}
	case truco.RaiseBid:
		if err := sc.Service.AcceptBid(id); err != nil {
			return nil, err
		}
		if err := sc.Service.ApplyBid(id, c.ReceiverID); err != nil {
			return nil, err
		}
		logger.Info().Msgf("Truco raised over %d", proposed)
		next = &BidResponseCommand{RequesterID: c.ReceiverID, ReceiverID: c.RequesterID}
	default:
		return nil, truco.IllegalActionError{PlayerID: c.ReceiverID, Kind: action.Kind, Available: available}
	}
	sc.recordComment(ctx, action)
	return next, nil
}

type CloseRoundCommand struct{}

func (c *CloseRoundCommand) Name() string {
	return "CloseRound"
}

func (c *CloseRoundCommand) Execute(ctx context.Context, sc *Scope) (Command, error) {
	complete, err := sc.Service.RoundComplete(sc.MatchID)
	if err != nil {
		return nil, err
	}
	if !complete {
		return playFromFront(sc)
	}
	out, err := sc.Service.ResolveRound(sc.MatchID)
	if err != nil {
		return nil, err
	}
	if out.Draw {
		sc.Logger.Info().Msg("Round drawn")
	} else {
		sc.Logger.Info().Msgf("Round won by player %d (%s)", out.WinnerID, out.WinnerTeam)
	}
	switch {
	case out.MatchOver:
		return nil, nil
	case out.HandOver:
		if out.HandWinner == "" {
			sc.Logger.Info().Msg("Hand tied. No points")
		} else {
			sc.Logger.Info().Msgf("Hand won by %s for %d", out.HandWinner, out.Points)
		}
		return nextHand(sc)
	default:
		return playFromFront(sc)
	}
}
