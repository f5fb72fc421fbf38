package player

import (
	"context"
	"fmt"

	"voyager.com/truco/truco"
)

// Strategy decides for one seated player. Implementations never mutate the
// view; the engine applies the returned action.
type Strategy interface {
	Name() string
	DecidePlay(ctx context.Context, view truco.View, available []truco.ActionKind) (truco.GameAction, error)
	DecideBidResponse(ctx context.Context, view truco.View, available []truco.ActionKind, proposedBet int) (truco.GameAction, error)
}

type NoCardsError struct {
	PlayerID int
}

func (e NoCardsError) Error() string {
	return fmt.Sprintf("Player %d has no cards to play", e.PlayerID)
}

func cardAction(kind truco.ActionKind, view truco.View, idx int) (truco.GameAction, error) {
	if len(view.Hand) == 0 {
		return truco.GameAction{}, NoCardsError{PlayerID: view.Player.ID}
	}
	if idx < 0 || idx >= len(view.Hand) {
		idx = 0
	}
	card := view.Hand[idx]
	if kind == truco.SkipTurn {
		card = card.FaceDown()
	}
	return truco.GameAction{Kind: kind, ActorID: view.Player.ID, Card: &card}, nil
}

// fallback plays the first card when possible and declines otherwise.
func fallback(view truco.View, available []truco.ActionKind) (truco.GameAction, error) {
	if truco.ContainsAction(available, truco.PlayCard) {
		return cardAction(truco.PlayCard, view, 0)
	}
	if truco.ContainsAction(available, truco.DeclineBid) {
		return truco.GameAction{Kind: truco.DeclineBid, ActorID: view.Player.ID}, nil
	}
	return truco.GameAction{}, fmt.Errorf("No default action among %v", available)
}
