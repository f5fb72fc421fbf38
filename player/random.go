package player

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/db47h/rand64/v3/xoshiro"

	"voyager.com/truco/truco"
	"voyager.com/truco/util/random"
)

const RandomTag = "random"

// RandomStrategy picks uniformly among the available actions.
type RandomStrategy struct {
	randGen *rand.Rand
}

func NewRandomStrategy(seed int64) *RandomStrategy {
	if seed == 0 {
		seed = random.NewSeed()
	}
	var src xoshiro.Rng256SS
	src.Seed(seed)
	return &RandomStrategy{randGen: rand.New(&src)}
}

func (r *RandomStrategy) Name() string {
	return RandomTag
}

func (r *RandomStrategy) DecidePlay(ctx context.Context, view truco.View, available []truco.ActionKind) (truco.GameAction, error) {
	if len(available) == 0 {
		return truco.GameAction{}, fmt.Errorf("No available actions for player %d", view.Player.ID)
	}
	kind := available[r.randGen.Intn(len(available))]
	switch kind {
	case truco.PlayCard, truco.SkipTurn:
		if len(view.Hand) == 0 {
			return truco.GameAction{}, NoCardsError{PlayerID: view.Player.ID}
		}
		return cardAction(kind, view, r.randGen.Intn(len(view.Hand)))
	case truco.CallBid:
		return truco.GameAction{Kind: truco.CallBid, ActorID: view.Player.ID}, nil
	default:
		return truco.GameAction{}, fmt.Errorf("Action %s is not a play", kind)
	}
}

// DecideBidResponse accepts one time in three, declines otherwise and raises
// only when declining is not on offer.
func (r *RandomStrategy) DecideBidResponse(ctx context.Context, view truco.View, available []truco.ActionKind, proposedBet int) (truco.GameAction, error) {
	pid := view.Player.ID
	if r.randGen.Intn(3) == 1 && truco.ContainsAction(available, truco.AcceptBid) {
		return truco.GameAction{Kind: truco.AcceptBid, ActorID: pid}, nil
	}
	if truco.ContainsAction(available, truco.DeclineBid) {
		return truco.GameAction{Kind: truco.DeclineBid, ActorID: pid}, nil
	}
	return truco.GameAction{Kind: truco.RaiseBid, ActorID: pid}, nil
}
