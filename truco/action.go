package truco

import "time"

type ActionKind string

const (
	PlayCard   ActionKind = "PlayCard"
	CallBid    ActionKind = "CallBid"
	AcceptBid  ActionKind = "AcceptBid"
	DeclineBid ActionKind = "DeclineBid"
	RaiseBid   ActionKind = "RaiseBid"
	SkipTurn   ActionKind = "SkipTurn"
)

type GameAction struct {
	Kind    ActionKind `json:"kind"`
	ActorID int        `json:"actorId"`
	Card    *Card      `json:"card,omitempty"`
	Comment string     `json:"comment,omitempty"`
}

func ContainsAction(available []ActionKind, kind ActionKind) bool {
	for _, k := range available {
		if k == kind {
			return true
		}
	}
	return false
}

type Team string

const (
	TeamA Team = "TeamA"
	TeamB Team = "TeamB"
)

func (t Team) Opponent() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

type Player struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Comment struct {
	PlayerID   int        `json:"playerId"`
	PlayerName string     `json:"playerName"`
	Text       string     `json:"comment"`
	Action     ActionKind `json:"action"`
	At         time.Time  `json:"timestamp"`
}

type HandResult struct {
	HandNo   int  `json:"handNo"`
	Winner   Team `json:"winner,omitempty"`
	Points   int  `json:"points"`
	Declined bool `json:"declined"`
	Void     bool `json:"void"`
}

// RoundOutcome is what ResolveRound and DeclineBid report back to the caller.
type RoundOutcome struct {
	Draw       bool `json:"draw"`
	WinnerID   int  `json:"winnerId,omitempty"`
	WinnerTeam Team `json:"winnerTeam,omitempty"`
	HandOver   bool `json:"handOver"`
	HandWinner Team `json:"handWinner,omitempty"`
	Points     int  `json:"points"`
	MatchOver  bool `json:"matchOver"`
}
