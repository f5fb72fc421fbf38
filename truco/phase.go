package truco

import (
	"github.com/looplab/fsm"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Phase string

const (
	FirstMove     Phase = "FirstMove"
	WaitingMove   Phase = "WaitingMove"
	Truco         Phase = "Truco"
	TrucoAccepted Phase = "TrucoAccepted"
	Declined      Phase = "Declined"
)

const (
	phaseEventPlay    = "play"
	phaseEventBid     = "bid"
	phaseEventAccept  = "accept"
	phaseEventDecline = "decline"
)

var phaseLogger = log.With().Str("logger_name", "truco::phase").Logger()

// phaseMachine drives the betting phase of a single hand.
type phaseMachine struct {
	sm        *fsm.FSM
	sessionID string
}

func newPhaseMachine(sessionID string) *phaseMachine {
	p := &phaseMachine{sessionID: sessionID}
	p.sm = fsm.NewFSM(
		string(FirstMove),
		fsm.Events{
			{Name: phaseEventPlay, Src: []string{string(FirstMove), string(WaitingMove), string(TrucoAccepted)}, Dst: string(WaitingMove)},
			{Name: phaseEventBid, Src: []string{string(FirstMove), string(WaitingMove), string(TrucoAccepted), string(Truco)}, Dst: string(Truco)},
			{Name: phaseEventAccept, Src: []string{string(FirstMove), string(WaitingMove), string(TrucoAccepted), string(Truco)}, Dst: string(TrucoAccepted)},
			{Name: phaseEventDecline, Src: []string{string(Truco)}, Dst: string(Declined)},
		},
		fsm.Callbacks{
			"enter_state": func(e *fsm.Event) { p.enterState(e) },
		},
	)
	return p
}

func (p *phaseMachine) enterState(e *fsm.Event) {
	phaseLogger.Debug().
		Str("matchID", p.sessionID).
		Msgf("Phase %s -> %s (%s)", e.Src, e.Dst, e.Event)
}

func (p *phaseMachine) current() Phase {
	return Phase(p.sm.Current())
}

func (p *phaseMachine) fire(event string) error {
	err := p.sm.Event(event)
	if err == nil {
		return nil
	}
	if _, ok := err.(fsm.NoTransitionError); ok {
		return nil
	}
	return errors.Wrapf(err, "Phase %s does not allow %s", p.current(), event)
}
