package truco

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
	ErrNoHand          = errors.New("no hand in progress")
)

type UnimplementedPhaseError struct {
	Phase Phase
}

func (e UnimplementedPhaseError) Error() string {
	return fmt.Sprintf("No actions defined for phase %s", e.Phase)
}

type IllegalActionError struct {
	PlayerID  int
	Kind      ActionKind
	Available []ActionKind
}

func (e IllegalActionError) Error() string {
	return fmt.Sprintf("Player %d cannot %s. Available: %v", e.PlayerID, e.Kind, e.Available)
}

type CardNotInHandError struct {
	PlayerID int
	Card     Card
}

func (e CardNotInHandError) Error() string {
	return fmt.Sprintf("Player %d does not hold %s", e.PlayerID, e.Card)
}

type NotPlayersTurnError struct {
	PlayerID int
	Expected int
}

func (e NotPlayersTurnError) Error() string {
	return fmt.Sprintf("Player %d acted out of turn. Expected player %d", e.PlayerID, e.Expected)
}

type InvalidRosterError struct {
	Msg string
}

func (e InvalidRosterError) Error() string {
	return e.Msg
}
