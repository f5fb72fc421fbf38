package truco

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var serviceLogger = log.With().Str("logger_name", "truco::service").Logger()

// RecentCommentsInView is how many comments a strategy sees when deciding.
const RecentCommentsInView = 10

// Service is the rules engine. It owns every session's state; callers address
// a session by id. Operations on one session are expected to be issued by a
// single writer at a time, reads may come from anywhere.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	seed     func() int64
	now      func() time.Time
}

type Option func(*Service)

// WithSeeds sets the source of deck seeds. Returning 0 picks a random seed.
func WithSeeds(seed func() int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(opts ...Option) *Service {
	s := &Service{
		sessions: make(map[string]*Session),
		seed:     func() int64 { return 0 },
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession registers a new session with its two teams.
func (svc *Service) CreateSession(id string, teamA []Player, teamB []Player) error {
	s, err := newSession(id, teamA, teamB)
	if err != nil {
		return err
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if _, exists := svc.sessions[id]; exists {
		return errors.Wrapf(ErrSessionExists, "Session [%s]", id)
	}
	svc.sessions[id] = s
	return nil
}

func (svc *Service) RemoveSession(id string) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	_, exists := svc.sessions[id]
	delete(svc.sessions, id)
	return exists
}

func (svc *Service) SessionIDs() []string {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	ids := make([]string, 0, len(svc.sessions))
	for id := range svc.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (svc *Service) session(id string) (*Session, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	s, ok := svc.sessions[id]
	if !ok {
		return nil, errors.Wrapf(ErrSessionNotFound, "Session [%s]", id)
	}
	return s, nil
}

func (svc *Service) write(id string, fn func(s *Session) error) error {
	s, err := svc.session(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

func (svc *Service) read(id string, fn func(s *Session) error) error {
	s, err := svc.session(id)
	if err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s)
}

// StartHand deals a new hand. The session is created on first use.
func (svc *Service) StartHand(id string, teamA []Player, teamB []Player, starter int) error {
	if _, err := svc.session(id); err != nil {
		if err := svc.CreateSession(id, teamA, teamB); err != nil && errors.Cause(err) != ErrSessionExists {
			return err
		}
	}
	return svc.write(id, func(s *Session) error {
		if s.finished {
			return fmt.Errorf("Session [%s] is over. Winner: %s", id, s.winner)
		}
		if !s.isSeated(starter) {
			return InvalidRosterError{Msg: fmt.Sprintf("Starting player %d is not seated", starter)}
		}
		s.handsPlayed++
		s.lastStarter = starter
		s.current = newMatch(id, s.handsPlayed, s.seats, starter, NewDeck(svc.seed()))
		serviceLogger.Debug().
			Str("matchID", id).
			Int("handNo", s.handsPlayed).
			Int("starter", starter).
			Msgf("Hand started. Manilha turned: %s", s.current.manilha)
		return nil
	})
}

// NextHandStarter is the seat after the previous hand's starter.
func (svc *Service) NextHandStarter(id string) (int, error) {
	var next int
	err := svc.read(id, func(s *Session) error {
		if s.lastStarter == 0 {
			next = s.seats[0]
			return nil
		}
		next = rotateTo(s.seats, s.lastStarter)[1]
		return nil
	})
	return next, err
}

func (svc *Service) GetAvailableActions(id string, pid int) ([]ActionKind, error) {
	var actions []ActionKind
	err := svc.read(id, func(s *Session) error {
		m, err := s.hand()
		if err != nil {
			return err
		}
		if !s.isSeated(pid) {
			return InvalidRosterError{Msg: fmt.Sprintf("Player %d is not seated", pid)}
		}
		actions, err = availableActions(s, m, pid)
		return err
	})
	return actions, err
}

func availableActions(s *Session, m *Match, pid int) ([]ActionKind, error) {
	switch phase := m.phase.current(); phase {
	case FirstMove:
		return []ActionKind{PlayCard, CallBid}, nil
	case WaitingMove:
		actions := []ActionKind{PlayCard, SkipTurn}
		if m.lastBidder == 0 || s.opposing(m.lastBidder, pid) {
			actions = append(actions, CallBid)
		}
		return actions, nil
	case Truco:
		actions := []ActionKind{AcceptBid, DeclineBid}
		if m.betLevel < MaxBet {
			actions = append(actions, RaiseBid)
		}
		return actions, nil
	case TrucoAccepted:
		actions := []ActionKind{PlayCard}
		if m.lastBidder != 0 && s.opposing(m.lastBidder, pid) && m.betLevel < MaxBet {
			actions = append(actions, CallBid)
		}
		return actions, nil
	default:
		return nil, UnimplementedPhaseError{Phase: phase}
	}
}

// ApplyBid puts the hand into the Truco phase. The bet itself only moves
// when the bid is accepted.
func (svc *Service) ApplyBid(id string, bidder int) error {
	return svc.write(id, func(s *Session) error {
		m, err := s.hand()
		if err != nil {
			return err
		}
		if !s.isSeated(bidder) {
			return InvalidRosterError{Msg: fmt.Sprintf("Player %d is not seated", bidder)}
		}
		if err := m.phase.fire(phaseEventBid); err != nil {
			return err
		}
		m.lastBidder = bidder
		return nil
	})
}

// AcceptBid moves the bet one step up the ladder from any phase of a live hand.
func (svc *Service) AcceptBid(id string) error {
	return svc.write(id, func(s *Session) error {
		m, err := s.hand()
		if err != nil {
			return err
		}
		if err := m.phase.fire(phaseEventAccept); err != nil {
			return err
		}
		m.betLevel = NextBet(m.betLevel)
		return nil
	})
}

// NextBetLevel is the value the pending bid would raise the hand to.
func (svc *Service) NextBetLevel(id string) (int, error) {
	var level int
	err := svc.read(id, func(s *Session) error {
		m, err := s.hand()
		if err != nil {
			return err
		}
		level = NextBet(m.betLevel)
		return nil
	})
	return level, err
}

func (svc *Service) BetLevel(id string) (int, error) {
	var level int
	err := svc.read(id, func(s *Session) error {
		if s.current == nil {
			return ErrNoHand
		}
		level = s.current.betLevel
		return nil
	})
	return level, err
}

// DeclineBid ends the hand. The bidding team takes the current bet.
func (svc *Service) DeclineBid(id string, decliner int) (RoundOutcome, error) {
	var out RoundOutcome
	err := svc.write(id, func(s *Session) error {
		m, err := s.hand()
		if err != nil {
			return err
		}
		if !s.isSeated(decliner) {
			return InvalidRosterError{Msg: fmt.Sprintf("Player %d is not seated", decliner)}
		}
		if err := m.phase.fire(phaseEventDecline); err != nil {
			return err
		}
		winner := s.teamOf[decliner].Opponent()
		m.turnWins[winner] = 2
		out = s.finishHand(winner, m.betLevel, true)
		return nil
	})
	return out, err
}

// SendCard puts a card on the table, face up for PlayCard and face down for SkipTurn.
func (svc *Service) SendCard(id string, action GameAction) error {
	return svc.write(id, func(s *Session) error {
		m, err := s.hand()
		if err != nil {
			return err
		}
		if action.Kind != PlayCard && action.Kind != SkipTurn {
			return IllegalActionError{PlayerID: action.ActorID, Kind: action.Kind, Available: []ActionKind{PlayCard, SkipTurn}}
		}
		if m.roundCounter >= 4 {
			return fmt.Errorf("Round already has 4 cards")
		}
		if action.ActorID != m.front() {
			return NotPlayersTurnError{PlayerID: action.ActorID, Expected: m.front()}
		}
		if action.Card == nil {
			return CardNotInHandError{PlayerID: action.ActorID}
		}
		if !m.holds(action.ActorID, *action.Card) {
			return CardNotInHandError{PlayerID: action.ActorID, Card: *action.Card}
		}
		if err := m.phase.fire(phaseEventPlay); err != nil {
			return err
		}
		card, _ := m.removeFromHand(action.ActorID, *action.Card)
		card.Hidden = action.Kind == SkipTurn
		action.Card = &card
		m.currentRound = append(m.currentRound, action)
		m.moveToBack()
		m.roundCounter++
		return nil
	})
}

// RoundComplete reports whether all four players have put a card down.
func (svc *Service) RoundComplete(id string) (bool, error) {
	var complete bool
	err := svc.read(id, func(s *Session) error {
		m, err := s.hand()
		if err != nil {
			return err
		}
		complete = m.roundCounter == 4
		return nil
	})
	return complete, err
}

// ResolveRound scores a complete round and reports whether it also decided
// the hand or the match.
func (svc *Service) ResolveRound(id string) (RoundOutcome, error) {
	var out RoundOutcome
	err := svc.write(id, func(s *Session) error {
		m, err := s.hand()
		if err != nil {
			return err
		}
		if m.roundCounter != 4 {
			return fmt.Errorf("Round is not complete. %d of 4 cards played", m.roundCounter)
		}
		winnerIdx, draw := Evaluate(m.currentRound, m.manilha)
		if draw {
			m.turnWins[TeamA]++
			m.turnWins[TeamB]++
			m.archiveRound()
			m.turnOrder = rotateTo(s.seats, m.handStarter)
			a, b := m.turnWins[TeamA], m.turnWins[TeamB]
			switch {
			case a > b:
				out = s.finishHand(TeamA, m.betLevel, false)
			case b > a:
				out = s.finishHand(TeamB, m.betLevel, false)
			case m.roundsPlayed >= 3:
				out = s.finishHand("", 0, false)
			}
			out.Draw = true
			return nil
		}

		winnerID := m.currentRound[winnerIdx].ActorID
		team := s.teamOf[winnerID]
		m.turnWins[team]++
		m.archiveRound()
		m.turnOrder = rotateTo(s.seats, winnerID)
		if m.turnWins[team] >= 2 {
			out = s.finishHand(team, m.betLevel, false)
		} else if m.roundsPlayed >= 3 {
			out = s.finishHand("", 0, false)
		}
		out.WinnerID = winnerID
		out.WinnerTeam = team
		return nil
	})
	return out, err
}

func (svc *Service) CurrentPlayer(id string) (int, error) {
	var pid int
	err := svc.read(id, func(s *Session) error {
		m, err := s.hand()
		if err != nil {
			return err
		}
		pid = m.front()
		return nil
	})
	return pid, err
}

// NextPlayerAfter returns the player that follows pid in the current turn order.
func (svc *Service) NextPlayerAfter(id string, pid int) (int, error) {
	var next int
	err := svc.read(id, func(s *Session) error {
		m, err := s.hand()
		if err != nil {
			return err
		}
		next = m.nextAfter(pid)
		return nil
	})
	return next, err
}

func (svc *Service) Player(id string, pid int) (Player, Team, error) {
	var p Player
	var t Team
	err := svc.read(id, func(s *Session) error {
		var ok bool
		p, ok = s.players[pid]
		if !ok {
			return InvalidRosterError{Msg: fmt.Sprintf("Player %d is not seated", pid)}
		}
		t = s.teamOf[pid]
		return nil
	})
	return p, t, err
}

// AddComment appends to the session's comment log. Blank comments are dropped.
func (svc *Service) AddComment(id string, pid int, text string, kind ActionKind) error {
	return svc.write(id, func(s *Session) error {
		if text == "" {
			return nil
		}
		s.comments = append(s.comments, Comment{
			PlayerID:   pid,
			PlayerName: s.players[pid].Name,
			Text:       text,
			Action:     kind,
			At:         svc.now(),
		})
		return nil
	})
}

func (svc *Service) IsOver(id string) (bool, Team, error) {
	var over bool
	var winner Team
	err := svc.read(id, func(s *Session) error {
		over = s.finished
		winner = s.winner
		return nil
	})
	return over, winner, err
}

func (svc *Service) Scores(id string) (int, int, error) {
	var a, b int
	err := svc.read(id, func(s *Session) error {
		a, b = s.scores[TeamA], s.scores[TeamB]
		return nil
	})
	return a, b, err
}

func (svc *Service) Results(id string) ([]HandResult, error) {
	var results []HandResult
	err := svc.read(id, func(s *Session) error {
		results = append([]HandResult(nil), s.results...)
		return nil
	})
	return results, err
}
