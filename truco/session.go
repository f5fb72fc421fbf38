package truco

import (
	"fmt"
	"sync"
)

// Session is everything the engine keeps for one running match: the roster,
// the match score, the hand in progress and the comment log.
type Session struct {
	mu sync.RWMutex

	ID          string
	teamA       []Player
	teamB       []Player
	seats       []int
	players     map[int]Player
	teamOf      map[int]Team
	current     *Match
	scores      map[Team]int
	comments    []Comment
	results     []HandResult
	handsPlayed int
	lastStarter int
	finished    bool
	winner      Team
}

func newSession(id string, teamA []Player, teamB []Player) (*Session, error) {
	if len(teamA) != 2 || len(teamB) != 2 {
		return nil, InvalidRosterError{Msg: fmt.Sprintf("Each team needs exactly 2 players. TeamA: %d, TeamB: %d", len(teamA), len(teamB))}
	}
	s := &Session{
		ID:      id,
		teamA:   append([]Player(nil), teamA...),
		teamB:   append([]Player(nil), teamB...),
		seats:   []int{teamA[0].ID, teamB[0].ID, teamA[1].ID, teamB[1].ID},
		players: make(map[int]Player),
		teamOf:  make(map[int]Team),
		scores:  map[Team]int{TeamA: 0, TeamB: 0},
	}
	for _, p := range teamA {
		s.players[p.ID] = p
		s.teamOf[p.ID] = TeamA
	}
	for _, p := range teamB {
		s.players[p.ID] = p
		s.teamOf[p.ID] = TeamB
	}
	for _, id := range s.seats {
		if id <= 0 {
			return nil, InvalidRosterError{Msg: fmt.Sprintf("Invalid player ID [%d]", id)}
		}
	}
	if len(s.players) != 4 {
		return nil, InvalidRosterError{Msg: "Player IDs must be unique"}
	}
	return s, nil
}

func (s *Session) isSeated(pid int) bool {
	_, ok := s.teamOf[pid]
	return ok
}

func (s *Session) opposing(a int, b int) bool {
	return s.teamOf[a] != s.teamOf[b]
}

func (s *Session) hand() (*Match, error) {
	if s.current == nil || s.current.over {
		return nil, ErrNoHand
	}
	return s.current, nil
}

// finishHand closes the current hand and credits points to the winner.
// An empty winner means the hand was void.
func (s *Session) finishHand(winner Team, points int, declined bool) RoundOutcome {
	m := s.current
	m.over = true
	void := winner == ""
	if void {
		points = 0
	} else {
		s.scores[winner] += points
	}
	s.results = append(s.results, HandResult{
		HandNo:   m.HandNo,
		Winner:   winner,
		Points:   points,
		Declined: declined,
		Void:     void,
	})
	for _, t := range []Team{TeamA, TeamB} {
		if s.scores[t] >= MatchPoints {
			s.finished = true
			s.winner = t
		}
	}
	return RoundOutcome{
		HandOver:   true,
		HandWinner: winner,
		Points:     points,
		MatchOver:  s.finished,
	}
}

func (s *Session) recentComments(n int) []Comment {
	start := len(s.comments) - n
	if start < 0 {
		start = 0
	}
	return append([]Comment(nil), s.comments[start:]...)
}

func (s *Session) lastCommentOf(pid int) string {
	for i := len(s.comments) - 1; i >= 0; i-- {
		if s.comments[i].PlayerID == pid {
			return s.comments[i].Text
		}
	}
	return ""
}
