package truco

// View is what a player is allowed to see when it has to decide.
type View struct {
	SessionID      string         `json:"sessionId"`
	Player         Player         `json:"player"`
	Team           Team           `json:"team"`
	Hand           []Card         `json:"hand"`
	Manilha        Card           `json:"manilha"`
	BetLevel       int            `json:"betLevel"`
	Phase          Phase          `json:"phase"`
	Table          []GameAction   `json:"table"`
	History        [][]GameAction `json:"history"`
	ScoreUs        int            `json:"scoreUs"`
	ScoreThem      int            `json:"scoreThem"`
	TurnWinsUs     int            `json:"turnWinsUs"`
	TurnWinsThem   int            `json:"turnWinsThem"`
	LastBidderID   int            `json:"lastBidderId,omitempty"`
	RecentComments []Comment      `json:"recentComments"`
	Players        map[int]Player `json:"-"`
}

func (svc *Service) View(id string, pid int) (View, error) {
	var v View
	err := svc.read(id, func(s *Session) error {
		m, err := s.hand()
		if err != nil {
			return err
		}
		p, ok := s.players[pid]
		if !ok {
			return InvalidRosterError{Msg: "Player is not seated"}
		}
		team := s.teamOf[pid]
		history := make([][]GameAction, len(m.history))
		for i, r := range m.history {
			history[i] = copyActions(r)
		}
		players := make(map[int]Player, len(s.players))
		for k, pl := range s.players {
			players[k] = pl
		}
		v = View{
			SessionID:      id,
			Player:         p,
			Team:           team,
			Hand:           copyCards(m.hands[pid]),
			Manilha:        m.manilha,
			BetLevel:       m.betLevel,
			Phase:          m.phase.current(),
			Table:          copyActions(m.currentRound),
			History:        history,
			ScoreUs:        s.scores[team],
			ScoreThem:      s.scores[team.Opponent()],
			TurnWinsUs:     m.turnWins[team],
			TurnWinsThem:   m.turnWins[team.Opponent()],
			LastBidderID:   m.lastBidder,
			RecentComments: s.recentComments(RecentCommentsInView),
			Players:        players,
		}
		return nil
	})
	return v, err
}

var positions = []string{"top", "right", "bottom", "left"}

type PlayerState struct {
	Player
	Team        Team   `json:"team"`
	Position    string `json:"position"`
	Hand        []Card `json:"hand"`
	LastComment string `json:"lastComment,omitempty"`
}

// State is a point in time copy of a session, used by the API.
type State struct {
	MatchID       string        `json:"matchId"`
	ScoreA        int           `json:"teamAScore"`
	ScoreB        int           `json:"teamBScore"`
	TurnWinsA     int           `json:"teamATurnWins"`
	TurnWinsB     int           `json:"teamBTurnWins"`
	BetLevel      int           `json:"currentReward"`
	Phase         Phase         `json:"state,omitempty"`
	Manilha       *Card         `json:"manilha,omitempty"`
	HandNo        int           `json:"handNo"`
	RoundNo       int           `json:"currentTurn"`
	CurrentPlayer int           `json:"currentPlayer,omitempty"`
	Players       []PlayerState `json:"players"`
	Table         []GameAction  `json:"playedCards"`
	Comments      []Comment     `json:"comments"`
	Results       []HandResult  `json:"results"`
	Finished      bool          `json:"isFinished"`
	Winner        Team          `json:"winnerTeam,omitempty"`
}

func (svc *Service) Snapshot(id string) (State, error) {
	var st State
	err := svc.read(id, func(s *Session) error {
		st = State{
			MatchID:  id,
			ScoreA:   s.scores[TeamA],
			ScoreB:   s.scores[TeamB],
			HandNo:   s.handsPlayed,
			Comments: append([]Comment(nil), s.comments...),
			Results:  append([]HandResult(nil), s.results...),
			Finished: s.finished,
			Winner:   s.winner,
			Table:    []GameAction{},
		}
		m := s.current
		for i, pid := range s.seats {
			ps := PlayerState{
				Player:      s.players[pid],
				Team:        s.teamOf[pid],
				Position:    positions[i],
				Hand:        []Card{},
				LastComment: s.lastCommentOf(pid),
			}
			if m != nil {
				ps.Hand = copyCards(m.hands[pid])
			}
			st.Players = append(st.Players, ps)
		}
		if m == nil {
			return nil
		}
		manilha := m.manilha
		st.Manilha = &manilha
		st.TurnWinsA = m.turnWins[TeamA]
		st.TurnWinsB = m.turnWins[TeamB]
		st.BetLevel = m.betLevel
		st.Phase = m.phase.current()
		st.RoundNo = m.roundsPlayed + 1
		st.Table = copyActions(m.currentRound)
		if !m.over {
			st.CurrentPlayer = m.front()
		}
		return nil
	})
	return st, err
}
