package truco

// Match is the state of a single hand. A new Match replaces the previous one
// every time a hand starts.
type Match struct {
	HandNo       int
	turnOrder    []int
	currentRound []GameAction
	history      [][]GameAction
	roundCounter int
	roundsPlayed int
	betLevel     int
	phase        *phaseMachine
	manilha      Card
	lastBidder   int
	hands        map[int][]Card
	handStarter  int
	turnWins     map[Team]int
	over         bool
}

func newMatch(sessionID string, handNo int, seats []int, starter int, deck *Deck) *Match {
	m := &Match{
		HandNo:      handNo,
		turnOrder:   rotateTo(seats, starter),
		betLevel:    1,
		phase:       newPhaseMachine(sessionID),
		hands:       make(map[int][]Card),
		handStarter: starter,
		turnWins:    map[Team]int{TeamA: 0, TeamB: 0},
	}
	m.manilha = deck.Draw(1)[0]
	for i := 0; i < 3; i++ {
		for _, seat := range seats {
			m.hands[seat] = append(m.hands[seat], deck.Draw(1)[0])
		}
	}
	return m
}

// rotateTo returns the circular order of ids beginning at first.
func rotateTo(ids []int, first int) []int {
	order := make([]int, 0, len(ids))
	start := 0
	for i, id := range ids {
		if id == first {
			start = i
			break
		}
	}
	for i := 0; i < len(ids); i++ {
		order = append(order, ids[(start+i)%len(ids)])
	}
	return order
}

func (m *Match) front() int {
	return m.turnOrder[0]
}

// moveToBack rotates the front player to the end of the turn order.
func (m *Match) moveToBack() {
	first := m.turnOrder[0]
	m.turnOrder = append(m.turnOrder[1:], first)
}

func (m *Match) nextAfter(pid int) int {
	for i, id := range m.turnOrder {
		if id == pid {
			return m.turnOrder[(i+1)%len(m.turnOrder)]
		}
	}
	return m.front()
}

func (m *Match) archiveRound() {
	m.history = append(m.history, m.currentRound)
	m.currentRound = nil
	m.roundCounter = 0
	m.roundsPlayed++
}

// removeFromHand takes the card out of the player's hand and returns the held copy.
func (m *Match) removeFromHand(pid int, card Card) (Card, bool) {
	hand := m.hands[pid]
	for i, c := range hand {
		if c.Same(card) {
			m.hands[pid] = append(hand[:i:i], hand[i+1:]...)
			return c, true
		}
	}
	return Card{}, false
}

func (m *Match) holds(pid int, card Card) bool {
	for _, c := range m.hands[pid] {
		if c.Same(card) {
			return true
		}
	}
	return false
}

func copyCards(cards []Card) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}

func copyActions(actions []GameAction) []GameAction {
	out := make([]GameAction, len(actions))
	for i, a := range actions {
		out[i] = a
		if a.Card != nil {
			c := *a.Card
			out[i].Card = &c
		}
	}
	return out
}
