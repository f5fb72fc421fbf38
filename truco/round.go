package truco

// MaxBet is the top of the bet ladder and also the score that ends a match.
const MaxBet = 12

const MatchPoints = 12

var betLadder = map[int]int{1: 3, 3: 6, 6: 9, 9: 12, 12: 12}

// NextBet returns the value a bid raises the given level to.
func NextBet(level int) int {
	if next, ok := betLadder[level]; ok {
		return next
	}
	return MaxBet
}

// Evaluate picks the strongest card of a round. It returns the index of the
// winning action, or draw=true when no revealed card stands alone on top.
// A manilha can never draw since suits break the tie.
func Evaluate(actions []GameAction, manilha Card) (winner int, draw bool) {
	winner = -1
	top := 0
	count := 0
	for i, a := range actions {
		if a.Card == nil {
			continue
		}
		s := Strength(*a.Card, manilha)
		if s == 0 {
			continue
		}
		if s > top {
			top = s
			winner = i
			count = 1
		} else if s == top {
			count++
		}
	}
	if winner < 0 {
		return -1, true
	}
	if count > 1 && !IsManilha(*actions[winner].Card, manilha) {
		return -1, true
	}
	return winner, false
}
