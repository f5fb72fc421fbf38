package truco

import (
	"testing"
)

func mustCard(t *testing.T, name string, suit Suit) Card {
	t.Helper()
	c, err := NewCard(name, suit)
	if err != nil {
		t.Fatalf("NewCard(%s, %s) returned error [%s]", name, suit, err)
	}
	return c
}

func play(pid int, c Card) GameAction {
	return GameAction{Kind: PlayCard, ActorID: pid, Card: &c}
}

func TestEvaluate(t *testing.T) {
	// Turned 4 makes every 5 a manilha.
	turned := mustCard(t, "4", Hearts)
	hidden := mustCard(t, "3", Spades).FaceDown()
	testCases := []struct {
		name    string
		actions []GameAction
		winner  int
		draw    bool
	}{
		{
			name: "highest rank wins",
			actions: []GameAction{
				play(1, mustCard(t, "3", Hearts)),
				play(2, mustCard(t, "K", Clubs)),
				play(3, mustCard(t, "Q", Spades)),
				play(4, mustCard(t, "J", Diamonds)),
			},
			winner: 0,
		},
		{
			name: "duplicate top rank draws",
			actions: []GameAction{
				play(1, mustCard(t, "K", Hearts)),
				play(2, mustCard(t, "K", Clubs)),
				play(3, mustCard(t, "Q", Spades)),
				play(4, mustCard(t, "J", Diamonds)),
			},
			draw: true,
		},
		{
			name: "manilha beats a three",
			actions: []GameAction{
				play(1, mustCard(t, "3", Hearts)),
				play(2, mustCard(t, "5", Diamonds)),
				play(3, mustCard(t, "3", Clubs)),
				play(4, mustCard(t, "2", Diamonds)),
			},
			winner: 1,
		},
		{
			name: "manilhas tie broken by suit",
			actions: []GameAction{
				play(1, mustCard(t, "5", Hearts)),
				play(2, mustCard(t, "5", Spades)),
				play(3, mustCard(t, "5", Clubs)),
				play(4, mustCard(t, "5", Diamonds)),
			},
			winner: 2,
		},
		{
			name: "hidden card is ignored",
			actions: []GameAction{
				play(1, mustCard(t, "7", Hearts)),
				{Kind: SkipTurn, ActorID: 2, Card: &hidden},
				play(3, mustCard(t, "6", Clubs)),
				play(4, mustCard(t, "4", Diamonds)),
			},
			winner: 0,
		},
		{
			name: "nothing revealed draws",
			actions: []GameAction{
				{Kind: SkipTurn, ActorID: 1, Card: &hidden},
				{Kind: SkipTurn, ActorID: 2, Card: &hidden},
			},
			draw: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			winner, draw := Evaluate(tc.actions, turned)
			if draw != tc.draw {
				t.Fatalf("draw = %v; expected %v", draw, tc.draw)
			}
			if !tc.draw && winner != tc.winner {
				t.Errorf("winner = %d; expected %d", winner, tc.winner)
			}
			again, againDraw := Evaluate(tc.actions, turned)
			if again != winner || againDraw != draw {
				t.Errorf("Evaluate is not deterministic")
			}
		})
	}
}

func TestBetLadder(t *testing.T) {
	testCases := []struct {
		level    int
		expected int
	}{
		{1, 3},
		{3, 6},
		{6, 9},
		{9, 12},
		{12, 12},
	}
	for _, tc := range testCases {
		if got := NextBet(tc.level); got != tc.expected {
			t.Errorf("NextBet(%d) = %d; expected %d", tc.level, got, tc.expected)
		}
	}
}
