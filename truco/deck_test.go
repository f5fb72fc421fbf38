package truco

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFullDeck(t *testing.T) {
	deck := NewDeck(42)
	if deck.Remaining() != DeckSize {
		t.Fatalf("Deck size = %d; expected %d", deck.Remaining(), DeckSize)
	}
	cards := deck.Draw(DeckSize)
	seen := make(map[string]bool)
	perRank := make(map[int]int)
	perSuit := make(map[Suit]int)
	for _, c := range cards {
		key := c.String()
		if seen[key] {
			t.Fatalf("Duplicate card %s", key)
		}
		seen[key] = true
		perRank[c.Rank]++
		perSuit[c.Suit]++
	}
	if len(perRank) != 10 {
		t.Errorf("Number of ranks = %d; expected 10", len(perRank))
	}
	for rank, n := range perRank {
		if n != 4 {
			t.Errorf("Rank %d has %d cards; expected 4", rank, n)
		}
	}
	for suit, n := range perSuit {
		if n != 10 {
			t.Errorf("Suit %s has %d cards; expected 10", suit, n)
		}
	}
	if deck.Remaining() != 0 {
		t.Errorf("Remaining = %d after drawing everything", deck.Remaining())
	}
}

func TestShuffleIsSeeded(t *testing.T) {
	a := NewDeck(7).Draw(DeckSize)
	b := NewDeck(7).Draw(DeckSize)
	if !cmp.Equal(a, b) {
		t.Errorf("Same seed produced different decks")
	}
	c := NewDeck(8).Draw(DeckSize)
	if cmp.Equal(a, c) {
		t.Errorf("Different seeds produced the same deck")
	}
}

func TestNewCard(t *testing.T) {
	testCases := []struct {
		name     string
		suit     Suit
		rank     int
		suitRank int
		fail     bool
	}{
		{name: "4", suit: Diamonds, rank: 1, suitRank: 1},
		{name: "Q", suit: Spades, rank: 5, suitRank: 2},
		{name: "A", suit: Hearts, rank: 8, suitRank: 3},
		{name: "3", suit: Clubs, rank: 10, suitRank: 4},
		{name: "10", suit: Clubs, fail: true},
		{name: "K", suit: Suit("Stars"), fail: true},
	}
	for _, tc := range testCases {
		c, err := NewCard(tc.name, tc.suit)
		if tc.fail {
			if err == nil {
				t.Errorf("NewCard(%s, %s) succeeded; expected error", tc.name, tc.suit)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewCard(%s, %s) returned error [%s]", tc.name, tc.suit, err)
		}
		if c.Rank != tc.rank || c.SuitRank != tc.suitRank {
			t.Errorf("NewCard(%s, %s) = rank %d suitRank %d; expected %d %d", tc.name, tc.suit, c.Rank, c.SuitRank, tc.rank, tc.suitRank)
		}
	}
}

func TestManilhaRank(t *testing.T) {
	for rank := MinRank; rank <= MaxRank; rank++ {
		expected := rank + 1
		if rank == MaxRank {
			expected = MinRank
		}
		got := ManilhaRank(Card{Rank: rank})
		if got != expected {
			t.Errorf("ManilhaRank(%d) = %d; expected %d", rank, got, expected)
		}
	}
}
