package truco

import "fmt"

type Suit string

const (
	Hearts   Suit = "Hearts"
	Diamonds Suit = "Diamonds"
	Clubs    Suit = "Clubs"
	Spades   Suit = "Spades"
)

// suitOrder is the order the deck is built in.
var suitOrder = []Suit{Hearts, Diamonds, Clubs, Spades}

// suitRanks breaks ties between manilhas: clubs > hearts > spades > diamonds.
var suitRanks = map[Suit]int{
	Diamonds: 1,
	Spades:   2,
	Hearts:   3,
	Clubs:    4,
}

// cardNames in ascending rank order. Rank is index+1.
var cardNames = []string{"4", "5", "6", "7", "Q", "J", "K", "A", "2", "3"}

const (
	MinRank = 1
	MaxRank = 10
)

type Card struct {
	Name     string `json:"name"`
	Suit     Suit   `json:"suit"`
	SuitRank int    `json:"suitRank"`
	Rank     int    `json:"rank"`
	Hidden   bool   `json:"hidden"`
}

func NewCard(name string, suit Suit) (Card, error) {
	for i, n := range cardNames {
		if n == name {
			sr, ok := suitRanks[suit]
			if !ok {
				return Card{}, fmt.Errorf("Invalid suit [%s]", suit)
			}
			return Card{Name: name, Suit: suit, SuitRank: sr, Rank: i + 1}, nil
		}
	}
	return Card{}, fmt.Errorf("Invalid card name [%s]", name)
}

// Same reports whether both cards are the same physical card, ignoring the hidden flag.
func (c Card) Same(o Card) bool {
	return c.Name == o.Name && c.Suit == o.Suit
}

// FaceDown returns a copy of the card played hidden.
func (c Card) FaceDown() Card {
	c.Hidden = true
	return c
}

func (c Card) String() string {
	if c.Name == "" {
		return "-"
	}
	s := fmt.Sprintf("%s of %s", c.Name, c.Suit)
	if c.Hidden {
		s += " (hidden)"
	}
	return s
}

// ManilhaRank is the rank that becomes trump when the given card is turned up.
func ManilhaRank(turned Card) int {
	if turned.Rank >= MaxRank {
		return MinRank
	}
	return turned.Rank + 1
}

func IsManilha(c Card, turned Card) bool {
	return c.Rank == ManilhaRank(turned)
}

// Strength of a card in a round. Hidden cards carry no strength.
func Strength(c Card, turned Card) int {
	if c.Hidden {
		return 0
	}
	if IsManilha(c, turned) {
		return 50 + c.SuitRank
	}
	return c.Rank
}
