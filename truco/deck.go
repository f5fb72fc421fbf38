package truco

import (
	"math/rand"

	"github.com/db47h/rand64/v3/xoshiro"

	"voyager.com/truco/util/random"
)

const DeckSize = 40

var fullDeck []Card

func init() {
	fullDeck = initializeFullCards()
}

func initializeFullCards() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range suitOrder {
		for i, name := range cardNames {
			cards = append(cards, Card{
				Name:     name,
				Suit:     suit,
				SuitRank: suitRanks[suit],
				Rank:     i + 1,
			})
		}
	}
	return cards
}

type Deck struct {
	cards   []Card
	randGen *rand.Rand
}

// NewDeck returns a shuffled deck. A zero seed picks a random one.
func NewDeck(seed int64) *Deck {
	if seed == 0 {
		seed = random.NewSeed()
	}
	var src xoshiro.Rng256SS
	src.Seed(seed)
	deck := &Deck{randGen: rand.New(&src)}
	deck.Shuffle()
	return deck
}

func NewDeckNoShuffle() *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)
	return deck
}

// Shuffle restores all 40 cards and does a Fisher-Yates pass.
func (deck *Deck) Shuffle() *Deck {
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)
	for i := len(deck.cards) - 1; i > 0; i-- {
		j := deck.randGen.Intn(i + 1)
		deck.cards[i], deck.cards[j] = deck.cards[j], deck.cards[i]
	}
	return deck
}

func (deck *Deck) Draw(n int) []Card {
	if n > len(deck.cards) {
		n = len(deck.cards)
	}
	drawn := make([]Card, n)
	copy(drawn, deck.cards[:n])
	deck.cards = deck.cards[n:]
	return drawn
}

func (deck *Deck) Remaining() int {
	return len(deck.cards)
}
