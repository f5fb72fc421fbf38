package player

import (
	"fmt"
	"strings"

	"voyager.com/truco/truco"
)

// promptNames are the action names the model is asked to answer with.
var promptNames = map[truco.ActionKind]string{
	truco.PlayCard:   "PlayCard",
	truco.CallBid:    "CallTruco",
	truco.SkipTurn:   "SkipTurn",
	truco.AcceptBid:  "AcceptTruco",
	truco.DeclineBid: "DeclineTruco",
	truco.RaiseBid:   "RaiseTruco",
}

const playSystemPrompt = `You are an expert Truco player (Brazilian card game).
Analyze the game state and choose the best action strategically.

Rules reminder:
- Truco is played with a 40-card deck (no 8s, 9s or 10s)
- The Manilha is the strongest card (one rank higher than the turned card)
- Card strength order: 3 > 2 > A > K > J > Q > 7 > 6 > 5 > 4
- Manilha suits: clubs > hearts > spades > diamonds
- You can PlayCard (reveal a card), CallTruco (raise the stakes) or SkipTurn (play a card face down)
- A hand is played over up to 3 rounds. Winning 2 rounds wins the hand.
- Declining a truco gives the opponents the current reward.
- It is a 2v2 game and turns alternate between teams.

Truco strategy:
- Only call truco early with a very strong hand (Manilha or high cards)
- Bluffs are worth it in desperate situations

Respond with the action name and the card number (1-3) when playing a card.
Then add a provocative comment in PT-BR with 10-20 words on a new line starting with 'Comment:'.
Do not describe your action or the card you played in the comment.`

const bidSystemPrompt = `You are an expert Truco player responding to a Truco call (bet raise).

Your options are:
- AcceptTruco: accept the raised stakes
- DeclineTruco: give up the hand, the opponents take the current reward
- RaiseTruco: counter-raise the stakes

Strategy:
- Accept unless your hand is terrible (all low cards, no Manilha)
- Raise only with excellent cards and when the bet is not already high
- If you are far behind on the score take more risks

Respond with the action name on the first line.
Then add a provocative comment in PT-BR with 10-20 words on a new line starting with 'Comment:'.`

func describeCard(c truco.Card) string {
	if c.Hidden {
		return "[Hidden Card]"
	}
	return c.Name + " of " + string(c.Suit)
}

// buildGameContext renders what the player can see as plain text.
func buildGameContext(view truco.View) string {
	var sb strings.Builder
	sb.WriteString("=== GAME STATE ===\n")
	fmt.Fprintf(&sb, "Current Reward: %d points\n", view.BetLevel)
	fmt.Fprintf(&sb, "Round: %d\n", len(view.History)+1)
	fmt.Fprintf(&sb, "Phase: %s\n", view.Phase)
	fmt.Fprintf(&sb, "Turned card: %s (Manilha rank: %d)\n", describeCard(view.Manilha), truco.ManilhaRank(view.Manilha))
	fmt.Fprintf(&sb, "Score: your team %d x %d opponents\n", view.ScoreUs, view.ScoreThem)
	fmt.Fprintf(&sb, "Rounds won this hand: your team %d x %d opponents\n", view.TurnWinsUs, view.TurnWinsThem)

	if len(view.RecentComments) > 0 {
		sb.WriteString("\n=== MATCH CONVERSATION HISTORY ===\n")
		for _, c := range view.RecentComments {
			fmt.Fprintf(&sb, "  %s\n", FormatComment(c.PlayerName, c.PlayerID, c.Text, c.Action))
		}
	}

	sb.WriteString("\n=== YOUR HAND ===\n")
	for i, c := range view.Hand {
		fmt.Fprintf(&sb, "%d. %s (Rank: %d)\n", i+1, describeCard(c), c.Rank)
	}

	sb.WriteString("\n=== PLAYED CARDS THIS ROUND (ON TABLE) ===\n")
	if len(view.Table) == 0 {
		sb.WriteString("No cards on table yet.\n")
	}
	for _, a := range view.Table {
		if a.Card != nil {
			fmt.Fprintf(&sb, "Player %d: %s\n", a.ActorID, describeCard(*a.Card))
		}
	}

	if len(view.History) > 0 {
		sb.WriteString("\n=== PREVIOUS ROUNDS HISTORY ===\n")
		for i, round := range view.History {
			fmt.Fprintf(&sb, "\nRound %d:\n", i+1)
			for _, a := range round {
				if a.Card != nil {
					fmt.Fprintf(&sb, "  Player %d: %s\n", a.ActorID, describeCard(*a.Card))
				}
			}
		}
	}
	return sb.String()
}

func buildAvailableActions(available []truco.ActionKind) string {
	var sb strings.Builder
	sb.WriteString("\n=== AVAILABLE ACTIONS ===\n")
	for _, a := range available {
		fmt.Fprintf(&sb, "- %s\n", promptNames[a])
	}
	sb.WriteString("\n=== STRATEGIC COMMENT ===\n")
	sb.WriteString("Add a strategic comment with trash talk in PT-BR with 10-20 words.\n")
	return sb.String()
}

func buildPlayPrompt(view truco.View, available []truco.ActionKind) string {
	return buildGameContext(view) + buildAvailableActions(available)
}

func buildBidPrompt(view truco.View, available []truco.ActionKind, proposedBet int) string {
	return buildGameContext(view) + fmt.Sprintf("\n\nCurrent Bet: %d points\n", proposedBet) + buildAvailableActions(available)
}

// FormatComment is how comments are shown to players and viewers.
func FormatComment(name string, pid int, text string, kind truco.ActionKind) string {
	return fmt.Sprintf("[%s (P%d)]: %s (%s)", name, pid, text, kind)
}
