package player

import (
	"regexp"
	"strconv"
	"strings"

	"voyager.com/truco/truco"
)

const maxCommentWords = 20

var (
	commentRegex   = regexp.MustCompile(`(?i)(?:comment|comentário|comentario):\s*(.+?)(?:\n|$)`)
	commentStart   = regexp.MustCompile(`(?i)comment|coment(?:a|á)rio`)
	commentWord    = regexp.MustCompile(`(?i)\bcoment(?:a|á)rio\b`)
	cardIndexRegex = regexp.MustCompile(`card\s*(\d+)`)
	bareIndexRegex = regexp.MustCompile(`\b([123])\b`)
	actionWords    = []string{"playcard", "calltruco", "skipturn", "accept", "decline", "raise"}
)

func cleanComment(comment string) string {
	comment = strings.TrimSpace(commentWord.ReplaceAllString(comment, ""))
	comment = strings.Trim(comment, `"'`)
	words := strings.Fields(comment)
	if len(words) > maxCommentWords {
		words = words[:maxCommentWords]
	}
	return strings.Join(words, " ")
}

// extractComment finds the "Comment:" line. Without one, a trailing line that
// does not name an action is used.
func extractComment(response string) string {
	if m := commentRegex.FindStringSubmatch(response); m != nil {
		return cleanComment(m[1])
	}
	lines := strings.Split(strings.TrimSpace(response), "\n")
	if len(lines) < 2 {
		return ""
	}
	last := strings.TrimSpace(lines[len(lines)-1])
	lower := strings.ToLower(last)
	for _, w := range actionWords {
		if strings.Contains(lower, w) {
			return ""
		}
	}
	if len(last) <= 5 {
		return ""
	}
	return cleanComment(last)
}

// extractCardIndex returns the zero based card the model named, or 0.
func extractCardIndex(response string) int {
	if m := cardIndexRegex.FindStringSubmatch(response); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n - 1
		}
	}
	if m := bareIndexRegex.FindStringSubmatch(response); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n - 1
		}
	}
	return 0
}

// parseDecision maps a model response onto one of the available actions.
// ok is false when nothing usable was found.
func parseDecision(response string, view truco.View, available []truco.ActionKind) (truco.GameAction, bool) {
	comment := extractComment(response)
	lower := strings.ToLower(response)
	// card numbers inside the comment must not pick the card
	decision := lower
	if loc := commentStart.FindStringIndex(decision); loc != nil {
		decision = decision[:loc[0]]
	}
	pid := view.Player.ID
	has := func(kind truco.ActionKind) bool { return truco.ContainsAction(available, kind) }

	var action truco.GameAction
	var err error
	switch {
	case strings.Contains(decision, "playcard") || strings.Contains(decision, "play card"):
		if !has(truco.PlayCard) {
			return truco.GameAction{}, false
		}
		action, err = cardAction(truco.PlayCard, view, extractCardIndex(decision))
	case strings.Contains(decision, "calltruco") || strings.Contains(decision, "call truco"):
		if !has(truco.CallBid) {
			return truco.GameAction{}, false
		}
		action = truco.GameAction{Kind: truco.CallBid, ActorID: pid}
	case strings.Contains(decision, "skip"):
		if !has(truco.SkipTurn) {
			return truco.GameAction{}, false
		}
		action, err = cardAction(truco.SkipTurn, view, 0)
	case strings.Contains(decision, "accept") && has(truco.AcceptBid):
		action = truco.GameAction{Kind: truco.AcceptBid, ActorID: pid}
	case strings.Contains(decision, "decline") && has(truco.DeclineBid):
		action = truco.GameAction{Kind: truco.DeclineBid, ActorID: pid}
	case strings.Contains(decision, "raise") && has(truco.RaiseBid):
		action = truco.GameAction{Kind: truco.RaiseBid, ActorID: pid}
	default:
		return truco.GameAction{}, false
	}
	if err != nil {
		return truco.GameAction{}, false
	}
	action.Comment = comment
	return action, true
}
