package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager.com/truco/logging"
	"voyager.com/truco/relay"
	"voyager.com/truco/truco"
)

func TestRecordCommentKeepsEllipsisOutOfRelay(t *testing.T) {
	svc := truco.NewService()
	require.NoError(t, svc.StartHand("c1", teamA, teamB, 1))
	r := relay.NewMemoryRelay()
	sc := &Scope{MatchID: "c1", Service: svc, Relay: r, Logger: logging.GetMatchLogger("c1")}

	ctx := context.Background()
	sc.recordComment(ctx, truco.GameAction{Kind: truco.PlayCard, ActorID: 1, Comment: "..."})
	sc.recordComment(ctx, truco.GameAction{Kind: truco.CallBid, ActorID: 2, Comment: "truco!"})
	sc.recordComment(ctx, truco.GameAction{Kind: truco.PlayCard, ActorID: 3, Comment: "  "})

	st, err := svc.Snapshot("c1")
	require.NoError(t, err)
	texts := []string{}
	for _, c := range st.Comments {
		texts = append(texts, c.Text)
	}
	assert.Equal(t, []string{"...", "truco!"}, texts)

	entries, err := r.DrainAll(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "truco!", entries[0].Comment)
	assert.Equal(t, "bruno", entries[0].PlayerName)
}
