package nats

import (
	"os"
	"testing"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjects(t *testing.T) {
	assert.Equal(t, "truco.match-1.comments", CommentsSubject("match-1"))
	assert.Equal(t, "truco.match-1.result", ResultSubject("match-1"))
}

func TestPublishMatchEnded(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL is not set")
	}
	nc, err := natsgo.Connect(url)
	require.NoError(t, err)
	defer nc.Close()

	sub, err := nc.SubscribeSync(ResultSubject("m1"))
	require.NoError(t, err)
	events, err := nc.SubscribeSync(MatchesSubject)
	require.NoError(t, err)

	p := NewPublisherFromConn(nc)
	require.NoError(t, p.PublishMatchEnded("m1", map[string]int{"teamAScore": 12}))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.JSONEq(t, `{"teamAScore":12}`, string(msg.Data))

	msg, err = events.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"MATCH_ENDED","matchId":"m1"}`, string(msg.Data))
}
