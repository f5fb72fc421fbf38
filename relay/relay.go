package relay

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"voyager.com/truco/truco"
)

var relayLogger = log.With().Str("logger_name", "relay::relay").Logger()

// Entry is one player comment waiting for an observer to pick it up.
type Entry struct {
	MatchID    string           `json:"matchId"`
	PlayerID   int              `json:"playerId"`
	PlayerName string           `json:"playerName"`
	Comment    string           `json:"comment"`
	Action     truco.ActionKind `json:"action"`
	Timestamp  time.Time        `json:"timestamp"`
}

// Relay hands comments from the match workers to whoever is watching.
// DrainAll is destructive: an entry is returned at most once.
type Relay interface {
	Enqueue(ctx context.Context, e Entry) error
	DrainAll(ctx context.Context, matchID string) ([]Entry, error)
	Clear(ctx context.Context, matchID string) error
}

// Relayable is false for comments with nothing to say.
func Relayable(comment string) bool {
	c := strings.TrimSpace(comment)
	return c != "" && c != "..."
}

// CommentPublisher pushes comments to live subscribers.
type CommentPublisher interface {
	PublishComment(matchID string, comment interface{}) error
}

// Fanout stores comments in a relay and also publishes each one.
// Publishing failures are logged and do not fail the enqueue.
type Fanout struct {
	Relay
	publisher CommentPublisher
}

func NewFanout(r Relay, publisher CommentPublisher) *Fanout {
	return &Fanout{Relay: r, publisher: publisher}
}

func (f *Fanout) Enqueue(ctx context.Context, e Entry) error {
	if err := f.Relay.Enqueue(ctx, e); err != nil {
		return err
	}
	if f.publisher != nil && Relayable(e.Comment) {
		if err := f.publisher.PublishComment(e.MatchID, e); err != nil {
			relayLogger.Warn().Err(err).Str("matchID", e.MatchID).Msg("Unable to publish comment")
		}
	}
	return nil
}
