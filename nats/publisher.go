package nats

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var natsLogger = log.With().Str("logger_name", "nats::publisher").Logger()

var json = jsoniter.ConfigCompatibleWithStandardLibrary

/**
Subjects match events are published on:
truco.<matchId>.comments : every relayed player comment
truco.<matchId>.result   : the final result once a match is over
truco.matches            : match started / ended notifications
*/

func CommentsSubject(matchID string) string {
	return fmt.Sprintf("truco.%s.comments", matchID)
}

func ResultSubject(matchID string) string {
	return fmt.Sprintf("truco.%s.result", matchID)
}

const MatchesSubject = "truco.matches"

type MatchEvent struct {
	Type    string `json:"type"`
	MatchID string `json:"matchId"`
}

const (
	MatchStarted = "MATCH_STARTED"
	MatchEnded   = "MATCH_ENDED"
)

// Publisher sends match events to NATS as JSON.
type Publisher struct {
	nc *natsgo.Conn
}

func NewPublisher(natsURL string) (*Publisher, error) {
	nc, err := natsgo.Connect(natsURL)
	if err != nil {
		natsLogger.Error().Msgf("Failed to connect to nats server: %v", err)
		return nil, errors.Wrapf(err, "Unable to connect to NATS server [%s]", natsURL)
	}
	return &Publisher{nc: nc}, nil
}

func NewPublisherFromConn(nc *natsgo.Conn) *Publisher {
	return &Publisher{nc: nc}
}

func (p *Publisher) publish(subject string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "Unable to encode message for %s", subject)
	}
	return p.nc.Publish(subject, data)
}

func (p *Publisher) PublishComment(matchID string, comment interface{}) error {
	return p.publish(CommentsSubject(matchID), comment)
}

func (p *Publisher) PublishMatchStarted(matchID string) error {
	return p.publish(MatchesSubject, MatchEvent{Type: MatchStarted, MatchID: matchID})
}

// PublishMatchEnded sends the result on the match subject and a notification
// on the shared matches subject.
func (p *Publisher) PublishMatchEnded(matchID string, result interface{}) error {
	if err := p.publish(ResultSubject(matchID), result); err != nil {
		return err
	}
	return p.publish(MatchesSubject, MatchEvent{Type: MatchEnded, MatchID: matchID})
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
