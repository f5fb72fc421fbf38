package relay

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisRelay keeps each match's comments in a redis list so several server
// processes can share them.
type RedisRelay struct {
	rdclient *redis.Client
}

func NewRedisRelay(redisURL string, redisPW string, redisDB int) *RedisRelay {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisRelay{
		rdclient: rdclient,
	}
}

func commentsKey(matchID string) string {
	return fmt.Sprintf("truco:comments:%s", matchID)
}

func (r *RedisRelay) Ping(ctx context.Context) error {
	return r.rdclient.Ping(ctx).Err()
}

func (r *RedisRelay) Enqueue(ctx context.Context, e Entry) error {
	if !Relayable(e.Comment) {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "Unable to encode comment")
	}
	return r.rdclient.RPush(ctx, commentsKey(e.MatchID), data).Err()
}

// DrainAll reads and deletes the list in one transaction.
func (r *RedisRelay) DrainAll(ctx context.Context, matchID string) ([]Entry, error) {
	key := commentsKey(matchID)
	var lrange *redis.StringSliceCmd
	_, err := r.rdclient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to drain comments of match [%s]", matchID)
	}
	entries := make([]Entry, 0, len(lrange.Val()))
	for _, raw := range lrange.Val() {
		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			relayLogger.Warn().Err(err).Str("matchID", matchID).Msg("Dropping undecodable comment")
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *RedisRelay) Clear(ctx context.Context, matchID string) error {
	return r.rdclient.Del(ctx, commentsKey(matchID)).Err()
}

func (r *RedisRelay) Close() error {
	return r.rdclient.Close()
}
