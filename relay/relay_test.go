package relay

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager.com/truco/truco"
)

func entry(matchID string, pid int, comment string) Entry {
	return Entry{
		MatchID:    matchID,
		PlayerID:   pid,
		PlayerName: fmt.Sprintf("p%d", pid),
		Comment:    comment,
		Action:     truco.PlayCard,
		Timestamp:  time.Date(2024, 1, 1, 0, 0, pid, 0, time.UTC),
	}
}

func exerciseRelay(t *testing.T, r Relay) {
	ctx := context.Background()
	require.NoError(t, r.Enqueue(ctx, entry("a", 1, "primeiro")))
	require.NoError(t, r.Enqueue(ctx, entry("b", 2, "outro jogo")))
	require.NoError(t, r.Enqueue(ctx, entry("a", 3, "...")))
	require.NoError(t, r.Enqueue(ctx, entry("a", 4, "  ")))
	require.NoError(t, r.Enqueue(ctx, entry("a", 5, "segundo")))

	got, err := r.DrainAll(ctx, "a")
	require.NoError(t, err)
	expected := []Entry{entry("a", 1, "primeiro"), entry("a", 5, "segundo")}
	if !cmp.Equal(got, expected) {
		t.Errorf("DrainAll(a) = %v; expected %v", got, expected)
	}

	got, err = r.DrainAll(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = r.DrainAll(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []Entry{entry("b", 2, "outro jogo")}, got)
}

func TestMemoryRelay(t *testing.T) {
	exerciseRelay(t, NewMemoryRelay())
}

func TestMemoryRelayConcurrentProducers(t *testing.T) {
	r := NewMemoryRelay()
	var wg sync.WaitGroup
	for p := 1; p <= 4; p++ {
		wg.Add(1)
		go func(pid int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				r.Enqueue(context.Background(), entry("m", pid, "oi"))
			}
		}(p)
	}
	wg.Wait()
	got, err := r.DrainAll(context.Background(), "m")
	require.NoError(t, err)
	assert.Len(t, got, 200)
}

func TestRedisRelay(t *testing.T) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("REDIS_HOST is not set")
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	r := NewRedisRelay(fmt.Sprintf("%s:%s", host, port), os.Getenv("REDIS_PW"), db)
	defer r.Close()
	ctx := context.Background()
	require.NoError(t, r.Ping(ctx))
	require.NoError(t, r.Clear(ctx, "a"))
	require.NoError(t, r.Clear(ctx, "b"))
	exerciseRelay(t, r)
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []string
}

func (p *recordingPublisher) PublishComment(matchID string, comment interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, matchID+":"+comment.(Entry).Comment)
	return nil
}

func TestFanoutPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	f := NewFanout(NewMemoryRelay(), pub)
	ctx := context.Background()
	require.NoError(t, f.Enqueue(ctx, entry("a", 1, "truco!")))
	require.NoError(t, f.Enqueue(ctx, entry("a", 2, "...")))
	assert.Equal(t, []string{"a:truco!"}, pub.published)

	got, err := f.DrainAll(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
