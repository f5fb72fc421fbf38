package game

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueOrder(t *testing.T) {
	q := newCommandQueue()
	q.push(&PlayCommand{ActorID: 1})
	q.push(&PlayCommand{ActorID: 2})
	q.push(&CloseRoundCommand{})
	assert.Equal(t, 3, q.len())

	ctx := context.Background()
	for _, expected := range []string{"Play", "Play", "CloseRound"} {
		c, err := q.pop(ctx)
		require.NoError(t, err)
		assert.Equal(t, expected, c.Name())
	}
	assert.Equal(t, 0, q.len())
}

func TestQueuePopWaitsForPush(t *testing.T) {
	q := newCommandQueue()
	go func() {
		time.Sleep(20 * time.Millisecond)
		q.push(&StartHandCommand{Starter: 1})
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := q.pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, &StartHandCommand{Starter: 1}, c)
}

func TestQueuePopCancelled(t *testing.T) {
	q := newCommandQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := q.pop(ctx)
	assert.Equal(t, context.Canceled, err)
}

func TestQueueClear(t *testing.T) {
	q := newCommandQueue()
	q.push(&CloseRoundCommand{})
	q.push(&CloseRoundCommand{})
	assert.Equal(t, 2, q.clear())
	assert.Equal(t, 0, q.len())
}

func TestParseDelayConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "delays")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "delays.yaml")
	require.NoError(t, ioutil.WriteFile(file, []byte("beforeCommand: 5\nbeforeHand: 10\n"), 0644))
	delays, err := ParseDelayConfig(file)
	require.NoError(t, err)
	assert.Equal(t, Delays{BeforeCommand: 5, BeforeHand: 10}, delays)

	_, err = ParseDelayConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, ioutil.WriteFile(bad, []byte("beforeHand: [1"), 0644))
	_, err = ParseDelayConfig(bad)
	assert.Error(t, err)
}

func TestPauseHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.Equal(t, context.Canceled, pause(ctx, 10000))
	assert.Less(t, int64(time.Since(start)), int64(time.Second))
	assert.NoError(t, pause(context.Background(), 0))
}
