package game

import (
	"context"
	"sync"
)

// commandQueue is an unbounded FIFO with any number of producers and a single
// consumer.
type commandQueue struct {
	mu     sync.Mutex
	items  []Command
	notify chan struct{}
}

func newCommandQueue() *commandQueue {
	return &commandQueue{
		items:  make([]Command, 0),
		notify: make(chan struct{}, 1),
	}
}

func (q *commandQueue) push(c Command) {
	q.mu.Lock()
	q.items = append(q.items, c)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// pop blocks until a command is available or ctx is done.
func (q *commandQueue) pop(ctx context.Context) (Command, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			c := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			q.mu.Unlock()
			return c, nil
		}
		q.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.notify:
		}
	}
}

// clear drops every pending command and returns how many were dropped.
func (q *commandQueue) clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	q.items = make([]Command, 0)
	return n
}

func (q *commandQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
