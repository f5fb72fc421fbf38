package game

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	caches "voyager.com/truco/caching"
	"voyager.com/truco/logging"
	"voyager.com/truco/player"
	"voyager.com/truco/relay"
	"voyager.com/truco/truco"
	"voyager.com/truco/util"
)

var mediatorLogger = log.With().Str("logger_name", "game::mediator").Logger()

var timeNow = time.Now

var ErrMatchNotFound = errors.New("match not found")

// How long EndMatch waits for a worker to notice cancellation.
const endMatchWait = 5 * time.Second

// MatchPublisher is told when matches start and end.
type MatchPublisher interface {
	PublishMatchStarted(matchID string) error
	PublishMatchEnded(matchID string, result interface{}) error
}

type MatchConfig struct {
	MatchID        string
	TeamA          []truco.Player
	TeamB          []truco.Player
	Strategies     map[int]player.Strategy
	StartingPlayer int
}

type matchWorker struct {
	id           string
	queue        *commandQueue
	scope        *Scope
	ctx          context.Context
	cancel       context.CancelFunc
	done         chan struct{}
	finished     chan struct{}
	finishedOnce sync.Once
}

// Mediator runs every match on its own worker. Commands of one match execute
// strictly in order; different matches run in parallel.
type Mediator struct {
	service   *truco.Service
	relay     relay.Relay
	delays    Delays
	results   *caches.ResultCache
	publisher MatchPublisher
	matches   cmap.ConcurrentMap
}

type MediatorOption func(*Mediator)

func WithResultCache(c *caches.ResultCache) MediatorOption {
	return func(m *Mediator) {
		m.results = c
	}
}

func WithPublisher(p MatchPublisher) MediatorOption {
	return func(m *Mediator) {
		m.publisher = p
	}
}

func NewMediator(service *truco.Service, r relay.Relay, delays Delays, opts ...MediatorOption) *Mediator {
	m := &Mediator{
		service: service,
		relay:   r,
		delays:  delays,
		matches: cmap.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Mediator) Service() *truco.Service {
	return m.service
}

func (m *Mediator) Relay() relay.Relay {
	return m.relay
}

// CreateMatch registers the session, starts its worker and queues the first hand.
func (m *Mediator) CreateMatch(cfg MatchConfig) error {
	for _, p := range append(append([]truco.Player{}, cfg.TeamA...), cfg.TeamB...) {
		if _, ok := cfg.Strategies[p.ID]; !ok {
			return truco.InvalidRosterError{Msg: fmt.Sprintf("No strategy for player %d", p.ID)}
		}
	}
	if err := m.service.CreateSession(cfg.MatchID, cfg.TeamA, cfg.TeamB); err != nil {
		return err
	}
	starter := cfg.StartingPlayer
	if starter == 0 {
		starter = cfg.TeamA[0].ID
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &matchWorker{
		id:       cfg.MatchID,
		queue:    newCommandQueue(),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		scope: &Scope{
			MatchID: cfg.MatchID,
			Service: m.service,
			Players: cfg.Strategies,
			TeamA:   cfg.TeamA,
			TeamB:   cfg.TeamB,
			Relay:   m.relay,
			Delays:  m.delays,
			Logger:  logging.GetMatchLogger(cfg.MatchID),
		},
	}
	if !m.matches.SetIfAbsent(cfg.MatchID, w) {
		cancel()
		return errors.Wrapf(truco.ErrSessionExists, "Match [%s]", cfg.MatchID)
	}
	go m.run(w)
	w.queue.push(&StartHandCommand{Starter: starter})

	util.Metrics.MatchCreated()
	util.Metrics.SetActiveMatchesCount(m.matches.Count())
	mediatorLogger.Info().Str(logging.MatchIDKey, cfg.MatchID).Msgf("Match created. Starting player %d", starter)
	if m.publisher != nil {
		if err := m.publisher.PublishMatchStarted(cfg.MatchID); err != nil {
			mediatorLogger.Warn().Err(err).Str(logging.MatchIDKey, cfg.MatchID).Msg("Unable to publish match start")
		}
	}
	return nil
}

func (m *Mediator) worker(id string) (*matchWorker, error) {
	v, ok := m.matches.Get(id)
	if !ok {
		return nil, errors.Wrapf(ErrMatchNotFound, "Match [%s]", id)
	}
	return v.(*matchWorker), nil
}

func (m *Mediator) Enqueue(id string, c Command) error {
	w, err := m.worker(id)
	if err != nil {
		return err
	}
	w.queue.push(c)
	return nil
}

// EndMatch stops the worker, drops pending commands and forgets the session.
func (m *Mediator) EndMatch(id string) error {
	v, ok := m.matches.Pop(id)
	if !ok {
		return errors.Wrapf(ErrMatchNotFound, "Match [%s]", id)
	}
	w := v.(*matchWorker)
	w.cancel()
	dropped := w.queue.clear()
	select {
	case <-w.done:
	case <-time.After(endMatchWait):
		mediatorLogger.Warn().Str(logging.MatchIDKey, id).Msg("Worker did not stop in time")
	}
	m.service.RemoveSession(id)
	if m.relay != nil {
		if err := m.relay.Clear(context.Background(), id); err != nil {
			mediatorLogger.Warn().Err(err).Str(logging.MatchIDKey, id).Msg("Unable to clear comments")
		}
	}
	util.Metrics.SetActiveMatchesCount(m.matches.Count())
	mediatorLogger.Info().Str(logging.MatchIDKey, id).Msgf("Match ended. %d pending commands dropped", dropped)
	return nil
}

func (m *Mediator) ActiveMatchIDs() []string {
	ids := m.matches.Keys()
	sort.Strings(ids)
	return ids
}

func (m *Mediator) Count() int {
	return m.matches.Count()
}

func (m *Mediator) State(id string) (truco.State, error) {
	if _, err := m.worker(id); err != nil {
		return truco.State{}, err
	}
	return m.service.Snapshot(id)
}

// Result returns the final state of a finished match, live or cached.
func (m *Mediator) Result(id string) (truco.State, bool) {
	if m.results != nil {
		if st, ok := m.results.Get(id); ok {
			return st, true
		}
	}
	st, err := m.service.Snapshot(id)
	if err != nil || !st.Finished {
		return truco.State{}, false
	}
	return st, true
}

// Finished is closed once the match reaches the winning score.
func (m *Mediator) Finished(id string) (<-chan struct{}, error) {
	w, err := m.worker(id)
	if err != nil {
		return nil, err
	}
	return w.finished, nil
}

// Shutdown ends every running match.
func (m *Mediator) Shutdown() {
	for _, id := range m.ActiveMatchIDs() {
		m.EndMatch(id)
	}
}

func (m *Mediator) run(w *matchWorker) {
	defer close(w.done)
	for {
		c, err := w.queue.pop(w.ctx)
		if err != nil {
			return
		}
		m.execute(w, c)
	}
}

func (m *Mediator) execute(w *matchWorker, c Command) {
	logger := w.scope.Logger.With().Str(logging.CommandKey, c.Name()).Logger()
	if err := pause(w.ctx, m.delays.BeforeCommand); err != nil {
		return
	}

	next, err := safeExecute(w.ctx, c, w.scope)
	if err != nil {
		if w.ctx.Err() != nil {
			logger.Debug().Msg("Command interrupted by match end")
			return
		}
		// the match stalls here until it is ended
		util.Metrics.CommandFailed(c.Name())
		logger.Error().Err(err).Msgf("Command %s failed", c.Name())
		return
	}
	util.Metrics.CommandExecuted(c.Name())
	if next != nil {
		w.queue.push(next)
		return
	}
	m.matchFinished(w)
}

func safeExecute(ctx context.Context, c Command, sc *Scope) (next Command, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("Command %s panicked: %v", c.Name(), r)
		}
	}()
	return c.Execute(ctx, sc)
}

func (m *Mediator) matchFinished(w *matchWorker) {
	logger := w.scope.Logger
	over, winner, err := m.service.IsOver(w.id)
	if err != nil || !over {
		logger.Warn().Msg("Command chain ended but the match is not over")
		return
	}
	st, err := m.service.Snapshot(w.id)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to snapshot finished match")
		return
	}
	if m.results != nil {
		if err := m.results.Add(w.id, st); err != nil {
			logger.Error().Err(err).Msg("Unable to cache result")
		}
	}
	if m.publisher != nil {
		if err := m.publisher.PublishMatchEnded(w.id, st); err != nil {
			logger.Warn().Err(err).Msg("Unable to publish match result")
		}
	}
	util.Metrics.MatchFinished()
	logger.Info().Msgf("Match over. %s wins %d x %d", winner, st.ScoreA, st.ScoreB)
	w.finishedOnce.Do(func() { close(w.finished) })
}
