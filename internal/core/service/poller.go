package service

import (
	"bedrockbot/internal/core/port"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type PollerState int32

const (
	Idle PollerState = iota
	Fetching
)

func (s PollerState) String() string {
	if s == Fetching {
		return "fetching"
	}
	return "idle"
}

const (
	DefaultPollTimeout  = 100 * time.Second
	DefaultErrorBackoff = time.Second
)

type PollerParams struct {
	Fetcher    port.UpdateFetcher
	Dispatcher port.UpdateDispatcher
	// PollTimeout is the long-poll duration requested from the transport.
	PollTimeout time.Duration
	// ErrorBackoff is waited after a failed fetch before polling again.
	ErrorBackoff time.Duration
}

// Poller fetches updates with a long-poll cursor and dispatches them one by one. It is started and
// stopped explicitly by its owner.
type Poller struct {
	fetcher      port.UpdateFetcher
	dispatcher   port.UpdateDispatcher
	pollTimeout  time.Duration
	errorBackoff time.Duration
	sleep        sleepFunc

	cursor atomic.Int64
	state  atomic.Int32

	mutex  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	l *zerolog.Logger
}

func NewPoller(p PollerParams) *Poller {
	logger := log.With().Str("component", "poller").Logger()

	pollTimeout := p.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}

	errorBackoff := p.ErrorBackoff
	if errorBackoff <= 0 {
		errorBackoff = DefaultErrorBackoff
	}

	return &Poller{
		fetcher:      p.Fetcher,
		dispatcher:   p.Dispatcher,
		pollTimeout:  pollTimeout,
		errorBackoff: errorBackoff,
		sleep:        sleepContext,
		l:            &logger,
	}
}

// Cursor returns the offset used for the next fetch: the highest processed update id plus one.
func (p *Poller) Cursor() int64 {
	return p.cursor.Load()
}

func (p *Poller) State() PollerState {
	return PollerState(p.state.Load())
}

// Start runs the polling loop in a background goroutine until Stop is called or ctx is done.
func (p *Poller) Start(ctx context.Context) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.done != nil {
		p.l.Warn().Msg("poller already started")
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			p.l.Error().Err(err).Msg("polling loop stopped")
		}
	}(p.done)
}

// Stop cancels the polling loop and waits for the in-flight iteration to return.
func (p *Poller) Stop() {
	p.mutex.Lock()
	cancel, done := p.cancel, p.done
	p.mutex.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
}

// Run polls until ctx is done. Fetch errors are logged and retried after the error backoff.
func (p *Poller) Run(ctx context.Context) error {
	p.l.Info().Dur("pollTimeout", p.pollTimeout).Int64("cursor", p.Cursor()).Msg("polling for updates")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, err := p.Poll(ctx)
		if err == nil {
			continue
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		p.l.Warn().Err(err).Dur("backoff", p.errorBackoff).Msg("failed to fetch updates")
		if err := p.sleep(ctx, p.errorBackoff); err != nil {
			return err
		}
	}
}

// Poll runs a single iteration: fetch one batch, dispatch it in order, advance the cursor. It returns
// the number of dispatched updates.
func (p *Poller) Poll(ctx context.Context) (int, error) {
	offset := p.Cursor()

	p.state.Store(int32(Fetching))
	updates, err := p.fetcher.GetUpdates(ctx, offset, p.pollTimeout)
	p.state.Store(int32(Idle))
	if err != nil {
		return 0, err
	}

	if len(updates) == 0 {
		return 0, nil
	}

	p.l.Debug().Int("updates", len(updates)).Int64("offset", offset).Msg("dispatching batch")

	for _, update := range updates {
		p.dispatcher.Handle(ctx, update)
	}

	next := updates[len(updates)-1].ID + 1
	if next > offset {
		p.cursor.Store(next)
	}

	return len(updates), nil
}
