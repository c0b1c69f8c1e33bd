package depthsource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/wandb/depthchart/internal/observability"
)

const (
	defaultDialAttempts = 10
	defaultRetryDelay   = 500 * time.Millisecond
	defaultMaxDelay     = 10 * time.Second
)

// StreamSource receives snapshots from a websocket depth feed.
//
// Each text or binary message is a JSON document with the same shape as a
// YAML/JSON series file.
type StreamSource struct {
	url    string
	header http.Header
	dialer *websocket.Dialer

	attempts uint
	delay    time.Duration
	maxDelay time.Duration

	// limiter caps how often snapshots are forwarded; nil forwards all.
	limiter *rate.Limiter

	logger  *observability.CoreLogger
	printer *observability.Printer
}

// StreamOption configures a StreamSource.
type StreamOption func(*StreamSource)

// WithLogger sets the logger used for connection diagnostics.
func WithLogger(logger *observability.CoreLogger) StreamOption {
	return func(s *StreamSource) { s.logger = logger }
}

// WithPrinter sets where user-facing connection notices are written.
func WithPrinter(printer *observability.Printer) StreamOption {
	return func(s *StreamSource) { s.printer = printer }
}

// WithRetry sets the dial retry policy.
func WithRetry(attempts uint, delay, maxDelay time.Duration) StreamOption {
	return func(s *StreamSource) {
		s.attempts, s.delay, s.maxDelay = attempts, delay, maxDelay
	}
}

// WithMaxRate limits delivery to perSecond snapshots. Snapshots arriving
// faster are coalesced and only the newest is delivered.
func WithMaxRate(perSecond float64) StreamOption {
	return func(s *StreamSource) {
		if perSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithHeader sets extra headers sent with the websocket handshake.
func WithHeader(header http.Header) StreamOption {
	return func(s *StreamSource) { s.header = header }
}

func NewStreamSource(url string, opts ...StreamOption) *StreamSource {
	s := &StreamSource{
		url:      url,
		dialer:   websocket.DefaultDialer,
		attempts: defaultDialAttempts,
		delay:    defaultRetryDelay,
		maxDelay: defaultMaxDelay,
		logger:   observability.NewNoOpLogger(),
		printer:  observability.NewPrinter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run delivers snapshots to out until ctx is cancelled or the feed cannot
// be reached after the configured number of attempts. A dropped
// connection is re-established with backoff.
func (s *StreamSource) Run(ctx context.Context, out chan<- Snapshot) error {
	if s.limiter == nil {
		return s.run(ctx, func(snap Snapshot) error {
			select {
			case out <- snap:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	ctx, cancel := context.WithCancel(ctx)
	latest := make(chan Snapshot, 1)
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		s.forward(ctx, latest, out)
	}()
	defer func() {
		cancel()
		<-forwarded
	}()

	return s.run(ctx, func(snap Snapshot) error {
		for {
			select {
			case latest <- snap:
				return nil
			default:
			}
			select {
			case stale := <-latest:
				s.logger.Debug("depthsource: coalesced snapshot", "entries", len(stale.Series))
			default:
			}
		}
	})
}

// forward delivers the newest pending snapshot whenever the limiter allows.
func (s *StreamSource) forward(ctx context.Context, latest <-chan Snapshot, out chan<- Snapshot) {
	for {
		var snap Snapshot
		select {
		case snap = <-latest:
		case <-ctx.Done():
			return
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}
		select {
		case snap = <-latest:
		default:
		}
		select {
		case out <- snap:
		case <-ctx.Done():
			return
		}
	}
}

func (s *StreamSource) run(ctx context.Context, emit func(Snapshot) error) error {
	for {
		conn, err := s.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("depthsource: connecting to %s: %v", s.url, err)
		}

		err = s.readLoop(ctx, conn, emit)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("depthsource: stream disconnected", "url", s.url, "err", err)
		s.printer.AtMostEvery(time.Minute).Warnf("stream disconnected, reconnecting")
	}
}

func (s *StreamSource) dial(ctx context.Context) (*websocket.Conn, error) {
	var conn *websocket.Conn
	err := retry.Do(
		func() error {
			c, resp, err := s.dialer.DialContext(ctx, s.url, s.header)
			if resp != nil && resp.Body != nil {
				_ = resp.Body.Close()
			}
			if err != nil {
				return err
			}
			conn = c
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.MaxDelay(s.maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Debug("depthsource: dial failed", "url", s.url, "attempt", n+1, "err", err)
		}),
	)
	return conn, err
}

func (s *StreamSource) readLoop(ctx context.Context, conn *websocket.Conn, emit func(Snapshot) error) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
			_ = conn.Close()
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		snap, err := DecodeSnapshot(message)
		if err != nil {
			s.logger.CaptureError(err, "url", s.url)
			s.printer.AtMostEvery(time.Minute).Errorf("ignoring malformed stream message")
			continue
		}

		if err := emit(snap); err != nil {
			return err
		}
	}
}

// DecodeSnapshot parses one stream message.
func DecodeSnapshot(message []byte) (Snapshot, error) {
	var doc document
	if err := json.Unmarshal(message, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("depthsource: decoding stream message: %v", err)
	}
	return fromDocument(doc)
}
