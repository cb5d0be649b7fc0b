package speechkit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/voicebridge/speechkit/pkg/errorsx"
	"github.com/voicebridge/speechkit/pkg/frames"
	"github.com/voicebridge/speechkit/pkg/logging"
	"github.com/voicebridge/speechkit/pkg/metrics"
	"github.com/voicebridge/speechkit/pkg/resilience"
)

// ErrSessionClosed is returned by PushFrame and Flush once the session
// no longer accepts input.
var ErrSessionClosed = errors.New("speechkit: session closed")

// pollInterval bounds every wait inside the session loop so close and
// cancel requests are observed promptly even with no frames pending.
const pollInterval = 100 * time.Millisecond

// Session is a streaming recognition session. It owns its input frame
// queue and output event queue; the caller pushes frames, requests
// flush, iterates Events and closes. Audio reaches the backend in push
// order, emitted events preserve the backend's order, and the events
// channel is closed once the session reaches its terminal state.
type Session struct {
	id    string
	cfg   SessionConfig
	creds Credentials

	opener  streamOpener
	retry   resilience.RetryPolicy
	breaker *resilience.CircuitBreaker
	obs     metrics.Observer
	logger  *slog.Logger

	adapter *frameAdapter
	decoder *responseDecoder
	machine *stateMachine

	inCap  int
	outCap int
	in     chan frames.Frame
	events chan TranscriptEvent

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	flushed    atomic.Bool
	framesSent atomic.Int64

	closeOnce sync.Once
	closeWait time.Duration

	errMu  sync.Mutex
	srvErr error
}

type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

func WithRetryPolicy(policy resilience.RetryPolicy) Option {
	return func(s *Session) { s.retry = policy }
}

func WithCircuitBreaker(breaker *resilience.CircuitBreaker) Option {
	return func(s *Session) { s.breaker = breaker }
}

func WithObserver(obs metrics.Observer) Option {
	return func(s *Session) { s.obs = obs }
}

// WithQueueCapacity sizes the input frame queue and the output event
// queue. The output queue is deliberately bounded: a lagging consumer
// slows the inbound pump instead of losing events.
func WithQueueCapacity(in, out int) Option {
	return func(s *Session) {
		if in > 0 {
			s.inCap = in
		}
		if out > 0 {
			s.outCap = out
		}
	}
}

// withOpener substitutes the transport; tests use it to run a session
// against an in-memory recognizer.
func withOpener(opener streamOpener) Option {
	return func(s *Session) { s.opener = opener }
}

// NewSession validates the configuration and starts the session loop.
// The session connects immediately and streams until the backend
// completes, an unrecoverable error occurs, or Close is called.
func NewSession(ctx context.Context, cfg SessionConfig, creds Credentials, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonConfig)
	}
	if err := creds.Validate(); err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonConfig)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s := &Session{
		id:        uuid.NewString(),
		cfg:       cfg,
		creds:     creds,
		retry:     resilience.NewRetryPolicy(3, time.Second, 10*time.Second),
		breaker:   resilience.NewCircuitBreaker(3, 30*time.Second),
		obs:       metrics.NoopObserver{},
		logger:    logging.NewComponentLogger(slog.Default(), "speechkit_session"),
		machine:   newStateMachine(),
		adapter:   newFrameAdapter(cfg.SampleRate),
		inCap:     256,
		outCap:    64,
		done:      make(chan struct{}),
		closeWait: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("session_id", s.id))
	s.decoder = newResponseDecoder(cfg, s.logger)
	if s.opener == nil {
		s.opener = newConnectionManager(cfg, creds, s.logger)
	}
	s.in = make(chan frames.Frame, s.inCap)
	s.events = make(chan TranscriptEvent, s.outCap)
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.logger.Info("starting streaming session",
		slog.String("model", cfg.Model),
		slog.String("language", cfg.Language),
		slog.Bool("detect_language", cfg.DetectLanguage),
		slog.Int("sample_rate", cfg.SampleRate))

	go s.run()
	return s, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() SessionState { return s.machine.State() }

// Events is the session's output queue. It is closed after the last
// event once the session terminates; check Err afterwards.
func (s *Session) Events() <-chan TranscriptEvent { return s.events }

// Err reports the terminal session error, nil for a clean shutdown.
// Only meaningful once Events has been closed.
func (s *Session) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.srvErr
}

// PushFrame enqueues one audio frame. The frame's sample rate must
// match the session's configured rate; mismatched frames are dropped
// downstream (fatally so for the very first frame).
func (s *Session) PushFrame(f frames.AudioFrame) error {
	return s.enqueue(f)
}

// Flush marks the end of the audio segment. Frames pushed before the
// flush are sent before the outbound half of the stream closes; the
// inbound half stays open until the backend finishes responding.
func (s *Session) Flush() error {
	marker := frames.NewFlushMarker(map[string]string{
		frames.MetaSessionID: s.id,
		frames.MetaReason:    "caller_flush",
	})
	return s.enqueue(marker)
}

// enqueue refuses input once shutdown has begun, then blocks until the
// queue accepts the frame or the session terminates.
func (s *Session) enqueue(f frames.Frame) error {
	if s.ctx.Err() != nil {
		return ErrSessionClosed
	}
	select {
	case <-s.ctx.Done():
		return ErrSessionClosed
	case <-s.done:
		return ErrSessionClosed
	case s.in <- f:
		return nil
	}
}

// Close cancels the session from any state, waits briefly for the
// pumps to stop and releases the connection. Idempotent.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.logger.Info("closing streaming session")
		s.cancel()
		select {
		case <-s.done:
		case <-time.After(s.closeWait):
			s.logger.Warn("timed out waiting for session shutdown")
		}
	})
	return nil
}

func (s *Session) run() {
	defer close(s.done)
	defer close(s.events)
	defer s.finish()

	attempt := 0
	for {
		if s.ctx.Err() != nil {
			return
		}
		s.transition(StateConnecting, "opening recognition stream")
		if !s.breaker.Allow() {
			s.setErr(errorsx.Wrap(
				&errorsx.APIError{Msg: "rate limit circuit open", RateLimit: true},
				errorsx.ReasonCircuitOpen))
			return
		}

		err := s.streamOnce()
		if err == nil {
			if s.ctx.Err() == nil {
				s.logger.Info("streaming session completed",
					slog.Int64("frames_sent", s.framesSent.Load()))
			}
			s.breaker.OnSuccess()
			return
		}

		s.breaker.OnError(err)
		attempt++
		decision := s.retry.Next(attempt, err)
		if !decision.Retry {
			s.setErr(err)
			s.logger.Error("streaming session failed",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			return
		}

		s.logger.Warn("reconnecting after retryable error",
			slog.Int("attempt", attempt),
			slog.Duration("backoff", decision.Delay),
			slog.String("error", err.Error()))
		s.record(metrics.EventReconnects, 1)
		_ = s.opener.close()

		select {
		case <-s.ctx.Done():
			return
		case <-time.After(decision.Delay):
		}
	}
}

// streamOnce runs one connection attempt: open, send session options,
// then pump both directions until the backend completes or either pump
// fails. The stream and its connection are discarded wholesale on
// error; frames sent on a failed attempt are not replayed.
func (s *Session) streamOnce() error {
	attemptCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	stream, err := s.opener.open(attemptCtx)
	if err != nil {
		return err
	}

	enc := newRequestEncoder(s.cfg)
	if err := stream.Send(enc.sessionRequest()); err != nil {
		return errorsx.Wrap(errorsx.Classify(err), errorsx.ReasonSend)
	}
	s.transition(StateStreaming, "session options sent")

	outCh := make(chan error, 1)
	inCh := make(chan error, 1)
	go func() { outCh <- s.pumpOutbound(attemptCtx, stream, enc) }()
	go func() { inCh <- s.pumpInbound(attemptCtx, stream) }()

	var outErr error
	outPending := outCh
	for {
		select {
		case outErr = <-outPending:
			outPending = nil
			if outErr != nil {
				// Unblock the inbound pump; its result is ignored.
				cancel()
			}
		case inErr := <-inCh:
			cancel()
			if outPending != nil {
				outErr = <-outPending
			}
			if inErr != nil {
				return inErr
			}
			return outErr
		}
	}
}

// pumpOutbound drains the input queue in push order: adapt, encode,
// send. A FlushMarker half-closes the outbound side and leaves the
// inbound side draining. Returns nil on cancellation or flush.
func (s *Session) pumpOutbound(ctx context.Context, stream recognizerStream, enc *requestEncoder) error {
	if s.flushed.Load() {
		// Flush was observed before a reconnect; nothing more to send.
		_ = stream.CloseSend()
		s.transition(StateDraining, "flush carried over reconnect")
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-s.in:
			switch fr := f.(type) {
			case frames.FlushMarker:
				s.flushed.Store(true)
				if err := stream.CloseSend(); err != nil && ctx.Err() == nil {
					return errorsx.Wrap(errorsx.Classify(err), errorsx.ReasonSend)
				}
				s.transition(StateDraining, "flush marker received")
				return nil
			case frames.AudioFrame:
				if err := s.sendFrame(ctx, stream, enc, fr); err != nil {
					return err
				}
			}
		case <-time.After(pollInterval):
			// No frame pending; loop so cancellation is observed.
		}
	}
}

func (s *Session) sendFrame(ctx context.Context, stream recognizerStream, enc *requestEncoder, f frames.AudioFrame) error {
	pcm, err := s.adapter.adapt(f)
	if err != nil {
		if s.adapter.firstFrame() {
			// The backend fixes the audio format per session, so a bad
			// first frame is unrecoverable.
			return errorsx.Wrap(err, errorsx.ReasonAudioFormat)
		}
		s.logger.Warn("dropping mismatched audio frame",
			slog.Int("frame_rate", f.Rate()),
			slog.String("error", err.Error()))
		s.record(metrics.EventFramesDropped, 1)
		return nil
	}
	if len(pcm) == 0 {
		return nil
	}
	if err := stream.Send(enc.chunkRequest(pcm)); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return errorsx.Wrap(errorsx.Classify(err), errorsx.ReasonSend)
	}
	sent := s.framesSent.Add(1)
	s.record(metrics.EventFramesSent, 1)
	if sent%100 == 0 {
		s.logger.Debug("streamed audio frames", slog.Int64("frames_sent", sent))
	}
	return nil
}

// pumpInbound receives backend responses, decodes them and pushes the
// resulting events to the output queue until the backend closes the
// stream. Returns nil on clean end-of-stream or cancellation.
func (s *Session) pumpInbound(ctx context.Context, stream recognizerStream) error {
	for {
		resp, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return errorsx.Wrap(errorsx.Classify(err), errorsx.ReasonReceive)
		}
		ev := s.decoder.decode(resp)
		if ev == nil {
			continue
		}
		if !s.emit(ctx, *ev) {
			return nil
		}
	}
}

// emit blocks until the consumer accepts the event or the session is
// cancelled. Backpressure from a slow consumer slows the inbound pump;
// events are never dropped.
func (s *Session) emit(ctx context.Context, ev TranscriptEvent) bool {
	select {
	case s.events <- ev:
		s.record(metrics.EventEmitted, 1)
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Session) transition(to SessionState, reason string) {
	if err := s.machine.Transition(to); err != nil {
		s.logger.Warn("state transition rejected", slog.String("error", err.Error()))
		return
	}
	s.logger.Debug("session state changed",
		slog.String("state", to.String()),
		slog.String("reason", reason))
}

func (s *Session) finish() {
	s.cancel()
	_ = s.opener.close()
	s.transition(StateClosed, "session finished")
	s.record(metrics.EventSessionClosed, 1)
}

func (s *Session) setErr(err error) {
	s.errMu.Lock()
	if s.srvErr == nil {
		s.srvErr = err
	}
	s.errMu.Unlock()
}

func (s *Session) record(name string, value float64) {
	s.obs.RecordEvent(metrics.MetricsEvent{
		Name:  name,
		Time:  time.Now(),
		Value: value,
		Tags:  map[string]string{"session_id": s.id},
	})
}
