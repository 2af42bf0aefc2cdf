package intervention

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/pausa/internal/domain"
	"github.com/emiliopalmerini/pausa/internal/ports"
)

const (
	defaultTickInterval  = time.Second
	defaultRecordTimeout = 3 * time.Second
)

// Trigger is what a monitored-app detector hands over when an app is opened.
type Trigger struct {
	AppName    string
	AppPackage string

	// OnProceed and OnDismiss run once, when the session reaches its decision.
	OnProceed func()
	OnDismiss func()
	// OnChange receives every state the session moves through, in order.
	// It is called with the session locked: it must not block or call back
	// into the session.
	OnChange func(domain.State)
}

// Config holds the tunables of the friction flow.
type Config struct {
	WarningThreshold int
	TickInterval     time.Duration
	RecordTimeout    time.Duration
}

// Service starts intervention sessions.
type Service struct {
	counters ports.CounterRepository
	recorder ports.StatsRecorder
	exporter ports.MetricsExporter
	logger   ports.Logger
	cfg      Config

	now       func() time.Time
	newTicker ports.TickerFunc
	newID     func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTicker replaces the countdown ticker.
func WithTicker(fn ports.TickerFunc) Option {
	return func(s *Service) { s.newTicker = fn }
}

// WithIDGenerator replaces the session ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithMetricsExporter adds an exporter that receives every outcome.
func WithMetricsExporter(e ports.MetricsExporter) Option {
	return func(s *Service) { s.exporter = e }
}

// NewService creates a new intervention service
func NewService(
	counters ports.CounterRepository,
	recorder ports.StatsRecorder,
	logger ports.Logger,
	cfg Config,
	opts ...Option,
) *Service {
	if cfg.WarningThreshold <= 0 {
		cfg.WarningThreshold = domain.DefaultWarningThreshold
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if cfg.RecordTimeout <= 0 {
		cfg.RecordTimeout = defaultRecordTimeout
	}

	s := &Service{
		counters:  counters,
		recorder:  recorder,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
		newTicker: NewTimeTicker,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start records one more open for today and begins a session in the waiting
// phase. The counter is reset first when the last open was on another day.
func (s *Service) Start(ctx context.Context, trig Trigger) (*Session, error) {
	now := s.now()

	counter, err := s.counters.Update(ctx, func(c *domain.DailyCounter) error {
		if c.ResetIfNewDay(now) {
			s.logger.Debug("Daily counter rolled over")
		}
		c.Increment(now)
		return nil
	})
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to update daily counter: %v", err))
		return nil, fmt.Errorf("update daily counter: %w", err)
	}

	prior := priorOpens(counter.Count)
	sess := &Session{
		id:      s.newID(),
		svc:     s,
		trigger: trig,
		state:   s.newState(prior),
	}

	s.logger.Debug(fmt.Sprintf("Session %s started for %s: prior opens=%d, wait=%ds",
		sess.id, trig.AppName, prior, sess.state.WaitSeconds))

	sess.begin()
	return sess, nil
}

// Preview returns the wait the next session would get, without recording an
// open.
func (s *Service) Preview(ctx context.Context) (domain.State, error) {
	counter, err := s.counters.Get(ctx)
	if err != nil {
		return domain.State{}, fmt.Errorf("get daily counter: %w", err)
	}
	return s.newState(counter.CountAt(s.now())), nil
}

func (s *Service) newState(priorOpens int) domain.State {
	return domain.NewState(priorOpens, domain.WaitSecondsForCount(priorOpens), s.cfg.WarningThreshold)
}

// currentPriorOpens reads the counter without incrementing it.
func (s *Service) currentPriorOpens(ctx context.Context) (int, error) {
	counter, err := s.counters.Get(ctx)
	if err != nil {
		return 0, err
	}
	return priorOpens(counter.CountAt(s.now())), nil
}

// record hands the outcome to statistics and metrics. Failures and panics are
// logged and never reach the caller.
func (s *Service) record(o domain.InterventionOutcome) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RecordTimeout)
	defer cancel()

	s.safely("record outcome", func() error {
		return s.recorder.RecordOutcome(ctx, o.OutcomeRecord())
	})
	if log, ok := o.IntentionLog(); ok {
		s.safely("record intention", func() error {
			return s.recorder.RecordIntention(ctx, log)
		})
	}
	if s.exporter != nil {
		s.safely("export metrics", func() error {
			return s.exporter.ExportOutcome(ctx, o)
		})
	}
}

func (s *Service) safely(what string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(fmt.Sprintf("Failed to %s: panic: %v", what, r))
		}
	}()
	if err := fn(); err != nil {
		s.logger.Error(fmt.Sprintf("Failed to %s: %v", what, err))
	}
}

// priorOpens converts the counter value that includes the current session
// into the number of opens that happened before it.
func priorOpens(count int) int {
	if count <= 1 {
		return 0
	}
	return count - 1
}
