package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/jmhodges/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/glezervv/reminder-bot/db"
	"github.com/glezervv/reminder-bot/metrics"
)

// DefaultTick is how often the manager polls for due reminders.
const DefaultTick = 60 * time.Second

// Store is the slice of the reminder store the manager drives.
type Store interface {
	QueryDue(ctx context.Context, now time.Time) ([]db.Reminder, error)
	MarkDelivered(ctx context.Context, id int64) error
}

// Gateway delivers a reminder text to its owner. Any transport satisfying
// it is interchangeable.
type Gateway interface {
	Notify(usr int64, text string) error
}

var (
	ErrAlreadyRunning = errors.New("reminder manager already running")
	ErrNotRunning     = errors.New("reminder manager not running")
)

// Manager wakes on a fixed interval, queries the store for due reminders
// and hands them to the gateway. A reminder is marked delivered only after
// the gateway accepted it; a failed delivery stays pending and is retried
// while its minute still matches.
type Manager struct {
	store    Store
	gateway  Gateway
	logger   *zap.SugaredLogger
	clk      clock.Clock
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	// failed collapses repeated per-reminder delivery failures within the
	// same matching minute into a single log line. Touched only by the loop
	// goroutine.
	failed map[int64]time.Time
}

func NewManager(s Store, g Gateway, interval time.Duration, l *zap.SugaredLogger) *Manager {
	if interval <= 0 {
		interval = DefaultTick
	}
	return &Manager{
		store:    s,
		gateway:  g,
		logger:   l,
		clk:      clock.New(),
		interval: interval,
		failed:   make(map[int64]time.Time),
	}
}

// Start begins the background loop.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return ErrAlreadyRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running = true

	go m.run(loopCtx)
	m.logger.Infow("reminder manager started", "interval", m.interval)

	return nil
}

// Stop cancels the loop and waits for an in-flight tick to finish.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return ErrNotRunning
	}

	m.cancel()
	m.running = false
	done := m.done
	m.mu.Unlock()

	<-done
	m.logger.Info("reminder manager stopped")
	return nil
}

// IsRunning reports the manager state.
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Manager) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.deliverDue(ctx)
		}
	}
}

// deliverDue runs one tick: everything pending for the current minute is
// handed to the gateway in id order.
func (m *Manager) deliverDue(ctx context.Context) {
	now := m.clk.Now().Truncate(time.Minute)

	due, err := m.store.QueryDue(ctx, now)
	if err != nil {
		m.logger.Errorw("failed querying due reminders, tick abandoned", "err", err)
		return
	}

	for _, r := range due {
		if err := m.gateway.Notify(r.UserID, r.Description); err != nil {
			metrics.DeliveryFailures.Inc()
			if last, ok := m.failed[r.ID]; !ok || !last.Equal(now) {
				m.logger.Errorw("failed delivering reminder", "id", r.ID, "user", r.UserID, "err", err)
				m.failed[r.ID] = now
			}
			continue
		}
		delete(m.failed, r.ID)

		if err := m.store.MarkDelivered(ctx, r.ID); err != nil {
			m.logger.Errorw("failed marking reminder delivered", "id", r.ID, "err", err)
			continue
		}

		metrics.RemindersDelivered.Inc()
		m.logger.Infow("reminder delivered", "id", r.ID, "user", r.UserID)
	}
}
