package sqlstore

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrAlreadyStarted is returned by Cleanup.Start when the loop is running.
var ErrAlreadyStarted = errors.New("sqlstore: cleanup already started")

const defaultCleanupInterval = time.Hour

// Cleanup periodically deletes token rows past their expiry. Reads already
// treat expired rows as absent; this loop only reclaims the physical space.
// Consents and configuration never expire and are untouched.
type Cleanup struct {
	session  *Session
	logger   *slog.Logger
	interval time.Duration

	mu     sync.Mutex
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewCleanup builds a cleanup loop. A non-positive interval falls back to
// one hour.
func NewCleanup(session *Session, logger *slog.Logger, interval time.Duration) *Cleanup {
	if interval <= 0 {
		interval = defaultCleanupInterval
	}
	return &Cleanup{
		session:  session,
		logger:   logger,
		interval: interval,
	}
}

// Start launches the background loop. Returns ErrAlreadyStarted if the loop
// is running.
func (c *Cleanup) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopCh != nil {
		return ErrAlreadyStarted
	}
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})

	go c.run(c.stopCh, c.doneCh)
	return nil
}

// Stop signals the loop and waits for it to exit. Safe to call when the
// loop was never started.
func (c *Cleanup) Stop() {
	if doneCh := c.signalStop(); doneCh != nil {
		<-doneCh
	}
}

// StopWithin signals the loop and waits up to d for it to exit. Reports
// whether the loop had exited by then; false means an in-flight sweep is
// still finishing and the caller chose not to wait for it.
func (c *Cleanup) StopWithin(d time.Duration) bool {
	doneCh := c.signalStop()
	if doneCh == nil {
		return true
	}
	select {
	case <-doneCh:
		return true
	case <-time.After(d):
		return false
	}
}

func (c *Cleanup) signalStop() chan struct{} {
	c.mu.Lock()
	stopCh, doneCh := c.stopCh, c.doneCh
	c.stopCh, c.doneCh = nil, nil
	c.mu.Unlock()

	if stopCh == nil {
		return nil
	}
	close(stopCh)
	return doneCh
}

func (c *Cleanup) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.logger.Info("token cleanup started", "interval", c.interval)
	for {
		select {
		case <-stopCh:
			c.logger.Info("token cleanup stopped")
			return
		case <-ticker.C:
			if err := c.Sweep(context.Background()); err != nil {
				c.logger.Error("token cleanup sweep failed", "error", err)
			}
		}
	}
}

// Sweep deletes every token row past its expiry in one set-based statement.
// Exposed so operators can trigger a pass outside the schedule.
func (c *Cleanup) Sweep(ctx context.Context) error {
	res, err := c.session.exec(ctx,
		`DELETE FROM tokens WHERE expiry <= ?`, time.Now().UTC())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		c.logger.Info("expired tokens removed", "count", n)
	}
	return nil
}
