package janitor

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Purger deletes expired key-value entries.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Janitor periodically purges expired sessions and flash entries from the Postgres store.
type Janitor struct {
	p        Purger
	interval time.Duration

	triggerCh chan struct{}

	startedAtUnixNano   int64
	lastCycleUnixNano   atomic.Int64
	lastTriggerUnixNano atomic.Int64
	totalPurged         atomic.Int64
	totalErrors         atomic.Int64
	lastErrorMu         sync.Mutex
	lastError           string
}

func New(p Purger, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Janitor{
		p:                 p,
		interval:          interval,
		triggerCh:         make(chan struct{}, 1),
		startedAtUnixNano: time.Now().UTC().UnixNano(),
	}
}

// Trigger forces an immediate purge (non-blocking).
func (j *Janitor) Trigger() {
	j.lastTriggerUnixNano.Store(time.Now().UTC().UnixNano())
	select {
	case j.triggerCh <- struct{}{}:
	default:
	}
}

type Stats struct {
	StartedAt     time.Time  `json:"startedAt"`
	LastCycleAt   *time.Time `json:"lastCycleAt,omitempty"`
	LastTriggerAt *time.Time `json:"lastTriggerAt,omitempty"`
	TotalPurged   int64      `json:"totalPurged"`
	TotalErrors   int64      `json:"totalErrors"`
	LastError     string     `json:"lastError,omitempty"`
}

func (j *Janitor) Stats() Stats {
	st := Stats{
		StartedAt:   time.Unix(0, j.startedAtUnixNano).UTC(),
		TotalPurged: j.totalPurged.Load(),
		TotalErrors: j.totalErrors.Load(),
	}
	if n := j.lastCycleUnixNano.Load(); n > 0 {
		t := time.Unix(0, n).UTC()
		st.LastCycleAt = &t
	}
	if n := j.lastTriggerUnixNano.Load(); n > 0 {
		t := time.Unix(0, n).UTC()
		st.LastTriggerAt = &t
	}
	j.lastErrorMu.Lock()
	st.LastError = j.lastError
	j.lastErrorMu.Unlock()
	return st
}

func (j *Janitor) Run(ctx context.Context) error {
	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			j.runOnce(ctx)
		case <-j.triggerCh:
			j.runOnce(ctx)
		}
	}
}

func (j *Janitor) runOnce(ctx context.Context) {
	j.lastCycleUnixNano.Store(time.Now().UTC().UnixNano())

	n, err := j.p.PurgeExpired(ctx)
	if err != nil {
		j.totalErrors.Add(1)
		j.lastErrorMu.Lock()
		j.lastError = err.Error()
		j.lastErrorMu.Unlock()
		slog.Error("purge expired entries", "error", err.Error())
		return
	}
	j.totalPurged.Add(n)
	if n > 0 {
		slog.Info("purged expired entries", "count", n)
	}
}
