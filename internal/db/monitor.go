package db

import (
	"context"
	"log/slog"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectivityListener receives the result of every probe.
type ConnectivityListener interface {
	SetConnected(ok bool)
}

// Monitor probes the database on an interval and reports connectivity to the storage layer.
// Check and Run must be driven from a single goroutine.
type Monitor struct {
	pinger    Pinger
	listener  ConnectivityListener
	interval  time.Duration
	timeout   time.Duration
	log       *slog.Logger
	onConnect func(ctx context.Context) error
	up        bool
}

func NewMonitor(p Pinger, l ConnectivityListener, interval time.Duration, log *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Monitor{
		pinger:   p,
		listener: l,
		interval: interval,
		timeout:  3 * time.Second,
		log:      log,
	}
}

// OnConnect registers a hook run on every down->up transition (migrations, seeding).
// If it fails the database is treated as still unreachable.
func (m *Monitor) OnConnect(fn func(ctx context.Context) error) {
	m.onConnect = fn
}

// Check runs one probe and returns whether the database is usable.
func (m *Monitor) Check(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, m.timeout)
	err := m.pinger.Ping(pctx)
	cancel()
	if err != nil {
		if m.up {
			m.log.Warn("database unreachable", "err", err)
		}
		m.up = false
		m.listener.SetConnected(false)
		return false
	}

	if !m.up && m.onConnect != nil {
		if err := m.onConnect(ctx); err != nil {
			m.log.Error("database connect hook", "err", err)
			m.listener.SetConnected(false)
			return false
		}
	}
	m.up = true
	// re-asserted on every probe so a store that flipped itself down recovers
	m.listener.SetConnected(true)
	return true
}

// Run probes immediately and then on every tick until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.Check(ctx)
	t := time.NewTicker(m.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			m.Check(ctx)
		}
	}
}
