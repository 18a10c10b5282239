package fallback

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/baharkarakas/charity-donations/internal/metrics"
	"github.com/baharkarakas/charity-donations/internal/models"
	"github.com/baharkarakas/charity-donations/internal/repository"
	"github.com/baharkarakas/charity-donations/internal/repository/memory"
	"github.com/shopspring/decimal"
)

const (
	NamePrimary = "postgres"
	NameMemory  = "memory"
)

// Store routes every call to the primary backend while it is connected and to the
// in-memory mirror otherwise. Data written to memory during an outage is never
// copied back to the primary.
type Store struct {
	primary   repository.Backend
	mem       *memory.Store
	log       *slog.Logger
	connected atomic.Bool
}

var _ repository.Backend = (*Store)(nil)

// New starts disconnected; the connectivity monitor flips it once the primary answers.
// A nil primary keeps the store on memory for its whole life.
func New(primary repository.Backend, mem *memory.Store, log *slog.Logger) *Store {
	metrics.StorageConnected.Set(0)
	return &Store{primary: primary, mem: mem, log: log}
}

// SetConnected is the connection-event callback. Handlers only ever read the flag.
func (s *Store) SetConnected(ok bool) {
	if s.primary == nil {
		return
	}
	if prev := s.connected.Swap(ok); prev == ok {
		return
	}
	if ok {
		metrics.StorageConnected.Set(1)
		s.log.Info("storage connected", "backend", NamePrimary)
	} else {
		metrics.StorageConnected.Set(0)
		s.log.Warn("storage disconnected, serving from memory", "backend", NameMemory)
	}
}

func (s *Store) Connected() bool { return s.connected.Load() }

// Name reports which backend is currently authoritative.
func (s *Store) Name() string {
	if s.Connected() {
		return NamePrimary
	}
	return NameMemory
}

// recoverable reports whether a primary failure should be absorbed by the memory mirror.
// Key conflicts and caller cancellation are answers, not outages.
func recoverable(ctx context.Context, err error) bool {
	if errors.Is(err, repository.ErrDuplicate) || errors.Is(err, repository.ErrNotFound) {
		return false
	}
	return ctx.Err() == nil
}

func route[T any](ctx context.Context, s *Store, op string, write bool, fn func(repository.Backend) (T, error)) (T, error) {
	if s.Connected() {
		v, err := fn(s.primary)
		if err == nil || !recoverable(ctx, err) {
			return v, err
		}
		s.log.Warn("primary store failed", "op", op, "err", err)
		s.SetConnected(false)
	}
	if write {
		metrics.StorageFallbackWrites.WithLabelValues(op).Inc()
		s.log.Warn("write kept in memory only; it will not reach the database", "op", op)
	}
	return fn(s.mem)
}

func (s *Store) GetStats(ctx context.Context) (models.ImpactStats, error) {
	return route(ctx, s, "get_stats", false, func(b repository.Backend) (models.ImpactStats, error) {
		return b.GetStats(ctx)
	})
}

// SeedStats only targets the primary; the memory mirror is born seeded.
func (s *Store) SeedStats(ctx context.Context, seed models.ImpactStats) (bool, error) {
	if s.primary == nil {
		return false, nil
	}
	return s.primary.SeedStats(ctx, seed)
}

func (s *Store) IncrementRaised(ctx context.Context, amount decimal.Decimal) (models.ImpactStats, error) {
	return route(ctx, s, "increment_raised", true, func(b repository.Backend) (models.ImpactStats, error) {
		return b.IncrementRaised(ctx, amount)
	})
}

func (s *Store) AppendDonation(ctx context.Context, rec models.DonationRecord) error {
	_, err := route(ctx, s, "append_donation", true, func(b repository.Backend) (struct{}, error) {
		return struct{}{}, b.AppendDonation(ctx, rec)
	})
	return err
}

func (s *Store) ListDonations(ctx context.Context, limit int) ([]models.DonationRecord, error) {
	return route(ctx, s, "list_donations", false, func(b repository.Backend) ([]models.DonationRecord, error) {
		return b.ListDonations(ctx, limit)
	})
}

func (s *Store) ListDonors(ctx context.Context, limit int) ([]models.Donor, error) {
	return route(ctx, s, "list_donors", false, func(b repository.Backend) ([]models.Donor, error) {
		return b.ListDonors(ctx, limit)
	})
}

func (s *Store) AddSubscriber(ctx context.Context, sub models.Subscriber) error {
	_, err := route(ctx, s, "add_subscriber", true, func(b repository.Backend) (struct{}, error) {
		return struct{}{}, b.AddSubscriber(ctx, sub)
	})
	return err
}
