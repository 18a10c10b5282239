package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/baharkarakas/charity-donations/internal/models"
	"github.com/baharkarakas/charity-donations/internal/repository"
	"github.com/shopspring/decimal"
)

// Store is the process-local mirror used while the database is unreachable.
// Its contents are lost on restart.
type Store struct {
	stats *models.StatsCounter

	mu          sync.RWMutex
	donations   []models.DonationRecord // append order
	ids         map[string]struct{}
	subscribers map[string]models.Subscriber
}

var _ repository.Backend = (*Store)(nil)

// New returns a store already holding the given stats aggregate.
func New(seed models.ImpactStats) *Store {
	return &Store{
		stats:       models.NewStatsCounter(seed),
		ids:         make(map[string]struct{}),
		subscribers: make(map[string]models.Subscriber),
	}
}

func (s *Store) GetStats(context.Context) (models.ImpactStats, error) {
	return s.stats.Get(), nil
}

// SeedStats is a no-op: the aggregate exists from construction.
func (s *Store) SeedStats(context.Context, models.ImpactStats) (bool, error) {
	return false, nil
}

func (s *Store) IncrementRaised(_ context.Context, amount decimal.Decimal) (models.ImpactStats, error) {
	return s.stats.Add(amount), nil
}

func (s *Store) AppendDonation(_ context.Context, rec models.DonationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[rec.ID]; ok {
		return fmt.Errorf("donation %s: %w", rec.ID, repository.ErrDuplicate)
	}
	s.ids[rec.ID] = struct{}{}
	s.donations = append(s.donations, rec)
	return nil
}

func (s *Store) ListDonations(_ context.Context, limit int) ([]models.DonationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DonationRecord, 0, max(0, min(limit, len(s.donations))))
	for i := len(s.donations) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.donations[i])
	}
	return out, nil
}

func (s *Store) ListDonors(_ context.Context, limit int) ([]models.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Donor, 0, max(0, min(limit, len(s.donations))))
	for i := len(s.donations) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.donations[i].Donor())
	}
	return out, nil
}

func (s *Store) AddSubscriber(_ context.Context, sub models.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[sub.Email]; ok {
		return fmt.Errorf("subscriber %s: %w", sub.Email, repository.ErrDuplicate)
	}
	s.subscribers[sub.Email] = sub
	return nil
}
