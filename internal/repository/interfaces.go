package repository

import (
	"context"
	"errors"

	"github.com/baharkarakas/charity-donations/internal/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrDuplicate is returned when a unique key (transaction id, subscriber email) already exists.
	ErrDuplicate = errors.New("duplicate key")
	ErrNotFound  = errors.New("not found")
)

type Stats interface {
	GetStats(ctx context.Context) (models.ImpactStats, error)
	// SeedStats writes the aggregate only if none exists and reports whether it did.
	SeedStats(ctx context.Context, seed models.ImpactStats) (bool, error)
	// IncrementRaised adds amount in a single atomic step and returns the new snapshot.
	IncrementRaised(ctx context.Context, amount decimal.Decimal) (models.ImpactStats, error)
}

type Donations interface {
	AppendDonation(ctx context.Context, rec models.DonationRecord) error
	ListDonations(ctx context.Context, limit int) ([]models.DonationRecord, error)
	ListDonors(ctx context.Context, limit int) ([]models.Donor, error)
}

type Subscribers interface {
	AddSubscriber(ctx context.Context, s models.Subscriber) error
}

// Backend is the full storage capability the services depend on.
type Backend interface {
	Stats
	Donations
	Subscribers
}
