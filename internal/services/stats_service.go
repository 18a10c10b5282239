package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/baharkarakas/charity-donations/internal/models"
	repo "github.com/baharkarakas/charity-donations/internal/repository"
)

const (
	DonorsLimit  = 10
	HistoryLimit = 100
)

type StatsService struct {
	r   repo.Backend
	log *slog.Logger
}

func NewStatsService(r repo.Backend, log *slog.Logger) *StatsService {
	return &StatsService{r: r, log: log}
}

// Current never fails: on any storage error it serves the seed defaults.
func (s *StatsService) Current(ctx context.Context) models.ImpactStats {
	st, err := s.r.GetStats(ctx)
	if err != nil {
		s.log.Warn("stats unavailable, serving defaults", "err", err)
		return models.DefaultStats()
	}
	return st
}

func (s *StatsService) Donors(ctx context.Context) ([]models.Donor, error) {
	donors, err := s.r.ListDonors(ctx, DonorsLimit)
	if err != nil {
		return nil, err
	}
	if donors == nil {
		donors = []models.Donor{}
	}
	return donors, nil
}

type History struct {
	Stats     models.ImpactStats      `json:"stats"`
	Donations []models.DonationRecord `json:"donations"`
}

// History loads the aggregate and the latest donations concurrently.
func (s *StatsService) History(ctx context.Context) (History, error) {
	var h History
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h.Stats = s.Current(gctx)
		return nil
	})
	g.Go(func() error {
		list, err := s.r.ListDonations(gctx, HistoryLimit)
		if err != nil {
			return err
		}
		for i := range list {
			if list[i].CardNumber == "" {
				list[i].CardNumber = "N/A"
			}
		}
		h.Donations = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return History{}, err
	}
	if h.Donations == nil {
		h.Donations = []models.DonationRecord{}
	}
	return h, nil
}
