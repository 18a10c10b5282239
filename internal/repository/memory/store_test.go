package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/baharkarakas/charity-donations/internal/models"
	"github.com/baharkarakas/charity-donations/internal/repository"
	"github.com/shopspring/decimal"
)

func record(id string, amount int64, at time.Time) models.DonationRecord {
	return models.DonationRecord{
		ID:        id,
		Amount:    decimal.NewFromInt(amount),
		Frequency: models.FrequencyOnce,
		Method:    "card",
		Name:      "Donor " + id,
		Channel:   models.ChannelOnline,
		Timestamp: at,
	}
}

func TestIncrementRaisedConcurrent(t *testing.T) {
	ctx := context.Background()
	s := New(models.DefaultStats())

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.IncrementRaised(ctx, decimal.RequireFromString("1.25"))
		}()
	}
	wg.Wait()

	got, _ := s.GetStats(ctx)
	want := models.DefaultStats().Raised.Add(decimal.RequireFromString("250"))
	if !got.Raised.Equal(want) {
		t.Fatalf("raised = %s, want %s", got.Raised, want)
	}
}

func TestAppendDonationRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := New(models.DefaultStats())
	now := time.Now()

	if err := s.AppendDonation(ctx, record("TXN_AAAAAAAAA", 10, now)); err != nil {
		t.Fatalf("first append: %v", err)
	}
	err := s.AppendDonation(ctx, record("TXN_AAAAAAAAA", 99, now))
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	list, _ := s.ListDonations(ctx, 10)
	if len(list) != 1 || !list[0].Amount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("original record overwritten: %+v", list)
	}
}

func TestListNewestFirstAndLimit(t *testing.T) {
	ctx := context.Background()
	s := New(models.DefaultStats())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		if err := s.AppendDonation(ctx, record(fmt.Sprintf("TXN_%09d", i), int64(i+1), base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}

	donors, _ := s.ListDonors(ctx, 10)
	if len(donors) != 10 {
		t.Fatalf("expected 10 donors, got %d", len(donors))
	}
	if !donors[0].Amount.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("newest donor first expected, got %+v", donors[0])
	}

	all, _ := s.ListDonations(ctx, 100)
	if len(all) != 15 {
		t.Fatalf("expected 15 donations, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Timestamp.After(all[i-1].Timestamp) {
			t.Fatalf("not newest first at %d", i)
		}
	}

	none, _ := s.ListDonations(ctx, -1)
	if len(none) != 0 {
		t.Fatalf("negative limit returned %d rows", len(none))
	}
}

func TestAddSubscriberDuplicate(t *testing.T) {
	ctx := context.Background()
	s := New(models.DefaultStats())
	sub := models.Subscriber{ID: "1", Email: "a@example.org"}
	if err := s.AddSubscriber(ctx, sub); err != nil {
		t.Fatal(err)
	}
	if err := s.AddSubscriber(ctx, sub); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}
