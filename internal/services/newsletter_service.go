package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/baharkarakas/charity-donations/internal/mailer"
	"github.com/baharkarakas/charity-donations/internal/models"
	repo "github.com/baharkarakas/charity-donations/internal/repository"
)

// Submitter runs background jobs. worker.Pool implements it.
type Submitter interface {
	Submit(f func()) bool
}

type NewsletterService struct {
	r    repo.Subscribers
	mail mailer.Mailer
	wp   Submitter
	log  *slog.Logger
}

func NewNewsletterService(r repo.Subscribers, m mailer.Mailer, wp Submitter, log *slog.Logger) *NewsletterService {
	return &NewsletterService{r: r, mail: m, wp: wp, log: log}
}

// Subscribe stores the address and queues a welcome mail. It reports alreadySubscribed instead of
// failing when the address is known.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (alreadySubscribed bool, err error) {
	sub := models.Subscriber{
		ID:        uuid.NewString(),
		Email:     models.NormalizeEmail(email),
		CreatedAt: time.Now().UTC(),
	}
	if err := sub.Validate(); err != nil {
		return false, &ValidationError{Err: err}
	}

	if err := s.r.AddSubscriber(ctx, sub); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return true, nil
		}
		return false, fmt.Errorf("add subscriber: %w", err)
	}

	to := sub.Email
	if !s.wp.Submit(func() { s.welcome(to) }) {
		s.log.Warn("welcome mail dropped, worker queue full", "email", to)
	}
	return false, nil
}

func (s *NewsletterService) welcome(to string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err := s.mail.Send(ctx, mailer.Message{
		To:      to,
		Subject: "Thanks for subscribing",
		Text:    "Thank you for joining our newsletter. We will keep you posted on the impact of every donation.",
	})
	if err != nil {
		s.log.Error("welcome mail", "email", to, "err", err)
	}
}
