package postgres

import (
	"context"
	"fmt"

	"github.com/baharkarakas/charity-donations/internal/models"
	"github.com/baharkarakas/charity-donations/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type subscribersRepo struct{ pool *pgxpool.Pool }

func (r *subscribersRepo) AddSubscriber(ctx context.Context, s models.Subscriber) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO newsletter_subscribers(id, email, created_at) VALUES($1, $2, $3)`,
		s.ID, s.Email, s.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("subscriber %s: %w", s.Email, repository.ErrDuplicate)
	}
	return err
}
