package postgres

import (
	repo "github.com/baharkarakas/charity-donations/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles the table repos; it satisfies repo.Backend through the embedded interfaces.
type Repositories struct {
	repo.Stats
	repo.Donations
	repo.Subscribers
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Stats:       &statsRepo{pool},
		Donations:   &donationsRepo{pool},
		Subscribers: &subscribersRepo{pool},
	}
}
