package postgres

import (
	"context"
	"errors"

	"github.com/baharkarakas/charity-donations/internal/models"
	"github.com/baharkarakas/charity-donations/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type statsRepo struct{ pool *pgxpool.Pool }

const statsColumns = `raised, lives, students, meals, medical, homes, updated_at`

func (r *statsRepo) SeedStats(ctx context.Context, seed models.ImpactStats) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO impact_stats(id, raised, lives, students, meals, medical, homes, updated_at)
		 VALUES(1, $1, $2, $3, $4, $5, $6, now())
		 ON CONFLICT (id) DO NOTHING`,
		seed.Raised, seed.Lives, seed.Students, seed.Meals, seed.Medical, seed.Homes,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// IncrementRaised is a single upsert so a missing seed row cannot fail a donation.
func (r *statsRepo) IncrementRaised(ctx context.Context, amount decimal.Decimal) (models.ImpactStats, error) {
	seed := models.DefaultStats()
	var s models.ImpactStats
	err := r.pool.QueryRow(ctx,
		`INSERT INTO impact_stats AS st (id, raised, lives, students, meals, medical, homes, updated_at)
		 VALUES(1, $2::numeric + $1::numeric, $3, $4, $5, $6, $7, now())
		 ON CONFLICT (id) DO UPDATE
		    SET raised = st.raised + $1::numeric,
		        updated_at = now()
		 RETURNING `+statsColumns,
		amount, seed.Raised, seed.Lives, seed.Students, seed.Meals, seed.Medical, seed.Homes,
	).Scan(&s.Raised, &s.Lives, &s.Students, &s.Meals, &s.Medical, &s.Homes, &s.UpdatedAt)
	return s, err
}

func (r *statsRepo) GetStats(ctx context.Context) (models.ImpactStats, error) {
	var s models.ImpactStats
	err := r.pool.QueryRow(ctx,
		`SELECT `+statsColumns+`
		   FROM impact_stats
		  WHERE id = 1`,
	).Scan(&s.Raised, &s.Lives, &s.Students, &s.Meals, &s.Medical, &s.Homes, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return s, repository.ErrNotFound
	}
	return s, err
}
