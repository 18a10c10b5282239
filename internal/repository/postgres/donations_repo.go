package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/baharkarakas/charity-donations/internal/models"
	"github.com/baharkarakas/charity-donations/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type donationsRepo struct{ pool *pgxpool.Pool }

// uniqueViolation is the SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *donationsRepo) AppendDonation(ctx context.Context, rec models.DonationRecord) error {
	// plain INSERT: an id collision must surface, never overwrite
	const q = `
INSERT INTO donations (
  txn_id, amount, frequency, method, name, channel, reference, processor_txn_id, card_number, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.pool.Exec(ctx, q,
		rec.ID, rec.Amount, rec.Frequency, rec.Method, rec.Name, rec.Channel,
		rec.Reference, rec.ProcessorTxnID, rec.CardNumber, rec.Timestamp,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("donation %s: %w", rec.ID, repository.ErrDuplicate)
	}
	return err
}

func (r *donationsRepo) ListDonations(ctx context.Context, limit int) ([]models.DonationRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT txn_id, amount, frequency, method, name, channel, reference, processor_txn_id, card_number, created_at
		   FROM donations
		  ORDER BY created_at DESC
		  LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.DonationRecord{}
	for rows.Next() {
		var d models.DonationRecord
		if err := rows.Scan(&d.ID, &d.Amount, &d.Frequency, &d.Method, &d.Name, &d.Channel,
			&d.Reference, &d.ProcessorTxnID, &d.CardNumber, &d.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *donationsRepo) ListDonors(ctx context.Context, limit int) ([]models.Donor, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name, amount, created_at
		   FROM donations
		  ORDER BY created_at DESC
		  LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	donors, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Donor, error) {
		var d models.Donor
		err := row.Scan(&d.Name, &d.Amount, &d.Timestamp)
		return d, err
	})
	if err != nil {
		return nil, err
	}
	if donors == nil {
		donors = []models.Donor{}
	}
	return donors, nil
}
