package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/baharkarakas/charity-donations/internal/checkout"
	"github.com/baharkarakas/charity-donations/internal/metrics"
	"github.com/baharkarakas/charity-donations/internal/models"
	"github.com/baharkarakas/charity-donations/internal/payment"
	repo "github.com/baharkarakas/charity-donations/internal/repository"
)

const maxIDAttempts = 5

type CheckoutConfig struct {
	checkout.Links
	StripePublishableKey string
}

// Receipt is what an accepted donation returns: the new id, the stats right after the increment,
// and for redirect methods the hosted checkout URL.
type Receipt struct {
	TransactionID string
	Stats         models.ImpactStats
	RedirectURL   string
}

type Intent struct {
	PublishableKey string `json:"publishableKey"`
	ClientSecret   string `json:"clientSecret,omitempty"`
}

type DonationService struct {
	store repo.Backend
	proc  payment.Processor
	cfg   CheckoutConfig
	log   *slog.Logger

	newID func(prefix string) (string, error)
	now   func() time.Time
}

// NewDonationService wires the intake pipeline. proc may be nil, in which case card donations
// are recorded without an external charge.
func NewDonationService(store repo.Backend, proc payment.Processor, cfg CheckoutConfig, log *slog.Logger) *DonationService {
	if cfg.Currency == "" {
		cfg.Currency = "AUD"
	}
	return &DonationService{
		store: store,
		proc:  proc,
		cfg:   cfg,
		log:   log,
		newID: NewTransactionID,
		now:   time.Now,
	}
}

func (s *DonationService) Donate(ctx context.Context, req models.DonationRequest) (Receipt, error) {
	in, err := req.Intake()
	if err != nil {
		return Receipt{}, s.rejectInvalid(err)
	}
	switch v := in.(type) {
	case models.CardIntake:
		return s.donateCard(ctx, v)
	case models.RedirectIntake:
		return s.logRedirect(ctx, v)
	default:
		return Receipt{}, fmt.Errorf("unsupported intake %T", in)
	}
}

func (s *DonationService) donateCard(ctx context.Context, in models.CardIntake) (Receipt, error) {
	d := in.Details()
	rec := models.DonationRecord{
		Amount:     d.Amount,
		Frequency:  d.Frequency,
		Method:     models.CompositeMethod(string(models.MethodCard), d.Channel),
		Name:       models.DisplayName(in.Card.Name, d.Reference, d.Channel),
		Channel:    d.Channel,
		Reference:  d.Reference,
		CardNumber: models.MaskCardNumber(in.Card.Number),
	}

	txn, err := s.charge(ctx, d.Amount, in.Card, "Donation")
	if err != nil {
		return Receipt{}, err
	}
	rec.ProcessorTxnID = txn

	stats, err := s.commit(ctx, PrefixDonation, &rec, string(models.MethodCard))
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{TransactionID: rec.ID, Stats: stats}, nil
}

// logRedirect records a donation whose payment happens on a hosted checkout page and returns the
// URL to send the donor to. No card data is involved. The intent is logged even when no checkout
// link is configured; RedirectURL is then empty and the caller builds its own.
func (s *DonationService) logRedirect(ctx context.Context, in models.RedirectIntake) (Receipt, error) {
	d := in.Details()
	rec := models.DonationRecord{
		Amount:    d.Amount,
		Frequency: d.Frequency,
		Method:    models.CompositeMethod(string(in.Method), d.Channel),
		Name:      models.DisplayName("", d.Reference, d.Channel),
		Channel:   d.Channel,
		Reference: d.Reference,
	}
	stats, err := s.commit(ctx, PrefixDonation, &rec, string(in.Method))
	if err != nil {
		return Receipt{}, err
	}
	link, err := s.cfg.URL(in.Method, d.Amount, rec.ID)
	if err != nil {
		s.log.Warn("no checkout link for redirect donation", "id", rec.ID, "method", in.Method, "err", err)
		link = ""
	}
	return Receipt{TransactionID: rec.ID, Stats: stats, RedirectURL: link}, nil
}

// VirtualTerminal records an operator-keyed donation taken by phone, mail or in person.
func (s *DonationService) VirtualTerminal(ctx context.Context, req models.TerminalRequest) (Receipt, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return Receipt{}, s.rejectInvalid(err)
	}

	ref := req.Reference
	if ref == "" {
		ref = "Manual Entry"
	}
	rec := models.DonationRecord{
		Amount:    req.Amount,
		Frequency: models.FrequencyOnce,
		Method:    "virtual:" + string(req.Channel),
		Name:      "VT: " + ref,
		Channel:   req.Channel,
		Reference: req.Reference,
	}
	if req.CardDetails != nil {
		rec.CardNumber = models.MaskCardNumber(req.CardDetails.Number)
		txn, err := s.charge(ctx, req.Amount, *req.CardDetails, "Virtual terminal "+string(req.Channel))
		if err != nil {
			return Receipt{}, err
		}
		rec.ProcessorTxnID = txn
	}

	stats, err := s.commit(ctx, PrefixTerminal, &rec, "virtual")
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{TransactionID: rec.ID, Stats: stats}, nil
}

// PrepareIntent hands the browser what it needs to confirm a payment client-side.
func (s *DonationService) PrepareIntent(ctx context.Context, amount decimal.Decimal) (Intent, error) {
	if !amount.IsPositive() {
		return Intent{}, invalid("amount", "must be a positive number")
	}
	out := Intent{PublishableKey: s.cfg.StripePublishableKey}
	ic, ok := s.proc.(payment.IntentCreator)
	if !ok {
		return out, nil
	}
	secret, err := ic.CreateIntent(ctx, payment.ToMinorUnits(amount), s.cfg.Currency)
	if err != nil {
		return Intent{}, fmt.Errorf("create payment intent: %w", err)
	}
	out.ClientSecret = secret
	return out, nil
}

// charge runs the external charge when a processor is configured and returns its transaction id.
func (s *DonationService) charge(ctx context.Context, amount decimal.Decimal, card models.CardDetails, desc string) (string, error) {
	if s.proc == nil {
		return "", nil
	}
	res, err := s.proc.Charge(ctx, payment.ChargeRequest{
		AmountMinor: payment.ToMinorUnits(amount),
		Currency:    s.cfg.Currency,
		Card:        card,
		Description: desc,
	})
	if err == nil && res.Status.Accepted() {
		return res.ProcessorTransactionID, nil
	}

	msg := res.Message
	if msg == "" && err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = "Payment was not completed"
	}
	status := res.Status
	if status == "" {
		status = payment.StatusError
	}
	metrics.DonationsFailed.WithLabelValues("processor").Inc()
	s.log.Warn("charge refused", "status", status, "message", msg, "err", err)
	return "", &ProcessorError{Status: status, Message: msg, Err: err}
}

// commit increments the running total and then appends the record. Only the append is retried,
// with a fresh id, when the id is already taken.
func (s *DonationService) commit(ctx context.Context, prefix string, rec *models.DonationRecord, label string) (models.ImpactStats, error) {
	stats, err := s.store.IncrementRaised(ctx, rec.Amount)
	if err != nil {
		metrics.DonationsFailed.WithLabelValues("storage").Inc()
		return models.ImpactStats{}, fmt.Errorf("increment raised: %w", err)
	}

	rec.Timestamp = s.now().UTC()
	for attempt := 1; ; attempt++ {
		id, err := s.newID(prefix)
		if err != nil {
			return models.ImpactStats{}, fmt.Errorf("transaction id: %w", err)
		}
		rec.ID = id
		err = s.store.AppendDonation(ctx, *rec)
		if err == nil {
			break
		}
		if !errors.Is(err, repo.ErrDuplicate) || attempt == maxIDAttempts {
			metrics.DonationsFailed.WithLabelValues("storage").Inc()
			s.log.Error("donation counted but not recorded", "amount", rec.Amount, "err", err)
			return models.ImpactStats{}, fmt.Errorf("append donation: %w", err)
		}
		s.log.Warn("transaction id collision", "id", id, "attempt", attempt)
	}

	metrics.DonationsTotal.WithLabelValues(label).Inc()
	metrics.DonationsAmount.Add(rec.Amount.InexactFloat64())
	s.log.Info("donation recorded", "id", rec.ID, "method", rec.Method, "amount", rec.Amount)
	return stats, nil
}

func (s *DonationService) rejectInvalid(err error) error {
	var ve validation.Errors
	if !errors.As(err, &ve) {
		return err
	}
	metrics.DonationsFailed.WithLabelValues("validation").Inc()
	return &ValidationError{Err: ve}
}
