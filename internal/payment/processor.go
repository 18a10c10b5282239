package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/charity-donations/internal/models"
)

type Status string

const (
	StatusSucceeded       Status = "succeeded"
	StatusRequiresCapture Status = "requires_capture"
	StatusDeclined        Status = "declined"
	StatusError           Status = "error"
)

// Accepted reports whether the charge went through far enough to record the donation.
func (s Status) Accepted() bool {
	return s == StatusSucceeded || s == StatusRequiresCapture
}

type ChargeRequest struct {
	AmountMinor int64
	Currency    string
	Card        models.CardDetails
	Description string
}

type ChargeResult struct {
	Status                 Status
	ProcessorTransactionID string
	Message                string
}

// Processor charges a card. A nil error with a non-accepted Status is a decline, not a failure.
type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// IntentCreator is implemented by processors that can open a client-confirmed payment intent.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (clientSecret string, err error)
}

// ToMinorUnits converts a major-unit amount to cents, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

var ErrBadExpiry = errors.New("expiry must be MM/YY or MM/YYYY")

// ParseExpiry splits "MM/YY" or "MM/YYYY" into month and four-digit year.
func ParseExpiry(s string) (month, year int64, err error) {
	mm, yy, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || len(mm) != 2 || (len(yy) != 2 && len(yy) != 4) {
		return 0, 0, ErrBadExpiry
	}
	month, err = strconv.ParseInt(mm, 10, 64)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, ErrBadExpiry
	}
	year, err = strconv.ParseInt(yy, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrBadExpiry, err)
	}
	if len(yy) == 2 {
		year += 2000
	}
	return month, year, nil
}
