package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Stripe charges cards through the Stripe API: a PaymentMethod is created from the raw card and
// then attached to a confirmed PaymentIntent.
type Stripe struct {
	sc *client.API
}

func NewStripe(secretKey string) *Stripe {
	return &Stripe{sc: client.New(secretKey, nil)}
}

func (s *Stripe) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	month, year, err := ParseExpiry(req.Card.Expiry)
	if err != nil {
		return ChargeResult{Status: StatusDeclined, Message: err.Error()}, nil
	}

	pmParams := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{
			Number:   stripe.String(req.Card.Digits()),
			ExpMonth: stripe.Int64(month),
			ExpYear:  stripe.Int64(year),
			CVC:      stripe.String(req.Card.CVV),
		},
		BillingDetails: &stripe.PaymentMethodBillingDetailsParams{
			Name: stripe.String(req.Card.Name),
		},
	}
	pmParams.Context = ctx
	pm, err := s.sc.PaymentMethods.New(pmParams)
	if err != nil {
		return classify(err)
	}

	piParams := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.AmountMinor),
		Currency:           stripe.String(strings.ToLower(req.Currency)),
		PaymentMethod:      stripe.String(pm.ID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Confirm:            stripe.Bool(true),
	}
	if req.Description != "" {
		piParams.Description = stripe.String(req.Description)
	}
	piParams.Context = ctx
	pi, err := s.sc.PaymentIntents.New(piParams)
	if err != nil {
		return classify(err)
	}
	return intentResult(pi), nil
}

func (s *Stripe) CreateIntent(ctx context.Context, amountMinor int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	pi, err := s.sc.PaymentIntents.New(params)
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}

func intentResult(pi *stripe.PaymentIntent) ChargeResult {
	res := ChargeResult{ProcessorTransactionID: pi.ID}
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		res.Status = StatusSucceeded
	case stripe.PaymentIntentStatusRequiresCapture:
		res.Status = StatusRequiresCapture
	default:
		res.Status = StatusDeclined
		res.Message = "Payment status: " + string(pi.Status)
		if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
			res.Message = pi.LastPaymentError.Msg
		}
	}
	return res
}

// classify turns card errors into declines and everything else into a processor error.
func classify(err error) (ChargeResult, error) {
	var se *stripe.Error
	if errors.As(err, &se) {
		if se.Type == stripe.ErrorTypeCard || se.Type == stripe.ErrorTypeInvalidRequest {
			return ChargeResult{Status: StatusDeclined, Message: se.Msg}, nil
		}
		return ChargeResult{Status: StatusError, Message: se.Msg}, err
	}
	return ChargeResult{Status: StatusError, Message: err.Error()}, err
}
