// Package checkout builds hosted-checkout URLs for the redirect donation methods.
package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/charity-donations/internal/models"
	"github.com/baharkarakas/charity-donations/internal/payment"
)

const PayPalDonateURL = "https://www.paypal.com/donate"

var ErrNotConfigured = errors.New("redirect checkout is not configured")

type Links struct {
	Currency          string
	PayPalBusinessID  string
	PayPalItemName    string
	StripePaymentLink string
	SiteURL           string
}

func (l Links) Configured(m models.Method) bool {
	switch m {
	case models.MethodPayPalRedirect:
		return l.PayPalBusinessID != ""
	case models.MethodStripeRedirect:
		return l.StripePaymentLink != ""
	}
	return false
}

// URL returns the checkout page for m. ref ends up as the PayPal "custom" field or the Stripe
// client_reference_id so the payment can be matched to its logged donation.
func (l Links) URL(m models.Method, amount decimal.Decimal, ref string) (string, error) {
	if !l.Configured(m) {
		return "", fmt.Errorf("%s: %w", m, ErrNotConfigured)
	}
	if m == models.MethodStripeRedirect {
		q := url.Values{}
		q.Set("prefilled_amount", strconv.FormatInt(payment.ToMinorUnits(amount), 10))
		if ref != "" {
			q.Set("client_reference_id", ref)
		}
		return withQuery(l.StripePaymentLink, q)
	}

	currency := l.Currency
	if currency == "" {
		currency = "AUD"
	}
	q := url.Values{}
	q.Set("business", l.PayPalBusinessID)
	if l.PayPalItemName != "" {
		q.Set("item_name", l.PayPalItemName)
	}
	q.Set("currency_code", currency)
	q.Set("amount", amount.StringFixed(2))
	if ref != "" {
		q.Set("custom", ref)
	}
	if l.SiteURL != "" {
		q.Set("return", l.SiteURL+"/?success=true")
		q.Set("cancel_return", l.SiteURL+"/")
	}
	return withQuery(PayPalDonateURL, q)
}

func withQuery(base string, q url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("checkout link %q: %w", base, err)
	}
	merged := u.Query()
	for k, vs := range q {
		merged[k] = vs
	}
	u.RawQuery = merged.Encode()
	return u.String(), nil
}
