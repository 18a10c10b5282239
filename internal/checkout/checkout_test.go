package checkout

import (
	"errors"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/charity-donations/internal/models"
)

func TestPayPalURL(t *testing.T) {
	l := Links{PayPalBusinessID: "giving@example.org", PayPalItemName: "Donation", SiteURL: "https://charity.example"}
	raw, err := l.URL(models.MethodPayPalRedirect, decimal.NewFromInt(25), "TXN_ABCDEFGHI")
	if err != nil {
		t.Fatal(err)
	}
	u, _ := url.Parse(raw)
	q := u.Query()
	if u.Host != "www.paypal.com" || q.Get("currency_code") != "AUD" || q.Get("amount") != "25.00" ||
		q.Get("custom") != "TXN_ABCDEFGHI" || q.Get("return") != "https://charity.example/?success=true" {
		t.Fatalf("url %s", raw)
	}
}

func TestStripeURLKeepsExistingQuery(t *testing.T) {
	l := Links{StripePaymentLink: "https://buy.stripe.com/test_abc?locale=en"}
	raw, err := l.URL(models.MethodStripeRedirect, decimal.RequireFromString("7.25"), "TXN_1")
	if err != nil {
		t.Fatal(err)
	}
	q, _ := url.Parse(raw)
	if q.Query().Get("locale") != "en" || q.Query().Get("prefilled_amount") != "725" || q.Query().Get("client_reference_id") != "TXN_1" {
		t.Fatalf("url %s", raw)
	}
}

func TestNotConfigured(t *testing.T) {
	_, err := Links{}.URL(models.MethodPayPalRedirect, decimal.NewFromInt(1), "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("got %v", err)
	}
	if (Links{}).Configured(models.MethodCard) {
		t.Fatal("card is never a redirect")
	}
}
