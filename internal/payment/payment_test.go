package payment

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
)

func TestParseExpiry(t *testing.T) {
	cases := []struct {
		in          string
		month, year int64
		ok          bool
	}{
		{"12/28", 12, 2028, true},
		{"01/2030", 1, 2030, true},
		{"13/28", 0, 0, false},
		{"1/28", 0, 0, false},
		{"12-28", 0, 0, false},
		{"12/280", 0, 0, false},
	}
	for _, tc := range cases {
		m, y, err := ParseExpiry(tc.in)
		if tc.ok != (err == nil) || m != tc.month || y != tc.year {
			t.Fatalf("ParseExpiry(%q) = %d, %d, %v", tc.in, m, y, err)
		}
		if !tc.ok && !errors.Is(err, ErrBadExpiry) {
			t.Fatalf("ParseExpiry(%q) error not ErrBadExpiry: %v", tc.in, err)
		}
	}
}

func TestToMinorUnits(t *testing.T) {
	cases := map[string]int64{"50": 5000, "10.5": 1050, "19.995": 2000, "0.01": 1}
	for in, want := range cases {
		if got := ToMinorUnits(decimal.RequireFromString(in)); got != want {
			t.Fatalf("ToMinorUnits(%s) = %d, want %d", in, got, want)
		}
	}
}

func TestIntentResult(t *testing.T) {
	ok := intentResult(&stripe.PaymentIntent{ID: "pi_1", Status: stripe.PaymentIntentStatusSucceeded})
	if !ok.Status.Accepted() || ok.ProcessorTransactionID != "pi_1" {
		t.Fatalf("got %+v", ok)
	}
	hold := intentResult(&stripe.PaymentIntent{ID: "pi_2", Status: stripe.PaymentIntentStatusRequiresCapture})
	if !hold.Status.Accepted() {
		t.Fatalf("requires_capture must be accepted: %+v", hold)
	}
	pending := intentResult(&stripe.PaymentIntent{ID: "pi_3", Status: stripe.PaymentIntentStatusRequiresAction})
	if pending.Status.Accepted() || pending.Message == "" {
		t.Fatalf("got %+v", pending)
	}
}

func TestClassify(t *testing.T) {
	res, err := classify(&stripe.Error{Type: stripe.ErrorTypeCard, Msg: "Your card was declined."})
	if err != nil || res.Status != StatusDeclined || res.Message != "Your card was declined." {
		t.Fatalf("card error: %+v, %v", res, err)
	}
	res, err = classify(errors.New("network down"))
	if err == nil || res.Status != StatusError {
		t.Fatalf("transport error: %+v, %v", res, err)
	}
}
