package models

import (
	"encoding/json"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

func validCard() *CardDetails {
	return &CardDetails{Name: "A Donor", Number: "4242 4242 4242 4242", Expiry: "12/30", CVV: "123"}
}

func TestMaskCardNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"4242424242424242", "**** **** **** 4242"},
		{"4242 4242 4242 1881", "**** **** **** 1881"},
		{"5555-5555-5555-4444", "**** **** **** 4444"},
		{"12", "****"},
		{"", "****"},
	}
	for _, tc := range cases {
		got := MaskCardNumber(tc.in)
		if got != tc.want {
			t.Errorf("MaskCardNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
		digits := strings.Count(got, "0") + strings.Count(got, "1") + strings.Count(got, "2") +
			strings.Count(got, "3") + strings.Count(got, "4") + strings.Count(got, "5") +
			strings.Count(got, "6") + strings.Count(got, "7") + strings.Count(got, "8") + strings.Count(got, "9")
		if digits > 4 {
			t.Errorf("MaskCardNumber(%q) leaks %d digits", tc.in, digits)
		}
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		holder, ref string
		ch          Channel
		want        string
	}{
		{"A Donor", "", ChannelOnline, "A Donor"},
		{"", "", ChannelOnline, "Anonymous Donor"},
		{"A Donor", "Gala", ChannelOnline, "A Donor (Gala)"},
		{"", "Gala", ChannelPhone, "Anonymous Donor (Gala) [Phone]"},
		{"B", "", ChannelInPerson, "B [In-person]"},
	}
	for _, tc := range cases {
		if got := DisplayName(tc.holder, tc.ref, tc.ch); got != tc.want {
			t.Errorf("DisplayName(%q, %q, %q) = %q, want %q", tc.holder, tc.ref, tc.ch, got, tc.want)
		}
	}
}

func TestCompositeMethod(t *testing.T) {
	if got := CompositeMethod("card", ChannelOnline); got != "card" {
		t.Fatalf("online: got %q", got)
	}
	if got := CompositeMethod("card", ChannelMail); got != "card:mail" {
		t.Fatalf("mail: got %q", got)
	}
}

func TestIntakeCard(t *testing.T) {
	req := DonationRequest{
		Amount:      decimal.NewFromInt(50),
		Method:      MethodCard,
		CardDetails: validCard(),
	}
	in, err := req.Intake()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	card, ok := in.(CardIntake)
	if !ok {
		t.Fatalf("expected CardIntake, got %T", in)
	}
	if card.Frequency != FrequencyOnce || card.Channel != ChannelOnline {
		t.Fatalf("defaults not applied: %+v", card.DonationDetails)
	}
	if card.Card.Digits() != "4242424242424242" {
		t.Fatalf("digits = %q", card.Card.Digits())
	}
}

func TestIntakeRedirectIgnoresCard(t *testing.T) {
	req := DonationRequest{
		Amount:      decimal.NewFromInt(20),
		Method:      MethodPayPalRedirect,
		Channel:     "Phone",
		CardDetails: &CardDetails{Number: "1"},
	}
	in, err := req.Intake()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, ok := in.(RedirectIntake)
	if !ok {
		t.Fatalf("expected RedirectIntake, got %T", in)
	}
	if r.Method != MethodPayPalRedirect || r.Channel != ChannelPhone {
		t.Fatalf("unexpected intake: %+v", r)
	}
}

func TestIntakeValidation(t *testing.T) {
	cases := []struct {
		name  string
		req   DonationRequest
		field string
	}{
		{"zero amount", DonationRequest{Method: MethodPayPalRedirect}, "amount"},
		{"negative amount", DonationRequest{Amount: decimal.NewFromInt(-5), Method: MethodStripeRedirect}, "amount"},
		{"sub-cent amount", DonationRequest{Amount: decimal.RequireFromString("0.001"), Method: MethodStripeRedirect}, "amount"},
		{"missing method", DonationRequest{Amount: decimal.NewFromInt(5)}, "method"},
		{"unknown method", DonationRequest{Amount: decimal.NewFromInt(5), Method: "cash"}, "method"},
		{"bad frequency", DonationRequest{Amount: decimal.NewFromInt(5), Method: MethodStripeRedirect, Frequency: "weekly"}, "frequency"},
		{"bad channel", DonationRequest{Amount: decimal.NewFromInt(5), Method: MethodStripeRedirect, Channel: "fax"}, "channel"},
		{"card without details", DonationRequest{Amount: decimal.NewFromInt(5), Method: MethodCard}, "cardDetails"},
		{"card missing cvv", DonationRequest{Amount: decimal.NewFromInt(5), Method: MethodCard,
			CardDetails: &CardDetails{Name: "A", Number: "4242424242424242", Expiry: "12/30"}}, "cardDetails"},
		{"card bad expiry", DonationRequest{Amount: decimal.NewFromInt(5), Method: MethodCard,
			CardDetails: &CardDetails{Name: "A", Number: "4242424242424242", Expiry: "13/30", CVV: "123"}}, "cardDetails"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.req.Intake()
			if err == nil {
				t.Fatal("expected validation error")
			}
			errs, ok := err.(validation.Errors)
			if !ok {
				t.Fatalf("expected validation.Errors, got %T", err)
			}
			if _, ok := errs[tc.field]; !ok {
				t.Fatalf("expected error on %q, got %v", tc.field, errs)
			}
		})
	}
}

func TestTerminalRequestValidate(t *testing.T) {
	ok := TerminalRequest{Channel: ChannelPhone, Amount: decimal.NewFromInt(10)}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (TerminalRequest{Channel: ChannelPhone, Amount: decimal.RequireFromString("0.004")}).Validate(); err == nil {
		t.Fatal("expected an amount that rounds to zero cents to be rejected")
	}
	if err := (TerminalRequest{Channel: ChannelPhone, Amount: decimal.RequireFromString("0.005")}).Validate(); err != nil {
		t.Fatalf("half a cent rounds up to one cent: %v", err)
	}
	noChannel := TerminalRequest{Amount: decimal.NewFromInt(10)}
	if err := noChannel.Validate(); err == nil {
		t.Fatal("expected channel to be required")
	}
	halfCard := TerminalRequest{Channel: ChannelMail, Amount: decimal.NewFromInt(10), CardDetails: &CardDetails{Number: "4242424242424242"}}
	if err := halfCard.Validate(); err == nil {
		t.Fatal("expected incomplete card to be rejected")
	}
}

func TestDonationRequestAcceptsQuotedAmount(t *testing.T) {
	var req DonationRequest
	if err := json.Unmarshal([]byte(`{"amount":"25.50","method":"stripe_redirect"}`), &req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !req.Amount.Equal(decimal.RequireFromString("25.5")) {
		t.Fatalf("amount = %s", req.Amount)
	}
}

func TestStatsJSONUsesNumbers(t *testing.T) {
	b, err := json.Marshal(DefaultStats())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"raised":2584912`) {
		t.Fatalf("raised not encoded as number: %s", b)
	}
}

func TestStatsCounterAdd(t *testing.T) {
	c := NewStatsCounter(DefaultStats())
	got := c.Add(decimal.RequireFromString("0.5"))
	if !got.Raised.Equal(decimal.RequireFromString("2584912.5")) {
		t.Fatalf("raised = %s", got.Raised)
	}
	if got.Lives != 15430 {
		t.Fatalf("counters changed: %+v", got)
	}
}
