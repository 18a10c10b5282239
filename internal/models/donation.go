package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

func init() {
	// amounts go over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

type Frequency string

const (
	FrequencyOnce    Frequency = "once"
	FrequencyMonthly Frequency = "monthly"
	FrequencyAnnual  Frequency = "annual"
)

type Method string

const (
	MethodCard           Method = "card"
	MethodPayPalRedirect Method = "paypal_redirect"
	MethodStripeRedirect Method = "stripe_redirect"
)

// IsRedirect reports whether the donor is handed off to a hosted checkout page.
func (m Method) IsRedirect() bool {
	return m == MethodPayPalRedirect || m == MethodStripeRedirect
}

type Channel string

const (
	ChannelOnline   Channel = "online"
	ChannelPhone    Channel = "phone"
	ChannelMail     Channel = "mail"
	ChannelInPerson Channel = "in-person"
)

// Title capitalizes the first letter: "phone" -> "Phone".
func (c Channel) Title() string {
	if c == "" {
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

const AnonymousDonor = "Anonymous Donor"

var (
	cardNumberRe = regexp.MustCompile(`^[0-9]{12,19}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2}|[0-9]{4})$`)
	cvvRe        = regexp.MustCompile(`^[0-9]{3,4}$`)

	frequencyRule = validation.In(FrequencyOnce, FrequencyMonthly, FrequencyAnnual)
	channelRule   = validation.In(ChannelOnline, ChannelPhone, ChannelMail, ChannelInPerson)
	amountRule    = validation.By(func(value interface{}) error {
		d, ok := value.(decimal.Decimal)
		if !ok || !d.IsPositive() {
			return errors.New("must be a positive number")
		}
		if d.Shift(2).Round(0).IsZero() {
			return errors.New("must be at least 0.01")
		}
		return nil
	})
)

// CardDetails is the raw card payload. It never leaves the intake pipeline.
type CardDetails struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// Digits returns the card number without spaces or dashes.
func (c CardDetails) Digits() string {
	return strings.NewReplacer(" ", "", "-", "").Replace(c.Number)
}

func (c CardDetails) Validate() error {
	digits := c.Digits()
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&c.Number, validation.Required, validation.By(func(interface{}) error {
			if !cardNumberRe.MatchString(digits) {
				return errors.New("must be 12 to 19 digits")
			}
			return nil
		})),
		validation.Field(&c.Expiry, validation.Required, validation.Match(expiryRe).Error("must be MM/YY")),
		validation.Field(&c.CVV, validation.Required, validation.Match(cvvRe).Error("must be 3 or 4 digits")),
	)
}

// DonationRequest is the public /api/donate body as sent by the browser.
type DonationRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Frequency   Frequency       `json:"frequency"`
	Method      Method          `json:"method"`
	Channel     Channel         `json:"channel"`
	Reference   string          `json:"reference,omitempty"`
	CardDetails *CardDetails    `json:"cardDetails,omitempty"`
}

func (r *DonationRequest) normalize() {
	r.Frequency = Frequency(strings.ToLower(strings.TrimSpace(string(r.Frequency))))
	r.Method = Method(strings.ToLower(strings.TrimSpace(string(r.Method))))
	r.Channel = Channel(strings.ToLower(strings.TrimSpace(string(r.Channel))))
	r.Reference = strings.TrimSpace(r.Reference)
	if r.Frequency == "" {
		r.Frequency = FrequencyOnce
	}
	if r.Channel == "" {
		r.Channel = ChannelOnline
	}
	if r.CardDetails != nil {
		r.CardDetails.Name = strings.TrimSpace(r.CardDetails.Name)
		r.CardDetails.Expiry = strings.TrimSpace(r.CardDetails.Expiry)
		r.CardDetails.CVV = strings.TrimSpace(r.CardDetails.CVV)
	}
}

func (r DonationRequest) Validate() error {
	errs := validation.Errors{}
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Amount, amountRule),
		validation.Field(&r.Frequency, frequencyRule),
		validation.Field(&r.Method, validation.Required, validation.In(MethodCard, MethodPayPalRedirect, MethodStripeRedirect)),
		validation.Field(&r.Channel, channelRule),
		validation.Field(&r.Reference, validation.Length(0, 120)),
	)
	if err != nil {
		fieldErrs, ok := err.(validation.Errors)
		if !ok {
			return err
		}
		for k, v := range fieldErrs {
			errs[k] = v
		}
	}
	if r.Method == MethodCard {
		if r.CardDetails == nil {
			errs["cardDetails"] = errors.New("card details are required for card payments")
		} else if err := r.CardDetails.Validate(); err != nil {
			errs["cardDetails"] = err
		}
	}
	return errs.Filter()
}

// DonationDetails holds the fields every validated donation carries.
type DonationDetails struct {
	Amount    decimal.Decimal
	Frequency Frequency
	Channel   Channel
	Reference string
}

// Intake is a validated donation, either a card charge or a logged redirect.
type Intake interface {
	Details() DonationDetails
	isIntake()
}

type CardIntake struct {
	DonationDetails
	Card CardDetails
}

type RedirectIntake struct {
	DonationDetails
	Method Method
}

func (c CardIntake) Details() DonationDetails     { return c.DonationDetails }
func (r RedirectIntake) Details() DonationDetails { return r.DonationDetails }
func (CardIntake) isIntake()                      {}
func (RedirectIntake) isIntake()                  {}

// Intake normalizes and validates the request and returns the typed variant for its method.
func (r DonationRequest) Intake() (Intake, error) {
	r.normalize()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	details := DonationDetails{
		Amount:    r.Amount,
		Frequency: r.Frequency,
		Channel:   r.Channel,
		Reference: r.Reference,
	}
	if r.Method == MethodCard {
		return CardIntake{DonationDetails: details, Card: *r.CardDetails}, nil
	}
	return RedirectIntake{DonationDetails: details, Method: r.Method}, nil
}

// TerminalRequest is an operator-keyed virtual terminal entry.
type TerminalRequest struct {
	Channel     Channel         `json:"channel"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference,omitempty"`
	CardDetails *CardDetails    `json:"cardDetails,omitempty"`
}

func (r *TerminalRequest) Normalize() {
	r.Channel = Channel(strings.ToLower(strings.TrimSpace(string(r.Channel))))
	r.Reference = strings.TrimSpace(r.Reference)
}

func (r TerminalRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Channel, validation.Required, channelRule),
		validation.Field(&r.Amount, amountRule),
		validation.Field(&r.Reference, validation.Length(0, 120)),
		validation.Field(&r.CardDetails),
	)
}

// DonationRecord is the persisted, append-only form of an accepted donation.
type DonationRecord struct {
	ID             string          `json:"id"`
	Amount         decimal.Decimal `json:"amount"`
	Frequency      Frequency       `json:"frequency"`
	Method         string          `json:"method"`
	Name           string          `json:"name"`
	Channel        Channel         `json:"channel"`
	Reference      string          `json:"reference,omitempty"`
	ProcessorTxnID string          `json:"processorTransactionId,omitempty"`
	CardNumber     string          `json:"cardNumber,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// Donor is the public donors-wall projection of a record.
type Donor struct {
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

func (d DonationRecord) Donor() Donor {
	return Donor{Name: d.Name, Amount: d.Amount, Timestamp: d.Timestamp}
}

// DisplayName builds "Holder (reference) [Channel]", falling back to AnonymousDonor.
func DisplayName(holder, reference string, ch Channel) string {
	name := strings.TrimSpace(holder)
	if name == "" {
		name = AnonymousDonor
	}
	if reference != "" {
		name += " (" + reference + ")"
	}
	if ch != "" && ch != ChannelOnline {
		name += " [" + ch.Title() + "]"
	}
	return name
}

// CompositeMethod tags the method with the channel for offline solicitations.
func CompositeMethod(method string, ch Channel) string {
	if ch == "" || ch == ChannelOnline {
		return method
	}
	return method + ":" + string(ch)
}

// MaskCardNumber keeps only the last four digits of a card number.
func MaskCardNumber(number string) string {
	var digits []byte
	for i := 0; i < len(number); i++ {
		if number[i] >= '0' && number[i] <= '9' {
			digits = append(digits, number[i])
		}
	}
	if len(digits) < 4 {
		return "****"
	}
	return "**** **** **** " + string(digits[len(digits)-4:])
}
