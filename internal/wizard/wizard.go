// Package wizard holds the client-side state of the three-step donation form.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/baharkarakas/charity-donations/internal/checkout"
	"github.com/baharkarakas/charity-donations/internal/client"
	"github.com/baharkarakas/charity-donations/internal/models"
)

type Step int

const (
	StepAmount  Step = 1
	StepPayment Step = 2
	StepDone    Step = 3
)

const (
	MsgNoAmount         = "Please select or enter a donation amount."
	MsgMissingName      = "Please enter the cardholder name."
	MsgMissingCard      = "Please fill in all card details."
	MsgConnectionFailed = "Server connection failed."

	DefaultCardReference   = "WebDonation"
	DefaultPayPalReference = "PayPal_Attempt"
	DefaultStripeReference = "Stripe_Attempt"
)

var (
	ErrNoAmount    = errors.New("no donation amount")
	ErrCardDetails = errors.New("incomplete card details")
	ErrBadStep     = errors.New("no such step")
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notifier interface {
	Notify(level Level, msg string)
}

// API is the part of the donation API the form talks to. client.Client implements it.
type API interface {
	Donate(ctx context.Context, req models.DonationRequest) (client.Result, error)
	Stats(ctx context.Context) (models.ImpactStats, error)
}

// Outcome is what the confirmation step shows.
type Outcome struct {
	Success       bool
	Message       string
	TransactionID string
}

// Controller is the form state machine. Every method is safe for concurrent use.
type Controller struct {
	api    API
	notify Notifier
	links  checkout.Links

	mu        sync.Mutex
	step      Step
	preset    decimal.Decimal
	custom    string
	frequency models.Frequency
	channel   models.Channel
	outcome   *Outcome
	stats     models.ImpactStats
}

// New builds a controller. links is used to send the donor to checkout when the server could not
// log the redirect attempt.
func New(api API, n Notifier, links checkout.Links) *Controller {
	c := &Controller{api: api, notify: n, links: links}
	c.Reset()
	return c
}

// Reset restores the initial form: no amount, once, online, first step.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = StepAmount
	c.preset = decimal.Zero
	c.custom = ""
	c.frequency = models.FrequencyOnce
	c.channel = models.ChannelOnline
	c.outcome = nil
}

// SelectAmount picks a preset and clears any custom amount.
func (c *Controller) SelectAmount(amount decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preset = amount
	c.custom = ""
}

func (c *Controller) SetCustomAmount(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.custom = text
}

func (c *Controller) SetFrequency(f models.Frequency) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frequency = f
}

func (c *Controller) SetPublicChannel(ch models.Channel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channel = ch
}

// DonationAmount prefers a positive custom amount, then a positive preset.
func (c *Controller) DonationAmount() (decimal.Decimal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.amountLocked()
}

func (c *Controller) amountLocked() (decimal.Decimal, bool) {
	if d, err := decimal.NewFromString(strings.TrimSpace(c.custom)); err == nil && d.IsPositive() {
		return d, true
	}
	if c.preset.IsPositive() {
		return c.preset, true
	}
	return decimal.Zero, false
}

func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

func (c *Controller) Outcome() (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcome == nil {
		return Outcome{}, false
	}
	return *c.outcome, true
}

// Stats is the last snapshot fetched after a successful donation.
func (c *Controller) Stats() models.ImpactStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// GotoStep moves the form. Anything past the first step needs a resolvable amount.
func (c *Controller) GotoStep(n Step) error {
	if n < StepAmount || n > StepDone {
		return fmt.Errorf("%w: %d", ErrBadStep, n)
	}
	c.mu.Lock()
	_, ok := c.amountLocked()
	if n > StepAmount && !ok {
		c.mu.Unlock()
		c.notify.Notify(LevelWarning, MsgNoAmount)
		return ErrNoAmount
	}
	c.step = n
	c.mu.Unlock()
	return nil
}

// SubmitCard sends one card donation and moves to the confirmation step. A transport failure is
// reported once and never retried.
func (c *Controller) SubmitCard(ctx context.Context, card models.CardDetails, reference string) (Outcome, error) {
	c.mu.Lock()
	amount, ok := c.amountLocked()
	req := models.DonationRequest{
		Amount:    amount,
		Frequency: c.frequency,
		Method:    models.MethodCard,
		Channel:   c.channel,
		Reference: strings.TrimSpace(reference),
	}
	c.mu.Unlock()

	if !ok {
		c.notify.Notify(LevelWarning, MsgNoAmount)
		return Outcome{}, ErrNoAmount
	}
	if strings.TrimSpace(card.Name) == "" {
		c.notify.Notify(LevelWarning, MsgMissingName)
		return Outcome{}, ErrCardDetails
	}
	if strings.TrimSpace(card.Number) == "" || strings.TrimSpace(card.Expiry) == "" || strings.TrimSpace(card.CVV) == "" {
		c.notify.Notify(LevelWarning, MsgMissingCard)
		return Outcome{}, ErrCardDetails
	}
	if req.Reference == "" {
		req.Reference = DefaultCardReference
	}
	req.CardDetails = &card

	res, err := c.api.Donate(ctx, req)
	if err != nil {
		out := c.finish(Outcome{Message: MsgConnectionFailed})
		c.notify.Notify(LevelError, MsgConnectionFailed)
		return out, fmt.Errorf("donate: %w", err)
	}
	if !res.Success {
		out := c.finish(Outcome{Message: res.Message})
		c.notify.Notify(LevelError, res.Message)
		return out, nil
	}

	out := c.finish(Outcome{Success: true, Message: res.Message, TransactionID: res.TransactionID})
	c.notify.Notify(LevelSuccess, res.Message)
	c.refreshStats(ctx, res.UpdatedStats)
	return out, nil
}

// SubmitRedirect logs a hosted-checkout attempt and returns the URL to open. When the server
// cannot be reached the URL is built locally so the donor is never blocked.
func (c *Controller) SubmitRedirect(ctx context.Context, method models.Method, reference string) (string, error) {
	if !method.IsRedirect() {
		return "", fmt.Errorf("%s is not a redirect method", method)
	}
	c.mu.Lock()
	amount, ok := c.amountLocked()
	req := models.DonationRequest{
		Amount:    amount,
		Frequency: c.frequency,
		Method:    method,
		Channel:   c.channel,
		Reference: strings.TrimSpace(reference),
	}
	c.mu.Unlock()

	if !ok {
		c.notify.Notify(LevelWarning, MsgNoAmount)
		return "", ErrNoAmount
	}
	if req.Reference == "" {
		req.Reference = DefaultPayPalReference
		if method == models.MethodStripeRedirect {
			req.Reference = DefaultStripeReference
		}
	}

	res, err := c.api.Donate(ctx, req)
	ref := req.Reference
	switch {
	case err != nil:
	case res.Success && res.RedirectURL != "":
		return res.RedirectURL, nil
	case res.Success && res.TransactionID != "":
		// logged, but the server has no checkout link of its own
		ref = res.TransactionID
	case !res.Success:
		c.notify.Notify(LevelInfo, "Could not log the donation: "+res.Message)
	}
	return c.links.URL(method, amount, ref)
}

func (c *Controller) finish(o Outcome) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = StepDone
	c.outcome = &o
	return o
}

// refreshStats pulls the aggregate after a donation, falling back to the snapshot the donation
// returned.
func (c *Controller) refreshStats(ctx context.Context, fromReceipt *models.ImpactStats) {
	st, err := c.api.Stats(ctx)
	if err != nil {
		if fromReceipt == nil {
			return
		}
		st = *fromReceipt
	}
	c.mu.Lock()
	c.stats = st
	c.mu.Unlock()
}
