package main

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/baharkarakas/charity-donations/internal/checkout"
	"github.com/baharkarakas/charity-donations/internal/client"
	"github.com/baharkarakas/charity-donations/internal/models"
	"github.com/baharkarakas/charity-donations/internal/wizard"
)

type printNotifier struct{ w io.Writer }

func (p printNotifier) Notify(level wizard.Level, msg string) {
	fmt.Fprintf(p.w, "[%s] %s\n", level, msg)
}

func giveCmd(newClient func() *client.Client) *cobra.Command {
	var (
		preset    string
		custom    string
		frequency string
		channel   string
		method    string
		reference string
		card      models.CardDetails
		links     checkout.Links
	)
	cmd := &cobra.Command{
		Use:   "give",
		Short: "Walk through the donation form and submit one donation",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			w := wizard.New(c, printNotifier{cmd.ErrOrStderr()}, links)
			out := cmd.OutOrStdout()

			if preset != "" {
				d, err := decimal.NewFromString(preset)
				if err != nil {
					return fmt.Errorf("--preset: %w", err)
				}
				w.SelectAmount(d)
			}
			w.SetCustomAmount(custom)
			w.SetFrequency(models.Frequency(frequency))
			w.SetPublicChannel(models.Channel(channel))
			if err := w.GotoStep(wizard.StepPayment); err != nil {
				return err
			}

			m := models.Method(method)
			if m.IsRedirect() {
				u, err := w.SubmitRedirect(cmd.Context(), m, reference)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Continue to checkout: %s\n", u)
				return nil
			}

			res, err := w.SubmitCard(cmd.Context(), card, reference)
			if err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("donation refused: %s", res.Message)
			}
			st := w.Stats()
			fmt.Fprintf(out, "%s Transaction %s\n", res.Message, res.TransactionID)
			fmt.Fprintf(out, "Total raised: %s\n", st.Raised.StringFixed(2))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", "Preset amount")
	f.StringVarP(&custom, "amount", "a", "", "Custom amount, takes precedence over --preset")
	f.StringVar(&frequency, "frequency", string(models.FrequencyOnce), "once, monthly or annual")
	f.StringVar(&channel, "channel", string(models.ChannelOnline), "online, phone, mail or in-person")
	f.StringVarP(&method, "method", "m", string(models.MethodCard), "card, paypal_redirect or stripe_redirect")
	f.StringVarP(&reference, "reference", "r", "", "Donation reference")
	f.StringVar(&card.Name, "name", "", "Cardholder name")
	f.StringVar(&card.Number, "number", "", "Card number")
	f.StringVar(&card.Expiry, "expiry", "", "Card expiry, MM/YY")
	f.StringVar(&card.CVV, "cvv", "", "Card security code")
	f.StringVar(&links.PayPalBusinessID, "paypal-business", envOr("PAYPAL_BUSINESS_ID", ""), "PayPal business id used when the server is unreachable")
	f.StringVar(&links.StripePaymentLink, "stripe-link", envOr("STRIPE_PAYMENT_LINK", ""), "Stripe payment link used when the server is unreachable")
	f.StringVar(&links.Currency, "currency", envOr("CURRENCY", "AUD"), "Currency for locally built checkout links")
	return cmd
}
