package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/baharkarakas/charity-donations/internal/client"
	"github.com/baharkarakas/charity-donations/internal/models"
)

func statsCmd(newClient func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the impact statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newClient().Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Raised:   %s\n", st.Raised.StringFixed(2))
			fmt.Fprintf(out, "Lives:    %d\n", st.Lives)
			fmt.Fprintf(out, "Students: %d\n", st.Students)
			fmt.Fprintf(out, "Meals:    %d\n", st.Meals)
			fmt.Fprintf(out, "Medical:  %d\n", st.Medical)
			fmt.Fprintf(out, "Homes:    %d\n", st.Homes)
			return nil
		},
	}
}

func donorsCmd(newClient func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "donors",
		Short: "Show the donors wall",
		RunE: func(cmd *cobra.Command, args []string) error {
			donors, err := newClient().Donors(cmd.Context())
			if err != nil {
				return err
			}
			if len(donors) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Keep choosing kindness. Every donation matters.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, d := range donors {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Name, d.Amount.StringFixed(2), d.Timestamp.Local().Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}

func subscribeCmd(newClient func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe [email]",
		Short: "Subscribe an address to the newsletter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newClient().Subscribe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !res.Success {
				return errors.New(res.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
}

func adminToken(cmd *cobra.Command, c *client.Client, password string) (string, error) {
	if password == "" {
		password = os.Getenv("ADMIN_PASSWORD")
	}
	if password == "" {
		return "", errors.New("--password or ADMIN_PASSWORD is required")
	}
	return c.Login(cmd.Context(), password)
}

func historyCmd(newClient func() *client.Client) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the latest transactions (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			tok, err := adminToken(cmd, c, password)
			if err != nil {
				return err
			}
			h, err := c.History(cmd.Context(), tok)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Raised: %s\n\n", h.Stats.Raised.StringFixed(2))
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tAMOUNT\tMETHOD\tNAME\tCARD\tWHEN")
			for _, d := range h.Donations {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", d.ID, d.Amount.StringFixed(2), d.Method, d.Name, d.CardNumber,
					d.Timestamp.Local().Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password")
	return cmd
}

func terminalCmd(newClient func() *client.Client) *cobra.Command {
	var (
		password  string
		amount    string
		channel   string
		reference string
		card      models.CardDetails
	)
	cmd := &cobra.Command{
		Use:   "terminal",
		Short: "Key in a phone, mail or in-person donation (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("--amount: %w", err)
			}
			c := newClient()
			tok, err := adminToken(cmd, c, password)
			if err != nil {
				return err
			}
			req := models.TerminalRequest{Channel: models.Channel(channel), Amount: d, Reference: reference}
			if card.Number != "" {
				req.CardDetails = &card
			}
			res, err := c.VirtualTerminal(cmd.Context(), tok, req)
			if err != nil {
				return err
			}
			if !res.Success {
				return errors.New(res.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Transaction %s\n", res.Message, res.TransactionID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&password, "password", "p", "", "Admin password")
	f.StringVarP(&amount, "amount", "a", "", "Amount")
	f.StringVar(&channel, "channel", string(models.ChannelPhone), "phone, mail, in-person or online")
	f.StringVarP(&reference, "reference", "r", "", "Reference")
	f.StringVar(&card.Name, "name", "", "Cardholder name")
	f.StringVar(&card.Number, "number", "", "Card number")
	f.StringVar(&card.Expiry, "expiry", "", "Card expiry, MM/YY")
	f.StringVar(&card.CVV, "cvv", "", "Card security code")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
