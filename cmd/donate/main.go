package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/baharkarakas/charity-donations/internal/client"
)

var Version = "dev"

func main() {
	var apiURL string
	rootCmd := &cobra.Command{
		Use:     "donate",
		Short:   "Command-line donation form and admin console",
		Version: Version,
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("DONATE_API_URL", "http://localhost:8080"), "Donation API base URL")

	newClient := func() *client.Client { return client.New(apiURL, nil) }

	rootCmd.AddCommand(giveCmd(newClient))
	rootCmd.AddCommand(statsCmd(newClient))
	rootCmd.AddCommand(donorsCmd(newClient))
	rootCmd.AddCommand(subscribeCmd(newClient))
	rootCmd.AddCommand(historyCmd(newClient))
	rootCmd.AddCommand(terminalCmd(newClient))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
