package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "ask",
	Short: "Talk to the product catalog assistant",
	Long: `Send typed or recorded questions to a running assistant service and
print the grounded answer together with the products it used.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://127.0.0.1:8080", "base URL of the assistant service")
	rootCmd.AddCommand(textCmd, audioCmd, lastCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
