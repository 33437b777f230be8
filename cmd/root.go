package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath = "./config/estimator.yaml"

	rootCmd = &cobra.Command{
		Use:   "userop-gas",
		Short: "ERC-4337 gas estimation CLI",
		Long: `CLI around the userop-gas library.

Estimate the preVerificationGas of a user operation against a live RPC,
including the data-availability surcharge on supported rollups.
`,
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "Path to config file")
}
