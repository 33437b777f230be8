package cmd

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"

	"github.com/AvaProtocol/userop-gas/core/config"
	"github.com/AvaProtocol/userop-gas/pkg/erc4337/gas"
	"github.com/AvaProtocol/userop-gas/pkg/erc4337/userop"
)

var (
	userOpPath  string
	chainIDFlag int64
	estimateCmd = &cobra.Command{
		Use:   "estimate",
		Short: "estimate preVerificationGas for a user operation",
		Long: `Read a user operation from a JSON file and print its estimated
preVerificationGas. The chain id is taken from the RPC endpoint unless
--chain-id overrides it.`,
		RunE: runEstimate,
	}
)

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(userOpPath)
	if err != nil {
		return fmt.Errorf("failed to read user operation file: %w", err)
	}
	op, err := userop.FromJSON(data)
	if err != nil {
		return err
	}

	client, err := ethclient.Dial(cfg.EthRpcUrl)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", cfg.EthRpcUrl, err)
	}
	defer client.Close()

	ctx := context.Background()
	var chainID *big.Int
	if chainIDFlag > 0 {
		chainID = big.NewInt(chainIDFlag)
	} else {
		chainID, err = client.ChainID(ctx)
		if err != nil {
			return fmt.Errorf("failed to get chain ID: %w", err)
		}
	}

	estimator := gas.NewEstimator(client, cfg.Logger)
	pvg, err := estimator.PreVerificationGas(ctx, chainID, op, cfg.EntrypointAddress, cfg.Overheads)
	if err != nil {
		return err
	}

	cfg.Logger.Info("estimation complete", "chainID", chainID.String(), "preVerificationGas", pvg.String())
	fmt.Println(pvg.String())
	return nil
}

func init() {
	estimateCmd.Flags().StringVarP(&userOpPath, "userop", "u", "", "Path to user operation JSON file")
	estimateCmd.Flags().Int64Var(&chainIDFlag, "chain-id", 0, "Override the chain id instead of querying the RPC")
	if err := estimateCmd.MarkFlagRequired("userop"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(estimateCmd)
}
