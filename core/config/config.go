// Package config loads the estimator CLI configuration. The library packages
// never read files themselves; everything they need arrives as arguments.
package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mitchellh/mapstructure"

	sdklogging "github.com/Layr-Labs/eigensdk-go/logging"
	sdkutils "github.com/Layr-Labs/eigensdk-go/utils"

	"github.com/AvaProtocol/userop-gas/pkg/erc4337/gas"
	"github.com/AvaProtocol/userop-gas/pkg/logger"
)

// DefaultEntrypointAddress is the canonical v0.7 entrypoint deployment.
const DefaultEntrypointAddress = "0x0000000071727De22E5E9d8BAf0edAc6f37da032"

type Config struct {
	EthRpcUrl         string
	EntrypointAddress common.Address
	Logger            logger.Logger
	Overheads         *gas.Overrides
}

// ConfigRaw is the yaml shape of the config file. The overheads section is a
// free-form map so partially specified overrides survive the round trip.
type ConfigRaw struct {
	Environment       sdklogging.LogLevel    `yaml:"environment"`
	EthRpcUrl         string                 `yaml:"eth_rpc_url"`
	EntrypointAddress string                 `yaml:"entrypoint_address"`
	Overheads         map[string]interface{} `yaml:"overheads"`
}

// NewConfig reads the yaml file at configFilePath and resolves defaults.
func NewConfig(configFilePath string) (*Config, error) {
	configRaw := ConfigRaw{Environment: sdklogging.Production}
	if configFilePath != "" {
		if err := sdkutils.ReadYamlConfig(configFilePath, &configRaw); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFilePath, err)
		}
	}

	lgr, err := sdklogging.NewZapLogger(configRaw.Environment)
	if err != nil {
		return nil, err
	}

	if configRaw.EthRpcUrl == "" {
		return nil, fmt.Errorf("eth_rpc_url is required")
	}

	entrypoint := DefaultEntrypointAddress
	if configRaw.EntrypointAddress != "" {
		entrypoint = configRaw.EntrypointAddress
	}
	if !common.IsHexAddress(entrypoint) {
		return nil, fmt.Errorf("invalid entrypoint_address %q", entrypoint)
	}

	var overrides *gas.Overrides
	if len(configRaw.Overheads) > 0 {
		overrides = &gas.Overrides{}
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           overrides,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(configRaw.Overheads); err != nil {
			return nil, fmt.Errorf("invalid overheads section: %w", err)
		}
	}

	return &Config{
		EthRpcUrl:         configRaw.EthRpcUrl,
		EntrypointAddress: common.HexToAddress(entrypoint),
		Logger:            lgr,
		Overheads:         overrides,
	}, nil
}
