package main

import (
	"github.com/urfave/cli/v2"

	"github.com/bluzelle/blzgo/cmd/utils"
	"github.com/bluzelle/blzgo/dispatcher"
	"github.com/bluzelle/blzgo/params"
)

func loadClientConfig(ctx *cli.Context) (*params.ClientConfig, error) {
	config := &params.ClientConfig{}
	if configFile := utils.GetConfigFilePath(ctx); configFile != "" {
		blzConfig, err := params.LoadConfigFile(configFile)
		if err != nil {
			return nil, err
		}
		config = blzConfig.Client
	}
	if endpoint := ctx.String(utils.EndpointFlag.Name); endpoint != "" {
		config.Endpoint = endpoint
	}
	if chainID := ctx.String(utils.ChainIDFlag.Name); chainID != "" {
		config.ChainID = chainID
	}
	if uuid := ctx.String(utils.UUIDFlag.Name); uuid != "" {
		config.UUID = uuid
	}
	if mnemonicFile := ctx.String(utils.MnemonicFileFlag.Name); mnemonicFile != "" {
		config.MnemonicFile = mnemonicFile
	}
	if err := config.CheckConfig(); err != nil {
		return nil, err
	}
	return config, nil
}

// newWrapper creates the dispatcher, connected when a mnemonic file is configed
func newWrapper(ctx *cli.Context) (*dispatcher.Wrapper, error) {
	config, err := loadClientConfig(ctx)
	if err != nil {
		return nil, err
	}
	gasInfo := config.GetGasInfo()
	wrapper := dispatcher.NewWrapper(&dispatcher.Options{
		Endpoint: config.Endpoint,
		UUID:     config.UUID,
		ChainID:  config.ChainID,
		Timeout:  config.GetTimeout(),
		GasInfo:  &gasInfo,
	})
	mnemonic, err := config.ReadMnemonic()
	if err != nil {
		return nil, err
	}
	if mnemonic != "" {
		if err = wrapper.Connect(mnemonic, "", "", ""); err != nil {
			return nil, err
		}
	}
	return wrapper, nil
}
