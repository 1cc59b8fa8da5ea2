package params

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bluzelle/blzgo/bluzelle"
	"github.com/bluzelle/blzgo/common"
)

// CheckConfig check config and fill defaults
func (c *BluzelleConfig) CheckConfig() error {
	if c.Client == nil {
		c.Client = &ClientConfig{}
	}
	if err := c.Client.CheckConfig(); err != nil {
		return err
	}
	if c.APIServer == nil {
		c.APIServer = &APIServerConfig{}
	}
	return c.APIServer.CheckConfig()
}

// CheckConfig check client config
func (c *ClientConfig) CheckConfig() error {
	if c.Endpoint == "" {
		c.Endpoint = bluzelle.DefaultEndpoint
	}
	endpoint := c.Endpoint
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return fmt.Errorf("wrong 'Client.Endpoint' %v: %w", c.Endpoint, err)
	}
	if c.ChainID == "" {
		c.ChainID = bluzelle.DefaultChainID
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.MnemonicFile != "" && !common.FileExist(c.MnemonicFile) {
		return fmt.Errorf("'Client.MnemonicFile' %v not exist", c.MnemonicFile)
	}
	if c.Gas == nil {
		defaultGas := bluzelle.DefaultGasInfo
		c.Gas = &GasConfig{
			GasPrice: defaultGas.GasPrice,
			MaxGas:   defaultGas.MaxGas,
			MaxFee:   defaultGas.MaxFee,
		}
	}
	if c.Gas.GasPrice == 0 && c.Gas.MaxFee == 0 {
		return errors.New("'Client.Gas' must config non zero 'GasPrice' or 'MaxFee'")
	}
	return nil
}

// CheckConfig check api server config
func (c *APIServerConfig) CheckConfig() error {
	if c.Port == 0 {
		c.Port = defaultAPIPort
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("wrong 'APIServer.Port' %v", c.Port)
	}
	if c.MaxRequestsLimit < 0 {
		return fmt.Errorf("wrong 'APIServer.MaxRequestsLimit' %v", c.MaxRequestsLimit)
	}
	return nil
}
