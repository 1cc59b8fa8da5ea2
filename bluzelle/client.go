// Package bluzelle is a client of the bluzelle key value database chain.
//
// Queries are answered directly by the gateway. Transactions are prepared by
// the gateway, signed locally with the account key and broadcast in block
// mode, so a successful call has been committed.
package bluzelle

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bluzelle/blzgo/keys"
	"github.com/bluzelle/blzgo/log"
	"github.com/bluzelle/blzgo/rpc/client"
)

// defaults
const (
	DefaultEndpoint = "http://localhost:1317"
	DefaultChainID  = "bluzelle"
)

// Connection sends requests to the REST gateway
type Connection interface {
	Get(path string) ([]byte, error)
	Post(path string, isDelete bool, body []byte) ([]byte, error)
}

// Signer holds the account key
type Signer interface {
	Address() string
	PubKey() []byte
	Sign(digest []byte) ([]byte, error)
}

// Config of a new client, empty fields take the defaults
type Config struct {
	Mnemonic string
	Endpoint string
	UUID     string
	ChainID  string
	Timeout  time.Duration
	GasInfo  *GasInfo
}

// Client is a session bound to one account and one uuid namespace
type Client struct {
	conn          Connection
	signer        Signer
	address       string
	uuid          string
	chainID       string
	accountNumber uint64
	gasInfo       GasInfo
}

// Connect derives the account from mnemonic and opens a session,
// empty endpoint, uuid and chainID take the defaults
func Connect(mnemonic, endpoint, uuid, chainID string) (*Client, error) {
	return NewClient(&Config{
		Mnemonic: mnemonic,
		Endpoint: endpoint,
		UUID:     uuid,
		ChainID:  chainID,
	})
}

// NewClient opens a session from config
func NewClient(config *Config) (*Client, error) {
	if config.Mnemonic == "" {
		return nil, invalidArgument("mnemonic is required")
	}
	keyPair, err := keys.NewKeyPairFromMnemonic(config.Mnemonic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	conn := client.NewConnection(endpoint, config.Timeout)
	c, err := ConnectWith(conn, keyPair, config.UUID, config.ChainID)
	if err != nil {
		return nil, err
	}
	if config.GasInfo != nil {
		c.SetGasInfo(*config.GasInfo)
	}
	return c, nil
}

// ConnectWith opens a session over the given collaborators.
// The account number is fetched once here.
func ConnectWith(conn Connection, signer Signer, uuid, chainID string) (*Client, error) {
	if chainID == "" {
		chainID = DefaultChainID
	}
	address := signer.Address()
	if uuid == "" {
		uuid = address
	}
	c := &Client{
		conn:    conn,
		signer:  signer,
		address: address,
		uuid:    uuid,
		chainID: chainID,
		gasInfo: DefaultGasInfo,
	}
	account, err := c.Account()
	if err != nil {
		return nil, err
	}
	c.accountNumber = uint64(account.AccountNumber)
	log.Info("bluzelle session connected", "address", address, "uuid", uuid, "chainID", chainID, "accountNumber", c.accountNumber)
	return c, nil
}

// Address of the session account
func (c *Client) Address() string { return c.address }

// UUID is the namespace all keys live in
func (c *Client) UUID() string { return c.uuid }

// ChainID of the session
func (c *Client) ChainID() string { return c.chainID }

// AccountNumber fetched at connect time
func (c *Client) AccountNumber() uint64 { return c.accountNumber }

// GasInfo returns the default gas info
func (c *Client) GasInfo() GasInfo { return c.gasInfo }

// SetGasInfo sets the gas info used when a call passes nil
func (c *Client) SetGasInfo(gasInfo GasInfo) {
	c.gasInfo = gasInfo
}

func (c *Client) gasInfoOrDefault(gasInfo *GasInfo) *GasInfo {
	if gasInfo == nil {
		defaultGas := c.gasInfo
		return &defaultGas
	}
	return gasInfo
}

// Version of the chain application
func (c *Client) Version() (string, error) {
	body, err := c.conn.Get("/node_info")
	if err != nil {
		return "", err
	}
	var resp nodeInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode node info: %w", err)
	}
	return resp.ApplicationVersion.Version, nil
}

// Account fetches the session account, its sequence is current
func (c *Client) Account() (*Account, error) {
	var result accountResult
	if err := c.query("/auth/accounts/"+c.address, &result); err != nil {
		return nil, err
	}
	return &result.Value, nil
}

func (c *Client) query(path string, result interface{}) error {
	body, err := c.conn.Get(path)
	if err != nil {
		return err
	}
	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode %v: %w", path, err)
	}
	if err := json.Unmarshal(resp.Result, result); err != nil {
		return fmt.Errorf("decode %v result: %w", path, err)
	}
	log.Trace("bluzelle query", "path", path, "height", resp.Height)
	return nil
}
