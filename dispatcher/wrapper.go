// Package dispatcher executes textual {"method", "args"} requests against
// one bluzelle session.
package dispatcher

import (
	"time"

	"github.com/bluzelle/blzgo/bluzelle"
	"github.com/bluzelle/blzgo/log"
)

// Options are the session settings connect falls back to
type Options struct {
	Endpoint string
	UUID     string
	ChainID  string
	Timeout  time.Duration
	GasInfo  *bluzelle.GasInfo
}

// Wrapper holds at most one session.
// It is not safe for concurrent use, callers must serialize requests.
type Wrapper struct {
	options Options
	client  *bluzelle.Client
}

// NewWrapper creates a wrapper without session
func NewWrapper(options *Options) *Wrapper {
	w := &Wrapper{}
	if options != nil {
		w.options = *options
	}
	return w
}

// Connected has a session
func (w *Wrapper) Connected() bool {
	return w.client != nil
}

// Client returns the current session, nil if not connected
func (w *Wrapper) Client() *bluzelle.Client {
	return w.client
}

// SetOptions replaces the connect defaults and applies the gas info
// to the current session
func (w *Wrapper) SetOptions(options Options) {
	w.options = options
	if w.client != nil && options.GasInfo != nil {
		w.client.SetGasInfo(*options.GasInfo)
	}
}

// Connect replaces the session, on failure the current session is kept
func (w *Wrapper) Connect(mnemonic, endpoint, uuid, chainID string) error {
	if endpoint == "" {
		endpoint = w.options.Endpoint
	}
	if uuid == "" {
		uuid = w.options.UUID
	}
	if chainID == "" {
		chainID = w.options.ChainID
	}
	client, err := bluzelle.NewClient(&bluzelle.Config{
		Mnemonic: mnemonic,
		Endpoint: endpoint,
		UUID:     uuid,
		ChainID:  chainID,
		Timeout:  w.options.Timeout,
		GasInfo:  w.options.GasInfo,
	})
	if err != nil {
		log.Warn("connect failed", "endpoint", endpoint, "err", err)
		return err
	}
	w.client = client
	return nil
}

// Request decodes and executes one request, a nil result is json null
func (w *Wrapper) Request(text string) (*string, error) {
	c, err := resolve(text)
	if err != nil {
		return nil, err
	}
	// the session is checked before any argument is read
	if c.name != connectMethod && w.client == nil {
		return nil, &ProtocolError{Method: c.method, Err: ErrNotConnected}
	}
	req, err := c.request()
	if err != nil {
		return nil, err
	}
	return w.Execute(req)
}

// Execute runs a decoded request
func (w *Wrapper) Execute(req Request) (*string, error) {
	if connect, ok := req.(*ConnectRequest); ok {
		return nil, w.Connect(connect.Mnemonic, connect.Endpoint, connect.UUID, connect.ChainID)
	}
	if w.client == nil {
		return nil, &ProtocolError{Method: req.Method(), Err: ErrNotConnected}
	}
	log.Debug("execute request", "method", req.Method())
	return req.execute(w.client)
}
