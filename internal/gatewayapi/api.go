// Package gatewayapi serializes access to the process wide dispatcher
// for the api server transports and the config watcher.
package gatewayapi

import (
	"sync"

	"github.com/bluzelle/blzgo/dispatcher"
	"github.com/bluzelle/blzgo/log"
	"github.com/bluzelle/blzgo/params"
)

var (
	wrapper   = dispatcher.NewWrapper(nil)
	wrapperMu sync.Mutex
)

// Init replaces the dispatcher, dropping any session
func Init(options *dispatcher.Options) {
	wrapperMu.Lock()
	defer wrapperMu.Unlock()
	wrapper = dispatcher.NewWrapper(options)
}

// SetOptions changes the connect defaults of the dispatcher
func SetOptions(options dispatcher.Options) {
	wrapperMu.Lock()
	defer wrapperMu.Unlock()
	wrapper.SetOptions(options)
}

// Connect replaces the session
func Connect(mnemonic, endpoint, uuid, chainID string) error {
	wrapperMu.Lock()
	defer wrapperMu.Unlock()
	return wrapper.Connect(mnemonic, endpoint, uuid, chainID)
}

// Request executes one request text
func Request(text string) (*string, error) {
	wrapperMu.Lock()
	defer wrapperMu.Unlock()
	res, err := wrapper.Request(text)
	if err != nil {
		log.Debug("[api] request failed", "err", err)
	}
	return res, err
}

// GetServerInfo api
func GetServerInfo() *ServerInfo {
	wrapperMu.Lock()
	defer wrapperMu.Unlock()
	info := &ServerInfo{Version: params.VersionWithMeta}
	if client := wrapper.Client(); client != nil {
		info.Connected = true
		info.Address = client.Address()
		info.UUID = client.UUID()
		info.ChainID = client.ChainID()
	}
	return info
}
