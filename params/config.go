package params

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bluzelle/blzgo/bluzelle"
	"github.com/bluzelle/blzgo/common"
	"github.com/bluzelle/blzgo/log"
)

const (
	defaultAPIPort = 11556
	defaultTimeout = 60
)

var (
	blzConfig         *BluzelleConfig
	configMutex       sync.RWMutex
	loadConfigStarter sync.Once
)

// BluzelleConfig config items (decode from toml file)
type BluzelleConfig struct {
	Client    *ClientConfig
	APIServer *APIServerConfig `toml:",omitempty" json:",omitempty"`
}

// ClientConfig client session config
type ClientConfig struct {
	Endpoint     string
	ChainID      string
	UUID         string     `toml:",omitempty" json:",omitempty"`
	MnemonicFile string     `toml:",omitempty" json:"-"`
	Timeout      uint64     // seconds
	Gas          *GasConfig `toml:",omitempty" json:",omitempty"`
}

// GasConfig default gas info
type GasConfig struct {
	GasPrice uint64
	MaxGas   uint64 `toml:",omitempty" json:",omitempty"`
	MaxFee   uint64 `toml:",omitempty" json:",omitempty"`
}

// APIServerConfig api service config
type APIServerConfig struct {
	Port             int
	AllowedOrigins   []string
	MaxRequestsLimit int
}

// GetGasInfo get default gas info
func (c *ClientConfig) GetGasInfo() bluzelle.GasInfo {
	if c.Gas == nil {
		return bluzelle.DefaultGasInfo
	}
	return bluzelle.GasInfo{
		GasPrice: c.Gas.GasPrice,
		MaxGas:   c.Gas.MaxGas,
		MaxFee:   c.Gas.MaxFee,
	}
}

// GetTimeout get connection timeout
func (c *ClientConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// ReadMnemonic read mnemonic from MnemonicFile, empty if not configed
func (c *ClientConfig) ReadMnemonic() (string, error) {
	if c.MnemonicFile == "" {
		return "", nil
	}
	return common.ReadSecretFile(c.MnemonicFile)
}

// Equal is same client config
func (c *ClientConfig) Equal(other *ClientConfig) bool {
	return reflect.DeepEqual(c, other)
}

// GetAPIPort get api service port
func GetAPIPort() int {
	apiPort := 0
	if apiServer := GetConfig().APIServer; apiServer != nil {
		apiPort = apiServer.Port
	}
	if apiPort == 0 {
		apiPort = defaultAPIPort
	}
	return apiPort
}

// GetConfig get config
func GetConfig() *BluzelleConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return blzConfig
}

// SetConfig set config
func SetConfig(config *BluzelleConfig) {
	configMutex.Lock()
	defer configMutex.Unlock()
	blzConfig = config
}

// GetClientConfig get client config
func GetClientConfig() *ClientConfig {
	return GetConfig().Client
}

// GetAPIServerConfig get api server config
func GetAPIServerConfig() *APIServerConfig {
	return GetConfig().APIServer
}

// LoadConfigFile decode and check config file, it does not change the current config
func LoadConfigFile(configFile string) (*BluzelleConfig, error) {
	config := &BluzelleConfig{}
	if _, err := toml.DecodeFile(configFile, &config); err != nil {
		return nil, err
	}
	// relative mnemonic file is relative to the config file
	if config.Client != nil && config.Client.MnemonicFile != "" {
		config.Client.MnemonicFile = common.AbsolutePath(filepath.Dir(configFile), config.Client.MnemonicFile)
	}
	if err := config.CheckConfig(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig load config
func LoadConfig(configFile string) *BluzelleConfig {
	loadConfigStarter.Do(func() {
		if configFile == "" {
			log.Fatalf("LoadConfig error: no config file specified")
		}
		log.Println("Config file is", configFile)
		if !common.FileExist(configFile) {
			log.Fatalf("LoadConfig error: config file %v not exist", configFile)
		}
		config, err := LoadConfigFile(configFile)
		if err != nil {
			log.Fatalf("LoadConfig error: %v", err)
		}
		SetConfig(config)
		var bs []byte
		if log.JSONFormat {
			bs, _ = json.Marshal(config)
		} else {
			bs, _ = json.MarshalIndent(config, "", "  ")
		}
		log.Println("LoadConfig finished.", string(bs))
		log.Info("Check config success", "configFile", configFile)
	})
	return GetConfig()
}
