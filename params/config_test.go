package params

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluzelle/blzgo/bluzelle"
)

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "blzconfig")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	mnemonicFile := writeFile(t, dir, "mnemonic.txt", "word word\n")
	configFile := writeFile(t, dir, "config.toml", `
[Client]
Endpoint = "localhost:1317"
UUID = "my-uuid"
MnemonicFile = "`+filepath.ToSlash(mnemonicFile)+`"
Timeout = 5

[Client.Gas]
GasPrice = 10
MaxGas = 100000

[APIServer]
AllowedOrigins = ["*"]
MaxRequestsLimit = 20
`)
	config, err := LoadConfigFile(configFile)
	require.NoError(t, err)

	client := config.Client
	assert.Equal(t, "localhost:1317", client.Endpoint)
	assert.Equal(t, bluzelle.DefaultChainID, client.ChainID)
	assert.Equal(t, "my-uuid", client.UUID)
	assert.Equal(t, 5*time.Second, client.GetTimeout())
	assert.Equal(t, bluzelle.GasInfo{GasPrice: 10, MaxGas: 100000}, client.GetGasInfo())

	mnemonic, err := client.ReadMnemonic()
	require.NoError(t, err)
	assert.Equal(t, "word word", mnemonic)

	assert.Equal(t, defaultAPIPort, config.APIServer.Port)
	assert.Equal(t, []string{"*"}, config.APIServer.AllowedOrigins)
	assert.Equal(t, 20, config.APIServer.MaxRequestsLimit)

	again, err := LoadConfigFile(configFile)
	require.NoError(t, err)
	assert.True(t, client.Equal(again.Client))
	again.Client.Gas.GasPrice = 11
	assert.False(t, client.Equal(again.Client))
}

func TestRelativeMnemonicFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "blzconfig")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	writeFile(t, dir, "mnemonic.txt", "word\n")
	configFile := writeFile(t, dir, "config.toml", `
[Client]
MnemonicFile = "mnemonic.txt"
`)
	config, err := LoadConfigFile(configFile)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mnemonic.txt"), config.Client.MnemonicFile)
	mnemonic, err := config.Client.ReadMnemonic()
	require.NoError(t, err)
	assert.Equal(t, "word", mnemonic)
}

func TestDefaultConfig(t *testing.T) {
	config := &BluzelleConfig{}
	require.NoError(t, config.CheckConfig())
	assert.Equal(t, bluzelle.DefaultEndpoint, config.Client.Endpoint)
	assert.Equal(t, bluzelle.DefaultChainID, config.Client.ChainID)
	assert.Equal(t, 60*time.Second, config.Client.GetTimeout())
	assert.Equal(t, bluzelle.DefaultGasInfo, config.Client.GetGasInfo())
	mnemonic, err := config.Client.ReadMnemonic()
	require.NoError(t, err)
	assert.Equal(t, "", mnemonic)

	SetConfig(config)
	assert.Equal(t, defaultAPIPort, GetAPIPort())
	assert.Equal(t, config.Client, GetClientConfig())
	assert.Equal(t, config.APIServer, GetAPIServerConfig())
}

func TestCheckConfigErrors(t *testing.T) {
	tests := []*BluzelleConfig{
		{Client: &ClientConfig{MnemonicFile: "/not/exist/mnemonic"}},
		{Client: &ClientConfig{Gas: &GasConfig{}}},
		{APIServer: &APIServerConfig{Port: 70000}},
		{APIServer: &APIServerConfig{MaxRequestsLimit: -1}},
	}
	for i, config := range tests {
		assert.Error(t, config.CheckConfig(), "case %d", i)
	}

	dir, err := ioutil.TempDir("", "blzconfig")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	_, err = LoadConfigFile(writeFile(t, dir, "bad.toml", "[Client\n"))
	assert.Error(t, err)
}
