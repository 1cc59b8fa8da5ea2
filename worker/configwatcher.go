package worker

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/bluzelle/blzgo/cmd/utils"
	"github.com/bluzelle/blzgo/dispatcher"
	"github.com/bluzelle/blzgo/internal/gatewayapi"
	"github.com/bluzelle/blzgo/log"
	"github.com/bluzelle/blzgo/params"
)

// ClientOptions converts client config to dispatcher options
func ClientOptions(c *params.ClientConfig) dispatcher.Options {
	gasInfo := c.GetGasInfo()
	return dispatcher.Options{
		Endpoint: c.Endpoint,
		UUID:     c.UUID,
		ChainID:  c.ChainID,
		Timeout:  c.GetTimeout(),
		GasInfo:  &gasInfo,
	}
}

// ApplyClientConfig sets the dispatcher options and connects
// if a mnemonic file is configed
func ApplyClientConfig(c *params.ClientConfig) error {
	gatewayapi.SetOptions(ClientOptions(c))
	mnemonic, err := c.ReadMnemonic()
	if err != nil {
		return err
	}
	if mnemonic == "" {
		return nil
	}
	err = gatewayapi.Connect(mnemonic, "", "", "")
	if err != nil {
		return err
	}
	log.Info("session connected", "endpoint", c.Endpoint, "chainID", c.ChainID)
	return nil
}

// WatchConfigFile reload the client session when config file changed
func WatchConfigFile(configFile string) {
	absPath, err := filepath.Abs(configFile)
	if err != nil {
		log.Error("get config file path failed", "configFile", configFile, "err", err)
		return
	}

	watch, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("fsnotify.NewWatcher failed", "err", err)
		return
	}

	// watch the dir, editors replace the file on save
	err = watch.Add(filepath.Dir(absPath))
	if err != nil {
		log.Error("watch.Add config dir failed", "err", err)
		_ = watch.Close()
		return
	}

	utils.TopWaitGroup.Add(1)
	go startWatcher(watch, absPath)
}

func startWatcher(watch *fsnotify.Watcher, configFile string) {
	log.Info("start fsnotify watch", "configFile", configFile)
	defer func() {
		log.Info("stop fsnotify watch")
		_ = watch.Close()
		utils.TopWaitGroup.Done()
	}()

	ops := []fsnotify.Op{
		fsnotify.Create,
		fsnotify.Write,
	}

	for {
		select {
		case <-utils.CleanupChan:
			return
		case ev, ok := <-watch.Events:
			if !ok {
				return
			}
			if ev.Name != configFile {
				continue
			}
			log.Trace("fsnotify watch event", "event", ev)
			for _, op := range ops {
				if ev.Op&op == op {
					err := reloadConfig(ev.Name)
					if err != nil {
						log.Warn("reload config error", "configFile", ev.Name, "err", err)
					}
					break
				}
			}
		case werr, ok := <-watch.Errors:
			if !ok {
				return
			}
			log.Warn("fsnotify watch error", "err", werr)
		}
	}
}

func reloadConfig(fileName string) error {
	fileStat, _ := os.Stat(fileName)
	// ignore if file is not exist, or is directory, or is empty file
	if fileStat == nil || fileStat.IsDir() || fileStat.Size() == 0 {
		return nil
	}
	config, err := params.LoadConfigFile(fileName)
	if err != nil {
		return err
	}
	current := params.GetConfig()
	if current != nil && current.Client.Equal(config.Client) {
		log.Debug("client config not changed", "configFile", fileName)
		return nil
	}
	// api server settings only apply on restart
	if current != nil {
		config.APIServer = current.APIServer
	}
	if err = ApplyClientConfig(config.Client); err != nil {
		return err
	}
	params.SetConfig(config)
	log.Info("reload config success", "configFile", fileName)
	return nil
}
