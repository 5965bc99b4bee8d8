package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cometbft/cometbft/config"
	"github.com/cometbft/cometbft/crypto"
	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/cometbft/cometbft/p2p"
	"github.com/cometbft/cometbft/privval"
)

// AppConfig is the [app] section of config.toml: everything the DAO node
// adds on top of the comet config.
type AppConfig struct {
	Home string `mapstructure:"-"`

	// EnableIndexer starts the chain indexer and its HTTP API next to the node.
	EnableIndexer bool `mapstructure:"enable_indexer"`
	// APIAddr is the listen address of the indexer HTTP API.
	APIAddr string `mapstructure:"api_addr"`
	// MetricsAddr serves prometheus metrics. Empty disables the endpoint.
	MetricsAddr string `mapstructure:"metrics_addr"`
	// IndexerDB is the sqlite file backing the indexer, relative to home.
	IndexerDB string `mapstructure:"indexer_db"`
}

func DefaultAppConfig(home string) *AppConfig {
	return &AppConfig{
		Home:          home,
		EnableIndexer: true,
		APIAddr:       "127.0.0.1:8547",
		MetricsAddr:   "127.0.0.1:26670",
		IndexerDB:     "indexer.db",
	}
}

type Config struct {
	*config.Config `mapstructure:",squash"`

	App *AppConfig `mapstructure:"app"`
}

func DefaultConfig(home string) *Config {
	if len(home) == 0 {
		home = os.ExpandEnv("$HOME/.agora")
	}
	config := &Config{
		DefaultAgoraCometConfig(),
		DefaultAppConfig(home),
	}
	config.RootDir = home
	_ = os.MkdirAll(home+"/config", 0755)
	return config
}

// InitializeOwner generates the DAO owner key and returns its address. The
// owner identity is a plain ed25519 key, same as every tx sender.
func InitializeOwner(home string) (owner string) {
	priv := ed25519.GenPrivKey()
	key := hex.EncodeToString(priv.Bytes())

	err := os.WriteFile(home+"/config/owner_priv_key", []byte(key), 0644)
	if err != nil {
		fmt.Println("Error writing private key to file:", err)
		return
	}
	owner = priv.PubKey().Address().String()
	return
}

func InitializeNodeValidatorFiles(config *Config, privKey crypto.PrivKey) (nodeID string, pk crypto.PubKey, err error) {
	nodeKey, err := p2p.LoadOrGenNodeKey(config.NodeKeyFile())
	if err != nil {
		return "", nil, err
	}
	nodeID = string(nodeKey.ID())

	pvKeyFile := config.PrivValidatorKeyFile()
	if err := os.MkdirAll(filepath.Dir(pvKeyFile), 0o777); err != nil {
		return "", nil, fmt.Errorf("could not create directory %q: %w", filepath.Dir(pvKeyFile), err)
	}

	pvStateFile := config.PrivValidatorStateFile()
	if err := os.MkdirAll(filepath.Dir(pvStateFile), 0o777); err != nil {
		return "", nil, fmt.Errorf("could not create directory %q: %w", filepath.Dir(pvStateFile), err)
	}

	var filePV *privval.FilePV
	if privKey == nil {
		filePV = privval.LoadOrGenFilePV(pvKeyFile, pvStateFile)
	} else {
		filePV = privval.NewFilePV(privKey, pvKeyFile, pvStateFile)
		filePV.Save()
	}
	pukey, err := filePV.GetPubKey()
	if err != nil {
		return "", nil, err
	}

	return nodeID, pukey, nil
}

func DefaultAgoraCometConfig() *config.Config {
	cometConfig := config.DefaultConfig()
	cometConfig.Consensus.TimeoutPropose = time.Second * 10
	cometConfig.Consensus.TimeoutPrevote = time.Second * 1
	cometConfig.Consensus.TimeoutPrecommit = time.Second * 1
	cometConfig.Consensus.TimeoutCommit = time.Millisecond * 1200
	return cometConfig
}
