package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	app_config "github.com/agoradao/agora-node/config"
	"github.com/agoradao/agora-node/types"
	cmtos "github.com/cometbft/cometbft/libs/os"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/spf13/cobra"
)

type printInfo struct {
	Moniker    string          `json:"moniker" yaml:"moniker"`
	ChainID    string          `json:"chain_id" yaml:"chain_id"`
	NodeID     string          `json:"node_id" yaml:"node_id"`
	Owner      string          `json:"owner" yaml:"owner"`
	AppMessage json.RawMessage `json:"app_message" yaml:"app_message"`
}

func newPrintInfo(moniker, chainID, nodeID, owner string, appMessage json.RawMessage) printInfo {
	return printInfo{
		Moniker:    moniker,
		ChainID:    chainID,
		NodeID:     nodeID,
		Owner:      owner,
		AppMessage: appMessage,
	}
}

func displayInfo(info printInfo) error {
	out, err := json.MarshalIndent(info, "", " ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(os.Stderr, "%s\n", out)

	return err
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize private validator, p2p, genesis, and application configuration files",
	Long:  `Initialize validator's and node's configuration files plus the DAO owner key.`,
	Args:  cobra.ExactArgs(0),
	RunE:  initRun,
}

func init() {
	initCmd.Flags().BoolP(types.FlagOverwrite, "o", false, "overwrite the genesis.json file")
	initCmd.Flags().String(types.FlagChainID, "", "genesis file chain-id, if left blank will be randomly created")
	initCmd.Flags().String(types.FlagHome, "", "node home directory")
}

func initRun(cmd *cobra.Command, args []string) error {
	home, _ := cmd.Flags().GetString(types.FlagHome)
	chainID, _ := cmd.Flags().GetString(types.FlagChainID)
	overwrite, _ := cmd.Flags().GetBool(types.FlagOverwrite)

	if chainID == "" {
		chainID = fmt.Sprintf("agora-chain-%v", rand.Uint64())
	}
	appConfig := app_config.DefaultConfig(home)

	genFile := appConfig.GenesisFile()
	if cmtos.FileExists(genFile) && !overwrite {
		return fmt.Errorf("genesis file already exists: %v", genFile)
	}

	nodeID, pk, err := app_config.InitializeNodeValidatorFiles(appConfig, nil)
	if err != nil {
		return err
	}
	vals := []types.GenesisValidator{{Address: pk.Address(), PubKey: pk, Power: types.DefaultPower}}

	owner := app_config.InitializeOwner(appConfig.RootDir)
	appState, err := json.Marshal(types.AppState{
		Owner:  types.GenesisAccount{Address: owner},
		Params: types.DefaultGovParams(),
	})
	if err != nil {
		return err
	}

	appGenesis := &types.GenesisDoc{
		GenesisTime:     time.Now(),
		ChainID:         chainID,
		ConsensusParams: cmttypes.DefaultConsensusParams(),
		InitialHeight:   1,
		Validators:      vals,
		AppState:        appState,
	}
	if err = types.ExportGenesisFile(appGenesis, genFile); err != nil {
		return fmt.Errorf("failed to export genesis file %v", err)
	}
	app_config.WriteConfigFile(filepath.Join(appConfig.RootDir, "config", "config.toml"), appConfig)
	toPrint := newPrintInfo(appConfig.Moniker, chainID, nodeID, owner, appGenesis.AppState)
	return displayInfo(toPrint)
}
