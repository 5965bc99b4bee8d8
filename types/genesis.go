package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cometbft/cometbft/crypto"
	cmtjson "github.com/cometbft/cometbft/libs/json"
	cmttypes "github.com/cometbft/cometbft/types"
)

type GenesisValidator struct {
	Address crypto.Address `json:"address"`
	PubKey  crypto.PubKey  `json:"pub_key"`
	Power   int64          `json:"power"`
	Name    string         `json:"name"`
}

// GenesisDoc defines the initial conditions for the chain: the validator set
// plus the governance app state (owner, params, native allocations).
type GenesisDoc struct {
	GenesisTime     time.Time                 `json:"genesis_time"`
	ChainID         string                    `json:"chain_id"`
	InitialHeight   int64                     `json:"initial_height"`
	ConsensusParams *cmttypes.ConsensusParams `json:"consensus_params,omitempty"`
	Validators      []GenesisValidator        `json:"validators"`
	AppHash         []byte                    `json:"app_hash"`
	AppState        json.RawMessage           `json:"app_state"`
}

// GenesisAccount allocates native coin to an address at genesis. PubKey is
// optional hex; accounts without it bind a key on their first signed tx.
type GenesisAccount struct {
	Address string `json:"address"`
	PubKey  string `json:"pub_key,omitempty"`
	Coins   uint64 `json:"coins"`
}

// AppState is the agora side of the genesis doc. Owner is the only identity
// allowed to run initialize, and the params are fixed from here on.
type AppState struct {
	Owner       GenesisAccount   `json:"owner"`
	Params      GovParams        `json:"params"`
	Allocations []GenesisAccount `json:"allocations,omitempty"`
}

func (as *AppState) Validate() error {
	if as.Owner.Address == "" {
		return errors.New("app state must name an owner address")
	}
	return as.Params.Validate()
}

func ParseAppState(raw json.RawMessage) (*AppState, error) {
	as := &AppState{}
	if err := json.Unmarshal(raw, as); err != nil {
		return nil, err
	}
	if err := as.Validate(); err != nil {
		return nil, err
	}
	return as, nil
}

// SaveAs is a utility method for saving GenensisDoc as a JSON file.
func (genDoc *GenesisDoc) SaveAs(file string) error {
	genDocBytes, err := cmtjson.MarshalIndent(genDoc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, genDocBytes, 0o600)
}

func (ag *GenesisDoc) ValidateAndComplete() error {
	if ag.ChainID == "" {
		return errors.New("genesis doc must include non-empty chain_id")
	}

	if ag.InitialHeight < 0 {
		return fmt.Errorf("initial_height cannot be negative (got %v)", ag.InitialHeight)
	}

	if ag.InitialHeight == 0 {
		ag.InitialHeight = 1
	}

	if ag.GenesisTime.IsZero() {
		ag.GenesisTime = time.Now().Round(0).UTC()
	}

	if len(ag.AppState) > 0 {
		if _, err := ParseAppState(ag.AppState); err != nil {
			return fmt.Errorf("invalid app_state: %w", err)
		}
	}

	return nil
}

func ExportGenesisFile(genesis *GenesisDoc, genFile string) error {
	if err := genesis.ValidateAndComplete(); err != nil {
		return err
	}
	return genesis.SaveAs(genFile)
}

const AgoraModuleName = "agora"
const DefaultPower = 1000

const (
	FlagHome      = "home"
	FlagChainID   = "chain-id"
	FlagOverwrite = "overwrite"
)
