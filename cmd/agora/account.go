package main

import (
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/cometbft/cometbft/privval"
	"github.com/spf13/cobra"
)

const (
	DefaultPrivValKeyName   = "priv_validator_key.json"
	DefaultPrivValStateName = "priv_validator_state.json"
)

type accountArguments struct {
	Url     string
	Address string
	Index   uint64
}

var accountArgs accountArguments

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Query an account by address or index",
	Long:  ``,
	Run:   accountRun,
}

func init() {
	urlFlag(accountCmd, &accountArgs.Url)
	accountCmd.Flags().StringVarP(&accountArgs.Address, "address", "a", "", "account address")
	accountCmd.Flags().Uint64VarP(&accountArgs.Index, "index", "i", 0, "account index")
	showCmd.Flags().StringVarP(&showArgs.Home, "homedir", "d", "data", "home dir")
	accountCmd.AddCommand(showCmd)
}

func accountRun(cmd *cobra.Command, args []string) {
	info, err := queryAccount(accountArgs.Url, accountArgs.Index, accountArgs.Address)
	if err != nil {
		fmt.Printf("query account err:%v\n", err)
		return
	}
	act := info.Account
	fmt.Printf("index:%v nonce:%v coins:%v balance:%v pk:%v addr:%v\n",
		act.Index, act.Nonce, act.Coins, info.Balance, hex.EncodeToString(act.PubKey), hex.EncodeToString(act.Addr))
}

type showArguments struct {
	Home string
}

var showArgs showArguments

var showCmd = &cobra.Command{
	Use:   "pk",
	Short: "Print the validator pubkey of this node",
	Long:  ``,
	Run:   showRun,
}

func showRun(cmd *cobra.Command, args []string) {
	filePV := privval.LoadFilePV(
		filepath.Join(showArgs.Home, "config", DefaultPrivValKeyName),
		filepath.Join(showArgs.Home, "data", DefaultPrivValStateName),
	)
	pubKey, err := filePV.GetPubKey()
	if err != nil {
		fmt.Printf("get public key error %v", err)
		return
	}
	fmt.Printf("pk:%s\n", hex.EncodeToString(pubKey.Bytes()))
}
