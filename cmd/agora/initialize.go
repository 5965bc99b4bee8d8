package main

import (
	"github.com/agoradao/agora-node/tx"
	"github.com/spf13/cobra"
)

type initializeArguments struct {
	Url    string
	Nonce  uint64
	Skey   string
	Name   string
	Desc   string
	Supply uint64
	NoSend bool
}

var initializeArgs initializeArguments

var initializeCmd = &cobra.Command{
	Use:   "initialize",
	Short: "Initialize the DAO with a name and token supply, owner only",
	Long:  ``,
	Run:   initializeRun,
}

func init() {
	txFlags(initializeCmd, &initializeArgs.Url, &initializeArgs.Nonce, &initializeArgs.Skey, &initializeArgs.NoSend)
	initializeCmd.Flags().StringVarP(&initializeArgs.Name, "name", "", "", "DAO name")
	initializeCmd.Flags().StringVarP(&initializeArgs.Desc, "desc", "", "", "DAO description")
	initializeCmd.Flags().Uint64VarP(&initializeArgs.Supply, "supply", "", 0, "initial token supply credited to the owner")
}

func initializeRun(cmd *cobra.Command, args []string) {
	stx := &tx.InitializeTx{
		Name:        initializeArgs.Name,
		Description: initializeArgs.Desc,
		Supply:      initializeArgs.Supply,
	}
	signAndBroadcast(initializeArgs.Url, initializeArgs.Skey, tx.GovTxTypeInitialize, stx, initializeArgs.Nonce, initializeArgs.NoSend)
}
