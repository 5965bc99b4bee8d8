package main

import (
	"github.com/agoradao/agora-node/tx"
	"github.com/spf13/cobra"
)

type joinArguments struct {
	Url    string
	Nonce  uint64
	Skey   string
	NoSend bool
}

var joinArgs joinArguments

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join the DAO as a member",
	Long:  ``,
	Run:   joinRun,
}

func init() {
	txFlags(joinCmd, &joinArgs.Url, &joinArgs.Nonce, &joinArgs.Skey, &joinArgs.NoSend)
}

func joinRun(cmd *cobra.Command, args []string) {
	signAndBroadcast(joinArgs.Url, joinArgs.Skey, tx.GovTxTypeJoin, &tx.JoinTx{}, joinArgs.Nonce, joinArgs.NoSend)
}
