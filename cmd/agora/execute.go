package main

import (
	"github.com/agoradao/agora-node/tx"
	"github.com/spf13/cobra"
)

type executeArguments struct {
	Url      string
	Nonce    uint64
	Skey     string
	Proposal uint64
	NoSend   bool
}

var executeArgs executeArguments

var executeCmd = &cobra.Command{
	Use:   "execute",
	Short: "Execute a passed proposal after its execution delay",
	Long:  ``,
	Run:   executeRun,
}

func init() {
	txFlags(executeCmd, &executeArgs.Url, &executeArgs.Nonce, &executeArgs.Skey, &executeArgs.NoSend)
	executeCmd.Flags().Uint64VarP(&executeArgs.Proposal, "proposal", "p", 0, "proposal id")
}

func executeRun(cmd *cobra.Command, args []string) {
	stx := &tx.ExecuteTx{
		Proposal: executeArgs.Proposal,
	}
	signAndBroadcast(executeArgs.Url, executeArgs.Skey, tx.GovTxTypeExecute, stx, executeArgs.Nonce, executeArgs.NoSend)
}
