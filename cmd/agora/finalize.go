package main

import (
	"github.com/agoradao/agora-node/tx"
	"github.com/spf13/cobra"
)

type finalizeArguments struct {
	Url      string
	Nonce    uint64
	Skey     string
	Proposal uint64
	NoSend   bool
}

var finalizeArgs finalizeArguments

var finalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Finalize a proposal whose voting period ended",
	Long:  ``,
	Run:   finalizeRun,
}

func init() {
	txFlags(finalizeCmd, &finalizeArgs.Url, &finalizeArgs.Nonce, &finalizeArgs.Skey, &finalizeArgs.NoSend)
	finalizeCmd.Flags().Uint64VarP(&finalizeArgs.Proposal, "proposal", "p", 0, "proposal id")
}

func finalizeRun(cmd *cobra.Command, args []string) {
	stx := &tx.FinalizeTx{
		Proposal: finalizeArgs.Proposal,
	}
	signAndBroadcast(finalizeArgs.Url, finalizeArgs.Skey, tx.GovTxTypeFinalize, stx, finalizeArgs.Nonce, finalizeArgs.NoSend)
}
