package main

import (
	"github.com/agoradao/agora-node/tx"
	"github.com/spf13/cobra"
)

type transferArguments struct {
	Url    string
	Nonce  uint64
	Skey   string
	To     string
	Amount uint64
	NoSend bool
}

var transferArgs transferArguments

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer governance tokens to another account",
	Long:  ``,
	Run:   transferRun,
}

func init() {
	txFlags(transferCmd, &transferArgs.Url, &transferArgs.Nonce, &transferArgs.Skey, &transferArgs.NoSend)
	transferCmd.Flags().StringVarP(&transferArgs.To, "to", "t", "", "recipient address")
	transferCmd.Flags().Uint64VarP(&transferArgs.Amount, "amount", "a", 0, "amount to transfer")
}

func transferRun(cmd *cobra.Command, args []string) {
	stx := &tx.TransferTx{
		To:     transferArgs.To,
		Amount: transferArgs.Amount,
	}
	signAndBroadcast(transferArgs.Url, transferArgs.Skey, tx.GovTxTypeTransfer, stx, transferArgs.Nonce, transferArgs.NoSend)
}
