package main

import (
	"github.com/agoradao/agora-node/tx"
	"github.com/spf13/cobra"
)

type mintArguments struct {
	Url    string
	Nonce  uint64
	Skey   string
	To     string
	Amount uint64
	NoSend bool
}

var mintArgs mintArguments

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint new tokens to an account, owner only",
	Long:  ``,
	Run:   mintRun,
}

func init() {
	txFlags(mintCmd, &mintArgs.Url, &mintArgs.Nonce, &mintArgs.Skey, &mintArgs.NoSend)
	mintCmd.Flags().StringVarP(&mintArgs.To, "to", "t", "", "recipient address")
	mintCmd.Flags().Uint64VarP(&mintArgs.Amount, "amount", "a", 0, "amount to mint")
}

func mintRun(cmd *cobra.Command, args []string) {
	stx := &tx.MintTx{
		To:     mintArgs.To,
		Amount: mintArgs.Amount,
	}
	signAndBroadcast(mintArgs.Url, mintArgs.Skey, tx.GovTxTypeMint, stx, mintArgs.Nonce, mintArgs.NoSend)
}
