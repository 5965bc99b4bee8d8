package main

import (
	"github.com/agoradao/agora-node/tx"
	"github.com/spf13/cobra"
)

type depositArguments struct {
	Url    string
	Nonce  uint64
	Skey   string
	Amount uint64
	NoSend bool
}

var depositArgs depositArguments

var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Deposit tokens from your balance into the treasury",
	Long:  ``,
	Run:   depositRun,
}

func init() {
	txFlags(depositCmd, &depositArgs.Url, &depositArgs.Nonce, &depositArgs.Skey, &depositArgs.NoSend)
	depositCmd.Flags().Uint64VarP(&depositArgs.Amount, "amount", "a", 0, "amount to deposit")
}

func depositRun(cmd *cobra.Command, args []string) {
	stx := &tx.DepositTx{
		Amount: depositArgs.Amount,
	}
	signAndBroadcast(depositArgs.Url, depositArgs.Skey, tx.GovTxTypeDeposit, stx, depositArgs.Nonce, depositArgs.NoSend)
}
