package main

import (
	"github.com/agoradao/agora-node/tx"
	"github.com/spf13/cobra"
)

type pauseArguments struct {
	Url    string
	Nonce  uint64
	Skey   string
	Resume bool
	NoSend bool
}

var pauseArgs pauseArguments

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause or resume governance activity, admin only",
	Long:  ``,
	Run:   pauseRun,
}

func init() {
	txFlags(pauseCmd, &pauseArgs.Url, &pauseArgs.Nonce, &pauseArgs.Skey, &pauseArgs.NoSend)
	pauseCmd.Flags().BoolVarP(&pauseArgs.Resume, "resume", "", false, "lift the pause instead of setting it")
}

func pauseRun(cmd *cobra.Command, args []string) {
	stx := &tx.PauseTx{
		Paused: !pauseArgs.Resume,
	}
	signAndBroadcast(pauseArgs.Url, pauseArgs.Skey, tx.GovTxTypePause, stx, pauseArgs.Nonce, pauseArgs.NoSend)
}
