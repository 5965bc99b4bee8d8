package main

import (
	"github.com/agoradao/agora-node/tx"
	"github.com/spf13/cobra"
)

type voteArguments struct {
	Url      string
	Nonce    uint64
	Skey     string
	Proposal uint64
	Against  bool
	NoSend   bool
}

var voteArgs voteArguments

var voteCmd = &cobra.Command{
	Use:   "vote",
	Short: "Vote on an active proposal with your live balance as power",
	Long:  ``,
	Run:   voteRun,
}

func init() {
	txFlags(voteCmd, &voteArgs.Url, &voteArgs.Nonce, &voteArgs.Skey, &voteArgs.NoSend)
	voteCmd.Flags().Uint64VarP(&voteArgs.Proposal, "proposal", "p", 0, "proposal id")
	voteCmd.Flags().BoolVarP(&voteArgs.Against, "against", "", false, "vote against instead of for")
}

func voteRun(cmd *cobra.Command, args []string) {
	stx := &tx.VoteTx{
		Proposal: voteArgs.Proposal,
		Support:  !voteArgs.Against,
	}
	signAndBroadcast(voteArgs.Url, voteArgs.Skey, tx.GovTxTypeVote, stx, voteArgs.Nonce, voteArgs.NoSend)
}
