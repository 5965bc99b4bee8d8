package main

import (
	"fmt"

	"github.com/agoradao/agora-node/tx"
	"github.com/agoradao/agora-node/types"
	"github.com/spf13/cobra"
)

type proposeArguments struct {
	Url    string
	Nonce  uint64
	Skey   string
	Title  string
	Desc   string
	Kind   string
	Target string
	Amount uint64
	NoSend bool
}

var proposeArgs proposeArguments

var proposeCmd = &cobra.Command{
	Use:   "propose",
	Short: "Create a treasury, parameter, member or text proposal",
	Long:  ``,
	Run:   proposeRun,
}

func init() {
	txFlags(proposeCmd, &proposeArgs.Url, &proposeArgs.Nonce, &proposeArgs.Skey, &proposeArgs.NoSend)
	proposeCmd.Flags().StringVarP(&proposeArgs.Title, "title", "", "", "proposal title")
	proposeCmd.Flags().StringVarP(&proposeArgs.Desc, "desc", "", "", "proposal description")
	proposeCmd.Flags().StringVarP(&proposeArgs.Kind, "kind", "k", "text", "proposal kind: treasury|parameter|member|text")
	proposeCmd.Flags().StringVarP(&proposeArgs.Target, "target", "t", "", "target address for treasury and member proposals")
	proposeCmd.Flags().Uint64VarP(&proposeArgs.Amount, "amount", "a", 0, "payout amount for treasury proposals")
}

func proposeRun(cmd *cobra.Command, args []string) {
	kind, err := types.ParseProposalType(proposeArgs.Kind)
	if err != nil {
		fmt.Printf("invalid proposal kind:%v\n", err)
		return
	}
	stx := &tx.ProposalTx{
		Title:       proposeArgs.Title,
		Description: proposeArgs.Desc,
		Kind:        uint64(kind),
		Target:      proposeArgs.Target,
		Amount:      proposeArgs.Amount,
	}
	signAndBroadcast(proposeArgs.Url, proposeArgs.Skey, tx.GovTxTypeProposal, stx, proposeArgs.Nonce, proposeArgs.NoSend)
}
