package main

import (
	"fmt"
	"os"
)

func main() {
	clCmd.AddCommand(initCmd)
	clCmd.AddCommand(versionCmd)
	clCmd.AddCommand(pubkeyCmd)
	clCmd.AddCommand(signCmd)
	clCmd.AddCommand(accountCmd)
	clCmd.AddCommand(daoCmd)
	clCmd.AddCommand(memberCmd)
	clCmd.AddCommand(proposalCmd)
	clCmd.AddCommand(treasuryCmd)
	clCmd.AddCommand(votesCmd)
	clCmd.AddCommand(initializeCmd)
	clCmd.AddCommand(joinCmd)
	clCmd.AddCommand(transferCmd)
	clCmd.AddCommand(mintCmd)
	clCmd.AddCommand(proposeCmd)
	clCmd.AddCommand(voteCmd)
	clCmd.AddCommand(finalizeCmd)
	clCmd.AddCommand(executeCmd)
	clCmd.AddCommand(depositCmd)
	clCmd.AddCommand(roleCmd)
	clCmd.AddCommand(pauseCmd)
	if err := clCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
