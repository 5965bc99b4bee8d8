package main

import (
	"encoding/hex"

	"github.com/spf13/cobra"
)

type pubkeyArguments struct {
	Skey string
}

var pubkeyArgs pubkeyArguments

var pubkeyCmd = &cobra.Command{
	Use:   "pubkey",
	Short: "Print the pubkey and address of a private key",
	Long:  ``,
	Run:   pubkeyRun,
}

func init() {
	pubkeyCmd.Flags().StringVarP(&pubkeyArgs.Skey, "skeyPath", "s", defaultKeyPath, "private key path")
}

func pubkeyRun(cmd *cobra.Command, args []string) {
	pv := loadKey(pubkeyArgs.Skey)
	println("pubkey:", hex.EncodeToString(pv.PublicKey()))
	println("address:", pv.Address())
}
