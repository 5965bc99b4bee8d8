package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

type signArguments struct {
	Skey string
	Data string
}

var signArgs signArguments

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign arbitrary data with a private key",
	Long:  ``,
	Run:   signRun,
}

func init() {
	signCmd.Flags().StringVarP(&signArgs.Skey, "skeyPath", "s", defaultKeyPath, "private key path")
	signCmd.Flags().StringVarP(&signArgs.Data, "data", "d", "", "data to sign")
}

func signRun(cmd *cobra.Command, args []string) {
	pv := loadKey(signArgs.Skey)
	sig, err := pv.Sign([]byte(signArgs.Data))
	if err != nil {
		fmt.Printf("sign err:%v\n", err)
		return
	}
	println("pubkey:", hex.EncodeToString(pv.PublicKey()))
	println("address:", pv.Address())
	println("signature base64:", base64.StdEncoding.EncodeToString(sig))
	println("signature:", hex.EncodeToString(sig))
}
