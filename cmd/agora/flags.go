package main

import "github.com/spf13/cobra"

const defaultKeyPath = "./config/priv_validator_key.json"

func urlFlag(cmd *cobra.Command, url *string) {
	cmd.Flags().StringVarP(url, "url", "u", "http://127.0.0.1:26657", "agora node rpc url")
}

func txFlags(cmd *cobra.Command, url *string, nonce *uint64, skey *string, noSend *bool) {
	urlFlag(cmd, url)
	cmd.Flags().Uint64VarP(nonce, "nonce", "n", 0, "account nonce, 0 queries it from the sender account")
	cmd.Flags().StringVarP(skey, "skeyPath", "s", defaultKeyPath, "private key path, .json for validator keys, hex file otherwise")
	cmd.Flags().BoolVarP(noSend, "nosend", "", false, "not send transaction but print signature")
}
