package main

import (
	"github.com/agoradao/agora-node/tx"
	"github.com/spf13/cobra"
)

type roleArguments struct {
	Url    string
	Nonce  uint64
	Skey   string
	To     string
	Role   string
	Revoke bool
	NoSend bool
}

var roleArgs roleArguments

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Grant or revoke a role on a member, admin only",
	Long:  ``,
	Run:   roleRun,
}

func init() {
	txFlags(roleCmd, &roleArgs.Url, &roleArgs.Nonce, &roleArgs.Skey, &roleArgs.NoSend)
	roleCmd.Flags().StringVarP(&roleArgs.To, "to", "t", "", "member address")
	roleCmd.Flags().StringVarP(&roleArgs.Role, "role", "r", "", "role name: admin|moderator|treasurer")
	roleCmd.Flags().BoolVarP(&roleArgs.Revoke, "revoke", "", false, "revoke the role instead of granting it")
}

func roleRun(cmd *cobra.Command, args []string) {
	stx := &tx.RoleTx{
		To:     roleArgs.To,
		Role:   roleArgs.Role,
		Active: !roleArgs.Revoke,
	}
	signAndBroadcast(roleArgs.Url, roleArgs.Skey, tx.GovTxTypeRole, stx, roleArgs.Nonce, roleArgs.NoSend)
}
