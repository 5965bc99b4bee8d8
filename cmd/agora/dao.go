package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type daoArguments struct {
	Url string
}

var daoArgs daoArguments

var daoCmd = &cobra.Command{
	Use:   "dao",
	Short: "Query the DAO governance state",
	Long:  ``,
	Run:   daoRun,
}

func init() {
	urlFlag(daoCmd, &daoArgs.Url)
}

func daoRun(cmd *cobra.Command, args []string) {
	val, err := abciQuery(daoArgs.Url, "/dao/", nil)
	if err != nil {
		fmt.Printf("query dao err:%v\n", err)
		return
	}
	fmt.Println(string(val))
}

type memberArguments struct {
	Url     string
	Address string
	Index   uint64
}

var memberArgs memberArguments

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Query a member record by address or index",
	Long:  ``,
	Run:   memberRun,
}

func init() {
	urlFlag(memberCmd, &memberArgs.Url)
	memberCmd.Flags().StringVarP(&memberArgs.Address, "address", "a", "", "member address")
	memberCmd.Flags().Uint64VarP(&memberArgs.Index, "index", "i", 0, "member account index")
}

func memberRun(cmd *cobra.Command, args []string) {
	var dat []byte
	var err error
	if memberArgs.Address != "" {
		addr := strings.TrimPrefix(memberArgs.Address, "0x")
		dat, err = hex.DecodeString(addr)
		if err != nil {
			fmt.Printf("invalid address:%v\n", memberArgs.Address)
			return
		}
	} else {
		s := fmt.Sprintf("0%x", memberArgs.Index)
		if len(s)&1 == 1 {
			s = s[1:]
		}
		dat, _ = hex.DecodeString(s)
	}
	val, err := abciQuery(memberArgs.Url, "/members/", dat)
	if err != nil {
		fmt.Printf("query member err:%v\n", err)
		return
	}
	fmt.Println(string(val))
}

type proposalArguments struct {
	Url string
	Id  uint64
}

var proposalArgs proposalArguments

var proposalCmd = &cobra.Command{
	Use:   "proposal",
	Short: "Query a proposal by id",
	Long:  ``,
	Run:   proposalRun,
}

func init() {
	urlFlag(proposalCmd, &proposalArgs.Url)
	proposalCmd.Flags().Uint64VarP(&proposalArgs.Id, "id", "i", 0, "proposal id")
}

func proposalRun(cmd *cobra.Command, args []string) {
	val, err := abciQuery(proposalArgs.Url, "/proposals/", []byte(fmt.Sprintf("%d", proposalArgs.Id)))
	if err != nil {
		fmt.Printf("query proposal err:%v\n", err)
		return
	}
	fmt.Println(string(val))
}

type treasuryArguments struct {
	Url string
	Txn uint64
}

var treasuryArgs treasuryArguments

var treasuryCmd = &cobra.Command{
	Use:   "treasury",
	Short: "Query the treasury summary or a treasury transaction by id",
	Long:  ``,
	Run:   treasuryRun,
}

func init() {
	urlFlag(treasuryCmd, &treasuryArgs.Url)
	treasuryCmd.Flags().Uint64VarP(&treasuryArgs.Txn, "txn", "t", 0, "treasury transaction id, 0 returns the summary")
}

func treasuryRun(cmd *cobra.Command, args []string) {
	var dat []byte
	if treasuryArgs.Txn != 0 {
		dat = []byte(fmt.Sprintf("%d", treasuryArgs.Txn))
	}
	val, err := abciQuery(treasuryArgs.Url, "/treasury/", dat)
	if err != nil {
		fmt.Printf("query treasury err:%v\n", err)
		return
	}
	fmt.Println(string(val))
}

type votesArguments struct {
	Url      string
	Proposal uint64
	Voter    string
}

var votesArgs votesArguments

var votesCmd = &cobra.Command{
	Use:   "votes",
	Short: "Query a vote record by proposal id and voter",
	Long:  ``,
	Run:   votesRun,
}

func init() {
	urlFlag(votesCmd, &votesArgs.Url)
	votesCmd.Flags().Uint64VarP(&votesArgs.Proposal, "proposal", "p", 0, "proposal id")
	votesCmd.Flags().StringVarP(&votesArgs.Voter, "voter", "v", "", "voter index or hex address")
}

func votesRun(cmd *cobra.Command, args []string) {
	dat := []byte(fmt.Sprintf("%d:%s", votesArgs.Proposal, votesArgs.Voter))
	val, err := abciQuery(votesArgs.Url, "/votes/", dat)
	if err != nil {
		fmt.Printf("query vote err:%v\n", err)
		return
	}
	fmt.Println(string(val))
}
