package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/agoradao/agora-node/app"
	"github.com/agoradao/agora-node/crypto"
	"github.com/agoradao/agora-node/tx"
	"github.com/cometbft/cometbft/rpc/client/http"
)

func loadKey(path string) *crypto.PV {
	if strings.HasSuffix(path, ".json") {
		return crypto.LoadFilePV(path)
	}
	return crypto.LoadHexPV(path)
}

// queryAccount fetches an account by hex address, or by packed index when
// address is empty.
func queryAccount(url string, index uint64, address string) (*app.AccountInfo, error) {
	cli, err := http.New(url, "/websocket")
	if err != nil {
		fmt.Printf("new client err:%v\n", err)
		return nil, err
	}
	ctx := context.Background()
	var dat []byte
	if len(address) > 0 {
		address = strings.TrimPrefix(address, "0x")
		dat, err = hex.DecodeString(address)
		if err != nil {
			fmt.Printf("invalid address:%v\n", address)
			return nil, err
		}
	} else {
		s := fmt.Sprintf("0%x", index)
		if len(s)&1 == 1 {
			s = s[1:]
		}
		dat, _ = hex.DecodeString(s)
	}
	res, err := cli.ABCIQuery(ctx, "/accounts/", dat)
	if err != nil {
		fmt.Printf("request err:%v\n", err)
		return nil, err
	}
	if res.Response.Code != 0 {
		return nil, errors.New(res.Response.Log)
	}
	var info app.AccountInfo
	err = json.Unmarshal(res.Response.Value, &info)
	if err != nil {
		return nil, err
	}
	return &info, err
}

func abciQuery(url string, path string, data []byte) ([]byte, error) {
	cli, err := http.New(url, "/websocket")
	if err != nil {
		fmt.Printf("new client err:%v\n", err)
		return nil, err
	}
	res, err := cli.ABCIQuery(context.Background(), path, data)
	if err != nil {
		fmt.Printf("request err:%v\n", err)
		return nil, err
	}
	if res.Response.Code != 0 {
		return nil, errors.New(res.Response.Log)
	}
	return res.Response.Value, nil
}

// signAndBroadcast wraps the payload in a GovTx envelope, signs it with the
// key at skeyPath and submits it over RPC. Nonce 0 means look it up from the
// sender's account first.
func signAndBroadcast(url string, skeyPath string, txType tx.GovTxType, payload any, nonce uint64, noSend bool) {
	cli, err := http.New(url, "/websocket")
	if err != nil {
		fmt.Printf("new client err:%v\n", err)
		return
	}
	ctx := context.Background()
	gres, err := cli.Genesis(ctx)
	if err != nil {
		fmt.Printf("get chain genesis err:%v\n", err)
		return
	}
	chainId := gres.Genesis.ChainID

	pv := loadKey(skeyPath)
	if nonce == 0 {
		info, err := queryAccount(url, 0, pv.Address())
		if err == nil && info.Account != nil {
			nonce = info.Account.Nonce
		}
	}

	btx := tx.GovTx{
		Version: tx.GovTxVersion1,
		Type:    txType,
		Nonce:   nonce,
		PubKey:  pv.PublicKey(),
		Tx:      payload,
	}
	dat, err := btx.SigData([]byte(chainId))
	if err != nil {
		fmt.Printf("tx sign data err:%v\n", err)
		return
	}
	sig, err := pv.Sign(dat)
	if err != nil {
		fmt.Printf("sign tx err:%v\n", err)
		return
	}
	println("pubkey:", hex.EncodeToString(pv.PublicKey()))
	println("address:", pv.Address())
	if noSend {
		fmt.Println("transaction signature:")
		fmt.Println(hex.EncodeToString(sig))
		return
	}
	btx.Sig = [][]byte{sig}
	dat, err = tx.MarshalGovTx(&btx)
	if err != nil {
		fmt.Printf("encode tx err:%v\n", err)
		return
	}
	res, err := cli.BroadcastTxSync(ctx, dat)
	if err != nil {
		fmt.Printf("broadcast tx err:%v\n", err)
		return
	}
	out, _ := json.Marshal(res)
	fmt.Printf("%v\n", string(out))
}
