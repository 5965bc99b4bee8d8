package state

import (
	"encoding/json"

	cmtcrypto "github.com/cometbft/cometbft/crypto"
	"github.com/cometbft/cometbft/crypto/ed25519"
)

// Account is the base ledger record for any address the chain has seen.
// PubKey stays empty until the address sends its first signed tx; Coins is
// the native balance used for deposits and treasury payouts.
type Account struct {
	Index  uint64
	Addr   []byte
	PubKey []byte
	Nonce  uint64
	Coins  uint64
}

type accountSt struct {
	Index   uint64         `json:"index"`
	Address string         `json:"address"`
	PubKey  ed25519.PubKey `json:"pubKey,omitempty"`
	Nonce   uint64         `json:"nonce"`
	Coins   uint64         `json:"coins"`
}

func (a *Account) MarshalJSON() (dat []byte, err error) {
	o := accountSt{
		Index:   a.Index,
		Address: a.Address(),
		PubKey:  a.PubKey,
		Nonce:   a.Nonce,
		Coins:   a.Coins,
	}
	return json.Marshal(o)
}

func (a *Account) UnmarshalJSON(dat []byte) (err error) {
	var o accountSt
	err = json.Unmarshal(dat, &o)
	if err != nil {
		return
	}
	a.Index = o.Index
	a.Addr, err = ParseAddress(o.Address)
	if err != nil {
		return
	}
	a.PubKey = o.PubKey
	a.Nonce = o.Nonce
	a.Coins = o.Coins
	return
}

func NewAccount(addr, pubkey []byte) *Account {
	a := &Account{
		Addr: make([]byte, len(addr)),
	}
	copy(a.Addr, addr)
	if len(pubkey) > 0 {
		a.SetPubKey(pubkey)
	}
	return a
}

func AddressOfPubKey(pubkey []byte) []byte {
	return ed25519.PubKey(pubkey).Address()[:]
}

func (a *Account) Clone() *Account {
	n := &Account{
		Index: a.Index,
		Nonce: a.Nonce,
		Coins: a.Coins,
	}
	n.Addr = make([]byte, len(a.Addr))
	copy(n.Addr, a.Addr)
	if a.PubKey != nil {
		n.PubKey = make([]byte, len(a.PubKey))
		copy(n.PubKey, a.PubKey)
	}
	return n
}

func (a *Account) SetPubKey(pkey []byte) {
	if a.PubKey == nil {
		a.PubKey = make([]byte, len(pkey))
	}
	copy(a.PubKey, pkey)
}

func (a *Account) AddrBytes() []byte {
	return a.Addr
}

func (a *Account) Address() string {
	return cmtcrypto.Address(a.Addr).String()
}

func (a *Account) Verify(msg []byte, sigs [][]byte) (succ bool) {
	if len(sigs) != 1 || len(a.PubKey) != ed25519.PubKeySize {
		return false
	}
	pk := ed25519.PubKey(a.PubKey[:])
	return pk.VerifySignature(msg, sigs[0])
}
