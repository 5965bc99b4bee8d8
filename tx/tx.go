package tx

import (
	"encoding/json"
)

// GovTx is the signed envelope around every governance operation. Identity
// is the ed25519 pubkey; the sender address is derived from it. Sig[0]
// covers SigData with the chain id in the signature slot.
type GovTx struct {
	Version uint8     `json:"version"`
	Type    GovTxType `json:"type"`
	Nonce   uint64    `json:"nonce"`
	PubKey  []byte    `json:"pubkey"`
	Tx      any       `json:"tx"`
	Sig     [][]byte  `json:"sig"`
}

type InitializeTx struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Supply      uint64 `json:"supply"`
}

type JoinTx struct {
}

type TransferTx struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type MintTx struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type ProposalTx struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Kind        uint64 `json:"kind"`
	Target      string `json:"target,omitempty"`
	Amount      uint64 `json:"amount,omitempty"`
}

type VoteTx struct {
	Proposal uint64 `json:"proposal"`
	Support  bool   `json:"support"`
}

type FinalizeTx struct {
	Proposal uint64 `json:"proposal"`
}

type ExecuteTx struct {
	Proposal uint64 `json:"proposal"`
}

type DepositTx struct {
	Amount uint64 `json:"amount"`
}

type RoleTx struct {
	To     string `json:"to"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

type PauseTx struct {
	Paused bool `json:"paused"`
}

type govTxTmpl[Tx any] struct {
	Version uint8     `json:"version"`
	Type    GovTxType `json:"type"`
	Nonce   uint64    `json:"nonce"`
	PubKey  []byte    `json:"pubkey"`
	Tx      Tx        `json:"tx"`
	Sig     [][]byte  `json:"sig"`
}

func (tx *GovTx) SigData(ext []byte) (dat []byte, err error) {
	ntx := *tx
	ntx.Sig = [][]byte{ext}
	dat, err = json.Marshal(ntx)
	return
}

func parseGovTxType(dat []byte) GovTxType {
	var tx struct {
		Type GovTxType `json:"type"`
	}
	err := json.Unmarshal(dat, &tx)
	if err != nil {
		return GovTxTypeUnknown
	}
	return tx.Type
}

func unmarshalGovTx[Tx any](dat []byte) (btx *GovTx, err error) {
	var txt govTxTmpl[Tx]
	err = json.Unmarshal(dat, &txt)
	if err != nil {
		return
	}
	btx = new(GovTx)
	btx.Version = txt.Version
	btx.Type = txt.Type
	btx.Nonce = txt.Nonce
	btx.PubKey = txt.PubKey
	btx.Tx = &txt.Tx
	btx.Sig = txt.Sig
	return
}

func UnmarshalGovTx(dat []byte) (btx *GovTx, err error) {
	tp := parseGovTxType(dat)
	switch tp {
	case GovTxTypeInitialize:
		return unmarshalGovTx[InitializeTx](dat)
	case GovTxTypeJoin:
		return unmarshalGovTx[JoinTx](dat)
	case GovTxTypeTransfer:
		return unmarshalGovTx[TransferTx](dat)
	case GovTxTypeMint:
		return unmarshalGovTx[MintTx](dat)
	case GovTxTypeProposal:
		return unmarshalGovTx[ProposalTx](dat)
	case GovTxTypeVote:
		return unmarshalGovTx[VoteTx](dat)
	case GovTxTypeFinalize:
		return unmarshalGovTx[FinalizeTx](dat)
	case GovTxTypeExecute:
		return unmarshalGovTx[ExecuteTx](dat)
	case GovTxTypeDeposit:
		return unmarshalGovTx[DepositTx](dat)
	case GovTxTypeRole:
		return unmarshalGovTx[RoleTx](dat)
	case GovTxTypePause:
		return unmarshalGovTx[PauseTx](dat)
	default:
		err = ErrUnsupportedTxType
	}
	return
}

func MarshalGovTx(btx *GovTx) (dat []byte, err error) {
	return json.Marshal(btx)
}
