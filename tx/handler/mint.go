package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/agoradao/agora-node/state"
	"github.com/agoradao/agora-node/tx"
	"github.com/agoradao/agora-node/types"
)

type MintTxHandler struct {
	logger cmtlog.Logger
}

func NewMintTxHandler(logger cmtlog.Logger) (h *MintTxHandler) {
	logger = logger.With("module", "mintTx")
	h = &MintTxHandler{
		logger: logger,
	}
	return
}

func (h *MintTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	mtx := btx.Tx.(*tx.MintTx)
	_, err1 := st.Mint(mtx, btx.PubKey, true)
	if err1 != nil {
		h.logger.Info("CheckTx MintTx fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *MintTxHandler) Deliver(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	mtx := btx.Tx.(*tx.MintTx)
	event, err := st.Mint(mtx, btx.PubKey, false)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventMint(event)}
	}
	return
}
