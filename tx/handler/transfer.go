package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/agoradao/agora-node/state"
	"github.com/agoradao/agora-node/tx"
	"github.com/agoradao/agora-node/types"
)

type TransferTxHandler struct {
	logger cmtlog.Logger
}

func NewTransferTxHandler(logger cmtlog.Logger) (h *TransferTxHandler) {
	logger = logger.With("module", "transferTx")
	h = &TransferTxHandler{
		logger: logger,
	}
	return
}

func (h *TransferTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	ttx := btx.Tx.(*tx.TransferTx)
	_, err1 := st.Transfer(ttx, btx.PubKey, true)
	if err1 != nil {
		h.logger.Info("CheckTx TransferTx fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *TransferTxHandler) Deliver(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	ttx := btx.Tx.(*tx.TransferTx)
	event, err := st.Transfer(ttx, btx.PubKey, false)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventTransfer(event)}
	}
	return
}
