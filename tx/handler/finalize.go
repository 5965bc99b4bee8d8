package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/agoradao/agora-node/state"
	"github.com/agoradao/agora-node/tx"
	"github.com/agoradao/agora-node/types"
)

type FinalizeTxHandler struct {
	logger cmtlog.Logger
}

func NewFinalizeTxHandler(logger cmtlog.Logger) (h *FinalizeTxHandler) {
	logger = logger.With("module", "finalizeTx")
	h = &FinalizeTxHandler{
		logger: logger,
	}
	return
}

func (h *FinalizeTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	ftx := btx.Tx.(*tx.FinalizeTx)
	_, err1 := st.Finalize(ftx, btx.PubKey, true)
	if err1 != nil {
		h.logger.Info("CheckTx FinalizeTx fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *FinalizeTxHandler) Deliver(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	ftx := btx.Tx.(*tx.FinalizeTx)
	event, err := st.Finalize(ftx, btx.PubKey, false)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventFinalize(event)}
	}
	return
}
