package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/agoradao/agora-node/state"
	"github.com/agoradao/agora-node/tx"
	"github.com/agoradao/agora-node/types"
)

type PauseTxHandler struct {
	logger cmtlog.Logger
}

func NewPauseTxHandler(logger cmtlog.Logger) (h *PauseTxHandler) {
	logger = logger.With("module", "pauseTx")
	h = &PauseTxHandler{
		logger: logger,
	}
	return
}

func (h *PauseTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	ptx := btx.Tx.(*tx.PauseTx)
	_, err1 := st.SetPause(ptx, btx.PubKey, true)
	if err1 != nil {
		h.logger.Info("CheckTx PauseTx fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *PauseTxHandler) Deliver(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	ptx := btx.Tx.(*tx.PauseTx)
	event, err := st.SetPause(ptx, btx.PubKey, false)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventPause(event)}
	}
	return
}
