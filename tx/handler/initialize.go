package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/agoradao/agora-node/state"
	"github.com/agoradao/agora-node/tx"
	"github.com/agoradao/agora-node/types"
)

type InitializeTxHandler struct {
	logger cmtlog.Logger
}

func NewInitializeTxHandler(logger cmtlog.Logger) (h *InitializeTxHandler) {
	logger = logger.With("module", "initializeTx")
	h = &InitializeTxHandler{
		logger: logger,
	}
	return
}

func (h *InitializeTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	itx := btx.Tx.(*tx.InitializeTx)
	_, err1 := st.Initialize(itx, btx.PubKey, true)
	if err1 != nil {
		h.logger.Info("CheckTx InitializeTx fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *InitializeTxHandler) Deliver(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	itx := btx.Tx.(*tx.InitializeTx)
	event, err := st.Initialize(itx, btx.PubKey, false)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventInitialize(event)}
	}
	return
}
