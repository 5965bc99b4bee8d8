package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/agoradao/agora-node/state"
	"github.com/agoradao/agora-node/tx"
	"github.com/agoradao/agora-node/types"
)

type ExecuteTxHandler struct {
	logger cmtlog.Logger
}

func NewExecuteTxHandler(logger cmtlog.Logger) (h *ExecuteTxHandler) {
	logger = logger.With("module", "executeTx")
	h = &ExecuteTxHandler{
		logger: logger,
	}
	return
}

func (h *ExecuteTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	etx := btx.Tx.(*tx.ExecuteTx)
	_, err1 := st.Execute(etx, btx.PubKey, true)
	if err1 != nil {
		h.logger.Info("CheckTx ExecuteTx fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *ExecuteTxHandler) Deliver(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	etx := btx.Tx.(*tx.ExecuteTx)
	event, err := st.Execute(etx, btx.PubKey, false)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventExecute(event)}
	}
	return
}
