package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/agoradao/agora-node/state"
	"github.com/agoradao/agora-node/tx"
	"github.com/agoradao/agora-node/types"
)

type RoleTxHandler struct {
	logger cmtlog.Logger
}

func NewRoleTxHandler(logger cmtlog.Logger) (h *RoleTxHandler) {
	logger = logger.With("module", "roleTx")
	h = &RoleTxHandler{
		logger: logger,
	}
	return
}

func (h *RoleTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	rtx := btx.Tx.(*tx.RoleTx)
	_, err1 := st.GrantRole(rtx, btx.PubKey, true)
	if err1 != nil {
		h.logger.Info("CheckTx RoleTx fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *RoleTxHandler) Deliver(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	rtx := btx.Tx.(*tx.RoleTx)
	event, err := st.GrantRole(rtx, btx.PubKey, false)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventRole(event)}
	}
	return
}
