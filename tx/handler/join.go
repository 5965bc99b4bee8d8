package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/agoradao/agora-node/state"
	"github.com/agoradao/agora-node/tx"
	"github.com/agoradao/agora-node/types"
)

type JoinTxHandler struct {
	logger cmtlog.Logger
}

func NewJoinTxHandler(logger cmtlog.Logger) (h *JoinTxHandler) {
	logger = logger.With("module", "joinTx")
	h = &JoinTxHandler{
		logger: logger,
	}
	return
}

func (h *JoinTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	_, err1 := st.Join(btx.PubKey, true)
	if err1 != nil {
		h.logger.Info("CheckTx JoinTx fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *JoinTxHandler) Deliver(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	event, err := st.Join(btx.PubKey, false)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventMember(event)}
	}
	return
}
