package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/agoradao/agora-node/state"
	"github.com/agoradao/agora-node/tx"
	"github.com/agoradao/agora-node/types"
)

type DepositTxHandler struct {
	logger cmtlog.Logger
}

func NewDepositTxHandler(logger cmtlog.Logger) (h *DepositTxHandler) {
	logger = logger.With("module", "depositTx")
	h = &DepositTxHandler{
		logger: logger,
	}
	return
}

func (h *DepositTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	dtx := btx.Tx.(*tx.DepositTx)
	_, err1 := st.Deposit(dtx, btx.PubKey, true)
	if err1 != nil {
		h.logger.Info("CheckTx DepositTx fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *DepositTxHandler) Deliver(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	dtx := btx.Tx.(*tx.DepositTx)
	event, err := st.Deposit(dtx, btx.PubKey, false)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventDeposit(event)}
	}
	return
}
