package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/agoradao/agora-node/state"
	"github.com/agoradao/agora-node/tx"
	"github.com/agoradao/agora-node/types"
)

type VoteTxHandler struct {
	logger cmtlog.Logger
}

func NewVoteTxHandler(logger cmtlog.Logger) (h *VoteTxHandler) {
	logger = logger.With("module", "voteTx")
	h = &VoteTxHandler{
		logger: logger,
	}
	return
}

func (h *VoteTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	vtx := btx.Tx.(*tx.VoteTx)
	_, err1 := st.Vote(vtx, btx.PubKey, true)
	if err1 != nil {
		h.logger.Info("CheckTx VoteTx fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *VoteTxHandler) Deliver(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	vtx := btx.Tx.(*tx.VoteTx)
	event, err := st.Vote(vtx, btx.PubKey, false)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventVote(event)}
	}
	return
}
