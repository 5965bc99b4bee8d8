package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/agoradao/agora-node/state"
	"github.com/agoradao/agora-node/tx"
	"github.com/agoradao/agora-node/types"
)

type ProposalTxHandler struct {
	logger cmtlog.Logger
}

func NewProposalTxHandler(logger cmtlog.Logger) (h *ProposalTxHandler) {
	logger = logger.With("module", "proposalTx")
	h = &ProposalTxHandler{
		logger: logger,
	}
	return
}

func (h *ProposalTxHandler) Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	ptx := btx.Tx.(*tx.ProposalTx)
	_, err1 := st.CreateProposal(ptx, btx.PubKey, true)
	if err1 != nil {
		h.logger.Info("CheckTx ProposalTx fail", "err", err1)
		res.Code = 1
		res.Log = err1.Error()
	}
	return
}

func (h *ProposalTxHandler) Deliver(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error) {
	ptx := btx.Tx.(*tx.ProposalTx)
	event, err := st.CreateProposal(ptx, btx.PubKey, false)
	if err != nil {
		return nil, err
	}
	res = &abcitypes.ExecTxResult{}
	if event != nil {
		res.Events = []abcitypes.Event{types.EncodeEventProposal(event)}
	}
	return
}
