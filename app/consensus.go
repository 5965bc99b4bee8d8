package app

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"

	"github.com/agoradao/agora-node/state"
	"github.com/agoradao/agora-node/tx"
)

func (app *GovApp) parseTx(txDat []byte) (btx *tx.GovTx, err error) {
	return tx.UnmarshalGovTx(txDat)
}

// CheckTx screens mempool entrants against the committed state. Nonce gaps
// are tolerated here so a sender can queue several txs; the block loops
// enforce strict continuity.
func (app *GovApp) CheckTx(ctx context.Context, check *abcitypes.RequestCheckTx) (res *abcitypes.ResponseCheckTx, err error) {
	res = &abcitypes.ResponseCheckTx{Code: 0}
	btx, err := app.parseTx(check.Tx)
	if err != nil {
		app.logger.Info("check tx parse fail", "err", err)
		res.Code = 1
		res.Log = err.Error()
		err = nil
		return
	}
	h, ok := app.txHdlrs[btx.Type]
	if !ok {
		app.logger.Info("check tx unsupported", "type", btx.Type)
		res.Code = 1
		res.Log = tx.ErrUnsupportedTxType.Error()
		return
	}
	st := app.db.State()
	if _, err1 := st.Verify(btx, true); err1 != nil {
		app.logger.Info("check tx verify fail", "type", btx.Type, "err", err1)
		res.Code = 1
		res.Log = err1.Error()
		return
	}
	res, err = h.Check(ctx, st, btx)
	if err != nil {
		app.logger.Error("check tx fail", "err", err)
		res = &abcitypes.ResponseCheckTx{Code: 1, Log: err.Error()}
		err = nil
	}
	return
}

// deliverTo runs one tx against a clone of st and returns the clone on
// success. A nil state return means the tx failed and st is untouched.
func (app *GovApp) deliverTo(ctx context.Context, st *state.State, btx *tx.GovTx) (*state.State, *abcitypes.ExecTxResult, error) {
	h, ok := app.txHdlrs[btx.Type]
	if !ok {
		return nil, nil, tx.ErrUnsupportedTxType
	}
	stTmp := st.Clone()
	if _, err := stTmp.Verify(btx, false); err != nil {
		return nil, nil, err
	}
	result, err := h.Deliver(ctx, stTmp, btx)
	if err != nil {
		return nil, nil, err
	}
	return stTmp, result, nil
}

// PrepareProposal filters the mempool reap down to txs that apply cleanly
// in order, each against the working view left by its predecessors.
func (app *GovApp) PrepareProposal(ctx context.Context, proposal *abcitypes.RequestPrepareProposal) (res *abcitypes.ResponsePrepareProposal, err error) {
	st := app.db.NewState()
	st.SetHeight(uint64(proposal.Height))
	txs := make([][]byte, 0, len(proposal.Txs))
	var size int64
	for _, stx := range proposal.Txs {
		if size+int64(len(stx)) > proposal.MaxTxBytes {
			break
		}
		btx, err := app.parseTx(stx)
		if err != nil {
			app.logger.Info("prepare tx parse fail", "err", err)
			continue
		}
		stTmp, _, err := app.deliverTo(ctx, st, btx)
		if err != nil {
			app.logger.Info("prepare tx fail", "type", btx.Type, "err", err)
			continue
		}
		st = stTmp
		size += int64(len(stx))
		txs = append(txs, stx)
	}
	return &abcitypes.ResponsePrepareProposal{Txs: txs}, nil
}

// ProcessProposal replays a proposed block. Malformed bytes reject the
// block; a tx that parses but fails its checks is tolerated, since
// FinalizeBlock burns it deterministically on every node.
func (app *GovApp) ProcessProposal(ctx context.Context, proposal *abcitypes.RequestProcessProposal) (res *abcitypes.ResponseProcessProposal, err error) {
	res = &abcitypes.ResponseProcessProposal{Status: abcitypes.ResponseProcessProposal_REJECT}
	st := app.db.NewState()
	st.SetHeight(uint64(proposal.Height))
	for _, stx := range proposal.Txs {
		btx, err := app.parseTx(stx)
		if err != nil {
			app.logger.Error("process tx parse fail", "err", err)
			return res, nil
		}
		if _, ok := app.txHdlrs[btx.Type]; !ok {
			app.logger.Error("process tx unsupported", "type", btx.Type)
			return res, nil
		}
		stTmp, _, err := app.deliverTo(ctx, st, btx)
		if err != nil {
			continue
		}
		st = stTmp
	}
	res.Status = abcitypes.ResponseProcessProposal_ACCEPT
	return res, nil
}

// FinalizeBlock applies the decided block tx by tx. Each tx runs on a clone
// adopted only on success, so a failing tx burns with code 1 and leaves no
// trace in the state.
func (app *GovApp) FinalizeBlock(ctx context.Context, req *abcitypes.RequestFinalizeBlock) (*abcitypes.ResponseFinalizeBlock, error) {
	app.logger.Info("FinalizeBlock", "height", req.Height, "txs", len(req.Txs))
	app.lastBlk.Set(req)
	st := app.db.NewState()
	st.SetHeight(uint64(req.Height))
	res := make([]*abcitypes.ExecTxResult, len(req.Txs))
	for i, stx := range req.Txs {
		btx, err := app.parseTx(stx)
		if err != nil {
			app.logger.Error("finalize tx parse fail", "err", err)
			res[i] = &abcitypes.ExecTxResult{Code: 1, Log: err.Error()}
			continue
		}
		stTmp, result, err := app.deliverTo(ctx, st, btx)
		if err != nil {
			app.logger.Error("finalize tx fail", "type", btx.Type, "err", err)
			res[i] = &abcitypes.ExecTxResult{Code: 1, Log: err.Error()}
			continue
		}
		st = stTmp
		res[i] = result
	}
	h, err := st.Update()
	if err != nil {
		app.logger.Error("state update hash fail", "err", err)
		return nil, err
	}
	app.st = st
	return &abcitypes.ResponseFinalizeBlock{
		TxResults: res,
		AppHash:   h.Bytes(),
	}, nil
}

func (app *GovApp) Commit(ctx context.Context, commit *abcitypes.RequestCommit) (*abcitypes.ResponseCommit, error) {
	_, err := app.db.SetState(app.st)
	if err != nil {
		return nil, err
	}
	app.st = nil
	app.logger.Info("Commit", "height", app.lastBlk.Height)
	return &abcitypes.ResponseCommit{}, nil
}
