package handler

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"

	"github.com/agoradao/agora-node/state"
	"github.com/agoradao/agora-node/tx"
)

// TxHandler pairs the two passes of a governance tx: Check validates against
// a working view without touching it, Deliver applies to the view it is
// given. The consensus loop hands Deliver a clone and adopts it on success.
type TxHandler interface {
	Check(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ResponseCheckTx, err error)
	Deliver(ctx context.Context, st *state.State, btx *tx.GovTx) (res *abcitypes.ExecTxResult, err error)
}
