package app

import (
	"context"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cometbft/cometbft/store"
	"github.com/ethereum/go-ethereum/common"

	"github.com/agoradao/agora-node/config"
	"github.com/agoradao/agora-node/state"
	"github.com/agoradao/agora-node/tx"
	"github.com/agoradao/agora-node/tx/handler"
	"github.com/agoradao/agora-node/types"
)

type finalizeBlock struct {
	Height uint64
	Hash   common.Hash
}

func (b *finalizeBlock) Set(blk *abcitypes.RequestFinalizeBlock) {
	b.Height = uint64(blk.Height)
	b.Hash = common.BytesToHash(blk.Hash)
}

var _ abcitypes.Application = &GovApp{}

// GovApp is the ABCI application carrying the DAO ledger: accounts and
// balances, the proposal registry, votes, the treasury log, and the
// admin gate. Governance rules live in the state package; this layer
// routes txs to handlers and owns the commit cycle.
type GovApp struct {
	cfg    *config.AppConfig
	logger cmtlog.Logger

	db       *state.StateDB
	lastBlk  finalizeBlock
	txHdlrs  map[tx.GovTxType]handler.TxHandler
	queriers map[string]Querier

	st *state.State
}

func NewGovApp(cfg *config.AppConfig, logger cmtlog.Logger) (app *GovApp, err error) {
	logger = logger.With("module", "app")

	dir := cfg.Home + "/data"
	db, err := state.NewStateDB(dir, logger)
	if err != nil {
		return nil, err
	}

	app = &GovApp{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		txHdlrs:  make(map[tx.GovTxType]handler.TxHandler),
		queriers: make(map[string]Querier),
	}
	app.registerTxHandler()
	app.registerQuerier()
	return
}

func (app *GovApp) Start(bs *store.BlockStore) {
	height := app.db.Header().Height
	if height > 0 {
		blk := bs.LoadBlock(int64(height))
		if blk == nil {
			panic("unexpected BlockStore")
		}
		app.lastBlk.Height = height
		app.lastBlk.Hash = common.BytesToHash(blk.Hash())
	}
}

func (app *GovApp) Stop() {
	err := app.db.Close()
	if err != nil {
		app.logger.Error("close db fail", "err", err)
	}
	app.logger.Info("agora app stopped")
}

func (app *GovApp) StateDB() *state.StateDB {
	return app.db
}

func (app *GovApp) registerTxHandler() {
	app.txHdlrs = map[tx.GovTxType]handler.TxHandler{
		tx.GovTxTypeInitialize: handler.NewInitializeTxHandler(app.logger),
		tx.GovTxTypeJoin:       handler.NewJoinTxHandler(app.logger),
		tx.GovTxTypeTransfer:   handler.NewTransferTxHandler(app.logger),
		tx.GovTxTypeMint:       handler.NewMintTxHandler(app.logger),
		tx.GovTxTypeProposal:   handler.NewProposalTxHandler(app.logger),
		tx.GovTxTypeVote:       handler.NewVoteTxHandler(app.logger),
		tx.GovTxTypeFinalize:   handler.NewFinalizeTxHandler(app.logger),
		tx.GovTxTypeExecute:    handler.NewExecuteTxHandler(app.logger),
		tx.GovTxTypeDeposit:    handler.NewDepositTxHandler(app.logger),
		tx.GovTxTypeRole:       handler.NewRoleTxHandler(app.logger),
		tx.GovTxTypePause:      handler.NewPauseTxHandler(app.logger),
	}
}

func (app *GovApp) registerQuerier() {
	app.queriers["/dao/"] = NewDAOQuerier(app.db, app.logger)
	app.queriers["/accounts/"] = NewAccountQuerier(app.db, app.logger)
	app.queriers["/members/"] = NewMemberQuerier(app.db, app.logger)
	app.queriers["/proposals/"] = NewProposalQuerier(app.db, app.logger)
	app.queriers["/votes/"] = NewVoteQuerier(app.db, app.logger)
	app.queriers["/treasury/"] = NewTreasuryQuerier(app.db, app.logger)
}

func (app *GovApp) InitChain(_ context.Context, chain *abcitypes.RequestInitChain) (res *abcitypes.ResponseInitChain, err error) {
	st := app.db.NewState()
	st.SetChainId(chain.ChainId)
	if len(chain.AppStateBytes) > 0 {
		as, err := types.ParseAppState(chain.AppStateBytes)
		if err != nil {
			app.logger.Error("InitChain parse app state fail", "err", err)
			return nil, err
		}
		if err = as.Validate(); err != nil {
			app.logger.Error("InitChain invalid app state", "err", err)
			return nil, err
		}
		if err = st.InitGenesis(as); err != nil {
			app.logger.Error("InitChain genesis fail", "err", err)
			return nil, err
		}
	}
	var h common.Hash
	_, err = st.Update()
	if err != nil {
		app.logger.Error("InitChain update state fail", "err", err)
		return nil, err
	}
	h, err = app.db.SetState(st)
	if err != nil {
		app.logger.Error("InitChain apply state fail", "err", err)
		return nil, err
	}
	return &abcitypes.ResponseInitChain{
		AppHash: h.Bytes(),
	}, nil
}

func (app *GovApp) Info(ctx context.Context, info *abcitypes.RequestInfo) (*abcitypes.ResponseInfo, error) {
	header := app.db.Header()
	return &abcitypes.ResponseInfo{
		LastBlockHeight:  int64(header.Height),
		LastBlockAppHash: header.Hash,
	}, nil
}

func (app *GovApp) ExtendVote(_ context.Context, extend *abcitypes.RequestExtendVote) (*abcitypes.ResponseExtendVote, error) {
	return &abcitypes.ResponseExtendVote{}, nil
}

func (app *GovApp) VerifyVoteExtension(_ context.Context, verify *abcitypes.RequestVerifyVoteExtension) (*abcitypes.ResponseVerifyVoteExtension, error) {
	return &abcitypes.ResponseVerifyVoteExtension{}, nil
}

func (app *GovApp) ApplySnapshotChunk(context.Context, *abcitypes.RequestApplySnapshotChunk) (*abcitypes.ResponseApplySnapshotChunk, error) {
	return &abcitypes.ResponseApplySnapshotChunk{}, nil
}

func (app *GovApp) ListSnapshots(context.Context, *abcitypes.RequestListSnapshots) (*abcitypes.ResponseListSnapshots, error) {
	return &abcitypes.ResponseListSnapshots{}, nil
}

func (app *GovApp) LoadSnapshotChunk(context.Context, *abcitypes.RequestLoadSnapshotChunk) (*abcitypes.ResponseLoadSnapshotChunk, error) {
	return &abcitypes.ResponseLoadSnapshotChunk{}, nil
}

func (app *GovApp) OfferSnapshot(context.Context, *abcitypes.RequestOfferSnapshot) (*abcitypes.ResponseOfferSnapshot, error) {
	return &abcitypes.ResponseOfferSnapshot{}, nil
}
