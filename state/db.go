package state

import (
	"sync"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cosmos/iavl"
	dbm "github.com/cosmos/iavl/db"
	"github.com/ethereum/go-ethereum/common"

	"github.com/agoradao/agora-node/types"
)

// StateDB owns the committed state and hands out working views. Query
// helpers clone records on the way out so RPC readers never alias the
// consensus state.
type StateDB struct {
	mtx sync.RWMutex

	dir    string
	logger cmtlog.Logger
	db     *iavl.MutableTree

	state *State
}

func NewStateDB(dir string, logger cmtlog.Logger) (db *StateDB, err error) {
	logger = logger.With("module", "agoradb")
	ldb, err := dbm.NewDB("agora", "goleveldb", dir)
	if err != nil {
		return nil, err
	}
	tdb := iavl.NewMutableTree(ldb, 128, true, TreeLogger(logger))
	version, err := tdb.Load()
	if err != nil {
		return nil, err
	}
	logger.Info("load db success", "version", version)
	st := newState(tdb, logger)
	err = st.load()
	if err != nil {
		logger.Error("load state fail", "err", err)
		return nil, err
	}
	db = &StateDB{
		dir:    dir,
		logger: logger,
		db:     tdb,
		state:  st,
	}
	return
}

func (db *StateDB) Close() (err error) {
	err = db.db.Close()
	return
}

func (db *StateDB) Header() (header *StateHeader) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	header = db.state.Header()
	return
}

func (db *StateDB) State() *State {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	return db.state
}

func (db *StateDB) NewState() (st *State) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	st = db.state.nextState()
	return
}

func (db *StateDB) SetState(st *State) (hash common.Hash, err error) {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	hash, err = st.save()
	if err != nil {
		return
	}
	db.state = st
	return
}

func (db *StateDB) GetAccountByIndex(idx uint64) (acnt *Account, height uint64, err error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	acnt, err = db.state.GetAccount(idx)
	if err != nil {
		return
	}
	if acnt != nil {
		acnt = acnt.Clone()
	}
	height = db.state.header.Height

	return
}

func (db *StateDB) GetAccountByAddress(addr []byte) (acnt *Account, height uint64, err error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	acnt, err = db.state.FindAccount(addr)
	if err != nil {
		return
	}
	if acnt != nil {
		acnt = acnt.Clone()
	}
	height = db.state.header.Height

	return
}

func (db *StateDB) GovState() (gov *types.GovState, height uint64) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	cp := *db.state.gov
	gov = &cp
	height = db.state.header.Height
	return
}

func (db *StateDB) GetProposal(id uint64) (p *types.Proposal, height uint64, err error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	p, err = db.state.getProposal(id)
	if err != nil {
		return
	}
	cp := *p
	p = &cp
	height = db.state.header.Height
	return
}

func (db *StateDB) GetMember(idx uint64) (m *types.Member, height uint64, err error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	m, err = db.state.getMember(idx)
	if err != nil {
		return
	}
	if m != nil {
		cp := *m
		m = &cp
	}
	height = db.state.header.Height
	return
}

func (db *StateDB) GetBalance(idx uint64) (bal uint64, height uint64, err error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	bal, err = db.state.balanceOf(idx)
	height = db.state.header.Height
	return
}

func (db *StateDB) GetVote(proposal, voter uint64) (v *types.VoteRecord, height uint64, err error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	v, err = db.state.getVote(proposal, voter)
	if err != nil {
		return
	}
	if v != nil {
		cp := *v
		v = &cp
	}
	height = db.state.header.Height
	return
}

func (db *StateDB) GetTxn(id uint64) (t *types.TreasuryTxn, height uint64, err error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	t, err = db.state.getTxn(id)
	if err != nil {
		return
	}
	cp := *t
	t = &cp
	height = db.state.header.Height
	return
}

func (db *StateDB) GetRole(idx uint64, role string) (r *types.RoleRecord, height uint64, err error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	r, err = db.state.getRole(idx, role)
	if err != nil {
		return
	}
	if r != nil {
		cp := *r
		r = &cp
	}
	height = db.state.header.Height
	return
}
