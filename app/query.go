package app

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"

	"github.com/agoradao/agora-node/state"
	"github.com/agoradao/agora-node/types"
)

func (app *GovApp) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	path := req.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	q, ok := app.queriers[path]
	if !ok {
		res = &abcitypes.ResponseQuery{}
		res.Code = 404
		return
	}
	res, err = q.Query(ctx, req)
	return
}

type Querier interface {
	Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error)
}

// packedIndex reads a big endian account index from up to 8 bytes.
func packedIndex(dat []byte) uint64 {
	var idx uint64
	for _, v := range dat {
		idx <<= 8
		idx |= uint64(v)
	}
	return idx
}

type AccountInfo struct {
	Account *state.Account `json:"account"`
	Balance uint64         `json:"balance"`
}

type AccountQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewAccountQuerier(db *state.StateDB, logger cmtlog.Logger) (q *AccountQuerier) {
	q = &AccountQuerier{
		db:     db,
		logger: logger,
	}
	return
}

func (q *AccountQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	var a *state.Account
	var height uint64
	if len(req.Data) == 20 {
		a, height, _ = q.db.GetAccountByAddress(req.Data)
	} else if len(req.Data) <= 8 {
		a, height, _ = q.db.GetAccountByIndex(packedIndex(req.Data))
	}
	if a == nil {
		res.Code = 1
		return
	}
	bal, _, _ := q.db.GetBalance(a.Index)
	res.Value, _ = json.Marshal(&AccountInfo{Account: a, Balance: bal})
	res.Height = int64(height)
	return
}

type DAOQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewDAOQuerier(db *state.StateDB, logger cmtlog.Logger) (q *DAOQuerier) {
	q = &DAOQuerier{
		db:     db,
		logger: logger,
	}
	return
}

func (q *DAOQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	gov, height := q.db.GovState()
	res.Value, _ = json.Marshal(gov)
	res.Height = int64(height)
	return
}

type MemberInfo struct {
	Member *types.Member      `json:"member"`
	Roles  []types.RoleRecord `json:"roles,omitempty"`
}

type MemberQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewMemberQuerier(db *state.StateDB, logger cmtlog.Logger) (q *MemberQuerier) {
	q = &MemberQuerier{
		db:     db,
		logger: logger,
	}
	return
}

func (q *MemberQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	var a *state.Account
	if len(req.Data) == 20 {
		a, _, _ = q.db.GetAccountByAddress(req.Data)
	} else if len(req.Data) <= 8 {
		a, _, _ = q.db.GetAccountByIndex(packedIndex(req.Data))
	}
	if a == nil {
		res.Code = 1
		return
	}
	m, height, _ := q.db.GetMember(a.Index)
	if m == nil {
		res.Code = 1
		return
	}
	info := &MemberInfo{Member: m}
	for _, role := range []string{types.RoleAdmin, types.RoleModerator, types.RoleTreasurer} {
		r, _, _ := q.db.GetRole(a.Index, role)
		if r != nil {
			info.Roles = append(info.Roles, *r)
		}
	}
	res.Value, _ = json.Marshal(info)
	res.Height = int64(height)
	return
}

// ProposalInfo is the proposal record plus its result view computed from
// the recorded tallies.
type ProposalInfo struct {
	Proposal  *types.Proposal `json:"proposal"`
	HasQuorum bool            `json:"has_quorum"`
	Passed    bool            `json:"passed"`
}

type ProposalQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewProposalQuerier(db *state.StateDB, logger cmtlog.Logger) (q *ProposalQuerier) {
	q = &ProposalQuerier{
		db:     db,
		logger: logger,
	}
	return
}

func (q *ProposalQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	id, err := strconv.ParseUint(string(req.Data), 10, 64)
	if err != nil {
		res.Code = 1
		res.Log = "bad proposal id"
		return res, nil
	}
	p, height, err := q.db.GetProposal(id)
	if err != nil {
		res.Code = 1
		res.Log = err.Error()
		return res, nil
	}
	res.Value, _ = json.Marshal(&ProposalInfo{Proposal: p, HasQuorum: p.HasQuorum(), Passed: p.Passed()})
	res.Height = int64(height)
	return
}

type VoteQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewVoteQuerier(db *state.StateDB, logger cmtlog.Logger) (q *VoteQuerier) {
	q = &VoteQuerier{
		db:     db,
		logger: logger,
	}
	return
}

// Query data is "<proposal>:<voter>", voter as decimal index or hex address.
func (q *VoteQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	pidDat, voterDat, ok := strings.Cut(string(req.Data), ":")
	if !ok {
		res.Code = 1
		res.Log = "bad vote key"
		return res, nil
	}
	pid, err := strconv.ParseUint(pidDat, 10, 64)
	if err != nil {
		res.Code = 1
		res.Log = "bad proposal id"
		return res, nil
	}
	voter, err := strconv.ParseUint(voterDat, 10, 64)
	if err != nil {
		addr, err := state.ParseAddress(voterDat)
		if err != nil {
			res.Code = 1
			res.Log = "bad voter"
			return res, nil
		}
		a, _, _ := q.db.GetAccountByAddress(addr)
		if a == nil {
			res.Code = 1
			return res, nil
		}
		voter = a.Index
	}
	v, height, _ := q.db.GetVote(pid, voter)
	if v == nil {
		res.Code = 1
		return res, nil
	}
	res.Value, _ = json.Marshal(v)
	res.Height = int64(height)
	return
}

type TreasurySummary struct {
	Balance uint64 `json:"balance"`
	Txns    uint64 `json:"txns"`
}

type TreasuryQuerier struct {
	db     *state.StateDB
	logger cmtlog.Logger
}

func NewTreasuryQuerier(db *state.StateDB, logger cmtlog.Logger) (q *TreasuryQuerier) {
	q = &TreasuryQuerier{
		db:     db,
		logger: logger,
	}
	return
}

// Empty data returns the treasury summary, a decimal id one ledger entry.
func (q *TreasuryQuerier) Query(ctx context.Context, req *abcitypes.RequestQuery) (res *abcitypes.ResponseQuery, err error) {
	res = &abcitypes.ResponseQuery{}
	if len(req.Data) == 0 {
		gov, height := q.db.GovState()
		res.Value, _ = json.Marshal(&TreasurySummary{Balance: gov.TreasuryBalance, Txns: gov.TxnCount})
		res.Height = int64(height)
		return
	}
	id, err := strconv.ParseUint(string(req.Data), 10, 64)
	if err != nil {
		res.Code = 1
		res.Log = "bad txn id"
		return res, nil
	}
	t, height, err := q.db.GetTxn(id)
	if err != nil {
		res.Code = 1
		res.Log = err.Error()
		return res, nil
	}
	res.Value, _ = json.Marshal(t)
	res.Height = int64(height)
	return
}
