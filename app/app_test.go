package app

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agoradao/agora-node/config"
	"github.com/agoradao/agora-node/tx"
	"github.com/agoradao/agora-node/types"
)

const testChainId = "agora-test"

func newTestApp(t *testing.T) (*GovApp, ed25519.PrivKey) {
	t.Helper()
	owner := ed25519.GenPrivKey()
	cfg := config.DefaultAppConfig(t.TempDir())
	app, err := NewGovApp(cfg, cmtlog.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(app.Stop)

	as, err := json.Marshal(&types.AppState{
		Owner: types.GenesisAccount{Address: owner.PubKey().Address().String(), Coins: 1000},
		Params: types.GovParams{
			VotingPeriod:    5,
			ExecutionDelay:  2,
			QuorumPercent:   20,
			MinProposePower: 10,
		},
	})
	require.NoError(t, err)
	res, err := app.InitChain(context.Background(), &abcitypes.RequestInitChain{
		ChainId:       testChainId,
		AppStateBytes: as,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.AppHash)
	return app, owner
}

func signTx(t *testing.T, pk ed25519.PrivKey, txType tx.GovTxType, payload any, nonce uint64) []byte {
	t.Helper()
	btx := &tx.GovTx{
		Version: tx.GovTxVersion1,
		Type:    txType,
		Nonce:   nonce,
		PubKey:  pk.PubKey().Bytes(),
		Tx:      payload,
	}
	dat, err := btx.SigData([]byte(testChainId))
	require.NoError(t, err)
	sig, err := pk.Sign(dat)
	require.NoError(t, err)
	btx.Sig = [][]byte{sig}
	raw, err := tx.MarshalGovTx(btx)
	require.NoError(t, err)
	return raw
}

func runBlock(t *testing.T, app *GovApp, height int64, txs ...[]byte) *abcitypes.ResponseFinalizeBlock {
	t.Helper()
	res, err := app.FinalizeBlock(context.Background(), &abcitypes.RequestFinalizeBlock{Height: height, Txs: txs})
	require.NoError(t, err)
	_, err = app.Commit(context.Background(), &abcitypes.RequestCommit{})
	require.NoError(t, err)
	return res
}

func queryOK(t *testing.T, app *GovApp, path string, data []byte, out any) {
	t.Helper()
	res, err := app.Query(context.Background(), &abcitypes.RequestQuery{Path: path, Data: data})
	require.NoError(t, err)
	require.Zero(t, res.Code, res.Log)
	require.NoError(t, json.Unmarshal(res.Value, out))
}

// Drives a payout proposal through whole blocks: initialize, fund members,
// propose, vote, finalize, execute, with queries against the committed state
// at the end.
func TestGovAppLifecycle(t *testing.T) {
	app, owner := newTestApp(t)
	alice := ed25519.GenPrivKey()
	aliceAddr := alice.PubKey().Address().String()

	res := runBlock(t, app, 1,
		signTx(t, owner, tx.GovTxTypeInitialize, &tx.InitializeTx{Name: "agora", Supply: 10000}, 0),
	)
	require.Len(t, res.TxResults, 1)
	require.Zero(t, res.TxResults[0].Code, res.TxResults[0].Log)
	require.Len(t, res.TxResults[0].Events, 1)
	assert.Equal(t, types.EventInitializeType, res.TxResults[0].Events[0].Type)
	initEv := types.DecodeEventInitialize(res.TxResults[0].Events[0])
	require.NotNil(t, initEv)
	assert.Equal(t, uint64(10000), initEv.Supply)

	// the join clears the mempool check before any block includes it
	check, err := app.CheckTx(context.Background(), &abcitypes.RequestCheckTx{
		Tx: signTx(t, alice, tx.GovTxTypeJoin, &tx.JoinTx{}, 0),
	})
	require.NoError(t, err)
	require.Zero(t, check.Code, check.Log)

	// the join must land before the transfer, which would enroll alice
	// itself and leave the join to burn as a rejoin
	res = runBlock(t, app, 2,
		signTx(t, alice, tx.GovTxTypeJoin, &tx.JoinTx{}, 0),
		signTx(t, owner, tx.GovTxTypeTransfer, &tx.TransferTx{To: aliceAddr, Amount: 2500}, 1),
		signTx(t, owner, tx.GovTxTypeDeposit, &tx.DepositTx{Amount: 500}, 2),
	)
	for i, r := range res.TxResults {
		require.Zero(t, r.Code, "tx %d: %s", i, r.Log)
	}

	res = runBlock(t, app, 3,
		signTx(t, owner, tx.GovTxTypeProposal, &tx.ProposalTx{
			Title:  "grant",
			Kind:   uint64(types.ProposalTypeTreasury),
			Target: aliceAddr,
			Amount: 200,
		}, 3),
		signTx(t, alice, tx.GovTxTypeVote, &tx.VoteTx{Proposal: 1, Support: true}, 1),
	)
	for i, r := range res.TxResults {
		require.Zero(t, r.Code, "tx %d: %s", i, r.Log)
	}
	voteEv := types.DecodeEventVote(res.TxResults[1].Events[0])
	require.NotNil(t, voteEv)
	assert.Equal(t, uint64(2500), voteEv.Power)

	// voting ends at height 8, the delay at height 10
	res = runBlock(t, app, 9,
		signTx(t, owner, tx.GovTxTypeFinalize, &tx.FinalizeTx{Proposal: 1}, 4),
	)
	require.Zero(t, res.TxResults[0].Code, res.TxResults[0].Log)
	finEv := types.DecodeEventFinalize(res.TxResults[0].Events[0])
	require.NotNil(t, finEv)
	assert.Equal(t, uint64(types.ProposalStatusPassed), finEv.Status)

	res = runBlock(t, app, 10,
		signTx(t, owner, tx.GovTxTypeExecute, &tx.ExecuteTx{Proposal: 1}, 5),
	)
	require.Zero(t, res.TxResults[0].Code, res.TxResults[0].Log)
	execEv := types.DecodeEventExecute(res.TxResults[0].Events[0])
	require.NotNil(t, execEv)
	assert.Equal(t, uint64(200), execEv.Amount)

	info, err := app.Info(context.Background(), &abcitypes.RequestInfo{})
	require.NoError(t, err)
	assert.Equal(t, int64(10), info.LastBlockHeight)

	var gov types.GovState
	queryOK(t, app, "/dao/", nil, &gov)
	assert.True(t, gov.Initialized)
	assert.Equal(t, uint64(10000), gov.TotalSupply)
	assert.Equal(t, uint64(300), gov.TreasuryBalance)
	assert.Equal(t, uint64(1), gov.ProposalCount)
	assert.Equal(t, uint64(2), gov.MemberCount)

	var acc AccountInfo
	queryOK(t, app, "/accounts/", alice.PubKey().Address().Bytes(), &acc)
	require.NotNil(t, acc.Account)
	assert.Equal(t, uint64(2500), acc.Balance)
	assert.Equal(t, uint64(200), acc.Account.Coins)

	var member MemberInfo
	queryOK(t, app, "/members/", alice.PubKey().Address().Bytes(), &member)
	require.NotNil(t, member.Member)
	assert.Equal(t, uint64(1), member.Member.VotesCast)

	var p ProposalInfo
	queryOK(t, app, "/proposals/", []byte("1"), &p)
	require.NotNil(t, p.Proposal)
	assert.Equal(t, types.ProposalStatusExecuted, p.Proposal.Status)
	assert.Equal(t, uint64(2500), p.Proposal.VotesFor)
	assert.True(t, p.HasQuorum)
	assert.True(t, p.Passed)

	var v types.VoteRecord
	queryOK(t, app, "/votes/", []byte(fmt.Sprintf("1:%s", aliceAddr)), &v)
	assert.True(t, v.Support)
	assert.Equal(t, uint64(2500), v.Power)

	var summary TreasurySummary
	queryOK(t, app, "/treasury/", nil, &summary)
	assert.Equal(t, uint64(300), summary.Balance)
	assert.Equal(t, uint64(2), summary.Txns)

	var txn types.TreasuryTxn
	queryOK(t, app, "/treasury/", []byte("2"), &txn)
	assert.Equal(t, types.TxnKindTransfer, txn.Kind)
	assert.Equal(t, uint64(200), txn.Amount)

	missing, err := app.Query(context.Background(), &abcitypes.RequestQuery{Path: "/nonsense/"})
	require.NoError(t, err)
	assert.Equal(t, uint32(404), missing.Code)
}

// A failing tx burns with code 1 and must not leak partial writes into the
// block state.
func TestFinalizeBlockBurnsFailingTx(t *testing.T) {
	app, owner := newTestApp(t)
	res := runBlock(t, app, 1,
		signTx(t, owner, tx.GovTxTypeInitialize, &tx.InitializeTx{Name: "agora", Supply: 10000}, 0),
	)
	require.Zero(t, res.TxResults[0].Code)

	bob := ed25519.GenPrivKey()
	res = runBlock(t, app, 2,
		[]byte("garbage"),
		signTx(t, owner, tx.GovTxTypeTransfer, &tx.TransferTx{To: bob.PubKey().Address().String(), Amount: 999999}, 1),
		signTx(t, owner, tx.GovTxTypeTransfer, &tx.TransferTx{To: bob.PubKey().Address().String(), Amount: 100}, 1),
	)
	require.Len(t, res.TxResults, 3)
	assert.Equal(t, uint32(1), res.TxResults[0].Code)
	assert.Equal(t, uint32(1), res.TxResults[1].Code)
	// the burned transfer did not consume the nonce, so the retry at the
	// same nonce lands
	assert.Zero(t, res.TxResults[2].Code, res.TxResults[2].Log)

	var acc AccountInfo
	queryOK(t, app, "/accounts/", bob.PubKey().Address().Bytes(), &acc)
	assert.Equal(t, uint64(100), acc.Balance)
}

func TestCheckTxRejectsBadEnvelope(t *testing.T) {
	app, owner := newTestApp(t)

	raw := signTx(t, owner, tx.GovTxTypeInitialize, &tx.InitializeTx{Name: "agora", Supply: 10000}, 0)
	tampered, err := tx.UnmarshalGovTx(raw)
	require.NoError(t, err)
	tampered.Sig = [][]byte{make([]byte, 64)}
	rawTampered, err := tx.MarshalGovTx(tampered)
	require.NoError(t, err)

	specs := map[string][]byte{
		"not json":      []byte("not a tx"),
		"forged sig":    rawTampered,
		"unknown type":  []byte(`{"version":1,"type":99,"tx":{}}`),
		"gov violation": signTx(t, ed25519.GenPrivKey(), tx.GovTxTypeInitialize, &tx.InitializeTx{Name: "x", Supply: 1}, 0),
	}
	for name, raw := range specs {
		t.Run(name, func(t *testing.T) {
			res, err := app.CheckTx(context.Background(), &abcitypes.RequestCheckTx{Tx: raw})
			require.NoError(t, err)
			assert.Equal(t, uint32(1), res.Code)
		})
	}
}

// PrepareProposal drops whatever does not apply cleanly; ProcessProposal
// only rejects blocks carrying bytes no node could decode.
func TestProposalRounds(t *testing.T) {
	app, owner := newTestApp(t)
	alice := ed25519.GenPrivKey()

	good := signTx(t, owner, tx.GovTxTypeInitialize, &tx.InitializeTx{Name: "agora", Supply: 10000}, 0)
	badNonce := signTx(t, owner, tx.GovTxTypeTransfer, &tx.TransferTx{To: alice.PubKey().Address().String(), Amount: 10}, 7)

	prep, err := app.PrepareProposal(context.Background(), &abcitypes.RequestPrepareProposal{
		Height:     1,
		MaxTxBytes: 1 << 20,
		Txs:        [][]byte{[]byte("garbage"), good, badNonce},
	})
	require.NoError(t, err)
	require.Len(t, prep.Txs, 1)
	assert.Equal(t, good, prep.Txs[0])

	proc, err := app.ProcessProposal(context.Background(), &abcitypes.RequestProcessProposal{
		Height: 1,
		Txs:    [][]byte{good, badNonce},
	})
	require.NoError(t, err)
	assert.Equal(t, abcitypes.ResponseProcessProposal_ACCEPT, proc.Status)

	proc, err = app.ProcessProposal(context.Background(), &abcitypes.RequestProcessProposal{
		Height: 1,
		Txs:    [][]byte{[]byte("garbage")},
	})
	require.NoError(t, err)
	assert.Equal(t, abcitypes.ResponseProcessProposal_REJECT, proc.Status)
}

// PrepareProposal respects the MaxTxBytes limit comet hands it.
func TestPrepareProposalHonorsMaxTxBytes(t *testing.T) {
	app, owner := newTestApp(t)

	good := signTx(t, owner, tx.GovTxTypeInitialize, &tx.InitializeTx{Name: "agora", Supply: 10000}, 0)
	prep, err := app.PrepareProposal(context.Background(), &abcitypes.RequestPrepareProposal{
		Height:     1,
		MaxTxBytes: int64(len(good) - 1),
		Txs:        [][]byte{good},
	})
	require.NoError(t, err)
	assert.Empty(t, prep.Txs)
}
