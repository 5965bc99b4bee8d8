package indexer

import (
	"path/filepath"
	"testing"

	abci "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agoradao/agora-node/types"
)

const (
	ownerAddr = "1F8A6D5C24E9B02E7C33D1B46C2EA612D3A0F758"
	aliceAddr = "4B2C91D87A30FE65BD10C5A2E97F4408AC6D93E1"
	bobAddr   = "9E07C2AB54D1F3886E42B0975C3DD2190F4A7B63"
)

func newTestIndexer(t *testing.T) *ChainIndexer {
	t.Helper()
	c, err := NewChainIndexer(cmtlog.NewNopLogger(), filepath.Join(t.TempDir(), "indexer.db"), "http://localhost:26657")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

// seedLifecycle replays the event stream a payout proposal leaves behind:
// initialize, two members joining empty-handed, their funding transfers, a
// treasury deposit, one vote each way, finalize and execute.
func seedLifecycle(t *testing.T, c *ChainIndexer) {
	t.Helper()
	c.handleEvent(types.EncodeEventInitialize(&types.EventInitialize{
		Owner: 1, OwnerAddress: ownerAddr, Name: "agora", Supply: 10000,
	}), 1)
	c.handleEvent(types.EncodeEventMember(&types.EventMember{
		Member: 2, Address: aliceAddr, JoinHeight: 2,
	}), 2)
	c.handleEvent(types.EncodeEventMember(&types.EventMember{
		Member: 3, Address: bobAddr, JoinHeight: 2,
	}), 2)
	c.handleEvent(types.EncodeEventTransfer(&types.EventTransfer{
		From: 1, FromAddress: ownerAddr, To: 2, ToAddress: aliceAddr, Amount: 2500,
	}), 2)
	c.handleEvent(types.EncodeEventTransfer(&types.EventTransfer{
		From: 1, FromAddress: ownerAddr, To: 3, ToAddress: bobAddr, Amount: 600,
	}), 2)
	c.handleEvent(types.EncodeEventDeposit(&types.EventDeposit{
		From: 1, FromAddress: ownerAddr, Amount: 500, Treasury: 500, Txn: 1,
	}), 2)
	c.handleEvent(types.EncodeEventProposal(&types.EventProposal{
		Proposal: 1, Proposer: 1, ProposerAddress: ownerAddr,
		Kind: uint64(types.ProposalTypeTreasury), Title: "grant", VotingEnd: 8, Quorum: 2000,
	}), 3)
	c.handleEvent(types.EncodeEventVote(&types.EventVote{
		Proposal: 1, Voter: 2, VoterAddress: aliceAddr, Support: true, Power: 2500,
	}), 3)
	c.handleEvent(types.EncodeEventVote(&types.EventVote{
		Proposal: 1, Voter: 3, VoterAddress: bobAddr, Support: false, Power: 600,
	}), 4)
	c.handleEvent(types.EncodeEventFinalize(&types.EventFinalize{
		Proposal: 1, Status: uint64(types.ProposalStatusPassed),
		VotesFor: 2500, VotesAgainst: 600, TotalVotes: 3100,
	}), 9)
	c.handleEvent(types.EncodeEventExecute(&types.EventExecute{
		Proposal: 1, Executor: 1, Kind: uint64(types.ProposalTypeTreasury),
		Target: 2, TargetAddress: aliceAddr, Amount: 200, Txn: 2,
	}), 10)
}

func TestIndexerFoldsLifecycle(t *testing.T) {
	c := newTestIndexer(t)

	// when
	c.handleEvent(types.EncodeEventInitialize(&types.EventInitialize{
		Owner: 1, OwnerAddress: ownerAddr, Name: "agora", Supply: 10000,
	}), 1)

	// then the dao row and the owner member row exist
	info, err := c.getDAO()
	require.NoError(t, err)
	assert.Equal(t, "agora", info.Name)
	assert.Equal(t, uint64(1), info.OwnerIndex)
	assert.Equal(t, ownerAddr, info.OwnerAddress)
	assert.Equal(t, uint64(10000), info.TotalSupply)
	assert.Equal(t, uint64(1), info.InitHeight)
	owner, err := c.getMemberByAddress(ownerAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), owner.Id)
	assert.Equal(t, uint64(10000), owner.Power)

	// when the rest of the lifecycle lands
	c.handleEvent(types.EncodeEventMember(&types.EventMember{
		Member: 2, Address: aliceAddr, JoinHeight: 2, Power: 2500,
	}), 2)
	c.handleEvent(types.EncodeEventDeposit(&types.EventDeposit{
		From: 1, FromAddress: ownerAddr, Amount: 500, Treasury: 500, Txn: 1,
	}), 2)
	c.handleEvent(types.EncodeEventProposal(&types.EventProposal{
		Proposal: 1, Proposer: 1, ProposerAddress: ownerAddr,
		Kind: uint64(types.ProposalTypeTreasury), Title: "grant", VotingEnd: 8, Quorum: 2000,
	}), 3)

	// then the proposal opens active
	p, err := c.getProposalById(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(types.ProposalStatusActive), p.Status)
	assert.Equal(t, "grant", p.Title)
	assert.Equal(t, uint64(8), p.VotingEnd)
	assert.Equal(t, uint64(2000), p.Quorum)
	assert.Equal(t, uint64(3), p.Height)

	// when votes land the tallies accumulate incrementally
	c.handleEvent(types.EncodeEventVote(&types.EventVote{
		Proposal: 1, Voter: 2, VoterAddress: aliceAddr, Support: true, Power: 2500,
	}), 3)
	p, err = c.getProposalById(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2500), p.VotesFor)
	assert.Equal(t, uint64(2500), p.TotalVotes)

	c.handleEvent(types.EncodeEventVote(&types.EventVote{
		Proposal: 1, Voter: 3, VoterAddress: bobAddr, Support: false, Power: 600,
	}), 4)
	p, err = c.getProposalById(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2500), p.VotesFor)
	assert.Equal(t, uint64(600), p.VotesAgainst)
	assert.Equal(t, uint64(3100), p.TotalVotes)

	// when finalize carries the chain tallies they win over our sums
	c.handleEvent(types.EncodeEventFinalize(&types.EventFinalize{
		Proposal: 1, Status: uint64(types.ProposalStatusPassed),
		VotesFor: 2500, VotesAgainst: 600, TotalVotes: 3100,
	}), 9)
	p, err = c.getProposalById(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(types.ProposalStatusPassed), p.Status)

	// when the payout executes
	c.handleEvent(types.EncodeEventExecute(&types.EventExecute{
		Proposal: 1, Executor: 1, Kind: uint64(types.ProposalTypeTreasury),
		Target: 2, TargetAddress: aliceAddr, Amount: 200, Txn: 2,
	}), 10)

	// then the proposal closes, the entry is logged and the balance drops
	p, err = c.getProposalById(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(types.ProposalStatusExecuted), p.Status)
	entry, err := c.getTreasuryEntryById(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(types.TxnKindTransfer), entry.Kind)
	assert.Equal(t, uint64(200), entry.Amount)
	assert.Equal(t, aliceAddr, entry.ToAddress)
	assert.Equal(t, uint64(1), entry.Proposal)
	assert.Equal(t, uint64(10), entry.Height)
	info, err = c.getDAO()
	require.NoError(t, err)
	assert.Equal(t, uint64(300), info.TreasuryBalance)
}

func TestIndexerQueries(t *testing.T) {
	c := newTestIndexer(t)
	seedLifecycle(t, c)

	t.Run("members newest first", func(t *testing.T) {
		members, total, err := c.getMembers(0, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), total)
		require.Len(t, members, 3)
		assert.Equal(t, uint64(3), members[0].Id)
		assert.Equal(t, uint64(1), members[2].Id)
	})
	t.Run("member by address", func(t *testing.T) {
		m, err := c.getMemberByAddress(aliceAddr)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), m.Id)
		assert.Equal(t, uint64(2500), m.Power)
		// the sender side of the funding transfers moved too
		owner, err := c.getMemberByAddress(ownerAddr)
		require.NoError(t, err)
		assert.Equal(t, uint64(6900), owner.Power)
	})
	t.Run("member paging", func(t *testing.T) {
		members, total, err := c.getMembers(1, 2)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), total)
		require.Len(t, members, 1)
		assert.Equal(t, uint64(1), members[0].Id)
	})
	t.Run("proposals by status", func(t *testing.T) {
		executed, total, err := c.getProposalsByStatus(uint64(types.ProposalStatusExecuted), 0, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)
		require.Len(t, executed, 1)
		assert.Equal(t, uint64(1), executed[0].Id)

		_, total, err = c.getProposalsByStatus(uint64(types.ProposalStatusActive), 0, 10)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
	t.Run("proposals by proposer", func(t *testing.T) {
		proposals, total, err := c.getProposalsByProposerAddr(ownerAddr, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)
		require.Len(t, proposals, 1)
	})
	t.Run("votes by proposal", func(t *testing.T) {
		votes, total, err := c.getVotesByProposal(1, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), total)
		require.Len(t, votes, 2)
	})
	t.Run("votes by voter", func(t *testing.T) {
		votes, total, err := c.getVotesByVoter(bobAddr, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)
		require.Len(t, votes, 1)
		assert.False(t, votes[0].Support)
		assert.Equal(t, uint64(600), votes[0].Power)
	})
	t.Run("treasury entries", func(t *testing.T) {
		entries, total, err := c.getTreasuryEntries(0, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), total)
		require.Len(t, entries, 2)
		// newest first: the payout before the deposit
		assert.Equal(t, uint64(types.TxnKindTransfer), entries[0].Kind)
		assert.Equal(t, uint64(types.TxnKindDeposit), entries[1].Kind)
	})
	t.Run("transfers by address", func(t *testing.T) {
		transfers, total, err := c.getTransfers(0, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), total)
		require.Len(t, transfers, 2)

		transfers, total, err = c.getTransfersByAddress(aliceAddr, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)
		require.Len(t, transfers, 1)
		assert.Equal(t, uint64(2500), transfers[0].Amount)

		_, total, err = c.getTransfersByAddress("unknown", 0, 10)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestIndexerMintRaisesSupply(t *testing.T) {
	c := newTestIndexer(t)
	c.handleEvent(types.EncodeEventInitialize(&types.EventInitialize{
		Owner: 1, OwnerAddress: ownerAddr, Name: "agora", Supply: 10000,
	}), 1)

	// when
	c.handleEvent(types.EncodeEventMint(&types.EventMint{
		To: 2, ToAddress: aliceAddr, Amount: 5000, Supply: 15000,
	}), 4)

	// then the supply follows the event and a mint transfer is logged
	info, err := c.getDAO()
	require.NoError(t, err)
	assert.Equal(t, uint64(15000), info.TotalSupply)
	transfers, total, err := c.getTransfers(0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, transfers, 1)
	assert.True(t, transfers[0].Mint)
	assert.Equal(t, uint64(5000), transfers[0].Amount)

	// minting does not enroll the recipient
	_, err = c.getMemberByAddress(aliceAddr)
	assert.True(t, gorm.IsRecordNotFoundError(err))

	// when the recipient is already a member the cached power follows
	c.handleEvent(types.EncodeEventMint(&types.EventMint{
		To: 1, ToAddress: ownerAddr, Amount: 500, Supply: 15500,
	}), 5)
	owner, err := c.getMemberByAddress(ownerAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(10500), owner.Power)
}

// A transfer to an index the member table never saw enrolls it the way the
// chain does, with the cached power tracking the balance from then on.
func TestIndexerTransferEnrollsRecipient(t *testing.T) {
	c := newTestIndexer(t)
	c.handleEvent(types.EncodeEventInitialize(&types.EventInitialize{
		Owner: 1, OwnerAddress: ownerAddr, Name: "agora", Supply: 10000,
	}), 1)

	// when the owner funds an address that never joined
	c.handleEvent(types.EncodeEventTransfer(&types.EventTransfer{
		From: 1, FromAddress: ownerAddr, To: 2, ToAddress: aliceAddr, Amount: 700,
	}), 3)

	// then a member row appears alongside the transfer
	m, err := c.getMemberByAddress(aliceAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), m.Id)
	assert.Equal(t, uint64(3), m.JoinHeight)
	assert.Equal(t, uint64(700), m.Power)
	owner, err := c.getMemberByAddress(ownerAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(9300), owner.Power)

	// a second transfer moves power without a second row
	c.handleEvent(types.EncodeEventTransfer(&types.EventTransfer{
		From: 1, FromAddress: ownerAddr, To: 2, ToAddress: aliceAddr, Amount: 300,
	}), 4)
	members, total, err := c.getMembers(0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	require.Len(t, members, 2)
	m, err = c.getMemberByAddress(aliceAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), m.Power)
	assert.Equal(t, uint64(3), m.JoinHeight)
}

func TestIndexerRoleUpsert(t *testing.T) {
	c := newTestIndexer(t)

	// when a role is granted and later revoked
	c.handleEvent(types.EncodeEventRole(&types.EventRole{
		Member: 2, Address: aliceAddr, Role: "admin", GrantedBy: 1, Active: true,
	}), 5)
	c.handleEvent(types.EncodeEventRole(&types.EventRole{
		Member: 3, Address: bobAddr, Role: "moderator", GrantedBy: 1, Active: true,
	}), 6)
	c.handleEvent(types.EncodeEventRole(&types.EventRole{
		Member: 2, Address: aliceAddr, Role: "admin", GrantedBy: 1, Active: false,
	}), 9)

	// then the grant row is updated in place, not duplicated
	roles, err := c.getRolesByMember(2)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "admin", roles[0].Role)
	assert.False(t, roles[0].Active)
	assert.Equal(t, uint64(9), roles[0].Height)

	roles, err = c.getRolesByMember(3)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.True(t, roles[0].Active)
}

func TestIndexerPauseFlag(t *testing.T) {
	c := newTestIndexer(t)
	c.handleEvent(types.EncodeEventInitialize(&types.EventInitialize{
		Owner: 1, OwnerAddress: ownerAddr, Name: "agora", Supply: 10000,
	}), 1)

	c.handleEvent(types.EncodeEventPause(&types.EventPause{By: 1, Paused: true}), 5)
	info, err := c.getDAO()
	require.NoError(t, err)
	assert.True(t, info.Paused)

	c.handleEvent(types.EncodeEventPause(&types.EventPause{By: 1, Paused: false}), 6)
	info, err = c.getDAO()
	require.NoError(t, err)
	assert.False(t, info.Paused)
}

func TestIndexerSkipsBadEvents(t *testing.T) {
	c := newTestIndexer(t)

	// neither an unregistered type nor a mangled payload writes rows
	c.handleEvent(abci.Event{Type: "unheard-of"}, 1)
	c.handleEvent(abci.Event{
		Type: types.EventInitializeType,
		Attributes: []abci.EventAttribute{
			{Key: "owner", Value: "not-a-number"},
		},
	}, 1)

	_, err := c.getDAO()
	require.Error(t, err)
	assert.True(t, gorm.IsRecordNotFoundError(err))
}

func TestIndexerResumesAtWatermark(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "indexer.db")

	c, err := NewChainIndexer(cmtlog.NewNopLogger(), dbPath, "http://localhost:26657")
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.Height)

	// when the watermark advances and the process restarts
	require.NoError(t, c.db.Create(&Height{Id: 1, Height: 41}).Error)
	require.NoError(t, c.Close())

	// then indexing resumes just past it
	c, err = NewChainIndexer(cmtlog.NewNopLogger(), dbPath, "http://localhost:26657")
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, int64(42), c.Height)
}
