package state

import (
	"math"
	"testing"

	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agoradao/agora-node/tx"
	"github.com/agoradao/agora-node/types"
)

func TestParseAddress(t *testing.T) {
	pk := ed25519.GenPrivKey()
	addr := pk.PubKey().Address()
	specs := map[string]struct {
		src    string
		expErr bool
	}{
		"upper hex":      {src: addr.String()},
		"0x prefix":      {src: "0x" + addr.String()},
		"0X prefix":      {src: "0X" + addr.String()},
		"too short":      {src: "abcd", expErr: true},
		"too long":       {src: addr.String() + "00", expErr: true},
		"not hex":        {src: "zz12345678901234567890123456789012345678", expErr: true},
		"empty":          {src: "", expErr: true},
		"odd hex length": {src: addr.String()[1:], expErr: true},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			got, err := ParseAddress(spec.src)
			if spec.expErr {
				require.ErrorIs(t, err, ErrAddressInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, addr.Bytes(), got)
		})
	}
}

func TestInitGenesis(t *testing.T) {
	alice := ed25519.GenPrivKey()
	specs := map[string]struct {
		owner  types.GenesisAccount
		allocs []types.GenesisAccount
		expErr error
	}{
		"owner with allocations": {
			owner: types.GenesisAccount{Coins: 100},
			allocs: []types.GenesisAccount{
				{Address: addrOf(alice), Coins: 50},
			},
		},
		"duplicate allocation": {
			owner: types.GenesisAccount{},
			allocs: []types.GenesisAccount{
				{Address: addrOf(alice), Coins: 50},
				{Address: addrOf(alice), Coins: 60},
			},
			expErr: ErrAccountAlreadyExists,
		},
		"coin total overflow": {
			owner: types.GenesisAccount{Coins: 100},
			allocs: []types.GenesisAccount{
				{Address: addrOf(alice), Coins: math.MaxUint64},
			},
			expErr: ErrInvalidParameters,
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			owner := ed25519.GenPrivKey()
			db, err := NewStateDB(t.TempDir(), cmtlog.NewNopLogger())
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })
			st := db.State()
			spec.owner.Address = addrOf(owner)
			// when
			err = st.InitGenesis(&types.AppState{Owner: spec.owner, Params: testParams(), Allocations: spec.allocs})
			// then
			if spec.expErr != nil {
				require.ErrorIs(t, err, spec.expErr)
				return
			}
			require.NoError(t, err)
			gov := st.Gov()
			assert.False(t, gov.Initialized)
			assert.Equal(t, uint64(StartAccountIdx), gov.Owner)
			assert.Equal(t, testParams(), gov.Params)

			oa, err := st.FindAccount(AddressOfPubKey(pubOf(owner)))
			require.NoError(t, err)
			require.NotNil(t, oa)
			assert.Equal(t, spec.owner.Coins, oa.Coins)
			for _, alloc := range spec.allocs {
				addr, err := ParseAddress(alloc.Address)
				require.NoError(t, err)
				a, err := st.FindAccount(addr)
				require.NoError(t, err)
				require.NotNil(t, a)
				assert.Equal(t, alloc.Coins, a.Coins)
			}
		})
	}
}

// The committed tree must survive a close and reopen with every record kind
// intact: header, gov, accounts, balances, members, roles, proposals, votes
// and the treasury log.
func TestStateDBPersistence(t *testing.T) {
	dir := t.TempDir()
	owner := ed25519.GenPrivKey()
	alice := ed25519.GenPrivKey()

	db, err := NewStateDB(dir, cmtlog.NewNopLogger())
	require.NoError(t, err)
	st := db.State()
	require.NoError(t, st.InitGenesis(&types.AppState{
		Owner:  types.GenesisAccount{Address: addrOf(owner), Coins: 500},
		Params: testParams(),
	}))
	st.SetChainId("agora-test")
	st.SetHeight(1)
	_, err = st.Initialize(&tx.InitializeTx{Name: "agora", Supply: 10000}, pubOf(owner), false)
	require.NoError(t, err)
	mustJoin(t, st, alice)
	mustTransfer(t, st, owner, addrOf(alice), 1500)
	_, err = st.Deposit(&tx.DepositTx{Amount: 200}, pubOf(owner), false)
	require.NoError(t, err)

	st.SetHeight(2)
	pEv, err := st.CreateProposal(&tx.ProposalTx{Title: "signal", Kind: uint64(types.ProposalTypeText)}, pubOf(owner), false)
	require.NoError(t, err)
	mustVote(t, st, alice, pEv.Proposal, true)

	_, err = st.Update()
	require.NoError(t, err)
	hash, err := db.SetState(st)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// when
	db2, err := NewStateDB(dir, cmtlog.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db2.Close() })

	// then
	header := db2.Header()
	assert.Equal(t, uint64(2), header.Height)
	assert.Equal(t, "agora-test", header.ChainId)
	assert.Equal(t, hash, db2.State().Hash())

	gov, _ := db2.GovState()
	assert.True(t, gov.Initialized)
	assert.Equal(t, "agora", gov.Name)
	assert.Equal(t, uint64(10000), gov.TotalSupply)
	assert.Equal(t, uint64(200), gov.TreasuryBalance)
	assert.Equal(t, uint64(1), gov.ProposalCount)
	assert.Equal(t, uint64(2), gov.MemberCount)

	ownerAcnt, _, err := db2.GetAccountByAddress(AddressOfPubKey(pubOf(owner)))
	require.NoError(t, err)
	require.NotNil(t, ownerAcnt)
	// initialize, transfer, deposit and proposal each advanced the nonce
	assert.Equal(t, uint64(4), ownerAcnt.Nonce)
	assert.Equal(t, uint64(300), ownerAcnt.Coins)

	aliceAcnt, _, err := db2.GetAccountByAddress(AddressOfPubKey(pubOf(alice)))
	require.NoError(t, err)
	require.NotNil(t, aliceAcnt)
	bal, _, err := db2.GetBalance(aliceAcnt.Index)
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), bal)

	m, _, err := db2.GetMember(aliceAcnt.Index)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, uint64(1), m.VotesCast)

	r, _, err := db2.GetRole(ownerAcnt.Index, types.RoleAdmin)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.True(t, r.Active)

	p, _, err := db2.GetProposal(pEv.Proposal)
	require.NoError(t, err)
	assert.Equal(t, "signal", p.Title)
	assert.Equal(t, uint64(1500), p.VotesFor)

	v, _, err := db2.GetVote(pEv.Proposal, aliceAcnt.Index)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, v.Support)

	txn, _, err := db2.GetTxn(1)
	require.NoError(t, err)
	assert.Equal(t, types.TxnKindDeposit, txn.Kind)
	assert.Equal(t, uint64(200), txn.Amount)

	// the next working view starts past the saved block
	next := db2.NewState()
	assert.Equal(t, uint64(3), next.Header().Height)
	assert.True(t, next.Gov().Initialized)
}

// Block processing applies each tx to a clone and adopts it only on success;
// a discarded clone must leave the parent view untouched.
func TestCloneIsolation(t *testing.T) {
	st, owner := initializedState(t, 10000, 0)
	alice := ed25519.GenPrivKey()

	ownerAcnt, err := st.FindAccount(AddressOfPubKey(pubOf(owner)))
	require.NoError(t, err)
	nonceBefore := ownerAcnt.Nonce

	cl := st.Clone()
	mustTransfer(t, cl, owner, addrOf(alice), 4000)

	// the clone sees its write
	clOwner, err := cl.FindAccount(AddressOfPubKey(pubOf(owner)))
	require.NoError(t, err)
	clBal, err := cl.balanceOf(clOwner.Index)
	require.NoError(t, err)
	assert.Equal(t, uint64(6000), clBal)
	assert.Equal(t, nonceBefore+1, clOwner.Nonce)

	// the parent does not
	bal, err := st.balanceOf(ownerAcnt.Index)
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), bal)
	assert.Equal(t, nonceBefore, ownerAcnt.Nonce)
	aliceAcnt, err := st.FindAccount(AddressOfPubKey(pubOf(alice)))
	require.NoError(t, err)
	assert.Nil(t, aliceAcnt)

	// adopting the clone carries the write forward
	_, err = cl.Update()
	require.NoError(t, err)
	sum, err := cl.SumBalances()
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), sum)
}

func TestVerify(t *testing.T) {
	st, owner := initializedState(t, 10000, 0)
	fresh := ed25519.GenPrivKey()

	signedTx := func(pk ed25519.PrivKey, nonce uint64, chainId string) *tx.GovTx {
		btx := &tx.GovTx{
			Version: tx.GovTxVersion1,
			Type:    tx.GovTxTypeJoin,
			Nonce:   nonce,
			PubKey:  pubOf(pk),
			Tx:      &tx.JoinTx{},
		}
		dat, err := btx.SigData([]byte(chainId))
		require.NoError(t, err)
		sig, err := pk.Sign(dat)
		require.NoError(t, err)
		btx.Sig = [][]byte{sig}
		return btx
	}

	specs := map[string]struct {
		btx           func() *tx.GovTx
		allowNonceGap bool
		expErr        error
	}{
		"known sender with current nonce": {
			// initialize advanced the owner to nonce 1
			btx: func() *tx.GovTx { return signedTx(owner, 1, "agora-test") },
		},
		"fresh sender starts at zero": {
			btx: func() *tx.GovTx { return signedTx(fresh, 0, "agora-test") },
		},
		"nonce gap tolerated in mempool mode": {
			btx:           func() *tx.GovTx { return signedTx(owner, 5, "agora-test") },
			allowNonceGap: true,
		},
		"nonce gap rejected in block mode": {
			btx:    func() *tx.GovTx { return signedTx(owner, 5, "agora-test") },
			expErr: ErrTxNonceInvalid,
		},
		"stale nonce rejected": {
			btx:           func() *tx.GovTx { return signedTx(owner, 0, "agora-test") },
			allowNonceGap: true,
			expErr:        ErrTxNonceInvalid,
		},
		"foreign chain id": {
			btx:    func() *tx.GovTx { return signedTx(owner, 1, "other-chain") },
			expErr: ErrTxSigInvalid,
		},
		"signature by another key": {
			btx: func() *tx.GovTx {
				btx := signedTx(owner, 1, "agora-test")
				other := signedTx(fresh, 1, "agora-test")
				btx.Sig = other.Sig
				return btx
			},
			expErr: ErrTxSigInvalid,
		},
		"tampered payload": {
			btx: func() *tx.GovTx {
				btx := signedTx(owner, 1, "agora-test")
				btx.Nonce = 2
				return btx
			},
			allowNonceGap: true,
			expErr:        ErrTxSigInvalid,
		},
		"unsupported version": {
			btx: func() *tx.GovTx {
				btx := signedTx(owner, 1, "agora-test")
				btx.Version = 9
				return btx
			},
			expErr: tx.ErrUnsupportedTxVersion,
		},
		"bad pubkey size": {
			btx: func() *tx.GovTx {
				btx := signedTx(owner, 1, "agora-test")
				btx.PubKey = btx.PubKey[:16]
				return btx
			},
			expErr: ErrTxPubKeyInvalid,
		},
		"missing signature": {
			btx: func() *tx.GovTx {
				btx := signedTx(owner, 1, "agora-test")
				btx.Sig = nil
				return btx
			},
			expErr: ErrTxSigInvalid,
		},
		"extra signatures": {
			btx: func() *tx.GovTx {
				btx := signedTx(owner, 1, "agora-test")
				btx.Sig = append(btx.Sig, btx.Sig[0])
				return btx
			},
			expErr: ErrTxSigInvalid,
		},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			succ, err := st.Verify(spec.btx(), spec.allowNonceGap)
			if spec.expErr != nil {
				require.ErrorIs(t, err, spec.expErr)
				assert.False(t, succ)
				return
			}
			require.NoError(t, err)
			assert.True(t, succ)
		})
	}
}

func TestPrefixEndBytes(t *testing.T) {
	assert.Equal(t, []byte("h"), PrefixEndBytes([]byte("g")))
	assert.Equal(t, []byte{0x02}, PrefixEndBytes([]byte{0x01, 0xff}))
	assert.Nil(t, PrefixEndBytes([]byte{0xff}))
	assert.Nil(t, PrefixEndBytes(nil))
}
