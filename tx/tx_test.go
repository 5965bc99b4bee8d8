package tx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalGovTxDispatch(t *testing.T) {
	specs := map[string]struct {
		txType  GovTxType
		payload any
	}{
		"initialize": {GovTxTypeInitialize, &InitializeTx{Name: "agora", Description: "a collective", Supply: 10000}},
		"join":       {GovTxTypeJoin, &JoinTx{}},
		"transfer":   {GovTxTypeTransfer, &TransferTx{To: "aabb", Amount: 42}},
		"proposal":   {GovTxTypeProposal, &ProposalTx{Title: "grant", Kind: 1, Target: "ccdd", Amount: 800}},
		"vote":       {GovTxTypeVote, &VoteTx{Proposal: 7, Support: true}},
		"role":       {GovTxTypeRole, &RoleTx{To: "eeff", Role: "admin", Active: true}},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			btx := &GovTx{
				Version: GovTxVersion1,
				Type:    spec.txType,
				Nonce:   3,
				PubKey:  []byte{0xde, 0xad},
				Tx:      spec.payload,
				Sig:     [][]byte{{0x01}},
			}
			dat, err := MarshalGovTx(btx)
			require.NoError(t, err)
			// when
			got, err := UnmarshalGovTx(dat)
			// then
			require.NoError(t, err)
			assert.Equal(t, btx.Version, got.Version)
			assert.Equal(t, btx.Type, got.Type)
			assert.Equal(t, btx.Nonce, got.Nonce)
			assert.Equal(t, btx.PubKey, got.PubKey)
			assert.Equal(t, btx.Sig, got.Sig)
			// the payload comes back as the concrete type for its arm
			assert.Equal(t, spec.payload, got.Tx)
		})
	}
}

func TestUnmarshalGovTxRejectsUnknown(t *testing.T) {
	_, err := UnmarshalGovTx([]byte(`{"version":1,"type":99,"tx":{}}`))
	require.ErrorIs(t, err, ErrUnsupportedTxType)

	_, err = UnmarshalGovTx([]byte(`not json`))
	require.ErrorIs(t, err, ErrUnsupportedTxType)
}

func TestSigDataBindsChainId(t *testing.T) {
	btx := &GovTx{
		Version: GovTxVersion1,
		Type:    GovTxTypeVote,
		Nonce:   1,
		PubKey:  []byte{0x01, 0x02},
		Tx:      &VoteTx{Proposal: 1, Support: true},
	}
	a, err := btx.SigData([]byte("chain-a"))
	require.NoError(t, err)
	b, err := btx.SigData([]byte("chain-b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	// the signature slot carries the chain id, never the signature itself
	btx.Sig = [][]byte{[]byte("some signature")}
	c, err := btx.SigData([]byte("chain-a"))
	require.NoError(t, err)
	assert.Equal(t, a, c)
}
