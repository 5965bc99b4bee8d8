package state

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agoradao/agora-node/tx"
	"github.com/agoradao/agora-node/types"
	cmtcrypto "github.com/cometbft/cometbft/crypto"
	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/cometbft/cometbft/crypto/tmhash"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cosmos/iavl"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/syndtr/goleveldb/leveldb"
)

const (
	StartAccountIdx = 1

	ModifiedFlagNew = 1 << 0
	ModifiedFlagMod = 1 << 1
)

var (
	ErrNotFound = errors.New("not found")
)

var (
	KeyHeader       = "s"
	KeyGov          = "d"
	KeyAccountIndex = "i%s"
	KeyAccountBody  = "a%x"
	KeyBalance      = "g%x"
	KeyMember       = "m%x"
	KeyRole         = "r%x:%s"
	KeyProposalBody = "p%v"
	KeyVote         = "v%v:%x"
	KeyTxnBody      = "t%v"
)

// Plumbing errors: envelope and record level failures.
var (
	ErrTxSenderNoexists     = errors.New("sender noexists")
	ErrTxNonceInvalid       = errors.New("nonce invalid")
	ErrTxSigInvalid         = errors.New("signature invalid")
	ErrTxPubKeyInvalid      = errors.New("pubkey invalid")
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrAccountNoexists      = errors.New("account noexists")
	ErrAddressInvalid       = errors.New("address invalid")
)

// Governance errors: the closed failure vocabulary of every operation.
var (
	ErrUnauthorized            = errors.New("unauthorized")
	ErrInvalidProposal         = errors.New("invalid proposal")
	ErrProposalNotFound        = errors.New("proposal not found")
	ErrVotingPeriodEnded       = errors.New("voting period ended")
	ErrAlreadyVoted            = errors.New("already voted")
	ErrInsufficientVotingPower = errors.New("insufficient voting power")
	ErrProposalNotActive       = errors.New("proposal not active")
	ErrProposalAlreadyExecuted = errors.New("proposal already executed")
	ErrExecutionFailed         = errors.New("execution failed")
	ErrEmergencyPause          = errors.New("governance paused")
	ErrInvalidParameters       = errors.New("invalid parameters")
)

type StateHeader struct {
	Height     uint64 `json:"height"`
	ChainId    string `json:"chain_id"`
	AccountIdx uint64 `json:"account_idx"`
	RootHash   []byte `json:"root_hash,omitempty"`
	Hash       []byte `json:"hash,omitempty"`
}

func (h *StateHeader) Clone() *StateHeader {
	n := &StateHeader{
		Height:     h.Height,
		ChainId:    h.ChainId,
		AccountIdx: h.AccountIdx,
	}
	if h.RootHash != nil {
		n.RootHash = append([]byte{}, h.RootHash...)
	}
	if h.Hash != nil {
		n.Hash = append([]byte{}, h.Hash...)
	}
	return n
}

// State is one working view over the governance tree. Reads fall through the
// caches to the tree; writes stay in the dirty maps until Update pushes them
// into the tree's working version. Clones share the tree and copy the maps,
// which is what makes a per-tx all-or-nothing apply cheap.
type State struct {
	logger cmtlog.Logger
	db     *iavl.MutableTree
	dbVer  int64

	header *StateHeader
	gov    *types.GovState
	govMod bool

	idxs  map[string]uint64
	acnts map[uint64]*Account

	modifiedAcnts    map[uint64]uint32
	balances         map[uint64]uint64
	modifiedBalances map[uint64]struct{}
	members          map[uint64]*types.Member
	modifiedMembers  map[uint64]struct{}
	roles            map[string]*types.RoleRecord
	modifiedRoles    map[string]struct{}

	modProposals map[uint64]*types.Proposal
	newVotes     map[string]*types.VoteRecord
	newTxns      map[uint64]*types.TreasuryTxn
}

func newState(db *iavl.MutableTree, logger cmtlog.Logger) *State {
	s := &State{
		logger:           logger,
		db:               db,
		dbVer:            0,
		header:           new(StateHeader),
		gov:              new(types.GovState),
		idxs:             make(map[string]uint64),
		acnts:            make(map[uint64]*Account),
		modifiedAcnts:    make(map[uint64]uint32),
		balances:         make(map[uint64]uint64),
		modifiedBalances: make(map[uint64]struct{}),
		members:          make(map[uint64]*types.Member),
		modifiedMembers:  make(map[uint64]struct{}),
		roles:            make(map[string]*types.RoleRecord),
		modifiedRoles:    make(map[string]struct{}),
		modProposals:     make(map[uint64]*types.Proposal),
		newVotes:         make(map[string]*types.VoteRecord),
		newTxns:          make(map[uint64]*types.TreasuryTxn),
	}
	s.header.AccountIdx = StartAccountIdx
	return s
}

// nextState starts a fresh working view for the next block: caches reset,
// height advanced past the last saved block.
func (s *State) nextState() *State {
	n := newState(s.db, s.logger)
	n.dbVer = s.dbVer
	n.header = s.header.Clone()
	gov := *s.gov
	n.gov = &gov
	if s.header.Hash != nil {
		n.header.Height = s.header.Height + 1
	}
	return n
}

func deepCopyMap[K comparable, V any](source map[K]V) map[K]V {
	res := make(map[K]V)
	for k, v := range source {
		switch x := any(v).(type) {
		case *Account:
			res[k] = any(x.Clone()).(V)
		case *types.Proposal:
			cp := *x
			res[k] = any(&cp).(V)
		case *types.Member:
			cp := *x
			res[k] = any(&cp).(V)
		case *types.RoleRecord:
			cp := *x
			res[k] = any(&cp).(V)
		case *types.VoteRecord:
			cp := *x
			res[k] = any(&cp).(V)
		case *types.TreasuryTxn:
			cp := *x
			res[k] = any(&cp).(V)
		default:
			res[k] = v
		}
	}
	return res
}

// Clone copies the working view at the same height, dirty state included.
// The block loops apply each tx to a clone and adopt it only on success.
func (s *State) Clone() *State {
	n := &State{
		logger:           s.logger,
		db:               s.db,
		dbVer:            s.dbVer,
		header:           s.header.Clone(),
		govMod:           s.govMod,
		idxs:             deepCopyMap(s.idxs),
		acnts:            deepCopyMap(s.acnts),
		modifiedAcnts:    deepCopyMap(s.modifiedAcnts),
		balances:         deepCopyMap(s.balances),
		modifiedBalances: deepCopyMap(s.modifiedBalances),
		members:          deepCopyMap(s.members),
		modifiedMembers:  deepCopyMap(s.modifiedMembers),
		roles:            deepCopyMap(s.roles),
		modifiedRoles:    deepCopyMap(s.modifiedRoles),
		modProposals:     deepCopyMap(s.modProposals),
		newVotes:         deepCopyMap(s.newVotes),
		newTxns:          deepCopyMap(s.newTxns),
	}
	gov := *s.gov
	n.gov = &gov
	return n
}

func (s *State) load() (err error) {
	val, err := s.db.Get([]byte(KeyHeader))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil
		}
		return err
	}
	if val != nil {
		err = json.Unmarshal(val, s.header)
		if err != nil {
			return
		}
		h := s.db.Hash()
		if h != nil {
			s.calcHash(h, true)
		}
	}
	val, err = s.db.Get([]byte(KeyGov))
	if err != nil {
		if err != leveldb.ErrNotFound {
			return err
		}
	}
	if val != nil {
		err = json.Unmarshal(val, s.gov)
		if err != nil {
			return
		}
	}
	return nil
}

func (s *State) calcHash(rootHash []byte, update bool) (h common.Hash) {
	h = crypto.Keccak256Hash(rootHash)
	if update {
		if s.header.RootHash == nil {
			s.header.RootHash = make([]byte, len(rootHash))
		}
		copy(s.header.RootHash, rootHash)
		if s.header.Hash == nil {
			s.header.Hash = make([]byte, len(h))
		}
		copy(s.header.Hash, h[:])
	}
	return
}

// Update pushes every dirty record into the tree's working version and
// returns the app hash for the block. A write failure rolls the working
// version back so the committed state stays untouched.
func (s *State) Update() (h common.Hash, err error) {
	var hash []byte
	defer func() {
		if hash == nil {
			s.db.Rollback()
		}
	}()
	var val []byte
	val, err = json.Marshal(s.header)
	if err != nil {
		return
	}
	_, err = s.db.Set([]byte(KeyHeader), val)
	if err != nil {
		return
	}

	if s.govMod {
		val, err = json.Marshal(s.gov)
		if err != nil {
			return
		}
		_, err = s.db.Set([]byte(KeyGov), val)
		if err != nil {
			return
		}
	}

	if len(s.modProposals) > 0 {
		ids := make([]uint64, 0, len(s.modProposals))
		for id := range s.modProposals {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			key := fmt.Sprintf(KeyProposalBody, id)
			val, err = json.Marshal(s.modProposals[id])
			if err != nil {
				return
			}
			_, err = s.db.Set([]byte(key), val)
			if err != nil {
				return
			}
		}
	}

	if len(s.newVotes) > 0 {
		keys := make([]string, 0, len(s.newVotes))
		for k := range s.newVotes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			val, err = json.Marshal(s.newVotes[k])
			if err != nil {
				return
			}
			_, err = s.db.Set([]byte(k), val)
			if err != nil {
				return
			}
		}
	}

	if len(s.newTxns) > 0 {
		ids := make([]uint64, 0, len(s.newTxns))
		for id := range s.newTxns {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			key := fmt.Sprintf(KeyTxnBody, id)
			val, err = json.Marshal(s.newTxns[id])
			if err != nil {
				return
			}
			_, err = s.db.Set([]byte(key), val)
			if err != nil {
				return
			}
		}
	}

	if len(s.modifiedBalances) > 0 {
		idxs := make([]uint64, 0, len(s.modifiedBalances))
		for idx := range s.modifiedBalances {
			idxs = append(idxs, idx)
		}
		sort.Slice(idxs, func(i, j int) bool { return idxs[i] < idxs[j] })
		for _, idx := range idxs {
			key := fmt.Sprintf(KeyBalance, idx)
			val, err = rlp.EncodeToBytes(s.balances[idx])
			if err != nil {
				return
			}
			_, err = s.db.Set([]byte(key), val)
			if err != nil {
				return
			}
		}
	}

	if len(s.modifiedMembers) > 0 {
		idxs := make([]uint64, 0, len(s.modifiedMembers))
		for idx := range s.modifiedMembers {
			idxs = append(idxs, idx)
		}
		sort.Slice(idxs, func(i, j int) bool { return idxs[i] < idxs[j] })
		for _, idx := range idxs {
			key := fmt.Sprintf(KeyMember, idx)
			val, err = json.Marshal(s.members[idx])
			if err != nil {
				return
			}
			_, err = s.db.Set([]byte(key), val)
			if err != nil {
				return
			}
		}
	}

	if len(s.modifiedRoles) > 0 {
		keys := make([]string, 0, len(s.modifiedRoles))
		for k := range s.modifiedRoles {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			val, err = json.Marshal(s.roles[k])
			if err != nil {
				return
			}
			_, err = s.db.Set([]byte(k), val)
			if err != nil {
				return
			}
		}
	}

	n := len(s.modifiedAcnts)
	if n > 0 {
		idxs := make([]uint64, n)
		i := 0
		for idx := range s.modifiedAcnts {
			idxs[i] = idx
			i += 1
		}
		sort.Slice(idxs, func(i, j int) bool {
			return idxs[i] < idxs[j]
		})
		for _, idx := range idxs {
			flag := s.modifiedAcnts[idx]
			acnt := s.acnts[idx]
			key := fmt.Sprintf(KeyAccountBody, acnt.Index)
			val, err = json.Marshal(acnt)
			if err != nil {
				return
			}
			_, err = s.db.Set([]byte(key), val)
			if err != nil {
				return
			}
			if flag&ModifiedFlagNew == ModifiedFlagNew {
				key = fmt.Sprintf(KeyAccountIndex, acnt.Address())
				val, err = rlp.EncodeToBytes(acnt.Index)
				if err != nil {
					return
				}
				_, err = s.db.Set([]byte(key), val)
				if err != nil {
					return
				}
			}
		}
	}
	hash = s.db.WorkingHash()
	h = s.calcHash(hash, false)
	s.modifiedAcnts = make(map[uint64]uint32)
	s.modifiedBalances = make(map[uint64]struct{})
	s.modifiedMembers = make(map[uint64]struct{})
	s.modifiedRoles = make(map[string]struct{})
	s.modProposals = make(map[uint64]*types.Proposal)
	s.newVotes = make(map[string]*types.VoteRecord)
	s.newTxns = make(map[uint64]*types.TreasuryTxn)
	s.govMod = false
	return
}

func (s *State) save() (h common.Hash, err error) {
	hash, ver, err := s.db.SaveVersion()
	if err != nil {
		return h, err
	}

	s.dbVer = ver
	h = s.calcHash(hash, true)

	return
}

func (s *State) Header() *StateHeader {
	return s.header
}

func (s *State) Gov() *types.GovState {
	return s.gov
}

func (s *State) Hash() (h common.Hash) {
	if s.header.Hash != nil {
		copy(h[:], s.header.Hash)
	}
	return
}

func (s *State) SetChainId(chainId string) {
	s.header.ChainId = chainId
}

func (s *State) SetHeight(height uint64) {
	s.header.Height = height
}

// ParseAddress decodes a 20 byte account address from hex, 0x prefix optional.
func ParseAddress(saddr string) ([]byte, error) {
	saddr = strings.TrimPrefix(strings.TrimPrefix(saddr, "0x"), "0X")
	addr, err := hex.DecodeString(saddr)
	if err != nil {
		return nil, ErrAddressInvalid
	}
	if len(addr) != tmhash.TruncatedSize {
		return nil, ErrAddressInvalid
	}
	return addr, nil
}

func (s *State) GetAccount(idx uint64) (acnt *Account, err error) {
	if idx >= s.header.AccountIdx {
		err = ErrAccountNoexists
		return
	}
	acnt = s.acnts[idx]
	if acnt != nil {
		return
	}
	key := fmt.Sprintf(KeyAccountBody, idx)
	val, err := s.db.Get([]byte(key))
	if err != nil {
		return nil, err
	}
	if val == nil {
		err = ErrNotFound
		return
	}
	acnt = new(Account)
	err = json.Unmarshal(val, acnt)
	if err != nil {
		acnt = nil
		return
	}
	s.acnts[idx] = acnt
	return
}

func (s *State) FindAccount(addr []byte) (acnt *Account, err error) {
	saddr := cmtcrypto.Address(addr).String()
	idx, ok := s.idxs[saddr]
	if !ok {
		key := fmt.Sprintf(KeyAccountIndex, saddr)
		val, err := s.db.Get([]byte(key))
		if err != nil {
			if err == leveldb.ErrNotFound {
				return nil, nil
			}
			return nil, err
		}
		if val == nil {
			return nil, nil
		}
		err = rlp.DecodeBytes(val, &idx)
		if err != nil {
			return nil, err
		}
		s.idxs[saddr] = idx
	}
	acnt, err = s.GetAccount(idx)

	return
}

// createAccount allocates the next index for addr. Callers check for an
// existing record first.
func (s *State) createAccount(addr, pubkey []byte) *Account {
	acnt := NewAccount(addr, pubkey)
	acnt.Index = s.header.AccountIdx
	s.header.AccountIdx += 1
	s.acnts[acnt.Index] = acnt
	s.idxs[acnt.Address()] = acnt.Index
	s.modifiedAcnts[acnt.Index] = ModifiedFlagNew
	return acnt
}

// touchAccount marks a mutated record dirty without advancing its nonce.
func (s *State) touchAccount(a *Account) {
	s.modifiedAcnts[a.Index] |= ModifiedFlagMod
	s.acnts[a.Index] = a
}

func (s *State) touchSender(a *Account, pubkey []byte) {
	flag := s.modifiedAcnts[a.Index]
	if len(a.PubKey) == 0 && len(pubkey) > 0 {
		a.SetPubKey(pubkey)
	}
	a.Nonce += 1
	flag |= ModifiedFlagMod
	s.modifiedAcnts[a.Index] = flag
	s.acnts[a.Index] = a
}

// Verify checks the envelope against the working view: pubkey shape, nonce
// continuity for known accounts (zero for fresh ones), and the ed25519
// signature over SigData with the chain id bound in.
func (s *State) Verify(btx *tx.GovTx, allowNonceGap bool) (succ bool, err error) {
	if btx.Version != tx.GovTxVersion1 {
		return false, tx.ErrUnsupportedTxVersion
	}
	if len(btx.PubKey) != ed25519.PubKeySize {
		return false, ErrTxPubKeyInvalid
	}
	a, err := s.FindAccount(AddressOfPubKey(btx.PubKey))
	if err != nil {
		return false, err
	}
	var nonce uint64
	if a != nil {
		nonce = a.Nonce
	}
	if !(nonce == btx.Nonce || (allowNonceGap && nonce < btx.Nonce)) {
		err = ErrTxNonceInvalid
		return
	}
	if len(btx.Sig) != 1 {
		err = ErrTxSigInvalid
		return
	}
	dat, err := btx.SigData([]byte(s.header.ChainId))
	if err != nil {
		return succ, err
	}
	succ = ed25519.PubKey(btx.PubKey).VerifySignature(dat, btx.Sig[0])
	if !succ {
		err = ErrTxSigInvalid
	}
	return
}

func (s *State) balanceOf(idx uint64) (uint64, error) {
	if bal, ok := s.balances[idx]; ok {
		return bal, nil
	}
	key := fmt.Sprintf(KeyBalance, idx)
	val, err := s.db.Get([]byte(key))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	if val == nil {
		return 0, nil
	}
	var bal uint64
	if err := rlp.DecodeBytes(val, &bal); err != nil {
		return 0, err
	}
	s.balances[idx] = bal
	return bal, nil
}

// setBalance writes the authoritative balance and refreshes the member's
// cached voting power when a member record exists.
func (s *State) setBalance(idx uint64, amount uint64) error {
	s.balances[idx] = amount
	s.modifiedBalances[idx] = struct{}{}
	m, err := s.getMember(idx)
	if err != nil {
		return err
	}
	if m != nil {
		m.VotingPower = amount
		s.putMember(m)
	}
	return nil
}

func (s *State) getMember(idx uint64) (*types.Member, error) {
	if m, ok := s.members[idx]; ok {
		return m, nil
	}
	key := fmt.Sprintf(KeyMember, idx)
	val, err := s.db.Get([]byte(key))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	m := new(types.Member)
	if err := json.Unmarshal(val, m); err != nil {
		return nil, err
	}
	s.members[idx] = m
	return m, nil
}

func (s *State) putMember(m *types.Member) {
	cp := *m
	s.members[m.Index] = &cp
	s.modifiedMembers[m.Index] = struct{}{}
}

func (s *State) getRole(idx uint64, role string) (*types.RoleRecord, error) {
	key := fmt.Sprintf(KeyRole, idx, role)
	if r, ok := s.roles[key]; ok {
		return r, nil
	}
	val, err := s.db.Get([]byte(key))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	r := new(types.RoleRecord)
	if err := json.Unmarshal(val, r); err != nil {
		return nil, err
	}
	s.roles[key] = r
	return r, nil
}

func (s *State) putRole(r *types.RoleRecord) {
	key := fmt.Sprintf(KeyRole, r.Index, r.Role)
	cp := *r
	s.roles[key] = &cp
	s.modifiedRoles[key] = struct{}{}
}

// isAdmin covers the owner and any account holding an active admin role.
func (s *State) isAdmin(idx uint64) (bool, error) {
	if s.gov.Initialized && s.gov.Owner == idx {
		return true, nil
	}
	r, err := s.getRole(idx, types.RoleAdmin)
	if err != nil {
		return false, err
	}
	return r != nil && r.Active, nil
}

func (s *State) getProposal(id uint64) (*types.Proposal, error) {
	if id == 0 || id > s.gov.ProposalCount {
		return nil, ErrProposalNotFound
	}
	if p, ok := s.modProposals[id]; ok {
		return p, nil
	}
	key := fmt.Sprintf(KeyProposalBody, id)
	val, err := s.db.Get([]byte(key))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	if val == nil {
		return nil, ErrProposalNotFound
	}
	p := new(types.Proposal)
	if err := json.Unmarshal(val, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *State) putProposal(p *types.Proposal) {
	cp := *p
	s.modProposals[p.Id] = &cp
}

func voteKey(proposal, voter uint64) string {
	return fmt.Sprintf(KeyVote, proposal, voter)
}

func (s *State) getVote(proposal, voter uint64) (*types.VoteRecord, error) {
	key := voteKey(proposal, voter)
	if v, ok := s.newVotes[key]; ok {
		return v, nil
	}
	val, err := s.db.Get([]byte(key))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	v := new(types.VoteRecord)
	if err := json.Unmarshal(val, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *State) putVote(v *types.VoteRecord) {
	cp := *v
	s.newVotes[voteKey(v.Proposal, v.Voter)] = &cp
}

func (s *State) getTxn(id uint64) (*types.TreasuryTxn, error) {
	if id == 0 || id > s.gov.TxnCount {
		return nil, ErrNotFound
	}
	if t, ok := s.newTxns[id]; ok {
		return t, nil
	}
	key := fmt.Sprintf(KeyTxnBody, id)
	val, err := s.db.Get([]byte(key))
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if val == nil {
		return nil, ErrNotFound
	}
	t := new(types.TreasuryTxn)
	if err := json.Unmarshal(val, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *State) appendTxn(t *types.TreasuryTxn) {
	cp := *t
	s.newTxns[t.Id] = &cp
}

// SumBalances walks the balance keyspace of the tree's working version.
// With the supply conservation invariant the result equals TotalSupply.
func (s *State) SumBalances() (uint64, error) {
	start := []byte("g")
	end := PrefixEndBytes(start)
	it, err := s.db.Iterator(start, end, true)
	if err != nil {
		return 0, err
	}
	defer it.Close()
	var sum uint64
	for ; it.Valid(); it.Next() {
		var bal uint64
		if err := rlp.DecodeBytes(it.Value(), &bal); err != nil {
			return 0, err
		}
		sum += bal
	}
	return sum, nil
}

// InitGenesis seeds the tree from the genesis app state: the owner account,
// native coin allocations, and the fixed governance params. The DAO itself
// stays uninitialized until the owner sends the initialize tx.
func (s *State) InitGenesis(as *types.AppState) error {
	ownerAddr, err := ParseAddress(as.Owner.Address)
	if err != nil {
		return err
	}
	var ownerPk []byte
	if as.Owner.PubKey != "" {
		ownerPk, err = hex.DecodeString(as.Owner.PubKey)
		if err != nil {
			return ErrTxPubKeyInvalid
		}
	}
	owner := s.createAccount(ownerAddr, ownerPk)
	owner.Coins = as.Owner.Coins

	var total uint64 = as.Owner.Coins
	for _, alloc := range as.Allocations {
		addr, err := ParseAddress(alloc.Address)
		if err != nil {
			return err
		}
		exist, err := s.FindAccount(addr)
		if err != nil {
			return err
		}
		if exist != nil {
			return ErrAccountAlreadyExists
		}
		var pk []byte
		if alloc.PubKey != "" {
			pk, err = hex.DecodeString(alloc.PubKey)
			if err != nil {
				return ErrTxPubKeyInvalid
			}
		}
		if total+alloc.Coins < total {
			return ErrInvalidParameters
		}
		total += alloc.Coins
		a := s.createAccount(addr, pk)
		a.Coins = alloc.Coins
	}

	s.gov.Owner = owner.Index
	s.gov.OwnerAddress = owner.Address()
	s.gov.Params = as.Params
	s.govMod = true
	return nil
}

func PrefixEndBytes(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}

	end := make([]byte, len(prefix))
	copy(end, prefix)

	for {
		if end[len(end)-1] != byte(255) {
			end[len(end)-1]++
			break
		}

		end = end[:len(end)-1]

		if len(end) == 0 {
			end = nil
			break
		}
	}

	return end
}
