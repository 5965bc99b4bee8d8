package state

import (
	"github.com/agoradao/agora-node/tx"
	"github.com/agoradao/agora-node/types"
	"github.com/cometbft/cometbft/crypto/ed25519"
)

const StartingReputation = 100

// Every operation below validates first and mutates only past the checkOnly
// gate, so a failed call leaves the working view untouched. The block loops
// add the second fence: each tx runs on a clone adopted only on success.

func (s *State) sender(pubkey []byte) (*Account, error) {
	if len(pubkey) != ed25519.PubKeySize {
		return nil, ErrTxPubKeyInvalid
	}
	return s.FindAccount(AddressOfPubKey(pubkey))
}

// Initialize flips the one way latch: names the DAO, mints the initial
// supply to the owner, and seats the owner as first member and admin.
func (s *State) Initialize(itx *tx.InitializeTx, pubkey []byte, checkOnly bool) (event *types.EventInitialize, err error) {
	a, err := s.sender(pubkey)
	if err != nil {
		return nil, err
	}
	if s.gov.Initialized {
		return nil, ErrUnauthorized
	}
	if a == nil || a.Index != s.gov.Owner {
		return nil, ErrUnauthorized
	}
	if itx.Name == "" || itx.Supply == 0 {
		return nil, ErrInvalidParameters
	}
	if checkOnly {
		return nil, nil
	}
	s.logger.Debug("apply initialize", "owner", a.Index, "supply", itx.Supply, "height", s.header.Height)

	s.gov.Initialized = true
	s.gov.Name = itx.Name
	s.gov.Description = itx.Description
	s.gov.TotalSupply = itx.Supply
	s.gov.MemberCount = 1
	s.govMod = true
	if err = s.setBalance(a.Index, itx.Supply); err != nil {
		return nil, err
	}
	s.putMember(&types.Member{
		Index:       a.Index,
		Address:     a.Address(),
		JoinHeight:  s.header.Height,
		VotingPower: itx.Supply,
		Reputation:  StartingReputation,
		Active:      true,
	})
	s.putRole(&types.RoleRecord{
		Index:     a.Index,
		Address:   a.Address(),
		Role:      types.RoleAdmin,
		GrantedBy: a.Index,
		Height:    s.header.Height,
		Active:    true,
	})
	s.touchSender(a, pubkey)

	event = &types.EventInitialize{
		Owner:        a.Index,
		OwnerAddress: a.Address(),
		Name:         itx.Name,
		Supply:       itx.Supply,
	}
	return
}

// Join registers the sender as a member. Rejoining is rejected; the member
// record is permanent.
func (s *State) Join(pubkey []byte, checkOnly bool) (event *types.EventMember, err error) {
	if !s.gov.Initialized {
		return nil, ErrUnauthorized
	}
	a, err := s.sender(pubkey)
	if err != nil {
		return nil, err
	}
	if a != nil {
		m, err := s.getMember(a.Index)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return nil, ErrUnauthorized
		}
	}
	if checkOnly {
		return nil, nil
	}
	if a == nil {
		a = s.createAccount(AddressOfPubKey(pubkey), pubkey)
	}
	bal, err := s.balanceOf(a.Index)
	if err != nil {
		return nil, err
	}
	s.putMember(&types.Member{
		Index:       a.Index,
		Address:     a.Address(),
		JoinHeight:  s.header.Height,
		VotingPower: bal,
		Reputation:  StartingReputation,
		Active:      true,
	})
	s.gov.MemberCount += 1
	s.govMod = true
	s.touchSender(a, pubkey)

	event = &types.EventMember{
		Member:     a.Index,
		Address:    a.Address(),
		JoinHeight: s.header.Height,
		Power:      bal,
	}
	return
}

// Transfer moves governance balance between members. The live balance is
// authoritative; member records only cache it for display. A recipient
// without a member record is registered as one, at zero reputation, so
// every balance holder can vote.
func (s *State) Transfer(ttx *tx.TransferTx, pubkey []byte, checkOnly bool) (event *types.EventTransfer, err error) {
	if !s.gov.Initialized {
		return nil, ErrUnauthorized
	}
	if ttx.Amount == 0 {
		return nil, ErrInvalidParameters
	}
	toAddr, err := ParseAddress(ttx.To)
	if err != nil {
		return nil, ErrInvalidParameters
	}
	a, err := s.sender(pubkey)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrUnauthorized
	}
	m, err := s.getMember(a.Index)
	if err != nil {
		return nil, err
	}
	if m == nil || !m.Active {
		return nil, ErrUnauthorized
	}
	bal, err := s.balanceOf(a.Index)
	if err != nil {
		return nil, err
	}
	if bal < ttx.Amount {
		return nil, ErrInsufficientVotingPower
	}
	if checkOnly {
		return nil, nil
	}
	s.logger.Debug("apply transfer", "from", a.Index, "amount", ttx.Amount, "height", s.header.Height)

	to, err := s.FindAccount(toAddr)
	if err != nil {
		return nil, err
	}
	if to == nil {
		to = s.createAccount(toAddr, nil)
	}
	tom, err := s.getMember(to.Index)
	if err != nil {
		return nil, err
	}
	if tom == nil {
		s.putMember(&types.Member{
			Index:      to.Index,
			Address:    to.Address(),
			JoinHeight: s.header.Height,
			Active:     true,
		})
		s.gov.MemberCount += 1
		s.govMod = true
	}
	if err = s.setBalance(a.Index, bal-ttx.Amount); err != nil {
		return nil, err
	}
	tob, err := s.balanceOf(to.Index)
	if err != nil {
		return nil, err
	}
	if err = s.setBalance(to.Index, tob+ttx.Amount); err != nil {
		return nil, err
	}
	s.touchSender(a, pubkey)

	event = &types.EventTransfer{
		From:        a.Index,
		FromAddress: a.Address(),
		To:          to.Index,
		ToAddress:   to.Address(),
		Amount:      ttx.Amount,
	}
	return
}

// Mint grows the supply. Owner only, and the supply must not overflow.
func (s *State) Mint(mtx *tx.MintTx, pubkey []byte, checkOnly bool) (event *types.EventMint, err error) {
	if !s.gov.Initialized {
		return nil, ErrUnauthorized
	}
	a, err := s.sender(pubkey)
	if err != nil {
		return nil, err
	}
	if a == nil || a.Index != s.gov.Owner {
		return nil, ErrUnauthorized
	}
	if mtx.Amount == 0 {
		return nil, ErrInvalidParameters
	}
	toAddr, err := ParseAddress(mtx.To)
	if err != nil {
		return nil, ErrInvalidParameters
	}
	if s.gov.TotalSupply+mtx.Amount < s.gov.TotalSupply {
		return nil, ErrInvalidParameters
	}
	if checkOnly {
		return nil, nil
	}

	to, err := s.FindAccount(toAddr)
	if err != nil {
		return nil, err
	}
	if to == nil {
		to = s.createAccount(toAddr, nil)
	}
	s.gov.TotalSupply += mtx.Amount
	s.govMod = true
	tob, err := s.balanceOf(to.Index)
	if err != nil {
		return nil, err
	}
	if err = s.setBalance(to.Index, tob+mtx.Amount); err != nil {
		return nil, err
	}
	s.touchSender(a, pubkey)

	event = &types.EventMint{
		To:        to.Index,
		ToAddress: to.Address(),
		Amount:    mtx.Amount,
		Supply:    s.gov.TotalSupply,
	}
	return
}

// CreateProposal opens a voting window. The quorum requirement is
// snapshotted from the supply here and never revised.
func (s *State) CreateProposal(ptx *tx.ProposalTx, pubkey []byte, checkOnly bool) (event *types.EventProposal, err error) {
	if s.gov.Paused {
		return nil, ErrEmergencyPause
	}
	if !s.gov.Initialized {
		return nil, ErrUnauthorized
	}
	a, err := s.sender(pubkey)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrUnauthorized
	}
	m, err := s.getMember(a.Index)
	if err != nil {
		return nil, err
	}
	if m == nil || !m.Active {
		return nil, ErrUnauthorized
	}
	bal, err := s.balanceOf(a.Index)
	if err != nil {
		return nil, err
	}
	if bal < s.gov.Params.MinProposePower {
		return nil, ErrInsufficientVotingPower
	}
	kind := types.ProposalType(ptx.Kind)
	var target *Account
	switch kind {
	case types.ProposalTypeTreasury:
		if ptx.Amount == 0 {
			return nil, ErrInvalidParameters
		}
		target, err = s.resolveTarget(ptx.Target)
		if err != nil {
			return nil, err
		}
	case types.ProposalTypeMember:
		target, err = s.resolveTarget(ptx.Target)
		if err != nil {
			return nil, err
		}
	case types.ProposalTypeParameter, types.ProposalTypeText:
	default:
		return nil, ErrInvalidProposal
	}
	if ptx.Title == "" {
		return nil, ErrInvalidParameters
	}
	if checkOnly {
		return nil, nil
	}
	s.logger.Debug("apply proposal", "proposer", a.Index, "kind", kind.String(), "height", s.header.Height)

	s.gov.ProposalCount += 1
	s.govMod = true
	p := &types.Proposal{
		Id:              s.gov.ProposalCount,
		Proposer:        a.Index,
		ProposerAddress: a.Address(),
		Title:           ptx.Title,
		Description:     ptx.Description,
		Type:            kind,
		Height:          s.header.Height,
		VotingEnd:       s.header.Height + s.gov.Params.VotingPeriod,
		ExecDelayEnd:    s.header.Height + s.gov.Params.VotingPeriod + s.gov.Params.ExecutionDelay,
		QuorumRequired:  s.gov.QuorumFor(),
		Status:          types.ProposalStatusActive,
	}
	if target != nil {
		p.Target = target.Index
		p.TargetAddress = target.Address()
	}
	if kind == types.ProposalTypeTreasury {
		p.Amount = ptx.Amount
	}
	s.putProposal(p)
	m.ProposalsCreated += 1
	s.putMember(m)
	s.touchSender(a, pubkey)

	event = &types.EventProposal{
		Proposal:        p.Id,
		Proposer:        a.Index,
		ProposerAddress: a.Address(),
		Kind:            uint64(kind),
		Title:           p.Title,
		VotingEnd:       p.VotingEnd,
		Quorum:          p.QuorumRequired,
	}
	return
}

func (s *State) resolveTarget(saddr string) (*Account, error) {
	addr, err := ParseAddress(saddr)
	if err != nil {
		return nil, ErrInvalidParameters
	}
	target, err := s.FindAccount(addr)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrInvalidParameters
	}
	return target, nil
}

// Vote records the sender's choice once, weighted by the live balance at
// this height. First vote wins; there is no re-vote.
func (s *State) Vote(vtx *tx.VoteTx, pubkey []byte, checkOnly bool) (event *types.EventVote, err error) {
	if s.gov.Paused {
		return nil, ErrEmergencyPause
	}
	if !s.gov.Initialized {
		return nil, ErrUnauthorized
	}
	a, err := s.sender(pubkey)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrUnauthorized
	}
	m, err := s.getMember(a.Index)
	if err != nil {
		return nil, err
	}
	if m == nil || !m.Active {
		return nil, ErrUnauthorized
	}
	p, err := s.getProposal(vtx.Proposal)
	if err != nil {
		return nil, err
	}
	if p.Status != types.ProposalStatusActive {
		return nil, ErrProposalNotActive
	}
	if s.header.Height > p.VotingEnd {
		return nil, ErrVotingPeriodEnded
	}
	prior, err := s.getVote(p.Id, a.Index)
	if err != nil {
		return nil, err
	}
	if prior != nil {
		return nil, ErrAlreadyVoted
	}
	bal, err := s.balanceOf(a.Index)
	if err != nil {
		return nil, err
	}
	if bal == 0 {
		return nil, ErrInsufficientVotingPower
	}
	if checkOnly {
		return nil, nil
	}
	s.logger.Debug("apply vote", "proposal", p.Id, "voter", a.Index, "support", vtx.Support, "power", bal)

	s.putVote(&types.VoteRecord{
		Proposal:     p.Id,
		Voter:        a.Index,
		VoterAddress: a.Address(),
		Support:      vtx.Support,
		Power:        bal,
		Height:       s.header.Height,
	})
	if vtx.Support {
		p.VotesFor += bal
	} else {
		p.VotesAgainst += bal
	}
	p.TotalVotes += bal
	s.putProposal(p)
	m.VotesCast += 1
	m.Reputation += 1
	s.putMember(m)
	s.touchSender(a, pubkey)

	event = &types.EventVote{
		Proposal:     p.Id,
		Voter:        a.Index,
		VoterAddress: a.Address(),
		Support:      vtx.Support,
		Power:        bal,
	}
	return
}

// Finalize settles an active proposal after its voting window: passed when
// quorum and majority hold, rejected otherwise. Outcome is fixed by the
// recorded tallies, so the call is open to any account and not pause gated.
func (s *State) Finalize(ftx *tx.FinalizeTx, pubkey []byte, checkOnly bool) (event *types.EventFinalize, err error) {
	if !s.gov.Initialized {
		return nil, ErrUnauthorized
	}
	a, err := s.sender(pubkey)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrUnauthorized
	}
	p, err := s.getProposal(ftx.Proposal)
	if err != nil {
		return nil, err
	}
	if p.Status != types.ProposalStatusActive {
		return nil, ErrProposalNotActive
	}
	if s.header.Height <= p.VotingEnd {
		return nil, ErrInvalidProposal
	}
	if checkOnly {
		return nil, nil
	}

	if p.Passed() {
		p.Status = types.ProposalStatusPassed
	} else {
		p.Status = types.ProposalStatusRejected
	}
	s.putProposal(p)
	s.touchSender(a, pubkey)

	event = &types.EventFinalize{
		Proposal:     p.Id,
		Status:       uint64(p.Status),
		VotesFor:     p.VotesFor,
		VotesAgainst: p.VotesAgainst,
		TotalVotes:   p.TotalVotes,
	}
	return
}

// Execute settles and carries out a proposal in one call. A proposal still
// active here is evaluated in place; a failing evaluation aborts without
// writing, leaving finalize to persist the rejection. The treasury leg is
// atomic with the status flip.
func (s *State) Execute(etx *tx.ExecuteTx, pubkey []byte, checkOnly bool) (event *types.EventExecute, err error) {
	if s.gov.Paused {
		return nil, ErrEmergencyPause
	}
	if !s.gov.Initialized {
		return nil, ErrUnauthorized
	}
	a, err := s.sender(pubkey)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrUnauthorized
	}
	p, err := s.getProposal(etx.Proposal)
	if err != nil {
		return nil, err
	}
	if p.Status == types.ProposalStatusExecuted {
		return nil, ErrProposalAlreadyExecuted
	}
	if p.Status == types.ProposalStatusRejected {
		return nil, ErrExecutionFailed
	}
	if s.header.Height <= p.VotingEnd {
		return nil, ErrExecutionFailed
	}
	if s.header.Height < p.ExecDelayEnd {
		return nil, ErrExecutionFailed
	}
	if p.Status == types.ProposalStatusActive && !p.Passed() {
		return nil, ErrExecutionFailed
	}
	var target *Account
	switch p.Type {
	case types.ProposalTypeTreasury:
		if s.gov.TreasuryBalance < p.Amount {
			return nil, ErrExecutionFailed
		}
		target, err = s.GetAccount(p.Target)
		if err != nil || target == nil {
			return nil, ErrExecutionFailed
		}
		if target.Coins+p.Amount < target.Coins {
			return nil, ErrExecutionFailed
		}
	case types.ProposalTypeParameter, types.ProposalTypeMember, types.ProposalTypeText:
	default:
		return nil, ErrInvalidProposal
	}
	if checkOnly {
		return nil, nil
	}
	s.logger.Debug("apply execute", "proposal", p.Id, "kind", p.Type.String(), "height", s.header.Height)

	var txnId uint64
	if p.Type == types.ProposalTypeTreasury {
		s.gov.TreasuryBalance -= p.Amount
		target.Coins += p.Amount
		s.touchAccount(target)
		s.gov.TxnCount += 1
		s.govMod = true
		txnId = s.gov.TxnCount
		s.appendTxn(&types.TreasuryTxn{
			Id:        txnId,
			Kind:      types.TxnKindTransfer,
			Amount:    p.Amount,
			To:        target.Index,
			ToAddress: target.Address(),
			Proposal:  p.Id,
			Height:    s.header.Height,
		})
	}
	p.Status = types.ProposalStatusExecuted
	p.ExecutedHeight = s.header.Height
	s.putProposal(p)
	s.touchSender(a, pubkey)

	event = &types.EventExecute{
		Proposal:      p.Id,
		Executor:      a.Index,
		Kind:          uint64(p.Type),
		Target:        p.Target,
		TargetAddress: p.TargetAddress,
		Amount:        p.Amount,
		Txn:           txnId,
	}
	return
}

// Deposit moves native coin from the sender into treasury custody. Not
// pause gated: pause blocks governance actions, not incoming funds.
func (s *State) Deposit(dtx *tx.DepositTx, pubkey []byte, checkOnly bool) (event *types.EventDeposit, err error) {
	if !s.gov.Initialized {
		return nil, ErrUnauthorized
	}
	if dtx.Amount == 0 {
		return nil, ErrInvalidParameters
	}
	a, err := s.sender(pubkey)
	if err != nil {
		return nil, err
	}
	if a == nil || a.Coins < dtx.Amount {
		return nil, ErrInsufficientVotingPower
	}
	if s.gov.TreasuryBalance+dtx.Amount < s.gov.TreasuryBalance {
		return nil, ErrInvalidParameters
	}
	if checkOnly {
		return nil, nil
	}

	a.Coins -= dtx.Amount
	s.gov.TreasuryBalance += dtx.Amount
	s.gov.TxnCount += 1
	s.govMod = true
	s.appendTxn(&types.TreasuryTxn{
		Id:          s.gov.TxnCount,
		Kind:        types.TxnKindDeposit,
		Amount:      dtx.Amount,
		From:        a.Index,
		FromAddress: a.Address(),
		Height:      s.header.Height,
	})
	s.touchSender(a, pubkey)

	event = &types.EventDeposit{
		From:        a.Index,
		FromAddress: a.Address(),
		Amount:      dtx.Amount,
		Treasury:    s.gov.TreasuryBalance,
		Txn:         s.gov.TxnCount,
	}
	return
}

// GrantRole writes a role assignment for a member; Active false revokes.
func (s *State) GrantRole(rtx *tx.RoleTx, pubkey []byte, checkOnly bool) (event *types.EventRole, err error) {
	if !s.gov.Initialized {
		return nil, ErrUnauthorized
	}
	a, err := s.sender(pubkey)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrUnauthorized
	}
	admin, err := s.isAdmin(a.Index)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, ErrUnauthorized
	}
	if !types.ValidRole(rtx.Role) {
		return nil, ErrInvalidParameters
	}
	toAddr, err := ParseAddress(rtx.To)
	if err != nil {
		return nil, ErrInvalidParameters
	}
	to, err := s.FindAccount(toAddr)
	if err != nil {
		return nil, err
	}
	if to == nil {
		return nil, ErrInvalidParameters
	}
	m, err := s.getMember(to.Index)
	if err != nil {
		return nil, err
	}
	if m == nil || !m.Active {
		return nil, ErrInvalidParameters
	}
	if checkOnly {
		return nil, nil
	}

	s.putRole(&types.RoleRecord{
		Index:     to.Index,
		Address:   to.Address(),
		Role:      rtx.Role,
		GrantedBy: a.Index,
		Height:    s.header.Height,
		Active:    rtx.Active,
	})
	s.touchSender(a, pubkey)

	event = &types.EventRole{
		Member:    to.Index,
		Address:   to.Address(),
		Role:      rtx.Role,
		GrantedBy: a.Index,
		Active:    rtx.Active,
	}
	return
}

// SetPause flips the emergency gate. Owner or admin only.
func (s *State) SetPause(ptx *tx.PauseTx, pubkey []byte, checkOnly bool) (event *types.EventPause, err error) {
	if !s.gov.Initialized {
		return nil, ErrUnauthorized
	}
	a, err := s.sender(pubkey)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrUnauthorized
	}
	admin, err := s.isAdmin(a.Index)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, ErrUnauthorized
	}
	if checkOnly {
		return nil, nil
	}

	s.gov.Paused = ptx.Paused
	s.govMod = true
	s.touchSender(a, pubkey)

	event = &types.EventPause{
		By:     a.Index,
		Paused: ptx.Paused,
	}
	return
}
