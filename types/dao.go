package types

import "fmt"

type ProposalType uint64

const (
	ProposalTypeTreasury  ProposalType = 1
	ProposalTypeParameter ProposalType = 2
	ProposalTypeMember    ProposalType = 3
	ProposalTypeText      ProposalType = 4
)

func (t ProposalType) String() string {
	switch t {
	case ProposalTypeTreasury:
		return "treasury"
	case ProposalTypeParameter:
		return "parameter"
	case ProposalTypeMember:
		return "member"
	case ProposalTypeText:
		return "text"
	}
	return fmt.Sprintf("unknown(%d)", uint64(t))
}

func ParseProposalType(s string) (ProposalType, error) {
	switch s {
	case "treasury":
		return ProposalTypeTreasury, nil
	case "parameter":
		return ProposalTypeParameter, nil
	case "member":
		return ProposalTypeMember, nil
	case "text":
		return ProposalTypeText, nil
	}
	return 0, fmt.Errorf("unknown proposal type %s", s)
}

type ProposalStatus uint64

const (
	ProposalStatusActive   ProposalStatus = 1
	ProposalStatusPassed   ProposalStatus = 2
	ProposalStatusRejected ProposalStatus = 3
	ProposalStatusExecuted ProposalStatus = 4
)

func (s ProposalStatus) String() string {
	switch s {
	case ProposalStatusActive:
		return "active"
	case ProposalStatusPassed:
		return "passed"
	case ProposalStatusRejected:
		return "rejected"
	case ProposalStatusExecuted:
		return "executed"
	}
	return fmt.Sprintf("unknown(%d)", uint64(s))
}

type Proposal struct {
	Id              uint64         `json:"id"`
	Proposer        uint64         `json:"proposer"`
	ProposerAddress string         `json:"proposer_address"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Type            ProposalType   `json:"type"`
	Target          uint64         `json:"target,omitempty"`
	TargetAddress   string         `json:"target_address,omitempty"`
	Amount          uint64         `json:"amount,omitempty"`
	Height          uint64         `json:"height"`
	VotingEnd       uint64         `json:"voting_end"`
	ExecDelayEnd    uint64         `json:"exec_delay_end"`
	QuorumRequired  uint64         `json:"quorum_required"`
	VotesFor        uint64         `json:"votes_for"`
	VotesAgainst    uint64         `json:"votes_against"`
	TotalVotes      uint64         `json:"total_votes"`
	Status          ProposalStatus `json:"status"`
	ExecutedHeight  uint64         `json:"executed_height,omitempty"`
}

// HasQuorum and Passed read the recorded tallies only; callers decide
// whether voting is over.
func (p *Proposal) HasQuorum() bool {
	return p.TotalVotes >= p.QuorumRequired
}

func (p *Proposal) Passed() bool {
	return p.HasQuorum() && p.VotesFor > p.VotesAgainst
}

type VoteRecord struct {
	Proposal     uint64 `json:"proposal"`
	Voter        uint64 `json:"voter"`
	VoterAddress string `json:"voter_address"`
	Support      bool   `json:"support"`
	Power        uint64 `json:"power"`
	Height       uint64 `json:"height"`
}

type Member struct {
	Index            uint64 `json:"index"`
	Address          string `json:"address"`
	JoinHeight       uint64 `json:"join_height"`
	VotingPower      uint64 `json:"voting_power"`
	ProposalsCreated uint64 `json:"proposals_created"`
	VotesCast        uint64 `json:"votes_cast"`
	Reputation       uint64 `json:"reputation"`
	Active           bool   `json:"active"`
}

// Role names form a closed set. Only an active admin grant gates the pause
// switch and role management; moderator and treasurer are advisory.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleTreasurer = "treasurer"
)

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleModerator || role == RoleTreasurer
}

type RoleRecord struct {
	Index     uint64 `json:"index"`
	Address   string `json:"address"`
	Role      string `json:"role"`
	GrantedBy uint64 `json:"granted_by"`
	Height    uint64 `json:"height"`
	Active    bool   `json:"active"`
}

type TxnKind uint64

const (
	TxnKindDeposit  TxnKind = 1
	TxnKindTransfer TxnKind = 2
)

func (k TxnKind) String() string {
	switch k {
	case TxnKindDeposit:
		return "deposit"
	case TxnKindTransfer:
		return "transfer"
	}
	return fmt.Sprintf("unknown(%d)", uint64(k))
}

// TreasuryTxn is one line of the treasury log. Deposits carry From,
// transfers carry To and the proposal that authorized the outflow.
type TreasuryTxn struct {
	Id          uint64  `json:"id"`
	Kind        TxnKind `json:"kind"`
	Amount      uint64  `json:"amount"`
	From        uint64  `json:"from,omitempty"`
	FromAddress string  `json:"from_address,omitempty"`
	To          uint64  `json:"to,omitempty"`
	ToAddress   string  `json:"to_address,omitempty"`
	Proposal    uint64  `json:"proposal,omitempty"`
	Height      uint64  `json:"height"`
}

type GovParams struct {
	VotingPeriod    uint64 `json:"voting_period"`
	ExecutionDelay  uint64 `json:"execution_delay"`
	QuorumPercent   uint64 `json:"quorum_percent"`
	MinProposePower uint64 `json:"min_propose_power"`
}

func DefaultGovParams() GovParams {
	return GovParams{
		VotingPeriod:    17280,
		ExecutionDelay:  5760,
		QuorumPercent:   20,
		MinProposePower: 10,
	}
}

func (p GovParams) Validate() error {
	if p.VotingPeriod == 0 {
		return fmt.Errorf("voting period must be positive")
	}
	if p.QuorumPercent == 0 || p.QuorumPercent > 100 {
		return fmt.Errorf("quorum percent must be in (0,100], got %d", p.QuorumPercent)
	}
	return nil
}

// GovState is the single global governance record. Owner is fixed from
// genesis; Initialized is a one way latch flipped by the initialize tx.
type GovState struct {
	Initialized     bool      `json:"initialized"`
	Owner           uint64    `json:"owner"`
	OwnerAddress    string    `json:"owner_address"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	TotalSupply     uint64    `json:"total_supply"`
	TreasuryBalance uint64    `json:"treasury_balance"`
	ProposalCount   uint64    `json:"proposal_count"`
	TxnCount        uint64    `json:"txn_count"`
	MemberCount     uint64    `json:"member_count"`
	Paused          bool      `json:"paused"`
	Params          GovParams `json:"params"`
}

// QuorumFor snapshots the quorum requirement for a new proposal from the
// current supply, truncating integer math.
func (g *GovState) QuorumFor() uint64 {
	return g.TotalSupply * g.Params.QuorumPercent / 100
}
