package types

import (
	"fmt"
	"strconv"

	abci "github.com/cometbft/cometbft/abci/types"
)

const (
	EventInitializeType = "initialize"
	EventMemberType     = "member"
	EventTransferType   = "transfer"
	EventMintType       = "mint"
	EventProposalType   = "proposal"
	EventVoteType       = "vote"
	EventFinalizeType   = "finalize"
	EventExecuteType    = "execute"
	EventDepositType    = "deposit"
	EventRoleType       = "role"
	EventPauseType      = "pause"
)

type EventInitialize struct {
	Owner        uint64 `json:"ownerIndex"`
	OwnerAddress string `json:"ownerAddress"`
	Name         string `json:"name"`
	Supply       uint64 `json:"supply"`
}

func EncodeEventInitialize(event *EventInitialize) abci.Event {
	return abci.Event{
		Type: EventInitializeType,
		Attributes: []abci.EventAttribute{
			{Key: "owner", Value: fmt.Sprintf("%v", event.Owner), Index: true},
			{Key: "ownerAddress", Value: event.OwnerAddress, Index: false},
			{Key: "name", Value: event.Name, Index: false},
			{Key: "supply", Value: fmt.Sprintf("%v", event.Supply), Index: false},
		},
	}
}

func DecodeEventInitialize(originEvent abci.Event) *EventInitialize {
	event := &EventInitialize{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "owner":
			owner, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Owner = owner
		case "ownerAddress":
			event.OwnerAddress = v.Value
		case "name":
			event.Name = v.Value
		case "supply":
			supply, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Supply = supply
		}
	}
	return event
}

type EventMember struct {
	Member     uint64 `json:"memberIndex"`
	Address    string `json:"address"`
	JoinHeight uint64 `json:"joinHeight"`
	Power      uint64 `json:"power"`
}

func EncodeEventMember(event *EventMember) abci.Event {
	return abci.Event{
		Type: EventMemberType,
		Attributes: []abci.EventAttribute{
			{Key: "member", Value: fmt.Sprintf("%v", event.Member), Index: true},
			{Key: "address", Value: event.Address, Index: false},
			{Key: "joinHeight", Value: fmt.Sprintf("%v", event.JoinHeight), Index: false},
			{Key: "power", Value: fmt.Sprintf("%v", event.Power), Index: false},
		},
	}
}

func DecodeEventMember(originEvent abci.Event) *EventMember {
	event := &EventMember{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "member":
			member, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Member = member
		case "address":
			event.Address = v.Value
		case "joinHeight":
			joinHeight, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.JoinHeight = joinHeight
		case "power":
			power, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Power = power
		}
	}
	return event
}

type EventTransfer struct {
	From        uint64 `json:"fromIndex"`
	FromAddress string `json:"fromAddress"`
	To          uint64 `json:"toIndex"`
	ToAddress   string `json:"toAddress"`
	Amount      uint64 `json:"amount"`
}

func EncodeEventTransfer(event *EventTransfer) abci.Event {
	return abci.Event{
		Type: EventTransferType,
		Attributes: []abci.EventAttribute{
			{Key: "from", Value: fmt.Sprintf("%v", event.From), Index: true},
			{Key: "fromAddress", Value: event.FromAddress, Index: false},
			{Key: "to", Value: fmt.Sprintf("%v", event.To), Index: true},
			{Key: "toAddress", Value: event.ToAddress, Index: false},
			{Key: "amount", Value: fmt.Sprintf("%v", event.Amount), Index: false},
		},
	}
}

func DecodeEventTransfer(originEvent abci.Event) *EventTransfer {
	event := &EventTransfer{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "from":
			from, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.From = from
		case "fromAddress":
			event.FromAddress = v.Value
		case "to":
			to, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.To = to
		case "toAddress":
			event.ToAddress = v.Value
		case "amount":
			amount, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Amount = amount
		}
	}
	return event
}

type EventMint struct {
	To        uint64 `json:"toIndex"`
	ToAddress string `json:"toAddress"`
	Amount    uint64 `json:"amount"`
	Supply    uint64 `json:"supply"`
}

func EncodeEventMint(event *EventMint) abci.Event {
	return abci.Event{
		Type: EventMintType,
		Attributes: []abci.EventAttribute{
			{Key: "to", Value: fmt.Sprintf("%v", event.To), Index: true},
			{Key: "toAddress", Value: event.ToAddress, Index: false},
			{Key: "amount", Value: fmt.Sprintf("%v", event.Amount), Index: false},
			{Key: "supply", Value: fmt.Sprintf("%v", event.Supply), Index: false},
		},
	}
}

func DecodeEventMint(originEvent abci.Event) *EventMint {
	event := &EventMint{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "to":
			to, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.To = to
		case "toAddress":
			event.ToAddress = v.Value
		case "amount":
			amount, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Amount = amount
		case "supply":
			supply, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Supply = supply
		}
	}
	return event
}

type EventProposal struct {
	Proposal        uint64 `json:"proposal"`
	Proposer        uint64 `json:"proposerIndex"`
	ProposerAddress string `json:"proposerAddress"`
	Kind            uint64 `json:"kind"`
	Title           string `json:"title"`
	VotingEnd       uint64 `json:"votingEnd"`
	Quorum          uint64 `json:"quorum"`
}

func EncodeEventProposal(event *EventProposal) abci.Event {
	return abci.Event{
		Type: EventProposalType,
		Attributes: []abci.EventAttribute{
			{Key: "proposal", Value: fmt.Sprintf("%v", event.Proposal), Index: true},
			{Key: "proposer", Value: fmt.Sprintf("%v", event.Proposer), Index: true},
			{Key: "proposerAddress", Value: event.ProposerAddress, Index: false},
			{Key: "kind", Value: fmt.Sprintf("%v", event.Kind), Index: false},
			{Key: "title", Value: event.Title, Index: false},
			{Key: "votingEnd", Value: fmt.Sprintf("%v", event.VotingEnd), Index: false},
			{Key: "quorum", Value: fmt.Sprintf("%v", event.Quorum), Index: false},
		},
	}
}

func DecodeEventProposal(originEvent abci.Event) *EventProposal {
	event := &EventProposal{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "proposal":
			proposal, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Proposal = proposal
		case "proposer":
			proposer, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Proposer = proposer
		case "proposerAddress":
			event.ProposerAddress = v.Value
		case "kind":
			kind, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Kind = kind
		case "title":
			event.Title = v.Value
		case "votingEnd":
			votingEnd, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.VotingEnd = votingEnd
		case "quorum":
			quorum, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Quorum = quorum
		}
	}
	return event
}

type EventVote struct {
	Proposal     uint64 `json:"proposal"`
	Voter        uint64 `json:"voterIndex"`
	VoterAddress string `json:"voterAddress"`
	Support      bool   `json:"support"`
	Power        uint64 `json:"power"`
}

func EncodeEventVote(event *EventVote) abci.Event {
	return abci.Event{
		Type: EventVoteType,
		Attributes: []abci.EventAttribute{
			{Key: "proposal", Value: fmt.Sprintf("%v", event.Proposal), Index: true},
			{Key: "voter", Value: fmt.Sprintf("%v", event.Voter), Index: true},
			{Key: "voterAddress", Value: event.VoterAddress, Index: false},
			{Key: "support", Value: fmt.Sprintf("%v", event.Support), Index: false},
			{Key: "power", Value: fmt.Sprintf("%v", event.Power), Index: false},
		},
	}
}

func DecodeEventVote(originEvent abci.Event) *EventVote {
	event := &EventVote{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "proposal":
			proposal, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Proposal = proposal
		case "voter":
			voter, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Voter = voter
		case "voterAddress":
			event.VoterAddress = v.Value
		case "support":
			support, err := strconv.ParseBool(v.Value)
			if err != nil {
				return nil
			}
			event.Support = support
		case "power":
			power, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Power = power
		}
	}
	return event
}

type EventFinalize struct {
	Proposal     uint64 `json:"proposal"`
	Status       uint64 `json:"status"`
	VotesFor     uint64 `json:"votesFor"`
	VotesAgainst uint64 `json:"votesAgainst"`
	TotalVotes   uint64 `json:"totalVotes"`
}

func EncodeEventFinalize(event *EventFinalize) abci.Event {
	return abci.Event{
		Type: EventFinalizeType,
		Attributes: []abci.EventAttribute{
			{Key: "proposal", Value: fmt.Sprintf("%v", event.Proposal), Index: true},
			{Key: "status", Value: fmt.Sprintf("%v", event.Status), Index: false},
			{Key: "votesFor", Value: fmt.Sprintf("%v", event.VotesFor), Index: false},
			{Key: "votesAgainst", Value: fmt.Sprintf("%v", event.VotesAgainst), Index: false},
			{Key: "totalVotes", Value: fmt.Sprintf("%v", event.TotalVotes), Index: false},
		},
	}
}

func DecodeEventFinalize(originEvent abci.Event) *EventFinalize {
	event := &EventFinalize{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "proposal":
			proposal, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Proposal = proposal
		case "status":
			status, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Status = status
		case "votesFor":
			votesFor, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.VotesFor = votesFor
		case "votesAgainst":
			votesAgainst, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.VotesAgainst = votesAgainst
		case "totalVotes":
			totalVotes, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.TotalVotes = totalVotes
		}
	}
	return event
}

type EventExecute struct {
	Proposal      uint64 `json:"proposal"`
	Executor      uint64 `json:"executorIndex"`
	Kind          uint64 `json:"kind"`
	Target        uint64 `json:"target"`
	TargetAddress string `json:"targetAddress"`
	Amount        uint64 `json:"amount"`
	Txn           uint64 `json:"txn"`
}

func EncodeEventExecute(event *EventExecute) abci.Event {
	return abci.Event{
		Type: EventExecuteType,
		Attributes: []abci.EventAttribute{
			{Key: "proposal", Value: fmt.Sprintf("%v", event.Proposal), Index: true},
			{Key: "executor", Value: fmt.Sprintf("%v", event.Executor), Index: false},
			{Key: "kind", Value: fmt.Sprintf("%v", event.Kind), Index: false},
			{Key: "target", Value: fmt.Sprintf("%v", event.Target), Index: false},
			{Key: "targetAddress", Value: event.TargetAddress, Index: false},
			{Key: "amount", Value: fmt.Sprintf("%v", event.Amount), Index: false},
			{Key: "txn", Value: fmt.Sprintf("%v", event.Txn), Index: false},
		},
	}
}

func DecodeEventExecute(originEvent abci.Event) *EventExecute {
	event := &EventExecute{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "proposal":
			proposal, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Proposal = proposal
		case "executor":
			executor, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Executor = executor
		case "kind":
			kind, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Kind = kind
		case "target":
			target, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Target = target
		case "targetAddress":
			event.TargetAddress = v.Value
		case "amount":
			amount, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Amount = amount
		case "txn":
			txn, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Txn = txn
		}
	}
	return event
}

type EventDeposit struct {
	From        uint64 `json:"fromIndex"`
	FromAddress string `json:"fromAddress"`
	Amount      uint64 `json:"amount"`
	Treasury    uint64 `json:"treasury"`
	Txn         uint64 `json:"txn"`
}

func EncodeEventDeposit(event *EventDeposit) abci.Event {
	return abci.Event{
		Type: EventDepositType,
		Attributes: []abci.EventAttribute{
			{Key: "from", Value: fmt.Sprintf("%v", event.From), Index: true},
			{Key: "fromAddress", Value: event.FromAddress, Index: false},
			{Key: "amount", Value: fmt.Sprintf("%v", event.Amount), Index: false},
			{Key: "treasury", Value: fmt.Sprintf("%v", event.Treasury), Index: false},
			{Key: "txn", Value: fmt.Sprintf("%v", event.Txn), Index: false},
		},
	}
}

func DecodeEventDeposit(originEvent abci.Event) *EventDeposit {
	event := &EventDeposit{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "from":
			from, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.From = from
		case "fromAddress":
			event.FromAddress = v.Value
		case "amount":
			amount, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Amount = amount
		case "treasury":
			treasury, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Treasury = treasury
		case "txn":
			txn, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Txn = txn
		}
	}
	return event
}

type EventRole struct {
	Member    uint64 `json:"memberIndex"`
	Address   string `json:"address"`
	Role      string `json:"role"`
	GrantedBy uint64 `json:"grantedBy"`
	Active    bool   `json:"active"`
}

func EncodeEventRole(event *EventRole) abci.Event {
	return abci.Event{
		Type: EventRoleType,
		Attributes: []abci.EventAttribute{
			{Key: "member", Value: fmt.Sprintf("%v", event.Member), Index: true},
			{Key: "address", Value: event.Address, Index: false},
			{Key: "role", Value: event.Role, Index: false},
			{Key: "grantedBy", Value: fmt.Sprintf("%v", event.GrantedBy), Index: false},
			{Key: "active", Value: fmt.Sprintf("%v", event.Active), Index: false},
		},
	}
}

func DecodeEventRole(originEvent abci.Event) *EventRole {
	event := &EventRole{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "member":
			member, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.Member = member
		case "address":
			event.Address = v.Value
		case "role":
			event.Role = v.Value
		case "grantedBy":
			grantedBy, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.GrantedBy = grantedBy
		case "active":
			active, err := strconv.ParseBool(v.Value)
			if err != nil {
				return nil
			}
			event.Active = active
		}
	}
	return event
}

type EventPause struct {
	By     uint64 `json:"byIndex"`
	Paused bool   `json:"paused"`
}

func EncodeEventPause(event *EventPause) abci.Event {
	return abci.Event{
		Type: EventPauseType,
		Attributes: []abci.EventAttribute{
			{Key: "by", Value: fmt.Sprintf("%v", event.By), Index: false},
			{Key: "paused", Value: fmt.Sprintf("%v", event.Paused), Index: true},
		},
	}
}

func DecodeEventPause(originEvent abci.Event) *EventPause {
	event := &EventPause{}
	for _, v := range originEvent.Attributes {
		switch v.Key {
		case "by":
			by, err := strconv.ParseUint(v.Value, 10, 64)
			if err != nil {
				return nil
			}
			event.By = by
		case "paused":
			paused, err := strconv.ParseBool(v.Value)
			if err != nil {
				return nil
			}
			event.Paused = paused
		}
	}
	return event
}
