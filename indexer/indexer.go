package indexer

import (
	"context"
	"errors"
	"time"

	"github.com/agoradao/agora-node/types"
	abci "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	comethttp "github.com/cometbft/cometbft/rpc/client/http"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// ChainIndexer tails finalized blocks over RPC and folds their events into
// a sqlite database the HTTP API reads from. Height row Id 1 is the
// watermark; on restart indexing resumes at watermark+1.
type ChainIndexer struct {
	logger        cmtlog.Logger
	Url           string
	Height        int64
	db            *gorm.DB
	cli           *comethttp.HTTP
	eventHandlers map[string]eventHandler
}

func NewChainIndexer(logger cmtlog.Logger, dbPath string, chainUrl string) (*ChainIndexer, error) {
	logger.Info("NewChainIndexer", "dbPath", dbPath, "url", chainUrl)
	cli, err := comethttp.New(chainUrl, "/websocket")
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Height{}, &DAOInfo{}, &Member{}, &Proposal{}, &Vote{}, &TreasuryEntry{}, &Transfer{}, &Role{}).Error; err != nil {
		return nil, err
	}
	h := Height{Id: 1}
	if err = db.First(&h).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c := ChainIndexer{
		logger:        logger.With("module", "indexer"),
		Url:           chainUrl,
		Height:        int64(h.Height + 1),
		db:            db,
		cli:           cli,
		eventHandlers: map[string]eventHandler{},
	}

	c.eventHandlers = map[string]eventHandler{
		types.EventInitializeType: c.handleEventInitialize,
		types.EventMemberType:     c.handleEventMember,
		types.EventTransferType:   c.handleEventTransfer,
		types.EventMintType:       c.handleEventMint,
		types.EventProposalType:   c.handleEventProposal,
		types.EventVoteType:       c.handleEventVote,
		types.EventFinalizeType:   c.handleEventFinalize,
		types.EventExecuteType:    c.handleEventExecute,
		types.EventDepositType:    c.handleEventDeposit,
		types.EventRoleType:       c.handleEventRole,
		types.EventPauseType:      c.handleEventPause,
	}
	return &c, nil
}

type eventHandler func(event abci.Event, height int64)

func (c *ChainIndexer) handleEvent(event abci.Event, height int64) {
	if h, ok := c.eventHandlers[event.Type]; ok {
		h(event, height)
		IncIndexedEvent(event.Type)
	}
}

func (c *ChainIndexer) handleEventInitialize(event abci.Event, height int64) {
	ev := types.DecodeEventInitialize(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	info := DAOInfo{
		Id:           1,
		Name:         ev.Name,
		OwnerIndex:   ev.Owner,
		OwnerAddress: ev.OwnerAddress,
		TotalSupply:  ev.Supply,
		InitHeight:   uint64(height),
	}
	if err := c.db.Save(&info).Error; err != nil {
		c.logger.Error("save dao fail", "err", err)
	}
	// the owner is the first member and holds the whole initial supply
	owner := Member{
		Id:         ev.Owner,
		Address:    ev.OwnerAddress,
		JoinHeight: uint64(height),
		Power:      ev.Supply,
	}
	if err := c.db.Save(&owner).Error; err != nil {
		c.logger.Error("save member fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventMember(event abci.Event, height int64) {
	ev := types.DecodeEventMember(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	member := Member{
		Id:         ev.Member,
		Address:    ev.Address,
		JoinHeight: ev.JoinHeight,
		Power:      ev.Power,
	}
	if err := c.db.Save(&member).Error; err != nil {
		c.logger.Error("save member fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventTransfer(event abci.Event, height int64) {
	ev := types.DecodeEventTransfer(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	transfer := Transfer{
		FromIndex:   ev.From,
		FromAddress: ev.FromAddress,
		ToIndex:     ev.To,
		ToAddress:   ev.ToAddress,
		Amount:      ev.Amount,
		Height:      uint64(height),
	}
	if err := c.db.Create(&transfer).Error; err != nil {
		c.logger.Error("save transfer fail", "err", err)
	}
	// the chain enrolls an unseen recipient as a member without a member
	// event of its own; mirror that, and move the cached powers with the
	// balance on both sides
	var to Member
	if err := c.db.First(&to, ev.To).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.logger.Error("get member fail", "err", err)
			return
		}
		to = Member{Id: ev.To, Address: ev.ToAddress, JoinHeight: uint64(height)}
	}
	to.Power += ev.Amount
	if err := c.db.Save(&to).Error; err != nil {
		c.logger.Error("save member fail", "err", err)
	}
	var from Member
	if err := c.db.First(&from, ev.From).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.logger.Error("get member fail", "err", err)
		}
		return
	}
	if from.Power >= ev.Amount {
		from.Power -= ev.Amount
	}
	if err := c.db.Save(&from).Error; err != nil {
		c.logger.Error("save member fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventMint(event abci.Event, height int64) {
	ev := types.DecodeEventMint(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	transfer := Transfer{
		ToIndex:   ev.To,
		ToAddress: ev.ToAddress,
		Amount:    ev.Amount,
		Mint:      true,
		Height:    uint64(height),
	}
	if err := c.db.Create(&transfer).Error; err != nil {
		c.logger.Error("save transfer fail", "err", err)
	}
	var info DAOInfo
	if err := c.db.First(&info, 1).Error; err != nil {
		c.logger.Error("get dao fail", "err", err)
		return
	}
	info.TotalSupply = ev.Supply
	if err := c.db.Save(&info).Error; err != nil {
		c.logger.Error("save dao fail", "err", err)
	}
	// minting never enrolls anyone, but a recipient already on the rolls
	// keeps its cached power on the balance
	var member Member
	if err := c.db.First(&member, ev.To).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.logger.Error("get member fail", "err", err)
		}
		return
	}
	member.Power += ev.Amount
	if err := c.db.Save(&member).Error; err != nil {
		c.logger.Error("save member fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventProposal(event abci.Event, height int64) {
	ev := types.DecodeEventProposal(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	proposal := Proposal{
		Id:              ev.Proposal,
		ProposerIndex:   ev.Proposer,
		ProposerAddress: ev.ProposerAddress,
		Kind:            ev.Kind,
		Title:           ev.Title,
		VotingEnd:       ev.VotingEnd,
		Quorum:          ev.Quorum,
		Status:          uint64(types.ProposalStatusActive),
		Height:          uint64(height),
	}
	if err := c.db.Save(&proposal).Error; err != nil {
		c.logger.Error("save proposal fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventVote(event abci.Event, height int64) {
	ev := types.DecodeEventVote(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	vote := Vote{
		Proposal:     ev.Proposal,
		VoterIndex:   ev.Voter,
		VoterAddress: ev.VoterAddress,
		Support:      ev.Support,
		Power:        ev.Power,
		Height:       uint64(height),
	}
	if err := c.db.Create(&vote).Error; err != nil {
		c.logger.Error("save vote fail", "err", err)
		return
	}
	var proposal Proposal
	if err := c.db.First(&proposal, ev.Proposal).Error; err != nil {
		c.logger.Error("get proposal fail", "err", err)
		return
	}
	if ev.Support {
		proposal.VotesFor += ev.Power
	} else {
		proposal.VotesAgainst += ev.Power
	}
	proposal.TotalVotes += ev.Power
	if err := c.db.Save(&proposal).Error; err != nil {
		c.logger.Error("save proposal fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventFinalize(event abci.Event, height int64) {
	ev := types.DecodeEventFinalize(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	var proposal Proposal
	if err := c.db.First(&proposal, ev.Proposal).Error; err != nil {
		c.logger.Error("get proposal fail", "err", err)
		return
	}
	// the chain tallies are authoritative over our incremental sums
	proposal.Status = ev.Status
	proposal.VotesFor = ev.VotesFor
	proposal.VotesAgainst = ev.VotesAgainst
	proposal.TotalVotes = ev.TotalVotes
	if err := c.db.Save(&proposal).Error; err != nil {
		c.logger.Error("save proposal fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventExecute(event abci.Event, height int64) {
	ev := types.DecodeEventExecute(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	var proposal Proposal
	if err := c.db.First(&proposal, ev.Proposal).Error; err != nil {
		c.logger.Error("get proposal fail", "err", err)
	} else {
		proposal.Status = uint64(types.ProposalStatusExecuted)
		if err := c.db.Save(&proposal).Error; err != nil {
			c.logger.Error("save proposal fail", "err", err)
		}
	}
	if ev.Txn == 0 {
		return
	}
	entry := TreasuryEntry{
		Id:        ev.Txn,
		Kind:      uint64(types.TxnKindTransfer),
		Amount:    ev.Amount,
		ToIndex:   ev.Target,
		ToAddress: ev.TargetAddress,
		Proposal:  ev.Proposal,
		Height:    uint64(height),
	}
	if err := c.db.Save(&entry).Error; err != nil {
		c.logger.Error("save treasury entry fail", "err", err)
	}
	var info DAOInfo
	if err := c.db.First(&info, 1).Error; err != nil {
		c.logger.Error("get dao fail", "err", err)
		return
	}
	if info.TreasuryBalance >= ev.Amount {
		info.TreasuryBalance -= ev.Amount
	}
	if err := c.db.Save(&info).Error; err != nil {
		c.logger.Error("save dao fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventDeposit(event abci.Event, height int64) {
	ev := types.DecodeEventDeposit(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	entry := TreasuryEntry{
		Id:          ev.Txn,
		Kind:        uint64(types.TxnKindDeposit),
		Amount:      ev.Amount,
		FromIndex:   ev.From,
		FromAddress: ev.FromAddress,
		Height:      uint64(height),
	}
	if err := c.db.Save(&entry).Error; err != nil {
		c.logger.Error("save treasury entry fail", "err", err)
	}
	var info DAOInfo
	if err := c.db.First(&info, 1).Error; err != nil {
		c.logger.Error("get dao fail", "err", err)
		return
	}
	info.TreasuryBalance = ev.Treasury
	if err := c.db.Save(&info).Error; err != nil {
		c.logger.Error("save dao fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventRole(event abci.Event, height int64) {
	ev := types.DecodeEventRole(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	role := Role{}
	if err := c.db.Where("member_index = ? AND role = ?", ev.Member, ev.Role).First(&role).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.logger.Error("get role fail", "err", err)
		return
	}
	role.MemberIndex = ev.Member
	role.Role = ev.Role
	role.Address = ev.Address
	role.GrantedBy = ev.GrantedBy
	role.Active = ev.Active
	role.Height = uint64(height)
	if err := c.db.Save(&role).Error; err != nil {
		c.logger.Error("save role fail", "err", err)
	}
}

func (c *ChainIndexer) handleEventPause(event abci.Event, height int64) {
	ev := types.DecodeEventPause(event)
	if ev == nil {
		c.logger.Error("decode event fail", "event", event)
		return
	}
	var info DAOInfo
	if err := c.db.First(&info, 1).Error; err != nil {
		c.logger.Error("get dao fail", "err", err)
		return
	}
	info.Paused = ev.Paused
	if err := c.db.Save(&info).Error; err != nil {
		c.logger.Error("save dao fail", "err", err)
	}
}

func (c *ChainIndexer) Start(ctx context.Context) {
	var err error
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.cli == nil {
				c.cli, err = comethttp.New(c.Url, "/websocket")
				if err != nil {
					c.logger.Error("connect fail", "err", err)
					continue
				}
			}
			b, err := c.cli.Status(context.TODO())
			if err != nil {
				c.logger.Error("get status fail", "err", err)
				if !c.cli.IsRunning() {
					c.cli.Stop()
					c.cli, err = comethttp.New(c.Url, "/websocket")
					if err != nil {
						c.logger.Error("reconnect fail", "err", err)
					}
				}
				continue
			}
			for b.SyncInfo.LatestBlockHeight >= c.Height {
				events, err := c.cli.BlockResults(ctx, &c.Height)
				if err != nil {
					c.logger.Error("get block results fail", "height", c.Height, "err", err)
					if !c.cli.IsRunning() {
						c.cli.Stop()
						c.cli, err = comethttp.New(c.Url, "/websocket")
						if err != nil {
							c.logger.Error("reconnect fail", "err", err)
						}
					}
					break
				}
				for _, res := range events.TxsResults {
					for _, event := range res.Events {
						c.handleEvent(event, c.Height)
					}
				}
				if err := c.db.Save(&Height{
					Id:     1,
					Height: uint64(c.Height),
				}).Error; err != nil {
					c.logger.Error("save height fail", "err", err)
					break
				}
				SetIndexedHeight(c.Height)
				c.Height++
			}
		}
	}
}

func (c *ChainIndexer) Close() error {
	return c.db.Close()
}

func (c *ChainIndexer) getDAO() (DAOInfo, error) {
	var info DAOInfo
	err := c.db.First(&info, 1).Error
	if err != nil {
		return DAOInfo{}, err
	}
	return info, nil
}

func (c *ChainIndexer) getMembers(page int, pageSize int) ([]Member, uint64, error) {
	var members []Member
	err := c.db.Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&members).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Member{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (c *ChainIndexer) getMemberByAddress(address string) (Member, error) {
	var member Member
	err := c.db.Where("address = ?", address).First(&member).Error
	if err != nil {
		return Member{}, err
	}
	return member, nil
}

func (c *ChainIndexer) getRolesByMember(member uint64) ([]Role, error) {
	var roles []Role
	err := c.db.Where("member_index = ?", member).Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (c *ChainIndexer) getProposals(page int, pageSize int) ([]Proposal, uint64, error) {
	var proposals []Proposal
	err := c.db.Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&proposals).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Proposal{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return proposals, total, nil
}

func (c *ChainIndexer) getProposalsByStatus(status uint64, page int, pageSize int) ([]Proposal, uint64, error) {
	var proposals []Proposal
	err := c.db.Where("status = ?", status).Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&proposals).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Proposal{}).Where("status = ?", status).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return proposals, total, nil
}

func (c *ChainIndexer) getProposalById(proposalId uint64) (Proposal, error) {
	var proposal Proposal
	err := c.db.Where("id = ?", proposalId).First(&proposal).Error
	if err != nil {
		return Proposal{}, err
	}
	return proposal, nil
}

func (c *ChainIndexer) getProposalsByProposerAddr(proposerAddr string, page int, pageSize int) ([]Proposal, uint64, error) {
	var proposals []Proposal
	err := c.db.Where("proposer_address = ?", proposerAddr).Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&proposals).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Proposal{}).Where("proposer_address = ?", proposerAddr).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return proposals, total, nil
}

func (c *ChainIndexer) getVotesByProposal(proposal uint64, page int, pageSize int) ([]Vote, uint64, error) {
	var votes []Vote
	err := c.db.Where("proposal = ?", proposal).Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&votes).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Vote{}).Where("proposal = ?", proposal).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return votes, total, nil
}

func (c *ChainIndexer) getVotesByVoter(voter string, page int, pageSize int) ([]Vote, uint64, error) {
	var votes []Vote
	err := c.db.Where("voter_address = ?", voter).Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&votes).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Vote{}).Where("voter_address = ?", voter).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return votes, total, nil
}

func (c *ChainIndexer) getTreasuryEntries(page int, pageSize int) ([]TreasuryEntry, uint64, error) {
	var entries []TreasuryEntry
	err := c.db.Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&TreasuryEntry{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (c *ChainIndexer) getTreasuryEntryById(txnId uint64) (TreasuryEntry, error) {
	var entry TreasuryEntry
	err := c.db.Where("id = ?", txnId).First(&entry).Error
	if err != nil {
		return TreasuryEntry{}, err
	}
	return entry, nil
}

func (c *ChainIndexer) getTransfers(page int, pageSize int) ([]Transfer, uint64, error) {
	var transfers []Transfer
	err := c.db.Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&transfers).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Transfer{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return transfers, total, nil
}

func (c *ChainIndexer) getTransfersByAddress(address string, page int, pageSize int) ([]Transfer, uint64, error) {
	var transfers []Transfer
	err := c.db.Where("from_address = ? OR to_address = ?", address, address).Order("id desc").Offset(page * pageSize).Limit(pageSize).Find(&transfers).Error
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	err = c.db.Model(&Transfer{}).Where("from_address = ? OR to_address = ?", address, address).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}
	return transfers, total, nil
}
