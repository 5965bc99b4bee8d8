package indexer

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Service struct {
	engine     *gin.Engine
	indexer    *ChainIndexer
	listenAddr string
}

func NewService(ListenAddr string, indexer *ChainIndexer) *Service {
	r := gin.Default()
	s := &Service{
		engine:     r,
		indexer:    indexer,
		listenAddr: ListenAddr,
	}
	s.engine.POST("/getDAO", s.handleGetDAO)
	s.engine.POST("/getMembers", s.handleGetMembers)
	s.engine.POST("/getProposals", s.handleGetProposals)
	s.engine.POST("/getVotes", s.handleGetVotes)
	s.engine.POST("/getTreasury", s.handleGetTreasury)
	s.engine.POST("/getTransfers", s.handleGetTransfers)
	return s
}

func (s *Service) Start() {
	s.engine.Run(s.listenAddr)
}

type GetDAOResponse struct {
	DAO    DAOInfo `json:"dao"`
	Height int64   `json:"height"`
}

func (s *Service) handleGetDAO(c *gin.Context) {
	IncRequestCount(c.FullPath())
	info, err := s.indexer.getDAO()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, GetDAOResponse{
		DAO:    info,
		Height: s.indexer.Height - 1,
	})
}

type MemberInfo struct {
	Member Member `json:"member"`
	Roles  []Role `json:"roles"`
}

type GetMembersReq struct {
	Address  string `json:"address"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type GetMembersResponse struct {
	Members []MemberInfo `json:"members"`
	Total   uint64       `json:"total"`
}

func (s *Service) handleGetMembers(c *gin.Context) {
	IncRequestCount(c.FullPath())
	var response GetMembersResponse
	response.Members = make([]MemberInfo, 0)
	var requestData GetMembersReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if requestData.PageSize <= 0 {
		requestData.PageSize = 20
	}

	if requestData.Address != "" {
		member, err := s.indexer.getMemberByAddress(requestData.Address)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		info, err := s.memberInfo(member)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response.Members = append(response.Members, info)
		response.Total = 1
		c.JSON(http.StatusOK, response)
		return
	}

	members, total, err := s.indexer.getMembers(requestData.Page, requestData.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	response.Total = total
	for _, member := range members {
		info, err := s.memberInfo(member)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response.Members = append(response.Members, info)
	}
	c.JSON(http.StatusOK, response)
}

func (s *Service) memberInfo(member Member) (MemberInfo, error) {
	roles, err := s.indexer.getRolesByMember(member.Id)
	if err != nil {
		return MemberInfo{}, err
	}
	return MemberInfo{Member: member, Roles: roles}, nil
}

type ProposalInfo struct {
	Proposal Proposal `json:"proposal"`
	Votes    []Vote   `json:"votes"`
}

type GetProposalsReq struct {
	ProposalId      uint64 `json:"proposalId"`
	ProposerAddress string `json:"proposer"`
	Status          uint64 `json:"status"`
	Page            int    `json:"page"`
	PageSize        int    `json:"pageSize"`
}

type GetProposalResponse struct {
	Proposals []ProposalInfo `json:"proposals"`
	Total     uint64         `json:"total"`
}

func (s *Service) handleGetProposals(c *gin.Context) {
	IncRequestCount(c.FullPath())
	var response GetProposalResponse
	response.Proposals = make([]ProposalInfo, 0)
	var err error
	var requestData GetProposalsReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if requestData.PageSize <= 0 {
		requestData.PageSize = 20
	}

	if requestData.ProposalId != 0 {
		proposalInfo, err := s.getProposalInfoById(requestData.ProposalId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response.Proposals = append(response.Proposals, proposalInfo)
		response.Total = 1
		c.JSON(http.StatusOK, response)
		return
	}

	proposalTotal := uint64(0)
	proposals := make([]Proposal, 0)
	if requestData.ProposerAddress != "" {
		proposals, proposalTotal, err = s.indexer.getProposalsByProposerAddr(requestData.ProposerAddress, requestData.Page, requestData.PageSize)
	} else if requestData.Status != 0 {
		proposals, proposalTotal, err = s.indexer.getProposalsByStatus(requestData.Status, requestData.Page, requestData.PageSize)
	} else {
		proposals, proposalTotal, err = s.indexer.getProposals(requestData.Page, requestData.PageSize)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response.Total = proposalTotal
	for _, proposal := range proposals {
		votes, _, err := s.indexer.getVotesByProposal(proposal.Id, 0, 1000)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response.Proposals = append(response.Proposals, ProposalInfo{
			Proposal: proposal,
			Votes:    votes,
		})
	}
	c.JSON(http.StatusOK, response)
}

func (s *Service) getProposalInfoById(proposalId uint64) (ProposalInfo, error) {
	proposal, err := s.indexer.getProposalById(proposalId)
	if err != nil {
		return ProposalInfo{}, err
	}
	votes, _, err := s.indexer.getVotesByProposal(proposalId, 0, 1000)
	if err != nil {
		return ProposalInfo{}, err
	}
	return ProposalInfo{Proposal: proposal, Votes: votes}, nil
}

type GetVotesReq struct {
	ProposalId   uint64 `json:"proposalId"`
	VoterAddress string `json:"voter"`
	Page         int    `json:"page"`
	PageSize     int    `json:"pageSize"`
}

type GetVotesResponse struct {
	Votes []Vote `json:"votes"`
	Total uint64 `json:"total"`
}

func (s *Service) handleGetVotes(c *gin.Context) {
	IncRequestCount(c.FullPath())
	var response GetVotesResponse
	response.Votes = make([]Vote, 0)
	var err error
	var requestData GetVotesReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if requestData.PageSize <= 0 {
		requestData.PageSize = 20
	}

	votes := make([]Vote, 0)
	total := uint64(0)
	if requestData.ProposalId != 0 {
		votes, total, err = s.indexer.getVotesByProposal(requestData.ProposalId, requestData.Page, requestData.PageSize)
	} else if requestData.VoterAddress != "" {
		votes, total, err = s.indexer.getVotesByVoter(requestData.VoterAddress, requestData.Page, requestData.PageSize)
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "proposalId or voter is required"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	response.Votes = votes
	response.Total = total
	c.JSON(http.StatusOK, response)
}

type GetTreasuryReq struct {
	TxnId    uint64 `json:"txnId"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type GetTreasuryResponse struct {
	Balance uint64          `json:"balance"`
	Entries []TreasuryEntry `json:"entries"`
	Total   uint64          `json:"total"`
}

func (s *Service) handleGetTreasury(c *gin.Context) {
	IncRequestCount(c.FullPath())
	var response GetTreasuryResponse
	response.Entries = make([]TreasuryEntry, 0)
	var requestData GetTreasuryReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if requestData.PageSize <= 0 {
		requestData.PageSize = 20
	}

	info, err := s.indexer.getDAO()
	if err == nil {
		response.Balance = info.TreasuryBalance
	}

	if requestData.TxnId != 0 {
		entry, err := s.indexer.getTreasuryEntryById(requestData.TxnId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response.Entries = append(response.Entries, entry)
		response.Total = 1
		c.JSON(http.StatusOK, response)
		return
	}

	entries, total, err := s.indexer.getTreasuryEntries(requestData.Page, requestData.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	response.Entries = entries
	response.Total = total
	c.JSON(http.StatusOK, response)
}

type GetTransfersReq struct {
	Address  string `json:"address"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type GetTransfersResponse struct {
	Transfers []Transfer `json:"transfers"`
	Total     uint64     `json:"total"`
}

func (s *Service) handleGetTransfers(c *gin.Context) {
	IncRequestCount(c.FullPath())
	var response GetTransfersResponse
	response.Transfers = make([]Transfer, 0)
	var err error
	var requestData GetTransfersReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if requestData.PageSize <= 0 {
		requestData.PageSize = 20
	}

	transfers := make([]Transfer, 0)
	total := uint64(0)
	if requestData.Address != "" {
		transfers, total, err = s.indexer.getTransfersByAddress(requestData.Address, requestData.Page, requestData.PageSize)
	} else {
		transfers, total, err = s.indexer.getTransfers(requestData.Page, requestData.PageSize)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	response.Transfers = transfers
	response.Total = total
	c.JSON(http.StatusOK, response)
}
