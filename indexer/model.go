package indexer

// sqlite models

type Height struct {
	Id     uint64 `gorm:"primaryKey" json:"id"`
	Height uint64 `json:"height"`
}

type DAOInfo struct {
	Id              uint64 `gorm:"primaryKey" json:"id"`
	Name            string `json:"name"`
	OwnerIndex      uint64 `json:"owner_index"`
	OwnerAddress    string `json:"owner_address"`
	TotalSupply     uint64 `json:"total_supply"`
	TreasuryBalance uint64 `json:"treasury_balance"`
	Paused          bool   `json:"paused"`
	InitHeight      uint64 `json:"init_height"`
}

type Member struct {
	Id         uint64 `gorm:"primaryKey" json:"id"`
	Address    string `json:"address"`
	JoinHeight uint64 `json:"join_height"`
	Power      uint64 `json:"power"`
}

type Proposal struct {
	Id              uint64 `gorm:"primaryKey" json:"id"`
	ProposerIndex   uint64 `json:"proposer_index"`
	ProposerAddress string `json:"proposer_address"`
	Kind            uint64 `json:"kind"`
	Title           string `json:"title"`
	VotingEnd       uint64 `json:"voting_end"`
	Quorum          uint64 `json:"quorum"`
	VotesFor        uint64 `json:"votes_for"`
	VotesAgainst    uint64 `json:"votes_against"`
	TotalVotes      uint64 `json:"total_votes"`
	Status          uint64 `json:"status"`
	Height          uint64 `json:"height"`
}

type Vote struct {
	Id           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Proposal     uint64 `gorm:"unique_index:idx_vote_unique" json:"proposal"`
	VoterIndex   uint64 `gorm:"unique_index:idx_vote_unique" json:"voter_index"`
	VoterAddress string `json:"voter_address"`
	Support      bool   `json:"support"`
	Power        uint64 `json:"power"`
	Height       uint64 `json:"height"`
}

type TreasuryEntry struct {
	Id          uint64 `gorm:"primaryKey" json:"id"`
	Kind        uint64 `json:"kind"`
	Amount      uint64 `json:"amount"`
	FromIndex   uint64 `json:"from_index"`
	FromAddress string `json:"from_address"`
	ToIndex     uint64 `json:"to_index"`
	ToAddress   string `json:"to_address"`
	Proposal    uint64 `json:"proposal"`
	Height      uint64 `json:"height"`
}

type Transfer struct {
	Id          uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	FromIndex   uint64 `json:"from_index"`
	FromAddress string `json:"from_address"`
	ToIndex     uint64 `json:"to_index"`
	ToAddress   string `json:"to_address"`
	Amount      uint64 `json:"amount"`
	Mint        bool   `json:"mint"`
	Height      uint64 `json:"height"`
}

type Role struct {
	Id          uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberIndex uint64 `gorm:"unique_index:idx_role_unique" json:"member_index"`
	Role        string `gorm:"unique_index:idx_role_unique" json:"role"`
	Address     string `json:"address"`
	GrantedBy   uint64 `json:"granted_by"`
	Active      bool   `json:"active"`
	Height      uint64 `json:"height"`
}
