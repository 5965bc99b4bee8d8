package tx

import "errors"

type GovTxType uint8

const (
	GovTxTypeUnknown    GovTxType = 0
	GovTxTypeInitialize GovTxType = 1
	GovTxTypeJoin       GovTxType = 2
	GovTxTypeTransfer   GovTxType = 3
	GovTxTypeMint       GovTxType = 4
	GovTxTypeProposal   GovTxType = 5
	GovTxTypeVote       GovTxType = 6
	GovTxTypeFinalize   GovTxType = 7
	GovTxTypeExecute    GovTxType = 8
	GovTxTypeDeposit    GovTxType = 9
	GovTxTypeRole       GovTxType = 10
	GovTxTypePause      GovTxType = 11
)

func (t GovTxType) String() string {
	switch t {
	case GovTxTypeInitialize:
		return "initialize"
	case GovTxTypeJoin:
		return "join"
	case GovTxTypeTransfer:
		return "transfer"
	case GovTxTypeMint:
		return "mint"
	case GovTxTypeProposal:
		return "proposal"
	case GovTxTypeVote:
		return "vote"
	case GovTxTypeFinalize:
		return "finalize"
	case GovTxTypeExecute:
		return "execute"
	case GovTxTypeDeposit:
		return "deposit"
	case GovTxTypeRole:
		return "role"
	case GovTxTypePause:
		return "pause"
	}
	return "unknown"
}

const (
	GovTxVersion0 uint8 = 0
	GovTxVersion1 uint8 = 1
)

var (
	ErrInvalidTx         = errors.New("invalid tx")
	ErrUnsupportedTxType = errors.New("unsupported tx type")
	ErrUnmatchedTxType   = errors.New("unmatched tx type")

	ErrUnsupportedTxVersion = errors.New("unsupported tx version")
	ErrMissingPubKey        = errors.New("missing pubkey")
	ErrMissingSignature     = errors.New("missing signature")
)
