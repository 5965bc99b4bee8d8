package crypto

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/cometbft/cometbft/crypto"
	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtjson "github.com/cometbft/cometbft/libs/json"
	cmtos "github.com/cometbft/cometbft/libs/os"
	"github.com/cometbft/cometbft/privval"
)

// PV wraps a signing key for CLI use. Governance identities are ed25519,
// so both the validator key file and the hex owner key load into one type.
type PV struct {
	privateKey crypto.PrivKey
	publicKey  crypto.PubKey
}

func LoadFilePV(keyFilePath string) *PV {
	keyJSONBytes, err := os.ReadFile(keyFilePath)
	if err != nil {
		cmtos.Exit(err.Error())
	}
	pvKey := privval.FilePVKey{}
	err = cmtjson.Unmarshal(keyJSONBytes, &pvKey)
	if err != nil {
		cmtos.Exit(fmt.Sprintf("Error reading PrivValidator key from %v: %v\n", keyFilePath, err))
	}

	return &PV{
		privateKey: pvKey.PrivKey,
		publicKey:  pvKey.PubKey,
	}
}

// LoadHexPV reads an ed25519 private key stored as hex, the format written
// by config.InitializeOwner.
func LoadHexPV(keyFilePath string) *PV {
	dat, err := os.ReadFile(keyFilePath)
	if err != nil {
		cmtos.Exit(err.Error())
	}
	raw, err := hex.DecodeString(strings.TrimSpace(string(dat)))
	if err != nil {
		cmtos.Exit(fmt.Sprintf("Error decoding key from %v: %v\n", keyFilePath, err))
	}
	if len(raw) != ed25519.PrivateKeySize {
		cmtos.Exit(fmt.Sprintf("Bad key size in %v: %v\n", keyFilePath, len(raw)))
	}
	priv := ed25519.PrivKey(raw)

	return &PV{
		privateKey: priv,
		publicKey:  priv.PubKey(),
	}
}

func (k *PV) PublicKey() []byte {
	return k.publicKey.Bytes()
}

func (k *PV) Address() string {
	return k.publicKey.Address().String()
}

func (k *PV) Sign(data []byte) ([]byte, error) {
	return k.privateKey.Sign(data)
}
