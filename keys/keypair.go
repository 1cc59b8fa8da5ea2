// Package keys derives the account key pair from a mnemonic and signs digests.
package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec"
	"github.com/cosmos/cosmos-sdk/crypto/keys/hd"
	"github.com/tendermint/tendermint/crypto/secp256k1"
	"github.com/tendermint/tendermint/libs/bech32"
	"github.com/tyler-smith/go-bip39"
)

const (
	// Bech32Prefix of account addresses
	Bech32Prefix = "bluzelle"
	// CoinType is the BIP44 coin type
	CoinType = 118
	// PubKeyType is the amino type tag of the public key
	PubKeyType = "tendermint/PubKeySecp256k1"
	// DefaultBIP39Passphrase is the fixed passphrase mixed into the seed
	DefaultBIP39Passphrase = ""

	digestLength = 32
)

// FullPath is the BIP44 derivation path, 44'/118'/0'/0/0
var FullPath = hd.NewFundraiserParams(0, CoinType, 0).String()

// errors
var (
	ErrInvalidMnemonic   = errors.New("invalid mnemonic")
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidDigest     = errors.New("digest must be 32 bytes")
)

// KeyPair holds a secp256k1 key and its bech32 address
type KeyPair struct {
	privKey secp256k1.PrivKeySecp256k1
	pubKey  secp256k1.PubKeySecp256k1
	address string
}

// NewKeyPairFromMnemonic derives the key at FullPath
func NewKeyPairFromMnemonic(mnemonic string) (*KeyPair, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, DefaultBIP39Passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	master, chainCode := hd.ComputeMastersFromSeed(seed)
	derived, err := hd.DerivePrivateKeyForPath(master, chainCode, FullPath)
	if err != nil {
		return nil, err
	}
	return NewKeyPair(derived[:])
}

// NewKeyPair creates a key pair from a raw 32 byte private key
func NewKeyPair(privKey []byte) (*KeyPair, error) {
	if len(privKey) != 32 {
		return nil, ErrInvalidPrivateKey
	}
	var priv secp256k1.PrivKeySecp256k1
	copy(priv[:], privKey)
	pub, ok := priv.PubKey().(secp256k1.PubKeySecp256k1)
	if !ok {
		return nil, ErrInvalidPrivateKey
	}
	address, err := bech32.ConvertAndEncode(Bech32Prefix, pub.Address().Bytes())
	if err != nil {
		return nil, err
	}
	return &KeyPair{privKey: priv, pubKey: pub, address: address}, nil
}

// Address returns the bech32 account address
func (kp *KeyPair) Address() string {
	return kp.address
}

// PubKey returns the 33 byte compressed public key
func (kp *KeyPair) PubKey() []byte {
	pub := make([]byte, len(kp.pubKey))
	copy(pub, kp.pubKey[:])
	return pub
}

// TmPubKey returns the tendermint public key
func (kp *KeyPair) TmPubKey() secp256k1.PubKeySecp256k1 {
	return kp.pubKey
}

// Sign signs a sha256 digest, returns 64 bytes R||S with low S
func (kp *KeyPair) Sign(digest []byte) ([]byte, error) {
	if len(digest) != digestLength {
		return nil, ErrInvalidDigest
	}
	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), kp.privKey[:])
	sig, err := priv.Sign(digest)
	if err != nil {
		return nil, err
	}
	return serializeSig(sig), nil
}

func serializeSig(sig *btcec.Signature) []byte {
	rBytes := sig.R.Bytes()
	sBytes := sig.S.Bytes()
	sigBytes := make([]byte, 64)
	copy(sigBytes[32-len(rBytes):32], rBytes)
	copy(sigBytes[64-len(sBytes):64], sBytes)
	return sigBytes
}
