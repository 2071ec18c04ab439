package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

// DerivationPath is the first account of the default Ethereum BIP-44 branch,
// the one browser wallets import from a mnemonic.
const DerivationPath = "m/44'/60'/0'/0/0"

var ErrInvalidMnemonic = errors.New("invalid mnemonic")

var derivationIndexes = []uint32{
	hdkeychain.HardenedKeyStart + 44,
	hdkeychain.HardenedKeyStart + 60,
	hdkeychain.HardenedKeyStart + 0,
	0,
	0,
}

type Account struct {
	Address    common.Address
	PrivateKey *ecdsa.PrivateKey
	Mnemonic   string
}

func (a *Account) PrivateKeyHex() string {
	return hexutil.Encode(crypto.FromECDSA(a.PrivateKey))
}

// NewAccount creates a random 12-word mnemonic and derives its first account.
func NewAccount() (*Account, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return nil, fmt.Errorf("generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, fmt.Errorf("generate mnemonic: %w", err)
	}

	return FromMnemonic(mnemonic, "")
}

func FromMnemonic(mnemonic, passphrase string) (*Account, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	// the network params only select the extended key version bytes
	key, err := hdkeychain.NewMaster(bip39.NewSeed(mnemonic, passphrase), &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}

	for _, index := range derivationIndexes {
		if key, err = key.Derive(index); err != nil {
			return nil, fmt.Errorf("derive %s: %w", DerivationPath, err)
		}
	}

	btcKey, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("extract private key: %w", err)
	}

	privateKey, err := crypto.ToECDSA(btcKey.Serialize())
	if err != nil {
		return nil, fmt.Errorf("convert private key: %w", err)
	}

	return &Account{
		Address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		PrivateKey: privateKey,
		Mnemonic:   mnemonic,
	}, nil
}
