package crypto

import (
	"crypto/ecdsa"
	"os"

	"github.com/beatoz/burnboost-go/libs/jsonx"
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/bytes"
	"github.com/beatoz/burnboost-go/types/xerrors"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	DefaultScryptN = 1 << 15
	DefaultScryptR = 8
	DefaultScryptP = 1

	saltLen  = 32
	nonceLen = 24
	keyLen   = 32
)

type KDFParams struct {
	N    int            `json:"n"`
	R    int            `json:"r"`
	P    int            `json:"p"`
	Salt bytes.HexBytes `json:"salt"`
}

type WalletKey struct {
	Version    int            `json:"version"`
	Address    types.Address  `json:"address"`
	Cipher     string         `json:"cipher"`
	CipherText bytes.HexBytes `json:"ciphertext"`
	Nonce      bytes.HexBytes `json:"nonce"`
	KDF        KDFParams      `json:"kdf"`
}

func NewWalletKey(prv *ecdsa.PrivateKey, pass []byte) (*WalletKey, xerrors.XError) {
	return NewWalletKeyWith(prv, pass, DefaultScryptN, DefaultScryptR, DefaultScryptP)
}

func NewWalletKeyWith(prv *ecdsa.PrivateKey, pass []byte, n, r, p int) (*WalletKey, xerrors.XError) {
	salt := bytes.RandBytes(saltLen)
	secret, err := scrypt.Key(pass, salt, n, r, p, keyLen)
	if err != nil {
		return nil, xerrors.From(err)
	}
	defer bytes.ClearBytes(secret)

	var nonce [nonceLen]byte
	copy(nonce[:], bytes.RandBytes(nonceLen))
	var key [keyLen]byte
	copy(key[:], secret)
	defer bytes.ClearBytes(key[:])

	prvBytes := ethcrypto.FromECDSA(prv)
	defer bytes.ClearBytes(prvBytes)

	return &WalletKey{
		Version:    1,
		Address:    PrvKey2Addr(prv),
		Cipher:     "nacl-secretbox",
		CipherText: secretbox.Seal(nil, prvBytes, &nonce, &key),
		Nonce:      nonce[:],
		KDF: KDFParams{
			N:    n,
			R:    r,
			P:    p,
			Salt: salt,
		},
	}, nil
}

// PrvKey decrypts the private key with `pass`.
func (wk *WalletKey) PrvKey(pass []byte) (*ecdsa.PrivateKey, xerrors.XError) {
	secret, err := scrypt.Key(pass, wk.KDF.Salt, wk.KDF.N, wk.KDF.R, wk.KDF.P, keyLen)
	if err != nil {
		return nil, xerrors.From(err)
	}
	defer bytes.ClearBytes(secret)

	var nonce [nonceLen]byte
	copy(nonce[:], wk.Nonce)
	var key [keyLen]byte
	copy(key[:], secret)
	defer bytes.ClearBytes(key[:])

	prvBytes, ok := secretbox.Open(nil, wk.CipherText, &nonce, &key)
	if !ok {
		return nil, xerrors.ErrUnauthorized.Wrapf("wrong passphrase")
	}
	defer bytes.ClearBytes(prvBytes)

	prv, xerr := ImportPrvKey(prvBytes)
	if xerr != nil {
		return nil, xerr
	}
	if !PrvKey2Addr(prv).Equal(wk.Address) {
		return nil, xerrors.ErrInvalidAddress.Wrapf("the wallet key file is compromised")
	}
	return prv, nil
}

func (wk *WalletKey) Save(path string) xerrors.XError {
	bz, err := jsonx.MarshalIndent(wk, "", "  ")
	if err != nil {
		return xerrors.From(err)
	}
	if err := os.WriteFile(path, bz, 0o600); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func OpenWalletKey(path string) (*WalletKey, xerrors.XError) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.From(err)
	}
	wk := &WalletKey{}
	if err := jsonx.Unmarshal(bz, wk); err != nil {
		return nil, xerrors.From(err)
	}
	return wk, nil
}
