package crypto

import (
	"crypto/ecdsa"

	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/xerrors"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

func DefaultHash(bzs ...[]byte) []byte {
	return ethcrypto.Keccak256(bzs...)
}

func NewPrvKey() (*ecdsa.PrivateKey, xerrors.XError) {
	prv, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, xerrors.From(err)
	}
	return prv, nil
}

func ImportPrvKey(prvBytes []byte) (*ecdsa.PrivateKey, xerrors.XError) {
	prv, err := ethcrypto.ToECDSA(prvBytes)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return prv, nil
}

func PubKey2Addr(pub *ecdsa.PublicKey) types.Address {
	return ethcrypto.PubkeyToAddress(*pub).Bytes()
}

func PrvKey2Addr(prv *ecdsa.PrivateKey) types.Address {
	return PubKey2Addr(&prv.PublicKey)
}

// Sign returns a 65 bytes [R || S || V] signature of DefaultHash(msg).
func Sign(msg []byte, prv *ecdsa.PrivateKey) ([]byte, xerrors.XError) {
	sig, err := ethcrypto.Sign(DefaultHash(msg), prv)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return sig, nil
}

// Recover returns the address of the key which produced `sig` over `msg`.
func Recover(msg, sig []byte) (types.Address, xerrors.XError) {
	if len(sig) != ethcrypto.SignatureLength {
		return nil, xerrors.ErrInvalidTrxSig.Wrapf("wrong signature length - expected: %d, actual: %d", ethcrypto.SignatureLength, len(sig))
	}
	pub, err := ethcrypto.SigToPub(DefaultHash(msg), sig)
	if err != nil {
		return nil, xerrors.ErrInvalidTrxSig.Wrap(err)
	}
	return PubKey2Addr(pub), nil
}
