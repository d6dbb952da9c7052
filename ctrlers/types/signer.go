package types

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/bytes"
	"github.com/beatoz/burnboost-go/types/crypto"
	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/ethereum/go-ethereum/rlp"
)

// Signer signs and verifies transactions of the chain `chainId`.
// The recovered signer is the only authorization a transaction carries.
type Signer struct {
	chainId string
}

func NewSigner(chainId string) *Signer {
	return &Signer{chainId: chainId}
}

func (s *Signer) ChainID() string {
	return s.chainId
}

func (s *Signer) SignTrx(tx *Trx, prv *ecdsa.PrivateKey) (bytes.HexBytes, xerrors.XError) {
	preimg, xerr := s.GetPreimage(tx)
	if xerr != nil {
		return nil, xerr
	}
	sig, xerr := crypto.Sign(preimg, prv)
	if xerr != nil {
		return nil, xerr
	}
	tx.Sig = sig
	return sig, nil
}

func (s *Signer) VerifyTrx(tx *Trx) (types.Address, xerrors.XError) {
	preimg, xerr := s.GetPreimage(tx)
	if xerr != nil {
		return nil, xerr
	}
	addr, xerr := crypto.Recover(preimg, tx.Sig)
	if xerr != nil {
		return nil, xerr
	}
	if !addr.Equal(tx.From) {
		return nil, xerrors.ErrInvalidTrxSig.Wrap(fmt.Errorf("wrong address(or sig) - expected: %v, actual: %v", tx.From, addr))
	}
	return addr, nil
}

// GetPreimage returns the signed bytes of `tx`, which excludes the sig.
func (s *Signer) GetPreimage(tx *Trx) ([]byte, xerrors.XError) {
	sig := tx.Sig
	tx.Sig = nil
	defer func() {
		tx.Sig = sig
	}()

	bz, err := rlp.EncodeToBytes(tx)
	if err != nil {
		return nil, xerrors.From(err)
	}
	prefix := fmt.Sprintf("\x19BURNBOOST(%s) Signed Message:\n%d", s.chainId, len(bz))
	return append([]byte(prefix), bz...), nil
}
