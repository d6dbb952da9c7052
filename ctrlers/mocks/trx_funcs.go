package mocks

import (
	"crypto/ecdsa"

	ctrlertypes "github.com/beatoz/burnboost-go/ctrlers/types"
	"github.com/beatoz/burnboost-go/types/xerrors"
)

// MakeTrxCtx signs `tx` with `prv` and returns the context a node would build from its bytes.
func MakeTrxCtx(tx *ctrlertypes.Trx, prv *ecdsa.PrivateKey, signer *ctrlertypes.Signer, height int64, exec bool) (*ctrlertypes.TrxContext, xerrors.XError) {
	if _, xerr := signer.SignTrx(tx, prv); xerr != nil {
		return nil, xerr
	}
	txbz, xerr := tx.Encode()
	if xerr != nil {
		return nil, xerr
	}
	return ctrlertypes.NewTrxContext(txbz, height, signer, exec)
}
