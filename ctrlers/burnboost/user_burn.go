package burnboost

import (
	"github.com/beatoz/burnboost-go/libs/wirex"
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/xerrors"
	"google.golang.org/protobuf/encoding/protowire"
)

// UserBurn is the cumulative amount `Holder` has burned of `Token`.
type UserBurn struct {
	Holder       types.Address `json:"holder"`
	Token        types.Address `json:"token"`
	BurnedAmount uint64        `json:"burned_amount"`
}

func (ub *UserBurn) Clone() *UserBurn {
	return &UserBurn{
		Holder:       ub.Holder.Copy(),
		Token:        ub.Token.Copy(),
		BurnedAmount: ub.BurnedAmount,
	}
}

func (ub *UserBurn) Encode() ([]byte, xerrors.XError) {
	return wirex.NewEncoder().
		Bytes(1, ub.Holder).
		Bytes(2, ub.Token).
		Uint64(3, ub.BurnedAmount).
		Encode(), nil
}

func (ub *UserBurn) Decode(bz []byte) xerrors.XError {
	err := wirex.Walk(bz, func(num protowire.Number, f wirex.Field) error {
		var err error
		switch num {
		case 1:
			ub.Holder, err = f.Bytes()
		case 2:
			ub.Token, err = f.Bytes()
		case 3:
			ub.BurnedAmount, err = f.Uint64()
		}
		return err
	})
	if err != nil {
		return xerrors.From(err)
	}
	return nil
}
