package account

import (
	"github.com/beatoz/burnboost-go/libs/wirex"
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/holiman/uint256"
	"google.golang.org/protobuf/encoding/protowire"
)

// TokenAccount is the balance of `Owner` in `Token`.
type TokenAccount struct {
	Token   types.Address `json:"token"`
	Owner   types.Address `json:"owner"`
	Balance uint64        `json:"balance"`
}

func NewTokenAccount(token, owner types.Address) *TokenAccount {
	return &TokenAccount{
		Token: token,
		Owner: owner,
	}
}

func (acct *TokenAccount) AddBalance(amt uint64) xerrors.XError {
	sum, overflow := new(uint256.Int).AddOverflow(uint256.NewInt(acct.Balance), uint256.NewInt(amt))
	if overflow || !sum.IsUint64() {
		return xerrors.ErrOverFlow.Wrapf("balance %d + %d", acct.Balance, amt)
	}
	acct.Balance = sum.Uint64()
	return nil
}

func (acct *TokenAccount) SubBalance(amt uint64) xerrors.XError {
	if acct.Balance < amt {
		return xerrors.ErrInsufficientBalance.Wrapf("balance: %d, amount: %d", acct.Balance, amt)
	}
	acct.Balance -= amt
	return nil
}

func (acct *TokenAccount) Clone() *TokenAccount {
	return &TokenAccount{
		Token:   acct.Token.Copy(),
		Owner:   acct.Owner.Copy(),
		Balance: acct.Balance,
	}
}

func (acct *TokenAccount) Encode() ([]byte, xerrors.XError) {
	return wirex.NewEncoder().
		Bytes(1, acct.Token).
		Bytes(2, acct.Owner).
		Uint64(3, acct.Balance).
		Encode(), nil
}

func (acct *TokenAccount) Decode(bz []byte) xerrors.XError {
	err := wirex.Walk(bz, func(num protowire.Number, f wirex.Field) error {
		var err error
		switch num {
		case 1:
			acct.Token, err = f.Bytes()
		case 2:
			acct.Owner, err = f.Bytes()
		case 3:
			acct.Balance, err = f.Uint64()
		}
		return err
	})
	if err != nil {
		return xerrors.From(err)
	}
	return nil
}

// AcctNonce is the number of transactions executed by `Address`.
type AcctNonce struct {
	Address types.Address `json:"address"`
	Nonce   uint64        `json:"nonce"`
}

func (n *AcctNonce) Encode() ([]byte, xerrors.XError) {
	return wirex.NewEncoder().
		Bytes(1, n.Address).
		Uint64(2, n.Nonce).
		Encode(), nil
}

func (n *AcctNonce) Decode(bz []byte) xerrors.XError {
	err := wirex.Walk(bz, func(num protowire.Number, f wirex.Field) error {
		var err error
		switch num {
		case 1:
			n.Address, err = f.Bytes()
		case 2:
			n.Nonce, err = f.Uint64()
		}
		return err
	})
	if err != nil {
		return xerrors.From(err)
	}
	return nil
}
