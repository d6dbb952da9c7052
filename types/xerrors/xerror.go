package xerrors

import (
	"errors"
	"fmt"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	ErrCodeSuccess uint32 = abcitypes.CodeTypeOK + iota
	ErrCodeOrdinary
	ErrCodeInitChain
	ErrCodeCheckTx
	ErrCodeDeliverTx
	ErrCodeCommit
	ErrCodeInvalidTrx
	ErrCodeInvalidBurnAmount
	ErrCodeFieldTooLong
	ErrCodeInvalidSupply
	ErrCodeAlreadyInitialized
	ErrCodeNotFoundToken
	ErrCodeNotFoundAccount
	ErrCodeOverflow
	ErrCodeInsufficientSupply
	ErrCodeArithmetic
	ErrCodeExternalBurnFailed
	ErrCodeExternalMintFailed
	ErrCodeInsufficientBalance
	ErrCodeUnauthorized
)

const (
	ErrCodeQuery uint32 = 1000 + iota
	ErrCodeInvalidQueryPath
	ErrCodeInvalidQueryParams
	ErrCodeNotFoundResult
	ErrLast
)

var (
	ErrCommon    = New(ErrCodeOrdinary, "burnboost error")
	ErrInitChain = New(ErrCodeInitChain, "InitChain failed")
	ErrCheckTx   = New(ErrCodeCheckTx, "CheckTx failed")
	ErrDeliverTx = New(ErrCodeDeliverTx, "DeliverTx failed")
	ErrCommit    = New(ErrCodeCommit, "Commit failed")
	ErrQuery     = New(ErrCodeQuery, "query failed")

	ErrInvalidTrx              = New(ErrCodeInvalidTrx, "invalid transaction")
	ErrInvalidAddress          = ErrInvalidTrx.Wrap(NewOrdinary("invalid address"))
	ErrInvalidNonce            = ErrInvalidTrx.Wrap(NewOrdinary("invalid nonce"))
	ErrInvalidTrxType          = ErrInvalidTrx.Wrap(NewOrdinary("wrong transaction type"))
	ErrInvalidTrxPayloadParams = ErrInvalidTrx.Wrap(NewOrdinary("invalid params of transaction payload"))
	ErrInvalidTrxSig           = ErrInvalidTrx.Wrap(NewOrdinary("invalid signature"))

	// validation
	ErrInvalidBurnAmount = New(ErrCodeInvalidBurnAmount, "burn amount must be greater than zero")
	ErrFieldTooLong      = New(ErrCodeFieldTooLong, "field too long")
	ErrInvalidSupply     = New(ErrCodeInvalidSupply, "initial supply must be greater than zero")

	// state
	ErrAlreadyInitialized = New(ErrCodeAlreadyInitialized, "token already initialized")
	ErrNotFoundToken      = New(ErrCodeNotFoundToken, "not found token")
	ErrNotFoundAccount    = New(ErrCodeNotFoundAccount, "not found account")

	// arithmetic
	ErrOverFlow           = New(ErrCodeOverflow, "overflow")
	ErrInsufficientSupply = New(ErrCodeInsufficientSupply, "insufficient supply")
	ErrArithmetic         = New(ErrCodeArithmetic, "arithmetic error")

	// external token ledger
	ErrExternalBurnFailed  = New(ErrCodeExternalBurnFailed, "external burn failed")
	ErrExternalMintFailed  = New(ErrCodeExternalMintFailed, "external mint failed")
	ErrInsufficientBalance = New(ErrCodeInsufficientBalance, "insufficient balance")
	ErrUnauthorized        = New(ErrCodeUnauthorized, "unauthorized")

	ErrInvalidQueryPath   = New(ErrCodeInvalidQueryPath, "invalid query path")
	ErrInvalidQueryParams = New(ErrCodeInvalidQueryParams, "invalid query parameters")

	ErrNotFoundResult = New(ErrCodeNotFoundResult, "not found result")
)

type XError interface {
	Code() uint32
	Cause() error
	Error() string
	Msg() string
	Wrap(error) XError
	Wrapf(string, ...any) XError
	Contains(XError) bool
	Equal(XError) bool
}

type xerror struct {
	code  uint32
	msg   string
	cause error
}

func New(code uint32, msg string) XError {
	return &xerror{
		code: code,
		msg:  msg,
	}
}

func NewOrdinary(msg string) XError {
	return &xerror{
		code: ErrCodeOrdinary,
		msg:  msg,
	}
}

func From(err error) XError {
	if err == nil {
		return nil
	}
	if xerr, ok := err.(XError); ok {
		return xerr
	}
	return NewOrdinary(err.Error())
}

func Wrap(err error, msg string) XError {
	return &xerror{
		code:  ErrCodeOrdinary,
		msg:   msg,
		cause: err,
	}
}

func (xerr *xerror) Code() uint32 {
	return xerr.code
}

func (xerr *xerror) Error() string {
	msg := xerr.msg

	if xerr.cause != nil {
		msg += "\n\t" + xerr.cause.Error()
	}

	return msg
}

func (xerr *xerror) Msg() string {
	return xerr.msg
}

func (xerr *xerror) Cause() error {
	return xerr.cause
}

// Unwrap lets errors.Is and errors.As walk the cause chain.
func (xerr *xerror) Unwrap() error {
	return xerr.cause
}

func (xerr *xerror) Wrap(err error) XError {
	if xerr.cause != nil {
		if cerr, ok := xerr.cause.(*xerror); ok {
			return &xerror{
				code:  xerr.code,
				msg:   xerr.msg,
				cause: cerr.Wrap(err),
			}
		}
	}
	return &xerror{
		code:  xerr.code,
		msg:   xerr.msg,
		cause: err,
	}
}

func (xerr *xerror) Wrapf(format string, args ...any) XError {
	return xerr.Wrap(New(ErrCodeOrdinary, fmt.Sprintf(format, args...)))
}

func (xerr *xerror) Contains(other XError) bool {
	if other == nil {
		return false
	}
	if xerr.code == other.Code() && xerr.msg == other.Msg() {
		return true
	} else if xerr.cause != nil {
		if _xerr, ok := xerr.cause.(*xerror); ok {
			return _xerr.Contains(other)
		} else {
			return errors.Is(xerr.cause, other)
		}
	}
	return false
}

func (xerr *xerror) Equal(other XError) bool {
	return xerr.code == other.Code()
}

// Is reports whether target has the same code and message and,
// if target wraps a cause, whether that cause is found in xerr's chain.
func (xerr *xerror) Is(target error) bool {
	other, ok := target.(*xerror)
	if !ok {
		return false
	}
	if xerr.code != other.code || xerr.msg != other.msg {
		return false
	}
	if other.cause == nil {
		return true
	}
	return xerr.cause != nil && errors.Is(xerr.cause, other.cause)
}
