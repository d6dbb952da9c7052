package types

import (
	"io"
	"time"

	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/bytes"
	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/ethereum/go-ethereum/rlp"
)

const (
	TRX_INIT_TOKEN int32 = 1 + iota
	TRX_BURN
	TRX_TRANSFER
	TRX_MIN_TYPE = TRX_INIT_TOKEN
	TRX_MAX_TYPE = TRX_TRANSFER
)

const (
	EVENT_ATTR_TXSTATUS = "status"
	EVENT_ATTR_TXTYPE   = "type"
	EVENT_ATTR_TXSENDER = "sender"
	EVENT_ATTR_TXRECVER = "receiver"
	EVENT_ATTR_TOKEN    = "token"
	EVENT_ATTR_AMOUNT   = "amount"
)

type trxRLP struct {
	Version uint64
	Time    uint64
	Nonce   uint64
	From    types.Address
	To      types.Address
	Token   types.Address
	Amount  uint64
	Type    uint64
	Payload bytes.HexBytes
	Sig     bytes.HexBytes
}

type ITrxPayload interface {
	Type() int32
}

// Trx is a signed request. `Token` is the mint address of the token and,
// for TRX_INIT_TOKEN, `Amount` is the initial supply.
type Trx struct {
	Version int32          `json:"version,omitempty"`
	Time    int64          `json:"time"`
	Nonce   uint64         `json:"nonce"`
	From    types.Address  `json:"from"`
	To      types.Address  `json:"to,omitempty"`
	Token   types.Address  `json:"token"`
	Amount  uint64         `json:"amount"`
	Type    int32          `json:"type"`
	Payload ITrxPayload    `json:"payload,omitempty"`
	Sig     bytes.HexBytes `json:"sig"`
}

func NewTrx(ver int32, from, to, token types.Address, nonce, amt uint64, payload ITrxPayload) *Trx {
	return &Trx{
		Version: ver,
		Time:    time.Now().Round(0).UTC().UnixNano(),
		Nonce:   nonce,
		From:    from,
		To:      to,
		Token:   token,
		Amount:  amt,
		Type:    payload.Type(),
		Payload: payload,
	}
}

func NewTrxInitToken(from, token types.Address, nonce, initialSupply uint64, name, symbol string, decimals uint8, baseMarketCap uint64) *Trx {
	return NewTrx(1, from, nil, token, nonce, initialSupply, &TrxPayloadInitToken{
		Name:          name,
		Symbol:        symbol,
		Decimals:      decimals,
		BaseMarketCap: baseMarketCap,
	})
}

func NewTrxBurn(from, token types.Address, nonce, amt uint64) *Trx {
	return NewTrx(1, from, nil, token, nonce, amt, &TrxPayloadBurn{})
}

func NewTrxTransfer(from, to, token types.Address, nonce, amt uint64) *Trx {
	return NewTrx(1, from, to, token, nonce, amt, &TrxPayloadTransfer{})
}

func (tx *Trx) GetType() int32 {
	return tx.Type
}

func (tx *Trx) TypeString() string {
	return TrxTypeString(tx.Type)
}

func (tx *Trx) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(tx)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *Trx) Decode(bz []byte) xerrors.XError {
	if err := rlp.DecodeBytes(bz, tx); err != nil {
		return xerrors.ErrInvalidTrx.Wrap(err)
	}
	return nil
}

func (tx *Trx) EncodeRLP(w io.Writer) error {
	var payload bytes.HexBytes
	if tx.Payload != nil {
		_tmp, err := rlp.EncodeToBytes(tx.Payload)
		if err != nil {
			return err
		}
		payload = _tmp
	}

	return rlp.Encode(w, &trxRLP{
		Version: uint64(tx.Version),
		Time:    uint64(tx.Time),
		Nonce:   tx.Nonce,
		From:    tx.From,
		To:      tx.To,
		Token:   tx.Token,
		Amount:  tx.Amount,
		Type:    uint64(tx.Type),
		Payload: payload,
		Sig:     tx.Sig,
	})
}

func (tx *Trx) DecodeRLP(s *rlp.Stream) error {
	rtx := &trxRLP{}
	if err := s.Decode(rtx); err != nil {
		return err
	}

	tx.Version = int32(rtx.Version)
	tx.Time = int64(rtx.Time)
	tx.Nonce = rtx.Nonce
	tx.From = nilIfEmpty(rtx.From)
	tx.To = nilIfEmpty(rtx.To)
	tx.Token = nilIfEmpty(rtx.Token)
	tx.Amount = rtx.Amount
	tx.Type = int32(rtx.Type)
	tx.Sig = nilIfEmpty(rtx.Sig)

	var payload ITrxPayload
	switch tx.Type {
	case TRX_INIT_TOKEN:
		payload = &TrxPayloadInitToken{}
	case TRX_BURN:
		payload = &TrxPayloadBurn{}
	case TRX_TRANSFER:
		payload = &TrxPayloadTransfer{}
	default:
		return xerrors.ErrInvalidTrxType.Wrapf("type: %d", tx.Type)
	}
	if len(rtx.Payload) > 0 {
		if err := rlp.DecodeBytes(rtx.Payload, payload); err != nil {
			return err
		}
	}
	tx.Payload = payload
	return nil
}

var _ rlp.Encoder = (*Trx)(nil)
var _ rlp.Decoder = (*Trx)(nil)

func (tx *Trx) Validate() xerrors.XError {
	if len(tx.From) != types.AddrSize {
		return xerrors.ErrInvalidAddress.Wrapf("from: %v", tx.From)
	}
	if len(tx.Token) != types.AddrSize {
		return xerrors.ErrInvalidAddress.Wrapf("token: %v", tx.Token)
	}
	if tx.Type < TRX_MIN_TYPE || tx.Type > TRX_MAX_TYPE {
		return xerrors.ErrInvalidTrxType
	}
	if tx.Type == TRX_TRANSFER && len(tx.To) != types.AddrSize {
		return xerrors.ErrInvalidAddress.Wrapf("to: %v", tx.To)
	}
	if tx.Payload == nil || tx.Type != tx.Payload.Type() {
		return xerrors.ErrInvalidTrxPayloadParams.Wrapf("payload type mismatch")
	}
	if tx.Sig == nil {
		return xerrors.ErrInvalidTrxSig
	}
	return nil
}

func TrxTypeString(t int32) string {
	switch t {
	case TRX_INIT_TOKEN:
		return "init_token"
	case TRX_BURN:
		return "burn"
	case TRX_TRANSFER:
		return "transfer"
	default:
		return "unknown"
	}
}

func nilIfEmpty(bz []byte) []byte {
	if len(bz) == 0 {
		return nil
	}
	return bz
}
