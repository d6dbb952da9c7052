package types

type TrxPayloadInitToken struct {
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Decimals      uint8  `json:"decimals"`
	BaseMarketCap uint64 `json:"base_market_cap"`
}

func (tx *TrxPayloadInitToken) Type() int32 {
	return TRX_INIT_TOKEN
}

type TrxPayloadBurn struct{}

func (tx *TrxPayloadBurn) Type() int32 {
	return TRX_BURN
}

type TrxPayloadTransfer struct{}

func (tx *TrxPayloadTransfer) Type() int32 {
	return TRX_TRANSFER
}

var _ ITrxPayload = (*TrxPayloadInitToken)(nil)
var _ ITrxPayload = (*TrxPayloadBurn)(nil)
var _ ITrxPayload = (*TrxPayloadTransfer)(nil)
