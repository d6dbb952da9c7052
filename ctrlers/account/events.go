package account

import (
	"strconv"

	ctrlertypes "github.com/beatoz/burnboost-go/ctrlers/types"
	"github.com/beatoz/burnboost-go/types"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const EVENT_TYPE_TRANSFER = "transfer"

func transferEvent(token, from, to types.Address, amount uint64) abcitypes.Event {
	return abcitypes.Event{
		Type: EVENT_TYPE_TRANSFER,
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_TOKEN), Value: []byte(token.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXSENDER), Value: []byte(from.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXRECVER), Value: []byte(to.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_AMOUNT), Value: []byte(strconv.FormatUint(amount, 10)), Index: false},
		},
	}
}
