package burnboost

import (
	"strconv"

	ctrlertypes "github.com/beatoz/burnboost-go/ctrlers/types"
	"github.com/beatoz/burnboost-go/types"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	EVENT_TYPE_TOKEN_INITIALIZED = "token_initialized"
	EVENT_TYPE_BURN_COMPLETED    = "burn_completed"
	EVENT_TYPE_BOOST_CHANGED     = "boost_changed"

	EVENT_ATTR_AUTHORITY      = "authority"
	EVENT_ATTR_HOLDER         = "holder"
	EVENT_ATTR_INITIAL_SUPPLY = "initial_supply"
	EVENT_ATTR_OLD_MULTIPLIER = "old_multiplier"
	EVENT_ATTR_NEW_MULTIPLIER = "new_multiplier"
	EVENT_ATTR_BURNED_BP      = "burned_percentage"
)

func attr(key, value string, index bool) abcitypes.EventAttribute {
	return abcitypes.EventAttribute{Key: []byte(key), Value: []byte(value), Index: index}
}

func u64(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func tokenInitializedEvent(s *TokenState) abcitypes.Event {
	return abcitypes.Event{
		Type: EVENT_TYPE_TOKEN_INITIALIZED,
		Attributes: []abcitypes.EventAttribute{
			attr(ctrlertypes.EVENT_ATTR_TOKEN, s.Mint.String(), true),
			attr(EVENT_ATTR_AUTHORITY, s.Authority.String(), true),
			attr(EVENT_ATTR_INITIAL_SUPPLY, u64(s.InitialSupply), false),
		},
	}
}

func burnCompletedEvent(token, holder types.Address, amount, newMultiplier uint64) abcitypes.Event {
	return abcitypes.Event{
		Type: EVENT_TYPE_BURN_COMPLETED,
		Attributes: []abcitypes.EventAttribute{
			attr(ctrlertypes.EVENT_ATTR_TOKEN, token.String(), true),
			attr(EVENT_ATTR_HOLDER, holder.String(), true),
			attr(ctrlertypes.EVENT_ATTR_AMOUNT, u64(amount), false),
			attr(EVENT_ATTR_NEW_MULTIPLIER, u64(newMultiplier), false),
		},
	}
}

func boostChangedEvent(token types.Address, oldMultiplier, newMultiplier, burnedBp uint64) abcitypes.Event {
	return abcitypes.Event{
		Type: EVENT_TYPE_BOOST_CHANGED,
		Attributes: []abcitypes.EventAttribute{
			attr(ctrlertypes.EVENT_ATTR_TOKEN, token.String(), true),
			attr(EVENT_ATTR_OLD_MULTIPLIER, u64(oldMultiplier), false),
			attr(EVENT_ATTR_NEW_MULTIPLIER, u64(newMultiplier), false),
			attr(EVENT_ATTR_BURNED_BP, u64(burnedBp), false),
		},
	}
}
