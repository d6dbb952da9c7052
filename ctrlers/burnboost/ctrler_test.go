package burnboost

import (
	"math"
	"testing"

	cfg "github.com/beatoz/burnboost-go/cmd/config"
	"github.com/beatoz/burnboost-go/ctrlers/account"
	"github.com/beatoz/burnboost-go/ctrlers/boost"
	"github.com/beatoz/burnboost-go/ctrlers/mocks"
	ctrlertypes "github.com/beatoz/burnboost-go/ctrlers/types"
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

type testEnv struct {
	config   *cfg.Config
	ctrler   *BurnBoostCtrler
	acctCtrl *account.AcctCtrler
	notifier *mocks.NotifierMock

	authority types.Address
	token     types.Address
}

const (
	testSupply = uint64(1_000_000)
	testMcap   = uint64(1_000_000)
)

func newTestEnv(t *testing.T) *testEnv {
	config := cfg.DefaultConfig().SetRoot(t.TempDir())

	acctCtrl, xerr := account.NewAcctCtrler(config, tmlog.NewNopLogger())
	require.NoError(t, xerr)
	ctrler, xerr := NewBurnBoostCtrler(config, acctCtrl, tmlog.NewNopLogger())
	require.NoError(t, xerr)

	notifier := &mocks.NotifierMock{}
	ctrler.SetNotifier(notifier)

	t.Cleanup(func() {
		_ = ctrler.Close()
		_ = acctCtrl.Close()
	})

	env := &testEnv{
		config:    config,
		ctrler:    ctrler,
		acctCtrl:  acctCtrl,
		notifier:  notifier,
		authority: types.RandAddress(),
		token:     types.RandAddress(),
	}
	_, xerr = ctrler.Initialize(env.authority, env.token, "Burn Boost", "BBT", 9, testSupply, testMcap)
	require.NoError(t, xerr)
	notifier.Reset()
	return env
}

// fund moves `amt` from the authority to a new holder.
func (env *testEnv) fund(t *testing.T, amt uint64) types.Address {
	holder := types.RandAddress()
	require.NoError(t, env.acctCtrl.Transfer(env.token, env.authority, holder, amt, true))
	return holder
}

func (env *testEnv) requireInvariants(t *testing.T) {
	state, xerr := env.ctrler.GetTokenState(env.token)
	require.NoError(t, xerr)
	require.NoError(t, state.CheckInvariants())

	mult, _, xerr := boost.MultiplierOf(state.TotalBurned, state.InitialSupply)
	require.NoError(t, xerr)
	require.Equal(t, mult, state.CurrentBoostMultiplier)

	holders, xerr := env.ctrler.Holders(env.token)
	require.NoError(t, xerr)
	sum := uint64(0)
	for _, h := range holders {
		sum += h.BurnedAmount
	}
	require.Equal(t, state.TotalBurned, sum)
}

func TestInitialize(t *testing.T) {
	env := newTestEnv(t)

	state, xerr := env.ctrler.GetTokenState(env.token)
	require.NoError(t, xerr)
	require.Equal(t, env.authority, state.Authority)
	require.Equal(t, env.token, state.Mint)
	require.Equal(t, "Burn Boost", state.Name)
	require.Equal(t, "BBT", state.Symbol)
	require.Equal(t, uint8(9), state.Decimals)
	require.Equal(t, testSupply, state.InitialSupply)
	require.Equal(t, testSupply, state.CurrentSupply)
	require.Equal(t, uint64(0), state.TotalBurned)
	require.Equal(t, boost.BaseMultiplier, state.CurrentBoostMultiplier)
	require.Equal(t, uint64(0), state.BurnTransactionCount)

	// the initial supply is minted to the authority
	bal, xerr := env.acctCtrl.BalanceOf(env.token, env.authority, true)
	require.NoError(t, xerr)
	require.Equal(t, testSupply, bal)

	_, xerr = env.ctrler.Initialize(env.authority, env.token, "Again", "AGN", 9, testSupply, testMcap)
	require.ErrorIs(t, xerr, xerrors.ErrAlreadyInitialized)
}

func TestInitialize_Validation(t *testing.T) {
	env := newTestEnv(t)
	authority := types.RandAddress()

	_, xerr := env.ctrler.Initialize(authority, types.RandAddress(), "123456789012345678901234567890123", "S", 0, 1, 1)
	require.ErrorIs(t, xerr, xerrors.ErrFieldTooLong)
	_, xerr = env.ctrler.Initialize(authority, types.RandAddress(), "N", "12345678901234567", 0, 1, 1)
	require.ErrorIs(t, xerr, xerrors.ErrFieldTooLong)
	_, xerr = env.ctrler.Initialize(authority, types.RandAddress(), "N", "S", 0, 0, 1)
	require.ErrorIs(t, xerr, xerrors.ErrInvalidSupply)
	_, xerr = env.ctrler.Initialize(authority, types.Address{0x01}, "N", "S", 0, 1, 1)
	require.ErrorIs(t, xerr, xerrors.ErrInvalidAddress)

	// lengths are counted in characters
	_, xerr = env.ctrler.Initialize(authority, types.RandAddress(), "불타는토큰불타는토큰불타는토큰불타는토큰불타는토큰불타는토큰불타", "불", 0, 1, 1)
	require.NoError(t, xerr)

	require.Len(t, env.notifier.EventsOf(EVENT_TYPE_TOKEN_INITIALIZED), 1)
}

// A token is accepted only if its stats stay computable at the maximum boost.
func TestInitialize_BaseMarketCapBound(t *testing.T) {
	env := newTestEnv(t)

	token := types.RandAddress()
	_, xerr := env.ctrler.Initialize(types.RandAddress(), token, "N", "S", 0, 1000, math.MaxUint64)
	require.ErrorIs(t, xerr, xerrors.ErrOverFlow)
	_, xerr = env.ctrler.GetTokenState(token)
	require.ErrorIs(t, xerr, xerrors.ErrNotFoundToken)

	authority := types.RandAddress()
	maxBase := uint64(math.MaxUint64) / 3 * 2
	_, xerr = env.ctrler.Initialize(authority, token, "N", "S", 0, 1000, maxBase)
	require.NoError(t, xerr)

	for _, amt := range []uint64{100, 400, 500} {
		_, xerr = env.ctrler.Burn(token, authority, amt)
		require.NoError(t, xerr)

		stats, xerr := env.ctrler.GetStats(token)
		require.NoError(t, xerr)
		expected, xerr := boost.MarketCap(maxBase, boost.BaseMultiplier+stats.BoostPercentage)
		require.NoError(t, xerr)
		require.Equal(t, expected, stats.CurrentMarketCap)
	}
}

func TestInitialize_MintFailed(t *testing.T) {
	config := cfg.DefaultConfig().SetRoot(t.TempDir())
	ledgerMock := mocks.NewTokenLedgerMock()
	ctrler, xerr := NewBurnBoostCtrler(config, ledgerMock, tmlog.NewNopLogger())
	require.NoError(t, xerr)
	defer ctrler.Close()

	notifier := &mocks.NotifierMock{}
	ctrler.SetNotifier(notifier)

	token := types.RandAddress()
	ledgerMock.FailMint = xerrors.ErrOverFlow
	_, xerr = ctrler.Initialize(types.RandAddress(), token, "N", "S", 0, 100, 100)
	require.ErrorIs(t, xerr, xerrors.ErrExternalMintFailed)
	require.ErrorIs(t, xerr, xerrors.ErrOverFlow)

	// no record was created
	_, xerr = ctrler.GetTokenState(token)
	require.ErrorIs(t, xerr, xerrors.ErrNotFoundToken)
	require.Empty(t, notifier.Events())

	ledgerMock.FailMint = nil
	_, xerr = ctrler.Initialize(types.RandAddress(), token, "N", "S", 0, 100, 100)
	require.NoError(t, xerr)
}

func TestBurn_TenPercent(t *testing.T) {
	env := newTestEnv(t)
	holder := env.fund(t, 100_000)

	ret, xerr := env.ctrler.Burn(env.token, holder, 100_000)
	require.NoError(t, xerr)
	require.Equal(t, boost.BaseMultiplier, ret.OldMultiplier)
	require.Equal(t, uint64(10100), ret.NewMultiplier)
	require.Equal(t, uint64(1000), ret.BurnedBp)

	stats, xerr := env.ctrler.GetStats(env.token)
	require.NoError(t, xerr)
	require.Equal(t, uint64(1000), stats.BurnedPercentage)
	require.Equal(t, uint64(1_010_000), stats.CurrentMarketCap)
	require.Equal(t, uint64(100), stats.BoostPercentage)
	require.Equal(t, uint64(900_000), stats.CurrentSupply)
	require.Equal(t, uint64(100_000), stats.TotalBurned)
	require.Equal(t, uint64(1), stats.BurnTransactionCount)

	bal, xerr := env.acctCtrl.BalanceOf(env.token, holder, true)
	require.NoError(t, xerr)
	require.Equal(t, uint64(0), bal)

	burned, xerr := env.ctrler.BurnedBy(env.token, holder)
	require.NoError(t, xerr)
	require.Equal(t, uint64(100_000), burned)

	env.requireInvariants(t)
}

// The multiplier follows 10000 + min(burnedBp/10, 5000): half of the supply
// burned is a +5% boost, and burning everything is +10%.
func TestBurn_HalfAndAllSupply(t *testing.T) {
	env := newTestEnv(t)
	holder := env.fund(t, testSupply)

	ret, xerr := env.ctrler.Burn(env.token, holder, 500_000)
	require.NoError(t, xerr)
	require.Equal(t, uint64(5000), ret.BurnedBp)
	require.Equal(t, uint64(10500), ret.NewMultiplier)

	prev := ret.NewMultiplier
	for i := 0; i < 5; i++ {
		ret, xerr = env.ctrler.Burn(env.token, holder, 100_000)
		require.NoError(t, xerr)
		require.GreaterOrEqual(t, ret.NewMultiplier, prev)
		require.LessOrEqual(t, ret.NewMultiplier, boost.MaxMultiplier)
		prev = ret.NewMultiplier
	}
	require.Equal(t, uint64(11000), prev)

	stats, xerr := env.ctrler.GetStats(env.token)
	require.NoError(t, xerr)
	require.Equal(t, uint64(0), stats.CurrentSupply)
	require.Equal(t, testSupply, stats.TotalBurned)
	require.Equal(t, uint64(10000), stats.BurnedPercentage)
	require.Equal(t, uint64(1000), stats.BoostPercentage)

	// nothing left to burn
	_, xerr = env.ctrler.Burn(env.token, holder, 1)
	require.ErrorIs(t, xerr, xerrors.ErrInsufficientSupply)

	env.requireInvariants(t)
}

func TestBurn_ZeroAmount(t *testing.T) {
	env := newTestEnv(t)
	holder := env.fund(t, 100)

	before, xerr := env.ctrler.GetTokenState(env.token)
	require.NoError(t, xerr)

	_, xerr = env.ctrler.Burn(env.token, holder, 0)
	require.ErrorIs(t, xerr, xerrors.ErrInvalidBurnAmount)

	after, xerr := env.ctrler.GetTokenState(env.token)
	require.NoError(t, xerr)
	require.Equal(t, before, after)
	require.Empty(t, env.notifier.Events())

	holders, xerr := env.ctrler.Holders(env.token)
	require.NoError(t, xerr)
	require.Empty(t, holders)
}

func TestBurn_OverSupply(t *testing.T) {
	config := cfg.DefaultConfig().SetRoot(t.TempDir())
	ledgerMock := mocks.NewTokenLedgerMock()
	ctrler, xerr := NewBurnBoostCtrler(config, ledgerMock, tmlog.NewNopLogger())
	require.NoError(t, xerr)
	defer ctrler.Close()

	token, holder := types.RandAddress(), types.RandAddress()
	_, xerr = ctrler.Initialize(types.RandAddress(), token, "N", "S", 0, 1000, 1000)
	require.NoError(t, xerr)

	// the holder has more than the supply in the external ledger
	ledgerMock.SetBalance(token, holder, 5000)

	_, xerr = ctrler.Burn(token, holder, 1001)
	require.ErrorIs(t, xerr, xerrors.ErrInsufficientSupply)
	require.Equal(t, 0, ledgerMock.BurnCalls)

	state, xerr := ctrler.GetTokenState(token)
	require.NoError(t, xerr)
	require.Equal(t, uint64(1000), state.CurrentSupply)
	require.Equal(t, uint64(0), state.TotalBurned)
	require.Equal(t, uint64(0), state.BurnTransactionCount)

	burned, xerr := ctrler.BurnedBy(token, holder)
	require.NoError(t, xerr)
	require.Equal(t, uint64(0), burned)

	bal, _ := ledgerMock.BalanceOf(token, holder, true)
	require.Equal(t, uint64(5000), bal)
}

func TestBurn_Overflow(t *testing.T) {
	env := newTestEnv(t)
	holder := env.fund(t, 10)

	_, xerr := env.ctrler.Burn(env.token, holder, 1)
	require.NoError(t, xerr)
	before, xerr := env.ctrler.GetTokenState(env.token)
	require.NoError(t, xerr)
	env.notifier.Reset()

	_, xerr = env.ctrler.Burn(env.token, holder, math.MaxUint64)
	require.ErrorIs(t, xerr, xerrors.ErrOverFlow)

	after, xerr := env.ctrler.GetTokenState(env.token)
	require.NoError(t, xerr)
	require.Equal(t, before, after)

	burned, xerr := env.ctrler.BurnedBy(env.token, holder)
	require.NoError(t, xerr)
	require.Equal(t, uint64(1), burned)

	bal, xerr := env.acctCtrl.BalanceOf(env.token, holder, true)
	require.NoError(t, xerr)
	require.Equal(t, uint64(9), bal)
	require.Empty(t, env.notifier.Events())
	env.requireInvariants(t)
}

func TestPreview_NoMutation(t *testing.T) {
	env := newTestEnv(t)

	preview, xerr := env.ctrler.PreviewBoost(env.token, 50_000)
	require.NoError(t, xerr)
	require.Equal(t, uint64(10050), preview.MultiplierBp)
	require.Equal(t, uint64(50), preview.BoostBp)

	stats, xerr := env.ctrler.GetStats(env.token)
	require.NoError(t, xerr)
	require.Equal(t, uint64(0), stats.TotalBurned)
	require.Equal(t, testSupply, stats.CurrentSupply)
	require.Equal(t, uint64(0), stats.BurnTransactionCount)

	// not clamped to the initial supply
	preview, xerr = env.ctrler.PreviewBoost(env.token, 10*testSupply)
	require.NoError(t, xerr)
	require.Equal(t, uint64(100_000), preview.BurnedBp)
	require.Equal(t, boost.MaxMultiplier, preview.MultiplierBp)

	_, xerr = env.ctrler.PreviewBoost(env.token, ^uint64(0))
	require.NoError(t, xerr)

	_, xerr = env.ctrler.PreviewBoost(types.RandAddress(), 1)
	require.ErrorIs(t, xerr, xerrors.ErrNotFoundToken)
}

func TestBurn_ExternalFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	holder := env.fund(t, 100)

	// burning more than the balance
	_, xerr := env.ctrler.Burn(env.token, holder, 101)
	require.ErrorIs(t, xerr, xerrors.ErrExternalBurnFailed)
	require.ErrorIs(t, xerr, xerrors.ErrInsufficientBalance)

	// authorized by someone else
	_, xerr = env.ctrler.BurnBy(env.token, holder, types.RandAddress(), 10)
	require.ErrorIs(t, xerr, xerrors.ErrExternalBurnFailed)
	require.ErrorIs(t, xerr, xerrors.ErrUnauthorized)

	state, xerr := env.ctrler.GetTokenState(env.token)
	require.NoError(t, xerr)
	require.Equal(t, testSupply, state.CurrentSupply)
	require.Equal(t, uint64(0), state.TotalBurned)
	require.Equal(t, uint64(0), state.BurnTransactionCount)
	require.Equal(t, boost.BaseMultiplier, state.CurrentBoostMultiplier)

	burned, xerr := env.ctrler.BurnedBy(env.token, holder)
	require.NoError(t, xerr)
	require.Equal(t, uint64(0), burned)

	bal, xerr := env.acctCtrl.BalanceOf(env.token, holder, true)
	require.NoError(t, xerr)
	require.Equal(t, uint64(100), bal)

	require.Empty(t, env.notifier.Events())

	// the state survives a commit unchanged
	_, _, xerr = env.ctrler.Commit()
	require.NoError(t, xerr)
	holders, xerr := env.ctrler.Holders(env.token)
	require.NoError(t, xerr)
	require.Empty(t, holders)
}

func TestBurn_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, xerr := env.ctrler.Burn(types.RandAddress(), types.RandAddress(), 1)
	require.ErrorIs(t, xerr, xerrors.ErrNotFoundToken)
	_, xerr = env.ctrler.GetStats(types.RandAddress())
	require.ErrorIs(t, xerr, xerrors.ErrNotFoundToken)
	_, xerr = env.ctrler.BurnedBy(types.RandAddress(), types.RandAddress())
	require.ErrorIs(t, xerr, xerrors.ErrNotFoundToken)
}

func TestBurn_NotIdempotent(t *testing.T) {
	env := newTestEnv(t)
	holder := env.fund(t, 1000)

	for i := 1; i <= 3; i++ {
		_, xerr := env.ctrler.Burn(env.token, holder, 100)
		require.NoError(t, xerr)

		state, xerr := env.ctrler.GetTokenState(env.token)
		require.NoError(t, xerr)
		require.Equal(t, uint64(i*100), state.TotalBurned)
		require.Equal(t, uint64(i), state.BurnTransactionCount)
	}
	env.requireInvariants(t)
}

func TestBurn_Monotonic(t *testing.T) {
	env := newTestEnv(t)
	holders := []types.Address{env.fund(t, 300_000), env.fund(t, 300_000), env.fund(t, 300_000)}

	prev, xerr := env.ctrler.GetTokenState(env.token)
	require.NoError(t, xerr)

	amts := []uint64{1, 999, 10_000, 55_555, 123_456, 7}
	for i, amt := range amts {
		_, xerr := env.ctrler.Burn(env.token, holders[i%len(holders)], amt)
		require.NoError(t, xerr)

		curr, xerr := env.ctrler.GetTokenState(env.token)
		require.NoError(t, xerr)
		require.GreaterOrEqual(t, curr.TotalBurned, prev.TotalBurned)
		require.LessOrEqual(t, curr.CurrentSupply, prev.CurrentSupply)
		require.GreaterOrEqual(t, curr.CurrentBoostMultiplier, prev.CurrentBoostMultiplier)
		require.Equal(t, prev.BurnTransactionCount+1, curr.BurnTransactionCount)
		prev = curr
	}
	env.requireInvariants(t)
}

func TestBurn_Events(t *testing.T) {
	env := newTestEnv(t)
	holder := env.fund(t, 200_000)

	// 0.05% burned does not move the multiplier
	_, xerr := env.ctrler.Burn(env.token, holder, 500)
	require.NoError(t, xerr)
	require.Len(t, env.notifier.EventsOf(EVENT_TYPE_BURN_COMPLETED), 1)
	require.Empty(t, env.notifier.EventsOf(EVENT_TYPE_BOOST_CHANGED))

	evt := env.notifier.EventsOf(EVENT_TYPE_BURN_COMPLETED)[0]
	require.Equal(t, holder.String(), mocks.AttrValue(evt, EVENT_ATTR_HOLDER))
	require.Equal(t, "500", mocks.AttrValue(evt, ctrlertypes.EVENT_ATTR_AMOUNT))
	require.Equal(t, "10000", mocks.AttrValue(evt, EVENT_ATTR_NEW_MULTIPLIER))

	env.notifier.Reset()
	_, xerr = env.ctrler.Burn(env.token, holder, 99_500)
	require.NoError(t, xerr)
	require.Len(t, env.notifier.EventsOf(EVENT_TYPE_BURN_COMPLETED), 1)
	changed := env.notifier.EventsOf(EVENT_TYPE_BOOST_CHANGED)
	require.Len(t, changed, 1)
	require.Equal(t, "10000", mocks.AttrValue(changed[0], EVENT_ATTR_OLD_MULTIPLIER))
	require.Equal(t, "10100", mocks.AttrValue(changed[0], EVENT_ATTR_NEW_MULTIPLIER))
	require.Equal(t, "1000", mocks.AttrValue(changed[0], EVENT_ATTR_BURNED_BP))
}

func TestCommitAndReopen(t *testing.T) {
	env := newTestEnv(t)
	holder := env.fund(t, 1000)

	_, xerr := env.ctrler.Burn(env.token, holder, 250)
	require.NoError(t, xerr)
	_, _, xerr = env.ctrler.Commit()
	require.NoError(t, xerr)
	_, _, xerr = env.acctCtrl.Commit()
	require.NoError(t, xerr)
	require.NoError(t, env.ctrler.Close())

	ctrler, xerr := NewBurnBoostCtrler(env.config, env.acctCtrl, tmlog.NewNopLogger())
	require.NoError(t, xerr)
	defer ctrler.Close()

	burned, xerr := ctrler.BurnedBy(env.token, holder)
	require.NoError(t, xerr)
	require.Equal(t, uint64(250), burned)

	stats, xerr := ctrler.GetStats(env.token)
	require.NoError(t, xerr)
	require.Equal(t, uint64(250), stats.TotalBurned)
	require.Equal(t, uint64(1), stats.BurnTransactionCount)
}

func TestTokenState_Codec(t *testing.T) {
	s := newTokenState(types.RandAddress(), types.RandAddress(), "Burn Boost", "BBT", 6, 1000, 2000)
	s.TotalBurned, s.CurrentSupply, s.BurnTransactionCount = 100, 900, 3

	bz, xerr := s.Encode()
	require.NoError(t, xerr)
	s2 := &TokenState{}
	require.NoError(t, s2.Decode(bz))
	require.Equal(t, s, s2)

	ub := &UserBurn{Holder: types.RandAddress(), Token: types.RandAddress(), BurnedAmount: 77}
	bz, xerr = ub.Encode()
	require.NoError(t, xerr)
	ub2 := &UserBurn{}
	require.NoError(t, ub2.Decode(bz))
	require.Equal(t, ub, ub2)
}
