package types

import (
	"math/big"
	"strings"

	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var (
	digitTab [256]byte
	hexTab   [256]byte
)

func init() {
	// 0-9
	for c := byte('0'); c <= '9'; c++ {
		digitTab[c] = 1
		hexTab[c] = 1
	}
	// a-f, A-F
	for c := byte('a'); c <= 'f'; c++ {
		hexTab[c] = 1
	}
	for c := byte('A'); c <= 'F'; c++ {
		hexTab[c] = 1
	}
}

// IsHexByteString returns true if the string is a `0x` prefixed hexadecimal string
// and its length is even (i.e., represents bytes).
func IsHexByteString(s string) bool {
	if len(s) < 2 || !strings.HasPrefix(s, "0x") {
		return false
	}

	s = s[2:]

	// check even length
	if (len(s) & 1) != 0 {
		return false
	}
	if len(s) == 0 { // empty is not allowed
		return false
	}
	for i := 0; i < len(s); i++ {
		if hexTab[s[i]] == 0 {
			return false
		}
	}
	return true
}

// IsNumericString returns true if s contains only digits [0-9].
// An empty string returns false.
func IsNumericString(s string) bool {
	if len(s) == 0 { // empty is not allowed
		return false
	}
	for i := 0; i < len(s); i++ {
		if digitTab[s[i]] == 0 {
			return false
		}
	}
	return true
}

// ParseAmount parses a decimal string of base units.
// Amounts which do not fit into uint64 are rejected with ErrOverFlow.
func ParseAmount(s string) (uint64, xerrors.XError) {
	s = strings.ReplaceAll(s, "_", "")
	if !IsNumericString(s) {
		return 0, xerrors.ErrInvalidTrxPayloadParams.Wrapf("not a number: %q", s)
	}
	amt, err := uint256.FromDecimal(s)
	if err != nil {
		return 0, xerrors.ErrOverFlow.Wrap(err)
	}
	if !amt.IsUint64() {
		return 0, xerrors.ErrOverFlow.Wrapf("amount(%v) exceeds uint64", s)
	}
	return amt.Uint64(), nil
}

// FormatAmount renders base units as a decimal number of whole tokens.
// e.g.) FormatAmount(1_500_000_000, 9) == "1.5"
func FormatAmount(amt uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amt), -int32(decimals)).String()
}
