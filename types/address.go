package types

import (
	"fmt"

	"github.com/beatoz/burnboost-go/types/bytes"
)

const AddrSize = 20

// Address identifies both token holders and tokens (the mint address).
type Address = bytes.HexBytes

func ZeroAddress() Address {
	return make(Address, AddrSize)
}

func RandAddress() Address {
	return bytes.RandBytes(AddrSize)
}

func HexToAddress(s string) (Address, error) {
	if !IsHexByteString(s) && !IsHexByteString("0x"+s) {
		return nil, fmt.Errorf("invalid address: %v", s)
	}
	addr, err := bytes.FromHex(s)
	if err != nil {
		return nil, err
	}
	if len(addr) != AddrSize {
		return nil, fmt.Errorf("wrong address length - expected: %d, actual: %d", AddrSize, len(addr))
	}
	return addr, nil
}

func ValidateAddress(addr Address) error {
	if len(addr) != AddrSize {
		return fmt.Errorf("wrong address length - expected: %d, actual: %d", AddrSize, len(addr))
	}
	return nil
}
