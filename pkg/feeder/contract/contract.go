// Package contract holds the bundled interface description of the price contract.
package contract

import (
	_ "embed"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// SetTokenPrice is the method the relay invokes.
const SetTokenPrice = "setTokenPrice"

//go:embed abi.json
var abiJSON string

// ErrMissingMethod indicates the ABI lacks a method the relay requires.
var ErrMissingMethod = errors.New("ABI is missing required method")

// ABI returns the raw bundled artifact.
func ABI() string {
	return abiJSON
}

// Load parses the bundled ABI.
func Load() (abi.ABI, error) {
	return Parse(abiJSON)
}

// Parse parses an ABI document and checks it exposes setTokenPrice(uint256).
func Parse(doc string) (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(doc))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	method, ok := parsed.Methods[SetTokenPrice]
	if !ok {
		return abi.ABI{}, fmt.Errorf("%w: %s", ErrMissingMethod, SetTokenPrice)
	}
	if len(method.Inputs) != 1 || method.Inputs[0].Type.String() != "uint256" {
		return abi.ABI{}, fmt.Errorf("%w: %s(uint256), found %s", ErrMissingMethod, SetTokenPrice, method.Sig)
	}
	return parsed, nil
}

// PackSetTokenPrice encodes the calldata for setTokenPrice(price).
func PackSetTokenPrice(parsed abi.ABI, price uint64) ([]byte, error) {
	data, err := parsed.Pack(SetTokenPrice, new(big.Int).SetUint64(price))
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", SetTokenPrice, err)
	}
	return data, nil
}
