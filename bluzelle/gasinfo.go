package bluzelle

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// FeeDenom is the denomination fees are paid in
const FeeDenom = "ubnt"

// DefaultGasInfo is used when no gas info is given
var DefaultGasInfo = GasInfo{GasPrice: 1000}

// GasInfo bounds the fee of a transaction.
// MaxGas of 0 means unbounded, a non zero MaxFee overrides GasPrice.
type GasInfo struct {
	GasPrice uint64 `json:"gas_price"`
	MaxGas   uint64 `json:"max_gas"`
	MaxFee   uint64 `json:"max_fee"`
}

// Fee clamps the estimated gas to MaxGas and computes the fee amount.
// A gas times price amount that does not fit uint64 is an invalid argument.
func (g *GasInfo) Fee(estimatedGas uint64) (gas, amount uint64, err error) {
	gas = estimatedGas
	if g.MaxGas != 0 && gas > g.MaxGas {
		gas = g.MaxGas
	}
	if g.MaxFee != 0 {
		return gas, g.MaxFee, nil
	}
	fee := sdk.NewIntFromUint64(gas).Mul(sdk.NewIntFromUint64(g.GasPrice))
	if !fee.IsUint64() {
		return 0, 0, invalidArgument("fee of %v gas at gas price %v overflows", gas, g.GasPrice)
	}
	return gas, fee.Uint64(), nil
}

// StdFee builds the fee record for the estimated gas
func (g *GasInfo) StdFee(estimatedGas uint64) (StdFee, error) {
	gas, amount, err := g.Fee(estimatedGas)
	if err != nil {
		return StdFee{}, err
	}
	return StdFee{
		Amount: sdk.Coins{sdk.NewCoin(FeeDenom, sdk.NewIntFromUint64(amount))},
		Gas:    StrUint64(gas),
	}, nil
}
