package bluzelle

import (
	"encoding/json"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// MarshalAmino encodes v as amino json
func MarshalAmino(v interface{}) ([]byte, error) {
	return cdc.MarshalJSON(v)
}

// StdSignBytes returns the canonical bytes to sign:
// sorted keys, no whitespace, numbers as decimal strings
func StdSignBytes(chainID string, accnum, sequence uint64, fee StdFee, msgs []json.RawMessage, memo string) ([]byte, error) {
	feeBytes, err := json.Marshal(fee)
	if err != nil {
		return nil, err
	}
	bz, err := cdc.MarshalJSON(authtypes.StdSignDoc{
		AccountNumber: accnum,
		ChainID:       chainID,
		Fee:           json.RawMessage(feeBytes),
		Memo:          memo,
		Msgs:          msgs,
		Sequence:      sequence,
	})
	if err != nil {
		return nil, err
	}
	return sdk.SortJSON(bz)
}
