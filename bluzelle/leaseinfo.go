package bluzelle

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BlockTimeSeconds is the expected time between blocks
const BlockTimeSeconds = 5

// LeaseInfo is a lease duration
type LeaseInfo struct {
	Days    uint64 `json:"days"`
	Hours   uint64 `json:"hours"`
	Minutes uint64 `json:"minutes"`
	Seconds uint64 `json:"seconds"`
}

// TotalSeconds of the lease, a sum that does not fit uint64 is an invalid argument
func (l *LeaseInfo) TotalSeconds() (uint64, error) {
	if l == nil {
		return 0, nil
	}
	total := sdk.NewIntFromUint64(l.Days).MulRaw(86400).
		Add(sdk.NewIntFromUint64(l.Hours).MulRaw(3600)).
		Add(sdk.NewIntFromUint64(l.Minutes).MulRaw(60)).
		Add(sdk.NewIntFromUint64(l.Seconds))
	if !total.IsUint64() {
		return 0, invalidArgument("lease of %+v overflows", *l)
	}
	return total.Uint64(), nil
}

// Blocks converts the lease to blocks, a nil lease is 0 (chain default)
func (l *LeaseInfo) Blocks() (int64, error) {
	seconds, err := l.TotalSeconds()
	if err != nil {
		return 0, err
	}
	return int64(seconds / BlockTimeSeconds), nil
}
