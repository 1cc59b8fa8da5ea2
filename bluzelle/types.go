package bluzelle

import (
	"bytes"
	"encoding/json"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// StrUint64 is an uint64 encoded as a decimal string,
// decoding accepts both strings and numbers
type StrUint64 uint64

// MarshalJSON json marshaller
func (u StrUint64) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(u), 10))
}

// UnmarshalJSON json unmarshaller
func (u *StrUint64) UnmarshalJSON(input []byte) error {
	s, err := unquoteNumber(input)
	if err != nil || s == "" {
		*u = 0
		return err
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*u = StrUint64(v)
	return nil
}

// StrInt64 is an int64 encoded as a decimal string,
// decoding accepts both strings and numbers
type StrInt64 int64

// MarshalJSON json marshaller
func (i StrInt64) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(i), 10))
}

// UnmarshalJSON json unmarshaller
func (i *StrInt64) UnmarshalJSON(input []byte) error {
	s, err := unquoteNumber(input)
	if err != nil || s == "" {
		*i = 0
		return err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*i = StrInt64(v)
	return nil
}

// StrBool is a bool that may be encoded as "true" / "false"
type StrBool bool

// UnmarshalJSON json unmarshaller
func (b *StrBool) UnmarshalJSON(input []byte) error {
	s, err := unquoteNumber(input)
	if err != nil || s == "" {
		*b = false
		return err
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*b = StrBool(v)
	return nil
}

func unquoteNumber(input []byte) (string, error) {
	input = bytes.TrimSpace(input)
	if bytes.Equal(input, []byte("null")) {
		return "", nil
	}
	if len(input) > 0 && input[0] == '"' {
		var s string
		if err := json.Unmarshal(input, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	return string(input), nil
}

// StdFee fee record
type StdFee struct {
	Amount sdk.Coins `json:"amount"`
	Gas    StrUint64 `json:"gas"`
}

// PubKey amino encoded public key
type PubKey struct {
	Type  string `json:"type"`
	Value []byte `json:"value"`
}

// StdSignature signature record
type StdSignature struct {
	PubKey        PubKey    `json:"pub_key"`
	Signature     []byte    `json:"signature"`
	AccountNumber StrUint64 `json:"account_number"`
	Sequence      StrUint64 `json:"sequence"`
}

// StdTx transaction envelope, msgs are kept as returned by the gateway
type StdTx struct {
	Msgs       []json.RawMessage `json:"msg"`
	Fee        StdFee            `json:"fee"`
	Signatures []StdSignature    `json:"signatures"`
	Memo       string            `json:"memo"`
}

// Account as returned by /auth/accounts
type Account struct {
	Address       string          `json:"address"`
	Coins         sdk.Coins       `json:"coins"`
	PublicKey     json.RawMessage `json:"public_key,omitempty"`
	AccountNumber StrUint64       `json:"account_number"`
	Sequence      StrUint64       `json:"sequence"`
}

// KeyValue pair
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// KeyLease is a key and its remaining lease in seconds
type KeyLease struct {
	Key   string `json:"key"`
	Lease int64  `json:"lease"`
}

type baseReq struct {
	From    string `json:"from"`
	ChainID string `json:"chain_id"`
}

// txReq is the body posted to the /crud prepare endpoints.
// Absent fields decode to zero values on the gateway.
type txReq struct {
	BaseReq   baseReq    `json:"BaseReq"`
	UUID      string     `json:"UUID"`
	Owner     string     `json:"Owner"`
	Key       string     `json:"Key,omitempty"`
	NewKey    string     `json:"NewKey,omitempty"`
	Value     string     `json:"Value,omitempty"`
	Lease     int64      `json:"Lease,omitempty"`
	N         uint64     `json:"N,omitempty"`
	KeyValues []KeyValue `json:"KeyValues,omitempty"`
}

type preparedTx struct {
	Type  string `json:"type"`
	Value StdTx  `json:"value"`
}

type broadcastReq struct {
	Tx   StdTx  `json:"tx"`
	Mode string `json:"mode"`
}

// TxResponse is the broadcast result, a present Code means rejection
type TxResponse struct {
	Height    StrInt64 `json:"height"`
	TxHash    string   `json:"txhash"`
	Code      *uint32  `json:"code,omitempty"`
	Codespace string   `json:"codespace,omitempty"`
	Data      string   `json:"data,omitempty"`
	RawLog    string   `json:"raw_log,omitempty"`
	GasWanted StrInt64 `json:"gas_wanted,omitempty"`
	GasUsed   StrInt64 `json:"gas_used,omitempty"`
}

type queryResponse struct {
	Height StrInt64        `json:"height"`
	Result json.RawMessage `json:"result"`
}

type accountResult struct {
	Type  string  `json:"type"`
	Value Account `json:"value"`
}

type nodeInfoResponse struct {
	ApplicationVersion struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"application_version"`
}

type valueResult struct {
	Value string `json:"value"`
}

type hasResult struct {
	Has StrBool `json:"has"`
}

type keysResult struct {
	Keys []string `json:"keys"`
}

type countResult struct {
	Count StrUint64 `json:"count"`
}

type keyValuesResult struct {
	KeyValues []KeyValue `json:"keyvalues"`
}

type leaseResult struct {
	Lease StrInt64 `json:"lease"`
}

type keyLeaseEntry struct {
	Key   string   `json:"key"`
	Lease StrInt64 `json:"lease"`
}

type keyLeasesResult struct {
	KeyLeases []keyLeaseEntry `json:"keyleases"`
}
