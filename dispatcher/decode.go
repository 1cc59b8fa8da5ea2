package dispatcher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set"

	"github.com/bluzelle/blzgo/bluzelle"
)

const connectMethod = "connect"

type decodeFunc func(a *args) (Request, error)

// methods maps canonical method names to their decoders
var methods = map[string]decodeFunc{
	"connect":              decodeConnect,
	"version":              decodeNoArgs(func() Request { return &VersionRequest{} }),
	"account":              decodeNoArgs(func() Request { return &AccountRequest{} }),
	"create":               decodeCreate,
	"update":               decodeUpdate,
	"read":                 decodeRead,
	"txRead":               decodeTxRead,
	"delete":               decodeDelete,
	"has":                  decodeHas,
	"txHas":                decodeTxHas,
	"keys":                 decodeNoArgs(func() Request { return &KeysRequest{} }),
	"txKeys":               decodeGasOnly(func(gas *bluzelle.GasInfo) Request { return &TxKeysRequest{Gas: gas} }),
	"rename":               decodeRename,
	"count":                decodeNoArgs(func() Request { return &CountRequest{} }),
	"txCount":              decodeGasOnly(func(gas *bluzelle.GasInfo) Request { return &TxCountRequest{Gas: gas} }),
	"deleteAll":            decodeGasOnly(func(gas *bluzelle.GasInfo) Request { return &DeleteAllRequest{Gas: gas} }),
	"keyValues":            decodeNoArgs(func() Request { return &KeyValuesRequest{} }),
	"txKeyValues":          decodeGasOnly(func(gas *bluzelle.GasInfo) Request { return &TxKeyValuesRequest{Gas: gas} }),
	"multiUpdate":          decodeMultiUpdate,
	"getLease":             decodeGetLease,
	"txGetLease":           decodeTxGetLease,
	"renewLease":           decodeRenewLease,
	"renewLeaseAll":        decodeRenewLeaseAll,
	"getNShortestLeases":   decodeGetNShortestLeases,
	"txGetNShortestLeases": decodeTxGetNShortestLeases,
}

// aliases maps the lower cased camel case and snake case spellings
// to the canonical method name
var aliases = make(map[string]string, 2*len(methods))

func init() {
	for name := range methods {
		aliases[strings.ToLower(name)] = name
		aliases[snakeCase(name)] = name
	}
}

func snakeCase(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			sb.WriteByte('_')
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// CanonicalMethod resolves a camel case or snake case spelling,
// matched case insensitively, to the canonical method name
func CanonicalMethod(method string) (string, bool) {
	name, ok := aliases[strings.ToLower(method)]
	return name, ok
}

type rawRequest struct {
	Method *string          `json:"method"`
	Args   *json.RawMessage `json:"args"`
}

// call is a request whose method is resolved but whose args are not decoded yet
type call struct {
	method  string
	name    string
	decode  decodeFunc
	rawArgs *json.RawMessage
}

func resolve(text string) (*call, error) {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &ProtocolError{Err: ErrMalformedRequest}
	}
	var raw rawRequest
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &ProtocolError{Err: fmt.Errorf("%w: %v", ErrMalformedRequest, err)}
	}
	if raw.Method == nil || *raw.Method == "" {
		return nil, &ProtocolError{Err: fmt.Errorf("%w: method is required", ErrMalformedRequest)}
	}
	method := *raw.Method
	name, ok := CanonicalMethod(method)
	if !ok {
		return nil, &ProtocolError{Method: method, Err: ErrUnknownMethod}
	}
	return &call{method: method, name: name, decode: methods[name], rawArgs: raw.Args}, nil
}

func (c *call) request() (Request, error) {
	a := &args{method: c.method}
	if c.rawArgs != nil && !isNull(*c.rawArgs) {
		if err := json.Unmarshal(*c.rawArgs, &a.items); err != nil {
			return nil, &ProtocolError{Method: c.method, Err: fmt.Errorf("%w: args must be an array", ErrMalformedRequest)}
		}
	}
	return c.decode(a)
}

// Decode parses a request text into its typed request
func Decode(text string) (Request, error) {
	c, err := resolve(text)
	if err != nil {
		return nil, err
	}
	return c.request()
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// args are the positional arguments of one request
type args struct {
	method string
	items  []json.RawMessage
}

func (a *args) invalid(format string, params ...interface{}) error {
	return fmt.Errorf("%w: %v: %v", bluzelle.ErrInvalidArgument, a.method, fmt.Sprintf(format, params...))
}

// arity checks the number of arguments
func (a *args) arity(required, max int) error {
	if len(a.items) < required {
		return a.invalid("expected at least %d arguments, got %d", required, len(a.items))
	}
	if len(a.items) > max {
		return a.invalid("expected at most %d arguments, got %d", max, len(a.items))
	}
	return nil
}

func (a *args) absent(i int) bool {
	return i >= len(a.items) || isNull(a.items[i])
}

func (a *args) decode(i int, v interface{}, what string) error {
	if err := json.Unmarshal(a.items[i], v); err != nil {
		return a.invalid("argument %d must be %v", i, what)
	}
	return nil
}

func (a *args) str(i int) (string, error) {
	if a.absent(i) {
		return "", a.invalid("argument %d is required", i)
	}
	var s string
	err := a.decode(i, &s, "a string")
	return s, err
}

func (a *args) optStr(i int) (string, error) {
	if a.absent(i) {
		return "", nil
	}
	var s string
	err := a.decode(i, &s, "a string")
	return s, err
}

func (a *args) optBool(i int) (bool, error) {
	if a.absent(i) {
		return false, nil
	}
	var b bool
	err := a.decode(i, &b, "a boolean")
	return b, err
}

func (a *args) integer(i int) (int64, error) {
	if a.absent(i) {
		return 0, a.invalid("argument %d is required", i)
	}
	var n int64
	err := a.decode(i, &n, "an integer")
	return n, err
}

// gas decodes an optional gas info, nil means the session default
func (a *args) gas(i int) (*bluzelle.GasInfo, error) {
	if a.absent(i) {
		return nil, nil
	}
	gas := &bluzelle.GasInfo{}
	if err := a.decode(i, gas, "a gas info {gas_price, max_gas, max_fee} of non negative integers"); err != nil {
		return nil, err
	}
	return gas, nil
}

func (a *args) lease(i int) (*bluzelle.LeaseInfo, error) {
	if a.absent(i) {
		return nil, nil
	}
	lease := &bluzelle.LeaseInfo{}
	if err := a.decode(i, lease, "a lease info {days, hours, minutes, seconds} of non negative integers"); err != nil {
		return nil, err
	}
	return lease, nil
}

func (a *args) keyValues(i int) (map[string]string, error) {
	if a.absent(i) {
		return nil, a.invalid("argument %d is required", i)
	}
	var items []struct {
		Key   *string `json:"key"`
		Value *string `json:"value"`
	}
	if err := a.decode(i, &items, "an array of {key, value}"); err != nil {
		return nil, err
	}
	seen := mapset.NewThreadUnsafeSet()
	kvs := make(map[string]string, len(items))
	for _, item := range items {
		if item.Key == nil || item.Value == nil {
			return nil, a.invalid("key values must have string key and value")
		}
		if !seen.Add(*item.Key) {
			return nil, a.invalid("duplicate key %q", *item.Key)
		}
		kvs[*item.Key] = *item.Value
	}
	return kvs, nil
}

func decodeNoArgs(newRequest func() Request) decodeFunc {
	return func(a *args) (Request, error) {
		if err := a.arity(0, 0); err != nil {
			return nil, err
		}
		return newRequest(), nil
	}
}

func decodeGasOnly(newRequest func(gas *bluzelle.GasInfo) Request) decodeFunc {
	return func(a *args) (Request, error) {
		if err := a.arity(0, 1); err != nil {
			return nil, err
		}
		gas, err := a.gas(0)
		if err != nil {
			return nil, err
		}
		return newRequest(gas), nil
	}
}

// decodeKeyGas decodes the (key, gas?) shape
func decodeKeyGas(a *args) (key string, gas *bluzelle.GasInfo, err error) {
	if err = a.arity(1, 2); err != nil {
		return "", nil, err
	}
	if key, err = a.str(0); err != nil {
		return "", nil, err
	}
	gas, err = a.gas(1)
	return key, gas, err
}

func decodeKeyOnly(a *args) (string, error) {
	if err := a.arity(1, 1); err != nil {
		return "", err
	}
	return a.str(0)
}

func decodeConnect(a *args) (Request, error) {
	if err := a.arity(1, 4); err != nil {
		return nil, err
	}
	r := &ConnectRequest{}
	var err error
	if r.Mnemonic, err = a.str(0); err != nil {
		return nil, err
	}
	if r.Endpoint, err = a.optStr(1); err != nil {
		return nil, err
	}
	if r.UUID, err = a.optStr(2); err != nil {
		return nil, err
	}
	if r.ChainID, err = a.optStr(3); err != nil {
		return nil, err
	}
	return r, nil
}

// decodeKeyValueGasLease decodes the (key, value, gas?, lease?) shape
func decodeKeyValueGasLease(a *args) (key, value string, gas *bluzelle.GasInfo, lease *bluzelle.LeaseInfo, err error) {
	if err = a.arity(2, 4); err != nil {
		return
	}
	if key, err = a.str(0); err != nil {
		return
	}
	if value, err = a.str(1); err != nil {
		return
	}
	if gas, err = a.gas(2); err != nil {
		return
	}
	lease, err = a.lease(3)
	return
}

func decodeCreate(a *args) (Request, error) {
	key, value, gas, lease, err := decodeKeyValueGasLease(a)
	if err != nil {
		return nil, err
	}
	return &CreateRequest{Key: key, Value: value, Gas: gas, Lease: lease}, nil
}

func decodeUpdate(a *args) (Request, error) {
	key, value, gas, lease, err := decodeKeyValueGasLease(a)
	if err != nil {
		return nil, err
	}
	return &UpdateRequest{Key: key, Value: value, Gas: gas, Lease: lease}, nil
}

func decodeRead(a *args) (Request, error) {
	if err := a.arity(1, 2); err != nil {
		return nil, err
	}
	key, err := a.str(0)
	if err != nil {
		return nil, err
	}
	prove, err := a.optBool(1)
	if err != nil {
		return nil, err
	}
	return &ReadRequest{Key: key, Prove: prove}, nil
}

func decodeTxRead(a *args) (Request, error) {
	key, gas, err := decodeKeyGas(a)
	if err != nil {
		return nil, err
	}
	return &TxReadRequest{Key: key, Gas: gas}, nil
}

func decodeDelete(a *args) (Request, error) {
	key, gas, err := decodeKeyGas(a)
	if err != nil {
		return nil, err
	}
	return &DeleteRequest{Key: key, Gas: gas}, nil
}

func decodeHas(a *args) (Request, error) {
	key, err := decodeKeyOnly(a)
	if err != nil {
		return nil, err
	}
	return &HasRequest{Key: key}, nil
}

func decodeTxHas(a *args) (Request, error) {
	key, gas, err := decodeKeyGas(a)
	if err != nil {
		return nil, err
	}
	return &TxHasRequest{Key: key, Gas: gas}, nil
}

func decodeRename(a *args) (Request, error) {
	if err := a.arity(2, 3); err != nil {
		return nil, err
	}
	key, err := a.str(0)
	if err != nil {
		return nil, err
	}
	newKey, err := a.str(1)
	if err != nil {
		return nil, err
	}
	gas, err := a.gas(2)
	if err != nil {
		return nil, err
	}
	return &RenameRequest{Key: key, NewKey: newKey, Gas: gas}, nil
}

func decodeMultiUpdate(a *args) (Request, error) {
	if err := a.arity(1, 2); err != nil {
		return nil, err
	}
	kvs, err := a.keyValues(0)
	if err != nil {
		return nil, err
	}
	gas, err := a.gas(1)
	if err != nil {
		return nil, err
	}
	return &MultiUpdateRequest{KeyValues: kvs, Gas: gas}, nil
}

func decodeGetLease(a *args) (Request, error) {
	key, err := decodeKeyOnly(a)
	if err != nil {
		return nil, err
	}
	return &GetLeaseRequest{Key: key}, nil
}

func decodeTxGetLease(a *args) (Request, error) {
	key, gas, err := decodeKeyGas(a)
	if err != nil {
		return nil, err
	}
	return &TxGetLeaseRequest{Key: key, Gas: gas}, nil
}

func decodeRenewLease(a *args) (Request, error) {
	if err := a.arity(1, 3); err != nil {
		return nil, err
	}
	key, err := a.str(0)
	if err != nil {
		return nil, err
	}
	gas, err := a.gas(1)
	if err != nil {
		return nil, err
	}
	lease, err := a.lease(2)
	if err != nil {
		return nil, err
	}
	return &RenewLeaseRequest{Key: key, Gas: gas, Lease: lease}, nil
}

func decodeRenewLeaseAll(a *args) (Request, error) {
	if err := a.arity(0, 2); err != nil {
		return nil, err
	}
	gas, err := a.gas(0)
	if err != nil {
		return nil, err
	}
	lease, err := a.lease(1)
	if err != nil {
		return nil, err
	}
	return &RenewLeaseAllRequest{Gas: gas, Lease: lease}, nil
}

func decodeGetNShortestLeases(a *args) (Request, error) {
	if err := a.arity(1, 1); err != nil {
		return nil, err
	}
	n, err := a.integer(0)
	if err != nil {
		return nil, err
	}
	return &GetNShortestLeasesRequest{N: n}, nil
}

func decodeTxGetNShortestLeases(a *args) (Request, error) {
	if err := a.arity(1, 2); err != nil {
		return nil, err
	}
	n, err := a.integer(0)
	if err != nil {
		return nil, err
	}
	gas, err := a.gas(1)
	if err != nil {
		return nil, err
	}
	return &TxGetNShortestLeasesRequest{N: n, Gas: gas}, nil
}
