package dispatcher

import (
	"strconv"

	"github.com/bluzelle/blzgo/bluzelle"
)

// Request is one decoded command, the set of implementations is closed
type Request interface {
	// Method is the canonical method name
	Method() string
	execute(c *bluzelle.Client) (*string, error)
}

func result(s string) *string {
	return &s
}

func boolResult(b bool) *string {
	return result(strconv.FormatBool(b))
}

// ConnectRequest opens a new session, replacing the current one
type ConnectRequest struct {
	Mnemonic string
	Endpoint string
	UUID     string
	ChainID  string
}

// Method implements Request
func (r *ConnectRequest) Method() string { return connectMethod }

func (r *ConnectRequest) execute(c *bluzelle.Client) (*string, error) {
	// handled by the wrapper, it owns the session
	return nil, nil
}

// VersionRequest version
type VersionRequest struct{}

// Method implements Request
func (r *VersionRequest) Method() string { return "version" }

func (r *VersionRequest) execute(c *bluzelle.Client) (*string, error) {
	version, err := c.Version()
	if err != nil {
		return nil, err
	}
	return result(version), nil
}

// AccountRequest account
type AccountRequest struct{}

// Method implements Request
func (r *AccountRequest) Method() string { return "account" }

func (r *AccountRequest) execute(c *bluzelle.Client) (*string, error) {
	account, err := c.Account()
	if err != nil {
		return nil, err
	}
	return encodeJSON(account)
}

// CreateRequest create
type CreateRequest struct {
	Key   string
	Value string
	Gas   *bluzelle.GasInfo
	Lease *bluzelle.LeaseInfo
}

// Method implements Request
func (r *CreateRequest) Method() string { return "create" }

func (r *CreateRequest) execute(c *bluzelle.Client) (*string, error) {
	return nil, c.Create(r.Key, r.Value, r.Gas, r.Lease)
}

// UpdateRequest update
type UpdateRequest struct {
	Key   string
	Value string
	Gas   *bluzelle.GasInfo
	Lease *bluzelle.LeaseInfo
}

// Method implements Request
func (r *UpdateRequest) Method() string { return "update" }

func (r *UpdateRequest) execute(c *bluzelle.Client) (*string, error) {
	return nil, c.Update(r.Key, r.Value, r.Gas, r.Lease)
}

// ReadRequest read, the result is null if key does not exist
type ReadRequest struct {
	Key   string
	Prove bool
}

// Method implements Request
func (r *ReadRequest) Method() string { return "read" }

func (r *ReadRequest) execute(c *bluzelle.Client) (*string, error) {
	value, found, err := c.Read(r.Key, r.Prove)
	if err != nil || !found {
		return nil, err
	}
	return result(value), nil
}

// TxReadRequest txRead
type TxReadRequest struct {
	Key string
	Gas *bluzelle.GasInfo
}

// Method implements Request
func (r *TxReadRequest) Method() string { return "txRead" }

func (r *TxReadRequest) execute(c *bluzelle.Client) (*string, error) {
	value, err := c.TxRead(r.Key, r.Gas)
	if err != nil {
		return nil, err
	}
	return result(value), nil
}

// DeleteRequest delete
type DeleteRequest struct {
	Key string
	Gas *bluzelle.GasInfo
}

// Method implements Request
func (r *DeleteRequest) Method() string { return "delete" }

func (r *DeleteRequest) execute(c *bluzelle.Client) (*string, error) {
	return nil, c.Delete(r.Key, r.Gas)
}

// HasRequest has
type HasRequest struct {
	Key string
}

// Method implements Request
func (r *HasRequest) Method() string { return "has" }

func (r *HasRequest) execute(c *bluzelle.Client) (*string, error) {
	has, err := c.Has(r.Key)
	if err != nil {
		return nil, err
	}
	return boolResult(has), nil
}

// TxHasRequest txHas
type TxHasRequest struct {
	Key string
	Gas *bluzelle.GasInfo
}

// Method implements Request
func (r *TxHasRequest) Method() string { return "txHas" }

func (r *TxHasRequest) execute(c *bluzelle.Client) (*string, error) {
	has, err := c.TxHas(r.Key, r.Gas)
	if err != nil {
		return nil, err
	}
	return boolResult(has), nil
}

// KeysRequest keys
type KeysRequest struct{}

// Method implements Request
func (r *KeysRequest) Method() string { return "keys" }

func (r *KeysRequest) execute(c *bluzelle.Client) (*string, error) {
	keys, err := c.Keys()
	if err != nil {
		return nil, err
	}
	return encodeJSON(keys)
}

// TxKeysRequest txKeys
type TxKeysRequest struct {
	Gas *bluzelle.GasInfo
}

// Method implements Request
func (r *TxKeysRequest) Method() string { return "txKeys" }

func (r *TxKeysRequest) execute(c *bluzelle.Client) (*string, error) {
	keys, err := c.TxKeys(r.Gas)
	if err != nil {
		return nil, err
	}
	return encodeJSON(keys)
}

// RenameRequest rename
type RenameRequest struct {
	Key    string
	NewKey string
	Gas    *bluzelle.GasInfo
}

// Method implements Request
func (r *RenameRequest) Method() string { return "rename" }

func (r *RenameRequest) execute(c *bluzelle.Client) (*string, error) {
	return nil, c.Rename(r.Key, r.NewKey, r.Gas)
}

// CountRequest count
type CountRequest struct{}

// Method implements Request
func (r *CountRequest) Method() string { return "count" }

func (r *CountRequest) execute(c *bluzelle.Client) (*string, error) {
	count, err := c.Count()
	if err != nil {
		return nil, err
	}
	return result(strconv.FormatUint(count, 10)), nil
}

// TxCountRequest txCount
type TxCountRequest struct {
	Gas *bluzelle.GasInfo
}

// Method implements Request
func (r *TxCountRequest) Method() string { return "txCount" }

func (r *TxCountRequest) execute(c *bluzelle.Client) (*string, error) {
	count, err := c.TxCount(r.Gas)
	if err != nil {
		return nil, err
	}
	return result(strconv.FormatUint(count, 10)), nil
}

// DeleteAllRequest deleteAll
type DeleteAllRequest struct {
	Gas *bluzelle.GasInfo
}

// Method implements Request
func (r *DeleteAllRequest) Method() string { return "deleteAll" }

func (r *DeleteAllRequest) execute(c *bluzelle.Client) (*string, error) {
	return nil, c.DeleteAll(r.Gas)
}

// KeyValuesRequest keyValues
type KeyValuesRequest struct{}

// Method implements Request
func (r *KeyValuesRequest) Method() string { return "keyValues" }

func (r *KeyValuesRequest) execute(c *bluzelle.Client) (*string, error) {
	kvs, err := c.KeyValues()
	if err != nil {
		return nil, err
	}
	return encodeKeyValues(kvs)
}

// TxKeyValuesRequest txKeyValues
type TxKeyValuesRequest struct {
	Gas *bluzelle.GasInfo
}

// Method implements Request
func (r *TxKeyValuesRequest) Method() string { return "txKeyValues" }

func (r *TxKeyValuesRequest) execute(c *bluzelle.Client) (*string, error) {
	kvs, err := c.TxKeyValues(r.Gas)
	if err != nil {
		return nil, err
	}
	return encodeKeyValues(kvs)
}

// MultiUpdateRequest multiUpdate
type MultiUpdateRequest struct {
	KeyValues map[string]string
	Gas       *bluzelle.GasInfo
}

// Method implements Request
func (r *MultiUpdateRequest) Method() string { return "multiUpdate" }

func (r *MultiUpdateRequest) execute(c *bluzelle.Client) (*string, error) {
	return nil, c.MultiUpdate(r.KeyValues, r.Gas)
}

// GetLeaseRequest getLease
type GetLeaseRequest struct {
	Key string
}

// Method implements Request
func (r *GetLeaseRequest) Method() string { return "getLease" }

func (r *GetLeaseRequest) execute(c *bluzelle.Client) (*string, error) {
	lease, err := c.GetLease(r.Key)
	if err != nil {
		return nil, err
	}
	return result(strconv.FormatInt(lease, 10)), nil
}

// TxGetLeaseRequest txGetLease
type TxGetLeaseRequest struct {
	Key string
	Gas *bluzelle.GasInfo
}

// Method implements Request
func (r *TxGetLeaseRequest) Method() string { return "txGetLease" }

func (r *TxGetLeaseRequest) execute(c *bluzelle.Client) (*string, error) {
	lease, err := c.TxGetLease(r.Key, r.Gas)
	if err != nil {
		return nil, err
	}
	return result(strconv.FormatInt(lease, 10)), nil
}

// RenewLeaseRequest renewLease
type RenewLeaseRequest struct {
	Key   string
	Gas   *bluzelle.GasInfo
	Lease *bluzelle.LeaseInfo
}

// Method implements Request
func (r *RenewLeaseRequest) Method() string { return "renewLease" }

func (r *RenewLeaseRequest) execute(c *bluzelle.Client) (*string, error) {
	return nil, c.RenewLease(r.Key, r.Gas, r.Lease)
}

// RenewLeaseAllRequest renewLeaseAll
type RenewLeaseAllRequest struct {
	Gas   *bluzelle.GasInfo
	Lease *bluzelle.LeaseInfo
}

// Method implements Request
func (r *RenewLeaseAllRequest) Method() string { return "renewLeaseAll" }

func (r *RenewLeaseAllRequest) execute(c *bluzelle.Client) (*string, error) {
	return nil, c.RenewLeaseAll(r.Gas, r.Lease)
}

// GetNShortestLeasesRequest getNShortestLeases
type GetNShortestLeasesRequest struct {
	N int64
}

// Method implements Request
func (r *GetNShortestLeasesRequest) Method() string { return "getNShortestLeases" }

func (r *GetNShortestLeasesRequest) execute(c *bluzelle.Client) (*string, error) {
	leases, err := c.GetNShortestLeases(r.N)
	if err != nil {
		return nil, err
	}
	return encodeKeyLeases(leases)
}

// TxGetNShortestLeasesRequest txGetNShortestLeases
type TxGetNShortestLeasesRequest struct {
	N   int64
	Gas *bluzelle.GasInfo
}

// Method implements Request
func (r *TxGetNShortestLeasesRequest) Method() string { return "txGetNShortestLeases" }

func (r *TxGetNShortestLeasesRequest) execute(c *bluzelle.Client) (*string, error) {
	leases, err := c.TxGetNShortestLeases(r.N, r.Gas)
	if err != nil {
		return nil, err
	}
	return encodeKeyLeases(leases)
}
