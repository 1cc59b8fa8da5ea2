package bluzelle

import (
	"sort"
)

// Create a key, a nil lease takes the chain default
func (c *Client) Create(key, value string, gasInfo *GasInfo, leaseInfo *LeaseInfo) error {
	if key == "" {
		return invalidArgument("key is required")
	}
	req := c.newTxReq()
	req.Key = key
	req.Value = value
	lease, err := leaseInfo.Blocks()
	if err != nil {
		return err
	}
	req.Lease = lease
	_, err = c.sendTx("create", false, req, gasInfo)
	return err
}

// Update the value of an existing key
func (c *Client) Update(key, value string, gasInfo *GasInfo, leaseInfo *LeaseInfo) error {
	if key == "" {
		return invalidArgument("key is required")
	}
	req := c.newTxReq()
	req.Key = key
	req.Value = value
	lease, err := leaseInfo.Blocks()
	if err != nil {
		return err
	}
	req.Lease = lease
	_, err = c.sendTx("update", false, req, gasInfo)
	return err
}

// Delete a key
func (c *Client) Delete(key string, gasInfo *GasInfo) error {
	if key == "" {
		return invalidArgument("key is required")
	}
	req := c.newTxReq()
	req.Key = key
	_, err := c.sendTx("delete", true, req, gasInfo)
	return err
}

// Rename key to newKey
func (c *Client) Rename(key, newKey string, gasInfo *GasInfo) error {
	if key == "" || newKey == "" {
		return invalidArgument("key and new key are required")
	}
	req := c.newTxReq()
	req.Key = key
	req.NewKey = newKey
	_, err := c.sendTx("rename", false, req, gasInfo)
	return err
}

// MultiUpdate updates several existing keys in one transaction
func (c *Client) MultiUpdate(keyValues map[string]string, gasInfo *GasInfo) error {
	if len(keyValues) == 0 {
		return invalidArgument("key values are required")
	}
	req := c.newTxReq()
	req.KeyValues = make([]KeyValue, 0, len(keyValues))
	for key, value := range keyValues {
		if key == "" {
			return invalidArgument("key is required")
		}
		req.KeyValues = append(req.KeyValues, KeyValue{Key: key, Value: value})
	}
	sort.Slice(req.KeyValues, func(i, j int) bool {
		return req.KeyValues[i].Key < req.KeyValues[j].Key
	})
	_, err := c.sendTx("multiupdate", false, req, gasInfo)
	return err
}

// RenewLease sets the lease of key
func (c *Client) RenewLease(key string, gasInfo *GasInfo, leaseInfo *LeaseInfo) error {
	if key == "" {
		return invalidArgument("key is required")
	}
	req := c.newTxReq()
	req.Key = key
	lease, err := leaseInfo.Blocks()
	if err != nil {
		return err
	}
	req.Lease = lease
	_, err = c.sendTx("renewlease", false, req, gasInfo)
	return err
}

// RenewLeaseAll sets the lease of every key in the uuid
func (c *Client) RenewLeaseAll(gasInfo *GasInfo, leaseInfo *LeaseInfo) error {
	req := c.newTxReq()
	lease, err := leaseInfo.Blocks()
	if err != nil {
		return err
	}
	req.Lease = lease
	_, err = c.sendTx("renewleaseall", false, req, gasInfo)
	return err
}

// DeleteAll keys in the uuid
func (c *Client) DeleteAll(gasInfo *GasInfo) error {
	_, err := c.sendTx("deleteall", false, c.newTxReq(), gasInfo)
	return err
}

// TxRead reads the value of key through consensus
func (c *Client) TxRead(key string, gasInfo *GasInfo) (string, error) {
	if key == "" {
		return "", invalidArgument("key is required")
	}
	req := c.newTxReq()
	req.Key = key
	data, err := c.sendTx("read", false, req, gasInfo)
	if err != nil {
		return "", err
	}
	var result valueResult
	if err = decodeTxResult("read", data, &result); err != nil {
		return "", err
	}
	return result.Value, nil
}

// TxHas key, through consensus
func (c *Client) TxHas(key string, gasInfo *GasInfo) (bool, error) {
	if key == "" {
		return false, invalidArgument("key is required")
	}
	req := c.newTxReq()
	req.Key = key
	data, err := c.sendTx("has", false, req, gasInfo)
	if err != nil {
		return false, err
	}
	var result hasResult
	if err = decodeTxResult("has", data, &result); err != nil {
		return false, err
	}
	return bool(result.Has), nil
}

// TxKeys lists the keys through consensus
func (c *Client) TxKeys(gasInfo *GasInfo) ([]string, error) {
	data, err := c.sendTx("keys", false, c.newTxReq(), gasInfo)
	if err != nil {
		return nil, err
	}
	var result keysResult
	if err = decodeTxResult("keys", data, &result); err != nil {
		return nil, err
	}
	return nonNilKeys(result.Keys), nil
}

// TxCount counts the keys through consensus
func (c *Client) TxCount(gasInfo *GasInfo) (uint64, error) {
	data, err := c.sendTx("count", false, c.newTxReq(), gasInfo)
	if err != nil {
		return 0, err
	}
	var result countResult
	if err = decodeTxResult("count", data, &result); err != nil {
		return 0, err
	}
	return uint64(result.Count), nil
}

// TxKeyValues returns all keys and values through consensus
func (c *Client) TxKeyValues(gasInfo *GasInfo) (map[string]string, error) {
	data, err := c.sendTx("keyvalues", false, c.newTxReq(), gasInfo)
	if err != nil {
		return nil, err
	}
	var result keyValuesResult
	if err = decodeTxResult("keyvalues", data, &result); err != nil {
		return nil, err
	}
	return keyValuesToMap(result.KeyValues), nil
}

// TxGetLease returns the remaining lease of key in seconds, through consensus
func (c *Client) TxGetLease(key string, gasInfo *GasInfo) (int64, error) {
	if key == "" {
		return 0, invalidArgument("key is required")
	}
	req := c.newTxReq()
	req.Key = key
	data, err := c.sendTx("getlease", false, req, gasInfo)
	if err != nil {
		return 0, err
	}
	var result leaseResult
	if err = decodeTxResult("getlease", data, &result); err != nil {
		return 0, err
	}
	return int64(result.Lease) * BlockTimeSeconds, nil
}

// TxGetNShortestLeases is GetNShortestLeases through consensus
func (c *Client) TxGetNShortestLeases(n int64, gasInfo *GasInfo) ([]KeyLease, error) {
	if n <= 0 {
		return nil, invalidArgument("n must be positive, got %v", n)
	}
	req := c.newTxReq()
	req.N = uint64(n)
	data, err := c.sendTx("getnshortestleases", false, req, gasInfo)
	if err != nil {
		return nil, err
	}
	var result keyLeasesResult
	if err = decodeTxResult("getnshortestleases", data, &result); err != nil {
		return nil, err
	}
	return toKeyLeases(result.KeyLeases), nil
}
