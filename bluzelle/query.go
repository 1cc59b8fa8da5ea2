package bluzelle

import (
	"net/url"
	"sort"
	"strconv"

	"github.com/bluzelle/blzgo/rpc/client"
)

func (c *Client) keyPath(op, key string) string {
	return "/crud/" + op + "/" + url.PathEscape(c.uuid) + "/" + url.PathEscape(key)
}

func (c *Client) uuidPath(op string) string {
	return "/crud/" + op + "/" + url.PathEscape(c.uuid)
}

// Read the value of key without consensus, found is false if the key does not exist.
// With prove set the gateway is asked for a proof of the value.
func (c *Client) Read(key string, prove bool) (value string, found bool, err error) {
	if key == "" {
		return "", false, invalidArgument("key is required")
	}
	op := "read"
	if prove {
		op = "pread"
	}
	var result valueResult
	err = c.query(c.keyPath(op, key), &result)
	if client.IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return result.Value, true, nil
}

// Has key
func (c *Client) Has(key string) (bool, error) {
	if key == "" {
		return false, invalidArgument("key is required")
	}
	var result hasResult
	if err := c.query(c.keyPath("has", key), &result); err != nil {
		return false, err
	}
	return bool(result.Has), nil
}

// Keys in the uuid
func (c *Client) Keys() ([]string, error) {
	var result keysResult
	if err := c.query(c.uuidPath("keys"), &result); err != nil {
		return nil, err
	}
	return nonNilKeys(result.Keys), nil
}

// Count of keys in the uuid
func (c *Client) Count() (uint64, error) {
	var result countResult
	if err := c.query(c.uuidPath("count"), &result); err != nil {
		return 0, err
	}
	return uint64(result.Count), nil
}

// KeyValues returns all keys and values in the uuid
func (c *Client) KeyValues() (map[string]string, error) {
	var result keyValuesResult
	if err := c.query(c.uuidPath("keyvalues"), &result); err != nil {
		return nil, err
	}
	return keyValuesToMap(result.KeyValues), nil
}

// GetLease returns the remaining lease of key in seconds
func (c *Client) GetLease(key string) (int64, error) {
	if key == "" {
		return 0, invalidArgument("key is required")
	}
	var result leaseResult
	if err := c.query(c.keyPath("getlease", key), &result); err != nil {
		return 0, err
	}
	return int64(result.Lease) * BlockTimeSeconds, nil
}

// GetNShortestLeases returns the n keys with the shortest leases,
// sorted by lease then key
func (c *Client) GetNShortestLeases(n int64) ([]KeyLease, error) {
	if n <= 0 {
		return nil, invalidArgument("n must be positive, got %v", n)
	}
	var result keyLeasesResult
	if err := c.query(c.uuidPath("getnshortestleases")+"/"+strconv.FormatInt(n, 10), &result); err != nil {
		return nil, err
	}
	return toKeyLeases(result.KeyLeases), nil
}

func nonNilKeys(keys []string) []string {
	if keys == nil {
		return []string{}
	}
	return keys
}

func keyValuesToMap(keyValues []KeyValue) map[string]string {
	m := make(map[string]string, len(keyValues))
	for _, kv := range keyValues {
		m[kv.Key] = kv.Value
	}
	return m
}

func toKeyLeases(entries []keyLeaseEntry) []KeyLease {
	leases := make([]KeyLease, 0, len(entries))
	for _, entry := range entries {
		leases = append(leases, KeyLease{
			Key:   entry.Key,
			Lease: int64(entry.Lease) * BlockTimeSeconds,
		})
	}
	sort.Slice(leases, func(i, j int) bool {
		if leases[i].Lease != leases[j].Lease {
			return leases[i].Lease < leases[j].Lease
		}
		return leases[i].Key < leases[j].Key
	})
	return leases
}
