package fakechain

import (
	"strconv"
)

func msgString(msg map[string]interface{}, field string) string {
	s, _ := msg[field].(string)
	return s
}

func msgInt(msg map[string]interface{}, field string) int64 {
	switch v := msg[field].(type) {
	case string:
		i, _ := strconv.ParseInt(v, 10, 64)
		return i
	case float64:
		return int64(v)
	}
	return 0
}

func leaseOrDefault(blocks int64) int64 {
	if blocks <= 0 {
		return DefaultLeaseBlocks
	}
	return blocks
}

func keyNotFound(key string) *txResult {
	return &txResult{code: CodeKeyNotFound, codespace: "crud", log: "key not found: " + key}
}

func (c *Chain) deliverTx(tx *Tx) *txResult {
	msg := tx.Msg
	uuid := msgString(msg, "UUID")
	key := msgString(msg, "Key")
	store := c.store(uuid)
	e, exists := store[key]

	switch tx.Type {
	case "crud/create":
		if exists {
			return &txResult{code: CodeInvalidRequest, codespace: "sdk", log: "invalid request: key already exists"}
		}
		store[key] = &entry{value: msgString(msg, "Value"), lease: leaseOrDefault(msgInt(msg, "Lease"))}
	case "crud/update":
		if !exists {
			return keyNotFound(key)
		}
		e.value = msgString(msg, "Value")
		if lease := msgInt(msg, "Lease"); lease > 0 {
			e.lease = lease
		}
	case "crud/delete":
		if !exists {
			return keyNotFound(key)
		}
		delete(store, key)
	case "crud/rename":
		newKey := msgString(msg, "NewKey")
		if !exists {
			return keyNotFound(key)
		}
		if _, taken := store[newKey]; taken {
			return &txResult{code: CodeInvalidRequest, codespace: "sdk", log: "invalid request: new key already exists"}
		}
		delete(store, key)
		store[newKey] = e
	case "crud/multiupdate":
		kvs, _ := msg["KeyValues"].([]interface{})
		for _, item := range kvs {
			kv, _ := item.(map[string]interface{})
			if _, ok := store[msgString(kv, "key")]; !ok {
				return keyNotFound(msgString(kv, "key"))
			}
		}
		for _, item := range kvs {
			kv, _ := item.(map[string]interface{})
			store[msgString(kv, "key")].value = msgString(kv, "value")
		}
	case "crud/renewlease":
		if !exists {
			return keyNotFound(key)
		}
		e.lease = leaseOrDefault(msgInt(msg, "Lease"))
	case "crud/renewleaseall":
		lease := leaseOrDefault(msgInt(msg, "Lease"))
		for _, e := range store {
			e.lease = lease
		}
	case "crud/deleteall":
		c.stores[uuid] = make(map[string]*entry)
	case "crud/read":
		if !exists {
			return keyNotFound(key)
		}
		return &txResult{data: map[string]string{"UUID": uuid, "key": key, "value": e.value}}
	case "crud/has":
		return &txResult{data: map[string]interface{}{"UUID": uuid, "key": key, "has": exists}}
	case "crud/getlease":
		if !exists {
			return keyNotFound(key)
		}
		return &txResult{data: map[string]string{"UUID": uuid, "key": key, "lease": strconv.FormatInt(e.lease, 10)}}
	case "crud/keys":
		result, _ := c.uuidResult("keys", uuid)
		return &txResult{data: result}
	case "crud/count":
		result, _ := c.uuidResult("count", uuid)
		return &txResult{data: result}
	case "crud/keyvalues":
		result, _ := c.uuidResult("keyvalues", uuid)
		return &txResult{data: result}
	case "crud/getnshortestleases":
		n := msgInt(msg, "N")
		if n <= 0 {
			return &txResult{code: CodeInvalidRequest, codespace: "sdk", log: "invalid request: n must be positive"}
		}
		return &txResult{data: c.nShortestLeases(uuid, uint64(n))}
	default:
		return &txResult{code: CodeInvalidRequest, codespace: "sdk", log: "unrecognized msg type " + tx.Type}
	}
	return &txResult{}
}
