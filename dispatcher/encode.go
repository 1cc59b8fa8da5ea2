package dispatcher

import (
	"fmt"
	"sort"

	"github.com/bluzelle/blzgo/bluzelle"
	"github.com/bluzelle/blzgo/common"
)

func encodeJSON(v interface{}) (*string, error) {
	s, err := common.ToJSONString(v, false)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return result(s), nil
}

func encodeKeyValues(kvs map[string]string) (*string, error) {
	records := make([]bluzelle.KeyValue, 0, len(kvs))
	for key, value := range kvs {
		records = append(records, bluzelle.KeyValue{Key: key, Value: value})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Key < records[j].Key
	})
	return encodeJSON(records)
}

func encodeKeyLeases(leases []bluzelle.KeyLease) (*string, error) {
	records := make([]bluzelle.KeyLease, len(leases))
	copy(records, leases)
	sort.Slice(records, func(i, j int) bool {
		return records[i].Key < records[j].Key
	})
	return encodeJSON(records)
}
