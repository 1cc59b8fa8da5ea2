package dispatcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluzelle/blzgo/bluzelle"
)

func TestEncodeJSONError(t *testing.T) {
	res, err := encodeJSON(math.NaN())
	assert.Error(t, err)
	assert.Nil(t, res)

	res, err = encodeJSON(make(chan int))
	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestEncodeRecords(t *testing.T) {
	res, err := encodeKeyValues(map[string]string{"b": "2", "a": "<1>"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, `[{"key":"a","value":"<1>"},{"key":"b","value":"2"}]`, *res)

	res, err = encodeKeyValues(nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, *res)

	res, err = encodeKeyLeases([]bluzelle.KeyLease{{Key: "z", Lease: 5}, {Key: "y", Lease: 10}})
	require.NoError(t, err)
	assert.Equal(t, `[{"key":"y","lease":10},{"key":"z","lease":5}]`, *res)
}
