package gatewayapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	rpcjson "github.com/gorilla/rpc/v2/json2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluzelle/blzgo/bluzelle"
	"github.com/bluzelle/blzgo/dispatcher"
	"github.com/bluzelle/blzgo/internal/fakechain"
	"github.com/bluzelle/blzgo/rpc/client"
)

const testMnemonic = "legal winner thank year wave sausage worth useful legal winner thank yellow"

func TestNewResponse(t *testing.T) {
	value := "v"
	tests := []struct {
		err    error
		kind   string
		status int
	}{
		{fmt.Errorf("%w: key is required", bluzelle.ErrInvalidArgument), KindInvalidArgument, http.StatusBadRequest},
		{&dispatcher.ProtocolError{Method: "x", Err: dispatcher.ErrUnknownMethod}, KindProtocol, http.StatusBadRequest},
		{&client.ConnectionError{StatusCode: 404, Err: errors.New("status 404")}, KindNotFound, http.StatusNotFound},
		{&client.ConnectionError{Err: errors.New("refused")}, KindConnection, http.StatusBadGateway},
		{&bluzelle.ServerError{Code: 5, RawLog: "insufficient funds"}, KindServer, http.StatusUnprocessableEntity},
		{errors.New("other"), KindInternal, http.StatusInternalServerError},
	}
	for _, test := range tests {
		resp, status := NewResponse(&value, test.err)
		assert.Equal(t, test.status, status, test.err.Error())
		require.NotNil(t, resp.Error)
		assert.Equal(t, test.kind, resp.Error.Kind)
		assert.Equal(t, test.err.Error(), resp.Error.Message)

		rpcErr, ok := NewRPCError(test.err).(*rpcjson.Error)
		require.True(t, ok)
		assert.Equal(t, kindRPCCode[test.kind], rpcErr.Code)
	}

	resp, status := NewResponse(nil, &bluzelle.ServerError{Code: 5, RawLog: "insufficient funds"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":{"kind":"server","message":"server error: code 5: insufficient funds","code":5,"raw_log":"insufficient funds"}}`, string(data))
}

func TestResponseJSON(t *testing.T) {
	resp, status := NewResponse(nil, nil)
	assert.Equal(t, http.StatusOK, status)
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"result":null}`, string(data))

	value := "1"
	resp, _ = NewResponse(&value, nil)
	data, err = json.Marshal(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"result":"1"}`, string(data))

	var decoded Response
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.Result)
	assert.Equal(t, "1", *decoded.Result)
	assert.Nil(t, decoded.Error)
}

func TestLockedDispatcher(t *testing.T) {
	chain := fakechain.New()
	defer chain.Close()

	Init(&dispatcher.Options{Endpoint: chain.URL()})
	info := GetServerInfo()
	assert.False(t, info.Connected)

	_, err := Request(`{"method":"count"}`)
	assert.True(t, errors.Is(err, dispatcher.ErrNotConnected))

	require.NoError(t, Connect(testMnemonic, "", "ns", ""))
	info = GetServerInfo()
	assert.True(t, info.Connected)
	assert.Equal(t, "ns", info.UUID)
	assert.Equal(t, bluzelle.DefaultChainID, info.ChainID)

	res, err := Request(`{"method":"count"}`)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "0", *res)

	gas := bluzelle.GasInfo{GasPrice: 2}
	SetOptions(dispatcher.Options{Endpoint: chain.URL(), GasInfo: &gas})
	_, err = Request(`{"method":"create","args":["k","v"]}`)
	require.NoError(t, err)
	txs := chain.Txs()
	require.Len(t, txs, 1)
	assert.Equal(t, "400000ubnt", txs[0].Fee.String())
}
