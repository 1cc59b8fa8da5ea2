package server

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	rpcjson "github.com/gorilla/rpc/v2/json2"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluzelle/blzgo/dispatcher"
	"github.com/bluzelle/blzgo/internal/fakechain"
	"github.com/bluzelle/blzgo/internal/gatewayapi"
	"github.com/bluzelle/blzgo/params"
)

const testMnemonic = "legal winner thank year wave sausage worth useful legal winner thank yellow"

func newTestServer(t *testing.T, maxRequestsLimit int) (*httptest.Server, *fakechain.Chain) {
	chain := fakechain.New()
	gatewayapi.Init(&dispatcher.Options{Endpoint: chain.URL()})
	require.NoError(t, gatewayapi.Connect(testMnemonic, "", "ns", ""))
	srv := httptest.NewServer(NewHandler(&params.APIServerConfig{MaxRequestsLimit: maxRequestsLimit}))
	return srv, chain
}

func postRequest(t *testing.T, url, text string) (int, *gatewayapi.Response) {
	resp, err := http.Post(url+"/request", "text/plain", strings.NewReader(text))
	require.NoError(t, err)
	defer resp.Body.Close()
	var envelope gatewayapi.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, &envelope
}

func TestRequestHandler(t *testing.T) {
	srv, chain := newTestServer(t, 0)
	defer chain.Close()
	defer srv.Close()

	status, resp := postRequest(t, srv.URL, `{"method":"create","args":["k","v"]}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, resp.Error)
	assert.Nil(t, resp.Result)

	status, resp = postRequest(t, srv.URL, `{"method":"read","args":["k"]}`)
	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "v", *resp.Result)

	status, resp = postRequest(t, srv.URL, `{"method":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, gatewayapi.KindProtocol, resp.Error.Kind)

	status, resp = postRequest(t, srv.URL, `{"method":"create","args":["","v"]}`)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, gatewayapi.KindInvalidArgument, resp.Error.Kind)

	status, resp = postRequest(t, srv.URL, `{"method":"create","args":["k","v"]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, gatewayapi.KindServer, resp.Error.Kind)
	assert.NotZero(t, resp.Error.Code)
}

func TestJSONRPC(t *testing.T) {
	srv, chain := newTestServer(t, 0)
	defer chain.Close()
	defer srv.Close()

	call := func(args interface{}) (*string, error) {
		body, err := rpcjson.EncodeClientRequest("bluzelle.Request", args)
		require.NoError(t, err)
		resp, err := http.Post(srv.URL+"/rpc", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		var result string
		if err := rpcjson.DecodeClientResponse(resp.Body, &result); err != nil {
			return nil, err
		}
		return &result, nil
	}

	res, err := call([]string{`{"method":"count"}`})
	require.NoError(t, err)
	assert.Equal(t, "0", *res)

	res, err = call(map[string]string{"request": `{"method":"has","args":["k"]}`})
	require.NoError(t, err)
	assert.Equal(t, "false", *res)

	_, err = call([]string{`{"method":"create","args":["","v"]}`})
	rpcErr, ok := err.(*rpcjson.Error)
	require.True(t, ok, "%v", err)
	assert.Equal(t, rpcjson.E_BAD_PARAMS, rpcErr.Code)

	_, err = call([]string{`{"method":"create","args":["k","v"]}`})
	assert.Equal(t, rpcjson.ErrNullResult, err)
}

func TestWebSocket(t *testing.T) {
	srv, chain := newTestServer(t, 0)
	defer chain.Close()
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	requests := []string{
		`{"method":"create","args":["a","1"]}`,
		`{"method":"create","args":["b","2"]}`,
		`{"method":"count"}`,
		`{"method":"read","args":["missing"]}`,
		`not json`,
	}
	for _, req := range requests {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(req)))
	}
	var replies []*gatewayapi.Response
	for range requests {
		var resp gatewayapi.Response
		require.NoError(t, conn.ReadJSON(&resp))
		replies = append(replies, &resp)
	}
	assert.Nil(t, replies[0].Error)
	assert.Nil(t, replies[1].Error)
	require.NotNil(t, replies[2].Result)
	assert.Equal(t, "2", *replies[2].Result)
	assert.Nil(t, replies[3].Error)
	assert.Nil(t, replies[3].Result)
	require.NotNil(t, replies[4].Error)
	assert.Equal(t, gatewayapi.KindProtocol, replies[4].Error.Kind)
}

func TestInfoAndMethods(t *testing.T) {
	srv, chain := newTestServer(t, 0)
	defer chain.Close()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/versioninfo")
	require.NoError(t, err)
	var version string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&version))
	resp.Body.Close()
	assert.Equal(t, params.VersionWithMeta, version)

	resp, err = http.Get(srv.URL + "/serverinfo")
	require.NoError(t, err)
	var info gatewayapi.ServerInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	resp.Body.Close()
	assert.True(t, info.Connected)
	assert.Equal(t, "ns", info.UUID)

	resp, err = http.Get(srv.URL + "/request")
	require.NoError(t, err)
	body, _ := ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Contains(t, string(body), "Forbid 'GET'")
}

func TestRateLimit(t *testing.T) {
	srv, chain := newTestServer(t, 1)
	defer chain.Close()
	defer srv.Close()

	var statuses []int
	for i := 0; i < 3; i++ {
		resp, err := http.Get(srv.URL + "/versioninfo")
		require.NoError(t, err)
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
	}
	assert.Equal(t, http.StatusOK, statuses[0])
	assert.Contains(t, statuses, http.StatusTooManyRequests)
}
