package rpcapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bluzelle/blzgo/internal/gatewayapi"
	"github.com/bluzelle/blzgo/params"
)

// RPCAPI rpc api handler
type RPCAPI struct{}

// RPCNullArgs null args
type RPCNullArgs struct{}

// RequestArgs is the request text, given as "text" or {"request": "text"}
type RequestArgs struct {
	Request string `json:"request"`
}

// UnmarshalJSON json unmarshaller
func (args *RequestArgs) UnmarshalJSON(input []byte) error {
	var text string
	if err := json.Unmarshal(input, &text); err == nil {
		args.Request = text
		return nil
	}
	var obj struct {
		Request *string `json:"request"`
	}
	if err := json.Unmarshal(input, &obj); err != nil {
		return err
	}
	if obj.Request == nil {
		return errors.New("missing request")
	}
	args.Request = *obj.Request
	return nil
}

// GetVersionInfo api
func (s *RPCAPI) GetVersionInfo(r *http.Request, args *RPCNullArgs, result *string) error {
	*result = params.VersionWithMeta
	return nil
}

// GetServerInfo api
func (s *RPCAPI) GetServerInfo(r *http.Request, args *RPCNullArgs, result *gatewayapi.ServerInfo) error {
	*result = *gatewayapi.GetServerInfo()
	return nil
}

// Request api, the result is the result string or null
func (s *RPCAPI) Request(r *http.Request, args *RequestArgs, result *json.RawMessage) error {
	res, err := gatewayapi.Request(args.Request)
	if err != nil {
		return gatewayapi.NewRPCError(err)
	}
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	*result = data
	return nil
}
