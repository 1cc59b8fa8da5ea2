package gatewayapi

import (
	"errors"
	"net/http"

	rpcjson "github.com/gorilla/rpc/v2/json2"

	"github.com/bluzelle/blzgo/bluzelle"
	"github.com/bluzelle/blzgo/dispatcher"
	"github.com/bluzelle/blzgo/rpc/client"
)

// error kinds
const (
	KindInvalidArgument = "invalid_argument"
	KindProtocol        = "protocol"
	KindNotFound        = "not_found"
	KindConnection      = "connection"
	KindServer          = "server"
	KindInternal        = "internal"
)

var kindStatus = map[string]int{
	KindInvalidArgument: http.StatusBadRequest,
	KindProtocol:        http.StatusBadRequest,
	KindNotFound:        http.StatusNotFound,
	KindConnection:      http.StatusBadGateway,
	KindServer:          http.StatusUnprocessableEntity,
	KindInternal:        http.StatusInternalServerError,
}

var kindRPCCode = map[string]rpcjson.ErrorCode{
	KindInvalidArgument: rpcjson.E_BAD_PARAMS,
	KindProtocol:        rpcjson.E_NO_METHOD,
	KindNotFound:        -32004,
	KindConnection:      -32003,
	KindServer:          -32002,
	KindInternal:        rpcjson.E_SERVER,
}

// NewErrorInfo classifies err
func NewErrorInfo(err error) *ErrorInfo {
	info := &ErrorInfo{Kind: KindInternal, Message: err.Error()}
	var (
		protocolErr *dispatcher.ProtocolError
		serverErr   *bluzelle.ServerError
		connErr     *client.ConnectionError
	)
	switch {
	case errors.Is(err, bluzelle.ErrInvalidArgument):
		info.Kind = KindInvalidArgument
	case errors.As(err, &protocolErr):
		info.Kind = KindProtocol
	case errors.As(err, &serverErr):
		info.Kind = KindServer
		info.Code = serverErr.Code
		info.RawLog = serverErr.RawLog
	case client.IsNotFound(err):
		info.Kind = KindNotFound
	case errors.As(err, &connErr):
		info.Kind = KindConnection
	}
	return info
}

// NewResponse builds the envelope and its http status
func NewResponse(res *string, err error) (*Response, int) {
	if err != nil {
		info := NewErrorInfo(err)
		return &Response{Error: info}, kindStatus[info.Kind]
	}
	return &Response{Result: res}, http.StatusOK
}

// NewRPCError converts err to a json rpc error carrying the error info
func NewRPCError(err error) error {
	info := NewErrorInfo(err)
	return &rpcjson.Error{
		Code:    kindRPCCode[info.Kind],
		Message: info.Message,
		Data:    info,
	}
}
