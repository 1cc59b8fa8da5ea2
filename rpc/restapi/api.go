package restapi

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/bluzelle/blzgo/internal/gatewayapi"
	"github.com/bluzelle/blzgo/log"
	"github.com/bluzelle/blzgo/params"
)

const maxRequestSize = 4 << 20

func writeResponse(w http.ResponseWriter, status int, resp interface{}) {
	jsonData, err := json.Marshal(resp)
	if err != nil {
		log.Warn("marshal response failed", "err", err)
		status = http.StatusInternalServerError
		jsonData = []byte(`{"error":{"kind":"internal","message":"marshal response failed"}}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(jsonData)
}

// VersionInfoHandler handler
func VersionInfoHandler(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, http.StatusOK, params.VersionWithMeta)
}

// ServerInfoHandler handler
func ServerInfoHandler(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, http.StatusOK, gatewayapi.GetServerInfo())
}

// RequestHandler executes the request text in the body
func RequestHandler(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestSize))
	if err != nil {
		writeResponse(w, http.StatusBadRequest, &gatewayapi.Response{
			Error: &gatewayapi.ErrorInfo{Kind: gatewayapi.KindProtocol, Message: err.Error()},
		})
		return
	}
	resp, status := gatewayapi.NewResponse(gatewayapi.Request(string(body)))
	writeResponse(w, status, resp)
}
