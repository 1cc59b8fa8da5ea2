package gatewayapi

import (
	"encoding/json"
)

// ServerInfo server info
type ServerInfo struct {
	Version   string
	Connected bool
	Address   string `json:",omitempty"`
	UUID      string `json:",omitempty"`
	ChainID   string `json:",omitempty"`
}

// ErrorInfo describes a failed request
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Code    uint32 `json:"code,omitempty"`
	RawLog  string `json:"raw_log,omitempty"`
}

// Response is the envelope of one request result,
// {"result": string|null} or {"error": {...}}
type Response struct {
	Result *string
	Error  *ErrorInfo
}

// MarshalJSON json marshaller
func (r *Response) MarshalJSON() ([]byte, error) {
	if r.Error != nil {
		return json.Marshal(struct {
			Error *ErrorInfo `json:"error"`
		}{r.Error})
	}
	return json.Marshal(struct {
		Result *string `json:"result"`
	}{r.Result})
}

// UnmarshalJSON json unmarshaller
func (r *Response) UnmarshalJSON(input []byte) error {
	var resp struct {
		Result *string    `json:"result"`
		Error  *ErrorInfo `json:"error"`
	}
	if err := json.Unmarshal(input, &resp); err != nil {
		return err
	}
	r.Result = resp.Result
	r.Error = resp.Error
	return nil
}
