// Package fakechain is an in-process REST gateway of a bluzelle chain for tests.
//
// It prepares transactions, verifies their signatures against independently
// rebuilt sign bytes, enforces account sequences and applies the crud
// messages to an in-memory store.
package fakechain

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"sync"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/gorilla/mux"
	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/crypto/secp256k1"
	"github.com/tendermint/tendermint/crypto/tmhash"
	"github.com/tendermint/tendermint/libs/bech32"
)

// defaults of a new chain
const (
	DefaultChainID      = "bluzelle"
	DefaultVersion      = "0.0.0-fake"
	DefaultEstimatedGas = 200000
	DefaultLeaseBlocks  = 10 * 86400 / 5

	pubKeyType = "tendermint/PubKeySecp256k1"
)

// abci codes
const (
	CodeUnauthorized   = 4
	CodeInvalidSeq     = 3
	CodeInvalidRequest = 18
	CodeKeyNotFound    = 1001
)

var cdc = amino.NewCodec()

type entry struct {
	value string
	lease int64
}

type account struct {
	number   uint64
	sequence uint64
}

// Signature is a verified signature of a committed transaction
type Signature struct {
	AccountNumber uint64
	Sequence      uint64
	PubKey        []byte
}

// Tx is a committed transaction
type Tx struct {
	Type      string
	Msg       map[string]interface{}
	Gas       uint64
	Fee       sdk.Coins
	Memo      string
	Signature Signature
	Height    int64
}

// Rejection makes the next broadcast fail with the given result
type Rejection struct {
	Code      uint32
	Codespace string
	RawLog    string
}

// Chain is a fake gateway
type Chain struct {
	ChainID      string
	Version      string
	EstimatedGas uint64

	server *httptest.Server

	mu          sync.Mutex
	accounts    map[string]*account
	stores      map[string]map[string]*entry
	txs         []*Tx
	height      int64
	nextAccount uint64
	requests    int
	rejection   *Rejection
}

// New starts a fake gateway, Close it when done
func New() *Chain {
	c := &Chain{
		ChainID:      DefaultChainID,
		Version:      DefaultVersion,
		EstimatedGas: DefaultEstimatedGas,
		accounts:     make(map[string]*account),
		stores:       make(map[string]map[string]*entry),
		nextAccount:  1,
		height:       1,
	}
	c.server = httptest.NewServer(c.router())
	return c
}

// URL of the gateway
func (c *Chain) URL() string {
	return c.server.URL
}

// Close stops the gateway
func (c *Chain) Close() {
	c.server.Close()
}

// AddAccount registers address with an account number and sequence
func (c *Chain) AddAccount(address string, number, sequence uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accounts[address] = &account{number: number, sequence: sequence}
}

// Sequence of address
func (c *Chain) Sequence(address string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getAccount(address).sequence
}

// Txs returns the committed transactions
func (c *Chain) Txs() []*Tx {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Tx(nil), c.txs...)
}

// Requests is the number of http requests served
func (c *Chain) Requests() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests
}

// RejectNext makes the next broadcast fail
func (c *Chain) RejectNext(rejection Rejection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejection = &rejection
}

// SetLease sets the lease of key in blocks
func (c *Chain) SetLease(uuid, key string, blocks int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.store(uuid)[key]; ok {
		e.lease = blocks
	}
}

// Value of key, for assertions
func (c *Chain) Value(uuid, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.store(uuid)[key]
	if !ok {
		return "", false
	}
	return e.value, true
}

func (c *Chain) getAccount(address string) *account {
	acc, ok := c.accounts[address]
	if !ok {
		acc = &account{number: c.nextAccount}
		c.nextAccount++
		c.accounts[address] = acc
	}
	return acc
}

func (c *Chain) store(uuid string) map[string]*entry {
	s, ok := c.stores[uuid]
	if !ok {
		s = make(map[string]*entry)
		c.stores[uuid] = s
	}
	return s
}

func (c *Chain) router() http.Handler {
	r := mux.NewRouter().UseEncodedPath().SkipClean(true)
	r.Use(c.countRequests)
	r.HandleFunc("/node_info", c.nodeInfo).Methods("GET")
	r.HandleFunc("/auth/accounts/{address}", c.accountInfo).Methods("GET")
	r.HandleFunc("/crud/getnshortestleases/{uuid}/{n}", c.queryNShortestLeases).Methods("GET")
	r.HandleFunc("/crud/{op}/{uuid}/{key}", c.queryKey).Methods("GET")
	r.HandleFunc("/crud/{op}/{uuid}", c.queryUUID).Methods("GET")
	r.HandleFunc("/crud/{op}", c.prepareTx).Methods("POST", "DELETE")
	r.HandleFunc("/txs", c.broadcastTx).Methods("POST")
	return r
}

func (c *Chain) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.requests++
		c.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (c *Chain) writeResult(w http.ResponseWriter, result interface{}) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"height": strconv.FormatInt(c.height, 10),
		"result": result,
	})
}

func (c *Chain) nodeInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"node_info": map[string]string{"network": c.ChainID},
		"application_version": map[string]string{
			"name":    "BluzelleService",
			"version": c.Version,
		},
	})
}

func (c *Chain) accountInfo(w http.ResponseWriter, r *http.Request) {
	address := pathVars(r)["address"]
	c.mu.Lock()
	defer c.mu.Unlock()
	acc := c.getAccount(address)
	c.writeResult(w, map[string]interface{}{
		"type": "cosmos-sdk/Account",
		"value": map[string]interface{}{
			"address":        address,
			"coins":          []interface{}{map[string]string{"denom": "ubnt", "amount": "10000000000"}},
			"public_key":     "",
			"account_number": strconv.FormatUint(acc.number, 10),
			"sequence":       strconv.FormatUint(acc.sequence, 10),
		},
	})
}

func pathVars(r *http.Request) map[string]string {
	vars := mux.Vars(r)
	for name, value := range vars {
		if unescaped, err := url.PathUnescape(value); err == nil {
			vars[name] = unescaped
		}
	}
	return vars
}

func (c *Chain) queryKey(w http.ResponseWriter, r *http.Request) {
	vars := pathVars(r)
	c.mu.Lock()
	defer c.mu.Unlock()
	store := c.store(vars["uuid"])
	key := vars["key"]
	e, ok := store[key]
	switch vars["op"] {
	case "read", "pread":
		if !ok {
			writeError(w, http.StatusNotFound, "key not found")
			return
		}
		c.writeResult(w, map[string]string{"UUID": vars["uuid"], "key": key, "value": e.value})
	case "has":
		c.writeResult(w, map[string]interface{}{"UUID": vars["uuid"], "key": key, "has": ok})
	case "getlease":
		if !ok {
			writeError(w, http.StatusNotFound, "key not found")
			return
		}
		c.writeResult(w, map[string]string{"UUID": vars["uuid"], "key": key, "lease": strconv.FormatInt(e.lease, 10)})
	default:
		writeError(w, http.StatusNotFound, "unknown query")
	}
}

func (c *Chain) queryUUID(w http.ResponseWriter, r *http.Request) {
	vars := pathVars(r)
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.uuidResult(vars["op"], vars["uuid"])
	if !ok {
		writeError(w, http.StatusNotFound, "unknown query")
		return
	}
	c.writeResult(w, result)
}

func (c *Chain) queryNShortestLeases(w http.ResponseWriter, r *http.Request) {
	vars := pathVars(r)
	n, err := strconv.ParseUint(vars["n"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeResult(w, c.nShortestLeases(vars["uuid"], n))
}

func (c *Chain) uuidResult(op, uuid string) (interface{}, bool) {
	store := c.store(uuid)
	switch op {
	case "keys":
		return map[string]interface{}{"UUID": uuid, "keys": sortedKeys(store)}, true
	case "count":
		return map[string]string{"UUID": uuid, "count": strconv.Itoa(len(store))}, true
	case "keyvalues":
		kvs := make([]map[string]string, 0, len(store))
		for _, key := range sortedKeys(store) {
			kvs = append(kvs, map[string]string{"key": key, "value": store[key].value})
		}
		return map[string]interface{}{"UUID": uuid, "keyvalues": kvs}, true
	}
	return nil, false
}

func (c *Chain) nShortestLeases(uuid string, n uint64) interface{} {
	store := c.store(uuid)
	keys := sortedKeys(store)
	sort.SliceStable(keys, func(i, j int) bool {
		return store[keys[i]].lease < store[keys[j]].lease
	})
	if uint64(len(keys)) > n {
		keys = keys[:n]
	}
	leases := make([]map[string]string, 0, len(keys))
	for _, key := range keys {
		leases = append(leases, map[string]string{"key": key, "lease": strconv.FormatInt(store[key].lease, 10)})
	}
	return map[string]interface{}{"UUID": uuid, "keyleases": leases}
}

func sortedKeys(store map[string]*entry) []string {
	keys := make([]string, 0, len(store))
	for key := range store {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

var txOps = map[string]string{
	"create":             "crud/create",
	"update":             "crud/update",
	"delete":             "crud/delete",
	"rename":             "crud/rename",
	"multiupdate":        "crud/multiupdate",
	"renewlease":         "crud/renewlease",
	"renewleaseall":      "crud/renewleaseall",
	"deleteall":          "crud/deleteall",
	"read":               "crud/read",
	"has":                "crud/has",
	"keys":               "crud/keys",
	"count":              "crud/count",
	"keyvalues":          "crud/keyvalues",
	"getlease":           "crud/getlease",
	"getnshortestleases": "crud/getnshortestleases",
}

func (c *Chain) prepareTx(w http.ResponseWriter, r *http.Request) {
	op := mux.Vars(r)["op"]
	msgType, ok := txOps[op]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown tx "+op)
		return
	}
	if (op == "delete") != (r.Method == http.MethodDelete) {
		writeError(w, http.StatusMethodNotAllowed, "wrong method for "+op)
		return
	}
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	baseReq, _ := body["BaseReq"].(map[string]interface{})
	if baseReq == nil || baseReq["from"] == "" || baseReq["chain_id"] != c.ChainID {
		writeError(w, http.StatusBadRequest, "invalid base request")
		return
	}
	if body["Owner"] != baseReq["from"] {
		writeError(w, http.StatusBadRequest, "owner is not sender")
		return
	}
	delete(body, "BaseReq")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"type": "cosmos-sdk/StdTx",
		"value": map[string]interface{}{
			"msg":        []interface{}{map[string]interface{}{"type": msgType, "value": body}},
			"fee":        map[string]interface{}{"amount": []interface{}{}, "gas": strconv.FormatUint(c.EstimatedGas, 10)},
			"signatures": nil,
			"memo":       "",
		},
	})
}

type broadcastTx struct {
	Tx struct {
		Msgs       []json.RawMessage `json:"msg"`
		Fee        json.RawMessage   `json:"fee"`
		Signatures []struct {
			PubKey struct {
				Type  string `json:"type"`
				Value string `json:"value"`
			} `json:"pub_key"`
			Signature     string `json:"signature"`
			AccountNumber string `json:"account_number"`
			Sequence      string `json:"sequence"`
		} `json:"signatures"`
		Memo string `json:"memo"`
	} `json:"tx"`
	Mode string `json:"mode"`
}

type txMsg struct {
	Type  string                 `json:"type"`
	Value map[string]interface{} `json:"value"`
}

type txResult struct {
	code      uint32
	codespace string
	log       string
	data      interface{}
}

func rejected(code uint32, format string, args ...interface{}) *txResult {
	return &txResult{code: code, codespace: "sdk", log: fmt.Sprintf(format, args...)}
}

func (c *Chain) broadcastTx(w http.ResponseWriter, r *http.Request) {
	var req broadcastTx
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Mode != "block" {
		writeError(w, http.StatusBadRequest, "unsupported broadcast mode "+req.Mode)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	txHash := fmt.Sprintf("%X", tmhash.Sum([]byte(fmt.Sprintf("%v-%v", c.height, req.Tx.Memo))))
	tx, result := c.checkTx(&req)
	if result == nil && c.rejection != nil {
		result = &txResult{code: c.rejection.Code, codespace: c.rejection.Codespace, log: c.rejection.RawLog}
		c.rejection = nil
	}
	if result == nil {
		result = c.deliverTx(tx)
	}
	if result.code != 0 {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"height":    "0",
			"txhash":    txHash,
			"codespace": result.codespace,
			"code":      result.code,
			"raw_log":   result.log,
		})
		return
	}
	c.getAccount(c.signerAddress(tx)).sequence++
	c.height++
	tx.Height = c.height
	c.txs = append(c.txs, tx)

	resp := map[string]interface{}{
		"height":     strconv.FormatInt(c.height, 10),
		"txhash":     txHash,
		"raw_log":    "[]",
		"gas_wanted": strconv.FormatUint(tx.Gas, 10),
		"gas_used":   strconv.FormatUint(tx.Gas/2, 10),
	}
	if result.data != nil {
		data, _ := json.Marshal(result.data)
		resp["data"] = hex.EncodeToString(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (c *Chain) signerAddress(tx *Tx) string {
	owner, _ := tx.Msg["Owner"].(string)
	return owner
}

func (c *Chain) checkTx(req *broadcastTx) (*Tx, *txResult) {
	if len(req.Tx.Msgs) != 1 {
		return nil, rejected(CodeInvalidRequest, "expected one msg, got %v", len(req.Tx.Msgs))
	}
	var msg txMsg
	if err := json.Unmarshal(req.Tx.Msgs[0], &msg); err != nil {
		return nil, rejected(CodeInvalidRequest, "invalid msg: %v", err)
	}
	var fee struct {
		Amount sdk.Coins `json:"amount"`
		Gas    string    `json:"gas"`
	}
	if err := json.Unmarshal(req.Tx.Fee, &fee); err != nil {
		return nil, rejected(CodeInvalidRequest, "invalid fee: %v", err)
	}
	gas, err := strconv.ParseUint(fee.Gas, 10, 64)
	if err != nil {
		return nil, rejected(CodeInvalidRequest, "invalid gas: %v", err)
	}
	if len(req.Tx.Signatures) != 1 {
		return nil, rejected(CodeUnauthorized, "unauthorized: expected one signature")
	}
	sig := req.Tx.Signatures[0]
	if sig.PubKey.Type != pubKeyType {
		return nil, rejected(CodeUnauthorized, "unauthorized: pubkey type %v", sig.PubKey.Type)
	}
	pubBytes, err := base64.StdEncoding.DecodeString(sig.PubKey.Value)
	if err != nil || len(pubBytes) != secp256k1.PubKeySecp256k1Size {
		return nil, rejected(CodeUnauthorized, "unauthorized: invalid pubkey")
	}
	var pub secp256k1.PubKeySecp256k1
	copy(pub[:], pubBytes)

	owner, _ := msg.Value["Owner"].(string)
	address, err := bech32.ConvertAndEncode("bluzelle", pub.Address().Bytes())
	if err != nil || address != owner {
		return nil, rejected(CodeUnauthorized, "unauthorized: pubkey does not match owner %v", owner)
	}
	acc := c.getAccount(owner)
	accnum, _ := strconv.ParseUint(sig.AccountNumber, 10, 64)
	sequence, _ := strconv.ParseUint(sig.Sequence, 10, 64)
	if accnum != acc.number {
		return nil, rejected(CodeUnauthorized, "unauthorized: account number %v, expected %v", accnum, acc.number)
	}
	if sequence != acc.sequence {
		return nil, rejected(CodeInvalidSeq, "invalid sequence: got %v, expected %v", sequence, acc.sequence)
	}
	signBytes := sdk.MustSortJSON(cdc.MustMarshalJSON(authtypes.StdSignDoc{
		AccountNumber: acc.number,
		ChainID:       c.ChainID,
		Fee:           req.Tx.Fee,
		Memo:          req.Tx.Memo,
		Msgs:          req.Tx.Msgs,
		Sequence:      acc.sequence,
	}))
	sigBytes, err := base64.StdEncoding.DecodeString(sig.Signature)
	if err != nil || !pub.VerifyBytes(signBytes, sigBytes) {
		return nil, rejected(CodeUnauthorized, "unauthorized: signature verification failed")
	}
	return &Tx{
		Type: msg.Type,
		Msg:  msg.Value,
		Gas:  gas,
		Fee:  fee.Amount,
		Memo: req.Tx.Memo,
		Signature: Signature{
			AccountNumber: accnum,
			Sequence:      sequence,
			PubKey:        pubBytes,
		},
	}, nil
}
