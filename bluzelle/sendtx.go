package bluzelle

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/pborman/uuid"
	"github.com/tendermint/tendermint/crypto/tmhash"

	"github.com/bluzelle/blzgo/keys"
	"github.com/bluzelle/blzgo/log"
)

const broadcastMode = "block"

func (c *Client) newTxReq() *txReq {
	return &txReq{
		BaseReq: baseReq{From: c.address, ChainID: c.chainID},
		UUID:    c.uuid,
		Owner:   c.address,
	}
}

// sendTx prepares, signs and broadcasts one transaction,
// returns the decoded data of the committed transaction
func (c *Client) sendTx(op string, isDelete bool, req *txReq, gasInfo *GasInfo) ([]byte, error) {
	gasInfo = c.gasInfoOrDefault(gasInfo)

	body, err := MarshalAmino(req)
	if err != nil {
		return nil, err
	}
	path := "/crud/" + op
	log.Debug("bluzelle prepare tx", "path", path, "isDelete", isDelete)
	respBody, err := c.conn.Post(path, isDelete, body)
	if err != nil {
		return nil, err
	}
	var prepared preparedTx
	if err = json.Unmarshal(respBody, &prepared); err != nil {
		return nil, fmt.Errorf("decode prepared tx: %w", err)
	}
	tx := prepared.Value

	estimatedGas := uint64(tx.Fee.Gas)
	tx.Fee, err = gasInfo.StdFee(estimatedGas)
	if err != nil {
		return nil, err
	}
	tx.Memo = uuid.New()
	log.Debug("bluzelle tx fee", "op", op, "estimatedGas", estimatedGas, "gas", tx.Fee.Gas, "fee", tx.Fee.Amount.String())

	signature, err := c.sign(&tx)
	if err != nil {
		return nil, err
	}
	tx.Signatures = []StdSignature{*signature}

	return c.broadcast(op, &tx)
}

func (c *Client) sign(tx *StdTx) (*StdSignature, error) {
	account, err := c.Account()
	if err != nil {
		return nil, err
	}
	sequence := uint64(account.Sequence)
	signBytes, err := StdSignBytes(c.chainID, c.accountNumber, sequence, tx.Fee, tx.Msgs, tx.Memo)
	if err != nil {
		return nil, err
	}
	sig, err := c.signer.Sign(tmhash.Sum(signBytes))
	if err != nil {
		return nil, err
	}
	log.Trace("bluzelle tx signed", "accountNumber", c.accountNumber, "sequence", sequence)
	return &StdSignature{
		PubKey: PubKey{
			Type:  keys.PubKeyType,
			Value: c.signer.PubKey(),
		},
		Signature:     sig,
		AccountNumber: StrUint64(c.accountNumber),
		Sequence:      StrUint64(sequence),
	}, nil
}

func (c *Client) broadcast(op string, tx *StdTx) ([]byte, error) {
	body, err := json.Marshal(&broadcastReq{Tx: *tx, Mode: broadcastMode})
	if err != nil {
		return nil, err
	}
	respBody, err := c.conn.Post("/txs", false, body)
	if err != nil {
		return nil, err
	}
	var resp TxResponse
	if err = json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decode broadcast response: %w", err)
	}
	if resp.Code != nil {
		log.Warn("bluzelle tx rejected", "op", op, "txhash", resp.TxHash, "code", *resp.Code, "codespace", resp.Codespace, "rawLog", resp.RawLog)
		return nil, &ServerError{Code: *resp.Code, Codespace: resp.Codespace, RawLog: resp.RawLog}
	}
	log.Info("bluzelle tx committed", "op", op, "txhash", resp.TxHash, "height", resp.Height)
	if resp.Data == "" {
		return nil, nil
	}
	data, err := hex.DecodeString(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("decode tx data: %w", err)
	}
	return data, nil
}

func decodeTxResult(op string, data []byte, result interface{}) error {
	if len(data) == 0 {
		return fmt.Errorf("%v: empty tx result", op)
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("decode %v tx result: %w", op, err)
	}
	return nil
}
