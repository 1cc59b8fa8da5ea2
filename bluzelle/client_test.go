package bluzelle

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluzelle/blzgo/internal/fakechain"
	"github.com/bluzelle/blzgo/keys"
	"github.com/bluzelle/blzgo/rpc/client"
)

const testMnemonic = "legal winner thank year wave sausage worth useful legal winner thank yellow"

func newTestClient(t *testing.T) (*fakechain.Chain, *Client) {
	chain := fakechain.New()
	t.Cleanup(chain.Close)
	c, err := Connect(testMnemonic, chain.URL(), "", "")
	require.NoError(t, err)
	return chain, c
}

// asciiRange holds every byte from 0x00 to 0x7f,
// control characters included
func asciiRange() string {
	var sb strings.Builder
	for ch := 0; ch < 128; ch++ {
		sb.WriteByte(byte(ch))
	}
	return sb.String()
}

func TestConnect(t *testing.T) {
	chain := fakechain.New()
	defer chain.Close()

	kp, err := keys.NewKeyPairFromMnemonic(testMnemonic)
	require.NoError(t, err)
	chain.AddAccount(kp.Address(), 7, 3)

	c, err := Connect(testMnemonic, chain.URL(), "", "")
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), c.Address())
	assert.True(t, strings.HasPrefix(c.Address(), "bluzelle1"))
	assert.Equal(t, c.Address(), c.UUID())
	assert.Equal(t, DefaultChainID, c.ChainID())
	assert.Equal(t, uint64(7), c.AccountNumber())
	assert.Equal(t, DefaultGasInfo, c.GasInfo())

	c, err = Connect(testMnemonic, chain.URL(), "my-uuid", "bluzelle")
	require.NoError(t, err)
	assert.Equal(t, "my-uuid", c.UUID())

	version, err := c.Version()
	require.NoError(t, err)
	assert.Equal(t, fakechain.DefaultVersion, version)

	account, err := c.Account()
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), account.Address)
	assert.Equal(t, StrUint64(7), account.AccountNumber)
	assert.Equal(t, StrUint64(3), account.Sequence)
	assert.False(t, account.Coins.IsZero())
}

func TestConnectErrors(t *testing.T) {
	_, err := Connect("", "", "", "")
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = Connect("this is not a mnemonic", "", "", "")
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	chain := fakechain.New()
	url := chain.URL()
	chain.Close()
	_, err = NewClient(&Config{Mnemonic: testMnemonic, Endpoint: url})
	var connErr *client.ConnectionError
	assert.True(t, errors.As(err, &connErr))
}

func TestNewClientGasInfo(t *testing.T) {
	chain := fakechain.New()
	defer chain.Close()

	gasInfo := GasInfo{GasPrice: 10, MaxGas: 100000}
	c, err := NewClient(&Config{Mnemonic: testMnemonic, Endpoint: chain.URL(), GasInfo: &gasInfo})
	require.NoError(t, err)
	assert.Equal(t, gasInfo, c.GasInfo())

	require.NoError(t, c.Create("k", "v", nil, nil))
	txs := chain.Txs()
	require.Len(t, txs, 1)
	assert.Equal(t, uint64(100000), txs[0].Gas)
	assert.Equal(t, "1000000ubnt", txs[0].Fee.String())
}

func TestCreateReadASCIIRange(t *testing.T) {
	chain, c := newTestClient(t)
	value := asciiRange()

	require.NoError(t, c.Create("ascii", value, nil, nil))
	stored, ok := chain.Value(c.UUID(), "ascii")
	require.True(t, ok)
	assert.Equal(t, value, stored)

	got, found, err := c.Read("ascii", false)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, value, got)

	got, found, err = c.Read("ascii", true)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, value, got)

	got, err = c.TxRead("ascii", nil)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestKeysWithSpecialCharacters(t *testing.T) {
	_, c := newTestClient(t)
	for _, key := range []string{"a b", "a/b", "a?b#c", "100%", "x&y=z", "ключ"} {
		require.NoError(t, c.Create(key, "value of "+key, nil, nil), key)
		value, found, err := c.Read(key, false)
		require.NoError(t, err, key)
		assert.True(t, found, key)
		assert.Equal(t, "value of "+key, value)

		has, err := c.Has(key)
		require.NoError(t, err)
		assert.True(t, has, key)
	}
}

func TestReadNotFound(t *testing.T) {
	_, c := newTestClient(t)
	value, found, err := c.Read("missing", false)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "", value)

	_, err = c.GetLease("missing")
	assert.True(t, client.IsNotFound(err))

	_, err = c.TxRead("missing", nil)
	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Contains(t, serverErr.RawLog, "key not found")
}

func TestUpdateDelete(t *testing.T) {
	_, c := newTestClient(t)
	require.NoError(t, c.Create("key", "one", nil, nil))
	require.NoError(t, c.Update("key", "two", nil, nil))

	value, _, err := c.Read("key", false)
	require.NoError(t, err)
	assert.Equal(t, "two", value)

	require.NoError(t, c.Delete("key", nil))
	_, found, err := c.Read("key", false)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHas(t *testing.T) {
	_, c := newTestClient(t)
	has, err := c.Has("key")
	require.NoError(t, err)
	assert.False(t, has)
	has, err = c.TxHas("key", nil)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, c.Create("key", "value", nil, nil))
	has, err = c.Has("key")
	require.NoError(t, err)
	assert.True(t, has)
	has, err = c.TxHas("key", nil)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestKeysCountRename(t *testing.T) {
	_, c := newTestClient(t)
	keyList, err := c.Keys()
	require.NoError(t, err)
	assert.Empty(t, keyList)
	assert.NotNil(t, keyList)

	require.NoError(t, c.Create("b", "2", nil, nil))
	require.NoError(t, c.Create("a", "1", nil, nil))

	keyList, err = c.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keyList)
	keyList, err = c.TxKeys(nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keyList)

	count, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
	count, err = c.TxCount(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	require.NoError(t, c.Rename("a", "c", nil))
	_, found, err := c.Read("a", false)
	require.NoError(t, err)
	assert.False(t, found)
	value, found, err := c.Read("c", false)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "1", value)

	require.NoError(t, c.DeleteAll(nil))
	count, err = c.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestMultiUpdateKeyValues(t *testing.T) {
	_, c := newTestClient(t)
	require.NoError(t, c.Create("k1", "v1", nil, nil))
	require.NoError(t, c.Create("k2", "v2", nil, nil))
	require.NoError(t, c.Create("k3", "v3", nil, nil))

	update := map[string]string{"k1": "new1", "k3": "new3"}
	require.NoError(t, c.MultiUpdate(update, nil))

	want := map[string]string{"k1": "new1", "k2": "v2", "k3": "new3"}
	kvs, err := c.KeyValues()
	require.NoError(t, err)
	assert.Equal(t, want, kvs)
	kvs, err = c.TxKeyValues(nil)
	require.NoError(t, err)
	assert.Equal(t, want, kvs)
}

func TestLeases(t *testing.T) {
	chain, c := newTestClient(t)
	require.NoError(t, c.Create("hour", "v", nil, &LeaseInfo{Hours: 1}))
	require.NoError(t, c.Create("day", "v", nil, &LeaseInfo{Days: 1}))
	require.NoError(t, c.Create("minute", "v", nil, &LeaseInfo{Minutes: 1}))
	require.NoError(t, c.Create("also-minute", "v", nil, &LeaseInfo{Seconds: 60}))

	lease, err := c.GetLease("hour")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), lease)
	lease, err = c.TxGetLease("day", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(86400), lease)

	leases, err := c.GetNShortestLeases(3)
	require.NoError(t, err)
	assert.Equal(t, []KeyLease{
		{Key: "also-minute", Lease: 60},
		{Key: "minute", Lease: 60},
		{Key: "hour", Lease: 3600},
	}, leases)
	txLeases, err := c.TxGetNShortestLeases(3, nil)
	require.NoError(t, err)
	assert.Equal(t, leases, txLeases)

	require.NoError(t, c.RenewLease("minute", nil, &LeaseInfo{Days: 2}))
	lease, err = c.GetLease("minute")
	require.NoError(t, err)
	assert.Equal(t, int64(2*86400), lease)

	require.NoError(t, c.RenewLeaseAll(nil, &LeaseInfo{Hours: 2}))
	for _, key := range []string{"hour", "day", "minute", "also-minute"} {
		lease, err = c.GetLease(key)
		require.NoError(t, err)
		assert.Equal(t, int64(7200), lease, key)
	}

	chain.SetLease(c.UUID(), "day", 1)
	leases, err = c.GetNShortestLeases(1)
	require.NoError(t, err)
	assert.Equal(t, []KeyLease{{Key: "day", Lease: BlockTimeSeconds}}, leases)
}

func TestNonPositiveNRejectedBeforeNetwork(t *testing.T) {
	chain, c := newTestClient(t)
	requests := chain.Requests()

	for _, n := range []int64{0, -1} {
		_, err := c.GetNShortestLeases(n)
		assert.True(t, errors.Is(err, ErrInvalidArgument))
		_, err = c.TxGetNShortestLeases(n, nil)
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	}
	assert.Equal(t, requests, chain.Requests())
}

func TestEmptyKeyRejectedBeforeNetwork(t *testing.T) {
	chain, c := newTestClient(t)
	requests := chain.Requests()

	checks := []error{
		c.Create("", "v", nil, nil),
		c.Update("", "v", nil, nil),
		c.Delete("", nil),
		c.Rename("", "b", nil),
		c.Rename("a", "", nil),
		c.RenewLease("", nil, nil),
		c.MultiUpdate(nil, nil),
		c.MultiUpdate(map[string]string{"": "v"}, nil),
	}
	_, _, err := c.Read("", false)
	checks = append(checks, err)
	_, err = c.Has("")
	checks = append(checks, err)
	_, err = c.TxRead("", nil)
	checks = append(checks, err)
	_, err = c.TxGetLease("", nil)
	checks = append(checks, err)

	for i, err := range checks {
		assert.True(t, errors.Is(err, ErrInvalidArgument), "check %d: %v", i, err)
	}
	assert.Equal(t, requests, chain.Requests())
}

func TestSequenceIncrements(t *testing.T) {
	chain := fakechain.New()
	defer chain.Close()
	kp, err := keys.NewKeyPairFromMnemonic(testMnemonic)
	require.NoError(t, err)
	chain.AddAccount(kp.Address(), 5, 42)

	c, err := Connect(testMnemonic, chain.URL(), "", "")
	require.NoError(t, err)
	require.NoError(t, c.Create("first", "1", nil, nil))
	require.NoError(t, c.Create("second", "2", nil, nil))

	txs := chain.Txs()
	require.Len(t, txs, 2)
	assert.Equal(t, uint64(42), txs[0].Signature.Sequence)
	assert.Equal(t, uint64(43), txs[1].Signature.Sequence)
	assert.Equal(t, uint64(5), txs[0].Signature.AccountNumber)
	assert.Equal(t, kp.PubKey(), txs[0].Signature.PubKey)
	assert.NotEqual(t, txs[0].Memo, txs[1].Memo)
	assert.Equal(t, uint64(44), chain.Sequence(kp.Address()))
}

func TestFeeFromGasInfo(t *testing.T) {
	chain, c := newTestClient(t)

	require.NoError(t, c.Create("a", "1", nil, nil))
	require.NoError(t, c.Create("b", "1", &GasInfo{GasPrice: 10, MaxGas: 100000}, nil))
	require.NoError(t, c.Create("c", "1", &GasInfo{GasPrice: 10, MaxFee: 7}, nil))

	txs := chain.Txs()
	require.Len(t, txs, 3)
	assert.Equal(t, uint64(fakechain.DefaultEstimatedGas), txs[0].Gas)
	assert.Equal(t, "200000000ubnt", txs[0].Fee.String())
	assert.Equal(t, uint64(100000), txs[1].Gas)
	assert.Equal(t, "1000000ubnt", txs[1].Fee.String())
	assert.Equal(t, uint64(fakechain.DefaultEstimatedGas), txs[2].Gas)
	assert.Equal(t, "7ubnt", txs[2].Fee.String())
}

func TestOverflowingFeeAndLease(t *testing.T) {
	chain, c := newTestClient(t)
	requests := chain.Requests()

	hugeLease := &LeaseInfo{Days: 1 << 62}
	checks := []error{
		c.Create("k", "v", nil, hugeLease),
		c.Update("k", "v", nil, hugeLease),
		c.RenewLease("k", nil, hugeLease),
		c.RenewLeaseAll(nil, hugeLease),
	}
	for i, err := range checks {
		assert.True(t, errors.Is(err, ErrInvalidArgument), "check %d: %v", i, err)
	}
	assert.Equal(t, requests, chain.Requests())

	err := c.Create("k", "v", &GasInfo{GasPrice: 1 << 50}, nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument), "%v", err)
	assert.Empty(t, chain.Txs())
}

func TestServerError(t *testing.T) {
	chain, c := newTestClient(t)
	require.NoError(t, c.Create("key", "value", nil, nil))

	err := c.Create("key", "again", nil, nil)
	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, uint32(fakechain.CodeInvalidRequest), serverErr.Code)
	assert.Equal(t, "invalid request: key already exists", serverErr.RawLog)

	chain.RejectNext(fakechain.Rejection{Code: 5, Codespace: "sdk", RawLog: "insufficient funds"})
	err = c.Update("key", "other", nil, nil)
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, uint32(5), serverErr.Code)
	assert.Equal(t, "sdk", serverErr.Codespace)
	assert.Equal(t, "insufficient funds", serverErr.RawLog)
	assert.Contains(t, serverErr.Error(), "insufficient funds")

	value, _, err := c.Read("key", false)
	require.NoError(t, err)
	assert.Equal(t, "value", value)
}

func TestWrongChainIDRejected(t *testing.T) {
	chain := fakechain.New()
	defer chain.Close()
	c, err := Connect(testMnemonic, chain.URL(), "", "other-chain")
	require.NoError(t, err)

	err = c.Create("key", "value", nil, nil)
	var connErr *client.ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, 400, connErr.StatusCode)
}
