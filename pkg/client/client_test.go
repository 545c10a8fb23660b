package client

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transferABI = `[{"constant":false,"inputs":[{"name":"_to","type":"address"},{"name":"_value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"}]`

var testProvider = Provider{
	Address: common.HexToAddress("0x1111111111111111111111111111111111111111"),
	ChainID: 1,
}

func newTestClient(srv *httptest.Server) *Client {
	return New(srv.URL, "test-token", zerolog.Nop())
}

func TestInitializeOpensSessionOnce(t *testing.T) {
	var sessionCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/session", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var p Provider
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, testProvider.Address, p.Address)

		sessionCalls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	require.False(t, c.IsInitialized())

	require.NoError(t, c.Initialize(context.Background(), testProvider))
	require.True(t, c.IsInitialized())

	// already initialized: no second round trip
	require.NoError(t, c.Initialize(context.Background(), testProvider))
	assert.Equal(t, int64(1), sessionCalls.Load())
}

func TestDeinitNoOpWithoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	c := newTestClient(srv)
	require.NoError(t, c.Deinit(context.Background()))
}

func TestGetUnifiedBalances(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/balances", r.URL.Path)
		_, _ = w.Write([]byte(`[{"symbol":"ETH","breakdown":[{"balance":"1.5","chain":{"id":1,"name":"Ethereum"},"contractAddress":"0x0000000000000000000000000000000000000000","decimals":18}]}]`))
	}))
	defer srv.Close()

	balances, err := newTestClient(srv).GetUnifiedBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, "ETH", balances[0].Symbol)
	require.Len(t, balances[0].Breakdown, 1)
	assert.Equal(t, "1.5", balances[0].Breakdown[0].Balance)
}

func TestBridgeErrorBodyMining(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"insufficient source balance"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Bridge(context.Background(), BridgeParams{
		Token: "ETH", Amount: "1.0", DestinationChainID: 8453, SourceChains: []int64{1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient source balance")
	assert.Contains(t, err.Error(), "400")
}

func TestExecutePacksCalldata(t *testing.T) {
	recipient := common.HexToAddress("0x2222222222222222222222222222222222222222")
	value := big.NewInt(1_000_000)

	parsed, err := ethabi.JSON(strings.NewReader(transferABI))
	require.NoError(t, err)
	wantData, err := parsed.Pack("transfer", recipient, value)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/execute", r.URL.Path)

		var req executeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(8453), req.ChainID)
		assert.Equal(t, hexutil.Encode(wantData), req.Data)
		assert.True(t, req.WaitForReceipt)
		require.NotNil(t, req.TokenApproval)
		assert.Equal(t, "USDC", req.TokenApproval.Token)

		_, _ = w.Write([]byte(`{"txHash":"0xBB","blockExplorerUrl":"https://basescan.org/tx/0xBB"}`))
	}))
	defer srv.Close()

	result, err := newTestClient(srv).Execute(context.Background(), ExecuteParams{
		ToChainID:       8453,
		ContractAddress: common.HexToAddress("0x3333333333333333333333333333333333333333"),
		ContractABI:     transferABI,
		FunctionName:    "transfer",
		Token:           "USDC",
		Amount:          "1.0",
		Recipient:       recipient,
		BuildFunctionParams: func(_, _ string, _ int64, _ common.Address) ([]interface{}, error) {
			return []interface{}{recipient, value}, nil
		},
		WaitForReceipt: true,
		TokenApproval:  &TokenApproval{Token: "USDC", Amount: "1.0"},
	})
	require.NoError(t, err)
	assert.Equal(t, "0xBB", result.ResolvedHash())
	assert.Equal(t, "https://basescan.org/tx/0xBB", result.ResolvedExplorerURL())
}

func TestSimulateDecodesCompositeCost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/simulate", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"totalEstimatedCost":{"total":"0.0042"},"approvalRequired":true,"steps":3}`))
	}))
	defer srv.Close()

	result, err := newTestClient(srv).SimulateBridgeAndExecute(context.Background(), BridgeAndExecuteParams{
		Token: "ETH", Amount: "1.0", ToChainID: 8453, SourceChains: []int64{1},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "0.0042", result.TotalEstimatedCost.Total)
	assert.True(t, result.ApprovalRequired)
	assert.Equal(t, 3, result.Steps)
}

func TestSimulateDecodesStringCost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"totalEstimatedCost":"0.0017","steps":2}`))
	}))
	defer srv.Close()

	result, err := newTestClient(srv).SimulateBridgeAndExecute(context.Background(), BridgeAndExecuteParams{
		Token: "USDC", Amount: "25", ToChainID: 8453, SourceChains: []int64{137},
	})
	require.NoError(t, err)
	assert.Equal(t, "0.0017", result.TotalEstimatedCost.Total)
}
