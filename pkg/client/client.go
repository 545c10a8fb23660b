// Package client wraps the external balance/bridge gateway. The gateway
// owns wallet signing, bridging, and settlement; this side only shapes
// requests and normalizes responses.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog"

	"base-swap/pkg/types"
)

// Provider identifies the wallet session forwarded to the gateway
type Provider struct {
	Address common.Address `json:"address"`
	ChainID int64          `json:"chainId"`
}

// BridgeParams describes one bridge leg
type BridgeParams struct {
	Token              string  `json:"token"`
	Amount             string  `json:"amount"`
	DestinationChainID int64   `json:"destinationChainId"`
	SourceChains       []int64 `json:"sourceChains"`
}

// TokenApproval asks the gateway to approve spending before the call
type TokenApproval struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

// BuildFunctionParams produces the contract call arguments for the
// execute leg once the bridged amount is known.
type BuildFunctionParams func(token, amount string, chainID int64, user common.Address) ([]interface{}, error)

// ExecuteParams describes the approval+swap leg. The contract call is
// packed locally and shipped to the gateway as calldata.
type ExecuteParams struct {
	ToChainID           int64
	ContractAddress     common.Address
	ContractABI         string
	FunctionName        string
	Token               string
	Amount              string
	Recipient           common.Address
	BuildFunctionParams BuildFunctionParams
	WaitForReceipt      bool
	ReceiptTimeout      time.Duration
	TokenApproval       *TokenApproval
}

// BridgeAndExecuteParams describes a full bridge+swap for dry-run
// estimation.
type BridgeAndExecuteParams struct {
	Token        string
	Amount       string
	ToChainID    int64
	SourceChains []int64
	Recipient    common.Address
	Execute      *ExecuteParams
}

// Client talks to the gateway over HTTP
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     zerolog.Logger

	mu          sync.Mutex
	initialized bool
}

// New creates a gateway client. The bearer token may be empty for
// gateways that do not require authentication.
func New(baseURL, token string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// IsInitialized reports whether a gateway session is open on this client.
func (c *Client) IsInitialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// Initialize opens a gateway session for the wallet provider. A no-op
// when a session is already open.
func (c *Client) Initialize(ctx context.Context, provider Provider) error {
	if c.IsInitialized() {
		return nil
	}

	if err := c.doJSON(ctx, http.MethodPost, "/v1/session", provider, nil); err != nil {
		return fmt.Errorf("failed to initialize session: %w", err)
	}

	c.mu.Lock()
	c.initialized = true
	c.mu.Unlock()
	return nil
}

// Deinit tears down the gateway session. A no-op when no session is open.
func (c *Client) Deinit(ctx context.Context) error {
	if !c.IsInitialized() {
		return nil
	}

	if err := c.doJSON(ctx, http.MethodDelete, "/v1/session", nil, nil); err != nil {
		return fmt.Errorf("failed to deinitialize session: %w", err)
	}

	c.mu.Lock()
	c.initialized = false
	c.mu.Unlock()
	return nil
}

// GetUnifiedBalances fetches the per-token balance breakdown across all
// supported chains.
func (c *Client) GetUnifiedBalances(ctx context.Context) ([]types.AbstractedTokenBalance, error) {
	var balances []types.AbstractedTokenBalance
	if err := c.doJSON(ctx, http.MethodGet, "/v1/balances", nil, &balances); err != nil {
		return nil, fmt.Errorf("failed to get unified balances: %w", err)
	}
	return balances, nil
}

// GetUnifiedBalance fetches the breakdown for a single token symbol.
func (c *Client) GetUnifiedBalance(ctx context.Context, symbol string) (*types.AbstractedTokenBalance, error) {
	var balance types.AbstractedTokenBalance
	path := "/v1/balances/" + url.PathEscape(symbol)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &balance); err != nil {
		return nil, fmt.Errorf("failed to get balance for %s: %w", symbol, err)
	}
	return &balance, nil
}

// Bridge moves funds to the destination chain.
func (c *Client) Bridge(ctx context.Context, params BridgeParams) (*types.BridgeResult, error) {
	var result types.BridgeResult
	if err := c.doJSON(ctx, http.MethodPost, "/v1/bridge", params, &result); err != nil {
		return nil, fmt.Errorf("bridge request failed: %w", err)
	}
	return &result, nil
}

// executeRequest is the wire shape of the execute leg
type executeRequest struct {
	ChainID               int64          `json:"chainId"`
	To                    common.Address `json:"to"`
	Data                  string         `json:"data"`
	WaitForReceipt        bool           `json:"waitForReceipt"`
	ReceiptTimeoutSeconds int64          `json:"receiptTimeoutSeconds,omitempty"`
	TokenApproval         *TokenApproval `json:"tokenApproval,omitempty"`
}

// Execute packs the contract call locally and asks the gateway to
// approve (when requested) and submit it on the destination chain.
func (c *Client) Execute(ctx context.Context, params ExecuteParams) (*types.ExecuteResult, error) {
	data, err := packCalldata(params)
	if err != nil {
		return nil, err
	}

	req := executeRequest{
		ChainID:        params.ToChainID,
		To:             params.ContractAddress,
		Data:           hexutil.Encode(data),
		WaitForReceipt: params.WaitForReceipt,
		TokenApproval:  params.TokenApproval,
	}
	if params.ReceiptTimeout > 0 {
		req.ReceiptTimeoutSeconds = int64(params.ReceiptTimeout / time.Second)
	}

	var result types.ExecuteResult
	if err := c.doJSON(ctx, http.MethodPost, "/v1/execute", req, &result); err != nil {
		return nil, fmt.Errorf("execute request failed: %w", err)
	}
	return &result, nil
}

// simulateRequest is the wire shape of the dry-run estimate
type simulateRequest struct {
	Token        string          `json:"token"`
	Amount       string          `json:"amount"`
	ToChainID    int64           `json:"toChainId"`
	SourceChains []int64         `json:"sourceChains"`
	Recipient    common.Address  `json:"recipient"`
	Execute      *executeRequest `json:"execute,omitempty"`
}

// SimulateBridgeAndExecute asks the gateway for a dry-run cost and
// feasibility estimate of the full bridge+swap.
func (c *Client) SimulateBridgeAndExecute(ctx context.Context, params BridgeAndExecuteParams) (*types.SimulationResult, error) {
	req := simulateRequest{
		Token:        params.Token,
		Amount:       params.Amount,
		ToChainID:    params.ToChainID,
		SourceChains: params.SourceChains,
		Recipient:    params.Recipient,
	}

	if params.Execute != nil {
		data, err := packCalldata(*params.Execute)
		if err != nil {
			return nil, err
		}
		req.Execute = &executeRequest{
			ChainID:        params.Execute.ToChainID,
			To:             params.Execute.ContractAddress,
			Data:           hexutil.Encode(data),
			WaitForReceipt: params.Execute.WaitForReceipt,
			TokenApproval:  params.Execute.TokenApproval,
		}
	}

	var result types.SimulationResult
	if err := c.doJSON(ctx, http.MethodPost, "/v1/simulate", req, &result); err != nil {
		return nil, fmt.Errorf("simulation request failed: %w", err)
	}
	return &result, nil
}

// packCalldata builds the execute leg's calldata from the parameter
// builder and the contract ABI.
func packCalldata(params ExecuteParams) ([]byte, error) {
	if params.BuildFunctionParams == nil {
		return nil, fmt.Errorf("execute params missing function parameter builder")
	}

	parsed, err := abi.JSON(strings.NewReader(params.ContractABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	args, err := params.BuildFunctionParams(params.Token, params.Amount, params.ToChainID, params.Recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to build function params: %w", err)
	}

	data, err := parsed.Pack(params.FunctionName, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", params.FunctionName, err)
	}
	return data, nil
}

// doJSON performs one gateway round trip, mining error bodies for a
// usable message the way the upstream API reports them.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// apiError extracts the most specific message available from an error
// response body.
func apiError(status int, body []byte) error {
	if len(body) > 0 {
		var errorResp map[string]interface{}
		if err := json.Unmarshal(body, &errorResp); err == nil {
			if message, ok := errorResp["message"].(string); ok {
				return fmt.Errorf("gateway error (status %d): %s", status, message)
			}
			if errs, ok := errorResp["errors"]; ok {
				return fmt.Errorf("gateway error (status %d): %v", status, errs)
			}
		}
		return fmt.Errorf("gateway error (status %d): %s", status, string(body))
	}
	return fmt.Errorf("gateway returned status code %d", status)
}
