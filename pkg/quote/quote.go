// Package quote reads indicative swap prices from the Uniswap V3
// QuoterV2 contract on Base.
package quote

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"

	"base-swap/pkg/amount"
	"base-swap/pkg/registry"
	"base-swap/pkg/types"
)

// QuoterV2Address is the Uniswap V3 QuoterV2 contract on Base
const QuoterV2Address = "0x3d4e44Eb1374240CE5F1B871ab261CD16335B76a"

// FeeTiers is the pool fee ladder tried when no tier is pinned, in
// query order: 0.05%, 0.3%, 1%.
var FeeTiers = []int64{500, 3000, 10000}

const (
	defaultRetries     = 3
	defaultCallTimeout = 10 * time.Second
)

var (
	// ErrNativeToken indicates a quote was requested for the native-asset
	// placeholder; the quoter only prices wrapped assets.
	ErrNativeToken = errors.New("invalid token address: use WETH instead of the native placeholder")

	// ErrInvalidFeeTier indicates a pinned fee tier outside the supported set.
	ErrInvalidFeeTier = errors.New("invalid fee tier")
)

// quoterABI covers the single function we call on QuoterV2
const quoterABIJSON = `[{"inputs":[{"components":[{"internalType":"address","name":"tokenIn","type":"address"},{"internalType":"address","name":"tokenOut","type":"address"},{"internalType":"uint256","name":"amountIn","type":"uint256"},{"internalType":"uint24","name":"fee","type":"uint24"},{"internalType":"uint160","name":"sqrtPriceLimitX96","type":"uint160"}],"internalType":"struct IQuoterV2.QuoteExactInputSingleParams","name":"params","type":"tuple"}],"name":"quoteExactInputSingle","outputs":[{"internalType":"uint256","name":"amountOut","type":"uint256"},{"internalType":"uint160","name":"sqrtPriceX96After","type":"uint160"},{"internalType":"uint32","name":"initializedTicksCrossed","type":"uint32"},{"internalType":"uint256","name":"gasEstimate","type":"uint256"}],"stateMutability":"nonpayable","type":"function"}]`

// ContractCaller is the read-only contract surface the client needs.
// *ethclient.Client satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// PoolQuote is the raw quoter result for one pool
type PoolQuote struct {
	AmountOut *big.Int
	FeeTier   int64
}

// Client queries the QuoterV2 contract for expected swap outputs
type Client struct {
	caller    ContractCaller
	quoter    common.Address
	quoterABI abi.ABI
	log       zerolog.Logger
}

// NewClient creates a quote client over an existing contract caller.
func NewClient(caller ContractCaller, log zerolog.Logger) (*Client, error) {
	parsed, err := abi.JSON(strings.NewReader(quoterABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse quoter ABI: %w", err)
	}

	return &Client{
		caller:    caller,
		quoter:    common.HexToAddress(QuoterV2Address),
		quoterABI: parsed,
		log:       log,
	}, nil
}

// Dial connects to a Base JSON-RPC endpoint and wraps it with the
// standard retry policy (3 retries, 10 second per-attempt timeout).
func Dial(rpcURL string, log zerolog.Logger) (*Client, error) {
	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	return NewClient(&retryCaller{
		inner:   eth,
		retries: defaultRetries,
		timeout: defaultCallTimeout,
	}, log)
}

// QuotePool asks the quoter for the expected output of a single-pool
// exact-input swap. A zero feeTier tries the full fee ladder in order
// and stops at the first pool that answers; when every tier fails the
// last error observed is returned.
func (c *Client) QuotePool(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int, feeTier int64) (*PoolQuote, error) {
	if tokenIn == registry.NativePlaceholder || tokenOut == registry.NativePlaceholder {
		return nil, ErrNativeToken
	}

	tiers := FeeTiers
	if feeTier != 0 {
		if !validFeeTier(feeTier) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidFeeTier, feeTier)
		}
		tiers = []int64{feeTier}
	}

	var lastErr error
	for _, tier := range tiers {
		out, err := c.quoteTier(ctx, tokenIn, tokenOut, amountIn, tier)
		if err != nil {
			c.log.Debug().Int64("feeTier", tier).Err(err).Msg("pool query failed")
			lastErr = err
			continue
		}
		return &PoolQuote{AmountOut: out, FeeTier: tier}, nil
	}

	return nil, lastErr
}

// quoteTier performs one eth_call against a specific pool fee tier.
func (c *Client) quoteTier(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int, tier int64) (*big.Int, error) {
	params := struct {
		TokenIn           common.Address
		TokenOut          common.Address
		AmountIn          *big.Int
		Fee               *big.Int
		SqrtPriceLimitX96 *big.Int
	}{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		AmountIn:          amountIn,
		Fee:               big.NewInt(tier),
		SqrtPriceLimitX96: big.NewInt(0),
	}

	data, err := c.quoterABI.Pack("quoteExactInputSingle", params)
	if err != nil {
		return nil, fmt.Errorf("failed to pack quote call: %w", err)
	}

	result, err := c.caller.CallContract(ctx, ethereum.CallMsg{
		To:   &c.quoter,
		Data: data,
	}, nil)
	if err != nil {
		return nil, err
	}

	outputs, err := c.quoterABI.Unpack("quoteExactInputSingle", result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack quote result: %w", err)
	}

	amountOut, ok := outputs[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected quote output type %T", outputs[0])
	}
	return amountOut, nil
}

// SwapQuoteOnBase resolves source and destination symbols to Base
// addresses, converts the human-readable amount to smallest units,
// quotes the pool, and formats the output with the destination token's
// decimals. Failures come back in the result, never as an error.
func (c *Client) SwapQuoteOnBase(ctx context.Context, fromToken, fromAmount, toToken string, feeTier int64) types.SwapQuote {
	tokenIn := registry.BaseTokenAddress(fromToken)
	if fromToken == "ETH" {
		tokenIn = registry.WETHBase
	}

	toTokenData, ok := registry.DestinationToken(toToken)
	if !ok {
		return types.SwapQuote{OutputAmount: "0", Error: fmt.Sprintf("token '%s' not found", toToken)}
	}

	amountIn, err := amount.ParseDecimal(fromAmount, registry.SourceTokenDecimals(fromToken))
	if err != nil {
		return types.SwapQuote{OutputAmount: "0", Error: err.Error()}
	}

	poolQuote, err := c.QuotePool(ctx, tokenIn, toTokenData.Address, amountIn, feeTier)
	if err != nil {
		return types.SwapQuote{OutputAmount: "0", Error: err.Error()}
	}

	return types.SwapQuote{
		OutputAmount: amount.Format(poolQuote.AmountOut, toTokenData.Decimals),
		Success:      true,
		FeeTierUsed:  poolQuote.FeeTier,
	}
}

func validFeeTier(tier int64) bool {
	for _, t := range FeeTiers {
		if t == tier {
			return true
		}
	}
	return false
}

// retryCaller retries transient eth_call failures with a bounded
// per-attempt timeout.
type retryCaller struct {
	inner   ContractCaller
	retries int
	timeout time.Duration
}

func (r *retryCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
		result, err := r.inner.CallContract(attemptCtx, msg, blockNumber)
		cancel()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}
