// Package orchestrator sequences the bridge-then-swap flow: bridge to
// Base, wait for settlement, then approve and swap through the Uniswap
// V3 router in one gateway call.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"base-swap/pkg/amount"
	"base-swap/pkg/client"
	"base-swap/pkg/registry"
	"base-swap/pkg/types"
)

// RouterAddress is the Uniswap V3 SwapRouter on Base
const RouterAddress = "0x2626664c2603336E57B271c5C0b26F421741e481"

// routerABIJSON covers the single-pool exact-input swap entry point
const routerABIJSON = `[{"inputs":[{"components":[{"internalType":"address","name":"tokenIn","type":"address"},{"internalType":"address","name":"tokenOut","type":"address"},{"internalType":"uint24","name":"fee","type":"uint24"},{"internalType":"address","name":"recipient","type":"address"},{"internalType":"uint256","name":"amountIn","type":"uint256"},{"internalType":"uint256","name":"amountOutMinimum","type":"uint256"},{"internalType":"uint160","name":"sqrtPriceLimitX96","type":"uint160"}],"internalType":"struct ISwapRouter.ExactInputSingleParams","name":"params","type":"tuple"}],"name":"exactInputSingle","outputs":[{"internalType":"uint256","name":"amountOut","type":"uint256"}],"stateMutability":"payable","type":"function"}]`

const (
	// DefaultSettleDelay gives the bridge time to finalize before the
	// destination-chain balance is spent.
	DefaultSettleDelay = 5 * time.Second

	// DefaultReceiptTimeout bounds how long the gateway waits for the
	// swap receipt.
	DefaultReceiptTimeout = 5 * time.Minute

	// DefaultSwapFeeTier is the 1% pool, where the long-tail
	// destination tokens have their liquidity.
	DefaultSwapFeeTier int64 = 10000

	// approvalPause separates the approval and swap completion marks
	// after the bundled gateway call returns.
	approvalPause = 200 * time.Millisecond
)

// Configuration errors, detected before any external call
var (
	ErrUnsupportedToken = errors.New("unsupported source token")
	ErrUnsupportedChain = errors.New("unsupported source chain")
	ErrTokenNotFound    = errors.New("destination token not found")
)

// Gateway is the external SDK surface the orchestrator drives.
// *client.Client satisfies it.
type Gateway interface {
	Bridge(ctx context.Context, params client.BridgeParams) (*types.BridgeResult, error)
	Execute(ctx context.Context, params client.ExecuteParams) (*types.ExecuteResult, error)
	SimulateBridgeAndExecute(ctx context.Context, params client.BridgeAndExecuteParams) (*types.SimulationResult, error)
}

// Options tune a single orchestrator instance
type Options struct {
	// SettleDelay is the pause between bridge completion and the swap.
	SettleDelay time.Duration

	// FeeTier is the router pool fee for the swap leg.
	FeeTier int64

	// MinAmountOut is the swap's minimum-output floor. The observed
	// gateway behavior enforces no slippage protection, so the default
	// is zero; set this to opt in.
	MinAmountOut *big.Int

	// ReceiptTimeout is forwarded to the gateway's receipt wait.
	ReceiptTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.SettleDelay == 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	if o.FeeTier == 0 {
		o.FeeTier = DefaultSwapFeeTier
	}
	if o.MinAmountOut == nil {
		o.MinAmountOut = big.NewInt(0)
	}
	if o.ReceiptTimeout == 0 {
		o.ReceiptTimeout = DefaultReceiptTimeout
	}
	return o
}

// Request is one bridge-then-swap intent
type Request struct {
	FromAmount  string
	FromToken   string
	FromChain   int64
	ToToken     string
	UserAddress common.Address
}

// Callbacks receive step lifecycle notifications. The gateway bundles
// approval and swap into one call, so both show in-progress from the
// swap-start notification until the call returns; approval then
// completes first. OnEvent, when set, receives every typed transition.
type Callbacks struct {
	OnBridgeStart      func()
	OnBridgeComplete   func()
	OnSwapStart        func()
	OnApprovalComplete func()
	OnSwapComplete     func()
	OnError            func(message string)
	OnEvent            func(ev types.StepEvent)
}

// Orchestrator runs bridge-then-swap sequences against a gateway
type Orchestrator struct {
	sdk  Gateway
	opts Options
	log  zerolog.Logger
}

// New creates an orchestrator. The gateway handle is shared, not owned.
func New(sdk Gateway, opts Options, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		sdk:  sdk,
		opts: opts.withDefaults(),
		log:  log,
	}
}

// ExecuteBridgeThenSwap bridges the amount to Base, waits for
// settlement, then executes the approval+swap through the router.
// Configuration errors return a nil result and a sentinel error before
// any callback fires. External failures come back inside the result
// with Success false; a swap failure after a successful bridge keeps
// the bridge transaction hash.
func (o *Orchestrator) ExecuteBridgeThenSwap(ctx context.Context, req Request, cb Callbacks) (*types.BridgeThenSwapResult, error) {
	toTokenData, err := o.validate(req)
	if err != nil {
		return nil, err
	}

	st := newStepTracker(cb)

	st.transition(types.StepBridge, types.StatusInProgress)
	bridgeResult, err := o.sdk.Bridge(ctx, client.BridgeParams{
		Token:              req.FromToken,
		Amount:             req.FromAmount,
		DestinationChainID: registry.BaseChainID,
		SourceChains:       []int64{req.FromChain},
	})
	if err != nil {
		st.fail(err.Error())
		return &types.BridgeThenSwapResult{Success: false, Error: err.Error()}, nil
	}
	if !bridgeResult.Success {
		msg := bridgeResult.Error
		if msg == "" {
			msg = "bridge transaction failed"
		}
		st.fail(msg)
		return &types.BridgeThenSwapResult{Success: false, Error: msg}, nil
	}
	st.transition(types.StepBridge, types.StatusCompleted)

	// bridges are not instantaneously final; give the destination
	// balance time to become spendable
	if err := sleepCtx(ctx, o.opts.SettleDelay); err != nil {
		st.fail(err.Error())
		return o.partialFailure(bridgeResult, err.Error()), nil
	}

	st.transition(types.StepApproval, types.StatusInProgress)
	st.transition(types.StepSwap, types.StatusInProgress)

	execResult, err := o.sdk.Execute(ctx, o.executeParams(req, toTokenData, o.opts.MinAmountOut))
	if err != nil {
		st.fail(err.Error())
		return o.partialFailure(bridgeResult, err.Error()), nil
	}

	st.transition(types.StepApproval, types.StatusCompleted)
	_ = sleepCtx(ctx, approvalPause)
	st.transition(types.StepSwap, types.StatusCompleted)

	return &types.BridgeThenSwapResult{
		Success:                true,
		BridgeTransactionHash:  bridgeResult.TransactionHash,
		BridgeExplorerURL:      bridgeResult.ExplorerURL,
		ExecuteTransactionHash: execResult.ResolvedHash(),
		ExecuteExplorerURL:     execResult.ResolvedExplorerURL(),
	}, nil
}

// validate applies the configuration checks that must fail before any
// external call or callback.
func (o *Orchestrator) validate(req Request) (registry.Token, error) {
	if !registry.SupportsSourceToken(req.FromToken) {
		o.log.Error().Str("token", req.FromToken).Msg("source token not supported")
		return registry.Token{}, fmt.Errorf("%w: %s", ErrUnsupportedToken, req.FromToken)
	}
	if !registry.SupportsSourceChain(req.FromChain) {
		o.log.Error().Int64("chain", req.FromChain).Msg("source chain not supported")
		return registry.Token{}, fmt.Errorf("%w: %d", ErrUnsupportedChain, req.FromChain)
	}
	toTokenData, ok := registry.DestinationToken(req.ToToken)
	if !ok {
		o.log.Error().Str("token", req.ToToken).Msg("destination token not found")
		return registry.Token{}, fmt.Errorf("%w: %s", ErrTokenNotFound, req.ToToken)
	}
	return toTokenData, nil
}

// executeParams builds the approval+swap leg for the gateway.
func (o *Orchestrator) executeParams(req Request, toTokenData registry.Token, minOut *big.Int) client.ExecuteParams {
	bridgedToken := registry.BaseTokenAddress(req.FromToken)
	feeTier := o.opts.FeeTier

	return client.ExecuteParams{
		ToChainID:       registry.BaseChainID,
		ContractAddress: common.HexToAddress(RouterAddress),
		ContractABI:     routerABIJSON,
		FunctionName:    "exactInputSingle",
		Token:           req.FromToken,
		Amount:          req.FromAmount,
		Recipient:       req.UserAddress,
		BuildFunctionParams: func(token, amt string, _ int64, user common.Address) ([]interface{}, error) {
			amountIn, err := amount.ParseDecimal(amt, registry.SourceTokenDecimals(token))
			if err != nil {
				return nil, fmt.Errorf("invalid swap amount %q: %w", amt, err)
			}
			return []interface{}{exactInputSingleParams{
				TokenIn:           bridgedToken,
				TokenOut:          toTokenData.Address,
				Fee:               big.NewInt(feeTier),
				Recipient:         user,
				AmountIn:          amountIn,
				AmountOutMinimum:  minOut,
				SqrtPriceLimitX96: big.NewInt(0),
			}}, nil
		},
		WaitForReceipt: true,
		ReceiptTimeout: o.opts.ReceiptTimeout,
		TokenApproval: &client.TokenApproval{
			Token:  req.FromToken,
			Amount: req.FromAmount,
		},
	}
}

// exactInputSingleParams mirrors the router's tuple argument
type exactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

func (o *Orchestrator) partialFailure(bridgeResult *types.BridgeResult, msg string) *types.BridgeThenSwapResult {
	return &types.BridgeThenSwapResult{
		Success:               false,
		Error:                 msg,
		BridgeTransactionHash: bridgeResult.TransactionHash,
		BridgeExplorerURL:     bridgeResult.ExplorerURL,
	}
}

// stepTracker owns the per-step statuses and fans transitions out to
// the callbacks.
type stepTracker struct {
	cb     Callbacks
	status map[types.Step]types.StepStatus
}

func newStepTracker(cb Callbacks) *stepTracker {
	return &stepTracker{
		cb: cb,
		status: map[types.Step]types.StepStatus{
			types.StepBridge:   types.StatusPending,
			types.StepApproval: types.StatusPending,
			types.StepSwap:     types.StatusPending,
		},
	}
}

func (s *stepTracker) transition(step types.Step, status types.StepStatus) {
	s.status[step] = status
	s.emit(types.StepEvent{Step: step, Status: status})

	switch {
	case step == types.StepBridge && status == types.StatusInProgress:
		invoke(s.cb.OnBridgeStart)
	case step == types.StepBridge && status == types.StatusCompleted:
		invoke(s.cb.OnBridgeComplete)
	case step == types.StepSwap && status == types.StatusInProgress:
		invoke(s.cb.OnSwapStart)
	case step == types.StepApproval && status == types.StatusCompleted:
		invoke(s.cb.OnApprovalComplete)
	case step == types.StepSwap && status == types.StatusCompleted:
		invoke(s.cb.OnSwapComplete)
	}
}

// fail marks whichever step is in flight as errored and reports the
// message exactly once.
func (s *stepTracker) fail(msg string) {
	step := types.StepBridge
	switch {
	case s.status[types.StepSwap] == types.StatusInProgress:
		step = types.StepSwap
	case s.status[types.StepApproval] == types.StatusInProgress:
		step = types.StepApproval
	case s.status[types.StepBridge] == types.StatusInProgress:
		step = types.StepBridge
	default:
		// between steps: the next step to run takes the error
		step = types.StepApproval
	}

	s.status[step] = types.StatusError
	s.emit(types.StepEvent{Step: step, Status: types.StatusError, Error: msg})
	if s.cb.OnError != nil {
		s.cb.OnError(msg)
	}
}

func (s *stepTracker) emit(ev types.StepEvent) {
	if s.cb.OnEvent != nil {
		s.cb.OnEvent(ev)
	}
}

func invoke(f func()) {
	if f != nil {
		f()
	}
}

// sleepCtx waits for the duration unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
