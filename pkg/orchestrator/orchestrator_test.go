package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"base-swap/pkg/client"
	"base-swap/pkg/registry"
	"base-swap/pkg/types"
)

var testUser = common.HexToAddress("0x9999999999999999999999999999999999999999")

// fakeGateway scripts the external SDK
type fakeGateway struct {
	bridgeResult *types.BridgeResult
	bridgeErr    error
	execResult   *types.ExecuteResult
	execErr      error
	simResult    *types.SimulationResult
	simErr       error

	bridgeCalls []client.BridgeParams
	execCalls   []client.ExecuteParams
	simCalls    []client.BridgeAndExecuteParams
}

func (f *fakeGateway) Bridge(_ context.Context, params client.BridgeParams) (*types.BridgeResult, error) {
	f.bridgeCalls = append(f.bridgeCalls, params)
	return f.bridgeResult, f.bridgeErr
}

func (f *fakeGateway) Execute(_ context.Context, params client.ExecuteParams) (*types.ExecuteResult, error) {
	f.execCalls = append(f.execCalls, params)
	return f.execResult, f.execErr
}

func (f *fakeGateway) SimulateBridgeAndExecute(_ context.Context, params client.BridgeAndExecuteParams) (*types.SimulationResult, error) {
	f.simCalls = append(f.simCalls, params)
	return f.simResult, f.simErr
}

func happyGateway() *fakeGateway {
	return &fakeGateway{
		bridgeResult: &types.BridgeResult{
			Success:         true,
			TransactionHash: "0xAA",
			ExplorerURL:     "https://example.org/tx/0xAA",
		},
		execResult: &types.ExecuteResult{
			TransactionHash: "0xBB",
			ExplorerURL:     "https://basescan.org/tx/0xBB",
		},
	}
}

func newTestOrchestrator(gw Gateway) *Orchestrator {
	return New(gw, Options{SettleDelay: time.Millisecond}, zerolog.Nop())
}

// recorder captures callback invocations in order
type recorder struct {
	order  []string
	errors []string
	events []types.StepEvent
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnBridgeStart:      func() { r.order = append(r.order, "bridge-start") },
		OnBridgeComplete:   func() { r.order = append(r.order, "bridge-complete") },
		OnSwapStart:        func() { r.order = append(r.order, "swap-start") },
		OnApprovalComplete: func() { r.order = append(r.order, "approval-complete") },
		OnSwapComplete:     func() { r.order = append(r.order, "swap-complete") },
		OnError:            func(msg string) { r.errors = append(r.errors, msg) },
		OnEvent:            func(ev types.StepEvent) { r.events = append(r.events, ev) },
	}
}

func validRequest() Request {
	return Request{
		FromAmount:  "1.0",
		FromToken:   "ETH",
		FromChain:   1,
		ToToken:     "USDC",
		UserAddress: testUser,
	}
}

func TestExecuteBridgeThenSwapSuccess(t *testing.T) {
	gw := happyGateway()
	o := newTestOrchestrator(gw)
	var rec recorder

	result, err := o.ExecuteBridgeThenSwap(context.Background(), validRequest(), rec.callbacks())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Success)
	assert.Equal(t, "0xAA", result.BridgeTransactionHash)
	assert.Equal(t, "0xBB", result.ExecuteTransactionHash)
	assert.Equal(t, "https://example.org/tx/0xAA", result.BridgeExplorerURL)
	assert.Equal(t, "https://basescan.org/tx/0xBB", result.ExecuteExplorerURL)

	assert.Equal(t, []string{
		"bridge-start",
		"bridge-complete",
		"swap-start",
		"approval-complete",
		"swap-complete",
	}, rec.order)
	assert.Empty(t, rec.errors)

	require.Len(t, gw.bridgeCalls, 1)
	assert.Equal(t, registry.BaseChainID, gw.bridgeCalls[0].DestinationChainID)
	assert.Equal(t, []int64{1}, gw.bridgeCalls[0].SourceChains)
}

func TestExecuteBridgeThenSwapEventStream(t *testing.T) {
	o := newTestOrchestrator(happyGateway())
	var rec recorder

	_, err := o.ExecuteBridgeThenSwap(context.Background(), validRequest(), rec.callbacks())
	require.NoError(t, err)

	want := []types.StepEvent{
		{Step: types.StepBridge, Status: types.StatusInProgress},
		{Step: types.StepBridge, Status: types.StatusCompleted},
		{Step: types.StepApproval, Status: types.StatusInProgress},
		{Step: types.StepSwap, Status: types.StatusInProgress},
		{Step: types.StepApproval, Status: types.StatusCompleted},
		{Step: types.StepSwap, Status: types.StatusCompleted},
	}
	assert.Equal(t, want, rec.events)
}

func TestExecuteBridgeThenSwapUnsupportedToken(t *testing.T) {
	gw := happyGateway()
	o := newTestOrchestrator(gw)
	var rec recorder

	req := validRequest()
	req.FromToken = "DOGE"

	result, err := o.ExecuteBridgeThenSwap(context.Background(), req, rec.callbacks())
	assert.Nil(t, result)
	require.ErrorIs(t, err, ErrUnsupportedToken)

	// configuration errors fire no lifecycle callback and reach no
	// external call
	assert.Empty(t, rec.order)
	assert.Empty(t, rec.errors)
	assert.Empty(t, rec.events)
	assert.Empty(t, gw.bridgeCalls)
}

func TestExecuteBridgeThenSwapUnsupportedChain(t *testing.T) {
	o := newTestOrchestrator(happyGateway())

	req := validRequest()
	req.FromChain = 123456

	result, err := o.ExecuteBridgeThenSwap(context.Background(), req, Callbacks{})
	assert.Nil(t, result)
	require.ErrorIs(t, err, ErrUnsupportedChain)
}

func TestExecuteBridgeThenSwapUnknownDestination(t *testing.T) {
	o := newTestOrchestrator(happyGateway())

	req := validRequest()
	req.ToToken = "NOPE"

	result, err := o.ExecuteBridgeThenSwap(context.Background(), req, Callbacks{})
	assert.Nil(t, result)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

// A failed swap after a successful bridge keeps the bridge hash and
// reports the error exactly once.
func TestExecuteBridgeThenSwapPartialFailure(t *testing.T) {
	gw := happyGateway()
	gw.execResult = nil
	gw.execErr = errors.New("insufficient liquidity")

	o := newTestOrchestrator(gw)
	var rec recorder

	result, err := o.ExecuteBridgeThenSwap(context.Background(), validRequest(), rec.callbacks())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.False(t, result.Success)
	assert.Equal(t, "insufficient liquidity", result.Error)
	assert.Equal(t, "0xAA", result.BridgeTransactionHash)
	assert.Empty(t, result.ExecuteTransactionHash)

	require.Equal(t, []string{"insufficient liquidity"}, rec.errors)
	assert.Equal(t, []string{"bridge-start", "bridge-complete", "swap-start"}, rec.order)

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, types.StepSwap, last.Step)
	assert.Equal(t, types.StatusError, last.Status)
	assert.Equal(t, "insufficient liquidity", last.Error)
}

func TestExecuteBridgeThenSwapBridgeFailure(t *testing.T) {
	gw := &fakeGateway{
		bridgeResult: &types.BridgeResult{Success: false, Error: "route unavailable"},
	}
	o := newTestOrchestrator(gw)
	var rec recorder

	result, err := o.ExecuteBridgeThenSwap(context.Background(), validRequest(), rec.callbacks())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.False(t, result.Success)
	assert.Equal(t, "route unavailable", result.Error)
	assert.Empty(t, result.BridgeTransactionHash)

	require.Equal(t, []string{"route unavailable"}, rec.errors)
	assert.Equal(t, []string{"bridge-start"}, rec.order)
	assert.Empty(t, gw.execCalls, "swap must not run after a failed bridge")
}

func TestExecuteBridgeThenSwapBridgeError(t *testing.T) {
	gw := &fakeGateway{bridgeErr: errors.New("gateway unreachable")}
	o := newTestOrchestrator(gw)
	var rec recorder

	result, err := o.ExecuteBridgeThenSwap(context.Background(), validRequest(), rec.callbacks())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "gateway unreachable", result.Error)
	assert.Equal(t, []string{"gateway unreachable"}, rec.errors)
}

func TestExecuteParamsShape(t *testing.T) {
	gw := happyGateway()
	o := newTestOrchestrator(gw)

	_, err := o.ExecuteBridgeThenSwap(context.Background(), validRequest(), Callbacks{})
	require.NoError(t, err)
	require.Len(t, gw.execCalls, 1)

	params := gw.execCalls[0]
	assert.Equal(t, registry.BaseChainID, params.ToChainID)
	assert.Equal(t, common.HexToAddress(RouterAddress), params.ContractAddress)
	assert.Equal(t, "exactInputSingle", params.FunctionName)
	assert.True(t, params.WaitForReceipt)
	assert.Equal(t, DefaultReceiptTimeout, params.ReceiptTimeout)
	require.NotNil(t, params.TokenApproval)
	assert.Equal(t, "ETH", params.TokenApproval.Token)
	assert.Equal(t, "1.0", params.TokenApproval.Amount)

	args, err := params.BuildFunctionParams("ETH", "1.0", registry.BaseChainID, testUser)
	require.NoError(t, err)
	require.Len(t, args, 1)

	swap, ok := args[0].(exactInputSingleParams)
	require.True(t, ok, "unexpected argument type %T", args[0])
	assert.Equal(t, registry.BaseTokenAddress("ETH"), swap.TokenIn)

	usdc, _ := registry.DestinationToken("USDC")
	assert.Equal(t, usdc.Address, swap.TokenOut)
	assert.Equal(t, testUser, swap.Recipient)
	assert.Equal(t, "1000000000000000000", swap.AmountIn.String())
	assert.Equal(t, DefaultSwapFeeTier, swap.Fee.Int64())
	assert.Equal(t, "0", swap.AmountOutMinimum.String(), "no slippage floor by default")
	assert.Equal(t, "0", swap.SqrtPriceLimitX96.String())
}

func TestExecuteParamsConfigurableMinOut(t *testing.T) {
	gw := happyGateway()
	o := New(gw, Options{
		SettleDelay:  time.Millisecond,
		MinAmountOut: big.NewInt(123456),
	}, zerolog.Nop())

	_, err := o.ExecuteBridgeThenSwap(context.Background(), validRequest(), Callbacks{})
	require.NoError(t, err)
	require.Len(t, gw.execCalls, 1)

	args, err := gw.execCalls[0].BuildFunctionParams("ETH", "1.0", registry.BaseChainID, testUser)
	require.NoError(t, err)
	swap := args[0].(exactInputSingleParams)
	assert.Equal(t, "123456", swap.AmountOutMinimum.String())
}

func TestExecuteBridgeThenSwapContextCancelledDuringSettle(t *testing.T) {
	gw := happyGateway()
	o := New(gw, Options{SettleDelay: time.Second}, zerolog.Nop())
	var rec recorder

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	result, err := o.ExecuteBridgeThenSwap(ctx, validRequest(), rec.callbacks())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "0xAA", result.BridgeTransactionHash)
	assert.Contains(t, result.Error, "context canceled")
	assert.Empty(t, gw.execCalls)
}

func TestSimulate(t *testing.T) {
	gw := happyGateway()
	gw.simResult = &types.SimulationResult{
		Success:            true,
		TotalEstimatedCost: types.SimulationCost{Total: "0.0042"},
		ApprovalRequired:   true,
		Steps:              3,
	}
	o := newTestOrchestrator(gw)

	result := o.Simulate(context.Background(), validRequest())
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Equal(t, "0.0042", result.TotalEstimatedCost.Total)

	require.Len(t, gw.simCalls, 1)
	call := gw.simCalls[0]
	assert.Equal(t, registry.BaseChainID, call.ToChainID)
	assert.Equal(t, []int64{1}, call.SourceChains)
	require.NotNil(t, call.Execute)

	// 1.0 at USDC precision is 1000000; the 5% tolerance leaves 950000
	args, err := call.Execute.BuildFunctionParams("ETH", "1.0", registry.BaseChainID, testUser)
	require.NoError(t, err)
	swap := args[0].(exactInputSingleParams)
	assert.Equal(t, "950000", swap.AmountOutMinimum.String())
}

func TestSimulateUnsupportedInputs(t *testing.T) {
	gw := happyGateway()
	o := newTestOrchestrator(gw)

	for _, req := range []Request{
		{FromAmount: "1", FromToken: "DOGE", FromChain: 1, ToToken: "USDC", UserAddress: testUser},
		{FromAmount: "1", FromToken: "ETH", FromChain: 42, ToToken: "USDC", UserAddress: testUser},
		{FromAmount: "1", FromToken: "ETH", FromChain: 1, ToToken: "NOPE", UserAddress: testUser},
	} {
		assert.Nil(t, o.Simulate(context.Background(), req), fmt.Sprintf("%+v", req))
	}
	assert.Empty(t, gw.simCalls)
}

func TestSimulateEstimatorFailure(t *testing.T) {
	gw := happyGateway()
	gw.simErr = errors.New("estimator offline")
	o := newTestOrchestrator(gw)

	assert.Nil(t, o.Simulate(context.Background(), validRequest()))
	assert.Len(t, gw.simCalls, 1, "no retry on estimator failure")
}
