package types

import (
	"encoding/json"
	"fmt"
)

// Step identifies one leg of the bridge-then-swap sequence
type Step string

const (
	StepBridge   Step = "bridge"
	StepApproval Step = "approval"
	StepSwap     Step = "swap"
)

// StepStatus is the lifecycle state of a single step
type StepStatus string

const (
	StatusPending    StepStatus = "pending"
	StatusInProgress StepStatus = "in-progress"
	StatusCompleted  StepStatus = "completed"
	StatusError      StepStatus = "error"
)

// StepEvent is one transition in the orchestration progress stream
type StepEvent struct {
	Step   Step       `json:"step"`
	Status StepStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

// ChainInfo describes the chain a balance entry lives on
type ChainInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// ChainBalance is one per-chain entry inside an abstracted token breakdown
type ChainBalance struct {
	Balance         string    `json:"balance"`
	Chain           ChainInfo `json:"chain"`
	ContractAddress string    `json:"contractAddress"`
	Decimals        int       `json:"decimals"`
	BalanceInFiat   *float64  `json:"balanceInFiat,omitempty"`
}

// AbstractedTokenBalance is the gateway's unified balance wire shape:
// one token symbol with its per-chain breakdown
type AbstractedTokenBalance struct {
	Symbol    string         `json:"symbol"`
	Icon      string         `json:"icon,omitempty"`
	Breakdown []ChainBalance `json:"breakdown"`
}

// TokenBalance is a normalized per-chain per-token balance entry.
// Balance keeps the literal decimal string from the gateway so no
// precision is lost on large or fine-grained amounts.
type TokenBalance struct {
	Chain           string   `json:"chain"`
	ChainID         int64    `json:"chainId"`
	ChainLogo       string   `json:"chainLogo,omitempty"`
	Symbol          string   `json:"symbol"`
	Balance         string   `json:"balance"`
	Decimals        int      `json:"decimals"`
	ContractAddress string   `json:"contractAddress"`
	IsNative        bool     `json:"isNative"`
	Icon            string   `json:"icon,omitempty"`
	BalanceInFiat   *float64 `json:"balanceInFiat,omitempty"`
}

// SwapQuote is the result of a quote query, in human-readable units
type SwapQuote struct {
	OutputAmount string `json:"outputAmount"`
	Success      bool   `json:"success"`
	FeeTierUsed  int64  `json:"feeTierUsed,omitempty"`
	Error        string `json:"error,omitempty"`
}

// SimulationCost is the estimated total cost reported by the gateway.
// Older gateway versions return a bare string, newer ones an object
// with a total field; both decode into the same value.
type SimulationCost struct {
	Total string
}

// UnmarshalJSON accepts either "1.23" or {"total":"1.23"}.
func (c *SimulationCost) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Total = s
		return nil
	}

	var composite struct {
		Total string `json:"total"`
	}
	if err := json.Unmarshal(data, &composite); err != nil {
		return fmt.Errorf("invalid cost value: %w", err)
	}
	c.Total = composite.Total
	return nil
}

// MarshalJSON always emits the composite form.
func (c SimulationCost) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Total string `json:"total"`
	}{Total: c.Total})
}

// SimulationResult is the gateway's dry-run feasibility estimate
type SimulationResult struct {
	Success            bool           `json:"success"`
	TotalEstimatedCost SimulationCost `json:"totalEstimatedCost"`
	ApprovalRequired   bool           `json:"approvalRequired"`
	Steps              int            `json:"steps"`
	Error              string         `json:"error,omitempty"`
}

// BridgeResult is the outcome of the bridge leg
type BridgeResult struct {
	Success         bool   `json:"success"`
	TransactionHash string `json:"transactionHash,omitempty"`
	ExplorerURL     string `json:"explorerUrl,omitempty"`
	Error           string `json:"error,omitempty"`
}

// ExecuteResult is the outcome of the approval+swap leg. The gateway has
// shipped the transaction hash and explorer URL under different field
// names across versions, so all known spellings are decoded.
type ExecuteResult struct {
	TransactionHash  string `json:"transactionHash,omitempty"`
	TxHash           string `json:"txHash,omitempty"`
	Hash             string `json:"hash,omitempty"`
	ExplorerURL      string `json:"explorerUrl,omitempty"`
	BlockExplorerURL string `json:"blockExplorerUrl,omitempty"`
}

// ResolvedHash returns the transaction hash regardless of which field
// name the gateway used.
func (r *ExecuteResult) ResolvedHash() string {
	switch {
	case r.TransactionHash != "":
		return r.TransactionHash
	case r.TxHash != "":
		return r.TxHash
	default:
		return r.Hash
	}
}

// ResolvedExplorerURL returns the explorer URL regardless of field name.
func (r *ExecuteResult) ResolvedExplorerURL() string {
	if r.ExplorerURL != "" {
		return r.ExplorerURL
	}
	return r.BlockExplorerURL
}

// BridgeThenSwapResult is the combined outcome of a full orchestration.
// A failed swap after a successful bridge still carries the bridge
// transaction hash; callers must not assume all-or-nothing.
type BridgeThenSwapResult struct {
	Success                bool   `json:"success"`
	Error                  string `json:"error,omitempty"`
	BridgeTransactionHash  string `json:"bridgeTransactionHash,omitempty"`
	ExecuteTransactionHash string `json:"executeTransactionHash,omitempty"`
	BridgeExplorerURL      string `json:"bridgeExplorerUrl,omitempty"`
	ExecuteExplorerURL     string `json:"executeExplorerUrl,omitempty"`
}
