// Package registry holds the static chain and token tables the rest of
// the application looks things up in. Everything here is read-only.
package registry

import "github.com/ethereum/go-ethereum/common"

// BaseChainID is the fixed settlement chain for every swap
const BaseChainID int64 = 8453

// NativePlaceholder is the conventional pseudo-address for a chain's
// native asset. The exchange only prices wrapped assets, so this address
// never reaches a pool query.
var NativePlaceholder = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// ZeroAddress marks native-asset entries in balance breakdowns
var ZeroAddress = common.Address{}

// WETHBase is the canonical WETH contract on Base. Quotes for ETH are
// priced through it.
var WETHBase = common.HexToAddress("0x4200000000000000000000000000000000000006")

// Chain is a supported source chain
type Chain struct {
	ID             int64
	Name           string
	NativeCurrency string
}

// Token is a destination token on the settlement chain
type Token struct {
	Name     string
	Symbol   string
	Decimals int
	Address  common.Address
}

// Chains lists every chain funds can be bridged from. IDs must match the
// gateway's supported chain set.
var Chains = []Chain{
	{ID: 1, Name: "Ethereum", NativeCurrency: "ETH"},
	{ID: 10, Name: "Optimism", NativeCurrency: "ETH"},
	{ID: 137, Name: "Polygon", NativeCurrency: "MATIC"},
	{ID: 42161, Name: "Arbitrum", NativeCurrency: "ETH"},
	{ID: 43114, Name: "Avalanche", NativeCurrency: "AVAX"},
	{ID: 8453, Name: "Base", NativeCurrency: "ETH"},
	{ID: 534352, Name: "Scroll", NativeCurrency: "ETH"},
	{ID: 50104, Name: "Sophon", NativeCurrency: "SOPH"},
	{ID: 8217, Name: "Kaia", NativeCurrency: "KAIA"},
	{ID: 56, Name: "BNB Chain", NativeCurrency: "BNB"},
	{ID: 999, Name: "HyperEVM", NativeCurrency: "HYPE"},
}

// SourceTokens is the fixed set of tokens that can be bridged
var SourceTokens = []string{"ETH", "USDC", "USDT"}

// DestinationTokens lists the tokens a bridged amount can be swapped
// into on Base.
var DestinationTokens = []Token{
	{Name: "Ethereum", Symbol: "ETH", Decimals: 18, Address: WETHBase},
	{Name: "USD Coin", Symbol: "USDC", Decimals: 6, Address: common.HexToAddress("0x833589fcd6edb6e08f4c7c32d4f71b54bda02913")},
	{Name: "Tether USD", Symbol: "USDT", Decimals: 6, Address: common.HexToAddress("0xfde4C96c8593536E31F229EA8f37b2ADa2699bb2")},
	{Name: "SPX6900", Symbol: "SPX", Decimals: 8, Address: common.HexToAddress("0x50da645f148798f68ef2d7db7c1cb22a6819bb2c")},
	{Name: "Virtual Protocol", Symbol: "VIRTUAL", Decimals: 18, Address: common.HexToAddress("0x0b3e328455c4059eeb9e3f84b5543f74e24e7e1b")},
	{Name: "Mog Coin", Symbol: "MOG", Decimals: 18, Address: common.HexToAddress("0x2da56acb9ea78330f947bd57c54119debda7af71")},
	{Name: "Brett", Symbol: "BRETT", Decimals: 18, Address: common.HexToAddress("0x532f27101965dd16442e59d40670faf5ebb142e4")},
	{Name: "Toshi", Symbol: "TOSHI", Decimals: 18, Address: common.HexToAddress("0xAC1Bd2486aAf3B5C0fc3Fd868558b082a531B2B4")},
	{Name: "BONK", Symbol: "BONK", Decimals: 5, Address: common.HexToAddress("0xdf1cf211d38e7762c9691be4d779a441a17a6cfc")},
	{Name: "Zora", Symbol: "ZORA", Decimals: 18, Address: common.HexToAddress("0x1111111111166b7FE7bd91427724B487980aFc69")},
	{Name: "AIXBT by Virtuals", Symbol: "AIXBT", Decimals: 18, Address: common.HexToAddress("0x4F9Fd6Be4a90f2620860d680c0d4d5Fb53d1A825")},
	{Name: "Ski Masked Dog", Symbol: "SKI", Decimals: 9, Address: common.HexToAddress("0x768BE13e1680b5ebE0024C42c896E3dB59ec0149")},
	{Name: "tokenbot", Symbol: "CLANKER", Decimals: 18, Address: common.HexToAddress("0x1bc0c42215582d5A085795f4baDbaC3ff36d1Bcb")},
	{Name: "Keyboard Cat", Symbol: "KEYCAT", Decimals: 18, Address: common.HexToAddress("0x9a26F5433671751C3276a065f57e5a02D2817973")},
}

// baseTokenAddresses maps source token symbols to their Base-side
// contracts. ETH maps to the native placeholder; quotes substitute WETH.
var baseTokenAddresses = map[string]common.Address{
	"ETH":  NativePlaceholder,
	"WETH": WETHBase,
	"USDC": common.HexToAddress("0x833589fcd6edb6e08f4c7c32d4f71b54bda02913"),
	"USDT": common.HexToAddress("0xfde4C96c8593536E31F229EA8f37b2ADa2699bb2"),
}

// DestinationToken looks up a destination token descriptor by symbol.
func DestinationToken(symbol string) (Token, bool) {
	for _, t := range DestinationTokens {
		if t.Symbol == symbol {
			return t, true
		}
	}
	return Token{}, false
}

// SupportsSourceToken reports whether a token can be bridged.
func SupportsSourceToken(symbol string) bool {
	for _, s := range SourceTokens {
		if s == symbol {
			return true
		}
	}
	return false
}

// SupportsSourceChain reports whether funds can be bridged from the chain.
func SupportsSourceChain(id int64) bool {
	_, ok := ChainByID(id)
	return ok
}

// ChainByID looks up a source chain descriptor.
func ChainByID(id int64) (Chain, bool) {
	for _, c := range Chains {
		if c.ID == id {
			return c, true
		}
	}
	return Chain{}, false
}

// BaseTokenAddress resolves a source token symbol to its Base-side
// contract address. Unknown symbols fall back to the native placeholder,
// matching the gateway's own defaulting.
func BaseTokenAddress(symbol string) common.Address {
	if addr, ok := baseTokenAddresses[symbol]; ok {
		return addr
	}
	return NativePlaceholder
}

// SourceTokenDecimals returns the decimal count of a source token on Base.
func SourceTokenDecimals(symbol string) int {
	if symbol == "USDC" || symbol == "USDT" {
		return 6
	}
	return 18
}
