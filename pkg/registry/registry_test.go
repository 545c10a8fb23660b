package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestinationToken(t *testing.T) {
	spx, ok := DestinationToken("SPX")
	require.True(t, ok)
	assert.Equal(t, "SPX6900", spx.Name)
	assert.Equal(t, 8, spx.Decimals)

	_, ok = DestinationToken("DOGE")
	assert.False(t, ok)
}

func TestSourceSupport(t *testing.T) {
	assert.True(t, SupportsSourceToken("ETH"))
	assert.True(t, SupportsSourceToken("USDC"))
	assert.False(t, SupportsSourceToken("SOL"))

	assert.True(t, SupportsSourceChain(1))
	assert.True(t, SupportsSourceChain(42161))
	assert.False(t, SupportsSourceChain(101))
}

func TestBaseTokenAddress(t *testing.T) {
	assert.Equal(t, NativePlaceholder, BaseTokenAddress("ETH"))
	assert.Equal(t, WETHBase, BaseTokenAddress("WETH"))

	// unknown symbols default to the native placeholder
	assert.Equal(t, NativePlaceholder, BaseTokenAddress("???"))
}

func TestSourceTokenDecimals(t *testing.T) {
	assert.Equal(t, 18, SourceTokenDecimals("ETH"))
	assert.Equal(t, 6, SourceTokenDecimals("USDC"))
	assert.Equal(t, 6, SourceTokenDecimals("USDT"))
}
