package planner

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Quoter prices an exact-input swap against the external market. It is
// the only I/O dependency of the planner; implementations may fail
// transiently.
type Quoter interface {
	Quote(ctx context.Context, assetIn, assetOut common.Address, amountIn *big.Int) (*big.Int, error)
}

// QuoterFunc adapts a function to the Quoter interface.
type QuoterFunc func(ctx context.Context, assetIn, assetOut common.Address, amountIn *big.Int) (*big.Int, error)

func (f QuoterFunc) Quote(ctx context.Context, assetIn, assetOut common.Address, amountIn *big.Int) (*big.Int, error) {
	return f(ctx, assetIn, assetOut, amountIn)
}

// QuoteInfo records the quote a derived amount was sized from. It is
// informational only; balance limits remain authoritative.
type QuoteInfo struct {
	Direction string   `json:"direction"`
	AmountIn  *big.Int `json:"amount_in"`
	AmountOut *big.Int `json:"amount_out"`
	BufferBps uint32   `json:"buffer_bps"`
	Price     string   `json:"price"`
}

const priceScale = 18

func newQuoteInfo(direction string, amountIn, amountOut *big.Int, bufferBps uint32) *QuoteInfo {
	info := &QuoteInfo{
		Direction: direction,
		AmountIn:  new(big.Int).Set(amountIn),
		AmountOut: new(big.Int).Set(amountOut),
		BufferBps: bufferBps,
	}
	if amountIn.Sign() > 0 {
		info.Price = new(big.Rat).SetFrac(amountOut, amountIn).FloatString(priceScale)
	}
	return info
}
