package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// QuoterClient prices exact-input swaps through a quoter contract
// eth_call. It satisfies planner.Quoter.
type QuoterClient struct {
	client  *Client
	address common.Address
	fee     uint32
	logger  *zap.Logger
}

// NewQuoterClient builds a quoter for a fixed fee tier.
func NewQuoterClient(client *Client, address common.Address, fee uint32, logger *zap.Logger) *QuoterClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoterClient{client: client, address: address, fee: fee, logger: logger}
}

type quoteExactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	AmountIn          *big.Int
	Fee               *big.Int
	SqrtPriceLimitX96 *big.Int
}

// Quote returns the amount of assetOut for an exact assetIn input.
func (q *QuoterClient) Quote(ctx context.Context, assetIn, assetOut common.Address, amountIn *big.Int) (*big.Int, error) {
	parsed, err := QuoterABI()
	if err != nil {
		return nil, fmt.Errorf("parse quoter abi: %w", err)
	}

	data, err := parsed.Pack("quoteExactInputSingle", quoteExactInputSingleParams{
		TokenIn:           assetIn,
		TokenOut:          assetOut,
		AmountIn:          amountIn,
		Fee:               new(big.Int).SetUint64(uint64(q.fee)),
		SqrtPriceLimitX96: new(big.Int),
	})
	if err != nil {
		return nil, fmt.Errorf("pack quote: %w", err)
	}

	msg := ethereum.CallMsg{To: &q.address, Data: data}
	resp, err := q.client.CallContract(ctx, msg, nil)
	if err != nil {
		q.logger.Warn("quote call failed",
			zap.String("token_in", assetIn.Hex()),
			zap.String("token_out", assetOut.Hex()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("call quote: %w", err)
	}

	values, err := parsed.Unpack("quoteExactInputSingle", resp)
	if err != nil {
		return nil, fmt.Errorf("unpack quote: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("empty quote response")
	}
	return asBigInt(values[0])
}
