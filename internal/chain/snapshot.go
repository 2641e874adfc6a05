package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// PoolSnapshot is a read-only view of a pool's current state.
type PoolSnapshot struct {
	SqrtPriceX96 *big.Int
	Tick         int32
	Liquidity    *big.Int
	TickSpacing  int32
	Fee          uint32
	Token0       common.Address
	Token1       common.Address
}

// FetchPoolSnapshot reads slot0, liquidity, spacing, fee, and the token
// pair in one pass.
func FetchPoolSnapshot(ctx context.Context, c *Client, pool common.Address) (PoolSnapshot, error) {
	parsed, err := PoolABI()
	if err != nil {
		return PoolSnapshot{}, fmt.Errorf("parse pool abi: %w", err)
	}

	var snap PoolSnapshot

	values, err := callMethod(ctx, c, pool, parsed, "slot0")
	if err != nil {
		return PoolSnapshot{}, err
	}
	if len(values) < 2 {
		return PoolSnapshot{}, fmt.Errorf("unexpected slot0 shape: %d values", len(values))
	}
	snap.SqrtPriceX96, err = asBigInt(values[0])
	if err != nil {
		return PoolSnapshot{}, fmt.Errorf("sqrt price: %w", err)
	}
	tickInt, err := asBigInt(values[1])
	if err != nil {
		return PoolSnapshot{}, fmt.Errorf("tick: %w", err)
	}
	snap.Tick, err = int24FromBig(tickInt)
	if err != nil {
		return PoolSnapshot{}, fmt.Errorf("tick: %w", err)
	}

	values, err = callMethod(ctx, c, pool, parsed, "liquidity")
	if err != nil {
		return PoolSnapshot{}, err
	}
	snap.Liquidity, err = asBigInt(values[0])
	if err != nil {
		return PoolSnapshot{}, fmt.Errorf("liquidity: %w", err)
	}

	values, err = callMethod(ctx, c, pool, parsed, "tickSpacing")
	if err != nil {
		return PoolSnapshot{}, err
	}
	spacingInt, err := asBigInt(values[0])
	if err != nil {
		return PoolSnapshot{}, fmt.Errorf("tick spacing: %w", err)
	}
	snap.TickSpacing, err = int24FromBig(spacingInt)
	if err != nil {
		return PoolSnapshot{}, fmt.Errorf("tick spacing: %w", err)
	}

	values, err = callMethod(ctx, c, pool, parsed, "fee")
	if err != nil {
		return PoolSnapshot{}, err
	}
	feeInt, err := asBigInt(values[0])
	if err != nil {
		return PoolSnapshot{}, fmt.Errorf("fee: %w", err)
	}
	snap.Fee = uint32(feeInt.Uint64())

	values, err = callMethod(ctx, c, pool, parsed, "token0")
	if err != nil {
		return PoolSnapshot{}, err
	}
	snap.Token0, err = asAddress(values[0])
	if err != nil {
		return PoolSnapshot{}, fmt.Errorf("token0: %w", err)
	}

	values, err = callMethod(ctx, c, pool, parsed, "token1")
	if err != nil {
		return PoolSnapshot{}, err
	}
	snap.Token1, err = asAddress(values[0])
	if err != nil {
		return PoolSnapshot{}, fmt.Errorf("token1: %w", err)
	}

	return snap, nil
}

// FetchBalance reads an ERC-20 balance in native smallest units.
func FetchBalance(ctx context.Context, c *Client, token, account common.Address) (*big.Int, error) {
	parsed, err := ERC20ABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	data, err := parsed.Pack("balanceOf", account)
	if err != nil {
		return nil, fmt.Errorf("pack balanceOf: %w", err)
	}
	msg := ethereum.CallMsg{To: &token, Data: data}
	resp, err := c.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call balanceOf: %w", err)
	}
	values, err := parsed.Unpack("balanceOf", resp)
	if err != nil {
		return nil, fmt.Errorf("unpack balanceOf: %w", err)
	}
	return asBigInt(values[0])
}

// FetchDecimals reads an ERC-20 decimals value.
func FetchDecimals(ctx context.Context, c *Client, token common.Address) (uint8, error) {
	parsed, err := ERC20ABI()
	if err != nil {
		return 0, fmt.Errorf("parse erc20 abi: %w", err)
	}
	values, err := callMethod(ctx, c, token, parsed, "decimals")
	if err != nil {
		return 0, err
	}
	return asUint8(values[0])
}

func callMethod(ctx context.Context, c *Client, to common.Address, parsed abi.ABI, method string) ([]interface{}, error) {
	data, err := parsed.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &to, Data: data}
	resp, err := c.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case uint16:
		return uint8(v), nil
	case uint32:
		return uint8(v), nil
	case uint64:
		return uint8(v), nil
	case *big.Int:
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}

func int24FromBig(value *big.Int) (int32, error) {
	min := big.NewInt(-1 << 23)
	max := big.NewInt((1 << 23) - 1)
	if value.Cmp(min) < 0 || value.Cmp(max) > 0 {
		return 0, fmt.Errorf("int24 overflow: %s", value.String())
	}
	return int32(value.Int64()), nil
}
