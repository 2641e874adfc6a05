package payload

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Uint128Error reports a 128-bit parameter that does not fit. It is
// raised before encoding so the receiving protocol never sees the value.
type Uint128Error struct {
	Field string
	Value *big.Int
}

func (e *Uint128Error) Error() string {
	return fmt.Sprintf("%s exceeds uint128: %s", e.Field, e.Value)
}

var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

func checkUint128(field string, value *big.Int) (*big.Int, error) {
	value = orZero(value)
	if value.Sign() < 0 || value.Cmp(maxUint128) > 0 {
		return nil, &Uint128Error{Field: field, Value: value}
	}
	return value, nil
}

func orZero(value *big.Int) *big.Int {
	if value == nil {
		return new(big.Int)
	}
	return value
}

// PoolKey identifies a pool on the external protocol.
type PoolKey struct {
	Currency0   common.Address `abi:"currency0" json:"currency0"`
	Currency1   common.Address `abi:"currency1" json:"currency1"`
	Fee         *big.Int       `abi:"fee" json:"fee"`
	TickSpacing *big.Int       `abi:"tickSpacing" json:"tick_spacing"`
	Hooks       common.Address `abi:"hooks" json:"hooks"`
}

// DecreaseLiquidityParams shrinks a position. A zero liquidity decrease
// is the protocol's fee-collection idiom.
type DecreaseLiquidityParams struct {
	TokenID    *big.Int
	Liquidity  *big.Int
	Amount0Min *big.Int
	Amount1Min *big.Int
	HookData   []byte
}

// MintPositionParams opens a position over a tick range.
type MintPositionParams struct {
	PoolKey    PoolKey
	TickLower  int32
	TickUpper  int32
	Liquidity  *big.Int
	Amount0Max *big.Int
	Amount1Max *big.Int
	Owner      common.Address
	HookData   []byte
}

// BurnPositionParams removes a position entirely.
type BurnPositionParams struct {
	TokenID    *big.Int
	Amount0Min *big.Int
	Amount1Min *big.Int
	HookData   []byte
}

// SettleParams pays a currency owed to the protocol.
type SettleParams struct {
	Currency    common.Address
	Amount      *big.Int
	PayerIsUser bool
}

// TakeParams withdraws a single currency to a recipient.
type TakeParams struct {
	Currency  common.Address
	Recipient common.Address
	Amount    *big.Int
}

// TakePairParams withdraws both pool currencies to a recipient.
type TakePairParams struct {
	Currency0 common.Address
	Currency1 common.Address
	Recipient common.Address
}

// CloseCurrencyParams settles or takes whatever delta remains for a
// currency.
type CloseCurrencyParams struct {
	Currency common.Address
}

// Instruction pairs an opcode with its ABI-encoded parameter block.
type Instruction struct {
	Op     Opcode
	Params []byte
}

func encodeDecreaseLiquidity(p DecreaseLiquidityParams) (Instruction, error) {
	liquidity, err := checkUint128("liquidity", p.Liquidity)
	if err != nil {
		return Instruction{}, err
	}
	amount0Min, err := checkUint128("amount0Min", p.Amount0Min)
	if err != nil {
		return Instruction{}, err
	}
	amount1Min, err := checkUint128("amount1Min", p.Amount1Min)
	if err != nil {
		return Instruction{}, err
	}
	return packInstruction(OpDecreaseLiquidity,
		orZero(p.TokenID), liquidity, amount0Min, amount1Min, hookData(p.HookData))
}

func encodeMintPosition(p MintPositionParams) (Instruction, error) {
	liquidity, err := checkUint128("liquidity", p.Liquidity)
	if err != nil {
		return Instruction{}, err
	}
	amount0Max, err := checkUint128("amount0Max", p.Amount0Max)
	if err != nil {
		return Instruction{}, err
	}
	amount1Max, err := checkUint128("amount1Max", p.Amount1Max)
	if err != nil {
		return Instruction{}, err
	}
	if p.TickLower >= p.TickUpper {
		return Instruction{}, fmt.Errorf("mint ticks out of order: %d >= %d", p.TickLower, p.TickUpper)
	}
	key := p.PoolKey
	key.Fee = orZero(key.Fee)
	key.TickSpacing = orZero(key.TickSpacing)
	return packInstruction(OpMintPosition,
		key, big.NewInt(int64(p.TickLower)), big.NewInt(int64(p.TickUpper)),
		liquidity, amount0Max, amount1Max, p.Owner, hookData(p.HookData))
}

func encodeBurnPosition(p BurnPositionParams) (Instruction, error) {
	amount0Min, err := checkUint128("amount0Min", p.Amount0Min)
	if err != nil {
		return Instruction{}, err
	}
	amount1Min, err := checkUint128("amount1Min", p.Amount1Min)
	if err != nil {
		return Instruction{}, err
	}
	return packInstruction(OpBurnPosition,
		orZero(p.TokenID), amount0Min, amount1Min, hookData(p.HookData))
}

func encodeSettle(p SettleParams) (Instruction, error) {
	return packInstruction(OpSettle, p.Currency, orZero(p.Amount), p.PayerIsUser)
}

func encodeTake(p TakeParams) (Instruction, error) {
	return packInstruction(OpTake, p.Currency, p.Recipient, orZero(p.Amount))
}

func encodeTakePair(p TakePairParams) (Instruction, error) {
	return packInstruction(OpTakePair, p.Currency0, p.Currency1, p.Recipient)
}

func encodeCloseCurrency(p CloseCurrencyParams) (Instruction, error) {
	return packInstruction(OpCloseCurrency, p.Currency)
}

func packInstruction(op Opcode, values ...interface{}) (Instruction, error) {
	args, err := argumentsFor(op)
	if err != nil {
		return Instruction{}, err
	}
	packed, err := args.Pack(values...)
	if err != nil {
		return Instruction{}, fmt.Errorf("pack %s: %w", op, err)
	}
	return Instruction{Op: op, Params: packed}, nil
}

func hookData(data []byte) []byte {
	if data == nil {
		return []byte{}
	}
	return data
}
