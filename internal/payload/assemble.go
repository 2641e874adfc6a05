package payload

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// InstructionList is an ordered action sequence for the protocol's
// atomic unlock callback: one opcode byte per action alongside the
// matching parameter block. The order is a protocol invariant; later
// steps assume earlier steps already moved value.
type InstructionList struct {
	Actions []byte
	Params  [][]byte
}

func newInstructionList(instructions ...Instruction) *InstructionList {
	list := &InstructionList{
		Actions: make([]byte, 0, len(instructions)),
		Params:  make([][]byte, 0, len(instructions)),
	}
	for _, ins := range instructions {
		list.Actions = append(list.Actions, byte(ins.Op))
		list.Params = append(list.Params, ins.Params)
	}
	return list
}

// Encode packs the list into the opaque (actions, params[]) payload the
// custodial contract forwards verbatim.
func (l *InstructionList) Encode() ([]byte, error) {
	if len(l.Actions) != len(l.Params) {
		return nil, fmt.Errorf("instruction list mismatch: %d actions, %d params", len(l.Actions), len(l.Params))
	}
	args, err := envelopeArguments()
	if err != nil {
		return nil, err
	}
	data, err := args.Pack(l.Actions, l.Params)
	if err != nil {
		return nil, fmt.Errorf("pack unlock data: %w", err)
	}
	return data, nil
}

// Decode unpacks an encoded unlock payload back into its action and
// parameter lists.
func Decode(data []byte) (*InstructionList, error) {
	args, err := envelopeArguments()
	if err != nil {
		return nil, err
	}
	values, err := args.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack unlock data: %w", err)
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected unlock data shape: %d values", len(values))
	}
	actions, ok := values[0].([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected actions type %T", values[0])
	}
	params, ok := values[1].([][]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", values[1])
	}
	if len(actions) != len(params) {
		return nil, fmt.Errorf("instruction list mismatch: %d actions, %d params", len(actions), len(params))
	}
	return &InstructionList{Actions: actions, Params: params}, nil
}

// DecodeParams unpacks a single parameter block under the fixed ABI
// shape of its opcode.
func DecodeParams(op Opcode, params []byte) ([]interface{}, error) {
	args, err := argumentsFor(op)
	if err != nil {
		return nil, err
	}
	values, err := args.Unpack(params)
	if err != nil {
		return nil, fmt.Errorf("unpack %s params: %w", op, err)
	}
	return values, nil
}

// Bootstrap builds the initial mint plan: mint the position, then take
// both currencies to square the deltas.
func Bootstrap(mint MintPositionParams, take TakePairParams) (*InstructionList, error) {
	mintIns, err := encodeMintPosition(mint)
	if err != nil {
		return nil, err
	}
	takeIns, err := encodeTakePair(take)
	if err != nil {
		return nil, err
	}
	return newInstructionList(mintIns, takeIns), nil
}

// Collect builds the fee-collection plan: a zero-liquidity decrease
// releases accrued fees, then both currencies are taken.
func Collect(tokenID *big.Int, hook []byte, take TakePairParams) (*InstructionList, error) {
	decIns, err := encodeDecreaseLiquidity(DecreaseLiquidityParams{
		TokenID:  tokenID,
		HookData: hook,
	})
	if err != nil {
		return nil, err
	}
	takeIns, err := encodeTakePair(take)
	if err != nil {
		return nil, err
	}
	return newInstructionList(decIns, takeIns), nil
}

// Rebalance builds the range-move plan: unwind the old position, mint
// the new one, then close out both currencies.
func Rebalance(dec DecreaseLiquidityParams, mint MintPositionParams, currency0, currency1 common.Address) (*InstructionList, error) {
	decIns, err := encodeDecreaseLiquidity(dec)
	if err != nil {
		return nil, err
	}
	mintIns, err := encodeMintPosition(mint)
	if err != nil {
		return nil, err
	}
	close0, err := encodeCloseCurrency(CloseCurrencyParams{Currency: currency0})
	if err != nil {
		return nil, err
	}
	close1, err := encodeCloseCurrency(CloseCurrencyParams{Currency: currency1})
	if err != nil {
		return nil, err
	}
	return newInstructionList(decIns, mintIns, close0, close1), nil
}

// Close builds the exit plan: burn the position and take both
// currencies.
func Close(burn BurnPositionParams, take TakePairParams) (*InstructionList, error) {
	burnIns, err := encodeBurnPosition(burn)
	if err != nil {
		return nil, err
	}
	takeIns, err := encodeTakePair(take)
	if err != nil {
		return nil, err
	}
	return newInstructionList(burnIns, takeIns), nil
}

// Settle and Take round out the opcode vocabulary for callers composing
// custom sequences.
func SettleInstruction(p SettleParams) (Instruction, error) { return encodeSettle(p) }
func TakeInstruction(p TakeParams) (Instruction, error)     { return encodeTake(p) }

// Compose builds a list from already-encoded instructions, preserving
// order.
func Compose(instructions ...Instruction) *InstructionList {
	return newInstructionList(instructions...)
}
