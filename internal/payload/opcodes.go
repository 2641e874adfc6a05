package payload

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Opcode identifies one action in the protocol's unlock callback
// vocabulary. Each opcode has a fixed ABI parameter tuple.
type Opcode uint8

const (
	OpDecreaseLiquidity Opcode = 0x01
	OpMintPosition      Opcode = 0x02
	OpBurnPosition      Opcode = 0x03
	OpSettle            Opcode = 0x0b
	OpTake              Opcode = 0x0e
	OpTakePair          Opcode = 0x11
	OpCloseCurrency     Opcode = 0x12
)

func (op Opcode) String() string {
	switch op {
	case OpDecreaseLiquidity:
		return "DecreaseLiquidity"
	case OpMintPosition:
		return "MintPosition"
	case OpBurnPosition:
		return "BurnPosition"
	case OpSettle:
		return "Settle"
	case OpTake:
		return "Take"
	case OpTakePair:
		return "TakePair"
	case OpCloseCurrency:
		return "CloseCurrency"
	default:
		return fmt.Sprintf("Opcode(0x%02x)", uint8(op))
	}
}

var poolKeyComponents = []abi.ArgumentMarshaling{
	{Name: "currency0", Type: "address"},
	{Name: "currency1", Type: "address"},
	{Name: "fee", Type: "uint24"},
	{Name: "tickSpacing", Type: "int24"},
	{Name: "hooks", Type: "address"},
}

var (
	argTablesOnce sync.Once
	argTables     map[Opcode]abi.Arguments
	envelopeArgs  abi.Arguments
	argTablesErr  error
)

func buildArgTables() {
	newType := func(t string, components []abi.ArgumentMarshaling) abi.Type {
		if argTablesErr != nil {
			return abi.Type{}
		}
		typ, err := abi.NewType(t, "", components)
		if err != nil {
			argTablesErr = fmt.Errorf("build abi type %s: %w", t, err)
		}
		return typ
	}

	typeUint256 := newType("uint256", nil)
	typeUint128 := newType("uint128", nil)
	typeInt24 := newType("int24", nil)
	typeAddress := newType("address", nil)
	typeBytes := newType("bytes", nil)
	typeBool := newType("bool", nil)
	typeBytesArray := newType("bytes[]", nil)
	typePoolKey := newType("tuple", poolKeyComponents)
	if argTablesErr != nil {
		return
	}

	args := func(types ...abi.Type) abi.Arguments {
		out := make(abi.Arguments, 0, len(types))
		for _, t := range types {
			out = append(out, abi.Argument{Type: t})
		}
		return out
	}

	argTables = map[Opcode]abi.Arguments{
		OpDecreaseLiquidity: args(typeUint256, typeUint256, typeUint128, typeUint128, typeBytes),
		OpMintPosition:      args(typePoolKey, typeInt24, typeInt24, typeUint256, typeUint128, typeUint128, typeAddress, typeBytes),
		OpBurnPosition:      args(typeUint256, typeUint128, typeUint128, typeBytes),
		OpSettle:            args(typeAddress, typeUint256, typeBool),
		OpTake:              args(typeAddress, typeAddress, typeUint256),
		OpTakePair:          args(typeAddress, typeAddress, typeAddress),
		OpCloseCurrency:     args(typeAddress),
	}
	envelopeArgs = args(typeBytes, typeBytesArray)
}

func argumentsFor(op Opcode) (abi.Arguments, error) {
	argTablesOnce.Do(buildArgTables)
	if argTablesErr != nil {
		return nil, argTablesErr
	}
	args, ok := argTables[op]
	if !ok {
		return nil, fmt.Errorf("unsupported opcode 0x%02x", uint8(op))
	}
	return args, nil
}

func envelopeArguments() (abi.Arguments, error) {
	argTablesOnce.Do(buildArgTables)
	if argTablesErr != nil {
		return nil, argTablesErr
	}
	return envelopeArgs, nil
}
