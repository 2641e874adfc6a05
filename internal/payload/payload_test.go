package payload

import (
	"bytes"
	"errors"
	"math/big"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var (
	currency0 = common.HexToAddress("0x1111111111111111111111111111111111111111")
	currency1 = common.HexToAddress("0x2222222222222222222222222222222222222222")
	recipient = common.HexToAddress("0x3333333333333333333333333333333333333333")
	owner     = common.HexToAddress("0x4444444444444444444444444444444444444444")
)

func testPoolKey() PoolKey {
	return PoolKey{
		Currency0:   currency0,
		Currency1:   currency1,
		Fee:         big.NewInt(3000),
		TickSpacing: big.NewInt(60),
		Hooks:       common.Address{},
	}
}

func TestCloseRoundTrip(t *testing.T) {
	hook := []byte{0xde, 0xad}
	list, err := Close(BurnPositionParams{
		TokenID:    big.NewInt(42),
		Amount0Min: big.NewInt(100),
		Amount1Min: big.NewInt(200),
		HookData:   hook,
	}, TakePairParams{Currency0: currency0, Currency1: currency1, Recipient: recipient})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := list.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !bytes.Equal(decoded.Actions, []byte{0x03, 0x11}) {
		t.Fatalf("actions = %x, want 0311", decoded.Actions)
	}
	if len(decoded.Params) != 2 {
		t.Fatalf("params length = %d, want 2", len(decoded.Params))
	}

	burnValues, err := DecodeParams(OpBurnPosition, decoded.Params[0])
	if err != nil {
		t.Fatalf("decode burn params: %v", err)
	}
	if burnValues[0].(*big.Int).Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("tokenId = %s, want 42", burnValues[0])
	}
	if burnValues[1].(*big.Int).Cmp(big.NewInt(100)) != 0 || burnValues[2].(*big.Int).Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("mins = (%s, %s), want (100, 200)", burnValues[1], burnValues[2])
	}
	if !bytes.Equal(burnValues[3].([]byte), hook) {
		t.Fatalf("hook data = %x, want %x", burnValues[3], hook)
	}

	takeValues, err := DecodeParams(OpTakePair, decoded.Params[1])
	if err != nil {
		t.Fatalf("decode take pair params: %v", err)
	}
	want := []common.Address{currency0, currency1, recipient}
	for i, addr := range want {
		if takeValues[i].(common.Address) != addr {
			t.Fatalf("take pair value %d = %s, want %s", i, takeValues[i], addr.Hex())
		}
	}
}

func TestBootstrapRoundTrip(t *testing.T) {
	list, err := Bootstrap(MintPositionParams{
		PoolKey:    testPoolKey(),
		TickLower:  -60,
		TickUpper:  1200,
		Liquidity:  big.NewInt(123456),
		Amount0Max: big.NewInt(1000),
		Amount1Max: big.NewInt(2000),
		Owner:      owner,
	}, TakePairParams{Currency0: currency0, Currency1: currency1, Recipient: recipient})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := list.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded.Actions, []byte{0x02, 0x11}) {
		t.Fatalf("actions = %x, want 0211", decoded.Actions)
	}

	mintValues, err := DecodeParams(OpMintPosition, decoded.Params[0])
	if err != nil {
		t.Fatalf("decode mint params: %v", err)
	}
	key := reflect.ValueOf(mintValues[0])
	if key.FieldByName("Currency0").Interface().(common.Address) != currency0 {
		t.Fatalf("pool key currency0 mismatch")
	}
	if key.FieldByName("TickSpacing").Interface().(*big.Int).Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("pool key tick spacing mismatch")
	}
	if mintValues[1].(*big.Int).Cmp(big.NewInt(-60)) != 0 || mintValues[2].(*big.Int).Cmp(big.NewInt(1200)) != 0 {
		t.Fatalf("ticks = (%s, %s), want (-60, 1200)", mintValues[1], mintValues[2])
	}
	if mintValues[3].(*big.Int).Cmp(big.NewInt(123456)) != 0 {
		t.Fatalf("liquidity = %s, want 123456", mintValues[3])
	}
	if mintValues[6].(common.Address) != owner {
		t.Fatalf("owner mismatch")
	}
}

func TestCollectUsesZeroLiquidityDecrease(t *testing.T) {
	list, err := Collect(big.NewInt(7), nil, TakePairParams{
		Currency0: currency0, Currency1: currency1, Recipient: recipient,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(list.Actions, []byte{0x01, 0x11}) {
		t.Fatalf("actions = %x, want 0111", list.Actions)
	}

	values, err := DecodeParams(OpDecreaseLiquidity, list.Params[0])
	if err != nil {
		t.Fatalf("decode decrease params: %v", err)
	}
	if values[0].(*big.Int).Cmp(big.NewInt(7)) != 0 {
		t.Fatalf("tokenId = %s, want 7", values[0])
	}
	if values[1].(*big.Int).Sign() != 0 {
		t.Fatalf("liquidity = %s, want 0", values[1])
	}
}

func TestRebalanceActionOrder(t *testing.T) {
	list, err := Rebalance(
		DecreaseLiquidityParams{TokenID: big.NewInt(7), Liquidity: big.NewInt(999)},
		MintPositionParams{
			PoolKey:    testPoolKey(),
			TickLower:  -120,
			TickUpper:  120,
			Liquidity:  big.NewInt(1000),
			Amount0Max: big.NewInt(1),
			Amount1Max: big.NewInt(1),
			Owner:      owner,
		},
		currency0, currency1,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(list.Actions, []byte{0x01, 0x02, 0x12, 0x12}) {
		t.Fatalf("actions = %x, want 01021212", list.Actions)
	}

	close0, err := DecodeParams(OpCloseCurrency, list.Params[2])
	if err != nil {
		t.Fatalf("decode close params: %v", err)
	}
	if close0[0].(common.Address) != currency0 {
		t.Fatalf("close currency = %s, want %s", close0[0], currency0.Hex())
	}
}

func TestUint128BoundRejectedBeforeEncoding(t *testing.T) {
	over := new(big.Int).Lsh(big.NewInt(1), 128)
	var boundErr *Uint128Error

	_, err := Close(BurnPositionParams{TokenID: big.NewInt(1), Amount0Min: over},
		TakePairParams{Currency0: currency0, Currency1: currency1, Recipient: recipient})
	if !errors.As(err, &boundErr) {
		t.Fatalf("expected Uint128Error, got %v", err)
	}
	if boundErr.Field != "amount0Min" {
		t.Fatalf("field = %s, want amount0Min", boundErr.Field)
	}

	_, err = Bootstrap(MintPositionParams{
		PoolKey:   testPoolKey(),
		TickLower: -60, TickUpper: 60,
		Liquidity: over,
		Owner:     owner,
	}, TakePairParams{Currency0: currency0, Currency1: currency1, Recipient: recipient})
	if !errors.As(err, &boundErr) {
		t.Fatalf("expected Uint128Error for liquidity, got %v", err)
	}
}

func TestMintRejectsTickOrder(t *testing.T) {
	_, err := Bootstrap(MintPositionParams{
		PoolKey:   testPoolKey(),
		TickLower: 60, TickUpper: -60,
		Liquidity: big.NewInt(1),
		Owner:     owner,
	}, TakePairParams{Currency0: currency0, Currency1: currency1, Recipient: recipient})
	if err == nil {
		t.Fatalf("expected error for inverted ticks")
	}
}

func TestSettleAndTakeInstructions(t *testing.T) {
	settle, err := SettleInstruction(SettleParams{Currency: currency0, Amount: big.NewInt(5), PayerIsUser: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	take, err := TakeInstruction(TakeParams{Currency: currency1, Recipient: recipient, Amount: big.NewInt(6)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list := Compose(settle, take)
	if !bytes.Equal(list.Actions, []byte{0x0b, 0x0e}) {
		t.Fatalf("actions = %x, want 0b0e", list.Actions)
	}

	values, err := DecodeParams(OpSettle, list.Params[0])
	if err != nil {
		t.Fatalf("decode settle params: %v", err)
	}
	if values[2].(bool) != true {
		t.Fatalf("payerIsUser = %v, want true", values[2])
	}
}

func TestDecodeUnknownOpcode(t *testing.T) {
	if _, err := DecodeParams(Opcode(0x7f), []byte{}); err == nil {
		t.Fatalf("expected error for unknown opcode")
	}
}
