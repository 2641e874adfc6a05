package tickmath

import (
	"math/big"

	"github.com/holiman/uint256"
)

// MinSqrtRatio and MaxSqrtRatio are SqrtRatioAtTick at MinTick and MaxTick.
var (
	MinSqrtRatio = big.NewInt(4295128739)
	MaxSqrtRatio = mustDecimal("1461446703485210103287273052203988822378723970342")
)

// Precomputed sqrt(1.0001^(2^i)) * 2^128 for bit i of the absolute tick.
var tickRatios = [20]*uint256.Int{
	mustHex("0xfffcb933bd6fad37aa2d162d1a594001"),
	mustHex("0xfff97272373d413259a46990580e213a"),
	mustHex("0xfff2e50f5f656932ef12357cf3c7fdcc"),
	mustHex("0xffe5caca7e10e4e61c3624eaa0941cd0"),
	mustHex("0xffcb9843d60f6159c9db58835c926644"),
	mustHex("0xff973b41fa98c081472e6896dfb254c0"),
	mustHex("0xff2ea16466c96a3843ec78b326b52861"),
	mustHex("0xfe5dee046a99a2a811c461f1969c3053"),
	mustHex("0xfcbe86c7900a88aedcffc83b479aa3a4"),
	mustHex("0xf987a7253ac413176f2b074cf7815e54"),
	mustHex("0xf3392b0822b70005940c7a398e4b70f3"),
	mustHex("0xe7159475a2c29b7443b29c7fa6e889d9"),
	mustHex("0xd097f3bdfd2022b8845ad8f792aa5825"),
	mustHex("0xa9f746462d870fdf8a65dc1f90e061e5"),
	mustHex("0x70d869a156d2a1b890bb3df62baf32f7"),
	mustHex("0x31be135f97d08fd981231505542fcfa6"),
	mustHex("0x9aa508b5b7a84e1c677de54f3e99bc9"),
	mustHex("0x5d6af8dedb81196699c329225ee604"),
	mustHex("0x2216e584f5fa1ea926041bedfe98"),
	mustHex("0x48a170391f7dc42444e8fa2"),
}

var (
	oneQ128    = mustHex("0x100000000000000000000000000000000")
	mask32     = mustHex("0xffffffff")
	oneU256    = uint256.NewInt(1)
	maxUint256 = new(uint256.Int).Not(uint256.NewInt(0))
)

func mustHex(s string) *uint256.Int {
	v, err := uint256.FromHex(s)
	if err != nil {
		panic(err)
	}
	return v
}

func mustDecimal(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid decimal constant: " + s)
	}
	return v
}

// SqrtRatioAtTick computes sqrt(1.0001^tick) * 2^96, matching the external
// protocol's own fixed-point computation bit for bit.
func SqrtRatioAtTick(tick int32) (*big.Int, error) {
	if tick < MinTick || tick > MaxTick {
		min, _ := MinAlignedTick(1)
		max, _ := MaxAlignedTick(1)
		return nil, &TickBoundsError{Tick: tick, MinAligned: min, MaxAligned: max}
	}

	absTick := uint32(tick)
	if tick < 0 {
		absTick = uint32(-int64(tick))
	}

	ratio := new(uint256.Int).Set(oneQ128)
	for i := 0; i < len(tickRatios); i++ {
		if absTick&(1<<uint(i)) != 0 {
			ratio.Mul(ratio, tickRatios[i])
			ratio.Rsh(ratio, 128)
		}
	}

	if tick > 0 {
		ratio.Div(maxUint256, ratio)
	}

	// Shift from Q128.128 down to Q64.96, rounding up.
	rem := new(uint256.Int).And(ratio, mask32)
	ratio.Rsh(ratio, 32)
	if !rem.IsZero() {
		ratio.Add(ratio, oneU256)
	}

	return ratio.ToBig(), nil
}
