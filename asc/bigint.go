package asc

import (
	"math/big"
)

// BigIntToBytes encodes x as little-endian two's complement using the
// fewest bytes that keep the sign bit correct. Zero encodes as one byte.
func BigIntToBytes(x *big.Int) []byte {
	neg := x.Sign() < 0
	mag := new(big.Int).Set(x)
	if neg {
		mag.Not(mag) // -x-1
	}
	n := mag.BitLen()/8 + 1
	be := mag.FillBytes(make([]byte, n))
	if neg {
		for i := range be {
			be[i] = ^be[i]
		}
	}
	out := make([]byte, n)
	for i := range be {
		out[n-1-i] = be[i]
	}
	return out
}

// BigIntFromBytes decodes little-endian two's complement bytes. An empty
// slice is zero.
func BigIntFromBytes(b []byte) *big.Int {
	if len(b) == 0 {
		return new(big.Int)
	}
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	x := new(big.Int).SetBytes(be)
	if b[len(b)-1]&0x80 != 0 {
		x.Sub(x, new(big.Int).Lsh(big.NewInt(1), uint(8*len(b))))
	}
	return x
}
