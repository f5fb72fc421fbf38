package random

import (
	crypto_rand "crypto/rand"
	"math/big"
)

// NewSeed returns a positive, non-zero seed from the OS entropy source.
func NewSeed() int64 {
	const MaxUint = ^uint64(0)
	const MaxInt = int64(MaxUint >> 1)
	nBig, err := crypto_rand.Int(crypto_rand.Reader, big.NewInt(MaxInt))
	if err != nil {
		panic("cannot seed random number generator with cryptographically secure random number generator")
	}
	return nBig.Int64() + 1
}
