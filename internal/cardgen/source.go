package cardgen

import (
	"crypto/rand"
	"math/big"
)

// Source yields uniform integers in [0, n). *math/rand.Rand satisfies it,
// which lets tests pin the sequence with a fixed seed.
type Source interface {
	Intn(n int) int
}

// NewCryptoSource returns a Source backed by crypto/rand. It is safe for
// concurrent use.
func NewCryptoSource() Source { return cryptoSource{} }

type cryptoSource struct{}

// 256 - (256 % 10): bytes at or above this would bias the digit draw.
const digitThreshold = 250

func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("cardgen: invalid argument to Intn")
	}
	if n == 10 {
		var b [1]byte
		for {
			if _, err := rand.Read(b[:]); err != nil {
				panic("cardgen: crypto/rand: " + err.Error())
			}
			if b[0] < digitThreshold {
				return int(b[0] % 10)
			}
		}
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("cardgen: crypto/rand: " + err.Error())
	}
	return int(v.Int64())
}
