package services

import (
	"crypto/rand"
	"log"
	"math/big"
	mathrand "math/rand"
	"time"
)

// RandomSource produces indices used to draw characters for short codes.
// Injecting it keeps code generation testable, since it is the only
// non-deterministic step of link creation.
type RandomSource interface {
	// Index returns a value in [0, max).
	Index(max int) int
}

// cryptoSource draws from crypto/rand and falls back to a seeded math/rand
// generator when the strong source is unavailable. A weaker short code is
// preferable to refusing to create links at all.
type cryptoSource struct {
	fallback *mathrand.Rand
}

// NewCryptoSource returns the default random source.
func NewCryptoSource() RandomSource {
	return &cryptoSource{
		fallback: mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
	}
}

func (s *cryptoSource) Index(max int) int {
	num, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		log.Printf("WARNING: strong random source unavailable, using fallback: %v", err)
		return s.fallback.Intn(max)
	}
	return int(num.Int64())
}
