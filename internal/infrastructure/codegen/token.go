package codegen

import (
	"crypto/rand"
	"math/big"
	"time"
)

// tokenAlphabet excludes characters that are ambiguous in printed quote codes
const tokenAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Generator produces random tokens for quote codes
type Generator struct{}

// NewGenerator creates a new token generator
func NewGenerator() *Generator {
	return &Generator{}
}

// URLSafeToken returns a random token of the given length drawn from an
// unambiguous upper-case alphanumeric alphabet
func (g *Generator) URLSafeToken(length int) string {
	b := make([]byte, length)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// Fallback to timestamp-derived characters if crypto/rand fails
			b[i] = tokenAlphabet[time.Now().UnixNano()%int64(len(tokenAlphabet))]
			continue
		}
		b[i] = tokenAlphabet[n.Int64()]
	}
	return string(b)
}
