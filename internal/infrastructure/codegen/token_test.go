package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_URLSafeToken(t *testing.T) {
	gen := NewGenerator()

	t.Run("returns token of requested length", func(t *testing.T) {
		assert.Len(t, gen.URLSafeToken(6), 6)
		assert.Len(t, gen.URLSafeToken(12), 12)
		assert.Empty(t, gen.URLSafeToken(0))
	})

	t.Run("only uses alphabet characters", func(t *testing.T) {
		token := gen.URLSafeToken(64)
		for _, r := range token {
			assert.True(t, strings.ContainsRune(tokenAlphabet, r), "unexpected character %q", r)
		}
	})

	t.Run("successive tokens differ", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			seen[gen.URLSafeToken(10)] = true
		}
		assert.Greater(t, len(seen), 45)
	})
}
