package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Shape(t *testing.T) {
	got := New(Product)
	assert.True(t, strings.HasPrefix(got, "PROD-"))
	assert.Equal(t, got, strings.ToUpper(got))

	// prefix + ts + "-" + 9 random chars
	rest := strings.TrimPrefix(got, "PROD-")
	parts := strings.SplitN(rest, "-", 2)
	assert.Len(t, parts, 2)
	assert.Len(t, parts[1], 9)
}

func TestNew_UniqueAcrossCalls(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 5000; i++ {
		v := New(Sale)
		assert.False(t, seen[v], "duplicate id %s", v)
		seen[v] = true
	}
}

func TestFallbackSuffix_NeverEmptyAndDistinct(t *testing.T) {
	a := fallbackSuffix()
	b := fallbackSuffix()
	assert.Len(t, a, 9)
	assert.Len(t, b, 9)
	assert.NotEqual(t, a, b)
}
