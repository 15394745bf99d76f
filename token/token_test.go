package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLookup checks that every reserved word round-trips through
// LookupIdentifier, and that arbitrary identifiers don't.
func TestLookup(t *testing.T) {
	for word, want := range keywords {
		assert.Equal(t, want, LookupIdentifier(word))
	}

	assert.Equal(t, IDENT, LookupIdentifier("counter"))
	assert.Equal(t, IDENT, LookupIdentifier("numerator"))
}

// TestOperatorClasses checks the three precedence-tier predicates used
// by the parser to decide how tightly a binary operator binds.
func TestOperatorClasses(t *testing.T) {
	assert.True(t, IsComparison(EQ))
	assert.True(t, IsComparison(GE))
	assert.False(t, IsComparison(PLUS))

	assert.True(t, IsAdditive(PLUS))
	assert.True(t, IsAdditive(MINUS))
	assert.False(t, IsAdditive(ASTERISK))

	assert.True(t, IsMultiplicative(ASTERISK))
	assert.True(t, IsMultiplicative(SLASH))
	assert.True(t, IsMultiplicative(PERCENT))
	assert.False(t, IsMultiplicative(PLUS))
}
