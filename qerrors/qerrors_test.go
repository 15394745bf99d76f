package qerrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseErrorMessage(t *testing.T) {
	e := &ParseError{Line: 3, Column: 7, Context: "unexpected '@'", Expected: []string{"IDENT", "NUMBER"}}
	assert.Contains(t, e.Error(), "line 3, column 7")
	assert.Contains(t, e.Error(), "unexpected '@'")
	assert.Contains(t, e.Error(), "IDENT")
}

func TestCompileErrorNamesOffender(t *testing.T) {
	e := New(NotInScope, "frobnicate", "no declaration found")
	assert.Equal(t, NotInScope, e.Kind)
	assert.Contains(t, e.Error(), "frobnicate")
	assert.Contains(t, e.Error(), "NotInScope")
}
