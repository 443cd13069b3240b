package diagnostics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebscore/ebs/interp"
)

func TestFromParseErrorsSplitsLineAndMessage(t *testing.T) {
	diags := FromParseErrors("script.ebs", []string{
		`line 12: expected next token to be SEMICOLON, got EOF ("")`,
	})
	require.Len(t, diags, 1)
	assert.Equal(t, interp.KindParseError, diags[0].Kind)
	assert.Equal(t, 12, diags[0].Line)
	assert.Equal(t, "script.ebs", diags[0].Path)
	assert.Contains(t, diags[0].Message, "expected next token")
}

func TestFromParseErrorsToleratesUnformattedMessage(t *testing.T) {
	diags := FromParseErrors("script.ebs", []string{"unexpected EOF"})
	require.Len(t, diags, 1)
	assert.Equal(t, 0, diags[0].Line)
	assert.Equal(t, "unexpected EOF", diags[0].Message)
}

func TestFromExceptionStandardKind(t *testing.T) {
	exc := &interp.Exception{Kind: interp.KindDBError, Message: "no active connection", Line: 7}
	diag := FromException(exc, "script.ebs")
	assert.Equal(t, interp.KindDBError, diag.Kind)
	assert.Equal(t, 7, diag.Line)
	assert.Equal(t, "no active connection", diag.Message)
}

func TestFromExceptionCustomKind(t *testing.T) {
	exc := &interp.Exception{Kind: "InsufficientFunds", Custom: true, Line: 3}
	diag := FromException(exc, "script.ebs")
	assert.Equal(t, "InsufficientFunds", diag.Kind)
	assert.Contains(t, diag.Message, "InsufficientFunds")
}

func TestErrorFormatsWithAndWithoutPath(t *testing.T) {
	withPath := New(interp.KindTypeError, 4, "bad coercion", "script.ebs")
	assert.Equal(t, `script.ebs:4: TYPE_ERROR: bad coercion`, withPath.Error())

	withoutPath := New(interp.KindTypeError, 4, "bad coercion", "")
	assert.Equal(t, `4: TYPE_ERROR: bad coercion`, withoutPath.Error())
}

func TestFromErrorWrapsPlainError(t *testing.T) {
	diag := FromError(errors.New("boom"), "script.ebs")
	assert.Equal(t, interp.KindAnyError, diag.Kind)
	assert.Equal(t, "boom", diag.Message)
}
