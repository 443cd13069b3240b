package interp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebscore/ebs/value"
)

func TestClassifyErrorRecognizesPrefixes(t *testing.T) {
	cases := map[string]string{
		"ParseError: bad token":     KindParseError,
		"NameError: undefined x":    KindNameError,
		"TypeError: mismatch":       KindTypeError,
		"IndexError: out of range":  KindIndexError,
		"NumError: overflow":        KindNumError,
		"IOError: file not found":   KindIOError,
		"DBError: no connection":    KindDBError,
		"totally unrelated message": KindAnyError,
	}
	for msg, wantKind := range cases {
		exc := classifyError(errors.New(msg), 3)
		assert.Equal(t, wantKind, exc.Kind, msg)
		assert.Equal(t, 3, exc.Line)
		assert.Equal(t, msg, exc.Message)
	}
}

func TestClassifyErrorPassesThroughExistingException(t *testing.T) {
	original := &Exception{Kind: "Oops", Custom: true, Line: 9}
	got := classifyError(original, 42)
	assert.Same(t, original, got)
}

func TestBuildExceptionStandardKindTakesOneMessage(t *testing.T) {
	exc, err := buildException(KindDBError, []value.Value{value.NewString("no active connection")}, 5)
	require.NoError(t, err)
	assert.Equal(t, KindDBError, exc.Kind)
	assert.False(t, exc.Custom)
	assert.Equal(t, "no active connection", exc.Message)
	assert.Equal(t, 5, exc.Line)
}

func TestBuildExceptionStandardKindRejectsExtraArgs(t *testing.T) {
	_, err := buildException(KindDBError, []value.Value{value.NewString("a"), value.NewString("b")}, 1)
	require.Error(t, err)
}

func TestBuildExceptionRejectsParseError(t *testing.T) {
	_, err := buildException(KindParseError, nil, 1)
	require.Error(t, err)
}

func TestBuildExceptionCustomKindStoresPositionalPayload(t *testing.T) {
	exc, err := buildException("InsufficientFunds", []value.Value{value.NewInteger(10), value.NewInteger(25)}, 7)
	require.NoError(t, err)
	assert.True(t, exc.Custom)
	assert.Equal(t, "InsufficientFunds", exc.Kind)
	assert.Equal(t, int32(10), exc.Payload["p1"].Integer())
	assert.Equal(t, int32(25), exc.Payload["p2"].Integer())
}

func TestMatchesAnyErrorCatchesStandardNotCustom(t *testing.T) {
	std := &Exception{Kind: KindTypeError}
	custom := &Exception{Kind: "InsufficientFunds", Custom: true}
	assert.True(t, matches(KindAnyError, std))
	assert.False(t, matches(KindAnyError, custom))
}

func TestMatchesCustomHandlerOnlyCatchesOwnName(t *testing.T) {
	custom := &Exception{Kind: "InsufficientFunds", Custom: true}
	assert.True(t, matches("InsufficientFunds", custom))
	assert.False(t, matches("OtherError", custom))
}

func TestExceptionAsValueStandardKind(t *testing.T) {
	arena := value.NewArena()
	exc := &Exception{Kind: KindIndexError, Message: "out of range", Line: 4}
	v := exc.AsValue(arena)
	rec := arena.Get(v.Handle())
	assert.Equal(t, KindIndexError, rec.Fields["kind"].Display())
	assert.Equal(t, "out of range", rec.Fields["message"].Display())
	assert.Equal(t, int32(4), rec.Fields["line"].Integer())
}

func TestExceptionAsValueCustomKind(t *testing.T) {
	arena := value.NewArena()
	exc := &Exception{Kind: "InsufficientFunds", Custom: true, Line: 2, Payload: map[string]value.Value{
		"p1": value.NewInteger(10),
	}}
	v := exc.AsValue(arena)
	rec := arena.Get(v.Handle())
	assert.Equal(t, "InsufficientFunds", rec.Fields["name"].Display())
	assert.Equal(t, int32(10), rec.Fields["p1"].Integer())
	assert.Equal(t, int32(2), rec.Fields["line"].Integer())
}
