package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny_ScalarTypes(t *testing.T) {
	testCases := []struct {
		name string
		in   any
		want Value
	}{
		{"nil maps to Unset", nil, Unset{}},
		{"string", "ACM-600", Text("ACM-600")},
		{"bool", true, Bool(true)},
		{"float64", 12.5, Number(12.5)},
		{"int", 7, Number(7)},
		{"int64", int64(-3), Number(-3)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromAny(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromAny_RejectsCompositeTypes(t *testing.T) {
	_, err := FromAny(map[string]any{"nested": 1})
	assert.Error(t, err)

	_, err = FromAny([]any{1, 2})
	assert.Error(t, err)
}

func TestNewText_AppliesNFCNormalization(t *testing.T) {
	// U+0065 U+0301 (e + combining acute) normalizes to U+00E9.
	composed := NewText("café")
	decomposed := NewText("café")
	assert.Equal(t, composed, decomposed)
}

func TestIsSet(t *testing.T) {
	testCases := []struct {
		name string
		v    Value
		want bool
	}{
		{"nil", nil, false},
		{"unset", Unset{}, false},
		{"empty text", Text(""), false},
		{"whitespace text", Text("   "), false},
		{"text", Text("x"), true},
		{"zero number", Number(0), true},
		{"false bool", Bool(false), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsSet(tc.v))
		})
	}
}

// TestLooseEqual_CoercionTable documents the cross-type equality semantics
// shared by both validators: numeric readings win, then text equality.
func TestLooseEqual_CoercionTable(t *testing.T) {
	testCases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"number equals numeric string", Number(5), Text("5"), true},
		{"numeric string equals number", Text("5"), Number(5), true},
		{"number equals fractional string", Number(2.5), Text("2.5"), true},
		{"bool true equals 1", Bool(true), Number(1), true},
		{"bool false equals 0", Bool(false), Number(0), true},
		{"bool true equals string 1", Bool(true), Text("1"), true},
		{"text equality", Text("ACM-600"), Text("ACM-600"), true},
		{"text inequality", Text("ACM-600"), Text("ACM-700"), false},
		{"number inequality", Number(5), Number(6), false},
		{"bool vs non-numeric text", Bool(true), Text("true"), false},
		{"unset equals nothing", Unset{}, Unset{}, false},
		{"unset vs number", Unset{}, Number(0), false},
		{"nil vs text", nil, Text("x"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LooseEqual(tc.a, tc.b))
		})
	}
}

func TestCompareNumeric(t *testing.T) {
	cmp, ok := CompareNumeric(Number(12), Number(10))
	require.True(t, ok)
	assert.Equal(t, 1, cmp)

	cmp, ok = CompareNumeric(Text("4000"), Number(5000))
	require.True(t, ok)
	assert.Equal(t, -1, cmp)

	cmp, ok = CompareNumeric(Number(5), Text("5"))
	require.True(t, ok)
	assert.Equal(t, 0, cmp)

	_, ok = CompareNumeric(Text("not-a-number"), Number(1))
	assert.False(t, ok, "non-numeric side yields undefined ordering, not an error")

	_, ok = CompareNumeric(Unset{}, Number(1))
	assert.False(t, ok)
}

func TestKey_CanonicalTokens(t *testing.T) {
	assert.Equal(t, "5", Key(Number(5)))
	assert.Equal(t, "2.5", Key(Number(2.5)))
	assert.Equal(t, "ACM-600", Key(Text("ACM-600")))
	assert.Equal(t, "true", Key(Bool(true)))
	assert.Equal(t, "", Key(Unset{}))
}

func TestTruncateToInt_TowardZero(t *testing.T) {
	assert.Equal(t, 2, TruncateToInt(2.9))
	assert.Equal(t, -2, TruncateToInt(-2.9))
	assert.Equal(t, 0, TruncateToInt(0.4))
}
