package calculator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, keys string) *State {
	t.Helper()

	s := NewState()
	_, err := s.PressAll(strings.Fields(keys)...)
	require.NoError(t, err)

	return s
}

func TestNewState(t *testing.T) {
	s := NewState()

	assert.Equal(t, ZeroSentinel, s.Display)
	assert.Empty(t, s.Expression)
	assert.True(t, s.PendingNewEntry)
	assert.False(t, s.ScientificMode)
}

func TestKeySequences(t *testing.T) {
	tests := []struct {
		keys string
		want string
	}{
		{"7 + 3 =", "10"},
		{"4 %", "0.04"},
		{"sin ( 0 ) =", "0"},
		{"sin 0 ) =", "0"},
		{"( 1 =", "Error"},
		{"1 2 3", "123"},
		{"0 0 0", "0"},
		{"0 5", "5"},
		{"± 5", "-5"},
		{"±", "-0"},
		{"5 ±", "-5"},
		{"5 ± ±", "5"},
		{". 5", "0.5"},
		{"1 . . 5", "1.5"},
		{"1 . 5 . 2", "1.52"},
		{"2 × 3 =", "6"},
		{"8 ÷ 2 =", "4"},
		{"2 ^ 1 0 =", "1024"},
		{"1 + 2 × 3 =", "7"},
		{"1 + 2 + 3 =", "6"},
		{"√ 1 6 ) =", "4"},
		{"π =", "3.14159265"},
		{"2 × π =", "6.28318531"},
		{"1 ÷ 3 =", "0.33333333"},
		{"1 ÷ 0 =", "Error"},
		{"7 + 3 = + 5 =", "15"},
		{"7 + × 3 =", "21"},
		{"7 + - × 3 =", "21"},
		{"( 1 + 2 ) × 3 =", "9"},
		{"sin ( ( 0 ) ) =", "0"},
		{"1 0 0 % ", "1"},
		{"C", "0"},
		{"9 9 C", "0"},
		{"log 1 0 0 0 ) =", "3"},
		{"ln 1 ) =", "0"},
		{"0 . 1 + 0 . 2 =", "0.3"},
	}

	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			s := press(t, tt.keys)
			assert.Equal(t, tt.want, s.Display)
		})
	}
}

func TestAppendDigit_AfterEvaluateStartsFresh(t *testing.T) {
	s := press(t, "7 + 3 = 4")

	assert.Equal(t, "4", s.Display)
	assert.False(t, s.PendingNewEntry)
}

func TestAppendDigit_NegativeZero(t *testing.T) {
	s := press(t, "±")
	require.Equal(t, NegativeZeroSentinel, s.Display)

	require.NoError(t, s.AppendDigit("7"))
	assert.Equal(t, "-7", s.Display)
}

func TestAppendDigit_Unknown(t *testing.T) {
	s := NewState()

	assert.ErrorIs(t, s.AppendDigit("x"), ErrUnknownKey)
	assert.ErrorIs(t, s.AppendDigit("12"), ErrUnknownKey)
	assert.Equal(t, ZeroSentinel, s.Display)
}

func TestAppendDigit_NoLeadingZeros(t *testing.T) {
	for _, keys := range []string{"0 0 7", "0 7", "± 0 7"} {
		s := press(t, keys)
		assert.NotRegexp(t, `^-?0\d`, s.Display, keys)
	}
}

func TestApplyBinaryOperator_Expression(t *testing.T) {
	s := press(t, "7 +")

	assert.Equal(t, "7 + ", s.Expression)
	assert.Equal(t, "7", s.Display)
	assert.True(t, s.PendingNewEntry)

	require.NoError(t, s.ApplyBinaryOperator("×"))
	assert.Equal(t, "7 * ", s.Expression)

	assert.ErrorIs(t, s.ApplyBinaryOperator("%%"), ErrUnknownKey)
}

func TestApplyBinaryOperator_AfterError(t *testing.T) {
	s := press(t, "1 ÷ 0 = + 2 =")
	assert.Equal(t, "2", s.Display)
}

func TestApplyUnaryFunction(t *testing.T) {
	s := NewState()

	require.NoError(t, s.ApplyUnaryFunction("sqrt"))
	assert.Equal(t, "√(", s.Display)

	s.Clear()
	require.NoError(t, s.ApplyUnaryFunction("cos"))
	assert.Equal(t, "cos(", s.Display)
	assert.False(t, s.PendingNewEntry)

	assert.ErrorIs(t, s.ApplyUnaryFunction("exp"), ErrUnknownKey)
}

func TestPercent_NonNumeric(t *testing.T) {
	s := press(t, "sin")

	err := s.Percent()
	assert.ErrorIs(t, err, ErrParse)
	assert.Equal(t, ErrorSentinel, s.Display)
	assert.Empty(t, s.Expression)
}

func TestEvaluate_ErrorClearsExpression(t *testing.T) {
	s := press(t, "5 + (")

	err := s.Evaluate()
	assert.ErrorIs(t, err, ErrParse)
	assert.Equal(t, ErrorSentinel, s.Display)
	assert.Empty(t, s.Expression)
	assert.True(t, s.PendingNewEntry)

	require.NoError(t, s.AppendDigit("3"))
	assert.Equal(t, "3", s.Display)
}

func TestEvaluateEntry_Pure(t *testing.T) {
	a, errA := EvaluateEntry("7 + ", "3")
	b, errB := EvaluateEntry("7 + ", "3")

	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
	assert.Equal(t, "10", a)
}

func TestClear_KeepsScientificMode(t *testing.T) {
	s := press(t, "sci 1 2 +")
	require.True(t, s.ScientificMode)

	s.Clear()
	assert.True(t, s.ScientificMode)
	assert.Equal(t, ZeroSentinel, s.Display)
	assert.Empty(t, s.Expression)
}

func TestToggleScientific(t *testing.T) {
	s := NewState()
	s.ToggleScientific()
	assert.True(t, s.ScientificMode)
	s.ToggleScientific()
	assert.False(t, s.ScientificMode)
}

func TestPressAll_UnknownKeyStops(t *testing.T) {
	s := NewState()

	display, err := s.PressAll("1", "?", "2")
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.Equal(t, "1", display)
}
