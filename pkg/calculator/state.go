package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Display sentinels.
const (
	ZeroSentinel         = "0"
	NegativeZeroSentinel = "-0"
	ErrorSentinel        = "Error"
)

// ErrUnknownKey is returned when a key, operator or function name is not
// part of the calculator keypad.
var ErrUnknownKey = errors.New("calculator: unknown key")

// State is the calculator's entry state. Use NewState to obtain a usable
// value. State is not safe for concurrent use.
type State struct {
	// Display is the current entry (or result) shown to the user.
	Display string
	// Expression is the accumulated left-hand side, e.g. "7 + ".
	Expression string
	// PendingNewEntry is true when the next digit starts a fresh entry.
	PendingNewEntry bool
	// ScientificMode only selects which keypad a front end shows.
	ScientificMode bool

	// argOpen is set right after a function key inserted its "(".
	argOpen bool
}

// NewState returns a cleared calculator.
func NewState() *State {
	return &State{Display: ZeroSentinel, PendingNewEntry: true}
}

// freshEntry reports whether the next input replaces the display.
func (s *State) freshEntry() bool {
	return s.PendingNewEntry || s.Display == ErrorSentinel || s.Display == ""
}

// trailingNumeral returns the run of digits and points at the end of the
// display.
func (s *State) trailingNumeral() string {
	i := len(s.Display)
	for i > 0 {
		c := s.Display[i-1]
		if (c < '0' || c > '9') && c != '.' {
			break
		}
		i--
	}
	return s.Display[i:]
}

// AppendDigit extends the current numeral with d ("0".."9" or ".").
func (s *State) AppendDigit(d string) error {
	if len(d) != 1 || ((d[0] < '0' || d[0] > '9') && d[0] != '.') {
		return fmt.Errorf("%w: digit %q", ErrUnknownKey, d)
	}
	s.argOpen = false

	if d == "." {
		s.appendPoint()
		return nil
	}

	switch {
	case s.freshEntry():
		s.Display = d
		s.PendingNewEntry = false
	case s.trailingNumeral() == "0":
		// "0" -> "d", "-0" -> "-d", "sin(0" -> "sin(d".
		s.Display = s.Display[:len(s.Display)-1] + d
	default:
		s.Display += d
	}
	return nil
}

func (s *State) appendPoint() {
	if s.freshEntry() {
		s.Display = "0."
		s.PendingNewEntry = false
		return
	}
	switch num := s.trailingNumeral(); {
	case strings.Contains(num, "."):
	case num == "":
		s.Display += "0."
	default:
		s.Display += "."
	}
}

// appendToken adds a non-digit token (function call, paren, π) to the entry.
func (s *State) appendToken(tok string) {
	switch {
	case s.freshEntry():
		s.Display = tok
		s.PendingNewEntry = false
	case s.Display == ZeroSentinel:
		s.Display = tok
	case s.Display == NegativeZeroSentinel:
		s.Display = "-" + tok
	default:
		s.Display += tok
	}
}

// normalizeOperator maps keypad symbols to evaluator operators.
func normalizeOperator(op string) (string, bool) {
	switch op {
	case "+", "-", "*", "/", "^":
		return op, true
	case "×":
		return "*", true
	case "÷":
		return "/", true
	case "−":
		return "-", true
	}
	return "", false
}

// ApplyBinaryOperator moves the display into the expression followed by op.
// Pressing another operator while waiting for the next entry replaces the
// trailing one.
func (s *State) ApplyBinaryOperator(op string) error {
	norm, ok := normalizeOperator(op)
	if !ok {
		return fmt.Errorf("%w: operator %q", ErrUnknownKey, op)
	}
	s.argOpen = false

	if s.Display == ErrorSentinel {
		s.Display = ZeroSentinel
	}
	if s.PendingNewEntry && strings.HasSuffix(s.Expression, " ") && len(s.Expression) >= 2 {
		s.Expression = s.Expression[:len(s.Expression)-2] + norm + " "
		return nil
	}

	s.Expression += s.Display + " " + norm + " "
	s.PendingNewEntry = true
	return nil
}

// functionLabel maps a function name to its display token.
func functionLabel(name string) (string, bool) {
	if name == "√" {
		name = "sqrt"
	}
	if _, ok := functions[name]; !ok {
		return "", false
	}
	if name == "sqrt" {
		return "√(", true
	}
	return name + "(", true
}

// ApplyUnaryFunction starts a call to name in the current entry.
func (s *State) ApplyUnaryFunction(name string) error {
	tok, ok := functionLabel(name)
	if !ok {
		return fmt.Errorf("%w: function %q", ErrUnknownKey, name)
	}
	s.appendToken(tok)
	s.argOpen = true
	return nil
}

// OpenParen appends "(". Directly after a function key it is absorbed by the
// parenthesis the function already opened.
func (s *State) OpenParen() {
	if s.argOpen {
		s.argOpen = false
		return
	}
	s.appendToken("(")
}

// CloseParen appends ")".
func (s *State) CloseParen() {
	s.argOpen = false
	s.appendToken(")")
}

// AppendPi appends the π constant.
func (s *State) AppendPi() {
	s.argOpen = false
	s.appendToken("π")
}

// ToggleSign negates the current entry. On a fresh entry it shows "-0",
// which the next digit overwrites.
func (s *State) ToggleSign() {
	s.argOpen = false
	if s.freshEntry() {
		s.Display = NegativeZeroSentinel
		s.PendingNewEntry = false
		return
	}
	if rest, ok := strings.CutPrefix(s.Display, "-"); ok {
		s.Display = rest
		return
	}
	s.Display = "-" + s.Display
}

// Percent divides the displayed numeral by 100. A display that is not a
// plain number turns into the error sentinel.
func (s *State) Percent() error {
	s.argOpen = false
	v, err := strconv.ParseFloat(s.Display, 64)
	if err != nil {
		s.fail()
		return fmt.Errorf("%w: %q is not a number", ErrParse, s.Display)
	}
	s.Display = FormatNumber(v / 100)
	return nil
}

// Evaluate computes Expression + Display. The display shows the rounded
// result, or the error sentinel on failure; the returned error only reports
// why.
func (s *State) Evaluate() error {
	s.argOpen = false
	display, err := EvaluateEntry(s.Expression, s.Display)
	s.Display = display
	s.Expression = ""
	s.PendingNewEntry = true
	return err
}

// EvaluateEntry is the pure form of Evaluate: it returns the display text
// for expression + display.
func EvaluateEntry(expression, display string) (string, error) {
	v, err := Eval(expression + display)
	if err != nil {
		return ErrorSentinel, err
	}
	return FormatResult(v), nil
}

func (s *State) fail() {
	s.Display = ErrorSentinel
	s.Expression = ""
	s.PendingNewEntry = true
}

// Clear resets display and expression.
func (s *State) Clear() {
	scientific := s.ScientificMode
	*s = State{Display: ZeroSentinel, PendingNewEntry: true, ScientificMode: scientific}
}

// ToggleScientific flips the scientific keypad flag.
func (s *State) ToggleScientific() {
	s.ScientificMode = !s.ScientificMode
}

// Press dispatches a keypad label. Recognized labels are the digits and
// ".", the operators + - * / ^ × ÷, the functions sin cos tan log ln sqrt √,
// "(" ")" "π" "pi", "=" "C" "±" "%" and "sci". Evaluation failures are
// reflected in the display and also returned.
func (s *State) Press(key string) error {
	switch key {
	case "=":
		return s.Evaluate()
	case "C", "c", "AC":
		s.Clear()
	case "±", "+/-", "neg":
		s.ToggleSign()
	case "%":
		return s.Percent()
	case "(":
		s.OpenParen()
	case ")":
		s.CloseParen()
	case "π", "pi":
		s.AppendPi()
	case "sci":
		s.ToggleScientific()
	default:
		if _, ok := normalizeOperator(key); ok {
			return s.ApplyBinaryOperator(key)
		}
		if _, ok := functionLabel(key); ok {
			return s.ApplyUnaryFunction(key)
		}
		return s.AppendDigit(key)
	}
	return nil
}

// PressAll presses each key in order and returns the final display.
// Evaluation failures only show up as the error sentinel. An unknown key
// stops the sequence and is returned.
func (s *State) PressAll(keys ...string) (string, error) {
	for _, k := range keys {
		if err := s.Press(k); errors.Is(err, ErrUnknownKey) {
			return s.Display, err
		}
	}
	return s.Display, nil
}
