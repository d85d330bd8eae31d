// Package calculator implements a keypad calculator: a State driven by key
// presses and a closed-grammar arithmetic evaluator.
//
// The evaluator accepts numbers, + - * / ^, parentheses, the functions sin,
// cos, tan, log, ln and sqrt, and the constant π. Nothing else is ever
// executed, so arbitrary input is safe to evaluate.
package calculator
