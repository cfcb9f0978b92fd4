package editre

import "github.com/coregx/editre/internal/compiler"

// ErrorCode classifies why a pattern failed to compile.
type ErrorCode = compiler.ErrorCode

// The full set of compile-time error codes a pattern can fail with,
// mirrored from internal/compiler so callers never need to import an
// internal package to inspect one.
const (
	ErrNullPattern             = compiler.NullPattern
	ErrRegexTooLarge           = compiler.RegexTooLarge
	ErrTooManyParens           = compiler.TooManyParens
	ErrMissingRightParen       = compiler.MissingRightParen
	ErrMissingLeftParen        = compiler.MissingLeftParen
	ErrJunkOnEnd               = compiler.JunkOnEnd
	ErrEmptyOperand            = compiler.EmptyOperand
	ErrNestedQuantifiers       = compiler.NestedQuantifiers
	ErrRangeTooLarge           = compiler.RangeTooLarge
	ErrInvalidRange            = compiler.InvalidRange
	ErrInvalidRangeZero        = compiler.InvalidRangeZero
	ErrMissingBraceClose       = compiler.MissingBraceClose
	ErrLookbehindUnbounded     = compiler.LookbehindUnbounded
	ErrLookbehindTooLarge      = compiler.LookbehindTooLarge
	ErrTooManyBraces           = compiler.TooManyBraces
	ErrInvalidGroupingSyntax   = compiler.InvalidGroupingSyntax
	ErrInvalidLookbehindSyntax = compiler.InvalidLookbehindSyntax
	ErrInvalidEscape           = compiler.InvalidEscape
	ErrInvalidClassEscape      = compiler.InvalidClassEscape
	ErrEscapeNotRangeOperand   = compiler.EscapeNotRangeOperand
	ErrInvalidOctalEscape      = compiler.InvalidOctalEscape
	ErrInvalidHexEscape        = compiler.InvalidHexEscape
	ErrIllegalBackReference    = compiler.IllegalBackReference
	ErrMissingClassClose       = compiler.MissingClassClose
	ErrQuantifierFollowsNothing = compiler.QuantifierFollowsNothing
)

// CompileError reports a pattern that failed to compile, with the byte
// offset into the pattern where the parser noticed the problem.
type CompileError = compiler.CompileError
