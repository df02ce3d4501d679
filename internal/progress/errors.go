package progress

import (
	"errors"
	"fmt"
)

// RuleError reports a call the rules cannot accept, such as a quiz score
// larger than the quiz. Duplicate actions are not RuleErrors; they are
// reported through Outcome.
type RuleError struct {
	// Code identifies the error category.
	Code RuleErrorCode

	// Message is a human-readable description.
	Message string

	// Op is the engine operation that rejected the call.
	Op string
}

// RuleErrorCode categorizes rule errors.
type RuleErrorCode string

const (
	// ErrCodeInvalidAmount indicates a non-positive point award.
	ErrCodeInvalidAmount RuleErrorCode = "INVALID_AMOUNT"

	// ErrCodeInvalidMood indicates a mood outside the fixed set.
	ErrCodeInvalidMood RuleErrorCode = "INVALID_MOOD"

	// ErrCodeInvalidQuizResult indicates impossible quiz counts.
	ErrCodeInvalidQuizResult RuleErrorCode = "INVALID_QUIZ_RESULT"
)

// Error implements the error interface.
func (e *RuleError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (op=%s)", e.Code, e.Message, e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRuleError reports whether err is a RuleError with the given code.
// Uses errors.As to handle wrapped errors.
func IsRuleError(err error, code RuleErrorCode) bool {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

func newRuleError(code RuleErrorCode, op, format string, args ...any) *RuleError {
	return &RuleError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Op:      op,
	}
}
