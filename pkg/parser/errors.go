package parser

import (
	"errors"
	"fmt"

	"github.com/datatrail-labs/sqlcol/pkg/token"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// ErrNoStatements is returned when the input yields no parseable statements.
var ErrNoStatements = errors.New("no parseable statements")

// Common error messages
const (
	ErrUnexpectedToken    = "unexpected token %s, expected %s"
	ErrExpectedStatement  = "expected SELECT or WITH, got %s"
	ErrUnterminatedString = "unterminated string literal"
)
