package aggregate

import (
	"fmt"
	"strings"

	"github.com/halfspace-analytics/halfspace/internal/domain/model"
)

// ClauseOp is a comparison operator in a context condition.
type ClauseOp int

// Supported comparison operators.
const (
	OpEqual ClauseOp = iota
	OpNotEqual
)

// Clause compares one event column against a literal value.
type Clause struct {
	Column string
	Op     ClauseOp
	Value  string
}

// Condition is a conjunction of clauses parsed once at config-load time.
// Conditions come from data-authored configuration files, so they are
// represented structurally and evaluated by explicit comparison rather
// than any dynamic expression evaluation.
type Condition struct {
	clauses []Clause
}

// MatchAll returns a condition that every event satisfies.
func MatchAll() Condition {
	return Condition{}
}

// NewCondition builds a condition from explicit clauses.
func NewCondition(clauses ...Clause) Condition {
	return Condition{clauses: clauses}
}

// ParseCondition parses a condition string of the form
// "col == 'val' and col != 'val'". Only string equality, inequality, and
// AND conjunction are supported.
func ParseCondition(expr string) (Condition, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Condition{}, fmt.Errorf("%w: empty condition", ErrMalformedConfig)
	}

	parts := strings.Split(expr, " and ")
	clauses := make([]Clause, 0, len(parts))

	for _, part := range parts {
		clause, err := parseClause(part)
		if err != nil {
			return Condition{}, err
		}
		clauses = append(clauses, clause)
	}

	return Condition{clauses: clauses}, nil
}

// parseClause parses a single "column op value" comparison.
func parseClause(s string) (Clause, error) {
	s = strings.TrimSpace(s)

	var op ClauseOp
	var column, value string

	switch {
	case strings.Contains(s, "!="):
		op = OpNotEqual
		parts := strings.SplitN(s, "!=", 2)
		column, value = parts[0], parts[1]
	case strings.Contains(s, "=="):
		op = OpEqual
		parts := strings.SplitN(s, "==", 2)
		column, value = parts[0], parts[1]
	default:
		return Clause{}, fmt.Errorf("%w: no operator in clause %q", ErrMalformedConfig, s)
	}

	column = strings.TrimSpace(column)
	value = strings.Trim(strings.TrimSpace(value), `'"`)

	if column == "" {
		return Clause{}, fmt.Errorf("%w: missing column in clause %q", ErrMalformedConfig, s)
	}

	return Clause{Column: column, Op: op, Value: value}, nil
}

// Matches evaluates the condition against an event. A clause naming an
// unknown column never matches.
func (c Condition) Matches(e *model.Event) bool {
	for _, clause := range c.clauses {
		got, ok := e.StringField(clause.Column)
		if !ok {
			return false
		}

		switch clause.Op {
		case OpEqual:
			if got != clause.Value {
				return false
			}
		case OpNotEqual:
			if got == clause.Value {
				return false
			}
		}
	}

	return true
}
