package assertions

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Operator int

const (
	OpEquals Operator = iota
	OpNotEquals
	OpGreaterThan
	OpGreaterOrEqual
	OpLessThan
	OpLessOrEqual
	OpContains
	OpNotContains
	OpStartsWith
	OpEndsWith
	OpMatches
	OpExists
	OpNotExists
	OpLength
	OpIncludes
	OpNotIncludes
	OpIn
	OpNotIn
	OpType
	OpEach
	OpSchema
)

var operatorNames = map[Operator]string{
	OpEquals:         "==",
	OpNotEquals:      "!=",
	OpGreaterThan:    ">",
	OpGreaterOrEqual: ">=",
	OpLessThan:       "<",
	OpLessOrEqual:    "<=",
	OpContains:       "contains",
	OpNotContains:    "!contains",
	OpStartsWith:     "startsWith",
	OpEndsWith:       "endsWith",
	OpMatches:        "matches",
	OpExists:         "exists",
	OpNotExists:      "!exists",
	OpLength:         "length",
	OpIncludes:       "includes",
	OpNotIncludes:    "!includes",
	OpIn:             "in",
	OpNotIn:          "!in",
	OpType:           "type",
	OpEach:           "each",
	OpSchema:         "schema",
}

func (op Operator) String() string {
	if name, ok := operatorNames[op]; ok {
		return name
	}
	return "unknown"
}

// lookupOperator matches operator names case-insensitively.
func lookupOperator(s string) (Operator, bool) {
	for op, name := range operatorNames {
		if strings.EqualFold(name, s) {
			return op, true
		}
	}
	return OpEquals, false
}

// takesValue reports whether op compares against an expected value.
func (op Operator) takesValue() bool {
	return op != OpExists && op != OpNotExists
}

type Assertion struct {
	Subject  string
	Operator Operator
	Expected any
}

func (a *Assertion) String() string {
	if !a.Operator.takesValue() {
		return a.Subject + " " + a.Operator.String()
	}
	return fmt.Sprintf("%s %s %v", a.Subject, a.Operator, a.Expected)
}

// Parse reads one expectation expression.
func Parse(expr string) (*Assertion, error) {
	subject, rest := nextField(expr)
	if subject == "" {
		return nil, fmt.Errorf("empty expectation")
	}
	if subject == "header" || subject == "jsonpath" {
		var arg string
		arg, rest = nextField(rest)
		if arg == "" {
			return nil, fmt.Errorf("%s needs a name: %q", subject, expr)
		}
		subject += " " + arg
	}

	a := &Assertion{Subject: subject, Operator: OpEquals}
	if word, after := nextField(rest); word != "" {
		if op, ok := lookupOperator(word); ok {
			a.Operator = op
			rest = after
		}
	}

	raw := strings.TrimSpace(rest)
	if !a.Operator.takesValue() {
		if raw != "" {
			return nil, fmt.Errorf("%s takes no value: %q", a.Operator, expr)
		}
		return a, nil
	}
	if raw == "" {
		return nil, fmt.Errorf("missing expected value: %q", expr)
	}
	a.Expected = parseValue(raw)
	return a, nil
}

// ParseAll parses every expression, stopping at the first error.
func ParseAll(exprs []string) ([]*Assertion, error) {
	list := make([]*Assertion, 0, len(exprs))
	for _, expr := range exprs {
		a, err := Parse(expr)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, nil
}

func nextField(s string) (field, rest string) {
	s = strings.TrimLeft(s, " \t")
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

func parseValue(raw string) any {
	if len(raw) >= 2 && raw[0] == '\'' && raw[len(raw)-1] == '\'' {
		return raw[1 : len(raw)-1]
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
