package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"procost/internal/errors"
)

// Default evaluation limits; overridable per evaluator.
const (
	DefaultMaxExpressionLength = 2000
	DefaultMaxNestingDepth     = 50
)

// Options bounds an evaluation. Zero fields fall back to the defaults.
type Options struct {
	MaxExpressionLength int
	MaxNestingDepth     int
}

// evaluator interprets one parsed expression against one bound input
// value. A fresh instance is built per Evaluate call so no state survives
// between evaluations.
type evaluator struct {
	input Value
}

// Evaluate runs an expression against a single bound input value inside
// the sandbox. The only reachable names are the `value` identifier, the
// string/number/date built-ins and arithmetic; there is no host access of
// any kind. Failures come back as evaluation errors and never panic past
// this boundary.
func Evaluate(expression, inputValue string) (Value, error) {
	return EvaluateWith(Options{}, expression, inputValue)
}

// EvaluateWith is Evaluate with explicit limits.
func EvaluateWith(opts Options, expression, inputValue string) (result Value, err error) {
	maxLen := opts.MaxExpressionLength
	if maxLen <= 0 {
		maxLen = DefaultMaxExpressionLength
	}
	maxDepth := opts.MaxNestingDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxNestingDepth
	}

	expression = strings.TrimSpace(expression)
	if expression == "" {
		return Value{}, errors.New(errors.TypeEvaluation, "empty expression")
	}
	if len(expression) > maxLen {
		return Value{}, errors.Newf(errors.TypeEvaluation, "expression exceeds %d characters", maxLen)
	}

	// The interpreter is total over its AST, but recover anyway so a
	// defect here surfaces as an error, not a caller crash.
	defer func() {
		if r := recover(); r != nil {
			result = Value{}
			err = errors.Newf(errors.TypeEvaluation, "evaluation panic: %v", r)
		}
	}()

	root, err := parse(expression, maxDepth)
	if err != nil {
		return Value{}, errors.Wrap(errors.TypeEvaluation, "expression failed to parse", err)
	}

	e := &evaluator{input: String(inputValue)}
	return e.eval(root)
}

func (e *evaluator) eval(n node) (Value, error) {
	switch n := n.(type) {
	case *literalNode:
		return n.value, nil

	case *identNode:
		if n.name == "value" {
			return e.input, nil
		}
		return Value{}, errors.Newf(errors.TypeEvaluation, "unknown identifier %q", n.name)

	case *unaryNode:
		child, err := e.eval(n.child)
		if err != nil {
			return Value{}, err
		}
		if n.op == tokenBang {
			return Bool(!child.IsTruthy()), nil
		}
		return Number(-child.AsNumber()), nil

	case *binaryNode:
		return e.evalBinary(n)

	case *ternaryNode:
		cond, err := e.eval(n.cond)
		if err != nil {
			return Value{}, err
		}
		if cond.IsTruthy() {
			return e.eval(n.thenExpr)
		}
		return e.eval(n.elseExpr)

	case *callNode:
		return e.evalCall(n)

	case *methodNode:
		return e.evalMethod(n)

	case *newNode:
		return e.evalNew(n)

	default:
		return Value{}, errors.Newf(errors.TypeEvaluation, "unsupported expression node %T", n)
	}
}

func (e *evaluator) evalBinary(n *binaryNode) (Value, error) {
	left, err := e.eval(n.left)
	if err != nil {
		return Value{}, err
	}
	right, err := e.eval(n.right)
	if err != nil {
		return Value{}, err
	}

	switch n.op {
	case tokenPlus:
		// String concatenation when either side is a string.
		if left.Kind() == KindString || right.Kind() == KindString {
			return String(left.AsString() + right.AsString()), nil
		}
		return Number(left.AsNumber() + right.AsNumber()), nil
	case tokenMinus:
		return Number(left.AsNumber() - right.AsNumber()), nil
	case tokenStar:
		return Number(left.AsNumber() * right.AsNumber()), nil
	case tokenSlash:
		return Number(left.AsNumber() / right.AsNumber()), nil
	case tokenEq:
		return Bool(left.equals(right)), nil
	case tokenNeq:
		return Bool(!left.equals(right)), nil
	case tokenGt, tokenGte, tokenLt, tokenLte:
		return compareValues(n.op, left, right), nil
	default:
		return Value{}, errors.Newf(errors.TypeEvaluation, "unsupported operator")
	}
}

// compareValues orders two strings lexicographically and everything else
// numerically.
func compareValues(op tokenType, left, right Value) Value {
	var cmp int
	if left.Kind() == KindString && right.Kind() == KindString {
		cmp = strings.Compare(left.AsString(), right.AsString())
	} else {
		l, r := left.AsNumber(), right.AsNumber()
		if math.IsNaN(l) || math.IsNaN(r) {
			return Bool(false)
		}
		switch {
		case l < r:
			cmp = -1
		case l > r:
			cmp = 1
		}
	}
	switch op {
	case tokenGt:
		return Bool(cmp > 0)
	case tokenGte:
		return Bool(cmp >= 0)
	case tokenLt:
		return Bool(cmp < 0)
	default:
		return Bool(cmp <= 0)
	}
}

func (e *evaluator) evalCall(n *callNode) (Value, error) {
	switch n.name {
	case "parseFloat":
		arg, err := e.singleArg(n.args, n.name)
		if err != nil {
			return Value{}, err
		}
		return Number(parseFloatPrefix(arg.AsString())), nil

	case "parseInt":
		arg, err := e.singleArg(n.args, n.name)
		if err != nil {
			return Value{}, err
		}
		return Number(parseIntPrefix(arg.AsString())), nil

	default:
		return Value{}, errors.Newf(errors.TypeEvaluation, "unknown function %q", n.name)
	}
}

func (e *evaluator) evalMethod(n *methodNode) (Value, error) {
	recv, err := e.eval(n.receiver)
	if err != nil {
		return Value{}, err
	}

	switch n.name {
	case "toUpperCase":
		return String(strings.ToUpper(recv.AsString())), nil
	case "toLowerCase":
		return String(strings.ToLower(recv.AsString())), nil
	case "toISOString":
		t, ok := recv.Time()
		if !ok {
			return Value{}, errors.Newf(errors.TypeEvaluation, "toISOString requires a date, got %s", recv.Kind())
		}
		return String(t.UTC().Format(isoLayout)), nil
	default:
		return Value{}, errors.Newf(errors.TypeEvaluation, "unknown method %q", n.name)
	}
}

func (e *evaluator) evalNew(n *newNode) (Value, error) {
	if n.typeName != "Date" {
		return Value{}, errors.Newf(errors.TypeEvaluation, "unknown constructor %q", n.typeName)
	}
	if len(n.args) == 0 {
		return Date(time.Now()), nil
	}
	arg, err := e.eval(n.args[0])
	if err != nil {
		return Value{}, err
	}
	if arg.Kind() == KindNumber {
		return Date(time.UnixMilli(int64(arg.AsNumber())).UTC()), nil
	}
	t, err := parseDate(arg.AsString())
	if err != nil {
		return Value{}, errors.Wrapf(errors.TypeEvaluation, err, "invalid date %q", arg.AsString())
	}
	return Date(t), nil
}

func (e *evaluator) singleArg(args []node, name string) (Value, error) {
	if len(args) != 1 {
		return Value{}, errors.Newf(errors.TypeEvaluation, "%s takes exactly one argument", name)
	}
	return e.eval(args[0])
}

// dateLayouts are tried in order when constructing a date from a string.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

// parseFloatPrefix reads the longest numeric prefix, yielding NaN when no
// prefix parses.
func parseFloatPrefix(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	seenDot := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' || c == '+' {
			if i != 0 {
				break
			}
		} else if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else if c < '0' || c > '9' {
			break
		}
		end = i + 1
	}
	for end > 0 {
		if n, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return n
		}
		end--
	}
	return math.NaN()
}

// parseIntPrefix reads the longest leading integer, yielding NaN when
// there is none.
func parseIntPrefix(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' || c == '+' {
			if i != 0 {
				break
			}
		} else if c < '0' || c > '9' {
			break
		}
		end = i + 1
	}
	for end > 0 {
		if n, err := strconv.ParseInt(s[:end], 10, 64); err == nil {
			return float64(n)
		}
		end--
	}
	return math.NaN()
}
