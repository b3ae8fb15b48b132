package expr

import (
	"strings"
	"testing"

	"procost/internal/errors"
)

func TestEvaluateBasics(t *testing.T) {
	cases := []struct {
		name  string
		expr  string
		input string
		want  string
	}{
		{"identity", "value", "hello", "hello"},
		{"upper", "value.toUpperCase()", "hello", "HELLO"},
		{"lower", "value.toLowerCase()", "HeLLo", "hello"},
		{"chained methods", "value.toUpperCase().toLowerCase()", "MiXeD", "mixed"},
		{"parse float", "parseFloat(value)", "2.5", "2.5"},
		{"parse float prefix", "parseFloat(value)", "12.5kg", "12.5"},
		{"parse int", "parseInt(value)", "42 boxes", "42"},
		{"arithmetic", "parseFloat(value) * 1000", "2.5", "2500"},
		{"division", "parseFloat(value) / 4", "10", "2.5"},
		{"precedence", "1 + 2 * 3", "", "7"},
		{"parens", "(1 + 2) * 3", "", "9"},
		{"unary minus", "-parseFloat(value)", "5", "-5"},
		{"concatenation", "value + ' kg'", "25", "25 kg"},
		{"ternary true", "parseFloat(value) > 10 ? 'big' : 'small'", "25", "big"},
		{"ternary false", "parseFloat(value) > 10 ? 'big' : 'small'", "3", "small"},
		{"equality", "value == 'yes' ? '1' : '0'", "yes", "1"},
		{"loose numeric equality", "parseFloat(value) == 5 ? 'eq' : 'ne'", "5.0", "eq"},
		{"date to iso", "new Date(value).toISOString()", "2024-01-15", "2024-01-15T00:00:00.000Z"},
		{"string literal", "'fixed'", "anything", "fixed"},
		{"not", "!value", "", "true"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(tc.expr, tc.input)
			if err != nil {
				t.Fatalf("Evaluate(%q, %q): %v", tc.expr, tc.input, err)
			}
			if got.AsString() != tc.want {
				t.Errorf("Evaluate(%q, %q) = %q, want %q", tc.expr, tc.input, got.AsString(), tc.want)
			}
		})
	}
}

// The sandbox exposes the bound input and the documented built-ins,
// nothing else.
func TestEvaluateSandbox(t *testing.T) {
	rejected := []string{
		"process",
		"globalThis.process",
		"require('fs')",
		"eval('1')",
		"value.constructor",
		"new XMLHttpRequest()",
		"fetch('http://example.com')",
		"window",
	}
	for _, expr := range rejected {
		if _, err := Evaluate(expr, "x"); err == nil {
			t.Errorf("expected %q to be rejected", expr)
		}
	}
}

func TestEvaluateErrors(t *testing.T) {
	cases := []string{
		"",
		"value +",
		"(value",
		"value.toUpperCase(",
		"'unterminated",
		"value ? 'a'",
		"parseFloat()",
		"value.noSuchMethod()",
		"value.toISOString()", // string receiver, not a date
		"new Date('not a date').toISOString()",
	}
	for _, expr := range cases {
		_, err := Evaluate(expr, "x")
		if err == nil {
			t.Errorf("expected %q to fail", expr)
			continue
		}
		if !errors.IsType(err, errors.TypeEvaluation) {
			t.Errorf("expected an evaluation error for %q, got %v", expr, err)
		}
	}
}

func TestEvaluateLimits(t *testing.T) {
	long := "'" + strings.Repeat("a", 50) + "'"
	if _, err := EvaluateWith(Options{MaxExpressionLength: 10}, long, ""); err == nil {
		t.Error("expected the length limit to reject the expression")
	}

	deep := strings.Repeat("(", 60) + "value" + strings.Repeat(")", 60)
	if _, err := EvaluateWith(Options{MaxNestingDepth: 10}, deep, "x"); err == nil {
		t.Error("expected the depth limit to reject the expression")
	}
}

func TestCompileRules(t *testing.T) {
	cases := []struct {
		name  string
		rules []TransformationRule
		want  string
	}{
		{"empty is identity", nil, "value"},
		{
			"upper",
			[]TransformationRule{{Type: RuleFunction, Operation: "toUpperCase"}},
			"value.toUpperCase()",
		},
		{
			"date to iso",
			[]TransformationRule{{Type: RuleFunction, Operation: "dateToISO"}},
			"new Date(value).toISOString()",
		},
		{
			"builder-named date op",
			[]TransformationRule{{Type: RuleFunction, Operation: "new Date().toISOString"}},
			"new Date(value).toISOString()",
		},
		{
			"multiply",
			[]TransformationRule{{Type: RuleCalculation, Operation: "multiply", Parameters: map[string]string{"factor": "1000"}}},
			"parseFloat(value) * 1000",
		},
		{
			"sequential wrapping",
			[]TransformationRule{
				{Type: RuleFunction, Operation: "toLowerCase"},
				{Type: RuleCalculation, Operation: "multiply", Parameters: map[string]string{"factor": "2"}},
			},
			"parseFloat(value.toLowerCase()) * 2",
		},
		{
			"condition substitutes first placeholder",
			[]TransformationRule{{
				Type:      RuleCondition,
				Operation: "if_then_else",
				Parameters: map[string]string{
					"condition":  "value > 100",
					"trueValue":  "bulk",
					"falseValue": "retail",
				},
			}},
			"(value > 100) ? 'bulk' : 'retail'",
		},
		{
			"unknown rule passes through",
			[]TransformationRule{{Type: "mystery", Operation: "noop"}},
			"value",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CompileRules(tc.rules); got != tc.want {
				t.Errorf("CompileRules = %q, want %q", got, tc.want)
			}
		})
	}
}

// TestCompileAndEvaluate proves the compile-then-evaluate round trip.
func TestCompileAndEvaluate(t *testing.T) {
	rules := []TransformationRule{
		{Type: RuleCalculation, Operation: "multiply", Parameters: map[string]string{"factor": "1000"}},
	}
	code := CompileRules(rules)
	got, err := Evaluate(code, "2.5")
	if err != nil {
		t.Fatalf("evaluating compiled rules: %v", err)
	}
	if got.AsString() != "2500" {
		t.Errorf("expected 2500, got %q", got.AsString())
	}

	identity := CompileRules(nil)
	got, err = Evaluate(identity, "unchanged")
	if err != nil {
		t.Fatalf("evaluating identity: %v", err)
	}
	if got.AsString() != "unchanged" {
		t.Errorf("identity must return the input, got %q", got.AsString())
	}
}

func TestClassify(t *testing.T) {
	calc := TransformationRule{Type: RuleCalculation, Operation: "multiply"}
	cond := TransformationRule{Type: RuleCondition, Operation: "if_then_else"}
	fn := TransformationRule{Type: RuleFunction, Operation: "toUpperCase"}

	cases := []struct {
		rules []TransformationRule
		want  string
	}{
		{nil, ""},
		{[]TransformationRule{fn}, RuleFunction},
		{[]TransformationRule{calc, calc, cond}, RuleCalculation},
		{[]TransformationRule{cond, calc, cond}, RuleCondition},
		// Ties go to the earliest rule's type.
		{[]TransformationRule{fn, calc}, RuleFunction},
	}
	for _, tc := range cases {
		if got := Classify(tc.rules); got != tc.want {
			t.Errorf("Classify(%v) = %q, want %q", tc.rules, got, tc.want)
		}
	}
}
