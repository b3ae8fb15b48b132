package expr

import (
	"fmt"
	"strings"
)

// Rule types produced by the transformation builder.
const (
	RuleFunction    = "function"
	RuleCondition   = "condition"
	RuleCalculation = "calculation"
	RuleFormat      = "format"
)

// TransformationRule is one step of a builder-authored transformation.
// Rules compile in order, each wrapping the previous step's output.
type TransformationRule struct {
	Type       string            `json:"type"`
	Operation  string            `json:"operation"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// CompileRules compiles an ordered rule list into a single expression
// string. The accumulator starts as the bare `value` identifier, so an
// empty rule list compiles to the identity transformation. Compilation is
// deterministic: the same rules always produce the same expression.
func CompileRules(rules []TransformationRule) string {
	code := "value"
	for _, rule := range rules {
		code = applyRule(code, rule)
	}
	return code
}

func applyRule(code string, rule TransformationRule) string {
	switch rule.Type {
	case RuleFunction, RuleFormat:
		switch rule.Operation {
		case "toUpperCase":
			return code + ".toUpperCase()"
		case "toLowerCase":
			return code + ".toLowerCase()"
		case "dateToISO", "new Date().toISOString":
			return fmt.Sprintf("new Date(%s).toISOString()", code)
		}

	case RuleCalculation:
		factor := rule.Parameters["factor"]
		if factor == "" {
			return code
		}
		switch rule.Operation {
		case "multiply":
			return fmt.Sprintf("parseFloat(%s) * %s", code, factor)
		case "divide":
			return fmt.Sprintf("parseFloat(%s) / %s", code, factor)
		}

	case RuleCondition:
		if rule.Operation == "if_then_else" {
			// Only the first occurrence of the placeholder is
			// substituted, matching how the builder previews the rule.
			cond := strings.Replace(rule.Parameters["condition"], "value", code, 1)
			return fmt.Sprintf("(%s) ? '%s' : '%s'",
				cond, rule.Parameters["trueValue"], rule.Parameters["falseValue"])
		}
	}

	// Unknown rules pass the accumulator through unchanged.
	return code
}

// Classify returns the dominant rule type of a list, used as an advisory
// mapping category. An empty list has no dominant type.
func Classify(rules []TransformationRule) string {
	if len(rules) == 0 {
		return ""
	}
	counts := make(map[string]int)
	for _, r := range rules {
		counts[r.Type]++
	}
	best, bestCount := "", 0
	for _, r := range rules {
		if c := counts[r.Type]; c > bestCount {
			best, bestCount = r.Type, c
		}
	}
	return best
}
