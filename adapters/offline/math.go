package offline

import (
	"math"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
)

func isExpressionChar(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r == '.' || r == '+' || r == '-' || r == '*' || r == '/' || r == '(' || r == ')' || r == ' ':
		return true
	}
	return false
}

// extractExpression returns the longest contiguous run of arithmetic
// characters in the utterance, trimmed of surrounding whitespace.
func extractExpression(utterance string) string {
	var longest, current strings.Builder
	flush := func() {
		if current.Len() > longest.Len() {
			longest.Reset()
			longest.WriteString(current.String())
		}
		current.Reset()
	}
	for _, r := range utterance {
		if isExpressionChar(r) {
			current.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return strings.TrimSpace(longest.String())
}

// evaluateMath answers an arithmetic question embedded in the utterance.
// Malformed expressions, division by zero, and utterances with no usable
// expression all fall back to the fixed help string; it never fails.
func evaluateMath(utterance string) string {
	expr := extractExpression(utterance)
	if expr == "" {
		return mathHelp
	}

	parsed, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return mathHelp
	}
	raw, err := parsed.Evaluate(nil)
	if err != nil {
		return mathHelp
	}
	value, ok := raw.(float64)
	if !ok || math.IsInf(value, 0) || math.IsNaN(value) {
		return mathHelp
	}

	return "The answer is " + strconv.FormatFloat(value, 'f', -1, 64)
}
