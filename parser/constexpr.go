package parser

import (
	"math"
	"strconv"
	"strings"
)

// evalConstExpr consumes a full token slice expected to be a constant
// expression (spec.md §3): a non-empty sequence of Constant tokens
// separated by "and", a comma, or an Oxford "comma and". Every token in
// tokens must be consumed; leftover or malformed separators are a syntax
// error. The digits are concatenated left-to-right and parsed as a
// signed 32-bit decimal integer; overflow is a ConstantOverflow error.
func evalConstExpr(tokens []PhraseToken, line int) (int32, *Error) {
	if len(tokens) == 0 {
		return 0, NewError(line, ErrorSyntax, "empty constant expression")
	}

	var digits strings.Builder
	i := 0

	if tokens[i].Kind != TokConstant {
		return 0, NewError(line, ErrorSyntax, "expected a constant name in constant expression")
	}
	digits.WriteString(strconv.Itoa(tokens[i].Constant))
	i++

	for i < len(tokens) {
		// Separator: comma, optionally followed by "and"; or bare "and".
		switch {
		case tokens[i].Kind == TokComma:
			i++
			if i < len(tokens) && tokens[i].Kind == TokKeyword && tokens[i].Keyword == KwAnd {
				i++
			}
		case tokens[i].Kind == TokKeyword && tokens[i].Keyword == KwAnd:
			i++
		default:
			return 0, NewError(line, ErrorSyntax, "expected ',' or 'and' between constants")
		}

		if i >= len(tokens) || tokens[i].Kind != TokConstant {
			return 0, NewError(line, ErrorSyntax, "expected a constant name after separator")
		}
		digits.WriteString(strconv.Itoa(tokens[i].Constant))
		i++
	}

	n, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil || n < math.MinInt32 || n > math.MaxInt32 {
		return 0, NewError(line, ErrorConstantOverflow,
			"constant expression \""+digits.String()+"\" does not fit in a signed 32-bit integer")
	}

	return int32(n), nil
}
