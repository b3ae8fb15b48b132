package expr

import (
	"strings"
	"unicode"

	"procost/internal/errors"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenNumber
	tokenString
	tokenIdent
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenLParen
	tokenRParen
	tokenDot
	tokenComma
	tokenQuestion
	tokenColon
	tokenBang
	tokenEq  // ==
	tokenNeq // !=
	tokenGt
	tokenGte
	tokenLt
	tokenLte
)

type token struct {
	typ  tokenType
	text string
	pos  int
}

// lex tokenizes an expression. The token set is the full sandbox surface:
// anything outside it fails here, before evaluation begins.
func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c >= '0' && c <= '9' || c == '.' && i+1 < len(input) && isDigit(input[i+1]):
			start := i
			for i < len(input) && (isDigit(input[i]) || input[i] == '.') {
				i++
			}
			tokens = append(tokens, token{tokenNumber, input[start:i], start})
		case c == '\'' || c == '"':
			quote := c
			start := i
			i++
			var sb strings.Builder
			for i < len(input) && input[i] != quote {
				if input[i] == '\\' && i+1 < len(input) {
					i++
				}
				sb.WriteByte(input[i])
				i++
			}
			if i >= len(input) {
				return nil, errors.Newf(errors.TypeParsing, "unterminated string at position %d", start)
			}
			i++
			tokens = append(tokens, token{tokenString, sb.String(), start})
		case isIdentStart(rune(c)):
			start := i
			for i < len(input) && isIdentPart(rune(input[i])) {
				i++
			}
			tokens = append(tokens, token{tokenIdent, input[start:i], start})
		default:
			start := i
			two := ""
			if i+1 < len(input) {
				two = input[i : i+2]
			}
			switch {
			case two == "==":
				tokens = append(tokens, token{tokenEq, "==", start})
				i += 2
				if i < len(input) && input[i] == '=' { // ===
					i++
				}
			case two == "!=":
				tokens = append(tokens, token{tokenNeq, "!=", start})
				i += 2
				if i < len(input) && input[i] == '=' { // !==
					i++
				}
			case two == ">=":
				tokens = append(tokens, token{tokenGte, ">=", start})
				i += 2
			case two == "<=":
				tokens = append(tokens, token{tokenLte, "<=", start})
				i += 2
			default:
				var typ tokenType
				switch c {
				case '+':
					typ = tokenPlus
				case '-':
					typ = tokenMinus
				case '*':
					typ = tokenStar
				case '/':
					typ = tokenSlash
				case '(':
					typ = tokenLParen
				case ')':
					typ = tokenRParen
				case '.':
					typ = tokenDot
				case ',':
					typ = tokenComma
				case '?':
					typ = tokenQuestion
				case ':':
					typ = tokenColon
				case '!':
					typ = tokenBang
				case '>':
					typ = tokenGt
				case '<':
					typ = tokenLt
				default:
					return nil, errors.Newf(errors.TypeParsing, "unexpected character %q at position %d", string(c), i)
				}
				tokens = append(tokens, token{typ, string(c), start})
				i++
			}
		}
	}
	tokens = append(tokens, token{tokenEOF, "", len(input)})
	return tokens, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
