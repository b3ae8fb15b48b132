package expr

import (
	"strconv"

	"procost/internal/errors"
)

// AST node types. The grammar covers exactly the documented surface:
// literals, the bound input identifier, method calls, the built-in
// functions, `new Date`, arithmetic, comparisons and the ternary.
type node interface{}

type literalNode struct {
	value Value
}

type identNode struct {
	name string
}

type unaryNode struct {
	op    tokenType
	child node
}

type binaryNode struct {
	op    tokenType
	left  node
	right node
}

type ternaryNode struct {
	cond     node
	thenExpr node
	elseExpr node
}

type callNode struct {
	name string
	args []node
}

type methodNode struct {
	receiver node
	name     string
	args     []node
}

type newNode struct {
	typeName string
	args     []node
}

type parser struct {
	tokens   []token
	pos      int
	depth    int
	maxDepth int
}

func parse(input string, maxDepth int) (node, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens, maxDepth: maxDepth}
	n, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if p.peek().typ != tokenEOF {
		return nil, errors.Newf(errors.TypeParsing, "unexpected %q at position %d", p.peek().text, p.peek().pos)
	}
	return n, nil
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.typ != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(typ tokenType, what string) (token, error) {
	t := p.peek()
	if t.typ != typ {
		return t, errors.Newf(errors.TypeParsing, "expected %s at position %d, found %q", what, t.pos, t.text)
	}
	return p.next(), nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return errors.New(errors.TypeParsing, "expression nesting too deep")
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) ternary() (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	cond, err := p.equality()
	if err != nil {
		return nil, err
	}
	if p.peek().typ != tokenQuestion {
		return cond, nil
	}
	p.next()
	thenExpr, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenColon, "':'"); err != nil {
		return nil, err
	}
	elseExpr, err := p.ternary()
	if err != nil {
		return nil, err
	}
	return &ternaryNode{cond: cond, thenExpr: thenExpr, elseExpr: elseExpr}, nil
}

func (p *parser) equality() (node, error) {
	left, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokenEq || p.peek().typ == tokenNeq {
		op := p.next().typ
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) comparison() (node, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek().typ
		if t != tokenGt && t != tokenGte && t != tokenLt && t != tokenLte {
			return left, nil
		}
		op := p.next().typ
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) additive() (node, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokenPlus || p.peek().typ == tokenMinus {
		op := p.next().typ
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) multiplicative() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokenStar || p.peek().typ == tokenSlash {
		op := p.next().typ
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) unary() (node, error) {
	if p.peek().typ == tokenMinus || p.peek().typ == tokenBang {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		op := p.next().typ
		child, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: op, child: child}, nil
	}
	return p.postfix()
}

// postfix parses method-call chains: `value.toUpperCase().toLowerCase()`.
func (p *parser) postfix() (node, error) {
	n, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokenDot {
		p.next()
		name, err := p.expect(tokenIdent, "method name")
		if err != nil {
			return nil, err
		}
		args, err := p.argList()
		if err != nil {
			return nil, err
		}
		n = &methodNode{receiver: n, name: name.text, args: args}
	}
	return n, nil
}

func (p *parser) primary() (node, error) {
	t := p.peek()
	switch t.typ {
	case tokenNumber:
		p.next()
		n, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, errors.Newf(errors.TypeParsing, "malformed number %q at position %d", t.text, t.pos)
		}
		return &literalNode{value: Number(n)}, nil

	case tokenString:
		p.next()
		return &literalNode{value: String(t.text)}, nil

	case tokenLParen:
		p.next()
		inner, err := p.ternary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil

	case tokenIdent:
		p.next()
		switch t.text {
		case "true":
			return &literalNode{value: Bool(true)}, nil
		case "false":
			return &literalNode{value: Bool(false)}, nil
		case "null":
			return &literalNode{value: Null()}, nil
		case "new":
			typeName, err := p.expect(tokenIdent, "constructor name")
			if err != nil {
				return nil, err
			}
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			return &newNode{typeName: typeName.text, args: args}, nil
		}
		if p.peek().typ == tokenLParen {
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			return &callNode{name: t.text, args: args}, nil
		}
		return &identNode{name: t.text}, nil

	default:
		return nil, errors.Newf(errors.TypeParsing, "unexpected %q at position %d", t.text, t.pos)
	}
}

func (p *parser) argList() ([]node, error) {
	if _, err := p.expect(tokenLParen, "'('"); err != nil {
		return nil, err
	}
	var args []node
	if p.peek().typ == tokenRParen {
		p.next()
		return args, nil
	}
	for {
		arg, err := p.ternary()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().typ == tokenComma {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(tokenRParen, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}
