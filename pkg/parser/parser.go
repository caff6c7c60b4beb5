package parser

import (
	"fmt"
	"strconv"

	"jackal/pkg/errors"
	"jackal/pkg/lexer"
	"jackal/pkg/types"
)

// Operator precedence levels, lowest binds loosest.
const (
	LOWEST      int = iota + 1
	EQUALS          // =
	LESSGREATER     // < or >
	SUM             // + - |
	PRODUCT         // * / &
	PREFIX          // -x or ~x
	CALL            // obj.method(...)
	INDEX           // arr[i]
)

type (
	nudFn func() Expression           // prefix position handler
	ledFn func(Expression) Expression // infix position handler
)

// parseRule bundles the handlers and binding power for one token shape.
type parseRule struct {
	nud        nudFn
	led        ledFn
	precedence int
}

// Parser consumes tokens from a Lexer and produces a ClassDecl plus a
// list of syntax errors. It never stops at the first error: panic-mode
// recovery resynchronizes at statement and declaration boundaries so one
// run reports as many independent problems as possible.
//
// Statement and declaration structure is parsed by recursive descent;
// expressions go through a Pratt dispatch over two tables. textRules is
// keyed by the literal text of symbols and keywords, kindRules by token
// kind for the open-ended shapes (identifiers and constants). Text wins
// over kind.
type Parser struct {
	l        *lexer.Lexer
	registry *types.Registry

	curToken lexer.Token
	errs     []errors.JackalError

	textRules map[string]parseRule
	kindRules map[lexer.TokenType]parseRule
}

// NewParser creates a parser for a single compilation unit. Types
// encountered while parsing are interned through registry, which may be
// shared across parsers.
func NewParser(l *lexer.Lexer, registry *types.Registry) *Parser {
	p := &Parser{l: l, registry: registry}
	p.initRules()
	p.advance() // Load the first token
	return p
}

func (p *Parser) initRules() {
	p.kindRules = map[lexer.TokenType]parseRule{
		lexer.INT_CONST:    {nud: p.parseIntegerNud},
		lexer.FLOAT_CONST:  {nud: p.parseFloatNud},
		lexer.STRING_CONST: {nud: p.parseStringNud},
		lexer.IDENT:        {nud: p.parseIdentifierNud},
	}

	p.textRules = map[string]parseRule{
		"(": {nud: p.parseGroupNud},
		"~": {nud: p.parseUnaryNud, precedence: PREFIX},
		"-": {nud: p.parseUnaryNud, led: p.parseBinaryLed, precedence: SUM},

		"+": {led: p.parseBinaryLed, precedence: SUM},
		"*": {led: p.parseBinaryLed, precedence: PRODUCT},
		"/": {led: p.parseBinaryLed, precedence: PRODUCT},
		"&": {led: p.parseBinaryLed, precedence: PRODUCT},
		"|": {led: p.parseBinaryLed, precedence: SUM},
		"=": {led: p.parseBinaryLed, precedence: EQUALS},
		"<": {led: p.parseBinaryLed, precedence: LESSGREATER},
		">": {led: p.parseBinaryLed, precedence: LESSGREATER},

		".": {led: p.parseCallLed, precedence: CALL},
		"[": {led: p.parseIndexLed, precedence: INDEX},

		"this":  {nud: p.parseKeywordNud},
		"true":  {nud: p.parseKeywordNud},
		"false": {nud: p.parseKeywordNud},
		"null":  {nud: p.parseKeywordNud},
	}
}

// getRule resolves the dispatch for a token: specific text first (for
// symbols and keywords), then the generic kind. Tokens with no rule get
// the zero rule, whose LOWEST-below precedence stops the Pratt loop.
func (p *Parser) getRule(tok lexer.Token) parseRule {
	if tok.Type == lexer.SYMBOL || tok.Type == lexer.KEYWORD {
		if rule, ok := p.textRules[tok.Literal]; ok {
			return rule
		}
	}
	if rule, ok := p.kindRules[tok.Type]; ok {
		return rule
	}
	return parseRule{}
}

// Parse consumes the whole token stream and returns the class together
// with every error collected along the way. The class node is returned
// even when errors occurred; callers must treat it as unusable for
// later phases whenever the error list is non-empty.
func (p *Parser) Parse() (*ClassDecl, []errors.JackalError) {
	// A Jack file is exactly one class.
	class := p.parseClass()

	if !p.check(lexer.EOF, "") {
		p.reportError("Unexpected tokens after class definition. A single file can contain only one class")
	}

	return class, p.errs
}

// Errors returns the errors collected so far.
func (p *Parser) Errors() []errors.JackalError { return p.errs }

// --- Token navigation ---

// advance moves to the next token, reporting and skipping illegal
// tokens so the grammar rules only ever see well-formed input.
func (p *Parser) advance() {
	for {
		tok := p.l.NextToken()
		if tok.Type != lexer.ILLEGAL {
			p.curToken = tok
			return
		}
		msg := tok.Literal
		if len(msg) == 1 {
			msg = fmt.Sprintf("Unexpected character '%s'", msg)
		}
		p.errs = append(p.errs, &errors.SyntaxError{
			Position: errors.Position{Line: tok.Line, Column: tok.Column},
			Msg:      msg,
		})
	}
}

// check reports whether the current token has the given kind, and the
// given literal text when text is non-empty.
func (p *Parser) check(t lexer.TokenType, text string) bool {
	if p.curToken.Type != t {
		return false
	}
	if text != "" && p.curToken.Literal != text {
		return false
	}
	return true
}

// match consumes the current token and returns true if it matches,
// otherwise leaves the token in place and returns false.
func (p *Parser) match(t lexer.TokenType, text string) bool {
	if p.check(t, text) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches. Otherwise it reports
// an error and enters panic-mode recovery.
func (p *Parser) expect(t lexer.TokenType, text string) bool {
	if p.match(t, text) {
		return true
	}

	expected := text
	if expected == "" {
		expected = "Token Type " + string(t)
	}
	found := p.curToken.Literal
	if found == "" {
		found = "EOF or Unknown"
	}

	p.reportError("Expected '" + expected + "' but found '" + found + "'")
	p.synchronize()
	return false
}

// reportError records a syntax error at the current token.
func (p *Parser) reportError(msg string) {
	p.errs = append(p.errs, &errors.SyntaxError{
		Position: errors.Position{Line: p.curToken.Line, Column: p.curToken.Column},
		Msg:      msg,
	})
}

// synchronize implements panic-mode recovery: skip past the offending
// token, then discard input until a point where parsing can safely
// resume. A ';' is consumed (the statement is over); a keyword that
// starts a declaration or statement is left in place for the caller.
func (p *Parser) synchronize() {
	// Always advance past the token that caused the immediate error.
	p.advance()

	for !p.check(lexer.EOF, "") {
		if p.check(lexer.SYMBOL, ";") {
			p.advance()
			return
		}

		if p.curToken.Type == lexer.KEYWORD {
			switch p.curToken.Literal {
			case "class", "constructor", "function", "method",
				"var", "let", "do", "if", "while", "return":
				return
			}
		}

		p.advance()
	}
}

// --- Types ---

// parseType parses a (possibly generic) type expression and interns it.
// allowVoid permits 'void', which is only legal as a return type.
// Returns nil after reporting when the current token is not a type; the
// caller decides whether to synchronize.
func (p *Parser) parseType(allowVoid bool) *types.Type {
	val := p.curToken.Literal

	isPrimitive := val == "int" || val == "char" || val == "boolean" || val == "float"
	isVoid := val == "void"
	isClass := p.curToken.Type == lexer.IDENT

	if !isPrimitive && !isClass && !(isVoid && allowVoid) {
		if isVoid {
			p.reportError("Variable cannot be of type 'void'.")
		} else {
			p.reportError("Expected a valid type.")
		}
		return nil
	}

	t := types.New(val)
	p.advance()

	if p.match(lexer.SYMBOL, "<") {
		for {
			if arg := p.parseType(false); arg != nil {
				t.AddGenericArg(arg)
			}
			if !p.match(lexer.SYMBOL, ",") {
				break
			}
		}
		p.expect(lexer.SYMBOL, ">")
	}

	return p.registry.Intern(t)
}

// --- Declarations ---

func (p *Parser) parseClass() *ClassDecl {
	classTok := p.curToken

	p.expect(lexer.KEYWORD, "class")
	className := p.curToken.Literal
	p.expect(lexer.IDENT, "")
	p.expect(lexer.SYMBOL, "{")

	var vars []*ClassVarDecl
	var subs []*SubroutineDecl
	hasConstructor := false

	for !p.check(lexer.SYMBOL, "}") && !p.check(lexer.EOF, "") {
		switch val := p.curToken.Literal; val {
		case "static", "field":
			if len(subs) > 0 {
				p.reportError("Class variables must be declared before subroutines.")
				p.synchronize()
				continue
			}
			if varDec := p.parseClassVarDec(); varDec != nil {
				vars = append(vars, varDec)
			}
		case "constructor", "function", "method":
			if val == "constructor" {
				hasConstructor = true
			}
			if subDec := p.parseSubroutineDec(); subDec != nil {
				subs = append(subs, subDec)
			}
		default:
			p.reportError("Only 'static', 'field', 'constructor', 'function', or 'method' allowed in class scope.")
			p.synchronize()
		}
	}

	// Every class must have a constructor.
	if !hasConstructor {
		p.reportError("Class '" + className + "' must have at least one constructor.")
	}

	p.expect(lexer.SYMBOL, "}")

	return &ClassDecl{Token: classTok, Name: className, ClassVars: vars, Subroutines: subs}
}

func (p *Parser) parseClassVarDec() *ClassVarDecl {
	tok := p.curToken

	kind := Field
	if p.curToken.Literal == "static" {
		kind = Static
	}
	p.advance()

	typ := p.parseType(false)
	if typ == nil {
		p.synchronize()
		return nil
	}

	var names []string
	for {
		if p.curToken.Type != lexer.IDENT {
			p.reportError("Expected variable name in class variable declaration.")
			p.synchronize()
			return nil
		}
		names = append(names, p.curToken.Literal)
		p.advance()
		if !p.match(lexer.SYMBOL, ",") {
			break
		}
	}

	p.expect(lexer.SYMBOL, ";")

	return &ClassVarDecl{Token: tok, Kind: kind, Type: typ, Names: names}
}

func (p *Parser) parseSubroutineDec() *SubroutineDecl {
	tok := p.curToken

	var kind SubroutineKind
	switch p.curToken.Literal {
	case "constructor":
		kind = Constructor
	case "function":
		kind = Function
	default:
		kind = Method
	}
	p.advance()

	returnType := p.parseType(true)
	if returnType == nil {
		p.synchronize()
		return nil
	}

	name := p.curToken.Literal
	p.expect(lexer.IDENT, "")

	p.expect(lexer.SYMBOL, "(")
	params := p.parseParameterList()
	p.expect(lexer.SYMBOL, ")")

	p.expect(lexer.SYMBOL, "{")
	locals := p.parseLocalVars()
	body := p.parseStatements()
	p.expect(lexer.SYMBOL, "}")

	return &SubroutineDecl{
		Token:      tok,
		Kind:       kind,
		ReturnType: returnType,
		Name:       name,
		Params:     params,
		Locals:     locals,
		Body:       body,
	}
}

func (p *Parser) parseParameterList() []Parameter {
	var params []Parameter

	if p.check(lexer.SYMBOL, ")") {
		return params
	}

	for {
		typ := p.parseType(false)
		if typ == nil {
			// Error reported in parseType; the caller's expect(')')
			// handles recovery.
			return params
		}

		if p.curToken.Type != lexer.IDENT {
			p.reportError("Expected parameter name after type.")
			return params
		}
		name := p.curToken.Literal
		p.advance()

		params = append(params, Parameter{Type: typ, Name: name})

		if !p.match(lexer.SYMBOL, ",") {
			break
		}
	}

	return params
}

func (p *Parser) parseLocalVars() []*VarDecl {
	var decls []*VarDecl

	for p.check(lexer.KEYWORD, "var") {
		tok := p.curToken
		p.advance()

		typ := p.parseType(false)
		if typ == nil {
			p.synchronize()
			continue
		}

		var names []string
		for {
			if p.curToken.Type != lexer.IDENT {
				p.reportError("Expected variable name after type in 'var' declaration.")
				break
			}
			names = append(names, p.curToken.Literal)
			p.advance()
			if !p.match(lexer.SYMBOL, ",") {
				break
			}
		}

		p.expect(lexer.SYMBOL, ";")
		decls = append(decls, &VarDecl{Token: tok, Type: typ, Names: names})
	}

	return decls
}

// --- Statements ---

func (p *Parser) parseStatements() []Statement {
	var statements []Statement

	for !p.check(lexer.SYMBOL, "}") && !p.check(lexer.EOF, "") {
		var stmt Statement

		switch p.curToken.Literal {
		case "let":
			stmt = p.parseLetStatement()
		case "if":
			stmt = p.parseIfStatement()
		case "while":
			stmt = p.parseWhileStatement()
		case "do":
			stmt = p.parseDoStatement()
		case "return":
			stmt = p.parseReturnStatement()
		default:
			p.reportError("Expected a statement (let, if, while, do, return).")
			p.synchronize()
			continue
		}

		if stmt != nil {
			statements = append(statements, stmt)
		}
	}

	if p.check(lexer.EOF, "") {
		p.reportError("Missing '}' at end of subroutine.")
	}

	return statements
}

func (p *Parser) parseLetStatement() Statement {
	tok := p.curToken
	p.advance() // consume 'let'

	varName := p.curToken.Literal
	p.expect(lexer.IDENT, "")

	// Optional array index: arr[expression]
	var indexExpr Expression
	if p.match(lexer.SYMBOL, "[") {
		indexExpr = p.parseExpression(LOWEST)
		p.expect(lexer.SYMBOL, "]")
	}

	p.expect(lexer.SYMBOL, "=")
	valueExpr := p.parseExpression(LOWEST)

	// A leftover token here means the expression stopped early, most
	// often a typo'd operator. Report it with the friendlier message
	// before expect trips over the ';'.
	if !p.check(lexer.SYMBOL, ";") && !p.check(lexer.SYMBOL, ",") && !p.check(lexer.SYMBOL, "]") {
		p.reportError("Expected an operator or ';' but found '" + p.curToken.Literal + "'")
		p.synchronize()
	}
	p.expect(lexer.SYMBOL, ";")

	return &LetStatement{Token: tok, Name: varName, Index: indexExpr, Value: valueExpr}
}

func (p *Parser) parseIfStatement() Statement {
	tok := p.curToken
	p.advance() // consume 'if'

	p.expect(lexer.SYMBOL, "(")
	condition := p.parseExpression(LOWEST)
	if condition == nil {
		return nil
	}

	if !p.check(lexer.SYMBOL, ")") {
		p.reportError("Expected operator or ')' but found '" + p.curToken.Literal + "'")
		p.synchronize()
	}
	p.expect(lexer.SYMBOL, ")")

	p.expect(lexer.SYMBOL, "{")
	thenBranch := p.parseStatements()
	p.expect(lexer.SYMBOL, "}")

	var elseBranch []Statement
	if p.match(lexer.KEYWORD, "else") {
		p.expect(lexer.SYMBOL, "{")
		elseBranch = p.parseStatements()
		p.expect(lexer.SYMBOL, "}")
	}

	return &IfStatement{Token: tok, Condition: condition, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) parseWhileStatement() Statement {
	tok := p.curToken
	p.advance() // consume 'while'

	p.expect(lexer.SYMBOL, "(")
	condition := p.parseExpression(LOWEST)
	if condition == nil {
		return nil
	}

	if !p.check(lexer.SYMBOL, ")") {
		p.reportError("Expected operator or ')' but found '" + p.curToken.Literal + "'")
		p.synchronize()
	}
	p.expect(lexer.SYMBOL, ")")

	p.expect(lexer.SYMBOL, "{")
	body := p.parseStatements()
	p.expect(lexer.SYMBOL, "}")

	return &WhileStatement{Token: tok, Condition: condition, Body: body}
}

func (p *Parser) parseDoStatement() Statement {
	tok := p.curToken
	p.advance() // consume 'do'

	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	call, ok := expr.(*CallExpression)
	if !ok {
		p.reportError("The 'do' keyword must be followed by a subroutine call.")
		return nil
	}

	if !p.check(lexer.SYMBOL, ";") {
		p.reportError("Expected ';' after subroutine call but found '" + p.curToken.Literal + "'")
		p.synchronize()
	}

	p.expect(lexer.SYMBOL, ";")
	return &DoStatement{Token: tok, Call: call}
}

func (p *Parser) parseReturnStatement() Statement {
	tok := p.curToken
	p.advance() // consume 'return'

	var expr Expression
	if !p.check(lexer.SYMBOL, ";") {
		expr = p.parseExpression(LOWEST)
		if expr == nil {
			p.reportError("Expected expression after 'return'")
			// parseExpression already synchronized.
			return nil
		}
	}

	p.expect(lexer.SYMBOL, ";")
	return &ReturnStatement{Token: tok, Value: expr}
}

// --- Expressions ---

// parseExpression is the core Pratt loop: consume a prefix form, then
// fold in infix operators as long as their binding power exceeds the
// caller's.
func (p *Parser) parseExpression(precedence int) Expression {
	prefixRule := p.getRule(p.curToken).nud
	if prefixRule == nil {
		p.reportError("Unexpected token starting an expression")
		p.synchronize()
		return nil
	}

	left := prefixRule()
	if left == nil {
		return nil
	}

	for precedence < p.getRule(p.curToken).precedence {
		infixRule := p.getRule(p.curToken).led
		if infixRule == nil {
			break
		}
		left = infixRule(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) parseIntegerNud() Expression {
	tok := p.curToken

	value, err := strconv.ParseInt(tok.Literal, 10, 32)
	if err != nil {
		p.reportError("Integer constant '" + tok.Literal + "' is out of range.")
		p.advance()
		return nil
	}
	p.advance()

	return &IntegerLiteral{Token: tok, Value: int32(value)}
}

func (p *Parser) parseFloatNud() Expression {
	tok := p.curToken

	value, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.reportError("Float constant '" + tok.Literal + "' is out of range.")
		p.advance()
		return nil
	}
	p.advance()

	return &FloatLiteral{Token: tok, Value: value}
}

func (p *Parser) parseStringNud() Expression {
	tok := p.curToken
	p.advance()
	return &StringLiteral{Token: tok, Value: tok.Literal}
}

func (p *Parser) parseKeywordNud() Expression {
	tok := p.curToken
	p.advance()
	return &KeywordLiteral{Token: tok, Value: tok.Literal}
}

// parseIdentifierNud handles the three shapes an identifier can open:
// a plain name, a generic instantiation (only for 'Array', whose '<'
// would otherwise be ambiguous with less-than), and a bare call when a
// '(' follows.
func (p *Parser) parseIdentifierNud() Expression {
	tok := p.curToken
	name := tok.Literal
	p.advance()

	var generics []*types.Type
	if name == "Array" && p.check(lexer.SYMBOL, "<") {
		p.advance() // consume '<'
		for {
			if arg := p.parseType(false); arg != nil {
				generics = append(generics, arg)
			}
			if !p.match(lexer.SYMBOL, ",") {
				break
			}
		}
		p.expect(lexer.SYMBOL, ">")
	}

	if p.match(lexer.SYMBOL, "(") {
		// The identifier is actually a subroutine name. No receiver:
		// this is an implicit-this or same-class call.
		args := p.parseExpressionList()
		p.expect(lexer.SYMBOL, ")")
		return &CallExpression{Token: tok, Receiver: nil, FunctionName: name, Arguments: args}
	}

	return &Identifier{Token: tok, Value: name, GenericArgs: generics}
}

func (p *Parser) parseUnaryNud() Expression {
	tok := p.curToken
	op := tok.Literal[0]
	p.advance()

	// The operand binds at PREFIX, so -a + b parses as (-a) + b.
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}

	return &UnaryExpression{Token: tok, Operator: op, Operand: operand}
}

func (p *Parser) parseGroupNud() Expression {
	p.advance() // consume '('

	// Precedence resets to LOWEST inside parentheses.
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	p.expect(lexer.SYMBOL, ")")
	return expr // No group node; the inner expression is enough.
}

func (p *Parser) parseBinaryLed(left Expression) Expression {
	tok := p.curToken
	op := tok.Literal[0]

	precedence := p.getRule(tok).precedence
	p.advance()

	// Left-associative by default; '=' associates to the right, which
	// one-lower binding power on the recursive call achieves.
	nextPrecedence := precedence
	if op == '=' {
		nextPrecedence = precedence - 1
	}
	right := p.parseExpression(nextPrecedence)
	if right == nil {
		return nil
	}

	return &BinaryExpression{Token: tok, Operator: op, Left: left, Right: right}
}

func (p *Parser) parseCallLed(left Expression) Expression {
	tok := p.curToken
	p.advance() // consume '.'

	methodName := p.curToken.Literal
	p.expect(lexer.IDENT, "")

	p.expect(lexer.SYMBOL, "(")
	args := p.parseExpressionList()
	p.expect(lexer.SYMBOL, ")")

	return &CallExpression{Token: tok, Receiver: left, FunctionName: methodName, Arguments: args}
}

func (p *Parser) parseIndexLed(left Expression) Expression {
	tok := p.curToken
	p.advance() // consume '['

	// Any expression may appear inside the brackets.
	index := p.parseExpression(LOWEST)
	if index == nil {
		return nil
	}

	if !p.check(lexer.SYMBOL, "]") {
		p.reportError("Expected operator or ']' but found '" + p.curToken.Literal + "'")
		p.synchronize()
	}
	p.expect(lexer.SYMBOL, "]")

	return &IndexExpression{Token: tok, Base: left, Index: index}
}

// parseExpressionList parses a comma-separated argument list; the
// caller owns the surrounding parentheses.
func (p *Parser) parseExpressionList() []Expression {
	var expressions []Expression

	// Empty list: '()'
	if p.check(lexer.SYMBOL, ")") {
		return expressions
	}

	for {
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return expressions // parseExpression already reported
		}
		expressions = append(expressions, expr)

		if !p.check(lexer.SYMBOL, ",") && !p.check(lexer.SYMBOL, ")") {
			p.reportError("Expected ',' or ')' but found '" + p.curToken.Literal + "'")
			p.synchronize()
			break
		}
		if !p.match(lexer.SYMBOL, ",") {
			break
		}
	}

	return expressions
}
