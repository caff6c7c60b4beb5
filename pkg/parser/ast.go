package parser

import (
	"bytes"
	"strconv"
	"strings"

	"jackal/pkg/errors"
	"jackal/pkg/lexer"
	"jackal/pkg/types"
)

// --- Interfaces ---

// Node is the base interface for all AST nodes. Consumers (the XML
// exporter, the semantic analyser, the code generator) traverse the tree
// with exhaustive type switches over the concrete node kinds.
type Node interface {
	Pos() errors.Position // 1-based source position of the node's first token
	String() string       // Source-like representation of the node (for debugging)
}

// Statement represents a statement node in the AST.
type Statement interface {
	Node
	statementNode()
}

// Expression represents an expression node in the AST. Every expression
// carries a slot for the type resolved by the semantic analyser; the
// parser leaves it nil.
type Expression interface {
	Node
	expressionNode()
	ResolvedType() *types.Type
	SetResolvedType(t *types.Type)
}

// baseExpression holds the resolved-type slot shared by all expressions.
type baseExpression struct {
	resolvedType *types.Type
}

func (be *baseExpression) expressionNode()               {}
func (be *baseExpression) ResolvedType() *types.Type     { return be.resolvedType }
func (be *baseExpression) SetResolvedType(t *types.Type) { be.resolvedType = t }

func tokenPos(tok lexer.Token) errors.Position {
	return errors.Position{Line: tok.Line, Column: tok.Column}
}

// --- Declarations ---

// ClassVarKind distinguishes static variables from instance fields.
type ClassVarKind int

const (
	Static ClassVarKind = iota
	Field
)

func (k ClassVarKind) String() string {
	if k == Static {
		return "static"
	}
	return "field"
}

// SubroutineKind distinguishes constructors, static functions and
// instance methods.
type SubroutineKind int

const (
	Constructor SubroutineKind = iota
	Function
	Method
)

func (k SubroutineKind) String() string {
	switch k {
	case Constructor:
		return "constructor"
	case Function:
		return "function"
	default:
		return "method"
	}
}

// ClassDecl is the root node for a compilation unit: a Jack file is
// exactly one class.
type ClassDecl struct {
	Token       lexer.Token // The 'class' keyword token
	Name        string
	ClassVars   []*ClassVarDecl
	Subroutines []*SubroutineDecl
}

func (c *ClassDecl) Pos() errors.Position { return tokenPos(c.Token) }
func (c *ClassDecl) String() string {
	var out bytes.Buffer
	out.WriteString("class " + c.Name + " {\n")
	for _, v := range c.ClassVars {
		out.WriteString("  " + v.String() + "\n")
	}
	for _, s := range c.Subroutines {
		out.WriteString("  " + s.String() + "\n")
	}
	out.WriteString("}")
	return out.String()
}

// ClassVarDecl represents `static int x, y;` or `field boolean ok;`.
type ClassVarDecl struct {
	Token lexer.Token // The 'static' or 'field' keyword token
	Kind  ClassVarKind
	Type  *types.Type // Interned
	Names []string
}

func (cv *ClassVarDecl) Pos() errors.Position { return tokenPos(cv.Token) }
func (cv *ClassVarDecl) String() string {
	return cv.Kind.String() + " " + cv.Type.String() + " " + strings.Join(cv.Names, ", ") + ";"
}

// VarDecl represents a local declaration: `var int i, sum;`.
type VarDecl struct {
	Token lexer.Token // The 'var' keyword token
	Type  *types.Type // Interned
	Names []string
}

func (v *VarDecl) Pos() errors.Position { return tokenPos(v.Token) }
func (v *VarDecl) String() string {
	return "var " + v.Type.String() + " " + strings.Join(v.Names, ", ") + ";"
}

// Parameter is a single type/name pair in a subroutine declaration.
type Parameter struct {
	Type *types.Type // Interned
	Name string
}

func (p Parameter) String() string { return p.Type.String() + " " + p.Name }

// SubroutineDecl represents a constructor, function or method.
type SubroutineDecl struct {
	Token      lexer.Token // The kind keyword token
	Kind       SubroutineKind
	ReturnType *types.Type // Interned; "void" only here
	Name       string
	Params     []Parameter
	Locals     []*VarDecl
	Body       []Statement
}

func (s *SubroutineDecl) Pos() errors.Position { return tokenPos(s.Token) }
func (s *SubroutineDecl) String() string {
	var out bytes.Buffer
	out.WriteString(s.Kind.String() + " " + s.ReturnType.String() + " " + s.Name + "(")
	for i, p := range s.Params {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(p.String())
	}
	out.WriteString(") { ")
	for _, v := range s.Locals {
		out.WriteString(v.String() + " ")
	}
	for _, st := range s.Body {
		out.WriteString(st.String() + " ")
	}
	out.WriteString("}")
	return out.String()
}

// --- Statements ---

// LetStatement represents `let x = expr;` or `let arr[i] = expr;`.
type LetStatement struct {
	Token lexer.Token // The 'let' keyword token
	Name  string
	Index Expression // nil unless assigning to an array element
	Value Expression
}

func (ls *LetStatement) statementNode()       {}
func (ls *LetStatement) Pos() errors.Position { return tokenPos(ls.Token) }
func (ls *LetStatement) String() string {
	var out bytes.Buffer
	out.WriteString("let " + ls.Name)
	if ls.Index != nil {
		out.WriteString("[" + ls.Index.String() + "]")
	}
	out.WriteString(" = ")
	if ls.Value != nil {
		out.WriteString(ls.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// IfStatement represents `if (cond) { ... }` with an optional else block.
// An empty Else list means no else was written.
type IfStatement struct {
	Token     lexer.Token // The 'if' keyword token
	Condition Expression
	Then      []Statement
	Else      []Statement
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) Pos() errors.Position { return tokenPos(is.Token) }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (" + is.Condition.String() + ") { ")
	for _, s := range is.Then {
		out.WriteString(s.String() + " ")
	}
	out.WriteString("}")
	if len(is.Else) > 0 {
		out.WriteString(" else { ")
		for _, s := range is.Else {
			out.WriteString(s.String() + " ")
		}
		out.WriteString("}")
	}
	return out.String()
}

// WhileStatement represents `while (cond) { ... }`.
type WhileStatement struct {
	Token     lexer.Token // The 'while' keyword token
	Condition Expression
	Body      []Statement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) Pos() errors.Position { return tokenPos(ws.Token) }
func (ws *WhileStatement) String() string {
	var out bytes.Buffer
	out.WriteString("while (" + ws.Condition.String() + ") { ")
	for _, s := range ws.Body {
		out.WriteString(s.String() + " ")
	}
	out.WriteString("}")
	return out.String()
}

// DoStatement represents `do Output.printInt(x);` — a subroutine call
// evaluated for its side effect only.
type DoStatement struct {
	Token lexer.Token // The 'do' keyword token
	Call  *CallExpression
}

func (ds *DoStatement) statementNode()       {}
func (ds *DoStatement) Pos() errors.Position { return tokenPos(ds.Token) }
func (ds *DoStatement) String() string       { return "do " + ds.Call.String() + ";" }

// ReturnStatement represents `return;` or `return expr;`.
type ReturnStatement struct {
	Token lexer.Token // The 'return' keyword token
	Value Expression  // nil for a bare return
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) Pos() errors.Position { return tokenPos(rs.Token) }
func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return;"
	}
	return "return " + rs.Value.String() + ";"
}

// --- Expressions ---

// IntegerLiteral represents a 32-bit signed integer constant.
type IntegerLiteral struct {
	baseExpression
	Token lexer.Token
	Value int32
}

func (il *IntegerLiteral) Pos() errors.Position { return tokenPos(il.Token) }
func (il *IntegerLiteral) String() string       { return strconv.FormatInt(int64(il.Value), 10) }

// FloatLiteral represents a floating point constant.
type FloatLiteral struct {
	baseExpression
	Token lexer.Token
	Value float64
}

func (fl *FloatLiteral) Pos() errors.Position { return tokenPos(fl.Token) }
func (fl *FloatLiteral) String() string       { return fl.Token.Literal }

// StringLiteral represents a string constant, quotes stripped.
type StringLiteral struct {
	baseExpression
	Token lexer.Token
	Value string
}

func (sl *StringLiteral) Pos() errors.Position { return tokenPos(sl.Token) }
func (sl *StringLiteral) String() string       { return "\"" + sl.Value + "\"" }

// KeywordLiteral represents one of the constant keywords: true, false,
// null or this.
type KeywordLiteral struct {
	baseExpression
	Token lexer.Token
	Value string
}

func (kl *KeywordLiteral) Pos() errors.Position { return tokenPos(kl.Token) }
func (kl *KeywordLiteral) String() string       { return kl.Value }

// Identifier represents a plain name, optionally carrying generic type
// arguments as in `Array<int>`.
type Identifier struct {
	baseExpression
	Token       lexer.Token
	Value       string
	GenericArgs []*types.Type // Interned; empty for ordinary identifiers
}

func (i *Identifier) Pos() errors.Position { return tokenPos(i.Token) }
func (i *Identifier) String() string {
	if len(i.GenericArgs) == 0 {
		return i.Value
	}
	parts := make([]string, len(i.GenericArgs))
	for n, a := range i.GenericArgs {
		parts[n] = a.String()
	}
	return i.Value + "<" + strings.Join(parts, ", ") + ">"
}

// BinaryExpression represents `left op right` with a single-character
// operator (+ - * / & | < > =).
type BinaryExpression struct {
	baseExpression
	Token    lexer.Token // The operator token
	Operator byte
	Left     Expression
	Right    Expression
}

func (be *BinaryExpression) Pos() errors.Position { return tokenPos(be.Token) }
func (be *BinaryExpression) String() string {
	return "(" + be.Left.String() + " " + string(be.Operator) + " " + be.Right.String() + ")"
}

// UnaryExpression represents `-x` or `~x`.
type UnaryExpression struct {
	baseExpression
	Token    lexer.Token // The operator token
	Operator byte
	Operand  Expression
}

func (ue *UnaryExpression) Pos() errors.Position { return tokenPos(ue.Token) }
func (ue *UnaryExpression) String() string {
	return "(" + string(ue.Operator) + ue.Operand.String() + ")"
}

// IndexExpression represents an array element access `base[index]`.
type IndexExpression struct {
	baseExpression
	Token lexer.Token // The '[' token
	Base  Expression
	Index Expression
}

func (ie *IndexExpression) Pos() errors.Position { return tokenPos(ie.Token) }
func (ie *IndexExpression) String() string {
	return "(" + ie.Base.String() + "[" + ie.Index.String() + "])"
}

// CallExpression represents a subroutine call: `foo(x)` with no
// receiver (implicit this or static context), or `obj.method(x)` /
// `Math.sqrt(x)` with one. Statement-level disambiguation ("do must be
// followed by a call") uses a comma-ok assertion to *CallExpression.
type CallExpression struct {
	baseExpression
	Token        lexer.Token // The identifier or '.' token
	Receiver     Expression  // nil for bare calls
	FunctionName string
	Arguments    []Expression
}

func (ce *CallExpression) Pos() errors.Position { return tokenPos(ce.Token) }
func (ce *CallExpression) String() string {
	var out bytes.Buffer
	if ce.Receiver != nil {
		out.WriteString(ce.Receiver.String() + ".")
	}
	out.WriteString(ce.FunctionName + "(")
	for i, arg := range ce.Arguments {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(arg.String())
	}
	out.WriteString(")")
	return out.String()
}
