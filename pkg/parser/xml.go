package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// xmlWriter emits an indented XML dump of the AST. Handy for diffing
// parser output and for eyeballing how a snippet parsed.
type xmlWriter struct {
	out    io.Writer
	indent int
}

// WriteXML writes an XML rendering of the node tree to w.
func WriteXML(w io.Writer, node Node) {
	x := &xmlWriter{out: w}
	x.writeNode(node)
}

// XMLString renders the node tree as an XML string.
func XMLString(node Node) string {
	var buf bytes.Buffer
	WriteXML(&buf, node)
	return buf.String()
}

func (x *xmlWriter) printIndent() {
	for i := 0; i < x.indent; i++ {
		io.WriteString(x.out, "  ")
	}
}

func (x *xmlWriter) openTag(tag string) {
	x.printIndent()
	fmt.Fprintf(x.out, "<%s>\n", tag)
	x.indent++
}

func (x *xmlWriter) closeTag(tag string) {
	x.indent--
	x.printIndent()
	fmt.Fprintf(x.out, "</%s>\n", tag)
}

func (x *xmlWriter) printInline(tag, value string) {
	x.printIndent()
	fmt.Fprintf(x.out, "<%s> %s </%s>\n", tag, escapeXML(value), tag)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeXML(text string) string {
	return xmlEscaper.Replace(text)
}

// writeNode dispatches on the concrete node kind. Nil-tolerant so a
// partially recovered tree still dumps.
func (x *xmlWriter) writeNode(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *ClassDecl:
		x.openTag("classNode")
		x.printInline("className", n.Name)
		for _, v := range n.ClassVars {
			x.writeNode(v)
		}
		for _, s := range n.Subroutines {
			x.writeNode(s)
		}
		x.closeTag("classNode")

	case *ClassVarDecl:
		x.openTag("classVarDec")
		x.printInline("kind", n.Kind.String())
		if n.Type != nil {
			x.printInline("type", n.Type.String())
		}
		for _, name := range n.Names {
			x.printInline("name", name)
		}
		x.closeTag("classVarDec")

	case *VarDecl:
		x.openTag("varDec")
		if n.Type != nil {
			x.printInline("type", n.Type.String())
		}
		for _, name := range n.Names {
			x.printInline("name", name)
		}
		x.closeTag("varDec")

	case *SubroutineDecl:
		x.openTag("subroutineDec")
		x.printInline("subroutineType", n.Kind.String())
		if n.ReturnType != nil {
			x.printInline("returnType", n.ReturnType.String())
		}
		x.printInline("name", n.Name)
		x.openTag("parameterList")
		for _, p := range n.Params {
			x.openTag("parameter")
			if p.Type != nil {
				x.printInline("type", p.Type.String())
			}
			x.printInline("name", p.Name)
			x.closeTag("parameter")
		}
		x.closeTag("parameterList")
		x.openTag("subroutineBody")
		for _, local := range n.Locals {
			x.writeNode(local)
		}
		x.openTag("statements")
		for _, stmt := range n.Body {
			x.writeNode(stmt)
		}
		x.closeTag("statements")
		x.closeTag("subroutineBody")
		x.closeTag("subroutineDec")

	case *LetStatement:
		x.openTag("letStatement")
		x.printInline("varName", n.Name)
		if n.Index != nil {
			x.openTag("index")
			x.writeNode(n.Index)
			x.closeTag("index")
		}
		x.openTag("value")
		x.writeNode(n.Value)
		x.closeTag("value")
		x.closeTag("letStatement")

	case *IfStatement:
		x.openTag("ifStatement")
		x.openTag("condition")
		x.writeNode(n.Condition)
		x.closeTag("condition")
		x.openTag("ifBranch")
		for _, stmt := range n.Then {
			x.writeNode(stmt)
		}
		x.closeTag("ifBranch")
		if len(n.Else) > 0 {
			x.openTag("elseBranch")
			for _, stmt := range n.Else {
				x.writeNode(stmt)
			}
			x.closeTag("elseBranch")
		}
		x.closeTag("ifStatement")

	case *WhileStatement:
		x.openTag("whileStatement")
		x.openTag("condition")
		x.writeNode(n.Condition)
		x.closeTag("condition")
		x.openTag("body")
		for _, stmt := range n.Body {
			x.writeNode(stmt)
		}
		x.closeTag("body")
		x.closeTag("whileStatement")

	case *DoStatement:
		x.openTag("doStatement")
		x.writeNode(n.Call)
		x.closeTag("doStatement")

	case *ReturnStatement:
		x.openTag("returnStatement")
		if n.Value != nil {
			x.writeNode(n.Value)
		}
		x.closeTag("returnStatement")

	case *CallExpression:
		x.openTag("callNode")
		if n.Receiver != nil {
			x.openTag("receiver")
			x.writeNode(n.Receiver)
			x.closeTag("receiver")
		}
		x.printInline("methodName", n.FunctionName)
		x.openTag("expressionList")
		for _, arg := range n.Arguments {
			x.writeNode(arg)
		}
		x.closeTag("expressionList")
		x.closeTag("callNode")

	case *Identifier:
		x.openTag("identifierNode")
		x.printInline("name", n.Value)
		if len(n.GenericArgs) > 0 {
			x.openTag("generics")
			for _, t := range n.GenericArgs {
				x.printInline("typeArg", t.String())
			}
			x.closeTag("generics")
		}
		x.closeTag("identifierNode")

	case *BinaryExpression:
		x.openTag("binaryOpNode")
		x.openTag("left")
		x.writeNode(n.Left)
		x.closeTag("left")
		x.printInline("op", string(n.Operator))
		x.openTag("right")
		x.writeNode(n.Right)
		x.closeTag("right")
		x.closeTag("binaryOpNode")

	case *UnaryExpression:
		x.openTag("unaryOpNode")
		x.printInline("op", string(n.Operator))
		x.writeNode(n.Operand)
		x.closeTag("unaryOpNode")

	case *IndexExpression:
		x.openTag("arrayAccessNode")
		x.openTag("base")
		x.writeNode(n.Base)
		x.closeTag("base")
		x.openTag("index")
		x.writeNode(n.Index)
		x.closeTag("index")
		x.closeTag("arrayAccessNode")

	case *IntegerLiteral:
		x.printInline("integerConstant", strconv.FormatInt(int64(n.Value), 10))

	case *FloatLiteral:
		x.printInline("floatConstant", strconv.FormatFloat(n.Value, 'f', -1, 64))

	case *StringLiteral:
		x.printInline("stringConstant", n.Value)

	case *KeywordLiteral:
		x.printInline("keywordConstant", n.Value)
	}
}
