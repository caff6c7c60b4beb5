package parser

import (
	"strings"
	"testing"

	"jackal/pkg/lexer"
	"jackal/pkg/types"
)

func TestEscapeXML(t *testing.T) {
	got := escapeXML(`a < b & "c" > d`)
	want := "a &lt; b &amp; &quot;c&quot; &gt; d"
	if got != want {
		t.Errorf("escapeXML: expected %q, got %q", want, got)
	}
}

func TestXMLDump(t *testing.T) {
	src := `class Main {
	field Array<int> data;
	constructor Main new(int size) {
		let data = Array.new(size);
		return this;
	}
	function void main() {
		do Output.printInt(data[0] + 1);
		return;
	}
}`

	p := NewParser(lexer.NewLexer(src), types.NewRegistry())
	class, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("unexpected errors:\n%s", errorDump(errs))
	}

	xml := XMLString(class)

	wantFragments := []string{
		"<classNode>",
		"<className> Main </className>",
		"<classVarDec>",
		"<kind> field </kind>",
		"<type> Array&lt;int&gt; </type>",
		"<subroutineType> constructor </subroutineType>",
		"<returnType> Main </returnType>",
		"<parameterList>",
		"<parameter>",
		"<subroutineBody>",
		"<statements>",
		"<letStatement>",
		"<varName> data </varName>",
		"<callNode>",
		"<methodName> new </methodName>",
		"<expressionList>",
		"<keywordConstant> this </keywordConstant>",
		"<doStatement>",
		"<binaryOpNode>",
		"<op> + </op>",
		"<arrayAccessNode>",
		"<integerConstant> 1 </integerConstant>",
		"<returnStatement>",
		"</classNode>",
	}

	for _, frag := range wantFragments {
		if !strings.Contains(xml, frag) {
			t.Errorf("XML dump missing %q\n%s", frag, xml)
		}
	}
}

func TestXMLGenericsAndUnary(t *testing.T) {
	src := `class T {
	constructor T new() {
		let a = Array<int>;
		let b = -a;
		return this;
	}
}`

	p := NewParser(lexer.NewLexer(src), types.NewRegistry())
	class, errs := p.Parse()
	if len(errs) > 0 {
		t.Fatalf("unexpected errors:\n%s", errorDump(errs))
	}

	xml := XMLString(class)
	for _, frag := range []string{
		"<identifierNode>",
		"<generics>",
		"<typeArg> int </typeArg>",
		"<unaryOpNode>",
		"<op> - </op>",
	} {
		if !strings.Contains(xml, frag) {
			t.Errorf("XML dump missing %q\n%s", frag, xml)
		}
	}
}
