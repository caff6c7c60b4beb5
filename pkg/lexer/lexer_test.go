package lexer

import "testing"

func TestNextToken(t *testing.T) {
	input := `class Main {
	// line comment
	field int count;
	/* block
	   comment */
	constructor Main new() {
		let msg = "hello";
		let f = 3.14;
		let x = -count + 2 * 3;
		return this;
	}
}`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{KEYWORD, "class"},
		{IDENT, "Main"},
		{SYMBOL, "{"},
		{KEYWORD, "field"},
		{KEYWORD, "int"},
		{IDENT, "count"},
		{SYMBOL, ";"},
		{KEYWORD, "constructor"},
		{IDENT, "Main"},
		{IDENT, "new"},
		{SYMBOL, "("},
		{SYMBOL, ")"},
		{SYMBOL, "{"},
		{KEYWORD, "let"},
		{IDENT, "msg"},
		{SYMBOL, "="},
		{STRING_CONST, "hello"},
		{SYMBOL, ";"},
		{KEYWORD, "let"},
		{IDENT, "f"},
		{SYMBOL, "="},
		{FLOAT_CONST, "3.14"},
		{SYMBOL, ";"},
		{KEYWORD, "let"},
		{IDENT, "x"},
		{SYMBOL, "="},
		{SYMBOL, "-"},
		{IDENT, "count"},
		{SYMBOL, "+"},
		{INT_CONST, "2"},
		{SYMBOL, "*"},
		{INT_CONST, "3"},
		{SYMBOL, ";"},
		{KEYWORD, "return"},
		{KEYWORD, "this"},
		{SYMBOL, ";"},
		{SYMBOL, "}"},
		{SYMBOL, "}"},
		{EOF, ""},
	}

	l := NewLexer(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - wrong token type. expected=%q, got=%q (literal %q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - wrong literal. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestTokenPositions(t *testing.T) {
	input := "let x = 5;\nlet y = 10;"

	l := NewLexer(input)

	expected := []struct {
		literal string
		line    int
		column  int
	}{
		{"let", 1, 1},
		{"x", 1, 5},
		{"=", 1, 7},
		{"5", 1, 9},
		{";", 1, 10},
		{"let", 2, 1},
		{"y", 2, 5},
		{"=", 2, 7},
		{"10", 2, 9},
		{";", 2, 11},
	}

	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Literal != exp.literal {
			t.Fatalf("token %d: expected literal %q, got %q", i, exp.literal, tok.Literal)
		}
		if tok.Line != exp.line || tok.Column != exp.column {
			t.Errorf("token %q: expected position %d:%d, got %d:%d",
				exp.literal, exp.line, exp.column, tok.Line, tok.Column)
		}
	}
}

func TestNumberForms(t *testing.T) {
	tests := []struct {
		input       string
		expected    TokenType
		literal     string
		nextLiteral string // first literal after the number, "" to skip
	}{
		{"42", INT_CONST, "42", ""},
		{"3.14", FLOAT_CONST, "3.14", ""},
		{"0.5", FLOAT_CONST, "0.5", ""},
		// A trailing dot is not a float: the '.' is left for the symbol scanner.
		{"7.foo", INT_CONST, "7", "."},
	}

	for _, tt := range tests {
		l := NewLexer(tt.input)
		tok := l.NextToken()
		if tok.Type != tt.expected || tok.Literal != tt.literal {
			t.Errorf("input %q: expected (%s, %q), got (%s, %q)",
				tt.input, tt.expected, tt.literal, tok.Type, tok.Literal)
		}
		if tt.nextLiteral != "" {
			next := l.NextToken()
			if next.Literal != tt.nextLiteral {
				t.Errorf("input %q: expected next literal %q, got %q",
					tt.input, tt.nextLiteral, next.Literal)
			}
		}
	}
}

func TestIllegalTokens(t *testing.T) {
	tests := []struct {
		input   string
		literal string
	}{
		{"#", "#"},
		{`"no closing quote`, "unterminated string constant"},
		{"\"broken\nstring\"", "unterminated string constant"},
		{"/* never closed", "unterminated block comment"},
	}

	for _, tt := range tests {
		l := NewLexer(tt.input)
		tok := l.NextToken()
		if tok.Type != ILLEGAL {
			t.Errorf("input %q: expected ILLEGAL, got %s (%q)", tt.input, tok.Type, tok.Literal)
			continue
		}
		if tok.Literal != tt.literal {
			t.Errorf("input %q: expected literal %q, got %q", tt.input, tt.literal, tok.Literal)
		}
	}
}

func TestLookupIdent(t *testing.T) {
	if LookupIdent("while") != KEYWORD {
		t.Errorf("expected 'while' to be a keyword")
	}
	if LookupIdent("whileLoop") != IDENT {
		t.Errorf("expected 'whileLoop' to be an identifier")
	}
}
