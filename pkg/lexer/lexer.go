package lexer

// TokenType represents the type of a token.
type TokenType string

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string // The actual text of the token (lexeme), quotes stripped for strings
	Line    int    // 1-based line number where the token starts
	Column  int    // 1-based column number where the token starts
}

// --- Token Types ---
const (
	// Special
	ILLEGAL TokenType = "ILLEGAL" // Unknown token/character
	EOF     TokenType = "EOF"     // End Of File

	KEYWORD      TokenType = "KEYWORD"      // class, method, let, ...
	SYMBOL       TokenType = "SYMBOL"       // { } ( ) [ ] . , ; + - * / & | < > = ~
	IDENT        TokenType = "IDENT"        // variableName, ClassName
	INT_CONST    TokenType = "INT_CONST"    // 123
	FLOAT_CONST  TokenType = "FLOAT_CONST"  // 45.67
	STRING_CONST TokenType = "STRING_CONST" // "hello world"
)

var keywords = map[string]bool{
	"class":       true,
	"constructor": true,
	"function":    true,
	"method":      true,
	"field":       true,
	"static":      true,
	"var":         true,
	"int":         true,
	"char":        true,
	"boolean":     true,
	"float":       true,
	"void":        true,
	"true":        true,
	"false":       true,
	"null":        true,
	"this":        true,
	"let":         true,
	"do":          true,
	"if":          true,
	"else":        true,
	"while":       true,
	"return":      true,
}

// LookupIdent checks the keywords table for an identifier.
func LookupIdent(ident string) TokenType {
	if keywords[ident] {
		return KEYWORD
	}
	return IDENT
}

// Lexer holds the state of the scanner.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char's byte offset)
	readPosition int  // current reading position in input (byte offset after current char)
	ch           byte // current char under examination
	line         int  // current 1-based line number
	column       int  // current 1-based column number (position of l.position on l.line)
}

// NewLexer creates a new Lexer.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar() // Initialize l.ch, l.position, l.readPosition
	return l
}

// readChar gives us the next character and advances our position in the input string.
// It also updates the line and column count.
func (l *Lexer) readChar() {
	// Before advancing, check if the current character was a newline
	if l.ch == '\n' {
		l.line++
		l.column = 0 // Reset column, it will be incremented below
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0 // NUL signifies EOF
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++ // Column of the character now at l.position
}

// peekChar looks ahead in the input without consuming the character.
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// skipWhitespace consumes whitespace characters (space, tab, newline, carriage return).
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// isSymbol reports whether ch is one of the Jack symbol characters.
func isSymbol(ch byte) bool {
	switch ch {
	case '{', '}', '(', ')', '[', ']', '.', ',', ';',
		'+', '-', '*', '/', '&', '|', '<', '>', '=', '~':
		return true
	}
	return false
}

// NextToken scans the input and returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	// Comments restart the scan after being skipped.
	if l.ch == '/' {
		if l.peekChar() == '/' {
			l.skipLineComment()
			return l.NextToken()
		}
		if l.peekChar() == '*' {
			startLine := l.line
			startCol := l.column
			if !l.skipBlockComment() {
				return Token{Type: ILLEGAL, Literal: "unterminated block comment", Line: startLine, Column: startCol}
			}
			return l.NextToken()
		}
	}

	startLine := l.line
	startCol := l.column

	switch {
	case l.ch == 0:
		return Token{Type: EOF, Literal: "", Line: startLine, Column: startCol}

	case l.ch == '"':
		literal, ok := l.readString()
		if !ok {
			return Token{Type: ILLEGAL, Literal: "unterminated string constant", Line: startLine, Column: startCol}
		}
		return Token{Type: STRING_CONST, Literal: literal, Line: startLine, Column: startCol}

	case isSymbol(l.ch):
		literal := string(l.ch)
		l.readChar()
		return Token{Type: SYMBOL, Literal: literal, Line: startLine, Column: startCol}

	case isLetter(l.ch):
		literal := l.readIdentifier()
		return Token{Type: LookupIdent(literal), Literal: literal, Line: startLine, Column: startCol}

	case isDigit(l.ch):
		literal, isFloat := l.readNumber()
		tokType := INT_CONST
		if isFloat {
			tokType = FLOAT_CONST
		}
		return Token{Type: tokType, Literal: literal, Line: startLine, Column: startCol}

	default:
		literal := string(l.ch)
		l.readChar() // Consume the illegal character
		return Token{Type: ILLEGAL, Literal: literal, Line: startLine, Column: startCol}
	}
}

// readIdentifier reads an identifier (letters, digits, _) and advances the lexer's position.
func (l *Lexer) readIdentifier() string {
	startPos := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[startPos:l.position]
}

// readNumber reads an integer or float constant and advances the lexer's position.
// A '.' followed by a digit switches to float form; a trailing '.' is left
// for the symbol scanner.
func (l *Lexer) readNumber() (string, bool) {
	startPos := l.position
	isFloat := false
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar() // Consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[startPos:l.position], isFloat
}

// readString reads a string constant enclosed in double quotes. Jack strings
// have no escape sequences and may not span lines. Returns the content with
// quotes stripped and a boolean indicating success.
func (l *Lexer) readString() (string, bool) {
	l.readChar() // Consume the opening quote
	startPos := l.position
	for {
		if l.ch == '"' {
			literal := l.input[startPos:l.position]
			l.readChar() // Consume the closing quote
			return literal, true
		}
		if l.ch == 0 || l.ch == '\n' {
			return "", false
		}
		l.readChar()
	}
}

// skipLineComment reads until the end of the line.
func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	// Don't skip the newline itself, let skipWhitespace handle it
}

// skipBlockComment reads until the closing '*/'. Returns false if the
// comment is unterminated (EOF reached first).
func (l *Lexer) skipBlockComment() bool {
	l.readChar() // Consume '/'
	l.readChar() // Consume '*'

	for {
		if l.ch == 0 {
			return false
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // Consume '*'
			l.readChar() // Consume '/'
			return true
		}
		l.readChar()
	}
}

// isLetter checks if the character is a letter or underscore.
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

// isDigit checks if the character is a digit.
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
