package exprlang

import (
	"fmt"
)

// multiCharOperators lists every operator recognized by longest-match-first,
// mirroring token::operator_s's table in the original.
var multiCharOperators = []string{
	"==", "!=", "<=", ">=", "&&", "||", "<<", ">>",
	"+", "-", "*", "/", "%", "<", ">", "!", "&", "|", "^", "~", "=",
}

// keywordOperators maps a keyword spelling to the symbolic operator it
// lexes as (§4.7.1's keyword character-class table), grounded on
// gd_expression_token.cpp's operator_read_keyword_s. "not" resolves to the
// binary "!=", not unary negation - that is what the original does, so a
// keyword operator only ever appears in infix position.
var keywordOperators = []struct {
	keyword, symbol string
}{
	{"not", "!="},
	{"and", "&&"},
	{"or", "||"},
	{"in", "in"},
	{"is", "is"},
	{"xor", "^"},
	{"mod", "%"},
}

// isKeywordOperatorStart flags the letters a keyword operator can begin
// with (§4.7.1: "a, i, m, n, o, x, plus uppercase"). Only these identifiers
// are even checked against keywordOperators; every other identifier goes
// straight to readIdentifier.
var isKeywordOperatorStart [256]bool

func init() {
	for _, c := range []byte("aimnoxAIMNOX") {
		isKeywordOperatorStart[c] = true
	}
}

// matchKeywordOperator checks the input at the current position for a
// keyword operator, requiring that the character immediately after the
// match (if any) not be an identifier character - the "no alphanumeric
// char before or after" boundary check from operator_read_keyword_s. The
// boundary before is guaranteed by construction: Next is only ever called
// at the start of a fresh token.
func (l *Lexer) matchKeywordOperator() (symbol string, length int) {
	for _, kw := range keywordOperators {
		n := len(kw.keyword)
		if l.pos+n > len(l.src) || !equalFoldASCII(l.src[l.pos:l.pos+n], kw.keyword) {
			continue
		}
		if l.pos+n < len(l.src) && isIdentPart[l.src[l.pos+n]] {
			continue
		}
		return kw.symbol, n
	}
	return "", 0
}

func equalFoldASCII(b []byte, s string) bool {
	if len(b) != len(s) {
		return false
	}
	for i := range b {
		c := b[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != s[i] {
			return false
		}
	}
	return true
}

// Lexer turns an expression string into a Token stream (§4.7.1).
type Lexer struct {
	src []byte
	pos int
}

// NewLexer returns a Lexer over expr.
func NewLexer(expr string) *Lexer {
	return &Lexer{src: []byte(expr)}
}

// Next returns the next Token, or a TokenEnd token once the input is
// exhausted. Errors are reported for unterminated strings and stray bytes.
func (l *Lexer) Next() (Token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return Token{Type: TokenEnd, Pos: l.pos}, nil
	}

	start := l.pos
	b := l.src[l.pos]

	switch {
	case b == '(':
		l.pos++
		return Token{Type: TokenLeftParen, Text: "(", Pos: start}, nil
	case b == ')':
		l.pos++
		return Token{Type: TokenRightParen, Text: ")", Pos: start}, nil
	case b == ',':
		l.pos++
		return Token{Type: TokenSeparator, Text: ",", Pos: start}, nil
	case b == ';':
		l.pos++
		return Token{Type: TokenStatementEnd, Text: ";", Pos: start}, nil
	case b == '.':
		l.pos++
		return Token{Type: TokenOperator, Text: ".", Pos: start}, nil
	case b == '"' || b == '\'':
		return l.readString(b)
	case isDigit[b]:
		return l.readNumber()
	case isKeywordOperatorStart[b]:
		if sym, n := l.matchKeywordOperator(); n > 0 {
			l.pos += n
			return Token{Type: TokenOperator, Text: sym, Pos: start}, nil
		}
		return l.readIdentifier()
	case isIdentStart[b]:
		return l.readIdentifier()
	default:
		for _, op := range multiCharOperators {
			if l.hasPrefix(op) {
				l.pos += len(op)
				return Token{Type: TokenOperator, Text: op, Pos: start}, nil
			}
		}
		return Token{}, fmt.Errorf("exprlang: unexpected byte %q at offset %d", b, start)
	}
}

func (l *Lexer) hasPrefix(s string) bool {
	if l.pos+len(s) > len(l.src) {
		return false
	}
	return string(l.src[l.pos:l.pos+len(s)]) == s
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.src) && isSpace[l.src[l.pos]] {
		l.pos++
	}
}

func (l *Lexer) readString(quote byte) (Token, error) {
	start := l.pos
	l.pos++ // consume opening quote
	var out []byte
	for {
		if l.pos >= len(l.src) {
			return Token{}, fmt.Errorf("exprlang: unterminated string starting at offset %d", start)
		}
		b := l.src[l.pos]
		if b == '\\' && l.pos+1 < len(l.src) {
			out = append(out, l.src[l.pos+1])
			l.pos += 2
			continue
		}
		if b == quote {
			l.pos++
			return Token{Type: TokenString, Text: string(out), Pos: start}, nil
		}
		out = append(out, b)
		l.pos++
	}
}

func (l *Lexer) readNumber() (Token, error) {
	start := l.pos
	isFloat := false
	for l.pos < len(l.src) && isDigit[l.src[l.pos]] {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		isFloat = true
		l.pos++
		for l.pos < len(l.src) && isDigit[l.src[l.pos]] {
			l.pos++
		}
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		save := l.pos
		l.pos++
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
		if l.pos < len(l.src) && isDigit[l.src[l.pos]] {
			isFloat = true
			for l.pos < len(l.src) && isDigit[l.src[l.pos]] {
				l.pos++
			}
		} else {
			l.pos = save
		}
	}
	return Token{Type: TokenNumber, Text: string(l.src[start:l.pos]), Float: isFloat, Pos: start}, nil
}

func (l *Lexer) readIdentifier() (Token, error) {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart[l.src[l.pos]] {
		l.pos++
	}
	// a::b namespaced identifiers (§4.7.5's str:: method namespace)
	for l.pos+1 < len(l.src) && l.src[l.pos] == ':' && l.src[l.pos+1] == ':' {
		l.pos += 2
		for l.pos < len(l.src) && isIdentPart[l.src[l.pos]] {
			l.pos++
		}
	}
	return Token{Type: TokenIdentifier, Text: string(l.src[start:l.pos]), Pos: start}, nil
}

// Tokenize lexes the entire expression into a slice, including the
// terminating TokenEnd.
func Tokenize(expr string) ([]Token, error) {
	l := NewLexer(expr)
	var out []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Type == TokenEnd {
			return out, nil
		}
	}
}
