// Package lexer splits platform-produced C++ type and function names into
// primitive tokens.
package lexer

import (
	"fmt"
	"strings"
)

// Kind classifies a primitive token.
type Kind int

const (
	KindEnd Kind = iota
	KindSpace
	KindKeyword
	KindOperator
	KindIdentifier
)

var kindNames = map[Kind]string{
	KindEnd:        "end",
	KindSpace:      "space",
	KindKeyword:    "keyword",
	KindOperator:   "operator",
	KindIdentifier: "identifier",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single primitive token. Text is a substring of the lexed input
// starting at byte Offset.
type Token struct {
	Kind   Kind
	Text   string
	Offset int
}

// End returns the offset just behind the token.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}

// Is reports whether the token has the given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// IsOperator reports whether the token is the operator or punctuator text.
func (t Token) IsOperator(text string) bool {
	return t.Is(KindOperator, text)
}

// IsKeyword reports whether the token is the keyword text.
func (t Token) IsKeyword(text string) bool {
	return t.Is(KindKeyword, text)
}

func (t Token) String() string {
	if t.Kind == KindEnd {
		return "end"
	}
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Text, t.Offset)
}

// Keywords lists the words which are classified as keywords. Only the ones
// with a meaning for name parsing are listed here.
var Keywords = []string{
	// visibility
	"public", "protected", "private",
	// qualifiers
	"const", "constexpr", "volatile", "noexcept",
	// context
	"operator", "struct", "class", "enum", "union",
	// others
	"new", "delete", "co_await",
	// alternative tokens
	"and", "or", "xor", "not", "bitand", "bitor", "compl", "and_eq", "or_eq", "xor_eq", "not_eq",
}

// Operators lists every operator and punctuator.
// See https://eel.is/c++draft/lex.operators#nt:operator-or-punctuator
var Operators = []string{
	// brace likes
	"{", "}", "[", "]", "(", ")", "`", "'",
	// comparison
	"==", "!=", "<", "<=", ">", ">=", "<=>",
	// assignment
	"=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=",
	// increment and decrement
	"++", "--",
	// arithmetic
	"+", "-", "*", "/", "%",
	// bit arithmetic
	"~", "&", "|", "^", "<<", ">>",
	// logical
	"!", "&&", "||",
	// member access
	".", ".*", "->", "->*",
	// alternative angles
	"<:", ":>", "<%", "%>",
	// rest
	"::", ";", ",", ":", "...", "?",
}

const maxOperatorLen = 3

var (
	keywordSet  = makeSet(Keywords)
	operatorSet = makeSet(Operators)
)

func makeSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, dup := set[w]; dup {
			panic("lexer: duplicate entry " + w)
		}
		set[w] = struct{}{}
	}
	return set
}

// IsKeyword reports whether s is one of Keywords.
func IsKeyword(s string) bool {
	_, ok := keywordSet[s]
	return ok
}

// IsOperator reports whether s is one of Operators.
func IsOperator(s string) bool {
	_, ok := operatorSet[s]
	return ok
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// Every operator starts with a character that is an operator on its own, so
// a single byte lookup decides whether an operator begins.
func isOperatorStart(c byte) bool {
	_, ok := operatorSet[string(c)]
	return ok
}

// Lexer produces tokens from a name. It never fails: input that does not look
// like an operator, keyword or space is treated as an identifier.
type Lexer struct {
	input string
	pos   int
	next  Token
}

// New creates a Lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.next = l.scan()
	return l
}

// Input returns the text being lexed.
func (l *Lexer) Input() string {
	return l.input
}

// Next returns the next token and advances. After the input is exhausted it
// keeps returning a KindEnd token.
func (l *Lexer) Next() Token {
	tok := l.next
	l.next = l.scan()
	return tok
}

// Peek returns the next token without advancing.
func (l *Lexer) Peek() Token {
	return l.next
}

// All lexes the remaining input, excluding the end token.
func (l *Lexer) All() []Token {
	var tokens []Token
	for tok := l.Next(); tok.Kind != KindEnd; tok = l.Next() {
		tokens = append(tokens, tok)
	}
	return tokens
}

func (l *Lexer) scan() Token {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		// Runs of whitespace, or whitespace other than a single blank, only
		// delimit. A single blank may carry meaning (`void ()` vs `foo()`),
		// so that one is kept.
		start := l.pos
		for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
			l.pos++
		}
		if text := l.input[start:l.pos]; text == " " {
			return Token{Kind: KindSpace, Text: text, Offset: start}
		}
	}

	if l.pos >= len(l.input) {
		return Token{Kind: KindEnd, Offset: len(l.input)}
	}

	if isOperatorStart(l.input[l.pos]) {
		return l.scanOperator()
	}

	return l.scanIdentifier()
}

// scanOperator performs longest-prefix matching.
func (l *Lexer) scanOperator() Token {
	start := l.pos
	if isAngleBeforeScope(l.input[start:]) {
		l.pos++
		return Token{Kind: KindOperator, Text: "<", Offset: start}
	}

	for n := maxOperatorLen; n > 1; n-- {
		if start+n > len(l.input) {
			continue
		}
		if text := l.input[start : start+n]; IsOperator(text) {
			l.pos += n
			return Token{Kind: KindOperator, Text: text, Offset: start}
		}
	}
	l.pos++
	return Token{Kind: KindOperator, Text: l.input[start:l.pos], Offset: start}
}

// isAngleBeforeScope reports whether s starts with `<::` which is not the
// digraph `<:`, e.g. `Box<::Foo>`. See [lex.pptoken]/3.
func isAngleBeforeScope(s string) bool {
	if !strings.HasPrefix(s, "<::") {
		return false
	}
	return len(s) == 3 || (s[3] != ':' && s[3] != '>')
}

// scanIdentifier consumes everything up to the next space or operator.
// Demangled names contain all kinds of characters which are not valid in C++
// identifiers (`#`, `$`, `@`), so no whitelist is applied.
func (l *Lexer) scanIdentifier() Token {
	start := l.pos
	l.pos++
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if isSpace(c) || isOperatorStart(c) {
			break
		}
		l.pos++
	}

	text := l.input[start:l.pos]
	if IsKeyword(text) {
		return Token{Kind: KindKeyword, Text: text, Offset: start}
	}
	return Token{Kind: KindIdentifier, Text: text, Offset: start}
}
