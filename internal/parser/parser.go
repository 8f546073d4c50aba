// Package parser reduces compiler generated C++ type and function names
// into a structural form and walks it with a Visitor.
//
// The parser is a hand written shift-reduce parser. Each lexer token is
// either pushed onto a stack or triggers an ordered list of reductions,
// which fold a suffix of the stack into a structural token. After the input
// is consumed, a single *Type or *Function must remain.
package parser

import (
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"github.com/skdltmxn/cxxtype-go/internal/lexer"
	"github.com/skdltmxn/cxxtype-go/internal/quirks"
)

// tracer traces with key 'cxxtype.parser'.
func tracer() tracing.Trace {
	return tracing.Select("cxxtype.parser")
}

// Result is the outcome of a parse. Terminal is nil if the input could not
// be reduced to a single type or function.
type Result struct {
	Input    string
	Terminal Terminal
}

// Recognized reports whether the input was reduced completely.
func (r *Result) Recognized() bool {
	return r.Terminal != nil
}

// Accept walks the result. Input which could not be reduced is reported as
// a whole via Visitor.Unrecognized.
func (r *Result) Accept(v Visitor) {
	v.Begin()
	if r.Terminal != nil {
		r.Terminal.Accept(v)
	} else {
		v.Unrecognized(r.Input)
	}
	v.End()
}

// Parse reduces input, which may denote a function or a type. A nil table
// selects quirks.Default().
//
// Input violating the assumptions about compiler generated names makes
// Parse panic with an *InvariantError.
func Parse(input string, q *quirks.Table) *Result {
	return newParser(input, q).run(false)
}

// ParseType is like Parse, but input always denotes a type.
func ParseType(input string, q *quirks.Table) *Result {
	return newParser(input, q).run(true)
}

type parser struct {
	input  string
	quirks *quirks.Table
	lex    *lexer.Lexer
	stack  stack

	offset                int
	hasConversionOperator bool
	// end of the unrecognized identifier on top, which adjacent text extends
	fragmentEnd int
}

func newParser(input string, q *quirks.Table) *parser {
	if q == nil {
		q = quirks.Default()
	}
	return &parser{
		input:       input,
		quirks:      q,
		lex:         lexer.New(input),
		fragmentEnd: -1,
	}
}

func (p *parser) run(typeOnly bool) *Result {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*InvariantError); ok && e.Input == "" {
				e.Input = p.input
				e.Offset = p.offset
			}
			panic(r)
		}
	}()

	for tok := p.lex.Next(); tok.Kind != lexer.KindEnd; tok = p.lex.Next() {
		p.offset = tok.Offset
		p.handle(tok)
	}

	p.offset = len(p.input)
	invariant(!p.stack.hasOpen(KindOpeningCurly, KindClosingCurly), "unclosed curly: %v", p.stack)
	invariant(!p.stack.hasOpen(KindOpeningBacktick, KindClosingSingleQuote), "unclosed backtick: %v", p.stack)

	var term Terminal
	if !typeOnly {
		term = p.finishFunction()
	}
	if term == nil {
		term = p.finishType()
	}

	if term == nil {
		tracer().Debugf("parser: unrecognized %q, stack %v", p.input, p.stack)
	}
	return &Result{Input: p.input, Terminal: term}
}

func (p *parser) finishFunction() Terminal {
	if p.hasConversionOperator && p.stack.contains(KindOperatorKeyword) {
		reduceConversionOperator(&p.stack)
	} else if !p.stack.topIs(KindFunctionIdentifier) {
		reduceFunctionIdentifier(&p.stack)
	}

	if reduceFunction(&p.stack) && len(p.stack) == 1 {
		return p.stack[0].(*Function)
	}
	return nil
}

func (p *parser) finishType() Terminal {
	reduceAsType(&p.stack)
	if len(p.stack) == 1 {
		if t, ok := p.stack[0].(*Type); ok {
			return t
		}
	}
	return nil
}

func (p *parser) handle(tok lexer.Token) {
	switch tok.Kind {
	case lexer.KindSpace:
		p.handleSpace(tok)
	case lexer.KindIdentifier:
		p.handleIdentifier(tok)
	case lexer.KindKeyword:
		p.handleKeyword(tok)
	case lexer.KindOperator:
		p.handleOperator(tok)
	}
	tracer().Debugf("parser: %v -> %v", tok, p.stack)
}

func (p *parser) newIdentifier(name string) *Identifier {
	id := NewIdentifier(name)
	id.reserved = strings.HasPrefix(name, "__") && !p.quirks.IsBuiltinType(name)
	id.callingConvention = p.quirks.IsCallingConvention(name)
	return id
}

// reducePendingIdentifier turns an identifier on top into a type, as a new
// name can not continue it.
func (p *parser) reducePendingIdentifier() {
	if id := topAs[*Identifier](p.stack); id != nil && !id.IsReserved() {
		reduceAsType(&p.stack)
	}
}

func (p *parser) handleSpace(tok lexer.Token) {
	next := p.lex.Peek()
	if next.Kind != lexer.KindOperator {
		return
	}

	switch next.Text {
	case "(", "{", "`", "<", "'":
		// `operator< <int>`
		if id := topAs[*Identifier](p.stack); id != nil && id.IsOperator() {
			return
		}
		reduceAsType(&p.stack)
		p.stack.push(newPunct(KindSpace, tok.Text, tok.Offset))
	}
}

func (p *parser) handleIdentifier(tok lexer.Token) {
	name := tok.Text
	if p.extendFragment(tok.Offset, tok.End()) {
		return
	}
	if p.quirks.IsIgnoredWord(name) {
		return
	}

	if p.mergeBuiltin(name) {
		return
	}

	p.reducePendingIdentifier()
	p.stack.push(p.newIdentifier(name))
}

// mergeBuiltin joins multi-word builtin types like `unsigned long long`.
func (p *parser) mergeBuiltin(name string) bool {
	top := topAs[*Identifier](p.stack)
	if top == nil || top.IsOperator() || top.IsTemplate() || top.IsUnrecognized() {
		return false
	}

	last := top.Name
	if i := strings.LastIndexByte(last, ' '); i >= 0 {
		last = last[i+1:]
	}
	if !p.quirks.IsBuiltinModifier(last) {
		return false
	}
	if !p.quirks.IsBuiltinModifier(name) && !p.quirks.IsBuiltinType(name) {
		return false
	}

	top.Name += " " + name
	top.reserved = false
	return true
}

func (p *parser) handleKeyword(tok lexer.Token) {
	switch tok.Text {
	case "const":
		getOrEmplaceSpecs(&p.stack).Last().Merge(SpecsLayer{Const: true})
	case "volatile":
		getOrEmplaceSpecs(&p.stack).Last().Merge(SpecsLayer{Volatile: true})
	case "noexcept":
		getOrEmplaceSpecs(&p.stack).SetNoexcept()
	case "operator":
		p.handleOperatorKeyword(tok)
	case "struct", "class", "enum", "union":
		p.stack.push(newPunct(KindTypeContext, tok.Text, tok.Offset))
	}
	// constexpr, access specifiers and the rest carry no type information.
}

func (p *parser) handleOperatorKeyword(tok lexer.Token) {
	p.reducePendingIdentifier()

	if p.lex.Peek().Kind == lexer.KindSpace {
		p.lex.Next()
	}

	if symbol, ok := p.operatorSymbol(); ok {
		p.stack.push(NewOperatorIdentifier(symbol))
		return
	}

	// Conversion operator; the target type follows.
	p.stack.push(newPunct(KindOperatorKeyword, tok.Text, tok.Offset))
	p.hasConversionOperator = true
}

func (p *parser) operatorSymbol() (string, bool) {
	next := p.lex.Peek()
	switch next.Kind {
	case lexer.KindOperator:
		p.lex.Next()
		switch next.Text {
		case "(":
			invariant(p.lex.Next().IsOperator(")"), "incomplete operator()")
			return "()", true
		case "[":
			invariant(p.lex.Next().IsOperator("]"), "incomplete operator[]")
			return "[]", true
		}
		return next.Text, true

	case lexer.KindKeyword:
		switch next.Text {
		case "new", "delete":
			p.lex.Next()
			if p.lex.Peek().IsOperator("[") {
				p.lex.Next()
				invariant(p.lex.Next().IsOperator("]"), "incomplete operator %s[]", next.Text)
				return next.Text + "[]", true
			}
			return next.Text, true
		case "co_await":
			p.lex.Next()
			return next.Text, true
		}
	}
	return "", false
}

func (p *parser) handleOperator(tok lexer.Token) {
	switch tok.Text {
	case "::":
		reduceFunctionIdentifier(&p.stack)
		p.stack.push(newPunct(KindScopeResolution, tok.Text, tok.Offset))
		if !reduceScopeSequence(&p.stack) {
			// leading `::` of the global namespace
			p.stack.pop()
		}

	case ",":
		reduceAsType(&p.stack)
		reduceArgSequence(&p.stack)
		p.stack.push(newPunct(KindArgSeparator, tok.Text, tok.Offset))

	case "&":
		getOrEmplaceSpecs(&p.stack).SetRef(RefLValue)
	case "&&":
		getOrEmplaceSpecs(&p.stack).SetRef(RefRValue)
	case "*":
		getOrEmplaceSpecs(&p.stack).AddPtr()

	case "<":
		p.stack.push(newPunct(KindOpeningAngle, tok.Text, tok.Offset))
	case ">":
		p.handleClosingAngle(tok)
	case "<<", ">>":
		// Outside of operator names these are two angles.
		half := tok.Text[:1]
		p.handleOperator(lexer.Token{Kind: lexer.KindOperator, Text: half, Offset: tok.Offset})
		p.handleOperator(lexer.Token{Kind: lexer.KindOperator, Text: half, Offset: tok.Offset + 1})

	case "(":
		p.stack.push(newPunct(KindOpeningParens, tok.Text, tok.Offset))
	case ")":
		p.handleClosingParens(tok)

	case "{":
		p.stack.push(newPunct(KindOpeningCurly, tok.Text, tok.Offset))
	case "}":
		invariant(p.stack.hasOpen(KindOpeningCurly, KindClosingCurly), "closing curly without opening one")
		p.stack.push(newPunct(KindClosingCurly, tok.Text, tok.Offset))
		reducePlaceholder(&p.stack, p.input, KindOpeningCurly, KindClosingCurly)

	case "`":
		p.stack.push(newPunct(KindOpeningBacktick, tok.Text, tok.Offset))
	case "'":
		p.handleClosingSingleQuote(tok)

	case "[":
		p.stack.push(newPunct(KindOpeningBracket, tok.Text, tok.Offset))
	case "]":
		p.handleClosingBracket(tok)

	case "~":
		// destructor
		if next := p.lex.Peek(); next.Kind == lexer.KindIdentifier && next.Offset == tok.End() {
			p.lex.Next()
			p.reducePendingIdentifier()
			p.stack.push(p.newIdentifier(tok.Text + next.Text))
			return
		}
		p.addFragment(tok.Offset, tok.End())

	default:
		p.addFragment(tok.Offset, tok.End())
	}
}

// handleClosingBracket keeps a bracketed suffix like the `[3]` of `int[3]`
// as unrecognized text. Its content is not parsed any further.
func (p *parser) handleClosingBracket(tok lexer.Token) {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].Kind() == KindOpeningBracket {
			opener := p.stack[i].(*Punct)
			p.stack = p.stack[:i]
			p.addFragment(opener.Offset, tok.End())
			return
		}
	}
	p.addFragment(tok.Offset, tok.End())
}

// extendFragment appends input[start:end] to the unrecognized identifier on
// top, if the text directly follows it.
func (p *parser) extendFragment(start, end int) bool {
	id := topAs[*Identifier](p.stack)
	if id == nil || !id.IsUnrecognized() || start != p.fragmentEnd {
		return false
	}
	id.Name += p.input[start:end]
	p.fragmentEnd = end
	return true
}

// addFragment keeps input[start:end], which has no structural meaning, as
// unrecognized text where it was found. Text trailing a type or a function
// context is attached to its specs, anything else becomes an opaque
// identifier of its own.
func (p *parser) addFragment(start, end int) {
	if p.extendFragment(start, end) {
		return
	}

	if id := topAs[*Identifier](p.stack); id != nil && !id.IsUnrecognized() {
		reduceAsType(&p.stack)
	}

	var specs *Specs
	switch t := p.stack.top().(type) {
	case *Type:
		specs = t.Specs()
	case *FunctionContext:
		specs = &t.Specs
	}
	if specs != nil {
		// `foo() [clone .cold]`
		if start > 0 && p.input[start-1] == ' ' {
			start--
		}
		specs.Unrecognized = append(specs.Unrecognized, p.input[start:end])
		return
	}

	p.stack.push(newUnrecognized(p.input[start:end]))
	p.fragmentEnd = end
}

func (p *parser) handleClosingAngle(tok lexer.Token) {
	reduceAsType(&p.stack)
	reduceArgSequence(&p.stack)

	p.stack.push(newPunct(KindClosingAngle, tok.Text, tok.Offset))
	if !reduceTemplateIdentifier(&p.stack) {
		// msvc `<lambda_1>`
		reducePlaceholder(&p.stack, p.input, KindOpeningAngle, KindClosingAngle)
	}
}

func (p *parser) handleClosingParens(tok lexer.Token) {
	nextIsParens := p.lex.Peek().IsOperator("(")

	// In `(*)(args)` the parens enclose the pointer part, which must not
	// be reduced to an argument.
	if !nextIsParens {
		reduceAsType(&p.stack)
		reduceArgSequence(&p.stack)
	}

	p.stack.push(newPunct(KindClosingParens, tok.Text, tok.Offset))

	if nextIsParens && reduceFunctionPtr(&p.stack) {
		return
	}
	if reduceFunctionContext(&p.stack) {
		return
	}
	// `(anonymous namespace)`
	reducePlaceholder(&p.stack, p.input, KindOpeningParens, KindClosingParens)
}

func (p *parser) handleClosingSingleQuote(tok lexer.Token) {
	invariant(p.stack.hasOpen(KindOpeningBacktick, KindClosingSingleQuote), "closing single quote without opening backtick")

	// msvc quotes nested names with a single quote on both sides:
	// `dynamic initializer for 'x''
	if p.stack.topIs(KindSpace) {
		p.stack.push(newPunct(KindOpeningBacktick, tok.Text, tok.Offset))
		return
	}

	// msvc function scope: `ret __cdecl ns::foo(args)'
	if reduceFunctionIdentifier(&p.stack) {
		p.unwrapFunctionScope()
		return
	}

	// `id1::id2'
	if p.stack.topIs(KindOpeningBacktick, KindScopeSequence, KindIdentifier) {
		n := len(p.stack)
		p.stack = append(p.stack[:n-3], p.stack[n-2], p.stack[n-1])
		return
	}

	p.stack.push(newPunct(KindClosingSingleQuote, tok.Text, tok.Offset))
	reducePlaceholder(&p.stack, p.input, KindOpeningBacktick, KindClosingSingleQuote)
}

// unwrapFunctionScope removes the backtick and the return type around a
// function identifier, so it can become a scope.
func (p *parser) unwrapFunctionScope() {
	fi := p.stack.pop().(*FunctionIdentifier)

	scopes := topAs[*ScopeSequence](p.stack)
	if scopes != nil {
		p.stack.pop()
	}

	p.stack = ignoreReservedIdentifier(p.stack)
	if topAs[*Type](p.stack) != nil {
		p.stack.pop()
	}

	invariant(p.stack.topIs(KindOpeningBacktick), "function scope without opening backtick: %v", p.stack)
	p.stack.pop()
	p.stack = ignoreSpace(p.stack)

	if scopes != nil {
		if outer := topAs[*ScopeSequence](p.stack); outer != nil {
			outer.Scopes = append(outer.Scopes, scopes.Scopes...)
		} else {
			p.stack.push(scopes)
		}
	}
	p.stack.push(fi)
}
