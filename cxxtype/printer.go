package cxxtype

import (
	"bytes"
	"strings"

	"github.com/skdltmxn/cxxtype-go/internal/quirks"
)

type frameKind int

const (
	frameType frameKind = iota
	frameScope
	frameFunction
	frameScopeFunction
	frameTemplateArgs
)

type frame struct {
	kind  frameKind
	start int  // output length when the frame was opened
	named bool // scope: identifier seen
	skip  bool // scope: dropped from the output
	muted bool // scope function: args and specs suppressed
}

// Printer renders the events of a traversal as compact text, e.g.
// `std::vector<int> const&` or `void (Foo::*)(int) const noexcept`.
//
// Identifiers are normalized through the quirk tables and functions used as
// scopes are printed by name only. A Printer renders a single traversal.
type Printer struct {
	quirks *quirks.Table
	buf    bytes.Buffer
	frames []frame
	muted  int

	// set between `operator` and its symbol
	operator bool
	// set after an operator symbol ending in '<', e.g. `operator< <int>`
	angle bool
}

// NewPrinter creates a printer normalizing identifiers with q. A nil table
// selects the default quirks.
func NewPrinter(q *Quirks) *Printer {
	if q == nil {
		q = quirks.Default()
	}
	return &Printer{quirks: q}
}

// String returns the text printed so far.
func (p *Printer) String() string {
	return p.buf.String()
}

func (p *Printer) write(s string) {
	p.angle = false
	if p.muted == 0 {
		p.buf.WriteString(s)
	}
}

func (p *Printer) push(kind frameKind) {
	p.frames = append(p.frames, frame{kind: kind, start: p.buf.Len()})
}

func (p *Printer) pop() frame {
	f := p.frames[len(p.frames)-1]
	p.frames = p.frames[:len(p.frames)-1]
	return f
}

func (p *Printer) top() *frame {
	if len(p.frames) == 0 {
		return nil
	}
	return &p.frames[len(p.frames)-1]
}

// operatorSpace separates `operator` from a word like `new` or a type.
func (p *Printer) operatorSpace() {
	if p.operator {
		p.write(" ")
		p.operator = false
	}
}

func (p *Printer) Begin() {}
func (p *Printer) End()   {}

func (p *Printer) Unrecognized(content string) {
	if f := p.top(); f != nil && f.kind == frameScope {
		f.named = true
	}
	p.write(content)
}

func (p *Printer) BeginType() {
	p.operatorSpace()
	p.push(frameType)
}

func (p *Printer) EndType() {
	p.pop()
}

func (p *Printer) BeginScope() {
	p.push(frameScope)
}

func (p *Printer) EndScope() {
	f := p.pop()
	if f.skip {
		p.buf.Truncate(f.start)
		return
	}
	p.write("::")
}

func (p *Printer) AddIdentifier(name string) {
	if p.operator {
		if c := name[0]; c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') {
			p.write(" ")
		}
		p.operator = false
		p.write(name)
		p.angle = strings.HasSuffix(name, "<")
		return
	}

	if f := p.top(); f != nil && f.kind == frameScope && !f.named {
		f.named = true
		f.skip = p.quirks.IsIgnoredScope(name)
	}
	p.write(p.quirks.Rewrite(name))
}

func (p *Printer) AddArg() {
	p.write(", ")
}

func (p *Printer) BeginTemplateArgs() {
	if p.angle {
		p.write(" ")
	}
	p.write("<")
	p.push(frameTemplateArgs)
}

func (p *Printer) EndTemplateArgs() {
	p.pop()
	p.write(">")
}

func (p *Printer) BeginFunction() {
	kind := frameFunction
	if f := p.top(); f != nil && f.kind == frameScope {
		kind = frameScopeFunction
	}
	p.push(kind)
}

func (p *Printer) EndFunction() {
	if f := p.pop(); f.muted {
		p.muted--
	}
}

func (p *Printer) BeginReturnType() {}

func (p *Printer) EndReturnType() {
	p.write(" ")
}

func (p *Printer) BeginFunctionArgs() {
	if f := p.top(); f != nil && f.kind == frameScopeFunction && !f.muted {
		f.muted = true
		p.muted++
	}
	p.write("(")
}

func (p *Printer) EndFunctionArgs() {
	p.write(")")
}

func (p *Printer) BeginFunctionPtr() {
	p.write("(")
}

func (p *Printer) EndFunctionPtr() {
	p.write(")")
}

func (p *Printer) BeginOperatorIdentifier() {
	p.write("operator")
	p.operator = true
}

func (p *Printer) EndOperatorIdentifier() {
	p.operator = false
}

func (p *Printer) AddConst()     { p.write(" const") }
func (p *Printer) AddVolatile()  { p.write(" volatile") }
func (p *Printer) AddNoexcept()  { p.write(" noexcept") }
func (p *Printer) AddPtr()       { p.write("*") }
func (p *Printer) AddLValueRef() { p.write("&") }
func (p *Printer) AddRValueRef() { p.write("&&") }
