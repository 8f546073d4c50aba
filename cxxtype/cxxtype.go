// Package cxxtype turns the C++ type and function names produced by
// compilers (typeid names, __PRETTY_FUNCTION__, __FUNCSIG__, stacktrace
// frames) into the compact form a developer would write by hand.
//
//	cxxtype.Prettify("std::vector<int, std::allocator<int> >::iterator")
//	// std::vector<int>::iterator
//
// Names are reduced to a structural form and walked by a Visitor. Printer is
// the textual visitor, TreeBuilder and Recorder expose the structure.
package cxxtype

import (
	"fmt"
	"sync"

	"github.com/skdltmxn/cxxtype-go/internal/elide"
	"github.com/skdltmxn/cxxtype-go/internal/parser"
	"github.com/skdltmxn/cxxtype-go/internal/quirks"
)

// Visitor receives the structure of a parsed name.
type Visitor = parser.Visitor

// NopVisitor ignores every event. Embed it to implement only some of them.
type NopVisitor = parser.NopVisitor

// Option configures a Prettifier.
type Option func(*Prettifier)

// WithQuirks selects the quirk tables used for parsing and normalization.
func WithQuirks(q *Quirks) Option {
	return func(p *Prettifier) {
		if q != nil {
			p.quirks = q
		}
	}
}

// WithoutElision keeps template arguments which equal their defaults.
func WithoutElision() Option {
	return func(p *Prettifier) {
		p.noElide = true
	}
}

// Prettifier parses and renders names. It holds immutable configuration
// only and is safe for concurrent use.
type Prettifier struct {
	quirks  *quirks.Table
	noElide bool
	elider  *elide.Elider
}

// New creates a Prettifier.
func New(opts ...Option) *Prettifier {
	p := &Prettifier{quirks: quirks.Default()}
	for _, opt := range opts {
		opt(p)
	}
	p.elider = elide.New(p.quirks, p.render, p.canonical)
	return p
}

func (p *Prettifier) render(t *parser.Type) string {
	pr := NewPrinter(p.quirks)
	t.Accept(pr)
	return pr.String()
}

// canonical renders a type given as text the way render would render it
// after parsing. Unrecognized text is used as is.
func (p *Prettifier) canonical(text string) string {
	res := parser.ParseType(text, p.quirks)
	if !res.Recognized() {
		return text
	}
	p.elider.Apply(res.Terminal)
	return p.render(res.Terminal.(*parser.Type))
}

func (p *Prettifier) reduce(name string, typeOnly bool) *parser.Result {
	var res *parser.Result
	if typeOnly {
		res = parser.ParseType(name, p.quirks)
	} else {
		res = parser.Parse(name, p.quirks)
	}

	if res.Recognized() && !p.noElide {
		p.elider.Apply(res.Terminal)
	}
	return res
}

// Parse parses name, which denotes a type or a function, and walks the
// result with v. Fragments without structural meaning, like the `[3]` of
// `int[3]`, are reported in place via Visitor.Unrecognized. Names which can
// not be reduced at all are reported as a whole.
//
// Parse panics with an *InvariantError if name is not a well-formed compiler
// generated name.
func (p *Prettifier) Parse(name string, v Visitor) {
	p.reduce(name, false).Accept(v)
}

// ParseType is like Parse, but name always denotes a type.
func (p *Prettifier) ParseType(name string, v Visitor) {
	p.reduce(name, true).Accept(v)
}

// Prettify returns the compact rendering of name.
func (p *Prettifier) Prettify(name string) string {
	pr := NewPrinter(p.quirks)
	p.Parse(name, pr)
	return pr.String()
}

// PrettifyType is like Prettify, but name always denotes a type.
func (p *Prettifier) PrettifyType(name string) string {
	pr := NewPrinter(p.quirks)
	p.ParseType(name, pr)
	return pr.String()
}

// TryPrettify is like Prettify, but reports invariant violations as an error
// wrapping ErrInvariant instead of panicking.
func (p *Prettifier) TryPrettify(name string) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*InvariantError)
			if !ok {
				panic(r)
			}
			s, err = "", fmt.Errorf("prettify %q: %w", name, e)
		}
	}()
	return p.Prettify(name), nil
}

// Walk is like Parse, but reports invariant violations as an error instead
// of panicking. v may have received a partial traversal in that case.
func (p *Prettifier) Walk(name string, typeOnly bool, v Visitor) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*InvariantError)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("parse %q: %w", name, e)
		}
	}()
	p.reduce(name, typeOnly).Accept(v)
	return nil
}

var defaultPrettifier = sync.OnceValue(func() *Prettifier { return New() })

// Parse walks name with v using the default configuration.
func Parse(name string, v Visitor) {
	defaultPrettifier().Parse(name, v)
}

// ParseType walks the type name with v using the default configuration.
func ParseType(name string, v Visitor) {
	defaultPrettifier().ParseType(name, v)
}

// Prettify renders name using the default configuration.
func Prettify(name string) string {
	return defaultPrettifier().Prettify(name)
}

// PrettifyType renders the type name using the default configuration.
func PrettifyType(name string) string {
	return defaultPrettifier().PrettifyType(name)
}

// TryPrettify renders name using the default configuration.
func TryPrettify(name string) (string, error) {
	return defaultPrettifier().TryPrettify(name)
}
