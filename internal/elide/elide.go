// Package elide removes template arguments which equal the defaults of
// their template, e.g. the allocator of std::vector.
//
// Templates can not be instantiated here, so the defaults come from the
// quirk tables. Arguments are compared by their canonical rendering.
package elide

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"

	"github.com/skdltmxn/cxxtype-go/internal/parser"
	"github.com/skdltmxn/cxxtype-go/internal/quirks"
)

// tracer traces with key 'cxxtype.elide'.
func tracer() tracing.Trace {
	return tracing.Select("cxxtype.elide")
}

// RenderFunc renders a reduced type.
type RenderFunc func(t *parser.Type) string

// CanonFunc renders the type denoted by text in canonical form, i.e. as
// RenderFunc would render it after parsing and elision.
type CanonFunc func(text string) string

// Elider applies default argument rules. It is safe for concurrent use.
type Elider struct {
	quirks *quirks.Table
	render RenderFunc
	canon  CanonFunc

	cache sync.Map // default text -> canonical rendering
}

// New creates an Elider for the rules of q.
func New(q *quirks.Table, render RenderFunc, canon CanonFunc) *Elider {
	return &Elider{quirks: q, render: render, canon: canon}
}

// Apply elides default arguments in place, innermost first.
func (e *Elider) Apply(t parser.Terminal) {
	switch t := t.(type) {
	case *parser.Type:
		e.typ(t)
	case *parser.Function:
		e.function(t)
	}
}

func (e *Elider) function(f *parser.Function) {
	if f.Return != nil {
		e.typ(f.Return)
	}
	scope := e.scopes(f.Scopes)
	e.identifier(f.Identifier.Identifier, scope)
	e.context(f.Identifier.Context)
}

func (e *Elider) typ(t *parser.Type) {
	switch s := t.State.(type) {
	case *parser.RegularType:
		scope := e.scopes(s.Scopes)
		e.identifier(s.Identifier, scope)
	case *parser.FunctionType:
		e.typ(s.Return)
		e.context(s.Context)
	case *parser.FunctionPtrType:
		e.typ(s.Return)
		e.scopes(s.Scopes)
		e.context(s.Context)
	}
}

func (e *Elider) context(ctx *parser.FunctionContext) {
	for _, arg := range ctx.Args.Types {
		e.typ(arg)
	}
}

// scopes processes every scope and returns the names of the ones which
// make up a qualified name.
func (e *Elider) scopes(seq *parser.ScopeSequence) []string {
	if seq == nil {
		return nil
	}

	var names []string
	for _, scope := range seq.Scopes {
		var id *parser.Identifier
		switch s := scope.(type) {
		case *parser.Identifier:
			id = s
			e.identifier(s, names)
		case *parser.FunctionIdentifier:
			id = s.Identifier
			e.identifier(s.Identifier, names)
			e.context(s.Context)
		}

		if id.Name != "" && !e.quirks.IsIgnoredScope(id.Name) {
			names = append(names, id.Name)
		}
	}
	return names
}

func (e *Elider) identifier(id *parser.Identifier, scope []string) {
	if id.Operator != nil && id.Operator.Type != nil {
		e.typ(id.Operator.Type)
	}
	if id.TemplateArgs == nil {
		return
	}

	args := id.TemplateArgs.Types
	for _, arg := range args {
		e.typ(arg)
	}
	if id.Operator != nil || len(args) == 0 {
		return
	}

	name := strings.Join(append(scope[:len(scope):len(scope)], id.Name), "::")
	defaults, ok := e.quirks.DefaultArgs(name)
	if !ok {
		return
	}

	rendered := make([]string, len(args))
	for i, arg := range args {
		rendered[i] = e.render(arg)
	}

	n := len(args)
	for n > 0 {
		i := n - 1
		if i >= len(defaults) || defaults[i] == "" {
			break
		}
		text, ok := expand(defaults[i], rendered)
		if !ok || e.canonical(text) != rendered[i] {
			break
		}
		n--
	}

	if n < len(args) {
		tracer().Debugf("elide: %s: dropped %d of %d args", name, len(args)-n, len(args))
		id.TemplateArgs.Types = args[:n]
	}
}

func (e *Elider) canonical(text string) string {
	if c, ok := e.cache.Load(text); ok {
		return c.(string)
	}
	c := e.canon(text)
	e.cache.Store(text, c)
	return c
}

var placeholder = regexp.MustCompile(`\$(\d+)`)

// expand substitutes $N by args[N]. It fails if an index is out of range.
func expand(text string, args []string) (string, bool) {
	ok := true
	out := placeholder.ReplaceAllStringFunc(text, func(m string) string {
		i, err := strconv.Atoi(m[1:])
		if err != nil || i >= len(args) {
			ok = false
			return m
		}
		return args[i]
	})
	return out, ok
}
