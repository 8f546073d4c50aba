package parser

import "fmt"

// TokenKind identifies the type of a stack token.
type TokenKind int

const (
	KindUnknown TokenKind = iota
	// Primitive tokens
	KindSpace
	KindOperatorKeyword
	KindScopeResolution
	KindArgSeparator
	KindOpeningAngle
	KindClosingAngle
	KindOpeningParens
	KindClosingParens
	KindOpeningCurly
	KindClosingCurly
	KindOpeningBacktick
	KindClosingSingleQuote
	KindOpeningBracket
	KindTypeContext
	// Structural tokens
	KindIdentifier
	KindFunctionIdentifier
	KindScopeSequence
	KindArgSequence
	KindFunctionContext
	KindFunctionPtr
	KindSpecs
	KindType
	KindFunction
)

var kindNames = map[TokenKind]string{
	KindUnknown:            "Unknown",
	KindSpace:              "Space",
	KindOperatorKeyword:    "OperatorKeyword",
	KindScopeResolution:    "ScopeResolution",
	KindArgSeparator:       "ArgSeparator",
	KindOpeningAngle:       "OpeningAngle",
	KindClosingAngle:       "ClosingAngle",
	KindOpeningParens:      "OpeningParens",
	KindClosingParens:      "ClosingParens",
	KindOpeningCurly:       "OpeningCurly",
	KindClosingCurly:       "ClosingCurly",
	KindOpeningBacktick:    "OpeningBacktick",
	KindClosingSingleQuote: "ClosingSingleQuote",
	KindOpeningBracket:     "OpeningBracket",
	KindTypeContext:        "TypeContext",
	KindIdentifier:         "Identifier",
	KindFunctionIdentifier: "FunctionIdentifier",
	KindScopeSequence:      "ScopeSequence",
	KindArgSequence:        "ArgSequence",
	KindFunctionContext:    "FunctionContext",
	KindFunctionPtr:        "FunctionPtr",
	KindSpecs:              "Specs",
	KindType:               "Type",
	KindFunction:           "Function",
}

func (k TokenKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is implemented by every element of the reduction stack.
type Token interface {
	Kind() TokenKind
}

// Terminal is a token which may remain as the single result of a reduction.
// It is either a *Type or a *Function.
type Terminal interface {
	Token
	Accept(v Visitor)
}

// Punct is a primitive token taken over from the lexer. Text and Offset
// locate it in the input.
type Punct struct {
	kind   TokenKind
	Text   string
	Offset int
}

func newPunct(kind TokenKind, text string, offset int) *Punct {
	return &Punct{kind: kind, Text: text, Offset: offset}
}

func (p *Punct) Kind() TokenKind { return p.kind }

// End returns the offset just behind the token.
func (p *Punct) End() int { return p.Offset + len(p.Text) }

// Refness is the value category qualification of a type or function.
type Refness uint8

const (
	RefNone Refness = iota
	RefLValue
	RefRValue
)

// SpecsLayer is the cv-qualification of one indirection level.
type SpecsLayer struct {
	Const    bool
	Volatile bool
}

// Merge adds the qualifiers of other. Setting a qualifier twice is an
// invariant violation.
func (l *SpecsLayer) Merge(other SpecsLayer) {
	invariant(!(l.Const && other.Const), "merging const twice")
	invariant(!(l.Volatile && other.Volatile), "merging volatile twice")

	l.Const = l.Const || other.Const
	l.Volatile = l.Volatile || other.Volatile
}

func (l SpecsLayer) accept(v Visitor) {
	if l.Const {
		v.AddConst()
	}
	if l.Volatile {
		v.AddVolatile()
	}
}

// Specs holds the qualification of a type. The first layer belongs to the
// type itself, each further layer to one pointer applied on top of it. Ref
// and Noexcept always belong to the outermost layer.
//
// Unrecognized collects trailing text without structural meaning, like the
// `[3]` of `int[3]`. It is reported verbatim after the qualifiers.
type Specs struct {
	Layers       []SpecsLayer
	Ref          Refness
	Noexcept     bool
	Unrecognized []string
}

// NewSpecs returns specs with an unqualified base layer.
func NewSpecs() Specs {
	return Specs{Layers: make([]SpecsLayer, 1)}
}

func (s *Specs) Kind() TokenKind { return KindSpecs }

// HasPtr reports whether at least one pointer layer exists.
func (s *Specs) HasPtr() bool {
	return len(s.Layers) > 1
}

// Last returns the outermost layer.
func (s *Specs) Last() *SpecsLayer {
	invariant(len(s.Layers) > 0, "specs without layers")
	return &s.Layers[len(s.Layers)-1]
}

// AddPtr opens a new pointer layer.
func (s *Specs) AddPtr() {
	s.Layers = append(s.Layers, SpecsLayer{})
}

// SetRef sets the ref-qualifier. Setting it twice is an invariant violation.
func (s *Specs) SetRef(ref Refness) {
	invariant(s.Ref == RefNone, "ref-qualifier already set")
	s.Ref = ref
}

// SetNoexcept marks the specs as noexcept.
func (s *Specs) SetNoexcept() {
	invariant(!s.Noexcept, "noexcept already set")
	s.Noexcept = true
}

func (s *Specs) Accept(v Visitor) {
	invariant(len(s.Layers) > 0, "specs without layers")

	s.Layers[0].accept(v)
	for _, layer := range s.Layers[1:] {
		v.AddPtr()
		layer.accept(v)
	}

	switch s.Ref {
	case RefLValue:
		v.AddLValueRef()
	case RefRValue:
		v.AddRValueRef()
	}

	if s.Noexcept {
		v.AddNoexcept()
	}

	for _, text := range s.Unrecognized {
		v.Unrecognized(text)
	}
}

// ArgSequence is an ordered list of template or function arguments.
type ArgSequence struct {
	Types []*Type
}

func (a *ArgSequence) Kind() TokenKind { return KindArgSequence }

func (a *ArgSequence) Accept(v Visitor) {
	for i, t := range a.Types {
		if i > 0 {
			v.AddArg()
		}
		t.Accept(v)
	}
}

func (a *ArgSequence) acceptAsTemplateArgs(v Visitor) {
	v.BeginTemplateArgs()
	a.Accept(v)
	v.EndTemplateArgs()
}

// Operator is the identity of an operator function. Exactly one of Symbol
// and Type is set; Type denotes the target of a conversion operator.
type Operator struct {
	Symbol string
	Type   *Type
}

// Identifier is a plain name or an operator, optionally with template
// arguments. A non-nil but empty TemplateArgs denotes an explicit `<>`.
type Identifier struct {
	Name         string
	Operator     *Operator
	TemplateArgs *ArgSequence

	reserved          bool
	callingConvention bool
	unrecognized      bool
}

// NewIdentifier creates a plain identifier.
func NewIdentifier(name string) *Identifier {
	return &Identifier{Name: name}
}

// NewOperatorIdentifier creates an operator identifier with a textual symbol.
func NewOperatorIdentifier(symbol string) *Identifier {
	return &Identifier{Operator: &Operator{Symbol: symbol}}
}

// NewConversionIdentifier creates a conversion operator identifier.
func NewConversionIdentifier(target *Type) *Identifier {
	return &Identifier{Operator: &Operator{Type: target}}
}

// newUnrecognized creates an opaque identifier for text which could not be
// parsed, like the `-1` of `Box<-1>`.
func newUnrecognized(text string) *Identifier {
	return &Identifier{Name: text, unrecognized: true}
}

func (id *Identifier) Kind() TokenKind { return KindIdentifier }

// IsTemplate reports whether the identifier has template arguments.
func (id *Identifier) IsTemplate() bool {
	return id.TemplateArgs != nil
}

// IsOperator reports whether the identifier names an operator.
func (id *Identifier) IsOperator() bool {
	return id.Operator != nil
}

// IsReserved reports whether the identifier is a compiler specific word
// such as `__cdecl` or `__ptr64`.
func (id *Identifier) IsReserved() bool {
	return id.reserved
}

// IsUnrecognized reports whether the identifier is opaque text, which is
// reported via Visitor.Unrecognized.
func (id *Identifier) IsUnrecognized() bool {
	return id.unrecognized
}

// IsVoid reports whether the identifier is the plain name `void`.
func (id *Identifier) IsVoid() bool {
	return id.Operator == nil && !id.unrecognized && id.Name == "void"
}

func (id *Identifier) Accept(v Visitor) {
	if id.unrecognized {
		v.Unrecognized(id.Name)
		return
	}

	if id.Operator == nil {
		invariant(id.Name != "", "empty identifier")
		v.AddIdentifier(id.Name)
	} else {
		v.BeginOperatorIdentifier()
		if id.Operator.Type != nil {
			id.Operator.Type.Accept(v)
		} else {
			invariant(id.Operator.Symbol != "", "empty operator symbol")
			v.AddIdentifier(id.Operator.Symbol)
		}
		v.EndOperatorIdentifier()
	}

	if id.TemplateArgs != nil {
		id.TemplateArgs.acceptAsTemplateArgs(v)
	}
}

func (id *Identifier) acceptScope(v Visitor) {
	id.Accept(v)
}

// FunctionContext is the parameter list of a function plus the qualifiers
// of the function itself.
type FunctionContext struct {
	Args  ArgSequence
	Specs Specs
}

func newFunctionContext() *FunctionContext {
	return &FunctionContext{Specs: NewSpecs()}
}

func (c *FunctionContext) Kind() TokenKind { return KindFunctionContext }

func (c *FunctionContext) Accept(v Visitor) {
	v.BeginFunctionArgs()
	c.Args.Accept(v)
	v.EndFunctionArgs()
	c.Specs.Accept(v)
}

// FunctionIdentifier is a function name with its context.
type FunctionIdentifier struct {
	Identifier *Identifier
	Context    *FunctionContext
}

func (f *FunctionIdentifier) Kind() TokenKind { return KindFunctionIdentifier }

func (f *FunctionIdentifier) Accept(v Visitor) {
	f.Identifier.Accept(v)
	f.Context.Accept(v)
}

func (f *FunctionIdentifier) acceptScope(v Visitor) {
	v.BeginFunction()
	f.Accept(v)
	v.EndFunction()
}

// Scope is an element of a ScopeSequence: an *Identifier or a
// *FunctionIdentifier.
type Scope interface {
	Token
	acceptScope(v Visitor)
}

// ScopeSequence is a non-empty, ordered list of enclosing scopes.
type ScopeSequence struct {
	Scopes []Scope
}

func (s *ScopeSequence) Kind() TokenKind { return KindScopeSequence }

func (s *ScopeSequence) Accept(v Visitor) {
	invariant(len(s.Scopes) > 0, "empty scope sequence")

	for _, scope := range s.Scopes {
		v.BeginScope()
		scope.acceptScope(v)
		v.EndScope()
	}
}

// FunctionPtr is the `(scope::*)` part of a function pointer. Nested holds
// the continuation of a function pointer returning another function pointer.
type FunctionPtr struct {
	Scopes *ScopeSequence
	Specs  Specs
	Nested *NestedInfo
}

// NestedInfo is an unresolved function (pointer) whose return type is the
// function pointer being reduced.
type NestedInfo struct {
	Ptr *FunctionPtr
	Ctx *FunctionContext
}

func (f *FunctionPtr) Kind() TokenKind { return KindFunctionPtr }

// TypeState is one of *RegularType, *FunctionType or *FunctionPtrType.
type TypeState interface {
	accept(v Visitor)
	specs() *Specs
}

// RegularType is a possibly scoped identifier with qualifiers.
type RegularType struct {
	Scopes     *ScopeSequence
	Identifier *Identifier
	Specs      Specs
}

func (t *RegularType) accept(v Visitor) {
	v.BeginType()
	if t.Scopes != nil {
		t.Scopes.Accept(v)
	}
	t.Identifier.Accept(v)
	t.Specs.Accept(v)
	v.EndType()
}

func (t *RegularType) specs() *Specs { return &t.Specs }

// FunctionType is a function signature like `void (int)`.
type FunctionType struct {
	Return  *Type
	Context *FunctionContext
}

func (t *FunctionType) accept(v Visitor) {
	invariant(t.Return != nil, "function type without return type")

	v.BeginFunction()
	v.BeginReturnType()
	t.Return.Accept(v)
	v.EndReturnType()
	t.Context.Accept(v)
	v.EndFunction()
}

func (t *FunctionType) specs() *Specs { return &t.Context.Specs }

// FunctionPtrType is a pointer to function like `void (Foo::*)(int)`.
type FunctionPtrType struct {
	Return  *Type
	Scopes  *ScopeSequence
	Specs   Specs
	Context *FunctionContext
}

func (t *FunctionPtrType) accept(v Visitor) {
	invariant(t.Return != nil, "function pointer without return type")

	v.BeginType()
	v.BeginReturnType()
	t.Return.Accept(v)
	v.EndReturnType()

	v.BeginFunctionPtr()
	if t.Scopes != nil {
		t.Scopes.Accept(v)
	}
	t.Specs.Accept(v)
	v.EndFunctionPtr()

	t.Context.Accept(v)
	v.EndType()
}

func (t *FunctionPtrType) specs() *Specs { return &t.Specs }

// Type is a reduced type.
type Type struct {
	State TypeState
}

func (t *Type) Kind() TokenKind { return KindType }

func (t *Type) Accept(v Visitor) {
	t.State.accept(v)
}

// Specs returns the qualifiers trailing the type.
func (t *Type) Specs() *Specs {
	return t.State.specs()
}

// Regular returns the state as *RegularType, or nil.
func (t *Type) Regular() *RegularType {
	r, _ := t.State.(*RegularType)
	return r
}

// IsVoid reports whether the type is a plain `void`.
func (t *Type) IsVoid() bool {
	r := t.Regular()
	return r != nil &&
		r.Scopes == nil &&
		r.Identifier.IsVoid() &&
		!r.Specs.HasPtr() &&
		r.Specs.Ref == RefNone
}

// Function is a reduced function like `void ns::foo(int) const`.
type Function struct {
	Return     *Type
	Scopes     *ScopeSequence
	Identifier *FunctionIdentifier
}

func (f *Function) Kind() TokenKind { return KindFunction }

func (f *Function) Accept(v Visitor) {
	v.BeginFunction()
	if f.Return != nil {
		v.BeginReturnType()
		f.Return.Accept(v)
		v.EndReturnType()
	}
	if f.Scopes != nil {
		f.Scopes.Accept(v)
	}
	f.Identifier.Accept(v)
	v.EndFunction()
}
