package parser

// Reductions match a suffix of the stack and replace it by a single token.
// They either apply completely and report true, or leave the stack
// untouched and report false.

func reduceScopeSequence(s *stack) bool {
	view := *s
	if !view.topIs(KindScopeResolution) {
		return false
	}
	view = view.dropTop(1)

	var scope Scope
	switch t := view.top().(type) {
	case *Identifier:
		scope = t
	case *FunctionIdentifier:
		scope = t
	default:
		return false
	}
	view = view.dropTop(1)

	if seq := topAs[*ScopeSequence](view); seq != nil {
		seq.Scopes = append(seq.Scopes, scope)
		s.commit(view)
	} else {
		s.commit(view, &ScopeSequence{Scopes: []Scope{scope}})
	}
	return true
}

func reduceArgSequence(s *stack) bool {
	view := *s
	if view.topIs(KindArgSequence, KindArgSeparator, KindType) {
		n := len(view)
		seq := view[n-3].(*ArgSequence)
		seq.Types = append(seq.Types, view[n-1].(*Type))
		s.commit(view.dropTop(2))
		return true
	}

	if t := topAs[*Type](view); t != nil {
		s.commit(view.dropTop(1), &ArgSequence{Types: []*Type{t}})
		return true
	}
	return false
}

func reduceTemplateIdentifier(s *stack) bool {
	view := *s
	if !view.topIs(KindClosingAngle) {
		return false
	}
	view = view.dropTop(1)

	args := topAs[*ArgSequence](view)
	if args != nil {
		view = view.dropTop(1)
	}

	if !view.topIs(KindOpeningAngle) {
		return false
	}
	view = view.dropTop(1)

	id := topAs[*Identifier](view)
	if id == nil || id.IsTemplate() {
		return false
	}

	if args == nil {
		args = &ArgSequence{}
	}
	id.TemplateArgs = args
	s.commit(view)
	return true
}

func reduceFunctionContext(s *stack) bool {
	view := *s
	if !view.topIs(KindClosingParens) {
		return false
	}
	view = view.dropTop(1)

	args := topAs[*ArgSequence](view)
	if args != nil {
		view = view.dropTop(1)
	}

	if !view.topIs(KindOpeningParens) {
		return false
	}
	view = view.dropTop(1)

	// `::()` never introduces function args.
	if view.topIs(KindScopeResolution) || view.topIs(KindScopeSequence) {
		return false
	}

	ctx := newFunctionContext()
	// A sole `void` means no args.
	if args != nil && !(len(args.Types) == 1 && args.Types[0].IsVoid()) {
		ctx.Args = *args
	}

	s.commit(view, ctx)
	return true
}

func reduceFunctionIdentifier(s *stack) bool {
	// A space may be present, when the function is wrapped inside quotes.
	view := ignoreSpace(*s)
	// Trailing `__ptr64` and friends.
	view = ignoreReservedIdentifier(view)

	if !view.topIs(KindIdentifier, KindFunctionContext) {
		return false
	}
	n := len(view)
	id := view[n-2].(*Identifier)
	ctx := view[n-1].(*FunctionContext)

	// `ret __cdecl(args)` is a function type, not a function named __cdecl.
	if id.callingConvention {
		return false
	}

	s.commit(view.dropTop(2), &FunctionIdentifier{Identifier: id, Context: ctx})
	return true
}

func isIdentifierPrefix(s stack) bool {
	if len(s) == 0 {
		return true
	}
	switch s.top().Kind() {
	case KindSpace,
		KindScopeSequence,
		KindSpecs,
		KindType,
		KindTypeContext,
		KindArgSeparator,
		KindOpeningAngle,
		KindOpeningParens,
		KindOpeningBacktick:
		return true
	}
	return false
}

// reducePlaceholder collapses everything between the nearest opening token
// and the closing token on top into one opaque identifier. The content is
// not parsed any further.
func reducePlaceholder(s *stack, input string, opening, closing TokenKind) bool {
	invariant(s.topIs(closing), "expected %v on top of %v", closing, *s)
	closer := s.top().(*Punct)
	view := (*s)[:len(*s)-1]

	idx := -1
	for i := len(view) - 1; i >= 0; i-- {
		if view[i].Kind() == opening {
			idx = i
			break
		}
	}
	if idx < 0 || !isIdentifierPrefix(view[:idx]) {
		return false
	}

	opener := view[idx].(*Punct)
	invariant(opener.Offset >= 0 && closer.End() <= len(input), "placeholder outside of input")
	content := input[opener.Offset:closer.End()]

	// The leading space is not part of the name.
	view = ignoreSpace(view[:idx])

	s.commit(view, NewIdentifier(content))
	return true
}

func reduceFunctionType(s *stack) bool {
	view := *s

	ctx := topAs[*FunctionContext](view)
	if ctx == nil {
		return false
	}
	view = view.dropTop(1)

	// The return type is delimited by a space from the args, except for
	// msvc which writes `void __cdecl(int)`.
	if !view.topIs(KindSpace) {
		if id := topAs[*Identifier](view); id == nil || !id.IsReserved() {
			return false
		}
	}
	view = view.dropTop(1)

	// calling convention
	view = ignoreReservedIdentifier(view)

	ret := topAs[*Type](view)
	if ret == nil {
		return false
	}
	view = view.dropTop(1)

	s.commit(view, &Type{State: &FunctionType{Return: ret, Context: ctx}})
	return true
}

func reduceFunctionPtr(s *stack) bool {
	view := *s
	if !view.topIs(KindClosingParens) {
		return false
	}
	view = view.dropTop(1)

	var nested *NestedInfo
	if ctx := topAs[*FunctionContext](view); ctx != nil {
		nested = &NestedInfo{Ctx: ctx}
		view = view.dropTop(1)

		if ptr := topAs[*FunctionPtr](view); ptr != nil {
			nested.Ptr = ptr
			view = view.dropTop(1)
		}
	}

	view = ignoreSpace(view)
	view = ignoreReservedIdentifier(view)

	var (
		specs  *Specs
		scopes *ScopeSequence
	)
	if sp := topAs[*Specs](view); sp != nil && sp.HasPtr() {
		specs = sp
		view = view.dropTop(1)

		if seq := topAs[*ScopeSequence](view); seq != nil {
			scopes = seq
			view = view.dropTop(1)
		}

		// msvc: `(__cdecl Foo::*)`, where the calling convention may
		// already have been reduced to a type.
		view = ignoreReservedIdentifier(view)
		if t := topAs[*Type](view); t != nil {
			if r := t.Regular(); r != nil && r.Identifier.IsReserved() {
				view = view.dropTop(1)
			}
		}
	} else {
		// msvc: `(__cdecl*)`, where the pointer is attached to the type
		// reduced from the calling convention.
		var r *RegularType
		if t := topAs[*Type](view); t != nil {
			r = t.Regular()
		}
		if r == nil || !r.Identifier.IsReserved() || !r.Specs.HasPtr() {
			return false
		}
		specs = &r.Specs
		view = view.dropTop(1)
	}

	if !view.topIs(KindOpeningParens) {
		return false
	}
	view = view.dropTop(1)

	s.commit(view, &FunctionPtr{Scopes: scopes, Specs: *specs, Nested: nested})
	return true
}

func reduceFunctionPtrType(s *stack) bool {
	// `__ptr64` and friends
	view := ignoreReservedIdentifier(*s)

	// The return type is always delimited by a space from the ptr part.
	if !view.topIs(KindType, KindSpace, KindFunctionPtr, KindFunctionContext) {
		return false
	}
	n := len(view)
	ret := view[n-4].(*Type)
	ptr := view[n-2].(*FunctionPtr)
	ctx := view[n-1].(*FunctionContext)

	s.commit(view.dropTop(4), &Type{State: &FunctionPtrType{
		Return:  ret,
		Scopes:  ptr.Scopes,
		Specs:   ptr.Specs,
		Context: ctx,
	}})

	// `ret (*(*)(outer-args))(args)`: the type just reduced is the return
	// type of the pending function (pointer).
	if ptr.Nested != nil {
		handleNestedFunctionPtr(s, ptr.Nested)
	}
	return true
}

func handleNestedFunctionPtr(s *stack, info *NestedInfo) {
	s.push(newPunct(KindSpace, " ", -1))
	if info.Ptr != nil {
		s.push(info.Ptr)
	}
	s.push(info.Ctx)

	var ok bool
	if info.Ptr != nil {
		ok = reduceFunctionPtrType(s)
	} else {
		ok = reduceFunctionType(s)
	}
	invariant(ok, "unresolved nested function pointer: %v", *s)
}

func reduceRegularType(s *stack) bool {
	view := *s

	id := topAs[*Identifier](view)
	if id == nil {
		return false
	}
	view = view.dropTop(1)

	// A trailing reserved word after a type, e.g. `int& __ptr64`.
	if id.IsReserved() && view.topIs(KindType) {
		s.pop()
		return true
	}

	scopes := topAs[*ScopeSequence](view)
	if scopes != nil {
		view = view.dropTop(1)
	}

	prefix := topAs[*Specs](view)
	if prefix != nil {
		// Prefix specs may only be `const` and `volatile`.
		if prefix.Ref != RefNone || prefix.Noexcept || len(prefix.Layers) != 1 {
			return false
		}
		view = view.dropTop(1)
	}

	if view.topIs(KindType) || view.topIs(KindFunctionContext) {
		return false
	}

	t := &RegularType{Scopes: scopes, Identifier: id, Specs: NewSpecs()}
	if prefix != nil {
		t.Specs = *prefix
	}

	// `class`, `struct`, ...
	if view.topIs(KindTypeContext) {
		view = view.dropTop(1)
	}

	s.commit(view, &Type{State: t})
	return true
}

// reduceAsType tries the type reductions from most to least specific.
func reduceAsType(s *stack) bool {
	return reduceFunctionPtrType(s) ||
		reduceFunctionType(s) ||
		reduceRegularType(s)
}

func reduceFunction(s *stack) bool {
	view := *s

	fi := topAs[*FunctionIdentifier](view)
	if fi == nil {
		return false
	}
	view = view.dropTop(1)

	f := &Function{Identifier: fi}
	if seq := topAs[*ScopeSequence](view); seq != nil {
		f.Scopes = seq
		view = view.dropTop(1)
	}

	// calling convention
	view = ignoreReservedIdentifier(view)

	if ret := topAs[*Type](view); ret != nil {
		f.Return = ret
		view = view.dropTop(1)
	}

	s.commit(view, f)
	return true
}

// reduceConversionOperator turns `operator T` into an identifier and, if a
// context follows, into a function identifier.
func reduceConversionOperator(s *stack) {
	// Stacktraces sometimes omit the args, so the context is optional.
	ctx := topAs[*FunctionContext](*s)
	if ctx != nil {
		s.pop()
	}

	reduceAsType(s)
	target := topAs[*Type](*s)
	invariant(target != nil, "conversion operator without target type: %v", *s)
	s.pop()

	invariant(s.topIs(KindOperatorKeyword), "conversion target not preceded by operator: %v", *s)
	(*s)[len(*s)-1] = NewConversionIdentifier(target)

	if ctx != nil {
		s.push(ctx)
		reduceFunctionIdentifier(s)
	}
}

// getOrEmplaceSpecs returns the specs a qualifier applies to, pushing new
// prefix specs if there are none.
func getOrEmplaceSpecs(s *stack) *Specs {
	// `type&` requires the identifier to be reduced first.
	if id := topAs[*Identifier](*s); id != nil {
		if reduceAsType(s) {
			return topAs[*Type](*s).Specs()
		}

		// Something like `ret T::foo() & __ptr64`.
		invariant(id.IsReserved(), "unexpected identifier %q in front of specs", id.Name)
		s.pop()
	}

	switch t := s.top().(type) {
	case *Type:
		return t.Specs()
	case *FunctionContext:
		return &t.Specs
	case *Specs:
		return t
	}

	specs := NewSpecs()
	s.push(&specs)
	return &specs
}
