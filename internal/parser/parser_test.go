package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// events records a traversal in a compact textual form.
type events []string

func (e *events) add(s string) { *e = append(*e, s) }

func (e *events) Begin()                      { e.add("begin") }
func (e *events) End()                        { e.add("end") }
func (e *events) Unrecognized(content string) { e.add("unrecognized:" + content) }
func (e *events) BeginType()                  { e.add("type{") }
func (e *events) EndType()                    { e.add("}type") }
func (e *events) BeginScope()                 { e.add("scope{") }
func (e *events) EndScope()                   { e.add("}scope") }
func (e *events) AddIdentifier(name string)   { e.add("id:" + name) }
func (e *events) AddArg()                     { e.add(",") }
func (e *events) BeginTemplateArgs()          { e.add("targs{") }
func (e *events) EndTemplateArgs()            { e.add("}targs") }
func (e *events) BeginFunction()              { e.add("func{") }
func (e *events) EndFunction()                { e.add("}func") }
func (e *events) BeginReturnType()            { e.add("ret{") }
func (e *events) EndReturnType()              { e.add("}ret") }
func (e *events) BeginFunctionArgs()          { e.add("fargs{") }
func (e *events) EndFunctionArgs()            { e.add("}fargs") }
func (e *events) BeginFunctionPtr()           { e.add("fptr{") }
func (e *events) EndFunctionPtr()             { e.add("}fptr") }
func (e *events) BeginOperatorIdentifier()    { e.add("op{") }
func (e *events) EndOperatorIdentifier()      { e.add("}op") }
func (e *events) AddConst()                   { e.add("const") }
func (e *events) AddVolatile()                { e.add("volatile") }
func (e *events) AddNoexcept()                { e.add("noexcept") }
func (e *events) AddPtr()                     { e.add("*") }
func (e *events) AddLValueRef()               { e.add("&") }
func (e *events) AddRValueRef()               { e.add("&&") }

func record(res *Result) []string {
	var e events
	res.Accept(&e)
	return e
}

func TestParseTypeEvents(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "Builtin",
			in:   "int",
			want: []string{"begin", "type{", "id:int", "}type", "end"},
		},
		{
			name: "MultiWordBuiltin",
			in:   "unsigned long long",
			want: []string{"begin", "type{", "id:unsigned long long", "}type", "end"},
		},
		{
			name: "PrefixConstRef",
			in:   "const int&",
			want: []string{"begin", "type{", "id:int", "const", "&", "}type", "end"},
		},
		{
			name: "PointerLayers",
			in:   "int const* volatile*",
			want: []string{"begin", "type{", "id:int", "const", "*", "volatile", "*", "}type", "end"},
		},
		{
			name: "ScopedTemplate",
			in:   "std::vector<int>",
			want: []string{
				"begin", "type{",
				"scope{", "id:std", "}scope",
				"id:vector", "targs{", "type{", "id:int", "}type", "}targs",
				"}type", "end",
			},
		},
		{
			name: "TemplateArgs",
			in:   "std::pair<int, float>",
			want: []string{
				"begin", "type{",
				"scope{", "id:std", "}scope",
				"id:pair", "targs{",
				"type{", "id:int", "}type", ",", "type{", "id:float", "}type",
				"}targs",
				"}type", "end",
			},
		},
		{
			name: "FunctionPtr",
			in:   "int (*)(float)",
			want: []string{
				"begin", "type{",
				"ret{", "type{", "id:int", "}type", "}ret",
				"fptr{", "*", "}fptr",
				"fargs{", "type{", "id:float", "}type", "}fargs",
				"}type", "end",
			},
		},
		{
			name: "MemberFunctionPtr",
			in:   "void (Foo::*)(int) const noexcept",
			want: []string{
				"begin", "type{",
				"ret{", "type{", "id:void", "}type", "}ret",
				"fptr{", "scope{", "id:Foo", "}scope", "*", "}fptr",
				"fargs{", "type{", "id:int", "}type", "}fargs",
				"const", "noexcept",
				"}type", "end",
			},
		},
		{
			name: "FunctionType",
			in:   "void (int)",
			want: []string{
				"begin", "func{",
				"ret{", "type{", "id:void", "}type", "}ret",
				"fargs{", "type{", "id:int", "}type", "}fargs",
				"}func", "end",
			},
		},
		{
			name: "RootScopeIsDropped",
			in:   "::foo",
			want: []string{"begin", "type{", "id:foo", "}type", "end"},
		},
		{
			name: "TypeContextIsDropped",
			in:   "class Foo",
			want: []string{"begin", "type{", "id:Foo", "}type", "end"},
		},
		{
			name: "Ptr64IsDropped",
			in:   "int * __ptr64",
			want: []string{"begin", "type{", "id:int", "*", "}type", "end"},
		},
		{
			name: "Placeholder",
			in:   "(anonymous namespace)::foo",
			want: []string{
				"begin", "type{",
				"scope{", "id:(anonymous namespace)", "}scope",
				"id:foo",
				"}type", "end",
			},
		},
		{
			name: "UnrecognizedSuffix",
			in:   "int[3]",
			want: []string{"begin", "type{", "id:int", "unrecognized:[3]", "}type", "end"},
		},
		{
			name: "UnrecognizedTemplateArg",
			in:   "std::vector<int[3]>",
			want: []string{
				"begin", "type{",
				"scope{", "id:std", "}scope",
				"id:vector",
				"targs{", "type{", "id:int", "unrecognized:[3]", "}type", "}targs",
				"}type", "end",
			},
		},
		{
			name: "UnrecognizedValueArg",
			in:   "Box<-1, int>",
			want: []string{
				"begin", "type{",
				"id:Box",
				"targs{", "type{", "unrecognized:-1", "}type", ",", "type{", "id:int", "}type", "}targs",
				"}type", "end",
			},
		},
		{
			name: "RootScopeTemplateArg",
			in:   "Box<::Foo>",
			want: []string{
				"begin", "type{",
				"id:Box",
				"targs{", "type{", "id:Foo", "}type", "}targs",
				"}type", "end",
			},
		},
		{
			name: "UnreducedInput",
			in:   "int (&)[3]",
			want: []string{"begin", "unrecognized:int (&)[3]", "end"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := record(ParseType(tc.in, nil))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("ParseType(%q) mismatch (-want +got):\n%s", tc.in, diff)
			}
		})
	}
}

func TestParseFunctionEvents(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "Plain",
			in:   "void foo(int)",
			want: []string{
				"begin", "func{",
				"ret{", "type{", "id:void", "}type", "}ret",
				"id:foo",
				"fargs{", "type{", "id:int", "}type", "}fargs",
				"}func", "end",
			},
		},
		{
			name: "SoleVoidArg",
			in:   "void foo(void)",
			want: []string{
				"begin", "func{",
				"ret{", "type{", "id:void", "}type", "}ret",
				"id:foo", "fargs{", "}fargs",
				"}func", "end",
			},
		},
		{
			name: "NoReturnType",
			in:   "ns::foo() const",
			want: []string{
				"begin", "func{",
				"scope{", "id:ns", "}scope",
				"id:foo", "fargs{", "}fargs", "const",
				"}func", "end",
			},
		},
		{
			name: "CallingConvention",
			in:   "void __cdecl foo(int)",
			want: []string{
				"begin", "func{",
				"ret{", "type{", "id:void", "}type", "}ret",
				"id:foo",
				"fargs{", "type{", "id:int", "}type", "}fargs",
				"}func", "end",
			},
		},
		{
			name: "Operator",
			in:   "bool foo::operator==(foo const&)",
			want: []string{
				"begin", "func{",
				"ret{", "type{", "id:bool", "}type", "}ret",
				"scope{", "id:foo", "}scope",
				"op{", "id:==", "}op",
				"fargs{", "type{", "id:foo", "const", "&", "}type", "}fargs",
				"}func", "end",
			},
		},
		{
			name: "UnrecognizedArg",
			in:   "void foo(int[3], float)",
			want: []string{
				"begin", "func{",
				"ret{", "type{", "id:void", "}type", "}ret",
				"id:foo",
				"fargs{",
				"type{", "id:int", "unrecognized:[3]", "}type", ",",
				"type{", "id:float", "}type",
				"}fargs",
				"}func", "end",
			},
		},
		{
			name: "Variadic",
			in:   "void foo(int, ...)",
			want: []string{
				"begin", "func{",
				"ret{", "type{", "id:void", "}type", "}ret",
				"id:foo",
				"fargs{", "type{", "id:int", "}type", ",", "type{", "unrecognized:...", "}type", "}fargs",
				"}func", "end",
			},
		},
		{
			name: "CloneSuffix",
			in:   "void foo() [clone .cold]",
			want: []string{
				"begin", "func{",
				"ret{", "type{", "id:void", "}type", "}ret",
				"id:foo", "fargs{", "}fargs", "unrecognized: [clone .cold]",
				"}func", "end",
			},
		},
		{
			name: "Destructor",
			in:   "Foo::~Foo()",
			want: []string{
				"begin", "func{",
				"scope{", "id:Foo", "}scope",
				"id:~Foo", "fargs{", "}fargs",
				"}func", "end",
			},
		},
		{
			name: "ConversionOperator",
			in:   "Foo::operator int() const",
			want: []string{
				"begin", "func{",
				"scope{", "id:Foo", "}scope",
				"op{", "type{", "id:int", "}type", "}op",
				"fargs{", "}fargs", "const",
				"}func", "end",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := record(Parse(tc.in, nil))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Parse(%q) mismatch (-want +got):\n%s", tc.in, diff)
			}
		})
	}
}

func TestParseTerminalState(t *testing.T) {
	res := ParseType("int (*)(float)", nil)
	typ, ok := res.Terminal.(*Type)
	if !ok {
		t.Fatalf("terminal is %T, want *Type", res.Terminal)
	}
	if _, ok := typ.State.(*FunctionPtrType); !ok {
		t.Fatalf("state is %T, want *FunctionPtrType", typ.State)
	}

	res = Parse("void foo()", nil)
	if _, ok := res.Terminal.(*Function); !ok {
		t.Fatalf("terminal is %T, want *Function", res.Terminal)
	}
}

func TestParseTemplateness(t *testing.T) {
	cases := []struct {
		in       string
		template bool
		args     int
	}{
		{in: "Box", template: false},
		{in: "Box<>", template: true, args: 0},
		{in: "Box<int>", template: true, args: 1},
		{in: "Box<Box<int>, char>", template: true, args: 2},
	}

	for _, tc := range cases {
		res := ParseType(tc.in, nil)
		if !res.Recognized() {
			t.Fatalf("ParseType(%q) not recognized", tc.in)
		}
		id := res.Terminal.(*Type).Regular().Identifier
		if id.IsTemplate() != tc.template {
			t.Fatalf("ParseType(%q).IsTemplate() = %v, want %v", tc.in, id.IsTemplate(), tc.template)
		}
		if tc.template && len(id.TemplateArgs.Types) != tc.args {
			t.Fatalf("ParseType(%q) has %d args, want %d", tc.in, len(id.TemplateArgs.Types), tc.args)
		}
	}
}

func TestParseInvariant(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("recovered %v, want an error", r)
		}
		if !errors.Is(err, ErrInvariant) {
			t.Fatalf("error %v does not wrap ErrInvariant", err)
		}
		var ie *InvariantError
		if !errors.As(err, &ie) || ie.Input != "const const int" || ie.Offset != 6 {
			t.Fatalf("unexpected error %#v", err)
		}
	}()

	ParseType("const const int", nil)
	t.Fatalf("ParseType did not panic")
}

func TestParseUnbalanced(t *testing.T) {
	cases := []struct {
		in     string
		offset int
	}{
		{in: "foo}", offset: 3},
		{in: "{lambda(int)#1", offset: 14},
		{in: "foo'", offset: 3},
		{in: "`anonymous namespace", offset: 20},
		{in: "{lambda()#1}}", offset: 12},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			err := parseError(tc.in)
			var ie *InvariantError
			if !errors.As(err, &ie) {
				t.Fatalf("ParseType(%q) error = %v, want an *InvariantError", tc.in, err)
			}
			if ie.Input != tc.in || ie.Offset != tc.offset {
				t.Fatalf("ParseType(%q) error at offset %d of %q, want offset %d", tc.in, ie.Offset, ie.Input, tc.offset)
			}
		})
	}
}

func parseError(in string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	ParseType(in, nil)
	return nil
}
