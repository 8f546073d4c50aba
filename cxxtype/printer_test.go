package cxxtype_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/skdltmxn/cxxtype-go/cxxtype"
	"github.com/skdltmxn/cxxtype-go/internal/parser"
)

func scopes(names ...string) *parser.ScopeSequence {
	seq := &parser.ScopeSequence{}
	for _, name := range names {
		seq.Scopes = append(seq.Scopes, parser.NewIdentifier(name))
	}
	return seq
}

func regular(seq *parser.ScopeSequence, name string) *parser.Type {
	return &parser.Type{State: &parser.RegularType{
		Scopes:     seq,
		Identifier: parser.NewIdentifier(name),
		Specs:      parser.NewSpecs(),
	}}
}

func TestPrinterHandBuilt(t *testing.T) {
	widget := regular(scopes("app", "ui"), "Widget")

	ref := regular(nil, "Widget")
	ref.Specs().Last().Const = true
	ref.Specs().AddPtr()
	ref.Specs().Ref = parser.RefLValue

	fn := &parser.Function{
		Return: regular(nil, "void"),
		Scopes: scopes("app"),
		Identifier: &parser.FunctionIdentifier{
			Identifier: parser.NewIdentifier("run"),
			Context: &parser.FunctionContext{
				Args:  parser.ArgSequence{Types: []*parser.Type{regular(nil, "int"), widget}},
				Specs: parser.NewSpecs(),
			},
		},
	}

	cases := []struct {
		name string
		term parser.Terminal
		want string
	}{
		{name: "Scoped", term: widget, want: "app::ui::Widget"},
		{name: "Qualified", term: ref, want: "Widget const*&"},
		{name: "Function", term: fn, want: "void app::run(int, app::ui::Widget)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := cxxtype.NewPrinter(nil)
			tc.term.Accept(p)
			if got := p.String(); got != tc.want {
				t.Fatalf("printed %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTreeBuilder(t *testing.T) {
	b := cxxtype.NewTreeBuilder()
	cxxtype.ParseType("std::vector<int>*", b)

	want := &cxxtype.Node{Kind: "name", Children: []*cxxtype.Node{
		{Kind: "type", Children: []*cxxtype.Node{
			{Kind: "scope", Children: []*cxxtype.Node{
				{Kind: "identifier", Value: "std"},
			}},
			{Kind: "identifier", Value: "vector"},
			{Kind: "template_args", Children: []*cxxtype.Node{
				{Kind: "type", Children: []*cxxtype.Node{
					{Kind: "identifier", Value: "int"},
				}},
			}},
			{Kind: "spec", Value: "*"},
		}},
	}}
	if diff := cmp.Diff(want, b.Root()); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if err := b.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	var decoded cxxtype.Node
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Kind != "name" || len(decoded.Children) != 1 {
		t.Fatalf("unexpected JSON root %+v", decoded)
	}
}

func TestTreeBuilderUnrecognized(t *testing.T) {
	cases := []struct {
		in   string
		want *cxxtype.Node
	}{
		{
			in: "int[3]",
			want: &cxxtype.Node{Kind: "name", Children: []*cxxtype.Node{
				{Kind: "type", Children: []*cxxtype.Node{
					{Kind: "identifier", Value: "int"},
					{Kind: "unrecognized", Value: "[3]"},
				}},
			}},
		},
		{
			in: "int (&)[3]",
			want: &cxxtype.Node{Kind: "name", Children: []*cxxtype.Node{
				{Kind: "unrecognized", Value: "int (&)[3]"},
			}},
		},
	}

	for _, tc := range cases {
		b := cxxtype.NewTreeBuilder()
		cxxtype.Parse(tc.in, b)
		if diff := cmp.Diff(tc.want, b.Root()); diff != "" {
			t.Fatalf("Parse(%q) tree mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestAcceptIsRepeatable(t *testing.T) {
	names := []string{
		"std::vector<int, std::allocator<int>>::iterator",
		"void (*(*)(int))(float)",
		"void (Foo::*)(int) const noexcept",
		"`void __cdecl foo(void)'::`2'::my_type",
		"bool operator< <int>(int, int)",
		"void foo(int[3], ...)",
	}

	for _, name := range names {
		res := parser.Parse(name, nil)
		if !res.Recognized() {
			t.Fatalf("Parse(%q) not recognized", name)
		}

		var first, second cxxtype.Recorder
		res.Terminal.Accept(&first)
		res.Terminal.Accept(&second)
		if diff := cmp.Diff(first.Events, second.Events); diff != "" {
			t.Fatalf("second traversal of %q differs (-first +second):\n%s", name, diff)
		}

		p1, p2 := cxxtype.NewPrinter(nil), cxxtype.NewPrinter(nil)
		res.Terminal.Accept(p1)
		res.Terminal.Accept(p2)
		if p1.String() != p2.String() {
			t.Fatalf("printing %q twice gave %q and %q", name, p1.String(), p2.String())
		}
	}
}

func TestRecorderWriteTo(t *testing.T) {
	var rec cxxtype.Recorder
	cxxtype.ParseType("int&", &rec)

	var buf bytes.Buffer
	if _, err := rec.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	want := "begin\nbegin_type\nadd_identifier(\"int\")\nadd_lvalue_ref\nend_type\nend\n"
	if got := buf.String(); got != want {
		t.Fatalf("WriteTo wrote %q, want %q", got, want)
	}
}
