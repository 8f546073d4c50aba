package cxxtype

import (
	"encoding/json"
	"io"
)

// Node is an element of the tree built by TreeBuilder. Leaves carry a
// Value, e.g. an identifier or a qualifier.
type Node struct {
	Kind     string  `json:"kind"`
	Value    string  `json:"value,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// TreeBuilder is a Visitor which builds a tree of the traversal, suitable
// for JSON output.
type TreeBuilder struct {
	root  *Node
	stack []*Node
}

// NewTreeBuilder creates an empty builder.
func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{}
}

// Root returns the tree of the last traversal.
func (b *TreeBuilder) Root() *Node {
	return b.root
}

// WriteJSON writes the tree as indented JSON.
func (b *TreeBuilder) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b.root)
}

func (b *TreeBuilder) open(kind string) {
	n := &Node{Kind: kind}
	b.add(n)
	b.stack = append(b.stack, n)
}

func (b *TreeBuilder) close() {
	if len(b.stack) > 0 {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

func (b *TreeBuilder) add(n *Node) {
	if len(b.stack) == 0 {
		b.root = n
		return
	}
	parent := b.stack[len(b.stack)-1]
	parent.Children = append(parent.Children, n)
}

func (b *TreeBuilder) leaf(kind, value string) {
	b.add(&Node{Kind: kind, Value: value})
}

func (b *TreeBuilder) Begin() {
	b.root = nil
	b.stack = b.stack[:0]
	b.open("name")
}

func (b *TreeBuilder) End() { b.close() }

func (b *TreeBuilder) Unrecognized(content string) { b.leaf("unrecognized", content) }

func (b *TreeBuilder) BeginType() { b.open("type") }
func (b *TreeBuilder) EndType()   { b.close() }

func (b *TreeBuilder) BeginScope() { b.open("scope") }
func (b *TreeBuilder) EndScope()   { b.close() }

func (b *TreeBuilder) AddIdentifier(name string) { b.leaf("identifier", name) }

// AddArg is implied by the children of the argument lists.
func (b *TreeBuilder) AddArg() {}

func (b *TreeBuilder) BeginTemplateArgs() { b.open("template_args") }
func (b *TreeBuilder) EndTemplateArgs()   { b.close() }

func (b *TreeBuilder) BeginFunction() { b.open("function") }
func (b *TreeBuilder) EndFunction()   { b.close() }

func (b *TreeBuilder) BeginReturnType() { b.open("return_type") }
func (b *TreeBuilder) EndReturnType()   { b.close() }

func (b *TreeBuilder) BeginFunctionArgs() { b.open("function_args") }
func (b *TreeBuilder) EndFunctionArgs()   { b.close() }

func (b *TreeBuilder) BeginFunctionPtr() { b.open("function_ptr") }
func (b *TreeBuilder) EndFunctionPtr()   { b.close() }

func (b *TreeBuilder) BeginOperatorIdentifier() { b.open("operator") }
func (b *TreeBuilder) EndOperatorIdentifier()   { b.close() }

func (b *TreeBuilder) AddConst()     { b.leaf("spec", "const") }
func (b *TreeBuilder) AddVolatile()  { b.leaf("spec", "volatile") }
func (b *TreeBuilder) AddNoexcept()  { b.leaf("spec", "noexcept") }
func (b *TreeBuilder) AddPtr()       { b.leaf("spec", "*") }
func (b *TreeBuilder) AddLValueRef() { b.leaf("spec", "&") }
func (b *TreeBuilder) AddRValueRef() { b.leaf("spec", "&&") }
