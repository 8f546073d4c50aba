package parser

// Visitor receives the content of a reduced name. Begin and End enclose
// every traversal; all other events describe the structure in textual order.
type Visitor interface {
	Begin()
	End()
	Unrecognized(content string)

	BeginType()
	EndType()

	BeginScope()
	EndScope()

	AddIdentifier(name string)
	AddArg()

	BeginTemplateArgs()
	EndTemplateArgs()

	BeginFunction()
	EndFunction()
	BeginReturnType()
	EndReturnType()
	BeginFunctionArgs()
	EndFunctionArgs()

	BeginFunctionPtr()
	EndFunctionPtr()

	BeginOperatorIdentifier()
	EndOperatorIdentifier()

	AddConst()
	AddVolatile()
	AddNoexcept()
	AddPtr()
	AddLValueRef()
	AddRValueRef()
}

// NopVisitor ignores every event. Embed it to implement only some of them.
type NopVisitor struct{}

func (NopVisitor) Begin()                      {}
func (NopVisitor) End()                        {}
func (NopVisitor) Unrecognized(content string) {}
func (NopVisitor) BeginType()                  {}
func (NopVisitor) EndType()                    {}
func (NopVisitor) BeginScope()                 {}
func (NopVisitor) EndScope()                   {}
func (NopVisitor) AddIdentifier(name string)   {}
func (NopVisitor) AddArg()                     {}
func (NopVisitor) BeginTemplateArgs()          {}
func (NopVisitor) EndTemplateArgs()            {}
func (NopVisitor) BeginFunction()              {}
func (NopVisitor) EndFunction()                {}
func (NopVisitor) BeginReturnType()            {}
func (NopVisitor) EndReturnType()              {}
func (NopVisitor) BeginFunctionArgs()          {}
func (NopVisitor) EndFunctionArgs()            {}
func (NopVisitor) BeginFunctionPtr()           {}
func (NopVisitor) EndFunctionPtr()             {}
func (NopVisitor) BeginOperatorIdentifier()    {}
func (NopVisitor) EndOperatorIdentifier()      {}
func (NopVisitor) AddConst()                   {}
func (NopVisitor) AddVolatile()                {}
func (NopVisitor) AddNoexcept()                {}
func (NopVisitor) AddPtr()                     {}
func (NopVisitor) AddLValueRef()               {}
func (NopVisitor) AddRValueRef()               {}
