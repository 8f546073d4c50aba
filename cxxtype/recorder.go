package cxxtype

import (
	"fmt"
	"io"
)

// Event is a single Visitor call. Value holds the argument of
// AddIdentifier and Unrecognized.
type Event struct {
	Name  string
	Value string
}

func (e Event) String() string {
	if e.Value != "" {
		return fmt.Sprintf("%s(%q)", e.Name, e.Value)
	}
	return e.Name
}

// Recorder is a Visitor which records every call.
type Recorder struct {
	Events []Event
}

// WriteTo writes one event per line.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, e := range r.Events {
		n, err := fmt.Fprintln(w, e)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (r *Recorder) record(name string) {
	r.Events = append(r.Events, Event{Name: name})
}

func (r *Recorder) Begin()                      { r.record("begin") }
func (r *Recorder) End()                        { r.record("end") }
func (r *Recorder) Unrecognized(content string) { r.Events = append(r.Events, Event{"unrecognized", content}) }
func (r *Recorder) BeginType()                  { r.record("begin_type") }
func (r *Recorder) EndType()                    { r.record("end_type") }
func (r *Recorder) BeginScope()                 { r.record("begin_scope") }
func (r *Recorder) EndScope()                   { r.record("end_scope") }
func (r *Recorder) AddIdentifier(name string)   { r.Events = append(r.Events, Event{"add_identifier", name}) }
func (r *Recorder) AddArg()                     { r.record("add_arg") }
func (r *Recorder) BeginTemplateArgs()          { r.record("begin_template_args") }
func (r *Recorder) EndTemplateArgs()            { r.record("end_template_args") }
func (r *Recorder) BeginFunction()              { r.record("begin_function") }
func (r *Recorder) EndFunction()                { r.record("end_function") }
func (r *Recorder) BeginReturnType()            { r.record("begin_return_type") }
func (r *Recorder) EndReturnType()              { r.record("end_return_type") }
func (r *Recorder) BeginFunctionArgs()          { r.record("begin_function_args") }
func (r *Recorder) EndFunctionArgs()            { r.record("end_function_args") }
func (r *Recorder) BeginFunctionPtr()           { r.record("begin_function_ptr") }
func (r *Recorder) EndFunctionPtr()             { r.record("end_function_ptr") }
func (r *Recorder) BeginOperatorIdentifier()    { r.record("begin_operator_identifier") }
func (r *Recorder) EndOperatorIdentifier()      { r.record("end_operator_identifier") }
func (r *Recorder) AddConst()                   { r.record("add_const") }
func (r *Recorder) AddVolatile()                { r.record("add_volatile") }
func (r *Recorder) AddNoexcept()                { r.record("add_noexcept") }
func (r *Recorder) AddPtr()                     { r.record("add_ptr") }
func (r *Recorder) AddLValueRef()               { r.record("add_lvalue_ref") }
func (r *Recorder) AddRValueRef()               { r.record("add_rvalue_ref") }
