package exprlang

import (
	"fmt"

	"github.com/perghosh/filecleaner/internal/value"
)

// Method is a callable exposed to ExprLang, either as a root-level function
// or under a namespace (e.g. "str::upper"). recv is value.Null() for
// root-level and plain function calls.
type Method func(recv value.Value, args []value.Value) (value.Value, error)

// Runtime resolves variables, methods, and globals during execution (§3
// Runtime; grounded on gd_expression_runtime.h's variable/method/global
// triad).
type Runtime struct {
	variables map[string]value.Value
	globals   map[string]value.Value
	methods   map[string]Method
	// finder is the optional secondary variable-resolution callback (§3:
	// "finder: optional callback (name → Value?)"). The owning pass (e.g.
	// the Table-bound evaluator in eval_table.go) installs this to expose
	// a row's columns as variables without copying the row into
	// variables on every call.
	finder func(name string) (value.Value, bool)
}

// NewRuntime returns a Runtime pre-populated with the standard method
// library (§4.7.5).
func NewRuntime() *Runtime {
	r := &Runtime{
		variables: make(map[string]value.Value),
		globals:   make(map[string]value.Value),
		methods:   make(map[string]Method),
	}
	registerStandardMethods(r)
	return r
}

// SetVariable assigns a run-scoped variable (cleared by ResetVariables,
// e.g. between files in a batch run).
func (r *Runtime) SetVariable(name string, v value.Value) { r.variables[name] = v }

// Variable resolves name: (a) the explicit variable list, (b) the optional
// finder callback, (c) globals (§4.7.3: "in the Runtime's variable list, or
// via the optional finder callback").
func (r *Runtime) Variable(name string) (value.Value, bool) {
	if v, ok := r.variables[name]; ok {
		return v, true
	}
	if r.finder != nil {
		if v, ok := r.finder(name); ok {
			return v, true
		}
	}
	if v, ok := r.globals[name]; ok {
		return v, true
	}
	return value.Null(), false
}

// SetFinder installs the optional secondary variable-resolution callback,
// consulted after the explicit variable list and before globals.
func (r *Runtime) SetFinder(f func(name string) (value.Value, bool)) { r.finder = f }

// ResetVariables clears run-scoped variables, keeping globals and methods
// intact (used between files when a single Runtime is reused in a batch).
func (r *Runtime) ResetVariables() { r.variables = make(map[string]value.Value) }

// SetGlobal assigns a global, visible across files in a batch run.
func (r *Runtime) SetGlobal(name string, v value.Value) { r.globals[name] = v }

// RegisterMethod registers a callable under name (root-level names have no
// "::"; namespaced names look like "str::upper").
func (r *Runtime) RegisterMethod(name string, m Method) { r.methods[name] = m }

// Method resolves a registered callable by name.
func (r *Runtime) Method(name string) (Method, bool) {
	m, ok := r.methods[name]
	return m, ok
}

// ErrUnknownVariable is returned by Run when Variable cannot resolve an
// identifier: it is not an explicit variable, not found by the finder, and
// not a global (§7). Registered methods are not consulted for bare
// identifiers.
type ErrUnknownVariable struct{ Name string }

func (e *ErrUnknownVariable) Error() string { return fmt.Sprintf("exprlang: unknown identifier %q", e.Name) }

// ErrUnknownMethod is returned by Run when a call targets an unregistered
// name (§7).
type ErrUnknownMethod struct{ Name string }

func (e *ErrUnknownMethod) Error() string { return fmt.Sprintf("exprlang: unknown method %q", e.Name) }
