package ast

import "github.com/yuri91/wasp/lib/token"

// Script is the top-level form of the reference-test scripting dialect
// (spec.md §5): an ordered sequence of commands, each either defining a
// module, registering one for import resolution, invoking/getting an
// export, or asserting an expected outcome.
type Script struct {
	Commands []Command
}

// CommandKind tags the Command tagged union.
type CommandKind int

const (
	CmdModule CommandKind = iota
	CmdRegister
	CmdAction
	CmdAssertion
)

// Command is one top-level script form.
type Command interface {
	CommandKind() CommandKind
	SourceSpan() token.Span
}

// ModuleCommand is a bare `(module ...)` definition, text or binary or
// quoted form (spec.md §5).
type ModuleCommand struct {
	Span   token.Span
	Module *Module
}

func (c *ModuleCommand) CommandKind() CommandKind { return CmdModule }
func (c *ModuleCommand) SourceSpan() token.Span    { return c.Span }

// RegisterCommand is `(register "name" $module)`, making a prior module
// available to subsequent modules under an import-module name.
type RegisterCommand struct {
	Span   token.Span
	Name   string
	Module *Var // nil means "the last module"
}

func (c *RegisterCommand) CommandKind() CommandKind { return CmdRegister }
func (c *RegisterCommand) SourceSpan() token.Span    { return c.Span }

// ActionKind distinguishes invoke from get.
type ActionKind int

const (
	ActionInvoke ActionKind = iota
	ActionGet
)

// Action is `(invoke [$module] "name" args...)` or `(get [$module] "name")`.
type Action struct {
	Span   token.Span
	Kind   ActionKind
	Module *Var // nil means "the last module"
	Name   string
	Args   []Const // invoke only
}

// ActionCommand is a bare top-level action (a command on its own, not
// nested inside an assertion).
type ActionCommand struct {
	Span   token.Span
	Action Action
}

func (c *ActionCommand) CommandKind() CommandKind { return CmdAction }
func (c *ActionCommand) SourceSpan() token.Span    { return c.Span }

// Const is a script-level literal constant, the payload of an invoke
// argument or an assert_return expected result.
type Const struct {
	Span  token.Span
	Type  ValueType
	Bits  uint64   // scalar payload, reinterpreted per Type
	V128  V128Const // SIMD payload, used only when Type == V128
}

// AssertionKind tags the Assertion tagged union (spec.md §5).
type AssertionKind int

const (
	AssertMalformed AssertionKind = iota
	AssertInvalid
	AssertUnlinkable
	AssertModuleTrap
	AssertReturn
	AssertActionTrap
	AssertExhaustion
)

// ModuleSource is the payload a module-level assertion is checked
// against: the module form's span and whether it is a `binary` form, not a
// parsed Module, since malformed/invalid assertions expect parsing or
// validation to fail. The reader does not fill Bytes; it stays nil.
type ModuleSource struct {
	Span   token.Span
	Binary bool // (module binary ...) vs (module quote ...) text source
	Bytes  []byte
}

// MalformedAssertion is `(assert_malformed (module ...) "message")`.
type MalformedAssertion struct {
	Span    token.Span
	Source  ModuleSource
	Message string
}

func (a *MalformedAssertion) CommandKind() CommandKind { return CmdAssertion }
func (a *MalformedAssertion) SourceSpan() token.Span    { return a.Span }
func (a *MalformedAssertion) AssertionKind() AssertionKind { return AssertMalformed }

// InvalidAssertion is `(assert_invalid (module ...) "message")`.
type InvalidAssertion struct {
	Span    token.Span
	Source  ModuleSource
	Message string
}

func (a *InvalidAssertion) CommandKind() CommandKind { return CmdAssertion }
func (a *InvalidAssertion) SourceSpan() token.Span    { return a.Span }
func (a *InvalidAssertion) AssertionKind() AssertionKind { return AssertInvalid }

// UnlinkableAssertion is `(assert_unlinkable (module ...) "message")`.
type UnlinkableAssertion struct {
	Span    token.Span
	Source  ModuleSource
	Message string
}

func (a *UnlinkableAssertion) CommandKind() CommandKind { return CmdAssertion }
func (a *UnlinkableAssertion) SourceSpan() token.Span    { return a.Span }
func (a *UnlinkableAssertion) AssertionKind() AssertionKind { return AssertUnlinkable }

// ModuleTrapAssertion is `(assert_trap (module ...) "message")`: the
// module's implicit start function is expected to trap.
type ModuleTrapAssertion struct {
	Span    token.Span
	Source  ModuleSource
	Message string
}

func (a *ModuleTrapAssertion) CommandKind() CommandKind { return CmdAssertion }
func (a *ModuleTrapAssertion) SourceSpan() token.Span    { return a.Span }
func (a *ModuleTrapAssertion) AssertionKind() AssertionKind { return AssertModuleTrap }

// ResultKind tags a single expected assert_return result, distinguishing
// exact scalars from NaN-pattern and reference-class predicates
// (spec.md §5, §8).
type ResultKind int

const (
	ResultExact ResultKind = iota
	ResultNanCanonical
	ResultNanArithmetic
	ResultRefFunc
	ResultRefNull
	ResultRefExtern
	ResultRefHost
)

// ReturnResult is one expected value slot of an assert_return.
type ReturnResult struct {
	Span  token.Span
	Kind  ResultKind
	Type  ValueType // meaningful for ResultExact / Nan* (f32 vs f64 vs a v128 lane type)
	Exact Const     // meaningful when Kind == ResultExact
	Lanes []ReturnResult // meaningful for a v128 result: one sub-result per lane
}

// ReturnAssertion is `(assert_return (invoke|get ...) result...)`.
type ReturnAssertion struct {
	Span    token.Span
	Action  Action
	Results []ReturnResult
}

func (a *ReturnAssertion) CommandKind() CommandKind { return CmdAssertion }
func (a *ReturnAssertion) SourceSpan() token.Span    { return a.Span }
func (a *ReturnAssertion) AssertionKind() AssertionKind { return AssertReturn }

// ActionTrapAssertion is `(assert_trap (invoke|get ...) "message")`.
type ActionTrapAssertion struct {
	Span    token.Span
	Action  Action
	Message string
}

func (a *ActionTrapAssertion) CommandKind() CommandKind { return CmdAssertion }
func (a *ActionTrapAssertion) SourceSpan() token.Span    { return a.Span }
func (a *ActionTrapAssertion) AssertionKind() AssertionKind { return AssertActionTrap }

// ExhaustionAssertion is `(assert_exhaustion (invoke ...) "message")`.
type ExhaustionAssertion struct {
	Span    token.Span
	Action  Action
	Message string
}

func (a *ExhaustionAssertion) CommandKind() CommandKind { return CmdAssertion }
func (a *ExhaustionAssertion) SourceSpan() token.Span    { return a.Span }
func (a *ExhaustionAssertion) AssertionKind() AssertionKind { return AssertExhaustion }

// Assertion is the interface every assert_* command implements, on top
// of the base Command interface.
type Assertion interface {
	Command
	AssertionKind() AssertionKind
}
