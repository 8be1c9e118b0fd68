package token

// Kind identifies the lexical class of a Token. The values are grouped the
// way spec.md §3 groups them: structural, keyword, literal, and opcode
// tokens, plus value/element/reference type tokens and Eof.
type Kind int

const (
	Invalid Kind = iota

	// structural
	Lpar
	Rpar
	LparAnn // '(@' — the start of an annotation

	// literals
	Nat      // unsigned natural, decimal or hex
	Int      // signed integer, decimal or hex
	Float    // IEEE float, including inf/nan forms
	Text     // quoted string
	Id       // $identifier
	Reserved // idChar run that isn't a recognised keyword/id/text

	Eof

	// value / element / reference types
	I32
	I64
	F32
	F64
	V128
	FuncRef
	ExternRef
	AnyRef
	HostRef

	// module-structure keywords
	KwModule
	KwType
	KwImport
	KwExport
	KwFunc
	KwTable
	KwMemory
	KwGlobal
	KwEvent
	KwElem
	KwData
	KwStart
	KwParam
	KwResult
	KwLocal
	KwOffset
	KwItem
	KwDeclare
	KwMut
	KwFuncRefKw // not produced by the lexer: "funcref"/"externref" always lex as the FuncRef/ExternRef type tokens

	// block/try structure
	KwBlock
	KwLoop
	KwIf
	KwThen
	KwElse
	KwTry
	KwCatch
	KwCatchAll
	KwEnd

	// script keywords
	KwRegister
	KwInvoke
	KwGet
	KwAssertMalformed
	KwAssertInvalid
	KwAssertUnlinkable
	KwAssertTrap
	KwAssertReturn
	KwAssertExhaustion
	KwBinary
	KwQuote
	KwRefAny
	KwRefFuncResult
	KwRefNullResult
	KwRefHost
	KwNanCanonical
	KwNanArithmetic

	// opcodes: no immediate
	OpUnreachable
	OpNop
	OpReturn
	OpDrop
	OpI32Eqz
	OpI32Eq
	OpI32Ne
	OpI32LtS
	OpI32GtS
	OpI32Add
	OpI32Sub
	OpI32Mul
	OpI32And
	OpI32Or
	OpI32Xor
	OpI32Ctz
	OpI32Clz
	OpI64Add
	OpI64Eqz
	OpF32Add
	OpF64Add
	OpI32WrapI64
	OpI32Extend8S  // sign-extension
	OpMemorySize
	OpMemoryGrow
	OpRefIsNull

	// opcodes: Var immediate
	OpBr
	OpLocalGet
	OpLocalSet
	OpLocalTee
	OpGlobalGet
	OpGlobalSet
	OpCall
	OpTableGet
	OpTableSet
	OpTableSize
	OpTableGrow
	OpTableFill
	OpElemDrop
	OpDataDrop
	OpRefFunc
	OpReturnCall // tail_call

	// opcodes: BrTable immediate
	OpBrTable

	// opcodes: BrOnExn immediate
	OpBrOnExn // exceptions

	// opcodes: CallIndirect immediate
	OpCallIndirect
	OpReturnCallIndirect // tail_call

	// opcodes: MemArg immediate
	OpI32Load
	OpI64Load
	OpF32Load
	OpF64Load
	OpI32Store
	OpI64Store
	OpF32Store
	OpF64Store
	OpI32Load8S
	OpI32Load8U
	OpV128Load // simd

	// opcodes: scalar constant immediate
	OpI32Const
	OpI64Const
	OpF32Const
	OpF64Const

	// opcodes: SIMD 128-bit constant immediate
	OpV128Const // simd

	// opcodes: SIMD lane immediate
	OpI8x16ExtractLaneS // simd
	OpI8x16ReplaceLane  // simd

	// opcodes: shuffle immediate
	OpI8x16Shuffle // simd

	// opcodes: block immediate
	OpBlock
	OpLoop
	OpIf
	OpTryOp // exceptions; distinct token from KwTry used when parsing as an instruction head

	// opcodes: optional select-type-list immediate
	OpSelect

	// opcodes: TableCopy / TableInit immediates
	OpTableCopy // bulk_memory
	OpTableInit // bulk_memory

	// opcodes: throw / rethrow (no immediate beyond a Var for throw's event)
	OpThrow   // exceptions, Var immediate
	OpRethrow // exceptions, Var immediate

	// structural markers that appear as entries in a flattened instruction
	// list (mirroring the binary format's own End/Else/Catch opcodes),
	// synthesised by the reader rather than looked up in the keyword table
	OpEnd
	OpElse
	OpCatch
	OpCatchAll
)

// names maps each Kind to its spelling; Kind.String reads it for both
// diagnostics and the printer's opcode output.
var names = map[Kind]string{
	Invalid: "invalid", Lpar: "(", Rpar: ")", LparAnn: "(@",
	Nat: "nat", Int: "int", Float: "float", Text: "string", Id: "id", Reserved: "reserved",
	Eof: "eof",
	I32: "i32", I64: "i64", F32: "f32", F64: "f64", V128: "v128",
	FuncRef: "funcref", ExternRef: "externref", AnyRef: "anyref", HostRef: "hostref",
	KwModule: "module", KwType: "type", KwImport: "import", KwExport: "export",
	KwFunc: "func", KwTable: "table", KwMemory: "memory", KwGlobal: "global",
	KwEvent: "event", KwElem: "elem", KwData: "data", KwStart: "start",
	KwParam: "param", KwResult: "result", KwLocal: "local", KwOffset: "offset",
	KwItem: "item", KwDeclare: "declare", KwMut: "mut",
	KwBlock: "block", KwLoop: "loop", KwIf: "if", KwThen: "then", KwElse: "else",
	KwTry: "try", KwCatch: "catch", KwCatchAll: "catch_all", KwEnd: "end",
	KwRegister: "register", KwInvoke: "invoke", KwGet: "get",
	KwAssertMalformed: "assert_malformed", KwAssertInvalid: "assert_invalid",
	KwAssertUnlinkable: "assert_unlinkable", KwAssertTrap: "assert_trap",
	KwAssertReturn: "assert_return", KwAssertExhaustion: "assert_exhaustion",
	KwBinary: "binary", KwQuote: "quote",
	KwRefAny: "ref.any", KwRefFuncResult: "ref.func", KwRefNullResult: "ref.null", KwRefHost: "ref.host",
	KwNanCanonical: "nan:canonical", KwNanArithmetic: "nan:arithmetic",
	OpUnreachable: "unreachable", OpNop: "nop", OpReturn: "return", OpDrop: "drop",
	OpI32Eqz: "i32.eqz", OpI32Eq: "i32.eq", OpI32Ne: "i32.ne", OpI32LtS: "i32.lt_s", OpI32GtS: "i32.gt_s",
	OpI32Add: "i32.add", OpI32Sub: "i32.sub", OpI32Mul: "i32.mul",
	OpI32And: "i32.and", OpI32Or: "i32.or", OpI32Xor: "i32.xor",
	OpI32Ctz: "i32.ctz", OpI32Clz: "i32.clz", OpI64Add: "i64.add", OpI64Eqz: "i64.eqz",
	OpF32Add: "f32.add", OpF64Add: "f64.add", OpI32WrapI64: "i32.wrap_i64",
	OpI32Extend8S: "i32.extend8_s", OpMemorySize: "memory.size", OpMemoryGrow: "memory.grow",
	OpRefIsNull: "ref.is_null",
	OpBr: "br", OpLocalGet: "local.get", OpLocalSet: "local.set", OpLocalTee: "local.tee",
	OpGlobalGet: "global.get", OpGlobalSet: "global.set", OpCall: "call",
	OpTableGet: "table.get", OpTableSet: "table.set", OpTableSize: "table.size",
	OpTableGrow: "table.grow", OpTableFill: "table.fill",
	OpElemDrop: "elem.drop", OpDataDrop: "data.drop", OpRefFunc: "ref.func",
	OpReturnCall: "return_call",
	OpBrTable:    "br_table",
	OpBrOnExn:    "br_on_exn",
	OpCallIndirect: "call_indirect", OpReturnCallIndirect: "return_call_indirect",
	OpI32Load: "i32.load", OpI64Load: "i64.load", OpF32Load: "f32.load", OpF64Load: "f64.load",
	OpI32Store: "i32.store", OpI64Store: "i64.store", OpF32Store: "f32.store", OpF64Store: "f64.store",
	OpI32Load8S: "i32.load8_s", OpI32Load8U: "i32.load8_u", OpV128Load: "v128.load",
	OpI32Const: "i32.const", OpI64Const: "i64.const", OpF32Const: "f32.const", OpF64Const: "f64.const",
	OpV128Const: "v128.const",
	OpI8x16ExtractLaneS: "i8x16.extract_lane_s", OpI8x16ReplaceLane: "i8x16.replace_lane",
	OpI8x16Shuffle: "i8x16.shuffle",
	OpBlock: "block", OpLoop: "loop", OpIf: "if", OpTryOp: "try",
	OpSelect: "select",
	OpTableCopy: "table.copy", OpTableInit: "table.init",
	OpThrow: "throw", OpRethrow: "rethrow",
	OpEnd: "end", OpElse: "else", OpCatch: "catch", OpCatchAll: "catch_all",
}

func (k Kind) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return "unknown"
}
