package token

import "github.com/yuri91/wasp/lib/features"

// keywordEntry is one row of the macro-driven opcode/keyword table spec.md
// §9 describes: a data table indexed by name, rather than hand-written
// per-keyword branches.
type keywordEntry struct {
	kind    Kind
	feature features.Flag
	gated   bool // true if `feature` must be enabled for this keyword to lex as `kind`
}

var keywordTable = map[string]keywordEntry{
	"module": {kind: KwModule}, "type": {kind: KwType}, "import": {kind: KwImport},
	"export": {kind: KwExport}, "func": {kind: KwFunc}, "table": {kind: KwTable},
	"memory": {kind: KwMemory}, "global": {kind: KwGlobal},
	"event": {kind: KwEvent, feature: features.Exceptions, gated: true},
	"elem":  {kind: KwElem}, "data": {kind: KwData}, "start": {kind: KwStart},
	"param": {kind: KwParam}, "result": {kind: KwResult}, "local": {kind: KwLocal},
	"offset": {kind: KwOffset}, "item": {kind: KwItem},
	"declare": {kind: KwDeclare, feature: features.ReferenceTypes, gated: true},
	"mut":     {kind: KwMut, feature: features.MutableGlobals, gated: true},

	"block": {kind: OpBlock}, "loop": {kind: OpLoop}, "if": {kind: OpIf},
	"then": {kind: KwThen}, "else": {kind: KwElse},
	"try":       {kind: OpTryOp, feature: features.Exceptions, gated: true},
	"catch":     {kind: KwCatch, feature: features.Exceptions, gated: true},
	"catch_all": {kind: KwCatchAll, feature: features.Exceptions, gated: true},
	"end":       {kind: KwEnd},

	"register": {kind: KwRegister}, "invoke": {kind: KwInvoke}, "get": {kind: KwGet},
	"assert_malformed":  {kind: KwAssertMalformed},
	"assert_invalid":    {kind: KwAssertInvalid},
	"assert_unlinkable": {kind: KwAssertUnlinkable},
	"assert_trap":       {kind: KwAssertTrap},
	"assert_return":     {kind: KwAssertReturn},
	"assert_exhaustion": {kind: KwAssertExhaustion},
	"binary":            {kind: KwBinary}, "quote": {kind: KwQuote},
	"ref.any":  {kind: KwRefAny, feature: features.ReferenceTypes, gated: true},
	"ref.null": {kind: KwRefNullResult, feature: features.ReferenceTypes, gated: true},
	"ref.host": {kind: KwRefHost, feature: features.ReferenceTypes, gated: true},

	"i32": {kind: I32}, "i64": {kind: I64}, "f32": {kind: F32}, "f64": {kind: F64},
	"v128":      {kind: V128, feature: features.SIMD, gated: true},
	"funcref":   {kind: FuncRef},
	"externref": {kind: ExternRef, feature: features.ReferenceTypes, gated: true},
	"anyref":    {kind: AnyRef, feature: features.ReferenceTypes, gated: true},
	"hostref":   {kind: HostRef, feature: features.ReferenceTypes, gated: true},

	"unreachable": {kind: OpUnreachable}, "nop": {kind: OpNop}, "return": {kind: OpReturn},
	"drop": {kind: OpDrop},
	"i32.eqz": {kind: OpI32Eqz}, "i32.eq": {kind: OpI32Eq}, "i32.ne": {kind: OpI32Ne},
	"i32.lt_s": {kind: OpI32LtS}, "i32.gt_s": {kind: OpI32GtS},
	"i32.add": {kind: OpI32Add}, "i32.sub": {kind: OpI32Sub}, "i32.mul": {kind: OpI32Mul},
	"i32.and": {kind: OpI32And}, "i32.or": {kind: OpI32Or}, "i32.xor": {kind: OpI32Xor},
	"i32.ctz": {kind: OpI32Ctz}, "i32.clz": {kind: OpI32Clz},
	"i64.add": {kind: OpI64Add}, "i64.eqz": {kind: OpI64Eqz},
	"f32.add": {kind: OpF32Add}, "f64.add": {kind: OpF64Add},
	"i32.wrap_i64": {kind: OpI32WrapI64},
	"i32.extend8_s": {kind: OpI32Extend8S, feature: features.SignExtension, gated: true},
	"memory.size": {kind: OpMemorySize}, "memory.grow": {kind: OpMemoryGrow},
	"ref.is_null": {kind: OpRefIsNull, feature: features.ReferenceTypes, gated: true},

	"br": {kind: OpBr}, "local.get": {kind: OpLocalGet}, "local.set": {kind: OpLocalSet},
	"local.tee": {kind: OpLocalTee}, "global.get": {kind: OpGlobalGet}, "global.set": {kind: OpGlobalSet},
	"call": {kind: OpCall},
	"table.get": {kind: OpTableGet, feature: features.ReferenceTypes, gated: true},
	"table.set": {kind: OpTableSet, feature: features.ReferenceTypes, gated: true},
	"table.size": {kind: OpTableSize, feature: features.BulkMemory, gated: true},
	"table.grow": {kind: OpTableGrow, feature: features.BulkMemory, gated: true},
	"table.fill": {kind: OpTableFill, feature: features.BulkMemory, gated: true},
	"elem.drop": {kind: OpElemDrop, feature: features.BulkMemory, gated: true},
	"data.drop": {kind: OpDataDrop, feature: features.BulkMemory, gated: true},
	"ref.func":  {kind: OpRefFunc, feature: features.ReferenceTypes, gated: true},
	"return_call": {kind: OpReturnCall, feature: features.TailCall, gated: true},

	"br_table": {kind: OpBrTable},
	"br_on_exn": {kind: OpBrOnExn, feature: features.Exceptions, gated: true},

	"call_indirect":        {kind: OpCallIndirect},
	"return_call_indirect": {kind: OpReturnCallIndirect, feature: features.TailCall, gated: true},

	"i32.load": {kind: OpI32Load}, "i64.load": {kind: OpI64Load},
	"f32.load": {kind: OpF32Load}, "f64.load": {kind: OpF64Load},
	"i32.store": {kind: OpI32Store}, "i64.store": {kind: OpI64Store},
	"f32.store": {kind: OpF32Store}, "f64.store": {kind: OpF64Store},
	"i32.load8_s": {kind: OpI32Load8S}, "i32.load8_u": {kind: OpI32Load8U},
	"v128.load": {kind: OpV128Load, feature: features.SIMD, gated: true},

	"i32.const": {kind: OpI32Const}, "i64.const": {kind: OpI64Const},
	"f32.const": {kind: OpF32Const}, "f64.const": {kind: OpF64Const},

	"v128.const": {kind: OpV128Const, feature: features.SIMD, gated: true},

	"i8x16.extract_lane_s": {kind: OpI8x16ExtractLaneS, feature: features.SIMD, gated: true},
	"i8x16.replace_lane":   {kind: OpI8x16ReplaceLane, feature: features.SIMD, gated: true},
	"i8x16.shuffle":        {kind: OpI8x16Shuffle, feature: features.SIMD, gated: true},

	"select": {kind: OpSelect},

	"table.copy": {kind: OpTableCopy, feature: features.BulkMemory, gated: true},
	"table.init": {kind: OpTableInit, feature: features.BulkMemory, gated: true},

	"throw":   {kind: OpThrow, feature: features.Exceptions, gated: true},
	"rethrow": {kind: OpRethrow, feature: features.Exceptions, gated: true},

	"nan:canonical":  {kind: KwNanCanonical},
	"nan:arithmetic": {kind: KwNanArithmetic},
}

// LookupKeyword classifies an identifier-shaped run of idChars against the
// keyword/opcode table for the given feature set. It returns
// (Reserved, false) for anything not in the table, and for a table entry
// gated by a disabled feature.
func LookupKeyword(text string, enabled *features.Set) (Kind, bool) {
	entry, ok := keywordTable[text]
	if !ok {
		return Reserved, false
	}
	if entry.gated && (enabled == nil || !enabled.Has(entry.feature)) {
		return Reserved, false
	}
	return entry.kind, true
}

// IsGatedOff reports whether text names a real keyword/opcode that lexed
// to Reserved only because its feature is disabled under enabled, as
// opposed to not being a keyword at all. The reader uses this to tell
// "value type X not allowed" / "X instruction not allowed" apart from a
// genuinely unrecognised token (spec.md §4.3).
func IsGatedOff(text string, enabled *features.Set) bool {
	entry, ok := keywordTable[text]
	return ok && entry.gated && (enabled == nil || !enabled.Has(entry.feature))
}
