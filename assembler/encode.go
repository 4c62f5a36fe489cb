// encode.go - per-instruction size/opcode tables and the final encoder
//
// Grounded on spec.md §4.4 step 10's operand-to-opcode rules and on the
// canonical register/pair orders spec.md §9 mandates. The donor's
// ie64asm.go encodes its one fixed-width instruction format with
// encodeInstruction(); the 8080's variable 1/2/3-byte formats instead
// need a per-mnemonic shape table, built here as two string sets (2-byte,
// 3-byte; every other known mnemonic is 1 byte) so InstrSize can be
// computed from the mnemonic alone, before any operand or symbol is
// resolved - that is what lets the label pass (sizeWalk in assembler.go)
// compute exact addresses in one walk without first encoding bytes.

package assembler

import "strings"

// regIndex maps a register name to its place in the canonical 8-way
// operand order: B,C,D,E,H,L,M,A.
var regIndex = map[string]byte{
	"B": 0, "C": 1, "D": 2, "E": 3, "H": 4, "L": 5, "M": 6, "A": 7,
}

var regName = [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}

// rpIndexSP is the pair order LXI/INX/DCX/DAD/STAX/LDAX use: B,D,H,SP.
var rpIndexSP = map[string]byte{"B": 0, "D": 1, "H": 2, "SP": 3}
var rpNameSP = [4]string{"B", "D", "H", "SP"}

// rpIndexPSW is the pair order PUSH/POP use: B,D,H,PSW.
var rpIndexPSW = map[string]byte{"B": 0, "D": 1, "H": 2, "PSW": 3}
var rpNamePSW = [4]string{"B", "D", "H", "PSW"}

// condCode maps an 8080 condition mnemonic suffix to its 3-bit cc field:
// NZ,Z,NC,C,PO,PE,P,M in that order (spec.md §4.3's checkCondition order).
var condCode = map[string]byte{
	"NZ": 0, "Z": 1, "NC": 2, "C": 3, "PO": 4, "PE": 5, "P": 6, "M": 7,
}
var condName = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}

var retMnemonic = map[string]byte{
	"RNZ": 0, "RZ": 1, "RNC": 2, "RC": 3, "RPO": 4, "RPE": 5, "RP": 6, "RM": 7,
}
var jmpMnemonic = map[string]byte{
	"JNZ": 0, "JZ": 1, "JNC": 2, "JC": 3, "JPO": 4, "JPE": 5, "JP": 6, "JM": 7,
}
var callMnemonic = map[string]byte{
	"CNZ": 0, "CZ": 1, "CNC": 2, "CC": 3, "CPO": 4, "CPE": 5, "CP": 6, "CM": 7,
}

var noOperandOpcode = map[string]byte{
	"NOP": 0x00, "RLC": 0x07, "RRC": 0x0F, "RAL": 0x17, "RAR": 0x1F,
	"DAA": 0x27, "CMA": 0x2F, "STC": 0x37, "CMC": 0x3F, "HLT": 0x76,
	"RET": 0xC9, "XTHL": 0xE3, "PCHL": 0xE9, "XCHG": 0xEB, "DI": 0xF3,
	"SPHL": 0xF9, "EI": 0xFB,
}

var aluBase = map[string]byte{
	"ADD": 0x80, "ADC": 0x88, "SUB": 0x90, "SBB": 0x98,
	"ANA": 0xA0, "XRA": 0xA8, "ORA": 0xB0, "CMP": 0xB8,
}

var aluImmBase = map[string]byte{
	"ADI": 0xC6, "ACI": 0xCE, "SUI": 0xD6, "SBI": 0xDE,
	"ANI": 0xE6, "XRI": 0xEE, "ORI": 0xF6, "CPI": 0xFE,
}

// twoByteMnemonics take one 8-bit immediate operand beyond the opcode.
var twoByteMnemonics = map[string]bool{
	"MVI": true, "ADI": true, "ACI": true, "SUI": true, "SBI": true,
	"ANI": true, "XRI": true, "ORI": true, "CPI": true, "IN": true, "OUT": true,
}

// threeByteMnemonics take a 16-bit address/immediate operand.
var threeByteMnemonics = map[string]bool{
	"LXI": true, "JMP": true, "CALL": true, "STA": true, "LDA": true,
	"SHLD": true, "LHLD": true,
}

func init() {
	for m := range jmpMnemonic {
		threeByteMnemonics[m] = true
	}
	for m := range callMnemonic {
		threeByteMnemonics[m] = true
	}
}

// InstrSize returns the byte length of mnemonic's encoding (1, 2, or 3),
// independent of its operands or any symbol value - spec.md §4.4's "byte
// size from the opcode-to-size map (1, 2, or 3 bytes per instruction)".
func InstrSize(mnemonic string) (int, bool) {
	mnemonic = strings.ToUpper(mnemonic)
	if twoByteMnemonics[mnemonic] {
		return 2, true
	}
	if threeByteMnemonics[mnemonic] {
		return 3, true
	}
	if isKnownMnemonic(mnemonic) {
		return 1, true
	}
	return 0, false
}

func isKnownMnemonic(m string) bool {
	if _, ok := noOperandOpcode[m]; ok {
		return true
	}
	if _, ok := aluBase[m]; ok {
		return true
	}
	if _, ok := aluImmBase[m]; ok {
		return true
	}
	if _, ok := retMnemonic[m]; ok {
		return true
	}
	if _, ok := jmpMnemonic[m]; ok {
		return true
	}
	if _, ok := callMnemonic[m]; ok {
		return true
	}
	switch m {
	case "MOV", "MVI", "LXI", "STAX", "LDAX", "INX", "DCX", "DAD",
		"INR", "DCR", "PUSH", "POP", "RST", "IN", "OUT",
		"STA", "LDA", "SHLD", "LHLD", "JMP", "CALL":
		return true
	}
	return false
}

func splitOperands(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// evalOperand evaluates an operand expression, narrowing to the given
// width (8 or 16 bits) as spec.md §4.4 requires on emission.
func evalOperand(line int, expr string, curAddr uint16, resolve Resolver, width int) (int32, error) {
	v, err := EvalExpr(line, expr, curAddr, resolve)
	if err != nil {
		return 0, err
	}
	if width == 8 {
		return int32(byte(v)), nil
	}
	return int32(uint16(v)), nil
}

// Encode produces the byte encoding of one instruction line, given its
// upper-cased mnemonic, raw operand text, and a resolver for symbols.
// curAddr is the byte address "$" should evaluate to.
func Encode(line int, mnemonic, operandText string, curAddr uint16, resolve Resolver) ([]byte, error) {
	m := strings.ToUpper(mnemonic)
	ops := splitOperands(operandText)

	if op, ok := noOperandOpcode[m]; ok {
		if len(ops) != 0 {
			return nil, syntaxf(line, "%s takes no operands", m)
		}
		return []byte{op}, nil
	}
	if cc, ok := retMnemonic[m]; ok {
		if len(ops) != 0 {
			return nil, syntaxf(line, "%s takes no operands", m)
		}
		return []byte{0xC0 | cc<<3}, nil
	}
	if cc, ok := jmpMnemonic[m]; ok {
		return encodeAddr(line, 0xC2|cc<<3, ops, curAddr, resolve)
	}
	if cc, ok := callMnemonic[m]; ok {
		return encodeAddr(line, 0xC4|cc<<3, ops, curAddr, resolve)
	}
	if base, ok := aluBase[m]; ok {
		return encodeReg(line, m, base, ops)
	}
	if base, ok := aluImmBase[m]; ok {
		return encodeImm8(line, m, base, ops, curAddr, resolve)
	}

	switch m {
	case "MOV":
		return encodeMov(line, ops)
	case "MVI":
		return encodeMvi(line, ops, curAddr, resolve)
	case "LXI":
		return encodeLxi(line, ops, curAddr, resolve)
	case "STAX":
		return encodeStaxLdax(line, 0x02, ops)
	case "LDAX":
		return encodeStaxLdax(line, 0x0A, ops)
	case "INX":
		return encodeRpOnly(line, 0x03, rpIndexSP, ops)
	case "DCX":
		return encodeRpOnly(line, 0x0B, rpIndexSP, ops)
	case "DAD":
		return encodeRpOnly(line, 0x09, rpIndexSP, ops)
	case "INR":
		return encodeRegOnly(line, 0x04, 3, ops)
	case "DCR":
		return encodeRegOnly(line, 0x05, 3, ops)
	case "PUSH":
		return encodeRpOnly(line, 0xC5, rpIndexPSW, ops)
	case "POP":
		return encodeRpOnly(line, 0xC1, rpIndexPSW, ops)
	case "RST":
		return encodeRst(line, ops, curAddr, resolve)
	case "IN":
		return encodeImm8(line, m, 0xDB, ops, curAddr, resolve)
	case "OUT":
		return encodeImm8(line, m, 0xD3, ops, curAddr, resolve)
	case "STA":
		return encodeAddr(line, 0x32, ops, curAddr, resolve)
	case "LDA":
		return encodeAddr(line, 0x3A, ops, curAddr, resolve)
	case "SHLD":
		return encodeAddr(line, 0x22, ops, curAddr, resolve)
	case "LHLD":
		return encodeAddr(line, 0x2A, ops, curAddr, resolve)
	case "JMP":
		return encodeAddr(line, 0xC3, ops, curAddr, resolve)
	case "CALL":
		return encodeAddr(line, 0xCD, ops, curAddr, resolve)
	}
	return nil, syntaxf(line, "unknown mnemonic %q", mnemonic)
}

func regIdx(line int, tok string) (byte, error) {
	idx, ok := regIndex[strings.ToUpper(tok)]
	if !ok {
		return 0, syntaxf(line, "expected a register name, found %q", tok)
	}
	return idx, nil
}

func encodeMov(line int, ops []string) ([]byte, error) {
	if len(ops) != 2 {
		return nil, syntaxf(line, "MOV requires two operands, got %d", len(ops))
	}
	dst, err := regIdx(line, ops[0])
	if err != nil {
		return nil, err
	}
	src, err := regIdx(line, ops[1])
	if err != nil {
		return nil, err
	}
	if dst == 6 && src == 6 {
		return nil, syntaxf(line, "MOV M,M is not a valid instruction (opcode 0x76 is HLT)")
	}
	return []byte{0x40 | dst<<3 | src}, nil
}

func encodeRegOnly(line int, base byte, shift uint, ops []string) ([]byte, error) {
	if len(ops) != 1 {
		return nil, syntaxf(line, "expected one register operand, got %d", len(ops))
	}
	idx, err := regIdx(line, ops[0])
	if err != nil {
		return nil, err
	}
	return []byte{base | idx<<shift}, nil
}

func encodeReg(line int, mnemonic string, base byte, ops []string) ([]byte, error) {
	if len(ops) != 1 {
		return nil, syntaxf(line, "%s requires one register operand, got %d", mnemonic, len(ops))
	}
	idx, err := regIdx(line, ops[0])
	if err != nil {
		return nil, err
	}
	return []byte{base | idx}, nil
}

func encodeMvi(line int, ops []string, curAddr uint16, resolve Resolver) ([]byte, error) {
	if len(ops) != 2 {
		return nil, syntaxf(line, "MVI requires a register and an immediate, got %d operands", len(ops))
	}
	idx, err := regIdx(line, ops[0])
	if err != nil {
		return nil, err
	}
	v, err := evalOperand(line, ops[1], curAddr, resolve, 8)
	if err != nil {
		return nil, err
	}
	return []byte{0x06 | idx<<3, byte(v)}, nil
}

func rpIdx(line int, tok string, table map[string]byte) (byte, error) {
	idx, ok := table[strings.ToUpper(tok)]
	if !ok {
		return 0, syntaxf(line, "expected a register pair, found %q", tok)
	}
	return idx, nil
}

func encodeLxi(line int, ops []string, curAddr uint16, resolve Resolver) ([]byte, error) {
	if len(ops) != 2 {
		return nil, syntaxf(line, "LXI requires a register pair and an immediate, got %d operands", len(ops))
	}
	rp, err := rpIdx(line, ops[0], rpIndexSP)
	if err != nil {
		return nil, err
	}
	v, err := evalOperand(line, ops[1], curAddr, resolve, 16)
	if err != nil {
		return nil, err
	}
	return []byte{0x01 | rp<<4, byte(v), byte(v >> 8)}, nil
}

func encodeRpOnly(line int, base byte, table map[string]byte, ops []string) ([]byte, error) {
	if len(ops) != 1 {
		return nil, syntaxf(line, "expected one register pair operand, got %d", len(ops))
	}
	rp, err := rpIdx(line, ops[0], table)
	if err != nil {
		return nil, err
	}
	return []byte{base | rp<<4}, nil
}

func encodeStaxLdax(line int, base byte, ops []string) ([]byte, error) {
	if len(ops) != 1 {
		return nil, syntaxf(line, "expected one register pair operand, got %d", len(ops))
	}
	rp, err := rpIdx(line, ops[0], rpIndexSP)
	if err != nil {
		return nil, err
	}
	if rp != 0 && rp != 1 {
		return nil, syntaxf(line, "STAX/LDAX only accept B or D, found %q", ops[0])
	}
	return []byte{base | rp<<4}, nil
}

func encodeRst(line int, ops []string, curAddr uint16, resolve Resolver) ([]byte, error) {
	if len(ops) != 1 {
		return nil, syntaxf(line, "RST requires one operand, got %d", len(ops))
	}
	n, err := evalOperand(line, ops[0], curAddr, resolve, 8)
	if err != nil {
		return nil, err
	}
	if n < 0 || n > 7 {
		return nil, syntaxf(line, "RST operand must be 0..7, got %d", n)
	}
	return []byte{0xC7 | byte(n)<<3}, nil
}

func encodeImm8(line int, mnemonic string, opcode byte, ops []string, curAddr uint16, resolve Resolver) ([]byte, error) {
	if len(ops) != 1 {
		return nil, syntaxf(line, "%s requires one operand, got %d", mnemonic, len(ops))
	}
	v, err := evalOperand(line, ops[0], curAddr, resolve, 8)
	if err != nil {
		return nil, err
	}
	return []byte{opcode, byte(v)}, nil
}

func encodeAddr(line int, opcode byte, ops []string, curAddr uint16, resolve Resolver) ([]byte, error) {
	if len(ops) != 1 {
		return nil, syntaxf(line, "expected one address operand, got %d", len(ops))
	}
	v, err := evalOperand(line, ops[0], curAddr, resolve, 16)
	if err != nil {
		return nil, err
	}
	return []byte{opcode, byte(v), byte(v >> 8)}, nil
}
