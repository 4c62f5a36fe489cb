// assembler.go - pipeline orchestration and the public Program/Source types
//
// Grounded on ie64asm.go's Assemble() top-level method, which runs
// preprocess -> expandPass -> per-line assembleLine/assembleDirective in
// sequence and returns the accumulated byte program; the same shape here
// fans out across more files because the 8080's variable-width encoding
// and two-pass label resolution need more bookkeeping than IE64's fixed
// 8-byte instructions.

package assembler

import "strings"

// Program is the assembled output: a byte vector plus the origins and
// line map spec.md §4.4/§6 describe. If Origins is empty, Bytes loads at
// address 0.
type Program struct {
	Bytes   []byte
	Origins []Origin
	LineMap map[uint16]int
}

// Source is the line-oriented view of the input text (Lines keep each
// line's raw text, comments included; String strips them), kept around for the pipeline's other passes and for echoing normalized
// source back to a caller (spec.md §3's AssemblerSource, and the donor
// test suite's display_with_code round-trip).
type Source struct {
	Lines []Line
}

// String reproduces the comment-stripped, trailing-whitespace-trimmed
// source, one line per original source line.
func (s *Source) String() string {
	var b strings.Builder
	for i, l := range s.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(stripComment(l.Text))
	}
	return b.String()
}

// NewSource splits raw text into lines without running the rest of the
// pipeline; comments are left in place until String is called.
func NewSource(text string) *Source {
	return &Source{Lines: SplitLines(text)}
}

// Assemble runs the full pipeline over source and returns the assembled
// Program, or the first error encountered (spec.md §7: fail-fast).
func Assemble(source string) (*Program, error) {
	lines := SplitLines(source)

	if err := validateEND(lines); err != nil {
		return nil, err
	}

	macros, rest, err := extractMacros(lines)
	if err != nil {
		return nil, err
	}

	equates, err := harvestEquates(rest)
	if err != nil {
		return nil, err
	}

	expanded, err := expandMacros(rest, macros)
	if err != nil {
		return nil, err
	}

	resolveEquates := func(name string) (int32, bool) {
		v, ok := equates[name]
		return v, ok
	}
	filtered, err := filterConditionals(expanded, resolveEquates)
	if err != nil {
		return nil, err
	}

	labels, origins, err := sizeWalk(filtered, equates)
	if err != nil {
		return nil, err
	}

	bytes, lineMap, err := encodeWalk(filtered, equates, labels)
	if err != nil {
		return nil, err
	}

	return &Program{Bytes: bytes, Origins: origins, LineMap: lineMap}, nil
}

// mergedResolver looks up sets, then equates, then labels, in that order
// so the most recently SET value always wins, matching spec.md §4.4 step
// 8's "permitting re-binding, unlike EQU".
func mergedResolver(sets, equates map[string]int32, labels map[string]uint16) Resolver {
	return func(name string) (int32, bool) {
		if v, ok := sets[name]; ok {
			return v, true
		}
		if v, ok := equates[name]; ok {
			return v, true
		}
		if v, ok := labels[name]; ok {
			return int32(v), true
		}
		return 0, false
	}
}

// sizeWalk is the first pass over the macro-expanded, conditional-
// filtered line stream: it resolves ORG, binds labels to addresses
// (deferring "empty" label-only lines to the next real instruction), and
// tracks SET values as it goes, since ORG/SET expressions may reference
// one another in file order. Instruction sizes come from InstrSize alone,
// so this pass never needs to encode an operand.
func sizeWalk(lines []Line, equates map[string]int32) (map[string]uint16, []Origin, error) {
	sets := make(map[string]int32)
	labels := make(map[string]uint16)
	resolve := mergedResolver(sets, equates, labels)

	var origins []Origin
	var pending []string
	addr := uint16(0)
	outLen := 0

	for _, l := range lines {
		t := strings.TrimSpace(stripComment(l.Text))
		if t == "" {
			continue
		}
		label, _, rest := classifyLabel(t)
		if label != "" {
			if reservedWords[label] {
				return nil, nil, syntaxf(l.Idx, "reserved word %q used as a label", label)
			}
			pending = append(pending, label)
			t = strings.TrimSpace(rest)
		}
		if t == "" {
			continue
		}
		fs := strings.Fields(t)
		switch {
		case len(fs) >= 2 && fs[1] == "EQU":
			// Top-level EQUs are already bound in equates by harvestEquates,
			// before macro expansion. A macro-local EQU's name only exists
			// after expandMacros rewrites it to a fresh global identifier,
			// so it never reached harvestEquates and must be bound here.
			name := fs[0]
			exprText := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(strings.TrimPrefix(t, name)), "EQU"))
			v, err := EvalExpr(l.Idx, exprText, addr, resolve)
			if err != nil {
				return nil, nil, err
			}
			equates[name] = v
			continue
		case len(fs) >= 2 && fs[1] == "SET":
			name := fs[0]
			exprText := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(strings.TrimPrefix(t, name)), "SET"))
			v, err := EvalExpr(l.Idx, exprText, addr, resolve)
			if err != nil {
				return nil, nil, err
			}
			sets[name] = v
			continue
		case fs[0] == "ORG":
			exprText := strings.TrimSpace(strings.TrimPrefix(t, "ORG"))
			v, err := EvalExpr(l.Idx, exprText, addr, resolve)
			if err != nil {
				return nil, nil, err
			}
			newAddr := uint16(v)
			if newAddr != addr {
				origins = append(origins, Origin{Offset: outLen, LoadAddr: newAddr})
			}
			addr = newAddr
			continue
		case fs[0] == "END":
			continue
		}

		for _, name := range pending {
			if _, dup := labels[name]; dup {
				return nil, nil, semanticf(l.Idx, "duplicate label %q", name)
			}
			if _, dup := equates[name]; dup {
				return nil, nil, semanticf(l.Idx, "label %q collides with an EQU of the same name", name)
			}
			labels[name] = addr
		}
		pending = nil

		mnemonic, _ := splitMnemonic(t)
		size, ok := InstrSize(mnemonic)
		if !ok {
			return nil, nil, syntaxf(l.Idx, "unknown mnemonic %q", mnemonic)
		}
		addr += uint16(size)
		outLen += size
	}

	if len(pending) > 0 {
		return nil, nil, semanticf(lines[len(lines)-1].Idx, "label(s) %s precede only empty lines through EOF", strings.Join(pending, ", "))
	}
	return labels, origins, nil
}

// encodeWalk is the second pass: it replays the same ORG/SET bookkeeping
// as sizeWalk (now with labels fully resolved) and encodes every real
// instruction line, building the line map as it goes (spec.md §4.4 step
// 8, and step 10's per-instruction encoding).
func encodeWalk(lines []Line, equates map[string]int32, labels map[string]uint16) ([]byte, map[uint16]int, error) {
	sets := make(map[string]int32)
	resolve := mergedResolver(sets, equates, labels)

	var out []byte
	lineMap := make(map[uint16]int)
	addr := uint16(0)

	for _, l := range lines {
		t := strings.TrimSpace(stripComment(l.Text))
		if t == "" {
			continue
		}
		_, _, rest := classifyLabel(t)
		t = strings.TrimSpace(rest)
		if t == "" {
			continue
		}
		fs := strings.Fields(t)
		switch {
		case len(fs) >= 2 && fs[1] == "EQU":
			name := fs[0]
			exprText := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(strings.TrimPrefix(t, name)), "EQU"))
			v, err := EvalExpr(l.Idx, exprText, addr, resolve)
			if err != nil {
				return nil, nil, err
			}
			equates[name] = v
			continue
		case len(fs) >= 2 && fs[1] == "SET":
			name := fs[0]
			exprText := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(strings.TrimPrefix(t, name)), "SET"))
			v, err := EvalExpr(l.Idx, exprText, addr, resolve)
			if err != nil {
				return nil, nil, err
			}
			sets[name] = v
			continue
		case fs[0] == "ORG":
			exprText := strings.TrimSpace(strings.TrimPrefix(t, "ORG"))
			v, err := EvalExpr(l.Idx, exprText, addr, resolve)
			if err != nil {
				return nil, nil, err
			}
			addr = uint16(v)
			continue
		case fs[0] == "END":
			continue
		}

		mnemonic, operandText := splitMnemonic(t)
		encoded, err := Encode(l.Idx, mnemonic, operandText, addr, resolve)
		if err != nil {
			return nil, nil, err
		}
		for i := range encoded {
			lineMap[addr+uint16(i)] = l.Idx
		}
		out = append(out, encoded...)
		addr += uint16(len(encoded))
	}
	return out, lineMap, nil
}
