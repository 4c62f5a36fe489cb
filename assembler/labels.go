// labels.go - EQU harvest, label/mnemonic classification, and the Origin
// type used by the size and encode passes (spec.md §4.4 steps 4-5, 8)
//
// DESIGN.md records the ordering decision this file implements: rather
// than spec.md's literal step order (label resolution before macro
// expansion), labels are resolved on the fully macro-expanded,
// conditional-filtered line stream, because only that stream has a
// well-defined per-line byte size. Two walks over that same stream are
// performed - one to fix label addresses (sizeWalk, in assembler.go),
// one to emit bytes (encodeWalk) - rather than one pass with forward-
// reference patching, following the two-pass structure spec.md §2's
// table and §4.4's heading both name.

package assembler

import "strings"

// Origin is an (emitted-offset, load-address) pair produced by ORG.
type Origin struct {
	Offset   int
	LoadAddr uint16
}

// classifyLabel strips a leading "name:" or "name::" declaration from t,
// reporting whether "::" (macro global escape) was used.
func classifyLabel(t string) (label string, global bool, rest string) {
	if t == "" || !isIdentStart(t[0]) {
		return "", false, t
	}
	i := 1
	for i < len(t) && isIdentChar(t[i]) {
		i++
	}
	name := t[:i]
	if i+1 < len(t) && t[i] == ':' && t[i+1] == ':' {
		return name, true, strings.TrimSpace(t[i+2:])
	}
	if i < len(t) && t[i] == ':' {
		return name, false, strings.TrimSpace(t[i+1:])
	}
	return "", false, t
}

// splitMnemonic separates a statement into its mnemonic and raw operand
// text.
func splitMnemonic(t string) (mnemonic string, operandText string) {
	fs := strings.Fields(t)
	if len(fs) == 0 {
		return "", ""
	}
	mnemonic = fs[0]
	operandText = strings.TrimSpace(strings.TrimPrefix(t, mnemonic))
	return mnemonic, operandText
}

// harvestEquates evaluates every "name EQU expr" in lines immediately,
// against only the equates already seen (spec.md §4.4 step 4: EQU is
// resolved before labels exist). Duplicate EQU names are rejected.
func harvestEquates(lines []Line) (map[string]int32, error) {
	equates := make(map[string]int32)
	resolve := func(name string) (int32, bool) {
		v, ok := equates[name]
		return v, ok
	}
	for _, l := range lines {
		t := strings.TrimSpace(stripComment(l.Text))
		if t == "" {
			continue
		}
		_, _, rest := classifyLabel(t)
		fs := strings.Fields(rest)
		if len(fs) < 3 || fs[1] != "EQU" {
			continue
		}
		name := fs[0]
		if _, dup := equates[name]; dup {
			return nil, semanticf(l.Idx, "duplicate EQU %q", name)
		}
		exprText := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(strings.TrimPrefix(rest, name)), "EQU"))
		v, err := EvalExpr(l.Idx, exprText, 0, resolve)
		if err != nil {
			return nil, err
		}
		equates[name] = v
	}
	return equates, nil
}
