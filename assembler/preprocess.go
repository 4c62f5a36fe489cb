// preprocess.go - line split/comment strip, END validation, macro
// extraction/expansion with local-name rewriting, and conditional
// assembly filtering (spec.md §4.4 steps 1-3, 6, 7, 9)
//
// Grounded on ie64asm.go's stripComment/preprocess/expandPass trio: a
// pass that strips comments line by line, a pass that collects MACRO...
// ENDM blocks by name, and a recursive expansion pass substituting
// parameters. The macro-local renaming scheme (fresh names A0..A9999,
// B0..B9999, ...) is spec.md §9's design note, not present in the donor
// (IE64 has no local-label macro scoping); it is new code grounded on
// that design note rather than on any IE64 source.

package assembler

import (
	"regexp"
	"strings"
)

// Line is one logical line of assembler source, tagged with the 0-based
// index of the original source line it descends from (for the line map).
type Line struct {
	Idx  int
	Text string
}

var macroNameRe = regexp.MustCompile(`^[A-Za-z@?][A-Za-z@?0-9]{0,4}$`)

var reservedWords = buildReservedWords()

func buildReservedWords() map[string]bool {
	r := map[string]bool{
		"ORG": true, "EQU": true, "SET": true, "END": true,
		"IF": true, "ENDIF": true, "MACRO": true, "ENDM": true,
		"A": true, "B": true, "C": true, "D": true, "E": true, "H": true,
		"L": true, "M": true, "SP": true, "PSW": true,
		"AND": true, "OR": true, "XOR": true, "NOT": true,
		"MOD": true, "SHL": true, "SHR": true,
	}
	for m := range noOperandOpcode {
		r[m] = true
	}
	for m := range aluBase {
		r[m] = true
	}
	for m := range aluImmBase {
		r[m] = true
	}
	for m := range retMnemonic {
		r[m] = true
	}
	for m := range jmpMnemonic {
		r[m] = true
	}
	for m := range callMnemonic {
		r[m] = true
	}
	for _, m := range []string{"MOV", "MVI", "LXI", "STAX", "LDAX", "INX", "DCX",
		"DAD", "INR", "DCR", "PUSH", "POP", "RST", "IN", "OUT",
		"STA", "LDA", "SHLD", "LHLD", "JMP", "CALL"} {
		r[m] = true
	}
	return r
}

// SplitLines splits source on \n or \r\n, preserving empty lines and
// their original index so the line map stays accurate.
func SplitLines(source string) []Line {
	raw := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	lines := make([]Line, len(raw))
	for i, t := range raw {
		lines[i] = Line{Idx: i, Text: t}
	}
	return lines
}

// stripComment removes a ';'-to-end-of-line comment and trailing
// whitespace.
func stripComment(text string) string {
	if i := strings.IndexByte(text, ';'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimRight(text, " \t")
}

func fields(text string) []string {
	return strings.Fields(text)
}

// validateEND checks that the significant line sequence - excluding bare
// ENDIF/ENDM lines - contains exactly one END directive, and that it is
// last.
func validateEND(lines []Line) error {
	var significant []Line
	for _, l := range lines {
		t := strings.TrimSpace(l.Text)
		if t == "" || t == "ENDIF" || t == "ENDM" {
			continue
		}
		significant = append(significant, l)
	}
	endCount := 0
	endPos := -1
	for i, l := range significant {
		if fs := fields(l.Text); len(fs) > 0 && fs[0] == "END" {
			endCount++
			endPos = i
		}
	}
	if endCount == 0 {
		return semanticf(len(lines)-1, "missing END directive")
	}
	if endCount > 1 {
		return semanticf(significant[endPos].Idx, "multiple END directives")
	}
	if endPos != len(significant)-1 {
		return semanticf(significant[endPos].Idx, "END must be the last statement")
	}
	return nil
}

// Macro holds a collected MACRO...ENDM definition.
type Macro struct {
	Name   string
	Params []string
	Body   []Line
}

// extractMacros scans lines for "<name> MACRO p1, p2, ..." ... "ENDM"
// blocks, validates the macro name, and returns the macros found plus the
// remaining lines with every macro definition removed.
func extractMacros(lines []Line) (map[string]*Macro, []Line, error) {
	macros := make(map[string]*Macro)
	var rest []Line
	i := 0
	for i < len(lines) {
		l := lines[i]
		t := strings.TrimSpace(stripComment(l.Text))
		fs := fields(t)
		if len(fs) >= 2 && fs[1] == "MACRO" {
			name := fs[0]
			if !macroNameRe.MatchString(name) {
				return nil, nil, syntaxf(l.Idx, "illegal macro name %q", name)
			}
			if reservedWords[name] {
				return nil, nil, syntaxf(l.Idx, "macro name %q is a reserved word", name)
			}
			if _, dup := macros[name]; dup {
				return nil, nil, semanticf(l.Idx, "duplicate macro %q", name)
			}
			paramText := strings.TrimSpace(strings.TrimPrefix(t, fs[0]))
			paramText = strings.TrimSpace(strings.TrimPrefix(paramText, "MACRO"))
			var params []string
			if paramText != "" {
				for _, p := range strings.Split(paramText, ",") {
					params = append(params, strings.TrimSpace(p))
				}
			}
			body, end, err := collectMacroBody(lines, i+1)
			if err != nil {
				return nil, nil, err
			}
			macros[name] = &Macro{Name: name, Params: params, Body: body}
			i = end + 1
			continue
		}
		if t == "ENDM" {
			return nil, nil, semanticf(l.Idx, "ENDM without matching MACRO")
		}
		rest = append(rest, l)
		i++
	}
	return macros, rest, nil
}

func collectMacroBody(lines []Line, start int) ([]Line, int, error) {
	var body []Line
	for i := start; i < len(lines); i++ {
		t := strings.TrimSpace(stripComment(lines[i].Text))
		if t == "ENDM" {
			return body, i, nil
		}
		if fs := fields(t); len(fs) >= 2 && fs[1] == "MACRO" {
			return nil, 0, semanticf(lines[i].Idx, "MACRO may not nest")
		}
		body = append(body, lines[i])
	}
	return nil, 0, semanticf(lines[len(lines)-1].Idx, "unclosed MACRO (missing ENDM)")
}

// substituteTokens replaces whole-token occurrences of map keys in text
// with their values. Identifier runs are the token unit, so a parameter
// name embedded inside a longer identifier is never touched - only a run
// bounded by operators/commas/whitespace/line-ends matches, resolving
// spec.md §9's Open Question (c).
func substituteTokens(text string, repl map[string]string) string {
	if len(repl) == 0 {
		return text
	}
	var b strings.Builder
	i := 0
	for i < len(text) {
		c := text[i]
		if isIdentStart(c) {
			j := i
			for j < len(text) && isIdentChar(text[j]) {
				j++
			}
			tok := text[i:j]
			if v, ok := repl[tok]; ok {
				b.WriteString(v)
			} else {
				b.WriteString(tok)
			}
			i = j
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

// freshNameGen produces globally-unique macro-local names from the
// sequence A0..A9999, B0..B9999, ..., Z9999 (spec.md §9), skipping any
// name already in used.
type freshNameGen struct {
	letter byte
	num    int
	used   map[string]bool
}

func newFreshNameGen(used map[string]bool) *freshNameGen {
	return &freshNameGen{letter: 'A', used: used}
}

func (g *freshNameGen) next() (string, bool) {
	for g.letter <= 'Z' {
		name := string(g.letter) + itoa(g.num)
		g.num++
		if g.num > 9999 {
			g.num = 0
			g.letter++
		}
		if !g.used[name] {
			g.used[name] = true
			return name, true
		}
	}
	return "", false
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// localDecl returns the name declared by a label/EQU/SET on this macro
// body line, and whether it is global-escaped (declared with "::").
func localDecl(text string) (name string, isLabel bool, isGlobal bool, ok bool) {
	t := strings.TrimSpace(text)
	if i := strings.Index(t, "::"); i > 0 && isIdentRun(t[:i]) {
		return t[:i], true, true, true
	}
	if i := strings.IndexByte(t, ':'); i > 0 && isIdentRun(t[:i]) {
		return t[:i], true, false, true
	}
	fs := fields(t)
	if len(fs) >= 2 && (fs[1] == "EQU" || fs[1] == "SET") && isIdentRun(fs[0]) {
		return fs[0], false, false, true
	}
	return "", false, false, false
}

func isIdentRun(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return true
}

// collectGlobalNames walks the non-macro line stream to seed the
// fresh-name generator's collision set: every label, EQU, and SET name
// already bound outside macros, plus every macro name, per spec.md §9.
func collectGlobalNames(lines []Line, macros map[string]*Macro) map[string]bool {
	used := make(map[string]bool)
	for name := range macros {
		used[name] = true
	}
	for _, l := range lines {
		t := strings.TrimSpace(stripComment(l.Text))
		if name, _, _, ok := localDecl(t); ok {
			used[name] = true
		}
	}
	return used
}

// macroCall, if line invokes a known macro, returns its name and argument
// list.
func macroCall(text string, macros map[string]*Macro) (*Macro, []string, bool) {
	t := strings.TrimSpace(text)
	fs := fields(t)
	if len(fs) == 0 {
		return nil, nil, false
	}
	mac, ok := macros[fs[0]]
	if !ok {
		return nil, nil, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(t, fs[0]))
	var args []string
	if rest != "" {
		for _, a := range strings.Split(rest, ",") {
			args = append(args, strings.TrimSpace(a))
		}
	}
	return mac, args, true
}

// expandMacros walks lines, replacing each macro invocation with a fresh,
// locally-renamed copy of the macro body (spec.md §4.4 steps 6-7).
// Sentinel markers with empty text bracket each expansion.
func expandMacros(lines []Line, macros map[string]*Macro) ([]Line, error) {
	if len(macros) == 0 {
		return lines, nil
	}
	used := collectGlobalNames(lines, macros)
	gen := newFreshNameGen(used)
	var out []Line
	for _, l := range lines {
		stripped := stripComment(l.Text)
		mac, args, ok := macroCall(stripped, macros)
		if !ok {
			out = append(out, l)
			continue
		}
		if len(args) > len(mac.Params) {
			return nil, syntaxf(l.Idx, "macro %s called with too many arguments", mac.Name)
		}
		paramRepl := make(map[string]string, len(mac.Params))
		for i, p := range mac.Params {
			if i < len(args) {
				paramRepl[p] = args[i]
			} else {
				paramRepl[p] = ""
			}
		}
		localRepl := make(map[string]string)
		for _, bl := range mac.Body {
			t := strings.TrimSpace(stripComment(bl.Text))
			name, _, isGlobal, declOK := localDecl(t)
			if declOK && !isGlobal {
				fresh, ok := gen.next()
				if !ok {
					return nil, semanticf(l.Idx, "exhausted macro-local name generator (Z9999)")
				}
				localRepl[name] = fresh
			}
		}
		out = append(out, Line{Idx: l.Idx, Text: ""})
		for _, bl := range mac.Body {
			text := substituteTokens(bl.Text, paramRepl)
			text = substituteTokens(text, localRepl)
			out = append(out, Line{Idx: bl.Idx, Text: text})
		}
		out = append(out, Line{Idx: l.Idx, Text: ""})
	}
	return out, nil
}

// filterConditionals evaluates IF/ENDIF blocks (single level, no nesting)
// and drops lines whose guarding IF evaluated to zero. resolve is only
// asked to resolve equates known ahead of label resolution, matching
// spec.md §4.4 step 9 running before step 5's full label table exists in
// this implementation's ordering (see DESIGN.md).
func filterConditionals(lines []Line, resolve Resolver) ([]Line, error) {
	var out []Line
	inIf := false
	ifLine := -1
	active := true
	for _, l := range lines {
		t := strings.TrimSpace(stripComment(l.Text))
		fs := fields(t)
		switch {
		case len(fs) >= 1 && fs[0] == "IF":
			if inIf {
				return nil, semanticf(l.Idx, "IF may not nest")
			}
			expr := strings.TrimSpace(strings.TrimPrefix(t, "IF"))
			v, err := EvalExpr(l.Idx, expr, 0, resolve)
			if err != nil {
				return nil, err
			}
			inIf = true
			ifLine = l.Idx
			active = v != 0
			continue
		case t == "ENDIF":
			if !inIf {
				return nil, semanticf(l.Idx, "ENDIF without matching IF")
			}
			inIf = false
			active = true
			continue
		}
		if active {
			out = append(out, l)
		}
	}
	if inIf {
		return nil, semanticf(ifLine, "unclosed IF (missing ENDIF)")
	}
	return out, nil
}
