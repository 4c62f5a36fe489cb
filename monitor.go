// monitor.go - interactive machine monitor (SPEC_FULL.md §3's supplemented
// feature, adapting the donor's debug_monitor.go/debug_commands.go)
//
// The donor's monitor is an Ebiten-rendered scrollback buffer with a
// freeze/resume state machine driven by a breakpoint channel across many
// CPUs. This is a single-core, line-oriented rewrite for a terminal: one
// command per line, no scrollback, no multi-CPU registry. What carries
// over is the shape, not the code: a small command table dispatching on
// the first token, register/memory/disassembly dump helpers, and the
// raw-mode enter/exit discipline terminal_host.go uses for direct
// keystroke capture.

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/moorts/go8080/assembler"
)

// Monitor is a line-oriented debugger REPL over a single CPU8080.
type Monitor struct {
	cpu        *CPU8080
	lineMap    map[uint16]int
	sourceLine func(idx int) string

	breakpoints map[uint16]bool

	out io.Writer
	in  *bufio.Reader
}

// NewMonitor builds a monitor over cpu. lineMap and sourceLine may be nil
// (no .asm was loaded, so pc-to-source annotation is skipped).
func NewMonitor(cpu *CPU8080, out io.Writer, in io.Reader, lineMap map[uint16]int, sourceLine func(int) string) *Monitor {
	return &Monitor{
		cpu:         cpu,
		lineMap:     lineMap,
		sourceLine:  sourceLine,
		breakpoints: make(map[uint16]bool),
		out:         out,
		in:          bufio.NewReader(in),
	}
}

// Run puts stdin into raw mode (if it is a terminal) and drives the
// command loop until "q" or EOF. fd is the file descriptor backing in;
// pass -1 to skip raw-mode handling entirely (e.g. when in is not a real
// terminal, such as in tests).
func (m *Monitor) Run(fd int) error {
	if fd >= 0 {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("monitor: enter raw mode: %w", err)
		}
		defer term.Restore(fd, oldState)
	}

	fmt.Fprintln(m.out, "8080 monitor - r/m/d/s/bp/c/q, ? for help")
	for {
		fmt.Fprint(m.out, "> ")
		line, err := m.readLine()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "q" {
			return nil
		}
		if err := m.dispatch(line); err != nil {
			fmt.Fprintln(m.out, err)
		}
	}
}

// readLine accumulates bytes until a carriage return or newline, handling
// raw-mode's CR-for-Enter and DEL-for-Backspace translation the way
// terminal_host.go does, and echoing characters back since raw mode
// disables the terminal's own echo.
func (m *Monitor) readLine() (string, error) {
	var buf []byte
	for {
		b, err := m.in.ReadByte()
		if err != nil {
			return "", err
		}
		switch {
		case b == '\r' || b == '\n':
			fmt.Fprint(m.out, "\r\n")
			return string(buf), nil
		case b == 0x7F || b == 0x08:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				fmt.Fprint(m.out, "\b \b")
			}
		case b == 0x03: // Ctrl-C
			return "", io.EOF
		default:
			buf = append(buf, b)
			fmt.Fprintf(m.out, "%c", b)
		}
	}
}

func (m *Monitor) dispatch(line string) error {
	fs := strings.Fields(line)
	switch fs[0] {
	case "r":
		m.showRegisters()
	case "m":
		return m.dumpMemory(fs[1:])
	case "d":
		return m.disassemble(fs[1:])
	case "s":
		return m.step()
	case "bp":
		return m.setBreakpoint(fs[1:])
	case "c":
		return m.cont()
	case "?":
		m.help()
	default:
		return fmt.Errorf("unknown command %q (? for help)", fs[0])
	}
	return nil
}

func (m *Monitor) help() {
	fmt.Fprintln(m.out, "r              show registers and flags")
	fmt.Fprintln(m.out, "m <addr> <n>   dump n bytes of memory from addr")
	fmt.Fprintln(m.out, "d <addr> <n>   disassemble n instructions from addr")
	fmt.Fprintln(m.out, "s              single-step one instruction")
	fmt.Fprintln(m.out, "bp <addr>      toggle a breakpoint")
	fmt.Fprintln(m.out, "c              continue until breakpoint or halt")
	fmt.Fprintln(m.out, "q              quit the monitor")
}

func (m *Monitor) showRegisters() {
	r := m.cpu.Reg
	fmt.Fprintf(m.out, "pc=%04X sp=%04X a=%02X bc=%04X de=%04X hl=%04X\n",
		m.cpu.PC, m.cpu.SP, r.A(), r.Get16(PairBC), r.Get16(PairDE), r.Get16(PairHL))
	flags := r.Flags()
	fmt.Fprintf(m.out, "flags=%02X [s=%t z=%t ac=%t p=%t cy=%t] running=%t ie=%t cycles=%d\n",
		flags,
		r.GetFlag(flagSign), r.GetFlag(flagZero), r.GetFlag(flagAux),
		r.GetFlag(flagParity), r.GetFlag(flagCarry),
		m.cpu.Running, m.cpu.InterruptsEnabled, m.cpu.Cycles)
	if idx, ok := m.lineMap[m.cpu.PC]; ok && m.sourceLine != nil {
		fmt.Fprintf(m.out, "source line %d: %s\n", idx+1, m.sourceLine(idx))
	}
}

func parseAddr(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToUpper(s), "0X"), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", s, err)
	}
	return uint16(v), nil
}

func (m *Monitor) dumpMemory(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: m <addr> <n>")
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n <= 0 {
		return fmt.Errorf("bad length %q", args[1])
	}
	data := m.cpu.Mem.Slice(addr, n)
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		row := data[i:end]
		fmt.Fprintf(m.out, "%04X:", int(addr)+i)
		for _, b := range row {
			fmt.Fprintf(m.out, " %02X", b)
		}
		fmt.Fprintln(m.out)
	}
	return nil
}

func (m *Monitor) disassemble(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: d <addr> <n>")
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n <= 0 {
		return fmt.Errorf("bad count %q", args[1])
	}
	pos := addr
	for i := 0; i < n; i++ {
		data := m.cpu.Mem.Slice(pos, 3)
		text, size, err := assembler.DecodeOne(data, 0)
		if err != nil {
			fmt.Fprintf(m.out, "%04X: ?\n", pos)
			pos++
			continue
		}
		fmt.Fprintf(m.out, "%04X: %s\n", pos, text)
		pos += uint16(size)
	}
	return nil
}

func (m *Monitor) step() error {
	if _, err := m.cpu.ExecuteNext(); err != nil {
		return err
	}
	m.showRegisters()
	return nil
}

func (m *Monitor) setBreakpoint(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: bp <addr>")
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		return err
	}
	if m.breakpoints[addr] {
		delete(m.breakpoints, addr)
		fmt.Fprintf(m.out, "cleared breakpoint at %04X\n", addr)
	} else {
		m.breakpoints[addr] = true
		fmt.Fprintf(m.out, "set breakpoint at %04X\n", addr)
	}
	return nil
}

func (m *Monitor) cont() error {
	err := m.cpu.Run(func(c *CPU8080) bool {
		return m.breakpoints[c.PC]
	})
	if err != nil {
		return err
	}
	m.showRegisters()
	return nil
}
