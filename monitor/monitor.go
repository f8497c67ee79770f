// Package monitor implements an interactive terminal debugger: a register
// and flag readout, a memory page centered on PC, and single-step control.
// It is illustrative scaffolding around the core engine, not part of it.
package monitor

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"i8080emu/cpu"
	"i8080emu/disassemble"
	"i8080emu/memory"
)

const bytesPerRow = 16

type model struct {
	engine *cpu.Engine
	mem    memory.Bank

	prevPC uint16
	err    error
	quit   bool
}

// New builds a monitor attached to an already-initialized engine and its
// memory. Run starts the interactive loop.
func New(e *cpu.Engine, mem memory.Bank) *model {
	return &model{engine: e, mem: mem}
}

// Run starts the TUI event loop and blocks until the user quits or the
// event loop itself fails.
func (m *model) Run() error {
	p := tea.NewProgram(*m)
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		case " ", "s":
			m.prevPC = m.engine.PC
			m.engine.Step()
		}
	}
	return m, nil
}

func (m model) registers() string {
	return fmt.Sprintf(
		"PC: %04X (was %04X)\nSP: %04X\n A: %02X   FLAGS: %s\n BC: %04X  DE: %04X  HL: %04X\nHALT: %-5v  INTE: %-5v",
		m.engine.PC, m.prevPC,
		m.engine.SP,
		m.engine.A, flagString(m.engine),
		m.engine.BC(), m.engine.DE(), m.engine.HL(),
		m.engine.Halted(), m.engine.InterruptsEnabled(),
	)
}

func flagString(e *cpu.Engine) string {
	bit := func(set bool, name byte) byte {
		if set {
			return name
		}
		return '-'
	}
	return string([]byte{
		bit(e.Sign(), 'S'),
		bit(e.Zero(), 'Z'),
		bit(e.AuxCarry(), 'A'),
		bit(e.Parity(), 'P'),
		bit(e.Carry(), 'C'),
	})
}

// page renders bytesPerRow bytes per row, rows rows, centered as closely as
// possible on the engine's current PC.
func (m model) page() string {
	start := m.engine.PC - m.engine.PC%bytesPerRow
	const rows = 8
	if int(start) < rows/2*bytesPerRow {
		start = 0
	} else {
		start -= uint16(rows / 2 * bytesPerRow)
	}

	var lines []string
	addr := start
	for r := 0; r < rows; r++ {
		line := fmt.Sprintf("%04X | ", addr)
		for c := 0; c < bytesPerRow; c++ {
			v := m.mem.Read(addr)
			if addr == m.engine.PC {
				line += fmt.Sprintf("[%02X]", v)
			} else {
				line += fmt.Sprintf(" %02X ", v)
			}
			addr++
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m model) disasm() string {
	text, _ := disassemble.Step(m.engine.PC, m.mem)
	return text
}

func (m model) View() string {
	if m.quit {
		return ""
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.page(),
		"",
		m.registers(),
		"",
		"next: "+m.disasm(),
		"",
		"space/s: step   q: quit",
	)
}
